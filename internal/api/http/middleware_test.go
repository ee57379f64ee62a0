package http

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fashionfiesta/helpdesk/internal/observability"
	apperrors "github.com/fashionfiesta/helpdesk/pkg/util/errorutil"
)

func TestErrorMiddlewareEnvelope(t *testing.T) {
	metrics := observability.NewMetrics()
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, time.Second)
	app.Get("/boom", func(c *fiber.Ctx) error {
		return apperrors.NewForbidden("nope")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 403, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"message":"nope"}`, string(body))
}

func TestRequestLoggerRecordsConvertedStatus(t *testing.T) {
	metrics := observability.NewMetrics()
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, time.Second)
	app.Get("/boom", func(c *fiber.Ctx) error {
		return apperrors.NewForbidden("nope")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	resp.Body.Close()

	requests, errCounts := metrics.Snapshot()
	// the request counter must carry the status the client saw
	assert.Contains(t, requests, "/boom|GET|403")
	assert.NotContains(t, requests, "/boom|GET|200")
	assert.Contains(t, errCounts, "/boom|GET|FORBIDDEN")
}
