package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fashionfiesta/helpdesk/internal/observability"
	apperrors "github.com/fashionfiesta/helpdesk/pkg/util/errorutil"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	// the logger wraps the error middleware so it records the status the
	// client actually receives, not the pre-conversion 200
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware converts any returned error into the standard
// {success:false, message} envelope with the status the error carries.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				var fiberErr *fiber.Error
				status := 0
				code := ""
				message := ""
				if errors.As(err, &fiberErr) {
					status = fiberErr.Code
					code = "HTTP_ERROR"
					message = fiberErr.Message
				} else {
					domainErr := apperrors.ToDomainError(err)
					status = domainErr.HTTPStatus
					code = domainErr.Code
					message = domainErr.Message
					if status >= 500 {
						logger.Error("request failed", zap.Error(domainErr))
					}
				}
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), code)
				}
				c.Status(status)
				_ = c.JSON(fiber.Map{
					"success": false,
					"message": message,
				})
				err = nil
			}
		}()
		return c.Next()
	}
}
