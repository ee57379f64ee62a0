package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/fashionfiesta/helpdesk/internal/config"
)

func TestMailerSimulatesWithoutHost(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{From: "support@fashionfiesta.com"}, zap.NewNop())

	result := m.Send(context.Background(), Message{
		To:      "customer@example.com",
		Subject: "New reply on your support ticket",
		Body:    "hello",
	})

	assert.True(t, result.Delivered)
	assert.True(t, result.Simulated)
	assert.NotEmpty(t, result.MessageID)
	assert.NoError(t, result.Err)
}

func TestMailerReportsTransportFailure(t *testing.T) {
	// port 1 is never listening; delivery must fail without panicking
	m := NewSMTPMailer(config.SMTPConfig{
		Host: "127.0.0.1",
		Port: 1,
		From: "support@fashionfiesta.com",
	}, zap.NewNop())

	result := m.Send(context.Background(), Message{To: "customer@example.com", Subject: "s", Body: "b"})

	assert.False(t, result.Delivered)
	assert.False(t, result.Simulated)
	assert.Error(t, result.Err)
}
