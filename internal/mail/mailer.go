package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fashionfiesta/helpdesk/internal/config"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Result reports the outcome of a single delivery attempt. Simulated is set
// when no SMTP host is configured and the message was only logged.
type Result struct {
	Delivered bool
	Simulated bool
	MessageID string
	Err       error
}

// Mailer performs single best-effort email deliveries. It never panics and
// never returns an error: transport failures are folded into the Result.
type Mailer interface {
	Send(ctx context.Context, msg Message) Result
}

type smtpMailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewSMTPMailer builds a mailer from SMTP config. With an empty host the
// mailer runs in log-only simulation so callers see the same control flow
// in every environment.
func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) Mailer {
	return &smtpMailer{cfg: cfg, logger: logger}
}

func (m *smtpMailer) Send(_ context.Context, msg Message) Result {
	messageID := uuid.NewString()

	if strings.TrimSpace(m.cfg.Host) == "" {
		m.logger.Info("email simulated (no SMTP host configured)",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.String("message_id", messageID))
		return Result{Delivered: true, Simulated: true, MessageID: messageID}
	}

	var headers []string
	headers = append(headers, fmt.Sprintf("From: %s", m.cfg.From))
	headers = append(headers, fmt.Sprintf("To: %s", msg.To))
	headers = append(headers, fmt.Sprintf("Subject: %s", msg.Subject))
	headers = append(headers, "MIME-Version: 1.0")
	headers = append(headers, "Content-Type: text/plain; charset=UTF-8")
	payload := strings.Join(headers, "\r\n") + "\r\n\r\n" + msg.Body

	addr := m.cfg.Host + ":" + strconv.Itoa(m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{msg.To}, []byte(payload)); err != nil {
		m.logger.Warn("email delivery failed",
			zap.String("to", msg.To),
			zap.Error(err))
		return Result{Delivered: false, MessageID: messageID, Err: err}
	}

	return Result{Delivered: true, MessageID: messageID}
}
