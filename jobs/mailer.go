package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/hibiken/asynq"
)

// Mailer delivers queued emails over SMTP.
type Mailer struct {
	Host   string
	Port   int
	From   string
	Logger *slog.Logger
}

// HandleSendEmail processes TaskTypeSendEmail tasks.
func (m *Mailer) HandleSendEmail(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	msg := []byte("From: " + m.From + "\r\n" +
		"To: " + payload.To + "\r\n" +
		"Subject: " + payload.Subject + "\r\n" +
		"\r\n" + payload.Body + "\r\n")
	if err := smtp.SendMail(addr, nil, m.From, []string{payload.To}, msg); err != nil {
		if m.Logger != nil {
			m.Logger.Error("send email", slog.String("to", payload.To), slog.Any("error", err))
		}
		return err
	}
	if m.Logger != nil {
		m.Logger.Info("email sent", slog.String("to", payload.To), slog.String("subject", payload.Subject))
	}
	return nil
}
