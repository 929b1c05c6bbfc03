package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"hirescore/internal/config"
	"hirescore/internal/logging"
	"hirescore/pkg/utils"
)

// Sender hands a rendered message to an email transport and returns its message id
type Sender interface {
	Send(ctx context.Context, msg *Message) (string, error)
	Name() string
}

// NewSender creates the sender selected by cfg.Email.Provider
func NewSender(cfg *config.Config, logger logging.Logger) (Sender, error) {
	switch cfg.Email.Provider {
	case "resend":
		if cfg.Email.APIKey == "" {
			return nil, fmt.Errorf("resend provider requires RESEND_API_KEY")
		}
		return NewResendSender(resend.NewClient(cfg.Email.APIKey)), nil
	case "log":
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Email.Provider)
	}
}

// ResendSender delivers through the Resend API
type ResendSender struct {
	client *resend.Client
}

func NewResendSender(client *resend.Client) *ResendSender {
	return &ResendSender{client: client}
}

func (s *ResendSender) Send(ctx context.Context, msg *Message) (string, error) {
	resp, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return "", fmt.Errorf("resend: %w", err)
	}
	return resp.Id, nil
}

func (s *ResendSender) Name() string { return "resend" }

// LogSender writes messages to the log instead of sending them. Used in development.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg *Message) (string, error) {
	id := utils.GenerateID()
	s.logger.Info("Email not sent, log provider selected", map[string]interface{}{
		"message_id": id,
		"to":         msg.To,
		"subject":    msg.Subject,
		"body":       utils.TruncateForLog(msg.Text, 500),
	})
	return id, nil
}

func (s *LogSender) Name() string { return "log" }
