// Package notify renders and sends candidate status emails.
package notify

import (
	"context"
	"time"

	"hirescore/internal/config"
	"hirescore/internal/logging"
	"hirescore/pkg/models"
)

// Notifier sends status change emails to candidates
type Notifier struct {
	sender  Sender
	from    string
	timeout time.Duration
	logger  logging.Logger
}

func NewNotifier(cfg *config.Config, sender Sender, logger logging.Logger) *Notifier {
	return &Notifier{
		sender:  sender,
		from:    cfg.Email.From,
		timeout: cfg.Notifications.SendTimeout,
		logger:  logger.WithField("component", "notifier"),
	}
}

// NotifyStatusChange reports whether the transport accepted the email.
// Failures are logged and never returned.
func (n *Notifier) NotifyStatusChange(ctx context.Context, notification models.StatusNotification) bool {
	fields := map[string]interface{}{
		"application_id": notification.ApplicationID,
		"job_id":         notification.JobID,
		"status":         string(notification.Status),
		"provider":       n.sender.Name(),
	}

	msg, err := Render(n.from, notification)
	if err != nil {
		fields["error"] = err.Error()
		n.logger.Error("Failed to render status email", fields)
		return false
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	messageID, err := n.sender.Send(ctx, msg)
	if err != nil {
		fields["error"] = err.Error()
		n.logger.Error("Failed to send status email", fields)
		return false
	}

	fields["message_id"] = messageID
	n.logger.Info("Status email sent", fields)
	return true
}
