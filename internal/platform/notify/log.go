package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes notifications to the structured log. Used when no
// Discord credentials are configured.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Send(ctx context.Context, recipient string, subject string, body string) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("notification",
		"event", "notify_logged",
		"module", "internal/platform/notify",
		"layer", "platform",
		"recipient", recipient,
		"subject", subject,
		"body", body,
	)
	return nil
}
