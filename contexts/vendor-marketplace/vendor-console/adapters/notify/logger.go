package notify

import (
	"context"
	"log/slog"

	"vendorhub/contexts/vendor-marketplace/vendor-console/domain/entities"
)

// Logger writes notifications to structured logs.
type Logger struct {
	Logger *slog.Logger
}

func (n Logger) Notify(ctx context.Context, notification entities.Notification) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	if notification.Variant == entities.VariantDestructive {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, notification.Title,
		"event", "console_notification",
		"module", "vendor-marketplace/vendor-console",
		"layer", "adapter",
		"variant", string(notification.Variant),
		"description", notification.Description,
	)
}
