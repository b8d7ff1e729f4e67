// Package notifier delivers price-change notifications. All sinks share
// the Send(ctx, notification) shape so the runner does not care where an
// alert lands.
package notifier

import (
	"context"
	"log/slog"

	"offerwatch/internal/domain/entity"
	"offerwatch/pkg/contextx"
	"offerwatch/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Log writes notifications to the structured log. The default sink and
// the fallback for headless deployments.
type Log struct{}

func NewLog() *Log {
	return &Log{}
}

func (n *Log) Send(ctx context.Context, notification entity.Notification) error {
	logger(ctx).Info(
		"price change",
		slog.String(logx.FieldProduct, notification.Title),
		slog.String("body", notification.Body),
	)

	return nil
}
