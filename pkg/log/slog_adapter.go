package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger.
// Useful for development when you want to see protocol events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("direction", event.Direction.String()),
		slog.String("category", event.Category.String()),
	}

	if event.AppID != "" {
		attrs = append(attrs, slog.String("app_id", event.AppID))
	}
	if event.AppName != "" {
		attrs = append(attrs, slog.String("app_name", event.AppName))
	}

	switch {
	case event.Message != nil:
		attrs = append(attrs, slog.Int("entries", event.Message.Entries))
		if len(event.Message.Markers) > 0 {
			attrs = append(attrs, slog.Any("markers", markerNames(event.Message.Markers)))
		}
		if event.Message.ErrorCode != nil {
			attrs = append(attrs, slog.String("error_code", event.Message.ErrorCode.String()))
		}
		if event.Message.ProcessingTime != nil {
			attrs = append(attrs, slog.Duration("processing_time", *event.Message.ProcessingTime))
		}
	case event.Drop != nil:
		attrs = append(attrs, slog.String("reason", event.Drop.Reason))
	case event.Notification != nil:
		attrs = append(attrs, slog.Uint64("feature", uint64(event.Notification.Feature)))
	case event.Error != nil:
		attrs = append(attrs, slog.String("error", event.Error.Message))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol event", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
