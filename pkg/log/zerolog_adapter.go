package log

import (
	"github.com/dash-protocol/dash-go/pkg/wire"
	"github.com/rs/zerolog"
)

// ZerologAdapter writes protocol events to a zerolog.Logger.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter creates a new ZerologAdapter writing to the given logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// Log writes the event at Debug level.
func (a *ZerologAdapter) Log(event Event) {
	e := a.logger.Debug().
		Str("direction", event.Direction.String()).
		Str("category", event.Category.String())

	if event.AppID != "" {
		e = e.Str("app_id", event.AppID)
	}
	if event.AppName != "" {
		e = e.Str("app_name", event.AppName)
	}

	switch {
	case event.Message != nil:
		e = e.Int("entries", event.Message.Entries)
		if len(event.Message.Markers) > 0 {
			e = e.Strs("markers", markerNames(event.Message.Markers))
		}
		if event.Message.ErrorCode != nil {
			e = e.Str("error_code", event.Message.ErrorCode.String())
		}
		if event.Message.ProcessingTime != nil {
			e = e.Dur("processing_time", *event.Message.ProcessingTime)
		}
	case event.Drop != nil:
		e = e.Str("reason", event.Drop.Reason)
	case event.Notification != nil:
		e = e.Uint32("feature", event.Notification.Feature)
	case event.Error != nil:
		e = e.Str("error", event.Error.Message)
	}

	e.Msg("protocol event")
}

// markerNames resolves request type keys to their symbolic names.
func markerNames(markers []uint32) []string {
	names := make([]string, len(markers))
	for i, m := range markers {
		names[i] = wire.KeyName(m)
	}
	return names
}

// Compile-time interface satisfaction check.
var _ Logger = (*ZerologAdapter)(nil)
