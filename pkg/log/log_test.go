package log

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/dash-protocol/dash-go/pkg/wire"
	"github.com/rs/zerolog"
)

func sampleEvent(appID string, dir Direction) Event {
	code := wire.ErrorCodeSuccess
	dur := 15 * time.Millisecond
	return Event{
		Timestamp: time.Now().UTC(),
		AppID:     appID,
		AppName:   "Watchface",
		Direction: dir,
		Category:  CategoryMessage,
		Message: &MessageEvent{
			Markers:        []uint32{wire.RequestTypeGetData},
			Entries:        5,
			ErrorCode:      &code,
			ProcessingTime: &dur,
		},
	}
}

func TestEventRoundTrip(t *testing.T) {
	event := sampleEvent("6bd4d2a8-8f1f-4b27-a9e6-54a8b2d0e1f3", DirectionOut)

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.AppID != event.AppID {
		t.Errorf("AppID mismatch: %q != %q", decoded.AppID, event.AppID)
	}
	if decoded.Direction != DirectionOut {
		t.Errorf("Direction mismatch: %v", decoded.Direction)
	}
	if decoded.Message == nil {
		t.Fatal("Message payload lost")
	}
	if decoded.Message.Entries != 5 {
		t.Errorf("Entries mismatch: %d", decoded.Message.Entries)
	}
	if decoded.Message.ErrorCode == nil || *decoded.Message.ErrorCode != wire.ErrorCodeSuccess {
		t.Error("ErrorCode lost")
	}
	if decoded.Message.ProcessingTime == nil || *decoded.Message.ProcessingTime != 15*time.Millisecond {
		t.Error("ProcessingTime lost")
	}
}

func TestFileLoggerAndReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host.dlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	logger.Log(sampleEvent("aaaaaaaa-0000-0000-0000-000000000001", DirectionIn))
	logger.Log(sampleEvent("aaaaaaaa-0000-0000-0000-000000000002", DirectionOut))
	logger.Log(Event{
		Timestamp: time.Now(),
		Direction: DirectionIn,
		Category:  CategoryDrop,
		Drop:      &DropEvent{Reason: "malformed payload"},
	})
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Log after close is silently ignored
	logger.Log(sampleEvent("aaaaaaaa-0000-0000-0000-000000000003", DirectionIn))

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[2].Drop == nil || events[2].Drop.Reason != "malformed payload" {
		t.Error("drop event lost")
	}
}

func TestFilteredReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host.dlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	logger.Log(sampleEvent("aaaaaaaa-0000-0000-0000-000000000001", DirectionIn))
	logger.Log(sampleEvent("aaaaaaaa-0000-0000-0000-000000000001", DirectionOut))
	logger.Log(sampleEvent("aaaaaaaa-0000-0000-0000-000000000002", DirectionOut))
	logger.Close()

	out := DirectionOut
	reader, err := NewFilteredReader(path, Filter{
		AppID:     "aaaaaaaa-0000-0000-0000-000000000001",
		Direction: &out,
	})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 matching event, got %d", len(events))
	}
}

func TestMultiLogger(t *testing.T) {
	var a, b countingLogger
	multi := NewMultiLogger(&a, &b)

	multi.Log(sampleEvent("aaaaaaaa-0000-0000-0000-000000000001", DirectionIn))
	multi.Log(sampleEvent("aaaaaaaa-0000-0000-0000-000000000001", DirectionOut))

	if a.count != 2 || b.count != 2 {
		t.Errorf("expected 2 events each, got %d and %d", a.count, b.count)
	}
}

type countingLogger struct {
	count int
}

func (c *countingLogger) Log(Event) { c.count++ }

func TestAdaptersDoNotPanic(t *testing.T) {
	events := []Event{
		sampleEvent("aaaaaaaa-0000-0000-0000-000000000001", DirectionOut),
		{Direction: DirectionIn, Category: CategoryDrop, Drop: &DropEvent{Reason: "filtered"}},
		{Direction: DirectionOut, Category: CategoryNotification, Notification: &NotificationEvent{Feature: uint32(wire.FeatureTypeWifi)}},
		{Direction: DirectionIn, Category: CategoryError, Error: &ErrorEventData{Message: "provider failed"}},
	}

	slogAdapter := NewSlogAdapter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	zerologAdapter := NewZerologAdapter(zerolog.Nop())
	for _, e := range events {
		slogAdapter.Log(e)
		zerologAdapter.Log(e)
	}
}
