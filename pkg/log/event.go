package log

import (
	"time"

	"github.com/dash-protocol/dash-go/pkg/wire"
)

// Event represents a protocol log event for one dispatch step.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// AppID is the caller application identity (UUID string).
	AppID string `cbor:"2,keyasint,omitempty"`

	// AppName is the caller's display name, when known.
	AppName string `cbor:"3,keyasint,omitempty"`

	// Direction indicates message flow.
	Direction Direction `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Type-specific payload (one of these will be set).
	Message      *MessageEvent      `cbor:"6,keyasint,omitempty"` // Decoded dictionary traffic
	Drop         *DropEvent         `cbor:"7,keyasint,omitempty"` // Silently dropped input
	Notification *NotificationEvent `cbor:"8,keyasint,omitempty"` // Permission request raised
	Error        *ErrorEventData    `cbor:"9,keyasint,omitempty"` // Host-side failures
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates dictionary traffic (request or response).
	CategoryMessage Category = 0
	// CategoryDrop indicates input dropped without a response.
	CategoryDrop Category = 1
	// CategoryNotification indicates a user-facing permission notification.
	CategoryNotification Category = 2
	// CategoryError indicates a host-side failure.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryDrop:
		return "DROP"
	case CategoryNotification:
		return "NOTIFICATION"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MessageEvent captures one decoded dictionary crossing the dispatcher.
type MessageEvent struct {
	// Markers lists the request type keys present in the dictionary.
	Markers []uint32 `cbor:"1,keyasint,omitempty"`

	// Entries is the dictionary entry count.
	Entries int `cbor:"2,keyasint"`

	// ErrorCode is the response error code (responses only).
	ErrorCode *wire.ErrorCode `cbor:"3,keyasint,omitempty"`

	// ProcessingTime is the duration from receipt to response send
	// (responses only). Stored as nanoseconds.
	ProcessingTime *time.Duration `cbor:"4,keyasint,omitempty"`
}

// DropEvent captures input dropped without a response.
type DropEvent struct {
	// Reason is a short human-readable cause ("malformed payload", ...).
	Reason string `cbor:"1,keyasint"`
}

// NotificationEvent captures a permission-requested notification.
type NotificationEvent struct {
	// Feature is the feature type the caller tried to mutate.
	Feature uint32 `cbor:"1,keyasint,omitempty"`
}

// ErrorEventData captures a host-side failure.
type ErrorEventData struct {
	// Message is the error text.
	Message string `cbor:"1,keyasint"`
}
