package dispatch

import (
	"context"
	"time"

	"github.com/dash-protocol/dash-go/pkg/wire"
	"github.com/google/uuid"
)

// Appender is the append-only view of the response dictionary handed to
// providers. It is safe for concurrent use; appends after the response has
// been transmitted are dropped.
type Appender interface {
	// AddInt32 sets key to a 32-bit integer value.
	AddInt32(key uint32, v int32)

	// AddString sets key to a string value.
	AddString(key uint32, v string)
}

// DataProvider reads phone status values (battery, network, storage,
// calendar) on behalf of the dispatcher.
type DataProvider interface {
	// AppendDataValue appends the value for dataType under
	// wire.AppKeyDataValue, or appends nothing for an unrecognized dataType
	// (unsupported is a no-op, not an error).
	//
	// A source that resolves asynchronously appends from its own goroutine
	// and returns hold > 0: the dispatcher will not transmit the response
	// before the hold elapses. A non-nil error reports a host-side failure
	// and surfaces to the caller as wire.ErrorCodeUnavailable.
	AppendDataValue(ctx context.Context, dataType uint32, out Appender) (hold time.Duration, err error)
}

// FeatureProvider reads and writes phone feature toggles. State values are
// opaque to the dispatcher; only the provider interprets them.
type FeatureProvider interface {
	// FeatureState returns the current state of featureType.
	FeatureState(ctx context.Context, featureType uint32) (uint32, error)

	// SetFeatureState applies a state mutation to featureType.
	SetFeatureState(ctx context.Context, featureType, state uint32) error
}

// Notifier surfaces a permission request to the user. Fire-and-forget;
// called exactly once per denied SetFeature attempt.
type Notifier interface {
	NotifyPermissionRequested(id uuid.UUID, displayName string)
}

// Sender delivers an assembled response dictionary to a caller.
// wire.ErrorCodeSendingFailed is reserved for Sender implementations.
type Sender interface {
	Send(id uuid.UUID, d *wire.Dictionary) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(id uuid.UUID, displayName string)

// NotifyPermissionRequested calls f.
func (f NotifierFunc) NotifyPermissionRequested(id uuid.UUID, displayName string) {
	f(id, displayName)
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(id uuid.UUID, d *wire.Dictionary) error

// Send calls f.
func (f SenderFunc) Send(id uuid.UUID, d *wire.Dictionary) error {
	return f(id, d)
}
