package transport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/dash-protocol/dash-go/pkg/wire"
	"github.com/google/uuid"
)

// ErrClosed is returned by Receive after Close.
var ErrClosed = errors.New("transport: receiver closed")

// InboundMessage is one raw payload delivered by a bridge.
type InboundMessage struct {
	// Raw is the encoded dictionary payload.
	Raw []byte

	// Sender identifies the originating application.
	Sender uuid.UUID

	// TransactionID is the bridge-level transaction to acknowledge.
	TransactionID int32
}

// Acknowledger confirms receipt of a bridge transaction.
// Implemented by the bridge.
type Acknowledger interface {
	// Ack acknowledges the transaction with the given ID.
	Ack(transactionID int32)
}

// AcknowledgerFunc adapts a function to the Acknowledger interface.
type AcknowledgerFunc func(transactionID int32)

// Ack calls f.
func (f AcknowledgerFunc) Ack(transactionID int32) { f(transactionID) }

// Handler processes one filtered inbound payload.
// Implemented by dispatch.Dispatcher.
type Handler interface {
	Handle(ctx context.Context, raw []byte, sender uuid.UUID)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, raw []byte, sender uuid.UUID)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, raw []byte, sender uuid.UUID) {
	f(ctx, raw, sender)
}

// ReceiverConfig configures a Receiver.
type ReceiverConfig struct {
	// Handler receives filtered payloads. Required.
	Handler Handler

	// Ack acknowledges accepted transactions. Optional.
	Ack Acknowledger

	// Logger for operational debug output. Optional.
	Logger *slog.Logger
}

// Receiver accepts bridge traffic, filters it, and fans it out to the
// handler. Safe for concurrent use.
type Receiver struct {
	handler Handler
	ack     Acknowledger
	logger  *slog.Logger

	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

// NewReceiver creates a Receiver.
func NewReceiver(cfg ReceiverConfig) (*Receiver, error) {
	if cfg.Handler == nil {
		return nil, errors.New("transport: handler is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Receiver{
		handler: cfg.Handler,
		ack:     cfg.Ack,
		logger:  logger,
	}, nil
}

// Receive accepts one inbound message. Traffic without the protocol marker
// is ignored without acknowledgement. Accepted messages are acknowledged
// immediately and then handled on their own goroutine; Receive never blocks
// on the handler.
func (r *Receiver) Receive(ctx context.Context, msg InboundMessage) error {
	dict, err := wire.Decode(msg.Raw)
	if err != nil || !dict.Has(wire.AppKeyUsesDashAPI) {
		// Foreign traffic shares the bridge; none of our business.
		r.logger.Debug("ignoring non-protocol message",
			"app_id", msg.Sender, "transaction", msg.TransactionID)
		return nil
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.wg.Add(1)
	r.mu.Unlock()

	if r.ack != nil {
		r.ack.Ack(msg.TransactionID)
	}

	go func() {
		defer r.wg.Done()
		r.handler.Handle(ctx, msg.Raw, msg.Sender)
	}()
	return nil
}

// Close stops accepting new messages and waits for in-flight handlers.
func (r *Receiver) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	r.wg.Wait()
	return nil
}
