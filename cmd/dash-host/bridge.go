package main

import (
	"sync/atomic"

	"github.com/dash-protocol/dash-go/pkg/wire"
	"github.com/google/uuid"
)

// loopbackBridge is an in-process stand-in for the watch link. Responses
// land on a channel the console drains.
type loopbackBridge struct {
	nextTxn   atomic.Int32
	responses chan response
}

type response struct {
	recipient uuid.UUID
	dict      *wire.Dictionary
}

func newLoopbackBridge() *loopbackBridge {
	return &loopbackBridge{responses: make(chan response, 16)}
}

// Send implements dispatch.Sender.
func (b *loopbackBridge) Send(id uuid.UUID, d *wire.Dictionary) error {
	b.responses <- response{recipient: id, dict: d}
	return nil
}

// Ack implements transport.Acknowledger. Loopback delivery cannot fail, so
// acknowledgements are a no-op.
func (b *loopbackBridge) Ack(int32) {}

// transaction allocates a bridge transaction ID.
func (b *loopbackBridge) transaction() int32 {
	return b.nextTxn.Add(1)
}
