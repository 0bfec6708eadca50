package dispatch

import (
	"sync"
	"time"

	"github.com/dash-protocol/dash-go/pkg/wire"
)

// pendingResponse guards the response dictionary between routing and
// transmission. Async providers keep appending through the Appender surface
// until the response fires; once fired, late appends are dropped.
type pendingResponse struct {
	mu    sync.Mutex
	dict  *wire.Dictionary
	fired bool
}

func newPendingResponse(d *wire.Dictionary) *pendingResponse {
	return &pendingResponse{dict: d}
}

// AddInt32 sets key to a 32-bit integer value.
func (p *pendingResponse) AddInt32(key uint32, v int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fired {
		return
	}
	p.dict.AddInt32(key, v)
}

// AddString sets key to a string value.
func (p *pendingResponse) AddString(key uint32, v string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fired {
		return
	}
	p.dict.AddString(key, v)
}

// fire seals the dictionary and returns it. Only the first call wins;
// subsequent calls return nil.
func (p *pendingResponse) fire() *wire.Dictionary {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fired {
		return nil
	}
	p.fired = true
	return p.dict
}

// scheduleFire invokes send with the sealed dictionary after delay.
// A delay of zero or less fires synchronously.
func (p *pendingResponse) scheduleFire(delay time.Duration, send func(*wire.Dictionary)) {
	if delay <= 0 {
		if d := p.fire(); d != nil {
			send(d)
		}
		return
	}
	time.AfterFunc(delay, func() {
		if d := p.fire(); d != nil {
			send(d)
		}
	})
}

// Compile-time interface satisfaction check.
var _ Appender = (*pendingResponse)(nil)
