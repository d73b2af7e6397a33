package mocks

import (
	"context"
	"sync"

	"github.com/taskbooking/taskbooking-api/internal/events"
)

// CapturePublisher implements events.Publisher and records everything
// published for assertions.
type CapturePublisher struct {
	mu     sync.Mutex
	events []*events.Event
}

var _ events.Publisher = (*CapturePublisher)(nil)

// NewCapturePublisher creates an empty capturing publisher.
func NewCapturePublisher() *CapturePublisher {
	return &CapturePublisher{}
}

// Publish implements the Publisher interface
func (p *CapturePublisher) Publish(ctx context.Context, ev *events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

// Events returns a snapshot of everything published so far.
func (p *CapturePublisher) Events() []*events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*events.Event, len(p.events))
	copy(out, p.events)
	return out
}

// LastOfType returns the most recent event of the given type, or nil.
func (p *CapturePublisher) LastOfType(t events.Type) *events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.events) - 1; i >= 0; i-- {
		if p.events[i].Type == t {
			return p.events[i]
		}
	}
	return nil
}
