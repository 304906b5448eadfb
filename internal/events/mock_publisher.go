package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockPublisher records published events for tests.
type MockPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (p *MockPublisher) Publish(ctx context.Context, eventType string, data map[string]interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}

	p.events = append(p.events, Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    "platform-service",
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	return nil
}

func (p *MockPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns a copy of all recorded events.
func (p *MockPublisher) GetPublishedEvents() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// ClearEvents removes all recorded events.
func (p *MockPublisher) ClearEvents() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

// SetError makes subsequent Publish calls fail with err.
func (p *MockPublisher) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}
