// Package audit records workflow state transitions to an append-only trail.
package audit

import (
	"context"
	"sync"
	"time"

	"scholarship-workflow/internal/models"
)

// TransitionEvent is one recorded status change.
type TransitionEvent struct {
	ApplicationID string                   `json:"application_id"`
	ScholarshipID string                   `json:"scholarship_id"`
	From          models.ApplicationStatus `json:"from"`
	To            models.ApplicationStatus `json:"to"`
	ActorID       string                   `json:"actor_id"`
	Trigger       string                   `json:"trigger"`
	At            time.Time                `json:"at"`
}

// Recorder accepts transition events. Implementations must be best-effort;
// the workflow never fails a committed transition over a trail error.
type Recorder interface {
	Record(ctx context.Context, event TransitionEvent) error
}

// Nop discards all events.
type Nop struct{}

func (Nop) Record(ctx context.Context, event TransitionEvent) error { return nil }

// Memory collects events in order, for tests.
type Memory struct {
	mu     sync.Mutex
	events []TransitionEvent
}

func (m *Memory) Record(ctx context.Context, event TransitionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *Memory) Events() []TransitionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TransitionEvent, len(m.events))
	copy(out, m.events)
	return out
}
