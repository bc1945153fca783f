// Package notify delivers decision notifications once an application reaches
// a terminal status.
package notify

import (
	"context"
	"sync"

	"scholarship-workflow/internal/models"
)

// Decision describes a finalized application outcome.
type Decision struct {
	ApplicationID string
	StudentID     string
	ScholarshipID string
	StudentName   string
	Outcome       models.Outcome
	CombinedScore int
}

// Notifier delivers a decision notification. It is invoked exactly once per
// application, after the terminal transition has been committed.
type Notifier interface {
	NotifyDecision(ctx context.Context, decision Decision) error
}

// Nop discards notifications.
type Nop struct{}

func (Nop) NotifyDecision(ctx context.Context, decision Decision) error { return nil }

// Recorder captures notifications for tests. Err, when set, is returned from
// every call after recording.
type Recorder struct {
	mu        sync.Mutex
	decisions []Decision

	Err error
}

func (r *Recorder) NotifyDecision(ctx context.Context, decision Decision) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decisions = append(r.decisions, decision)
	return r.Err
}

func (r *Recorder) Decisions() []Decision {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Decision, len(r.decisions))
	copy(out, r.decisions)
	return out
}
