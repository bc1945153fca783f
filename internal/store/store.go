// Package store is the persistence boundary for applications. Every mutation
// goes through Update, one atomic read-modify-write scoped to a single
// application, so the workflow's quorum checks always observe the ledger
// state their own transaction just wrote.
package store

import (
	"context"
	"errors"

	"scholarship-workflow/internal/models"
)

var (
	// ErrNotFound is returned when no application exists for the given id.
	ErrNotFound = errors.New("application not found")

	// ErrDuplicate is returned when creating an application whose id is taken.
	ErrDuplicate = errors.New("application already exists")
)

// Store persists applications with per-application atomicity.
type Store interface {
	// Create persists a new application.
	Create(ctx context.Context, app *models.Application) error

	// Get returns a read-only snapshot of the application.
	Get(ctx context.Context, id string) (*models.Application, error)

	// Update runs fn against the current state of the application inside one
	// atomic transaction. If fn returns an error the transaction is aborted
	// and nothing is written. On success the committed snapshot is returned.
	// Submissions for different applications proceed independently.
	Update(ctx context.Context, id string, fn func(app *models.Application) error) (*models.Application, error)
}
