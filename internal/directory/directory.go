// Package directory looks up a scholarship's assigned committee and reviewer
// sets. The workflow core reads these; it never writes them.
package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrScholarshipNotFound is returned when the scholarship id is unknown.
var ErrScholarshipNotFound = errors.New("scholarship not found")

// ScholarshipDirectory exposes the assignment sets whose cardinalities are
// the quorum thresholds.
type ScholarshipDirectory interface {
	AssignedCommitteeIDs(ctx context.Context, scholarshipID string) ([]string, error)
	AssignedReviewerIDs(ctx context.Context, scholarshipID string) ([]string, error)
}

// PostgresDirectory reads assignments from the scholarship tables.
type PostgresDirectory struct {
	db *sql.DB
}

func NewPostgresDirectory(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

func (d *PostgresDirectory) AssignedCommitteeIDs(ctx context.Context, scholarshipID string) ([]string, error) {
	return d.assignedIDs(ctx, scholarshipID,
		`SELECT committee_id FROM scholarship_committees WHERE scholarship_id = $1 ORDER BY committee_id`)
}

func (d *PostgresDirectory) AssignedReviewerIDs(ctx context.Context, scholarshipID string) ([]string, error) {
	return d.assignedIDs(ctx, scholarshipID,
		`SELECT reviewer_id FROM scholarship_reviewers WHERE scholarship_id = $1 ORDER BY reviewer_id`)
}

func (d *PostgresDirectory) assignedIDs(ctx context.Context, scholarshipID, query string) ([]string, error) {
	var exists bool
	err := d.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM scholarships WHERE id = $1)`, scholarshipID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("scholarship lookup failed: %w", err)
	}
	if !exists {
		return nil, ErrScholarshipNotFound
	}

	rows, err := d.db.QueryContext(ctx, query, scholarshipID)
	if err != nil {
		return nil, fmt.Errorf("assignment lookup failed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("assignment lookup failed: %w", err)
	}
	return ids, nil
}

// Static is a fixed in-memory directory, used in tests and local development.
type Static struct {
	Committees map[string][]string
	Reviewers  map[string][]string
}

func (s *Static) AssignedCommitteeIDs(ctx context.Context, scholarshipID string) ([]string, error) {
	ids, ok := s.Committees[scholarshipID]
	if !ok {
		return nil, ErrScholarshipNotFound
	}
	return ids, nil
}

func (s *Static) AssignedReviewerIDs(ctx context.Context, scholarshipID string) ([]string, error) {
	ids, ok := s.Reviewers[scholarshipID]
	if !ok {
		return nil, ErrScholarshipNotFound
	}
	return ids, nil
}
