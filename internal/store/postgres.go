// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"scholarship-workflow/internal/models"
)

// PostgresStore persists applications in PostgreSQL. Update takes a row lock
// on the application (SELECT ... FOR UPDATE) for the duration of
// ledger-update + quorum-check + status-write, which serializes submissions
// per application without any shared lock across applications.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store over an open database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const (
	selectApplication = `SELECT id, scholarship_id, student_id, first_name, last_name, status, created_at, submitted_at
		FROM applications WHERE id = $1`

	selectApplicationForUpdate = selectApplication + ` FOR UPDATE`

	selectGrades = `SELECT grader_id, category, score, remarks, graded_at
		FROM application_grades WHERE application_id = $1 ORDER BY id`

	selectApprovals = `SELECT approver_id
		FROM application_approvals WHERE application_id = $1 ORDER BY approved_at, approver_id`
)

func (s *PostgresStore) Create(ctx context.Context, app *models.Application) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE id = $1)`, app.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("duplicate check failed: %w", err)
	}
	if exists {
		return ErrDuplicate
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO applications (id, scholarship_id, student_id, first_name, last_name, status, created_at, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		app.ID, app.ScholarshipID, app.StudentID, app.FirstName, app.LastName,
		string(app.Status), app.CreatedAt, app.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Application, error) {
	return s.load(ctx, s.db, id, false)
}

func (s *PostgresStore) Update(ctx context.Context, id string, fn func(app *models.Application) error) (*models.Application, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	app, err := s.load(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	before := app.Clone()

	if err := fn(app); err != nil {
		return nil, err
	}

	if err := s.writeChanges(ctx, tx, before, app); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return app, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (s *PostgresStore) load(ctx context.Context, q querier, id string, forUpdate bool) (*models.Application, error) {
	query := selectApplication
	if forUpdate {
		query = selectApplicationForUpdate
	}

	var app models.Application
	var status string
	var submittedAt sql.NullTime
	err := q.QueryRowContext(ctx, query, id).Scan(
		&app.ID, &app.ScholarshipID, &app.StudentID,
		&app.FirstName, &app.LastName, &status, &app.CreatedAt, &submittedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load application: %w", err)
	}
	app.Status = models.ApplicationStatus(status)
	if submittedAt.Valid {
		t := submittedAt.Time
		app.SubmittedAt = &t
	}

	rows, err := q.QueryContext(ctx, selectGrades, id)
	if err != nil {
		return nil, fmt.Errorf("load grades: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var g models.GradeRecord
		var category string
		if err := rows.Scan(&g.GraderID, &category, &g.Score, &g.Remarks, &g.GradedAt); err != nil {
			return nil, fmt.Errorf("scan grade: %w", err)
		}
		g.Category = models.RubricCategory(category)
		app.Grades = append(app.Grades, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load grades: %w", err)
	}

	approvalRows, err := q.QueryContext(ctx, selectApprovals, id)
	if err != nil {
		return nil, fmt.Errorf("load approvals: %w", err)
	}
	defer approvalRows.Close()
	for approvalRows.Next() {
		var approverID string
		if err := approvalRows.Scan(&approverID); err != nil {
			return nil, fmt.Errorf("scan approval: %w", err)
		}
		app.Approvals = append(app.Approvals, approverID)
	}
	if err := approvalRows.Err(); err != nil {
		return nil, fmt.Errorf("load approvals: %w", err)
	}

	return &app, nil
}

func (s *PostgresStore) writeChanges(ctx context.Context, tx *sql.Tx, before, after *models.Application) error {
	if before.Status != after.Status || !timePtrEqual(before.SubmittedAt, after.SubmittedAt) {
		_, err := tx.ExecContext(ctx,
			`UPDATE applications SET status = $2, submitted_at = $3 WHERE id = $1`,
			after.ID, string(after.Status), after.SubmittedAt,
		)
		if err != nil {
			return fmt.Errorf("update application: %w", err)
		}
	}

	if !gradesEqual(before.Grades, after.Grades) {
		// The grade ledger is rewritten wholesale within the same
		// transaction; a grader's full-rubric upsert is never visible
		// half-applied.
		_, err := tx.ExecContext(ctx,
			`DELETE FROM application_grades WHERE application_id = $1`, after.ID)
		if err != nil {
			return fmt.Errorf("clear grades: %w", err)
		}
		for _, g := range after.Grades {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO application_grades (application_id, grader_id, category, score, remarks, graded_at)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				after.ID, g.GraderID, string(g.Category), g.Score, g.Remarks, g.GradedAt,
			)
			if err != nil {
				return fmt.Errorf("insert grade: %w", err)
			}
		}
	}

	existing := make(map[string]bool, len(before.Approvals))
	for _, id := range before.Approvals {
		existing[id] = true
	}
	for _, approverID := range after.Approvals {
		if existing[approverID] {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO application_approvals (application_id, approver_id, approved_at)
			VALUES ($1, $2, NOW())`,
			after.ID, approverID,
		)
		if err != nil {
			return fmt.Errorf("insert approval: %w", err)
		}
	}

	return nil
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func gradesEqual(a, b []models.GradeRecord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
