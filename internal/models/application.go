// internal/models/application.go
package models

import "time"

// ApplicationStatus is the workflow status of a scholarship application.
type ApplicationStatus string

const (
	StatusDraft           ApplicationStatus = "DRAFT"
	StatusSubmitted       ApplicationStatus = "SUBMITTED"
	StatusUnderReview     ApplicationStatus = "UNDER_REVIEW"
	StatusPendingApproval ApplicationStatus = "PENDING_APPROVAL"
	StatusApproved        ApplicationStatus = "APPROVED"
	StatusRejected        ApplicationStatus = "REJECTED"
)

// IsTerminal reports whether the status permits no further mutation.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Valid reports whether s is one of the known statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview,
		StatusPendingApproval, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// RubricCategory is a closed set of grading rubric categories.
type RubricCategory string

const (
	CategoryAcademic     RubricCategory = "ACADEMIC"
	CategoryCocurricular RubricCategory = "COCURRICULAR"
	CategoryLeadership   RubricCategory = "LEADERSHIP"
)

// RubricCategories lists every category in canonical order. A grader's
// submission always covers the full rubric, one record per category.
var RubricCategories = []RubricCategory{
	CategoryAcademic,
	CategoryCocurricular,
	CategoryLeadership,
}

const (
	MinRubricScore = 0
	MaxRubricScore = 20
	maxRawScore    = MaxRubricScore * 3
)

// RubricScores is one grader's full rubric for an application.
type RubricScores struct {
	Academic     int `json:"academic"`
	Cocurricular int `json:"cocurricular"`
	Leadership   int `json:"leadership"`
}

// Score returns the score for a single category.
func (r RubricScores) Score(c RubricCategory) int {
	switch c {
	case CategoryAcademic:
		return r.Academic
	case CategoryCocurricular:
		return r.Cocurricular
	case CategoryLeadership:
		return r.Leadership
	}
	return 0
}

// Raw is the plain sum of the three category scores, range 0-60.
func (r RubricScores) Raw() int {
	return r.Academic + r.Cocurricular + r.Leadership
}

// Normalized maps the raw score onto 0-100 using truncating integer
// division. The exact rounding matters: downstream score comparisons
// rely on it.
func (r RubricScores) Normalized() int {
	return r.Raw() * 100 / maxRawScore
}

// GradeRecord is one rubric-category score submitted by one grader.
type GradeRecord struct {
	GraderID string         `json:"graderId"`
	Category RubricCategory `json:"category"`
	Score    int            `json:"score"`
	Remarks  string         `json:"remarks"`
	GradedAt time.Time      `json:"gradedAt"`
}

// Application is the aggregate root of the approval workflow. Its status,
// grades and approvals are mutated only through the workflow engine.
type Application struct {
	ID            string            `json:"id"`
	ScholarshipID string            `json:"scholarshipId"`
	StudentID     string            `json:"studentId"`
	FirstName     string            `json:"firstName"`
	LastName      string            `json:"lastName"`
	Status        ApplicationStatus `json:"status"`
	Grades        []GradeRecord     `json:"grades"`
	Approvals     []string          `json:"approvals"`
	CreatedAt     time.Time         `json:"createdAt"`
	SubmittedAt   *time.Time        `json:"submittedAt,omitempty"`
}

// DistinctGraders returns the grader ids present in the grade ledger, in
// first-submission order.
func (a *Application) DistinctGraders() []string {
	seen := make(map[string]bool, len(a.Grades))
	var out []string
	for _, g := range a.Grades {
		if !seen[g.GraderID] {
			seen[g.GraderID] = true
			out = append(out, g.GraderID)
		}
	}
	return out
}

// GraderCount is the number of distinct graders on record.
func (a *Application) GraderCount() int {
	return len(a.DistinctGraders())
}

// GraderScores reconstructs one grader's full rubric from the ledger.
// The second return is false when the grader has no records.
func (a *Application) GraderScores(graderID string) (RubricScores, bool) {
	var r RubricScores
	found := false
	for _, g := range a.Grades {
		if g.GraderID != graderID {
			continue
		}
		found = true
		switch g.Category {
		case CategoryAcademic:
			r.Academic = g.Score
		case CategoryCocurricular:
			r.Cocurricular = g.Score
		case CategoryLeadership:
			r.Leadership = g.Score
		}
	}
	return r, found
}

// CombinedScore sums each distinct grader's normalized score. It is
// reported to callers but never gates a transition.
func (a *Application) CombinedScore() int {
	total := 0
	for _, graderID := range a.DistinctGraders() {
		scores, _ := a.GraderScores(graderID)
		total += scores.Normalized()
	}
	return total
}

// HasApproval reports whether the approver has already approved.
func (a *Application) HasApproval(approverID string) bool {
	for _, id := range a.Approvals {
		if id == approverID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. The store hands clones to mutating callbacks
// so an aborted update never leaks partial state.
func (a *Application) Clone() *Application {
	cp := *a
	cp.Grades = make([]GradeRecord, len(a.Grades))
	copy(cp.Grades, a.Grades)
	cp.Approvals = make([]string, len(a.Approvals))
	copy(cp.Approvals, a.Approvals)
	if a.SubmittedAt != nil {
		t := *a.SubmittedAt
		cp.SubmittedAt = &t
	}
	return &cp
}
