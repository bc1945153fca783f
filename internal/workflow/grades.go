package workflow

import (
	"time"

	commonerrors "scholarship-workflow/internal/common/errors"
	"scholarship-workflow/internal/models"
)

// GradeSubmission is one grader's full rubric for an application. A
// submission always carries all three category scores; partial rubrics are
// rejected before anything is written.
type GradeSubmission struct {
	GraderID string
	Scores   models.RubricScores
	Remarks  string
}

// gradeLedger applies rubric submissions to an application's grade records.
type gradeLedger struct{}

// upsert validates the submission and replaces the grader's previous rubric,
// if any, with three fresh records in canonical category order. Either all
// three records land or none do.
func (gradeLedger) upsert(app *models.Application, roster *Roster, sub GradeSubmission, now time.Time) error {
	if app.Status.IsTerminal() {
		return commonerrors.NewTerminalStateViolation(app.ID, string(app.Status))
	}
	switch app.Status {
	case models.StatusSubmitted, models.StatusUnderReview:
	default:
		return commonerrors.NewInvalidTransition(string(app.Status), "submit-grade")
	}

	if !roster.IsCommittee(sub.GraderID) {
		return commonerrors.NewUnauthorizedGrader(sub.GraderID, app.ScholarshipID)
	}

	for _, category := range models.RubricCategories {
		score := sub.Scores.Score(category)
		if score < models.MinRubricScore || score > models.MaxRubricScore {
			return commonerrors.NewInvalidScore(string(category), score)
		}
	}

	kept := app.Grades[:0]
	for _, g := range app.Grades {
		if g.GraderID != sub.GraderID {
			kept = append(kept, g)
		}
	}
	app.Grades = kept

	for _, category := range models.RubricCategories {
		app.Grades = append(app.Grades, models.GradeRecord{
			GraderID: sub.GraderID,
			Category: category,
			Score:    sub.Scores.Score(category),
			Remarks:  sub.Remarks,
			GradedAt: now,
		})
	}
	return nil
}
