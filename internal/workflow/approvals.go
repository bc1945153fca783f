package workflow

import (
	commonerrors "scholarship-workflow/internal/common/errors"
	"scholarship-workflow/internal/models"
)

// approvalLedger applies reviewer decisions to an application.
type approvalLedger struct{}

// approve records an approval. Repeat approvals by the same reviewer are
// no-ops; the approval set never holds duplicates.
func (approvalLedger) approve(app *models.Application, roster *Roster, approverID string) error {
	if app.Status.IsTerminal() {
		return commonerrors.NewTerminalStateViolation(app.ID, string(app.Status))
	}
	if app.Status != models.StatusPendingApproval {
		return commonerrors.NewInvalidTransition(string(app.Status), "approve")
	}
	if !roster.IsReviewer(approverID) {
		return commonerrors.NewUnauthorizedApprover(approverID, app.ScholarshipID)
	}

	if !app.HasApproval(approverID) {
		app.Approvals = append(app.Approvals, approverID)
	}
	return nil
}

// reject validates a veto. A single rejection is unconditional: it may come
// from any assigned reviewer at any non-draft, non-terminal point in the
// workflow, regardless of how many approvals are already on record.
func (approvalLedger) reject(app *models.Application, roster *Roster, approverID string) error {
	if app.Status.IsTerminal() {
		return commonerrors.NewTerminalStateViolation(app.ID, string(app.Status))
	}
	switch app.Status {
	case models.StatusSubmitted, models.StatusUnderReview, models.StatusPendingApproval:
	default:
		return commonerrors.NewInvalidTransition(string(app.Status), "reject")
	}
	if !roster.IsReviewer(approverID) {
		return commonerrors.NewUnauthorizedApprover(approverID, app.ScholarshipID)
	}
	return nil
}
