// Package workflow implements the scholarship application approval workflow:
// the status state machine, the grade and approval ledgers, and the quorum
// rules that drive transitions. All mutation flows through a single atomic
// read-modify-write on the application store.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"scholarship-workflow/internal/audit"
	commonerrors "scholarship-workflow/internal/common/errors"
	"scholarship-workflow/internal/common/logger"
	"scholarship-workflow/internal/common/metrics"
	"scholarship-workflow/internal/models"
	"scholarship-workflow/internal/notify"
	"scholarship-workflow/internal/store"
)

// NewApplication is the payload for creating a draft.
type NewApplication struct {
	ScholarshipID string
	StudentID     string
	FirstName     string
	LastName      string
}

// Engine coordinates every workflow operation. It owns no state of its own;
// the store is the single source of truth and each operation is one atomic
// update scoped to one application.
type Engine struct {
	store    store.Store
	quorum   *Resolver
	notifier notify.Notifier
	trail    audit.Recorder
	grades   gradeLedger
	approval approvalLedger
	logger   logger.Logger
	now      func() time.Time
}

func NewEngine(st store.Store, resolver *Resolver, notifier notify.Notifier, trail audit.Recorder, log logger.Logger) *Engine {
	return &Engine{
		store:    st,
		quorum:   resolver,
		notifier: notifier,
		trail:    trail,
		logger:   log.WithFields(map[string]interface{}{"component": "workflow-engine"}),
		now:      time.Now,
	}
}

// CreateDraft registers a new application in DRAFT.
func (e *Engine) CreateDraft(ctx context.Context, req NewApplication) (*models.Application, error) {
	if strings.TrimSpace(req.ScholarshipID) == "" || strings.TrimSpace(req.StudentID) == "" {
		return nil, commonerrors.NewValidationFailed("scholarshipId and studentId are required")
	}

	app := &models.Application{
		ID:            uuid.New().String(),
		ScholarshipID: req.ScholarshipID,
		StudentID:     req.StudentID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Status:        models.StatusDraft,
		CreatedAt:     e.now().UTC(),
	}
	if err := e.store.Create(ctx, app); err != nil {
		return nil, commonerrors.NewStorageFailed(err)
	}

	e.logger.Info("draft created", map[string]interface{}{
		"applicationId": app.ID,
		"scholarshipId": app.ScholarshipID,
	})
	return app, nil
}

// Submit moves a draft into the review pipeline. The scholarship's
// assignment sets are resolved up front so a misconfigured scholarship
// blocks submission instead of stranding the application mid-workflow.
func (e *Engine) Submit(ctx context.Context, applicationID string) (*models.WorkflowState, error) {
	roster, err := e.rosterFor(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	var transition *audit.TransitionEvent
	committed, err := e.update(ctx, applicationID, func(app *models.Application) error {
		if app.Status.IsTerminal() {
			return commonerrors.NewTerminalStateViolation(app.ID, string(app.Status))
		}
		if app.Status != models.StatusDraft {
			return commonerrors.NewInvalidTransition(string(app.Status), "submit")
		}
		if err := validateForSubmission(app); err != nil {
			return err
		}

		transition = e.transition(app, models.StatusSubmitted, app.StudentID, "submit")
		submittedAt := e.now().UTC()
		app.SubmittedAt = &submittedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.afterCommit(ctx, committed, transition, nil)
	return e.stateOf(committed, roster), nil
}

// SubmitGrade records one grader's full rubric and advances the status when
// the grader quorum is reached.
func (e *Engine) SubmitGrade(ctx context.Context, applicationID string, sub GradeSubmission) (*models.GradingOutcome, error) {
	started := e.now()
	roster, err := e.rosterFor(ctx, applicationID)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("grade", "error").Inc()
		return nil, err
	}

	var transitions []*audit.TransitionEvent
	committed, err := e.update(ctx, applicationID, func(app *models.Application) error {
		transitions = nil
		if err := e.grades.upsert(app, roster, sub, e.now().UTC()); err != nil {
			return err
		}

		if app.Status == models.StatusSubmitted {
			transitions = append(transitions, e.transition(app, models.StatusUnderReview, sub.GraderID, "submit-grade"))
		}
		if app.GraderCount() >= roster.Quorum().Graders {
			transitions = append(transitions, e.transition(app, models.StatusPendingApproval, sub.GraderID, "submit-grade"))
		}
		return nil
	})
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("grade", "error").Inc()
		return nil, err
	}

	metrics.SubmissionsTotal.WithLabelValues("grade", "ok").Inc()
	metrics.SubmissionDuration.WithLabelValues("grade").Observe(e.now().Sub(started).Seconds())
	e.afterCommit(ctx, committed, nil, transitions)

	scores, _ := committed.GraderScores(sub.GraderID)
	return &models.GradingOutcome{
		Status:           committed.Status,
		GraderNormalized: scores.Normalized(),
		CombinedScore:    committed.CombinedScore(),
		GradersSoFar:     committed.GraderCount(),
		RequiredGraders:  roster.Quorum().Graders,
	}, nil
}

// SubmitDecision records a reviewer's APPROVE or REJECT. Approvals are
// idempotent per reviewer and finalize the application when every assigned
// reviewer has approved. A single REJECT finalizes immediately.
func (e *Engine) SubmitDecision(ctx context.Context, applicationID, approverID string, decision models.Decision) (*models.ApprovalOutcome, error) {
	started := e.now()
	if !decision.Valid() {
		metrics.SubmissionsTotal.WithLabelValues("decision", "error").Inc()
		return nil, commonerrors.NewInvalidDecision(string(decision))
	}

	roster, err := e.rosterFor(ctx, applicationID)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("decision", "error").Inc()
		return nil, err
	}

	var transition *audit.TransitionEvent
	committed, err := e.update(ctx, applicationID, func(app *models.Application) error {
		transition = nil
		switch decision {
		case models.DecisionApprove:
			if err := e.approval.approve(app, roster, approverID); err != nil {
				return err
			}
			if len(app.Approvals) >= roster.Quorum().Approvers {
				transition = e.transition(app, models.StatusApproved, approverID, "approve")
			}
		case models.DecisionReject:
			if err := e.approval.reject(app, roster, approverID); err != nil {
				return err
			}
			transition = e.transition(app, models.StatusRejected, approverID, "reject")
		}
		return nil
	})
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("decision", "error").Inc()
		return nil, err
	}

	metrics.SubmissionsTotal.WithLabelValues("decision", "ok").Inc()
	metrics.SubmissionDuration.WithLabelValues("decision").Observe(e.now().Sub(started).Seconds())
	e.afterCommit(ctx, committed, transition, nil)

	return &models.ApprovalOutcome{
		Status:            committed.Status,
		ApproversSoFar:    len(committed.Approvals),
		RequiredApprovers: roster.Quorum().Approvers,
	}, nil
}

// WorkflowState reports the application's current status and quorum
// progress without mutating anything.
func (e *Engine) WorkflowState(ctx context.Context, applicationID string) (*models.WorkflowState, error) {
	app, err := e.store.Get(ctx, applicationID)
	if err != nil {
		return nil, mapStoreError(err, applicationID)
	}

	roster, err := e.quorum.Resolve(ctx, app.ScholarshipID)
	if err != nil {
		return nil, err
	}
	return e.stateOf(app, roster), nil
}

// Get returns the full application record.
func (e *Engine) Get(ctx context.Context, applicationID string) (*models.Application, error) {
	app, err := e.store.Get(ctx, applicationID)
	if err != nil {
		return nil, mapStoreError(err, applicationID)
	}
	return app, nil
}

func (e *Engine) rosterFor(ctx context.Context, applicationID string) (*Roster, error) {
	app, err := e.store.Get(ctx, applicationID)
	if err != nil {
		return nil, mapStoreError(err, applicationID)
	}
	return e.quorum.Resolve(ctx, app.ScholarshipID)
}

func (e *Engine) update(ctx context.Context, applicationID string, fn func(*models.Application) error) (*models.Application, error) {
	committed, err := e.store.Update(ctx, applicationID, fn)
	if err != nil {
		var wErr *commonerrors.WorkflowError
		if errors.As(err, &wErr) {
			return nil, err
		}
		return nil, mapStoreError(err, applicationID)
	}
	return committed, nil
}

// transition changes the status in place and returns the audit event for it.
func (e *Engine) transition(app *models.Application, to models.ApplicationStatus, actorID, trigger string) *audit.TransitionEvent {
	event := &audit.TransitionEvent{
		ApplicationID: app.ID,
		ScholarshipID: app.ScholarshipID,
		From:          app.Status,
		To:            to,
		ActorID:       actorID,
		Trigger:       trigger,
		At:            e.now().UTC(),
	}
	app.Status = to
	return event
}

// afterCommit runs the post-commit side effects for transitions that this
// call performed: audit trail, metrics and, on a terminal transition, the
// one decision notification. Only the caller whose callback performed the
// terminal transition reaches this path, so the notifier fires exactly once
// per application. Side-effect failures are logged, never surfaced; the
// state change is already durable.
func (e *Engine) afterCommit(ctx context.Context, app *models.Application, single *audit.TransitionEvent, many []*audit.TransitionEvent) {
	events := many
	if single != nil {
		events = append(events, single)
	}

	for _, event := range events {
		metrics.TransitionsTotal.WithLabelValues(string(event.To)).Inc()
		if err := e.trail.Record(ctx, *event); err != nil {
			e.logger.Error("transition audit failed", map[string]interface{}{
				"error":         err,
				"applicationId": event.ApplicationID,
				"to":            string(event.To),
			})
		}
		e.logger.Info("status transition", map[string]interface{}{
			"applicationId": event.ApplicationID,
			"from":          string(event.From),
			"to":            string(event.To),
			"trigger":       event.Trigger,
		})

		if !event.To.IsTerminal() {
			continue
		}
		outcome := models.OutcomeRejected
		if event.To == models.StatusApproved {
			outcome = models.OutcomeApproved
		}
		decision := notify.Decision{
			ApplicationID: app.ID,
			StudentID:     app.StudentID,
			ScholarshipID: app.ScholarshipID,
			StudentName:   strings.TrimSpace(fmt.Sprintf("%s %s", app.FirstName, app.LastName)),
			Outcome:       outcome,
			CombinedScore: app.CombinedScore(),
		}
		if err := e.notifier.NotifyDecision(ctx, decision); err != nil {
			metrics.NotifierFailures.Inc()
			e.logger.Error("decision notification failed", map[string]interface{}{
				"error":         err,
				"applicationId": app.ID,
				"outcome":       string(outcome),
			})
		}
	}
}

func (e *Engine) stateOf(app *models.Application, roster *Roster) *models.WorkflowState {
	quorum := roster.Quorum()
	return &models.WorkflowState{
		ApplicationID:     app.ID,
		Status:            app.Status,
		GradersSoFar:      app.GraderCount(),
		ApproversSoFar:    len(app.Approvals),
		RequiredGraders:   quorum.Graders,
		RequiredApprovers: quorum.Approvers,
		CombinedScore:     app.CombinedScore(),
	}
}

func validateForSubmission(app *models.Application) error {
	var missing []string
	if strings.TrimSpace(app.FirstName) == "" {
		missing = append(missing, "firstName")
	}
	if strings.TrimSpace(app.LastName) == "" {
		missing = append(missing, "lastName")
	}
	if strings.TrimSpace(app.StudentID) == "" {
		missing = append(missing, "studentId")
	}
	if len(missing) > 0 {
		return commonerrors.NewValidationFailed("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

func mapStoreError(err error, applicationID string) error {
	if errors.Is(err, store.ErrNotFound) {
		return commonerrors.NewUnknownApplication(applicationID)
	}
	return commonerrors.NewStorageFailed(err)
}
