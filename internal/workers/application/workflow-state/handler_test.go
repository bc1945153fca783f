// internal/workers/application/workflow-state/handler_test.go
package workflowstate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarship-workflow/internal/audit"
	commonerrors "scholarship-workflow/internal/common/errors"
	"scholarship-workflow/internal/common/logger"
	"scholarship-workflow/internal/directory"
	"scholarship-workflow/internal/models"
	"scholarship-workflow/internal/notify"
	"scholarship-workflow/internal/store"
	"scholarship-workflow/internal/workflow"
)

func newTestHandler(t *testing.T) (*Handler, *workflow.Engine) {
	t.Helper()

	dir := &directory.Static{
		Committees: map[string][]string{"sch-1": {"g1", "g2", "g3"}},
		Reviewers:  map[string][]string{"sch-1": {"r1", "r2"}},
	}
	engine := workflow.NewEngine(store.NewMemoryStore(), workflow.NewResolver(dir),
		&notify.Recorder{}, &audit.Memory{}, logger.NewTestLogger(t))

	h, err := NewHandler(LoadConfig(), engine, logger.NewTestLogger(t))
	require.NoError(t, err)
	return h, engine
}

func TestExecute_ReportsProgress(t *testing.T) {
	ctx := context.Background()
	h, engine := newTestHandler(t)

	app, err := engine.CreateDraft(ctx, workflow.NewApplication{
		ScholarshipID: "sch-1", StudentID: "stu-1", FirstName: "Siti", LastName: "Rahma",
	})
	require.NoError(t, err)
	_, err = engine.Submit(ctx, app.ID)
	require.NoError(t, err)
	_, err = engine.SubmitGrade(ctx, app.ID, workflow.GradeSubmission{
		GraderID: "g1",
		Scores:   models.RubricScores{Academic: 18, Cocurricular: 16, Leadership: 17},
	})
	require.NoError(t, err)

	output, err := h.Execute(ctx, &Input{ApplicationID: app.ID})

	require.NoError(t, err)
	assert.Equal(t, app.ID, output.ApplicationID)
	assert.Equal(t, "UNDER_REVIEW", output.Status)
	assert.Equal(t, 1, output.GradersSoFar)
	assert.Equal(t, 3, output.RequiredGraders)
	assert.Equal(t, 0, output.ApproversSoFar)
	assert.Equal(t, 2, output.RequiredApprovers)
	assert.Equal(t, 85, output.CombinedScore)
}

func TestExecute_UnknownApplication(t *testing.T) {
	h, _ := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{ApplicationID: "missing"})

	assert.True(t, commonerrors.IsCode(err, commonerrors.ErrCodeUnknownApplication))
}

func TestValidateInput(t *testing.T) {
	h, _ := newTestHandler(t)

	assert.NoError(t, h.validateInput(`{"applicationId": "app-1"}`))
	assert.Error(t, h.validateInput(`{}`))
	assert.Error(t, h.validateInput(`{"applicationId": ""}`))
}
