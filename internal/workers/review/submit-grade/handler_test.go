// internal/workers/review/submit-grade/handler_test.go
package submitgrade

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarship-workflow/internal/audit"
	commonerrors "scholarship-workflow/internal/common/errors"
	"scholarship-workflow/internal/common/logger"
	"scholarship-workflow/internal/directory"
	"scholarship-workflow/internal/notify"
	"scholarship-workflow/internal/store"
	"scholarship-workflow/internal/workflow"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestHandler(t *testing.T, committee []string) (*Handler, string) {
	t.Helper()
	ctx := context.Background()

	dir := &directory.Static{
		Committees: map[string][]string{"sch-1": committee},
		Reviewers:  map[string][]string{"sch-1": {"r1"}},
	}
	engine := workflow.NewEngine(store.NewMemoryStore(), workflow.NewResolver(dir),
		&notify.Recorder{}, &audit.Memory{}, logger.NewTestLogger(t))

	app, err := engine.CreateDraft(ctx, workflow.NewApplication{
		ScholarshipID: "sch-1", StudentID: "stu-1", FirstName: "Siti", LastName: "Rahma",
	})
	require.NoError(t, err)
	_, err = engine.Submit(ctx, app.ID)
	require.NoError(t, err)

	h, err := NewHandler(LoadConfig(), engine, logger.NewTestLogger(t))
	require.NoError(t, err)
	return h, app.ID
}

// ==========================
// Execute Tests
// ==========================

func TestExecute_RecordsGrade(t *testing.T) {
	h, appID := newTestHandler(t, []string{"g1", "g2"})

	output, err := h.Execute(context.Background(), &Input{
		ApplicationID: appID,
		GraderID:      "g1",
		Scores:        Scores{Academic: 18, Cocurricular: 16, Leadership: 17},
	})

	require.NoError(t, err)
	assert.Equal(t, "UNDER_REVIEW", output.Status)
	assert.Equal(t, 85, output.GraderNormalized)
	assert.Equal(t, 1, output.GradersSoFar)
	assert.Equal(t, 2, output.RequiredGraders)
}

func TestExecute_QuorumReached(t *testing.T) {
	h, appID := newTestHandler(t, []string{"g1"})

	output, err := h.Execute(context.Background(), &Input{
		ApplicationID: appID,
		GraderID:      "g1",
		Scores:        Scores{Academic: 15, Cocurricular: 15, Leadership: 15},
	})

	require.NoError(t, err)
	assert.Equal(t, "PENDING_APPROVAL", output.Status)
}

func TestExecute_InvalidScore(t *testing.T) {
	h, appID := newTestHandler(t, []string{"g1"})

	_, err := h.Execute(context.Background(), &Input{
		ApplicationID: appID,
		GraderID:      "g1",
		Scores:        Scores{Academic: 25, Cocurricular: 10, Leadership: 10},
	})

	assert.True(t, commonerrors.IsCode(err, commonerrors.ErrCodeInvalidScore))
}

func TestExecute_UnauthorizedGrader(t *testing.T) {
	h, appID := newTestHandler(t, []string{"g1"})

	_, err := h.Execute(context.Background(), &Input{
		ApplicationID: appID,
		GraderID:      "outsider",
		Scores:        Scores{Academic: 10, Cocurricular: 10, Leadership: 10},
	})

	assert.True(t, commonerrors.IsCode(err, commonerrors.ErrCodeUnauthorizedGrader))
}

func TestExecute_UnknownApplication(t *testing.T) {
	h, _ := newTestHandler(t, []string{"g1"})

	_, err := h.Execute(context.Background(), &Input{
		ApplicationID: "missing",
		GraderID:      "g1",
		Scores:        Scores{Academic: 10, Cocurricular: 10, Leadership: 10},
	})

	assert.True(t, commonerrors.IsCode(err, commonerrors.ErrCodeUnknownApplication))
}

// ==========================
// Input Schema Tests
// ==========================

func TestValidateInput(t *testing.T) {
	h, _ := newTestHandler(t, []string{"g1"})

	tests := []struct {
		name      string
		variables string
		wantErr   bool
	}{
		{
			name:      "full rubric payload",
			variables: `{"applicationId": "app-1", "graderId": "g1", "scores": {"academic": 18, "cocurricular": 16, "leadership": 17}}`,
			wantErr:   false,
		},
		{
			name:      "missing category",
			variables: `{"applicationId": "app-1", "graderId": "g1", "scores": {"academic": 18, "cocurricular": 16}}`,
			wantErr:   true,
		},
		{
			name:      "missing grader",
			variables: `{"applicationId": "app-1", "scores": {"academic": 18, "cocurricular": 16, "leadership": 17}}`,
			wantErr:   true,
		},
		{
			name:      "non-integer score",
			variables: `{"applicationId": "app-1", "graderId": "g1", "scores": {"academic": "high", "cocurricular": 16, "leadership": 17}}`,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.validateInput(tt.variables)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
