package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ==========================================
// Rubric Score Tests
// ==========================================

func TestRubricScores_Normalized(t *testing.T) {
	tests := []struct {
		name   string
		scores RubricScores
		want   int
	}{
		{"all zero", RubricScores{0, 0, 0}, 0},
		{"all max", RubricScores{20, 20, 20}, 100},
		{"worked example grader A", RubricScores{18, 16, 17}, 85},
		{"worked example grader B", RubricScores{15, 14, 16}, 75},
		{"truncates, never rounds", RubricScores{0, 20, 0}, 33}, // 2000/60 = 33.33
		{"single point", RubricScores{1, 0, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scores.Normalized())
		})
	}
}

// ==========================================
// Application Ledger Tests
// ==========================================

func gradesFor(graderID string, scores RubricScores) []GradeRecord {
	var out []GradeRecord
	for _, c := range RubricCategories {
		out = append(out, GradeRecord{GraderID: graderID, Category: c, Score: scores.Score(c)})
	}
	return out
}

func TestApplication_CombinedScore(t *testing.T) {
	app := &Application{Status: StatusPendingApproval}
	app.Grades = append(app.Grades, gradesFor("a", RubricScores{18, 16, 17})...)
	app.Grades = append(app.Grades, gradesFor("b", RubricScores{15, 14, 16})...)
	app.Grades = append(app.Grades, gradesFor("c", RubricScores{17, 17, 17})...)

	assert.Equal(t, 245, app.CombinedScore())
	assert.Equal(t, 3, app.GraderCount())
	assert.Equal(t, []string{"a", "b", "c"}, app.DistinctGraders())
}

func TestApplication_GraderScores(t *testing.T) {
	app := &Application{}
	app.Grades = append(app.Grades, gradesFor("a", RubricScores{18, 16, 17})...)

	scores, ok := app.GraderScores("a")
	assert.True(t, ok)
	assert.Equal(t, RubricScores{18, 16, 17}, scores)

	_, ok = app.GraderScores("b")
	assert.False(t, ok)
}

func TestApplication_Clone(t *testing.T) {
	now := time.Now()
	app := &Application{
		ID:          "app-1",
		Status:      StatusUnderReview,
		Grades:      gradesFor("a", RubricScores{1, 2, 3}),
		Approvals:   []string{"r1"},
		SubmittedAt: &now,
	}

	cp := app.Clone()
	cp.Grades[0].Score = 9
	cp.Approvals[0] = "r2"
	*cp.SubmittedAt = now.Add(time.Hour)

	assert.Equal(t, 1, app.Grades[0].Score)
	assert.Equal(t, "r1", app.Approvals[0])
	assert.True(t, app.SubmittedAt.Equal(now))
}

func TestApplicationStatus(t *testing.T) {
	assert.True(t, StatusApproved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.False(t, StatusPendingApproval.IsTerminal())

	assert.True(t, StatusDraft.Valid())
	assert.False(t, ApplicationStatus("LIMBO").Valid())
}

func TestDecision_Valid(t *testing.T) {
	assert.True(t, DecisionApprove.Valid())
	assert.True(t, DecisionReject.Valid())
	assert.False(t, Decision("approve").Valid())
	assert.False(t, Decision("").Valid())
}
