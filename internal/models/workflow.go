// internal/models/workflow.go
package models

// Decision is an approver's verdict on an application.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// Valid reports whether d is a known decision.
func (d Decision) Valid() bool {
	return d == DecisionApprove || d == DecisionReject
}

// Outcome is the terminal result of the workflow.
type Outcome string

const (
	OutcomeApproved Outcome = "APPROVED"
	OutcomeRejected Outcome = "REJECTED"
)

// QuorumRequirement holds the thresholds resolved from a scholarship's
// assigned committee and reviewer sets.
type QuorumRequirement struct {
	Graders   int `json:"graders"`
	Approvers int `json:"approvers"`
}

// WorkflowState is the read-only projection of an application's progress.
type WorkflowState struct {
	ApplicationID     string            `json:"applicationId"`
	Status            ApplicationStatus `json:"status"`
	GradersSoFar      int               `json:"gradersSoFar"`
	ApproversSoFar    int               `json:"approversSoFar"`
	RequiredGraders   int               `json:"requiredGraders"`
	RequiredApprovers int               `json:"requiredApprovers"`
	CombinedScore     int               `json:"combinedScore"`
}

// GradingOutcome is returned to the submitter of a grade.
type GradingOutcome struct {
	Status           ApplicationStatus `json:"status"`
	GraderNormalized int               `json:"graderNormalized"`
	CombinedScore    int               `json:"combinedScoreSoFar"`
	GradersSoFar     int               `json:"gradersSoFar"`
	RequiredGraders  int               `json:"requiredGraders"`
}

// ApprovalOutcome is returned to the submitter of a decision.
type ApprovalOutcome struct {
	Status            ApplicationStatus `json:"status"`
	ApproversSoFar    int               `json:"approversSoFar"`
	RequiredApprovers int               `json:"requiredApprovers"`
}
