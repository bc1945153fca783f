// internal/workers/application/workflow-state/models.go
package workflowstate

type Input struct {
	ApplicationID string `json:"applicationId"`
}

type Output struct {
	ApplicationID     string `json:"applicationId"`
	Status            string `json:"status"`
	GradersSoFar      int    `json:"gradersSoFar"`
	ApproversSoFar    int    `json:"approversSoFar"`
	RequiredGraders   int    `json:"requiredGraders"`
	RequiredApprovers int    `json:"requiredApprovers"`
	CombinedScore     int    `json:"combinedScore"`
}

const inputSchema = `{
	"type": "object",
	"required": ["applicationId"],
	"properties": {
		"applicationId": {"type": "string", "minLength": 1}
	}
}`
