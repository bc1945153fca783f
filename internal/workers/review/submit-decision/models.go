// internal/workers/review/submit-decision/models.go
package submitdecision

type Input struct {
	ApplicationID string `json:"applicationId"`
	ApproverID    string `json:"approverId"`
	Decision      string `json:"decision"` // "APPROVE" or "REJECT"
}

type Output struct {
	ApplicationID     string `json:"applicationId"`
	Status            string `json:"status"`
	ApproversSoFar    int    `json:"approversSoFar"`
	RequiredApprovers int    `json:"requiredApprovers"`
	Finalized         bool   `json:"finalized"`
}

const inputSchema = `{
	"type": "object",
	"required": ["applicationId", "approverId", "decision"],
	"properties": {
		"applicationId": {"type": "string", "minLength": 1},
		"approverId": {"type": "string", "minLength": 1},
		"decision": {"type": "string", "minLength": 1}
	}
}`
