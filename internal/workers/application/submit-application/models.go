// internal/workers/application/submit-application/models.go
package submitapplication

type Input struct {
	ApplicationID string `json:"applicationId,omitempty"`
	ScholarshipID string `json:"scholarshipId,omitempty"`
	StudentID     string `json:"studentId,omitempty"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
}

type Output struct {
	ApplicationID     string `json:"applicationId"`
	Status            string `json:"status"`
	RequiredGraders   int    `json:"requiredGraders"`
	RequiredApprovers int    `json:"requiredApprovers"`
	SubmittedAt       string `json:"submittedAt"` // ISO 8601
}

const inputSchema = `{
	"type": "object",
	"properties": {
		"applicationId": {"type": "string", "minLength": 1},
		"scholarshipId": {"type": "string", "minLength": 1},
		"studentId": {"type": "string", "minLength": 1},
		"firstName": {"type": "string"},
		"lastName": {"type": "string"}
	},
	"anyOf": [
		{"required": ["applicationId"]},
		{"required": ["scholarshipId", "studentId"]}
	]
}`
