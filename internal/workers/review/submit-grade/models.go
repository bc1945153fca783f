// internal/workers/review/submit-grade/models.go
package submitgrade

type Scores struct {
	Academic     int `json:"academic"`
	Cocurricular int `json:"cocurricular"`
	Leadership   int `json:"leadership"`
}

type Input struct {
	ApplicationID string `json:"applicationId"`
	GraderID      string `json:"graderId"`
	Scores        Scores `json:"scores"`
	Remarks       string `json:"remarks,omitempty"`
}

type Output struct {
	ApplicationID    string `json:"applicationId"`
	Status           string `json:"status"`
	GraderNormalized int    `json:"graderNormalized"`
	CombinedScore    int    `json:"combinedScoreSoFar"`
	GradersSoFar     int    `json:"gradersSoFar"`
	RequiredGraders  int    `json:"requiredGraders"`
}

const inputSchema = `{
	"type": "object",
	"required": ["applicationId", "graderId", "scores"],
	"properties": {
		"applicationId": {"type": "string", "minLength": 1},
		"graderId": {"type": "string", "minLength": 1},
		"scores": {
			"type": "object",
			"required": ["academic", "cocurricular", "leadership"],
			"properties": {
				"academic": {"type": "integer"},
				"cocurricular": {"type": "integer"},
				"leadership": {"type": "integer"}
			}
		},
		"remarks": {"type": "string"}
	}
}`
