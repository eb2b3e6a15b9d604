package entity

type Stage string

const (
	StageInit          Stage = "init"
	StageAuthenticated Stage = "authenticated"
	StageNavigated     Stage = "navigated"
	StageFilled        Stage = "filled"
	StageSubmitted     Stage = "submitted"
	StageExtracted     Stage = "extracted"
	StageFailed        Stage = "failed"
	StageClosed        Stage = "closed"
)

const (
	IdentifierJobNumber = "job_number"
	IdentifierJobID     = "job_id"
)

type SubmissionResult struct {
	Success      bool              `json:"success"`
	Identifiers  map[string]string `json:"identifiers,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
	LandingURL   string            `json:"landing_url,omitempty"`
	Stages       []Stage           `json:"stages"`
	Sections     []SectionReport   `json:"sections,omitempty"`
}

func (r *SubmissionResult) Identifier(name string) (string, bool) {
	if r == nil || r.Identifiers == nil {
		return "", false
	}
	v, ok := r.Identifiers[name]
	return v, ok
}

func (r *SubmissionResult) Reached(stage Stage) bool {
	for _, s := range r.Stages {
		if s == stage {
			return true
		}
	}
	return false
}
