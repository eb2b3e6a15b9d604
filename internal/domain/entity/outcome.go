package entity

type FillOutcome struct {
	Field      string `json:"field"`
	Attempted  bool   `json:"attempted"`
	Succeeded  bool   `json:"succeeded"`
	MethodUsed string `json:"method_used,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

type SectionReport struct {
	Section  SectionName   `json:"section"`
	Variant  string        `json:"variant,omitempty"`
	Outcomes []FillOutcome `json:"outcomes"`
	Err      string        `json:"error,omitempty"`
}

func (r SectionReport) Counts() (attempted, succeeded int) {
	for _, o := range r.Outcomes {
		if o.Attempted {
			attempted++
		}
		if o.Succeeded {
			succeeded++
		}
	}
	return attempted, succeeded
}

// Touched reports whether a field with the given logical name was attempted.
func (r SectionReport) Touched(field string) bool {
	for _, o := range r.Outcomes {
		if o.Field == field && o.Attempted {
			return true
		}
	}
	return false
}
