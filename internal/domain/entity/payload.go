package entity

import (
	"strconv"
	"strings"
)

// Payload is the decoded request document: section name -> section payload.
type Payload map[string]any

// SectionPayload maps logical field names to scalar, nested or array values.
type SectionPayload map[string]any

func (p Payload) Section(name SectionName) (SectionPayload, bool) {
	raw, ok := p[string(name)]
	if !ok {
		return nil, false
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	return SectionPayload(m), true
}

func (p Payload) String(section SectionName, field string) string {
	s, ok := p.Section(section)
	if !ok {
		return ""
	}
	v, _ := ScalarString(s[field])
	return v
}

// IsEmpty reports whether a payload value should be skipped. false is a real
// value for checkboxes and is not empty.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// ScalarString renders a scalar payload value as the text typed into a control.
func ScalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

// Bool interprets checkbox payload values.
func Bool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1", "on", "checked":
			return true, true
		case "false", "no", "n", "0", "off", "unchecked":
			return false, true
		}
	case float64:
		return t != 0, true
	}
	return false, false
}

// StringList flattens an array payload value into trimmed non-empty strings.
func StringList(v any) []string {
	var out []string
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range t {
			if s, ok := ScalarString(item); ok && s != "" {
				out = append(out, s)
			}
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}
