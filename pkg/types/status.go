package types

import "strings"

// TemplateValueStatus tells how a property value or link relates to the
// template chain of its container.
type TemplateValueStatus int

// Template value statuses. The zero value is StatusDefined.
const (
	StatusDefined   TemplateValueStatus = iota // local value is authoritative
	StatusInherited                            // defer to the nearest template ancestor
	StatusUndefined                            // explicitly blank, stops inheritance
)

// Persisted status strings. "excluded" is the legacy attribute status and
// is read as undefined.
const (
	statusDefinedName   = "defined"
	statusInheritedName = "inherited"
	statusUndefinedName = "undefined"
	statusExcludedName  = "excluded"
)

// String returns the persisted form of the status.
func (s TemplateValueStatus) String() string {
	switch s {
	case StatusInherited:
		return statusInheritedName
	case StatusUndefined:
		return statusUndefinedName
	default:
		return statusDefinedName
	}
}

// ParseTemplateValueStatus reads a persisted status. Matching is case
// insensitive. Empty and unknown strings yield StatusDefined; a load never
// fails because of a status string.
func ParseTemplateValueStatus(s string) TemplateValueStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case statusInheritedName:
		return StatusInherited
	case statusUndefinedName, statusExcludedName:
		return StatusUndefined
	default:
		return StatusDefined
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s TemplateValueStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It never fails.
func (s *TemplateValueStatus) UnmarshalText(text []byte) error {
	*s = ParseTemplateValueStatus(string(text))
	return nil
}
