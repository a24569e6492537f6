package types

import (
	"fmt"
	"strings"
)

// Severity orders validation messages.
type Severity int

// Message severities, lowest first.
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the lower-case severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Message codes reported by validation.
const (
	MsgValueNotParsable                 = "VALUE_NOT_PARSABLE"
	MsgValueNotInValueSet               = "VALUE_NOT_IN_VALUE_SET"
	MsgDuplicateValue                   = "DUPLICATE_VALUE"
	MsgInvalidValueInMultiValue         = "INVALID_VALUE_IN_MULTI_VALUE"
	MsgMultiValueMismatch               = "MULTI_VALUE_MISMATCH"
	MsgValueSetTypeMismatch             = "VALUE_SET_TYPE_MISMATCH"
	MsgUnknownType                      = "UNKNOWN_TYPE"
	MsgUnknownTemplate                  = "UNKNOWN_TEMPLATE"
	MsgTemplateNotATemplate             = "TEMPLATE_NOT_A_TEMPLATE"
	MsgTemplateTypeMismatch             = "TEMPLATE_TYPE_MISMATCH"
	MsgTemplateCycle                    = "TEMPLATE_CYCLE"
	MsgInheritedWithoutTemplate         = "INHERITED_WITHOUT_TEMPLATE"
	MsgUndefinedOutsideTemplate         = "UNDEFINED_OUTSIDE_TEMPLATE"
	MsgDifferencesToModel               = "DIFFERENCES_TO_MODEL"
	MsgLessThanMinLinks                 = "LESS_THAN_MIN_LINKS"
	MsgMoreThanMaxLinks                 = "MORE_THAN_MAX_LINKS"
	MsgDuplicateTarget                  = "DUPLICATE_TARGET"
	MsgMinGreaterThanMax                = "MIN_GREATER_THAN_MAX"
	MsgMaxCardinalityMustBeAtLeastOne   = "MAX_CARDINALITY_MUST_BE_AT_LEAST_1"
	MsgDefaultNotInRange                = "DEFAULT_CARDINALITY_NOT_IN_RANGE"
	MsgMaxCardinalityExceedsModelMax    = "MAX_CARDINALITY_EXCEEDS_MODEL_MAX"
	MsgMinCardinalityFallsBelowModelMin = "MIN_CARDINALITY_FALLS_BELOW_MODEL_MIN"
	MsgUnknownTarget                    = "UNKNOWN_TARGET"
	MsgInvalidTarget                    = "INVALID_TARGET"
)

// ObjectProperty points a message at the object (and optionally the field
// and list index) it is about.
type ObjectProperty struct {
	Object   any
	Property string
	Index    int
}

// Message is a single validation finding.
type Message struct {
	Code           string
	Severity       Severity
	Text           string
	InvalidObjects []ObjectProperty
}

// NewError builds an error message.
func NewError(code, text string, objects ...ObjectProperty) Message {
	return Message{Code: code, Severity: SeverityError, Text: text, InvalidObjects: objects}
}

// NewWarning builds a warning message.
func NewWarning(code, text string, objects ...ObjectProperty) Message {
	return Message{Code: code, Severity: SeverityWarning, Text: text, InvalidObjects: objects}
}

// String renders "severity CODE: text".
func (m Message) String() string {
	return fmt.Sprintf("%s %s: %s", m.Severity, m.Code, m.Text)
}

// About reports whether the message references obj.
func (m Message) About(obj any) bool {
	for _, op := range m.InvalidObjects {
		if op.Object == obj {
			return true
		}
	}
	return false
}

// MessageList collects messages in the order they were reported.
type MessageList []Message

// Add appends messages to the list.
func (l *MessageList) Add(msgs ...Message) {
	*l = append(*l, msgs...)
}

// Len returns the number of messages.
func (l MessageList) Len() int {
	return len(l)
}

// IsEmpty reports whether no messages were added.
func (l MessageList) IsEmpty() bool {
	return len(l) == 0
}

// ContainsErrors reports whether at least one message is an error.
func (l MessageList) ContainsErrors() bool {
	return l.MaxSeverity() == SeverityError
}

// MaxSeverity returns the highest severity in the list, SeverityInfo when
// the list is empty.
func (l MessageList) MaxSeverity() Severity {
	max := SeverityInfo
	for _, m := range l {
		if m.Severity > max {
			max = m.Severity
		}
	}
	return max
}

// ByCode returns the first message with the given code, or nil.
func (l MessageList) ByCode(code string) *Message {
	for i := range l {
		if l[i].Code == code {
			return &l[i]
		}
	}
	return nil
}

// AllByCode returns every message with the given code.
func (l MessageList) AllByCode(code string) MessageList {
	var out MessageList
	for _, m := range l {
		if m.Code == code {
			out = append(out, m)
		}
	}
	return out
}

// About returns the messages that reference obj.
func (l MessageList) About(obj any) MessageList {
	var out MessageList
	for _, m := range l {
		if m.About(obj) {
			out = append(out, m)
		}
	}
	return out
}

// String renders one message per line.
func (l MessageList) String() string {
	var sb strings.Builder
	for i, m := range l {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}
