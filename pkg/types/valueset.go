package types

import (
	"fmt"
	"slices"
	"strings"
)

// ValueSetType is the kind of a value set.
type ValueSetType string

// Value set kinds, from least to most restrictive.
const (
	ValueSetUnrestricted ValueSetType = "Unrestricted"
	ValueSetEnum         ValueSetType = "Enum"
	ValueSetRange        ValueSetType = "Range"
)

// IsValid reports whether t is a known value set kind.
func (t ValueSetType) IsValid() bool {
	return t == ValueSetUnrestricted || t == ValueSetEnum || t == ValueSetRange
}

// Allows reports whether a model value set of kind t permits a configured
// value set of kind concrete. An unrestricted model allows every kind;
// otherwise the kinds must match.
func (t ValueSetType) Allows(concrete ValueSetType) bool {
	if t == ValueSetUnrestricted || t == "" {
		return true
	}
	return t == concrete
}

// ValueSet restricts the values an attribute may take.
type ValueSet interface {
	Type() ValueSetType
	// Contains reports whether v belongs to the set. Values that do not
	// parse for datatype are never contained in a restricted set.
	Contains(v Value, datatype Datatype) bool
	ContainsNull() bool
	Copy() ValueSet
	Equal(other ValueSet) bool
	String() string
}

// UnrestrictedValueSet allows every value of the datatype.
type UnrestrictedValueSet struct {
	Null bool
}

// NewUnrestrictedValueSet returns the neutral value set: everything
// including null.
func NewUnrestrictedValueSet() *UnrestrictedValueSet {
	return &UnrestrictedValueSet{Null: true}
}

func (s *UnrestrictedValueSet) Type() ValueSetType { return ValueSetUnrestricted }

func (s *UnrestrictedValueSet) Contains(v Value, _ Datatype) bool {
	return v.Valid || s.Null
}

func (s *UnrestrictedValueSet) ContainsNull() bool { return s.Null }

func (s *UnrestrictedValueSet) Copy() ValueSet { c := *s; return &c }

func (s *UnrestrictedValueSet) Equal(other ValueSet) bool {
	o, ok := other.(*UnrestrictedValueSet)
	return ok && o != nil && *o == *s
}

func (s *UnrestrictedValueSet) String() string { return "Unrestricted" }

// EnumValueSet allows an explicit list of values.
type EnumValueSet struct {
	Values []string
	Null   bool
}

func (s *EnumValueSet) Type() ValueSetType { return ValueSetEnum }

func (s *EnumValueSet) Contains(v Value, datatype Datatype) bool {
	if !v.Valid {
		return s.Null
	}
	for _, e := range s.Values {
		if e == v.Content {
			return true
		}
		if datatype.IsOrdered() {
			if c, err := datatype.Compare(e, v.Content); err == nil && c == 0 {
				return true
			}
		}
	}
	return false
}

func (s *EnumValueSet) ContainsNull() bool { return s.Null }

func (s *EnumValueSet) Copy() ValueSet {
	return &EnumValueSet{Values: slices.Clone(s.Values), Null: s.Null}
}

func (s *EnumValueSet) Equal(other ValueSet) bool {
	o, ok := other.(*EnumValueSet)
	return ok && o != nil && o.Null == s.Null && slices.Equal(o.Values, s.Values)
}

func (s *EnumValueSet) String() string {
	return "[" + strings.Join(s.Values, ", ") + "]"
}

// RangeValueSet allows values between two optional bounds. An empty bound
// is open. Step, when set, requires (v - lower) to be a multiple of it.
type RangeValueSet struct {
	Lower string
	Upper string
	Step  string
	Null  bool
}

func (s *RangeValueSet) Type() ValueSetType { return ValueSetRange }

func (s *RangeValueSet) Contains(v Value, datatype Datatype) bool {
	if !v.Valid {
		return s.Null
	}
	if !datatype.IsOrdered() {
		return false
	}
	if s.Lower != "" {
		c, err := datatype.Compare(v.Content, s.Lower)
		if err != nil || c < 0 {
			return false
		}
	}
	if s.Upper != "" {
		c, err := datatype.Compare(v.Content, s.Upper)
		if err != nil || c > 0 {
			return false
		}
	}
	if s.Step != "" && s.Lower != "" && datatype.IsNumeric() {
		return onStep(v.Content, s.Lower, s.Step)
	}
	return true
}

func (s *RangeValueSet) ContainsNull() bool { return s.Null }

func (s *RangeValueSet) Copy() ValueSet { c := *s; return &c }

func (s *RangeValueSet) Equal(other ValueSet) bool {
	o, ok := other.(*RangeValueSet)
	return ok && o != nil && *o == *s
}

func (s *RangeValueSet) String() string {
	lower, upper := s.Lower, s.Upper
	if lower == "" {
		lower = "*"
	}
	if upper == "" {
		upper = "*"
	}
	if s.Step != "" {
		return fmt.Sprintf("%s..%s/%s", lower, upper, s.Step)
	}
	return lower + ".." + upper
}

// NewValueSet returns an empty value set of kind t. Unknown kinds yield an
// unrestricted set.
func NewValueSet(t ValueSetType) ValueSet {
	switch t {
	case ValueSetEnum:
		return &EnumValueSet{}
	case ValueSetRange:
		return &RangeValueSet{}
	default:
		return NewUnrestrictedValueSet()
	}
}

// CopyValueSet returns a copy of vs, or the neutral set for nil.
func CopyValueSet(vs ValueSet) ValueSet {
	if vs == nil {
		return NewUnrestrictedValueSet()
	}
	return vs.Copy()
}

// ValueSetSpec is the serializable form of a value set.
type ValueSetSpec struct {
	Type         ValueSetType `json:"type" yaml:"type" validate:"omitempty,oneof=Unrestricted Enum Range"`
	Values       []string     `json:"values,omitempty" yaml:"values,omitempty"`
	Lower        string       `json:"lower,omitempty" yaml:"lower,omitempty"`
	Upper        string       `json:"upper,omitempty" yaml:"upper,omitempty"`
	Step         string       `json:"step,omitempty" yaml:"step,omitempty"`
	ContainsNull bool         `json:"contains_null,omitempty" yaml:"contains_null,omitempty"`
}

// ValueSet builds the value set described by spec. A nil spec yields nil.
func (spec *ValueSetSpec) ValueSet() ValueSet {
	if spec == nil {
		return nil
	}
	switch spec.Type {
	case ValueSetEnum:
		return &EnumValueSet{Values: slices.Clone(spec.Values), Null: spec.ContainsNull}
	case ValueSetRange:
		return &RangeValueSet{Lower: spec.Lower, Upper: spec.Upper, Step: spec.Step, Null: spec.ContainsNull}
	default:
		return &UnrestrictedValueSet{Null: spec.ContainsNull}
	}
}

// SpecOf returns the serializable form of vs, nil for nil.
func SpecOf(vs ValueSet) *ValueSetSpec {
	switch s := vs.(type) {
	case *UnrestrictedValueSet:
		return &ValueSetSpec{Type: ValueSetUnrestricted, ContainsNull: s.Null}
	case *EnumValueSet:
		return &ValueSetSpec{Type: ValueSetEnum, Values: slices.Clone(s.Values), ContainsNull: s.Null}
	case *RangeValueSet:
		return &ValueSetSpec{Type: ValueSetRange, Lower: s.Lower, Upper: s.Upper, Step: s.Step, ContainsNull: s.Null}
	default:
		return nil
	}
}
