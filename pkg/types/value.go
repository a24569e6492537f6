package types

import (
	"fmt"
	"slices"
	"strings"
)

// Value is a nullable scalar. The zero Value is null.
type Value struct {
	Content string
	Valid   bool
}

// StringValue returns a non-null Value holding s.
func StringValue(s string) Value {
	return Value{Content: s, Valid: true}
}

// NullValue returns the null Value.
func NullValue() Value {
	return Value{}
}

// IsNull reports whether v carries no content.
func (v Value) IsNull() bool {
	return !v.Valid
}

// String returns the content, or "<null>" for the null value.
func (v Value) String() string {
	if !v.Valid {
		return "<null>"
	}
	return v.Content
}

// ValueHolder stores the payload of an attribute value: either a single
// Value or an ordered list of values.
type ValueHolder interface {
	// IsMultiValue reports whether the holder stores a list.
	IsMultiValue() bool

	// Values returns the stored values. A single holder returns one
	// element, which may be null.
	Values() []Value

	// IsNull reports whether the holder carries no content: a null single
	// value or an empty list.
	IsNull() bool

	// Copy returns an independent holder with the same values.
	Copy() ValueHolder

	// Equal compares holders structurally.
	Equal(other ValueHolder) bool

	// Validate checks the stored values against datatype and valueSet (nil
	// means unrestricted). owner is referenced by holder-level messages.
	Validate(datatype Datatype, valueSet ValueSet, owner any) MessageList

	String() string
}

// SingleValueHolder holds exactly one, possibly null, value.
type SingleValueHolder struct {
	Value Value
}

var _ ValueHolder = (*SingleValueHolder)(nil)

// NewSingleValueHolder returns a holder for v.
func NewSingleValueHolder(v Value) *SingleValueHolder {
	return &SingleValueHolder{Value: v}
}

func (h *SingleValueHolder) IsMultiValue() bool { return false }

func (h *SingleValueHolder) Values() []Value { return []Value{h.Value} }

func (h *SingleValueHolder) IsNull() bool { return h.Value.IsNull() }

func (h *SingleValueHolder) Copy() ValueHolder {
	return &SingleValueHolder{Value: h.Value}
}

func (h *SingleValueHolder) Equal(other ValueHolder) bool {
	o, ok := other.(*SingleValueHolder)
	if !ok || o == nil {
		return false
	}
	return h.Value == o.Value
}

func (h *SingleValueHolder) String() string { return h.Value.String() }

// Validate reports a value that does not parse for datatype, or that lies
// outside valueSet.
func (h *SingleValueHolder) Validate(datatype Datatype, valueSet ValueSet, owner any) MessageList {
	var ml MessageList
	if h.Value.IsNull() {
		if valueSet != nil && !valueSet.ContainsNull() {
			ml.Add(NewError(MsgValueNotInValueSet, "the null value is not allowed by the value set",
				ObjectProperty{Object: h}, ObjectProperty{Object: owner}))
		}
		return ml
	}
	if err := datatype.Parse(h.Value.Content); err != nil {
		ml.Add(NewError(MsgValueNotParsable, err.Error(),
			ObjectProperty{Object: h}, ObjectProperty{Object: owner}))
		return ml
	}
	if valueSet != nil && !valueSet.Contains(h.Value, datatype) {
		ml.Add(NewError(MsgValueNotInValueSet,
			fmt.Sprintf("value %q is not in the value set %s", h.Value.Content, valueSet),
			ObjectProperty{Object: h}, ObjectProperty{Object: owner}))
	}
	return ml
}

// MultiValueHolder holds an ordered list of single values.
type MultiValueHolder struct {
	Holders []*SingleValueHolder
}

var _ ValueHolder = (*MultiValueHolder)(nil)

// NewMultiValueHolder returns a holder for values, in order.
func NewMultiValueHolder(values ...Value) *MultiValueHolder {
	h := &MultiValueHolder{Holders: make([]*SingleValueHolder, 0, len(values))}
	for _, v := range values {
		h.Holders = append(h.Holders, NewSingleValueHolder(v))
	}
	return h
}

func (h *MultiValueHolder) IsMultiValue() bool { return true }

func (h *MultiValueHolder) Values() []Value {
	out := make([]Value, len(h.Holders))
	for i, s := range h.Holders {
		out[i] = s.Value
	}
	return out
}

func (h *MultiValueHolder) IsNull() bool { return len(h.Holders) == 0 }

func (h *MultiValueHolder) Copy() ValueHolder {
	return NewMultiValueHolder(h.Values()...)
}

func (h *MultiValueHolder) Equal(other ValueHolder) bool {
	o, ok := other.(*MultiValueHolder)
	if !ok || o == nil {
		return false
	}
	return slices.Equal(h.Values(), o.Values())
}

func (h *MultiValueHolder) String() string {
	parts := make([]string, len(h.Holders))
	for i, s := range h.Holders {
		parts[i] = s.Value.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Validate validates every element, then reports one MsgDuplicateValue per
// group of equal values. The message references each duplicate element
// and the multi holder. If any element produced an error, a single
// MsgInvalidValueInMultiValue summary referencing owner follows.
func (h *MultiValueHolder) Validate(datatype Datatype, valueSet ValueSet, owner any) MessageList {
	var ml MessageList
	for _, s := range h.Holders {
		ml.Add(s.Validate(datatype, valueSet, h)...)
	}

	groups := make(map[Value][]*SingleValueHolder)
	var order []Value
	for _, s := range h.Holders {
		if _, seen := groups[s.Value]; !seen {
			order = append(order, s.Value)
		}
		groups[s.Value] = append(groups[s.Value], s)
	}
	for _, v := range order {
		dups := groups[v]
		if len(dups) < 2 {
			continue
		}
		objects := make([]ObjectProperty, 0, len(dups)+1)
		for _, s := range dups {
			objects = append(objects, ObjectProperty{Object: s})
		}
		objects = append(objects, ObjectProperty{Object: h})
		ml.Add(NewError(MsgDuplicateValue,
			fmt.Sprintf("value %s occurs %d times", v, len(dups)), objects...))
	}

	if ml.ContainsErrors() {
		ml.Add(NewError(MsgInvalidValueInMultiValue, "the list contains invalid values",
			ObjectProperty{Object: h}, ObjectProperty{Object: owner}))
	}
	return ml
}

// NewValueHolder returns an empty holder of the requested multiplicity: a
// null single value or an empty list.
func NewValueHolder(multi bool) ValueHolder {
	if multi {
		return NewMultiValueHolder()
	}
	return NewSingleValueHolder(NullValue())
}

// ConvertValueHolder returns h converted to the requested multiplicity. A
// single value becomes a one-element list (empty for null); a list keeps
// its first element.
func ConvertValueHolder(h ValueHolder, multi bool) ValueHolder {
	if h == nil {
		return NewValueHolder(multi)
	}
	if h.IsMultiValue() == multi {
		return h.Copy()
	}
	if multi {
		if h.IsNull() {
			return NewMultiValueHolder()
		}
		return NewMultiValueHolder(h.Values()...)
	}
	values := h.Values()
	if len(values) == 0 {
		return NewSingleValueHolder(NullValue())
	}
	return NewSingleValueHolder(values[0])
}
