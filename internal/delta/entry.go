package delta

import (
	"fmt"

	"github.com/mesh-intelligence/faktor/pkg/types"
)

// EntryKind classifies a difference between stored values and the model.
type EntryKind string

// Entry kinds.
const (
	KindMissingPropertyValue         EntryKind = "MISSING_PROPERTY_VALUE"
	KindValueWithoutProperty         EntryKind = "VALUE_WITHOUT_PROPERTY"
	KindPropertyTypeMismatch         EntryKind = "PROPERTY_TYPE_MISMATCH"
	KindValueSetMismatch             EntryKind = "VALUE_SET_MISMATCH"
	KindValueHolderMismatch          EntryKind = "VALUE_HOLDER_MISMATCH"
	KindLinkWithoutAssociation       EntryKind = "LINK_WITHOUT_ASSOCIATION"
	KindLinkChangingOverTimeMismatch EntryKind = "LINK_CHANGING_OVER_TIME_MISMATCH"
	KindInvalidGenerations           EntryKind = "INVALID_GENERATIONS"
)

// Entry is one difference found in a container.
type Entry struct {
	Kind EntryKind

	// PropertyName and ValueType identify the value concerned.
	PropertyName string
	ValueType    types.PropertyValueType

	// Property is the declared property, nil for values without one.
	Property *types.Property

	// Value is the stored value the entry is about, nil for missing
	// values.
	Value *types.PropertyValue

	// Source is a detached copy, taken by Compute, of the value a missing
	// value is migrated from: the value of the other temporal level when
	// the property moved between levels.
	Source *types.PropertyValue

	// Migrated marks a stray value that a missing value on the other
	// level takes over. Fix removes it instead of demoting it.
	Migrated bool

	// Link and Association are set for link entries.
	Link        *types.Link
	Association *types.Association
}

// String renders the entry for listings.
func (e *Entry) String() string {
	switch e.Kind {
	case KindLinkWithoutAssociation, KindLinkChangingOverTimeMismatch:
		return fmt.Sprintf("%s %s", e.Kind, e.Link.Key())
	case KindInvalidGenerations:
		return string(e.Kind)
	case KindPropertyTypeMismatch:
		return fmt.Sprintf("%s %s/%s -> %s", e.Kind, e.PropertyName, e.Value.ValueType, e.ValueType)
	default:
		return fmt.Sprintf("%s %s/%s", e.Kind, e.PropertyName, e.ValueType)
	}
}
