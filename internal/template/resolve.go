package template

import (
	"fmt"

	"github.com/mesh-intelligence/faktor/pkg/types"
)

// Resolution is the effective state of a property value.
type Resolution struct {
	// Source is the value the payload comes from; nil means the payload is
	// neutral.
	Source *types.PropertyValue

	// Value is a detached copy of pv carrying the effective payload.
	Value *types.PropertyValue
}

// IsNeutral reports whether no value supplied the payload.
func (r Resolution) IsNeutral() bool {
	return r.Source == nil
}

// Resolve computes the effective payload of pv. Neutral payloads are a
// null value (an empty list for multi-value attributes), an unrestricted
// value set, an empty expression or table name, and an inactive rule.
func (f *Finder) Resolve(pv *types.PropertyValue) Resolution {
	src := f.Source(pv)
	eff := &types.PropertyValue{
		ID:           pv.ID,
		PropertyName: pv.PropertyName,
		ValueType:    pv.ValueType,
		Status:       pv.Status,
	}
	if src != nil {
		eff.CopyPayloadFrom(src)
		return Resolution{Source: src, Value: eff}
	}
	prop := f.property(pv)
	switch pv.ValueType {
	case types.ValueTypeAttributeValue:
		eff.Holder = types.NewValueHolder(prop != nil && prop.MultiValue)
	case types.ValueTypeConfiguredDefault:
		eff.Holder = types.NewValueHolder(false)
	case types.ValueTypeConfiguredValueSet:
		eff.ValueSet = types.NewUnrestrictedValueSet()
	}
	return Resolution{Value: eff}
}

// EffectiveHolder returns the effective value holder of pv.
func (f *Finder) EffectiveHolder(pv *types.PropertyValue) types.ValueHolder {
	return f.Resolve(pv).Value.Holder
}

// EffectiveValueSet returns the effective configured value set of pv.
func (f *Finder) EffectiveValueSet(pv *types.PropertyValue) types.ValueSet {
	return f.Resolve(pv).Value.ValueSet
}

// EffectiveLink returns the link whose cardinality is effective for l, nil
// when l is UNDEFINED or inherits nothing.
func (f *Finder) EffectiveLink(l *types.Link) *types.Link {
	switch l.Status {
	case types.StatusDefined:
		return l
	case types.StatusInherited:
		return f.FindTemplateLink(l)
	default:
		return nil
	}
}

// SetStatus moves pv to status and adjusts the payload so the effective
// value stays meaningful:
//   - INHERITED needs a template container (ErrNoTemplate otherwise) and
//     drops the local payload;
//   - DEFINED coming from INHERITED or UNDEFINED copies the currently
//     effective payload, or the model default when that is neutral;
//   - UNDEFINED drops the local payload.
func (f *Finder) SetStatus(pv *types.PropertyValue, status types.TemplateValueStatus) error {
	if pv.Status == status {
		return nil
	}
	switch status {
	case types.StatusInherited:
		if f.TemplateContainer(pv.Container()) == nil {
			return fmt.Errorf("%w: %s", types.ErrNoTemplate, pv.Key())
		}
		pv.ClearPayload()
	case types.StatusDefined:
		res := f.Resolve(pv)
		if res.IsNeutral() {
			pv.InitPayload(f.property(pv))
		} else {
			pv.CopyPayloadFrom(res.Value)
		}
	case types.StatusUndefined:
		pv.ClearPayload()
	}
	pv.SetStatus(status)
	return nil
}

// SetLinkStatus is SetStatus for links. Switching to DEFINED copies the
// inherited cardinality.
func (f *Finder) SetLinkStatus(l *types.Link, status types.TemplateValueStatus) error {
	if l.Status == status {
		return nil
	}
	switch status {
	case types.StatusInherited:
		if f.TemplateContainer(l.Container()) == nil {
			return fmt.Errorf("%w: %s", types.ErrNoTemplate, l.Key())
		}
	case types.StatusDefined:
		if src := f.EffectiveLink(l); src != nil && src != l {
			l.SetCardinality(src.Min, src.Max, src.Default)
		}
	}
	l.SetStatus(status)
	return nil
}
