package types

import (
	"fmt"

	"github.com/google/uuid"
)

// ChangeEvent describes a modification of a property value or link.
type ChangeEvent struct {
	Source   any
	Property string
	Old      any
	New      any
}

// ChangeListener receives change events. Listeners run synchronously on
// the caller's goroutine.
type ChangeListener func(ChangeEvent)

// Changed properties reported in ChangeEvent.Property.
const (
	ChangedStatus           = "templateValueStatus"
	ChangedValueHolder      = "valueHolder"
	ChangedValueSet         = "valueSet"
	ChangedExpression       = "expression"
	ChangedTableContentName = "tableContentName"
	ChangedActive           = "active"
	ChangedCardinality      = "cardinality"
)

// NewID returns a UUID v7 for property values and links.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// PropertyValue is the value a container holds for one type-declared
// property. Which payload field is meaningful depends on ValueType:
// Holder for attribute values and configured defaults (always single for
// defaults), ValueSet for configured value sets, Expression for formulas,
// TableContentName for table usages, Active for rule configs. Values whose
// status is not StatusDefined carry no payload.
type PropertyValue struct {
	ID           string
	PropertyName string
	ValueType    PropertyValueType
	Status       TemplateValueStatus

	Holder           ValueHolder
	ValueSet         ValueSet
	Expression       string
	TableContentName string
	Active           bool

	container *Container
}

// NewPropertyValue creates a value of type vt for prop with a neutral
// payload: the model default for attributes and defaults, a copy of the
// model value set for configured value sets, the default activation for
// rules. It returns ErrTypeMismatch if prop does not yield vt. An empty id
// is replaced by a new UUID.
func NewPropertyValue(prop *Property, id string, vt PropertyValueType) (*PropertyValue, error) {
	if prop == nil || !prop.Yields(vt) {
		return nil, fmt.Errorf("%w: property does not yield %s", ErrTypeMismatch, vt)
	}
	if id == "" {
		id = NewID()
	}
	pv := &PropertyValue{ID: id, PropertyName: prop.Name, ValueType: vt}
	pv.InitPayload(prop)
	return pv, nil
}

// InitPayload resets the payload to the neutral payload for prop.
func (pv *PropertyValue) InitPayload(prop *Property) {
	pv.ClearPayload()
	switch pv.ValueType {
	case ValueTypeAttributeValue:
		h := NewValueHolder(prop != nil && prop.MultiValue)
		if prop != nil && prop.DefaultValue != nil {
			h = ConvertValueHolder(NewSingleValueHolder(prop.Default()), prop.MultiValue)
		}
		pv.Holder = h
	case ValueTypeConfiguredDefault:
		v := NullValue()
		if prop != nil {
			v = prop.Default()
		}
		pv.Holder = NewSingleValueHolder(v)
	case ValueTypeConfiguredValueSet:
		if prop != nil {
			pv.ValueSet = CopyValueSet(prop.ValueSet)
		} else {
			pv.ValueSet = NewUnrestrictedValueSet()
		}
	case ValueTypeValidationRuleConfig:
		pv.Active = prop != nil && prop.ActivatedByDefault
	}
}

// ClearPayload drops every payload field.
func (pv *PropertyValue) ClearPayload() {
	pv.Holder = nil
	pv.ValueSet = nil
	pv.Expression = ""
	pv.TableContentName = ""
	pv.Active = false
}

// CopyPayloadFrom copies the payload of src into pv.
func (pv *PropertyValue) CopyPayloadFrom(src *PropertyValue) {
	pv.ClearPayload()
	if src == nil {
		return
	}
	if src.Holder != nil {
		pv.Holder = src.Holder.Copy()
	}
	if src.ValueSet != nil {
		pv.ValueSet = src.ValueSet.Copy()
	}
	pv.Expression = src.Expression
	pv.TableContentName = src.TableContentName
	pv.Active = src.Active
}

// Container returns the container pv belongs to, nil when detached.
func (pv *PropertyValue) Container() *Container {
	return pv.container
}

// Key returns "name/ValueType", unique per container in a correct model.
func (pv *PropertyValue) Key() string {
	return pv.PropertyName + "/" + string(pv.ValueType)
}

// SetStatus changes the template value status. It does not touch the
// payload; internal/template.SetStatus handles payload transitions.
func (pv *PropertyValue) SetStatus(status TemplateValueStatus) {
	if pv.Status == status {
		return
	}
	old := pv.Status
	pv.Status = status
	pv.notify(ChangedStatus, old, status)
}

// SetValueHolder replaces the holder. No event fires when the new holder
// equals the old one structurally.
func (pv *PropertyValue) SetValueHolder(h ValueHolder) {
	if holdersEqual(pv.Holder, h) {
		return
	}
	old := pv.Holder
	pv.Holder = h
	pv.notify(ChangedValueHolder, old, h)
}

// SetValue stores v in a single value holder.
func (pv *PropertyValue) SetValue(v Value) {
	pv.SetValueHolder(NewSingleValueHolder(v))
}

// SetValues stores values in a multi value holder.
func (pv *PropertyValue) SetValues(values ...Value) {
	pv.SetValueHolder(NewMultiValueHolder(values...))
}

// SetValueSet replaces the configured value set.
func (pv *PropertyValue) SetValueSet(vs ValueSet) {
	if pv.ValueSet == vs || (pv.ValueSet != nil && vs != nil && pv.ValueSet.Equal(vs)) {
		return
	}
	old := pv.ValueSet
	pv.ValueSet = vs
	pv.notify(ChangedValueSet, old, vs)
}

// SetExpression replaces the formula expression.
func (pv *PropertyValue) SetExpression(expr string) {
	if pv.Expression == expr {
		return
	}
	old := pv.Expression
	pv.Expression = expr
	pv.notify(ChangedExpression, old, expr)
}

// SetTableContentName replaces the referenced table contents.
func (pv *PropertyValue) SetTableContentName(name string) {
	if pv.TableContentName == name {
		return
	}
	old := pv.TableContentName
	pv.TableContentName = name
	pv.notify(ChangedTableContentName, old, name)
}

// SetActive switches a validation rule config.
func (pv *PropertyValue) SetActive(active bool) {
	if pv.Active == active {
		return
	}
	pv.Active = active
	pv.notify(ChangedActive, !active, active)
}

func (pv *PropertyValue) notify(property string, old, new any) {
	if pv.container == nil {
		return
	}
	pv.container.notify(ChangeEvent{Source: pv, Property: property, Old: old, New: new})
}

func holdersEqual(a, b ValueHolder) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// String renders "name/ValueType (status)".
func (pv *PropertyValue) String() string {
	return fmt.Sprintf("%s (%s)", pv.Key(), pv.Status)
}
