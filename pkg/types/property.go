package types

// PropertyType tags what kind of artifact a type declares.
type PropertyType string

// Property types.
const (
	PropertyProductAttribute    PropertyType = "productAttribute"
	PropertyPolicyAttribute     PropertyType = "policyAttribute"
	PropertyTableStructureUsage PropertyType = "tableStructureUsage"
	PropertyFormula             PropertyType = "formula"
	PropertyValidationRule      PropertyType = "validationRule"
)

// IsValid reports whether t is a known property type.
func (t PropertyType) IsValid() bool {
	_, ok := valueTypesByProperty[t]
	return ok
}

// PropertyValueType tags the payload kind of a property value.
type PropertyValueType string

// Property value types.
const (
	ValueTypeAttributeValue       PropertyValueType = "AttributeValue"
	ValueTypeConfiguredValueSet   PropertyValueType = "ConfiguredValueSet"
	ValueTypeConfiguredDefault    PropertyValueType = "ConfiguredDefault"
	ValueTypeTableContentUsage    PropertyValueType = "TableContentUsage"
	ValueTypeFormula              PropertyValueType = "Formula"
	ValueTypeValidationRuleConfig PropertyValueType = "ValidationRuleConfig"
)

// valueTypesByProperty lists, in order, the value types each property
// type yields in a container.
var valueTypesByProperty = map[PropertyType][]PropertyValueType{
	PropertyProductAttribute:    {ValueTypeAttributeValue},
	PropertyPolicyAttribute:     {ValueTypeConfiguredValueSet, ValueTypeConfiguredDefault},
	PropertyTableStructureUsage: {ValueTypeTableContentUsage},
	PropertyFormula:             {ValueTypeFormula},
	PropertyValidationRule:      {ValueTypeValidationRuleConfig},
}

// IsValid reports whether t is a known property value type.
func (t PropertyValueType) IsValid() bool {
	for _, vts := range valueTypesByProperty {
		for _, vt := range vts {
			if vt == t {
				return true
			}
		}
	}
	return false
}

// Property is a configurable property declared by a product component
// type. Attribute fields are ignored for other property types. The JSON
// form is defined in property_json.go.
type Property struct {
	Name             string
	Type             PropertyType
	ChangingOverTime bool

	Datatype     Datatype
	MultiValue   bool
	ValueSet     ValueSet
	DefaultValue *string

	// ActivatedByDefault is the initial state of validation rule configs.
	ActivatedByDefault bool
}

// ValueTypes returns the property value types p yields, in order.
func (p *Property) ValueTypes() []PropertyValueType {
	return valueTypesByProperty[p.Type]
}

// Yields reports whether p yields property values of type vt.
func (p *Property) Yields(vt PropertyValueType) bool {
	for _, t := range p.ValueTypes() {
		if t == vt {
			return true
		}
	}
	return false
}

// Default returns the model default as a Value.
func (p *Property) Default() Value {
	if p.DefaultValue == nil {
		return NullValue()
	}
	return StringValue(*p.DefaultValue)
}

// ModelValueSet returns the declared value set, unrestricted when none is
// declared.
func (p *Property) ModelValueSet() ValueSet {
	if p.ValueSet == nil {
		return NewUnrestrictedValueSet()
	}
	return p.ValueSet
}

// BelongsTo reports whether values of p live in a container of the given
// kind for a type with the given changing-over-time setting.
func (p *Property) BelongsTo(kind ContainerKind, typeChangingOverTime bool) bool {
	perGeneration := typeChangingOverTime && p.ChangingOverTime
	if kind == KindGeneration {
		return perGeneration
	}
	return !perGeneration
}
