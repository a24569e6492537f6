package types

import "encoding/json"

// propertyWire is the JSON form of Property with the value set flattened
// into a ValueSetSpec.
type propertyWire struct {
	Name               string        `json:"name"`
	Type               PropertyType  `json:"type"`
	ChangingOverTime   bool          `json:"changing_over_time"`
	Datatype           Datatype      `json:"datatype,omitempty"`
	MultiValue         bool          `json:"multi_value,omitempty"`
	ValueSet           *ValueSetSpec `json:"value_set,omitempty"`
	DefaultValue       *string       `json:"default_value,omitempty"`
	ActivatedByDefault bool          `json:"activated_by_default,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (p Property) MarshalJSON() ([]byte, error) {
	return json.Marshal(propertyWire{
		Name:               p.Name,
		Type:               p.Type,
		ChangingOverTime:   p.ChangingOverTime,
		Datatype:           p.Datatype,
		MultiValue:         p.MultiValue,
		ValueSet:           SpecOf(p.ValueSet),
		DefaultValue:       p.DefaultValue,
		ActivatedByDefault: p.ActivatedByDefault,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Property) UnmarshalJSON(data []byte) error {
	var w propertyWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Property{
		Name:               w.Name,
		Type:               w.Type,
		ChangingOverTime:   w.ChangingOverTime,
		Datatype:           w.Datatype,
		MultiValue:         w.MultiValue,
		ValueSet:           w.ValueSet.ValueSet(),
		DefaultValue:       w.DefaultValue,
		ActivatedByDefault: w.ActivatedByDefault,
	}
	return nil
}
