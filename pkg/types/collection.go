package types

// PropertyValueCollection is the ordered set of property values of one
// container. Duplicate names are tolerated; lookups return the first match
// in insertion order.
type PropertyValueCollection struct {
	values []*PropertyValue
}

// All returns the values in storage order. The slice is a copy.
func (c *PropertyValueCollection) All() []*PropertyValue {
	out := make([]*PropertyValue, len(c.values))
	copy(out, c.values)
	return out
}

// Len returns the number of values.
func (c *PropertyValueCollection) Len() int {
	return len(c.values)
}

// Get returns the first value named name, nil if there is none.
func (c *PropertyValueCollection) Get(name string) *PropertyValue {
	for _, pv := range c.values {
		if pv.PropertyName == name {
			return pv
		}
	}
	return nil
}

// GetOfType returns the first value named name with type vt.
func (c *PropertyValueCollection) GetOfType(name string, vt PropertyValueType) *PropertyValue {
	for _, pv := range c.values {
		if pv.PropertyName == name && pv.ValueType == vt {
			return pv
		}
	}
	return nil
}

// GetByID returns the value with the given id.
func (c *PropertyValueCollection) GetByID(id string) *PropertyValue {
	for _, pv := range c.values {
		if pv.ID == id {
			return pv
		}
	}
	return nil
}

// OfType returns every value of type vt in storage order.
func (c *PropertyValueCollection) OfType(vt PropertyValueType) []*PropertyValue {
	var out []*PropertyValue
	for _, pv := range c.values {
		if pv.ValueType == vt {
			out = append(out, pv)
		}
	}
	return out
}

// Named returns every value named name in storage order.
func (c *PropertyValueCollection) Named(name string) []*PropertyValue {
	var out []*PropertyValue
	for _, pv := range c.values {
		if pv.PropertyName == name {
			out = append(out, pv)
		}
	}
	return out
}

// add appends pv. Callers go through Container.AddPropertyValue so the
// back-reference is set.
func (c *PropertyValueCollection) add(pv *PropertyValue) {
	c.values = append(c.values, pv)
}

// replace swaps old for pv at old's position. It reports false if old is
// not in the collection.
func (c *PropertyValueCollection) replace(old, pv *PropertyValue) bool {
	for i, v := range c.values {
		if v == old {
			c.values[i] = pv
			return true
		}
	}
	return false
}

// remove deletes pv by identity and reports whether it was present.
func (c *PropertyValueCollection) remove(pv *PropertyValue) bool {
	for i, v := range c.values {
		if v == pv {
			c.values = append(c.values[:i], c.values[i+1:]...)
			return true
		}
	}
	return false
}
