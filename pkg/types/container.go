package types

import (
	"fmt"
	"time"
)

// ContainerKind discriminates the two kinds of property value containers.
type ContainerKind int

// Container kinds.
const (
	// KindProductCmpt holds the values that do not change over time.
	KindProductCmpt ContainerKind = iota
	// KindGeneration holds the values of one time slice.
	KindGeneration
)

// String returns "productCmpt" or "generation".
func (k ContainerKind) String() string {
	if k == KindGeneration {
		return "generation"
	}
	return "productCmpt"
}

// Container holds property values and links. The static part of a product
// component and each of its generations are containers; they differ only
// in Kind and ValidFrom.
type Container struct {
	Kind      ContainerKind
	ValidFrom time.Time // zero for KindProductCmpt

	owner  *ProductCmpt
	values PropertyValueCollection
	links  []*Link
}

// Owner returns the product component the container belongs to.
func (c *Container) Owner() *ProductCmpt {
	return c.owner
}

// Name returns the owner's qualified name, with "@date" for generations.
func (c *Container) Name() string {
	name := ""
	if c.owner != nil {
		name = c.owner.QualifiedName
	}
	if c.Kind == KindGeneration {
		return fmt.Sprintf("%s@%s", name, c.ValidFrom.Format(DateLayout))
	}
	return name
}

// Values returns the property value collection.
func (c *Container) Values() *PropertyValueCollection {
	return &c.values
}

// PropertyValue returns the first value named name.
func (c *Container) PropertyValue(name string) *PropertyValue {
	return c.values.Get(name)
}

// PropertyValueOfType returns the first value named name of type vt.
func (c *Container) PropertyValueOfType(name string, vt PropertyValueType) *PropertyValue {
	return c.values.GetOfType(name, vt)
}

// PropertyValues returns every value of type vt.
func (c *Container) PropertyValues(vt PropertyValueType) []*PropertyValue {
	return c.values.OfType(vt)
}

// AddPropertyValue appends pv and makes c its container. A value that
// belongs to another container is detached from it first.
func (c *Container) AddPropertyValue(pv *PropertyValue) {
	if pv.container != nil && pv.container != c {
		pv.container.values.remove(pv)
	}
	pv.container = c
	c.values.add(pv)
}

// NewPropertyValue creates a value for prop, adds it and returns it. See
// the package-level NewPropertyValue for failure cases.
func (c *Container) NewPropertyValue(prop *Property, id string, vt PropertyValueType) (*PropertyValue, error) {
	pv, err := NewPropertyValue(prop, id, vt)
	if err != nil {
		return nil, err
	}
	c.AddPropertyValue(pv)
	return pv, nil
}

// RemovePropertyValue deletes pv and reports whether it was present.
func (c *Container) RemovePropertyValue(pv *PropertyValue) bool {
	if !c.values.remove(pv) {
		return false
	}
	pv.container = nil
	return true
}

// ReplacePropertyValue puts pv at old's position and reports whether old
// was present.
func (c *Container) ReplacePropertyValue(old, pv *PropertyValue) bool {
	if !c.values.replace(old, pv) {
		return false
	}
	old.container = nil
	pv.container = c
	return true
}

// Links returns the links in storage order. The slice is a copy.
func (c *Container) Links() []*Link {
	out := make([]*Link, len(c.links))
	copy(out, c.links)
	return out
}

// LinksOf returns the links of the named association.
func (c *Container) LinksOf(association string) []*Link {
	var out []*Link
	for _, l := range c.links {
		if l.Association == association {
			out = append(out, l)
		}
	}
	return out
}

// LinksByAssociation groups links by association name, keeping storage
// order within each group.
func (c *Container) LinksByAssociation() map[string][]*Link {
	out := make(map[string][]*Link)
	for _, l := range c.links {
		out[l.Association] = append(out[l.Association], l)
	}
	return out
}

// FindLink returns the first link with l's association and target.
func (c *Container) FindLink(association, target string) *Link {
	for _, l := range c.links {
		if l.Association == association && l.Target == target {
			return l
		}
	}
	return nil
}

// AddLink appends l and makes c its container.
func (c *Container) AddLink(l *Link) {
	if l.container != nil && l.container != c {
		l.container.RemoveLink(l)
	}
	l.container = c
	c.links = append(c.links, l)
}

// RemoveLink deletes l and reports whether it was present.
func (c *Container) RemoveLink(l *Link) bool {
	for i, x := range c.links {
		if x == l {
			c.links = append(c.links[:i], c.links[i+1:]...)
			l.container = nil
			return true
		}
	}
	return false
}

// IsTemplateContainer reports whether the owner is a template.
func (c *Container) IsTemplateContainer() bool {
	return c.owner != nil && c.owner.IsTemplate
}

// TemplateName returns the qualified name of the owner's template.
func (c *Container) TemplateName() string {
	if c.owner == nil {
		return ""
	}
	return c.owner.Template
}

func (c *Container) notify(ev ChangeEvent) {
	if c.owner != nil {
		c.owner.notify(ev)
	}
}
