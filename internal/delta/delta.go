// Package delta compares the property values and links stored in a
// product component with what its type currently declares, and repairs
// the differences.
//
// A delta is a tree: the root covers the component's static container and
// has one child per generation. Compute never mutates the model; Fix
// applies every entry of the tree.
package delta

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/mesh-intelligence/faktor/internal/template"
	"github.com/mesh-intelligence/faktor/pkg/types"
)

// Delta holds the entries of one container and the deltas of its
// generations.
type Delta struct {
	Kind      types.ContainerKind
	Container *types.Container
	Entries   []*Entry
	Children  []*Delta

	project *types.Project
	cmpt    *types.ProductCmpt
	ptype   *types.ProductCmptType
	finder  *template.Finder
	log     hclog.Logger
	fixed   bool
}

// Compute builds the delta of pc against its type. It fails when the type
// is unknown or its hierarchy is cyclic.
func Compute(p *types.Project, pc *types.ProductCmpt) (*Delta, error) {
	t, err := p.TypeOf(pc)
	if err != nil {
		return nil, err
	}
	if _, err := t.Hierarchy(p); err != nil {
		return nil, fmt.Errorf("type %s: %w", t.QualifiedName, err)
	}
	b := &builder{
		project: p,
		cmpt:    pc,
		ptype:   t,
		props:   t.AllProperties(p),
		finder:  template.NewFinder(p),
		log:     hclog.L().Named("delta"),
	}
	root := b.node(pc.Static())
	if !t.ChangingOverTime && len(pc.Generations()) > 1 {
		root.Entries = append(root.Entries, &Entry{Kind: KindInvalidGenerations})
	}
	for _, g := range pc.Generations() {
		root.Children = append(root.Children, b.node(g))
	}
	b.log.Debug("computed delta", "cmpt", pc.QualifiedName, "entries", root.Len())
	return root, nil
}

// IsEmpty reports whether neither the delta nor any child has entries.
func (d *Delta) IsEmpty() bool {
	if len(d.Entries) > 0 {
		return false
	}
	for _, c := range d.Children {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Len counts the entries of the whole tree.
func (d *Delta) Len() int {
	n := len(d.Entries)
	for _, c := range d.Children {
		n += c.Len()
	}
	return n
}

// EntriesOf returns the entries of kind k in this node only.
func (d *Delta) EntriesOf(k EntryKind) []*Entry {
	var out []*Entry
	for _, e := range d.Entries {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Walk calls fn for the delta and every descendant, parents first.
func (d *Delta) Walk(fn func(*Delta)) {
	fn(d)
	for _, c := range d.Children {
		c.Walk(fn)
	}
}

// String renders the tree, one entry per line, indented by level.
func (d *Delta) String() string {
	var sb strings.Builder
	d.Walk(func(n *Delta) {
		indent := ""
		if n.Kind == types.KindGeneration {
			indent = "  "
		}
		fmt.Fprintf(&sb, "%s%s\n", indent, n.Container.Name())
		for _, e := range n.Entries {
			fmt.Fprintf(&sb, "%s  %s\n", indent, e)
		}
	})
	return sb.String()
}

type builder struct {
	project *types.Project
	cmpt    *types.ProductCmpt
	ptype   *types.ProductCmptType
	props   []*types.Property
	finder  *template.Finder
	log     hclog.Logger
}

func (b *builder) node(c *types.Container) *Delta {
	d := &Delta{
		Kind:      c.Kind,
		Container: c,
		project:   b.project,
		cmpt:      b.cmpt,
		ptype:     b.ptype,
		finder:    b.finder,
		log:       b.log,
	}
	claimed := make(map[*types.PropertyValue]bool)
	for _, prop := range b.props {
		if !prop.BelongsTo(c.Kind, b.ptype.ChangingOverTime) {
			continue
		}
		for _, vt := range prop.ValueTypes() {
			d.Entries = append(d.Entries, b.propertyEntries(c, prop, vt, claimed)...)
		}
	}
	d.Entries = append(d.Entries, b.strayEntries(c, claimed)...)
	d.Entries = append(d.Entries, b.linkEntries(c)...)
	return d
}

// propertyEntries checks the value of prop of type vt in c: missing,
// replaced by another kind of artifact, or with a value set or holder the
// model no longer allows.
func (b *builder) propertyEntries(c *types.Container, prop *types.Property, vt types.PropertyValueType, claimed map[*types.PropertyValue]bool) []*Entry {
	pv := c.PropertyValueOfType(prop.Name, vt)
	if pv == nil {
		for _, old := range c.Values().Named(prop.Name) {
			if !claimed[old] && !prop.Yields(old.ValueType) {
				claimed[old] = true
				return []*Entry{{Kind: KindPropertyTypeMismatch, PropertyName: prop.Name, ValueType: vt, Property: prop, Value: old}}
			}
		}
		return []*Entry{{Kind: KindMissingPropertyValue, PropertyName: prop.Name, ValueType: vt, Property: prop, Source: b.migrationSource(c, prop.Name, vt)}}
	}
	claimed[pv] = true
	if pv.Status != types.StatusDefined {
		return nil
	}
	var out []*Entry
	if vt == types.ValueTypeConfiguredValueSet && valueSetMismatch(prop, pv) {
		out = append(out, &Entry{Kind: KindValueSetMismatch, PropertyName: prop.Name, ValueType: vt, Property: prop, Value: pv})
	}
	if vt == types.ValueTypeAttributeValue && pv.Holder != nil && pv.Holder.IsMultiValue() != prop.MultiValue {
		out = append(out, &Entry{Kind: KindValueHolderMismatch, PropertyName: prop.Name, ValueType: vt, Property: prop, Value: pv})
	}
	return out
}

func valueSetMismatch(prop *types.Property, pv *types.PropertyValue) bool {
	if pv.ValueSet == nil {
		return false
	}
	return !prop.ModelValueSet().Type().Allows(pv.ValueSet.Type())
}

// migrationSource returns the value a missing value takes over when its
// property moved between the static container and the generations: the
// latest generation's value for a static container, the static value for
// a generation.
func (b *builder) migrationSource(c *types.Container, name string, vt types.PropertyValueType) *types.PropertyValue {
	var other *types.Container
	if c.Kind == types.KindGeneration {
		other = b.cmpt.Static()
	} else {
		other = b.cmpt.LatestGeneration()
	}
	if other == nil {
		return nil
	}
	src := other.PropertyValueOfType(name, vt)
	if src == nil {
		return nil
	}
	// Fix may demote or remove src before the missing value is created.
	snap := &types.PropertyValue{ID: src.ID, PropertyName: src.PropertyName, ValueType: src.ValueType, Status: src.Status}
	snap.CopyPayloadFrom(src)
	return snap
}

// migrated reports whether pv is the value a missing value on the other
// temporal level takes over.
func (b *builder) migrated(c *types.Container, pv *types.PropertyValue) bool {
	if c.PropertyValueOfType(pv.PropertyName, pv.ValueType) != pv {
		return false
	}
	for _, prop := range b.props {
		if prop.Name != pv.PropertyName || !prop.Yields(pv.ValueType) {
			continue
		}
		if c.Kind == types.KindGeneration {
			return c == b.cmpt.LatestGeneration() && prop.BelongsTo(types.KindProductCmpt, b.ptype.ChangingOverTime)
		}
		return len(b.cmpt.Generations()) > 0 && prop.BelongsTo(types.KindGeneration, b.ptype.ChangingOverTime)
	}
	return false
}

// strayEntries reports the unclaimed values of c in storage order. An
// UNDEFINED value whose template chain still defines the value is a
// placeholder that blocks inheritance and is not reported.
func (b *builder) strayEntries(c *types.Container, claimed map[*types.PropertyValue]bool) []*Entry {
	var out []*Entry
	for _, pv := range c.Values().All() {
		if claimed[pv] {
			continue
		}
		if isPlaceholder(b.finder, c, pv) {
			continue
		}
		out = append(out, &Entry{Kind: KindValueWithoutProperty, PropertyName: pv.PropertyName, ValueType: pv.ValueType, Value: pv, Migrated: b.migrated(c, pv)})
	}
	return out
}

func (b *builder) linkEntries(c *types.Container) []*Entry {
	var out []*Entry
	for _, l := range c.Links() {
		a := b.ptype.FindAssociation(b.project, l.Association)
		switch {
		case a == nil:
			out = append(out, &Entry{Kind: KindLinkWithoutAssociation, Link: l})
		case !a.BelongsTo(c.Kind, b.ptype.ChangingOverTime):
			if c.Kind == types.KindProductCmpt && len(b.cmpt.Generations()) == 0 {
				// No generation to move the link to.
				continue
			}
			out = append(out, &Entry{Kind: KindLinkChangingOverTimeMismatch, Link: l, Association: a})
		}
	}
	return out
}

func isPlaceholder(f *template.Finder, c *types.Container, pv *types.PropertyValue) bool {
	return pv.Status == types.StatusUndefined &&
		c.PropertyValueOfType(pv.PropertyName, pv.ValueType) == pv &&
		f.FindInherited(c, pv.PropertyName, pv.ValueType) != nil
}
