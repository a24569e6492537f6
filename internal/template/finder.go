// Package template resolves property values and links along the template
// chain of product components.
//
// A product component may name another product component, a template, as
// the source of its values. Each value carries a TemplateValueStatus:
// DEFINED values are authoritative, INHERITED values defer to the nearest
// ancestor, UNDEFINED values are blank and stop the walk.
package template

import (
	"github.com/hashicorp/go-hclog"

	"github.com/mesh-intelligence/faktor/pkg/types"
)

// Finder walks template chains inside one project.
type Finder struct {
	project *types.Project
	log     hclog.Logger
}

// NewFinder returns a Finder that looks templates up in p.
func NewFinder(p *types.Project) *Finder {
	return &Finder{project: p, log: hclog.L().Named("template")}
}

// TemplateContainer returns the container that c inherits from: the
// template's static container for a static container, the template's
// generation effective on c's valid-from date for a generation. It
// returns nil when c has no template or the template cannot be found.
func (f *Finder) TemplateContainer(c *types.Container) *types.Container {
	if c == nil || c.TemplateName() == "" {
		return nil
	}
	tmpl := f.project.FindProductCmpt(c.TemplateName())
	if tmpl == nil {
		return nil
	}
	if c.Kind == types.KindGeneration {
		return tmpl.GenerationEffectiveOn(c.ValidFrom)
	}
	return tmpl.Static()
}

// Chain returns the ancestors of c, nearest first. Each container appears
// at most once; a cyclic template reference ends the chain.
func (f *Finder) Chain(c *types.Container) []*types.Container {
	visited := map[*types.Container]bool{c: true}
	var chain []*types.Container
	for cur := f.TemplateContainer(c); cur != nil; cur = f.TemplateContainer(cur) {
		if visited[cur] {
			f.log.Trace("template cycle", "container", c.Name(), "revisited", cur.Name())
			break
		}
		visited[cur] = true
		chain = append(chain, cur)
	}
	return chain
}

// HasTemplateCycle reports whether following template names from pc
// returns to a component already visited.
func (f *Finder) HasTemplateCycle(pc *types.ProductCmpt) bool {
	seen := map[string]bool{pc.QualifiedName: true}
	for name := pc.Template; name != ""; {
		if seen[name] {
			return true
		}
		seen[name] = true
		next := f.project.FindProductCmpt(name)
		if next == nil {
			return false
		}
		name = next.Template
	}
	return false
}

// FindTemplateValue returns the value pv would inherit: the first value
// with the same name and value type found in the chain of pv's container
// whose status is DEFINED. An INHERITED value found on the way defers
// further up; an UNDEFINED one stops the walk with nil. A container
// without a template, or a property absent at every level, yields nil.
func (f *Finder) FindTemplateValue(pv *types.PropertyValue) *types.PropertyValue {
	return f.FindInherited(pv.Container(), pv.PropertyName, pv.ValueType)
}

// FindInherited is FindTemplateValue for a value that c may not hold yet.
func (f *Finder) FindInherited(c *types.Container, name string, vt types.PropertyValueType) *types.PropertyValue {
	if c == nil {
		return nil
	}
	for _, anc := range f.Chain(c) {
		v := anc.PropertyValueOfType(name, vt)
		if v == nil {
			continue
		}
		switch v.Status {
		case types.StatusInherited:
			continue
		case types.StatusUndefined:
			return nil
		default:
			return v
		}
	}
	return nil
}

// FindTemplateLink is FindTemplateValue for links, matched by association
// and target.
func (f *Finder) FindTemplateLink(l *types.Link) *types.Link {
	c := l.Container()
	if c == nil {
		return nil
	}
	for _, anc := range f.Chain(c) {
		tl := anc.FindLink(l.Association, l.Target)
		if tl == nil {
			continue
		}
		switch tl.Status {
		case types.StatusInherited:
			continue
		case types.StatusUndefined:
			return nil
		default:
			return tl
		}
	}
	return nil
}

// Source returns the value whose payload is effective for pv: pv itself
// when DEFINED, the inherited value when INHERITED, nil when UNDEFINED or
// when nothing is inherited.
func (f *Finder) Source(pv *types.PropertyValue) *types.PropertyValue {
	switch pv.Status {
	case types.StatusDefined:
		return pv
	case types.StatusInherited:
		return f.FindTemplateValue(pv)
	default:
		return nil
	}
}

// property returns the type-declared property behind pv, nil if the type
// or property is unknown.
func (f *Finder) property(pv *types.PropertyValue) *types.Property {
	c := pv.Container()
	if c == nil || c.Owner() == nil {
		return nil
	}
	t := f.project.FindType(c.Owner().TypeName)
	if t == nil {
		return nil
	}
	return t.FindProperty(f.project, pv.PropertyName)
}
