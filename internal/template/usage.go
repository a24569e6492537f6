package template

import "github.com/mesh-intelligence/faktor/pkg/types"

// Usages returns the product components that use tmpl as a template,
// directly or through other templates, in project order.
func (f *Finder) Usages(tmpl string) []*types.ProductCmpt {
	var out []*types.ProductCmpt
	for _, pc := range f.project.ProductCmpts() {
		if pc.QualifiedName != tmpl && f.usesTemplate(pc, tmpl) {
			out = append(out, pc)
		}
	}
	return out
}

func (f *Finder) usesTemplate(pc *types.ProductCmpt, tmpl string) bool {
	seen := map[string]bool{pc.QualifiedName: true}
	for name := pc.Template; name != "" && !seen[name]; {
		if name == tmpl {
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

// PropertyUsage splits the values that correspond to a template value
// among the template's users.
type PropertyUsage struct {
	// Inheriting values resolve to the template value.
	Inheriting []*types.PropertyValue
	// Defining values override it with their own payload, or stop
	// inheritance (UNDEFINED) before reaching it.
	Defining []*types.PropertyValue
}

// PropertyUsages classifies, for every user of the template that owns
// tmplValue, the value with the same name and value type in the matching
// container.
func (f *Finder) PropertyUsages(tmplValue *types.PropertyValue) PropertyUsage {
	var usage PropertyUsage
	c := tmplValue.Container()
	if c == nil || c.Owner() == nil {
		return usage
	}
	for _, pc := range f.Usages(c.Owner().QualifiedName) {
		for _, uc := range pc.Containers() {
			if uc.Kind != c.Kind || !f.inChain(uc, c) {
				continue
			}
			pv := uc.PropertyValueOfType(tmplValue.PropertyName, tmplValue.ValueType)
			if pv == nil {
				continue
			}
			if f.Source(pv) == tmplValue {
				usage.Inheriting = append(usage.Inheriting, pv)
			} else {
				usage.Defining = append(usage.Defining, pv)
			}
		}
	}
	return usage
}

func (f *Finder) inChain(c, ancestor *types.Container) bool {
	for _, a := range f.Chain(c) {
		if a == ancestor {
			return true
		}
	}
	return false
}
