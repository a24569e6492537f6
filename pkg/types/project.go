package types

import (
	"fmt"
	"sort"
)

// Project indexes the product component types and product components of
// one model by qualified name. It is not safe for concurrent mutation.
type Project struct {
	types     map[string]*ProductCmptType
	cmpts     map[string]*ProductCmpt
	typeOrder []string
	cmptOrder []string
}

// NewProject returns an empty project.
func NewProject() *Project {
	return &Project{
		types: make(map[string]*ProductCmptType),
		cmpts: make(map[string]*ProductCmpt),
	}
}

// AddType registers t, replacing a type with the same name.
func (p *Project) AddType(t *ProductCmptType) {
	if _, ok := p.types[t.QualifiedName]; !ok {
		p.typeOrder = append(p.typeOrder, t.QualifiedName)
	}
	p.types[t.QualifiedName] = t
}

// AddProductCmpt registers pc, replacing a component with the same name.
func (p *Project) AddProductCmpt(pc *ProductCmpt) {
	if _, ok := p.cmpts[pc.QualifiedName]; !ok {
		p.cmptOrder = append(p.cmptOrder, pc.QualifiedName)
	}
	p.cmpts[pc.QualifiedName] = pc
}

// RemoveProductCmpt drops the component named name.
func (p *Project) RemoveProductCmpt(name string) bool {
	if _, ok := p.cmpts[name]; !ok {
		return false
	}
	delete(p.cmpts, name)
	for i, n := range p.cmptOrder {
		if n == name {
			p.cmptOrder = append(p.cmptOrder[:i], p.cmptOrder[i+1:]...)
			break
		}
	}
	return true
}

// FindType returns the type named name, nil if unknown.
func (p *Project) FindType(name string) *ProductCmptType {
	return p.types[name]
}

// FindProductCmpt returns the component named name, nil if unknown.
func (p *Project) FindProductCmpt(name string) *ProductCmpt {
	return p.cmpts[name]
}

// TypeOf returns the type of pc or ErrTypeNotFound.
func (p *Project) TypeOf(pc *ProductCmpt) (*ProductCmptType, error) {
	t := p.types[pc.TypeName]
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, pc.TypeName)
	}
	return t, nil
}

// Types returns the types in registration order.
func (p *Project) Types() []*ProductCmptType {
	out := make([]*ProductCmptType, 0, len(p.typeOrder))
	for _, n := range p.typeOrder {
		out = append(out, p.types[n])
	}
	return out
}

// ProductCmpts returns the components in registration order.
func (p *Project) ProductCmpts() []*ProductCmpt {
	out := make([]*ProductCmpt, 0, len(p.cmptOrder))
	for _, n := range p.cmptOrder {
		out = append(out, p.cmpts[n])
	}
	return out
}

// ProductCmptNames returns the component names sorted alphabetically.
func (p *Project) ProductCmptNames() []string {
	out := make([]string, 0, len(p.cmpts))
	for n := range p.cmpts {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
