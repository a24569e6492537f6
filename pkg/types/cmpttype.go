package types

import (
	"errors"
	"slices"
	"strconv"
)

// Many is the unbounded maximum cardinality, written "*".
const Many = -1

// ParseCardinality reads "*" as Many and anything else as an integer.
func ParseCardinality(s string) (int, error) {
	if s == "*" {
		return Many, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, ErrInvalidCardinality
	}
	return n, nil
}

// FormatCardinality writes Many as "*".
func FormatCardinality(n int) string {
	if n == Many {
		return "*"
	}
	return strconv.Itoa(n)
}

// Type lookup and hierarchy errors.
var (
	ErrTypeNotFound        = errors.New("product component type not found")
	ErrProductCmptNotFound = errors.New("product component not found")
	ErrTypeHierarchyCycle  = errors.New("cycle in type hierarchy")
	ErrInvalidCardinality  = errors.New("invalid cardinality")
)

// Cardinality is the policy-side min/max/default of a configured
// association.
type Cardinality struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

// Association is a product-side association between product component
// types. Min and Max bound the number of links (Max may be Many).
type Association struct {
	Name             string `json:"name"`
	Target           string `json:"target"`
	Min              int    `json:"min"`
	Max              int    `json:"max"`
	ChangingOverTime bool   `json:"changing_over_time"`

	// DerivedUnion associations are satisfied by their subsets and have no
	// links of their own.
	DerivedUnion          bool   `json:"derived_union,omitempty"`
	SubsettedDerivedUnion string `json:"subsetted_derived_union,omitempty"`

	// Policy is the cardinality of the matching policy association, nil
	// when the association does not configure one.
	Policy *Cardinality `json:"policy,omitempty"`
}

// BelongsTo reports whether links of a live in a container of the given
// kind for a type with the given changing-over-time setting.
func (a *Association) BelongsTo(kind ContainerKind, typeChangingOverTime bool) bool {
	perGeneration := typeChangingOverTime && a.ChangingOverTime
	if kind == KindGeneration {
		return perGeneration
	}
	return !perGeneration
}

// ProductCmptType declares the properties and associations of product
// components.
type ProductCmptType struct {
	QualifiedName    string         `json:"qualified_name"`
	Supertype        string         `json:"supertype,omitempty"`
	ChangingOverTime bool           `json:"changing_over_time"`
	Properties       []*Property    `json:"properties"`
	Associations     []*Association `json:"associations,omitempty"`
}

// Hierarchy returns t and its supertypes, root supertype first. Missing
// supertypes end the walk; a cycle returns ErrTypeHierarchyCycle along
// with the types collected so far.
func (t *ProductCmptType) Hierarchy(p *Project) ([]*ProductCmptType, error) {
	var chain []*ProductCmptType
	seen := make(map[string]bool)
	for cur := t; cur != nil; {
		if seen[cur.QualifiedName] {
			slices.Reverse(chain)
			return chain, ErrTypeHierarchyCycle
		}
		seen[cur.QualifiedName] = true
		chain = append(chain, cur)
		if cur.Supertype == "" || p == nil {
			break
		}
		cur = p.FindType(cur.Supertype)
	}
	slices.Reverse(chain)
	return chain, nil
}

// AllProperties returns the properties of the hierarchy, supertype
// properties first, each type in declaration order. A property redeclared
// by a subtype replaces the supertype's at the supertype's position.
func (t *ProductCmptType) AllProperties(p *Project) []*Property {
	chain, _ := t.Hierarchy(p)
	var out []*Property
	index := make(map[string]int)
	for _, ty := range chain {
		for _, prop := range ty.Properties {
			if i, ok := index[prop.Name]; ok {
				out[i] = prop
				continue
			}
			index[prop.Name] = len(out)
			out = append(out, prop)
		}
	}
	return out
}

// FindProperty returns the property named name in the hierarchy, nil if
// none is declared.
func (t *ProductCmptType) FindProperty(p *Project, name string) *Property {
	for _, prop := range t.AllProperties(p) {
		if prop.Name == name {
			return prop
		}
	}
	return nil
}

// AllAssociations returns the associations of the hierarchy, supertype
// associations first.
func (t *ProductCmptType) AllAssociations(p *Project) []*Association {
	chain, _ := t.Hierarchy(p)
	var out []*Association
	index := make(map[string]int)
	for _, ty := range chain {
		for _, a := range ty.Associations {
			if i, ok := index[a.Name]; ok {
				out[i] = a
				continue
			}
			index[a.Name] = len(out)
			out = append(out, a)
		}
	}
	return out
}

// FindAssociation returns the association named name in the hierarchy.
func (t *ProductCmptType) FindAssociation(p *Project, name string) *Association {
	for _, a := range t.AllAssociations(p) {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// IsSubtypeOf reports whether t is other or inherits from it.
func (t *ProductCmptType) IsSubtypeOf(p *Project, other string) bool {
	chain, _ := t.Hierarchy(p)
	for _, ty := range chain {
		if ty.QualifiedName == other {
			return true
		}
	}
	return false
}
