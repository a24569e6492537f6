package types

import (
	"slices"
	"time"
)

// ProductCmpt is a configured instance of a product component type. Its
// static container holds values that do not change over time; each
// generation holds the values of one time slice.
type ProductCmpt struct {
	QualifiedName string
	TypeName      string
	RuntimeID     string

	// Template is the qualified name of the product component (a template)
	// whose values this one inherits. Empty when not templated.
	Template   string
	IsTemplate bool

	static      *Container
	generations []*Container
	listeners   []ChangeListener
}

// NewProductCmpt creates a product component of type typeName with an
// empty static container and no generations.
func NewProductCmpt(qualifiedName, typeName string) *ProductCmpt {
	pc := &ProductCmpt{QualifiedName: qualifiedName, TypeName: typeName, RuntimeID: qualifiedName}
	pc.static = &Container{Kind: KindProductCmpt, owner: pc}
	return pc
}

// Static returns the container of values that do not change over time.
func (pc *ProductCmpt) Static() *Container {
	return pc.static
}

// Generations returns the generations ordered by valid-from date.
func (pc *ProductCmpt) Generations() []*Container {
	out := make([]*Container, len(pc.generations))
	copy(out, pc.generations)
	return out
}

// Containers returns the static container followed by the generations.
func (pc *ProductCmpt) Containers() []*Container {
	return append([]*Container{pc.static}, pc.generations...)
}

// NewGeneration adds an empty generation valid from validFrom. If one
// already exists for that date it is returned instead.
func (pc *ProductCmpt) NewGeneration(validFrom time.Time) *Container {
	validFrom = truncateDay(validFrom)
	if g := pc.Generation(validFrom); g != nil {
		return g
	}
	g := &Container{Kind: KindGeneration, ValidFrom: validFrom, owner: pc}
	pc.generations = append(pc.generations, g)
	slices.SortStableFunc(pc.generations, func(a, b *Container) int {
		return a.ValidFrom.Compare(b.ValidFrom)
	})
	return g
}

// Generation returns the generation valid from exactly validFrom.
func (pc *ProductCmpt) Generation(validFrom time.Time) *Container {
	validFrom = truncateDay(validFrom)
	for _, g := range pc.generations {
		if g.ValidFrom.Equal(validFrom) {
			return g
		}
	}
	return nil
}

// GenerationEffectiveOn returns the latest generation whose valid-from
// date is not after date, nil if none.
func (pc *ProductCmpt) GenerationEffectiveOn(date time.Time) *Container {
	date = truncateDay(date)
	var found *Container
	for _, g := range pc.generations {
		if g.ValidFrom.After(date) {
			break
		}
		found = g
	}
	return found
}

// LatestGeneration returns the generation with the latest valid-from date.
func (pc *ProductCmpt) LatestGeneration() *Container {
	if len(pc.generations) == 0 {
		return nil
	}
	return pc.generations[len(pc.generations)-1]
}

// RemoveGeneration deletes g and reports whether it was present.
func (pc *ProductCmpt) RemoveGeneration(g *Container) bool {
	for i, x := range pc.generations {
		if x == g {
			pc.generations = append(pc.generations[:i], pc.generations[i+1:]...)
			g.owner = nil
			return true
		}
	}
	return false
}

// AllLinks returns the links of every container, static first.
func (pc *ProductCmpt) AllLinks() []*Link {
	var out []*Link
	for _, c := range pc.Containers() {
		out = append(out, c.links...)
	}
	return out
}

// OnChange registers a listener for changes to any value or link of pc.
func (pc *ProductCmpt) OnChange(l ChangeListener) {
	pc.listeners = append(pc.listeners, l)
}

func (pc *ProductCmpt) notify(ev ChangeEvent) {
	for _, l := range pc.listeners {
		l(ev)
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
