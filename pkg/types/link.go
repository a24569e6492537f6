package types

import "fmt"

// Link is an instance of a product-side association from the owning
// product component to a target product component.
type Link struct {
	ID          string
	Association string
	Target      string
	Min         int
	Max         int
	Default     int
	Status      TemplateValueStatus

	container *Container
}

// NewLink creates a link with cardinality 0..1, default 0.
func NewLink(association, target string) *Link {
	return &Link{ID: NewID(), Association: association, Target: target, Max: 1}
}

// Key identifies the link for template lookups: association and target.
func (l *Link) Key() string {
	return l.Association + "->" + l.Target
}

// Container returns the container l belongs to.
func (l *Link) Container() *Container {
	return l.container
}

// SetCardinality changes min, max and default. No event fires when
// nothing changes.
func (l *Link) SetCardinality(min, max, def int) {
	if l.Min == min && l.Max == max && l.Default == def {
		return
	}
	old := [3]int{l.Min, l.Max, l.Default}
	l.Min, l.Max, l.Default = min, max, def
	if l.container != nil {
		l.container.notify(ChangeEvent{Source: l, Property: ChangedCardinality, Old: old, New: [3]int{min, max, def}})
	}
}

// SetStatus changes the template value status of the link.
func (l *Link) SetStatus(status TemplateValueStatus) {
	if l.Status == status {
		return
	}
	old := l.Status
	l.Status = status
	if l.container != nil {
		l.container.notify(ChangeEvent{Source: l, Property: ChangedStatus, Old: old, New: status})
	}
}

// String renders "association->target [min..max]".
func (l *Link) String() string {
	return fmt.Sprintf("%s [%d..%s]", l.Key(), l.Min, FormatCardinality(l.Max))
}
