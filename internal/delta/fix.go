package delta

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/mesh-intelligence/faktor/pkg/types"
)

// Fix applies every entry of the tree, parents before children. Computing
// the delta again afterwards yields an empty delta. Calling Fix more than
// once, or on an empty delta, does nothing. Entries that cannot be applied
// are collected into the returned error; the others are still applied.
func (d *Delta) Fix() error {
	if d.fixed {
		return nil
	}
	var result *multierror.Error
	d.Walk(func(n *Delta) {
		if n.fixed {
			return
		}
		n.fixed = true
		if n.Kind == types.KindGeneration && n.Container.Owner() == nil {
			// Generation removed by an INVALID_GENERATIONS fix.
			return
		}
		for _, e := range n.Entries {
			if err := n.fix(e); err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %s: %w", n.Container.Name(), e, err))
			}
		}
	})
	return result.ErrorOrNil()
}

func (d *Delta) fix(e *Entry) error {
	d.log.Debug("fixing delta entry", "container", d.Container.Name(), "entry", e.String())
	switch e.Kind {
	case KindMissingPropertyValue:
		return d.fixMissing(e)
	case KindValueWithoutProperty:
		d.fixStray(e)
	case KindPropertyTypeMismatch:
		return d.fixTypeMismatch(e)
	case KindValueSetMismatch:
		e.Value.SetValueSet(types.CopyValueSet(e.Property.ModelValueSet()))
	case KindValueHolderMismatch:
		e.Value.SetValueHolder(types.ConvertValueHolder(e.Value.Holder, e.Property.MultiValue))
	case KindLinkWithoutAssociation:
		d.Container.RemoveLink(e.Link)
	case KindLinkChangingOverTimeMismatch:
		d.fixLinkLevel(e)
	case KindInvalidGenerations:
		d.fixGenerations()
	}
	return nil
}

// fixMissing creates the value. A migrated value takes over the status
// and payload of its source. Otherwise the value inherits when the
// template chain defines it and gets the neutral payload when not.
func (d *Delta) fixMissing(e *Entry) error {
	c := d.Container
	if c.PropertyValueOfType(e.PropertyName, e.ValueType) != nil {
		return nil
	}
	pv, err := c.NewPropertyValue(e.Property, "", e.ValueType)
	if err != nil {
		return err
	}
	switch {
	case e.Source != nil:
		pv.Status = e.Source.Status
		pv.CopyPayloadFrom(e.Source)
		conform(pv, e.Property)
	case d.finder.FindInherited(c, e.PropertyName, e.ValueType) != nil:
		pv.Status = types.StatusInherited
		pv.ClearPayload()
	}
	return nil
}

// conform adjusts a migrated payload to the property so the value does
// not reappear in the next delta.
func conform(pv *types.PropertyValue, prop *types.Property) {
	if pv.Status != types.StatusDefined {
		pv.ClearPayload()
		return
	}
	switch pv.ValueType {
	case types.ValueTypeAttributeValue:
		if pv.Holder != nil && pv.Holder.IsMultiValue() != prop.MultiValue {
			pv.Holder = types.ConvertValueHolder(pv.Holder, prop.MultiValue)
		}
	case types.ValueTypeConfiguredValueSet:
		if valueSetMismatch(prop, pv) {
			pv.ValueSet = types.CopyValueSet(prop.ModelValueSet())
		}
	}
}

// fixStray deletes the value, or demotes it to UNDEFINED when the
// template chain still defines it and the value did not migrate.
func (d *Delta) fixStray(e *Entry) {
	c := d.Container
	pv := e.Value
	if !e.Migrated && c.PropertyValueOfType(pv.PropertyName, pv.ValueType) == pv &&
		d.finder.FindInherited(c, pv.PropertyName, pv.ValueType) != nil {
		pv.ClearPayload()
		pv.SetStatus(types.StatusUndefined)
		return
	}
	c.RemovePropertyValue(pv)
}

// fixTypeMismatch replaces the value in place by one of the declared
// type, keeping id and status.
func (d *Delta) fixTypeMismatch(e *Entry) error {
	old := e.Value
	pv, err := types.NewPropertyValue(e.Property, old.ID, e.ValueType)
	if err != nil {
		return err
	}
	pv.Status = old.Status
	if pv.Status != types.StatusDefined {
		pv.ClearPayload()
	}
	d.Container.ReplacePropertyValue(old, pv)
	return nil
}

// fixLinkLevel moves a link to the level its association lives on. A
// static link is copied into every generation; Compute reports none when
// the component has no generation. Generation links move to
// the static container from the latest generation only; the others are
// dropped.
func (d *Delta) fixLinkLevel(e *Entry) {
	l := e.Link
	c := d.Container
	if c.Kind == types.KindProductCmpt {
		gens := d.cmpt.Generations()
		if len(gens) == 0 {
			return
		}
		c.RemoveLink(l)
		for i, g := range gens {
			if g.FindLink(l.Association, l.Target) != nil {
				continue
			}
			cp := types.NewLink(l.Association, l.Target)
			if i == 0 {
				cp.ID = l.ID
			}
			cp.Min, cp.Max, cp.Default, cp.Status = l.Min, l.Max, l.Default, l.Status
			g.AddLink(cp)
		}
		return
	}
	static := d.cmpt.Static()
	if c == d.cmpt.LatestGeneration() && static.FindLink(l.Association, l.Target) == nil {
		static.AddLink(l)
		return
	}
	c.RemoveLink(l)
}

// fixGenerations keeps only the latest generation.
func (d *Delta) fixGenerations() {
	latest := d.cmpt.LatestGeneration()
	for _, g := range d.cmpt.Generations() {
		if g != latest {
			d.cmpt.RemoveGeneration(g)
		}
	}
}
