package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/faktor/pkg/types"
)

func TestResolveNeutralPayloads(t *testing.T) {
	p := newChainProject()
	c := static(p, "C")
	tags := addValue(t, p, c, "tags", types.StatusInherited, "")
	prop := p.FindType("motor.Product").FindProperty(p, "deductible")
	vs, err := c.NewPropertyValue(prop, "", types.ValueTypeConfiguredValueSet)
	require.NoError(t, err)
	vs.Status = types.StatusUndefined
	vs.ClearPayload()

	f := NewFinder(p)
	h := f.EffectiveHolder(tags)
	require.NotNil(t, h)
	assert.True(t, h.IsMultiValue())
	assert.True(t, h.IsNull())

	set := f.EffectiveValueSet(vs)
	require.NotNil(t, set)
	assert.Equal(t, types.ValueSetUnrestricted, set.Type())
}

func TestResolveCopiesPayload(t *testing.T) {
	p := newChainProject()
	src := addValue(t, p, static(p, "T2"), "name", types.StatusDefined, "basic")
	pv := addValue(t, p, static(p, "C"), "name", types.StatusInherited, "")

	res := NewFinder(p).Resolve(pv)
	assert.Same(t, src, res.Source)
	assert.Equal(t, pv.ID, res.Value.ID)
	assert.Nil(t, res.Value.Container())

	res.Value.Holder.(*types.SingleValueHolder).Value = types.StringValue("changed")
	assert.Equal(t, "basic", src.Holder.String(), "resolution is detached")
}

func TestSetStatus(t *testing.T) {
	t.Run("inherited needs a template", func(t *testing.T) {
		p := newChainProject()
		pv := addValue(t, p, static(p, "T1"), "name", types.StatusDefined, "x")
		err := NewFinder(p).SetStatus(pv, types.StatusInherited)
		assert.ErrorIs(t, err, types.ErrNoTemplate)
		assert.Equal(t, types.StatusDefined, pv.Status)
	})

	t.Run("inherited drops payload", func(t *testing.T) {
		p := newChainProject()
		pv := addValue(t, p, static(p, "C"), "name", types.StatusDefined, "x")
		require.NoError(t, NewFinder(p).SetStatus(pv, types.StatusInherited))
		assert.Equal(t, types.StatusInherited, pv.Status)
		assert.Nil(t, pv.Holder)
	})

	t.Run("defined copies inherited payload", func(t *testing.T) {
		p := newChainProject()
		addValue(t, p, static(p, "T1"), "name", types.StatusDefined, "from-template")
		pv := addValue(t, p, static(p, "C"), "name", types.StatusInherited, "")
		require.NoError(t, NewFinder(p).SetStatus(pv, types.StatusDefined))
		assert.Equal(t, types.StatusDefined, pv.Status)
		assert.Equal(t, "from-template", pv.Holder.String())
	})

	t.Run("defined from undefined uses model default", func(t *testing.T) {
		p := newChainProject()
		pv := addValue(t, p, static(p, "T1"), "tags", types.StatusUndefined, "")
		require.NoError(t, NewFinder(p).SetStatus(pv, types.StatusDefined))
		require.NotNil(t, pv.Holder)
		assert.True(t, pv.Holder.IsMultiValue())
	})

	t.Run("undefined drops payload", func(t *testing.T) {
		p := newChainProject()
		pv := addValue(t, p, static(p, "T1"), "name", types.StatusDefined, "x")
		require.NoError(t, NewFinder(p).SetStatus(pv, types.StatusUndefined))
		assert.Nil(t, pv.Holder)
	})
}

func TestSetLinkStatusCopiesCardinality(t *testing.T) {
	p := newChainProject()
	tl := types.NewLink("coverages", "Collision")
	tl.SetCardinality(1, 3, 2)
	static(p, "T1").AddLink(tl)
	l := types.NewLink("coverages", "Collision")
	l.Status = types.StatusInherited
	static(p, "C").AddLink(l)

	f := NewFinder(p)
	require.NoError(t, f.SetLinkStatus(l, types.StatusDefined))
	assert.Equal(t, [3]int{1, 3, 2}, [3]int{l.Min, l.Max, l.Default})

	orphan := types.NewLink("coverages", "Theft")
	static(p, "T1").AddLink(orphan)
	assert.ErrorIs(t, f.SetLinkStatus(orphan, types.StatusInherited), types.ErrNoTemplate)
}

func TestUsages(t *testing.T) {
	p := newChainProject()
	p.AddProductCmpt(types.NewProductCmpt("Other", "motor.Product"))
	f := NewFinder(p)

	var names []string
	for _, pc := range f.Usages("T1") {
		names = append(names, pc.QualifiedName)
	}
	assert.Equal(t, []string{"T2", "C"}, names)
	assert.Len(t, f.Usages("T2"), 1)
	assert.Empty(t, f.Usages("C"))
}

func TestPropertyUsages(t *testing.T) {
	p := newChainProject()
	tv := addValue(t, p, static(p, "T1"), "name", types.StatusDefined, "x")
	inheriting := addValue(t, p, static(p, "T2"), "name", types.StatusInherited, "")
	overriding := addValue(t, p, static(p, "C"), "name", types.StatusDefined, "y")

	usage := NewFinder(p).PropertyUsages(tv)
	assert.Equal(t, []*types.PropertyValue{inheriting}, usage.Inheriting)
	assert.Equal(t, []*types.PropertyValue{overriding}, usage.Defining)
}
