package delta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/faktor/pkg/types"
)

var (
	jan2020 = types.Date(2020, 1, 1)
	jan2024 = types.Date(2024, 1, 1)
)

func attr(name string) *types.Property {
	return &types.Property{Name: name, Type: types.PropertyProductAttribute, Datatype: types.DatatypeString}
}

// newProject registers base.Product and motor.Product (a subtype of
// base.Product, changing over time) and returns it with a motor.Product
// component "C" holding one generation.
func newProject(baseProps, motorProps []*types.Property) (*types.Project, *types.ProductCmpt) {
	p := types.NewProject()
	p.AddType(&types.ProductCmptType{QualifiedName: "base.Product", ChangingOverTime: true, Properties: baseProps})
	p.AddType(&types.ProductCmptType{
		QualifiedName:    "motor.Product",
		Supertype:        "base.Product",
		ChangingOverTime: true,
		Properties:       motorProps,
		Associations: []*types.Association{
			{Name: "coverages", Target: "motor.Coverage", Max: types.Many},
			{Name: "tariffs", Target: "motor.Tariff", Max: types.Many, ChangingOverTime: true},
		},
	})
	pc := types.NewProductCmpt("C", "motor.Product")
	pc.NewGeneration(jan2020)
	p.AddProductCmpt(pc)
	return p, pc
}

func store(t *testing.T, c *types.Container, prop *types.Property, vt types.PropertyValueType) *types.PropertyValue {
	t.Helper()
	pv, err := c.NewPropertyValue(prop, "", vt)
	require.NoError(t, err)
	return pv
}

func kinds(entries []*Entry) []EntryKind {
	var out []EntryKind
	for _, e := range entries {
		out = append(out, e.Kind)
	}
	return out
}

func names(entries []*Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.PropertyName)
	}
	return out
}

func TestComputeEmpty(t *testing.T) {
	props := []*types.Property{attr("a1")}
	p, pc := newProject(nil, props)
	store(t, pc.Static(), props[0], types.ValueTypeAttributeValue)

	d, err := Compute(p, pc)
	require.NoError(t, err)
	assert.True(t, d.IsEmpty())
	assert.Zero(t, d.Len())
	require.Len(t, d.Children, 1)
	assert.Equal(t, types.KindGeneration, d.Children[0].Kind)
}

func TestComputeUnknownType(t *testing.T) {
	p := types.NewProject()
	pc := types.NewProductCmpt("C", "missing.Type")
	p.AddProductCmpt(pc)

	_, err := Compute(p, pc)
	assert.ErrorIs(t, err, types.ErrTypeNotFound)
}

func TestComputeAttributesOrder(t *testing.T) {
	// The type gained a2 and lost a_super and a1.
	p, pc := newProject(nil, []*types.Property{attr("a2")})
	store(t, pc.Static(), attr("a_super"), types.ValueTypeAttributeValue)
	store(t, pc.Static(), attr("a1"), types.ValueTypeAttributeValue)

	d, err := Compute(p, pc)
	require.NoError(t, err)
	assert.Equal(t, []EntryKind{KindMissingPropertyValue, KindValueWithoutProperty, KindValueWithoutProperty}, kinds(d.Entries))
	assert.Equal(t, []string{"a2", "a_super", "a1"}, names(d.Entries))
}

func TestComputeHierarchyOrder(t *testing.T) {
	p, pc := newProject([]*types.Property{attr("b")}, []*types.Property{attr("a")})

	d, err := Compute(p, pc)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, names(d.Entries), "supertype properties first")
}

func TestComputeLevels(t *testing.T) {
	rate := &types.Property{Name: "rate", Type: types.PropertyProductAttribute, Datatype: types.DatatypeDecimal, ChangingOverTime: true}
	p, pc := newProject(nil, []*types.Property{attr("name"), rate})

	d, err := Compute(p, pc)
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, names(d.Entries))
	require.Len(t, d.Children, 1)
	assert.Equal(t, []string{"rate"}, names(d.Children[0].Entries))
	assert.Equal(t, 2, d.Len())
}

func TestComputePropertyTypeMismatch(t *testing.T) {
	old := attr("premium")
	p, pc := newProject(nil, []*types.Property{{Name: "premium", Type: types.PropertyFormula}})
	pv := store(t, pc.Static(), old, types.ValueTypeAttributeValue)
	pv.Status = types.StatusUndefined

	d, err := Compute(p, pc)
	require.NoError(t, err)
	require.Len(t, d.Entries, 1)
	e := d.Entries[0]
	assert.Equal(t, KindPropertyTypeMismatch, e.Kind)
	assert.Same(t, pv, e.Value)
	assert.Equal(t, types.ValueTypeFormula, e.ValueType)

	require.NoError(t, d.Fix())
	got := pc.Static().PropertyValue("premium")
	require.NotNil(t, got)
	assert.Equal(t, types.ValueTypeFormula, got.ValueType)
	assert.Equal(t, pv.ID, got.ID)
	assert.Equal(t, types.StatusUndefined, got.Status)
	assert.Equal(t, 1, pc.Static().Values().Len())
}

func TestComputeValueSetMismatch(t *testing.T) {
	deductible := &types.Property{
		Name:     "deductible",
		Type:     types.PropertyPolicyAttribute,
		Datatype: types.DatatypeInteger,
		ValueSet: &types.EnumValueSet{Values: []string{"100", "500"}},
	}
	tests := []struct {
		name   string
		status types.TemplateValueStatus
		set    types.ValueSet
		want   bool
	}{
		{name: "defined range against enum", status: types.StatusDefined, set: &types.RangeValueSet{Lower: "0", Upper: "1000"}, want: true},
		{name: "defined enum against enum", status: types.StatusDefined, set: &types.EnumValueSet{Values: []string{"100"}}},
		{name: "inherited is not flagged", status: types.StatusInherited, set: &types.RangeValueSet{Lower: "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, pc := newProject(nil, []*types.Property{deductible})
			vs := store(t, pc.Static(), deductible, types.ValueTypeConfiguredValueSet)
			vs.Status = tt.status
			vs.ValueSet = tt.set
			store(t, pc.Static(), deductible, types.ValueTypeConfiguredDefault)

			d, err := Compute(p, pc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, len(d.EntriesOf(KindValueSetMismatch)) == 1)
			assert.Equal(t, !tt.want, d.IsEmpty())

			require.NoError(t, d.Fix())
			if tt.want {
				assert.True(t, deductible.ValueSet.Equal(vs.ValueSet))
			}
		})
	}
}

func TestComputeUnrestrictedModelAllowsEveryKind(t *testing.T) {
	prop := &types.Property{Name: "age", Type: types.PropertyPolicyAttribute, Datatype: types.DatatypeInteger}
	p, pc := newProject(nil, []*types.Property{prop})
	vs := store(t, pc.Static(), prop, types.ValueTypeConfiguredValueSet)
	vs.ValueSet = &types.RangeValueSet{Lower: "18", Upper: "99"}
	store(t, pc.Static(), prop, types.ValueTypeConfiguredDefault)

	d, err := Compute(p, pc)
	require.NoError(t, err)
	assert.True(t, d.IsEmpty())
}

func TestComputeValueHolderMismatch(t *testing.T) {
	tags := &types.Property{Name: "tags", Type: types.PropertyProductAttribute, Datatype: types.DatatypeString, MultiValue: true}
	p, pc := newProject(nil, []*types.Property{tags})
	pv := store(t, pc.Static(), attr("tags"), types.ValueTypeAttributeValue)
	pv.SetValue(types.StringValue("x"))

	d, err := Compute(p, pc)
	require.NoError(t, err)
	assert.Equal(t, []EntryKind{KindValueHolderMismatch}, kinds(d.Entries))

	require.NoError(t, d.Fix())
	require.True(t, pv.Holder.IsMultiValue())
	assert.Equal(t, []types.Value{types.StringValue("x")}, pv.Holder.Values())
}

func TestFixIdempotent(t *testing.T) {
	tags := &types.Property{Name: "tags", Type: types.PropertyProductAttribute, MultiValue: true}
	rate := &types.Property{Name: "rate", Type: types.PropertyProductAttribute, ChangingOverTime: true}
	p, pc := newProject([]*types.Property{attr("a2")}, []*types.Property{tags, rate})
	store(t, pc.Static(), attr("a1"), types.ValueTypeAttributeValue)
	store(t, pc.Static(), attr("tags"), types.ValueTypeAttributeValue)
	pc.Static().AddLink(types.NewLink("gone", "X"))
	pc.Generations()[0].AddLink(types.NewLink("coverages", "Collision"))

	d, err := Compute(p, pc)
	require.NoError(t, err)
	require.False(t, d.IsEmpty())
	require.NoError(t, d.Fix())
	require.NoError(t, d.Fix(), "second fix on the same delta is a no-op")

	again, err := Compute(p, pc)
	require.NoError(t, err)
	assert.True(t, again.IsEmpty(), again.String())
	require.NoError(t, again.Fix())

	assert.Len(t, pc.Static().Links(), 1)
	assert.Empty(t, pc.Generations()[0].Links())
}

func TestFixMissingInheritsFromTemplate(t *testing.T) {
	p, pc := newProject(nil, []*types.Property{attr("name"), attr("code")})
	tmpl := types.NewProductCmpt("T", "motor.Product")
	tmpl.IsTemplate = true
	tv := store(t, tmpl.Static(), attr("name"), types.ValueTypeAttributeValue)
	tv.SetValue(types.StringValue("basic"))
	p.AddProductCmpt(tmpl)
	pc.Template = "T"

	d, err := Compute(p, pc)
	require.NoError(t, err)
	require.NoError(t, d.Fix())

	assert.Equal(t, types.StatusInherited, pc.Static().PropertyValue("name").Status)
	assert.Equal(t, types.StatusDefined, pc.Static().PropertyValue("code").Status)
}

func TestFixStrayDemotedWhenTemplateDefinesIt(t *testing.T) {
	p, pc := newProject(nil, nil)
	tmpl := types.NewProductCmpt("T", "motor.Product")
	tmpl.IsTemplate = true
	store(t, tmpl.Static(), attr("legacy"), types.ValueTypeAttributeValue).SetValue(types.StringValue("t"))
	p.AddProductCmpt(tmpl)
	pc.Template = "T"
	pv := store(t, pc.Static(), attr("legacy"), types.ValueTypeAttributeValue)
	pv.SetValue(types.StringValue("c"))

	d, err := Compute(p, pc)
	require.NoError(t, err)
	require.Equal(t, []EntryKind{KindValueWithoutProperty}, kinds(d.Entries))
	require.NoError(t, d.Fix())

	assert.Same(t, pv, pc.Static().PropertyValue("legacy"))
	assert.Equal(t, types.StatusUndefined, pv.Status)
	assert.Nil(t, pv.Holder)

	again, err := Compute(p, pc)
	require.NoError(t, err)
	assert.True(t, again.IsEmpty())
}

func TestInvalidGenerations(t *testing.T) {
	name := attr("name")
	p := types.NewProject()
	p.AddType(&types.ProductCmptType{QualifiedName: "home.Product", Properties: []*types.Property{name}})
	pc := types.NewProductCmpt("H", "home.Product")
	pc.NewGeneration(jan2020)
	latest := pc.NewGeneration(jan2024)
	old := store(t, latest, name, types.ValueTypeAttributeValue)
	old.SetValue(types.StringValue("latest"))
	p.AddProductCmpt(pc)

	d, err := Compute(p, pc)
	require.NoError(t, err)
	assert.Equal(t, []EntryKind{KindMissingPropertyValue, KindInvalidGenerations}, kinds(d.Entries))
	src := d.Entries[0].Source
	require.NotNil(t, src)
	assert.NotSame(t, old, src)
	assert.Equal(t, old.ID, src.ID)
	assert.Equal(t, "latest", src.Holder.String())

	require.NoError(t, d.Fix())
	require.Len(t, pc.Generations(), 1)
	assert.Same(t, latest, pc.Generations()[0])
	got := pc.Static().PropertyValue("name")
	require.NotNil(t, got)
	assert.Equal(t, "latest", got.Holder.String())
	assert.Zero(t, latest.Values().Len())

	again, err := Compute(p, pc)
	require.NoError(t, err)
	assert.True(t, again.IsEmpty(), again.String())
}

func TestLinkEntries(t *testing.T) {
	p, pc := newProject(nil, nil)
	g := pc.Generations()[0]
	gone := types.NewLink("gone", "X")
	pc.Static().AddLink(gone)
	misplaced := types.NewLink("tariffs", "T1")
	misplaced.SetCardinality(1, 1, 1)
	pc.Static().AddLink(misplaced)
	pc.Static().AddLink(types.NewLink("coverages", "Collision"))

	d, err := Compute(p, pc)
	require.NoError(t, err)
	assert.Equal(t, []EntryKind{KindLinkWithoutAssociation, KindLinkChangingOverTimeMismatch}, kinds(d.Entries))

	require.NoError(t, d.Fix())
	assert.Len(t, pc.Static().Links(), 1)
	moved := g.FindLink("tariffs", "T1")
	require.NotNil(t, moved)
	assert.Equal(t, misplaced.ID, moved.ID)
	assert.Equal(t, 1, moved.Min)
}

func TestFixMigratedValueSurvivesTemplateValue(t *testing.T) {
	rate := attr("rate")
	rate.ChangingOverTime = true
	p, pc := newProject(nil, []*types.Property{rate})
	tmpl := types.NewProductCmpt("T", "motor.Product")
	tmpl.IsTemplate = true
	store(t, tmpl.Static(), rate, types.ValueTypeAttributeValue).SetValue(types.StringValue("t"))
	p.AddProductCmpt(tmpl)
	pc.Template = "T"
	store(t, pc.Static(), rate, types.ValueTypeAttributeValue).SetValue(types.StringValue("c"))

	d, err := Compute(p, pc)
	require.NoError(t, err)
	require.Equal(t, []EntryKind{KindValueWithoutProperty}, kinds(d.Entries))
	assert.True(t, d.Entries[0].Migrated)
	require.Len(t, d.Children, 1)
	require.Equal(t, []EntryKind{KindMissingPropertyValue}, kinds(d.Children[0].Entries))

	require.NoError(t, d.Fix())
	assert.Nil(t, pc.Static().PropertyValue("rate"))
	got := pc.Generations()[0].PropertyValue("rate")
	require.NotNil(t, got)
	assert.Equal(t, types.StatusDefined, got.Status)
	require.NotNil(t, got.Holder)
	assert.Equal(t, "c", got.Holder.String())

	again, err := Compute(p, pc)
	require.NoError(t, err)
	assert.True(t, again.IsEmpty(), again.String())
}

func TestStaticLinkKeptWithoutGenerations(t *testing.T) {
	p, _ := newProject(nil, nil)
	pc := types.NewProductCmpt("N", "motor.Product")
	p.AddProductCmpt(pc)
	l := types.NewLink("tariffs", "T1")
	pc.Static().AddLink(l)

	d, err := Compute(p, pc)
	require.NoError(t, err)
	assert.True(t, d.IsEmpty(), d.String())

	require.NoError(t, d.Fix())
	require.Len(t, pc.Static().Links(), 1)
	assert.Same(t, l, pc.Static().Links()[0])
}
