package ipsxml

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/faktor/pkg/types"
)

var ignoreContainer = cmpopts.IgnoreUnexported(types.PropertyValue{})

func TestPropertyValueRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		pv   *types.PropertyValue
	}{
		{name: "single value", pv: &types.PropertyValue{ID: "1", PropertyName: "name", ValueType: types.ValueTypeAttributeValue,
			Holder: types.NewSingleValueHolder(types.StringValue("Basic <Plus>"))}},
		{name: "null value", pv: &types.PropertyValue{ID: "2", PropertyName: "name", ValueType: types.ValueTypeAttributeValue,
			Holder: types.NewSingleValueHolder(types.NullValue())}},
		{name: "empty string", pv: &types.PropertyValue{ID: "3", PropertyName: "name", ValueType: types.ValueTypeAttributeValue,
			Holder: types.NewSingleValueHolder(types.StringValue(""))}},
		{name: "multi value", pv: &types.PropertyValue{ID: "4", PropertyName: "tags", ValueType: types.ValueTypeAttributeValue,
			Holder: types.NewMultiValueHolder(types.StringValue("a"), types.NullValue(), types.StringValue("b"))}},
		{name: "inherited", pv: &types.PropertyValue{ID: "5", PropertyName: "name", ValueType: types.ValueTypeAttributeValue,
			Status: types.StatusInherited}},
		{name: "undefined", pv: &types.PropertyValue{ID: "6", PropertyName: "name", ValueType: types.ValueTypeAttributeValue,
			Status: types.StatusUndefined}},
		{name: "enum value set", pv: &types.PropertyValue{ID: "7", PropertyName: "deductible", ValueType: types.ValueTypeConfiguredValueSet,
			ValueSet: &types.EnumValueSet{Values: []string{"100", "500"}, Null: true}}},
		{name: "range value set", pv: &types.PropertyValue{ID: "8", PropertyName: "deductible", ValueType: types.ValueTypeConfiguredValueSet,
			ValueSet: &types.RangeValueSet{Lower: "0", Upper: "1000", Step: "50"}}},
		{name: "unrestricted value set", pv: &types.PropertyValue{ID: "9", PropertyName: "deductible", ValueType: types.ValueTypeConfiguredValueSet,
			ValueSet: &types.UnrestrictedValueSet{}}},
		{name: "configured default", pv: &types.PropertyValue{ID: "10", PropertyName: "deductible", ValueType: types.ValueTypeConfiguredDefault,
			Holder: types.NewSingleValueHolder(types.StringValue("500"))}},
		{name: "formula", pv: &types.PropertyValue{ID: "11", PropertyName: "premium", ValueType: types.ValueTypeFormula,
			Expression: "base * 1.19 < limit"}},
		{name: "table usage", pv: &types.PropertyValue{ID: "12", PropertyName: "rates", ValueType: types.ValueTypeTableContentUsage,
			TableContentName: "motor.Rates2024"}},
		{name: "rule config", pv: &types.PropertyValue{ID: "13", PropertyName: "checkAge", ValueType: types.ValueTypeValidationRuleConfig,
			Active: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalPropertyValue(tt.pv)
			require.NoError(t, err)

			got, err := UnmarshalPropertyValue(data)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.pv, got, ignoreContainer); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s\n%s", diff, data)
			}
		})
	}
}

func TestUnmarshalPropertyValueStatus(t *testing.T) {
	tests := []struct {
		attr string
		want types.TemplateValueStatus
	}{
		{attr: ``, want: types.StatusDefined},
		{attr: `templateValueStatus="defined"`, want: types.StatusDefined},
		{attr: `templateValueStatus="INHERITED"`, want: types.StatusInherited},
		{attr: `templateValueStatus="undefined"`, want: types.StatusUndefined},
		{attr: `templateValueStatus="excluded"`, want: types.StatusUndefined},
		{attr: `templateValueStatus="bogus"`, want: types.StatusDefined},
	}
	for _, tt := range tests {
		t.Run(tt.attr, func(t *testing.T) {
			doc := `<AttributeValue attribute="a" id="x" ` + tt.attr + `><Value>v</Value></AttributeValue>`
			pv, err := UnmarshalPropertyValue([]byte(doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, pv.Status)
			assert.Equal(t, "a", pv.PropertyName)
		})
	}
}

func TestLegacyExcludedWrittenAsUndefined(t *testing.T) {
	pv, err := UnmarshalPropertyValue([]byte(`<AttributeValue attribute="a" id="x" templateValueStatus="excluded"/>`))
	require.NoError(t, err)
	out, err := MarshalPropertyValue(pv)
	require.NoError(t, err)
	assert.Contains(t, string(out), `templateValueStatus="undefined"`)
	assert.NotContains(t, string(out), "excluded")
}

func TestUnmarshalPropertyValueRejectsOtherElements(t *testing.T) {
	_, err := UnmarshalPropertyValue([]byte(`<Link association="a" target="b"/>`))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, err = UnmarshalPropertyValue([]byte(`<AttributeValue id="x"/>`))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func newCmpt(t *testing.T) *types.ProductCmpt {
	t.Helper()
	pc := types.NewProductCmpt("motor.Basic", "motor.Product")
	pc.Template = "motor.Template"
	pc.RuntimeID = "basic-1"

	name := &types.PropertyValue{ID: "n", PropertyName: "name", ValueType: types.ValueTypeAttributeValue,
		Holder: types.NewSingleValueHolder(types.StringValue("Basic"))}
	pc.Static().AddPropertyValue(name)
	pc.Static().AddPropertyValue(&types.PropertyValue{ID: "d", PropertyName: "deductible",
		ValueType: types.ValueTypeConfiguredValueSet, Status: types.StatusInherited})
	cov := types.NewLink("coverages", "motor.Collision")
	cov.SetCardinality(0, types.Many, 1)
	pc.Static().AddLink(cov)

	g := pc.NewGeneration(types.Date(2024, 1, 1))
	g.AddPropertyValue(&types.PropertyValue{ID: "r", PropertyName: "rate", ValueType: types.ValueTypeAttributeValue,
		Holder: types.NewSingleValueHolder(types.StringValue("0.05"))})
	tariff := types.NewLink("tariffs", "motor.Tariff2024")
	tariff.Status = types.StatusInherited
	g.AddLink(tariff)
	return pc
}

func TestProductCmptRoundTrip(t *testing.T) {
	pc := newCmpt(t)
	data, err := Marshal(pc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("<?xml")))

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, "motor.Basic", got.QualifiedName)
	assert.Equal(t, "motor.Product", got.TypeName)
	assert.Equal(t, "motor.Template", got.Template)
	assert.Equal(t, "basic-1", got.RuntimeID)
	assert.False(t, got.IsTemplate)

	require.Equal(t, 2, got.Static().Values().Len())
	assert.Equal(t, "Basic", got.Static().PropertyValue("name").Holder.String())
	assert.Equal(t, types.StatusInherited, got.Static().PropertyValue("deductible").Status)
	assert.Nil(t, got.Static().PropertyValue("deductible").ValueSet)

	links := got.Static().Links()
	require.Len(t, links, 1)
	assert.Equal(t, types.Many, links[0].Max)
	assert.Equal(t, 1, links[0].Default)
	assert.Same(t, got.Static(), links[0].Container())

	require.Len(t, got.Generations(), 1)
	g := got.Generations()[0]
	assert.True(t, types.Date(2024, 1, 1).Equal(g.ValidFrom))
	assert.Equal(t, "0.05", g.PropertyValue("rate").Holder.String())
	assert.Equal(t, types.StatusInherited, g.Links()[0].Status)

	again, err := Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestDecodeSkipsUnknownElements(t *testing.T) {
	doc := `<ProductCmpt name="x" productCmptType="T">
  <Description>ignored</Description>
  <AttributeValue attribute="a"><Value>1</Value></AttributeValue>
</ProductCmpt>`
	pc, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 1, pc.Static().Values().Len())
	assert.NotEmpty(t, pc.Static().PropertyValue("a").ID)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "wrong root", doc: `<Policy name="x"/>`},
		{name: "no name", doc: `<ProductCmpt productCmptType="T"/>`},
		{name: "bad date", doc: `<ProductCmpt name="x"><Generation validFrom="yesterday"/></ProductCmpt>`},
		{name: "bad cardinality", doc: `<ProductCmpt name="x"><Link association="a" target="b" maxCardinality="lots"/></ProductCmpt>`},
		{name: "bad active flag", doc: `<ProductCmpt name="x"><ValidationRuleConfig ruleName="r" active="maybe"/></ProductCmpt>`},
		{name: "not xml", doc: `{"name": "x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}
