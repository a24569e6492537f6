package modelfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/faktor/pkg/types"
)

const model = `
types:
  - name: base.Product
    properties:
      - name: name
        type: productAttribute
        datatype: String
  - name: motor.Product
    supertype: base.Product
    changing_over_time: true
    properties:
      - name: rate
        type: productAttribute
        datatype: Decimal
        changing_over_time: true
        default: "0.1"
      - name: deductible
        type: policyAttribute
        datatype: Integer
        value_set:
          type: Enum
          values: ["100", "500"]
      - name: checkAge
        type: validationRule
        activated_by_default: true
    associations:
      - name: coverages
        target: motor.Coverage
        max: "*"
        policy: {min: 1, max: "1", default: 1}
      - name: tariff
        target: motor.Tariff
components:
  - components/basic.xml
`

const basicXML = `<?xml version="1.0" encoding="UTF-8"?>
<ProductCmpt name="motor.Basic" productCmptType="motor.Product">
  <AttributeValue attribute="name" templateValueStatus="defined"><Value>Basic</Value></AttributeValue>
  <Generation validFrom="2024-01-01">
    <AttributeValue attribute="rate"><Value>0.2</Value></AttributeValue>
  </Generation>
</ProductCmpt>
`

func writeModel(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "components"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "components", "basic.xml"), []byte(basicXML), 0o644))
	path := filepath.Join(dir, "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(model), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	p, err := Load(writeModel(t))
	require.NoError(t, err)

	motor := p.FindType("motor.Product")
	require.NotNil(t, motor)
	assert.Equal(t, "base.Product", motor.Supertype)
	assert.True(t, motor.ChangingOverTime)
	require.Len(t, motor.Properties, 3)

	rate := motor.Properties[0]
	assert.Equal(t, types.DatatypeDecimal, rate.Datatype)
	require.NotNil(t, rate.DefaultValue)
	assert.Equal(t, "0.1", *rate.DefaultValue)

	ded := motor.Properties[1]
	assert.Equal(t, types.ValueSetEnum, ded.ValueSet.Type())
	assert.True(t, motor.Properties[2].ActivatedByDefault)

	cov := motor.FindAssociation(p, "coverages")
	require.NotNil(t, cov)
	assert.Equal(t, types.Many, cov.Max)
	assert.Equal(t, &types.Cardinality{Min: 1, Max: 1, Default: 1}, cov.Policy)
	assert.Equal(t, 1, motor.FindAssociation(p, "tariff").Max, "max defaults to 1")

	pc := p.FindProductCmpt("motor.Basic")
	require.NotNil(t, pc)
	assert.Equal(t, "Basic", pc.Static().PropertyValue("name").Holder.String())
	require.Len(t, pc.Generations(), 1)
}

func TestParseValidation(t *testing.T) {
	doc := `
types:
  - name: a.Type
    properties:
      - type: productAttribute
      - name: x
        type: attribute
        datatype: Float
    associations:
      - name: links
        target: b.Type
        max: lots
  - name: a.Type
`
	_, err := Parse([]byte(doc), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidModel)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 5)
	assert.Contains(t, err.Error(), "duplicate type a.Type")
	assert.Contains(t, err.Error(), "cardinality")
}

func TestCardinalityTag(t *testing.T) {
	var v interface{ Var(any, string) error }
	require.NotPanics(t, func() { v = newValidator() })
	for _, tc := range []struct {
		in string
		ok bool
	}{{"1", true}, {"*", true}, {"lots", false}, {"-2", false}} {
		err := v.Var(tc.in, "cardinality")
		assert.Equal(t, tc.ok, err == nil, tc.in)
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse([]byte("types: [unclosed"), t.TempDir())
	assert.ErrorIs(t, err, ErrInvalidModel)
}

func TestParseMissingComponent(t *testing.T) {
	_, err := Parse([]byte("types: []\ncomponents: [missing.xml]\n"), t.TempDir())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "missing.xml"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	src, err := Load(writeModel(t))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "export", "model.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(out), 0o755))
	require.NoError(t, Save(out, src))
	assert.FileExists(t, filepath.Join(filepath.Dir(out), "components", "motor.Basic.xml"))

	got, err := Load(out)
	require.NoError(t, err)
	if diff := cmp.Diff(src.Types(), got.Types()); diff != "" {
		t.Errorf("types differ (-want +got):\n%s", diff)
	}
	assert.Equal(t, src.ProductCmptNames(), got.ProductCmptNames())
}
