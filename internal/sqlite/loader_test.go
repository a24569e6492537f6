package sqlite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/faktor/pkg/types"
)

func writeDataFile(t *testing.T, dir, name string, lines ...string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func TestLoadToleratesBadRecords(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		lines     []string
		wantTypes int
		wantCmpts int
	}{
		{
			name: "unknown fields are ignored",
			file: typesJSONL,
			lines: []string{
				`{"qualified_name":"motor.Product","supertype":"","changing_over_time":false,"definition":"{\"qualified_name\":\"motor.Product\",\"properties\":[]}","future_field":42}`,
			},
			wantTypes: 1,
		},
		{
			name: "malformed line is skipped",
			file: typesJSONL,
			lines: []string{
				`{"qualified_name":"motor.Product","definition":"{\"qualified_name\":\"motor.Product\"}"}`,
				`{"qualified_name":`,
			},
			wantTypes: 1,
		},
		{
			name: "record without name is skipped",
			file: typesJSONL,
			lines: []string{
				`{"definition":"{}"}`,
			},
		},
		{
			name: "component with broken content is skipped",
			file: productCmptsJSONL,
			lines: []string{
				`{"name":"A","type_name":"motor.Product","content":"<ProductCmpt name=\"A\" productCmptType=\"motor.Product\"/>"}`,
				`{"name":"B","type_name":"motor.Product","content":"<ProductCmpt"}`,
			},
			wantCmpts: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeDataFile(t, dir, tt.file, tt.lines...)

			b := attach(t, dir, "")
			p, err := b.LoadProject()
			require.NoError(t, err)
			assert.Len(t, p.Types(), tt.wantTypes)
			assert.Len(t, p.ProductCmpts(), tt.wantCmpts)
		})
	}
}

func TestLoadIndexesComponents(t *testing.T) {
	dir := t.TempDir()
	writeDataFile(t, dir, productCmptsJSONL,
		`{"name":"A","type_name":"motor.Product","template":"T","content":"<ProductCmpt name=\"A\" productCmptType=\"motor.Product\" template=\"T\"><AttributeValue attribute=\"rate\" templateValueStatus=\"inherited\"/><Link association=\"coverages\" target=\"Collision\" templateValueStatus=\"excluded\"/></ProductCmpt>"}`)

	b := attach(t, dir, "")
	values, err := b.ValuesWithStatus(types.StatusInherited)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, "rate", values[0].PropertyName)

	links, err := b.LinksTo("Collision")
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, types.StatusUndefined, links[0].Status)

	usages, err := b.TemplateUsages("T")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, usages)
}
