package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSONLSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "types.jsonl")
	content := `{"qualified_name":"a"}

not json
{"qualified_name":"b"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	recs, skipped, err := readJSONL(path)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	assert.Equal(t, 1, skipped)
}

func TestReadJSONLMissingFile(t *testing.T) {
	_, _, err := readJSONL(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}

func TestWriteJSONLReplacesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "product_cmpts.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	recs, err := marshalRecords([]productCmptJSON{
		{Name: "A", TypeName: "motor.Product", Content: "<ProductCmpt name=\"A\"/>"},
		{Name: "B", TypeName: "motor.Product", IsTemplate: true, Content: "<ProductCmpt name=\"B\"/>"},
	})
	require.NoError(t, err)
	require.NoError(t, writeJSONL(path, recs))

	got, skipped, err := readJSONL(path)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, got, 2)
	var cj productCmptJSON
	require.NoError(t, json.Unmarshal(got[1], &cj))
	assert.Equal(t, "B", cj.Name)
	assert.True(t, cj.IsTemplate)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestInitJSONLFilesKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, typesJSONL)
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	require.NoError(t, initJSONLFiles(dir))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
	assert.FileExists(t, filepath.Join(dir, productCmptsJSONL))
}
