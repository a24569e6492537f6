package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModel = `
types:
  - name: motor.Product
    properties:
      - name: name
        type: productAttribute
        datatype: String
      - name: deductible
        type: policyAttribute
        datatype: Integer
        value_set:
          type: Enum
          values: ["100", "500"]
components:
  - components/T.xml
  - components/C.xml
`

const templateXML = `<?xml version="1.0" encoding="UTF-8"?>
<ProductCmpt name="T" productCmptType="motor.Product" isTemplate="true">
  <AttributeValue attribute="name"><Value>Basic</Value></AttributeValue>
</ProductCmpt>
`

const cmptXML = `<?xml version="1.0" encoding="UTF-8"?>
<ProductCmpt name="C" productCmptType="motor.Product" template="T">
  <AttributeValue attribute="name" templateValueStatus="inherited"/>
</ProductCmpt>
`

type testEnv struct {
	configDir string
	dataDir   string
	modelPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("FAKTOR_CONFIG_DIR", "")
	t.Setenv("FAKTOR_DATA_DIR", "")
	root := t.TempDir()
	env := &testEnv{
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
		modelPath: filepath.Join(root, "model", "model.yaml"),
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "model", "components"), 0o755))
	require.NoError(t, os.WriteFile(env.modelPath, []byte(testModel), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "model", "components", "T.xml"), []byte(templateXML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "model", "components", "C.xml"), []byte(cmptXML), 0o644))
	return env
}

// run executes the root command with the environment's directories and
// returns what it printed.
func (env *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagJSON, flagValueType, flagGeneration, flagLink = false, "", "", ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--config-dir", env.configDir, "--data-dir", env.dataDir}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func (env *testEnv) imported(t *testing.T) {
	t.Helper()
	out, err := env.run(t, "import", env.modelPath)
	require.NoError(t, err)
	assert.Equal(t, "imported 1 types and 2 product components\n", out)
}

func TestInitCreatesDirectories(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "faktor initialized")
	assert.FileExists(t, filepath.Join(env.configDir, configFileExt))
	assert.FileExists(t, filepath.Join(env.dataDir, "types.jsonl"))
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "faktor dev\n", out)
}

func TestListAndShow(t *testing.T) {
	env := newTestEnv(t)
	env.imported(t)

	out, err := env.run(t, "list", "product_cmpts", "is_template=true")
	require.NoError(t, err)
	assert.Equal(t, "T\tmotor.Product\n", out)

	_, err = env.run(t, "list", "nosuch")
	assert.Equal(t, exitUserError, exitCode(err))

	_, err = env.run(t, "list", "product_cmpts", "color=red")
	assert.Equal(t, exitUserError, exitCode(err))

	out, err = env.run(t, "show", "C")
	require.NoError(t, err)
	assert.Contains(t, out, `<ProductCmpt name="C"`)

	_, err = env.run(t, "show", "missing")
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestResolveAndSetStatus(t *testing.T) {
	env := newTestEnv(t)
	env.imported(t)

	resolved := func() valueView {
		out, err := env.run(t, "--json", "resolve", "C", "name")
		require.NoError(t, err)
		var views []valueView
		require.NoError(t, json.Unmarshal([]byte(out), &views))
		require.Len(t, views, 1)
		return views[0]
	}

	v := resolved()
	assert.Equal(t, "inherited", v.Status)
	assert.Equal(t, "T", v.Source)
	assert.Equal(t, "Basic", v.Value)

	_, err := env.run(t, "set-status", "C", "name", "defined")
	require.NoError(t, err)
	v = resolved()
	assert.Equal(t, "defined", v.Status)
	assert.Equal(t, "C", v.Source)
	assert.Equal(t, "Basic", v.Value)

	_, err = env.run(t, "set-status", "T", "name", "inherited")
	assert.Equal(t, exitUserError, exitCode(err), "template without template")

	_, err = env.run(t, "set-status", "C", "name", "sometimes")
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestValuesByStatus(t *testing.T) {
	env := newTestEnv(t)
	env.imported(t)

	out, err := env.run(t, "values", "inherited")
	require.NoError(t, err)
	assert.Equal(t, "C\tname\tAttributeValue\n", out)

	out, err = env.run(t, "--json", "values", "DEFINED")
	require.NoError(t, err)
	var views []valueView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "T", views[0].Container)
	assert.Equal(t, "defined", views[0].Status)

	out, err = env.run(t, "values", "undefined")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = env.run(t, "values", "sometimes")
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestShowIncomingLinks(t *testing.T) {
	env := newTestEnv(t)
	linked := `<?xml version="1.0" encoding="UTF-8"?>
<ProductCmpt name="C" productCmptType="motor.Product" template="T">
  <AttributeValue attribute="name" templateValueStatus="inherited"/>
  <Link association="base" target="T"/>
</ProductCmpt>
`
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(env.modelPath), "components", "C.xml"), []byte(linked), 0o644))
	env.imported(t)

	show := func(name string) storedView {
		out, err := env.run(t, "--json", "show", name)
		require.NoError(t, err)
		var v storedView
		require.NoError(t, json.Unmarshal([]byte(out), &v))
		return v
	}

	v := show("T")
	require.Len(t, v.Incoming, 1)
	assert.Equal(t, incomingView{Cmpt: "C", Container: "C", Association: "base"}, v.Incoming[0])

	v = show("C")
	assert.Empty(t, v.Incoming)
	require.Len(t, v.Links, 1)
}

func TestUsages(t *testing.T) {
	env := newTestEnv(t)
	env.imported(t)

	out, err := env.run(t, "usages", "T")
	require.NoError(t, err)
	assert.Equal(t, "C\n", out)

	out, err = env.run(t, "usages", "T", "name")
	require.NoError(t, err)
	assert.Equal(t, "inherits C\n", out)
}

func TestDeltaAndFix(t *testing.T) {
	env := newTestEnv(t)
	env.imported(t)

	out, err := env.run(t, "delta", "T")
	require.NoError(t, err)
	assert.Contains(t, out, "MISSING_PROPERTY_VALUE deductible/ConfiguredValueSet")

	out, err = env.run(t, "fix")
	require.NoError(t, err)
	assert.Contains(t, out, "fixed T")
	assert.Contains(t, out, "fixed C")

	out, err = env.run(t, "delta")
	require.NoError(t, err)
	assert.Equal(t, "no differences\n", out)
}

func TestValidateAndRoots(t *testing.T) {
	env := newTestEnv(t)
	env.imported(t)

	out, err := env.run(t, "--json", "validate", "C")
	var views []messageView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	if err != nil {
		assert.Equal(t, exitUserError, exitCode(err))
	}
	for _, m := range views {
		assert.Equal(t, "C", m.Cmpt)
	}

	_, err = env.run(t, "validate", "missing")
	assert.Equal(t, exitUserError, exitCode(err))

	out, err = env.run(t, "roots")
	require.NoError(t, err)
	assert.Equal(t, "C\nT\n", out)
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	env.imported(t)

	path := filepath.Join(t.TempDir(), "out", "model.yaml")
	_, err := env.run(t, "export", path)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.FileExists(t, filepath.Join(filepath.Dir(path), "components", "C.xml"))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(userError("bad")))
	assert.Equal(t, exitSysError, exitCode(sysError(io.ErrUnexpectedEOF)))
	assert.Equal(t, exitUserError, exitCode(io.EOF))
}
