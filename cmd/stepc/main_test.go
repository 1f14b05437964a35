package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const familySchema = "../../internal/testschemas/family/family.exp"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestModel(t *testing.T) {
	t.Parallel()

	out, err := run(t, "model", familySchema)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "schema: family\n"), out)
	assert.Contains(t, out, "- name: male\n")
	assert.Contains(t, out, "- name: hair_type\n")

	_, err = run(t, "model", filepath.Join(t.TempDir(), "missing.exp"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestModelRendersErrors(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.exp")
	require.NoError(t, os.WriteFile(path, []byte("SCHEMA bad;\nTYPE t = missing_type;\nEND_TYPE;\nEND_SCHEMA;\n"), 0o600))

	_, err := run(t, "model", path)
	require.Error(t, err)

	var buf bytes.Buffer
	renderError(&buf, err)
	assert.True(t, strings.HasPrefix(buf.String(), path+":2:"), buf.String())
	assert.Contains(t, buf.String(), "2 | TYPE t = missing_type;\n")
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out, err := run(t, "generate", "-o", dir, familySchema)
	require.NoError(t, err)

	path := filepath.Join(dir, "family", "family.go")
	assert.Equal(t, path+"\n", out)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("// Code generated by stepc")), string(content[:min(len(content), 80)]))
	assert.Contains(t, string(content), "package family\n")

	out, err = run(t, "generate", "-o", dir, "-p", "people", familySchema)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "people", "family.go")+"\n", out)
}

func TestGenerateFromConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	schema, err := os.ReadFile(familySchema)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "schemas"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schemas", "family.exp"), schema, 0o600))
	cfgPath := filepath.Join(dir, "stepc.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("schemas: ['schemas/*.exp']\npackage: kin\n"), 0o600))

	gen := filepath.Join(dir, "gen")
	out, err := run(t, "generate", "-c", cfgPath, "-o", gen)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(gen, "kin", "family.go")+"\n", out)

	_, err = run(t, "generate", "-o", gen)
	assert.EqualError(t, err, "no schema files given")
}

func TestInspect(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "family.stp")
	require.NoError(t, os.WriteFile(path, []byte(`ISO-10303-21;
HEADER;
FILE_DESCRIPTION(('family test'),'2;1');
FILE_NAME('family.stp','2024-01-01T00:00:00',(''),(''),'','','');
FILE_SCHEMA(('FAMILY'));
ENDSEC;
DATA;
#1=MALE('A','B',#3);
#2=MALE('E','B',$);
#3=FEMALE('C','D',#1,.RED.,(1990,1,2));
ENDSEC;
END-ISO-10303-21;
`), 0o600))

	out, err := run(t, "inspect", path)
	require.NoError(t, err)
	assert.Equal(t, path+`
  schemas: FAMILY
  instances: 3
    FEMALE  1
    MALE    2
`, out)

	_, err = run(t, "inspect")
	assert.Error(t, err)
}
