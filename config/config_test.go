package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/J-F-Liu/iso-10303/config"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse(strings.NewReader(`
schemas:
  - schemas/**/*.exp
exclude: [schemas/draft/**]
out: gen
package: ap
runtime_import: example.com/step
max_parallelism: 4
`))
	require.NoError(t, err)
	want := &config.Config{
		Schemas:        []string{"schemas/**/*.exp"},
		Exclude:        []string{"schemas/draft/**"},
		Out:            "gen",
		Package:        "ap",
		RuntimeImport:  "example.com/step",
		MaxParallelism: 4,
		Dir:            ".",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	cfg, err = config.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name, src, err string
	}{
		{name: "unknown field", src: "schemas: [a.exp]\noutput: x\n", err: "field output not found"},
		{name: "bad glob", src: "schemas: ['a/[b']\n", err: `invalid glob pattern "a/[b"`},
		{name: "negative parallelism", src: "max_parallelism: -1\n", err: "max_parallelism must not be negative, got -1"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.Parse(strings.NewReader(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "stepc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schemas: ['*.exp']\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.exp"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.exp"), nil, 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir)
	paths, err := cfg.Paths()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.exp"), filepath.Join(dir, "b.exp")}, paths)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"STEPC_SCHEMAS":         "a.exp, b/*.exp,",
		"STEPC_OUT":             "out",
		"STEPC_MAX_PARALLELISM": "2",
		"OUT":                   "ignored",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	cfg := config.Default()
	cfg.Package = "keep"
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, []string{"a.exp", "b/*.exp"}, cfg.Schemas)
	assert.Equal(t, "out", cfg.Out)
	assert.Equal(t, "keep", cfg.Package)
	assert.Equal(t, 2, cfg.MaxParallelism)

	env["STEPC_MAX_PARALLELISM"] = "many"
	err := config.Default().ApplyEnv(lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STEPC_MAX_PARALLELISM")
}

func TestFiles(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"schemas/ap203.exp":          {},
		"schemas/ap214.exp":          {},
		"schemas/draft/ap242.exp":    {},
		"schemas/notes.txt":          {},
		"schemas/nested/family.exp":  {},
		"schemas/nested/readme.md":   {},
		"other/unrelated/schema.exp": {},
	}
	cfg := &config.Config{
		Schemas: []string{"schemas/**/*.exp", "schemas/ap203.exp"},
		Exclude: []string{"schemas/draft/**"},
	}
	files, err := cfg.Files(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"schemas/ap203.exp",
		"schemas/ap214.exp",
		"schemas/nested/family.exp",
	}, files)

	cfg.Schemas = []string{"missing/*.exp"}
	_, err = cfg.Files(fsys)
	assert.EqualError(t, err, `no files match "missing/*.exp"`)
}
