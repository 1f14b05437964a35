// Package config loads the project configuration of stepc, a YAML file
// naming the schemas to compile and where the generated readers go.
//
// A configuration looks like this:
//
//	schemas:
//	  - schemas/**/*.exp
//	exclude:
//	  - schemas/draft/**
//	out: gen
//	runtime_import: github.com/J-F-Liu/iso-10303/step
//	max_parallelism: 4
//
// Fields can be overridden with environment variables named STEPC_ followed
// by the upper-case field name, such as STEPC_OUT. List fields take a
// comma-separated value.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// EnvPrefix starts the names of the environment variables that override
// configuration fields.
const EnvPrefix = "STEPC_"

// Config is a stepc project configuration.
type Config struct {
	// Schemas are glob patterns of EXPRESS files, relative to Dir.
	Schemas []string `yaml:"schemas"`
	// Exclude are glob patterns of files to leave out.
	Exclude []string `yaml:"exclude"`
	// Out is the directory generated packages are written under.
	Out string `yaml:"out"`
	// Package overrides the package name of the generated code.
	Package string `yaml:"package"`
	// RuntimeImport is the import path of the step runtime.
	RuntimeImport string `yaml:"runtime_import"`
	// MaxParallelism bounds the number of schemas compiled at once.
	MaxParallelism int `yaml:"max_parallelism"`

	// Dir is the directory patterns are relative to: the directory of the
	// configuration file, or the working directory.
	Dir string `yaml:"-"`
}

// Default returns the configuration used when there is no file.
func Default() *Config {
	return &Config{Out: ".", Dir: "."}
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// Parse decodes a configuration. Unknown fields are errors.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the patterns and numbers of the configuration.
func (c *Config) Validate() error {
	for _, p := range slices.Concat(c.Schemas, c.Exclude) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	if c.MaxParallelism < 0 {
		return fmt.Errorf("max_parallelism must not be negative, got %d", c.MaxParallelism)
	}
	return nil
}

// ApplyEnv overrides fields with the STEPC_* variables lookup finds, such
// as os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, field *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*field = v
		}
	}
	list := func(name string, field *[]string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*field = splitList(v)
		}
	}
	list("SCHEMAS", &c.Schemas)
	list("EXCLUDE", &c.Exclude)
	str("OUT", &c.Out)
	str("PACKAGE", &c.Package)
	str("RUNTIME_IMPORT", &c.RuntimeImport)
	if v, ok := lookup(EnvPrefix + "MAX_PARALLELISM"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMAX_PARALLELISM: %w", EnvPrefix, err)
		}
		c.MaxParallelism = n
	}
	return c.Validate()
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Files expands Schemas in fsys and drops the matches of Exclude. The
// result is sorted and has no duplicates. A pattern matching nothing is an
// error, so that typos do not go unnoticed.
func (c *Config) Files(fsys fs.FS) ([]string, error) {
	var files []string
	for _, pattern := range c.Schemas {
		matches, err := doublestar.Glob(fsys, filepath.ToSlash(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		for _, m := range matches {
			excluded, err := c.excluded(m)
			if err != nil {
				return nil, err
			}
			if !excluded {
				files = append(files, m)
			}
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

func (c *Config) excluded(path string) (bool, error) {
	for _, pattern := range c.Exclude {
		ok, err := doublestar.Match(filepath.ToSlash(pattern), path)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// Paths is Files in the file system rooted at Dir, with Dir joined back
// onto each result.
func (c *Config) Paths() ([]string, error) {
	files, err := c.Files(os.DirFS(c.Dir))
	if err != nil {
		return nil, err
	}
	for i, f := range files {
		files[i] = filepath.Join(c.Dir, filepath.FromSlash(f))
	}
	return files, nil
}
