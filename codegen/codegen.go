// Package codegen generates Go readers for EXPRESS schemas.
//
// The generated file defines, for one schema, a Go type per type
// definition, an interface and (for concrete entities) a struct per
// entity, a constructor per concrete entity that converts the parameters
// of an exchange file instance by position, and a Reader built on the step
// package.
//
// Generation is a pure function of the linked schema: the same input
// always yields the same bytes.
package codegen

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"path"
	"strings"
	"text/template"

	"github.com/J-F-Liu/iso-10303/linker"
)

// DefaultRuntimeImport is the import path of the runtime generated code
// uses unless Options.RuntimeImport says otherwise.
const DefaultRuntimeImport = "github.com/J-F-Liu/iso-10303/step"

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"makeDocs": makeDocs,
	"join":     strings.Join,
}).ParseFS(templateFS, "templates/*.tmpl"))

// Options control the generated file.
type Options struct {
	// Package is the package name of the generated file. It defaults to
	// the schema name in lower case.
	Package string
	// RuntimeImport is the import path of the step runtime.
	RuntimeImport string
	// Source names the schema file in the header comment.
	Source string
}

// File is a generated Go source file.
type File struct {
	// Name is the suggested file name, the schema name with a .go suffix.
	Name    string
	Package string
	Content []byte
}

// Generate renders the reader for res. The content is gofmt-formatted.
func Generate(res *linker.Result, opts Options) (*File, error) {
	if opts.Package == "" {
		opts.Package = packageName(res.Schema.Name)
	}
	if opts.RuntimeImport == "" {
		opts.RuntimeImport = DefaultRuntimeImport
	}

	g := newGenerator(res, opts)
	data, err := g.build()
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", res.Schema.Name, err)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "file.go.tmpl", data); err != nil {
		return nil, err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("schema %s: formatting generated code: %w", res.Schema.Name, err)
	}
	return &File{
		Name:    strings.ToLower(res.Schema.Name) + ".go",
		Package: opts.Package,
		Content: src,
	}, nil
}

// makeDocs turns text into line comments.
func makeDocs(data, indent string) string {
	if data == "" {
		return ""
	}

	var out strings.Builder
	for _, line := range strings.Split(strings.TrimSpace(data), "\n") {
		out.WriteString(indent)
		if line == "" {
			out.WriteString("//\n")
			continue
		}
		out.WriteString("// ")
		out.WriteString(line)
		out.WriteString("\n")
	}
	return out.String()
}

// runtimeName is the name generated code refers to the runtime by.
const runtimeName = "step"

func runtimeImportName(importPath string) string {
	if path.Base(importPath) == runtimeName {
		return ""
	}
	return runtimeName
}
