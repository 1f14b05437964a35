package iso10303

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/J-F-Liu/iso-10303/ast"
	"github.com/J-F-Liu/iso-10303/codegen"
	"github.com/J-F-Liu/iso-10303/linker"
	"github.com/J-F-Liu/iso-10303/parser"
	"github.com/J-F-Liu/iso-10303/reporter"
)

// Compiler handles compilation tasks, to turn EXPRESS source files into
// analyzed schemas and, optionally, generated Go readers.
//
// The compilation process involves three steps for each source file:
//  1. Parsing the source into an AST.
//  2. Linking every schema of the file: resolving names, flattening
//     inheritance and classifying types.
//  3. If Generate is set, rendering a Go reader per schema.
type Compiler struct {
	// Resolves path/file names into source code or parsed files. This field
	// is the only required field.
	Resolver Resolver
	// The maximum parallelism to use when compiling. If unspecified or set to
	// a non-positive value, then min(runtime.NumCPU(), runtime.GOMAXPROCS(-1))
	// will be used.
	MaxParallelism int
	// A custom error and warning reporter. If unspecified a default reporter
	// is used. A default reporter fails the compilation after encountering any
	// errors and ignores all warnings.
	Reporter reporter.Reporter
	// If non-nil, a Go reader is generated for every linked schema with
	// these options. An empty Package gives every schema its default
	// package name.
	Generate *codegen.Options
}

// Result is what compiling one file produced.
type Result struct {
	// Path is the name the file was requested by.
	Path    string
	File    *ast.File
	Schemas []*linker.Result
	// Generated holds one file per schema, in the order of Schemas, when
	// the compiler was asked to generate code.
	Generated []*codegen.File
}

// Compile compiles the given files. Results are in the order of files; a
// file named twice is compiled once and its result appears twice.
func (c *Compiler) Compile(ctx context.Context, files ...string) ([]*Result, error) {
	if len(files) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	par := c.MaxParallelism
	if par <= 0 {
		par = min(runtime.GOMAXPROCS(-1), runtime.NumCPU())
	}

	h := reporter.NewHandler(c.Reporter)

	e := executor{
		c:       c,
		h:       h,
		s:       semaphore.NewWeighted(int64(par)),
		results: map[string]*result{},
	}

	results := make([]*result, len(files))
	for i, f := range files {
		results[i] = e.compile(ctx, f)
	}

	out := make([]*Result, len(files))
	for i, r := range results {
		select {
		case <-r.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if r.err != nil {
			return nil, r.err
		}
		out[i] = r.res
	}
	if err := h.Error(); err != nil {
		return nil, err
	}
	return out, nil
}

type result struct {
	ready chan struct{}
	res   *Result
	err   error
}

func (r *result) fail(err error) {
	r.err = err
	close(r.ready)
}

func (r *result) complete(res *Result) {
	r.res = res
	close(r.ready)
}

type executor struct {
	c *Compiler
	h *reporter.Handler
	s *semaphore.Weighted

	mu      sync.Mutex
	results map[string]*result
}

func (e *executor) compile(ctx context.Context, file string) *result {
	e.mu.Lock()
	defer e.mu.Unlock()
	r := e.results[file]
	if r != nil {
		return r
	}

	r = &result{
		ready: make(chan struct{}),
	}
	e.results[file] = r
	go func() {
		e.doCompile(ctx, file, r)
	}()
	return r
}

func (e *executor) doCompile(ctx context.Context, file string, r *result) {
	if err := e.s.Acquire(ctx, 1); err != nil {
		r.fail(err)
		return
	}
	defer e.s.Release(1)

	sr, err := e.c.Resolver.FindFileByPath(file)
	if err != nil {
		r.fail(err)
		return
	}

	defer func() {
		// if results included a result, don't leave it open if it can be closed
		if sr.Source == nil {
			return
		}
		if c, ok := sr.Source.(io.Closer); ok {
			_ = c.Close()
		}
	}()

	t := task{e: e}
	res, err := t.run(ctx, file, sr)
	if err != nil {
		r.fail(err)
		return
	}
	r.complete(res)
}

// A compilation task, holding a permit of the executor's semaphore while
// it runs.
type task struct {
	e *executor
}

func (t *task) run(ctx context.Context, name string, sr SearchResult) (*Result, error) {
	file, err := t.asFile(name, sr)
	if err != nil {
		return nil, err
	}
	res := &Result{Path: name, File: file}
	for _, schema := range file.Schemas {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		linked, err := linker.Link(schema, t.e.h)
		if err != nil {
			return nil, err
		}
		res.Schemas = append(res.Schemas, linked)
		if t.e.c.Generate == nil {
			continue
		}
		opts := *t.e.c.Generate
		if opts.Source == "" {
			opts.Source = name
		}
		gen, err := codegen.Generate(linked, opts)
		if err != nil {
			return nil, err
		}
		res.Generated = append(res.Generated, gen)
	}
	return res, nil
}

func (t *task) asFile(name string, sr SearchResult) (*ast.File, error) {
	if sr.File != nil {
		if sr.File.Name != name {
			return nil, fmt.Errorf("search result for %q returned file %q", name, sr.File.Name)
		}
		return sr.File, nil
	}
	if sr.Source == nil {
		return nil, fmt.Errorf("search result for %q is empty", name)
	}
	return parser.Parse(name, sr.Source, t.e.h)
}
