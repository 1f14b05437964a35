package iso10303

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/J-F-Liu/iso-10303/ast"
)

// Resolver locates the files a Compiler is asked to compile.
type Resolver interface {
	FindFileByPath(string) (SearchResult, error)
}

// SearchResult is what a Resolver found for a path. Only one of the fields
// needs to be set; the compiler prefers File, and only parses Source when
// File is nil.
type SearchResult struct {
	// Source is EXPRESS source text. It is closed after use if it is an
	// io.Closer.
	Source io.Reader
	// File is an already parsed file. Its Name must match the path.
	File *ast.File
}

// ResolverFunc is a function that implements Resolver.
type ResolverFunc func(string) (SearchResult, error)

var _ Resolver = ResolverFunc(nil)

func (f ResolverFunc) FindFileByPath(path string) (SearchResult, error) {
	return f(path)
}

// CompositeResolver tries its resolvers in order and returns the first
// result found. If all fail, the first error is returned.
type CompositeResolver []Resolver

var _ Resolver = CompositeResolver(nil)

func (f CompositeResolver) FindFileByPath(path string) (SearchResult, error) {
	if len(f) == 0 {
		return SearchResult{}, &fs.PathError{Op: "resolve", Path: path, Err: fs.ErrNotExist}
	}
	var firstErr error
	for _, res := range f {
		r, err := res.FindFileByPath(path)
		if err == nil {
			return r, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return SearchResult{}, firstErr
}

// SourceResolver loads schema source files. Relative paths are looked up
// in each of ImportPaths in turn, or opened as is when there are none.
type SourceResolver struct {
	ImportPaths []string
	// Accessor opens a file. It defaults to os.Open.
	Accessor func(string) (io.ReadCloser, error)
}

var _ Resolver = (*SourceResolver)(nil)

func (r *SourceResolver) FindFileByPath(path string) (SearchResult, error) {
	if len(r.ImportPaths) == 0 || filepath.IsAbs(path) {
		reader, err := r.accessFile(path)
		if err != nil {
			return SearchResult{}, err
		}
		return SearchResult{Source: reader}, nil
	}

	var e error
	for _, importPath := range r.ImportPaths {
		reader, err := r.accessFile(filepath.Join(importPath, path))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				e = err
				continue
			}
			return SearchResult{}, err
		}
		return SearchResult{Source: reader}, nil
	}
	return SearchResult{}, e
}

func (r *SourceResolver) accessFile(path string) (io.ReadCloser, error) {
	if r.Accessor != nil {
		return r.Accessor(path)
	}
	return os.Open(path)
}
