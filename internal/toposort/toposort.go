// Package toposort orders the nodes of a directed graph so that every node
// comes after the nodes it depends on.
package toposort

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

const (
	unsorted byte = iota
	walking
	sorted
)

// CycleError is returned when the graph is not acyclic. Path starts and
// ends with the same key.
type CycleError[Key comparable] struct {
	Path []Key
}

func (e *CycleError[Key]) Error() string {
	return "cycle detected: " + e.Join(" -> ")
}

// Join formats the cycle path with each key quoted.
func (e *CycleError[Key]) Join(sep string) string {
	var sb strings.Builder
	for i, k := range e.Path {
		if i > 0 {
			sb.WriteString(sep)
		}
		fmt.Fprintf(&sb, "%q", fmt.Sprint(k))
	}
	return sb.String()
}

// Sort sorts the graph reachable from roots topologically.
//
// key returns a comparable key for each node and deps returns the nodes
// a node depends on. Dependencies are visited in the order deps yields
// them, so for a graph without constraints between roots the result keeps
// the order of roots.
func Sort[Node any, Key comparable](
	roots []Node,
	key func(Node) Key,
	deps func(Node) iter.Seq[Node],
) ([]Node, error) {
	s := Sorter[Node, Key]{Key: key}
	return s.Sort(roots, deps)
}

// Sorter is reusable scratch space for [Sort]. It is not safe for
// concurrent use.
type Sorter[Node any, Key comparable] struct {
	// A function to extract a unique key from each node, for marking.
	Key func(Node) Key

	state map[Key]byte
	path  []Key
	out   []Node
}

// Sort is like [Sort], but re-uses allocated resources stored in s.
func (s *Sorter[Node, Key]) Sort(roots []Node, deps func(Node) iter.Seq[Node]) ([]Node, error) {
	if s.state == nil {
		s.state = make(map[Key]byte)
	}
	defer func() {
		clear(s.state)
		s.path = s.path[:0]
		s.out = nil
	}()

	for _, root := range roots {
		if err := s.visit(root, deps); err != nil {
			return nil, err
		}
	}
	return s.out, nil
}

func (s *Sorter[Node, Key]) visit(n Node, deps func(Node) iter.Seq[Node]) error {
	k := s.Key(n)
	switch s.state[k] {
	case sorted:
		return nil
	case walking:
		i := slices.Index(s.path, k)
		path := append(slices.Clone(s.path[i:]), k)
		return &CycleError[Key]{Path: path}
	}

	s.state[k] = walking
	s.path = append(s.path, k)
	for dep := range deps(n) {
		if err := s.visit(dep, deps); err != nil {
			return err
		}
	}
	s.path = s.path[:len(s.path)-1]
	s.state[k] = sorted
	s.out = append(s.out, n)
	return nil
}
