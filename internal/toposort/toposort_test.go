package toposort_test

import (
	"errors"
	"iter"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/J-F-Liu/iso-10303/internal/toposort"
)

type dag map[int][]int

func (d dag) children(n int) iter.Seq[int] {
	return slices.Values(d[n])
}

func identity(n int) int { return n }

func TestSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		dag   dag
		roots []int
		want  []int
	}{
		{
			name: "empty",
		},
		{
			name:  "list",
			dag:   dag{1: {2}, 2: {3}, 3: {4}},
			roots: []int{1},
			want:  []int{4, 3, 2, 1},
		},
		{
			name:  "list from the middle",
			dag:   dag{1: {2}, 2: {3}, 3: {4}},
			roots: []int{2, 1},
			want:  []int{4, 3, 2, 1},
		},
		{
			name:  "diamond",
			dag:   dag{1: {2, 3}, 2: {4}, 3: {4}},
			roots: []int{1},
			want:  []int{4, 2, 3, 1},
		},
		{
			name:  "diamond partial",
			dag:   dag{1: {2, 3}, 2: {4}, 3: {4}},
			roots: []int{3},
			want:  []int{4, 3},
		},
		{
			name:  "independent roots keep their order",
			dag:   dag{},
			roots: []int{5, 1, 3},
			want:  []int{5, 1, 3},
		},
		{
			name:  "y",
			dag:   dag{1: {2}, 2: {4}, 3: {4}},
			roots: []int{3, 1},
			want:  []int{4, 3, 2, 1},
		},
	}

	s := toposort.Sorter[int, int]{Key: identity}
	for _, tt := range tests {
		got, err := s.Sort(tt.roots, tt.dag.children)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func TestCycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		dag   dag
		roots []int
		path  []int
	}{
		{
			name:  "self loop",
			dag:   dag{1: {1}},
			roots: []int{1},
			path:  []int{1, 1},
		},
		{
			name:  "triangle",
			dag:   dag{1: {2}, 2: {3}, 3: {1}},
			roots: []int{1},
			path:  []int{1, 2, 3, 1},
		},
		{
			name:  "cycle below an acyclic prefix",
			dag:   dag{1: {2}, 2: {3, 4}, 4: {2}},
			roots: []int{1},
			path:  []int{2, 4, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := toposort.Sort(tt.roots, identity, tt.dag.children)
			var cycleErr *toposort.CycleError[int]
			require.True(t, errors.As(err, &cycleErr))
			assert.Equal(t, tt.path, cycleErr.Path)
		})
	}
}

func TestCycleErrorMessage(t *testing.T) {
	t.Parallel()

	err := &toposort.CycleError[string]{Path: []string{"a", "b", "a"}}
	assert.Equal(t, `cycle detected: "a" -> "b" -> "a"`, err.Error())
}

func TestSorterReuse(t *testing.T) {
	t.Parallel()

	s := toposort.Sorter[int, int]{Key: identity}
	_, err := s.Sort([]int{1}, dag{1: {1}}.children)
	require.Error(t, err)

	// state from the failed sort does not leak
	got, err := s.Sort([]int{1}, dag{1: {2}}.children)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, got)
}
