package step_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/J-F-Liu/iso-10303/step"
)

func newShapeStore(t *testing.T) *step.Store[step.Instance] {
	t.Helper()
	s := step.NewStore[step.Instance](shapesSchema.Names)
	require.NoError(t, s.Insert(5, &point{x: 1, y: 2}))
	require.NoError(t, s.Insert(2, &point{x: 3, y: 4}))
	require.NoError(t, s.Insert(9, &line{from: 5, to: 2}))
	return s
}

func TestStoreGet(t *testing.T) {
	t.Parallel()

	s := newShapeStore(t)
	assert.Equal(t, 3, s.Len())

	p, ok := step.Get[*point](s, 5)
	require.True(t, ok)
	assert.Equal(t, &point{x: 1, y: 2}, p)

	// wrong type never panics
	l, ok := step.Get[*line](s, 5)
	assert.False(t, ok)
	assert.Nil(t, l)

	_, ok = step.Get[*point](s, 404)
	assert.False(t, ok)

	sh, ok := step.Get[shape](s, 9)
	require.True(t, ok)
	assert.Equal(t, kindLine, sh.EntityKind())

	kind, ok := s.KindOf(2)
	require.True(t, ok)
	assert.Equal(t, kindPoint, kind)
	_, ok = s.KindOf(3)
	assert.False(t, ok)
}

func TestStoreInsertRejects(t *testing.T) {
	t.Parallel()

	s := newShapeStore(t)

	err := s.Insert(5, &line{})
	require.Error(t, err)
	assert.Equal(t, "#5: duplicate entity instance name", err.Error())

	err = s.Insert(6, nil)
	require.Error(t, err)

	err = s.Insert(7, unknownKind{})
	require.Error(t, err)
	assert.Equal(t, "#7: unknown entity kind 42", err.Error())

	// nothing was torn
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2, s.Count(kindPoint))
	assert.Equal(t, 1, s.Count(kindLine))
	p, ok := step.Get[*point](s, 5)
	require.True(t, ok)
	assert.Equal(t, 1.0, p.x)
}

type unknownKind struct{}

func (unknownKind) EntityKind() step.Kind { return 42 }

func TestStoreAll(t *testing.T) {
	t.Parallel()

	s := newShapeStore(t)

	var ids []int64
	for id, p := range step.All[*point](s) {
		require.NotNil(t, p)
		ids = append(ids, id)
	}
	// insertion order within a kind
	assert.Equal(t, []int64{5, 2}, ids)

	ids = nil
	for id := range step.All[shape](s) {
		ids = append(ids, id)
	}
	// id order across kinds
	assert.Equal(t, []int64{2, 5, 9}, ids)

	empty := step.NewStore[step.Instance](shapesSchema.Names)
	for range step.All[*line](empty) {
		t.Fatal("no lines were inserted")
	}

	ids = nil
	for id := range step.All[*point](s) {
		ids = append(ids, id)
		break
	}
	assert.Equal(t, []int64{5}, ids)
}

func TestStoreKinds(t *testing.T) {
	t.Parallel()

	s := newShapeStore(t)
	assert.Equal(t, []step.Kind{kindPoint, kindLine}, s.Kinds())
	assert.Equal(t, "POINT", s.Name(kindPoint))
	assert.Equal(t, "(complex)", s.Name(step.ComplexKind))
	assert.Equal(t, "", s.Name(99))

	var ids []int64
	for id := range s.Entities() {
		ids = append(ids, id)
	}
	assert.Equal(t, []int64{2, 5, 9}, ids)
}

func TestComplexPart(t *testing.T) {
	t.Parallel()

	c := &step.Complex[step.Instance]{Parts: []step.Instance{&point{x: 1}, &line{from: 1}}}
	assert.Equal(t, step.ComplexKind, c.EntityKind())
	l, ok := c.Part(kindLine)
	require.True(t, ok)
	assert.Equal(t, &line{from: 1}, l)
	_, ok = c.Part(99)
	assert.False(t, ok)
}
