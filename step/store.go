package step

import (
	"fmt"
	"iter"
	"slices"

	"github.com/tidwall/btree"
)

// Kind identifies a concrete entity type of a schema. The values are
// assigned by generated code.
type Kind int32

// ComplexKind is the kind of complex instances, see Complex.
const ComplexKind Kind = -1

// Instance is implemented by every entity value a store holds. EntityKind
// must not dereference its receiver, so that it can be called on a nil
// pointer to learn the kind of a type.
type Instance interface {
	EntityKind() Kind
}

// Complex is an instance written in the external mapping form, as a list of
// parts that together make up one instance of several entity types.
type Complex[E Instance] struct {
	Parts []E
}

func (*Complex[E]) EntityKind() Kind {
	return ComplexKind
}

// Part returns the first part of the given kind.
func (c *Complex[E]) Part(kind Kind) (E, bool) {
	for _, p := range c.Parts {
		if p.EntityKind() == kind {
			return p, true
		}
	}
	var zero E
	return zero, false
}

// Store holds the entities read from an exchange file, by id and by kind.
// A Store is not safe for concurrent mutation.
type Store[E Instance] struct {
	entities btree.Map[int64, E]
	byKind   map[Kind][]int64
	names    map[Kind]string
}

// NewStore returns an empty store. Names maps each kind to the name it is
// listed under.
func NewStore[E Instance](names map[Kind]string) *Store[E] {
	s := &Store[E]{
		byKind: map[Kind][]int64{},
		names:  map[Kind]string{ComplexKind: "(complex)"},
	}
	for k, n := range names {
		s.names[k] = n
	}
	return s
}

// Insert adds e under id. It fails without changing the store if the id is
// already taken, the value is nil or its kind is unknown.
func (s *Store[E]) Insert(id int64, e E) error {
	if err := s.check(id, e); err != nil {
		return err
	}
	s.set(id, e)
	return nil
}

func (s *Store[E]) check(id int64, e E) error {
	if any(e) == nil {
		return fmt.Errorf("#%d: nil entity", id)
	}
	if _, ok := s.names[e.EntityKind()]; !ok {
		return fmt.Errorf("#%d: unknown entity kind %d", id, e.EntityKind())
	}
	if _, ok := s.entities.Get(id); ok {
		return fmt.Errorf("#%d: duplicate entity instance name", id)
	}
	return nil
}

func (s *Store[E]) set(id int64, e E) {
	s.entities.Set(id, e)
	kind := e.EntityKind()
	s.byKind[kind] = append(s.byKind[kind], id)
}

// Len returns the number of entities in the store.
func (s *Store[E]) Len() int {
	return s.entities.Len()
}

// Lookup returns the entity stored under id.
func (s *Store[E]) Lookup(id int64) (E, bool) {
	return s.entities.Get(id)
}

// KindOf returns the kind of the entity stored under id.
func (s *Store[E]) KindOf(id int64) (Kind, bool) {
	e, ok := s.entities.Get(id)
	if !ok {
		return 0, false
	}
	return e.EntityKind(), true
}

// Name returns the name kind is listed under.
func (s *Store[E]) Name(kind Kind) string {
	return s.names[kind]
}

// Kinds returns the kinds that have at least one entity, in order.
func (s *Store[E]) Kinds() []Kind {
	kinds := make([]Kind, 0, len(s.byKind))
	for k := range s.byKind {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Count returns the number of entities of the given kind.
func (s *Store[E]) Count(kind Kind) int {
	return len(s.byKind[kind])
}

// Entities returns every entity in id order.
func (s *Store[E]) Entities() iter.Seq2[int64, E] {
	return func(yield func(int64, E) bool) {
		it := s.entities.Iter()
		for more := it.First(); more; more = it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// Get returns the entity stored under id if it is a T. For a complex
// instance that is not itself a T, the first of its parts that is a T is
// returned.
func Get[T any, E Instance](s *Store[E], id int64) (T, bool) {
	e, ok := s.entities.Get(id)
	if !ok {
		var zero T
		return zero, false
	}
	return as[T](e)
}

func as[T any, E Instance](e E) (T, bool) {
	if t, ok := any(e).(T); ok {
		return t, true
	}
	if c, ok := any(e).(*Complex[E]); ok {
		for _, p := range c.Parts {
			if t, ok := any(p).(T); ok {
				return t, true
			}
		}
	}
	var zero T
	return zero, false
}

// All returns the entities that are a T, looking into the parts of complex
// instances as Get does. When T is a concrete entity pointer type, only
// the entities of its kind are visited, in insertion order, followed by
// the complex instances holding such a part. When T is an interface, such
// as the instance interface of an abstract supertype, every entity is
// checked, in id order.
func All[T any, E Instance](s *Store[E]) iter.Seq2[int64, T] {
	return func(yield func(int64, T) bool) {
		var zero T
		if inst, ok := any(zero).(Instance); ok && inst.EntityKind() != ComplexKind {
			for _, id := range slices.Concat(s.byKind[inst.EntityKind()], s.byKind[ComplexKind]) {
				e, _ := s.entities.Get(id)
				if t, ok := as[T](e); ok && !yield(id, t) {
					return
				}
			}
			return
		}
		for id, e := range s.Entities() {
			if t, ok := as[T](e); ok && !yield(id, t) {
				return
			}
		}
	}
}
