package step

import (
	"fmt"
	"io"
	"strings"

	"github.com/J-F-Liu/iso-10303/ast"
	"github.com/J-F-Liu/iso-10303/reporter"
)

// Constructor builds an entity from the parameters of a typed parameter, by
// position.
type Constructor[E Instance] func(params []Parameter) (E, error)

// Schema describes the entity types a Reader knows about. Generated code
// provides one per schema.
type Schema[E Instance] struct {
	// Name is the schema name expected in FILE_SCHEMA.
	Name string
	// Names maps each kind to its entity name.
	Names map[Kind]string
	// Constructors maps upper-case entity names to constructors. Abstract
	// entities have none.
	Constructors map[string]Constructor[E]
}

// ReaderOption configures a Reader.
type ReaderOption func(*readerOptions)

type readerOptions struct {
	reporter reporter.Reporter
}

// WithReporter sets the reporter that receives warnings, such as instances
// of unknown types that were skipped. By default warnings are discarded.
func WithReporter(rep reporter.Reporter) ReaderOption {
	return func(o *readerOptions) {
		o.reporter = rep
	}
}

// Reader converts the instances of exchange files into entities and keeps
// them in its Store.
type Reader[E Instance] struct {
	*Store[E]
	schema   Schema[E]
	reporter reporter.Reporter
}

// NewReader returns a Reader for the given schema with an empty store.
func NewReader[E Instance](schema Schema[E], opts ...ReaderOption) *Reader[E] {
	var o readerOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.reporter == nil {
		o.reporter = reporter.NewReporter(nil, nil)
	}
	return &Reader[E]{
		Store:    NewStore[E](schema.Names),
		schema:   schema,
		reporter: o.reporter,
	}
}

// Read parses the exchange file at path and adds its instances.
func (r *Reader[E]) Read(path string) error {
	file, err := ParseFile(path, reporter.NewHandler(r.reporter))
	if err != nil {
		return err
	}
	return r.Populate(file)
}

// ReadFrom parses the exchange file in rd, named name, and adds its
// instances.
func (r *Reader[E]) ReadFrom(name string, rd io.Reader) error {
	file, err := Parse(name, rd, reporter.NewHandler(r.reporter))
	if err != nil {
		return err
	}
	return r.Populate(file)
}

// Populate converts every instance of file and adds it to the store.
// Instances of types the schema does not know are skipped with a warning.
// Any conversion error or duplicate id aborts, and the store is then left
// as it was: instances are only added once all of them converted.
func (r *Reader[E]) Populate(file *ExchangeFile) error {
	type staged struct {
		id int64
		e  E
	}
	h := reporter.NewHandler(r.reporter)
	r.checkSchema(file, h)
	batch := make([]staged, 0, len(file.Data))
	seen := make(map[int64]bool, len(file.Data))
	for _, inst := range file.Data {
		e, ok, err := r.construct(inst, h)
		if err != nil {
			return reporter.Error(inst.Pos, err)
		}
		if !ok {
			continue
		}
		if err := r.check(inst.ID, e); err != nil {
			return reporter.Error(inst.Pos, err)
		}
		if seen[inst.ID] {
			return reporter.Errorf(inst.Pos, "#%d: duplicate entity instance name", inst.ID)
		}
		seen[inst.ID] = true
		batch = append(batch, staged{inst.ID, e})
	}
	for _, s := range batch {
		r.set(s.id, s.e)
	}
	return nil
}

func (r *Reader[E]) checkSchema(file *ExchangeFile, h *reporter.Handler) {
	if r.schema.Name == "" {
		return
	}
	names := file.SchemaNames()
	for _, n := range names {
		if strings.EqualFold(n, r.schema.Name) {
			return
		}
	}
	h.HandleWarningf(ast.UnknownPos(file.Name), "file schema %v does not include %s",
		names, strings.ToUpper(r.schema.Name))
}

// construct builds the entity for inst. It returns false when no part of
// the instance has a known type.
func (r *Reader[E]) construct(inst *EntityInstance, h *reporter.Handler) (E, bool, error) {
	var zero E
	if !inst.IsComplex() {
		return r.constructPart(inst, inst.Values[0], h)
	}
	c := &Complex[E]{}
	for _, part := range inst.Values {
		e, ok, err := r.constructPart(inst, part, h)
		if err != nil {
			return zero, false, err
		}
		if ok {
			c.Parts = append(c.Parts, e)
		}
	}
	if len(c.Parts) == 0 {
		return zero, false, nil
	}
	e, ok := any(c).(E)
	if !ok {
		return zero, false, fmt.Errorf("#%d: complex instances cannot be stored as %T", inst.ID, zero)
	}
	return e, true, nil
}

func (r *Reader[E]) constructPart(inst *EntityInstance, tp *TypedParameter, h *reporter.Handler) (E, bool, error) {
	var zero E
	name := strings.ToUpper(tp.TypeName)
	ctor, ok := r.schema.Constructors[name]
	if !ok {
		h.HandleWarningf(inst.Pos, "#%d: unknown entity type %s, instance skipped", inst.ID, name)
		return zero, false, nil
	}
	e, err := ctor(tp.Parameters)
	if err != nil {
		return zero, false, fmt.Errorf("#%d %s: %w", inst.ID, name, err)
	}
	return e, true, nil
}
