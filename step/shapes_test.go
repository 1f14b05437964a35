package step_test

import (
	"github.com/J-F-Liu/iso-10303/step"
)

// A tiny hand-written schema in the shape generated readers have.

const (
	kindPoint step.Kind = iota
	kindLine
)

type shape interface {
	step.Instance
	isShape()
}

type point struct {
	x, y float64
}

func (*point) EntityKind() step.Kind { return kindPoint }
func (*point) isShape()              {}

type line struct {
	from, to step.EntityRef
}

func (*line) EntityKind() step.Kind { return kindLine }
func (*line) isShape()              {}

var (
	_ shape = (*point)(nil)
	_ shape = (*line)(nil)
)

func newPoint(params []step.Parameter) (step.Instance, error) {
	p := &point{}
	var err error
	if p.x, err = step.Required(step.Param(params, 0), step.AsReal); err != nil {
		return nil, step.AttrError(0, "x", err)
	}
	if p.y, err = step.Required(step.Param(params, 1), step.AsReal); err != nil {
		return nil, step.AttrError(1, "y", err)
	}
	return p, nil
}

func newLine(params []step.Parameter) (step.Instance, error) {
	l := &line{}
	var err error
	if l.from, err = step.Required(step.Param(params, 0), step.AsRef); err != nil {
		return nil, step.AttrError(0, "from", err)
	}
	if l.to, err = step.Required(step.Param(params, 1), step.AsRef); err != nil {
		return nil, step.AttrError(1, "to", err)
	}
	return l, nil
}

var shapesSchema = step.Schema[step.Instance]{
	Name:  "shapes",
	Names: map[step.Kind]string{kindPoint: "POINT", kindLine: "LINE"},
	Constructors: map[string]step.Constructor[step.Instance]{
		"LINE":  newLine,
		"POINT": newPoint,
	},
}
