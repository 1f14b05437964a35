package linker

import (
	"io"

	"gopkg.in/yaml.v3"
)

// Summary is a plain view of a Result for printing.
type Summary struct {
	Schema   string          `yaml:"schema"`
	Version  string          `yaml:"version,omitempty"`
	Types    []TypeSummary   `yaml:"types,omitempty"`
	Entities []EntitySummary `yaml:"entities,omitempty"`
	Cycles   [][]string      `yaml:"cycles,omitempty"`
}

type TypeSummary struct {
	Name       string   `yaml:"name"`
	Kind       string   `yaml:"kind"`
	Underlying string   `yaml:"underlying,omitempty"`
	Shape      string   `yaml:"shape,omitempty"`
	Members    []string `yaml:"members,omitempty"`
	EntityLike bool     `yaml:"entity_like,omitempty"`
	Hashable   bool     `yaml:"hashable,omitempty"`
}

type EntitySummary struct {
	Name       string             `yaml:"name"`
	Abstract   bool               `yaml:"abstract,omitempty"`
	Supertypes []string           `yaml:"supertypes,omitempty"`
	Ancestors  []string           `yaml:"ancestors,omitempty"`
	Cyclic     bool               `yaml:"cyclic,omitempty"`
	Attributes []AttributeSummary `yaml:"attributes,omitempty"`
}

type AttributeSummary struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Optional bool   `yaml:"optional,omitempty"`
	Owner    string `yaml:"owner"`
	// Declared is only set for narrowed attributes.
	Declared string `yaml:"declared,omitempty"`
	Derived  bool   `yaml:"derived,omitempty"`
}

// Summary builds the summary of r.
func (r *Result) Summary() *Summary {
	s := &Summary{Schema: r.Schema.Name, Version: r.Schema.Version}
	for _, t := range r.Types {
		ts := TypeSummary{
			Name:       t.Name,
			Kind:       t.Kind.String(),
			Members:    t.Members,
			EntityLike: t.EntityLike,
			Hashable:   t.Hashable,
		}
		switch t.Kind {
		case EnumType:
		case SelectType:
			ts.Shape = t.Shape.String()
		default:
			ts.Underlying = t.Decl.Underlying.String()
		}
		s.Types = append(s.Types, ts)
	}
	for _, e := range r.Entities {
		es := EntitySummary{
			Name:       e.Name,
			Abstract:   e.Abstract,
			Supertypes: names(e.Supertypes),
			Ancestors:  names(e.Ancestors),
			Cyclic:     e.Cyclic,
		}
		for _, a := range e.Attributes {
			as := AttributeSummary{
				Name:     a.Name,
				Type:     a.Type.String(),
				Optional: a.Optional,
				Owner:    a.Owner.Name,
				Derived:  a.Derived,
			}
			if a.Narrowed() {
				as.Declared = a.Declared.String()
			}
			es.Attributes = append(es.Attributes, as)
		}
		s.Entities = append(s.Entities, es)
	}
	for _, c := range r.Cycles {
		s.Cycles = append(s.Cycles, names(c))
	}
	return s
}

// WriteYAML writes the summary of r to w as YAML.
func (r *Result) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r.Summary()); err != nil {
		return err
	}
	return enc.Close()
}

func names(entities []*EntityInfo) []string {
	if len(entities) == 0 {
		return nil
	}
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.Name
	}
	return out
}
