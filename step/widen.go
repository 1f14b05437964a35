package step

import "golang.org/x/exp/constraints"

// Numeric is the set of types numeric attributes are generated as.
type Numeric interface {
	constraints.Integer | constraints.Float
}

// Widen converts a narrowed numeric attribute, such as an INTEGER
// redeclaring a NUMBER, to the type its supertype declares.
func Widen[To, From Numeric](v From) To {
	return To(v)
}

// WidenOptional is Widen for optional attributes.
func WidenOptional[To, From Numeric](v *From) *To {
	if v == nil {
		return nil
	}
	w := To(*v)
	return &w
}

// Ptr returns a pointer to v. Generated accessors use it where a required
// attribute redeclares an optional one.
func Ptr[T any](v T) *T {
	return &v
}
