package cases_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/J-F-Liu/iso-10303/internal/cases"
)

func TestCases(t *testing.T) {
	t.Parallel()

	// columns: input, snake, enum, camel, pascal, then camel and pascal
	// with naive splitting and no lower-casing
	tests := [][7]string{
		{""},
		{"foo", "foo", "FOO", "foo", "Foo", "foo", "Foo"},
		{"_foo", "foo", "FOO", "foo", "Foo", "Foo", "Foo"},
		{"foo_", "foo", "FOO", "foo", "Foo", "foo", "Foo"},
		{"foo_bar", "foo_bar", "FOO_BAR", "fooBar", "FooBar", "fooBar", "FooBar"},
		{"foo__bar", "foo_bar", "FOO_BAR", "fooBar", "FooBar", "fooBar", "FooBar"},
		{"FOO_BAR", "foo_bar", "FOO_BAR", "fooBar", "FooBar", "FOOBAR", "FOOBAR"},
		{"fooBar", "foo_bar", "FOO_BAR", "fooBar", "FooBar", "fooBar", "FooBar"},
		{"FOOBar", "foo_bar", "FOO_BAR", "fooBar", "FooBar", "FOOBar", "FOOBar"},
	}
	naive := func(c cases.Case) cases.Converter {
		return cases.Converter{Case: c, NaiveSplit: true, NoLowercase: true}
	}
	for _, test := range tests {
		t.Run(test[0], func(t *testing.T) {
			t.Parallel()
			in := test[0]
			assert.Equal(t, test[1], cases.Snake.Convert(in))
			assert.Equal(t, test[2], cases.Enum.Convert(in))
			assert.Equal(t, test[3], cases.Camel.Convert(in))
			assert.Equal(t, test[4], cases.Pascal.Convert(in))
			assert.Equal(t, test[5], naive(cases.Camel).Convert(in))
			assert.Equal(t, test[6], naive(cases.Pascal).Convert(in))
		})
	}
}

func TestExpressNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, pascal, camel, step, snake string
	}{
		{name: "person", pascal: "Person", camel: "person", step: "PERSON", snake: "person"},
		{name: "first_name", pascal: "FirstName", camel: "firstName", step: "FIRST_NAME", snake: "first_name"},
		{name: "ifc_2d_composite_curve", pascal: "Ifc2dCompositeCurve", camel: "ifc2dCompositeCurve", step: "IFC_2D_COMPOSITE_CURVE", snake: "ifc2d_composite_curve"},
		{name: "cartesian_point", pascal: "CartesianPoint", camel: "cartesianPoint", step: "CARTESIAN_POINT", snake: "cartesian_point"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.pascal, cases.Pascal.Convert(test.name))
			assert.Equal(t, test.camel, cases.Camel.Convert(test.name))
			assert.Equal(t, test.step, cases.Enum.Convert(test.name))
			// digits stick to the word before them when splitting Go names
			assert.Equal(t, test.snake, cases.Snake.Convert(test.pascal))
		})
	}
}
