package cases_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/J-F-Liu/iso-10303/internal/cases"
)

func TestWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		str  string
		want []string
	}{
		{str: ""},
		{str: "_"},
		{str: "__"},

		{str: "foo", want: []string{"foo"}},
		{str: "_foo", want: []string{"foo"}},
		{str: "foo_", want: []string{"foo"}},
		{str: "foo_bar", want: []string{"foo", "bar"}},
		{str: "foo__bar", want: []string{"foo", "bar"}},

		{str: "fooBar", want: []string{"foo", "Bar"}},
		{str: "foo_Bar", want: []string{"foo", "Bar"}},
		{str: "FOOBar", want: []string{"FOO", "Bar"}},
		{str: "FooX", want: []string{"Foo", "X"}},
		{str: "FOO", want: []string{"FOO"}},
		{str: "FooBARBaz", want: []string{"FooBAR", "Baz"}},
		{str: "ifc_2d_point", want: []string{"ifc", "2d", "point"}},
		{str: "Ifc2dPoint", want: []string{"Ifc2d", "Point"}},
	}

	for _, test := range tests {
		t.Run(test.str, func(t *testing.T) {
			t.Parallel()
			got := slices.Collect(cases.Words(test.str))
			assert.Equal(t, test.want, got)
		})
	}
}
