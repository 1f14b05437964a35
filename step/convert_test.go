package step

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		conv func() (any, error)
		want any
		err  string
	}{
		{name: "integer", conv: wrap(AsInteger, Integer(3)), want: int64(3)},
		{name: "integer from real", conv: wrap(AsInteger, Real(2.5)), err: "expected integer, found real 2.5"},
		{name: "real from integer", conv: wrap(AsReal, Integer(2)), want: float64(2)},
		{name: "number", conv: wrap(AsNumber, Real(0.5)), want: 0.5},
		{name: "number from string", conv: wrap(AsNumber, String("x")), err: "expected number, found string"},
		{name: "string", conv: wrap(AsString, String("x")), want: "x"},
		{name: "string from null", conv: wrap(AsString, Null{}), err: "expected string, found $"},
		{name: "binary", conv: wrap(AsBinary, Binary("0F")), want: Binary("0F")},
		{name: "boolean", conv: wrap(AsBoolean, Enum("T")), want: true},
		{name: "boolean false", conv: wrap(AsBoolean, Enum("f")), want: false},
		{name: "boolean unknown", conv: wrap(AsBoolean, Enum("U")), err: "expected boolean, found enumeration .U."},
		{name: "logical", conv: wrap(AsLogical, Enum("U")), want: LogicalUnknown},
		{name: "logical true", conv: wrap(AsLogical, Enum("T")), want: LogicalTrue},
		{name: "ref", conv: wrap(AsRef, EntityRef(4)), want: EntityRef(4)},
		{name: "ref from integer", conv: wrap(AsRef, Integer(4)), err: "expected entity reference, found integer 4"},
		{name: "enum", conv: wrap(AsEnum, Enum("blonde")), want: "BLONDE"},
		{name: "enum from typed", conv: wrap(AsEnum, &TypedParameter{TypeName: "X"}), err: "expected enumeration, found typed parameter X"},
		{
			name: "required null",
			conv: func() (any, error) { return Required(Null{}, AsString) },
			want: "",
		},
		{
			name: "required omitted",
			conv: func() (any, error) { return Required(Omitted{}, AsInteger) },
			want: int64(0),
		},
		{
			name: "aggregate",
			conv: func() (any, error) { return Aggregate(List{Integer(1), Null{}, Integer(3)}, AsInteger) },
			want: []int64{1, 0, 3},
		},
		{
			name: "aggregate element error",
			conv: func() (any, error) { return Aggregate(List{Integer(1), String("2")}, AsInteger) },
			err:  "element 1: expected integer, found string",
		},
		{
			name: "aggregate of non-list",
			conv: func() (any, error) { return Aggregate(Integer(1), AsInteger) },
			err:  "expected list, found integer 1",
		},
		{
			name: "nested aggregate",
			conv: func() (any, error) {
				return Aggregate(List{List{Real(1), Real(2)}, List{}}, func(p Parameter) ([]float64, error) {
					return Aggregate(p, AsReal)
				})
			},
			want: [][]float64{{1, 2}, {}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := tc.conv()
			if tc.err != "" {
				require.Error(t, err)
				assert.Equal(t, tc.err, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func wrap[T any](conv func(Parameter) (T, error), p Parameter) func() (any, error) {
	return func() (any, error) {
		return conv(p)
	}
}

func TestOptional(t *testing.T) {
	t.Parallel()

	v, err := Optional(Omitted{}, AsRef)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = Optional(Null{}, AsRef)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = Optional(EntityRef(9), AsRef)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, EntityRef(9), *v)

	_, err = Optional(String("x"), AsRef)
	var mismatchErr *MismatchError
	require.ErrorAs(t, err, &mismatchErr)
	assert.Equal(t, "entity reference", mismatchErr.Want)
	assert.Equal(t, String("x"), mismatchErr.Got)
}

func TestParamAndAttrError(t *testing.T) {
	t.Parallel()

	params := []Parameter{String("A")}
	assert.Equal(t, String("A"), Param(params, 0))
	assert.Equal(t, Omitted{}, Param(params, 1))
	assert.True(t, IsNull(Param(params, 5)))
	assert.True(t, IsNull(nil))
	assert.False(t, IsNull(Integer(0)))

	_, err := AsRef(Integer(5))
	err = AttrError(2, "wife", err)
	assert.Equal(t, "attribute 2 (wife): expected entity reference, found integer 5", err.Error())
	var mismatchErr *MismatchError
	assert.True(t, errors.As(err, &mismatchErr))
}

func TestUnwrap(t *testing.T) {
	t.Parallel()

	measure := &TypedParameter{TypeName: "LENGTH_MEASURE", Parameters: []Parameter{Real(2.5)}}
	assert.Equal(t, Real(2.5), Unwrap(measure))
	assert.Equal(t, Integer(1), Unwrap(Integer(1)))
	pair := &TypedParameter{TypeName: "PAIR", Parameters: []Parameter{Integer(1), Integer(2)}}
	assert.Same(t, pair, Unwrap(pair))
}

func TestDedup(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []EntityRef{1, 2, 3}, Dedup([]EntityRef{1, 2, 1, 3, 2}))
	assert.Empty(t, Dedup([]string(nil)))

	type pair struct{ a, b []int }
	eq := func(x, y pair) bool { return len(x.a) == len(y.a) && len(x.b) == len(y.b) }
	in := []pair{{a: []int{1}}, {a: []int{2}}, {b: []int{1}}}
	assert.Len(t, DedupFunc(in, eq), 2)
}

func TestSet(t *testing.T) {
	t.Parallel()

	refs, err := Set(List{EntityRef(4), EntityRef(2), EntityRef(4)}, AsRef)
	require.NoError(t, err)
	assert.Equal(t, []EntityRef{4, 2}, refs)

	_, err = Set(List{Integer(1), String("x")}, AsInteger)
	require.EqualError(t, err, "element 1: expected integer, found string")

	_, err = Set(Integer(1), AsInteger)
	require.EqualError(t, err, "expected list, found integer 1")

	sameLength := func(a, b string) bool { return len(a) == len(b) }
	strs, err := SetFunc(List{String("ab"), String("cd"), String("e")}, AsString, sameLength)
	require.NoError(t, err)
	assert.Equal(t, []string{"ab", "e"}, strs)
}

func TestWiden(t *testing.T) {
	t.Parallel()

	type count int32
	type measure float64

	assert.Equal(t, float64(3), Widen[float64](int64(3)))
	assert.Equal(t, measure(2), Widen[measure](count(2)))
	assert.Nil(t, WidenOptional[float64, int64](nil))
	n := int64(7)
	assert.Equal(t, float64(7), *WidenOptional[float64](&n))
	assert.Equal(t, "x", *Ptr("x"))
}

func TestLogicalString(t *testing.T) {
	t.Parallel()

	var l Logical
	assert.Equal(t, "UNKNOWN", l.String())
	assert.Equal(t, "TRUE", LogicalTrue.String())
	assert.Equal(t, "FALSE", LogicalFalse.String())
}
