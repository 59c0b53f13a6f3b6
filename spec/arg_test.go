package spec_test

import (
	"reflect"
	"testing"

	"github.com/deep-rent/cling/convert"
	"github.com/deep-rent/cling/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOption_Defaults(t *testing.T) {
	type test struct {
		name      string
		attrs     []spec.Attr
		wantType  reflect.Kind
		wantArity string
		wantFlag  bool
		wantMulti bool
	}
	tests := []test{
		{
			name:      "bool by default",
			wantType:  reflect.Bool,
			wantArity: "0",
			wantFlag:  true,
		},
		{
			name:      "scalar string",
			attrs:     []spec.Attr{spec.WithType(convert.TypeOf[string]())},
			wantType:  reflect.String,
			wantArity: "1",
		},
		{
			name:      "slice accumulates",
			attrs:     []spec.Attr{spec.WithType(convert.TypeOf[[]int]())},
			wantType:  reflect.Slice,
			wantArity: "1..*",
			wantMulti: true,
		},
		{
			name: "explicit arity wins",
			attrs: []spec.Attr{
				spec.WithType(convert.TypeOf[string]()),
				spec.WithArity("1..2"),
			},
			wantType:  reflect.String,
			wantArity: "1..2",
			wantMulti: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := spec.NewOption([]string{"-o", "--opt"}, tc.attrs...)
			assert.Equal(t, tc.wantType, o.Type().Kind())
			assert.Equal(t, tc.wantArity, o.Arity().String())
			assert.Equal(t, tc.wantFlag, o.Flag())
			assert.Equal(t, tc.wantMulti, o.Multi())
		})
	}
}

func TestNewOption_Names(t *testing.T) {
	o := spec.NewOption([]string{"-v", "--verbose"})
	assert.Equal(t, "--verbose", o.Name())
	assert.True(t, o.Matches("-v"))
	assert.True(t, o.Matches("--verbose"))
	assert.False(t, o.Matches("--loud"))
}

func TestNewOption_InvalidNames(t *testing.T) {
	tests := []struct {
		name  string
		names []string
	}{
		{name: "empty", names: nil},
		{name: "missing prefix", names: []string{"verbose"}},
		{name: "bare dash", names: []string{"-"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := spec.New("test")
			require.NoError(t, cmd.AddOption(spec.NewOption(tc.names)))
			assert.Error(t, cmd.Validate())
		})
	}
}

func TestNewPositional_Defaults(t *testing.T) {
	p := spec.NewPositional("FILE")
	assert.Equal(t, reflect.String, p.Type().Kind())
	assert.Equal(t, "1", p.Arity().String())
	assert.Equal(t, "0..*", p.Index().String())
	assert.True(t, p.Capacity().Unbounded())
}

func TestPositional_Capacity(t *testing.T) {
	p := spec.NewPositional("PAIR",
		spec.WithIndex("1..2"),
		spec.WithArity("2"),
	)
	c := p.Capacity()
	assert.Equal(t, 4, c.Max)
}

func TestArg_ElemTypes(t *testing.T) {
	type test struct {
		name string
		typ  reflect.Type
		want []reflect.Type
	}
	tests := []test{
		{
			name: "scalar",
			typ:  convert.TypeOf[int](),
			want: []reflect.Type{convert.TypeOf[int]()},
		},
		{
			name: "slice",
			typ:  convert.TypeOf[[]int](),
			want: []reflect.Type{convert.TypeOf[int]()},
		},
		{
			name: "bytes stay scalar",
			typ:  convert.TypeOf[[]byte](),
			want: []reflect.Type{convert.TypeOf[[]byte]()},
		},
		{
			name: "map",
			typ:  convert.TypeOf[map[string]int](),
			want: []reflect.Type{
				convert.TypeOf[string](),
				convert.TypeOf[int](),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := spec.NewOption([]string{"-o"}, spec.WithType(tc.typ))
			assert.Equal(t, tc.want, o.ElemTypes())
		})
	}
}

func TestArg_CaptureAndStore(t *testing.T) {
	o := spec.NewOption([]string{"--nums"},
		spec.WithType(convert.TypeOf[[]int]()),
	)
	o.Capture([]string{"1", "2"}, []string{"1", "2"}, []any{1, 2})
	o.Capture([]string{"3"}, []string{"3"}, []any{3})
	require.NoError(t, o.Store())

	assert.Equal(t, 2, o.Occurrences())
	assert.Equal(t, []string{"1", "2", "3"}, o.StringValues())
	v, err := o.Value()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, v)
}

func TestArg_StoreMap(t *testing.T) {
	o := spec.NewOption([]string{"-D"},
		spec.WithType(convert.TypeOf[map[string]int]()),
	)
	o.Capture(
		[]string{"a=1"}, []string{"a=1"},
		[]any{spec.Pair{Key: "a", Value: 1}},
	)
	o.Capture(
		[]string{"b=2"}, []string{"b=2"},
		[]any{spec.Pair{Key: "b", Value: 2}},
	)
	require.NoError(t, o.Store())

	v, err := o.Value()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, v)
}

func TestArg_Reset(t *testing.T) {
	o := spec.NewOption([]string{"--level"},
		spec.WithType(convert.TypeOf[int]()),
		spec.WithInitial(3),
	)
	o.Capture([]string{"7"}, []string{"7"}, []any{7})
	require.NoError(t, o.Store())

	require.NoError(t, o.Reset())
	assert.Zero(t, o.Occurrences())
	assert.Empty(t, o.StringValues())
	v, err := o.Value()
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestArg_ResetImplicitInitial(t *testing.T) {
	target := "fallback"
	g := getter(func() (any, error) { return target, nil })
	s := setter(func(v any) error { target = v.(string); return nil })

	// Without WithInitial, Reset restores the value bound at construction.
	o := spec.NewOption([]string{"--name"},
		spec.WithType(convert.TypeOf[string]()),
		spec.WithBinding(g, s),
	)
	o.Capture([]string{"x"}, []string{"x"}, []any{"x"})
	require.NoError(t, o.Store())
	assert.Equal(t, "x", target)

	require.NoError(t, o.Reset())
	assert.Equal(t, "fallback", target)
}

func TestArg_ExternalBinding(t *testing.T) {
	var target string
	g := getter(func() (any, error) { return target, nil })
	s := setter(func(v any) error { target = v.(string); return nil })

	o := spec.NewOption([]string{"--name"},
		spec.WithType(convert.TypeOf[string]()),
		spec.WithBinding(g, s),
	)
	o.Capture([]string{"gopher"}, []string{"gopher"}, []any{"gopher"})
	require.NoError(t, o.Store())
	assert.Equal(t, "gopher", target)
}

type getter func() (any, error)

func (g getter) Get() (any, error) { return g() }

type setter func(v any) error

func (s setter) Set(v any) error { return s(v) }
