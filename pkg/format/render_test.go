package format

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct{ X, Y int }

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		values []any
		want   string
	}{
		{
			name:   "named placeholders",
			raw:    "Hello {Name}, you have {Count} items",
			values: []any{"World", 3},
			want:   "Hello World, you have 3 items",
		},
		{
			name:   "repeated name",
			raw:    "{A} and {A}",
			values: []any{"x"},
			want:   "x and x",
		},
		{
			name:   "no placeholders ignores values",
			raw:    "nothing to see",
			values: []any{"ignored", 42},
			want:   "nothing to see",
		},
		{
			name:   "escaped braces",
			raw:    "{{literal}}",
			values: nil,
			want:   "{literal}",
		},
		{
			name:   "escaped braces around value",
			raw:    "{{{Name}}}",
			values: []any{"World"},
			want:   "{World}",
		},
		{
			name:   "nil value",
			raw:    "value={V}",
			values: []any{nil},
			want:   "value=(null)",
		},
		{
			name:   "sequence with nil element",
			raw:    "{Items}",
			values: []any{[]any{1, nil, 3}},
			want:   "1, (null), 3",
		},
		{
			name:   "typed slice",
			raw:    "{Tags}",
			values: []any{[]string{"a", "b"}},
			want:   "a, b",
		},
		{
			name:   "array",
			raw:    "{Grid}",
			values: []any{[3]int{7, 8, 9}},
			want:   "7, 8, 9",
		},
		{
			name:   "list sequence",
			raw:    "{L}",
			values: []any{List{"x", 2.5, nil}},
			want:   "x, 2.5, (null)",
		},
		{
			name:   "one level of flattening",
			raw:    "{Nested}",
			values: []any{[]any{[]int{1, 2}, "z"}},
			want:   "[1 2], z",
		},
		{
			name:   "empty sequence",
			raw:    "[{S}]",
			values: []any{[]int{}},
			want:   "[]",
		},
		{
			name:   "nil slice is null",
			raw:    "{S}",
			values: []any{[]int(nil)},
			want:   "(null)",
		},
		{
			name:   "nil pointer is null",
			raw:    "{P}",
			values: []any{(*point)(nil)},
			want:   "(null)",
		},
		{
			name:   "struct scalar",
			raw:    "{P}",
			values: []any{point{1, 2}},
			want:   "{1 2}",
		},
		{
			name:   "bytes join like any slice",
			raw:    "{B}",
			values: []any{[]byte("raw")},
			want:   "114, 97, 119",
		},
		{
			name:   "alignment and format",
			raw:    "[{Name,-6}|{Amount,10:N2}]",
			values: []any{"ab", 1234.5},
			want:   "[ab    |  1,234.50]",
		},
		{
			name:   "alignment applies to joined sequence",
			raw:    "[{S,8}]",
			values: []any{[]int{1, 2}},
			want:   "[    1, 2]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.raw).Render(tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_DoesNotMutateValues(t *testing.T) {
	seq := []any{1, nil, 3}
	values := []any{nil, seq}

	out, err := Compile("{A} {B}").Render(values)
	require.NoError(t, err)
	assert.Equal(t, "(null) 1, (null), 3", out)

	assert.Nil(t, values[0])
	assert.Equal(t, seq, values[1])
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		values []any
	}{
		{name: "dangling open brace", raw: "Hello {Name", values: []any{"x"}},
		{name: "lone closing brace", raw: "a } b", values: nil},
		{name: "missing value", raw: "{A} {B}", values: []any{"only one"}},
		{name: "nil values with placeholder", raw: "{A}", values: nil},
		{name: "bad numeric specifier", raw: "{A:Q}", values: []any{12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.raw).Render(tt.values)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFormat))
		})
	}
}

func TestRender_Concurrent(t *testing.T) {
	tmpl := Compile("{Worker}:{Seq}")
	values := []any{"w", []int{1, 2}}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := tmpl.Render(values)
			assert.NoError(t, err)
			assert.Equal(t, "w:1, 2", out)
		}()
	}
	wg.Wait()
}

func TestMustRender_Panics(t *testing.T) {
	assert.Panics(t, func() {
		Compile("{A}").MustRender(nil)
	})
	assert.Equal(t, "x", Compile("{A}").MustRender([]any{"x"}))
}

func TestInterpolate(t *testing.T) {
	out, err := Interpolate("{Greeting}, {Name}!", "Hi", "Ann")
	require.NoError(t, err)
	assert.Equal(t, "Hi, Ann!", out)

	out, err = Interpolate("no values")
	require.NoError(t, err)
	assert.Equal(t, "no values", out)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("Hello {Name,-5:X}"))
	assert.NoError(t, Validate("{{escaped}}"))

	err := Validate("Hello {Name")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormat)

	assert.ErrorIs(t, Validate("stray }"), ErrFormat)
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, NullValue, Coerce(nil))
	assert.Equal(t, "text", Coerce("text"))
	assert.Equal(t, 12, Coerce(12))
	assert.Equal(t, "a, (null)", Coerce([]any{"a", nil}))
	assert.Equal(t, NullValue, Coerce(List(nil)))
	assert.Equal(t, map[string]int{"k": 1}, Coerce(map[string]int{"k": 1}))
}
