package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		positional string
		names      []string
	}{
		{
			name:       "no placeholders",
			raw:        "plain text",
			positional: "plain text",
			names:      []string{},
		},
		{
			name:       "empty template",
			raw:        "",
			positional: "",
			names:      []string{},
		},
		{
			name:       "two names",
			raw:        "Hello {Name}, you have {Count} items",
			positional: "Hello {0}, you have {1} items",
			names:      []string{"Name", "Count"},
		},
		{
			name:       "repeated name reuses index",
			raw:        "{A} and {B} and {A}",
			positional: "{0} and {1} and {0}",
			names:      []string{"A", "B"},
		},
		{
			name:       "alignment and format suffix kept",
			raw:        "{Amount,10:N2} {When:yyyy}",
			positional: "{0,10:N2} {1:yyyy}",
			names:      []string{"Amount", "When"},
		},
		{
			name:       "escaped braces only",
			raw:        "{{literal}}",
			positional: "{{literal}}",
			names:      []string{},
		},
		{
			name:       "escaped braces around placeholder",
			raw:        "{{{Name}}}",
			positional: "{{{0}}}",
			names:      []string{"Name"},
		},
		{
			name:       "escaped prefix and suffix",
			raw:        "{{prefix{{{Argument}}}suffix}}",
			positional: "{{prefix{{{0}}}suffix}}",
			names:      []string{"Argument"},
		},
		{
			name:       "missing closing brace passes through",
			raw:        "Hello {Name",
			positional: "Hello {Name",
			names:      []string{},
		},
		{
			name:       "remainder after last placeholder passes through",
			raw:        "{A} then {B",
			positional: "{0} then {B",
			names:      []string{"A"},
		},
		{
			name:       "empty name",
			raw:        "x{}y",
			positional: "x{0}y",
			names:      []string{""},
		},
		{
			name:       "delimiter right after brace",
			raw:        "{:D3}",
			positional: "{0:D3}",
			names:      []string{""},
		},
		{
			name:       "multibyte literal text",
			raw:        "héllo {Wörld} ✓",
			positional: "héllo {0} ✓",
			names:      []string{"Wörld"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := Compile(tt.raw)
			assert.Equal(t, tt.positional, tmpl.Positional())
			assert.Equal(t, tt.names, tmpl.ValueNames())
			assert.Equal(t, tt.raw, tmpl.OriginalFormat())
		})
	}
}

func TestCompile_Idempotent(t *testing.T) {
	raw := "{B} {A,-4} {B:X} {{x}} {C}"

	first := Compile(raw)
	second := Compile(raw)

	assert.Equal(t, first.Positional(), second.Positional())
	assert.Equal(t, first.ValueNames(), second.ValueNames())
	assert.Equal(t, []string{"B", "A", "C"}, first.ValueNames())
}

func TestValueNames_ReturnsCopy(t *testing.T) {
	tmpl := Compile("{A} {B}")

	names := tmpl.ValueNames()
	names[0] = "changed"

	assert.Equal(t, []string{"A", "B"}, tmpl.ValueNames())
}

func TestFindBrace(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		brace byte
		pick  runPick
		start int
		want  int
	}{
		{name: "single open", s: "ab{c", brace: '{', pick: pickLast, want: 2},
		{name: "no brace", s: "abc", brace: '{', pick: pickLast, want: 3},
		{name: "escaped open skipped", s: "{{a{b", brace: '{', pick: pickLast, want: 3},
		{name: "odd run picks last open", s: "{{{a", brace: '{', pick: pickLast, want: 2},
		{name: "odd run picks first close", s: "a}}}b", brace: '}', pick: pickFirst, want: 1},
		{name: "escaped close skipped", s: "a}}b}c", brace: '}', pick: pickFirst, want: 4},
		{name: "run at end keeps candidate", s: "a}}}", brace: '}', pick: pickFirst, want: 1},
		{name: "start offset respected", s: "}a}", brace: '}', pick: pickFirst, start: 1, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findBrace(tt.s, tt.brace, tt.start, len(tt.s), tt.pick))
		})
	}
}
