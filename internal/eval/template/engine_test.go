package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Render(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name     string
		template string
		data     map[string]interface{}
		want     string
	}{
		{
			name:     "plain variable",
			template: "Hello {{Name}}",
			data:     map[string]interface{}{"Name": "World"},
			want:     "Hello World",
		},
		{
			name:     "uppercase helper",
			template: "{{uppercase Name}}",
			data:     map[string]interface{}{"Name": "ann"},
			want:     "ANN",
		},
		{
			name:     "default helper",
			template: "{{default Name \"anonymous\"}}",
			data:     map[string]interface{}{"Name": ""},
			want:     "anonymous",
		},
		{
			name:     "fmt helper",
			template: "{{fmt Amount \"N2\"}}",
			data:     map[string]interface{}{"Amount": 1234.5},
			want:     "1,234.50",
		},
		{
			name:     "pad helper",
			template: "[{{pad Code 5}}]",
			data:     map[string]interface{}{"Code": "ab"},
			want:     "[   ab]",
		},
		{
			name:     "triple stash keeps text raw",
			template: "{{{Text}}}",
			data:     map[string]interface{}{"Text": "a & b"},
			want:     "a & b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Render(tt.template, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_MultipleInstances(t *testing.T) {
	first := NewEngine()
	second := NewEngine()

	out, err := second.Render("{{lowercase X}}", map[string]interface{}{"X": "Y"})
	require.NoError(t, err)
	assert.Equal(t, "y", out)
	assert.NotSame(t, first, second)
}

func TestEngine_Cache(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Render("{{A}}", map[string]interface{}{"A": 1})
	require.NoError(t, err)
	_, err = engine.Render("{{A}}", map[string]interface{}{"A": 2})
	require.NoError(t, err)
	assert.Len(t, engine.cache, 1)
}

func TestEngine_Invalid(t *testing.T) {
	engine := NewEngine()

	assert.Error(t, engine.ValidateTemplate("{{#if x}}unclosed"))
	_, err := engine.Render("{{#if x}}unclosed", nil)
	assert.Error(t, err)

	assert.NoError(t, engine.ValidateTemplate("{{A}}"))
}
