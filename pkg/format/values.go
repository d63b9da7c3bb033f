package format

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Values binds a compiled template to one set of arguments. It exposes the
// bound pairs for structured consumers and renders lazily.
type Values struct {
	tmpl   *Template
	values []any
}

// Bind pairs t with values
func Bind(t *Template, values ...any) Values {
	return Values{tmpl: t, values: values}
}

// Template returns the bound template
func (v Values) Template() *Template {
	return v.tmpl
}

// Len returns the number of pairs including {OriginalFormat}
func (v Values) Len() int {
	return v.tmpl.Len()
}

// At returns the pair at index
func (v Values) At(index int) (Pair, error) {
	return v.tmpl.Pair(v.values, index)
}

// Pairs returns all pairs ending with {OriginalFormat}
func (v Values) Pairs() []Pair {
	return v.tmpl.Pairs(v.values)
}

// Map returns the pairs keyed by name
func (v Values) Map() map[string]any {
	pairs := v.Pairs()
	m := make(map[string]any, len(pairs))
	for _, p := range pairs {
		m[p.Name] = p.Value
	}
	return m
}

// Render renders the bound values
func (v Values) Render() (string, error) {
	return v.tmpl.Render(v.values)
}

// String renders the bound values, falling back to the raw template when
// rendering fails
func (v Values) String() string {
	s, err := v.Render()
	if err != nil {
		return v.tmpl.original
	}
	return s
}

// MarshalLogObject implements zapcore.ObjectMarshaler, emitting one field
// per pair
func (v Values) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for _, p := range v.Pairs() {
		switch val := p.Value.(type) {
		case nil:
			enc.AddString(p.Name, NullValue)
		case string:
			enc.AddString(p.Name, val)
		default:
			if err := enc.AddReflected(p.Name, val); err != nil {
				enc.AddString(p.Name, fmt.Sprint(val))
			}
		}
	}
	return nil
}
