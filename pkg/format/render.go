package format

import (
	"github.com/aescanero/dago-node-formatter/internal/composite"
)

// Render substitutes values by position into the compiled template.
//
// Values are coerced first: nil becomes "(null)" and sequences other than
// strings become their comma-separated elements. values itself is never
// modified. A nil values slice renders with an empty argument list.
func (t *Template) Render(values []any) (string, error) {
	return composite.Format(t.format, coerceAll(values)...)
}

// MustRender is like Render but panics on error
func (t *Template) MustRender(values []any) string {
	s, err := t.Render(values)
	if err != nil {
		panic(err)
	}
	return s
}
