package format

import "fmt"

// Interpolate compiles raw and renders it with values in one step.
// The compiled template is not cached; callers formatting the same
// template repeatedly should Compile once or use a Cache.
func Interpolate(raw string, values ...any) (string, error) {
	return Compile(raw).Render(values)
}

// Validate reports whether raw renders once every placeholder has a value
func Validate(raw string) error {
	t := Compile(raw)
	if _, err := t.Render(make([]any, len(t.names))); err != nil {
		return fmt.Errorf("invalid template %q: %w", raw, err)
	}
	return nil
}
