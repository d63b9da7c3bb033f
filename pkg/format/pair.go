package format

import "fmt"

// Pair associates a placeholder name with its value
type Pair struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Pair returns the name/value pair at index.
//
// Indices below len(ValueNames()) map to the placeholder names in order.
// The index one past the last name yields the {OriginalFormat} pair holding
// the raw template.
func (t *Template) Pair(values []any, index int) (Pair, error) {
	if index < 0 || index > len(t.names) {
		return Pair{}, fmt.Errorf("pair %d of %d: %w", index, len(t.names)+1, ErrIndexOutOfRange)
	}

	if index == len(t.names) {
		return Pair{Name: OriginalFormatKey, Value: t.original}, nil
	}

	if index >= len(values) {
		return Pair{}, fmt.Errorf("value %d of %d: %w", index, len(values), ErrIndexOutOfRange)
	}

	return Pair{Name: t.names[index], Value: values[index]}, nil
}

// Pairs returns every pair in index order, ending with {OriginalFormat}.
// Names without a supplied value are paired with nil.
func (t *Template) Pairs(values []any) []Pair {
	pairs := make([]Pair, 0, len(t.names)+1)
	for i, name := range t.names {
		var value any
		if i < len(values) {
			value = values[i]
		}
		pairs = append(pairs, Pair{Name: name, Value: value})
	}
	return append(pairs, Pair{Name: OriginalFormatKey, Value: t.original})
}

// Len returns the number of pairs Pair accepts, the placeholder names plus
// the {OriginalFormat} entry
func (t *Template) Len() int {
	return len(t.names) + 1
}
