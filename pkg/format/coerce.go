package format

import (
	"fmt"
	"reflect"
	"strings"
)

// Sequence is implemented by values that render as a comma-separated list
// of their elements. Strings never implement it.
type Sequence interface {
	Elements() []any
}

// List is a ready-made Sequence over arbitrary elements
type List []any

// Elements returns the list elements
func (l List) Elements() []any {
	return l
}

// Coerce converts a single argument into its renderable form.
//
// The variants are closed: null, text, sequence, scalar. Nil becomes
// "(null)", sequences flatten one level into their comma-separated elements
// and everything else is returned unchanged.
func Coerce(value any) any {
	switch v := value.(type) {
	case nil:
		return NullValue
	case string:
		return v
	case Sequence:
		if isNil(value) {
			return NullValue
		}
		return join(v.Elements())
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.Interface:
		if rv.IsNil() {
			return NullValue
		}
	case reflect.Slice:
		if rv.IsNil() {
			return NullValue
		}
		return joinReflect(rv)
	case reflect.Array:
		return joinReflect(rv)
	}

	return value
}

// coerceAll returns a coerced copy of values, leaving the input untouched
func coerceAll(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = Coerce(v)
	}
	return out
}

func join(elements []any) string {
	parts := make([]string, len(elements))
	for i, e := range elements {
		parts[i] = element(e)
	}
	return strings.Join(parts, ", ")
}

func joinReflect(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = element(rv.Index(i).Interface())
	}
	return strings.Join(parts, ", ")
}

func element(e any) string {
	if e == nil || isNil(e) {
		return NullValue
	}
	return fmt.Sprint(e)
}

func isNil(value any) bool {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
