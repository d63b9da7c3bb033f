package format

import (
	"errors"

	"github.com/aescanero/dago-node-formatter/internal/composite"
)

var (
	// ErrIndexOutOfRange is returned by Pair for an index outside
	// [0, len(ValueNames())] or past the end of the supplied values
	ErrIndexOutOfRange = errors.New("index was outside the bounds of the array")

	// ErrFormat is returned by Render when the rewritten template cannot be
	// rendered, typically because the raw template had unbalanced braces
	ErrFormat = composite.ErrFormat
)

// Formattable is implemented by values that render their own format string
type Formattable = composite.Formattable
