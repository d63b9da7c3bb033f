package composite

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrFormat is returned for a composite format string that cannot be rendered
var ErrFormat = errors.New("input string was not in a correct format")

// maxIndex and maxAlignment bound the numeric parts of a format item
const (
	maxIndex     = 1_000_000
	maxAlignment = 1_000_000
)

// item is one parsed {index[,alignment][:formatString]} token
type item struct {
	index     int
	alignment int
	spec      string
}

// Format renders format, substituting args by position.
//
// Literal braces are written doubled. Any syntax error, an index outside args
// or an invalid format specifier yields an error wrapping ErrFormat.
func Format(format string, args ...any) (string, error) {
	var sb strings.Builder
	sb.Grow(len(format) + 8*len(args))

	pos := 0
	n := len(format)

	for pos < n {
		ch := format[pos]

		switch ch {
		case '}':
			if pos+1 < n && format[pos+1] == '}' {
				sb.WriteByte('}')
				pos += 2
				continue
			}
			return "", fmt.Errorf("unexpected '}' at offset %d: %w", pos, ErrFormat)

		case '{':
			if pos+1 < n && format[pos+1] == '{' {
				sb.WriteByte('{')
				pos += 2
				continue
			}

			it, next, err := parseItem(format, pos+1)
			if err != nil {
				return "", err
			}
			if it.index >= len(args) {
				return "", fmt.Errorf("index %d must be less than the size of the argument list (%d): %w",
					it.index, len(args), ErrFormat)
			}

			text, err := FormatValue(args[it.index], it.spec)
			if err != nil {
				return "", fmt.Errorf("item {%d}: %w", it.index, err)
			}
			writeAligned(&sb, text, it.alignment)
			pos = next

		default:
			// copy the literal run up to the next brace
			end := strings.IndexAny(format[pos:], "{}")
			if end < 0 {
				sb.WriteString(format[pos:])
				pos = n
				continue
			}
			sb.WriteString(format[pos : pos+end])
			pos += end
		}
	}

	return sb.String(), nil
}

// parseItem parses a format item starting just after its opening brace and
// returns the offset just past its closing brace
func parseItem(format string, pos int) (item, int, error) {
	var it item
	n := len(format)

	unterminated := func() (item, int, error) {
		return item{}, 0, fmt.Errorf("unterminated format item: %w", ErrFormat)
	}

	if pos >= n || !isDigit(format[pos]) {
		return item{}, 0, fmt.Errorf("format item must start with an index: %w", ErrFormat)
	}
	for pos < n && isDigit(format[pos]) {
		it.index = it.index*10 + int(format[pos]-'0')
		if it.index >= maxIndex {
			return item{}, 0, fmt.Errorf("index too large: %w", ErrFormat)
		}
		pos++
	}
	pos = skipSpaces(format, pos)

	if pos < n && format[pos] == ',' {
		pos = skipSpaces(format, pos+1)
		negative := false
		if pos < n && format[pos] == '-' {
			negative = true
			pos++
		}
		if pos >= n || !isDigit(format[pos]) {
			return item{}, 0, fmt.Errorf("invalid alignment: %w", ErrFormat)
		}
		width := 0
		for pos < n && isDigit(format[pos]) {
			width = width*10 + int(format[pos]-'0')
			if width >= maxAlignment {
				return item{}, 0, fmt.Errorf("alignment too large: %w", ErrFormat)
			}
			pos++
		}
		if negative {
			width = -width
		}
		it.alignment = width
		pos = skipSpaces(format, pos)
	}

	if pos >= n {
		return unterminated()
	}

	if format[pos] == ':' {
		var spec strings.Builder
		pos++
		for {
			if pos >= n {
				return unterminated()
			}
			c := format[pos]
			if c == '}' {
				if pos+1 < n && format[pos+1] == '}' {
					spec.WriteByte('}')
					pos += 2
					continue
				}
				break
			}
			if c == '{' {
				if pos+1 < n && format[pos+1] == '{' {
					spec.WriteByte('{')
					pos += 2
					continue
				}
				return item{}, 0, fmt.Errorf("unexpected '{' in format string: %w", ErrFormat)
			}
			spec.WriteByte(c)
			pos++
		}
		it.spec = spec.String()
	}

	if format[pos] != '}' {
		return item{}, 0, fmt.Errorf("unexpected %q in format item: %w", format[pos], ErrFormat)
	}

	return it, pos + 1, nil
}

// writeAligned pads text with spaces to |alignment| runes, on the left for
// positive alignment and on the right for negative
func writeAligned(sb *strings.Builder, text string, alignment int) {
	width := alignment
	if width < 0 {
		width = -width
	}
	pad := width - utf8.RuneCountInString(text)
	if pad <= 0 {
		sb.WriteString(text)
		return
	}
	if alignment > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
		sb.WriteString(text)
		return
	}
	sb.WriteString(text)
	sb.WriteString(strings.Repeat(" ", pad))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func skipSpaces(s string, pos int) int {
	for pos < len(s) && s[pos] == ' ' {
		pos++
	}
	return pos
}
