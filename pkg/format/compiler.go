package format

import (
	"strconv"
	"strings"
)

const (
	// NullValue is substituted for nil values and nil sequence elements
	NullValue = "(null)"

	// OriginalFormatKey names the trailing pseudo-pair carrying the raw template
	OriginalFormatKey = "{OriginalFormat}"

	// Format item syntax: { name[,alignment][:formatString] }
	formatDelimiters = ",:"
)

// runPick selects which brace of a run becomes the candidate
type runPick int

const (
	pickFirst runPick = iota
	pickLast
)

// Template is a compiled named template. It is immutable after Compile
// and safe for concurrent use.
type Template struct {
	original string
	format   string
	names    []string
}

// Compile rewrites the named placeholders of raw into positional indices.
//
// Each distinct name gets the next index in first-occurrence order; repeated
// names reuse their index. Alignment and format suffixes are kept verbatim.
// Malformed input is not rejected: an unmatched remainder is copied as-is and
// surfaces as an error only when the template is rendered.
func Compile(raw string) *Template {
	t := &Template{original: raw}

	var sb strings.Builder
	sb.Grow(len(raw))

	scanIndex := 0
	endIndex := len(raw)

	for scanIndex < endIndex {
		openBraceIndex := findBrace(raw, '{', scanIndex, endIndex, pickLast)
		closeBraceIndex := findBrace(raw, '}', openBraceIndex, endIndex, pickFirst)

		if closeBraceIndex == endIndex {
			sb.WriteString(raw[scanIndex:])
			break
		}

		delimiterIndex := indexAny(raw, formatDelimiters, openBraceIndex, closeBraceIndex)

		sb.WriteString(raw[scanIndex : openBraceIndex+1])
		sb.WriteString(strconv.Itoa(t.indexOf(raw[openBraceIndex+1 : delimiterIndex])))
		sb.WriteString(raw[delimiterIndex : closeBraceIndex+1])

		scanIndex = closeBraceIndex + 1
	}

	t.format = sb.String()
	return t
}

// indexOf returns the positional index of name, registering it if new
func (t *Template) indexOf(name string) int {
	for i, n := range t.names {
		if n == name {
			return i
		}
	}
	t.names = append(t.names, name)
	return len(t.names) - 1
}

// findBrace finds the next unescaped brace in s[start:end], or end.
//
// Braces escape by doubling, so a run of even length is literal text and
// scanning resumes after it. An odd run yields its candidate position, which
// is the first brace of the run for pickFirst and the last for pickLast.
// Example: {{prefix{{{Argument}}}suffix}}.
func findBrace(s string, brace byte, start, end int, pick runPick) int {
	braceIndex := end
	count := 0

	for i := start; i < end; i++ {
		if s[i] != brace {
			if count == 0 {
				continue
			}
			if count%2 == 1 {
				break
			}
			count = 0
			braceIndex = end
			continue
		}

		if pick == pickLast || count == 0 {
			braceIndex = i
		}
		count++
	}

	return braceIndex
}

// indexAny returns the first index of any of chars in s[start:end], or end
func indexAny(s, chars string, start, end int) int {
	if start >= end {
		return end
	}
	if i := strings.IndexAny(s[start:end], chars); i >= 0 {
		return start + i
	}
	return end
}

// OriginalFormat returns the raw template the Template was compiled from
func (t *Template) OriginalFormat() string {
	return t.original
}

// ValueNames returns the distinct placeholder names in first-occurrence order
func (t *Template) ValueNames() []string {
	names := make([]string, len(t.names))
	copy(names, t.names)
	return names
}

// Positional returns the rewritten template handed to the composite renderer
func (t *Template) Positional() string {
	return t.format
}

// String returns the raw template
func (t *Template) String() string {
	return t.original
}
