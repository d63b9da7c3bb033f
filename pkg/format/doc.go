// Package format renders templates with named placeholders.
//
// A template mixes literal text with placeholders of the form
// {name[,alignment][:formatString]}. Literal braces are written doubled.
// Compile rewrites each distinct name into a positional index, in order of
// first occurrence, so values are supplied positionally:
//
//	tmpl := format.Compile("Hello {Name}, you have {Count,3} items")
//	out, err := tmpl.Render([]any{"World", 3})
//	// out: "Hello World, you have   3 items"
//	// tmpl.ValueNames(): [Name Count]
//
// Values are coerced before rendering: nil renders as "(null)" and slices,
// arrays and Sequence values render as their comma-separated elements.
// Strings are never treated as sequences.
//
// Pair and Pairs expose each placeholder name with its value for structured
// consumers. The index one past the last name returns the {OriginalFormat}
// pair carrying the raw template:
//
//	p, _ := tmpl.Pair(values, len(tmpl.ValueNames()))
//	// p.Name == "{OriginalFormat}"
//
// Compiled templates are immutable and safe for concurrent use. Cache
// memoizes compilation for templates that are rendered repeatedly.
package format
