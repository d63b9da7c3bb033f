// Package template provides a Handlebars template engine, an alternative
// syntax for format requests.
//
// The engine is fed the same name/value pairs the named formatter produces,
// so a placeholder {Name} in the named syntax is {{Name}} here.
//
// Example usage:
//
//	engine := template.NewEngine()
//
//	data := map[string]interface{}{
//	    "Name":   "World",
//	    "Amount": 1234.5,
//	}
//
//	result, err := engine.Render("Hi {{uppercase Name}}, due: {{fmt Amount \"N2\"}}", data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Output: Hi WORLD, due: 1,234.50
//
// Built-in helpers:
//   - uppercase, lowercase, trim - String case and whitespace
//   - default - Return default value if first arg is empty
//   - fmt - Apply a composite format specifier (N2, D3, X, ...)
//   - pad - Align to a width like {0,width}
//
// Double-stash output is HTML-escaped; use {{{Name}}} for raw text.
package template
