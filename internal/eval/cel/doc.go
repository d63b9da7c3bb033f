// Package cel provides a CEL (Common Expression Language) evaluator for
// choosing between template variants.
//
// Conditions see two variables: values, a map from placeholder name to its
// bound value, and template, the raw template text.
//
// Example usage:
//
//	evaluator := cel.NewEvaluator()
//
//	vars := map[string]interface{}{
//	    "values":   map[string]interface{}{"Count": int64(3)},
//	    "template": "You have {Count} items",
//	}
//
//	matched, err := evaluator.EvaluateBool(ctx, "values.Count > 1", vars)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// matched == true
//
// Supported operations:
//   - Comparisons: ==, !=, <, <=, >, >=
//   - Boolean logic: &&, ||, !
//   - String operations: contains, startsWith, endsWith, matches
//   - List operations: in, size
//   - Map access: values.Name, values["Name"], has(values.Name)
package cel
