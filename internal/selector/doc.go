// Package selector chooses which template a format request renders.
//
// A request carries a base template and optional variants, each guarded by
// a CEL condition over the bound values. Variants are tried in order; the
// first condition that evaluates to true wins. Conditions that fail to
// evaluate or do not return a boolean are skipped.
//
// Example:
//
//	sel := selector.NewSelector(true, logger)
//	selection, err := sel.Select(ctx, &selector.Input{
//	    Template: "You have {Count} items",
//	    Names:    []string{"Count"},
//	    Values:   []any{int64(1)},
//	    Variants: []selector.Variant{
//	        {Condition: "values.Count == 1", Template: "You have one item"},
//	        {Condition: "values.Count == 0", Template: "You have no items"},
//	    },
//	})
//	// selection.Template == "You have one item", selection.Variant == 0
package selector
