// Package composite renders positional composite format strings.
//
// A composite format string mixes literal text with format items of the form
// {index[,alignment][:formatString]}. Literal braces are written doubled.
//
// Example usage:
//
//	out, err := composite.Format("{0,-8}|{1,6:N2}|{2:X4}", "total", 1234.5, 255)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Output: total   |1,234.50|00FF
//
// Formatting is culture-invariant. Supported standard specifiers for numbers:
//   - D[n] - Decimal integer, zero-padded to n digits
//   - X[n], x[n] - Hexadecimal, upper or lower case
//   - N[n] - Grouped thousands with n decimals (default 2)
//   - F[n] - Fixed point with n decimals (default 2)
//   - E[n], e[n] - Scientific with a three-digit exponent
//   - G[n], R - General / round-trip
//   - P[n] - Percent, value multiplied by 100
//   - C[n] - Currency with the invariant ¤ symbol
//
// time.Time values accept d, D, t, T, g, G, o, s and u, or any Go layout.
// Values implementing Formattable render their own format string.
package composite
