package composite

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formattable is implemented by values that render their own format string
type Formattable interface {
	FormatAs(format string) (string, error)
}

// invariant prints grouped numbers with ',' thousands and '.' decimals
var invariant = message.NewPrinter(language.English)

// Invariant date/time patterns for the single-letter standard specifiers
var timeLayouts = map[string]string{
	"d": "01/02/2006",
	"D": "Monday, 02 January 2006",
	"t": "15:04",
	"T": "15:04:05",
	"g": "01/02/2006 15:04",
	"G": "01/02/2006 15:04:05",
	"o": "2006-01-02T15:04:05.0000000Z07:00",
	"O": "2006-01-02T15:04:05.0000000Z07:00",
	"s": "2006-01-02T15:04:05",
	"u": "2006-01-02 15:04:05Z",
}

// FormatValue renders a single argument with an optional format string
func FormatValue(arg any, spec string) (string, error) {
	switch v := arg.(type) {
	case nil:
		return "", nil
	case Formattable:
		return v.FormatAs(spec)
	case string:
		return v, nil
	case time.Time:
		return formatTime(v, spec), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return formatInt(i, 64, spec)
		}
		f, err := v.Float64()
		if err != nil {
			return v.String(), nil
		}
		return formatFloat(f, spec)
	case fmt.Stringer:
		return v.String(), nil
	}

	rv := reflect.ValueOf(arg)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return formatInt(rv.Int(), rv.Type().Bits(), spec)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return formatUint(rv.Uint(), spec)
	case reflect.Float32, reflect.Float64:
		if spec == "" && rv.Kind() == reflect.Float32 {
			return strconv.FormatFloat(rv.Float(), 'g', -1, 32), nil
		}
		return formatFloat(rv.Float(), spec)
	}

	return fmt.Sprint(arg), nil
}

// parseSpec splits a standard numeric specifier such as "N2" into its
// letter and precision; precision is -1 when absent
func parseSpec(spec string) (byte, int, error) {
	if len(spec) == 0 || len(spec) > 3 {
		return 0, 0, fmt.Errorf("unsupported format specifier %q: %w", spec, ErrFormat)
	}
	letter := spec[0]
	if !(letter >= 'A' && letter <= 'Z' || letter >= 'a' && letter <= 'z') {
		return 0, 0, fmt.Errorf("unsupported format specifier %q: %w", spec, ErrFormat)
	}
	if len(spec) == 1 {
		return letter, -1, nil
	}
	precision, err := strconv.Atoi(spec[1:])
	if err != nil || precision < 0 {
		return 0, 0, fmt.Errorf("invalid precision in format specifier %q: %w", spec, ErrFormat)
	}
	return letter, precision, nil
}

func formatInt(v int64, bits int, spec string) (string, error) {
	if spec == "" {
		return strconv.FormatInt(v, 10), nil
	}
	letter, precision, err := parseSpec(spec)
	if err != nil {
		return "", err
	}

	switch letter {
	case 'D', 'd':
		digits := strconv.FormatUint(absInt(v), 10)
		digits = padDigits(digits, precision)
		if v < 0 {
			return "-" + digits, nil
		}
		return digits, nil
	case 'X', 'x':
		// negative values print their two's complement at the value's width
		u := uint64(v)
		if bits < 64 {
			u &= (uint64(1) << uint(bits)) - 1
		}
		return formatHex(u, letter, precision), nil
	case 'G', 'g', 'R', 'r':
		if precision > 0 {
			return formatFloat(float64(v), spec)
		}
		return strconv.FormatInt(v, 10), nil
	case 'N', 'n':
		return grouped(v, defaultPrecision(precision, 2)), nil
	}
	return formatFloat(float64(v), spec)
}

func formatUint(v uint64, spec string) (string, error) {
	if spec == "" {
		return strconv.FormatUint(v, 10), nil
	}
	letter, precision, err := parseSpec(spec)
	if err != nil {
		return "", err
	}

	switch letter {
	case 'D', 'd':
		return padDigits(strconv.FormatUint(v, 10), precision), nil
	case 'X', 'x':
		return formatHex(v, letter, precision), nil
	case 'G', 'g', 'R', 'r':
		if precision > 0 {
			return formatFloat(float64(v), spec)
		}
		return strconv.FormatUint(v, 10), nil
	case 'N', 'n':
		return grouped(v, defaultPrecision(precision, 2)), nil
	}
	return formatFloat(float64(v), spec)
}

func formatFloat(v float64, spec string) (string, error) {
	if math.IsNaN(v) {
		return "NaN", nil
	}
	if math.IsInf(v, 1) {
		return "Infinity", nil
	}
	if math.IsInf(v, -1) {
		return "-Infinity", nil
	}
	if spec == "" {
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	}

	letter, precision, err := parseSpec(spec)
	if err != nil {
		return "", err
	}

	switch letter {
	case 'F', 'f':
		return strconv.FormatFloat(v, 'f', defaultPrecision(precision, 2), 64), nil
	case 'N', 'n':
		return grouped(v, defaultPrecision(precision, 2)), nil
	case 'E', 'e':
		return formatExponent(v, letter, defaultPrecision(precision, 6)), nil
	case 'G', 'g':
		p := -1
		if precision > 0 {
			p = precision
		}
		s := strconv.FormatFloat(v, 'g', p, 64)
		if letter == 'G' {
			s = strings.ToUpper(s)
		}
		return s, nil
	case 'R', 'r':
		return strings.ToUpper(strconv.FormatFloat(v, 'g', -1, 64)), nil
	case 'P', 'p':
		return grouped(v*100, defaultPrecision(precision, 2)) + " %", nil
	case 'C', 'c':
		p := defaultPrecision(precision, 2)
		if v < 0 {
			return "(¤" + grouped(-v, p) + ")", nil
		}
		return "¤" + grouped(v, p), nil
	case 'D', 'd', 'X', 'x':
		if v == math.Trunc(v) && math.Abs(v) < math.MaxInt64 {
			return formatInt(int64(v), 64, spec)
		}
	}

	return "", fmt.Errorf("format specifier %q is not valid for %v: %w", spec, v, ErrFormat)
}

// grouped renders v with thousands separators and exactly precision decimals
func grouped(v any, precision int) string {
	return invariant.Sprintf("%v", number.Decimal(v,
		number.MinFractionDigits(precision),
		number.MaxFractionDigits(precision),
	))
}

// formatExponent renders scientific notation with a signed, at least
// three-digit exponent: 1.234560E+003
func formatExponent(v float64, letter byte, precision int) string {
	s := strconv.FormatFloat(v, 'e', precision, 64)
	mantissa, exponent, _ := strings.Cut(s, "e")
	sign := exponent[:1]
	digits := padDigits(exponent[1:], 3)

	marker := "e"
	if letter == 'E' {
		marker = "E"
	}
	return mantissa + marker + sign + digits
}

func formatHex(v uint64, letter byte, precision int) string {
	s := strconv.FormatUint(v, 16)
	if letter == 'X' {
		s = strings.ToUpper(s)
	}
	return padDigits(s, precision)
}

func formatTime(t time.Time, spec string) string {
	switch spec {
	case "":
		return t.Format(timeLayouts["G"])
	case "u":
		return t.UTC().Format(timeLayouts["u"])
	}
	if layout, ok := timeLayouts[spec]; ok {
		return t.Format(layout)
	}
	return t.Format(spec)
}

func padDigits(digits string, width int) string {
	if width > len(digits) {
		return strings.Repeat("0", width-len(digits)) + digits
	}
	return digits
}

func defaultPrecision(precision, def int) int {
	if precision < 0 {
		return def
	}
	return precision
}

func absInt(v int64) uint64 {
	if v < 0 {
		return uint64(-(v + 1)) + 1
	}
	return uint64(v)
}
