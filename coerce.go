package xlspill

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericPrefix matches the longest leading number in a string, the way a
// permissive parse-to-number reads "12abc" as 12.
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseLeadingNumber parses the numeric prefix of s after leading spaces.
func parseLeadingNumber(s string) (float64, bool) {
	m := numericPrefix.FindString(strings.TrimLeft(s, " \t\r\n"))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// toNumber is the permissive coercion used by aggregations: numbers pass
// through, text contributes its numeric prefix, everything else is 0.
func toNumber(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case string:
		f, _ := parseLeadingNumber(x)
		return f
	default:
		return 0
	}
}

// parseNumber is the strict coercion: the whole trimmed text must be a
// number. Booleans are 1/0 and blanks are 0.
func parseNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, true
	case float64:
		return x, true
	case int:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// isNumeric reports whether v is a number or text that is entirely numeric.
func isNumeric(v any) bool {
	switch x := v.(type) {
	case float64, int:
		return true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return false
		}
		_, err := strconv.ParseFloat(s, 64)
		return err == nil
	default:
		return false
	}
}

// formatNumber renders a float the way a spreadsheet displays it: integers
// without a decimal point and no trailing zeros.
func formatNumber(f float64) string {
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatValue renders a cell value as display text.
func FormatValue(v any) string {
	return toText(v)
}

// toText converts a value to its display text.
func toText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return formatNumber(x)
	case int:
		return strconv.Itoa(x)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case *FormulaError:
		return x.Token()
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = toText(e)
		}
		return strings.Join(parts, ",")
	case [][]any:
		return toText(flatten(x))
	default:
		return ""
	}
}

// truthy is spreadsheet truthiness: FALSE, 0 and blanks are false; text
// "TRUE"/"FALSE" is read as a boolean and numeric text by its value.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case int:
		return x != 0
	case string:
		s := strings.TrimSpace(x)
		switch {
		case s == "":
			return false
		case strings.EqualFold(s, "FALSE"):
			return false
		case strings.EqualFold(s, "TRUE"):
			return true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f != 0
		}
		return true
	case []any:
		return len(x) > 0
	case [][]any:
		return len(x) > 0
	default:
		return false
	}
}

// isTrueFlag is the stricter test used by IFS and FILTER conditions: only
// true, 1 and the text "TRUE" select.
func isTrueFlag(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x == 1
	case int:
		return x == 1
	case string:
		return strings.EqualFold(strings.TrimSpace(x), "TRUE")
	default:
		return false
	}
}

// looseEqual is spreadsheet equality: numeric when both sides are numeric,
// otherwise case-insensitive text.
func looseEqual(a, b any) bool {
	if isNumeric(a) && isNumeric(b) {
		fa, _ := parseNumber(a)
		fb, _ := parseNumber(b)
		return fa == fb
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			return ba == bb
		}
	}
	return strings.EqualFold(toText(a), toText(b))
}

// flatten collapses nested arrays into a single row-major slice.
func flatten(v any) []any {
	switch x := v.(type) {
	case []any:
		out := make([]any, 0, len(x))
		for _, e := range x {
			switch e.(type) {
			case []any, [][]any:
				out = append(out, flatten(e)...)
			default:
				out = append(out, e)
			}
		}
		return out
	case [][]any:
		out := make([]any, 0, len(x))
		for _, row := range x {
			out = append(out, flatten(row)...)
		}
		return out
	default:
		return []any{v}
	}
}

// flattenArgs flattens every argument into one list.
func flattenArgs(args []any) []any {
	var out []any
	for _, a := range args {
		out = append(out, flatten(a)...)
	}
	return out
}

func isArray(v any) bool {
	switch v.(type) {
	case []any, [][]any:
		return true
	default:
		return false
	}
}

// asList views an argument as a 1-D list. Single-column tables collapse
// to their column; wider tables yield their rows.
func asList(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case [][]any:
		if isColumnVector(x) {
			out := make([]any, len(x))
			for i, row := range x {
				out[i] = row[0]
			}
			return out, true
		}
		out := make([]any, len(x))
		for i, row := range x {
			out[i] = row
		}
		return out, true
	default:
		return nil, false
	}
}

// asTable views an argument as rows. A 1-D list becomes one row per element.
func asTable(v any) ([][]any, bool) {
	switch x := v.(type) {
	case [][]any:
		return x, true
	case []any:
		out := make([][]any, len(x))
		for i, e := range x {
			if row, ok := e.([]any); ok {
				out[i] = row
			} else {
				out[i] = []any{e}
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func isColumnVector(t [][]any) bool {
	if len(t) == 0 {
		return false
	}
	for _, row := range t {
		if len(row) != 1 {
			return false
		}
	}
	return true
}
