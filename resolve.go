package xlspill

import (
	"regexp"
	"strconv"
	"strings"
)

// Reference substitution runs in three phases. Order matters: whole-column
// ranges first, then bounded ranges, then single cells. Each phase only
// rewrites text outside string literals, so literals produced by an earlier
// phase (and cell text that happens to look like an address) are never
// re-read by a later one.
var (
	wholeColumnPattern  = regexp.MustCompile(`\$?([A-Z]+):\$?([A-Z]+)`)
	boundedRangePattern = regexp.MustCompile(`\$?([A-Z]+)\$?(\d+):\$?([A-Z]+)\$?(\d+)`)
	cellPattern         = regexp.MustCompile(`\$?([A-Z]+)\$?(\d+)`)
)

// ResolveReferences rewrites every A1-style reference in a formula body
// into literal data taken from g. Unresolvable references become empty
// literals so the consuming function reports the error.
func ResolveReferences(body string, g Grid) string {
	body = substitute(body, wholeColumnPattern, func(m []string) string {
		area, err := ParseAreaRef(m[1] + ":" + m[2])
		if err != nil {
			return "[]"
		}
		return areaLiteral(area.Bounded(g.Rows()), g, true)
	})
	body = substitute(body, boundedRangePattern, func(m []string) string {
		area, err := ParseAreaRef(m[1] + m[2] + ":" + m[3] + m[4])
		if err != nil {
			return "[]"
		}
		return areaLiteral(area, g, false)
	})
	body = substitute(body, cellPattern, func(m []string) string {
		ref, err := ParseCellRef(m[1] + m[2])
		if err != nil {
			return `""`
		}
		v, ok := g.At(ref.Row, ref.Col)
		if !ok {
			return `""`
		}
		return literal(v)
	})
	return body
}

// areaLiteral renders an area as a list literal: a flat list for a single
// column, a list of rows otherwise. pad keeps missing cells of a single
// column as "" instead of dropping them.
func areaLiteral(area AreaRef, g Grid, pad bool) string {
	var b strings.Builder
	b.WriteByte('[')
	if area.Width() == 1 {
		first := true
		for r := area.First.Row; r <= area.Last.Row; r++ {
			v, ok := g.At(r, area.First.Col)
			if !ok && !pad {
				continue
			}
			if !first {
				b.WriteByte(',')
			}
			first = false
			b.WriteString(literal(v))
		}
	} else {
		for r := area.First.Row; r <= area.Last.Row; r++ {
			if r > area.First.Row {
				b.WriteByte(',')
			}
			b.WriteByte('[')
			for c := area.First.Col; c <= area.Last.Col; c++ {
				if c > area.First.Col {
					b.WriteByte(',')
				}
				v, _ := g.At(r, c)
				b.WriteString(literal(v))
			}
			b.WriteByte(']')
		}
	}
	b.WriteByte(']')
	return b.String()
}

// literal renders one cell value as expression source.
func literal(v any) string {
	switch x := v.(type) {
	case nil:
		return `""`
	case float64:
		s := formatNumber(x)
		if x < 0 {
			return "(" + s + ")"
		}
		return s
	case int:
		if x < 0 {
			return "(" + strconv.Itoa(x) + ")"
		}
		return strconv.Itoa(x)
	case bool:
		if x {
			return "true"
		}
		return "false"
	case string:
		return quote(x)
	default:
		return quote(toText(x))
	}
}

// quote produces a double-quoted literal with backslashes and quotes escaped.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// substitute applies fn to every boundary-delimited match of re that lies
// outside string literals.
func substitute(body string, re *regexp.Regexp, fn func(m []string) string) string {
	var b strings.Builder
	for _, seg := range splitQuoted(body) {
		if seg.quoted {
			b.WriteString(seg.text)
			continue
		}
		b.WriteString(replaceTokens(seg.text, re, fn))
	}
	return b.String()
}

func replaceTokens(s string, re *regexp.Regexp, fn func(m []string) string) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, loc := range matches {
		start, end := loc[0], loc[1]
		if !tokenBoundary(s, start, end) {
			continue
		}
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(s[last:start])
		b.WriteString(fn(groups))
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

// tokenBoundary rejects matches that are part of a longer identifier or
// number, or that name a function call.
func tokenBoundary(s string, start, end int) bool {
	if start > 0 && isWordByte(s[start-1]) {
		return false
	}
	if end < len(s) && (isWordByte(s[end]) || s[end] == '(') {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return isUpper(b) || isDigit(b) || (b >= 'a' && b <= 'z') || b == '_' || b == '$' || b == '.'
}

type segment struct {
	text   string
	quoted bool
}

// splitQuoted cuts s into alternating unquoted and double-quoted segments.
// Quoted segments keep their delimiters. Both backslash escapes and doubled
// quotes are honoured inside literals, matching the lexer.
func splitQuoted(s string) []segment {
	var segs []segment
	start := 0
	i := 0
	for i < len(s) {
		if s[i] != '"' {
			i++
			continue
		}
		if i > start {
			segs = append(segs, segment{text: s[start:i]})
		}
		j := i + 1
		for j < len(s) {
			if s[j] == '\\' && j+1 < len(s) {
				j += 2
				continue
			}
			if s[j] == '"' {
				if j+1 < len(s) && s[j+1] == '"' {
					j += 2
					continue
				}
				break
			}
			j++
		}
		end := min(j+1, len(s))
		segs = append(segs, segment{text: s[i:end], quoted: true})
		i = end
		start = end
	}
	if start < len(s) {
		segs = append(segs, segment{text: s[start:]})
	}
	return segs
}
