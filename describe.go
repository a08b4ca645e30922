package xlspill

import (
	"fmt"
	"sort"
	"strings"
)

// Describe returns a human-readable dump of the formula bindings and the
// spill ranges they own. Useful for debugging an editing session.
func (m *Manager) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Formulas: %d, spills: %d\n", len(m.formulas), len(m.spills))

	refs := make([]CellRef, 0, len(m.formulas))
	for ref := range m.formulas {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })

	for _, ref := range refs {
		fmt.Fprintf(&b, "%s %s", ref, m.formulas[ref])
		if sr, ok := m.spills[ref]; ok {
			fmt.Fprintf(&b, " -> spill %s\n", sr)
			describeValues(&b, m.values[ref], "  ")
			continue
		}
		fmt.Fprintf(&b, " = %s\n", describeValue(m.sheet.Value(ref.Row, ref.Col)))
	}
	return b.String()
}

func describeValues(b *strings.Builder, rows [][]any, prefix string) {
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = describeValue(v)
		}
		fmt.Fprintf(b, "%s%s\n", prefix, strings.Join(cells, " | "))
	}
}

func describeValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "<blank>"
	case string:
		if x == "" {
			return "<blank>"
		}
		if IsErrorToken(x) {
			return x
		}
		return fmt.Sprintf("%q", x)
	default:
		return toText(x)
	}
}
