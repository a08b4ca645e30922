package xlspill

import (
	"fmt"
	"sort"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // bookkeeping is inconsistent
	SeverityWarning                 // sheet drifted from what the Manager wrote
)

// Issue is a single problem found by Validate.
type Issue struct {
	Severity Severity
	Cell     CellRef
	Message  string
}

// String formats the issue as "[ERROR] B2: message" or "[WARN] ...".
func (i Issue) String() string {
	sev := "ERROR"
	if i.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, i.Cell, i.Message)
}

// Validate re-checks the Manager's invariants and returns any violations,
// ordered by cell.
func (m *Manager) Validate() []Issue {
	var issues []Issue
	issues = append(issues, m.validateOrigins()...)
	issues = append(issues, m.validateOverlaps()...)
	issues = append(issues, m.validateClaims()...)
	issues = append(issues, m.validateValues()...)
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Cell.Less(issues[j].Cell) })
	return issues
}

// validateOrigins checks every range has a formula at its origin and no
// formula sits on a non-origin footprint cell.
func (m *Manager) validateOrigins() []Issue {
	var issues []Issue
	for origin, sr := range m.spills {
		if _, ok := m.formulas[origin]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Cell:     origin,
				Message:  fmt.Sprintf("spill range %s has no formula at its origin", sr),
			})
		}
	}
	for ref := range m.formulas {
		if origin, ok := m.claims[ref]; ok && origin != ref {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Cell:     ref,
				Message:  fmt.Sprintf("formula bound inside spill range anchored at %s", origin),
			})
		}
	}
	return issues
}

func (m *Manager) validateOverlaps() []Issue {
	var issues []Issue
	spills := m.Spills()
	for i := range spills {
		for j := i + 1; j < len(spills); j++ {
			a, b := spills[i], spills[j]
			if a.Area().Overlaps(b.Area()) {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Cell:     b.Origin,
					Message:  fmt.Sprintf("spill range %s overlaps %s", b, a),
				})
			}
		}
	}
	return issues
}

// validateClaims checks the cell index agrees with the ranges.
func (m *Manager) validateClaims() []Issue {
	var issues []Issue
	for ref, origin := range m.claims {
		sr, ok := m.spills[origin]
		if !ok || !sr.Contains(ref) {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Cell:     ref,
				Message:  fmt.Sprintf("cell claimed by %s outside any matching range", origin),
			})
		}
	}
	for origin, sr := range m.spills {
		sr.cells(func(ref CellRef, _ bool) {
			if owner, ok := m.claims[ref]; !ok || owner != origin {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Cell:     ref,
					Message:  fmt.Sprintf("footprint cell of %s is not claimed by it", sr),
				})
			}
		})
	}
	return issues
}

// validateValues warns when a spilled cell no longer holds its value.
func (m *Manager) validateValues() []Issue {
	var issues []Issue
	for origin, sr := range m.spills {
		sr.cells(func(ref CellRef, _ bool) {
			want := m.spilledValue(origin, ref)
			got := m.sheet.Value(ref.Row, ref.Col)
			if toText(got) != toText(want) {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Cell:     ref,
					Message:  fmt.Sprintf("spilled value changed from %q to %q", toText(want), toText(got)),
				})
			}
		})
	}
	return issues
}
