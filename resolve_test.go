package xlspill

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func resolveGrid() Grid {
	return Grid{
		{"Name", "Score", "Note"},
		{"Ann", 10.0, "A1 is text"},
		{"Bob", -2.5, `say "hi"`},
		{"Cy", 7.0},
	}
}

func TestResolveReferences_SingleCell(t *testing.T) {
	g := resolveGrid()
	assert.Equal(t, `"Ann"+10`, ResolveReferences("A2+B2", g))
	assert.Equal(t, "(-2.5)*2", ResolveReferences("$B$3*2", g))
}

func TestResolveReferences_OutOfBoundsIsBlank(t *testing.T) {
	assert.Equal(t, `""`, ResolveReferences("Z99", resolveGrid()))
	assert.Equal(t, `""`, ResolveReferences("C4", resolveGrid()))
}

func TestResolveReferences_BoundedColumnRange(t *testing.T) {
	got := ResolveReferences("SUM(B2:B4)", resolveGrid())
	assert.Equal(t, "SUM([10,(-2.5),7])", got)
}

func TestResolveReferences_BoundedRangeSkipsMissingCells(t *testing.T) {
	got := ResolveReferences("C3:C9", resolveGrid())
	assert.Equal(t, `["say \"hi\""]`, got)
}

func TestResolveReferences_Table(t *testing.T) {
	got := ResolveReferences("A3:B4", resolveGrid())
	assert.Equal(t, `[["Bob",(-2.5)],["Cy",7]]`, got)
}

func TestResolveReferences_WholeColumn(t *testing.T) {
	got := ResolveReferences("COUNT(B:B)", resolveGrid())
	assert.Equal(t, `COUNT(["Score",10,(-2.5),7])`, got)
}

func TestResolveReferences_WholeColumnPadsMissingCells(t *testing.T) {
	got := ResolveReferences("C:C", resolveGrid())
	assert.Equal(t, `["Note","A1 is text","say \"hi\"",""]`, got)
}

func TestResolveReferences_WholeColumnTable(t *testing.T) {
	got := ResolveReferences("A:B", Grid{{"x", 1.0}, {"y"}})
	assert.Equal(t, `[["x",1],["y",""]]`, got)
}

func TestResolveReferences_StringLiteralsUntouched(t *testing.T) {
	got := ResolveReferences(`CONCATENATE("A1", A1)`, resolveGrid())
	assert.Equal(t, `CONCATENATE("A1", "Name")`, got)
}

func TestResolveReferences_CellTextNotReread(t *testing.T) {
	got := ResolveReferences("C2", resolveGrid())
	assert.Equal(t, `"A1 is text"`, got)
}

func TestResolveReferences_FunctionNamesUntouched(t *testing.T) {
	got := ResolveReferences("LOG10(A1)", resolveGrid())
	assert.Equal(t, `LOG10("Name")`, got)
}

func TestResolveReferences_Booleans(t *testing.T) {
	got := ResolveReferences("A1", Grid{{true}})
	assert.Equal(t, "true", got)
}
