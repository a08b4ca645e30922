package xlspill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- CellRef Tests ---

func TestParseCellRef_SimpleCell(t *testing.T) {
	ref, err := ParseCellRef("A1")
	require.NoError(t, err)
	assert.Equal(t, CellRef{Row: 0, Col: 0}, ref)
}

func TestParseCellRef_AbsoluteRef(t *testing.T) {
	ref, err := ParseCellRef("$B$5")
	require.NoError(t, err)
	assert.Equal(t, 4, ref.Row) // 0-based
	assert.Equal(t, 1, ref.Col)
}

func TestParseCellRef_MultiLetterCol(t *testing.T) {
	ref, err := ParseCellRef("AZ10")
	require.NoError(t, err)
	assert.Equal(t, 9, ref.Row)
	assert.Equal(t, 51, ref.Col) // AZ = 26+25 = 51
}

func TestParseCellRef_Invalid(t *testing.T) {
	for _, s := range []string{"", "A", "123", "A0", "a1", "A-1"} {
		_, err := ParseCellRef(s)
		assert.Error(t, err, s)
	}
}

func TestColToName_RoundTrip(t *testing.T) {
	for col := 0; col < 26*27; col++ {
		name := ColToName(col)
		back, err := NameToCol(name)
		require.NoError(t, err, name)
		assert.Equal(t, col, back, name)
	}
	assert.Equal(t, "A", ColToName(0))
	assert.Equal(t, "Z", ColToName(25))
	assert.Equal(t, "AA", ColToName(26))
	assert.Equal(t, "ZZ", ColToName(701))
	assert.Equal(t, "AAA", ColToName(702))
}

func TestCellRef_String(t *testing.T) {
	assert.Equal(t, "C7", NewCellRef(6, 2).String())
	assert.Equal(t, "B3", NewCellRef(1, 1).Offset(1, 0).String())
}

func TestCellRef_Less(t *testing.T) {
	assert.True(t, NewCellRef(0, 5).Less(NewCellRef(1, 0)))
	assert.True(t, NewCellRef(1, 0).Less(NewCellRef(1, 1)))
	assert.False(t, NewCellRef(1, 1).Less(NewCellRef(1, 1)))
}

// --- AreaRef Tests ---

func TestParseAreaRef_Bounded(t *testing.T) {
	area, err := ParseAreaRef("C5:A1")
	require.NoError(t, err)
	assert.Equal(t, CellRef{Row: 0, Col: 0}, area.First)
	assert.Equal(t, CellRef{Row: 4, Col: 2}, area.Last)
	assert.Equal(t, 3, area.Width())
	assert.Equal(t, 5, area.Height())
	assert.Equal(t, "A1:C5", area.String())
}

func TestParseAreaRef_WholeColumn(t *testing.T) {
	area, err := ParseAreaRef("D:B")
	require.NoError(t, err)
	assert.True(t, area.WholeColumn)
	assert.Equal(t, "B:D", area.String())
	assert.True(t, area.Contains(NewCellRef(1000, 2)))

	bounded := area.Bounded(4)
	assert.False(t, bounded.WholeColumn)
	assert.Equal(t, "B1:D4", bounded.String())
}

func TestParseAreaRef_Invalid(t *testing.T) {
	_, err := ParseAreaRef("A1")
	assert.Error(t, err)
	_, err = ParseAreaRef("A1:3")
	assert.Error(t, err)
}

func TestAreaRef_Overlaps(t *testing.T) {
	a, _ := ParseAreaRef("A1:B2")
	b, _ := ParseAreaRef("B2:C3")
	c, _ := ParseAreaRef("C1:C1")
	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c))
}
