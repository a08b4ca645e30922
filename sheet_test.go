package xlspill

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySheet_GrowsOnWrite(t *testing.T) {
	s := NewMemorySheet(nil)
	require.NoError(t, s.SetCell(2, 1, "x"))
	assert.Equal(t, 3, s.Grid().Rows())
	assert.Equal(t, "x", s.Value(2, 1))
	assert.Nil(t, s.Value(0, 0))
	assert.Error(t, s.SetCell(-1, 0, "x"))
}

func TestMemorySheet_SnapshotIsCopy(t *testing.T) {
	s := NewMemorySheet(Grid{{1.0}})
	snap := s.Snapshot()
	snap[0][0] = 2.0
	assert.Equal(t, 1.0, s.Value(0, 0))
}

func TestMemorySheet_ClearCell(t *testing.T) {
	s := NewMemorySheet(Grid{{1.0}})
	require.NoError(t, s.ClearCell(0, 0))
	assert.Equal(t, "", s.Value(0, 0))
	require.NoError(t, s.ClearCell(9, 9))
	assert.Equal(t, 1, s.Grid().Rows())
}

func TestReadCSV_TypedValues(t *testing.T) {
	g, err := ReadCSV(strings.NewReader("name,score,active\nAnn,10,TRUE\nBob,-2.5\n"))
	require.NoError(t, err)
	assert.Equal(t, Grid{
		{"name", "score", "active"},
		{"Ann", 10.0, true},
		{"Bob", -2.5},
	}, g)
}

func TestReadCSV_Malformed(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,\"b\n"))
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Grid{{"a", 1.5, true}, {nil, "#SPILL!", "x,y"}}))
	assert.Equal(t, "a,1.5,TRUE\n,#SPILL!,\"x,y\"\n", buf.String())
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, 3.0, ParseValue(" 3 "))
	assert.Equal(t, true, ParseValue("true"))
	assert.Equal(t, false, ParseValue("FALSE"))
	assert.Equal(t, "", ParseValue("  "))
	assert.Equal(t, "=SUM(A1:A3)", ParseValue("=SUM(A1:A3)"))
	assert.Equal(t, " text ", ParseValue(" text "))
	for _, field := range []string{"Inf", "-infinity", "NaN", "1e400"} {
		assert.Equal(t, field, ParseValue(field))
	}
}

func TestReadCSV_NonFiniteStaysText(t *testing.T) {
	g, err := ReadCSV(strings.NewReader("Inf,NaN\n"))
	require.NoError(t, err)
	assert.Equal(t, Grid{{"Inf", "NaN"}}, g)

	res := NewEngine().Evaluate(`=CONCATENATE(A1,"/",B1)`, g, 0, 2)
	require.Equal(t, ResultScalar, res.Kind, "got %s", res)
	assert.Equal(t, "Inf/NaN", res.Value)
}

func TestCSV_SpillRoundTrip(t *testing.T) {
	g, err := ReadCSV(strings.NewReader("1\n2\n3\n"))
	require.NoError(t, err)
	sheet := NewMemorySheet(g)
	m := NewManager(sheet)
	_, err = m.HandleEdit(Edit{Row: 0, Col: 1, NewValue: "=A1:A3*2"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sheet.Snapshot()))
	assert.Equal(t, "1,2\n2,4\n3,6\n", buf.String())
}
