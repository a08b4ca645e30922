package xlspill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnique(t *testing.T) {
	assert.Equal(t, "[2 unique values]\na\nb", evalScalar(t, `=UNIQUE(["a","b","a",""])`, nil))
	assert.Equal(t, "[2 unique values]\n1\n2", evalScalar(t, `=UNIQUE([[1,1],[2,""]])`, nil))
	assert.Equal(t, ErrValue, evalError(t, `=UNIQUE("a")`, nil))
}

func TestUnique_WholeColumn(t *testing.T) {
	got := evalScalar(t, "=UNIQUE(C2:C4)", rosterGrid())
	assert.Equal(t, "[2 unique values]\n営業\n開発", got)
}

func TestFilter_Table(t *testing.T) {
	got := evalArray(t, `=FILTER([[1,"x"],[2,"y"]],[false,true])`, nil)
	assert.Equal(t, [][]any{{2.0, "y"}}, got)
}

func TestFilter_ComputedConditions(t *testing.T) {
	got := evalArray(t, "=FILTER(A2:E4,D2:D4>28)", rosterGrid())
	require.Len(t, got, 2)
	assert.Equal(t, "佐藤 太郎", got[0][1])
	assert.Equal(t, "佐藤 次郎", got[1][1])
}

func TestFilter_ShortConditionsStop(t *testing.T) {
	got := evalArray(t, "=FILTER([1,2,3],[true])", nil)
	assert.Equal(t, [][]any{{1.0}}, got)
}

func TestFilter_SearchIsCaseInsensitive(t *testing.T) {
	got := evalArray(t, `=FILTER(["Alpha","beta","ALPS"],"al",["Alpha","beta","ALPS"])`, nil)
	assert.Equal(t, [][]any{{"Alpha"}, {"ALPS"}}, got)
}

func TestFilter_Errors(t *testing.T) {
	assert.Equal(t, ErrValue, evalError(t, `=FILTER([1,2],"x")`, nil))
	assert.Equal(t, ErrValue, evalError(t, `=FILTER([1],"a","b")`, nil))
	assert.Equal(t, ErrValue, evalError(t, `=FILTER(1,[true])`, nil))
	assert.Equal(t, ErrNA, evalError(t, `=FILTER([1],"z",["a"])`, nil))
}

func TestShowData(t *testing.T) {
	data := `[[1,"a"],[2,"b"],[3,"c"]]`
	assert.Equal(t, "3 rows of data:\n1 | a\n2 | b", evalScalar(t, "=SHOWDATA("+data+",2)", nil))
	assert.Equal(t, "3 rows of data:\n1 | a\n2 | b\n3 | c", evalScalar(t, "=SHOWDATA("+data+")", nil))
	assert.Equal(t, "Not an array", evalScalar(t, "=SHOWDATA(5)", nil))
	assert.Equal(t, "3 rows of data:\n1 | a\n2 | b\n3 | c", evalScalar(t, "=SHOWDATA("+data+",1e20)", nil))
}

func TestShowData_PreviewRowsOption(t *testing.T) {
	res := newTestEngine(t, WithPreviewRows(1)).Evaluate(`=SHOWDATA([[1,"a"],[2,"b"]])`, nil, 0, 0)
	require.Equal(t, ResultScalar, res.Kind)
	assert.Equal(t, "2 rows of data:\n1 | a", res.Value)
}
