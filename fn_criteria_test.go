package xlspill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountIf_Operators(t *testing.T) {
	assert.Equal(t, 2.0, evalScalar(t, `=COUNTIF([1,2,3,4],">=3")`, nil))
	assert.Equal(t, 1.0, evalScalar(t, `=COUNTIF([1,2,3,4],"<2")`, nil))
	assert.Equal(t, 1.0, evalScalar(t, `=COUNTIF([1,2,3,4],"=2")`, nil))
	assert.Equal(t, 2.0, evalScalar(t, `=COUNTIF(["x","",5],"<>5")`, nil))
}

func TestCountIf_TextAndWildcards(t *testing.T) {
	assert.Equal(t, 2.0, evalScalar(t, `=COUNTIF(["a","b","A"],"a")`, nil))
	assert.Equal(t, 2.0, evalScalar(t, `=COUNTIF(["apple","Apricot","banana"],"ap*")`, nil))
	assert.Equal(t, 2.0, evalScalar(t, `=COUNTIF(["abc","abd","ab"],"ab?")`, nil))
	assert.Equal(t, 1.0, evalScalar(t, `=COUNTIF(["a.c","abc"],"a.c")`, nil))
	assert.Equal(t, 1.0, evalScalar(t, `=COUNTIF(["a","b"],"<>a")`, nil))
}

func TestCountIf_ExactValues(t *testing.T) {
	assert.Equal(t, 2.0, evalScalar(t, `=COUNTIF([1,"1",2],1)`, nil))
	assert.Equal(t, 2.0, evalScalar(t, `=COUNTIF([TRUE,FALSE,TRUE],TRUE)`, nil))
}

func TestCountIf_WholeColumn(t *testing.T) {
	assert.Equal(t, 1.0, evalScalar(t, `=COUNTIF(D:D,">35")`, rosterGrid()))
	assert.Equal(t, 2.0, evalScalar(t, `=COUNTIF(B:B,"佐藤*")`, rosterGrid()))
}

func TestCountIf_Errors(t *testing.T) {
	assert.Equal(t, ErrValue, evalError(t, `=COUNTIF(5,">1")`, nil))
	assert.Equal(t, ErrValue, evalError(t, `=COUNTIF([],">1")`, nil))
	assert.Equal(t, ErrValue, evalError(t, `=COUNTIF([1],[1])`, nil))
}

func TestSumIf(t *testing.T) {
	assert.Equal(t, 5.0, evalScalar(t, `=SUMIF([1,2,3],">1")`, nil))
	assert.Equal(t, 40.0, evalScalar(t, `=SUMIF(["a","b","a"],"a",[10,20,30])`, nil))
	assert.Equal(t, 66.0, evalScalar(t, `=SUMIF(C:C,"開発",D:D)`, rosterGrid()))
}

func TestCountIfs(t *testing.T) {
	assert.Equal(t, 1.0, evalScalar(t, `=COUNTIFS(["a","b","a"],"a",[1,2,3],">1")`, nil))
	assert.Equal(t, 2.0, evalScalar(t, `=COUNTIFS(["a","b","a"],"a")`, nil))
	assert.Equal(t, ErrValue, evalError(t, `=COUNTIFS([1],">0",[1])`, nil))
}

func TestSumIfs(t *testing.T) {
	assert.Equal(t, 30.0, evalScalar(t, `=SUMIFS([10,20,30],["a","b","a"],"a",[1,2,3],">1")`, nil))
	assert.Equal(t, ErrValue, evalError(t, `=SUMIFS(1,["a"],"a")`, nil))
}

func TestParseCriterion_CachesPrograms(t *testing.T) {
	a, err := parseCriterion(">5")
	require.NoError(t, err)
	b, err := parseCriterion(">10")
	require.NoError(t, err)
	assert.Same(t, a.program, b.program)
	assert.True(t, a.match(6.0))
	assert.False(t, b.match(6.0))
}
