package xlspill

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum_FlattensNestedArrays(t *testing.T) {
	assert.Equal(t, 10.0, evalScalar(t, "=SUM([1,[2,3]],4)", nil))
	assert.Equal(t, 0.0, evalScalar(t, "=SUM()", nil))
}

func TestSum_NumericPrefix(t *testing.T) {
	assert.Equal(t, 15.0, evalScalar(t, `=SUM("12abc"," 3")`, nil))
}

func TestAverage(t *testing.T) {
	assert.Equal(t, 3.0, evalScalar(t, "=AVERAGE(2,4)", nil))
	assert.Equal(t, 2.0, evalScalar(t, "=AVERAGE([1,2,3])", nil))
	assert.Equal(t, ErrValue, evalError(t, "=AVERAGE()", nil))
}

func TestCount(t *testing.T) {
	assert.Equal(t, 3.0, evalScalar(t, `=COUNT([1,"2","x",TRUE,"3abc"])`, nil))
	g := Grid{{1.0, ""}, {"a", 2.0}}
	assert.Equal(t, 2.0, evalScalar(t, "=COUNT(A1:B2)", g))
}

func TestMaxMin(t *testing.T) {
	assert.Equal(t, 3.0, evalScalar(t, `=MAX("3","abc",-1)`, nil))
	assert.Equal(t, -1.0, evalScalar(t, `=MIN("3","abc",-1)`, nil))
	assert.Equal(t, ErrValue, evalError(t, "=MAX()", nil))
	assert.Equal(t, ErrValue, evalError(t, "=MIN()", nil))
}

func TestRound_HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 3.0, evalScalar(t, "=ROUND(2.5)", nil))
	assert.Equal(t, -3.0, evalScalar(t, "=ROUND(-2.5)", nil))
	assert.Equal(t, 2.0, evalScalar(t, "=ROUND(1.5,0)", nil))
	assert.Equal(t, 1.5, evalScalar(t, "=ROUND(1.46,1)", nil))
}

func TestRound_Arity(t *testing.T) {
	assert.Equal(t, ErrValue, evalError(t, "=ROUND()", nil))
	assert.Equal(t, ErrValue, evalError(t, "=ROUND(1,2,3)", nil))
}
