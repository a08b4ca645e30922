package xlspill

import (
	"testing"

	"github.com/javajack/xlspill/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	return NewEngine(append([]Option{WithLogger(testutil.NewTestLogger(t))}, opts...)...)
}

func evalScalar(t *testing.T, formula string, g Grid) any {
	t.Helper()
	res := newTestEngine(t).Evaluate(formula, g, 0, 0)
	require.Equal(t, ResultScalar, res.Kind, "formula %s gave %s", formula, res)
	return res.Value
}

func evalError(t *testing.T, formula string, g Grid) ErrorKind {
	t.Helper()
	res := newTestEngine(t).Evaluate(formula, g, 0, 0)
	require.Equal(t, ResultError, res.Kind, "formula %s gave %s", formula, res)
	return res.Err
}

func evalArray(t *testing.T, formula string, g Grid) [][]any {
	t.Helper()
	res := newTestEngine(t).Evaluate(formula, g, 0, 0)
	require.Equal(t, ResultArray, res.Kind, "formula %s gave %s", formula, res)
	return res.Array
}

func rosterGrid() Grid {
	return Grid{
		{"ID", "Name", "Dept", "Age", "City"},
		{1.0, "佐藤 太郎", "営業", 30.0, "東京"},
		{2.0, "鈴木 花子", "開発", 25.0, "大阪"},
		{3.0, "佐藤 次郎", "開発", 41.0},
		{4.0, "田中 美咲", "営業", 22.0, "福岡"},
	}
}

func TestEvaluate_FilterByConditionArray(t *testing.T) {
	g := Grid{{"x"}, {"y"}, {"z"}}
	assert.Equal(t, [][]any{{"x"}, {"z"}}, evalArray(t, "=FILTER(A1:A3,[true,false,true])", g))
}

func TestEvaluate_FilterNothingSelected(t *testing.T) {
	g := Grid{{"x"}, {"y"}, {"z"}}
	assert.Equal(t, ErrNA, evalError(t, "=FILTER(A1:A3,[false,false,false])", g))
}

func TestEvaluate_FilterWholeColumnSearch(t *testing.T) {
	got := evalArray(t, `=FILTER(A:E,"佐藤",B:B)`, rosterGrid())
	assert.Equal(t, [][]any{
		{1.0, "佐藤 太郎", "営業", 30.0, "東京"},
		{3.0, "佐藤 次郎", "開発", 41.0, ""},
	}, got)
}

func TestEvaluate_VLookupApproximate(t *testing.T) {
	assert.Equal(t, "a", evalScalar(t, `=VLOOKUP(60,[[50,"a"],[70,"b"]],2,true)`, nil))
}

func TestEvaluate_CountIfNumericText(t *testing.T) {
	assert.Equal(t, 2.0, evalScalar(t, `=COUNTIF(["5","12","7"],">6")`, nil))
}

func TestEvaluate_SumPermissive(t *testing.T) {
	assert.Equal(t, 7.0, evalScalar(t, `=SUM("3","abc",4)`, nil))
}

func TestEvaluate_References(t *testing.T) {
	g := Grid{{10.0, 20.0}, {"x", -5.0}}
	assert.Equal(t, 30.0, evalScalar(t, "=A1+B1", g))
	assert.Equal(t, 25.0, evalScalar(t, "=SUM(A1:B2)", g))
	assert.Equal(t, -50.0, evalScalar(t, "=A1*B2", g))
	assert.Equal(t, "x!", evalScalar(t, `=A2&"!"`, g))
	assert.Equal(t, true, evalScalar(t, "=A1>5", g))
}

func TestEvaluate_LeadingEqualsOptional(t *testing.T) {
	assert.Equal(t, 3.0, evalScalar(t, "1+2", nil))
	assert.Equal(t, true, evalScalar(t, "=1=1", nil))
}

func TestEvaluate_Idempotent(t *testing.T) {
	e := newTestEngine(t)
	g := rosterGrid()
	first := e.Evaluate(`=FILTER(A:E,"開発",C:C)`, g, 5, 0)
	second := e.Evaluate(`=FILTER(A:E,"開発",C:C)`, g, 5, 0)
	assert.Equal(t, first, second)
}

func TestEvaluate_DoesNotMutateGrid(t *testing.T) {
	g := rosterGrid()
	before := g.Clone()
	newTestEngine(t).Evaluate("=UPPER(B2:B4)", g, 0, 6)
	assert.Equal(t, before, g)
}

func TestEvaluate_NumericErrors(t *testing.T) {
	assert.Equal(t, ErrDiv0, evalError(t, "=1/0", nil))
	assert.Equal(t, ErrNum, evalError(t, "=0/0", nil))
	assert.Equal(t, ErrValue, evalError(t, `="abc"*2`, nil))
}

func TestEvaluate_UnknownFunction(t *testing.T) {
	res := newTestEngine(t).Evaluate("=NOPE(1)", nil, 0, 0)
	require.Equal(t, ResultError, res.Kind)
	assert.Equal(t, ErrError, res.Err)
	assert.Equal(t, "#ERROR: NOPE is not defined", res.Token())
}

func TestEvaluate_SyntaxError(t *testing.T) {
	res := newTestEngine(t).Evaluate("=1+", nil, 0, 0)
	assert.Equal(t, ErrError, res.Err)
	assert.Contains(t, res.Message, "unexpected end of formula")
}

func TestEvaluate_ErrorTokenResult(t *testing.T) {
	assert.Equal(t, ErrNA, evalError(t, `="#N/A"`, nil))
}

func TestEvaluate_ArrayShapes(t *testing.T) {
	assert.Equal(t, [][]any{{2.0}, {4.0}, {6.0}}, evalArray(t, "=[1,2,3]*2", nil))
	assert.Equal(t, [][]any{{1.0, 2.0}, {3.0, 4.0}}, evalArray(t, "=[[1,2],[3,4]]", nil))
	assert.Equal(t, [][]any{{1.0, 2.0}, {3.0, ""}}, evalArray(t, "=[[1,2],[3]]", nil))
	assert.Equal(t, ErrNA, evalError(t, "=[]", nil))
}

func TestEvaluate_BroadcastMismatch(t *testing.T) {
	got := evalArray(t, "=[1,2,3]+[10,20]", nil)
	assert.Equal(t, [][]any{{11.0}, {22.0}, {"#N/A"}}, got)
}

func TestEvaluate_ElementErrorsBecomeTokens(t *testing.T) {
	got := evalArray(t, "=[1,0]/[0,0]", nil)
	assert.Equal(t, [][]any{{"#DIV/0!"}, {"#NUM!"}}, got)
}

func TestEvaluate_LogicalOperators(t *testing.T) {
	assert.Equal(t, true, evalScalar(t, "=1<2&&2<3", nil))
	assert.Equal(t, false, evalScalar(t, "=!(1||0)", nil))
	assert.Equal(t, true, evalScalar(t, `="b">"A"`, nil))
}

func TestEvaluate_RecoversFromPanics(t *testing.T) {
	lib := NewLibrary()
	lib.Register(&Function{Name: "BOOM", Call: func(*CallContext, []any) (any, error) {
		panic("boom")
	}})
	e := newTestEngine(t, WithLibrary(lib))
	res := e.Evaluate("=BOOM()", nil, 0, 0)
	require.Equal(t, ResultError, res.Kind)
	assert.Equal(t, ErrError, res.Err)
	assert.Contains(t, res.Message, "boom")
}

func TestEvaluateFormula_DefaultEngine(t *testing.T) {
	res := EvaluateFormula("=ROUND(2.5)", nil, 0, 0)
	assert.Equal(t, Result{Kind: ResultScalar, Value: 3.0}, res)
}

func TestResult_Accessors(t *testing.T) {
	arr := Result{Kind: ResultArray, Array: [][]any{{"a", "b"}, {"c", "d"}, {"e", "f"}}}
	assert.Equal(t, 3, arr.Rows())
	assert.Equal(t, 2, arr.Cols())
	assert.Equal(t, "a", arr.CellValue())
	assert.Equal(t, "array 3x2", arr.String())
	assert.Equal(t, "", arr.Token())

	scalar := Result{Kind: ResultScalar, Value: 4.0}
	assert.Equal(t, 1, scalar.Rows())
	assert.Equal(t, "4", scalar.String())

	errRes := Result{Kind: ResultError, Err: ErrSpill}
	assert.Equal(t, "#SPILL!", errRes.CellValue())
}
