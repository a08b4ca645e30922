package xlspill

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func joinArgs(_ *CallContext, args []any) (any, error) {
	s := ""
	for _, a := range args {
		s += toText(a)
	}
	return s, nil
}

func TestHasArrayArg(t *testing.T) {
	assert.False(t, hasArrayArg([]any{1.0, "a"}))
	assert.True(t, hasArrayArg([]any{1.0, []any{"a"}}))
	assert.True(t, hasArrayArg([]any{[][]any{{1.0}}}))
}

func TestVectorize_BroadcastsScalarsAndPadsLists(t *testing.T) {
	fn := &Function{Name: "JOIN", Call: joinArgs}
	got := vectorize(nil, fn, []any{[]any{"a", "b", "c"}, []any{"x"}, "!"})
	assert.Equal(t, [][]any{{"ax!"}, {"b!"}, {"c!"}}, got)
}

func TestVectorize_FailedElementIsFalse(t *testing.T) {
	fn := &Function{Name: "FAIL", Call: func(_ *CallContext, args []any) (any, error) {
		if args[0] == "bad" {
			return nil, errors.New("bad element")
		}
		return args[0], nil
	}}
	got := vectorize(nil, fn, []any{[]any{"ok", "bad"}})
	assert.Equal(t, [][]any{{"ok"}, {false}}, got)
}

func TestVectorize_PanickingElementIsFalse(t *testing.T) {
	fn := &Function{Name: "PICK", Call: func(_ *CallContext, args []any) (any, error) {
		s := args[0].(string)
		return s[:2], nil
	}}
	got := vectorize(nil, fn, []any{[]any{"abc", "x", "def"}})
	assert.Equal(t, [][]any{{"ab"}, {false}, {"de"}}, got)
}

func TestElements(t *testing.T) {
	assert.Equal(t, []any{1.0, 2.0}, elements([][]any{{1.0}, {2.0}}))
	assert.Equal(t, []any{1.0, 2.0, 3.0, 4.0}, elements([][]any{{1.0, 2.0}, {3.0, 4.0}}))
	assert.Equal(t, []any{"a"}, elements([]any{"a"}))
}

func TestLibrary_InvokeChecksArity(t *testing.T) {
	lib := NewLibrary()
	fn, ok := lib.Lookup("left")
	assert.True(t, ok)
	_, err := lib.invoke(nil, fn, nil)
	var fe *FormulaError
	assert.ErrorAs(t, err, &fe)
	assert.Equal(t, ErrValue, fe.Kind)
}

func TestLibrary_NamesSorted(t *testing.T) {
	names := NewLibrary().Names()
	assert.Contains(t, names, "FILTER")
	assert.Contains(t, names, "XLOOKUP")
	assert.IsNonDecreasing(t, names)
}
