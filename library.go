package xlspill

import (
	"sort"
	"strings"
	"time"
)

// Variadic marks a Function without an upper argument bound.
const Variadic = -1

// CallContext carries the engine state a function may read.
type CallContext struct {
	Clock       Clock
	PreviewRows int
}

func (c *CallContext) now() time.Time {
	if c == nil || c.Clock == nil {
		return time.Now()
	}
	return c.Clock.Now()
}

// Function is one entry of the formula library.
type Function struct {
	Name    string
	MinArgs int
	MaxArgs int // Variadic for no limit

	// Vectorized functions are applied element-wise when any argument is
	// an array, producing a column vector.
	Vectorized bool

	// CatchErrors functions receive failed arguments as *FormulaError
	// values instead of aborting the call.
	CatchErrors bool

	Call func(ctx *CallContext, args []any) (any, error)
}

// Library maps upper-case function names to their definitions.
type Library struct {
	funcs map[string]*Function
}

// NewLibrary creates a library with the built-in functions.
func NewLibrary() *Library {
	l := &Library{funcs: make(map[string]*Function)}
	registerMath(l)
	registerLogical(l)
	registerText(l)
	registerDate(l)
	registerCriteria(l)
	registerLookup(l)
	registerArray(l)
	return l
}

// Register adds or replaces a function.
func (l *Library) Register(fn *Function) {
	l.funcs[strings.ToUpper(fn.Name)] = fn
}

// Lookup finds a function by name, ignoring case.
func (l *Library) Lookup(name string) (*Function, bool) {
	fn, ok := l.funcs[strings.ToUpper(name)]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.funcs))
	for name := range l.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// invoke checks arity and dispatches, vectorizing when the function asks
// for it.
func (l *Library) invoke(ctx *CallContext, fn *Function, args []any) (any, error) {
	if len(args) < fn.MinArgs || (fn.MaxArgs != Variadic && len(args) > fn.MaxArgs) {
		return nil, newError(ErrValue, "%s: wrong number of arguments (%d)", fn.Name, len(args))
	}
	if fn.Vectorized && hasArrayArg(args) {
		return vectorize(ctx, fn, args), nil
	}
	return fn.Call(ctx, args)
}
