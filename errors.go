package xlspill

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies spreadsheet error values.
type ErrorKind int

const (
	ErrNone  ErrorKind = iota
	ErrValue           // wrong type or arity, blank required input, failed search
	ErrRef             // index or column out of bounds
	ErrNA              // lookup, match, IFS or FILTER found nothing
	ErrDiv0            // non-finite numeric result
	ErrNum             // NaN result or invalid numeric domain
	ErrSpill           // array footprint is occupied
	ErrError           // anything else, carries a message
)

// Token returns the cell text for the kind, e.g. "#N/A".
// ErrError renders without its message; see FormulaError.Token.
func (k ErrorKind) Token() string {
	switch k {
	case ErrValue:
		return "#VALUE!"
	case ErrRef:
		return "#REF!"
	case ErrNA:
		return "#N/A"
	case ErrDiv0:
		return "#DIV/0!"
	case ErrNum:
		return "#NUM!"
	case ErrSpill:
		return "#SPILL!"
	case ErrError:
		return "#ERROR"
	default:
		return ""
	}
}

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrNone:
		return "NONE"
	case ErrValue:
		return "VALUE"
	case ErrRef:
		return "REF"
	case ErrNA:
		return "N/A"
	case ErrDiv0:
		return "DIV0"
	case ErrNum:
		return "NUM"
	case ErrSpill:
		return "SPILL"
	case ErrError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FormulaError is raised by library functions and the interpreter. Its
// Kind survives to the evaluator boundary.
type FormulaError struct {
	Kind    ErrorKind
	Message string
}

func (e *FormulaError) Error() string {
	if e.Message == "" {
		return e.Kind.Token()
	}
	return e.Kind.Token() + " " + e.Message
}

// Token renders the error as cell text. ErrError carries its message as
// "#ERROR: <message>".
func (e *FormulaError) Token() string {
	if e.Kind == ErrError && e.Message != "" {
		return "#ERROR: " + e.Message
	}
	return e.Kind.Token()
}

func newError(kind ErrorKind, format string, args ...any) *FormulaError {
	return &FormulaError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// asFormulaError extracts a FormulaError from err, downgrading any other
// error to ErrError with its message.
func asFormulaError(err error) *FormulaError {
	var fe *FormulaError
	if errors.As(err, &fe) {
		return fe
	}
	return &FormulaError{Kind: ErrError, Message: err.Error()}
}

var errorTokens = map[string]ErrorKind{
	"#VALUE!": ErrValue,
	"#REF!":   ErrRef,
	"#N/A":    ErrNA,
	"#DIV/0!": ErrDiv0,
	"#NUM!":   ErrNum,
	"#SPILL!": ErrSpill,
	"#ERROR":  ErrError,
}

// ParseErrorToken maps cell text back to its ErrorKind.
func ParseErrorToken(s string) (ErrorKind, bool) {
	if k, ok := errorTokens[s]; ok {
		return k, true
	}
	if strings.HasPrefix(s, "#ERROR:") {
		return ErrError, true
	}
	return ErrNone, false
}

// IsErrorToken reports whether a cell value is an error token. The editor
// uses this to style error cells.
func IsErrorToken(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, ok = ParseErrorToken(s)
	return ok
}
