package scripting

// ErrorKind is the closed classification of sandbox failures. Whatever
// the interpreter raises internally is mapped onto one of these at the
// sandbox boundary; interpreter-specific error types never leak out.
type ErrorKind int

const (
	// KindNone means the run succeeded.
	KindNone ErrorKind = iota
	// KindParse: the source text itself could not be parsed.
	KindParse
	// KindName: a reference to a symbol that is not defined.
	KindName
	// KindType: invalid operand or argument types.
	KindType
	// KindStepLimit: the execution-step budget was exhausted.
	KindStepLimit
	// KindRuntime: any other fault raised during execution.
	KindRuntime
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindParse:
		return "parse_error"
	case KindName:
		return "name_error"
	case KindType:
		return "type_error"
	case KindStepLimit:
		return "step_limit"
	case KindRuntime:
		return "runtime_error"
	}
	return "unknown"
}

// Result reports the outcome of one sandboxed script run. Line is
// 1-based within the submitted source text, 0 when no user line could
// be determined. Steps counts interpreter steps actually executed,
// including the run that tripped the budget.
type Result struct {
	OK      bool
	Kind    ErrorKind
	Message string
	Line    int
	Steps   int64
}
