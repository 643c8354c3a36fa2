// Package scripting runs player rehearsal scripts inside a bounded
// Starlark interpreter: an explicit allow-list environment, a
// deterministic execution-step budget, and a closed failure
// classification. It is a containment boundary for buggy or runaway
// scripts, not a hardened security boundary.
package scripting

import (
	"errors"
	"fmt"
	"strings"

	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"go.uber.org/zap"
)

// DefaultStepLimit is the execution-step budget used when the caller
// does not override it.
const DefaultStepLimit = 8000

// scriptFilename tags positions originating from the submitted source
// text, so runtime faults can be attributed to a user line rather than
// to sandbox internals.
const scriptFilename = "rehearsal"

// Bindings is the caller-supplied symbol table merged into the script's
// visible environment. The band handle lives here.
type Bindings map[string]starlark.Value

// Sandbox executes rehearsal scripts. Only one Execute may be active at
// a time against a given band; each call builds its own interpreter
// thread and environment, so nothing carries over between runs.
type Sandbox struct {
	stepLimit int
	log       *zap.Logger

	// Print receives script print() output. Defaults to debug logging.
	Print func(msg string)
}

// New returns a sandbox with the given step budget (<= 0 selects
// DefaultStepLimit).
func New(stepLimit int, log *zap.Logger) *Sandbox {
	if stepLimit <= 0 {
		stepLimit = DefaultStepLimit
	}
	return &Sandbox{stepLimit: stepLimit, log: log}
}

// fileOpts enables the imperative dialect rehearsal scripts are written
// in: top-level for/if, while, set literals, reassignment, recursion.
// Recursion in particular must be on, otherwise the step budget would
// never be the binding limit.
var fileOpts = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// Execute runs src against the allow-list environment plus bindings.
// It never panics or returns an error: every failure path, including
// interpreter faults, is converted into a Result with OK=false. The
// step counter lives on a per-call thread that is discarded on every
// exit path, so a failed run cannot leak instrumentation into the next
// one.
func (s *Sandbox) Execute(src string, bindings Bindings) (res Result) {
	thread := &starlark.Thread{Name: "rehearsal"}
	thread.SetMaxExecutionSteps(uint64(s.stepLimit))
	thread.Print = func(_ *starlark.Thread, msg string) {
		if s.Print != nil {
			s.Print(msg)
		} else if s.log != nil {
			s.log.Debug("script print", zap.String("msg", msg))
		}
	}

	defer func() {
		if r := recover(); r != nil {
			if s.log != nil {
				s.log.Error("sandbox panic", zap.Any("panic", r))
			}
			res = Result{
				OK:      false,
				Kind:    KindRuntime,
				Message: fmt.Sprintf("internal error: %v", r),
				Steps:   int64(thread.ExecutionSteps()),
			}
		}
	}()

	env := newEnv(bindings)
	_, err := starlark.ExecFileOptions(fileOpts, thread, scriptFilename, src, env)
	steps := int64(thread.ExecutionSteps())
	if err == nil {
		return Result{OK: true, Steps: steps}
	}

	kind, msg, line := classify(err)
	return Result{OK: false, Kind: kind, Message: msg, Line: line, Steps: steps}
}

// classify maps an interpreter error onto the closed ErrorKind set and
// extracts the offending 1-based source line where determinable.
func classify(err error) (ErrorKind, string, int) {
	// The step-budget trip surfaces as a cancellation; check it first
	// so it cannot be mistaken for a generic runtime fault.
	if strings.Contains(err.Error(), "too many steps") {
		return KindStepLimit, "rehearsal ran too long (possible infinite loop)", userLine(err)
	}

	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		kind, msg := classifyRuntime(evalErr.Msg)
		return kind, msg, userLine(err)
	}

	// Static resolve errors: undefined names and friends, reported with
	// the parser's position before anything executed.
	var rerrs resolve.ErrorList
	if errors.As(err, &rerrs) && len(rerrs) > 0 {
		first := rerrs[0]
		if name, ok := strings.CutPrefix(first.Msg, "undefined: "); ok {
			return KindName, nameErrorMessage(name), int(first.Pos.Line)
		}
		return KindParse, first.Msg, int(first.Pos.Line)
	}

	var serr syntax.Error
	if errors.As(err, &serr) {
		return KindParse, serr.Msg, int(serr.Pos.Line)
	}

	return KindRuntime, err.Error(), 0
}

// typeErrorMarkers are message fragments the interpreter and the
// binding layer use for bad operand/argument types.
var typeErrorMarkers = []string{
	"unknown binary op",
	"unsupported binary op",
	"unknown unary op",
	"for parameter",
	"not callable",
	"not iterable",
	"unhashable",
	"has no len",
	"cannot convert",
	"invalid index",
	"want int",
	"want string",
}

func classifyRuntime(msg string) (ErrorKind, string) {
	if name, ok := strings.CutPrefix(msg, "undefined: "); ok {
		return KindName, nameErrorMessage(name)
	}
	if strings.Contains(msg, "referred to before assignment") {
		return KindName, msg + " (define the variable first)"
	}
	for _, marker := range typeErrorMarkers {
		if strings.Contains(msg, marker) {
			return KindType, msg
		}
	}
	return KindRuntime, msg
}

func nameErrorMessage(name string) string {
	return fmt.Sprintf("name %q is not defined (define the variable first)", name)
}

// userLine walks the call stack innermost-first and returns the line of
// the deepest frame that originates from the submitted source text,
// skipping frames that belong to built-ins or sandbox internals. 0
// means no user frame was found.
func userLine(err error) int {
	var evalErr *starlark.EvalError
	if !errors.As(err, &evalErr) {
		return 0
	}
	stack := evalErr.CallStack
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Pos.Filename() == scriptFilename {
			return int(stack[i].Pos.Line)
		}
	}
	return 0
}
