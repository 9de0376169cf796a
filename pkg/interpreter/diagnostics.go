package interpreter

import (
	"errors"
	"fmt"
	"strings"

	"lorgn/interpreter-go/pkg/ast"
	"lorgn/interpreter-go/pkg/runtime"
)

// RuntimeError is returned by Evaluate and Call for every script-level
// failure. Stack lists the active calls, outermost first, at the point of
// failure.
type RuntimeError struct {
	Err   error
	Stack []ast.Path
}

func (e *RuntimeError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// ErrorCategory names the failure class of err, or "" when err does not come
// from the evaluator.
func ErrorCategory(err error) string {
	var (
		arity       *runtime.ArityError
		unboundVar  *runtime.UnboundVariableError
		unboundFn   *runtime.UnboundFunctionError
		unknownMod  *runtime.UnknownModuleError
		typeErr     *runtime.TypeError
		controlFlow *runtime.ControlFlowError
		unsupported *runtime.UnsupportedOperationError
		reentrant   *runtime.ReentrantCallError
		native      *runtime.NativeError
	)
	switch {
	case errors.As(err, &arity):
		return "ArityError"
	case errors.As(err, &unboundVar):
		return "UnboundVariable"
	case errors.As(err, &unboundFn):
		return "UnboundFunction"
	case errors.As(err, &unknownMod):
		return "UnknownModule"
	case errors.As(err, &typeErr):
		return "TypeError"
	case errors.As(err, &controlFlow):
		return "ControlFlowError"
	case errors.As(err, &unsupported):
		return "UnsupportedOperation"
	case errors.As(err, &reentrant):
		return "ReentrantCall"
	case errors.As(err, &native):
		return "NativeError"
	default:
		return ""
	}
}

type RuntimeDiagnosticNote struct {
	Message string
	Path    ast.Path
}

type RuntimeDiagnostic struct {
	Category string
	Message  string
	Notes    []RuntimeDiagnosticNote
}

// BuildRuntimeDiagnostic turns an evaluation error into a report. The
// innermost call comes first in Notes.
func BuildRuntimeDiagnostic(err error) RuntimeDiagnostic {
	diag := RuntimeDiagnostic{Category: ErrorCategory(err)}
	if err != nil {
		diag.Message = err.Error()
	}
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		for idx := len(rtErr.Stack) - 1; idx >= 0 && len(diag.Notes) < 8; idx-- {
			diag.Notes = append(diag.Notes, RuntimeDiagnosticNote{
				Message: "in call to",
				Path:    rtErr.Stack[idx],
			})
		}
	}
	return diag
}

func DescribeRuntimeDiagnostic(diag RuntimeDiagnostic) string {
	var b strings.Builder
	b.WriteString("runtime: ")
	if diag.Category != "" {
		fmt.Fprintf(&b, "%s: ", diag.Category)
	}
	b.WriteString(strings.TrimSpace(diag.Message))
	for _, note := range diag.Notes {
		fmt.Fprintf(&b, "\nnote: %s %s", note.Message, note.Path)
	}
	return b.String()
}
