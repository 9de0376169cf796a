package runtime

import (
	"fmt"

	"lorgn/interpreter-go/pkg/ast"
)

// ArityError reports a call whose argument count does not match the callee.
type ArityError struct {
	Function string
	Expected int
	Got      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("function '%s' expects %d arguments, got %d", e.Function, e.Expected, e.Got)
}

// UnboundVariableError reports a variable that is not visible from the
// current frame.
type UnboundVariableError struct {
	Name string
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("undefined variable '%s'", e.Name)
}

type UnknownModuleError struct {
	Module string
}

func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("unknown module '%s'", e.Module)
}

type UnboundFunctionError struct {
	Path ast.Path
}

func (e *UnboundFunctionError) Error() string {
	return fmt.Sprintf("module '%s' has no function '%s'", e.Path.Module, e.Path.Item)
}

// TypeError reports a value of the wrong variant where a specific one was
// required.
type TypeError struct {
	Expected Kind
	Got      string
	Context  string
}

func newTypeError(expected Kind, got Value) *TypeError {
	return &TypeError{Expected: expected, Got: kindOf(got)}
}

func (e *TypeError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s must be %s, got %s", e.Context, e.Expected, e.Got)
	}
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Got)
}

// ControlFlowError reports a return or break signal that escaped every
// boundary able to consume it.
type ControlFlowError struct {
	Message string
}

func (e *ControlFlowError) Error() string {
	return e.Message
}

type UnsupportedOperationError struct {
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation: %s", e.Operation)
}

// ReentrantCallError reports an overlapping call into a native function whose
// handler is still running.
type ReentrantCallError struct {
	Path ast.Path
}

func (e *ReentrantCallError) Error() string {
	return fmt.Sprintf("function '%s' is already executing", e.Path)
}

// NativeError wraps a failure returned by a host handler.
type NativeError struct {
	Function string
	Err      error
}

func (e *NativeError) Error() string {
	return fmt.Sprintf("native function '%s' failed: %v", e.Function, e.Err)
}

func (e *NativeError) Unwrap() error {
	return e.Err
}
