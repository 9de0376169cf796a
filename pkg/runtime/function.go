package runtime

import (
	"fmt"
	"sync"

	"lorgn/interpreter-go/pkg/ast"
)

// FunctionKind selects how a Function is executed.
type FunctionKind int

const (
	FunctionDefined FunctionKind = iota
	FunctionNative
	FunctionImported
)

func (k FunctionKind) String() string {
	switch k {
	case FunctionDefined:
		return "defined"
	case FunctionNative:
		return "native"
	case FunctionImported:
		return "imported"
	default:
		return fmt.Sprintf("unknown_function_kind_%d", int(k))
	}
}

// NativeFunc is a host handler. It receives exactly the declared number of
// arguments.
type NativeFunc func(args []Value) (Value, error)

// Invoker evaluates the body of a defined function. The interpreter context
// implements it.
type Invoker interface {
	InvokeDefined(fn *Function, args []Value) (Value, error)
}

// Function is a callable stored in a module. Its shape is fixed at
// construction.
type Function struct {
	name       string
	kind       FunctionKind
	definition *ast.FunctionDefinition
	arity      int
	handler    NativeFunc
	target     ast.Path

	// mu guards native handlers against overlapping calls.
	mu sync.Mutex
}

// NewDefinedFunction wraps a function definition from the syntax tree.
func NewDefinedFunction(name string, definition *ast.FunctionDefinition) *Function {
	arity := 0
	if definition != nil {
		arity = len(definition.Parameters)
	}
	return &Function{name: name, kind: FunctionDefined, definition: definition, arity: arity}
}

// NewNativeFunction wraps a host handler with a fixed arity.
func NewNativeFunction(name string, arity int, handler NativeFunc) *Function {
	return &Function{name: name, kind: FunctionNative, arity: arity, handler: handler}
}

// NewImportedFunction references item inside module.
func NewImportedFunction(item, module string) *Function {
	return &Function{name: item, kind: FunctionImported, arity: -1, target: ast.NewPath(module, item)}
}

func (f *Function) Name() string { return f.name }

func (f *Function) Kind() FunctionKind { return f.kind }

// Arity is the expected argument count, or -1 when unknown (imports).
func (f *Function) Arity() int { return f.arity }

// Definition returns the syntax tree of a defined function.
func (f *Function) Definition() *ast.FunctionDefinition { return f.definition }

// Target returns the path an imported function refers to.
func (f *Function) Target() (ast.Path, bool) {
	return f.target, f.kind == FunctionImported
}

// Call runs the function with already evaluated arguments.
func (f *Function) Call(inv Invoker, args []Value) (Value, error) {
	switch f.kind {
	case FunctionNative:
		if len(args) != f.arity {
			return nil, &ArityError{Function: f.name, Expected: f.arity, Got: len(args)}
		}
		if f.handler == nil {
			return nil, &UnsupportedOperationError{Operation: fmt.Sprintf("native function '%s' has no handler", f.name)}
		}
		result, err := f.handler(args)
		if err != nil {
			return nil, &NativeError{Function: f.name, Err: err}
		}
		if result == nil {
			return None, nil
		}
		return result, nil
	case FunctionDefined:
		if len(args) != f.arity {
			return nil, &ArityError{Function: f.name, Expected: f.arity, Got: len(args)}
		}
		if inv == nil {
			return nil, &UnsupportedOperationError{Operation: fmt.Sprintf("calling '%s' without an evaluation context", f.name)}
		}
		return inv.InvokeDefined(f, args)
	case FunctionImported:
		return nil, &UnsupportedOperationError{Operation: fmt.Sprintf("calling imported function '%s'", f.target)}
	default:
		return nil, &UnsupportedOperationError{Operation: fmt.Sprintf("calling function of kind %s", f.kind)}
	}
}

// FunctionHandle is exclusive access to one function for the duration of a
// call. Release must be called exactly once.
type FunctionHandle struct {
	fn     *Function
	path   ast.Path
	locked bool
}

func (h *FunctionHandle) Function() *Function { return h.fn }

func (h *FunctionHandle) Path() ast.Path { return h.path }

// Call forwards to the held function.
func (h *FunctionHandle) Call(inv Invoker, args []Value) (Value, error) {
	return h.fn.Call(inv, args)
}

func (h *FunctionHandle) Release() {
	if h == nil || !h.locked {
		return
	}
	h.locked = false
	h.fn.mu.Unlock()
}

func (f *Function) acquire(path ast.Path) (*FunctionHandle, error) {
	if f.kind != FunctionNative {
		return &FunctionHandle{fn: f, path: path}, nil
	}
	if !f.mu.TryLock() {
		return nil, &ReentrantCallError{Path: path}
	}
	return &FunctionHandle{fn: f, path: path, locked: true}, nil
}
