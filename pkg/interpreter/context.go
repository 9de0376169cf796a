package interpreter

import (
	"fmt"
	"log/slog"

	"lorgn/interpreter-go/pkg/ast"
	"lorgn/interpreter-go/pkg/runtime"
)

// evalContext is the state of one top-level evaluation. It owns the scope
// stack and borrows the registry.
type evalContext struct {
	registry  *runtime.Registry
	scopes    *runtime.ScopeStack
	callStack []ast.Path
	tracer    *slog.Logger
}

var _ runtime.Invoker = (*evalContext)(nil)

// InvokeDefined runs a defined function body inside its own closed frame.
func (c *evalContext) InvokeDefined(fn *runtime.Function, args []runtime.Value) (runtime.Value, error) {
	def := fn.Definition()
	if def == nil || def.Body == nil {
		return runtime.None, nil
	}
	c.scopes.Push(runtime.NewScopeWith(def.Parameters, args, false))
	defer c.scopes.Pop()

	result, err := c.evaluateBlock(def.Body)
	if err != nil {
		switch sig := err.(type) {
		case returnSignal:
			return sig.value, nil
		case breakSignal:
			return nil, &runtime.ControlFlowError{Message: fmt.Sprintf("break outside of loop in function '%s'", fn.Name())}
		}
		return nil, err
	}
	return result, nil
}

// callPath resolves path, holds the function for the duration of the call
// and records the call for diagnostics.
func (c *evalContext) callPath(path ast.Path, args []runtime.Value) (runtime.Value, error) {
	handle, err := c.registry.FindFunction(path)
	if err != nil {
		return nil, c.fail(err)
	}
	defer handle.Release()

	c.callStack = append(c.callStack, path)
	defer func() { c.callStack = c.callStack[:len(c.callStack)-1] }()

	if c.tracer != nil {
		c.tracer.Debug("call", "function", path.String(), "kind", handle.Function().Kind().String(), "args", len(args), "depth", len(c.callStack))
	}
	result, err := handle.Call(c, args)
	if err != nil {
		if c.tracer != nil {
			c.tracer.Debug("fail", "function", path.String(), "error", err.Error())
		}
		return nil, c.fail(err)
	}
	if c.tracer != nil {
		c.tracer.Debug("return", "function", path.String(), "value", runtime.Inspect(result))
	}
	return result, nil
}

// fail attaches the current call stack to err unless a deeper frame already
// did.
func (c *evalContext) fail(err error) error {
	if _, ok := err.(*RuntimeError); ok {
		return err
	}
	stack := make([]ast.Path, len(c.callStack))
	copy(stack, c.callStack)
	return &RuntimeError{Err: err, Stack: stack}
}

func (c *evalContext) finish(val runtime.Value, err error) (runtime.Value, error) {
	if err != nil {
		switch err.(type) {
		case returnSignal:
			return nil, c.fail(&runtime.ControlFlowError{Message: "return outside of function"})
		case breakSignal:
			return nil, c.fail(&runtime.ControlFlowError{Message: "break outside of loop"})
		}
		return nil, c.fail(err)
	}
	if val == nil {
		return runtime.None, nil
	}
	return val, nil
}
