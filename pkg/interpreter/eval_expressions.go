package interpreter

import (
	"fmt"
	"reflect"

	"lorgn/interpreter-go/pkg/ast"
	"lorgn/interpreter-go/pkg/runtime"
)

func (c *evalContext) evaluateExpression(node ast.Expression) (runtime.Value, error) {
	if isNilNode(node) {
		if _, ok := node.(*ast.Block); ok {
			return runtime.None, nil
		}
		return nil, &runtime.UnsupportedOperationError{Operation: fmt.Sprintf("evaluating nil %T", node)}
	}
	switch n := node.(type) {
	case nil:
		return runtime.None, nil
	case *ast.Block:
		return c.evaluateBlock(n)
	case *ast.Assignment:
		return c.evaluateAssignment(n)
	case *ast.Invoke:
		return c.evaluateInvoke(n)
	case *ast.StringLiteral:
		return runtime.String(n.Value), nil
	case *ast.IntegerLiteral:
		return runtime.Integer(n.Value), nil
	case *ast.FloatLiteral:
		return runtime.Float(n.Value), nil
	case *ast.BooleanLiteral:
		return runtime.Bool(n.Value), nil
	case *ast.ListLiteral:
		return c.evaluateListLiteral(n)
	case *ast.MapLiteral:
		return c.evaluateMapLiteral(n)
	case *ast.FunctionCall:
		return c.evaluateFunctionCall(n)
	case *ast.Condition:
		return c.evaluateCondition(n)
	case *ast.Loop:
		return c.evaluateLoop(n)
	case *ast.Return:
		return c.evaluateReturn(n)
	case *ast.Break:
		return c.evaluateBreak(n)
	default:
		return nil, &runtime.UnsupportedOperationError{Operation: fmt.Sprintf("evaluating %s", n.NodeType())}
	}
}

// isNilNode reports a typed nil pointer stored in a non-nil expression.
func isNilNode(node ast.Expression) bool {
	if node == nil {
		return false
	}
	v := reflect.ValueOf(node)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// evaluateBlock stops at the first signal; an empty block is none.
func (c *evalContext) evaluateBlock(block *ast.Block) (runtime.Value, error) {
	var result runtime.Value = runtime.None
	if block == nil {
		return result, nil
	}
	for _, expr := range block.Expressions {
		val, err := c.evaluateExpression(expr)
		if err != nil {
			return nil, err
		}
		result = val
	}
	return result, nil
}

func (c *evalContext) evaluateAssignment(assign *ast.Assignment) (runtime.Value, error) {
	val, err := c.evaluateExpression(assign.Value)
	if err != nil {
		return nil, err
	}
	if !c.scopes.Insert(assign.Name, val) {
		return nil, &runtime.ControlFlowError{Message: fmt.Sprintf("assignment to '%s' outside of a function scope", assign.Name)}
	}
	return val, nil
}

func (c *evalContext) evaluateInvoke(invoke *ast.Invoke) (runtime.Value, error) {
	val, ok := c.scopes.Lookup(invoke.Name)
	if !ok {
		return nil, &runtime.UnboundVariableError{Name: invoke.Name}
	}
	return val, nil
}

func (c *evalContext) evaluateListLiteral(lit *ast.ListLiteral) (runtime.Value, error) {
	values := make([]runtime.Value, 0, len(lit.Elements))
	for _, el := range lit.Elements {
		val, err := c.evaluateExpression(el)
		if err != nil {
			return nil, err
		}
		values = append(values, val)
	}
	return runtime.NewList(values...), nil
}

func (c *evalContext) evaluateMapLiteral(lit *ast.MapLiteral) (runtime.Value, error) {
	fields := make(map[string]runtime.Value, len(lit.Entries))
	for _, entry := range lit.Entries {
		if entry == nil {
			continue
		}
		val, err := c.evaluateExpression(entry.Value)
		if err != nil {
			return nil, err
		}
		fields[entry.Key] = val
	}
	return runtime.NewObject(fields), nil
}

// evaluateFunctionCall evaluates arguments left to right; the first signal or
// error abandons the call before the callee is resolved.
func (c *evalContext) evaluateFunctionCall(call *ast.FunctionCall) (runtime.Value, error) {
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, argExpr := range call.Arguments {
		val, err := c.evaluateExpression(argExpr)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return c.callPath(call.Path, args)
}

func (c *evalContext) evaluateCondition(cond *ast.Condition) (runtime.Value, error) {
	test, err := c.evaluateExpression(cond.Test)
	if err != nil {
		return nil, err
	}
	ok, err := runtime.ExpectBool(test)
	if err != nil {
		if typeErr, isType := err.(*runtime.TypeError); isType {
			typeErr.Context = "condition"
		}
		return nil, err
	}
	if ok {
		return c.evaluateExpression(cond.WhenTrue)
	}
	return c.evaluateExpression(cond.WhenFalse)
}

// evaluateLoop repeats the body until it breaks. Plain completion of the body
// never ends the loop and returns pass straight through.
func (c *evalContext) evaluateLoop(loop *ast.Loop) (runtime.Value, error) {
	for {
		_, err := c.evaluateExpression(loop.Body)
		if err == nil {
			continue
		}
		if sig, ok := err.(breakSignal); ok {
			return sig.value, nil
		}
		return nil, err
	}
}

func (c *evalContext) evaluateReturn(ret *ast.Return) (runtime.Value, error) {
	val, err := c.evaluateExpression(ret.Argument)
	if err != nil {
		return nil, err
	}
	return nil, returnSignal{value: val}
}

// evaluateBreak lets a pending return win over the break being built.
func (c *evalContext) evaluateBreak(brk *ast.Break) (runtime.Value, error) {
	val, err := c.evaluateExpression(brk.Argument)
	if err != nil {
		return nil, err
	}
	return nil, breakSignal{value: val}
}
