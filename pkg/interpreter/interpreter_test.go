package interpreter

import (
	"errors"
	"testing"

	"lorgn/interpreter-go/pkg/ast"
	"lorgn/interpreter-go/pkg/runtime"
)

func TestEmptyBlockYieldsNone(t *testing.T) {
	interp := New(nil)
	val := mustEvaluate(t, interp, ast.Do())
	if !runtime.IsNone(val) {
		t.Fatalf("expected none, got %#v", val)
	}
}

func TestBlockYieldsLastValue(t *testing.T) {
	interp, p := newProbeInterpreter(t)
	val := mustEvaluate(t, interp, ast.Do(
		ast.Call("probe", "hit", ast.Str("a")),
		ast.Call("probe", "hit", ast.Str("b")),
		ast.Int(3),
	))
	expectInteger(t, val, 3)
	if p.hits["a"] != 1 || p.hits["b"] != 1 {
		t.Fatalf("expected every child evaluated once, got %v", p.hits)
	}
}

func TestBlockStopsAtFirstSignal(t *testing.T) {
	interp, p := newProbeInterpreter(t)
	val, err := runInFunction(t, interp,
		ast.Call("probe", "hit", ast.Str("before")),
		ast.Ret(ast.Int(7)),
		ast.Call("probe", "hit", ast.Str("after")),
	)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	expectInteger(t, val, 7)
	if p.hits["before"] != 1 {
		t.Fatalf("expected child before the return to run once, got %d", p.hits["before"])
	}
	if p.hits["after"] != 0 {
		t.Fatalf("child after the return must not run, ran %d times", p.hits["after"])
	}
}

func TestLoopBreakImmediately(t *testing.T) {
	interp, p := newProbeInterpreter(t)
	val := mustEvaluate(t, interp, ast.LoopOf(ast.Do(
		ast.Call("probe", "hit", ast.Str("body")),
		ast.Brk(ast.Int(42)),
	)))
	expectInteger(t, val, 42)
	if p.hits["body"] != 1 {
		t.Fatalf("expected body evaluated once, got %d", p.hits["body"])
	}
}

func TestLoopIteratesUntilBreak(t *testing.T) {
	interp, p := newProbeInterpreter(t)
	body := ast.Do(
		ast.Call("probe", "hit", ast.Str("iteration")),
		ast.If(ast.Call("probe", "toggle"), ast.Brk(ast.Str("done")), ast.Int(0)),
	)
	val := mustEvaluate(t, interp, ast.LoopOf(body))
	if s, ok := runtime.AsString(val); !ok || s != "done" {
		t.Fatalf("expected string 'done', got %#v", val)
	}
	if p.hits["iteration"] != 2 {
		t.Fatalf("expected two iterations, got %d", p.hits["iteration"])
	}
}

func TestLoopPropagatesReturn(t *testing.T) {
	interp, p := newProbeInterpreter(t)
	val, err := runInFunction(t, interp,
		ast.LoopOf(ast.Ret(ast.Str("out"))),
		ast.Call("probe", "hit", ast.Str("after-loop")),
	)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if s, ok := runtime.AsString(val); !ok || s != "out" {
		t.Fatalf("expected string 'out', got %#v", val)
	}
	if p.hits["after-loop"] != 0 {
		t.Fatalf("return must leave the function, not only the loop")
	}
}

func TestEarlyReturnSkipsTrailingExpression(t *testing.T) {
	interp, p := newProbeInterpreter(t)
	val, err := runInFunction(t, interp,
		ast.If(ast.Bool(true), ast.Ret(ast.Int(1)), ast.Int(0)),
		ast.Call("probe", "hit", ast.Str("trailing")),
		ast.Int(999),
	)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	expectInteger(t, val, 1)
	if p.hits["trailing"] != 0 {
		t.Fatalf("trailing expression must not be evaluated")
	}
}

func TestNestedReturnIsTransparent(t *testing.T) {
	interp, _ := newProbeInterpreter(t)
	val, err := runInFunction(t, interp, ast.Ret(ast.Ret(ast.Int(5))), ast.Int(0))
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	expectInteger(t, val, 5)
}

func TestReturnDominatesBreak(t *testing.T) {
	interp, _ := newProbeInterpreter(t)
	val, err := runInFunction(t, interp,
		ast.LoopOf(ast.Brk(ast.Ret(ast.Str("returned")))),
		ast.Str("loop finished"),
	)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if s, ok := runtime.AsString(val); !ok || s != "returned" {
		t.Fatalf("expected the return to escape the loop, got %#v", val)
	}
}

func TestNestedBreakStaysBreak(t *testing.T) {
	interp := New(nil)
	val := mustEvaluate(t, interp, ast.LoopOf(ast.Brk(ast.Brk(ast.Int(9)))))
	expectInteger(t, val, 9)
}

func TestBreakAtFunctionTopLevelFails(t *testing.T) {
	interp, _ := newProbeInterpreter(t)
	_, err := runInFunction(t, interp, ast.Brk(ast.Int(1)))
	var cf *runtime.ControlFlowError
	if !errors.As(err, &cf) {
		t.Fatalf("expected control flow error, got %v", err)
	}
}

func TestTopLevelSignalsFail(t *testing.T) {
	interp := New(nil)
	for name, expr := range map[string]ast.Expression{
		"return": ast.Ret(ast.Int(1)),
		"break":  ast.Do(ast.Brk(ast.Int(1))),
	} {
		_, err := interp.Evaluate(expr)
		var cf *runtime.ControlFlowError
		if !errors.As(err, &cf) {
			t.Fatalf("%s: expected control flow error, got %v", name, err)
		}
	}
}

func TestBreakInsideCalleeDoesNotReachCallerLoop(t *testing.T) {
	interp := New(nil)
	interp.LoadModule("m", ast.Mod(
		ast.Fn("breaker", nil, ast.Brk(ast.Int(1))),
	))
	_, err := interp.Evaluate(ast.LoopOf(ast.Call("m", "breaker")))
	var cf *runtime.ControlFlowError
	if !errors.As(err, &cf) {
		t.Fatalf("expected control flow error from callee, got %v", err)
	}
}

func TestConditionRequiresBool(t *testing.T) {
	interp, p := newProbeInterpreter(t)
	_, err := interp.Evaluate(ast.If(
		ast.Int(1),
		ast.Call("probe", "hit", ast.Str("yes")),
		ast.Call("probe", "hit", ast.Str("no")),
	))
	var typeErr *runtime.TypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected type error, got %v", err)
	}
	if typeErr.Expected != runtime.KindBool || typeErr.Got != "integer" {
		t.Fatalf("unexpected type error %#v", typeErr)
	}
	if len(p.hits) != 0 {
		t.Fatalf("no branch may run on a type error, got %v", p.hits)
	}
}

func TestConditionEvaluatesOneBranch(t *testing.T) {
	interp, p := newProbeInterpreter(t)
	val := mustEvaluate(t, interp, ast.If(
		ast.Bool(false),
		ast.Call("probe", "hit", ast.Str("yes")),
		ast.Call("probe", "hit", ast.Str("no")),
	))
	if s, _ := runtime.AsString(val); s != "no" {
		t.Fatalf("expected false branch value, got %#v", val)
	}
	if p.hits["yes"] != 0 || p.hits["no"] != 1 {
		t.Fatalf("unexpected branch hits %v", p.hits)
	}
}

func TestConditionPropagatesSignalFromTest(t *testing.T) {
	interp, p := newProbeInterpreter(t)
	val, err := runInFunction(t, interp,
		ast.If(
			ast.Ret(ast.Int(4)),
			ast.Call("probe", "hit", ast.Str("yes")),
			ast.Call("probe", "hit", ast.Str("no")),
		),
	)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	expectInteger(t, val, 4)
	if len(p.hits) != 0 {
		t.Fatalf("branches must not run when the test returns, got %v", p.hits)
	}
}

func TestAssignmentIsAnExpression(t *testing.T) {
	interp := New(nil)
	val, err := runInFunction(t, interp,
		ast.Assign("y", ast.Assign("x", ast.Int(3))),
		ast.List(ast.Var("x"), ast.Var("y")),
	)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	list, ok := runtime.AsList(val)
	if !ok || list.Len() != 2 {
		t.Fatalf("expected list of two, got %#v", val)
	}
	for idx := 0; idx < 2; idx++ {
		el, _ := list.At(idx)
		expectInteger(t, el, 3)
	}
}

func TestAssignmentOverwrites(t *testing.T) {
	interp := New(nil)
	val, err := runInFunction(t, interp,
		ast.Assign("x", ast.Int(1)),
		ast.Assign("x", ast.Int(2)),
		ast.Var("x"),
	)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	expectInteger(t, val, 2)
}

func TestTopLevelInvokeIsUnbound(t *testing.T) {
	interp := New(nil)
	_, err := interp.Evaluate(ast.Var("x"))
	var unbound *runtime.UnboundVariableError
	if !errors.As(err, &unbound) || unbound.Name != "x" {
		t.Fatalf("expected unbound variable x, got %v", err)
	}
}

func TestTopLevelAssignmentFails(t *testing.T) {
	interp := New(nil)
	_, err := interp.Evaluate(ast.Assign("x", ast.Int(1)))
	var cf *runtime.ControlFlowError
	if !errors.As(err, &cf) {
		t.Fatalf("expected control flow error, got %v", err)
	}
}

func TestTypedNilNodesAreRejected(t *testing.T) {
	interp := New(nil)
	for name, expr := range map[string]ast.Expression{
		"return":    (*ast.Return)(nil),
		"break":     (*ast.Break)(nil),
		"loop":      (*ast.Loop)(nil),
		"condition": (*ast.Condition)(nil),
		"assign":    (*ast.Assignment)(nil),
		"literal":   (*ast.IntegerLiteral)(nil),
		"nested":    ast.List(ast.Int(1), (*ast.FunctionCall)(nil)),
	} {
		_, err := interp.Evaluate(expr)
		var unsupported *runtime.UnsupportedOperationError
		if !errors.As(err, &unsupported) {
			t.Fatalf("%s: expected unsupported operation, got %v", name, err)
		}
	}
	if val := mustEvaluate(t, interp, (*ast.Block)(nil)); !runtime.IsNone(val) {
		t.Fatalf("expected nil block to yield none, got %#v", val)
	}
}

func TestFunctionsCannotSeeCallerLocals(t *testing.T) {
	interp := New(nil)
	interp.LoadModule("m", ast.Mod(
		ast.Fn("outer", nil,
			ast.Assign("secret", ast.Int(1)),
			ast.Call("m", "inner"),
		),
		ast.Fn("inner", nil, ast.Var("secret")),
	))
	_, err := interp.Call(ast.NewPath("m", "outer"))
	var unbound *runtime.UnboundVariableError
	if !errors.As(err, &unbound) || unbound.Name != "secret" {
		t.Fatalf("expected unbound variable secret, got %v", err)
	}
}

func TestParametersAreBound(t *testing.T) {
	interp := New(nil)
	interp.LoadModule("m", ast.Mod(
		ast.Fn("second", []string{"a", "b"}, ast.Var("b")),
	))
	val := mustEvaluate(t, interp, ast.Call("m", "second", ast.Int(1), ast.Int(2)))
	expectInteger(t, val, 2)
}

func TestCallerFrameRestoredAfterCall(t *testing.T) {
	interp := New(nil)
	interp.LoadModule("m", ast.Mod(
		ast.Fn("main", nil,
			ast.Assign("x", ast.Str("caller")),
			ast.Call("m", "shadow", ast.Str("callee")),
			ast.Var("x"),
		),
		ast.Fn("shadow", []string{"x"}, ast.Assign("x", ast.Str("changed"))),
	))
	val, err := interp.Call(ast.NewPath("m", "main"))
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if s, _ := runtime.AsString(val); s != "caller" {
		t.Fatalf("expected caller binding untouched, got %#v", val)
	}
}

func TestDefinedFunctionArity(t *testing.T) {
	interp := New(nil)
	interp.LoadModule("m", ast.Mod(ast.Fn("one", []string{"a"}, ast.Var("a"))))
	_, err := interp.Evaluate(ast.Call("m", "one"))
	var arity *runtime.ArityError
	if !errors.As(err, &arity) || arity.Expected != 1 || arity.Got != 0 {
		t.Fatalf("expected arity error 1/0, got %v", err)
	}
}

func TestRecursionThroughDefinedFunctions(t *testing.T) {
	interp := New(nil)
	interp.LoadModule("m", ast.Mod(
		ast.Fn("countdown", []string{"n"},
			ast.If(ast.Call("probe", "done", ast.Var("n")),
				ast.Ret(ast.Str("liftoff")),
				ast.Call("m", "countdown", ast.Call("probe", "dec", ast.Var("n"))),
			),
		),
	))
	probeMod := runtime.NewModule("probe")
	probeMod.AddNative("done", 1, func(args []runtime.Value) (runtime.Value, error) {
		n, err := runtime.ExpectInteger(args[0])
		return runtime.Bool(n <= 0), err
	})
	probeMod.AddNative("dec", 1, func(args []runtime.Value) (runtime.Value, error) {
		n, err := runtime.ExpectInteger(args[0])
		return runtime.Integer(n - 1), err
	})
	interp.Registry().Register(probeMod)

	val, err := interp.Call(ast.NewPath("m", "countdown"), runtime.Integer(3))
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if s, _ := runtime.AsString(val); s != "liftoff" {
		t.Fatalf("expected 'liftoff', got %#v", val)
	}
}
