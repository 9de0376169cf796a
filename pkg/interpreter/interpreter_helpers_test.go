package interpreter

import (
	"testing"

	"lorgn/interpreter-go/pkg/ast"
	"lorgn/interpreter-go/pkg/runtime"
)

// probe counts host calls so tests can observe which branches ran.
type probe struct {
	hits  map[string]int
	calls [][]runtime.Value
}

// newProbeInterpreter registers a "probe" module:
//
//	probe.hit(tag)   counts tag and returns it
//	probe.toggle()   alternates false, true, false, ...
//	probe.id(x)      returns x
func newProbeInterpreter(t *testing.T) (*Interpreter, *probe) {
	t.Helper()
	p := &probe{hits: make(map[string]int)}
	toggled := false

	mod := runtime.NewModule("probe")
	mod.AddNative("hit", 1, func(args []runtime.Value) (runtime.Value, error) {
		tag, err := runtime.ExpectString(args[0])
		if err != nil {
			return nil, err
		}
		p.hits[tag]++
		return args[0], nil
	})
	mod.AddNative("toggle", 0, func(args []runtime.Value) (runtime.Value, error) {
		current := toggled
		toggled = !toggled
		return runtime.Bool(current), nil
	})
	mod.AddNative("id", 1, func(args []runtime.Value) (runtime.Value, error) {
		p.calls = append(p.calls, args)
		return args[0], nil
	})

	registry := runtime.NewRegistry()
	registry.Register(mod)
	return New(registry), p
}

func mustEvaluate(t *testing.T, interp *Interpreter, expr ast.Expression) runtime.Value {
	t.Helper()
	val, err := interp.Evaluate(expr)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	return val
}

// runInFunction wraps body in a zero-argument function of module "test" and
// calls it.
func runInFunction(t *testing.T, interp *Interpreter, body ...ast.Expression) (runtime.Value, error) {
	t.Helper()
	interp.LoadModule("test", ast.Mod(ast.Fn("main", nil, body...)))
	return interp.Call(ast.NewPath("test", "main"))
}

func expectInteger(t *testing.T, val runtime.Value, want int32) {
	t.Helper()
	got, ok := runtime.AsInteger(val)
	if !ok || got != want {
		t.Fatalf("expected integer %d, got %#v", want, val)
	}
}
