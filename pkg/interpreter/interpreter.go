package interpreter

import (
	"io"
	"log/slog"

	"lorgn/interpreter-go/pkg/ast"
	"lorgn/interpreter-go/pkg/runtime"
)

// Interpreter evaluates syntax trees against a module registry. Each call to
// Evaluate or Call runs in a fresh context with an empty scope stack.
type Interpreter struct {
	registry *runtime.Registry
	tracer   *slog.Logger
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithTrace logs every function call and return to w.
func WithTrace(w io.Writer) Option {
	return func(i *Interpreter) {
		if w == nil {
			i.tracer = nil
			return
		}
		i.tracer = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

// New returns an interpreter bound to registry. A nil registry is replaced by
// an empty one.
func New(registry *runtime.Registry, opts ...Option) *Interpreter {
	if registry == nil {
		registry = runtime.NewRegistry()
	}
	i := &Interpreter{registry: registry}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Interpreter) Registry() *runtime.Registry {
	return i.registry
}

// LoadModule converts a parsed module and registers it under name.
func (i *Interpreter) LoadModule(name string, module *ast.Module) *runtime.Module {
	m := runtime.ModuleFromAST(name, module)
	i.registry.Register(m)
	return m
}

// Evaluate runs a single top-level expression. A return or break that is
// still pending once evaluation finishes is a control-flow error.
func (i *Interpreter) Evaluate(expr ast.Expression) (runtime.Value, error) {
	ctx := i.newContext()
	val, err := ctx.evaluateExpression(expr)
	return ctx.finish(val, err)
}

// Call invokes the function at path with already evaluated arguments.
func (i *Interpreter) Call(path ast.Path, args ...runtime.Value) (runtime.Value, error) {
	ctx := i.newContext()
	if args == nil {
		args = []runtime.Value{}
	}
	val, err := ctx.callPath(path, args)
	return ctx.finish(val, err)
}

func (i *Interpreter) newContext() *evalContext {
	return &evalContext{
		registry: i.registry,
		scopes:   runtime.NewScopeStack(),
		tracer:   i.tracer,
	}
}
