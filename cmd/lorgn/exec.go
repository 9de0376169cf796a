package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"lorgn/interpreter-go/pkg/ast"
	"lorgn/interpreter-go/pkg/driver"
	"lorgn/interpreter-go/pkg/interpreter"
	"lorgn/interpreter-go/pkg/runtime"
)

// loadProgram reads the manifest found from start along with its lockfile and
// dependencies.
func (c *cli) loadProgram(start string) (*driver.Program, error) {
	manifest, err := loadManifestFrom(start)
	if err != nil {
		return nil, err
	}
	lock, err := loadLockfileForManifest(manifest)
	if err != nil {
		return nil, err
	}
	var fetcher *driver.GitFetcher
	if manifestHasGitDependencies(manifest) || lock != nil {
		home, err := resolveLorgnHome()
		if err != nil {
			return nil, err
		}
		fetcher = driver.NewGitFetcher(home)
	}
	return driver.NewLoader(fetcher, lock).Load(context.Background(), manifest)
}

// newInterpreter registers the host std module and every module of program.
func (c *cli) newInterpreter(program *driver.Program) (*interpreter.Interpreter, []*runtime.Module) {
	var opts []interpreter.Option
	if c.trace {
		opts = append(opts, interpreter.WithTrace(c.stderr))
	}
	interp := interpreter.New(runtime.NewRegistry(), opts...)
	interp.Registry().Register(stdModule(c.stdout))

	var loaded []*runtime.Module
	if program != nil {
		for _, mod := range program.Modules {
			loaded = append(loaded, interp.LoadModule(mod.Name, mod.AST))
		}
	}
	return interp, loaded
}

func stdModule(out io.Writer) *runtime.Module {
	std := runtime.NewModule("std")
	std.AddNative("print", 1, func(args []runtime.Value) (runtime.Value, error) {
		_, err := fmt.Fprintln(out, runtime.ToString(args[0]))
		return runtime.None, err
	})
	std.Export("print")
	return std
}

func (c *cli) reportRuntimeError(err error) {
	diag := interpreter.BuildRuntimeDiagnostic(err)
	fmt.Fprintln(c.stderr, interpreter.DescribeRuntimeDiagnostic(diag))
}

func (c *cli) printResult(val runtime.Value) {
	if runtime.IsNone(val) {
		return
	}
	fmt.Fprintln(c.stdout, runtime.Inspect(val))
}

func (c *cli) runEntry(args []string) int {
	if len(args) > 1 {
		fmt.Fprintf(c.stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}
	start := ""
	if len(args) == 1 {
		start = args[0]
	}
	program, err := c.loadProgram(start)
	if err != nil {
		fmt.Fprintf(c.stderr, "failed to load program: %v\n", err)
		return 1
	}
	entry := program.Manifest.Entry
	if entry == nil {
		fmt.Fprintf(c.stderr, "manifest %s does not declare an entry\n", program.Manifest.Path)
		return 1
	}

	interp, _ := c.newInterpreter(program)
	result, err := interp.Call(ast.NewPath(entry.Module, entry.Function))
	if err != nil {
		c.reportRuntimeError(err)
		return 1
	}
	c.printResult(result)
	return 0
}

func (c *cli) runEval(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(c.stderr, "lorgn eval requires exactly one expression document (use - for stdin)")
		return 1
	}
	var (
		data   []byte
		format = driver.FormatJSON
		err    error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(c.stdin)
	} else {
		format, err = driver.FormatForPath(args[0])
		if err == nil {
			data, err = os.ReadFile(args[0])
		}
	}
	if err != nil {
		fmt.Fprintf(c.stderr, "failed to read expression: %v\n", err)
		return 1
	}
	expr, err := driver.DecodeExpression(data, format)
	if err != nil {
		fmt.Fprintf(c.stderr, "%v\n", err)
		return 1
	}

	program, err := c.optionalProgram()
	if err != nil {
		fmt.Fprintf(c.stderr, "failed to load program: %v\n", err)
		return 1
	}
	interp, _ := c.newInterpreter(program)
	result, err := interp.Evaluate(expr)
	if err != nil {
		c.reportRuntimeError(err)
		return 1
	}
	c.printResult(result)
	return 0
}

// optionalProgram loads the project around the working directory, if any.
func (c *cli) optionalProgram() (*driver.Program, error) {
	program, err := c.loadProgram("")
	if errors.Is(err, errManifestNotFound) {
		return nil, nil
	}
	return program, err
}

func (c *cli) runInspect(args []string) int {
	if len(args) > 1 {
		fmt.Fprintf(c.stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}
	start := ""
	if len(args) == 1 {
		start = args[0]
	}
	program, err := c.loadProgram(start)
	if err != nil {
		fmt.Fprintf(c.stderr, "failed to load program: %v\n", err)
		return 1
	}
	_, modules := c.newInterpreter(program)

	fmt.Fprintf(c.stdout, "package %s %s\n", program.Manifest.Name, program.Manifest.Version)
	if entry := program.Manifest.Entry; entry != nil {
		fmt.Fprintf(c.stdout, "entry %s\n", entry)
	}
	for _, dep := range program.Dependencies {
		fmt.Fprintf(c.stdout, "dependency %s %s\n", dep.Name, dep.Source)
	}
	for i, mod := range modules {
		source := program.Modules[i]
		fmt.Fprintf(c.stdout, "module %s (%s, %s)\n", mod.Name(), source.Package, source.File)
		for _, name := range mod.FunctionNames() {
			fn, _ := mod.Function(name)
			fmt.Fprintf(c.stdout, "  %s\n", describeFunction(mod, fn))
		}
	}
	return 0
}

func describeFunction(mod *runtime.Module, fn *runtime.Function) string {
	var b strings.Builder
	switch fn.Kind() {
	case runtime.FunctionImported:
		target, _ := fn.Target()
		fmt.Fprintf(&b, "import %s from %s", fn.Name(), target)
	default:
		params := make([]string, 0, fn.Arity())
		if def := fn.Definition(); def != nil {
			params = append(params, def.Parameters...)
		}
		fmt.Fprintf(&b, "fn %s(%s)", fn.Name(), strings.Join(params, ", "))
	}
	if mod.IsExported(fn.Name()) {
		b.WriteString(" export")
	}
	return b.String()
}
