package runtime

import (
	"sort"

	"lorgn/interpreter-go/pkg/ast"
)

// Module is a named table of functions plus the set of names it exports.
// Exports are recorded but not consulted when resolving calls.
type Module struct {
	name      string
	functions map[string]*Function
	exports   map[string]struct{}
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{
		name:      name,
		functions: make(map[string]*Function),
		exports:   make(map[string]struct{}),
	}
}

// ModuleFromAST converts a parsed module. Export items add to the export set,
// definitions become defined functions and imports become imported functions
// under the imported item's name. Later items overwrite earlier ones.
func ModuleFromAST(name string, content *ast.Module) *Module {
	m := NewModule(name)
	if content == nil {
		return m
	}
	for _, item := range content.Items {
		switch it := item.(type) {
		case *ast.Export:
			m.Export(it.Names...)
		case *ast.Import:
			for _, imported := range it.Items {
				m.AddImport(imported, it.Module)
			}
		case *ast.FunctionDefinition:
			m.AddDefined(it)
		}
	}
	return m
}

func (m *Module) Name() string { return m.name }

// Add stores fn under its own name.
func (m *Module) Add(fn *Function) {
	m.functions[fn.Name()] = fn
}

func (m *Module) AddDefined(definition *ast.FunctionDefinition) {
	m.Add(NewDefinedFunction(definition.Name, definition))
}

func (m *Module) AddNative(name string, arity int, handler NativeFunc) {
	m.Add(NewNativeFunction(name, arity, handler))
}

func (m *Module) AddImport(item, module string) {
	m.Add(NewImportedFunction(item, module))
}

func (m *Module) Export(names ...string) {
	for _, name := range names {
		m.exports[name] = struct{}{}
	}
}

func (m *Module) IsExported(name string) bool {
	_, ok := m.exports[name]
	return ok
}

// Exports returns the exported names in sorted order.
func (m *Module) Exports() []string {
	out := make([]string, 0, len(m.exports))
	for name := range m.exports {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Function looks up a function by name without acquiring it.
func (m *Module) Function(name string) (*Function, bool) {
	fn, ok := m.functions[name]
	return fn, ok
}

// FunctionNames returns the function table keys in sorted order.
func (m *Module) FunctionNames() []string {
	out := make([]string, 0, len(m.functions))
	for name := range m.functions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
