package runtime

import (
	"sort"

	"lorgn/interpreter-go/pkg/ast"
)

// Registry owns every loaded module. It is built explicitly and passed to the
// interpreter; nothing about it is global.
type Registry struct {
	modules map[string]*Module
}

func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]*Module)}
}

// Register inserts module, replacing any module with the same name.
func (r *Registry) Register(module *Module) {
	r.modules[module.Name()] = module
}

func (r *Registry) Module(name string) (*Module, bool) {
	m, ok := r.modules[name]
	return m, ok
}

func (r *Registry) ModuleNames() []string {
	out := make([]string, 0, len(r.modules))
	for name := range r.modules {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// FindFunction resolves path and acquires the function for one call. The
// caller must Release the handle. Only native functions are locked while
// held; defined functions stay callable so they can recurse.
func (r *Registry) FindFunction(path ast.Path) (*FunctionHandle, error) {
	module, ok := r.modules[path.Module]
	if !ok {
		return nil, &UnknownModuleError{Module: path.Module}
	}
	fn, ok := module.functions[path.Item]
	if !ok {
		return nil, &UnboundFunctionError{Path: path}
	}
	return fn.acquire(path)
}
