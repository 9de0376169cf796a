package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lorgn/interpreter-go/pkg/ast"
)

// Module is one decoded source module ready for registration.
type Module struct {
	Name    string
	Package string
	File    string
	AST     *ast.Module
}

// ResolvedDependency records where a dependency was loaded from.
type ResolvedDependency struct {
	Name   string
	Dir    string
	Source string
	Commit string
}

// Program is the result of loading a manifest and everything it depends on.
// Modules are ordered dependencies first, then the root package in manifest
// order.
type Program struct {
	Manifest     *Manifest
	Modules      []*Module
	Dependencies []*ResolvedDependency
}

// Module returns the named module.
func (p *Program) Module(name string) (*Module, bool) {
	if p == nil {
		return nil, false
	}
	for _, mod := range p.Modules {
		if mod.Name == name {
			return mod, true
		}
	}
	return nil, false
}

// Loader resolves manifests into programs.
type Loader struct {
	git  *GitFetcher
	lock *Lockfile

	visiting map[string]bool
	done     map[string]bool
	owners   map[string]string
	program  *Program
}

// NewLoader constructs a loader. git may be nil when no git dependencies are
// expected; lock may be nil when there is no lockfile yet.
func NewLoader(git *GitFetcher, lock *Lockfile) *Loader {
	return &Loader{git: git, lock: lock}
}

// Load reads every module reachable from manifest.
func (l *Loader) Load(ctx context.Context, manifest *Manifest) (*Program, error) {
	if manifest == nil {
		return nil, fmt.Errorf("loader: nil manifest")
	}
	l.visiting = make(map[string]bool)
	l.done = make(map[string]bool)
	l.owners = make(map[string]string)
	l.program = &Program{Manifest: manifest}
	if err := l.visit(ctx, manifest, nil); err != nil {
		return nil, err
	}
	return l.program, nil
}

func (l *Loader) visit(ctx context.Context, manifest *Manifest, chain []string) error {
	key := manifest.Path
	if l.visiting[key] {
		return fmt.Errorf("loader: dependency cycle: %s", strings.Join(append(chain, manifest.Name), " -> "))
	}
	if l.done[key] {
		return nil
	}
	l.visiting[key] = true
	chain = append(chain, manifest.Name)

	for _, name := range manifest.DependencyNames() {
		if err := ctx.Err(); err != nil {
			return err
		}
		dep := manifest.Dependencies[name]
		resolved, err := l.resolve(ctx, manifest, name, dep)
		if err != nil {
			return err
		}
		child, err := LoadManifest(filepath.Join(resolved.Dir, ManifestFileName))
		if err != nil {
			return fmt.Errorf("loader: dependency %q: %w", name, err)
		}
		if err := l.visit(ctx, child, chain); err != nil {
			return err
		}
		if !l.recorded(resolved.Name) {
			l.program.Dependencies = append(l.program.Dependencies, resolved)
		}
	}

	for _, name := range manifest.ModuleOrder {
		if owner, taken := l.owners[name]; taken {
			return fmt.Errorf("loader: module %q declared by both %s and %s", name, owner, manifest.Name)
		}
		mod, err := loadModuleFile(manifest, name)
		if err != nil {
			return err
		}
		l.owners[name] = manifest.Name
		l.program.Modules = append(l.program.Modules, mod)
	}

	delete(l.visiting, key)
	l.done[key] = true
	return nil
}

func (l *Loader) resolve(ctx context.Context, manifest *Manifest, name string, dep *DependencySpec) (*ResolvedDependency, error) {
	if dep.IsGit() {
		if l.git == nil {
			return nil, fmt.Errorf("loader: dependency %q needs git but no fetcher is configured", name)
		}
		pinned := ""
		if locked, ok := l.lock.Find(name); ok {
			pinned = locked.Commit
		}
		checkout, err := l.git.Fetch(ctx, name, dep, pinned)
		if err != nil {
			return nil, fmt.Errorf("loader: dependency %q: %w", name, err)
		}
		return &ResolvedDependency{Name: name, Dir: checkout.Dir, Source: checkout.Source, Commit: checkout.Commit}, nil
	}
	dir := dep.Path
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(manifest.Dir(), dir)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("loader: dependency %q: %w", name, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("loader: dependency %q: %s is not a directory", name, dir)
	}
	return &ResolvedDependency{Name: name, Dir: dir, Source: "path:" + dep.Path}, nil
}

func (l *Loader) recorded(name string) bool {
	for _, dep := range l.program.Dependencies {
		if dep.Name == name {
			return true
		}
	}
	return false
}

func loadModuleFile(manifest *Manifest, name string) (*Module, error) {
	file, _ := manifest.ModulePath(name)
	format, err := FormatForPath(file)
	if err != nil {
		return nil, fmt.Errorf("loader: module %q: %w", name, err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("loader: module %q: %w", name, err)
	}
	tree, err := DecodeModule(data, format)
	if err != nil {
		return nil, fmt.Errorf("loader: module %q (%s): %w", name, file, err)
	}
	return &Module{Name: name, Package: manifest.Name, File: file, AST: tree}, nil
}
