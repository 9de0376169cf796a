package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the conventional name of a project manifest.
const ManifestFileName = "lorgn.yml"

// Manifest represents the parsed contents of lorgn.yml.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	Authors      []string
	Entry        *EntrySpec
	Modules      map[string]string
	ModuleOrder  []string
	Dependencies map[string]*DependencySpec

	moduleKeys []string
}

// EntrySpec names the function `lorgn run` calls.
type EntrySpec struct {
	Module   string
	Function string
}

func (e *EntrySpec) String() string {
	if e == nil {
		return ""
	}
	return e.Module + "." + e.Function
}

// DependencySpec describes a dependency descriptor in the manifest.
type DependencySpec struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

// IsGit reports whether the dependency is fetched from a git remote.
func (d *DependencySpec) IsGit() bool {
	return d != nil && d.Git != ""
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses lorgn.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()
	return ParseManifest(file, absPath)
}

// ParseManifest decodes a manifest from r. path is recorded on the result and
// used to resolve relative module and dependency paths.
func ParseManifest(r io.Reader, path string) (*Manifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", path)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}

	manifest := raw.toManifest(path)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// Dir returns the directory holding the manifest.
func (m *Manifest) Dir() string {
	if m == nil || m.Path == "" {
		return ""
	}
	return filepath.Dir(m.Path)
}

// ModulePath resolves the file backing the named module.
func (m *Manifest) ModulePath(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	rel, ok := m.Modules[name]
	if !ok {
		return "", false
	}
	if filepath.IsAbs(rel) {
		return rel, true
	}
	return filepath.Join(m.Dir(), rel), true
}

// DependencyNames returns dependency keys in a stable order.
func (m *Manifest) DependencyNames() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for i, author := range m.Authors {
		if author == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("authors[%d] must be a non-empty string", i))
		}
	}

	seen := make(map[string]struct{}, len(m.moduleKeys))
	for _, key := range m.moduleKeys {
		if key == "" {
			errs.Issues = append(errs.Issues, "modules must not use empty keys")
			continue
		}
		if _, dup := seen[key]; dup {
			errs.Issues = append(errs.Issues, fmt.Sprintf("module %q declared more than once", key))
			continue
		}
		seen[key] = struct{}{}
		if m.Modules[key] == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("module %q requires a file path", key))
		}
	}

	if m.Entry != nil {
		if m.Entry.Module == "" || m.Entry.Function == "" {
			errs.Issues = append(errs.Issues, "entry requires both module and function")
		}
	}

	for _, name := range m.DependencyNames() {
		for _, issue := range m.Dependencies[name].validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", name, issue))
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (d *DependencySpec) validate() []string {
	var errs []string
	if d == nil {
		return []string{"must specify git or path"}
	}
	switch {
	case d.Path != "" && d.Git != "":
		errs = append(errs, "path dependencies cannot also specify git")
	case d.Path == "" && d.Git == "":
		errs = append(errs, "must specify git or path")
	}
	if d.Git == "" && (d.Rev != "" || d.Tag != "" || d.Branch != "") {
		errs = append(errs, "rev, tag and branch apply only to git dependencies")
	}
	pins := 0
	for _, pin := range []string{d.Rev, d.Tag, d.Branch} {
		if pin != "" {
			pins++
		}
	}
	if pins > 1 {
		errs = append(errs, "only one of rev, tag or branch may be given")
	}
	return errs
}

type manifestFile struct {
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version"`
	Authors      stringList    `yaml:"authors"`
	Entry        *entryYAML    `yaml:"entry"`
	Modules      moduleMap     `yaml:"modules"`
	Dependencies dependencyMap `yaml:"dependencies"`
}

type entryYAML struct {
	Module   string
	Function string
}

// UnmarshalYAML accepts either `entry: main.main` or a mapping with module
// and function keys.
func (e *entryYAML) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		text := strings.TrimSpace(value.Value)
		idx := strings.LastIndex(text, ".")
		if idx <= 0 || idx == len(text)-1 {
			return fmt.Errorf("manifest: entry %q must be written as module.function", text)
		}
		e.Module, e.Function = text[:idx], text[idx+1:]
		return nil
	case yaml.MappingNode:
		var raw struct {
			Module   string `yaml:"module"`
			Function string `yaml:"function"`
		}
		if err := value.Decode(&raw); err != nil {
			return fmt.Errorf("manifest: entry: %w", err)
		}
		e.Module = strings.TrimSpace(raw.Module)
		e.Function = strings.TrimSpace(raw.Function)
		return nil
	default:
		return fmt.Errorf("manifest: entry must be a string or mapping")
	}
}

type moduleMap struct {
	items []moduleMapEntry
}

type moduleMapEntry struct {
	name string
	file string
}

func (mm *moduleMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		mm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: modules must be a mapping")
	}
	items := make([]moduleMapEntry, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var key, file string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		if err := value.Content[i+1].Decode(&file); err != nil {
			return fmt.Errorf("manifest: module %q: %w", key, err)
		}
		items = append(items, moduleMapEntry{
			name: strings.TrimSpace(key),
			file: strings.TrimSpace(file),
		})
	}
	mm.items = items
	return nil
}

type dependencyMap map[string]*DependencySpec

func (dm *dependencyMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		*dm = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: dependencies must be a mapping")
	}
	out := make(dependencyMap, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var name string
		if err := value.Content[i].Decode(&name); err != nil {
			return err
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("manifest: dependencies must not use empty keys")
		}
		spec, err := decodeDependency(value.Content[i+1])
		if err != nil {
			return fmt.Errorf("manifest: dependency %q: %w", name, err)
		}
		out[name] = spec
	}
	*dm = out
	return nil
}

// decodeDependency accepts a bare string as a path shorthand.
func decodeDependency(node *yaml.Node) (*DependencySpec, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
		return &DependencySpec{Path: strings.TrimSpace(node.Value)}, nil
	case yaml.MappingNode:
		var raw struct {
			Git    string `yaml:"git"`
			Rev    string `yaml:"rev"`
			Tag    string `yaml:"tag"`
			Branch string `yaml:"branch"`
			Path   string `yaml:"path"`
		}
		if err := node.Decode(&raw); err != nil {
			return nil, err
		}
		return &DependencySpec{
			Git:    strings.TrimSpace(raw.Git),
			Rev:    strings.TrimSpace(raw.Rev),
			Tag:    strings.TrimSpace(raw.Tag),
			Branch: strings.TrimSpace(raw.Branch),
			Path:   strings.TrimSpace(raw.Path),
		}, nil
	default:
		return nil, fmt.Errorf("expected a path string or a mapping")
	}
}

type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		out := make(stringList, 0, len(value.Content))
		for _, item := range value.Content {
			var s string
			if err := item.Decode(&s); err != nil {
				return err
			}
			out = append(out, strings.TrimSpace(s))
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("manifest: expected string or list of strings")
	}
}

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:         path,
		Name:         sanitizeSegment(mf.Name),
		Version:      strings.TrimSpace(mf.Version),
		Authors:      append([]string(nil), mf.Authors...),
		Modules:      make(map[string]string, len(mf.Modules.items)),
		ModuleOrder:  make([]string, 0, len(mf.Modules.items)),
		Dependencies: make(map[string]*DependencySpec, len(mf.Dependencies)),
		moduleKeys:   make([]string, 0, len(mf.Modules.items)),
	}
	if mf.Entry != nil {
		result.Entry = &EntrySpec{Module: mf.Entry.Module, Function: mf.Entry.Function}
	}
	for _, item := range mf.Modules.items {
		result.moduleKeys = append(result.moduleKeys, item.name)
		if _, exists := result.Modules[item.name]; exists || item.name == "" {
			continue
		}
		result.Modules[item.name] = item.file
		result.ModuleOrder = append(result.ModuleOrder, item.name)
	}
	for name, dep := range mf.Dependencies {
		if dep == nil {
			result.Dependencies[name] = nil
			continue
		}
		copy := *dep
		result.Dependencies[name] = &copy
	}
	return result
}

// sanitizeSegment lowercases a package name and replaces characters that are
// unsafe in cache directory names.
func sanitizeSegment(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
