package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LockfileName is written next to the manifest by `lorgn deps install`.
const LockfileName = "lorgn.lock"

// Lockfile models the lorgn.lock contents.
type Lockfile struct {
	Path      string
	Root      string
	Generated string
	Tool      string
	Packages  []*LockedPackage
}

// LockedPackage captures a single resolved dependency entry.
type LockedPackage struct {
	Name   string
	Source string
	Commit string
}

// NewLockfile constructs a lockfile with metadata seeded for the provided root.
func NewLockfile(root, tool string) *Lockfile {
	return &Lockfile{
		Root:      sanitizeSegment(root),
		Generated: time.Now().UTC().Format(time.RFC3339),
		Tool:      strings.TrimSpace(tool),
		Packages:  []*LockedPackage{},
	}
}

// LoadLockfile parses lorgn.lock from disk.
func LoadLockfile(path string) (*Lockfile, error) {
	if path == "" {
		return nil, fmt.Errorf("lockfile: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw lockfileDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", abs, err)
	}

	lock := raw.toLockfile()
	lock.Path = abs
	lock.normalize()
	return lock, nil
}

// WriteLockfile serialises the lockfile back to disk.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nil lockfile")
	}
	if path == "" {
		if lock.Path == "" {
			return fmt.Errorf("lockfile: missing path")
		}
		path = lock.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}

	if lock.Generated == "" {
		lock.Generated = time.Now().UTC().Format(time.RFC3339)
	}
	lock.Path = abs
	lock.normalize()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(lock.toDisk()); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lockfile: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", abs, err)
	}
	return nil
}

// Find returns the locked entry for name.
func (l *Lockfile) Find(name string) (*LockedPackage, bool) {
	if l == nil {
		return nil, false
	}
	name = sanitizeSegment(name)
	for _, pkg := range l.Packages {
		if pkg != nil && pkg.Name == name {
			return pkg, true
		}
	}
	return nil, false
}

// Put inserts or replaces the entry for pkg.Name. It reports whether the
// lockfile changed.
func (l *Lockfile) Put(pkg *LockedPackage) bool {
	if l == nil || pkg == nil {
		return false
	}
	entry := &LockedPackage{
		Name:   sanitizeSegment(pkg.Name),
		Source: strings.TrimSpace(pkg.Source),
		Commit: strings.TrimSpace(pkg.Commit),
	}
	for i, existing := range l.Packages {
		if existing == nil || existing.Name != entry.Name {
			continue
		}
		if *existing == *entry {
			return false
		}
		l.Packages[i] = entry
		return true
	}
	l.Packages = append(l.Packages, entry)
	return true
}

func (l *Lockfile) normalize() {
	if l == nil {
		return
	}
	l.Root = sanitizeSegment(l.Root)
	l.Tool = strings.TrimSpace(l.Tool)
	pkgs := l.Packages[:0]
	for _, pkg := range l.Packages {
		if pkg == nil {
			continue
		}
		pkg.Name = sanitizeSegment(pkg.Name)
		pkg.Source = strings.TrimSpace(pkg.Source)
		pkg.Commit = strings.TrimSpace(pkg.Commit)
		pkgs = append(pkgs, pkg)
	}
	sort.SliceStable(pkgs, func(i, j int) bool {
		return pkgs[i].Name < pkgs[j].Name
	})
	l.Packages = pkgs
}

type lockfileDisk struct {
	Root      string            `yaml:"root"`
	Generated string            `yaml:"generated"`
	Tool      string            `yaml:"tool"`
	Packages  []lockfilePackage `yaml:"packages"`
}

type lockfilePackage struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Commit string `yaml:"commit,omitempty"`
}

func (l *Lockfile) toDisk() lockfileDisk {
	pkgs := make([]lockfilePackage, 0, len(l.Packages))
	for _, pkg := range l.Packages {
		pkgs = append(pkgs, lockfilePackage{
			Name:   pkg.Name,
			Source: pkg.Source,
			Commit: pkg.Commit,
		})
	}
	return lockfileDisk{
		Root:      l.Root,
		Generated: l.Generated,
		Tool:      l.Tool,
		Packages:  pkgs,
	}
}

func (d lockfileDisk) toLockfile() *Lockfile {
	lock := &Lockfile{
		Root:      d.Root,
		Generated: strings.TrimSpace(d.Generated),
		Tool:      d.Tool,
		Packages:  make([]*LockedPackage, 0, len(d.Packages)),
	}
	for _, pkg := range d.Packages {
		lock.Packages = append(lock.Packages, &LockedPackage{
			Name:   pkg.Name,
			Source: pkg.Source,
			Commit: pkg.Commit,
		})
	}
	return lock
}
