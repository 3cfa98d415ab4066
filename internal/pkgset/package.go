package pkgset

import (
	"fmt"
	"io/fs"
	"path"

	"github.com/specialistvlad/recipekit/internal/dag"
)

// Package is a named source root containing modules and recipes. It is
// immutable for the lifetime of a run.
type Package struct {
	Name string
	// Root is informational: where FS was opened from.
	Root      string
	ModuleDir string
	RecipeDir string
	// Deps are the packages this one depends on directly.
	Deps []string
	// FS is rooted at Root. ModuleDir and RecipeDir are slash separated paths
	// inside it.
	FS fs.FS
}

// ModulePath joins elem onto the module directory.
func (p *Package) ModulePath(elem ...string) string {
	return path.Join(append([]string{p.ModuleDir}, elem...)...)
}

// RecipePath joins elem onto the recipe directory.
func (p *Package) RecipePath(elem ...string) string {
	return path.Join(append([]string{p.RecipeDir}, elem...)...)
}

// DependsOn reports whether name is a direct dependency.
func (p *Package) DependsOn(name string) bool {
	for _, d := range p.Deps {
		if d == name {
			return true
		}
	}
	return false
}

// Resolver is what the loader needs from package resolution.
type Resolver interface {
	// Packages returns every package in a stable order.
	Packages() []*Package
	// Package looks a package up by name.
	Package(name string) (*Package, bool)
	// FindDep resolves a package named by a unit of from. Only from itself
	// and its direct dependencies are visible.
	FindDep(from *Package, name string) (*Package, error)
}

// Set is the standard Resolver.
type Set struct {
	ordered []*Package
	byName  map[string]*Package
}

var _ Resolver = (*Set)(nil)

// New builds a Set. Duplicate names, dependencies on unknown packages and
// dependency cycles are rejected.
func New(pkgs ...*Package) (*Set, error) {
	s := &Set{byName: make(map[string]*Package, len(pkgs))}
	g := dag.New()

	for _, p := range pkgs {
		if p.Name == "" {
			return nil, fmt.Errorf("package with empty name")
		}
		if _, dup := s.byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate package '%s'", p.Name)
		}
		if p.FS == nil {
			return nil, fmt.Errorf("package '%s' has no file system", p.Name)
		}
		s.byName[p.Name] = p
		s.ordered = append(s.ordered, p)
		g.AddNode(p.Name)
	}

	for _, p := range pkgs {
		for _, dep := range p.Deps {
			if _, ok := s.byName[dep]; !ok {
				return nil, fmt.Errorf("package '%s' depends on unknown package '%s'", p.Name, dep)
			}
			if err := g.AddEdge(dep, p.Name); err != nil {
				return nil, fmt.Errorf("package '%s': %w", p.Name, err)
			}
		}
	}

	if err := g.DetectCycles(); err != nil {
		return nil, fmt.Errorf("package dependencies: %w", err)
	}
	return s, nil
}

func (s *Set) Packages() []*Package {
	return append([]*Package(nil), s.ordered...)
}

func (s *Set) Package(name string) (*Package, bool) {
	p, ok := s.byName[name]
	return p, ok
}

func (s *Set) FindDep(from *Package, name string) (*Package, error) {
	if from != nil && name == from.Name {
		return from, nil
	}
	p, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown package '%s'", name)
	}
	if from != nil && !from.DependsOn(name) {
		return nil, fmt.Errorf("package '%s' does not depend on '%s'", from.Name, name)
	}
	return p, nil
}

// Visible returns from followed by its direct dependencies.
func (s *Set) Visible(from *Package) []*Package {
	out := []*Package{from}
	for _, d := range from.Deps {
		if p, ok := s.byName[d]; ok {
			out = append(out, p)
		}
	}
	return out
}
