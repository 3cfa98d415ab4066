package universe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/specialistvlad/recipekit/internal/fsutil"
	"github.com/specialistvlad/recipekit/internal/pkgset"
	"github.com/specialistvlad/recipekit/internal/registry"
	"github.com/specialistvlad/recipekit/internal/unit"
)

type key struct {
	pkg  string
	kind unit.Kind
	name string
}

// entry is a cache slot. A nil desc marks a load in progress.
type entry struct {
	desc *unit.Descriptor
}

// Universe is the cache of loaded units for one run.
type Universe struct {
	resolver pkgset.Resolver
	registry *registry.Registry

	// mu is held by every exported loading method; recursion happens below it.
	mu    sync.Mutex
	cache map[key]*entry
	// loading is the chain of unique names currently being loaded.
	loading []string
}

// New creates an empty Universe.
func New(resolver pkgset.Resolver, reg *registry.Registry) *Universe {
	return &Universe{
		resolver: resolver,
		registry: reg,
		cache:    make(map[key]*entry),
	}
}

// LoadModule loads the named module of pkg.
func (u *Universe) LoadModule(ctx context.Context, pkg, name string) (*unit.Descriptor, error) {
	return u.Load(ctx, pkg, unit.KindModule, name)
}

// LoadRecipe loads the named recipe of pkg.
func (u *Universe) LoadRecipe(ctx context.Context, pkg, name string) (*unit.Descriptor, error) {
	return u.Load(ctx, pkg, unit.KindRecipe, name)
}

// Load returns the descriptor of a unit, loading it and its dependencies on
// first use. Later calls return the identical descriptor.
func (u *Universe) Load(ctx context.Context, pkg string, kind unit.Kind, name string) (*unit.Descriptor, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	p, ok := u.resolver.Package(pkg)
	if !ok {
		return nil, &LoaderError{Unit: unit.UniqueName(kind, pkg, name), Err: fmt.Errorf("unknown package '%s'", pkg)}
	}
	return u.load(ctx, p, kind, name)
}

// Len returns the number of loaded units.
func (u *Universe) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for _, e := range u.cache {
		if e.desc != nil {
			n++
		}
	}
	return n
}

func (u *Universe) load(ctx context.Context, p *pkgset.Package, kind unit.Kind, name string) (*unit.Descriptor, error) {
	k := key{pkg: p.Name, kind: kind, name: name}
	unique := unit.UniqueName(kind, p.Name, name)

	if e, ok := u.cache[k]; ok {
		if e.desc == nil {
			return nil, u.cycle(unique)
		}
		return e.desc, nil
	}

	u.cache[k] = &entry{}
	u.loading = append(u.loading, unique)
	defer func() { u.loading = u.loading[:len(u.loading)-1] }()

	desc, err := u.loadUnit(ctx, p, kind, name)
	if err != nil {
		delete(u.cache, k)
		return nil, err
	}
	u.cache[k].desc = desc
	return desc, nil
}

func (u *Universe) cycle(unique string) error {
	start := 0
	for i, n := range u.loading {
		if n == unique {
			start = i
			break
		}
	}
	path := append(append([]string(nil), u.loading[start:]...), unique)
	return &CyclicDependencyError{Path: path}
}

// Packages returns every package of the resolver.
func (u *Universe) Packages() []*pkgset.Package {
	return u.resolver.Packages()
}

// ModuleDir is a module directory inside a package.
type ModuleDir struct {
	Package *pkgset.Package
	Dir     string
}

// ModuleDirs returns the module directories visible to pkg: its own first,
// then those of its direct dependencies.
func (u *Universe) ModuleDirs(pkg string) ([]ModuleDir, error) {
	visible, err := u.visible(pkg)
	if err != nil {
		return nil, err
	}
	dirs := make([]ModuleDir, 0, len(visible))
	for _, p := range visible {
		dirs = append(dirs, ModuleDir{Package: p, Dir: p.ModuleDir})
	}
	return dirs, nil
}

func (u *Universe) visible(pkg string) ([]*pkgset.Package, error) {
	p, ok := u.resolver.Package(pkg)
	if !ok {
		return nil, fmt.Errorf("unknown package '%s'", pkg)
	}
	out := []*pkgset.Package{p}
	for _, d := range p.Deps {
		dep, err := u.resolver.FindDep(p, d)
		if err != nil {
			return nil, err
		}
		out = append(out, dep)
	}
	return out, nil
}

// VisibleModules returns the qualified names of every module pkg may depend
// on, sorted.
func (u *Universe) VisibleModules(ctx context.Context, pkg string) ([]string, error) {
	dirs, err := u.ModuleDirs(pkg)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, d := range dirs {
		entries, err := fs.ReadDir(d.Package.FS, d.Dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("listing modules of '%s': %w", d.Package.Name, err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if _, err := fs.Stat(d.Package.FS, path.Join(d.Dir, e.Name(), unit.ManifestFile)); err != nil {
				continue
			}
			names = append(names, unit.UniqueName(unit.KindModule, d.Package.Name, e.Name()))
		}
	}
	sort.Strings(names)
	return names, nil
}

// RecipeNames returns the names of every recipe of pkg, sorted. Nested
// recipes are named by their slash separated path.
func (u *Universe) RecipeNames(ctx context.Context, pkg string) ([]string, error) {
	p, ok := u.resolver.Package(pkg)
	if !ok {
		return nil, fmt.Errorf("unknown package '%s'", pkg)
	}
	files, err := fsutil.FindFilesByExtension(p.FS, p.RecipeDir, ".hcl", ".resources")
	if err != nil {
		return nil, fmt.Errorf("listing recipes of '%s': %w", pkg, err)
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		rel := strings.TrimPrefix(f, p.RecipeDir+"/")
		names = append(names, strings.TrimSuffix(rel, ".hcl"))
	}
	sort.Strings(names)
	return names, nil
}
