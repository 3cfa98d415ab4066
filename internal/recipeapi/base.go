// Package recipeapi is the boundary between the engine and the code that runs
// recipes. Every module API embeds a *Base, and every recipe entrypoint
// receives one as its `api` parameter.
package recipeapi

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/specialistvlad/recipekit/internal/configtree"
)

// ErrNoConfigContext is returned by SetConfig on a unit without a context.
var ErrNoConfigContext = errors.New("unit has no configuration context")

// Spec describes the Base of one instantiated unit.
type Spec struct {
	Name       string
	UniqueName string
	// FS and ResourceDir locate the unit's resources.
	FS          fs.FS
	ResourceDir string
	// Deps are the instantiated dependencies by local name.
	Deps       map[string]any
	Config     *configtree.Context
	Properties map[string]any
}

// Base carries what every capability object exposes: its dependencies, its
// configuration, its interpreted properties and its resources.
type Base struct {
	spec   Spec
	config *configtree.Group
}

// NewBase creates a Base. The maps in spec are copied.
func NewBase(spec Spec) *Base {
	spec.Deps = copyMap(spec.Deps)
	spec.Properties = copyMap(spec.Properties)
	return &Base{spec: spec}
}

func (b *Base) Name() string       { return b.spec.Name }
func (b *Base) UniqueName() string { return b.spec.UniqueName }

// Dep returns the dependency bound to a local name, or nil.
func (b *Base) Dep(local string) any { return b.spec.Deps[local] }

// Deps returns a copy of every dependency by local name.
func (b *Base) Deps() map[string]any { return copyMap(b.spec.Deps) }

// DepNames returns the local names of the dependencies, sorted.
func (b *Base) DepNames() []string {
	names := make([]string, 0, len(b.spec.Deps))
	for n := range b.spec.Deps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DepAs returns the dependency bound to local as a T.
func DepAs[T any](b *Base, local string) (T, error) {
	var zero T
	raw, ok := b.spec.Deps[local]
	if !ok {
		return zero, fmt.Errorf("%s has no dependency '%s'", b.spec.UniqueName, local)
	}
	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("%s: dependency '%s' is %T, not %T", b.spec.UniqueName, local, raw, zero)
	}
	return v, nil
}

// Resource returns the path of a resource inside the unit's resource
// directory.
func (b *Base) Resource(parts ...string) string {
	return path.Join(append([]string{b.spec.ResourceDir}, parts...)...)
}

// ReadResource reads a resource file.
func (b *Base) ReadResource(parts ...string) ([]byte, error) {
	if b.spec.FS == nil {
		return nil, fmt.Errorf("%s has no resources", b.spec.UniqueName)
	}
	return fs.ReadFile(b.spec.FS, b.Resource(parts...))
}

// ConfigContext returns the unit's configuration context, or nil.
func (b *Base) ConfigContext() *configtree.Context { return b.spec.Config }

// SetConfig applies the named configuration function to the unit's current
// configuration, creating it on first use.
func (b *Base) SetConfig(name string, opts ...configtree.ApplyOption) error {
	if b.spec.Config == nil {
		return fmt.Errorf("%s: %w", b.spec.UniqueName, ErrNoConfigContext)
	}
	tree, err := b.spec.Config.Apply(name, b.config, opts...)
	if tree != nil {
		b.config = tree
	}
	return err
}

// Config returns the current configuration tree, or nil when none has been
// applied.
func (b *Base) Config() *configtree.Group { return b.config }

// Property returns an interpreted property value.
func (b *Base) Property(name string) (any, bool) {
	v, ok := b.spec.Properties[name]
	return v, ok
}

// Properties returns a copy of every interpreted property value.
func (b *Base) Properties() map[string]any { return copyMap(b.spec.Properties) }

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
