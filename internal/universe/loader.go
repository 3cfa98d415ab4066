package universe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/specialistvlad/recipekit/internal/ctxlog"
	"github.com/specialistvlad/recipekit/internal/manifest"
	"github.com/specialistvlad/recipekit/internal/pkgset"
	"github.com/specialistvlad/recipekit/internal/property"
	"github.com/specialistvlad/recipekit/internal/registry"
	"github.com/specialistvlad/recipekit/internal/unit"
)

// loadUnit builds the descriptor of one unit. Dependencies are loaded through
// the Universe before anything else about the unit is resolved.
func (u *Universe) loadUnit(ctx context.Context, p *pkgset.Package, kind unit.Kind, name string) (*unit.Descriptor, error) {
	unique := unit.UniqueName(kind, p.Name, name)
	manifestPath := unit.ManifestPath(p, kind, name)
	logger := ctxlog.FromContext(ctx).With("unit", unique, "package", p.Name, "kind", kind)
	logger.Debug("Loading unit.", "manifest", manifestPath)

	fail := func(err error) error {
		return &LoaderError{Unit: unique, Path: manifestPath, Err: err}
	}

	if name == "" || !fs.ValidPath(name) || (kind == unit.KindModule && strings.Contains(name, "/")) {
		return nil, fail(fmt.Errorf("invalid %s name '%s'", kind, name))
	}
	if _, err := fs.Stat(p.FS, manifestPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if kind == unit.KindRecipe {
				return nil, fail(ErrNoSuchRecipe)
			}
			return nil, fail(ErrNoSuchModule)
		}
		return nil, fail(err)
	}

	m, err := manifest.Load(p.FS, manifestPath)
	if err != nil {
		return nil, fail(err)
	}
	if m.Kind != kind {
		return nil, fail(fmt.Errorf("manifest declares a %s, expected a %s", m.Kind, kind))
	}
	if m.Name != name {
		return nil, fail(fmt.Errorf("manifest declares '%s', expected '%s'", m.Name, name))
	}

	desc := &unit.Descriptor{
		Kind:         kind,
		Name:         name,
		UniqueName:   unique,
		Package:      p,
		Description:  m.Description,
		Deps:         make(map[string]*unit.Descriptor, len(m.Deps)),
		Properties:   make(map[string]*property.BoundProperty, len(m.Properties)),
		ResourceDir:  unit.ResourceDir(p, kind, name),
		ManifestPath: manifestPath,
	}

	for _, d := range m.Deps {
		ref, err := u.resolveRef(p, d)
		if err != nil {
			return nil, fail(err)
		}
		if _, dup := desc.Deps[ref.LocalName]; dup {
			return nil, fail(fmt.Errorf("two dependencies share the local name '%s'", ref.LocalName))
		}
		depPkg := p
		if ref.Package != p.Name {
			if depPkg, err = u.resolver.FindDep(p, ref.Package); err != nil {
				return nil, fail(err)
			}
		}
		dep, err := u.load(ctx, depPkg, unit.KindModule, ref.Name)
		if err != nil {
			return nil, fail(err)
		}
		desc.DependencySpec = append(desc.DependencySpec, ref)
		desc.Deps[ref.LocalName] = dep
	}

	if err := u.resolveSurfaces(desc, m); err != nil {
		return nil, fail(err)
	}

	for _, pname := range m.PropertyOrder {
		bp, err := property.Bind(m.Properties[pname], pname, kind, unique)
		if err != nil {
			return nil, fail(err)
		}
		desc.Properties[pname] = bp
	}

	if err := u.checkParity(ctx, desc); err != nil {
		return nil, fail(err)
	}

	logger.Debug("Unit loaded.", "deps", desc.DepNames())
	return desc, nil
}

// resolveRef turns a manifest dependency into a reference. A target holding
// a "/" names a module of another package.
func (u *Universe) resolveRef(p *pkgset.Package, d manifest.Dep) (unit.DependencyRef, error) {
	pkgName, modName := unit.SplitTarget(d.Target, p.Name)
	if pkgName == "" || modName == "" {
		return unit.DependencyRef{}, fmt.Errorf("invalid dependency '%s'", d.Target)
	}
	local := d.Alias
	if local == "" {
		local = unit.LocalName(d.Target)
	}
	return unit.DependencyRef{Package: pkgName, Name: modName, LocalName: local}, nil
}

func (u *Universe) resolveSurfaces(desc *unit.Descriptor, m *manifest.Manifest) error {
	if m.API != "" {
		s, ok := u.registry.API(m.API)
		if !ok {
			return fmt.Errorf("api '%s' is not registered", m.API)
		}
		desc.API = s
	}
	if m.TestAPI != "" {
		s, ok := u.registry.TestAPI(m.TestAPI)
		if !ok {
			return fmt.Errorf("test api '%s' is not registered", m.TestAPI)
		}
		desc.TestAPI = s
	}
	if m.Config != "" {
		c, ok := u.registry.Config(m.Config)
		if !ok {
			return fmt.Errorf("config context '%s' is not registered", m.Config)
		}
		desc.Config = c
	}
	if m.Entrypoint != "" {
		e, ok := u.registry.Entrypoint(m.Entrypoint)
		if !ok {
			return fmt.Errorf("entrypoint '%s' is not registered", m.Entrypoint)
		}
		desc.Entrypoint = e
	}
	return nil
}

// checkParity validates every Go function that will receive the unit's
// properties against the property schema.
func (u *Universe) checkParity(ctx context.Context, desc *unit.Descriptor) error {
	var invs []property.Invocable
	extras := []string{unit.BaseParam}
	if desc.Kind == unit.KindRecipe {
		extras = []string{unit.APIParam}
		if desc.Entrypoint != nil {
			invs = append(invs, desc.Entrypoint)
		}
	} else {
		invs = append(invs, desc.API)
		if desc.TestAPI != nil {
			invs = append(invs, desc.TestAPI)
		}
	}
	for _, inv := range invs {
		if err := registry.ValidateInvocable(ctx, desc.UniqueName, inv, desc.Properties, extras); err != nil {
			return err
		}
	}
	return nil
}
