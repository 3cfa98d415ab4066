package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/recipekit/internal/ctxlog"
	"github.com/specialistvlad/recipekit/internal/pkgset"
	"github.com/specialistvlad/recipekit/internal/registry"
	"github.com/specialistvlad/recipekit/internal/universe"
)

// App encapsulates the application's dependencies and configuration.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	packages *pkgset.Set
	universe *universe.Universe
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// The core modules are always registered; modules are added to them.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	reg.Register(coreModules()...)
	reg.Register(modules...)
	logger.Debug("All Go modules registered.", "count", len(coreModules())+len(modules))

	var (
		set *pkgset.Set
		err error
	)
	builtins := builtinPackages()
	if cfg.PackagesFile != "" {
		set, err = pkgset.LoadFile(cfg.PackagesFile, builtins...)
	} else {
		set, err = pkgset.New(append(builtins, cfg.Packages...)...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load package set: %w", err)
	}
	logger.Debug("Package set resolved.", "packages", len(set.Packages()))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		packages: set,
		universe: universe.New(set, reg),
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Universe returns the application's universe.
func (a *App) Universe() *universe.Universe {
	return a.universe
}

// Context returns ctx carrying the application's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Recipes lists the recipes of pkg, or of every package when pkg is empty,
// keyed by package name.
func (a *App) Recipes(ctx context.Context, pkg string) (map[string][]string, error) {
	ctx = a.Context(ctx)
	var names []string
	if pkg != "" {
		names = []string{pkg}
	} else {
		for _, p := range a.universe.Packages() {
			names = append(names, p.Name)
		}
	}

	out := make(map[string][]string, len(names))
	for _, n := range names {
		recipes, err := a.universe.RecipeNames(ctx, n)
		if err != nil {
			return nil, err
		}
		out[n] = recipes
	}
	return out, nil
}
