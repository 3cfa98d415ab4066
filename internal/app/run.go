package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/recipekit/internal/ctxlog"
	"github.com/specialistvlad/recipekit/internal/dag"
	"github.com/specialistvlad/recipekit/internal/depmap"
	"github.com/specialistvlad/recipekit/internal/property"
	"github.com/specialistvlad/recipekit/internal/recipeapi"
	"github.com/specialistvlad/recipekit/internal/unit"
)

// ErrNoEntrypoint is returned when running a recipe that declares none.
var ErrNoEntrypoint = errors.New("recipe has no entrypoint")

// Run is one instantiation of a recipe and its module closure.
type Run struct {
	ID     string
	Recipe *unit.Descriptor
	// API is the recipe's Base; its dependencies are the instantiated module
	// APIs.
	API *recipeapi.Base

	props  map[string]any
	env    map[string]string
	mapper *depmap.Mapper[*unit.Descriptor, any]
}

// Instance returns the object built for d during this run.
func (r *Run) Instance(d *unit.Descriptor) (any, bool) {
	return r.mapper.Cached(d)
}

// Instances reports how many units were instantiated.
func (r *Run) Instances() int {
	return r.mapper.Len()
}

// Prepare loads a recipe and instantiates its closure with the production
// capability surfaces. props holds explicit property values keyed by their
// external name; env is the environment fallback.
func (a *App) Prepare(ctx context.Context, pkg, recipe string, props map[string]any, env map[string]string) (*Run, error) {
	id := uuid.NewString()
	ctx = ctxlog.With(a.Context(ctx), "run_id", id)
	logger := ctxlog.FromContext(ctx)
	logger.Info("Preparing recipe.", "package", pkg, "recipe", recipe)

	desc, err := a.universe.LoadRecipe(ctx, pkg, recipe)
	if err != nil {
		return nil, err
	}

	mapper := depmap.New(instantiator(props, env, false))
	v, err := mapper.Instantiate(ctx, desc)
	if err != nil {
		return nil, err
	}
	logger.Debug("Recipe instantiated.", "unique_name", desc.UniqueName, "instances", mapper.Len())

	return &Run{
		ID:     id,
		Recipe: desc,
		API:    v.(*recipeapi.Base),
		props:  props,
		env:    env,
		mapper: mapper,
	}, nil
}

// TestAPIs instantiates the closure of desc a second time, building every
// module from its test surface. Modules without one get a recipeapi.TestBase.
func (a *App) TestAPIs(ctx context.Context, desc *unit.Descriptor, props map[string]any, env map[string]string) (*recipeapi.Base, error) {
	ctx = ctxlog.With(a.Context(ctx), "run_id", uuid.NewString(), "test", true)
	v, err := depmap.New(instantiator(props, env, true)).Instantiate(ctx, desc)
	if err != nil {
		return nil, err
	}
	base, ok := v.(*recipeapi.Base)
	if !ok {
		return nil, fmt.Errorf("%s is not a recipe", desc.UniqueName)
	}
	return base, nil
}

// RunRecipe prepares a recipe and calls its entrypoint. It returns the
// entrypoint's first non-error result.
func (a *App) RunRecipe(ctx context.Context, pkg, recipe string, props map[string]any, env map[string]string) (any, error) {
	run, err := a.Prepare(ctx, pkg, recipe, props, env)
	if err != nil {
		return nil, err
	}
	return run.Invoke(a.Context(ctx))
}

// Invoke calls the recipe's entrypoint with the run's API.
func (r *Run) Invoke(ctx context.Context) (any, error) {
	if r.Recipe.Entrypoint == nil {
		return nil, fmt.Errorf("%s: %w", r.Recipe.UniqueName, ErrNoEntrypoint)
	}
	logger := ctxlog.FromContext(ctx).With("run_id", r.ID)
	logger.Info("Running recipe.", "recipe", r.Recipe.UniqueName, "entrypoint", r.Recipe.Entrypoint.Name())

	result, err := property.InvokeWithProperties(r.Recipe.Entrypoint, r.props, r.Recipe.Properties, r.env,
		map[string]any{unit.APIParam: r.API})
	if err != nil {
		logger.Error("Recipe failed.", "recipe", r.Recipe.UniqueName, "error", err)
		return nil, fmt.Errorf("running %s: %w", r.Recipe.UniqueName, err)
	}
	logger.Info("Recipe finished.", "recipe", r.Recipe.UniqueName)
	return result, nil
}

// Plan returns the unique names of the recipe's closure in the order they are
// instantiated: every unit after all of its dependencies.
func (a *App) Plan(ctx context.Context, pkg, recipe string) ([]string, error) {
	g, err := a.closure(ctx, pkg, recipe)
	if err != nil {
		return nil, err
	}
	return g.TopoSort()
}

// UnitEdges is one unit of a recipe's closure with its direct neighbours.
type UnitEdges struct {
	Name       string   `yaml:"name"`
	DependsOn  []string `yaml:"depends_on,omitempty"`
	RequiredBy []string `yaml:"required_by,omitempty"`
}

// Edges is Plan with each unit's direct dependencies and dependents.
func (a *App) Edges(ctx context.Context, pkg, recipe string) ([]UnitEdges, error) {
	g, err := a.closure(ctx, pkg, recipe)
	if err != nil {
		return nil, err
	}
	order, err := g.TopoSort()
	if err != nil {
		return nil, err
	}
	out := make([]UnitEdges, 0, len(order))
	for _, name := range order {
		deps, err := g.Dependencies(name)
		if err != nil {
			return nil, err
		}
		users, err := g.Dependents(name)
		if err != nil {
			return nil, err
		}
		out = append(out, UnitEdges{Name: name, DependsOn: deps, RequiredBy: users})
	}
	return out, nil
}

// closure loads the recipe and builds the graph of its units, with an edge
// from every dependency to the unit that declares it.
func (a *App) closure(ctx context.Context, pkg, recipe string) (*dag.Graph, error) {
	desc, err := a.universe.LoadRecipe(a.Context(ctx), pkg, recipe)
	if err != nil {
		return nil, err
	}

	g := dag.New()
	seen := map[*unit.Descriptor]bool{}
	var walk func(d *unit.Descriptor) error
	walk = func(d *unit.Descriptor) error {
		if seen[d] {
			return nil
		}
		seen[d] = true
		g.AddNode(d.UniqueName)
		for _, name := range d.DepNames() {
			dep := d.Deps[name]
			if err := walk(dep); err != nil {
				return err
			}
			if err := g.AddEdge(dep.UniqueName, d.UniqueName); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(desc); err != nil {
		return nil, err
	}
	return g, nil
}

// instantiator builds the Base of a recipe, or the capability object of a
// module by calling its surface with the interpreted properties.
func instantiator(props map[string]any, env map[string]string, test bool) depmap.Instantiator[*unit.Descriptor, any] {
	return func(ctx context.Context, d *unit.Descriptor, deps map[string]any) (any, error) {
		values := make(map[string]any, len(d.Properties))
		for name, bp := range d.Properties {
			provided, present := props[name]
			v, err := bp.Interpret(provided, present, env)
			if err != nil {
				return nil, err
			}
			values[name] = v
		}

		base := recipeapi.NewBase(recipeapi.Spec{
			Name:        d.Name,
			UniqueName:  d.UniqueName,
			FS:          d.Package.FS,
			ResourceDir: d.ResourceDir,
			Deps:        deps,
			Config:      d.Config,
			Properties:  values,
		})
		if d.Kind == unit.KindRecipe {
			return base, nil
		}

		surface := d.API
		if test {
			if d.TestAPI == nil {
				return recipeapi.NewTestBase(base), nil
			}
			surface = d.TestAPI
		}
		return property.InvokeWithProperties(surface, props, d.Properties, env,
			map[string]any{unit.BaseParam: base})
	}
}
