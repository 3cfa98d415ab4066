// Package environ exposes environment variables to recipes, restricted to
// the allowlist given in the `$recipe_engine/environ` property.
package environ

import (
	"os"
	"sort"
	"strings"

	"github.com/specialistvlad/recipekit/internal/recipeapi"
	"github.com/specialistvlad/recipekit/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Properties is the module scoped property.
type Properties struct {
	Allowlist []string `cty:"allowlist"`
}

// Environ is what dependents see of both surfaces.
type Environ interface {
	Get(key string) (string, bool)
	All() map[string]string
}

// API is the production surface. It reads the process environment.
type API struct {
	*recipeapi.Base
	vars    map[string]string
	allowed map[string]bool
}

var _ Environ = (*API)(nil)

// NewEnviron snapshots the process environment.
func NewEnviron(base *recipeapi.Base, properties Properties) *API {
	vars := make(map[string]string)
	for _, e := range os.Environ() {
		if k, v, ok := strings.Cut(e, "="); ok {
			vars[k] = v
		}
	}
	return newAPI(base, properties, vars)
}

func newAPI(base *recipeapi.Base, properties Properties, vars map[string]string) *API {
	a := &API{Base: base, vars: vars}
	if len(properties.Allowlist) > 0 {
		a.allowed = make(map[string]bool, len(properties.Allowlist))
		for _, k := range properties.Allowlist {
			a.allowed[k] = true
		}
	}
	return a
}

func (a *API) visible(key string) bool {
	return a.allowed == nil || a.allowed[key]
}

// Get returns a variable when it is set and allowlisted.
func (a *API) Get(key string) (string, bool) {
	if !a.visible(key) {
		return "", false
	}
	v, ok := a.vars[key]
	return v, ok
}

// All returns every visible variable.
func (a *API) All() map[string]string {
	out := make(map[string]string)
	for k, v := range a.vars {
		if a.visible(k) {
			out[k] = v
		}
	}
	return out
}

// Keys returns the names of every visible variable, sorted.
func (a *API) Keys() []string {
	keys := make([]string, 0, len(a.vars))
	for k := range a.All() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TestAPI is the test surface. It starts with an empty environment.
type TestAPI struct {
	*API
}

// NewEnvironTest builds the test surface.
func NewEnvironTest(base *recipeapi.Base, properties Properties) *TestAPI {
	return &TestAPI{API: newAPI(base, properties, make(map[string]string))}
}

// Set simulates a variable.
func (t *TestAPI) Set(key, value string) { t.vars[key] = value }

// Register registers the surfaces with the engine.
func (m *Module) Register(r *registry.Registry) {
	params := []string{"base", "properties"}
	r.RegisterAPI("NewEnviron", &registry.Surface{Fn: NewEnviron, Params: params})
	r.RegisterTestAPI("NewEnvironTest", &registry.Surface{Fn: NewEnvironTest, Params: params})
}
