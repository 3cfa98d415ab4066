package registry

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"github.com/specialistvlad/recipekit/internal/configtree"
	"github.com/specialistvlad/recipekit/internal/property"
)

// Module is the interface that every Go package contributing surfaces,
// contexts or entrypoints implements.
type Module interface {
	Register(r *Registry)
}

// binding turns a registered function into a property.Invocable.
type binding struct {
	inv *property.Func
}

func (b *binding) bind(id string, fn any, params []string) {
	if b.inv != nil {
		panic(fmt.Sprintf("'%s' is already registered as '%s'", id, b.inv.Name()))
	}
	b.inv = property.NewFunc(id, fn, params...)
}

func (b *binding) Name() string             { return b.inv.Name() }
func (b *binding) ParamNames() []string     { return b.inv.ParamNames() }
func (b *binding) FuncValue() reflect.Value { return b.inv.FuncValue() }

// Surface is a capability surface: a factory building the object a module
// exposes to its dependents. Params names the factory's parameters in order.
type Surface struct {
	Fn     any
	Params []string
	binding
}

// Entrypoint is a recipe's run function. Params names its parameters in order.
type Entrypoint struct {
	Fn     any
	Params []string
	binding
}

var (
	_ property.Invocable = (*Surface)(nil)
	_ property.Invocable = (*Entrypoint)(nil)
)

// Registry holds every registered surface, context and entrypoint for a
// single application instance.
type Registry struct {
	apis        map[string]*Surface
	testAPIs    map[string]*Surface
	configs     map[string]*configtree.Context
	entrypoints map[string]*Entrypoint
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		apis:        make(map[string]*Surface),
		testAPIs:    make(map[string]*Surface),
		configs:     make(map[string]*configtree.Context),
		entrypoints: make(map[string]*Entrypoint),
	}
}

// Register lets each module add its identifiers.
func (r *Registry) Register(mods ...Module) {
	for _, m := range mods {
		m.Register(r)
	}
}

// RegisterAPI registers a production capability surface.
func (r *Registry) RegisterAPI(id string, s *Surface) {
	if _, exists := r.apis[id]; exists {
		panic(fmt.Sprintf("api with id '%s' already registered", id))
	}
	slog.Debug("Registering api.", "id", id)
	s.bind(id, s.Fn, s.Params)
	r.apis[id] = s
}

// RegisterTestAPI registers a test capability surface.
func (r *Registry) RegisterTestAPI(id string, s *Surface) {
	if _, exists := r.testAPIs[id]; exists {
		panic(fmt.Sprintf("test api with id '%s' already registered", id))
	}
	slog.Debug("Registering test api.", "id", id)
	s.bind(id, s.Fn, s.Params)
	r.testAPIs[id] = s
}

// RegisterConfig registers a configuration context.
func (r *Registry) RegisterConfig(id string, c *configtree.Context) {
	if _, exists := r.configs[id]; exists {
		panic(fmt.Sprintf("config context with id '%s' already registered", id))
	}
	slog.Debug("Registering config context.", "id", id)
	r.configs[id] = c
}

// RegisterEntrypoint registers a recipe run function.
func (r *Registry) RegisterEntrypoint(id string, e *Entrypoint) {
	if _, exists := r.entrypoints[id]; exists {
		panic(fmt.Sprintf("entrypoint with id '%s' already registered", id))
	}
	slog.Debug("Registering entrypoint.", "id", id)
	e.bind(id, e.Fn, e.Params)
	r.entrypoints[id] = e
}

func (r *Registry) API(id string) (*Surface, bool) {
	s, ok := r.apis[id]
	return s, ok
}

func (r *Registry) TestAPI(id string) (*Surface, bool) {
	s, ok := r.testAPIs[id]
	return s, ok
}

func (r *Registry) Config(id string) (*configtree.Context, bool) {
	c, ok := r.configs[id]
	return c, ok
}

func (r *Registry) Entrypoint(id string) (*Entrypoint, bool) {
	e, ok := r.entrypoints[id]
	return e, ok
}

// IDs returns the sorted identifiers of every registered item, by kind.
func (r *Registry) IDs() map[string][]string {
	return map[string][]string{
		"api":        sortedKeys(r.apis),
		"test_api":   sortedKeys(r.testAPIs),
		"config":     sortedKeys(r.configs),
		"entrypoint": sortedKeys(r.entrypoints),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
