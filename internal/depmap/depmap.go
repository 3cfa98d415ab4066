// Package depmap builds one value per node of a dependency graph, bottom up.
package depmap

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/specialistvlad/recipekit/internal/ctxlog"
)

// ErrCycle is returned when a node is reached again while its own value is
// still being built.
var ErrCycle = errors.New("dependency cycle")

// Node is anything that exposes its dependencies by local name.
type Node[N any] interface {
	comparable
	Dependencies() map[string]N
}

// Instantiator builds the value of node from the values of its dependencies,
// keyed by local name.
type Instantiator[N any, V any] func(ctx context.Context, node N, deps map[string]V) (V, error)

// Mapper caches one value per node. Diamonds collapse: a node shared by
// several dependents is instantiated once and the same value is handed to
// each of them.
type Mapper[N Node[N], V any] struct {
	instantiate Instantiator[N, V]

	mu         sync.Mutex
	cache      map[N]V
	inProgress map[N]bool
}

// New creates a Mapper around an instantiator.
func New[N Node[N], V any](fn Instantiator[N, V]) *Mapper[N, V] {
	return &Mapper[N, V]{
		instantiate: fn,
		cache:       make(map[N]V),
		inProgress:  make(map[N]bool),
	}
}

// Instantiate returns the value of node, building it and every dependency
// below it on first use.
func (m *Mapper[N, V]) Instantiate(ctx context.Context, node N) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.build(ctx, node)
}

func (m *Mapper[N, V]) build(ctx context.Context, node N) (V, error) {
	if v, ok := m.cache[node]; ok {
		return v, nil
	}
	var zero V
	if m.inProgress[node] {
		return zero, fmt.Errorf("%w at %v", ErrCycle, node)
	}
	m.inProgress[node] = true
	defer delete(m.inProgress, node)

	deps := node.Dependencies()
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make(map[string]V, len(deps))
	for _, name := range names {
		v, err := m.build(ctx, deps[name])
		if err != nil {
			return zero, err
		}
		values[name] = v
	}

	ctxlog.FromContext(ctx).Debug("Instantiating node.", "node", fmt.Sprint(node))
	v, err := m.instantiate(ctx, node, values)
	if err != nil {
		return zero, fmt.Errorf("instantiating %v: %w", node, err)
	}
	m.cache[node] = v
	return v, nil
}

// Cached returns the value of node if it has been built.
func (m *Mapper[N, V]) Cached(node N) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.cache[node]
	return v, ok
}

// Len returns the number of built nodes.
func (m *Mapper[N, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cache)
}
