package configtree

import (
	"fmt"
	"sort"
)

// Member is one named child of a Group.
type Member struct {
	Name string
	Node Node
}

// Field pairs a name with a node for NewGroup.
func Field(name string, n Node) Member {
	return Member{Name: name, Node: n}
}

// Group is a fixed, ordered set of named, typed children. The Group a
// configuration function is applied to also records which functions have
// been applied to it.
type Group struct {
	names      []string
	children   map[string]Node
	hidden     bool
	inclusions map[string]struct{}
	applied    []string
}

// NewGroup builds a Group from its members. Duplicate names are a schema bug
// and panic.
func NewGroup(members ...Member) *Group {
	g := &Group{
		children:   make(map[string]Node, len(members)),
		inclusions: make(map[string]struct{}),
	}
	for _, m := range members {
		if _, exists := g.children[m.Name]; exists {
			panic(fmt.Sprintf("configtree: duplicate group member '%s'", m.Name))
		}
		if m.Node == nil {
			panic(fmt.Sprintf("configtree: group member '%s' has no node", m.Name))
		}
		g.names = append(g.names, m.Name)
		g.children[m.Name] = m.Node
	}
	return g
}

// AsHidden marks the group as omitted from renders while it is default.
func (g *Group) AsHidden() *Group {
	g.hidden = true
	return g
}

// Names returns the member names in declaration order.
func (g *Group) Names() []string { return append([]string(nil), g.names...) }

// Get returns the named child.
func (g *Group) Get(name string) (Node, bool) {
	n, ok := g.children[name]
	return n, ok
}

func (g *Group) mustGet(name string) Node {
	n, ok := g.children[name]
	if !ok {
		panic(fmt.Sprintf("configtree: no member named '%s'", name))
	}
	return n
}

// Scalar returns the named Scalar child. Asking for a missing member or for
// the wrong variant is a programming error and panics.
func (g *Group) Scalar(name string) *Scalar { return mustKind[*Scalar](g, name) }

// List returns the named List child.
func (g *Group) List(name string) *List { return mustKind[*List](g, name) }

// Set returns the named Set child.
func (g *Group) Set(name string) *Set { return mustKind[*Set](g, name) }

// Dict returns the named Dict child.
func (g *Group) Dict(name string) *Dict { return mustKind[*Dict](g, name) }

// Static returns the named Static child.
func (g *Group) Static(name string) *Static { return mustKind[*Static](g, name) }

// Group returns the named sub-group.
func (g *Group) Group(name string) *Group { return mustKind[*Group](g, name) }

// GroupList returns the named GroupList child.
func (g *Group) GroupList(name string) *GroupList { return mustKind[*GroupList](g, name) }

func mustKind[T Node](g *Group, name string) T {
	n := g.mustGet(name)
	typed, ok := n.(T)
	if !ok {
		var zero T
		panic(fmt.Sprintf("configtree: member '%s' is %T, not %T", name, n, zero))
	}
	return typed
}

// SetValue assigns a map of member values. Either every member is assigned
// or, on the first error, the members already assigned are restored.
func (g *Group) SetValue(v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return &TypeError{Want: "group", Got: fmt.Sprintf("%T", v)}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		if _, ok := g.children[k]; !ok {
			return fmt.Errorf("group has no member named '%s'", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	restore := g.snapshot()
	for _, k := range keys {
		if err := g.children[k].SetValue(m[k]); err != nil {
			restore()
			return fmt.Errorf("member '%s': %w", k, err)
		}
	}
	return nil
}

// snapshot captures the assignable state of the group's subtree and returns
// a function that puts it back.
func (g *Group) snapshot() func() {
	restores := make([]func(), 0, len(g.names))
	for _, name := range g.names {
		switch n := g.children[name].(type) {
		case *Scalar:
			value := n.value
			restores = append(restores, func() { n.value = value })
		case *List:
			values := n.values
			restores = append(restores, func() { n.values = values })
		case *Set:
			keys, values := n.keys, n.values
			restores = append(restores, func() { n.keys, n.values = keys, values })
		case *Dict:
			values := n.values
			restores = append(restores, func() { n.values = values })
		case *GroupList:
			items := n.items
			restores = append(restores, func() { n.items = items })
		case *Group:
			restores = append(restores, n.snapshot())
		}
	}
	return func() {
		for _, r := range restores {
			r()
		}
	}
}

func (g *Group) ResetToDefault() {
	for _, name := range g.names {
		g.children[name].ResetToDefault()
	}
}

// Render returns a map of member renders.
func (g *Group) Render(includeHidden bool) any {
	out := make(map[string]any, len(g.names))
	for _, name := range g.names {
		child := g.children[name]
		if omitted(child, includeHidden) {
			continue
		}
		out[name] = child.Render(includeHidden)
	}
	return out
}

// RenderMap is Render with the concrete map type.
func (g *Group) RenderMap(includeHidden bool) map[string]any {
	return g.Render(includeHidden).(map[string]any)
}

func (g *Group) IsComplete() bool {
	for _, name := range g.names {
		if !g.children[name].IsComplete() {
			return false
		}
	}
	return true
}

func (g *Group) IsDefault() bool {
	for _, name := range g.names {
		if !g.children[name].IsDefault() {
			return false
		}
	}
	return true
}

func (g *Group) IsHidden() bool { return g.hidden }

// Applied reports whether the named configuration function has been recorded
// as applied to this tree.
func (g *Group) Applied(name string) bool {
	_, ok := g.inclusions[name]
	return ok
}

// Inclusions returns the applied function names in application order.
func (g *Group) Inclusions() []string { return append([]string(nil), g.applied...) }

func (g *Group) markApplied(name string) {
	if g.inclusions == nil {
		g.inclusions = make(map[string]struct{})
	}
	if _, ok := g.inclusions[name]; ok {
		return
	}
	g.inclusions[name] = struct{}{}
	g.applied = append(g.applied, name)
}

// GroupList is a repetition of sub-groups that share one schema.
type GroupList struct {
	factory func() *Group
	items   []*Group
	hidden  bool
}

// NewGroupList creates an empty GroupList whose items come from factory.
func NewGroupList(factory func() *Group, opts ...NodeOption) *GroupList {
	o := buildOptions(opts)
	return &GroupList{factory: factory, hidden: o.hidden}
}

// Add appends a fresh item and returns it for population.
func (l *GroupList) Add() *Group {
	item := l.factory()
	l.items = append(l.items, item)
	return item
}

// Items returns the current items.
func (l *GroupList) Items() []*Group { return append([]*Group(nil), l.items...) }

// SetValue replaces the items with groups built from a slice of maps.
func (l *GroupList) SetValue(v any) error {
	raw, err := toSlice(v)
	if err != nil {
		return err
	}
	items := make([]*Group, 0, len(raw))
	for i, r := range raw {
		item := l.factory()
		if err := item.SetValue(r); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}
	l.items = items
	return nil
}

func (l *GroupList) ResetToDefault() { l.items = nil }

func (l *GroupList) Render(includeHidden bool) any {
	out := make([]any, 0, len(l.items))
	for _, item := range l.items {
		out = append(out, item.Render(includeHidden))
	}
	return out
}

func (l *GroupList) IsComplete() bool {
	for _, item := range l.items {
		if !item.IsComplete() {
			return false
		}
	}
	return true
}

func (l *GroupList) IsDefault() bool { return len(l.items) == 0 }

func (l *GroupList) IsHidden() bool { return l.hidden }
