package configtree

import (
	"errors"
	"fmt"
	"sort"
)

// Inputs are the named values handed to the schema factory and to every
// function body during one application.
type Inputs map[string]any

// SchemaFunc builds a fresh tree for a context.
type SchemaFunc func(Inputs) *Group

// Body mutates tree in place. Returning an error aborts the application.
type Body func(tree *Group, in Inputs) error

// Context is a named collection of configuration functions sharing one schema.
type Context struct {
	name   string
	schema SchemaFunc
	funcs  map[string]*Function
	order  []string
	root   *Function
}

// NewContext creates an empty context.
func NewContext(name string, schema SchemaFunc) *Context {
	if schema == nil {
		panic(fmt.Sprintf("configtree: context '%s' has no schema", name))
	}
	return &Context{
		name:   name,
		schema: schema,
		funcs:  make(map[string]*Function),
	}
}

// Name returns the context's name.
func (c *Context) Name() string { return c.name }

// NewTree builds a fresh, unconfigured tree from the schema.
func (c *Context) NewTree(in Inputs) *Group {
	return c.schema(in)
}

// FuncOption configures a Function at registration.
type FuncOption func(*Function)

// InGroup tags the function with a mutual exclusion group.
func InGroup(tag string) FuncOption {
	return func(f *Function) { f.group = tag }
}

// Includes names functions of the same context that are applied first.
func Includes(names ...string) FuncOption {
	return func(f *Function) { f.includes = append(f.includes, names...) }
}

// Deps names groups that must already have a member applied.
func Deps(tags ...string) FuncOption {
	return func(f *Function) { f.deps = append(f.deps, tags...) }
}

// Root marks the function as the context's root.
func Root() FuncOption {
	return func(f *Function) { f.isRoot = true }
}

// Register adds a configuration function. A duplicate name or a second root
// panics.
func (c *Context) Register(name string, body Body, opts ...FuncOption) *Function {
	if _, exists := c.funcs[name]; exists {
		panic(fmt.Sprintf("configtree: function '%s' already registered in context '%s'", name, c.name))
	}
	if body == nil {
		panic(fmt.Sprintf("configtree: function '%s' has no body", name))
	}
	f := &Function{ctx: c, name: name, body: body}
	for _, opt := range opts {
		opt(f)
	}
	if f.isRoot {
		if c.root != nil {
			panic(fmt.Sprintf("configtree: context '%s' already has root '%s', cannot add '%s'", c.name, c.root.name, name))
		}
		c.root = f
	}
	c.funcs[name] = f
	c.order = append(c.order, name)
	return f
}

// Function returns the named function.
func (c *Context) Function(name string) (*Function, bool) {
	f, ok := c.funcs[name]
	return f, ok
}

// Functions returns every registered function name in registration order.
func (c *Context) Functions() []string {
	return append([]string(nil), c.order...)
}

// Groups returns the distinct group tags, sorted.
func (c *Context) Groups() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, f := range c.funcs {
		if f.group == "" {
			continue
		}
		if _, ok := seen[f.group]; !ok {
			seen[f.group] = struct{}{}
			out = append(out, f.group)
		}
	}
	sort.Strings(out)
	return out
}

// Root returns the root function, if any.
func (c *Context) Root() *Function { return c.root }

// Apply looks up a function by name and applies it.
func (c *Context) Apply(name string, tree *Group, opts ...ApplyOption) (*Group, error) {
	f, ok := c.funcs[name]
	if !ok {
		return tree, &BadConfigError{Func: name, Msg: fmt.Sprintf("no such function in context '%s'", c.name)}
	}
	return f.Apply(tree, opts...)
}

// Function is a registered, constrained mutation over a tree.
type Function struct {
	ctx      *Context
	name     string
	body     Body
	group    string
	includes []string
	deps     []string
	isRoot   bool
}

func (f *Function) Name() string       { return f.name }
func (f *Function) Group() string      { return f.group }
func (f *Function) IsRoot() bool       { return f.isRoot }
func (f *Function) Includes() []string { return append([]string(nil), f.includes...) }
func (f *Function) Deps() []string     { return append([]string(nil), f.deps...) }

// ApplyOption tunes one application.
type ApplyOption func(*applyOptions)

type applyOptions struct {
	optional bool
	notFinal bool
	inputs   Inputs
}

// Optional turns a re-application on a tree that already carries the
// function into a no-op.
func Optional() ApplyOption {
	return func(o *applyOptions) { o.optional = true }
}

// NotFinal runs the body without recording the function as applied.
func NotFinal() ApplyOption {
	return func(o *applyOptions) { o.notFinal = true }
}

// WithInputs passes inputs to the schema factory and to the bodies.
func WithInputs(in Inputs) ApplyOption {
	return func(o *applyOptions) { o.inputs = in }
}

// Apply applies the function to tree, building a fresh tree when tree is nil.
// The context's root is applied first when it has not been yet. Includes that
// are already applied are skipped; a direct re-application fails with
// *BadConfigError unless Optional is given.
func (f *Function) Apply(tree *Group, opts ...ApplyOption) (*Group, error) {
	var o applyOptions
	for _, opt := range opts {
		opt(&o)
	}
	if tree == nil {
		tree = f.ctx.schema(o.inputs)
	}

	if root := f.ctx.root; root != nil && root != f && !tree.Applied(root.name) {
		if _, err := root.Apply(tree, WithInputs(o.inputs)); err != nil {
			var bad *BadConfigError
			if errors.As(err, &bad) {
				return tree, &BadConfigError{Func: f.name, Msg: fmt.Sprintf("while applying root '%s'", root.name), Err: err}
			}
			return tree, fmt.Errorf("config function '%s' applying root '%s': %w", f.name, root.name, err)
		}
	}

	if tree.Applied(f.name) {
		if o.optional {
			return tree, nil
		}
		return tree, &BadConfigError{Func: f.name, Msg: "already applied to this tree"}
	}

	if !o.notFinal {
		tree.markApplied(f.name)
	}

	for _, inc := range f.includes {
		if tree.Applied(inc) {
			continue
		}
		incFn, ok := f.ctx.funcs[inc]
		if !ok {
			return tree, &BadConfigError{Func: f.name, Msg: fmt.Sprintf("includes unknown function '%s'", inc)}
		}
		if _, err := incFn.Apply(tree, WithInputs(o.inputs)); err != nil {
			var bad *BadConfigError
			if errors.As(err, &bad) {
				return tree, &BadConfigError{Func: f.name, Msg: fmt.Sprintf("while including '%s'", inc), Err: err}
			}
			return tree, fmt.Errorf("config function '%s' including '%s': %w", f.name, inc, err)
		}
	}

	for _, tag := range f.deps {
		if f.appliedInGroup(tree, tag, "") == "" {
			return tree, &BadConfigError{Func: f.name, Msg: fmt.Sprintf("requires a function from group '%s' to be applied first", tag)}
		}
	}

	if f.group != "" {
		if peer := f.appliedInGroup(tree, f.group, f.name); peer != "" {
			return tree, &BadConfigError{
				Func: f.name,
				Msg:  fmt.Sprintf("cannot be applied together with '%s' (both in group '%s')", peer, f.group),
			}
		}
	}

	if err := f.body(tree, o.inputs); err != nil {
		return tree, fmt.Errorf("config function '%s': %w", f.name, err)
	}
	return tree, nil
}

// appliedInGroup returns the first applied function tagged with group, other
// than skip, or "" when there is none.
func (f *Function) appliedInGroup(tree *Group, group, skip string) string {
	for _, name := range tree.Inclusions() {
		if name == skip {
			continue
		}
		if other, ok := f.ctx.funcs[name]; ok && other.group == group {
			return name
		}
	}
	return ""
}
