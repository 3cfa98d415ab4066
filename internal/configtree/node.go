package configtree

import "reflect"

// Node is one value in a configuration tree.
type Node interface {
	// SetValue validates v against the node's declared type and stores it.
	SetValue(v any) error
	// ResetToDefault restores the node (and its children) to the declared default.
	ResetToDefault()
	// Render returns a plain, serializable copy of the node's value. Hidden
	// children holding their default are dropped unless includeHidden is set.
	Render(includeHidden bool) any
	// IsComplete reports whether every required value has been set.
	IsComplete() bool
	// IsDefault reports whether the node still holds its default.
	IsDefault() bool
	// IsHidden reports whether the node is omitted from renders while default.
	IsHidden() bool
}

// NodeOption configures a value node at construction.
type NodeOption func(*nodeOptions)

type nodeOptions struct {
	hidden     bool
	required   bool
	def        any
	hasDefault bool
}

// Hidden omits the node from default renders while it holds its default.
func Hidden() NodeOption {
	return func(o *nodeOptions) { o.hidden = true }
}

// Required marks a Scalar as incomplete until it holds a non-default value.
func Required() NodeOption {
	return func(o *nodeOptions) { o.required = true }
}

// Default sets the value a Scalar starts from and resets to.
func Default(v any) NodeOption {
	return func(o *nodeOptions) {
		o.def = v
		o.hasDefault = true
	}
}

func buildOptions(opts []NodeOption) nodeOptions {
	var o nodeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// omitted reports whether a child is dropped from its parent's render.
func omitted(n Node, includeHidden bool) bool {
	return !includeHidden && n.IsHidden() && n.IsDefault()
}

// deepCopy copies slices and maps recursively, keeping their concrete types,
// so a rendered value never shares storage with the tree.
func deepCopy(v any) any {
	if v == nil {
		return nil
	}
	return copyValue(reflect.ValueOf(v)).Interface()
}

func copyValue(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return rv
		}
		out := reflect.New(rv.Type()).Elem()
		out.Set(copyValue(rv.Elem()))
		return out
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(copyValue(rv.Index(i)))
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), copyValue(iter.Value()))
		}
		return out
	}
	return rv
}
