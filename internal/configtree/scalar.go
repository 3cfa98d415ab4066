package configtree

import (
	"errors"
	"reflect"

	"github.com/zclconf/go-cty/cty"
)

// Scalar holds a single typed value.
type Scalar struct {
	ty       cty.Type
	def      any
	value    any
	required bool
	hidden   bool
}

// NewScalar creates a Scalar of the given type. The default must itself
// conform to the type; a mismatch is a schema bug and panics.
func NewScalar(ty cty.Type, opts ...NodeOption) *Scalar {
	o := buildOptions(opts)
	if err := CheckType(ty, o.def); err != nil {
		panic("configtree: invalid scalar default: " + err.Error())
	}
	return &Scalar{
		ty:       ty,
		def:      o.def,
		value:    o.def,
		required: o.required,
		hidden:   o.hidden,
	}
}

// Type returns the declared type.
func (s *Scalar) Type() cty.Type { return s.ty }

// Get returns the current value.
func (s *Scalar) Get() any { return s.value }

// SetValue stores v after checking it against the declared type. Nil resets
// the scalar to its default.
func (s *Scalar) SetValue(v any) error {
	if v == nil {
		s.ResetToDefault()
		return nil
	}
	if err := CheckType(s.ty, v); err != nil {
		return err
	}
	s.value = v
	return nil
}

// Set is SetValue for call sites that treat a type error as a schema bug.
func (s *Scalar) Set(v any) {
	if err := s.SetValue(v); err != nil {
		panic(err)
	}
}

func (s *Scalar) ResetToDefault() { s.value = s.def }

func (s *Scalar) Render(bool) any { return deepCopy(s.value) }

func (s *Scalar) IsComplete() bool { return !s.required || !s.IsDefault() }

func (s *Scalar) IsDefault() bool { return reflect.DeepEqual(s.value, s.def) }

func (s *Scalar) IsHidden() bool { return s.hidden }

// Static is an immutable input value, fixed when the tree is built.
type Static struct {
	value  any
	hidden bool
}

// ErrStatic is returned when something tries to assign a Static node.
var ErrStatic = errors.New("static configuration values cannot be changed")

// NewStatic wraps v. Only the Hidden option is meaningful.
func NewStatic(v any, opts ...NodeOption) *Static {
	o := buildOptions(opts)
	return &Static{value: v, hidden: o.hidden}
}

// Get returns the fixed value.
func (s *Static) Get() any { return s.value }

func (s *Static) SetValue(any) error { return ErrStatic }

func (s *Static) ResetToDefault() {}

func (s *Static) Render(bool) any { return deepCopy(s.value) }

// IsComplete is always true: a static value is always set.
func (s *Static) IsComplete() bool { return true }

// IsDefault is always false so that static inputs always render.
func (s *Static) IsDefault() bool { return false }

func (s *Static) IsHidden() bool { return s.hidden }
