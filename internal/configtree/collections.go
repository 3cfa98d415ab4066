package configtree

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/specialistvlad/recipekit/internal/hclutil"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// List is an ordered repetition of values of one element type.
type List struct {
	elem   cty.Type
	values []any
	hidden bool
}

// NewList creates an empty List of the given element type.
func NewList(elem cty.Type, opts ...NodeOption) *List {
	o := buildOptions(opts)
	return &List{elem: elem, hidden: o.hidden}
}

// Append validates and appends values. Nothing is appended if any value is invalid.
func (l *List) Append(vs ...any) error {
	for i, v := range vs {
		if err := CheckType(l.elem, v); err != nil {
			return fmt.Errorf("list element %d: %w", i, err)
		}
	}
	l.values = append(l.values, vs...)
	return nil
}

// Get returns a copy of the values.
func (l *List) Get() []any { return append([]any{}, l.values...) }

// Len returns the number of values.
func (l *List) Len() int { return len(l.values) }

// SetValue replaces the contents with the elements of a slice.
func (l *List) SetValue(v any) error {
	items, err := toSlice(v)
	if err != nil {
		return err
	}
	for i, item := range items {
		if err := CheckType(l.elem, item); err != nil {
			return fmt.Errorf("list element %d: %w", i, err)
		}
	}
	l.values = items
	return nil
}

func (l *List) ResetToDefault() { l.values = nil }

func (l *List) Render(bool) any { return deepCopy(l.Get()) }

func (l *List) IsComplete() bool { return true }

func (l *List) IsDefault() bool { return len(l.values) == 0 }

func (l *List) IsHidden() bool { return l.hidden }

// Set is an insertion-ordered collection of unique values of one element type.
type Set struct {
	elem   cty.Type
	keys   map[string]struct{}
	values []any
	hidden bool
}

// NewSet creates an empty Set of the given element type.
func NewSet(elem cty.Type, opts ...NodeOption) *Set {
	o := buildOptions(opts)
	return &Set{elem: elem, keys: make(map[string]struct{}), hidden: o.hidden}
}

// Add validates and inserts values; duplicates are ignored.
func (s *Set) Add(vs ...any) error {
	for _, v := range vs {
		if err := CheckType(s.elem, v); err != nil {
			return fmt.Errorf("set element: %w", err)
		}
	}
	for _, v := range vs {
		key, err := setKey(v)
		if err != nil {
			return err
		}
		if _, ok := s.keys[key]; ok {
			continue
		}
		s.keys[key] = struct{}{}
		s.values = append(s.values, v)
	}
	return nil
}

// Has reports whether an equal value is in the set.
func (s *Set) Has(v any) bool {
	key, err := setKey(v)
	if err != nil {
		return false
	}
	_, ok := s.keys[key]
	return ok
}

// Get returns a copy of the values in insertion order.
func (s *Set) Get() []any { return append([]any{}, s.values...) }

// Len returns the number of values.
func (s *Set) Len() int { return len(s.values) }

func (s *Set) SetValue(v any) error {
	items, err := toSlice(v)
	if err != nil {
		return err
	}
	fresh := NewSet(s.elem)
	if err := fresh.Add(items...); err != nil {
		return err
	}
	s.keys, s.values = fresh.keys, fresh.values
	return nil
}

func (s *Set) ResetToDefault() {
	s.keys = make(map[string]struct{})
	s.values = nil
}

func (s *Set) Render(bool) any { return deepCopy(s.Get()) }

func (s *Set) IsComplete() bool { return true }

func (s *Set) IsDefault() bool { return len(s.values) == 0 }

func (s *Set) IsHidden() bool { return s.hidden }

// setKey derives a canonical identity for a value from its JSON form. cty
// objects marshal with sorted keys, so equal maps produce equal keys.
func setKey(v any) (string, error) {
	val, err := hclutil.NativeToCty(v)
	if err != nil {
		return "", err
	}
	raw, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return "", fmt.Errorf("set element is not representable: %w", err)
	}
	return string(raw), nil
}

// Dict maps string keys to values of one element type.
type Dict struct {
	elem   cty.Type
	values map[string]any
	hidden bool
}

// NewDict creates an empty Dict of the given element type.
func NewDict(elem cty.Type, opts ...NodeOption) *Dict {
	o := buildOptions(opts)
	return &Dict{elem: elem, values: make(map[string]any), hidden: o.hidden}
}

// SetKey validates and stores one entry.
func (d *Dict) SetKey(key string, v any) error {
	if err := CheckType(d.elem, v); err != nil {
		return fmt.Errorf("dict key '%s': %w", key, err)
	}
	d.values[key] = v
	return nil
}

// Get returns the value stored under key.
func (d *Dict) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Keys returns the sorted keys.
func (d *Dict) Keys() []string {
	keys := make([]string, 0, len(d.values))
	for k := range d.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (d *Dict) SetValue(v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return &TypeError{Want: "map of " + d.elem.FriendlyName(), Got: fmt.Sprintf("%T", v)}
	}
	fresh := make(map[string]any, len(m))
	for k, item := range m {
		if err := CheckType(d.elem, item); err != nil {
			return fmt.Errorf("dict key '%s': %w", k, err)
		}
		fresh[k] = item
	}
	d.values = fresh
	return nil
}

func (d *Dict) ResetToDefault() { d.values = make(map[string]any) }

func (d *Dict) Render(bool) any { return deepCopy(d.values) }

func (d *Dict) IsComplete() bool { return true }

func (d *Dict) IsDefault() bool { return len(d.values) == 0 }

func (d *Dict) IsHidden() bool { return d.hidden }

// toSlice accepts any Go slice or array and returns its elements as []any.
func toSlice(v any) ([]any, error) {
	if items, ok := v.([]any); ok {
		return append([]any(nil), items...), nil
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, &TypeError{Want: "sequence", Got: fmt.Sprintf("%T", v)}
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, nil
}
