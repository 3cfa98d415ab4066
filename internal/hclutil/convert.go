package hclutil

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// CtyToNative recursively converts a cty.Value to its most natural Go
// counterpart: string, bool, int (whole numbers that fit), float64, []any or
// map[string]any. Null and unknown values become nil.
func CtyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()

	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact && int64(int(i)) == i {
				return int(i), nil
			}
		}
		f, _ := bf.Float64()
		return f, nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			native, err := CtyToNative(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			native, err := CtyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", key.AsString(), err)
			}
			out[key.AsString()] = native
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported cty type for conversion: %s", ty.FriendlyName())
	}
}

// NativeToCty converts a plain Go value into a cty.Value without applying any
// type constraint. Slices become tuples and maps become objects, which keeps
// heterogeneous values representable; conformance against a declared type is
// the caller's job.
func NativeToCty(v any) (cty.Value, error) {
	if v == nil {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}
	if val, ok := v.(cty.Value); ok {
		return val, nil
	}
	return nativeToCty(reflect.ValueOf(v))
}

func nativeToCty(rv reflect.Value) (cty.Value, error) {
	switch rv.Kind() {
	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			return cty.NullVal(cty.DynamicPseudoType), nil
		}
		if rv.Kind() == reflect.Pointer && rv.Elem().Kind() == reflect.Struct {
			return structToCty(rv.Interface())
		}
		return nativeToCty(rv.Elem())
	case reflect.String:
		return cty.StringVal(rv.String()), nil
	case reflect.Bool:
		return cty.BoolVal(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cty.NumberIntVal(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cty.NumberUIntVal(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		if math.IsNaN(rv.Float()) {
			return cty.NilVal, fmt.Errorf("NaN is not a number value")
		}
		return cty.NumberFloatVal(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, err := nativeToCty(rv.Index(i))
			if err != nil {
				return cty.NilVal, fmt.Errorf("index %d: %w", i, err)
			}
			elems = append(elems, elem)
		}
		return cty.TupleVal(elems), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return cty.NilVal, fmt.Errorf("unsupported map key type %s", rv.Type().Key())
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		attrs := make(map[string]cty.Value, len(keys))
		for _, k := range keys {
			elem, err := nativeToCty(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())))
			if err != nil {
				return cty.NilVal, fmt.Errorf("key '%s': %w", k, err)
			}
			attrs[k] = elem
		}
		return cty.ObjectVal(attrs), nil
	case reflect.Struct:
		return structToCty(rv.Interface())
	default:
		return cty.NilVal, fmt.Errorf("unsupported Go type %s", rv.Type())
	}
}

// structToCty handles structs annotated with `cty` tags.
func structToCty(v any) (cty.Value, error) {
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}
