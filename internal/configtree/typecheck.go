package configtree

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/recipekit/internal/hclutil"
	"github.com/zclconf/go-cty/cty"
)

// TypeError reports a value that does not conform to a declared type.
type TypeError struct {
	Path string
	Want string
	Got  string
}

func (e *TypeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("type mismatch: expected %s, got %s", e.Want, e.Got)
	}
	return fmt.Sprintf("type mismatch at %s: expected %s, got %s", e.Path, e.Want, e.Got)
}

// CheckType validates a plain Go value against a cty type. The check is
// structural and strict: a number never satisfies string, and objects may not
// carry attributes the type does not declare. Nil satisfies every type, and
// cty.DynamicPseudoType accepts any value cty can represent.
func CheckType(ty cty.Type, v any) error {
	if v == nil {
		return nil
	}
	val, err := hclutil.NativeToCty(v)
	if err != nil {
		want := "any value"
		if ty != cty.NilType {
			want = ty.FriendlyName()
		}
		return &TypeError{Want: want, Got: fmt.Sprintf("%T (%v)", v, err)}
	}
	if ty == cty.NilType || ty.Equals(cty.DynamicPseudoType) {
		return nil
	}
	return conforms(ty, val, "")
}

func conforms(ty cty.Type, val cty.Value, path string) error {
	if ty.Equals(cty.DynamicPseudoType) || val.IsNull() {
		return nil
	}
	vt := val.Type()
	mismatch := func() error {
		return &TypeError{Path: path, Want: ty.FriendlyName(), Got: vt.FriendlyName()}
	}

	switch {
	case ty.IsPrimitiveType():
		if !vt.Equals(ty) {
			return mismatch()
		}
		return nil

	case ty.IsListType() || ty.IsSetType():
		if !(vt.IsListType() || vt.IsSetType() || vt.IsTupleType()) {
			return mismatch()
		}
		elemTy := ty.ElementType()
		i := 0
		for it := val.ElementIterator(); it.Next(); i++ {
			_, elem := it.Element()
			if err := conforms(elemTy, elem, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil

	case ty.IsTupleType():
		if !(vt.IsListType() || vt.IsTupleType()) {
			return mismatch()
		}
		elemTys := ty.TupleElementTypes()
		if val.LengthInt() != len(elemTys) {
			return &TypeError{Path: path, Want: ty.FriendlyName(), Got: fmt.Sprintf("sequence of %d elements", val.LengthInt())}
		}
		i := 0
		for it := val.ElementIterator(); it.Next(); i++ {
			_, elem := it.Element()
			if err := conforms(elemTys[i], elem, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil

	case ty.IsMapType():
		if !(vt.IsMapType() || vt.IsObjectType()) {
			return mismatch()
		}
		elemTy := ty.ElementType()
		for it := val.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			if err := conforms(elemTy, elem, joinPath(path, key.AsString())); err != nil {
				return err
			}
		}
		return nil

	case ty.IsObjectType():
		if !(vt.IsMapType() || vt.IsObjectType()) {
			return mismatch()
		}
		present := make(map[string]cty.Value)
		for it := val.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			present[key.AsString()] = elem
		}
		attrTys := ty.AttributeTypes()
		names := make([]string, 0, len(attrTys))
		for name := range attrTys {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			elem, ok := present[name]
			if !ok {
				if ty.AttributeOptional(name) {
					continue
				}
				return &TypeError{Path: joinPath(path, name), Want: attrTys[name].FriendlyName(), Got: "nothing"}
			}
			if err := conforms(attrTys[name], elem, joinPath(path, name)); err != nil {
				return err
			}
		}
		for name := range present {
			if _, ok := attrTys[name]; !ok {
				return &TypeError{Path: joinPath(path, name), Want: "no such attribute", Got: "unexpected attribute"}
			}
		}
		return nil
	}

	return mismatch()
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
