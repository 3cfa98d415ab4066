// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package property

import (
	"fmt"

	"github.com/specialistvlad/recipekit/internal/configtree"
	"github.com/specialistvlad/recipekit/internal/hclutil"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Interpret resolves the property's value. An explicitly provided value wins,
// then the environment fallback, then a fresh copy of the default. A value
// that came from the caller or the environment is checked against the
// declared type and returned unmodified.
func (b *BoundProperty) Interpret(provided any, present bool, env map[string]string) (any, error) {
	if !present && b.FromEnviron != "" {
		if raw, ok := env[b.FromEnviron]; ok {
			v, err := fromEnviron(raw, b.Type)
			if err != nil {
				return nil, fmt.Errorf("property '%s': environment variable %s: %w", b.Name, b.FromEnviron, err)
			}
			provided, present = v, true
		}
	}

	if !present {
		if !b.HasDefault {
			return nil, &UndefinedPropertyError{Name: b.Name, Owner: b.OwnerName}
		}
		return copyValue(b.Default)
	}

	if err := configtree.CheckType(b.Type, provided); err != nil {
		return nil, fmt.Errorf("property '%s' of '%s': %w", b.Name, b.OwnerName, err)
	}
	return provided, nil
}

// fromEnviron turns an environment string into a value of the declared type.
// Primitive types go through cty's converter; structural types are read as JSON.
func fromEnviron(raw string, ty cty.Type) (any, error) {
	switch {
	case ty == cty.NilType, ty == cty.String, ty.Equals(cty.DynamicPseudoType):
		return raw, nil
	case ty.IsPrimitiveType():
		val, err := convert.Convert(cty.StringVal(raw), ty)
		if err != nil {
			return nil, err
		}
		return hclutil.CtyToNative(val)
	default:
		val, err := ctyjson.Unmarshal([]byte(raw), ty)
		if err != nil {
			return nil, err
		}
		return hclutil.CtyToNative(val)
	}
}

// copyValue returns a deep copy of a plain value so that callers mutating an
// interpreted default never affect the declaration.
func copyValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	val, err := hclutil.NativeToCty(v)
	if err != nil {
		return nil, fmt.Errorf("copying default: %w", err)
	}
	return hclutil.CtyToNative(val)
}
