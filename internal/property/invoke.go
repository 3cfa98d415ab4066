// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package property

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/specialistvlad/recipekit/internal/hclutil"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Invocable is a Go function together with the names of its parameters,
// which Go does not keep at runtime.
type Invocable interface {
	Name() string
	ParamNames() []string
	FuncValue() reflect.Value
}

// Func is the standard Invocable.
type Func struct {
	name   string
	fn     reflect.Value
	params []string
}

// NewFunc wraps fn. The number of names must match the function's parameter
// count; anything else is a registration bug and panics.
func NewFunc(name string, fn any, params ...string) *Func {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		panic(fmt.Sprintf("property: '%s' is %T, not a function", name, fn))
	}
	if rv.Type().IsVariadic() {
		panic(fmt.Sprintf("property: '%s' must not be variadic", name))
	}
	if rv.Type().NumIn() != len(params) {
		panic(fmt.Sprintf("property: '%s' takes %d parameters but %d names were given", name, rv.Type().NumIn(), len(params)))
	}
	return &Func{name: name, fn: rv, params: append([]string(nil), params...)}
}

func (f *Func) Name() string             { return f.name }
func (f *Func) ParamNames() []string     { return append([]string(nil), f.params...) }
func (f *Func) FuncValue() reflect.Value { return f.fn }

// ParamType returns the Go type of the named parameter.
func ParamType(inv Invocable, name string) (reflect.Type, bool) {
	for i, p := range inv.ParamNames() {
		if p == name {
			return inv.FuncValue().Type().In(i), true
		}
	}
	return nil, false
}

// ForParam returns the schema entry bound to the parameter name. Entries are
// searched in key order so that a misdeclared schema fails the same way on
// every run.
func ForParam(schema map[string]*BoundProperty, param string) (*BoundProperty, bool) {
	keys := make([]string, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if schema[k].Param() == param {
			return schema[k], true
		}
	}
	return nil, false
}

// InvokeWithProperties calls inv with one argument per declared parameter.
// A parameter is filled from extra when present there, otherwise from the
// schema entry bound to it, interpreted against all and env. It returns the
// first non-error result and the error result, if the function has them.
func InvokeWithProperties(inv Invocable, all map[string]any, schema map[string]*BoundProperty, env map[string]string, extra map[string]any) (any, error) {
	fnType := inv.FuncValue().Type()
	params := inv.ParamNames()
	args := make([]reflect.Value, len(params))

	for i, p := range params {
		var value any
		if v, ok := extra[p]; ok {
			value = v
		} else {
			bp, ok := ForParam(schema, p)
			if !ok {
				return nil, fmt.Errorf("calling '%s': %w", inv.Name(), &UndefinedPropertyError{Name: p, Owner: inv.Name()})
			}
			provided, present := all[bp.Name]
			v, err := bp.Interpret(provided, present, env)
			if err != nil {
				return nil, fmt.Errorf("calling '%s': %w", inv.Name(), err)
			}
			value = v
		}

		arg, err := toArg(value, fnType.In(i))
		if err != nil {
			return nil, fmt.Errorf("calling '%s': parameter '%s': %w", inv.Name(), p, err)
		}
		args[i] = arg
	}

	var result any
	var resultSet bool
	var callErr error
	for _, out := range inv.FuncValue().Call(args) {
		if out.Type() == errorType {
			if !out.IsNil() && callErr == nil {
				callErr = out.Interface().(error)
			}
			continue
		}
		if !resultSet {
			result, resultSet = out.Interface(), true
		}
	}
	return result, callErr
}

// toArg converts value to the parameter type: directly when assignable or
// of the same kind, otherwise through cty, which rejects conversions that
// would lose information such as 3.7 or -1 into an unsigned int.
func toArg(value any, pt reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(pt), nil
	}
	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(pt) {
		return rv, nil
	}
	if rv.Kind() == pt.Kind() && isNumeric(pt.Kind()) {
		return rv.Convert(pt), nil
	}

	val, err := hclutil.NativeToCty(value)
	if err != nil {
		return reflect.Value{}, err
	}
	target := reflect.New(pt)
	want, err := gocty.ImpliedType(target.Interface())
	if err != nil {
		return reflect.Value{}, fmt.Errorf("cannot pass %T as %s: %w", value, pt, err)
	}
	val, err = convert.Convert(val, want)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("cannot pass %T as %s: %w", value, pt, err)
	}
	if err := gocty.FromCtyValue(val, target.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("cannot pass %T as %s: %w", value, pt, err)
	}
	return target.Elem(), nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
