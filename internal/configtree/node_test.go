package configtree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestScalar(t *testing.T) {
	s := NewScalar(cty.String, Default("d"))
	assert.True(t, s.IsDefault())
	assert.Equal(t, "d", s.Render(false))

	require.NoError(t, s.SetValue("v"))
	assert.False(t, s.IsDefault())
	assert.Equal(t, "v", s.Get())

	var typeErr *TypeError
	require.ErrorAs(t, s.SetValue(1), &typeErr)
	assert.Equal(t, "v", s.Get(), "failed assignment keeps the value")

	require.NoError(t, s.SetValue(nil))
	assert.True(t, s.IsDefault())

	assert.Panics(t, func() { NewScalar(cty.Number, Default("one")) })
	assert.Panics(t, func() { s.Set(true) })
}

func TestStatic(t *testing.T) {
	s := NewStatic("fixed")
	assert.ErrorIs(t, s.SetValue("other"), ErrStatic)
	s.ResetToDefault()
	assert.Equal(t, "fixed", s.Get())
	assert.True(t, s.IsComplete())
	assert.False(t, s.IsDefault())
}

func TestList(t *testing.T) {
	l := NewList(cty.Number)
	require.NoError(t, l.Append(1, 2.5))
	assert.Equal(t, 2, l.Len())

	require.Error(t, l.Append(3, "four"))
	assert.Equal(t, 2, l.Len(), "nothing appended on error")

	require.NoError(t, l.SetValue([]int{7}))
	assert.Equal(t, []any{7}, l.Get())

	var typeErr *TypeError
	assert.ErrorAs(t, l.SetValue(7), &typeErr)
}

func TestSet(t *testing.T) {
	s := NewSet(cty.Map(cty.String))
	require.NoError(t, s.Add(map[string]any{"a": "1", "b": "2"}))
	require.NoError(t, s.Add(map[string]any{"b": "2", "a": "1"}))
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Has(map[string]string{"a": "1", "b": "2"}))
	assert.False(t, s.Has(map[string]any{"a": "1"}))

	require.NoError(t, s.SetValue([]any{map[string]any{"x": "y"}}))
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Has(map[string]any{"x": "y"}))
}

func TestDict(t *testing.T) {
	d := NewDict(cty.List(cty.String))
	require.NoError(t, d.SetKey("b", []string{"x"}))
	require.NoError(t, d.SetKey("a", []any{}))
	assert.Equal(t, []string{"a", "b"}, d.Keys())

	require.Error(t, d.SetKey("c", "not a list"))
	_, ok := d.Get("c")
	assert.False(t, ok)

	rendered := d.Render(false).(map[string]any)
	rendered["z"] = nil
	_, ok = d.Get("z")
	assert.False(t, ok, "render returns a copy")
}

func TestCheckType(t *testing.T) {
	tests := []struct {
		name    string
		ty      cty.Type
		value   any
		wantErr bool
	}{
		{"string ok", cty.String, "x", false},
		{"number is not string", cty.String, 1, true},
		{"string is not number", cty.Number, "1", true},
		{"bool ok", cty.Bool, true, false},
		{"nil matches anything", cty.Number, nil, false},
		{"dynamic accepts all", cty.DynamicPseudoType, []any{1, "a"}, false},
		{"list of numbers", cty.List(cty.Number), []any{1, 2.5}, false},
		{"list element mismatch", cty.List(cty.Number), []any{1, "a"}, true},
		{"map of bool", cty.Map(cty.Bool), map[string]bool{"a": true}, false},
		{"tuple length", cty.Tuple([]cty.Type{cty.String, cty.Number}), []any{"a"}, true},
		{"tuple ok", cty.Tuple([]cty.Type{cty.String, cty.Number}), []any{"a", 1}, false},
		{
			"object ok",
			cty.Object(map[string]cty.Type{"a": cty.String}),
			map[string]any{"a": "x"},
			false,
		},
		{
			"object missing attribute",
			cty.Object(map[string]cty.Type{"a": cty.String}),
			map[string]any{},
			true,
		},
		{
			"object optional attribute",
			cty.ObjectWithOptionalAttrs(map[string]cty.Type{"a": cty.String}, []string{"a"}),
			map[string]any{},
			false,
		},
		{
			"object extra attribute",
			cty.Object(map[string]cty.Type{"a": cty.String}),
			map[string]any{"a": "x", "b": "y"},
			true,
		},
		{"unsupported go type", cty.String, make(chan int), true},
		{"nan is not a number", cty.Number, math.NaN(), true},
		{"dynamic rejects nan", cty.DynamicPseudoType, []any{math.NaN()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckType(tt.ty, tt.value)
			if tt.wantErr {
				var typeErr *TypeError
				assert.ErrorAs(t, err, &typeErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
