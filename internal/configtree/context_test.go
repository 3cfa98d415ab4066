package configtree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func platformSchema(in Inputs) *Group {
	return NewGroup(
		Field("os", NewScalar(cty.String)),
		Field("arch", NewScalar(cty.String, Default("x86"))),
		Field("base", NewScalar(cty.Bool, Hidden(), Default(false))),
		Field("flags", NewList(cty.String)),
		Field("target", NewStatic(in["target"])),
	)
}

func newPlatformContext(t *testing.T) *Context {
	t.Helper()
	c := NewContext("platform", platformSchema)
	c.Register("BASE", func(tree *Group, _ Inputs) error {
		return tree.Scalar("base").SetValue(true)
	}, Root())
	c.Register("linux", func(tree *Group, _ Inputs) error {
		return tree.Scalar("os").SetValue("linux")
	}, InGroup("os"))
	c.Register("mac", func(tree *Group, _ Inputs) error {
		return tree.Scalar("os").SetValue("mac")
	}, InGroup("os"))
	c.Register("arm", func(tree *Group, _ Inputs) error {
		return tree.Scalar("arch").SetValue("arm")
	}, InGroup("arch"), Deps("os"))
	c.Register("linux_arm", func(tree *Group, _ Inputs) error {
		return tree.List("flags").Append("-march=armv8")
	}, Includes("linux", "arm"))
	return c
}

func TestRootAutoInclusion(t *testing.T) {
	c := newPlatformContext(t)

	tree, err := c.Apply("linux", nil)
	require.NoError(t, err)

	assert.True(t, tree.Applied("BASE"))
	assert.True(t, tree.Applied("linux"))
	assert.Equal(t, []string{"BASE", "linux"}, tree.Inclusions())
	assert.Equal(t, true, tree.Scalar("base").Get())
	assert.Equal(t, "linux", tree.Scalar("os").Get())
}

func TestMutualExclusion(t *testing.T) {
	c := newPlatformContext(t)

	tree, err := c.Apply("linux", nil)
	require.NoError(t, err)

	_, err = c.Apply("mac", tree)
	require.Error(t, err)

	var bad *BadConfigError
	require.True(t, errors.As(err, &bad))
	assert.Equal(t, "mac", bad.Func)
	assert.Contains(t, err.Error(), "mac")
	assert.Contains(t, err.Error(), "linux")
	assert.Equal(t, "linux", tree.Scalar("os").Get(), "the rejected body must not run")
}

func TestReapplication(t *testing.T) {
	c := newPlatformContext(t)
	linux, ok := c.Function("linux")
	require.True(t, ok)

	tree, err := linux.Apply(nil)
	require.NoError(t, err)
	before := tree.RenderMap(true)

	t.Run("optional is a no-op", func(t *testing.T) {
		got, err := linux.Apply(tree, Optional())
		require.NoError(t, err)
		assert.Same(t, tree, got)
		assert.Equal(t, before, got.RenderMap(true))
	})

	t.Run("direct call fails", func(t *testing.T) {
		_, err := linux.Apply(tree)
		var bad *BadConfigError
		require.ErrorAs(t, err, &bad)
		assert.Equal(t, "linux", bad.Func)
	})
}

func TestDeps(t *testing.T) {
	c := newPlatformContext(t)

	t.Run("missing group", func(t *testing.T) {
		_, err := c.Apply("arm", nil)
		var bad *BadConfigError
		require.ErrorAs(t, err, &bad)
		assert.Contains(t, bad.Msg, "'os'")
	})

	t.Run("group satisfied", func(t *testing.T) {
		tree, err := c.Apply("mac", nil)
		require.NoError(t, err)
		_, err = c.Apply("arm", tree)
		require.NoError(t, err)
		assert.Equal(t, "arm", tree.Scalar("arch").Get())
	})
}

func TestIncludes(t *testing.T) {
	c := newPlatformContext(t)

	t.Run("applies includes in order", func(t *testing.T) {
		tree, err := c.Apply("linux_arm", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"BASE", "linux_arm", "linux", "arm"}, tree.Inclusions())
		assert.Equal(t, []any{"-march=armv8"}, tree.List("flags").Get())
	})

	t.Run("already applied include is skipped", func(t *testing.T) {
		tree, err := c.Apply("linux", nil)
		require.NoError(t, err)
		_, err = c.Apply("linux_arm", tree)
		require.NoError(t, err)
	})

	t.Run("failing include is rewrapped", func(t *testing.T) {
		tree, err := c.Apply("mac", nil)
		require.NoError(t, err)
		_, err = c.Apply("linux_arm", tree)

		var bad *BadConfigError
		require.ErrorAs(t, err, &bad)
		assert.Equal(t, "linux_arm", bad.Func)
		assert.Contains(t, bad.Msg, "linux")

		var inner *BadConfigError
		require.ErrorAs(t, bad.Err, &inner)
		assert.Equal(t, "linux", inner.Func)
		assert.Contains(t, err.Error(), "mac")
	})

	t.Run("unknown include", func(t *testing.T) {
		c := NewContext("x", platformSchema)
		c.Register("a", func(*Group, Inputs) error { return nil }, Includes("nope"))
		_, err := c.Apply("a", nil)
		var bad *BadConfigError
		require.ErrorAs(t, err, &bad)
		assert.Contains(t, bad.Msg, "nope")
	})
}

func TestNotFinal(t *testing.T) {
	c := newPlatformContext(t)

	tree, err := c.Apply("linux", nil, NotFinal())
	require.NoError(t, err)
	assert.False(t, tree.Applied("linux"))
	assert.Equal(t, "linux", tree.Scalar("os").Get())

	_, err = c.Apply("linux", tree)
	require.NoError(t, err)
}

func TestBodyErrors(t *testing.T) {
	c := NewContext("x", platformSchema)
	c.Register("bad_type", func(tree *Group, _ Inputs) error {
		return tree.Scalar("os").SetValue(42)
	})

	_, err := c.Apply("bad_type", nil)
	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
	var bad *BadConfigError
	assert.False(t, errors.As(err, &bad))
}

func TestRootErrors(t *testing.T) {
	noop := func(*Group, Inputs) error { return nil }

	t.Run("type error keeps its kind", func(t *testing.T) {
		c := NewContext("x", platformSchema)
		c.Register("BASE", func(tree *Group, _ Inputs) error {
			return tree.Scalar("os").SetValue(42)
		}, Root())
		c.Register("leaf", noop)

		_, err := c.Apply("leaf", nil)
		require.Error(t, err)
		var typeErr *TypeError
		require.ErrorAs(t, err, &typeErr)
		var bad *BadConfigError
		assert.False(t, errors.As(err, &bad))
		assert.Contains(t, err.Error(), "BASE")
	})

	t.Run("bad config is rewrapped", func(t *testing.T) {
		c := NewContext("x", platformSchema)
		c.Register("BASE", noop, Root(), Deps("os"))
		c.Register("leaf", noop)

		_, err := c.Apply("leaf", nil)
		var bad *BadConfigError
		require.ErrorAs(t, err, &bad)
		assert.Equal(t, "leaf", bad.Func)
		assert.Contains(t, bad.Msg, "BASE")

		var inner *BadConfigError
		require.ErrorAs(t, bad.Err, &inner)
		assert.Equal(t, "BASE", inner.Func)
	})
}

func TestInputs(t *testing.T) {
	c := NewContext("x", platformSchema)
	var seen Inputs
	c.Register("record", func(_ *Group, in Inputs) error {
		seen = in
		return nil
	})

	tree, err := c.Apply("record", nil, WithInputs(Inputs{"target": "release"}))
	require.NoError(t, err)
	assert.Equal(t, "release", seen["target"])
	assert.Equal(t, "release", tree.Static("target").Get())
}

func TestRegisterPanics(t *testing.T) {
	noop := func(*Group, Inputs) error { return nil }

	t.Run("duplicate name", func(t *testing.T) {
		c := NewContext("x", platformSchema)
		c.Register("a", noop)
		assert.Panics(t, func() { c.Register("a", noop) })
	})

	t.Run("second root", func(t *testing.T) {
		c := NewContext("x", platformSchema)
		c.Register("r1", noop, Root())
		assert.Panics(t, func() { c.Register("r2", noop, Root()) })
	})
}

func TestContextIntrospection(t *testing.T) {
	c := newPlatformContext(t)

	assert.Equal(t, []string{"BASE", "linux", "mac", "arm", "linux_arm"}, c.Functions())
	assert.Equal(t, []string{"arch", "os"}, c.Groups())
	require.NotNil(t, c.Root())
	assert.Equal(t, "BASE", c.Root().Name())

	_, err := c.Apply("missing", nil)
	var bad *BadConfigError
	assert.ErrorAs(t, err, &bad)
}
