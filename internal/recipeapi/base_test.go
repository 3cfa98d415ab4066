package recipeapi

import (
	"testing"
	"testing/fstest"

	"github.com/specialistvlad/recipekit/internal/configtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type stepAPI struct{ *Base }

func newBase(t *testing.T) *Base {
	t.Helper()
	cfg := configtree.NewContext("build", func(configtree.Inputs) *configtree.Group {
		return configtree.NewGroup(configtree.Field("mode", configtree.NewScalar(cty.String, configtree.Default("debug"))))
	})
	cfg.Register("release", func(tree *configtree.Group, _ configtree.Inputs) error {
		return tree.Scalar("mode").SetValue("release")
	}, configtree.InGroup("mode"))
	cfg.Register("debug", func(tree *configtree.Group, _ configtree.Inputs) error {
		return tree.Scalar("mode").SetValue("debug")
	}, configtree.InGroup("mode"))

	return NewBase(Spec{
		Name:        "build",
		UniqueName:  "pkg/build",
		FS:          fstest.MapFS{"recipe_modules/build/resources/script.sh": {Data: []byte("echo hi")}},
		ResourceDir: "recipe_modules/build/resources",
		Deps:        map[string]any{"step": &stepAPI{}},
		Config:      cfg,
		Properties:  map[string]any{"target": "all"},
	})
}

func TestBaseAccessors(t *testing.T) {
	b := newBase(t)

	assert.Equal(t, "build", b.Name())
	assert.Equal(t, "pkg/build", b.UniqueName())
	assert.Equal(t, []string{"step"}, b.DepNames())
	assert.NotNil(t, b.Dep("step"))
	assert.Nil(t, b.Dep("missing"))

	step, err := DepAs[*stepAPI](b, "step")
	require.NoError(t, err)
	assert.Same(t, b.Dep("step"), step)

	_, err = DepAs[*stepAPI](b, "missing")
	assert.Error(t, err)
	_, err = DepAs[string](b, "step")
	assert.Error(t, err)

	deps := b.Deps()
	deps["x"] = 1
	assert.Nil(t, b.Dep("x"))

	assert.Equal(t, "recipe_modules/build/resources/a/b.txt", b.Resource("a", "b.txt"))
	data, err := b.ReadResource("script.sh")
	require.NoError(t, err)
	assert.Equal(t, "echo hi", string(data))

	v, ok := b.Property("target")
	assert.True(t, ok)
	assert.Equal(t, "all", v)
	assert.Equal(t, map[string]any{"target": "all"}, b.Properties())
}

func TestSetConfig(t *testing.T) {
	b := newBase(t)
	assert.Nil(t, b.Config())

	require.NoError(t, b.SetConfig("release"))
	require.NotNil(t, b.Config())
	assert.Equal(t, "release", b.Config().Scalar("mode").Get())

	err := b.SetConfig("debug")
	var bad *configtree.BadConfigError
	require.ErrorAs(t, err, &bad)
	assert.Contains(t, err.Error(), "release")

	empty := NewBase(Spec{Name: "x", UniqueName: "pkg/x"})
	assert.ErrorIs(t, empty.SetConfig("anything"), ErrNoConfigContext)
	_, err = empty.ReadResource("nothing")
	assert.Error(t, err)
}

func TestTestBase(t *testing.T) {
	tb := NewTestBase(newBase(t))
	tb.SetMock("version", "1.2.3")
	tb.SetMock("arch", "arm")

	v, ok := tb.Mock("version")
	assert.True(t, ok)
	assert.Equal(t, "1.2.3", v)
	assert.Equal(t, []string{"arch", "version"}, tb.MockKeys())
	assert.Equal(t, "pkg/build", tb.UniqueName())
}
