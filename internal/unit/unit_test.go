package unit

import (
	"testing"

	"github.com/specialistvlad/recipekit/internal/pkgset"
	"github.com/stretchr/testify/assert"
)

func TestNames(t *testing.T) {
	assert.Equal(t, "pkg/step", UniqueName(KindModule, "pkg", "step"))
	assert.Equal(t, "pkg::sub/build", UniqueName(KindRecipe, "pkg", "sub/build"))

	assert.Equal(t, "json", LocalName("other/json"))
	assert.Equal(t, "step", LocalName("step"))

	pkg, name := SplitTarget("other/json", "pkg")
	assert.Equal(t, "other", pkg)
	assert.Equal(t, "json", name)

	pkg, name = SplitTarget("step", "pkg")
	assert.Equal(t, "pkg", pkg)
	assert.Equal(t, "step", name)
}

func TestParseRecipeName(t *testing.T) {
	pkg, recipe, err := ParseRecipeName("build::sub/compile")
	assert.NoError(t, err)
	assert.Equal(t, "build", pkg)
	assert.Equal(t, "sub/compile", recipe)

	for _, bad := range []string{"build", "::x", "x::", ""} {
		_, _, err := ParseRecipeName(bad)
		assert.Error(t, err, bad)
	}
}

func TestDepNames(t *testing.T) {
	d := &Descriptor{Deps: map[string]*Descriptor{"b": {}, "a": {}}}
	assert.Equal(t, []string{"a", "b"}, d.DepNames())
	assert.Len(t, d.Dependencies(), 2)
}

func TestPaths(t *testing.T) {
	p := &pkgset.Package{Name: "pkg", ModuleDir: "recipe_modules", RecipeDir: "recipes"}
	assert.Equal(t, "recipe_modules/step/manifest.hcl", ManifestPath(p, KindModule, "step"))
	assert.Equal(t, "recipes/sub/build.hcl", ManifestPath(p, KindRecipe, "sub/build"))
	assert.Equal(t, "recipe_modules/step/resources", ResourceDir(p, KindModule, "step"))
	assert.Equal(t, "recipes/sub/build.resources", ResourceDir(p, KindRecipe, "sub/build"))
}
