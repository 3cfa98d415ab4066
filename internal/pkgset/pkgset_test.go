package pkgset

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pkg(name string, deps ...string) *Package {
	return &Package{
		Name:      name,
		ModuleDir: "recipe_modules",
		RecipeDir: "recipes",
		Deps:      deps,
		FS:        fstest.MapFS{},
	}
}

func TestNew(t *testing.T) {
	t.Run("valid set", func(t *testing.T) {
		s, err := New(pkg("a"), pkg("b", "a"), pkg("c", "a", "b"))
		require.NoError(t, err)

		names := []string{}
		for _, p := range s.Packages() {
			names = append(names, p.Name)
		}
		assert.Equal(t, []string{"a", "b", "c"}, names)

		c, ok := s.Package("c")
		require.True(t, ok)
		visible := []string{}
		for _, p := range s.Visible(c) {
			visible = append(visible, p.Name)
		}
		assert.Equal(t, []string{"c", "a", "b"}, visible)
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := New(pkg("a"), pkg("a"))
		assert.ErrorContains(t, err, "duplicate package 'a'")
	})

	t.Run("unknown dep", func(t *testing.T) {
		_, err := New(pkg("a", "ghost"))
		assert.ErrorContains(t, err, "unknown package 'ghost'")
	})

	t.Run("cycle", func(t *testing.T) {
		_, err := New(pkg("a", "b"), pkg("b", "a"))
		assert.ErrorContains(t, err, "cycle detected")
	})

	t.Run("missing fs", func(t *testing.T) {
		_, err := New(&Package{Name: "a"})
		assert.Error(t, err)
	})
}

func TestFindDep(t *testing.T) {
	s, err := New(pkg("a"), pkg("b", "a"), pkg("c"))
	require.NoError(t, err)
	b, _ := s.Package("b")

	got, err := s.FindDep(b, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)

	got, err = s.FindDep(b, "b")
	require.NoError(t, err)
	assert.Same(t, b, got)

	_, err = s.FindDep(b, "c")
	assert.ErrorContains(t, err, "does not depend on 'c'")

	_, err = s.FindDep(b, "zzz")
	assert.ErrorContains(t, err, "unknown package")
}

func TestPaths(t *testing.T) {
	p := pkg("a")
	assert.Equal(t, "recipe_modules/step/manifest.hcl", p.ModulePath("step", "manifest.hcl"))
	assert.Equal(t, "recipes/sub/build.hcl", p.RecipePath("sub", "build.hcl"))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "packages.toml", `
[[package]]
name = "build"
root = "build"
deps = ["recipe_engine"]

[[package]]
name = "tools"
root = "/opt/tools"
module_dir = "mods"
recipe_dir = "scripts"
`)
		s, err := LoadFile(path, pkg("recipe_engine"))
		require.NoError(t, err)

		build, ok := s.Package("build")
		require.True(t, ok)
		assert.Equal(t, filepath.Join(dir, "build"), build.Root)
		assert.Equal(t, "recipe_modules", build.ModuleDir)
		assert.Equal(t, "recipes", build.RecipeDir)
		assert.Equal(t, []string{"recipe_engine"}, build.Deps)

		tools, ok := s.Package("tools")
		require.True(t, ok)
		assert.Equal(t, "/opt/tools", tools.Root)
		assert.Equal(t, "mods", tools.ModuleDir)
	})

	t.Run("validation errors", func(t *testing.T) {
		tests := map[string]string{
			"missing name": "[[package]]\nroot = \"x\"\n",
			"bad name":     "[[package]]\nname = \"Has Space\"\nroot = \"x\"\n",
			"missing root": "[[package]]\nname = \"x\"\n",
			"bad dep":      "[[package]]\nname = \"x\"\nroot = \"x\"\ndeps = [\"a/b\"]\n",
			"unknown key":  "[[package]]\nname = \"x\"\nroot = \"x\"\nflavour = \"y\"\n",
			"not toml":     "[[package]\n",
		}
		for name, content := range tests {
			t.Run(name, func(t *testing.T) {
				path := writeFile(t, t.TempDir(), "packages.toml", content)
				_, err := LoadFile(path)
				assert.Error(t, err)
			})
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}

func TestPackageNameValidation(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"recipe_engine", true},
		{"depot_tools.v2", true},
		{"-leading-dash", false},
		{"Upper", false},
		{"has space", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() { err = validate.Var(tt.name, "pkgname") })
			assert.Equal(t, tt.valid, err == nil)
		})
	}
}
