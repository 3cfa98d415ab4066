package manifest

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/recipekit/internal/property"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

var ctyTypeComparer = cmp.Comparer(func(a, b cty.Type) bool { return a.Equals(b) })

func TestParseModule(t *testing.T) {
	src := `
module "build" {
  description = "Compiles things."
  deps        = ["step", "other_pkg/json"]
  api "BuildAPI" {}
  test_api "BuildTestAPI" {}
  config = "BuildConfig"

  property "target" {
    type         = string
    default      = "all"
    from_environ = "BUILD_TARGET"
    param_name   = "tgt"
    help         = "What to build."
  }

  property "jobs" {
    type = number
  }

  property "flags" {
    type    = list(string)
    default = ["-v"]
  }
}
`
	m, diags := Parse([]byte(src), "manifest.hcl")
	require.False(t, diags.HasErrors(), diags.Error())

	want := &Manifest{
		Kind:        property.KindModule,
		Name:        "build",
		Description: "Compiles things.",
		Deps: []Dep{
			{Target: "step"},
			{Target: "other_pkg/json"},
		},
		API:     "BuildAPI",
		TestAPI: "BuildTestAPI",
		Config:  "BuildConfig",
		Properties: map[string]property.Property{
			"target": {Type: cty.String, Default: "all", HasDefault: true, FromEnviron: "BUILD_TARGET", ParamName: "tgt", Help: "What to build."},
			"jobs":   {Type: cty.Number},
			"flags":  {Type: cty.List(cty.String), Default: []any{"-v"}, HasDefault: true},
		},
		PropertyOrder: []string{"target", "jobs", "flags"},
		Filename:      "manifest.hcl",
	}
	opts := cmp.Options{ctyTypeComparer, cmpopts.IgnoreFields(Dep{}, "Range")}
	if diff := cmp.Diff(want, m, opts); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRecipe(t *testing.T) {
	src := `
recipe "sub/compile" {
  deps       = { js = "other_pkg/json", build = "build" }
  entrypoint = "RunCompile"
}
`
	m, diags := Parse([]byte(src), "compile.hcl")
	require.False(t, diags.HasErrors(), diags.Error())

	assert.Equal(t, property.KindRecipe, m.Kind)
	assert.Equal(t, "sub/compile", m.Name)
	assert.Equal(t, "RunCompile", m.Entrypoint)
	assert.Empty(t, m.API)

	got := map[string]string{}
	for _, d := range m.Deps {
		got[d.Alias] = d.Target
	}
	assert.Equal(t, map[string]string{"js": "other_pkg/json", "build": "build"}, got)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]struct {
		src  string
		want string
	}{
		"no unit block": {
			src:  ``,
			want: "Missing unit block",
		},
		"two unit blocks": {
			src:  `module "a" {` + "\n" + `api "A" {}` + "\n" + `}` + "\n" + `recipe "b" {}`,
			want: "Too many unit blocks",
		},
		"module without api": {
			src:  `module "a" {}`,
			want: `Missing "api" block`,
		},
		"two api blocks": {
			src:  `module "a" {` + "\n" + `api "A" {}` + "\n" + `api "B" {}` + "\n" + `}`,
			want: `Duplicate "api" block`,
		},
		"two test_api blocks on a recipe": {
			src:  `recipe "a" {` + "\n" + `test_api "A" {}` + "\n" + `test_api "B" {}` + "\n" + `}`,
			want: `Duplicate "test_api" block`,
		},
		"module entrypoint": {
			src:  `module "a" {` + "\n" + `api "A" {}` + "\n" + `entrypoint = "Run"` + "\n" + `}`,
			want: "Unexpected entrypoint",
		},
		"unknown attribute": {
			src:  `recipe "a" {` + "\n" + `colour = "red"` + "\n" + `}`,
			want: "Unsupported argument",
		},
		"unknown top level block": {
			src:  `runner "a" {}`,
			want: "Unsupported block type",
		},
		"deps not a list": {
			src:  `recipe "a" {` + "\n" + `deps = "x"` + "\n" + `}`,
			want: "Invalid deps",
		},
		"deps element not a string": {
			src:  `recipe "a" {` + "\n" + `deps = [1]` + "\n" + `}`,
			want: "Invalid deps",
		},
		"non literal": {
			src:  `recipe "a" {` + "\n" + `description = var.x` + "\n" + `}`,
			want: "Variables not allowed",
		},
		"bad default": {
			src:  `recipe "a" {` + "\n" + `property "p" {` + "\n" + `type = number` + "\n" + `default = "many"` + "\n" + `}` + "\n" + `}`,
			want: "Invalid default value type",
		},
		"duplicate property": {
			src:  `recipe "a" {` + "\n" + `property "p" {}` + "\n" + `property "p" {}` + "\n" + `}`,
			want: "Duplicate property definition",
		},
		"api with body": {
			src:  `module "a" {` + "\n" + `api "A" {` + "\n" + `x = 1` + "\n" + `}` + "\n" + `}`,
			want: "Unexpected content",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, diags := Parse([]byte(tt.src), "test.hcl")
			require.True(t, diags.HasErrors())
			assert.Contains(t, diags.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"recipe_modules/step/manifest.hcl": {Data: []byte("module \"step\" {\n  api \"StepAPI\" {}\n}\n")},
		"recipe_modules/bad/manifest.hcl":  {Data: []byte(`module "bad" {`)},
	}

	m, err := Load(fsys, "recipe_modules/step/manifest.hcl")
	require.NoError(t, err)
	assert.Equal(t, "StepAPI", m.API)
	assert.Equal(t, "recipe_modules/step/manifest.hcl", m.Filename)

	_, err = Load(fsys, "recipe_modules/missing/manifest.hcl")
	assert.Error(t, err)

	_, err = Load(fsys, "recipe_modules/bad/manifest.hcl")
	var diags hcl.Diagnostics
	assert.ErrorAs(t, err, &diags)
}
