// Package platform reports the host's operating system and CPU architecture.
// The values are computed by applying the PlatformConfig functions, so a test
// can simulate any supported combination.
package platform

import (
	"fmt"
	"runtime"

	"github.com/specialistvlad/recipekit/internal/configtree"
	"github.com/specialistvlad/recipekit/internal/recipeapi"
	"github.com/specialistvlad/recipekit/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Platform is what dependents see of both surfaces.
type Platform interface {
	OS() string
	Arch() string
	ExeSuffix() string
	PathSep() string
}

// API is the production surface.
type API struct {
	*recipeapi.Base
	tree *configtree.Group
}

var _ Platform = (*API)(nil)

// NewPlatform detects the host and applies the matching config functions.
// Hosts outside the known set only get the root function.
func NewPlatform(base *recipeapi.Base) (*API, error) {
	osFn, archFn := Detect(runtime.GOOS, runtime.GOARCH)
	if osFn == "" {
		if err := base.SetConfig("BASE"); err != nil {
			return nil, err
		}
		return &API{Base: base, tree: base.Config()}, nil
	}
	if err := base.SetConfig(osFn); err != nil {
		return nil, err
	}
	if archFn != "" {
		if err := base.SetConfig(archFn); err != nil {
			return nil, err
		}
	}
	return &API{Base: base, tree: base.Config()}, nil
}

// Detect maps Go's GOOS and GOARCH onto config function names. Unknown
// values map to "".
func Detect(goos, goarch string) (string, string) {
	var osFn, archFn string
	switch goos {
	case "linux":
		osFn = "linux"
	case "darwin":
		osFn = "mac"
	case "windows":
		osFn = "win"
	}
	switch goarch {
	case "amd64", "386":
		archFn = "intel"
	case "arm64", "arm":
		archFn = "arm"
	}
	return osFn, archFn
}

func (a *API) OS() string        { return stringMember(a.tree, "os") }
func (a *API) Arch() string      { return stringMember(a.tree, "arch") }
func (a *API) ExeSuffix() string { return stringMember(a.tree, "exe_suffix") }
func (a *API) PathSep() string   { return stringMember(a.tree, "path_sep") }

// Bits is the word size of the architecture, 0 when unknown.
func (a *API) Bits() int {
	if v, ok := a.tree.Scalar("bits").Get().(int); ok {
		return v
	}
	return 0
}

// Describe renders the visible configuration.
func (a *API) Describe() map[string]any {
	return a.tree.RenderMap(false)
}

// TestAPI is the test surface. It starts out as linux on intel.
type TestAPI struct {
	*API
}

// NewPlatformTest builds the test surface.
func NewPlatformTest(base *recipeapi.Base) (*TestAPI, error) {
	t := &TestAPI{API: &API{Base: base}}
	if err := t.Simulate("linux", "intel"); err != nil {
		return nil, err
	}
	return t, nil
}

// Simulate replaces the configuration with a fresh one for osFn and archFn.
func (t *TestAPI) Simulate(osFn, archFn string) error {
	ctx := t.ConfigContext()
	tree, err := ctx.Apply(osFn, nil)
	if err != nil {
		return err
	}
	if archFn != "" {
		if tree, err = ctx.Apply(archFn, tree); err != nil {
			return err
		}
	}
	t.tree = tree
	return nil
}

func stringMember(tree *configtree.Group, name string) string {
	if tree == nil {
		return ""
	}
	s, _ := tree.Scalar(name).Get().(string)
	return s
}

func schema(configtree.Inputs) *configtree.Group {
	return configtree.NewGroup(
		configtree.Field("os", configtree.NewScalar(cty.String, configtree.Default(runtime.GOOS))),
		configtree.Field("arch", configtree.NewScalar(cty.String, configtree.Default(runtime.GOARCH))),
		configtree.Field("bits", configtree.NewScalar(cty.Number, configtree.Default(0))),
		configtree.Field("exe_suffix", configtree.NewScalar(cty.String, configtree.Default(""))),
		configtree.Field("path_sep", configtree.NewScalar(cty.String, configtree.Hidden(), configtree.Default("/"))),
	)
}

// NewConfig builds the PlatformConfig context: BASE is the root, the os
// group holds linux, mac and win, and the arch group needs an os first.
func NewConfig() *configtree.Context {
	c := configtree.NewContext("platform", schema)
	c.Register("BASE", func(tree *configtree.Group, _ configtree.Inputs) error {
		return tree.Scalar("path_sep").SetValue("/")
	}, configtree.Root())

	for _, name := range []string{"linux", "mac"} {
		c.Register(name, func(tree *configtree.Group, _ configtree.Inputs) error {
			return tree.Scalar("os").SetValue(name)
		}, configtree.InGroup("os"))
	}
	c.Register("win", func(tree *configtree.Group, _ configtree.Inputs) error {
		if err := tree.Scalar("os").SetValue("win"); err != nil {
			return err
		}
		if err := tree.Scalar("exe_suffix").SetValue(".exe"); err != nil {
			return err
		}
		return tree.Scalar("path_sep").SetValue(`\`)
	}, configtree.InGroup("os"))

	c.Register("intel", func(tree *configtree.Group, _ configtree.Inputs) error {
		return setArch(tree, "intel")
	}, configtree.InGroup("arch"), configtree.Deps("os"))
	c.Register("arm", func(tree *configtree.Group, _ configtree.Inputs) error {
		return setArch(tree, "arm")
	}, configtree.InGroup("arch"), configtree.Deps("os"))
	return c
}

func setArch(tree *configtree.Group, arch string) error {
	if err := tree.Scalar("arch").SetValue(arch); err != nil {
		return fmt.Errorf("arch: %w", err)
	}
	return tree.Scalar("bits").SetValue(64)
}

// Register registers the surfaces and the config context with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAPI("NewPlatform", &registry.Surface{Fn: NewPlatform, Params: []string{"base"}})
	r.RegisterTestAPI("NewPlatformTest", &registry.Surface{Fn: NewPlatformTest, Params: []string{"base"}})
	r.RegisterConfig("PlatformConfig", NewConfig())
}
