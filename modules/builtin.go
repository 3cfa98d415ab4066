// Package modules bundles the Go modules compiled into the binary together
// with the embedded recipe_engine package that declares them.
package modules

import (
	"embed"
	"io/fs"

	"github.com/specialistvlad/recipekit/internal/pkgset"
	"github.com/specialistvlad/recipekit/internal/registry"
	"github.com/specialistvlad/recipekit/modules/engine_info"
	"github.com/specialistvlad/recipekit/modules/environ"
	"github.com/specialistvlad/recipekit/modules/platform"
	"github.com/specialistvlad/recipekit/modules/print"
)

// PackageName is the name of the embedded package.
const PackageName = "recipe_engine"

//go:embed all:recipe_engine
var content embed.FS

// Package returns the embedded recipe_engine package.
func Package() *pkgset.Package {
	sub, err := fs.Sub(content, PackageName)
	if err != nil {
		panic(err)
	}
	return &pkgset.Package{
		Name:      PackageName,
		Root:      "embedded",
		ModuleDir: "recipe_modules",
		RecipeDir: "recipes",
		FS:        sub,
	}
}

// Core returns every Go module backing the embedded package.
func Core() []registry.Module {
	return []registry.Module{
		&platform.Module{},
		&environ.Module{},
		&print.Module{},
		&engine_info.Module{},
	}
}
