package app

import (
	"github.com/specialistvlad/recipekit/internal/pkgset"
	"github.com/specialistvlad/recipekit/internal/registry"
	"github.com/specialistvlad/recipekit/modules"
)

// coreModules is the definitive list of all modules that are compiled into
// the recipes binary.
func coreModules() []registry.Module {
	return modules.Core()
}

// builtinPackages returns the packages embedded in the binary.
func builtinPackages() []*pkgset.Package {
	return []*pkgset.Package{modules.Package()}
}
