// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package unit holds the resolved representation of modules and recipes.
package unit

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/specialistvlad/recipekit/internal/configtree"
	"github.com/specialistvlad/recipekit/internal/pkgset"
	"github.com/specialistvlad/recipekit/internal/property"
	"github.com/specialistvlad/recipekit/internal/registry"
)

// Kind is either KindModule or KindRecipe.
type Kind = property.Kind

const (
	KindModule = property.KindModule
	KindRecipe = property.KindRecipe
)

// RecipeSeparator joins a package and a recipe name in a unique name.
const RecipeSeparator = "::"

// DependencyRef is one resolved entry of a unit's dependency list.
type DependencyRef struct {
	Package   string
	Name      string
	LocalName string
}

// Descriptor is a loaded module or recipe. Descriptors are created once by
// the loader and never modified afterwards.
type Descriptor struct {
	Kind        Kind
	Name        string
	UniqueName  string
	Package     *pkgset.Package
	Description string

	DependencySpec []DependencyRef
	// Deps maps local names to the resolved dependency descriptors.
	Deps map[string]*Descriptor

	API        *registry.Surface
	TestAPI    *registry.Surface
	Config     *configtree.Context
	Entrypoint *registry.Entrypoint
	Properties map[string]*property.BoundProperty

	ResourceDir  string
	ManifestPath string
}

// Dependencies returns the resolved dependencies by local name.
func (d *Descriptor) Dependencies() map[string]*Descriptor { return d.Deps }

// DepNames returns the sorted local names of the dependencies.
func (d *Descriptor) DepNames() []string {
	names := make([]string, 0, len(d.Deps))
	for n := range d.Deps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (d *Descriptor) String() string { return d.UniqueName }

// UniqueName qualifies a unit name with its package.
func UniqueName(kind Kind, pkg, name string) string {
	if kind == KindRecipe {
		return pkg + RecipeSeparator + name
	}
	return pkg + "/" + name
}

// LocalName derives the local name of a dependency target: its last path
// segment.
func LocalName(target string) string {
	return path.Base(target)
}

// SplitTarget splits a dependency target into package and name. A target
// without a separator names a unit of the declaring package.
func SplitTarget(target, declaring string) (pkg, name string) {
	if i := strings.Index(target, "/"); i >= 0 {
		return target[:i], target[i+1:]
	}
	return declaring, target
}

// ParseRecipeName splits "pkg::recipe".
func ParseRecipeName(s string) (pkg, recipe string, err error) {
	pkg, recipe, ok := strings.Cut(s, RecipeSeparator)
	if !ok || pkg == "" || recipe == "" {
		return "", "", fmt.Errorf("invalid recipe name '%s': expected <package>%s<recipe>", s, RecipeSeparator)
	}
	return pkg, recipe, nil
}

// Parameter names the engine fills itself when building capability objects.
const (
	// BaseParam receives a module's *recipeapi.Base in its surface factory.
	BaseParam = "base"
	// APIParam receives a recipe's *recipeapi.Base in its entrypoint.
	APIParam = "api"
)

// ManifestFile is the name of a module's manifest inside its directory.
const ManifestFile = "manifest.hcl"

// ManifestPath returns the manifest location of a unit inside its package.
func ManifestPath(p *pkgset.Package, kind Kind, name string) string {
	if kind == KindRecipe {
		return p.RecipePath(name + ".hcl")
	}
	return p.ModulePath(name, ManifestFile)
}

// ResourceDir returns the resource directory of a unit inside its package.
func ResourceDir(p *pkgset.Package, kind Kind, name string) string {
	if kind == KindRecipe {
		return p.RecipePath(name + ".resources")
	}
	return p.ModulePath(name, "resources")
}
