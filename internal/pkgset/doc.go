// Package pkgset is the boundary to package dependency resolution: a fixed,
// validated set of packages, each with a module and a recipe directory, and
// the direct dependencies that decide which other packages it may see.
package pkgset
