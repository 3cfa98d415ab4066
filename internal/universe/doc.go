// Package universe loads modules and recipes from a package set and caches
// the resulting descriptors.
//
// A unit's dependencies are loaded before the unit itself is finished, so a
// descriptor handed out by the Universe always has a complete dependency
// graph below it. Each (package, kind, name) key is loaded at most once per
// Universe; a key that is referenced again while it is still loading is a
// dependency cycle and fails with *CyclicDependencyError.
package universe
