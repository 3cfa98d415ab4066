//
// Package configtree implements the declarative configuration engine used by
// modules: a typed tree of value nodes plus named configuration functions
// that mutate the tree under ordering and exclusion constraints.
//
// # Nodes
//
// A tree is rooted at a Group, a fixed, ordered set of named children. The
// other variants hold values:
//
//   - Scalar: one typed value with a declared default.
//   - List, Set: homogeneous repetition of one element type.
//   - Dict: string-keyed values of one element type.
//   - Static: an immutable input value fixed when the tree is built.
//   - GroupList: a repetition of sub-groups built from a factory.
//
// Every node validates assignments against its cty type, renders itself to a
// plain value (maps, slices and scalars only) and knows whether it still holds
// its default. Hidden nodes are omitted from renders while they hold their
// default, which keeps composed configurations compact.
//
// # Configuration functions
//
// A Context owns a schema factory and a set of registered Functions. A
// Function may belong to an exclusion group (at most one member per tree),
// may include other functions (applied first, skipped when already applied),
// may require that some group already has a member applied, and at most one
// function per context may be the root, which is applied implicitly before
// any other function on a fresh tree.
//
// Applied function names are recorded on the tree itself, so the same tree
// can be checked later against the constraints of any function.
package configtree
