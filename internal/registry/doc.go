// Package registry provides the central "glue" between manifests and Go code.
//
// Manifests name things by identifier: the capability surface of a module
// (`api "BuildAPI" {}`), its test double, its configuration context and a
// recipe's entrypoint. The Registry maps those identifiers to the compiled Go
// factories, contexts and functions, and checks that the Go signatures agree
// with the properties the manifest declares.
package registry
