// Package hclutil holds the small HCL and cty helpers shared by the manifest
// parser and the configuration engine: unique block lookup, type keyword
// parsing and conversion between cty values and plain Go values.
package hclutil
