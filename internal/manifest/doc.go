// Package manifest parses unit manifests: the HCL files that declare a
// module's or a recipe's dependencies, capability surfaces, configuration
// context, entrypoint and properties.
//
// A manifest is evaluated with a nil evaluation context, so every value in it
// must be a literal. A file holds exactly one `module` or `recipe` block:
//
//	module "build" {
//	  description = "Compiles things."
//	  deps        = ["step", "other_pkg/json"]
//	  api "BuildAPI" {}
//	  test_api "BuildTestAPI" {}
//	  config = "BuildConfig"
//
//	  property "target" {
//	    type         = string
//	    default      = "all"
//	    from_environ = "BUILD_TARGET"
//	  }
//	}
package manifest
