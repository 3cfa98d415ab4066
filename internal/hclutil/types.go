package hclutil

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/zclconf/go-cty/cty"
)

// TypeFromExpr converts an HCL type expression (`string`, `list(number)`,
// `object({name = string})`, `any`, ...) into its cty.Type.
//
// Bare keywords are resolved here so that a misspelled keyword gets a short,
// specific message; everything else is delegated to typeexpr.
func TypeFromExpr(expr hcl.Expression) (cty.Type, hcl.Diagnostics) {
	traversal, diags := hcl.AbsTraversalForExpr(expr)
	if diags.HasErrors() || len(traversal) != 1 {
		return typeexpr.TypeConstraint(expr)
	}

	switch typeName := traversal.RootName(); typeName {
	case "string":
		return cty.String, nil
	case "number":
		return cty.Number, nil
	case "bool":
		return cty.Bool, nil
	case "any":
		return cty.DynamicPseudoType, nil
	case "list", "map", "set", "object", "tuple":
		return cty.NilType, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Incomplete type specification",
			Detail:   fmt.Sprintf("The type keyword '%s' requires an element type, for example %s(string).", typeName, typeName),
			Subject:  expr.Range().Ptr(),
		}}
	default:
		return cty.NilType, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported type",
			Detail:   fmt.Sprintf("The keyword '%s' is not a valid type. Supported types are: string, number, bool, any, list(...), set(...), map(...), object({...}), tuple([...]).", typeName),
			Subject:  expr.Range().Ptr(),
		}}
	}
}
