package manifest

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// decodeDeps accepts either a list of names or an alias -> name map.
func decodeDeps(attr *hcl.Attribute) ([]Dep, hcl.Diagnostics) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	invalid := func(detail string) hcl.Diagnostics {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid deps",
			Detail:   detail,
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}

	if val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	aliased := ty.IsObjectType() || ty.IsMapType()
	if !aliased && !(ty.IsTupleType() || ty.IsListType()) {
		return nil, invalid("The \"deps\" attribute must be a list of names or a map of local names to names.")
	}

	var deps []Dep
	for it := val.ElementIterator(); it.Next(); {
		key, elem := it.Element()
		if elem.IsNull() || !elem.Type().Equals(cty.String) || elem.AsString() == "" {
			return nil, invalid("Every dependency must be a non-empty string literal.")
		}
		dep := Dep{Target: elem.AsString(), Range: attr.Expr.Range()}
		if aliased {
			dep.Alias = key.AsString()
		}
		deps = append(deps, dep)
	}
	return deps, nil
}
