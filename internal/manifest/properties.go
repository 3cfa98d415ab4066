package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/recipekit/internal/hclutil"
	"github.com/specialistvlad/recipekit/internal/property"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// propertyBodySchema is the HCL schema for the body of a `property` block.
var propertyBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type"},
		{Name: "default"},
		{Name: "from_environ"},
		{Name: "param_name"},
		{Name: "help"},
	},
}

// decodeProperties decodes every `property` block. A property without a
// `default` attribute is required.
func decodeProperties(blocks hcl.Blocks) (map[string]property.Property, []string, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	props := make(map[string]property.Property)
	var order []string

	for _, block := range blocks.OfType("property") {
		name := block.Labels[0]
		if _, exists := props[name]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate property definition",
				Detail:   fmt.Sprintf("A property named '%s' has already been defined.", name),
				Subject:  &block.DefRange,
			})
			continue
		}

		content, contentDiags := block.Body.Content(propertyBodySchema)
		diags = append(diags, contentDiags...)
		if contentDiags.HasErrors() {
			continue
		}

		p := property.Property{Type: cty.NilType}
		if attr, ok := content.Attributes["type"]; ok {
			ty, typeDiags := hclutil.TypeFromExpr(attr.Expr)
			diags = append(diags, typeDiags...)
			if typeDiags.HasErrors() {
				continue
			}
			p.Type = ty
		}

		var d hcl.Diagnostics
		p.FromEnviron, d = hclutil.DecodeString(content.Attributes, "from_environ")
		diags = append(diags, d...)
		p.ParamName, d = hclutil.DecodeString(content.Attributes, "param_name")
		diags = append(diags, d...)
		p.Help, d = hclutil.DecodeString(content.Attributes, "help")
		diags = append(diags, d...)

		if attr, ok := content.Attributes["default"]; ok {
			def, defDiags := decodeDefault(name, attr, p.Type)
			diags = append(diags, defDiags...)
			if defDiags.HasErrors() {
				continue
			}
			p.Default, p.HasDefault = def, true
		}

		props[name] = p
		order = append(order, name)
	}

	return props, order, diags
}

// decodeDefault evaluates a literal default and converts it to the declared
// type, so that `default = ["a"]` satisfies `type = list(string)`.
func decodeDefault(name string, attr *hcl.Attribute, ty cty.Type) (any, hcl.Diagnostics) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if ty != cty.NilType && !val.IsNull() {
		converted, err := convert.Convert(val, ty)
		if err != nil {
			return nil, append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid default value type",
				Detail:   fmt.Sprintf("The default value for '%s' is not compatible with its type, '%s': %s.", name, ty.FriendlyName(), err),
				Subject:  attr.Expr.Range().Ptr(),
			})
		}
		val = converted
	}
	native, err := hclutil.CtyToNative(val)
	if err != nil {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid default value",
			Detail:   fmt.Sprintf("The default value for '%s' cannot be used: %s.", name, err),
			Subject:  attr.Expr.Range().Ptr(),
		})
	}
	return native, diags
}
