package hclutil

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// FindUniqueBlock searches a slice of blocks for all blocks of a given name.
// It returns a diagnostic error if more than one block of that name is found.
// If no block is found, it returns nil.
func FindUniqueBlock(blocks hcl.Blocks, name string) (*hcl.Block, hcl.Diagnostics) {
	var found *hcl.Block
	var diags hcl.Diagnostics

	for _, block := range blocks.OfType(name) {
		if found != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate \"" + name + "\" block",
				Detail:   "Only one \"" + name + "\" block is allowed.",
				Subject:  &block.DefRange,
			})
			continue
		}
		found = block
	}

	return found, diags
}

// DecodeString evaluates a literal string attribute. A missing attribute
// yields the empty string and no diagnostics.
func DecodeString(attrs hcl.Attributes, name string) (string, hcl.Diagnostics) {
	attr, ok := attrs[name]
	if !ok {
		return "", nil
	}
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	if val.IsNull() || !val.Type().Equals(cty.String) {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid attribute value",
			Detail:   "The \"" + name + "\" attribute must be a string literal.",
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}
	return val.AsString(), diags
}
