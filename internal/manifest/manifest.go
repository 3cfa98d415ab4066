package manifest

import (
	"fmt"
	"io/fs"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/recipekit/internal/hclutil"
	"github.com/specialistvlad/recipekit/internal/property"
)

// Dep is one entry of a unit's dependency list. Alias is empty for the list
// form, where the local name is derived from the target.
type Dep struct {
	Alias  string
	Target string
	Range  hcl.Range
}

// Manifest is the decoded declaration of one unit.
type Manifest struct {
	Kind        property.Kind
	Name        string
	Description string
	Deps        []Dep
	// API and TestAPI hold registry identifiers, empty when not declared.
	API        string
	TestAPI    string
	Config     string
	Entrypoint string
	// Properties are keyed by their external name; PropertyOrder keeps the
	// declaration order.
	Properties    map[string]property.Property
	PropertyOrder []string
	Filename      string
}

// rootSchema accepts exactly the two unit block types.
type rootSchema struct {
	Modules []*unitBlock `hcl:"module,block"`
	Recipes []*unitBlock `hcl:"recipe,block"`
}

type unitBlock struct {
	Name     string    `hcl:"name,label"`
	Body     hcl.Body  `hcl:",remain"`
	DefRange hcl.Range `hcl:",def_range"`
}

var unitBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
		{Name: "deps"},
		{Name: "config"},
		{Name: "entrypoint"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "api", LabelNames: []string{"id"}},
		{Type: "test_api", LabelNames: []string{"id"}},
		{Type: "property", LabelNames: []string{"name"}},
	},
}

// Load reads and parses the manifest at path inside fsys.
func Load(fsys fs.FS, path string) (*Manifest, error) {
	src, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	m, diags := Parse(src, path)
	if diags.HasErrors() {
		return nil, diags
	}
	return m, nil
}

// Parse decodes a manifest from source.
func Parse(src []byte, filename string) (*Manifest, hcl.Diagnostics) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	var root rootSchema
	if decodeDiags := gohcl.DecodeBody(file.Body, nil, &root); decodeDiags.HasErrors() {
		return nil, append(diags, decodeDiags...)
	}

	var block *unitBlock
	var kind property.Kind
	switch total := len(root.Modules) + len(root.Recipes); {
	case total == 0:
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing unit block",
			Detail:   "A manifest must contain exactly one \"module\" or \"recipe\" block.",
			Subject:  file.Body.MissingItemRange().Ptr(),
		})
	case total > 1:
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Too many unit blocks",
			Detail:   fmt.Sprintf("A manifest must contain exactly one \"module\" or \"recipe\" block, found %d.", total),
			Subject:  file.Body.MissingItemRange().Ptr(),
		})
	case len(root.Modules) == 1:
		block, kind = root.Modules[0], property.KindModule
	default:
		block, kind = root.Recipes[0], property.KindRecipe
	}

	m, unitDiags := decodeUnit(block, kind)
	diags = append(diags, unitDiags...)
	if diags.HasErrors() {
		return nil, diags
	}
	m.Filename = filename
	return m, diags
}

func decodeUnit(block *unitBlock, kind property.Kind) (*Manifest, hcl.Diagnostics) {
	content, diags := block.Body.Content(unitBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	m := &Manifest{
		Kind:       kind,
		Name:       block.Name,
		Properties: make(map[string]property.Property),
	}

	var d hcl.Diagnostics
	m.Description, d = hclutil.DecodeString(content.Attributes, "description")
	diags = append(diags, d...)
	m.Config, d = hclutil.DecodeString(content.Attributes, "config")
	diags = append(diags, d...)
	m.Entrypoint, d = hclutil.DecodeString(content.Attributes, "entrypoint")
	diags = append(diags, d...)

	if attr, ok := content.Attributes["entrypoint"]; ok && kind == property.KindModule {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unexpected entrypoint",
			Detail:   "Only recipes declare an entrypoint; modules are built by their API factory.",
			Subject:  attr.NameRange.Ptr(),
		})
	}

	if attr, ok := content.Attributes["deps"]; ok {
		m.Deps, d = decodeDeps(attr)
		diags = append(diags, d...)
	}

	m.API, d = decodeSurface(content.Blocks, "api", kind == property.KindModule, block.DefRange)
	diags = append(diags, d...)
	m.TestAPI, d = decodeSurface(content.Blocks, "test_api", false, block.DefRange)
	diags = append(diags, d...)

	m.Properties, m.PropertyOrder, d = decodeProperties(content.Blocks)
	diags = append(diags, d...)

	return m, diags
}

// decodeSurface returns the identifier of the single block of the given type.
func decodeSurface(blocks hcl.Blocks, blockType string, required bool, unitRange hcl.Range) (string, hcl.Diagnostics) {
	found, diags := hclutil.FindUniqueBlock(blocks, blockType)
	if diags.HasErrors() {
		return "", diags
	}
	if found == nil {
		if required {
			return "", hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  fmt.Sprintf("Missing %q block", blockType),
				Detail:   fmt.Sprintf("A module must declare exactly one %q block naming its capability surface.", blockType),
				Subject:  unitRange.Ptr(),
			}}
		}
		return "", nil
	}
	if attrs, d := found.Body.JustAttributes(); len(attrs) > 0 || d.HasErrors() {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unexpected content",
			Detail:   fmt.Sprintf("The %q block only names a registered surface and takes no arguments.", blockType),
			Subject:  found.DefRange.Ptr(),
		}}
	}
	return found.Labels[0], nil
}
