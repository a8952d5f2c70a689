package hcl

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Declaration is the decoded 'plugin' block of a marker file:
//
//	plugin {
//	  provides = [Helper1, "Helper2", other.namespace.Type]
//	}
type Declaration struct {
	// Provides lists type names in declaration order, either simple or
	// qualified with a namespace.
	Provides []string
	// Range is the source range of the 'plugin' block.
	Range hcl.Range
}

// declarationRootSchema tolerates anything besides the 'plugin' block.
var declarationRootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "plugin"},
	},
}

var pluginBlockSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "provides", Required: true},
	},
}

// ParseDeclaration decodes a marker file. It returns a nil Declaration and no
// error when the file is valid HCL without a 'plugin' block.
func ParseDeclaration(src []byte, filename string) (*Declaration, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	content, _, diags := file.Body.PartialContent(declarationRootSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	switch len(content.Blocks) {
	case 0:
		return nil, nil
	case 1:
	default:
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Duplicate plugin block",
			Detail:   "A declaration file may contain only one 'plugin' block.",
			Subject:  content.Blocks[1].DefRange.Ptr(),
		}}
	}

	block := content.Blocks[0]
	body, diags := block.Body.Content(pluginBlockSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	provides, diags := decodeProvides(body.Attributes["provides"].Expr)
	if diags.HasErrors() {
		return nil, diags
	}

	return &Declaration{Provides: provides, Range: block.DefRange}, nil
}

func decodeProvides(expr hcl.Expression) ([]string, hcl.Diagnostics) {
	exprs, diags := hcl.ExprList(expr)
	if diags.HasErrors() {
		return nil, diags
	}

	names := make([]string, 0, len(exprs))
	for _, elem := range exprs {
		name, elemDiags := typeNameFromExpr(elem)
		diags = append(diags, elemDiags...)
		if elemDiags.HasErrors() {
			continue
		}
		names = append(names, name)
	}
	if diags.HasErrors() {
		return nil, diags
	}
	return names, diags
}

// typeNameFromExpr accepts a bare reference (Helper1, ns.sub.Helper1) or a
// string literal.
func typeNameFromExpr(expr hcl.Expression) (string, hcl.Diagnostics) {
	if v, ok := expr.(*hclsyntax.ScopeTraversalExpr); ok {
		return traversalName(v.Traversal, expr.Range())
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}

	var name string
	if err := gocty.FromCtyValue(val, &name); err != nil || val.Type() != cty.String || name == "" {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid provides element",
			Detail:   "Each element of 'provides' must be a type name or a non-empty string.",
			Subject:  expr.Range().Ptr(),
		}}
	}
	return name, nil
}

func traversalName(traversal hcl.Traversal, rng hcl.Range) (string, hcl.Diagnostics) {
	parts := []string{traversal.RootName()}
	for _, step := range traversal[1:] {
		attr, ok := step.(hcl.TraverseAttr)
		if !ok {
			return "", hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid type reference",
				Detail:   fmt.Sprintf("Type references may only use attribute access, got %T.", step),
				Subject:  rng.Ptr(),
			}}
		}
		parts = append(parts, attr.Name)
	}
	return strings.Join(parts, "."), nil
}
