package hcl

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ParseValue evaluates a literal HCL expression (3, 2.5, true, "text",
// ["a", "b"]) into a Go value and its type. Whole numbers become int, other
// numbers float64, and homogeneous string lists []string.
func ParseValue(src string) (any, reflect.Type, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "<value>", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, nil, diags
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, nil, diags
	}
	return fromCty(val)
}

func fromCty(val cty.Value) (any, reflect.Type, error) {
	if val.IsNull() || !val.IsKnown() {
		return nil, nil, fmt.Errorf("value must be known and not null")
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		var s string
		err := gocty.FromCtyValue(val, &s)
		return s, reflect.TypeFor[string](), err
	case ty == cty.Bool:
		var b bool
		err := gocty.FromCtyValue(val, &b)
		return b, reflect.TypeFor[bool](), err
	case ty == cty.Number:
		if val.AsBigFloat().IsInt() {
			var i int
			if err := gocty.FromCtyValue(val, &i); err == nil {
				return i, reflect.TypeFor[int](), nil
			}
		}
		var f float64
		err := gocty.FromCtyValue(val, &f)
		return f, reflect.TypeFor[float64](), err
	case ty.IsTupleType() || ty.IsListType():
		list, err := convert.Convert(val, cty.List(cty.String))
		if err != nil {
			return nil, nil, fmt.Errorf("only lists of strings are supported: %w", err)
		}
		var ss []string
		err = gocty.FromCtyValue(list, &ss)
		return ss, reflect.TypeFor[[]string](), err
	default:
		return nil, nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
