package codec

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// decodeHCL reads an attribute-only HCL document. Nested structures are
// written as object and tuple expressions:
//
//	appName = "Shop"
//	root = [
//	  { "button#buy" = { label = "Buy" } },
//	]
//
// Blocks, variables and function calls are rejected.
func decodeHCL(data []byte) (interface{}, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, "document.hcl")
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid HCL: %s", diags.Error())
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid HCL: %s", diags.Error())
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	doc := make(map[string]interface{}, len(attrs))
	for _, name := range names {
		val, diags := attrs[name].Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid HCL: %s", diags.Error())
		}
		v, err := fromCty(val)
		if err != nil {
			return nil, fmt.Errorf("invalid HCL: %s: %w", name, err)
		}
		doc[name] = v
	}
	return doc, nil
}

// fromCty converts a cty value into the generic shape the other decoders
// produce
func fromCty(val cty.Value) (interface{}, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f, nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]interface{}, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			converted, err := fromCty(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k.AsString(), err)
			}
			out[k.AsString()] = converted
		}
		return out, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]interface{}, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			converted, err := fromCty(v)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", len(out), err)
			}
			out = append(out, converted)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
}
