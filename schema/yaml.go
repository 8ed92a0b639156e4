package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/bytebridge/errors"
)

// Load reads a YAML schema file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return s, nil
}

// Parse reads a YAML schema document:
//
//	package: demo
//	types:
//	  - name: Point
//	    fields:
//	      - {name: x, type: i32, default: 1}
//	      - {name: y, type: i32, range: "0..100"}
//	  - name: Shape
//	    variants:
//	      - name: Circle
//	        fields: [{name: r, type: f64}]
//
// Parse only reports malformed YAML. Structural problems such as tuple
// fields, unit types or unknown type names are recorded on the definitions
// and reported by Validate.
func Parse(data []byte) (*Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, "invalid schema YAML")
	}
	s := &Schema{}
	if len(doc.Content) == 0 {
		return s, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nodeError(root, "schema must be a mapping")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "package":
			s.Package = val.Value
		case "types":
			if val.Kind != yaml.SequenceNode {
				return nil, nodeError(val, "types must be a sequence")
			}
			for _, n := range val.Content {
				td, err := parseTypeDef(n)
				if err != nil {
					return nil, err
				}
				s.Types = append(s.Types, td)
			}
		default:
			return nil, nodeError(key, "unknown schema key %q", key.Value)
		}
	}
	return s, nil
}

func nodeError(n *yaml.Node, format string, args ...any) error {
	return errors.New(errors.PhaseParse, errors.KindInvalidInput).
		Detail("line %d: %s", n.Line, fmt.Sprintf(format, args...)).
		Build()
}

func parseTypeDef(n *yaml.Node) (*TypeDef, error) {
	if n.Kind != yaml.MappingNode {
		return nil, nodeError(n, "type definition must be a mapping")
	}
	td := &TypeDef{Unit: true}
	hasVariants := false

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "name":
			td.Name = val.Value
		case "docs", "doc":
			td.Docs = strings.TrimSpace(val.Value)
		case "params":
			for _, p := range val.Content {
				td.Params = append(td.Params, p.Value)
			}
			if val.Kind == yaml.ScalarNode && val.Value != "" {
				td.Params = append(td.Params, val.Value)
			}
		case "fields":
			td.Unit = false
			fields, err := parseFields(val)
			if err != nil {
				return nil, err
			}
			td.Fields = fields
		case "variants":
			hasVariants = true
			td.Unit = false
			if val.Kind != yaml.SequenceNode {
				return nil, nodeError(val, "variants must be a sequence")
			}
			for _, vn := range val.Content {
				v, err := parseVariant(vn)
				if err != nil {
					return nil, err
				}
				td.Variants = append(td.Variants, v)
			}
		default:
			return nil, nodeError(key, "unknown type key %q", key.Value)
		}
	}

	if hasVariants {
		td.Kind = DefUnion
	}
	if td.Name == "" {
		return nil, nodeError(n, "type definition without a name")
	}
	return td, nil
}

func parseVariant(n *yaml.Node) (*Variant, error) {
	// A bare scalar is a unit variant.
	if n.Kind == yaml.ScalarNode {
		return &Variant{Name: n.Value, Unit: true}, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, nodeError(n, "variant must be a mapping")
	}
	v := &Variant{Unit: true}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "name":
			v.Name = val.Value
		case "docs", "doc":
			v.Docs = strings.TrimSpace(val.Value)
		case "fields":
			v.Unit = false
			fields, err := parseFields(val)
			if err != nil {
				return nil, err
			}
			v.Fields = fields
		default:
			return nil, nodeError(key, "unknown variant key %q", key.Value)
		}
	}
	return v, nil
}

func parseFields(n *yaml.Node) ([]*Field, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, nodeError(n, "fields must be a sequence")
	}
	fields := make([]*Field, 0, len(n.Content))
	for i, fn := range n.Content {
		// A bare type expression is a positional field.
		if fn.Kind == yaml.ScalarNode {
			f := &Field{Name: fmt.Sprintf("%d", i), TypeExpr: fn.Value, Positional: true}
			f.Type, _ = ParseType(fn.Value)
			fields = append(fields, f)
			continue
		}
		f, err := parseField(fn)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func parseField(n *yaml.Node) (*Field, error) {
	if n.Kind != yaml.MappingNode {
		return nil, nodeError(n, "field must be a mapping")
	}
	f := &Field{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "name":
			f.Name = val.Value
		case "type":
			f.TypeExpr = val.Value
		case "docs", "doc":
			f.Docs = strings.TrimSpace(val.Value)
		case "default":
			f.Defaults++
			if f.Default == nil {
				f.Default = literalFromNode(val)
			}
		case "nonzero":
			f.Constraints.NonZero = val.Value == "true"
		case "natural":
			f.Constraints.Natural = val.Value == "true"
		case "unsigned_array", "unsigned":
			f.Constraints.UnsignedArray = val.Value == "true"
		case "range":
			r, err := rangeFromNode(val)
			if err != nil {
				return nil, nodeError(val, "invalid range: %v", err)
			}
			f.Constraints.Range = r
		case "public":
			f.Private = val.Value == "false"
		default:
			return nil, nodeError(key, "unknown field key %q", key.Value)
		}
	}
	if f.TypeExpr != "" {
		f.Type, _ = ParseType(f.TypeExpr)
	}
	return f, nil
}

func literalFromNode(n *yaml.Node) *Literal {
	if n.Kind != yaml.ScalarNode {
		return &Literal{Kind: LitString, Raw: n.Value}
	}
	switch n.ShortTag() {
	case "!!null":
		return &Literal{Kind: LitNull, Raw: "null"}
	case "!!bool":
		return &Literal{Kind: LitBool, Raw: strings.ToLower(n.Value)}
	case "!!int", "!!float":
		return &Literal{Kind: LitNumber, Raw: n.Value}
	}
	return &Literal{Kind: LitString, Raw: n.Value}
}

func rangeFromNode(n *yaml.Node) (*Range, error) {
	if n.Kind == yaml.SequenceNode {
		if len(n.Content) != 2 {
			return nil, fmt.Errorf("want [min, max]")
		}
		return ParseRange(n.Content[0].Value + ".." + n.Content[1].Value)
	}
	return ParseRange(n.Value)
}
