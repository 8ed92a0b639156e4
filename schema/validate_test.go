package schema

import (
	"fmt"
	"strings"
	"testing"

	"github.com/wippyai/bytebridge/errors"
)

func mustParse(t *testing.T, doc string) *Schema {
	t.Helper()
	s, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		kind errors.Kind
	}{
		{"generic params", `
types:
  - name: Box
    params: [T]
    fields: [{name: v, type: i32}]`, errors.KindGenericParams},
		{"lifetime in name", `
types:
  - name: "Ref<'a>"
    fields: [{name: v, type: i32}]`, errors.KindGenericParams},
		{"tuple field", `
types:
  - name: Pair
    fields: [i32, i32]`, errors.KindTupleField},
		{"unit record", `
types:
  - name: Marker`, errors.KindUnitType},
		{"unit variant", `
types:
  - name: State
    variants: [Idle]`, errors.KindUnitType},
		{"private field", `
types:
  - name: A
    fields: [{name: secret, type: string, public: false}]`, errors.KindPrivateField},
		{"java keyword", `
types:
  - name: A
    fields: [{name: class, type: i32}]`, errors.KindReservedName},
		{"scaffolding name", `
types:
  - name: A
    fields: [{name: buffer_size, type: u64}]`, errors.KindReservedName},
		{"reserved type", `
types:
  - name: Optional
    fields: []`, errors.KindReservedName},
		{"string default on int", `
types:
  - name: A
    fields: [{name: n, type: i32, default: "abc"}]`, errors.KindInvalidDefault},
		{"default overflows", `
types:
  - name: A
    fields: [{name: n, type: u8, default: 300}]`, errors.KindInvalidDefault},
		{"zero default on nonzero", `
types:
  - name: A
    fields: [{name: n, type: "nonzero<u32>", default: 0}]`, errors.KindInvalidDefault},
		{"default outside range", `
types:
  - name: A
    fields: [{name: n, type: i32, range: "1..5", default: 9}]`, errors.KindInvalidDefault},
		{"default on list", `
types:
  - name: A
    fields: [{name: n, type: "list<i32>", default: 1}]`, errors.KindInvalidDefault},
		{"duplicate default", `
types:
  - name: A
    fields:
      - name: n
        type: i32
        default: 1
        default: 2`, errors.KindDuplicateDefault},
		{"duplicate type", `
types:
  - {name: A, fields: []}
  - {name: A, fields: []}`, errors.KindDuplicateName},
		{"duplicate field", `
types:
  - name: A
    fields: [{name: n, type: i32}, {name: n, type: i64}]`, errors.KindDuplicateName},
		{"variant collides with type", `
types:
  - {name: ShapeCircle, fields: []}
  - name: Shape
    variants: [{name: Circle, fields: []}]`, errors.KindDuplicateName},
		{"unknown reference", `
types:
  - name: A
    fields: [{name: p, type: Missing}]`, errors.KindUnknownType},
		{"unparsable type", `
types:
  - name: A
    fields: [{name: p, type: "list<"}]`, errors.KindUnknownType},
		{"natural on unsigned", `
types:
  - name: A
    fields: [{name: n, type: u32, natural: true}]`, errors.KindInvalidConstraint},
		{"nonzero on signed", `
types:
  - name: A
    fields: [{name: n, type: i32, nonzero: true}]`, errors.KindInvalidConstraint},
		{"nonzero of usize", `
types:
  - name: A
    fields: [{name: n, type: "nonzero<usize>"}]`, errors.KindInvalidConstraint},
		{"range on string", `
types:
  - name: A
    fields: [{name: n, type: string, range: "1..2"}]`, errors.KindInvalidConstraint},
		{"empty range", `
types:
  - name: A
    fields: [{name: n, type: i32, range: "5..1"}]`, errors.KindInvalidConstraint},
		{"unsigned on signed list", `
types:
  - name: A
    fields: [{name: n, type: "list<i8>", unsigned_array: true}]`, errors.KindInvalidConstraint},
		{"float map key", `
types:
  - name: A
    fields: [{name: m, type: "map<f64,i32>"}]`, errors.KindInvalidMapKey},
		{"record map key", `
types:
  - {name: K, fields: []}
  - name: A
    fields: [{name: m, type: "map<K,i32>"}]`, errors.KindInvalidMapKey},
		{"direct recursion", `
types:
  - name: Node
    fields: [{name: next, type: Node}]`, errors.KindRecursiveType},
		{"self through empty array", `
types:
  - name: A
    fields: [{name: none, type: "array<A,0>"}]`, errors.KindRecursiveType},
		{"mutual recursion through array", `
types:
  - name: A
    fields: [{name: b, type: "array<B,1>"}]
  - name: B
    fields: [{name: a, type: A}]`, errors.KindRecursiveType},
		{"lowercase type", `
types:
  - {name: point, fields: []}`, errors.KindInvalidName},
		{"camel field", `
types:
  - name: A
    fields: [{name: userId, type: i32}]`, errors.KindInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mustParse(t, tt.doc).Validate()
			if !errors.IsKind(err, tt.kind) {
				t.Fatalf("err = %v, want %s", err, tt.kind)
			}
			if errors.KindOf(err) != "" && !strings.Contains(err.Error(), "[generate]") {
				t.Errorf("error should be in the generate phase: %v", err)
			}
		})
	}
}

func TestValidateAccepts(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty record", `
types:
  - {name: Empty, fields: []}`},
		{"recursion through list", `
types:
  - name: Tree
    fields: [{name: children, type: "list<Tree>"}]`},
		{"recursion through option", `
types:
  - name: Node
    fields: [{name: next, type: "option<Node>"}]`},
		{"recursion through union", `
types:
  - name: Expr
    variants:
      - {name: Lit, fields: [{name: v, type: i64}]}
      - {name: Neg, fields: [{name: e, type: Expr}]}`},
		{"option default value", `
types:
  - name: A
    fields: [{name: n, type: "option<u8>", default: 7}]`},
		{"nonzero constraint on option", `
types:
  - name: A
    fields: [{name: n, type: "option<u16>", nonzero: true}]`},
		{"bool map key", `
types:
  - name: A
    fields: [{name: m, type: "map<bool,string>"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := mustParse(t, tt.doc).Validate(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestValidateReportsEverything(t *testing.T) {
	s := mustParse(t, `
types:
  - name: A
    fields: [i32, {name: class, type: i32}, {name: m, type: Missing}]
  - name: Marker`)
	err := s.Validate()
	list, ok := err.(errors.List)
	if !ok {
		t.Fatalf("err = %T, want errors.List", err)
	}
	for _, k := range []errors.Kind{errors.KindTupleField, errors.KindReservedName, errors.KindUnknownType, errors.KindUnitType} {
		if !list.Has(k) {
			t.Errorf("missing %s in %v", k, list)
		}
	}
}

func TestTooManyVariants(t *testing.T) {
	var b strings.Builder
	b.WriteString("types:\n  - name: Big\n    variants:\n")
	for i := 0; i <= MaxVariants; i++ {
		fmt.Fprintf(&b, "      - {name: V%d, fields: []}\n", i)
	}
	err := mustParse(t, b.String()).Validate()
	if !errors.IsKind(err, errors.KindTooManyVariants) {
		t.Fatalf("err = %v", err)
	}

	// exactly 256 is allowed
	s := mustParse(t, b.String())
	s.Types[0].Variants = s.Types[0].Variants[:MaxVariants]
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestReservedTables(t *testing.T) {
	for _, name := range []string{"class", "int", "null", "buf", "tag", "validate"} {
		if !IsReservedField(name) {
			t.Errorf("%s should be reserved", name)
		}
	}
	if IsReservedField("radius") {
		t.Error("radius should not be reserved")
	}
	if !IsReservedType("ByteBridgeReader") || IsReservedType("Point") {
		t.Error("reserved type table")
	}
	if n := len(reservedFields); n < 50 {
		t.Errorf("reserved field table has %d entries", n)
	}
}
