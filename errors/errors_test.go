package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:      PhaseDecode,
				Kind:       KindTypeMismatch,
				Path:       []string{"user", "address", "zip"},
				GoType:     "string",
				SchemaType: "u32",
				Detail:     "cannot convert",
			},
			contains: []string{"[decode]", "type_mismatch", "user.address.zip", "Go type string", "schema type u32", "cannot convert"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindInsufficientData,
			},
			contains: []string{"[decode]", "insufficient_data"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseBoundary,
				Kind:   KindAllocation,
				Detail: "memory full",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[boundary]", "allocation", "memory full", "caused by", "underlying error"},
		},
		{
			name:     "unknown variant carries discriminant",
			err:      UnknownVariant([]string{"shape"}, "Shape", 13, 1),
			contains: []string{"unknown_variant", "shape", "Shape", "unknown enum variant 13"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindInvalidUTF8,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindInvalidBool,
		Path:  []string{"flag"},
	}

	if !err.Is(&Error{Phase: PhaseDecode, Kind: KindInvalidBool}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseEncode, Kind: KindInvalidBool}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindInvalidUTF8}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseDecode, Kind: KindInvalidBool}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestKindOf(t *testing.T) {
	base := ArityMismatch([]string{"grid"}, 3, 4)
	wrapped := fmt.Errorf("decode request: %w", base)

	if got := KindOf(wrapped); got != KindArityMismatch {
		t.Errorf("KindOf = %q, want %q", got, KindArityMismatch)
	}
	if !IsKind(wrapped, KindArityMismatch) {
		t.Error("IsKind should see through fmt wrapping")
	}
	if IsKind(nil, KindArityMismatch) {
		t.Error("IsKind(nil) should be false")
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q, want empty", got)
	}
}

func TestWithPrefix(t *testing.T) {
	err := InvalidBool([]string{"flag"}, 3)
	prefixed := err.WithPrefix("outer", "inner")

	if got := strings.Join(prefixed.Path, "."); got != "outer.inner.flag" {
		t.Errorf("Path = %q, want outer.inner.flag", got)
	}
	if len(err.Path) != 1 {
		t.Errorf("original path mutated: %v", err.Path)
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseEncode, KindTypeMismatch).
		Path("user", "name").
		GoType("string").
		SchemaType("u32").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "string", "int").
		Build()

	if err.Phase != PhaseEncode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseEncode)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if len(err.Path) != 2 || err.Path[0] != "user" || err.Path[1] != "name" {
		t.Errorf("Path = %v, want [user name]", err.Path)
	}
	if err.GoType != "string" {
		t.Errorf("GoType = %v, want 'string'", err.GoType)
	}
	if err.SchemaType != "u32" {
		t.Errorf("SchemaType = %v, want 'u32'", err.SchemaType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected string, got int" {
		t.Errorf("Detail = %v, want 'expected string, got int'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("InsufficientData", func(t *testing.T) {
		err := InsufficientData([]string{"x"}, 8, 3)
		if err.Kind != KindInsufficientData {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInsufficientData)
		}
		if !strings.Contains(err.Detail, "need 8") {
			t.Errorf("Detail = %v", err.Detail)
		}
	})

	t.Run("InvalidBool", func(t *testing.T) {
		err := InvalidBool(nil, 3)
		if err.Value != byte(3) {
			t.Errorf("Value = %v, want 3", err.Value)
		}
		if !strings.Contains(err.Error(), "invalid boolean value: 3") {
			t.Errorf("Error() = %v", err.Error())
		}
	})

	t.Run("InvalidUTF8", func(t *testing.T) {
		data := []byte{0, 159, 146, 150}
		err := InvalidUTF8(PhaseDecode, []string{"str"}, data)
		if err.Kind != KindInvalidUTF8 {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidUTF8)
		}
		data[1] = 0
		if err.Value.([]byte)[1] != 159 {
			t.Error("InvalidUTF8 should copy the preview")
		}
	})

	t.Run("UnknownVariant", func(t *testing.T) {
		err := UnknownVariant(nil, "E", 13, 1)
		if err.Value != uint8(13) {
			t.Errorf("Value = %v, want 13", err.Value)
		}
	})

	t.Run("ArityMismatch", func(t *testing.T) {
		err := ArityMismatch(nil, 4, 3)
		if !strings.Contains(err.Detail, "expected array of length 4, got length 3") {
			t.Errorf("Detail = %v", err.Detail)
		}
	})

	t.Run("ConstraintViolation", func(t *testing.T) {
		err := ConstraintViolation(PhaseDecode, []string{"id"}, 0, "nonzero")
		if err.Kind != KindConstraintViolation {
			t.Errorf("Kind = %v, want %v", err.Kind, KindConstraintViolation)
		}
	})

	t.Run("NilPointer", func(t *testing.T) {
		err := NilPointer(PhaseEncode, []string{"ptr"}, "*User")
		if err.GoType != "*User" {
			t.Errorf("GoType = %v, want '*User'", err.GoType)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseDecode, []string{"val"}, uint64(300), "u8")
		if err.Kind != KindNumericOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNumericOverflow)
		}
		if err.Value != uint64(300) {
			t.Errorf("Value = %v, want 300", err.Value)
		}
	})

	t.Run("Generation", func(t *testing.T) {
		err := Generation(KindReservedName, []string{"Point", "class"}, "field %q is reserved", "class")
		if err.Phase != PhaseGenerate {
			t.Errorf("Phase = %v, want %v", err.Phase, PhaseGenerate)
		}
		if !strings.Contains(err.Error(), "Point.class") {
			t.Errorf("Error() = %v", err.Error())
		}
	})
}

func TestList(t *testing.T) {
	var l List
	if l.Err() != nil {
		t.Fatal("empty list should be nil error")
	}

	l = append(l,
		Generation(KindTupleField, []string{"A"}, "tuple"),
		Generation(KindUnitType, []string{"B"}, "unit"),
	)
	err := l.Err()
	if !strings.HasPrefix(err.Error(), "2 errors:") {
		t.Errorf("Error() = %v", err.Error())
	}
	if !IsKind(err, KindTupleField) {
		t.Error("IsKind should find first element")
	}
	if !IsKind(err, KindUnitType) || IsKind(err, KindReservedName) {
		t.Error("IsKind should match any member and nothing else")
	}
	if !errors.Is(err, &Error{Phase: PhaseGenerate, Kind: KindUnitType}) {
		t.Error("errors.Is should find second element")
	}
}
