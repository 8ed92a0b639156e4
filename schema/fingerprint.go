package schema

import (
	"encoding/hex"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"

	"github.com/wippyai/bytebridge/errors"
)

// fingerprintContext separates schema fingerprints from any other BLAKE3
// derivation using the same canonical bytes.
const fingerprintContext = "bytebridge 2026-10-01 schema fingerprint v1"

// encMode is Core Deterministic Encoding (RFC 8949 §4.2): the same
// schema always produces identical bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("schema: CBOR encoder initialization failed: " + err.Error())
	}
}

// Fingerprint identifies the wire shape of a schema.
type Fingerprint [32]byte

func (f Fingerprint) String() string { return hex.EncodeToString(f[:]) }

// IsZero reports whether f is unset.
func (f Fingerprint) IsZero() bool { return f == Fingerprint{} }

// ParseFingerprint decodes a 64-character hex fingerprint.
func ParseFingerprint(s string) (Fingerprint, error) {
	var f Fingerprint
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(f) {
		return f, errors.New(errors.PhaseParse, errors.KindInvalidInput).
			Detail("fingerprint must be %d hex bytes", len(f)).
			Cause(err).
			Build()
	}
	copy(f[:], b)
	return f, nil
}

type canonicalSchema struct {
	Package string          `cbor:"1,keyasint"`
	Types   []canonicalType `cbor:"2,keyasint"`
}

type canonicalType struct {
	Name     string             `cbor:"1,keyasint"`
	Kind     string             `cbor:"2,keyasint"`
	Fields   []canonicalField   `cbor:"3,keyasint,omitempty"`
	Variants []canonicalVariant `cbor:"4,keyasint,omitempty"`
}

type canonicalVariant struct {
	Name   string           `cbor:"1,keyasint"`
	Fields []canonicalField `cbor:"2,keyasint"`
}

type canonicalField struct {
	Name        string `cbor:"1,keyasint"`
	Type        string `cbor:"2,keyasint"`
	Constraints string `cbor:"3,keyasint,omitempty"`
}

// Canonical returns the deterministic CBOR form hashed by Fingerprint.
// Definitions are sorted by name; fields and variants keep declaration
// order because that order is the wire order. Docs and defaults are
// not part of the wire shape and are omitted.
func (s *Schema) Canonical() ([]byte, error) {
	cs := canonicalSchema{Package: s.Package, Types: make([]canonicalType, 0, len(s.Types))}
	for _, td := range s.Types {
		ct := canonicalType{Name: td.Name, Kind: td.Kind.String()}
		if td.Kind == DefRecord {
			ct.Fields = canonicalFields(td.Fields)
		}
		for _, v := range td.Variants {
			ct.Variants = append(ct.Variants, canonicalVariant{Name: v.Name, Fields: canonicalFields(v.Fields)})
		}
		cs.Types = append(cs.Types, ct)
	}
	sort.Slice(cs.Types, func(i, j int) bool { return cs.Types[i].Name < cs.Types[j].Name })

	data, err := encMode.Marshal(cs)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseGenerate, errors.KindInvalidInput, err, "canonical schema encoding")
	}
	return data, nil
}

func canonicalFields(fields []*Field) []canonicalField {
	out := make([]canonicalField, len(fields))
	for i, f := range fields {
		out[i] = canonicalField{Name: f.Name, Type: f.exprString(), Constraints: f.Constraints.String()}
	}
	return out
}

// Fingerprint hashes the canonical form with BLAKE3 in key-derivation
// mode. Two peers with equal fingerprints agree on every framing decision.
func (s *Schema) Fingerprint() (Fingerprint, error) {
	var f Fingerprint
	data, err := s.Canonical()
	if err != nil {
		return f, err
	}
	h := blake3.NewDeriveKey(fingerprintContext)
	_, _ = h.Write(data)
	copy(f[:], h.Sum(nil))
	return f, nil
}
