package codec

import (
	"bytes"
	"testing"

	"github.com/wippyai/bytebridge/schema"
	"github.com/wippyai/bytebridge/wire"
)

type FuzzRecord struct {
	Flag  bool
	Name  string
	Items [][]int32
	Pair  [2]uint16
	Next  *Pair
	Tree  Tree
	Shape Expr
}

func fuzzCodec(f *testing.F) *Codec {
	reg := schema.NewRegistry()
	if err := schema.RegisterUnion[Expr](reg, ExprVarA{}, ExprVarB{}); err != nil {
		f.Fatal(err)
	}
	return New(WithRegistry(reg))
}

func FuzzUnmarshal(f *testing.F) {
	c := fuzzCodec(f)
	valid, err := c.Marshal(FuzzRecord{
		Flag:  true,
		Name:  "seed",
		Items: [][]int32{{1}, {}},
		Pair:  [2]uint16{1, 2},
		Next:  &Pair{A: 3, B: 4},
		Tree:  Tree{Value: 1, Children: []Tree{}},
		Shape: ExprVarA{A: 1, B: 2},
	})
	if err != nil {
		f.Fatal(err)
	}
	f.Add(valid)
	f.Add(valid[:len(valid)/2])
	f.Add([]byte{})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})

	f.Fuzz(func(t *testing.T, data []byte) {
		var out FuzzRecord
		if err := c.Unmarshal(data, &out); err != nil {
			return
		}
		// no maps, so a successful decode re-encodes to the same bytes
		again, err := c.Marshal(out)
		if err != nil {
			t.Fatalf("re-encode: %v", err)
		}
		if !bytes.Equal(again, data) {
			t.Fatalf("re-encoding differs:\n got %x\nwant %x", again, data)
		}
	})
}

func FuzzUnmarshalMsgpack(f *testing.F) {
	c := fuzzCodec(f)
	valid, err := c.MarshalFormat(wire.FormatMsgpack, sampleEverythingFuzz())
	if err != nil {
		f.Fatal(err)
	}
	f.Add(valid)
	f.Add([]byte{0xc1})
	f.Add([]byte{0xdd, 0xff, 0xff, 0xff, 0xff})

	f.Fuzz(func(t *testing.T, data []byte) {
		var out Everything
		_ = c.UnmarshalFormat(wire.FormatMsgpack, data, &out)
	})
}

func sampleEverythingFuzz() Everything {
	e := sampleEverything()
	e.Index = map[string][]uint32{"k": {1, 2}}
	return e
}

func FuzzDecodeValue(f *testing.F) {
	s, err := schema.Parse([]byte(dynamicSchema))
	if err != nil {
		f.Fatal(err)
	}
	f.Add([]byte{0, 1, 0, 0, 0, 2, 0, 0, 0})
	f.Add([]byte{1, 0, 0, 0, 0, 0, 0, 0, 0})
	f.Add([]byte{})

	c := New()
	f.Fuzz(func(t *testing.T, data []byte) {
		v, err := c.UnmarshalValue(wire.FormatFlat, data, s, schema.Named("Bag"))
		if err != nil {
			return
		}
		if _, err := c.MarshalValue(wire.FormatFlat, s, schema.Named("Bag"), v); err != nil {
			t.Fatalf("re-encode decoded value: %v", err)
		}
	})
}
