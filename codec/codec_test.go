package codec

import (
	"bytes"
	"testing"
)

type record struct {
	ID    int64             `json:"id" msgpack:"id" cbor:"1,keyasint"`
	Name  string            `json:"name" msgpack:"name" cbor:"2,keyasint"`
	Tags  []string          `json:"tags,omitempty" msgpack:"tags,omitempty" cbor:"3,keyasint,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty" msgpack:"attrs,omitempty" cbor:"4,keyasint,omitempty"`
}

func sample() record {
	return record{
		ID:    42,
		Name:  "node-a",
		Tags:  []string{"primary", "eu-west"},
		Attrs: map[string]string{"zone": "a", "rack": "7"},
	}
}

func mustCBOR(t *testing.T, deterministic bool) CBOR[record] {
	t.Helper()
	c, err := NewCBOR[record](deterministic)
	if err != nil {
		t.Fatalf("NewCBOR: %v", err)
	}
	return c
}

func TestCodecs_RoundTrip(t *testing.T) {
	t.Parallel()

	codecs := map[string]Codec[record]{
		"json":    JSON[record]{},
		"msgpack": Msgpack[record]{},
		"cbor":    mustCBOR(t, false),
	}
	for name, c := range codecs {
		c := c
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			in := sample()
			raw, err := c.Encode(in)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			out, err := c.Decode(raw)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.ID != in.ID || out.Name != in.Name || len(out.Tags) != 2 || out.Attrs["zone"] != "a" {
				t.Fatalf("round trip mismatch: %+v", out)
			}
		})
	}
}

// Deterministic CBOR must produce identical bytes for equal values even
// when map iteration order differs between encodes.
func TestCBOR_Deterministic(t *testing.T) {
	t.Parallel()

	c := mustCBOR(t, true)
	in := sample()
	first, err := c.Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for i := 0; i < 16; i++ {
		next, err := c.Encode(in)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if !bytes.Equal(first, next) {
			t.Fatalf("encode %d produced different bytes", i)
		}
	}
}

func TestDecode_Garbage(t *testing.T) {
	t.Parallel()

	for name, c := range map[string]Codec[record]{
		"json":    JSON[record]{},
		"msgpack": Msgpack[record]{},
		"cbor":    mustCBOR(t, false),
	} {
		if _, err := c.Decode([]byte{0xff, 0x00, 0x13}); err == nil {
			t.Errorf("%s: decoding garbage succeeded", name)
		}
	}
}
