package codec

import "github.com/fxamacker/cbor/v2"

type CBOR[V any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCBOR builds a CBOR codec. Deterministic mode produces canonical,
// byte-stable output suitable for content addressing.
func NewCBOR[V any](deterministic bool) (CBOR[V], error) {
	opts := cbor.EncOptions{}
	if deterministic {
		opts = cbor.CanonicalEncOptions()
		opts.Time = cbor.TimeRFC3339Nano
	}
	enc, err := opts.EncMode()
	if err != nil {
		return CBOR[V]{}, err
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return CBOR[V]{}, err
	}
	return CBOR[V]{enc: enc, dec: dec}, nil
}

func (c CBOR[V]) Encode(v V) ([]byte, error) {
	return c.enc.Marshal(v)
}

func (c CBOR[V]) Decode(b []byte) (V, error) {
	var v V
	err := c.dec.Unmarshal(b, &v)
	return v, err
}
