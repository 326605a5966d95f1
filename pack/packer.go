package pack

import (
	"bytes"
	"io"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	msgpack.RegisterExtEncoder(extArrayPayload, extPayload(nil),
		func(_ *msgpack.Encoder, v reflect.Value) ([]byte, error) {
			return v.Bytes(), nil
		})
	// Registered as a pointer type: for interface decoding msgpack
	// allocates a value of the registered type before the callback runs,
	// and a slice type would make it allocate an element instead.
	msgpack.RegisterExtDecoder(extArrayPayload, (*extPayload)(nil),
		func(d *msgpack.Decoder, v reflect.Value, extLen int) error {
			buf := make([]byte, extLen)
			if _, err := io.ReadFull(d.Buffered(), buf); err != nil {
				return err
			}
			v.Elem().SetBytes(buf)

			return nil
		})
}

// Pack serializes obj to w as one msgpack message. Map keys are written in
// sorted order so equal objects produce identical bytes.
func Pack(w io.Writer, obj any, opts ...Option) error {
	enc, err := NewEncoder(opts...)
	if err != nil {
		return err
	}
	tree, err := enc.Encode(obj)
	if err != nil {
		return err
	}

	me := msgpack.NewEncoder(w)
	me.SetSortMapKeys(true)

	return me.Encode(tree)
}

// Marshal serializes obj to a byte slice.
func Marshal(obj any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Pack(&buf, obj, opts...); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Unpack reads one msgpack message from r and restores the domain object it
// encodes. At end of input it returns io.EOF.
func Unpack(r io.Reader) (any, error) {
	return unpackNext(msgpack.NewDecoder(r), NewDecoder())
}

// Unmarshal restores the first object encoded in data.
func Unmarshal(data []byte) (any, error) {
	return Unpack(bytes.NewReader(data))
}

func unpackNext(md *msgpack.Decoder, dec *Decoder) (any, error) {
	raw, err := md.DecodeInterfaceLoose()
	if err != nil {
		return nil, err
	}

	return postprocess(dec, raw)
}

// postprocess applies the tag decoder to every mapping in the parsed tree,
// children before parents, so a record's fields hold restored domain
// objects by the time its own tag is dispatched.
func postprocess(dec *Decoder, v any) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		for k, vv := range x {
			nv, err := postprocess(dec, vv)
			if err != nil {
				return nil, err
			}
			x[k] = nv
		}

		return dec.Decode(x)
	case []any:
		for i, vv := range x {
			nv, err := postprocess(dec, vv)
			if err != nil {
				return nil, err
			}
			x[i] = nv
		}

		return x, nil
	}

	return v, nil
}
