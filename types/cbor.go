package types

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

// RawCBOR is a raw encoded CBOR value, it is spliced into the enclosing
// message during encoding and stored verbatim during decoding.
type RawCBOR []byte

type cborHandler struct {
	encMode cbor.EncMode
	decMode cbor.DecMode
}

// Cbor is the codec used for all state and wire encoding. Core deterministic
// encoding is used so that equal values always produce equal bytes.
var Cbor = newCborHandler()

func newCborHandler() *cborHandler {
	encMode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	decMode, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(err)
	}
	return &cborHandler{encMode: encMode, decMode: decMode}
}

func (h *cborHandler) Marshal(v any) ([]byte, error) {
	return h.encMode.Marshal(v)
}

func (h *cborHandler) Unmarshal(data []byte, v any) error {
	return h.decMode.Unmarshal(data, v)
}

func (h *cborHandler) Encode(w io.Writer, v any) error {
	return h.encMode.NewEncoder(w).Encode(v)
}

func (h *cborHandler) Decode(r io.Reader, v any) error {
	return h.decMode.NewDecoder(r).Decode(v)
}

func (h *cborHandler) GetEncoder(w io.Writer) *cbor.Encoder {
	return h.encMode.NewEncoder(w)
}

func (h *cborHandler) GetDecoder(r io.Reader) *cbor.Decoder {
	return h.decMode.NewDecoder(r)
}

func (r RawCBOR) MarshalCBOR() ([]byte, error) {
	if len(r) == 0 {
		// zero length value is encoded as CBOR null
		return []byte{0xf6}, nil
	}
	return r, nil
}

func (r *RawCBOR) UnmarshalCBOR(data []byte) error {
	if r != nil {
		*r = append((*r)[0:0], data...)
	}
	return nil
}

func (r Bytes) MarshalCBOR() ([]byte, error) {
	return Cbor.Marshal([]byte(r))
}

func (r *Bytes) UnmarshalCBOR(data []byte) error {
	var b []byte
	if err := Cbor.Unmarshal(data, &b); err != nil {
		return err
	}
	*r = b
	return nil
}
