package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Bytes is a byte slice that marshals to/from a "0x" prefixed hex string in
// text based encodings (JSON, query parameters etc).
type Bytes []byte

func (b Bytes) MarshalText() ([]byte, error) {
	return toHex(b), nil
}

func (b *Bytes) UnmarshalText(src []byte) error {
	res, err := fromHex(src)
	if err == nil {
		*b = res
	}
	return err
}

func toHex(src []byte) []byte {
	if src == nil {
		return nil
	}
	dst := make([]byte, 2+hex.EncodedLen(len(src)))
	copy(dst, "0x")
	hex.Encode(dst[2:], src)
	return dst
}

func fromHex(src []byte) ([]byte, error) {
	s := strings.TrimPrefix(string(src), "0x")
	dst := make([]byte, hex.DecodedLen(len(s)))
	if _, err := hex.Decode(dst, []byte(s)); err != nil {
		return nil, fmt.Errorf("decoding hex string: %w", err)
	}
	return dst, nil
}
