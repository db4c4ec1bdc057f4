package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUint64Bytes(t *testing.T) {
	for _, v := range []uint64{0, 1, 256, 1<<32 + 1, 1<<64 - 1} {
		b := Uint64ToBytes(v)
		require.Len(t, b, 8)
		require.Equal(t, v, BytesToUint64(b))
	}
	// big endian: values compare the same as their encodings
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 0}, Uint64ToBytes(256))
}

func TestUint32Bytes(t *testing.T) {
	for _, v := range []uint32{0, 1, 256, 1<<32 - 1} {
		b := Uint32ToBytes(v)
		require.Len(t, b, 4)
		require.Equal(t, v, BytesToUint32(b))
	}
}
