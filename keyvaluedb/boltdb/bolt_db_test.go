package boltdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type record struct {
	_     struct{} `cbor:",toarray"`
	Name  string
	Value uint64
}

func newTestDB(t *testing.T) *BoltDB {
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })
	return db
}

func TestBoltDB(t *testing.T) {
	t.Run("empty file name", func(t *testing.T) {
		_, err := New("")
		require.ErrorContains(t, err, "db file name is empty")
	})

	t.Run("read write delete", func(t *testing.T) {
		db := newTestDB(t)
		require.True(t, db.Empty())

		found, err := db.Read([]byte("k"), &record{})
		require.NoError(t, err)
		require.False(t, found)

		require.NoError(t, db.Write([]byte("k"), &record{Name: "a", Value: 42}))
		require.False(t, db.Empty())

		var out record
		found, err = db.Read([]byte("k"), &out)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, record{Name: "a", Value: 42}, out)

		require.NoError(t, db.Delete([]byte("k")))
		require.True(t, db.Empty())
	})

	t.Run("overwrite", func(t *testing.T) {
		db := newTestDB(t)
		require.NoError(t, db.Write([]byte("k"), &record{Value: 1}))
		require.NoError(t, db.Write([]byte("k"), &record{Value: 2}))
		var out record
		_, err := db.Read([]byte("k"), &out)
		require.NoError(t, err)
		require.EqualValues(t, 2, out.Value)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		db := newTestDB(t)
		require.ErrorContains(t, db.Write(nil, &record{}), "key is empty")
		_, err := db.Read(nil, &record{})
		require.ErrorContains(t, err, "key is empty")
	})
}
