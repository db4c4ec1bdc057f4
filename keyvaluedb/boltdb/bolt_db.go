package boltdb

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/alphabill-org/alphabill-escrow/keyvaluedb"
	"github.com/alphabill-org/alphabill-escrow/types"
)

var defaultBucket = []byte("default")

// BoltDB is a keyvaluedb.KeyValueDB backed by a bbolt file.
type BoltDB struct {
	db      *bolt.DB
	bucket  []byte
	encoder func(v any) ([]byte, error)
	decoder func(data []byte, v any) error
}

func New(dbFile string) (*BoltDB, error) {
	if dbFile == "" {
		return nil, errors.New("db file name is empty")
	}
	db, err := bolt.Open(dbFile, 0600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db %s: %w", dbFile, err)
	}
	s := &BoltDB{
		db:      db,
		bucket:  defaultBucket,
		encoder: types.Cbor.Marshal,
		decoder: types.Cbor.Unmarshal,
	}
	if err := s.createBuckets(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *BoltDB) createBuckets() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.bucket)
		return err
	})
}

func (s *BoltDB) Path() string {
	return s.db.Path()
}

func (s *BoltDB) Read(key []byte, v any) (bool, error) {
	if err := keyvaluedb.CheckKeyAndValue(key, v); err != nil {
		return false, err
	}
	var data []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		data = tx.Bucket(s.bucket).Get(key)
		return nil
	}); err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	return true, s.decoder(data, v)
}

func (s *BoltDB) Write(key []byte, v any) error {
	if err := keyvaluedb.CheckKeyAndValue(key, v); err != nil {
		return err
	}
	data, err := s.encoder(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(key, data)
	})
}

func (s *BoltDB) Delete(key []byte) error {
	if err := keyvaluedb.CheckKeyAndValue(key, ""); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete(key)
	})
}

func (s *BoltDB) Empty() bool {
	empty := true
	_ = s.db.View(func(tx *bolt.Tx) error {
		k, _ := tx.Bucket(s.bucket).Cursor().First()
		empty = k == nil
		return nil
	})
	return empty
}

func (s *BoltDB) Close() error {
	return s.db.Close()
}
