package keyvaluedb

import (
	"errors"
)

// KeyValueDB is a persistent key value store with CBOR encoded values.
type KeyValueDB interface {
	// Read decodes the value of the key into v, returns false if the key is
	// not present.
	Read(key []byte, v any) (bool, error)
	Write(key []byte, v any) error
	Delete(key []byte) error
	// Empty returns true if the store contains no keys.
	Empty() bool
}

func CheckKeyAndValue(key []byte, v any) error {
	if len(key) == 0 {
		return errors.New("key is empty")
	}
	if v == nil {
		return errors.New("value is nil")
	}
	return nil
}
