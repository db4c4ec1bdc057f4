package types

import (
	"bytes"
	"fmt"
)

const (
	// UnitIDLength is the length of all unit identifiers: a 32 byte unit
	// part followed by a one byte type part.
	UnitIDLength = 33

	// MaxAccountIDLength bounds the opaque account identifiers supplied by
	// the surrounding ledger.
	MaxAccountIDLength = 64
)

type (
	// SystemID identifies the transaction system an order is addressed to.
	SystemID uint32

	// UnitID is the identifier of a unit in the escrow partition state. The
	// last byte of the identifier is the unit type part.
	UnitID []byte

	// AccountID is the opaque ledger level identity of a participant or
	// contract. The escrow partition never interprets its contents, only
	// its well-formedness.
	AccountID []byte
)

// NewUnitID creates a new UnitID from a unit part and a type part. A unit
// part shorter than 32 bytes is left padded with zero bytes, a longer one is
// truncated from the left.
func NewUnitID(unitPart []byte, typePart byte) UnitID {
	unitID := make([]byte, UnitIDLength)
	unitPartLength := UnitIDLength - 1
	if len(unitPart) > unitPartLength {
		unitPart = unitPart[len(unitPart)-unitPartLength:]
	}
	copy(unitID[unitPartLength-len(unitPart):], unitPart)
	unitID[unitPartLength] = typePart
	return unitID
}

func (uid UnitID) Compare(key UnitID) int {
	return bytes.Compare(uid, key)
}

func (uid UnitID) String() string {
	return fmt.Sprintf("%X", []byte(uid))
}

func (uid UnitID) Eq(id UnitID) bool {
	return bytes.Equal(uid, id)
}

func (uid UnitID) HasType(typePart byte) bool {
	return len(uid) == UnitIDLength && uid[UnitIDLength-1] == typePart
}

// TypePart returns the type byte of the identifier, zero for malformed ids.
func (uid UnitID) TypePart() byte {
	if len(uid) != UnitIDLength {
		return 0
	}
	return uid[UnitIDLength-1]
}

func (uid UnitID) MarshalText() ([]byte, error) {
	return toHex(uid), nil
}

func (uid *UnitID) UnmarshalText(src []byte) error {
	res, err := fromHex(src)
	if err == nil {
		*uid = res
	}
	return err
}

func (id AccountID) Eq(other AccountID) bool {
	return bytes.Equal(id, other)
}

func (id AccountID) String() string {
	return fmt.Sprintf("%X", []byte(id))
}

// IsValid reports whether the account identifier is well-formed: non-empty
// and within the length bound.
func (id AccountID) IsValid() bool {
	return len(id) > 0 && len(id) <= MaxAccountIDLength
}

func (id AccountID) MarshalText() ([]byte, error) {
	return toHex(id), nil
}

func (id *AccountID) UnmarshalText(src []byte) error {
	res, err := fromHex(src)
	if err == nil {
		*id = res
	}
	return err
}

func (sid SystemID) String() string {
	return fmt.Sprintf("%08X", uint32(sid))
}
