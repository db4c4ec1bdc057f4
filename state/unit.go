package state

import (
	"hash"
)

type (
	// UnitData is a generic data type for the unit state.
	UnitData interface {
		// Write writes the canonical encoding of the data to the hasher.
		Write(hasher hash.Hash) error
		// SummaryValueInput returns the value the unit contributes to the
		// state summary (the total of value still held in custody).
		SummaryValueInput() uint64
		// Copy returns a deep copy of the data.
		Copy() UnitData
	}

	// Unit is a node in the state holding the data of a single entity.
	Unit struct {
		data UnitData
	}
)

func NewUnit(data UnitData) *Unit {
	return &Unit{data: data}
}

func (u *Unit) Data() UnitData {
	if u == nil {
		return nil
	}
	return u.data
}

func (u *Unit) Clone() *Unit {
	if u == nil {
		return nil
	}
	return &Unit{data: copyData(u.data)}
}

func copyData(data UnitData) UnitData {
	if data == nil {
		return nil
	}
	return data.Copy()
}
