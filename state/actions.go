package state

import (
	"errors"
	"fmt"

	"github.com/alphabill-org/alphabill-escrow/types"
)

type (
	// UnitStore is the mutable view of the state an Action operates on.
	UnitStore interface {
		Add(id types.UnitID, u *Unit) error
		Get(id types.UnitID) (*Unit, error)
		Update(id types.UnitID, unit *Unit) error
		Delete(id types.UnitID) error
	}

	Action func(s UnitStore) error

	// UpdateFunction is a function for updating the data of an item. Takes
	// the previous UnitData and returns new UnitData.
	UpdateFunction func(data UnitData) (newData UnitData, err error)
)

// AddUnit adds a new unit with the given identifier and data.
func AddUnit(id types.UnitID, data UnitData) Action {
	return func(s UnitStore) error {
		if id == nil {
			return errors.New("id is nil")
		}
		if err := s.Add(id, NewUnit(copyData(data))); err != nil {
			return fmt.Errorf("unable to add unit: %w", err)
		}
		return nil
	}
}

// UpdateUnitData changes the data of the item.
func UpdateUnitData(id types.UnitID, f UpdateFunction) Action {
	return func(s UnitStore) error {
		if f == nil {
			return errors.New("update function is nil")
		}
		u, err := s.Get(id)
		if err != nil {
			return fmt.Errorf("failed to get unit: %w", err)
		}

		cloned := u.Clone()
		newData, err := f(cloned.data)
		if err != nil {
			return fmt.Errorf("unable to update unit data: %w", err)
		}
		cloned.data = newData
		if err = s.Update(id, cloned); err != nil {
			return fmt.Errorf("unable to update unit: %w", err)
		}
		return nil
	}
}

// DeleteUnit removes the unit with the given identifier from the state.
func DeleteUnit(id types.UnitID) Action {
	return func(s UnitStore) error {
		if id == nil {
			return errors.New("id is nil")
		}
		if err := s.Delete(id); err != nil {
			return fmt.Errorf("unable to delete unit: %w", err)
		}
		return nil
	}
}
