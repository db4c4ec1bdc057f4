package state

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alphabill-org/alphabill-escrow/types"
)

func testDataConstructor(id types.UnitID) (UnitData, error) {
	if !id.HasType(0x01) {
		return nil, fmt.Errorf("unknown unit type in %s", id)
	}
	return &testData{}, nil
}

func TestSerialize(t *testing.T) {
	s := NewEmptyState()
	require.NoError(t, s.Apply(
		AddUnit(unitID(1), &testData{Value: 1}),
		AddUnit(unitID(2), &testData{Value: 2}),
		AddUnit(unitID(3), &testData{Value: 3}),
	))
	s.Commit()

	t.Run("round trip", func(t *testing.T) {
		buf := &bytes.Buffer{}
		require.NoError(t, s.Serialize(buf, 42, true))

		recovered, round, err := NewRecoveredState(buf, testDataConstructor)
		require.NoError(t, err)
		require.EqualValues(t, 42, round)
		require.True(t, recovered.IsCommitted())

		count, value := recovered.Summary()
		require.EqualValues(t, 3, count)
		require.EqualValues(t, 6, value)

		unit, err := recovered.GetUnit(unitID(2), true)
		require.NoError(t, err)
		require.EqualValues(t, 2, unit.Data().(*testData).Value)
	})

	t.Run("empty state round trip", func(t *testing.T) {
		buf := &bytes.Buffer{}
		require.NoError(t, NewEmptyState().Serialize(buf, 0, true))
		recovered, round, err := NewRecoveredState(buf, testDataConstructor)
		require.NoError(t, err)
		require.EqualValues(t, 0, round)
		count, _ := recovered.Summary()
		require.EqualValues(t, 0, count)
	})

	t.Run("corrupted stream is rejected", func(t *testing.T) {
		buf := &bytes.Buffer{}
		require.NoError(t, s.Serialize(buf, 42, true))
		data := buf.Bytes()
		// flip a bit in the middle of the stream
		data[len(data)/2] ^= 0x01
		_, _, err := NewRecoveredState(bytes.NewReader(data), testDataConstructor)
		require.Error(t, err)
	})

	t.Run("unknown unit type fails recovery", func(t *testing.T) {
		other := NewEmptyState()
		require.NoError(t, other.Apply(AddUnit(types.NewUnitID([]byte{1}, 0xFF), &testData{Value: 1})))
		other.Commit()

		buf := &bytes.Buffer{}
		require.NoError(t, other.Serialize(buf, 1, true))
		_, _, err := NewRecoveredState(buf, testDataConstructor)
		require.ErrorContains(t, err, "unable to construct unit data")
	})

	t.Run("nil arguments", func(t *testing.T) {
		_, _, err := NewRecoveredState(nil, testDataConstructor)
		require.ErrorContains(t, err, "reader is nil")
		_, _, err = NewRecoveredState(&bytes.Buffer{}, nil)
		require.ErrorContains(t, err, "unit data constructor is nil")
	})
}
