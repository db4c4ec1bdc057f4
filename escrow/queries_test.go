package escrow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alphabill-org/alphabill-escrow/types"
)

func TestTransactionHistory(t *testing.T) {
	t.Run("keeps the most recent entries", func(t *testing.T) {
		env := newTestEnv(t)
		attr := defaultCreateAttr()
		attr.Amount = 1
		for i := 0; i < MaxHistorySize+5; i++ {
			env.createPayment(t, alice, attr)
		}

		history, err := env.module.GetUserTransactions(alice)
		require.NoError(t, err)
		require.Len(t, history, MaxHistorySize)
		// the five oldest entries were dropped
		require.True(t, history[0].Eq(NewPaymentID(alice, 6)))
		require.True(t, history[len(history)-1].Eq(NewPaymentID(alice, uint64(MaxHistorySize+5))))
	})

	t.Run("no history", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.module.GetUserTransactions(carol)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetPayment(t *testing.T) {
	env := newTestEnv(t)
	attr := defaultCreateAttr()
	attr.Metadata = "invoice 42"
	paymentID := env.createPayment(t, alice, attr)

	t.Run("ok", func(t *testing.T) {
		payment, err := env.module.GetPayment(paymentID)
		require.NoError(t, err)
		require.Equal(t, "invoice 42", payment.Metadata)
		require.True(t, payment.Condition.Eq(attr.Condition))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := env.module.GetPayment(NewPaymentID(carol, 1))
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("id of some other unit type", func(t *testing.T) {
		_, err := env.module.GetPayment(HistoryID(alice))
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestConfirmationStatus(t *testing.T) {
	env := newTestEnv(t)
	paymentID := env.createPayment(t, alice, defaultCreateAttr())

	t.Run("absent confirmation reads as false", func(t *testing.T) {
		confirmed, err := env.module.GetConfirmationStatus(paymentID, alice)
		require.NoError(t, err)
		require.False(t, confirmed)
	})

	t.Run("unknown payment", func(t *testing.T) {
		_, err := env.module.GetConfirmationStatus(NewPaymentID(carol, 1), alice)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPaymentIdentity(t *testing.T) {
	// the same counter value yields distinct ids for distinct initiators
	for counter := uint64(1); counter <= 3; counter++ {
		idAlice := NewPaymentID(alice, counter)
		idBob := NewPaymentID(bob, counter)
		require.False(t, idAlice.Eq(idBob), "counter %d", counter)
		require.Len(t, []byte(idAlice), types.UnitIDLength)
		require.True(t, idAlice.HasType(PaymentUnitType))
	}
}
