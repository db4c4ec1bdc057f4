package escrow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alphabill-org/alphabill-escrow/types"
)

func TestCreatePayment(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		env := newTestEnv(t)
		paymentID := env.createPayment(t, alice, defaultCreateAttr())
		require.True(t, paymentID.HasType(PaymentUnitType))
		require.True(t, paymentID.Eq(NewPaymentID(alice, 1)))

		payment, err := env.module.GetPayment(paymentID)
		require.NoError(t, err)
		require.True(t, payment.Initiator.Eq(alice))
		require.True(t, payment.Beneficiary.Eq(bob))
		require.EqualValues(t, 100, payment.Amount)
		require.False(t, payment.Claimed)

		require.EqualValues(t, 9_900, env.ledger.Balance(alice))
		require.EqualValues(t, 100, env.ledger.Balance(env.module.Custodian()))
	})

	t.Run("counter increments per initiator", func(t *testing.T) {
		env := newTestEnv(t)
		id1 := env.createPayment(t, alice, defaultCreateAttr())
		id2 := env.createPayment(t, alice, defaultCreateAttr())
		require.True(t, id1.Eq(NewPaymentID(alice, 1)))
		require.True(t, id2.Eq(NewPaymentID(alice, 2)))
		require.False(t, id1.Eq(id2))

		// another initiator starts its own counter, ids do not collide
		attr := defaultCreateAttr()
		attr.Beneficiary = carol
		id3 := env.createPayment(t, bob, attr)
		require.True(t, id3.Eq(NewPaymentID(bob, 1)))
	})

	t.Run("both parties get a history entry", func(t *testing.T) {
		env := newTestEnv(t)
		paymentID := env.createPayment(t, alice, defaultCreateAttr())

		history, err := env.module.GetUserTransactions(alice)
		require.NoError(t, err)
		require.Len(t, history, 1)
		require.True(t, history[0].Eq(paymentID))

		history, err = env.module.GetUserTransactions(bob)
		require.NoError(t, err)
		require.Len(t, history, 1)
		require.True(t, history[0].Eq(paymentID))
	})

	t.Run("self payment recorded once", func(t *testing.T) {
		env := newTestEnv(t)
		attr := defaultCreateAttr()
		attr.Beneficiary = alice
		paymentID := env.createPayment(t, alice, attr)

		history, err := env.module.GetUserTransactions(alice)
		require.NoError(t, err)
		require.Len(t, history, 1)
		require.True(t, history[0].Eq(paymentID))
	})

	t.Run("token payment", func(t *testing.T) {
		env := newTestEnv(t)
		token := types.AccountID{0x70, 0x0C}
		env.tokens.Ledger(token).Credit(alice, 500)

		attr := defaultCreateAttr()
		attr.Asset = TokenAsset(token)
		env.createPayment(t, alice, attr)

		require.EqualValues(t, 400, env.tokens.Ledger(token).Balance(alice))
		require.EqualValues(t, 100, env.tokens.Ledger(token).Balance(env.module.Custodian()))
	})

	t.Run("zero amount rejected", func(t *testing.T) {
		env := newTestEnv(t)
		attr := defaultCreateAttr()
		attr.Amount = 0
		_, err := env.execTx(t, alice, PayloadTypeCreatePayment, nil, attr)
		require.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("expiration must be in the future", func(t *testing.T) {
		env := newTestEnv(t)
		env.txs.BeginRound(500)
		_, err := env.execTx(t, alice, PayloadTypeCreatePayment, nil, defaultCreateAttr())
		require.ErrorIs(t, err, ErrExpired)
	})

	t.Run("oversized metadata rejected", func(t *testing.T) {
		env := newTestEnv(t)
		attr := defaultCreateAttr()
		attr.Metadata = string(make([]byte, MaxMetadataLength+1))
		_, err := env.execTx(t, alice, PayloadTypeCreatePayment, nil, attr)
		require.ErrorIs(t, err, ErrInvalidMetadata)
	})

	t.Run("invalid beneficiary rejected", func(t *testing.T) {
		env := newTestEnv(t)
		attr := defaultCreateAttr()
		attr.Beneficiary = nil
		_, err := env.execTx(t, alice, PayloadTypeCreatePayment, nil, attr)
		require.ErrorIs(t, err, ErrInvalidPrincipal)
	})

	t.Run("unknown asset tag rejected", func(t *testing.T) {
		env := newTestEnv(t)
		attr := defaultCreateAttr()
		attr.Asset = AssetRef{Tag: 99}
		_, err := env.execTx(t, alice, PayloadTypeCreatePayment, nil, attr)
		require.ErrorIs(t, err, ErrInvalidAsset)
	})

	t.Run("unregistered agent rejected", func(t *testing.T) {
		env := newTestEnv(t)
		attr := defaultCreateAttr()
		attr.EscrowAgent = agent
		_, err := env.execTx(t, alice, PayloadTypeCreatePayment, nil, attr)
		require.ErrorIs(t, err, ErrInvalidEscrowAgent)
	})

	t.Run("insufficient balance leaves no state", func(t *testing.T) {
		env := newTestEnv(t)
		attr := defaultCreateAttr()
		attr.Amount = 1_000_000
		_, err := env.execTx(t, alice, PayloadTypeCreatePayment, nil, attr)
		require.ErrorIs(t, err, ErrInsufficientBalance)

		// no payment, no counter, no history
		_, err = env.module.GetPayment(NewPaymentID(alice, 1))
		require.ErrorIs(t, err, ErrNotFound)
		_, err = env.module.GetUserTransactions(alice)
		require.ErrorIs(t, err, ErrNotFound)
		require.EqualValues(t, 10_000, env.ledger.Balance(alice))

		// the failed attempt did not consume a counter value
		paymentID := env.createPayment(t, alice, defaultCreateAttr())
		require.True(t, paymentID.Eq(NewPaymentID(alice, 1)))
	})
}
