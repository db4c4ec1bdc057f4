package escrow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alphabill-org/alphabill-escrow/types"
)

func claimAttrFor(attr *CreatePaymentAttributes) *ClaimPaymentAttributes {
	return &ClaimPaymentAttributes{Condition: attr.Condition}
}

func TestClaimPayment(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		env := newTestEnv(t)
		attr := defaultCreateAttr()
		paymentID := env.createPayment(t, alice, attr)

		sm, err := env.execTx(t, bob, PayloadTypeClaimPayment, paymentID, claimAttrFor(attr))
		require.NoError(t, err)
		require.Equal(t, types.TxStatusSuccessful, sm.SuccessIndicator)

		payment, err := env.module.GetPayment(paymentID)
		require.NoError(t, err)
		require.True(t, payment.Claimed)
		require.EqualValues(t, 10_100, env.ledger.Balance(bob))
		require.EqualValues(t, 0, env.ledger.Balance(env.module.Custodian()))
	})

	t.Run("double claim rejected", func(t *testing.T) {
		env := newTestEnv(t)
		attr := defaultCreateAttr()
		paymentID := env.createPayment(t, alice, attr)

		_, err := env.execTx(t, bob, PayloadTypeClaimPayment, paymentID, claimAttrFor(attr))
		require.NoError(t, err)
		_, err = env.execTx(t, bob, PayloadTypeClaimPayment, paymentID, claimAttrFor(attr))
		require.ErrorIs(t, err, ErrAlreadyClaimed)
		// value was released exactly once
		require.EqualValues(t, 10_100, env.ledger.Balance(bob))
	})

	t.Run("only the beneficiary may claim", func(t *testing.T) {
		env := newTestEnv(t)
		attr := defaultCreateAttr()
		paymentID := env.createPayment(t, alice, attr)

		_, err := env.execTx(t, carol, PayloadTypeClaimPayment, paymentID, claimAttrFor(attr))
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("claimable until the expiration round, not after", func(t *testing.T) {
		env := newTestEnv(t)
		attr := defaultCreateAttr()
		id1 := env.createPayment(t, alice, attr)
		id2 := env.createPayment(t, alice, attr)

		env.txs.BeginRound(attr.Expiration)
		_, err := env.execTx(t, bob, PayloadTypeClaimPayment, id1, claimAttrFor(attr))
		require.NoError(t, err)

		env.txs.BeginRound(attr.Expiration + 1)
		_, err = env.execTx(t, bob, PayloadTypeClaimPayment, id2, claimAttrFor(attr))
		require.ErrorIs(t, err, ErrExpired)
	})

	t.Run("stated condition must match", func(t *testing.T) {
		env := newTestEnv(t)
		attr := defaultCreateAttr()
		paymentID := env.createPayment(t, alice, attr)

		claim := &ClaimPaymentAttributes{Condition: TypedCondition(types.Bytes{0xFF})}
		_, err := env.execTx(t, bob, PayloadTypeClaimPayment, paymentID, claim)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("stated asset must match when present", func(t *testing.T) {
		env := newTestEnv(t)
		attr := defaultCreateAttr()
		paymentID := env.createPayment(t, alice, attr)

		claim := claimAttrFor(attr)
		wrong := TokenAsset(types.AccountID{0x70})
		claim.Asset = &wrong
		_, err := env.execTx(t, bob, PayloadTypeClaimPayment, paymentID, claim)
		require.ErrorIs(t, err, ErrInvalidAsset)
	})

	t.Run("condition must evaluate to true", func(t *testing.T) {
		env := newTestEnv(t)
		attr := defaultCreateAttr()
		paymentID := env.createPayment(t, alice, attr)

		env.verifier.Result = false
		_, err := env.execTx(t, bob, PayloadTypeClaimPayment, paymentID, claimAttrFor(attr))
		require.ErrorIs(t, err, ErrConditionsNotMet)
	})

	t.Run("evaluation failure counts as false", func(t *testing.T) {
		env := newTestEnv(t)
		attr := defaultCreateAttr()
		attr.Condition = NamedCondition(types.AccountID{0xC0}, "is-released")
		paymentID := env.createPayment(t, alice, attr)

		env.caller.Err = errAny
		_, err := env.execTx(t, bob, PayloadTypeClaimPayment, paymentID, claimAttrFor(attr))
		require.ErrorIs(t, err, ErrConditionsNotMet)
	})

	t.Run("named condition from contract", func(t *testing.T) {
		env := newTestEnv(t)
		contract := types.AccountID{0xC0}
		attr := defaultCreateAttr()
		attr.Condition = NamedCondition(contract, "is-released")
		paymentID := env.createPayment(t, alice, attr)

		_, err := env.execTx(t, bob, PayloadTypeClaimPayment, paymentID, claimAttrFor(attr))
		require.ErrorIs(t, err, ErrConditionsNotMet)

		env.caller.Results[contract.String()+"/is-released"] = true
		_, err = env.execTx(t, bob, PayloadTypeClaimPayment, paymentID, claimAttrFor(attr))
		require.NoError(t, err)
	})

	t.Run("confirmation gates the claim", func(t *testing.T) {
		env := newTestEnv(t)
		attr := defaultCreateAttr()
		attr.ConfirmationRequired = true
		paymentID := env.createPayment(t, alice, attr)

		_, err := env.execTx(t, bob, PayloadTypeClaimPayment, paymentID, claimAttrFor(attr))
		require.ErrorIs(t, err, ErrConditionsNotMet)

		_, err = env.execTx(t, alice, PayloadTypeConfirmPayment, paymentID, &ConfirmPaymentAttributes{})
		require.NoError(t, err)

		_, err = env.execTx(t, bob, PayloadTypeClaimPayment, paymentID, claimAttrFor(attr))
		require.NoError(t, err)
	})

	t.Run("failed release reverts the claim flag", func(t *testing.T) {
		env := newTestEnv(t)
		attr := defaultCreateAttr()
		paymentID := env.createPayment(t, alice, attr)

		env.ledger.Err = errAny
		_, err := env.execTx(t, bob, PayloadTypeClaimPayment, paymentID, claimAttrFor(attr))
		require.Error(t, err)

		payment, err := env.module.GetPayment(paymentID)
		require.NoError(t, err)
		require.False(t, payment.Claimed)
	})

	t.Run("unknown payment", func(t *testing.T) {
		env := newTestEnv(t)
		attr := defaultCreateAttr()
		_, err := env.execTx(t, bob, PayloadTypeClaimPayment, NewPaymentID(alice, 7), claimAttrFor(attr))
		require.ErrorIs(t, err, ErrNotFound)
	})
}
