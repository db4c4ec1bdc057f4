package escrow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransferAdmin(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.execTx(t, admin, PayloadTypeTransferAdmin, AdminID(), &TransferAdminAttributes{NewAdmin: carol})
		require.NoError(t, err)

		owner, err := env.module.Administrator()
		require.NoError(t, err)
		require.True(t, owner.Eq(carol))

		// the previous administrator lost its rights
		_, err = env.execTx(t, admin, PayloadTypeTransferAdmin, AdminID(), &TransferAdminAttributes{NewAdmin: admin})
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("only the administrator may transfer", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.execTx(t, alice, PayloadTypeTransferAdmin, AdminID(), &TransferAdminAttributes{NewAdmin: alice})
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("invalid new administrator", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.execTx(t, admin, PayloadTypeTransferAdmin, AdminID(), &TransferAdminAttributes{})
		require.ErrorIs(t, err, ErrInvalidPrincipal)
	})
}

func TestRegisterAgent(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		env := newTestEnv(t)
		require.False(t, env.module.IsEscrowAgent(agent))

		_, err := env.execTx(t, admin, PayloadTypeRegisterAgent, AgentID(agent), &RegisterAgentAttributes{Agent: agent})
		require.NoError(t, err)
		require.True(t, env.module.IsEscrowAgent(agent))

		// registered agents can be named on payments
		attr := defaultCreateAttr()
		attr.EscrowAgent = agent
		env.createPayment(t, alice, attr)
	})

	t.Run("idempotent", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.execTx(t, admin, PayloadTypeRegisterAgent, AgentID(agent), &RegisterAgentAttributes{Agent: agent})
		require.NoError(t, err)
		_, err = env.execTx(t, admin, PayloadTypeRegisterAgent, AgentID(agent), &RegisterAgentAttributes{Agent: agent})
		require.NoError(t, err)
		require.True(t, env.module.IsEscrowAgent(agent))
	})

	t.Run("only the administrator may register", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.execTx(t, alice, PayloadTypeRegisterAgent, AgentID(agent), &RegisterAgentAttributes{Agent: agent})
		require.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestConfirmPayment(t *testing.T) {
	t.Run("initiator may confirm", func(t *testing.T) {
		env := newTestEnv(t)
		attr := defaultCreateAttr()
		attr.ConfirmationRequired = true
		paymentID := env.createPayment(t, alice, attr)

		confirmed, err := env.module.GetConfirmationStatus(paymentID, alice)
		require.NoError(t, err)
		require.False(t, confirmed)

		_, err = env.execTx(t, alice, PayloadTypeConfirmPayment, paymentID, &ConfirmPaymentAttributes{})
		require.NoError(t, err)

		confirmed, err = env.module.GetConfirmationStatus(paymentID, alice)
		require.NoError(t, err)
		require.True(t, confirmed)
	})

	t.Run("named agent may confirm", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.execTx(t, admin, PayloadTypeRegisterAgent, AgentID(agent), &RegisterAgentAttributes{Agent: agent})
		require.NoError(t, err)

		attr := defaultCreateAttr()
		attr.ConfirmationRequired = true
		attr.EscrowAgent = agent
		paymentID := env.createPayment(t, alice, attr)

		_, err = env.execTx(t, agent, PayloadTypeConfirmPayment, paymentID, &ConfirmPaymentAttributes{})
		require.NoError(t, err)

		confirmed, err := env.module.GetConfirmationStatus(paymentID, agent)
		require.NoError(t, err)
		require.True(t, confirmed)

		// the agent's confirmation satisfies the claim gate
		_, err = env.execTx(t, bob, PayloadTypeClaimPayment, paymentID, claimAttrFor(attr))
		require.NoError(t, err)
	})

	t.Run("other parties may not confirm", func(t *testing.T) {
		env := newTestEnv(t)
		paymentID := env.createPayment(t, alice, defaultCreateAttr())

		_, err := env.execTx(t, carol, PayloadTypeConfirmPayment, paymentID, &ConfirmPaymentAttributes{})
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("confirming twice is a no-op", func(t *testing.T) {
		env := newTestEnv(t)
		paymentID := env.createPayment(t, alice, defaultCreateAttr())

		_, err := env.execTx(t, alice, PayloadTypeConfirmPayment, paymentID, &ConfirmPaymentAttributes{})
		require.NoError(t, err)
		_, err = env.execTx(t, alice, PayloadTypeConfirmPayment, paymentID, &ConfirmPaymentAttributes{})
		require.NoError(t, err)
	})

	t.Run("unknown payment", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.execTx(t, alice, PayloadTypeConfirmPayment, NewPaymentID(alice, 9), &ConfirmPaymentAttributes{})
		require.ErrorIs(t, err, ErrNotFound)
	})
}
