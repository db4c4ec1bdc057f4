package escrow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alphabill-org/alphabill-escrow/escrow/testutils"
	"github.com/alphabill-org/alphabill-escrow/state"
	"github.com/alphabill-org/alphabill-escrow/txsystem"
	"github.com/alphabill-org/alphabill-escrow/types"
)

var errAny = errors.New("collaborator failure")

var (
	admin = types.AccountID{0xAD, 0x01}
	alice = types.AccountID{0xA1, 0x1C, 0xE0}
	bob   = types.AccountID{0xB0, 0xB0}
	carol = types.AccountID{0xCA, 0x01}
	agent = types.AccountID{0xA6, 0xE7}
)

type testEnv struct {
	txs      *txsystem.GenericTxSystem
	module   *Module
	state    *state.State
	ledger   *testutils.FakeLedger
	tokens   *testutils.FakeTokenClient
	verifier *testutils.StaticVerifier
	caller   *testutils.StaticCaller
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	env := &testEnv{
		state:    state.NewEmptyState(),
		ledger:   testutils.NewFakeLedger().Credit(alice, 10_000).Credit(bob, 10_000),
		tokens:   testutils.NewFakeTokenClient(),
		verifier: &testutils.StaticVerifier{Result: true},
		caller:   &testutils.StaticCaller{Results: map[string]bool{}},
	}
	options := []Option{
		WithState(env.state),
		WithAdministrator(admin),
		WithNativeLedger(env.ledger),
		WithTokenClient(env.tokens),
		WithCapabilityVerifier(env.verifier),
		WithContractCaller(env.caller),
	}
	txs, module, err := NewTxSystem(testutils.NewObservability(), append(options, opts...)...)
	require.NoError(t, err)
	env.txs = txs
	env.module = module
	env.txs.BeginRound(1)
	return env
}

func (env *testEnv) execTx(t *testing.T, sender types.AccountID, payloadType string, unitID types.UnitID, attr any) (*types.ServerMetadata, error) {
	t.Helper()
	payload := &types.Payload{
		SystemID: DefaultSystemID,
		Type:     payloadType,
		UnitID:   unitID,
	}
	require.NoError(t, payload.SetAttributes(attr))
	return env.txs.Execute(&types.TransactionOrder{Payload: payload, Sender: sender})
}

// createPayment creates a payment through the tx system and returns its id.
func (env *testEnv) createPayment(t *testing.T, sender types.AccountID, attr *CreatePaymentAttributes) types.UnitID {
	t.Helper()
	sm, err := env.execTx(t, sender, PayloadTypeCreatePayment, nil, attr)
	require.NoError(t, err)
	require.Equal(t, types.TxStatusSuccessful, sm.SuccessIndicator)
	var result CreatePaymentResult
	require.NoError(t, sm.UnmarshalDetails(&result))
	require.NotEmpty(t, result.PaymentID)
	return result.PaymentID
}

func defaultCreateAttr() *CreatePaymentAttributes {
	return &CreatePaymentAttributes{
		Beneficiary: bob,
		Amount:      100,
		Asset:       NativeAsset(),
		Condition:   TypedCondition(types.Bytes{0x01}),
		Expiration:  500,
	}
}

func TestNewModule(t *testing.T) {
	t.Run("administrator required on empty state", func(t *testing.T) {
		_, err := NewModule(testutils.NewObservability().Logger(), &Options{
			state:        state.NewEmptyState(),
			custodian:    DefaultCustodian(),
			nativeLedger: testutils.NewFakeLedger(),
		})
		require.ErrorContains(t, err, "administrator must be assigned")
	})

	t.Run("native ledger required", func(t *testing.T) {
		_, err := NewModule(testutils.NewObservability().Logger(), &Options{
			state:         state.NewEmptyState(),
			custodian:     DefaultCustodian(),
			administrator: admin,
		})
		require.ErrorContains(t, err, "native ledger is nil")
	})

	t.Run("existing administrator is kept", func(t *testing.T) {
		env := newTestEnv(t)
		owner, err := env.module.Administrator()
		require.NoError(t, err)
		require.True(t, owner.Eq(admin))

		// a second module over the same state must not reassign
		_, err = NewModule(testutils.NewObservability().Logger(), &Options{
			state:         env.state,
			custodian:     DefaultCustodian(),
			administrator: carol,
			nativeLedger:  env.ledger,
		})
		require.NoError(t, err)
		owner, err = env.module.Administrator()
		require.NoError(t, err)
		require.True(t, owner.Eq(admin))
	})
}
