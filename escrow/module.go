package escrow

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/alphabill-org/alphabill-escrow/state"
	"github.com/alphabill-org/alphabill-escrow/txsystem"
	"github.com/alphabill-org/alphabill-escrow/types"
)

var _ txsystem.Module = (*Module)(nil)

// Module implements the conditional payment transaction handlers.
type Module struct {
	state      *state.State
	custodian  types.AccountID
	assets     *assetTransfer
	conditions *conditionRunner
	log        *slog.Logger
}

func NewModule(log *slog.Logger, options *Options) (*Module, error) {
	if options == nil {
		return nil, errors.New("escrow options are missing")
	}
	if options.state == nil {
		return nil, errors.New("state is nil")
	}
	if options.nativeLedger == nil {
		return nil, errors.New("native ledger is nil")
	}
	if !options.custodian.IsValid() {
		return nil, errors.New("custodian account is invalid")
	}
	m := &Module{
		state:     options.state,
		custodian: options.custodian,
		assets: &assetTransfer{
			native: options.nativeLedger,
			tokens: options.tokenClient,
		},
		conditions: &conditionRunner{
			verifier: options.verifier,
			caller:   options.caller,
			log:      log,
		},
		log: log,
	}
	if err := m.initAdministrator(options.administrator); err != nil {
		return nil, fmt.Errorf("initializing administrator: %w", err)
	}
	return m, nil
}

// initAdministrator creates the administrator unit on an empty state. An
// existing administrator is never overwritten, transferAdmin is the only way
// to change it.
func (m *Module) initAdministrator(admin types.AccountID) error {
	if _, err := m.state.GetUnit(AdminID(), false); err == nil {
		return nil
	} else if !errors.Is(err, state.ErrUnitNotFound) {
		return err
	}
	if !admin.IsValid() {
		return errors.New("administrator must be assigned on an empty state")
	}
	if err := m.state.Apply(state.AddUnit(AdminID(), &AdminData{Owner: admin})); err != nil {
		return err
	}
	m.state.Commit()
	return nil
}

func (m *Module) TxHandlers() map[string]txsystem.TxExecutor {
	return map[string]txsystem.TxExecutor{
		PayloadTypeCreatePayment:      txsystem.NewTxHandler[CreatePaymentAttributes](m.validateCreatePaymentTx, m.executeCreatePaymentTx),
		PayloadTypeClaimPayment:       txsystem.NewTxHandler[ClaimPaymentAttributes](m.validateClaimPaymentTx, m.executeClaimPaymentTx),
		PayloadTypeConfirmPayment:     txsystem.NewTxHandler[ConfirmPaymentAttributes](m.validateConfirmPaymentTx, m.executeConfirmPaymentTx),
		PayloadTypeCreatePaymentBatch: txsystem.NewTxHandler[CreatePaymentBatchAttributes](m.validateCreatePaymentBatchTx, m.executeCreatePaymentBatchTx),
		PayloadTypeTransferAdmin:      txsystem.NewTxHandler[TransferAdminAttributes](m.validateTransferAdminTx, m.executeTransferAdminTx),
		PayloadTypeRegisterAgent:      txsystem.NewTxHandler[RegisterAgentAttributes](m.validateRegisterAgentTx, m.executeRegisterAgentTx),
	}
}
