package escrow

import (
	"errors"
	"fmt"

	"github.com/alphabill-org/alphabill-escrow/state"
	"github.com/alphabill-org/alphabill-escrow/txsystem"
	"github.com/alphabill-org/alphabill-escrow/types"
)

func (m *Module) validateConfirmPaymentTx(tx *types.TransactionOrder, attr *ConfirmPaymentAttributes, exeCtx txsystem.ExecutionContext) error {
	payment, err := m.payment(tx.UnitID())
	if err != nil {
		return err
	}
	if !tx.Sender.Eq(payment.Initiator) && !tx.Sender.Eq(payment.EscrowAgent) {
		return fmt.Errorf("%w: only the initiator or the escrow agent may confirm", ErrUnauthorized)
	}
	return nil
}

// executeConfirmPaymentTx records the sender's approval of the payment.
// Confirming twice is a no-op, a confirmation cannot be withdrawn.
func (m *Module) executeConfirmPaymentTx(tx *types.TransactionOrder, attr *ConfirmPaymentAttributes, exeCtx txsystem.ExecutionContext) (*types.ServerMetadata, error) {
	confirmationID := ConfirmationID(tx.UnitID(), tx.Sender)
	_, err := m.state.GetUnit(confirmationID, false)
	if err == nil {
		return &types.ServerMetadata{
			TargetUnits:      []types.UnitID{tx.UnitID()},
			SuccessIndicator: types.TxStatusSuccessful,
		}, nil
	}
	if !errors.Is(err, state.ErrUnitNotFound) {
		return nil, err
	}
	if err := m.state.Apply(state.AddUnit(confirmationID, &ConfirmationData{Confirmed: true})); err != nil {
		return nil, fmt.Errorf("recording confirmation: %w", err)
	}
	return &types.ServerMetadata{
		TargetUnits:      []types.UnitID{tx.UnitID(), confirmationID},
		SuccessIndicator: types.TxStatusSuccessful,
	}, nil
}
