package escrow

import (
	"errors"
	"fmt"

	"github.com/alphabill-org/alphabill-escrow/state"
	"github.com/alphabill-org/alphabill-escrow/txsystem"
	"github.com/alphabill-org/alphabill-escrow/types"
)

func (m *Module) validateClaimPaymentTx(tx *types.TransactionOrder, attr *ClaimPaymentAttributes, exeCtx txsystem.ExecutionContext) error {
	payment, err := m.payment(tx.UnitID())
	if err != nil {
		return err
	}
	if !tx.Sender.Eq(payment.Beneficiary) {
		return fmt.Errorf("%w: only the beneficiary may claim", ErrUnauthorized)
	}
	if payment.Claimed {
		return ErrAlreadyClaimed
	}
	if payment.IsExpired(exeCtx.CurrentRound()) {
		return fmt.Errorf("%w: expired at round %d", ErrExpired, payment.Expiration)
	}
	if !attr.Condition.Eq(payment.Condition) {
		return fmt.Errorf("%w: stated condition does not match the payment", ErrUnauthorized)
	}
	if attr.Asset != nil && !attr.Asset.Eq(payment.Asset) {
		return fmt.Errorf("%w: stated asset does not match the payment", ErrInvalidAsset)
	}
	if !m.conditions.evaluate(payment.Condition) {
		return ErrConditionsNotMet
	}
	if payment.ConfirmationRequired && !m.isConfirmed(tx.UnitID(), payment) {
		return fmt.Errorf("%w: confirmation required", ErrConditionsNotMet)
	}
	return nil
}

/*
executeClaimPaymentTx marks the payment claimed and releases the value from
custody. The claim flag is set before the transfer; if the transfer fails the
surrounding savepoint reverts the flag, so a payment is never both claimed
and unfunded.
*/
func (m *Module) executeClaimPaymentTx(tx *types.TransactionOrder, attr *ClaimPaymentAttributes, exeCtx txsystem.ExecutionContext) (*types.ServerMetadata, error) {
	payment, err := m.payment(tx.UnitID())
	if err != nil {
		return nil, err
	}
	setClaimed := func(data state.UnitData) (state.UnitData, error) {
		p, ok := data.(*PaymentData)
		if !ok {
			return nil, fmt.Errorf("unit %s does not contain payment data", tx.UnitID())
		}
		p.Claimed = true
		return p, nil
	}
	if err := m.state.Apply(state.UpdateUnitData(tx.UnitID(), setClaimed)); err != nil {
		return nil, fmt.Errorf("marking payment claimed: %w", err)
	}
	if err := m.assets.moveValue(payment.Asset, payment.Amount, m.custodian, payment.Beneficiary); err != nil {
		return nil, fmt.Errorf("releasing escrowed value: %w", err)
	}
	return &types.ServerMetadata{
		TargetUnits:      []types.UnitID{tx.UnitID()},
		SuccessIndicator: types.TxStatusSuccessful,
	}, nil
}

// payment loads the payment record behind the given unit id. A missing unit
// or an id of some other unit type is reported as ErrNotFound.
func (m *Module) payment(id types.UnitID) (*PaymentData, error) {
	if !id.HasType(PaymentUnitType) {
		return nil, fmt.Errorf("%w: %s is not a payment id", ErrNotFound, id)
	}
	unit, err := m.state.GetUnit(id, false)
	if err != nil {
		if errors.Is(err, state.ErrUnitNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	data, ok := unit.Data().(*PaymentData)
	if !ok {
		return nil, fmt.Errorf("unit %s does not contain payment data", id)
	}
	return data, nil
}

// isConfirmed reports whether any authorized party has confirmed the
// payment.
func (m *Module) isConfirmed(paymentID types.UnitID, payment *PaymentData) bool {
	confirmers := []types.AccountID{payment.Initiator}
	if len(payment.EscrowAgent) != 0 {
		confirmers = append(confirmers, payment.EscrowAgent)
	}
	for _, confirmer := range confirmers {
		unit, err := m.state.GetUnit(ConfirmationID(paymentID, confirmer), false)
		if err != nil {
			continue
		}
		if data, ok := unit.Data().(*ConfirmationData); ok && data.Confirmed {
			return true
		}
	}
	return false
}
