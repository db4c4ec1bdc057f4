package escrow

import (
	"errors"
	"fmt"

	"github.com/alphabill-org/alphabill-escrow/state"
	"github.com/alphabill-org/alphabill-escrow/types"
)

// GetPayment returns the current record of the payment.
func (m *Module) GetPayment(id types.UnitID) (*PaymentData, error) {
	return m.payment(id)
}

// GetUserTransactions returns the recorded payment ids of the account,
// oldest first. Only the most recent entries are kept, see MaxHistorySize.
func (m *Module) GetUserTransactions(account types.AccountID) ([]types.UnitID, error) {
	unit, err := m.state.GetUnit(HistoryID(account), false)
	if err != nil {
		if errors.Is(err, state.ErrUnitNotFound) {
			return nil, fmt.Errorf("%w: no transactions recorded for %s", ErrNotFound, account)
		}
		return nil, err
	}
	data, ok := unit.Data().(*HistoryData)
	if !ok {
		return nil, errors.New("history unit contains unexpected data")
	}
	return data.Payments, nil
}

// GetConfirmationStatus reports whether the account has confirmed the
// payment. An absent confirmation record means not confirmed.
func (m *Module) GetConfirmationStatus(paymentID types.UnitID, confirmer types.AccountID) (bool, error) {
	if _, err := m.payment(paymentID); err != nil {
		return false, err
	}
	unit, err := m.state.GetUnit(ConfirmationID(paymentID, confirmer), false)
	if err != nil {
		if errors.Is(err, state.ErrUnitNotFound) {
			return false, nil
		}
		return false, err
	}
	data, ok := unit.Data().(*ConfirmationData)
	if !ok {
		return false, errors.New("confirmation unit contains unexpected data")
	}
	return data.Confirmed, nil
}

// IsEscrowAgent reports whether the account is a registered escrow agent.
func (m *Module) IsEscrowAgent(account types.AccountID) bool {
	_, err := m.state.GetUnit(AgentID(account), false)
	return err == nil
}

// Administrator returns the current administrator account.
func (m *Module) Administrator() (types.AccountID, error) {
	unit, err := m.state.GetUnit(AdminID(), false)
	if err != nil {
		return nil, fmt.Errorf("reading administrator unit: %w", err)
	}
	data, ok := unit.Data().(*AdminData)
	if !ok {
		return nil, errors.New("administrator unit contains unexpected data")
	}
	return data.Owner, nil
}

// Custodian returns the account escrowed value is held on.
func (m *Module) Custodian() types.AccountID {
	return m.custodian
}
