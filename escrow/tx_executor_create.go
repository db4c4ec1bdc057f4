package escrow

import (
	"errors"
	"fmt"

	"github.com/alphabill-org/alphabill-escrow/state"
	"github.com/alphabill-org/alphabill-escrow/txsystem"
	"github.com/alphabill-org/alphabill-escrow/types"
)

func (m *Module) validateCreatePaymentTx(tx *types.TransactionOrder, attr *CreatePaymentAttributes, exeCtx txsystem.ExecutionContext) error {
	return m.validateCreate(attr, exeCtx.CurrentRound())
}

func (m *Module) executeCreatePaymentTx(tx *types.TransactionOrder, attr *CreatePaymentAttributes, exeCtx txsystem.ExecutionContext) (*types.ServerMetadata, error) {
	paymentID, counter, err := m.applyCreate(tx.Sender, attr, exeCtx.CurrentRound())
	if err != nil {
		return nil, err
	}
	details, err := types.Cbor.Marshal(&CreatePaymentResult{PaymentID: paymentID, Counter: counter})
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &types.ServerMetadata{
		TargetUnits:       []types.UnitID{paymentID},
		SuccessIndicator:  types.TxStatusSuccessful,
		ProcessingDetails: details,
	}, nil
}

func (m *Module) validateCreate(attr *CreatePaymentAttributes, round uint64) error {
	if !attr.Beneficiary.IsValid() {
		return fmt.Errorf("%w: invalid beneficiary", ErrInvalidPrincipal)
	}
	if attr.Amount == 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	if attr.Expiration <= round {
		return fmt.Errorf("%w: expiration %d is not after current round %d", ErrExpired, attr.Expiration, round)
	}
	if len(attr.Metadata) > MaxMetadataLength {
		return fmt.Errorf("%w: metadata exceeds %d bytes", ErrInvalidMetadata, MaxMetadataLength)
	}
	if err := attr.Asset.IsValid(); err != nil {
		return err
	}
	if err := attr.Condition.IsValid(); err != nil {
		return fmt.Errorf("invalid condition: %w", err)
	}
	if len(attr.EscrowAgent) != 0 {
		if !attr.EscrowAgent.IsValid() {
			return fmt.Errorf("%w: invalid agent identifier", ErrInvalidEscrowAgent)
		}
		if !m.IsEscrowAgent(attr.EscrowAgent) {
			return fmt.Errorf("%w: agent %s is not registered", ErrInvalidEscrowAgent, attr.EscrowAgent)
		}
	}
	return nil
}

/*
applyCreate moves the payment amount into custody and records the payment.
The value is moved first so that a failed transfer leaves no trace in the
state; the state changes themselves are applied as one atomic batch.
*/
func (m *Module) applyCreate(initiator types.AccountID, attr *CreatePaymentAttributes, round uint64) (types.UnitID, uint64, error) {
	counter, err := m.nextCounter(initiator)
	if err != nil {
		return nil, 0, err
	}
	paymentID := NewPaymentID(initiator, counter)

	if err := m.assets.moveValue(attr.Asset, attr.Amount, initiator, m.custodian); err != nil {
		return nil, 0, fmt.Errorf("escrow transfer: %w", err)
	}

	actions := []state.Action{
		m.counterAction(initiator, counter),
		state.AddUnit(paymentID, &PaymentData{
			Initiator:            initiator,
			Beneficiary:          attr.Beneficiary,
			Amount:               attr.Amount,
			Asset:                attr.Asset,
			Condition:            attr.Condition,
			Expiration:           attr.Expiration,
			EscrowAgent:          attr.EscrowAgent,
			ConfirmationRequired: attr.ConfirmationRequired,
			Metadata:             attr.Metadata,
		}),
		m.historyAction(initiator, paymentID),
	}
	if !attr.Beneficiary.Eq(initiator) {
		actions = append(actions, m.historyAction(attr.Beneficiary, paymentID))
	}
	if err := m.state.Apply(actions...); err != nil {
		return nil, 0, fmt.Errorf("recording payment: %w", err)
	}
	return paymentID, counter, nil
}

// nextCounter returns the next payment counter value of the account without
// modifying the state.
func (m *Module) nextCounter(account types.AccountID) (uint64, error) {
	unit, err := m.state.GetUnit(CounterID(account), false)
	if err != nil {
		if errors.Is(err, state.ErrUnitNotFound) {
			return 1, nil
		}
		return 0, err
	}
	data, ok := unit.Data().(*CounterData)
	if !ok {
		return 0, errors.New("invalid counter unit data")
	}
	return data.Value + 1, nil
}

func (m *Module) counterAction(account types.AccountID, value uint64) state.Action {
	id := CounterID(account)
	if _, err := m.state.GetUnit(id, false); err != nil {
		return state.AddUnit(id, &CounterData{Value: value})
	}
	return state.UpdateUnitData(id, func(data state.UnitData) (state.UnitData, error) {
		counter, ok := data.(*CounterData)
		if !ok {
			return nil, fmt.Errorf("unit %s does not contain counter data", id)
		}
		counter.Value = value
		return counter, nil
	})
}

func (m *Module) historyAction(account types.AccountID, paymentID types.UnitID) state.Action {
	id := HistoryID(account)
	if _, err := m.state.GetUnit(id, false); err != nil {
		return state.AddUnit(id, &HistoryData{Payments: []types.UnitID{paymentID}})
	}
	return state.UpdateUnitData(id, func(data state.UnitData) (state.UnitData, error) {
		history, ok := data.(*HistoryData)
		if !ok {
			return nil, fmt.Errorf("unit %s does not contain history data", id)
		}
		history.Append(paymentID)
		return history, nil
	})
}
