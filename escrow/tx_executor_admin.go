package escrow

import (
	"errors"
	"fmt"

	"github.com/alphabill-org/alphabill-escrow/state"
	"github.com/alphabill-org/alphabill-escrow/txsystem"
	"github.com/alphabill-org/alphabill-escrow/types"
)

func (m *Module) validateTransferAdminTx(tx *types.TransactionOrder, attr *TransferAdminAttributes, exeCtx txsystem.ExecutionContext) error {
	if err := m.requireAdministrator(tx.Sender); err != nil {
		return err
	}
	if !attr.NewAdmin.IsValid() {
		return fmt.Errorf("%w: invalid administrator identifier", ErrInvalidPrincipal)
	}
	return nil
}

func (m *Module) executeTransferAdminTx(tx *types.TransactionOrder, attr *TransferAdminAttributes, exeCtx txsystem.ExecutionContext) (*types.ServerMetadata, error) {
	setOwner := func(data state.UnitData) (state.UnitData, error) {
		admin, ok := data.(*AdminData)
		if !ok {
			return nil, errors.New("administrator unit contains unexpected data")
		}
		admin.Owner = attr.NewAdmin
		return admin, nil
	}
	if err := m.state.Apply(state.UpdateUnitData(AdminID(), setOwner)); err != nil {
		return nil, fmt.Errorf("updating administrator: %w", err)
	}
	return &types.ServerMetadata{
		TargetUnits:      []types.UnitID{AdminID()},
		SuccessIndicator: types.TxStatusSuccessful,
	}, nil
}

func (m *Module) validateRegisterAgentTx(tx *types.TransactionOrder, attr *RegisterAgentAttributes, exeCtx txsystem.ExecutionContext) error {
	if err := m.requireAdministrator(tx.Sender); err != nil {
		return err
	}
	if !attr.Agent.IsValid() {
		return fmt.Errorf("%w: invalid agent identifier", ErrInvalidPrincipal)
	}
	return nil
}

// executeRegisterAgentTx adds the agent to the registry. Registering an
// already registered agent succeeds without changing its record.
func (m *Module) executeRegisterAgentTx(tx *types.TransactionOrder, attr *RegisterAgentAttributes, exeCtx txsystem.ExecutionContext) (*types.ServerMetadata, error) {
	agentID := AgentID(attr.Agent)
	if _, err := m.state.GetUnit(agentID, false); err == nil {
		return &types.ServerMetadata{
			TargetUnits:      []types.UnitID{agentID},
			SuccessIndicator: types.TxStatusSuccessful,
		}, nil
	} else if !errors.Is(err, state.ErrUnitNotFound) {
		return nil, err
	}
	if err := m.state.Apply(state.AddUnit(agentID, &AgentData{Since: exeCtx.CurrentRound()})); err != nil {
		return nil, fmt.Errorf("registering agent: %w", err)
	}
	return &types.ServerMetadata{
		TargetUnits:      []types.UnitID{agentID},
		SuccessIndicator: types.TxStatusSuccessful,
	}, nil
}

func (m *Module) requireAdministrator(sender types.AccountID) error {
	admin, err := m.Administrator()
	if err != nil {
		return err
	}
	if !sender.Eq(admin) {
		return fmt.Errorf("%w: administrator rights required", ErrUnauthorized)
	}
	return nil
}
