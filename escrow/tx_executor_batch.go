package escrow

import (
	"fmt"

	"github.com/alphabill-org/alphabill-escrow/logger"
	"github.com/alphabill-org/alphabill-escrow/txsystem"
	"github.com/alphabill-org/alphabill-escrow/types"
)

// validateCreatePaymentBatchTx checks only the shape of the batch. Per item
// validity is decided during execution, where a bad item is skipped instead
// of failing the batch.
func (m *Module) validateCreatePaymentBatchTx(tx *types.TransactionOrder, attr *CreatePaymentBatchAttributes, exeCtx txsystem.ExecutionContext) error {
	if len(attr.Recipients) != len(attr.Amounts) {
		return fmt.Errorf("recipient and amount counts differ: %d vs %d", len(attr.Recipients), len(attr.Amounts))
	}
	if len(attr.Recipients) > MaxBatchSize {
		return fmt.Errorf("batch size %d exceeds the maximum of %d", len(attr.Recipients), MaxBatchSize)
	}
	if err := attr.Condition.IsValid(); err != nil {
		return fmt.Errorf("invalid condition: %w", err)
	}
	return nil
}

/*
executeCreatePaymentBatchTx creates one native payment per recipient, all
sharing the batch condition and expiring BatchExpirationDelta rounds from
now. Each item is created atomically on its own; a failing item is logged
and skipped, the rest of the batch proceeds.
*/
func (m *Module) executeCreatePaymentBatchTx(tx *types.TransactionOrder, attr *CreatePaymentBatchAttributes, exeCtx txsystem.ExecutionContext) (*types.ServerMetadata, error) {
	round := exeCtx.CurrentRound()
	created := make([]types.UnitID, 0, len(attr.Recipients))
	for i, recipient := range attr.Recipients {
		item := &CreatePaymentAttributes{
			Beneficiary: recipient,
			Amount:      attr.Amounts[i],
			Asset:       NativeAsset(),
			Condition:   attr.Condition,
			Expiration:  round + BatchExpirationDelta,
		}
		if err := m.validateCreate(item, round); err != nil {
			m.log.Debug(fmt.Sprintf("skipping batch item %d", i), logger.Error(err))
			continue
		}
		paymentID, _, err := m.applyCreate(tx.Sender, item, round)
		if err != nil {
			m.log.Debug(fmt.Sprintf("skipping batch item %d", i), logger.Error(err))
			continue
		}
		created = append(created, paymentID)
	}
	details, err := types.Cbor.Marshal(&CreatePaymentBatchResult{PaymentIDs: created})
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &types.ServerMetadata{
		TargetUnits:       created,
		SuccessIndicator:  types.TxStatusSuccessful,
		ProcessingDetails: details,
	}, nil
}
