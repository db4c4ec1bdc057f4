package escrow

import (
	"crypto/sha256"

	"github.com/alphabill-org/alphabill-escrow/types"
	"github.com/alphabill-org/alphabill-escrow/util"
)

const (
	PaymentUnitType      byte = 0x01
	CounterUnitType      byte = 0x02
	HistoryUnitType      byte = 0x03
	ConfirmationUnitType byte = 0x04
	AdminUnitType        byte = 0x05
	AgentUnitType        byte = 0x06
)

// NewPaymentID returns the canonical identity of a payment: a digest of the
// initiator followed by the initiator scoped counter value. The raw counter
// alone is not unique across initiators, the composite id is.
func NewPaymentID(initiator types.AccountID, counter uint64) types.UnitID {
	digest := sha256.Sum256(initiator)
	unitPart := append(digest[:types.UnitIDLength-1-8], util.Uint64ToBytes(counter)...)
	return types.NewUnitID(unitPart, PaymentUnitType)
}

// CounterID is the id of the unit holding the payment counter of an account.
func CounterID(account types.AccountID) types.UnitID {
	digest := sha256.Sum256(account)
	return types.NewUnitID(digest[:], CounterUnitType)
}

// HistoryID is the id of the unit holding the transaction history of an
// account.
func HistoryID(account types.AccountID) types.UnitID {
	digest := sha256.Sum256(account)
	return types.NewUnitID(digest[:], HistoryUnitType)
}

// ConfirmationID is the id of the unit recording a confirmation of the given
// payment by the given account.
func ConfirmationID(paymentID types.UnitID, confirmer types.AccountID) types.UnitID {
	hasher := sha256.New()
	hasher.Write(paymentID)
	hasher.Write(confirmer)
	return types.NewUnitID(hasher.Sum(nil), ConfirmationUnitType)
}

// AdminID is the id of the singleton unit holding the administrator slot.
func AdminID() types.UnitID {
	return types.NewUnitID(nil, AdminUnitType)
}

// AgentID is the id of the registry unit of an escrow agent.
func AgentID(agent types.AccountID) types.UnitID {
	digest := sha256.Sum256(agent)
	return types.NewUnitID(digest[:], AgentUnitType)
}
