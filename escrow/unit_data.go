package escrow

import (
	"fmt"
	"hash"

	"github.com/alphabill-org/alphabill-escrow/state"
	"github.com/alphabill-org/alphabill-escrow/types"
)

// MaxHistorySize is the number of payment ids kept in an account's history
// unit. When full, the oldest entry is dropped.
const MaxHistorySize = 50

type (
	// CounterData holds the number of payments an account has initiated. The
	// value is never reset, payment identities derived from it stay unique
	// for the lifetime of the account.
	CounterData struct {
		_     struct{} `cbor:",toarray"`
		Value uint64   `json:"value,string"`
	}

	// HistoryData is the bounded list of payment ids an account participated
	// in, oldest first.
	HistoryData struct {
		_        struct{}       `cbor:",toarray"`
		Payments []types.UnitID `json:"payments"`
	}

	// ConfirmationData records an approval of a payment by an authorized
	// party.
	ConfirmationData struct {
		_         struct{} `cbor:",toarray"`
		Confirmed bool     `json:"confirmed"`
	}

	// AdminData is the singleton administrator slot.
	AdminData struct {
		_     struct{}        `cbor:",toarray"`
		Owner types.AccountID `json:"owner"`
	}

	// AgentData marks an account as a registered escrow agent.
	AgentData struct {
		_     struct{} `cbor:",toarray"`
		Since uint64   `json:"since,string"`
	}
)

// NewUnitData returns an empty unit data value of the type encoded in the
// unit id, ready to be deserialized into. Used when recovering state from a
// snapshot.
func NewUnitData(unitID types.UnitID) (state.UnitData, error) {
	switch {
	case unitID.HasType(PaymentUnitType):
		return &PaymentData{}, nil
	case unitID.HasType(CounterUnitType):
		return &CounterData{}, nil
	case unitID.HasType(HistoryUnitType):
		return &HistoryData{}, nil
	case unitID.HasType(ConfirmationUnitType):
		return &ConfirmationData{}, nil
	case unitID.HasType(AdminUnitType):
		return &AdminData{}, nil
	case unitID.HasType(AgentUnitType):
		return &AgentData{}, nil
	}
	return nil, fmt.Errorf("unknown unit type in UnitID %s", unitID)
}

func (c *CounterData) Write(hasher hash.Hash) error {
	res, err := types.Cbor.Marshal(c)
	if err != nil {
		return err
	}
	_, err = hasher.Write(res)
	return err
}

func (c *CounterData) SummaryValueInput() uint64 { return 0 }

func (c *CounterData) Copy() state.UnitData {
	return &CounterData{Value: c.Value}
}

func (h *HistoryData) Write(hasher hash.Hash) error {
	res, err := types.Cbor.Marshal(h)
	if err != nil {
		return err
	}
	_, err = hasher.Write(res)
	return err
}

func (h *HistoryData) SummaryValueInput() uint64 { return 0 }

func (h *HistoryData) Copy() state.UnitData {
	payments := make([]types.UnitID, len(h.Payments))
	for i, id := range h.Payments {
		payments[i] = append(types.UnitID(nil), id...)
	}
	return &HistoryData{Payments: payments}
}

// Append adds a payment id to the history, dropping the oldest entry if the
// history is full.
func (h *HistoryData) Append(paymentID types.UnitID) {
	h.Payments = append(h.Payments, paymentID)
	if len(h.Payments) > MaxHistorySize {
		h.Payments = h.Payments[len(h.Payments)-MaxHistorySize:]
	}
}

func (c *ConfirmationData) Write(hasher hash.Hash) error {
	res, err := types.Cbor.Marshal(c)
	if err != nil {
		return err
	}
	_, err = hasher.Write(res)
	return err
}

func (c *ConfirmationData) SummaryValueInput() uint64 { return 0 }

func (c *ConfirmationData) Copy() state.UnitData {
	return &ConfirmationData{Confirmed: c.Confirmed}
}

func (a *AdminData) Write(hasher hash.Hash) error {
	res, err := types.Cbor.Marshal(a)
	if err != nil {
		return err
	}
	_, err = hasher.Write(res)
	return err
}

func (a *AdminData) SummaryValueInput() uint64 { return 0 }

func (a *AdminData) Copy() state.UnitData {
	return &AdminData{Owner: append(types.AccountID(nil), a.Owner...)}
}

func (a *AgentData) Write(hasher hash.Hash) error {
	res, err := types.Cbor.Marshal(a)
	if err != nil {
		return err
	}
	_, err = hasher.Write(res)
	return err
}

func (a *AgentData) SummaryValueInput() uint64 { return 0 }

func (a *AgentData) Copy() state.UnitData {
	return &AgentData{Since: a.Since}
}
