package escrow

import (
	"hash"

	"github.com/alphabill-org/alphabill-escrow/state"
	"github.com/alphabill-org/alphabill-escrow/types"
)

// MaxMetadataLength is the maximum length of the free-form payment memo.
const MaxMetadataLength = 256

// PaymentData is the state of a single conditional payment.
type PaymentData struct {
	_                    struct{}        `cbor:",toarray"`
	Initiator            types.AccountID `json:"initiator"`
	Beneficiary          types.AccountID `json:"beneficiary"`
	Amount               uint64          `json:"amount,string"`
	Asset                AssetRef        `json:"asset"`
	Condition            ConditionRef    `json:"condition"`
	Expiration           uint64          `json:"expiration,string"`
	Claimed              bool            `json:"claimed"`
	EscrowAgent          types.AccountID `json:"escrowAgent,omitempty"`
	ConfirmationRequired bool            `json:"confirmationRequired"`
	Metadata             string          `json:"metadata,omitempty"`
}

func (p *PaymentData) Write(hasher hash.Hash) error {
	res, err := types.Cbor.Marshal(p)
	if err != nil {
		return err
	}
	_, err = hasher.Write(res)
	return err
}

// SummaryValueInput is the value still held in custody for this payment.
func (p *PaymentData) SummaryValueInput() uint64 {
	if p.Claimed {
		return 0
	}
	return p.Amount
}

func (p *PaymentData) Copy() state.UnitData {
	return &PaymentData{
		Initiator:            append(types.AccountID(nil), p.Initiator...),
		Beneficiary:          append(types.AccountID(nil), p.Beneficiary...),
		Amount:               p.Amount,
		Asset:                p.Asset.Copy(),
		Condition:            p.Condition.Copy(),
		Expiration:           p.Expiration,
		Claimed:              p.Claimed,
		EscrowAgent:          append(types.AccountID(nil), p.EscrowAgent...),
		ConfirmationRequired: p.ConfirmationRequired,
		Metadata:             p.Metadata,
	}
}

// IsExpired reports whether the payment can no longer be claimed in the given
// round. The expiration round itself is still claimable.
func (p *PaymentData) IsExpired(round uint64) bool {
	return round > p.Expiration
}
