package escrow

import (
	"github.com/alphabill-org/alphabill-escrow/types"
)

const (
	PayloadTypeCreatePayment      = "createPayment"
	PayloadTypeClaimPayment       = "claimPayment"
	PayloadTypeConfirmPayment     = "confirmPayment"
	PayloadTypeCreatePaymentBatch = "createPaymentBatch"
	PayloadTypeTransferAdmin      = "transferAdmin"
	PayloadTypeRegisterAgent      = "registerEscrowAgent"
)

const (
	// MaxBatchSize is the maximum number of payments a single batch order
	// may create.
	MaxBatchSize = 20
	// BatchExpirationDelta is the number of rounds batch-created payments
	// stay claimable.
	BatchExpirationDelta = 1000
)

type (
	CreatePaymentAttributes struct {
		_                    struct{}        `cbor:",toarray"`
		Beneficiary          types.AccountID `json:"beneficiary"`
		Amount               uint64          `json:"amount,string"`
		Asset                AssetRef        `json:"asset"`
		Condition            ConditionRef    `json:"condition"`
		Expiration           uint64          `json:"expiration,string"`
		EscrowAgent          types.AccountID `json:"escrowAgent,omitempty"`
		ConfirmationRequired bool            `json:"confirmationRequired"`
		Metadata             string          `json:"metadata,omitempty"`
	}

	// ClaimPaymentAttributes restate the claimed payment's terms. The stated
	// condition must match the record; Asset, when present, must too.
	ClaimPaymentAttributes struct {
		_         struct{}     `cbor:",toarray"`
		Condition ConditionRef `json:"condition"`
		Asset     *AssetRef    `json:"asset,omitempty"`
	}

	// ConfirmPaymentAttributes is empty, the payment is identified by the
	// order's unit id and the confirmer by its sender.
	ConfirmPaymentAttributes struct {
		_ struct{} `cbor:",toarray"`
	}

	CreatePaymentBatchAttributes struct {
		_          struct{}          `cbor:",toarray"`
		Recipients []types.AccountID `json:"recipients"`
		Amounts    []uint64          `json:"amounts"`
		Condition  ConditionRef      `json:"condition"`
	}

	TransferAdminAttributes struct {
		_        struct{}        `cbor:",toarray"`
		NewAdmin types.AccountID `json:"newAdmin"`
	}

	RegisterAgentAttributes struct {
		_     struct{}        `cbor:",toarray"`
		Agent types.AccountID `json:"agent"`
	}

	// CreatePaymentResult is returned in the server metadata of a successful
	// createPayment order.
	CreatePaymentResult struct {
		_         struct{}     `cbor:",toarray"`
		PaymentID types.UnitID `json:"paymentId"`
		Counter   uint64       `json:"counter,string"`
	}

	// CreatePaymentBatchResult lists the ids of the payments a batch order
	// actually created, in input order. Failed items are absent.
	CreatePaymentBatchResult struct {
		_          struct{}       `cbor:",toarray"`
		PaymentIDs []types.UnitID `json:"paymentIds"`
	}
)
