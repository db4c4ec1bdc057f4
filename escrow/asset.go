package escrow

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/alphabill-org/alphabill-escrow/types"
)

const (
	AssetTagNative uint64 = 1
	AssetTagToken  uint64 = 2
)

type (
	// AssetRef identifies the asset a payment is denominated in: either the
	// native unit of value or a token managed by an external contract.
	AssetRef struct {
		_        struct{}        `cbor:",toarray"`
		Tag      uint64          `json:"tag"`
		Contract types.AccountID `json:"contract,omitempty"`
	}

	// NativeLedger moves native value between accounts. Implemented by the
	// hosting ledger.
	NativeLedger interface {
		Transfer(from, to types.AccountID, amount uint64) error
	}

	// TokenClient moves token value between accounts by invoking the token's
	// managing contract.
	TokenClient interface {
		Transfer(token types.AccountID, from, to types.AccountID, amount uint64) error
	}

	// assetTransfer routes value movement to the collaborator matching the
	// asset reference.
	assetTransfer struct {
		native NativeLedger
		tokens TokenClient
	}
)

func NativeAsset() AssetRef {
	return AssetRef{Tag: AssetTagNative}
}

func TokenAsset(contract types.AccountID) AssetRef {
	return AssetRef{Tag: AssetTagToken, Contract: contract}
}

func (a AssetRef) IsNative() bool {
	return a.Tag == AssetTagNative
}

func (a AssetRef) Eq(b AssetRef) bool {
	return a.Tag == b.Tag && bytes.Equal(a.Contract, b.Contract)
}

func (a AssetRef) Copy() AssetRef {
	return AssetRef{Tag: a.Tag, Contract: append(types.AccountID(nil), a.Contract...)}
}

func (a AssetRef) IsValid() error {
	switch a.Tag {
	case AssetTagNative:
		if len(a.Contract) != 0 {
			return fmt.Errorf("%w: native asset must not name a contract", ErrInvalidAsset)
		}
	case AssetTagToken:
		if !a.Contract.IsValid() {
			return fmt.Errorf("%w: token asset must name a valid contract", ErrInvalidAsset)
		}
	default:
		return fmt.Errorf("%w: unknown asset tag %d", ErrInvalidAsset, a.Tag)
	}
	return nil
}

/*
moveValue transfers "amount" of the referenced asset from "from" to "to". A
native transfer failure means the sender lacks funds; a token transfer failure
is attributed to the token contract unless the client itself reports missing
funds.
*/
func (t *assetTransfer) moveValue(asset AssetRef, amount uint64, from, to types.AccountID) error {
	switch asset.Tag {
	case AssetTagNative:
		if t.native == nil {
			return fmt.Errorf("%w: native ledger not available", ErrInvalidAsset)
		}
		if err := t.native.Transfer(from, to, amount); err != nil {
			return fmt.Errorf("%w: %v", ErrInsufficientBalance, err)
		}
	case AssetTagToken:
		if t.tokens == nil {
			return fmt.Errorf("%w: token client not available", ErrInvalidAsset)
		}
		if err := t.tokens.Transfer(asset.Contract, from, to, amount); err != nil {
			if errors.Is(err, ErrInsufficientBalance) {
				return fmt.Errorf("token transfer: %w", err)
			}
			return fmt.Errorf("%w: token transfer: %v", ErrInvalidAsset, err)
		}
	default:
		return fmt.Errorf("%w: unknown asset tag %d", ErrInvalidAsset, asset.Tag)
	}
	return nil
}
