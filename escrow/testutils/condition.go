package testutils

import (
	"github.com/alphabill-org/alphabill-escrow/types"
)

type (
	// StaticVerifier answers every capability check with a fixed result.
	StaticVerifier struct {
		Result bool
		Err    error
	}

	// StaticCaller answers contract calls from a fixed table keyed by
	// "contract/function". Unknown functions evaluate to false.
	StaticCaller struct {
		Results map[string]bool
		Err     error
	}
)

func (v *StaticVerifier) Verify(capability types.Bytes) (bool, error) {
	return v.Result, v.Err
}

func (c *StaticCaller) Call(contract types.AccountID, function string) (bool, error) {
	if c.Err != nil {
		return false, c.Err
	}
	return c.Results[contract.String()+"/"+function], nil
}
