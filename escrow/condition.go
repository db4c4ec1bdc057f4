package escrow

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/alphabill-org/alphabill-escrow/logger"
	"github.com/alphabill-org/alphabill-escrow/types"
)

const (
	ConditionTagTyped uint64 = 1
	ConditionTagNamed uint64 = 2
)

type (
	// ConditionRef identifies the release condition of a payment: either a
	// typed capability handle checked by the host environment, or a named
	// boolean function of an external contract.
	ConditionRef struct {
		_          struct{}        `cbor:",toarray"`
		Tag        uint64          `json:"tag"`
		Capability types.Bytes     `json:"capability,omitempty"`
		Contract   types.AccountID `json:"contract,omitempty"`
		Function   string          `json:"function,omitempty"`
	}

	// CapabilityVerifier checks a typed capability handle.
	CapabilityVerifier interface {
		Verify(capability types.Bytes) (bool, error)
	}

	// ContractCaller invokes a named boolean function of an external
	// contract.
	ContractCaller interface {
		Call(contract types.AccountID, function string) (bool, error)
	}

	// conditionRunner evaluates condition references against the configured
	// collaborators. Any evaluation failure counts as the condition not
	// holding.
	conditionRunner struct {
		verifier CapabilityVerifier
		caller   ContractCaller
		log      *slog.Logger
	}
)

func TypedCondition(capability types.Bytes) ConditionRef {
	return ConditionRef{Tag: ConditionTagTyped, Capability: capability}
}

func NamedCondition(contract types.AccountID, function string) ConditionRef {
	return ConditionRef{Tag: ConditionTagNamed, Contract: contract, Function: function}
}

func (c ConditionRef) Eq(o ConditionRef) bool {
	return c.Tag == o.Tag &&
		bytes.Equal(c.Capability, o.Capability) &&
		bytes.Equal(c.Contract, o.Contract) &&
		c.Function == o.Function
}

func (c ConditionRef) Copy() ConditionRef {
	return ConditionRef{
		Tag:        c.Tag,
		Capability: append(types.Bytes(nil), c.Capability...),
		Contract:   append(types.AccountID(nil), c.Contract...),
		Function:   c.Function,
	}
}

func (c ConditionRef) IsValid() error {
	switch c.Tag {
	case ConditionTagTyped:
		if len(c.Capability) == 0 {
			return fmt.Errorf("typed condition must carry a capability handle")
		}
	case ConditionTagNamed:
		if !c.Contract.IsValid() {
			return fmt.Errorf("named condition must name a valid contract")
		}
		if c.Function == "" {
			return fmt.Errorf("named condition must name a function")
		}
	default:
		return fmt.Errorf("unknown condition tag %d", c.Tag)
	}
	return nil
}

func (r *conditionRunner) evaluate(ref ConditionRef) bool {
	var ok bool
	var err error
	switch ref.Tag {
	case ConditionTagTyped:
		if r.verifier == nil {
			err = fmt.Errorf("capability verifier not available")
			break
		}
		ok, err = r.verifier.Verify(ref.Capability)
	case ConditionTagNamed:
		if r.caller == nil {
			err = fmt.Errorf("contract caller not available")
			break
		}
		ok, err = r.caller.Call(ref.Contract, ref.Function)
	default:
		err = fmt.Errorf("unknown condition tag %d", ref.Tag)
	}
	if err != nil {
		r.log.Debug("condition evaluation failed", logger.Error(err))
		return false
	}
	return ok
}
