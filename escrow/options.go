package escrow

import (
	"crypto/sha256"

	"github.com/alphabill-org/alphabill-escrow/state"
	"github.com/alphabill-org/alphabill-escrow/types"
)

// DefaultSystemID is the system identifier of the escrow partition.
const DefaultSystemID types.SystemID = 0x00000005

type (
	Options struct {
		systemID      types.SystemID
		state         *state.State
		administrator types.AccountID
		custodian     types.AccountID
		nativeLedger  NativeLedger
		tokenClient   TokenClient
		verifier      CapabilityVerifier
		caller        ContractCaller
	}

	Option func(*Options)
)

func DefaultOptions() *Options {
	return &Options{
		systemID:  DefaultSystemID,
		state:     state.NewEmptyState(),
		custodian: DefaultCustodian(),
	}
}

// DefaultCustodian is the account value is parked on while in escrow. No key
// resolves to it.
func DefaultCustodian() types.AccountID {
	digest := sha256.Sum256([]byte("escrow custody account"))
	return digest[:]
}

func WithSystemID(id types.SystemID) Option {
	return func(o *Options) {
		o.systemID = id
	}
}

func WithState(s *state.State) Option {
	return func(o *Options) {
		o.state = s
	}
}

// WithAdministrator sets the initial administrator. Required on an empty
// state; ignored when the state already carries an administrator unit.
func WithAdministrator(admin types.AccountID) Option {
	return func(o *Options) {
		o.administrator = admin
	}
}

func WithCustodian(custodian types.AccountID) Option {
	return func(o *Options) {
		o.custodian = custodian
	}
}

func WithNativeLedger(ledger NativeLedger) Option {
	return func(o *Options) {
		o.nativeLedger = ledger
	}
}

func WithTokenClient(client TokenClient) Option {
	return func(o *Options) {
		o.tokenClient = client
	}
}

func WithCapabilityVerifier(verifier CapabilityVerifier) Option {
	return func(o *Options) {
		o.verifier = verifier
	}
}

func WithContractCaller(caller ContractCaller) Option {
	return func(o *Options) {
		o.caller = caller
	}
}
