package escrow

import (
	"github.com/alphabill-org/alphabill-escrow/txsystem"
)

// NewTxSystem assembles the escrow transaction system. The returned Module
// doubles as the read side, the tx system executes the write side.
func NewTxSystem(observe txsystem.Observability, opts ...Option) (*txsystem.GenericTxSystem, *Module, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	module, err := NewModule(observe.Logger(), options)
	if err != nil {
		return nil, nil, err
	}
	txs, err := txsystem.NewGenericTxSystem(
		options.systemID,
		[]txsystem.Module{module},
		observe,
		txsystem.WithState(options.state),
	)
	if err != nil {
		return nil, nil, err
	}
	return txs, module, nil
}
