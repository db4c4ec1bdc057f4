package txsystem

// TxExecutionContext is the ExecutionContext implementation the tx system
// passes to handlers.
type TxExecutionContext struct {
	round uint64
}

func NewExecutionContext(round uint64) *TxExecutionContext {
	return &TxExecutionContext{round: round}
}

func (ec *TxExecutionContext) CurrentRound() uint64 {
	return ec.round
}
