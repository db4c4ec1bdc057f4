package txsystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/alphabill-org/alphabill-escrow/logger"
	"github.com/alphabill-org/alphabill-escrow/state"
	"github.com/alphabill-org/alphabill-escrow/types"
)

var (
	ErrInvalidSystemIdentifier         = errors.New("error invalid system identifier")
	ErrTransactionExpired              = errors.New("transaction timeout must be greater than current round number")
	ErrStateContainsUncommittedChanges = errors.New("state contains uncommitted changes")
)

type (
	// GenericTxSystem executes transaction orders against the escrow state,
	// one at a time. Each order runs inside a state savepoint: an error
	// rolls back every change the order made (atomic all-or-nothing).
	GenericTxSystem struct {
		systemIdentifier types.SystemID
		state            *state.State
		executors        TxExecutors
		currentRound     uint64
		roundCommitted   bool
		log              *slog.Logger

		txCount metric.Int64Counter
	}

	// StateSummary describes the state at the end of a round.
	StateSummary struct {
		Round     uint64
		UnitCount uint64
		Value     uint64
	}

	Observability interface {
		Meter(name string, opts ...metric.MeterOption) metric.Meter
		Logger() *slog.Logger
	}
)

func NewGenericTxSystem(systemID types.SystemID, modules []Module, observe Observability, opts ...Option) (*GenericTxSystem, error) {
	if systemID == 0 {
		return nil, errors.New("system ID must be assigned")
	}
	options := DefaultOptions()
	for _, option := range opts {
		option(options)
	}
	txs := &GenericTxSystem{
		systemIdentifier: systemID,
		state:            options.state,
		executors:        make(TxExecutors),
		log:              observe.Logger(),
	}

	for _, module := range modules {
		if err := txs.executors.Add(module.TxHandlers()); err != nil {
			return nil, fmt.Errorf("registering tx executors: %w", err)
		}
	}

	if err := txs.initMetrics(observe.Meter("txsystem")); err != nil {
		return nil, fmt.Errorf("initializing metrics: %w", err)
	}

	return txs, nil
}

func (m *GenericTxSystem) BeginRound(round uint64) {
	m.currentRound = round
	m.roundCommitted = false
}

func (m *GenericTxSystem) CurrentRound() uint64 {
	return m.currentRound
}

func (m *GenericTxSystem) Execute(tx *types.TransactionOrder) (sm *types.ServerMetadata, rErr error) {
	if err := m.validateGenericTransaction(tx); err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}

	exeCtx := NewExecutionContext(m.currentRound)

	savepointID := m.state.Savepoint()
	defer func() {
		status := "ok"
		if rErr != nil {
			// transaction execution failed, revert every change made by
			// the transaction order
			m.state.RollbackToSavepoint(savepointID)
			status = "err"
		} else {
			m.state.ReleaseToSavepoint(savepointID)
		}
		if m.txCount != nil {
			m.txCount.Add(context.Background(), 1, metric.WithAttributeSet(attribute.NewSet(
				attribute.String("tx", tx.PayloadType()),
				attribute.String("status", status),
			)))
		}
	}()

	m.log.Debug(fmt.Sprintf("execute %s", tx.PayloadType()), logger.UnitID(tx.UnitID()), logger.Round(m.currentRound))
	sm, rErr = m.executors.ValidateAndExecute(tx, exeCtx)
	if rErr != nil {
		return nil, rErr
	}
	return sm, nil
}

/*
validateGenericTransaction does the tx validation common to all transaction
types: the order is addressed to this system and has not timed out. The
type-specific validity conditions are implemented by the tx handlers.
*/
func (m *GenericTxSystem) validateGenericTransaction(tx *types.TransactionOrder) error {
	if m.systemIdentifier != tx.SystemID() {
		return ErrInvalidSystemIdentifier
	}
	if t := tx.Timeout(); t != 0 && m.currentRound >= t {
		return ErrTransactionExpired
	}
	if !tx.Sender.IsValid() {
		return errors.New("invalid sender identifier")
	}
	return nil
}

func (m *GenericTxSystem) EndRound() (*StateSummary, error) {
	count, value := m.state.Summary()
	return &StateSummary{Round: m.currentRound, UnitCount: count, Value: value}, nil
}

func (m *GenericTxSystem) Commit() error {
	m.state.Commit()
	m.roundCommitted = true
	return nil
}

func (m *GenericTxSystem) Revert() {
	if m.roundCommitted {
		return
	}
	m.state.Revert()
}

// State returns an independent clone of the current state, usable for read
// only operations.
func (m *GenericTxSystem) State() *state.State {
	return m.state.Clone()
}

func (m *GenericTxSystem) SerializeState(writer io.Writer, committed bool) error {
	if !committed && !m.state.IsCommitted() {
		return ErrStateContainsUncommittedChanges
	}
	return m.state.Serialize(writer, m.currentRound, committed)
}

func (m *GenericTxSystem) initMetrics(mtr metric.Meter) error {
	var err error
	if m.txCount, err = mtr.Int64Counter(
		"tx.count",
		metric.WithDescription("Number of transactions executed"),
		metric.WithUnit("{transaction}"),
	); err != nil {
		return fmt.Errorf("creating tx counter: %w", err)
	}

	if _, err = mtr.Int64ObservableUpDownCounter(
		"unit.count",
		metric.WithDescription("Number of units in the state."),
		metric.WithUnit("{unit}"),
		metric.WithInt64Callback(func(ctx context.Context, io metric.Int64Observer) error {
			count, _ := m.state.Summary()
			io.Observe(int64(count))
			return nil
		}),
	); err != nil {
		return fmt.Errorf("creating state unit counter: %w", err)
	}

	return nil
}
