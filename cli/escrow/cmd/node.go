package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alphabill-org/alphabill-escrow/keyvaluedb"
	"github.com/alphabill-org/alphabill-escrow/logger"
	"github.com/alphabill-org/alphabill-escrow/txsystem"
	"github.com/alphabill-org/alphabill-escrow/types"
)

/*
escrowNode drives the transaction system in standalone mode: each submitted
order runs in its own round which is committed and snapshotted on success.
Submissions are serialized, the tx system is not safe for concurrent use.
*/
type escrowNode struct {
	mu    sync.Mutex
	txs   *txsystem.GenericTxSystem
	db    keyvaluedb.KeyValueDB
	round uint64
	log   *slog.Logger
}

func newEscrowNode(txs *txsystem.GenericTxSystem, db keyvaluedb.KeyValueDB, round uint64, log *slog.Logger) *escrowNode {
	return &escrowNode{txs: txs, db: db, round: round, log: log}
}

func (n *escrowNode) SubmitTx(ctx context.Context, tx *types.TransactionOrder) (*types.ServerMetadata, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	round := n.round + 1
	n.txs.BeginRound(round)
	sm, err := n.txs.Execute(tx)
	if err != nil {
		n.txs.Revert()
		return nil, err
	}
	if _, err := n.txs.EndRound(); err != nil {
		n.txs.Revert()
		return nil, fmt.Errorf("ending round %d: %w", round, err)
	}
	if err := n.txs.Commit(); err != nil {
		return nil, fmt.Errorf("committing round %d: %w", round, err)
	}
	n.round = round
	n.persist()
	return sm, nil
}

func (n *escrowNode) LatestRoundNumber() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.round
}

// persist stores a snapshot of the committed state. A failed snapshot is
// logged but does not fail the transaction, the state is recreated from
// scratch on the next start in that case.
func (n *escrowNode) persist() {
	buf := &bytes.Buffer{}
	if err := n.txs.SerializeState(buf, true); err != nil {
		n.log.Warn("serializing state snapshot", logger.Error(err), logger.Round(n.round))
		return
	}
	if err := n.db.Write(stateKey, types.Bytes(buf.Bytes())); err != nil {
		n.log.Warn("storing state snapshot", logger.Error(err), logger.Round(n.round))
	}
}
