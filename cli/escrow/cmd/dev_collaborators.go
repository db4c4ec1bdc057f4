package cmd

import (
	"fmt"
	"sync"

	"github.com/alphabill-org/alphabill-escrow/types"
)

/*
Standalone mode has no host ledger to integrate with, so the collaborator
interfaces are backed by in-process stand-ins: an in-memory ledger that
seeds every account with a starting balance on first use, and a contract
caller that approves every named condition. Typed conditions go through the
built-in capability templates instead. Production deployments replace these
with real host integrations.
*/
type (
	devLedger struct {
		mu       sync.Mutex
		initial  uint64
		balances map[string]uint64
		seen     map[string]bool
	}

	devTokenClient struct {
		mu      sync.Mutex
		initial uint64
		tokens  map[string]*devLedger
	}

	devCaller struct{}
)

func newDevLedger(initial uint64) *devLedger {
	return &devLedger{
		initial:  initial,
		balances: map[string]uint64{},
		seen:     map[string]bool{},
	}
}

func (l *devLedger) Transfer(from, to types.AccountID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seed(from)
	l.seed(to)
	if l.balances[string(from)] < amount {
		return fmt.Errorf("account %s has %d, needs %d", from, l.balances[string(from)], amount)
	}
	l.balances[string(from)] -= amount
	l.balances[string(to)] += amount
	return nil
}

func (l *devLedger) seed(account types.AccountID) {
	if !l.seen[string(account)] {
		l.seen[string(account)] = true
		l.balances[string(account)] += l.initial
	}
}

func newDevTokenClient(initial uint64) *devTokenClient {
	return &devTokenClient{initial: initial, tokens: map[string]*devLedger{}}
}

func (c *devTokenClient) Transfer(token types.AccountID, from, to types.AccountID, amount uint64) error {
	c.mu.Lock()
	ledger, ok := c.tokens[string(token)]
	if !ok {
		ledger = newDevLedger(c.initial)
		c.tokens[string(token)] = ledger
	}
	c.mu.Unlock()
	return ledger.Transfer(from, to, amount)
}

func (devCaller) Call(contract types.AccountID, function string) (bool, error) {
	return true, nil
}
