package testutils

import (
	"fmt"

	"github.com/alphabill-org/alphabill-escrow/types"
)

type (
	// FakeLedger is an in-memory native value ledger for tests.
	FakeLedger struct {
		balances map[string]uint64
		// Err, when set, makes every transfer fail.
		Err error
	}

	// FakeTokenClient is an in-memory token ledger for tests, one balance
	// table per token contract.
	FakeTokenClient struct {
		tokens map[string]*FakeLedger
		Err    error
	}
)

func NewFakeLedger() *FakeLedger {
	return &FakeLedger{balances: map[string]uint64{}}
}

func (l *FakeLedger) Credit(account types.AccountID, amount uint64) *FakeLedger {
	l.balances[string(account)] += amount
	return l
}

func (l *FakeLedger) Balance(account types.AccountID) uint64 {
	return l.balances[string(account)]
}

func (l *FakeLedger) Transfer(from, to types.AccountID, amount uint64) error {
	if l.Err != nil {
		return l.Err
	}
	if l.balances[string(from)] < amount {
		return fmt.Errorf("insufficient balance on %s", from)
	}
	l.balances[string(from)] -= amount
	l.balances[string(to)] += amount
	return nil
}

func NewFakeTokenClient() *FakeTokenClient {
	return &FakeTokenClient{tokens: map[string]*FakeLedger{}}
}

// Ledger returns the balance table of the token, creating it if needed.
func (c *FakeTokenClient) Ledger(token types.AccountID) *FakeLedger {
	l, ok := c.tokens[string(token)]
	if !ok {
		l = NewFakeLedger()
		c.tokens[string(token)] = l
	}
	return l
}

func (c *FakeTokenClient) Transfer(token types.AccountID, from, to types.AccountID, amount uint64) error {
	if c.Err != nil {
		return c.Err
	}
	return c.Ledger(token).Transfer(from, to, amount)
}
