package assets

import (
	"context"
	"sync"
)

// Mem is an in-memory Ledger. Intended for tests and single-node deployments.
type Mem struct {
	mu       sync.Mutex
	balances map[string]int
}

// NewMem returns an empty in-memory ledger
func NewMem() *Mem {
	return &Mem{
		balances: make(map[string]int),
	}
}

// Deposit credits an account directly
func (m *Mem) Deposit(account string, amount int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.balances[account] += amount
}

// Balance returns the current balance of an account
func (m *Mem) Balance(account string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.balances[account]
}

// Transfer moves amount from one account to another
func (m *Mem) Transfer(_ context.Context, from, to string, amount int) error {
	if amount <= 0 || from == "" || to == "" || from == to {
		return ErrInvalidTransfer
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.balances[from] < amount {
		return ErrInsufficientFunds
	}

	m.balances[from] -= amount
	m.balances[to] += amount

	return nil
}
