package assets

import (
	"context"
	"errors"
)

// ErrInsufficientFunds is an error when the source account cannot cover a transfer
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidTransfer is an error when a transfer request is malformed
var ErrInvalidTransfer = errors.New("invalid transfer")

// Ledger moves value between accounts.
// The game core calls Transfer only after all game-state invariants for the
// current transition are satisfied, never before.
type Ledger interface {
	Transfer(ctx context.Context, from, to string, amount int) error
}
