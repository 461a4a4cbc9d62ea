package assets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMem_Transfer(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	m := NewMem()
	m.Deposit("alice", 100)

	a.NoError(m.Transfer(ctx, "alice", "bob", 60))
	a.Equal(40, m.Balance("alice"))
	a.Equal(60, m.Balance("bob"))

	a.ErrorIs(m.Transfer(ctx, "alice", "bob", 41), ErrInsufficientFunds)
	a.Equal(40, m.Balance("alice"))
	a.Equal(60, m.Balance("bob"))
}

func TestMem_InvalidTransfer(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	m := NewMem()
	m.Deposit("alice", 100)

	a.ErrorIs(m.Transfer(ctx, "alice", "bob", 0), ErrInvalidTransfer)
	a.ErrorIs(m.Transfer(ctx, "alice", "bob", -5), ErrInvalidTransfer)
	a.ErrorIs(m.Transfer(ctx, "", "bob", 5), ErrInvalidTransfer)
	a.ErrorIs(m.Transfer(ctx, "alice", "", 5), ErrInvalidTransfer)
	a.ErrorIs(m.Transfer(ctx, "alice", "alice", 5), ErrInvalidTransfer)
}
