package assets

import (
	"context"
	"database/sql"
)

// Postgres is a Ledger backed by the accounts table
type Postgres struct {
	db *sql.DB
}

// NewPostgres returns a postgres-backed ledger
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Transfer moves amount between accounts in a single transaction
func (p *Postgres) Transfer(ctx context.Context, from, to string, amount int) error {
	if amount <= 0 || from == "" || to == "" || from == to {
		return ErrInvalidTransfer
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	const debit = `
UPDATE accounts
SET balance = balance - $1, updated = (NOW() AT TIME ZONE 'utc')
WHERE identity = $2 AND balance >= $1`

	res, err := tx.ExecContext(ctx, debit, amount, from)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if rows == 0 {
		_ = tx.Rollback()
		return ErrInsufficientFunds
	}

	const credit = `
INSERT INTO accounts (identity, balance)
VALUES ($1, $2)
ON CONFLICT (identity)
DO UPDATE SET balance = accounts.balance + EXCLUDED.balance, updated = (NOW() AT TIME ZONE 'utc')`

	if _, err := tx.ExecContext(ctx, credit, to, amount); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
