package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/yashasviy/split-payments-api/split"
)

// Initialize creates the funding account table.
func Initialize(ctx context.Context, db *sql.DB) error {
	// UNIQUE constraint on (owner_id, name): names identify accounts in a split
	queryAccounts := `
	CREATE TABLE IF NOT EXISTS funding_accounts (
		id SERIAL PRIMARY KEY,
		owner_id VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		balance DECIMAL(12, 2) NOT NULL CHECK (balance >= 0),
		position INT NOT NULL DEFAULT 0,
		UNIQUE (owner_id, name)
	);`

	if _, err := db.ExecContext(ctx, queryAccounts); err != nil {
		return fmt.Errorf("failed to create funding_accounts table: %w", err)
	}
	return nil
}

const (
	// BreakerFailureThreshold trips the breaker after this many consecutive failures.
	BreakerFailureThreshold = 5

	// BreakerOpenTimeout is how long the breaker rejects calls before probing again.
	BreakerOpenTimeout = 30 * time.Second
)

// AccountSource loads the funding accounts a split can draw from.
type AccountSource struct {
	db      *sql.DB
	breaker *gobreaker.CircuitBreaker
}

func NewAccountSource(db *sql.DB) *AccountSource {
	return &AccountSource{
		db: db,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "funding-accounts",
			Timeout: BreakerOpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= BreakerFailureThreshold
			},
		}),
	}
}

// LoadAccounts returns ownerID's accounts in display order. While the
// breaker is open it fails fast with gobreaker.ErrOpenState.
func (s *AccountSource) LoadAccounts(ctx context.Context, ownerID string) ([]split.Account, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.query(ctx, ownerID)
	})
	if err != nil {
		return nil, err
	}
	return result.([]split.Account), nil
}

func (s *AccountSource) query(ctx context.Context, ownerID string) ([]split.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, balance FROM funding_accounts WHERE owner_id = $1 ORDER BY position, id", ownerID)
	if err != nil {
		return nil, fmt.Errorf("query funding accounts: %w", err)
	}
	defer rows.Close()

	accounts := []split.Account{}
	for rows.Next() {
		var (
			name    string
			balance decimal.Decimal
		)
		if err := rows.Scan(&name, &balance); err != nil {
			return nil, fmt.Errorf("scan funding account: %w", err)
		}
		f, _ := balance.Float64()
		accounts = append(accounts, split.Account{Name: name, Balance: f})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read funding accounts: %w", err)
	}
	return accounts, nil
}

// SeedAccounts upserts ownerID's accounts, keeping the given order.
func SeedAccounts(ctx context.Context, db *sql.DB, ownerID string, accounts []split.Account) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // no-op if already committed

	for i, account := range accounts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO funding_accounts (owner_id, name, balance, position) VALUES ($1, $2, $3, $4)
			ON CONFLICT (owner_id, name) DO UPDATE SET balance = EXCLUDED.balance, position = EXCLUDED.position`,
			ownerID, account.Name, decimal.NewFromFloat(account.Balance).StringFixed(2), i)
		if err != nil {
			return fmt.Errorf("failed to seed account %q: %w", account.Name, err)
		}
	}
	return tx.Commit()
}
