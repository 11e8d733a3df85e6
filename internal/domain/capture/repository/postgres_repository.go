package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FACorreiaa/echo-capture/internal/domain/common"
)

// PgxPool abstracts the subset of pgxpool.Pool used by the repository to allow mocking in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ PgxPool               = (*pgxpool.Pool)(nil)
	_ TransactionRepository = (*PostgresTransactionRepository)(nil)
)

const (
	insertTransactionQuery = `
		INSERT INTO capture_transactions (
			id, user_id, direction, amount_minor, currency_code, category_id, note, raw_text, source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	getTransactionQuery = `
		SELECT id, user_id, direction, amount_minor, currency_code, category_id, note, raw_text, source, created_at
		FROM capture_transactions
		WHERE id = $1 AND user_id = $2
	`

	listTransactionsQuery = `
		SELECT id, user_id, direction, amount_minor, currency_code, category_id, note, raw_text, source, created_at
		FROM capture_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
)

// PostgresTransactionRepository implements TransactionRepository using PostgreSQL
type PostgresTransactionRepository struct {
	pgpool PgxPool
}

// NewPostgresTransactionRepository creates a new PostgreSQL-backed transaction repository
func NewPostgresTransactionRepository(pgpool PgxPool) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{pgpool: pgpool}
}

// Put inserts a transaction and fills in its creation time
func (r *PostgresTransactionRepository) Put(ctx context.Context, tx *Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}

	err := r.pgpool.QueryRow(ctx, insertTransactionQuery,
		tx.ID, tx.UserID, string(tx.Direction), tx.AmountMinor, tx.CurrencyCode,
		tx.CategoryID, tx.Note, tx.RawText, tx.Source,
	).Scan(&tx.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: transaction %s", common.ErrConflict, tx.ID)
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// Get retrieves one of the user's transactions by ID
func (r *PostgresTransactionRepository) Get(ctx context.Context, userID, id uuid.UUID) (*Transaction, error) {
	rows, err := r.pgpool.Query(ctx, getTransactionQuery, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	tx, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[Transaction])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	return tx, nil
}

// ListByUser returns the user's most recent transactions, newest first
func (r *PostgresTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Transaction, error) {
	rows, err := r.pgpool.Query(ctx, listTransactionsQuery, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	txs, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Transaction])
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}

	return txs, nil
}
