package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/FACorreiaa/echo-capture/internal/domain/common"
)

var transactionColumns = []string{
	"id", "user_id", "direction", "amount_minor", "currency_code", "category_id", "note", "raw_text", "source", "created_at",
}

func TestPostgresTransactionRepository_Put(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	tx := &Transaction{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		Direction:    common.DirectionExpense,
		AmountMinor:  2000,
		CurrencyCode: DefaultCurrency,
		CategoryID:   "food",
		Note:         "اشتريت اكل بعشرين جنيه",
		RawText:      "اشتريت اكل بعشرين جنيه",
		Source:       SourceCapture,
	}
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(insertTransactionQuery)).
		WithArgs(tx.ID, tx.UserID, "expense", int64(2000), "EGP", "food", tx.Note, tx.RawText, "capture").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	repo := NewPostgresTransactionRepository(mock)
	if err := repo.Put(context.Background(), tx); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !tx.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at %v, got %v", now, tx.CreatedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresTransactionRepository_Put_Conflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(insertTransactionQuery)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	repo := NewPostgresTransactionRepository(mock)
	err = repo.Put(context.Background(), &Transaction{UserID: uuid.New(), Direction: common.DirectionIncome, AmountMinor: 1})
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresTransactionRepository_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	id, userID := uuid.New(), uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(getTransactionQuery)).
		WithArgs(id, userID).
		WillReturnRows(pgxmock.NewRows(transactionColumns).
			AddRow(id, userID, common.DirectionIncome, int64(100000), "EGP", "salary", "قبضت المرتب", "قبضت المرتب الف جنيه", "capture", now))

	repo := NewPostgresTransactionRepository(mock)
	tx, err := repo.Get(context.Background(), userID, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if tx.ID != id || tx.UserID != userID {
		t.Fatalf("unexpected ids: %+v", tx)
	}
	if tx.Direction != common.DirectionIncome || tx.AmountMinor != 100000 || tx.CategoryID != "salary" {
		t.Fatalf("unexpected row: %+v", tx)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresTransactionRepository_Get_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	id, userID := uuid.New(), uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(getTransactionQuery)).
		WithArgs(id, userID).
		WillReturnRows(pgxmock.NewRows(transactionColumns))

	repo := NewPostgresTransactionRepository(mock)
	_, err = repo.Get(context.Background(), userID, id)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresTransactionRepository_ListByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	userID := uuid.New()
	now := time.Now()
	rows := pgxmock.NewRows(transactionColumns).
		AddRow(uuid.New(), userID, common.DirectionExpense, int64(1000), "EGP", "transport", "مواصلات", "", "capture", now).
		AddRow(uuid.New(), userID, common.DirectionExpense, int64(2000), "EGP", "food", "اكل", "", "capture", now.Add(-time.Minute))
	mock.ExpectQuery(regexp.QuoteMeta(listTransactionsQuery)).
		WithArgs(userID, 10).
		WillReturnRows(rows)

	repo := NewPostgresTransactionRepository(mock)
	txs, err := repo.ListByUser(context.Background(), userID, 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(txs))
	}
	if txs[0].CategoryID != "transport" || txs[1].CategoryID != "food" {
		t.Fatalf("unexpected order: %s, %s", txs[0].CategoryID, txs[1].CategoryID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
