package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/batch"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/repository"
	"github.com/FACorreiaa/echo-capture/internal/domain/common"
)

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Put(ctx context.Context, tx *repository.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Get(ctx context.Context, userID, id uuid.UUID) (*repository.Transaction, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*repository.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Transaction), args.Error(1)
}

func setupCaptureServiceTest() (*CaptureServiceImpl, *MockTransactionRepository) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockRepo := new(MockTransactionRepository)
	return NewCaptureService(mockRepo, nil, nil, logger), mockRepo
}

func TestCaptureService_Parse(t *testing.T) {
	svc, mockRepo := setupCaptureServiceTest()
	ctx := context.Background()

	t.Run("uses default catalog", func(t *testing.T) {
		result := svc.Parse(ctx, uuid.New(), "قبضت المرتب الف جنيه", nil)
		require.Len(t, result.Transactions, 1)
		tx := result.Transactions[0]
		assert.Equal(t, common.DirectionIncome, tx.Direction)
		assert.True(t, tx.Amount.Equal(decimal.NewFromInt(1000)))
		assert.Equal(t, "salary", tx.CategoryID)
	})

	t.Run("caller categories win", func(t *testing.T) {
		cats := []common.Category{
			{ID: "c1", CanonicalName: "food", Direction: common.DirectionExpense},
		}
		result := svc.Parse(ctx, uuid.New(), "اشتريت اكل بعشرين جنيه", cats)
		require.Len(t, result.Transactions, 1)
		assert.Equal(t, "c1", result.Transactions[0].CategoryID)
	})

	t.Run("no amount", func(t *testing.T) {
		result := svc.Parse(ctx, uuid.New(), "رحت الشغل", nil)
		assert.Empty(t, result.Transactions)
		assert.NotNil(t, result.Transactions)
		assert.Equal(t, "رحت الشغل", result.OriginalText)
	})

	mockRepo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestCaptureService_ParseBatch(t *testing.T) {
	svc, mockRepo := setupCaptureServiceTest()
	ctx := context.Background()

	t.Run("csv export", func(t *testing.T) {
		data := "date,text\n2026-03-15,اشتريت اكل ب20 جنيه\n2026-03-16,رحت الشغل\n"
		res, err := svc.ParseBatch(ctx, uuid.New(), []byte(data), batch.Options{})
		require.NoError(t, err)
		assert.Equal(t, 2, res.RowsTotal)
		assert.Equal(t, 1, res.RowsMatched)
		assert.Equal(t, 1, res.Transactions)
		assert.Equal(t, "food", res.Rows[0].Result.Transactions[0].CategoryID)
	})

	t.Run("unreadable file", func(t *testing.T) {
		_, err := svc.ParseBatch(ctx, uuid.New(), []byte("date,amount\n2026-03-15,20\n"), batch.Options{})
		assert.ErrorIs(t, err, common.ErrBadRequest)
		assert.ErrorIs(t, err, batch.ErrNoTextColumn)

		_, err = svc.ParseBatch(ctx, uuid.New(), nil, batch.Options{})
		assert.ErrorIs(t, err, batch.ErrEmptyFile)

		_, err = svc.ParseBatch(ctx, uuid.New(), []byte(strings.Repeat("x", batch.MaxLineBytes+1)), batch.Options{})
		assert.ErrorIs(t, err, common.ErrBadRequest)
		assert.ErrorIs(t, err, batch.ErrLineTooLong)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := svc.ParseBatch(cctx, uuid.New(), []byte("دفعت 5 جنيه\n"), batch.Options{})
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, errors.Is(err, common.ErrBadRequest))
	})

	mockRepo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestCaptureService_Suggest(t *testing.T) {
	svc, _ := setupCaptureServiceTest()
	ctx := context.Background()

	id, err := svc.Suggest(ctx, "دفعت فاتورة الكهربا", common.DirectionExpense, nil)
	require.NoError(t, err)
	assert.Equal(t, "bills", id)

	_, err = svc.Suggest(ctx, "اي حاجة", common.Direction("transfer"), nil)
	assert.ErrorIs(t, err, common.ErrInvalidDirection)
}

func TestCaptureService_Commit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	raw := "اشتريت اكل ب20 جنيه و كمان دفعت 10 جنيه مواصلات"

	t.Run("success", func(t *testing.T) {
		svc, mockRepo := setupCaptureServiceTest()
		txs := []common.ParsedTransaction{
			{Direction: common.DirectionExpense, Amount: decimal.NewFromInt(20), CategoryID: "food"},
			{Direction: common.DirectionExpense, Amount: decimal.NewFromInt(10), CategoryID: "transport"},
		}
		mockRepo.On("Put", mock.Anything, mock.MatchedBy(func(tx *repository.Transaction) bool {
			return tx.UserID == userID && tx.RawText == raw
		})).Return(nil).Twice()

		rows, err := svc.Commit(ctx, userID, raw, txs, nil)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, int64(2000), rows[0].AmountMinor)
		assert.Equal(t, int64(1000), rows[1].AmountMinor)
		mockRepo.AssertExpectations(t)
	})

	t.Run("fallback category needs no catalog entry", func(t *testing.T) {
		svc, mockRepo := setupCaptureServiceTest()
		mockRepo.On("Put", mock.Anything, mock.Anything).Return(nil).Once()

		rows, err := svc.Commit(ctx, userID, raw, []common.ParsedTransaction{
			{Direction: common.DirectionIncome, Amount: decimal.NewFromInt(5)},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, common.FallbackIncomeCategoryID, rows[0].CategoryID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("caller categories replace the catalog", func(t *testing.T) {
		svc, mockRepo := setupCaptureServiceTest()
		cats := []common.Category{
			{ID: "c1", CanonicalName: "food", Direction: common.DirectionExpense},
			{ID: "c2", CanonicalName: "salary", Direction: common.DirectionIncome},
		}
		mockRepo.On("Put", mock.Anything, mock.Anything).Return(nil).Once()

		rows, err := svc.Commit(ctx, userID, raw, []common.ParsedTransaction{
			{Direction: common.DirectionExpense, Amount: decimal.NewFromInt(20), CategoryID: "c1"},
		}, cats)
		require.NoError(t, err)
		assert.Equal(t, "c1", rows[0].CategoryID)

		_, err = svc.Commit(ctx, userID, raw, []common.ParsedTransaction{
			{Direction: common.DirectionExpense, Amount: decimal.NewFromInt(20), CategoryID: "c2"},
		}, cats)
		assert.ErrorIs(t, err, common.ErrBadRequest)

		_, err = svc.Commit(ctx, userID, raw, []common.ParsedTransaction{
			{Direction: common.DirectionExpense, Amount: decimal.NewFromInt(20), CategoryID: "food"},
		}, cats)
		assert.ErrorIs(t, err, common.ErrBadRequest)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects invalid input before storing", func(t *testing.T) {
		svc, mockRepo := setupCaptureServiceTest()
		cases := []struct {
			name string
			user uuid.UUID
			txs  []common.ParsedTransaction
			err  error
		}{
			{"no user", uuid.Nil, []common.ParsedTransaction{{Direction: common.DirectionExpense, Amount: decimal.NewFromInt(1)}}, common.ErrUnauthenticated},
			{"empty", userID, nil, common.ErrBadRequest},
			{"zero amount", userID, []common.ParsedTransaction{{Direction: common.DirectionExpense, CategoryID: "food"}}, common.ErrInvalidAmount},
			{"bad direction", userID, []common.ParsedTransaction{{Direction: "gift", Amount: decimal.NewFromInt(1)}}, common.ErrInvalidDirection},
			{"unknown category", userID, []common.ParsedTransaction{{Direction: common.DirectionExpense, Amount: decimal.NewFromInt(1), CategoryID: "yachts"}}, common.ErrBadRequest},
			{"wrong direction category", userID, []common.ParsedTransaction{{Direction: common.DirectionExpense, Amount: decimal.NewFromInt(1), CategoryID: "salary"}}, common.ErrBadRequest},
			{"second invalid", userID, []common.ParsedTransaction{
				{Direction: common.DirectionExpense, Amount: decimal.NewFromInt(1), CategoryID: "food"},
				{Direction: common.DirectionExpense, Amount: decimal.NewFromInt(2_000_000), CategoryID: "food"},
			}, common.ErrInvalidAmount},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.Commit(ctx, tc.user, raw, tc.txs, nil)
				assert.ErrorIs(t, err, tc.err)
			})
		}
		mockRepo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	})

	t.Run("repository failure", func(t *testing.T) {
		svc, mockRepo := setupCaptureServiceTest()
		dbErr := errors.New("connection reset")
		mockRepo.On("Put", mock.Anything, mock.Anything).Return(dbErr).Once()

		_, err := svc.Commit(ctx, userID, raw, []common.ParsedTransaction{
			{Direction: common.DirectionExpense, Amount: decimal.NewFromInt(20), CategoryID: "food"},
		}, nil)
		assert.ErrorIs(t, err, dbErr)
		mockRepo.AssertExpectations(t)
	})
}

func TestCaptureService_GetTransaction(t *testing.T) {
	svc, mockRepo := setupCaptureServiceTest()
	ctx := context.Background()
	userID, id := uuid.New(), uuid.New()

	t.Run("success", func(t *testing.T) {
		expected := &repository.Transaction{ID: id, UserID: userID, AmountMinor: 2000}
		mockRepo.On("Get", mock.Anything, userID, id).Return(expected, nil).Once()

		tx, err := svc.GetTransaction(ctx, userID, id)
		require.NoError(t, err)
		assert.Equal(t, expected, tx)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.On("Get", mock.Anything, userID, id).Return(nil, common.ErrNotFound).Once()

		_, err := svc.GetTransaction(ctx, userID, id)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	mockRepo.AssertExpectations(t)
}

func TestCaptureService_ListTransactions(t *testing.T) {
	svc, mockRepo := setupCaptureServiceTest()
	ctx := context.Background()
	userID := uuid.New()

	rows := []*repository.Transaction{{UserID: userID}, {UserID: userID}}
	mockRepo.On("ListByUser", mock.Anything, userID, 20).Return(rows, nil).Once()

	got, err := svc.ListTransactions(ctx, userID, 20)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	mockRepo.AssertExpectations(t)
}
