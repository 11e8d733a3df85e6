// Package service wraps the capture parser with catalog lookup, persistence,
// logging, tracing and metrics.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/batch"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/catalog"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/parser"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/repository"
	"github.com/FACorreiaa/echo-capture/internal/domain/common"
	"github.com/FACorreiaa/echo-capture/pkg/observability"
)

// Ensure implementation satisfies the interface
var _ CaptureService = (*CaptureServiceImpl)(nil)

// CaptureService defines the capture use cases exposed to handlers and the CLI.
type CaptureService interface {
	Parse(ctx context.Context, userID uuid.UUID, text string, cats []common.Category) common.ParseResult
	ParseBatch(ctx context.Context, userID uuid.UUID, data []byte, opts batch.Options) (*batch.Result, error)
	Suggest(ctx context.Context, text string, dir common.Direction, cats []common.Category) (string, error)
	Commit(ctx context.Context, userID uuid.UUID, rawText string, txs []common.ParsedTransaction, cats []common.Category) ([]*repository.Transaction, error)
	GetTransaction(ctx context.Context, userID, id uuid.UUID) (*repository.Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*repository.Transaction, error)
}

// CaptureServiceImpl provides the implementation for CaptureService.
type CaptureServiceImpl struct {
	logger  *slog.Logger
	repo    repository.TransactionRepository
	catalog *catalog.Catalog
	parser  *parser.Parser
	tracer  trace.Tracer
}

// NewCaptureService creates a capture service. A nil catalog means the
// built-in default catalog and a nil parser means the default parser.
func NewCaptureService(repo repository.TransactionRepository, cat *catalog.Catalog, p *parser.Parser, logger *slog.Logger) *CaptureServiceImpl {
	if cat == nil {
		cat = catalog.Default()
	}
	if p == nil {
		p = parser.NewParser()
	}
	return &CaptureServiceImpl{
		logger:  logger,
		repo:    repo,
		catalog: cat,
		parser:  p,
		tracer:  otel.Tracer("echo/capture"),
	}
}

// Catalog returns the categories used when callers don't send their own.
func (s *CaptureServiceImpl) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *CaptureServiceImpl) categories(cats []common.Category) []common.Category {
	if len(cats) > 0 {
		return cats
	}
	return s.catalog.Categories
}

// Parse extracts transactions from text. It never fails; an utterance with no
// amount yields an empty result.
func (s *CaptureServiceImpl) Parse(ctx context.Context, userID uuid.UUID, text string, cats []common.Category) common.ParseResult {
	ctx, span := s.tracer.Start(ctx, "CaptureService.Parse")
	defer span.End()

	l := s.logger.With(slog.String("method", "Parse"), slog.String("userID", userID.String()))
	l.DebugContext(ctx, "Parsing captured text", slog.Int("length", len(text)))

	result := s.parser.Parse(text, s.categories(cats))
	span.SetAttributes(attribute.Int("capture.transactions", len(result.Transactions)))

	if len(result.Transactions) == 0 {
		observability.CaptureOperationsTotal.WithLabelValues("parse", observability.OutcomeEmpty).Inc()
		l.InfoContext(ctx, "No transactions found in captured text")
		return result
	}

	observability.CaptureOperationsTotal.WithLabelValues("parse", observability.OutcomeOK).Inc()
	for _, tx := range result.Transactions {
		observability.CapturedTransactionsTotal.WithLabelValues(string(tx.Direction), tx.CategoryID).Inc()
	}
	l.InfoContext(ctx, "Captured text parsed", slog.Int("transactions", len(result.Transactions)))
	return result
}

// ParseBatch runs the parser over an exported notes file. Rows that fail are
// reported in the result; only an unreadable file is an error.
func (s *CaptureServiceImpl) ParseBatch(ctx context.Context, userID uuid.UUID, data []byte, opts batch.Options) (*batch.Result, error) {
	ctx, span := s.tracer.Start(ctx, "CaptureService.ParseBatch")
	defer span.End()

	l := s.logger.With(slog.String("method", "ParseBatch"), slog.String("userID", userID.String()))
	l.InfoContext(ctx, "Parsing batch", slog.Int("size", len(data)))

	res, err := batch.Run(ctx, data, s.parser, s.catalog.Categories, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, batch.ErrEmptyFile) || errors.Is(err, batch.ErrNoTextColumn) ||
			errors.Is(err, batch.ErrTooManyRows) || errors.Is(err, batch.ErrLineTooLong) {
			observability.CaptureOperationsTotal.WithLabelValues("batch", observability.OutcomeInvalid).Inc()
			l.WarnContext(ctx, "Rejected batch", slog.Any("error", err))
			return nil, fmt.Errorf("%w: %w", common.ErrBadRequest, err)
		}
		observability.CaptureOperationsTotal.WithLabelValues("batch", observability.OutcomeError).Inc()
		l.ErrorContext(ctx, "Failed to parse batch", slog.Any("error", err))
		return nil, fmt.Errorf("error parsing batch: %w", err)
	}

	outcome := observability.OutcomeOK
	if res.Transactions == 0 {
		outcome = observability.OutcomeEmpty
	}
	observability.CaptureOperationsTotal.WithLabelValues("batch", outcome).Inc()
	for _, row := range res.Rows {
		for _, tx := range row.Result.Transactions {
			observability.CapturedTransactionsTotal.WithLabelValues(string(tx.Direction), tx.CategoryID).Inc()
		}
	}

	span.SetAttributes(
		attribute.Int("capture.rows", res.RowsTotal),
		attribute.Int("capture.transactions", res.Transactions),
	)
	l.InfoContext(ctx, "Batch parsed",
		slog.Int("rows", res.RowsTotal),
		slog.Int("matched", res.RowsMatched),
		slog.Int("failed", res.RowsFailed))
	return res, nil
}

// Suggest returns the best category id for text in the given direction.
func (s *CaptureServiceImpl) Suggest(ctx context.Context, text string, dir common.Direction, cats []common.Category) (string, error) {
	ctx, span := s.tracer.Start(ctx, "CaptureService.Suggest")
	defer span.End()

	l := s.logger.With(slog.String("method", "Suggest"))

	parsed, err := common.ParseDirection(string(dir))
	if err != nil {
		observability.CaptureOperationsTotal.WithLabelValues("suggest", observability.OutcomeInvalid).Inc()
		span.SetStatus(codes.Error, err.Error())
		l.WarnContext(ctx, "Rejected suggestion request", slog.Any("error", err))
		return "", err
	}

	id := s.parser.SuggestCategory(text, s.categories(cats), parsed)
	span.SetAttributes(attribute.String("capture.category", id))
	observability.CaptureOperationsTotal.WithLabelValues("suggest", observability.OutcomeOK).Inc()
	l.DebugContext(ctx, "Category suggested", slog.String("category", id))
	return id, nil
}

// Commit validates and stores the transactions a user confirmed. Category ids
// are checked against cats, or the configured catalog when cats is empty, so
// a client that parsed with its own categories commits with the same list.
// Nothing is stored when any transaction is invalid.
func (s *CaptureServiceImpl) Commit(ctx context.Context, userID uuid.UUID, rawText string, txs []common.ParsedTransaction, cats []common.Category) ([]*repository.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "CaptureService.Commit")
	defer span.End()

	l := s.logger.With(slog.String("method", "Commit"), slog.String("userID", userID.String()))

	rows, err := s.validate(userID, rawText, txs, s.categories(cats))
	if err != nil {
		observability.CaptureOperationsTotal.WithLabelValues("commit", observability.OutcomeInvalid).Inc()
		span.SetStatus(codes.Error, err.Error())
		l.WarnContext(ctx, "Rejected commit", slog.Any("error", err))
		return nil, err
	}

	for _, row := range rows {
		if err := s.repo.Put(ctx, row); err != nil {
			observability.CaptureOperationsTotal.WithLabelValues("commit", observability.OutcomeError).Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			l.ErrorContext(ctx, "Failed to store transaction", slog.Any("error", err))
			return nil, fmt.Errorf("error storing transaction: %w", err)
		}
	}

	observability.CaptureOperationsTotal.WithLabelValues("commit", observability.OutcomeOK).Inc()
	span.SetAttributes(attribute.Int("capture.transactions", len(rows)))
	l.InfoContext(ctx, "Transactions committed", slog.Int("count", len(rows)))
	return rows, nil
}

func (s *CaptureServiceImpl) validate(userID uuid.UUID, rawText string, txs []common.ParsedTransaction, cats []common.Category) ([]*repository.Transaction, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing user", common.ErrUnauthenticated)
	}
	if len(txs) == 0 {
		return nil, fmt.Errorf("%w: no transactions to commit", common.ErrBadRequest)
	}

	rows := make([]*repository.Transaction, 0, len(txs))
	for i, tx := range txs {
		row, err := repository.NewTransaction(userID, rawText, tx)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		if row.CategoryID != row.Direction.FallbackCategoryID() {
			cat, ok := findCategory(cats, row.CategoryID)
			if !ok {
				return nil, fmt.Errorf("%w: transaction %d: unknown category %q", common.ErrBadRequest, i, row.CategoryID)
			}
			if cat.Direction != row.Direction {
				return nil, fmt.Errorf("%w: transaction %d: category %q is not %s", common.ErrBadRequest, i, row.CategoryID, row.Direction)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func findCategory(cats []common.Category, id string) (common.Category, bool) {
	for _, c := range cats {
		if c.ID == id {
			return c, true
		}
	}
	return common.Category{}, false
}

// GetTransaction returns one of the user's stored transactions.
func (s *CaptureServiceImpl) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*repository.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "CaptureService.GetTransaction")
	defer span.End()

	l := s.logger.With(slog.String("method", "GetTransaction"), slog.String("userID", userID.String()), slog.String("id", id.String()))
	l.DebugContext(ctx, "Fetching transaction")

	tx, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		l.ErrorContext(ctx, "Failed to fetch transaction", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching transaction: %w", err)
	}
	return tx, nil
}

// ListTransactions returns the user's latest transactions, newest first.
func (s *CaptureServiceImpl) ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*repository.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "CaptureService.ListTransactions")
	defer span.End()

	l := s.logger.With(slog.String("method", "ListTransactions"), slog.String("userID", userID.String()))

	txs, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		l.ErrorContext(ctx, "Failed to list transactions", slog.Any("error", err))
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}
	l.DebugContext(ctx, "Transactions listed", slog.Int("count", len(txs)))
	return txs, nil
}
