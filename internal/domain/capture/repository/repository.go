// Package repository persists confirmed capture transactions.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/echo-capture/internal/domain/common"
)

const (
	// DefaultCurrency is the currency captured amounts are spoken in.
	DefaultCurrency = "EGP"
	// SourceCapture marks rows that came from the natural-language capture.
	SourceCapture = "capture"

	minorUnits = 2
)

// Transaction is a confirmed capture row.
type Transaction struct {
	ID           uuid.UUID        `db:"id" json:"id"`
	UserID       uuid.UUID        `db:"user_id" json:"user_id"`
	Direction    common.Direction `db:"direction" json:"direction"`
	AmountMinor  int64            `db:"amount_minor" json:"amount_minor"` // always positive; Direction carries the sign
	CurrencyCode string           `db:"currency_code" json:"currency_code"`
	CategoryID   string           `db:"category_id" json:"category_id"`
	Note         string           `db:"note" json:"note,omitempty"`
	RawText      string           `db:"raw_text" json:"raw_text,omitempty"`
	Source       string           `db:"source" json:"source"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
}

// TransactionRepository stores and reads back capture transactions. Get and
// ListByUser only ever return rows owned by userID.
type TransactionRepository interface {
	Put(ctx context.Context, tx *Transaction) error
	Get(ctx context.Context, userID, id uuid.UUID) (*Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Transaction, error)
}

// NewTransaction validates a parsed transaction and converts it into a row.
func NewTransaction(userID uuid.UUID, rawText string, p common.ParsedTransaction) (*Transaction, error) {
	dir, err := common.ParseDirection(string(p.Direction))
	if err != nil {
		return nil, err
	}
	minor, err := ToMinor(p.Amount)
	if err != nil {
		return nil, err
	}
	categoryID := p.CategoryID
	if categoryID == "" {
		categoryID = dir.FallbackCategoryID()
	}

	return &Transaction{
		ID:           uuid.New(),
		UserID:       userID,
		Direction:    dir,
		AmountMinor:  minor,
		CurrencyCode: DefaultCurrency,
		CategoryID:   categoryID,
		Note:         p.Note,
		RawText:      rawText,
		Source:       SourceCapture,
	}, nil
}

// Parsed converts the row back into the extractor's output shape.
func (t *Transaction) Parsed() common.ParsedTransaction {
	return common.ParsedTransaction{
		Direction:  t.Direction,
		Amount:     FromMinor(t.AmountMinor),
		CategoryID: t.CategoryID,
		Note:       t.Note,
	}
}

// ToMinor converts an amount into piasters. It rejects amounts outside
// (0, common.MaxAmount] and amounts with more than two decimal places.
func ToMinor(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() || amount.GreaterThan(decimal.NewFromInt(common.MaxAmount)) {
		return 0, fmt.Errorf("%w: %s", common.ErrInvalidAmount, amount)
	}
	shifted := amount.Shift(minorUnits)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s has more than %d decimals", common.ErrInvalidAmount, amount, minorUnits)
	}
	return shifted.IntPart(), nil
}

// FromMinor converts piasters back into an amount.
func FromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, -minorUnits)
}
