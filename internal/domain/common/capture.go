package common

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Direction tells whether money came in or went out.
type Direction string

const (
	DirectionExpense Direction = "expense"
	DirectionIncome  Direction = "income"
)

// Reserved category ids used when nothing in the catalog matches.
const (
	FallbackExpenseCategoryID = "other"
	FallbackIncomeCategoryID  = "other_income"
)

// MaxAmount is the sanity ceiling for any extracted amount.
const MaxAmount = 1_000_000

// ParseDirection converts user input ("expense", "Income", ...) into a Direction.
func ParseDirection(raw string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(raw))) {
	case DirectionExpense:
		return DirectionExpense, nil
	case DirectionIncome:
		return DirectionIncome, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, raw)
	}
}

// FallbackCategoryID returns the reserved category id for the direction.
func (d Direction) FallbackCategoryID() string {
	if d == DirectionIncome {
		return FallbackIncomeCategoryID
	}
	return FallbackExpenseCategoryID
}

// Category is a caller-supplied catalog entry. The extractor only reads it.
type Category struct {
	ID            string    `json:"id" yaml:"id"`
	CanonicalName string    `json:"canonical_name" yaml:"canonical_name"`
	LocalizedName string    `json:"localized_name" yaml:"localized_name"`
	Direction     Direction `json:"direction" yaml:"direction"`
}

// ContextSignals are the cues found in a piece of text that bias amount
// validation, segmentation and categorization.
type ContextSignals struct {
	HasTimeReference     bool    `json:"has_time_reference"`
	HasLocationReference bool    `json:"has_location_reference"`
	HasPaymentMethod     bool    `json:"has_payment_method"`
	HasQuantityIndicator bool    `json:"has_quantity_indicator"`
	Confidence           float64 `json:"confidence"`
}

// ParsedTransaction is one transaction extracted from an utterance.
type ParsedTransaction struct {
	Direction  Direction       `json:"direction"`
	Amount     decimal.Decimal `json:"amount"`
	CategoryID string          `json:"category_id"`
	Note       string          `json:"note,omitempty"`
}

// ParseResult holds the transactions found in OriginalText, in utterance order.
type ParseResult struct {
	Transactions []ParsedTransaction `json:"transactions"`
	OriginalText string              `json:"original_text"`
}
