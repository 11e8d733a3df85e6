package repository

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/echo-capture/internal/domain/common"
)

func TestToMinor(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		err      error
	}{
		{"20", 2000, nil},
		{"12.5", 1250, nil},
		{"0.33", 33, nil},
		{"1000000", 100000000, nil},
		{"0", 0, common.ErrInvalidAmount},
		{"-5", 0, common.ErrInvalidAmount},
		{"1000000.01", 0, common.ErrInvalidAmount},
		{"1.005", 0, common.ErrInvalidAmount},
	}

	for _, tc := range tests {
		got, err := ToMinor(decimal.RequireFromString(tc.input))
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Errorf("ToMinor(%s) error = %v, want %v", tc.input, err, tc.err)
			}
			continue
		}
		if err != nil || got != tc.expected {
			t.Errorf("ToMinor(%s) = (%d, %v), want %d", tc.input, got, err, tc.expected)
		}
	}
}

func TestNewTransaction(t *testing.T) {
	userID := uuid.New()
	p := common.ParsedTransaction{
		Direction:  common.DirectionIncome,
		Amount:     decimal.NewFromInt(1000),
		CategoryID: "salary",
		Note:       "قبضت المرتب الف جنيه",
	}

	tx, err := NewTransaction(userID, "قبضت المرتب الف جنيه", p)
	if err != nil {
		t.Fatalf("NewTransaction: %v", err)
	}
	if tx.UserID != userID || tx.AmountMinor != 100000 || tx.CurrencyCode != DefaultCurrency {
		t.Fatalf("unexpected row: %+v", tx)
	}

	back := tx.Parsed()
	if !back.Amount.Equal(p.Amount) || back.Direction != p.Direction || back.CategoryID != p.CategoryID {
		t.Fatalf("Parsed() = %+v, want %+v", back, p)
	}
}

func TestNewTransaction_Invalid(t *testing.T) {
	_, err := NewTransaction(uuid.New(), "", common.ParsedTransaction{Direction: "transfer", Amount: decimal.NewFromInt(1)})
	if !errors.Is(err, common.ErrInvalidDirection) {
		t.Errorf("expected ErrInvalidDirection, got %v", err)
	}

	_, err = NewTransaction(uuid.New(), "", common.ParsedTransaction{Direction: common.DirectionExpense})
	if !errors.Is(err, common.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestNewTransaction_DefaultsCategory(t *testing.T) {
	tx, err := NewTransaction(uuid.New(), "", common.ParsedTransaction{Direction: common.DirectionIncome, Amount: decimal.NewFromInt(5)})
	if err != nil {
		t.Fatalf("NewTransaction: %v", err)
	}
	if tx.CategoryID != common.FallbackIncomeCategoryID {
		t.Errorf("CategoryID = %q, want %q", tx.CategoryID, common.FallbackIncomeCategoryID)
	}
}
