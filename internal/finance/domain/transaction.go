package domain

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sebuszqo/FinanceDRE/internal/finance/errors"
	"github.com/shopspring/decimal"
)

// amountScale and maxAmount match the NUMERIC(14,2) column.
const amountScale = 2

var maxAmount = decimal.New(1, 12)

type TransactionRepository interface {
	Save(ctx context.Context, transaction *Transaction) error
	FindByUser(ctx context.Context, userID int64) ([]Transaction, error)
	FindByID(ctx context.Context, transactionID int64) (*Transaction, error)
	Update(ctx context.Context, transaction *Transaction) error
	Delete(ctx context.Context, transactionID int64) error
	// FindStatementEntries returns the user's transactions dated within
	// [from, to], both ends inclusive, each with its category type.
	FindStatementEntries(ctx context.Context, userID int64, from, to time.Time) ([]StatementEntry, error)
}

type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	CategoryID  int64           `json:"categoryId"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    *Category       `json:"category,omitempty"`
}

// TransactionPatch carries the fields of a partial update; nil means unchanged.
type TransactionPatch struct {
	CategoryID  *int64           `json:"categoryId"`
	Date        *string          `json:"date"`
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
}

func (t *Transaction) RoundAmount() {
	t.Amount = t.Amount.Round(amountScale)
}

func (t *Transaction) Validate() error {
	ve := &errors.ValidationErrors{}
	t.Description = strings.TrimSpace(t.Description)
	if t.Description == "" {
		ve.Add(errors.NewValidationError("Description must not be empty"))
	}
	if utf8.RuneCountInString(t.Description) > 200 {
		ve.Add(errors.NewValidationError("Description must be at most 200 characters"))
	}
	if t.CategoryID <= 0 {
		ve.Add(errors.NewValidationError("CategoryID must be a positive integer"))
	}
	if t.Date.IsZero() {
		ve.Add(errors.NewValidationError("Date is required"))
	}
	if t.Amount.Abs().GreaterThanOrEqual(maxAmount) {
		ve.Add(errors.ErrAmountOutOfRange)
	}
	return ve.Err()
}

// Apply copies every set field of p onto t.
func (p TransactionPatch) Apply(t *Transaction) error {
	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
	if p.Date != nil {
		date, err := ParseDate(*p.Date)
		if err != nil {
			return err
		}
		t.Date = date
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	return nil
}
