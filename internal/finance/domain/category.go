package domain

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/sebuszqo/FinanceDRE/internal/finance/errors"
)

type CategoryType string

const (
	CategoryTypeRevenue CategoryType = "REVENUE"
	CategoryTypeCost    CategoryType = "COST"
	CategoryTypeExpense CategoryType = "EXPENSE"
)

// CategoryTypes lists every known type in statement order.
var CategoryTypes = []CategoryType{CategoryTypeRevenue, CategoryTypeCost, CategoryTypeExpense}

func (t CategoryType) IsValid() bool {
	switch t {
	case CategoryTypeRevenue, CategoryTypeCost, CategoryTypeExpense:
		return true
	}
	return false
}

type Category struct {
	ID   int64        `json:"id"`
	Name string       `json:"name"`
	Type CategoryType `json:"type"`
}

func (c *Category) Validate() error {
	ve := &errors.ValidationErrors{}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		ve.Add(errors.NewValidationError("Name must not be empty"))
	}
	if utf8.RuneCountInString(c.Name) > 100 {
		ve.Add(errors.NewValidationError("Name must be at most 100 characters"))
	}
	if !c.Type.IsValid() {
		ve.Add(errors.NewValidationError("Type must be 'REVENUE', 'COST' or 'EXPENSE'"))
	}
	return ve.Err()
}

type CategoryRepository interface {
	FindAll(ctx context.Context) ([]Category, error)
	FindByID(ctx context.Context, categoryID int64) (*Category, error)
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, categoryID int64) error
	// Upsert inserts the category or updates the type of the one with the same name.
	Upsert(ctx context.Context, category *Category) error
}
