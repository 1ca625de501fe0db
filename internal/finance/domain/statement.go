package domain

import (
	"fmt"
	"time"

	"github.com/sebuszqo/FinanceDRE/internal/finance/errors"
	"github.com/shopspring/decimal"
)

var (
	// StatementStart and StatementEnd bound a statement request that omits from or to.
	StatementStart = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	StatementEnd   = time.Date(2999, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// StatementEntry is a transaction reduced to what the income statement needs.
type StatementEntry struct {
	TransactionID int64
	Date          time.Time
	Amount        decimal.Decimal
	CategoryType  CategoryType
}

type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type Totals struct {
	ReceitaBruta decimal.Decimal `json:"receitaBruta"`
	Custo        decimal.Decimal `json:"custo"`
	LucroBruto   decimal.Decimal `json:"lucroBruto"`
	Despesa      decimal.Decimal `json:"despesa"`
	Resultado    decimal.Decimal `json:"resultado"`
}

type Breakdown struct {
	Revenue decimal.Decimal `json:"REVENUE"`
	Cost    decimal.Decimal `json:"COST"`
	Expense decimal.Decimal `json:"EXPENSE"`
}

// IncomeStatement is the DRE of one user over one period.
type IncomeStatement struct {
	Period    Period    `json:"period"`
	Totals    Totals    `json:"totals"`
	Breakdown Breakdown `json:"breakdown"`
}

// ComputeIncomeStatement sums entries per category type and derives the
// statement totals. Entries dated outside [from, to] are ignored, so a
// reversed period always yields zeros. An entry with an unknown category type
// fails the whole computation.
func ComputeIncomeStatement(from, to time.Time, entries []StatementEntry) (*IncomeStatement, error) {
	var breakdown Breakdown
	for _, entry := range entries {
		if entry.Date.Before(from) || entry.Date.After(to) {
			continue
		}
		switch entry.CategoryType {
		case CategoryTypeRevenue:
			breakdown.Revenue = breakdown.Revenue.Add(entry.Amount)
		case CategoryTypeCost:
			breakdown.Cost = breakdown.Cost.Add(entry.Amount)
		case CategoryTypeExpense:
			breakdown.Expense = breakdown.Expense.Add(entry.Amount)
		default:
			return nil, &errors.IntegrityError{
				TransactionID: entry.TransactionID,
				Msg:           fmt.Sprintf("unknown category type %q", entry.CategoryType),
			}
		}
	}

	lucroBruto := breakdown.Revenue.Sub(breakdown.Cost)
	return &IncomeStatement{
		Period: Period{From: from, To: to},
		Totals: Totals{
			ReceitaBruta: breakdown.Revenue,
			Custo:        breakdown.Cost,
			LucroBruto:   lucroBruto,
			Despesa:      breakdown.Expense,
			Resultado:    lucroBruto.Sub(breakdown.Expense),
		},
		Breakdown: breakdown,
	}, nil
}
