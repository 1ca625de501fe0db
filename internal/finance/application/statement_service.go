package application

import (
	"context"
	"time"

	"github.com/sebuszqo/FinanceDRE/internal/finance/domain"
)

type StatementService struct {
	repo domain.TransactionRepository
}

func NewStatementService(repo domain.TransactionRepository) *StatementService {
	return &StatementService{repo: repo}
}

// GetIncomeStatement builds the DRE of userID over [from, to]. Store errors
// are returned as they are; the call is never retried here.
func (s *StatementService) GetIncomeStatement(ctx context.Context, userID int64, from, to time.Time) (*domain.IncomeStatement, error) {
	entries, err := s.repo.FindStatementEntries(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return domain.ComputeIncomeStatement(from, to, entries)
}
