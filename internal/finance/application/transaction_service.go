package application

import (
	"context"
	"errors"

	"github.com/sebuszqo/FinanceDRE/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceDRE/internal/finance/errors"
)

type CategoryServiceInterface interface {
	GetCategory(ctx context.Context, categoryID int64) (*domain.Category, error)
}

type TransactionService struct {
	repo            domain.TransactionRepository
	categoryService CategoryServiceInterface
}

func NewTransactionService(repo domain.TransactionRepository, categoryService CategoryServiceInterface) *TransactionService {
	return &TransactionService{repo: repo, categoryService: categoryService}
}

func (s *TransactionService) checkCategory(ctx context.Context, categoryID int64) (*domain.Category, error) {
	category, err := s.categoryService.GetCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, financeErrors.ErrCategoryNotFound) {
			return nil, financeErrors.ErrInvalidCategory
		}
		return nil, err
	}
	return category, nil
}

func (s *TransactionService) CreateTransaction(ctx context.Context, transaction *domain.Transaction) error {
	transaction.RoundAmount()
	if err := transaction.Validate(); err != nil {
		return err
	}
	category, err := s.checkCategory(ctx, transaction.CategoryID)
	if err != nil {
		return err
	}
	if err := s.repo.Save(ctx, transaction); err != nil {
		return err
	}
	transaction.Category = category
	return nil
}

func (s *TransactionService) GetUserTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	transactions, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		return []domain.Transaction{}, nil
	}
	return transactions, nil
}

// getOwned loads a transaction and checks that userID owns it.
func (s *TransactionService) getOwned(ctx context.Context, userID, transactionID int64) (*domain.Transaction, error) {
	transaction, err := s.repo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.UserID != userID {
		return nil, financeErrors.ErrForbidden
	}
	return transaction, nil
}

func (s *TransactionService) UpdateTransaction(ctx context.Context, userID, transactionID int64, patch domain.TransactionPatch) (*domain.Transaction, error) {
	transaction, err := s.getOwned(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := patch.Apply(transaction); err != nil {
		return nil, err
	}
	transaction.RoundAmount()
	if err := transaction.Validate(); err != nil {
		return nil, err
	}
	category, err := s.checkCategory(ctx, transaction.CategoryID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, transaction); err != nil {
		return nil, err
	}
	transaction.Category = category
	return transaction, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, transactionID int64) error {
	if _, err := s.getOwned(ctx, userID, transactionID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, transactionID)
}
