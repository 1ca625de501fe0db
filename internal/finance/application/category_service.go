package application

import (
	"context"

	"github.com/sebuszqo/FinanceDRE/internal/finance/domain"
)

type CategoryService struct {
	repo domain.CategoryRepository
}

func NewCategoryService(repo domain.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) GetAllCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, categoryID int64) (*domain.Category, error) {
	return s.repo.FindByID(ctx, categoryID)
}

func (s *CategoryService) CreateCategory(ctx context.Context, category *domain.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	return s.repo.Create(ctx, category)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, category *domain.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, category)
}

func (s *CategoryService) DeleteCategory(ctx context.Context, categoryID int64) error {
	return s.repo.Delete(ctx, categoryID)
}

// DefaultCategories is the starter chart of accounts applied by SeedDefaultCategories.
var DefaultCategories = []domain.Category{
	{Name: "Vendas", Type: domain.CategoryTypeRevenue},
	{Name: "Devoluções", Type: domain.CategoryTypeRevenue},
	{Name: "CMV", Type: domain.CategoryTypeCost},
	{Name: "Despesas Administrativas", Type: domain.CategoryTypeExpense},
	{Name: "Outras Despesas Operacionais", Type: domain.CategoryTypeExpense},
}

// SeedDefaultCategories upserts DefaultCategories by name and can run on every start.
func (s *CategoryService) SeedDefaultCategories(ctx context.Context) (int, error) {
	for i, category := range DefaultCategories {
		c := category
		if err := s.repo.Upsert(ctx, &c); err != nil {
			return i, err
		}
	}
	return len(DefaultCategories), nil
}
