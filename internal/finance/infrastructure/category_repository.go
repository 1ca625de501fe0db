package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sebuszqo/FinanceDRE/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceDRE/internal/finance/errors"
)

const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgNumericValueOutRange = "22003"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, type FROM categories ORDER BY name ASC")
	if err != nil {
		return nil, financeErrors.StoreError("find categories", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Type); err != nil {
			return nil, financeErrors.StoreError("scan category", err)
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		return nil, financeErrors.StoreError("find categories", err)
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, categoryID int64) (*domain.Category, error) {
	var category domain.Category
	err := r.db.QueryRowContext(ctx, "SELECT id, name, type FROM categories WHERE id = $1", categoryID).
		Scan(&category.ID, &category.Name, &category.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrCategoryNotFound
		}
		return nil, financeErrors.StoreError("find category", err)
	}
	return &category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO categories (name, type) VALUES ($1, $2) RETURNING id",
		category.Name, category.Type,
	).Scan(&category.ID)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return financeErrors.ErrCategoryNameTaken
		}
		return financeErrors.StoreError("create category", err)
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE categories SET name = $1, type = $2, updated_at = NOW() WHERE id = $3",
		category.Name, category.Type, category.ID,
	)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return financeErrors.ErrCategoryNameTaken
		}
		return financeErrors.StoreError("update category", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return financeErrors.StoreError("update category", err)
	}
	if affected == 0 {
		return financeErrors.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, categoryID int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", categoryID)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return financeErrors.ErrCategoryInUse
		}
		return financeErrors.StoreError("delete category", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return financeErrors.StoreError("delete category", err)
	}
	if affected == 0 {
		return financeErrors.ErrCategoryNotFound
	}
	return nil
}

// Upsert relies on the unique index on categories.name, so concurrent seeds cannot create duplicates.
func (r *CategoryRepository) Upsert(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (name, type)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE
		SET type = EXCLUDED.type, updated_at = NOW()
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, category.Name, category.Type).Scan(&category.ID); err != nil {
		return financeErrors.StoreError("upsert category", err)
	}
	return nil
}
