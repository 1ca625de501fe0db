package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sebuszqo/FinanceDRE/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceDRE/internal/finance/errors"
)

const selectTransactionWithCategory = `
	SELECT t.id, t.user_id, t.category_id, t.date, t.description, t.amount, c.id, c.name, c.type
	FROM transactions t
	JOIN categories c ON c.id = t.category_id
`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var transaction domain.Transaction
	var category domain.Category
	err := row.Scan(&transaction.ID, &transaction.UserID, &transaction.CategoryID, &transaction.Date,
		&transaction.Description, &transaction.Amount, &category.ID, &category.Name, &category.Type)
	if err != nil {
		return domain.Transaction{}, err
	}
	transaction.Category = &category
	return transaction, nil
}

func (r *TransactionRepository) Save(ctx context.Context, transaction *domain.Transaction) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO transactions (user_id, category_id, date, description, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		transaction.UserID, transaction.CategoryID, transaction.Date, transaction.Description, transaction.Amount,
	).Scan(&transaction.ID)
	if err != nil {
		switch pgErrorCode(err) {
		case pgForeignKeyViolation:
			return financeErrors.ErrInvalidCategory
		case pgNumericValueOutRange:
			return financeErrors.ErrAmountOutOfRange
		}
		return financeErrors.StoreError("save transaction", err)
	}
	return nil
}

func (r *TransactionRepository) FindByUser(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, selectTransactionWithCategory+`
		WHERE t.user_id = $1
		ORDER BY t.date DESC, t.id DESC`, userID)
	if err != nil {
		return nil, financeErrors.StoreError("find transactions", err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, financeErrors.StoreError("scan transaction", err)
		}
		transactions = append(transactions, transaction)
	}
	if err = rows.Err(); err != nil {
		return nil, financeErrors.StoreError("find transactions", err)
	}
	return transactions, nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	transaction, err := scanTransaction(r.db.QueryRowContext(ctx, selectTransactionWithCategory+`
		WHERE t.id = $1`, transactionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrTransactionNotFound
		}
		return nil, financeErrors.StoreError("find transaction", err)
	}
	return &transaction, nil
}

func (r *TransactionRepository) Update(ctx context.Context, transaction *domain.Transaction) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		SET category_id = $1, date = $2, description = $3, amount = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6`,
		transaction.CategoryID, transaction.Date, transaction.Description, transaction.Amount,
		transaction.ID, transaction.UserID,
	)
	if err != nil {
		switch pgErrorCode(err) {
		case pgForeignKeyViolation:
			return financeErrors.ErrInvalidCategory
		case pgNumericValueOutRange:
			return financeErrors.ErrAmountOutOfRange
		}
		return financeErrors.StoreError("update transaction", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return financeErrors.StoreError("update transaction", err)
	}
	if affected == 0 {
		return financeErrors.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, transactionID int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = $1", transactionID)
	if err != nil {
		return financeErrors.StoreError("delete transaction", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return financeErrors.StoreError("delete transaction", err)
	}
	if affected == 0 {
		return financeErrors.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) FindStatementEntries(ctx context.Context, userID int64, from, to time.Time) ([]domain.StatementEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.date, t.amount, c.type
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.date >= $2 AND t.date <= $3`,
		userID, from, to,
	)
	if err != nil {
		return nil, financeErrors.StoreError("find statement entries", err)
	}
	defer rows.Close()

	var entries []domain.StatementEntry
	for rows.Next() {
		var entry domain.StatementEntry
		if err := rows.Scan(&entry.TransactionID, &entry.Date, &entry.Amount, &entry.CategoryType); err != nil {
			return nil, financeErrors.StoreError("scan statement entry", err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, financeErrors.StoreError("find statement entries", err)
	}
	return entries, nil
}
