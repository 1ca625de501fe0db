package infrastructure

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sebuszqo/FinanceDRE/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceDRE/internal/finance/errors"
)

// MockCategoryRepository keeps categories in memory. Err, when set, is
// returned by every call.
type MockCategoryRepository struct {
	mu         sync.Mutex
	Categories map[int64]domain.Category
	Err        error
	nextID     int64
}

func NewMockCategoryRepository(categories ...domain.Category) *MockCategoryRepository {
	m := &MockCategoryRepository{Categories: make(map[int64]domain.Category)}
	for _, category := range categories {
		m.Categories[category.ID] = category
		if category.ID > m.nextID {
			m.nextID = category.ID
		}
	}
	return m
}

func (m *MockCategoryRepository) FindAll(_ context.Context) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	categories := make([]domain.Category, 0, len(m.Categories))
	for _, category := range m.Categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (m *MockCategoryRepository) FindByID(_ context.Context, categoryID int64) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	category, ok := m.Categories[categoryID]
	if !ok {
		return nil, financeErrors.ErrCategoryNotFound
	}
	return &category, nil
}

func (m *MockCategoryRepository) nameTaken(name string, exceptID int64) bool {
	for id, category := range m.Categories {
		if category.Name == name && id != exceptID {
			return true
		}
	}
	return false
}

func (m *MockCategoryRepository) Create(_ context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if m.nameTaken(category.Name, 0) {
		return financeErrors.ErrCategoryNameTaken
	}
	m.nextID++
	category.ID = m.nextID
	m.Categories[category.ID] = *category
	return nil
}

func (m *MockCategoryRepository) Update(_ context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Categories[category.ID]; !ok {
		return financeErrors.ErrCategoryNotFound
	}
	if m.nameTaken(category.Name, category.ID) {
		return financeErrors.ErrCategoryNameTaken
	}
	m.Categories[category.ID] = *category
	return nil
}

func (m *MockCategoryRepository) Delete(_ context.Context, categoryID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Categories[categoryID]; !ok {
		return financeErrors.ErrCategoryNotFound
	}
	delete(m.Categories, categoryID)
	return nil
}

func (m *MockCategoryRepository) Upsert(_ context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for id, existing := range m.Categories {
		if existing.Name == category.Name {
			category.ID = id
			m.Categories[id] = *category
			return nil
		}
	}
	m.nextID++
	category.ID = m.nextID
	m.Categories[category.ID] = *category
	return nil
}

func (m *MockCategoryRepository) typeOf(categoryID int64) domain.CategoryType {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Categories[categoryID].Type
}

// MockTransactionRepository keeps transactions in memory and joins them with
// the categories of Categories.
type MockTransactionRepository struct {
	mu           sync.Mutex
	Transactions []domain.Transaction
	Categories   *MockCategoryRepository
	Err          error
	nextID       int64
}

func NewMockTransactionRepository(categories *MockCategoryRepository, transactions ...domain.Transaction) *MockTransactionRepository {
	m := &MockTransactionRepository{Categories: categories, Transactions: transactions}
	for _, transaction := range transactions {
		if transaction.ID > m.nextID {
			m.nextID = transaction.ID
		}
	}
	return m
}

func (m *MockTransactionRepository) withCategory(transaction domain.Transaction) domain.Transaction {
	if category, err := m.Categories.FindByID(context.Background(), transaction.CategoryID); err == nil {
		transaction.Category = category
	}
	return transaction
}

func (m *MockTransactionRepository) Save(_ context.Context, transaction *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, err := m.Categories.FindByID(context.Background(), transaction.CategoryID); err != nil {
		return financeErrors.ErrInvalidCategory
	}
	m.nextID++
	transaction.ID = m.nextID
	m.Transactions = append(m.Transactions, *transaction)
	return nil
}

func (m *MockTransactionRepository) FindByUser(_ context.Context, userID int64) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	transactions := []domain.Transaction{}
	for _, transaction := range m.Transactions {
		if transaction.UserID == userID {
			transactions = append(transactions, m.withCategory(transaction))
		}
	}
	sort.SliceStable(transactions, func(i, j int) bool { return transactions[i].Date.After(transactions[j].Date) })
	return transactions, nil
}

func (m *MockTransactionRepository) FindByID(_ context.Context, transactionID int64) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, transaction := range m.Transactions {
		if transaction.ID == transactionID {
			found := m.withCategory(transaction)
			return &found, nil
		}
	}
	return nil, financeErrors.ErrTransactionNotFound
}

func (m *MockTransactionRepository) Update(_ context.Context, transaction *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, err := m.Categories.FindByID(context.Background(), transaction.CategoryID); err != nil {
		return financeErrors.ErrInvalidCategory
	}
	for i, existing := range m.Transactions {
		if existing.ID == transaction.ID && existing.UserID == transaction.UserID {
			updated := *transaction
			updated.Category = nil
			m.Transactions[i] = updated
			return nil
		}
	}
	return financeErrors.ErrTransactionNotFound
}

func (m *MockTransactionRepository) Delete(_ context.Context, transactionID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i, existing := range m.Transactions {
		if existing.ID == transactionID {
			m.Transactions = append(m.Transactions[:i], m.Transactions[i+1:]...)
			return nil
		}
	}
	return financeErrors.ErrTransactionNotFound
}

func (m *MockTransactionRepository) FindStatementEntries(ctx context.Context, userID int64, from, to time.Time) ([]domain.StatementEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, financeErrors.StoreError("find statement entries", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var entries []domain.StatementEntry
	for _, transaction := range m.Transactions {
		if transaction.UserID != userID || transaction.Date.Before(from) || transaction.Date.After(to) {
			continue
		}
		entries = append(entries, domain.StatementEntry{
			TransactionID: transaction.ID,
			Date:          transaction.Date,
			Amount:        transaction.Amount,
			CategoryType:  m.Categories.typeOf(transaction.CategoryID),
		})
	}
	return entries, nil
}
