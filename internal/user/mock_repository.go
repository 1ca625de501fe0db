package user

import (
	"context"
	"sync"
	"time"
)

// MockRepository keeps users in memory. Err, when set, is returned by every call.
type MockRepository struct {
	mu     sync.Mutex
	Users  map[int64]*User
	Err    error
	nextID int64
}

func NewMockRepository() *MockRepository {
	return &MockRepository{Users: make(map[int64]*User)}
}

func (m *MockRepository) createUser(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, existing := range m.Users {
		if existing.Email == user.Email {
			return ErrEmailAlreadyExists
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	m.Users[user.ID] = &stored
	return nil
}

func (m *MockRepository) getUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, user := range m.Users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *MockRepository) getUserByID(_ context.Context, id int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	user, ok := m.Users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	found := *user
	return &found, nil
}
