package user

import (
	"context"
	"sync"
)

// Mock is an in-memory Store used in tests.
type Mock struct {
	mu    sync.Mutex
	users map[string]*User
}

// NewMock creates an empty in-memory store.
func NewMock() *Mock {
	return &Mock{users: map[string]*User{}}
}

func (m *Mock) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return ErrEmailExists
	}
	cp := *u
	m.users[u.Email] = &cp
	return nil
}

func (m *Mock) FindByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *Mock) UpdateProfile(_ context.Context, email string, apply func(*Profile) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return ErrUserNotFound
	}
	prof := u.Profile
	if err := apply(&prof); err != nil {
		return err
	}
	u.Profile = prof
	return nil
}

func (m *Mock) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[email]; !ok {
		return ErrUserNotFound
	}
	delete(m.users, email)
	return nil
}
