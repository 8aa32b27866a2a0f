package user

import (
	"context"
	"crypto/subtle"

	"github.com/google/uuid"
)

// Store persists user/profile pairs. Mutating operations are atomic over both
// records: if either write fails, neither is persisted.
type Store interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	// UpdateProfile loads the profile for email, runs apply on it, and writes
	// it back in the same transaction. An error from apply aborts the write.
	UpdateProfile(ctx context.Context, email string, apply func(*Profile) error) error
	Delete(ctx context.Context, email string) error
}

// Manager owns the user/profile aggregate lifecycle.
type Manager struct {
	store Store
}

// NewManager creates a Manager backed by store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Create registers a new user with its profile and returns the generated ID.
// The store's unique constraint on email is the authoritative duplicate guard:
// a concurrent create with the same email surfaces as ErrEmailExists here.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (uuid.UUID, error) {
	if fe := req.Validate(); fe != nil {
		return uuid.Nil, fe
	}
	u := NewUser(req)
	if err := m.store.Create(ctx, u); err != nil {
		return uuid.Nil, err
	}
	return u.ID, nil
}

// Update applies a sparse profile patch. Fields absent from the request keep
// their prior values; the patched profile is re-validated before commit.
func (m *Manager) Update(ctx context.Context, req UpdateRequest) error {
	if fe := req.Validate(); fe != nil {
		return fe
	}
	return m.store.UpdateProfile(ctx, NormalizeEmail(req.Email), func(p *Profile) error {
		req.apply(p)
		if fe := validateProfile(*p); fe != nil {
			return fe
		}
		return nil
	})
}

// Delete removes the user and its profile in one transaction.
func (m *Manager) Delete(ctx context.Context, email string) error {
	return m.store.Delete(ctx, NormalizeEmail(email))
}

// GetProfile returns the profile view for email. Credential material is never
// part of the view.
func (m *Manager) GetProfile(ctx context.Context, email string) (Profile, error) {
	u, err := m.store.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return Profile{}, err
	}
	return u.Profile, nil
}

// ValidateCredentials reports whether the supplied password matches the stored
// credential. It returns ErrUserNotFound when no account matches the email.
func (m *Manager) ValidateCredentials(ctx context.Context, email, password string) (bool, error) {
	u, err := m.store.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(u.PasswordHash), []byte(password)) == 1, nil
}
