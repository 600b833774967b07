package userstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/idfront/idfront/pkg/flow"
)

// Memory implements flow.UserStore with in-process storage.
type Memory struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*flow.User
	byEmail map[string]uuid.UUID
}

// NewMemory creates an empty in-memory user store.
func NewMemory() *Memory {
	return &Memory{
		byID:    make(map[uuid.UUID]*flow.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (m *Memory) FindByEmail(ctx context.Context, email string) (*flow.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, flow.ErrUserNotFound
	}
	return copyUser(m.byID[id]), nil
}

func (m *Memory) FindByID(ctx context.Context, id uuid.UUID) (*flow.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byID[id]
	if !ok {
		return nil, flow.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (m *Memory) Create(ctx context.Context, email string, passwordHash []byte) (*flow.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[email]; exists {
		return nil, flow.ErrEmailAlreadyExists
	}

	user := &flow.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: append([]byte(nil), passwordHash...),
		CreatedAt:    time.Now(),
	}

	m.byID[user.ID] = user
	m.byEmail[email] = user.ID
	return copyUser(user), nil
}

func (m *Memory) UpdateFields(ctx context.Context, id uuid.UUID, info flow.PersonalInformation) (*flow.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.byID[id]
	if !ok {
		return nil, flow.ErrUserNotFound
	}

	user.GivenName = info.GivenName
	user.FamilyName = info.FamilyName
	user.PhoneNumber = info.PhoneNumber
	user.Job = info.Job
	return copyUser(user), nil
}

func (m *Memory) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) (*flow.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.byID[id]
	if !ok {
		return nil, flow.ErrUserNotFound
	}

	user.PasswordHash = append([]byte(nil), hash...)
	return copyUser(user), nil
}

func (m *Memory) MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) (*flow.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.byID[id]
	if !ok {
		return nil, flow.ErrUserNotFound
	}

	verifiedAt := at
	user.EmailVerifiedAt = &verifiedAt
	return copyUser(user), nil
}

func copyUser(u *flow.User) *flow.User {
	userCopy := *u
	userCopy.PasswordHash = append([]byte(nil), u.PasswordHash...)
	if u.EmailVerifiedAt != nil {
		at := *u.EmailVerifiedAt
		userCopy.EmailVerifiedAt = &at
	}
	return &userCopy
}
