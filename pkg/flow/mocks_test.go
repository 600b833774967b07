package flow_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/idfront/idfront/pkg/flow"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (*flow.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flow.User), args.Error(1)
}

func (m *mockUserStore) FindByID(ctx context.Context, id uuid.UUID) (*flow.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flow.User), args.Error(1)
}

func (m *mockUserStore) Create(ctx context.Context, email string, passwordHash []byte) (*flow.User, error) {
	args := m.Called(ctx, email, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flow.User), args.Error(1)
}

func (m *mockUserStore) UpdateFields(ctx context.Context, id uuid.UUID, info flow.PersonalInformation) (*flow.User, error) {
	args := m.Called(ctx, id, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flow.User), args.Error(1)
}

func (m *mockUserStore) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) (*flow.User, error) {
	args := m.Called(ctx, id, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flow.User), args.Error(1)
}

func (m *mockUserStore) MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) (*flow.User, error) {
	args := m.Called(ctx, id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flow.User), args.Error(1)
}
