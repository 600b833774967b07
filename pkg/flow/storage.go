package flow

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is the persisted user record the flows operate on. PasswordHash is
// empty for accounts provisioned through a magic link that never set a
// password.
type User struct {
	ID              uuid.UUID
	Email           string
	PasswordHash    []byte
	EmailVerifiedAt *time.Time
	GivenName       string
	FamilyName      string
	PhoneNumber     string
	Job             string
	CreatedAt       time.Time
}

// PersonalInformation is the updatable profile subset of a user record.
type PersonalInformation struct {
	GivenName   string
	FamilyName  string
	PhoneNumber string
	Job         string
}

// UserStore is the persistence contract the flows depend on. Emails are
// unique across records; implementations return ErrUserNotFound and
// ErrEmailAlreadyExists from this package.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	Create(ctx context.Context, email string, passwordHash []byte) (*User, error)
	UpdateFields(ctx context.Context, id uuid.UUID, info PersonalInformation) (*User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) (*User, error)
	MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) (*User, error)
}
