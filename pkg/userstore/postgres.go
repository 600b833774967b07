package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idfront/idfront/pkg/flow"
)

// uniqueViolation is the Postgres error code raised when the users_email
// unique index rejects a duplicate.
const uniqueViolation = "23505"

// Postgres implements flow.UserStore on the users table (see pkg/pg
// migrations).
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a user store backed by the given pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const userColumns = `id, email, password_hash, email_verified_at, given_name, family_name, phone_number, job, created_at`

func scanUser(row pgx.Row) (*flow.User, error) {
	var user flow.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.EmailVerifiedAt,
		&user.GivenName,
		&user.FamilyName,
		&user.PhoneNumber,
		&user.Job,
		&user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, flow.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	return &user, nil
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (*flow.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(s.pool.QueryRow(ctx, q, email))
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*flow.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.pool.QueryRow(ctx, q, id))
}

func (s *Postgres) Create(ctx context.Context, email string, passwordHash []byte) (*flow.User, error) {
	q := `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	user, err := scanUser(s.pool.QueryRow(ctx, q, uuid.New(), email, passwordHash, time.Now()))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, flow.ErrEmailAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

func (s *Postgres) UpdateFields(ctx context.Context, id uuid.UUID, info flow.PersonalInformation) (*flow.User, error) {
	q := `
		UPDATE users
		SET given_name = $2, family_name = $3, phone_number = $4, job = $5
		WHERE id = $1
		RETURNING ` + userColumns

	return scanUser(s.pool.QueryRow(ctx, q, id, info.GivenName, info.FamilyName, info.PhoneNumber, info.Job))
}

func (s *Postgres) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) (*flow.User, error) {
	q := `
		UPDATE users
		SET password_hash = $2
		WHERE id = $1
		RETURNING ` + userColumns

	return scanUser(s.pool.QueryRow(ctx, q, id, hash))
}

func (s *Postgres) MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) (*flow.User, error) {
	q := `
		UPDATE users
		SET email_verified_at = $2
		WHERE id = $1
		RETURNING ` + userColumns

	return scanUser(s.pool.QueryRow(ctx, q, id, at))
}
