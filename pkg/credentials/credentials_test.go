package credentials_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/idfront/idfront/pkg/credentials"
)

func TestCheckStrength(t *testing.T) {
	t.Parallel()

	guard := credentials.New()

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"long enough", "correct-horse-battery", nil},
		{"exactly at minimum", "1234567890", nil},
		{"one short", "123456789", credentials.ErrWeakPassword},
		{"empty", "", credentials.ErrPasswordRequired},
		{"multi-byte counted in runes", "motdepassé", nil}, // 10 runes, 11 bytes
		{"multi-byte still too short", "passé1234", credentials.ErrWeakPassword},
		{"exactly at bcrypt cap", strings.Repeat("a", 72), nil},
		{"over bcrypt cap", strings.Repeat("a", 73), credentials.ErrPasswordTooLong},
		{"multi-byte over cap in bytes", strings.Repeat("é", 40), credentials.ErrPasswordTooLong}, // 40 runes, 80 bytes
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := guard.CheckStrength(tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("custom minimum length", func(t *testing.T) {
		t.Parallel()

		short := credentials.New(credentials.WithMinLength(4))
		assert.NoError(t, short.CheckStrength("abcd"))
		assert.ErrorIs(t, short.CheckStrength("abc"), credentials.ErrWeakPassword)
	})
}

func TestIsPolicyViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, credentials.IsPolicyViolation(credentials.ErrWeakPassword))
	assert.True(t, credentials.IsPolicyViolation(credentials.ErrPasswordTooLong))
	assert.True(t, credentials.IsPolicyViolation(credentials.ErrPasswordRequired))
	assert.False(t, credentials.IsPolicyViolation(errors.New("connection refused")))
	assert.False(t, credentials.IsPolicyViolation(nil))
}

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	guard := credentials.New(credentials.WithBcryptCost(bcrypt.MinCost))

	hash, err := guard.Hash("correct-horse-battery")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotContains(t, string(hash), "correct-horse-battery")

	assert.True(t, guard.Verify("correct-horse-battery", hash))
	assert.False(t, guard.Verify("wrong-password", hash))
	assert.False(t, guard.Verify("", hash))
}

func TestHashIsSalted(t *testing.T) {
	t.Parallel()

	guard := credentials.New(credentials.WithBcryptCost(bcrypt.MinCost))

	h1, err := guard.Hash("correct-horse-battery")
	require.NoError(t, err)
	h2, err := guard.Hash("correct-horse-battery")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}
