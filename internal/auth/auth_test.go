package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/minishop/internal/models"
	"github.com/mmynk/minishop/internal/storage"
	"github.com/mmynk/minishop/internal/storage/sqlite"
)

func newTestAuthenticator(t *testing.T) (*PasswordAuthenticator, *sqlite.SQLiteStore) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewPasswordAuthenticator(store, NewBcryptHasher(bcrypt.MinCost)), store
}

func TestRegister(t *testing.T) {
	a, store := newTestAuthenticator(t)
	ctx := context.Background()

	t.Run("stores a hash, never the plaintext", func(t *testing.T) {
		user, err := a.Register(ctx, "alice", "Alice Liddell", "rabbit-hole")
		require.NoError(t, err)

		stored, err := store.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
		assert.Equal(t, "Alice Liddell", stored.FullName)
		assert.NotEqual(t, "rabbit-hole", stored.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("rabbit-hole")))
	})

	t.Run("duplicate username leaves the original untouched", func(t *testing.T) {
		before, err := store.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)

		_, err = a.Register(ctx, "alice", "Impostor", "other-password")
		require.ErrorIs(t, err, ErrUsernameTaken)
		assert.ErrorIs(t, err, storage.ErrConflict)

		after, err := store.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("empty fields are rejected", func(t *testing.T) {
		_, err := a.Register(ctx, "  ", "", "pw")
		assert.ErrorIs(t, err, ErrEmptyUsername)

		_, err = a.Register(ctx, "bob", "", "")
		assert.ErrorIs(t, err, ErrEmptyPassword)
	})

	t.Run("short passwords are accepted", func(t *testing.T) {
		_, err := a.Register(ctx, "carol", "", "x")
		assert.NoError(t, err)
	})
}

func TestAuthenticate(t *testing.T) {
	a, _ := newTestAuthenticator(t)
	ctx := context.Background()

	_, err := a.Register(ctx, "alice", "", "secret")
	require.NoError(t, err)

	user, err := a.Authenticate(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = a.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Authenticate(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolvePrincipal(t *testing.T) {
	a, store := newTestAuthenticator(t)
	ctx := context.Background()

	_, err := a.Register(ctx, "alice", "", "secret")
	require.NoError(t, err)

	id := NewIdentity(store)

	user, err := id.ResolvePrincipal(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = id.ResolvePrincipal(ctx, "ghost")
	require.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, err, ErrUnknownPrincipal)
	assert.Contains(t, err.Error(), "user does not exist")
}

func TestJWTManager(t *testing.T) {
	user := &models.User{ID: "u-1", Username: "alice"}

	t.Run("round trip", func(t *testing.T) {
		m := NewJWTManager("test-secret", time.Hour)

		token, err := m.Generate(user)
		require.NoError(t, err)

		claims, err := m.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, "alice", claims.Subject)
		assert.Equal(t, "u-1", claims.UserID)
		assert.Equal(t, "alice", claims.Name, "display name falls back to the username")

		named, err := m.Generate(&models.User{ID: "u-2", Username: "bob", FullName: "Bob Builder"})
		require.NoError(t, err)
		claims, err = m.Validate(named)
		require.NoError(t, err)
		assert.Equal(t, "Bob Builder", claims.Name)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTManager("one", time.Hour).Generate(user)
		require.NoError(t, err)

		_, err = NewJWTManager("two", time.Hour).Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		m := NewJWTManager("test-secret", -time.Minute)
		token, err := m.Generate(user)
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := NewJWTManager("s", time.Hour).Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTManagerRejectsForeignTokens(t *testing.T) {
	secret := []byte("test-secret")
	m := NewJWTManager(string(secret), time.Hour)
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		claims Claims
		method jwt.SigningMethod
	}{
		{
			name:   "wrong issuer",
			claims: Claims{Username: "alice", RegisteredClaims: jwt.RegisteredClaims{Issuer: "elsewhere", Subject: "alice", ExpiresAt: exp}},
			method: jwt.SigningMethodHS256,
		},
		{
			name:   "no expiry",
			claims: Claims{Username: "alice", RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer, Subject: "alice"}},
			method: jwt.SigningMethodHS256,
		},
		{
			name:   "other HMAC size",
			claims: Claims{Username: "alice", RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer, Subject: "alice", ExpiresAt: exp}},
			method: jwt.SigningMethodHS512,
		},
		{
			name:   "subject mismatch",
			claims: Claims{Username: "alice", RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer, Subject: "mallory", ExpiresAt: exp}},
			method: jwt.SigningMethodHS256,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwt.NewWithClaims(tt.method, tt.claims).SignedString(secret)
			require.NoError(t, err)

			_, err = m.Validate(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
