package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/docudefense/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo is an in-memory metadata.Repository.
type memRepo struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newMemRepo() *memRepo { return &memRepo{data: map[string][]byte{}} }

func (m *memRepo) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.data[key], nil
}

func (m *memRepo) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *memRepo) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memRepo) List(context.Context) (map[string][]byte, error) { return m.data, nil }

func (m *memRepo) Clear(context.Context) error {
	m.data = map[string][]byte{}
	return nil
}

func mintToken(t *testing.T, email string) string {
	t.Helper()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return s
}

func TestTokenStore_SetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewTokenStore(newMemRepo())

	for _, tok := range []string{"abc", "Bearer abc", mintToken(t, "a@b.c")} {
		require.NoError(t, s.SetToken(ctx, tok))
		got, err := s.GetToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, tok, got)
	}
}

func TestTokenStore_GetAbsent(t *testing.T) {
	s := NewTokenStore(newMemRepo())

	got, err := s.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", got)

	ok, err := s.IsLoggedIn(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenStore_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewTokenStore(newMemRepo())

	require.NoError(t, s.SetToken(ctx, "abc"))
	require.NoError(t, s.ClearToken(ctx))
	require.NoError(t, s.ClearToken(ctx))

	ok, err := s.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenStore_IsLoggedInIgnoresValidity(t *testing.T) {
	ctx := context.Background()
	s := NewTokenStore(newMemRepo())
	require.NoError(t, s.SetToken(ctx, "not-a-jwt"))

	ok, err := s.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTokenStore_UserEmail(t *testing.T) {
	ctx := context.Background()
	s := NewTokenStore(newMemRepo())

	tok := mintToken(t, "ann@x.io")
	require.NoError(t, s.SetToken(ctx, tok))
	email, err := s.UserEmail(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.io", email)

	require.NoError(t, s.SetToken(ctx, "Bearer "+tok))
	email, err = s.UserEmail(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.io", email)
}

func TestTokenStore_Claims_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewTokenStore(newMemRepo())
	require.NoError(t, s.SetToken(ctx, mintToken(t, "ann@x.io")))

	c, err := s.Claims(ctx)
	require.NoError(t, err)
	require.NotNil(t, c.ExpiresAt)
	assert.True(t, c.ExpiresAt.After(time.Now()))
}

func TestTokenStore_UserEmail_NotLoggedIn(t *testing.T) {
	_, err := NewTokenStore(newMemRepo()).UserEmail(context.Background())
	require.ErrorIs(t, err, common.ErrNotLoggedIn)
}

func TestTokenStore_UserEmail_FailsClosed(t *testing.T) {
	tests := map[string]string{
		"garbage":       "not-a-jwt",
		"bad segment":   "a.b.c",
		"missing email": mintToken(t, ""),
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := NewTokenStore(newMemRepo())
			require.NoError(t, s.SetToken(ctx, tok))

			_, err := s.UserEmail(ctx)
			require.ErrorIs(t, err, common.ErrInvalidToken)

			got, err := s.GetToken(ctx)
			require.NoError(t, err)
			assert.Empty(t, got, "invalid token must be cleared")
		})
	}
}

func TestTokenStore_RepoErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")

	repo := newMemRepo()
	repo.setErr = boom
	require.ErrorIs(t, NewTokenStore(repo).SetToken(ctx, "x"), boom)

	repo = newMemRepo()
	repo.getErr = boom
	_, err := NewTokenStore(repo).GetToken(ctx)
	require.ErrorIs(t, err, boom)
}
