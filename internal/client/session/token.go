// Package session owns the client's authentication state: the persisted
// session token and the logged-in/logged-out controller built on top of it.
package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/docudefense/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/docudefense/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token fields the client reads. The signature is never
// verified locally; that is the backend's job.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenStore persists a single session token under common.TokenStorageKey.
type TokenStore struct {
	repo   metadata.Repository
	parser *jwt.Parser
}

func NewTokenStore(repo metadata.Repository) *TokenStore {
	return &TokenStore{repo: repo, parser: jwt.NewParser()}
}

// SetToken overwrites the stored token. The value is kept exactly as given.
func (s *TokenStore) SetToken(ctx context.Context, token string) error {
	if err := s.repo.Set(ctx, common.TokenStorageKey, []byte(token)); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// GetToken returns the stored token, or "" when there is none.
func (s *TokenStore) GetToken(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, common.TokenStorageKey)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return string(v), nil
}

func (s *TokenStore) ClearToken(ctx context.Context) error {
	if err := s.repo.Delete(ctx, common.TokenStorageKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// IsLoggedIn is a presence check only. Expiry is not inspected.
func (s *TokenStore) IsLoggedIn(ctx context.Context) (bool, error) {
	t, err := s.GetToken(ctx)
	if err != nil {
		return false, err
	}
	return t != "", nil
}

// Claims decodes the stored token without verifying its signature.
// A token that cannot be decoded, or carries no email, is cleared and
// common.ErrInvalidToken is returned.
func (s *TokenStore) Claims(ctx context.Context) (*Claims, error) {
	raw, err := s.GetToken(ctx)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, common.ErrNotLoggedIn
	}

	claims := &Claims{}
	_, _, decodeErr := s.parser.ParseUnverified(common.StripBearer(raw), claims)
	if decodeErr == nil && strings.TrimSpace(claims.Email) == "" {
		decodeErr = fmt.Errorf("email claim is missing")
	}
	if decodeErr != nil {
		if err := s.ClearToken(ctx); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, decodeErr)
	}
	return claims, nil
}

// UserEmail returns the email claim of the stored token.
func (s *TokenStore) UserEmail(ctx context.Context) (string, error) {
	c, err := s.Claims(ctx)
	if err != nil {
		return "", err
	}
	return c.Email, nil
}
