// Package common contains shared constants and sentinel errors used across
// DocuDefense client components.
package common

import "strings"

// TokenStorageKey is the single metadata key under which the session token
// is persisted. One active session per local database.
const TokenStorageKey = "jwtToken"

// AuthorizationHeaderName carries the bearer credential on outbound requests.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName carries a per-request correlation id.
const RequestIDHeaderName = "X-Request-ID"

// BearerScheme is the auth scheme prefix, including the separating space.
const BearerScheme = "Bearer "

// BearerHeader returns the Authorization header value for token. A token that
// already carries the scheme is returned unchanged, so the prefix is never
// doubled.
func BearerHeader(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if HasBearerScheme(token) {
		return token
	}
	return BearerScheme + token
}

// StripBearer removes a leading scheme prefix, if any.
func StripBearer(token string) string {
	token = strings.TrimSpace(token)
	if HasBearerScheme(token) {
		return strings.TrimSpace(token[len(BearerScheme):])
	}
	return token
}

// HasBearerScheme reports whether token starts with "Bearer " (case-insensitive).
func HasBearerScheme(token string) bool {
	return len(token) >= len(BearerScheme) && strings.EqualFold(token[:len(BearerScheme)], BearerScheme)
}
