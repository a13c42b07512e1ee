package domain

import "time"

// AuthUser is the authenticated caller decoded from a bearer token.
type AuthUser struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Permission PermissionLevel `json:"permission"`
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(user *AuthUser, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the user it was issued for.
type TokenVerifier interface {
	Verify(token string) (*AuthUser, error)
}
