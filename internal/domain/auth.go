package domain

import (
	"context"
	"time"
)

// PasswordHasher handles hashing and verification of the admin credential.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated admin.
type TokenIssuer interface {
	Issue(subject string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (subject string, err error)
}

// AuthService authenticates the admin console.
type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, err error)
}
