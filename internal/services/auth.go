package services

import (
	"context"
	"time"

	"ticketbooth/internal/domain"
)

type authService struct {
	adminUsername     string
	adminPasswordHash string
	hasher            domain.PasswordHasher
	tokens            domain.TokenIssuer
	tokenExpiry       time.Duration
	contextTimeout    time.Duration
}

// NewAuthService creates the admin login service. The single admin
// identity comes from configuration, not the database.
func NewAuthService(
	adminUsername, adminPasswordHash string,
	hasher domain.PasswordHasher,
	tokens domain.TokenIssuer,
	tokenExpiry time.Duration,
	timeout time.Duration,
) domain.AuthService {
	return &authService{
		adminUsername:     adminUsername,
		adminPasswordHash: adminPasswordHash,
		hasher:            hasher,
		tokens:            tokens,
		tokenExpiry:       tokenExpiry,
		contextTimeout:    timeout,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	_, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// Compare the hash even for a wrong username so both failure paths
	// take comparable time.
	err := s.hasher.Compare(s.adminPasswordHash, password)
	if username != s.adminUsername || err != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(username, s.tokenExpiry)
	if err != nil {
		return "", err
	}
	return token, nil
}
