package admin

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	jwtsvc "careers/internal/pkg/jwt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service authenticates the single configured dashboard admin and issues
// the bearer tokens the protected endpoints require.
type Service struct {
	username     string
	passwordHash []byte
	tokens       *jwtsvc.Service
}

func NewService(username, passwordHash string, tokens *jwtsvc.Service) *Service {
	return &Service{
		username:     username,
		passwordHash: []byte(passwordHash),
		tokens:       tokens,
	}
}

func (s *Service) Login(username, password string) (string, error) {
	if username != s.username {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.GenerateToken(username, "admin")
}
