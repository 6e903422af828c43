// Package accounts provides credential verification against the configured user list.
package accounts

import (
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any username/password mismatch.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service verifies presented credentials against a static in-memory user list.
// The list is fixed at construction; there is no mutation after startup.
type Service struct {
	users  []User
	logger *slog.Logger
}

// NewService creates a credential verifier over the given users.
func NewService(log *slog.Logger, users []User) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		users:  users,
		logger: log.With(slog.String("service", "accounts")),
	}
}

// Login authenticates a username/password pair. Every mismatch, including an
// unknown username, reports ErrInvalidCredentials so callers cannot
// distinguish which part failed.
func (s *Service) Login(username, password string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}
	for _, u := range s.users {
		if u.Username != username {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
			return User{}, ErrInvalidCredentials
		}
		return u, nil
	}
	return User{}, ErrInvalidCredentials
}
