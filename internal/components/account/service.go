package account

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the username does not exist, so that an
// unknown username costs the same as a wrong password and the two failures
// stay indistinguishable to the caller.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

type (
	Service interface {
		Register(ctx context.Context, username, password string) (*User, error)
		Authenticate(ctx context.Context, username, password string) (*User, error)
	}

	service struct {
		repo Repo
	}
)

func NewService(repo Repo) Service {
	return &service{repo: repo}
}

// Register creates a new user with a bcrypt-hashed password. A duplicate
// username fails before any insert is attempted; the unique index on
// person.username catches the remaining race.
func (s *service) Register(ctx context.Context, username, password string) (*User, error) {
	_, err := s.repo.GetByUsername(ctx, username)
	if err == nil {
		return nil, ErrDuplicateUsername
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, username, hash)
}

// Authenticate verifies the password against the stored hash. Unknown
// username and wrong password both return ErrInvalidCredentials.
func (s *service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Burn a compare anyway to keep timing flat.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
