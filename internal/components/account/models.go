package account

import (
	"errors"
	"time"
)

var (
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("user not found")
)

type (
	User struct {
		ID           int64     `json:"id"`
		Username     string    `json:"username"`
		PasswordHash []byte    `json:"-"` // Never serialize password hash
		CreatedAt    time.Time `json:"created_at"`
	}

	// CredentialsForm carries the login and signup form fields. Limits
	// mirror the persisted username constraint.
	CredentialsForm struct {
		Username string `validate:"required,min=4,max=20"`
		Password string `validate:"required,min=4,max=20"`
	}
)
