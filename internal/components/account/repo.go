package account

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres error code raised when the username index
// loses a duplicate-insert race.
const uniqueViolation = "23505"

type (
	// Repo is the credential store: one row per user, created on signup,
	// never mutated or deleted afterwards.
	Repo interface {
		Create(ctx context.Context, username string, passwordHash []byte) (*User, error)
		GetByUsername(ctx context.Context, username string) (*User, error)
	}

	repo struct {
		pool *pgxpool.Pool
	}
)

func NewRepo(pool *pgxpool.Pool) Repo {
	return &repo{pool: pool}
}

func (r *repo) Create(ctx context.Context, username string, passwordHash []byte) (*User, error) {
	user := new(User)

	stmt := `
	INSERT INTO person (username, password)
	VALUES ($1, $2)
	RETURNING id, username, password, created_at`

	err := r.pool.QueryRow(ctx, stmt, username, passwordHash).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return user, nil
}

func (r *repo) GetByUsername(ctx context.Context, username string) (*User, error) {
	stmt := `
	SELECT id, username, password, created_at
	FROM person
	WHERE username = $1`

	user := new(User)
	err := r.pool.QueryRow(ctx, stmt, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
