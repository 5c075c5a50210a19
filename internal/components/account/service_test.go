package account

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeRepo is an in-memory credential store for service tests.
type fakeRepo struct {
	mu     sync.Mutex
	users  map[string]*User
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*User)}
}

func (r *fakeRepo) Create(_ context.Context, username string, passwordHash []byte) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[username]; ok {
		return nil, ErrDuplicateUsername
	}
	r.nextID++
	user := &User{ID: r.nextID, Username: username, PasswordHash: passwordHash}
	r.users[username] = user

	u := *user
	return &u, nil
}

func (r *fakeRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	u := *user
	return &u, nil
}

func TestRegisterHashesPassword(t *testing.T) {
	svc := NewService(newFakeRepo())

	user, err := svc.Register(context.Background(), "alice", "secret1")
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.NotContains(t, string(user.PasswordHash), "secret1")
	assert.NoError(t, bcrypt.CompareHashAndPassword(user.PasswordHash, []byte("secret1")))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other-pw")
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	// The stored row is unchanged by the failed attempt.
	stored, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, first.PasswordHash, stored.PasswordHash)
}

func TestAuthenticateRoundTrip(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	authed, err := svc.Authenticate(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, authed.ID)
}

func TestAuthenticateFailuresIndistinguishable(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	_, wrongPw := svc.Authenticate(ctx, "alice", "not-it")
	_, unknown := svc.Authenticate(ctx, "nobody", "secret1")

	assert.ErrorIs(t, wrongPw, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	// Same error value for both, so callers cannot enumerate usernames.
	assert.Equal(t, wrongPw, unknown)
}
