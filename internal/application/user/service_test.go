package user

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-event-registration/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

var fixedNow = time.Date(2025, 2, 3, 4, 5, 6, 0, time.FixedZone("CET", 3600))

func newTestService(repo *mockUserStore) Service {
	return NewService(ServiceDeps{UserRepo: repo, Now: func() time.Time { return fixedNow }})
}

// --- Create ---

func TestCreate_Success(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.UserID == "alice" && u.Name == "Alice"
	})).Return(nil)

	u, err := newTestService(repo).Create(context.Background(), domain.CreateUserRequest{UserID: "alice", Name: "Alice"})

	require.NoError(t, err)
	assert.Equal(t, fixedNow.UTC(), u.CreatedAt)
	assert.Equal(t, time.UTC, u.CreatedAt.Location())
	repo.AssertExpectations(t)
}

func TestCreate_DuplicateID(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("Create", mock.Anything, mock.Anything).Return(fmt.Errorf("user alice already exists: %w", domain.ErrConflict))

	_, err := newTestService(repo).Create(context.Background(), domain.CreateUserRequest{UserID: "alice", Name: "Alice"})

	assert.True(t, errors.Is(err, domain.ErrConflict))
}

// --- Get ---

func TestGet_Found(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("Get", mock.Anything, "alice").Return(&domain.User{UserID: "alice", Name: "Alice"}, nil)

	u, err := newTestService(repo).Get(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
}

func TestGet_NotFound(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("Get", mock.Anything, "ghost").Return(nil, nil)

	_, err := newTestService(repo).Get(context.Background(), "ghost")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGet_StoreError(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("Get", mock.Anything, "alice").Return(nil, domain.ErrStoreUnavailable)

	_, err := newTestService(repo).Get(context.Background(), "alice")

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
