package event

import (
	"context"
	"testing"

	"github.com/go-event-registration/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockEventStore struct{ mock.Mock }

func (m *mockEventStore) Create(ctx context.Context, e *domain.Event) error {
	return m.Called(ctx, e).Error(0)
}
func (m *mockEventStore) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	args := m.Called(ctx, eventID)
	if e, _ := args.Get(0).(*domain.Event); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockEventStore) List(ctx context.Context, status string) ([]domain.Event, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Event), args.Error(1)
}
func (m *mockEventStore) Update(ctx context.Context, eventID string, updates map[string]interface{}) (*domain.Event, error) {
	args := m.Called(ctx, eventID, updates)
	if e, _ := args.Get(0).(*domain.Event); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockEventStore) Delete(ctx context.Context, eventID string) error {
	return m.Called(ctx, eventID).Error(0)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// --- tests ---

func TestCreate_GeneratesIDAndZeroesCounters(t *testing.T) {
	repo := &mockEventStore{}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.Event) bool {
		return e.EventID != "" && e.CurrentRegistrations == 0 && e.Version == 1 && e.Capacity == 10
	})).Return(nil)
	svc := NewService(ServiceDeps{EventRepo: repo})

	e, err := svc.Create(context.Background(), domain.CreateEventRequest{
		Title: "GopherCon", Capacity: 10, Status: domain.EventStatusActive,
	})

	require.NoError(t, err)
	assert.Len(t, e.EventID, 26)
	repo.AssertExpectations(t)
}

func TestCreate_KeepsClientID(t *testing.T) {
	repo := &mockEventStore{}
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := NewService(ServiceDeps{EventRepo: repo})

	e, err := svc.Create(context.Background(), domain.CreateEventRequest{EventID: "conf-2025", Capacity: 1})

	require.NoError(t, err)
	assert.Equal(t, "conf-2025", e.EventID)
}

func TestCreate_DuplicateIsConflict(t *testing.T) {
	repo := &mockEventStore{}
	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrConflict)
	svc := NewService(ServiceDeps{EventRepo: repo})

	_, err := svc.Create(context.Background(), domain.CreateEventRequest{EventID: "conf-2025", Capacity: 1})

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestGet_Missing(t *testing.T) {
	repo := &mockEventStore{}
	repo.On("Get", mock.Anything, "nope").Return(nil, nil)
	svc := NewService(ServiceDeps{EventRepo: repo})

	_, err := svc.Get(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_BuildsPartialMap(t *testing.T) {
	repo := &mockEventStore{}
	want := map[string]interface{}{fieldTitle: "New title", fieldWaitlistEnabled: true}
	repo.On("Update", mock.Anything, "e1", want).Return(&domain.Event{EventID: "e1", Title: "New title"}, nil)
	svc := NewService(ServiceDeps{EventRepo: repo})

	e, err := svc.Update(context.Background(), "e1", domain.UpdateEventRequest{
		Title:           strPtr("New title"),
		WaitlistEnabled: boolPtr(true),
	})

	require.NoError(t, err)
	assert.Equal(t, "New title", e.Title)
	repo.AssertExpectations(t)
}

func TestUpdate_EmptyIsBadRequest(t *testing.T) {
	repo := &mockEventStore{}
	svc := NewService(ServiceDeps{EventRepo: repo})

	_, err := svc.Update(context.Background(), "e1", domain.UpdateEventRequest{})

	assert.ErrorIs(t, err, domain.ErrBadRequest)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_MissingIsNotFound(t *testing.T) {
	repo := &mockEventStore{}
	repo.On("Get", mock.Anything, "e1").Return(nil, nil)
	svc := NewService(ServiceDeps{EventRepo: repo})

	err := svc.Delete(context.Background(), "e1")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_Existing(t *testing.T) {
	repo := &mockEventStore{}
	repo.On("Get", mock.Anything, "e1").Return(&domain.Event{EventID: "e1"}, nil)
	repo.On("Delete", mock.Anything, "e1").Return(nil)
	svc := NewService(ServiceDeps{EventRepo: repo})

	require.NoError(t, svc.Delete(context.Background(), "e1"))
	repo.AssertExpectations(t)
}
