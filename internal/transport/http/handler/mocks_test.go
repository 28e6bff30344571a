package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-event-registration/internal/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserSvc struct{ mock.Mock }

func (m *mockUserSvc) Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserSvc) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockEventSvc struct{ mock.Mock }

func (m *mockEventSvc) Create(ctx context.Context, req domain.CreateEventRequest) (*domain.Event, error) {
	args := m.Called(ctx, req)
	if e, _ := args.Get(0).(*domain.Event); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockEventSvc) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	args := m.Called(ctx, eventID)
	if e, _ := args.Get(0).(*domain.Event); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockEventSvc) List(ctx context.Context, status string) ([]domain.Event, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Event), args.Error(1)
}
func (m *mockEventSvc) Update(ctx context.Context, eventID string, req domain.UpdateEventRequest) (*domain.Event, error) {
	args := m.Called(ctx, eventID, req)
	if e, _ := args.Get(0).(*domain.Event); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockEventSvc) Delete(ctx context.Context, eventID string) error {
	return m.Called(ctx, eventID).Error(0)
}

type mockRegistrationSvc struct{ mock.Mock }

func (m *mockRegistrationSvc) Register(ctx context.Context, eventID, userID string) (*domain.RegisterResult, error) {
	args := m.Called(ctx, eventID, userID)
	if r, _ := args.Get(0).(*domain.RegisterResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockRegistrationSvc) Unregister(ctx context.Context, eventID, userID string) (*domain.UnregisterResult, error) {
	args := m.Called(ctx, eventID, userID)
	if r, _ := args.Get(0).(*domain.UnregisterResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockRegistrationSvc) LeaveWaitlist(ctx context.Context, eventID, userID string) error {
	return m.Called(ctx, eventID, userID).Error(0)
}

type mockListingSvc struct{ mock.Mock }

func (m *mockListingSvc) ListEventRegistrations(ctx context.Context, eventID string) ([]domain.Registration, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]domain.Registration), args.Error(1)
}
func (m *mockListingSvc) ListEventWaitlist(ctx context.Context, eventID string) ([]domain.WaitlistEntry, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]domain.WaitlistEntry), args.Error(1)
}
func (m *mockListingSvc) ListUserRegistrations(ctx context.Context, userID string) ([]domain.Registration, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Registration), args.Error(1)
}
func (m *mockListingSvc) ListUserEvents(ctx context.Context, userID string) ([]domain.Event, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Event), args.Error(1)
}

// --- helpers ---

// serve routes a single request through a chi router so URL params resolve.
func serve(method, pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rr.Body).Decode(v))
}
