package event

import (
	"context"
	"fmt"

	"github.com/go-event-registration/internal/domain"
	"github.com/go-event-registration/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldTitle           = "title"
	fieldDescription     = "description"
	fieldDate            = "date"
	fieldLocation        = "location"
	fieldOrganizer       = "organizer"
	fieldStatus          = "status"
	fieldWaitlistEnabled = "waitlistEnabled"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateEventRequest) (*domain.Event, error)
	Get(ctx context.Context, eventID string) (*domain.Event, error)
	List(ctx context.Context, status string) ([]domain.Event, error)
	Update(ctx context.Context, eventID string, req domain.UpdateEventRequest) (*domain.Event, error)
	Delete(ctx context.Context, eventID string) error
}

type eventStore interface {
	Create(ctx context.Context, e *domain.Event) error
	Get(ctx context.Context, eventID string) (*domain.Event, error)
	List(ctx context.Context, status string) ([]domain.Event, error)
	Update(ctx context.Context, eventID string, updates map[string]interface{}) (*domain.Event, error)
	Delete(ctx context.Context, eventID string) error
}

type service struct {
	repo eventStore
}

type ServiceDeps struct {
	EventRepo eventStore
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.EventRepo}
}

// Create assigns a ULID when the request carries no eventId. Counters
// always start at zero regardless of input.
func (s *service) Create(ctx context.Context, req domain.CreateEventRequest) (*domain.Event, error) {
	eventID := req.EventID
	if eventID == "" {
		eventID = id.New()
	}
	e := &domain.Event{
		EventID:         eventID,
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date,
		Location:        req.Location,
		Organizer:       req.Organizer,
		Status:          req.Status,
		Capacity:        req.Capacity,
		WaitlistEnabled: req.WaitlistEnabled,
		Version:         1,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	e, err := s.repo.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
	}
	return e, nil
}

func (s *service) List(ctx context.Context, status string) ([]domain.Event, error) {
	return s.repo.List(ctx, status)
}

func (s *service) Update(ctx context.Context, eventID string, req domain.UpdateEventRequest) (*domain.Event, error) {
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates[fieldTitle] = *req.Title
	}
	if req.Description != nil {
		updates[fieldDescription] = *req.Description
	}
	if req.Date != nil {
		updates[fieldDate] = *req.Date
	}
	if req.Location != nil {
		updates[fieldLocation] = *req.Location
	}
	if req.Organizer != nil {
		updates[fieldOrganizer] = *req.Organizer
	}
	if req.Status != nil {
		updates[fieldStatus] = *req.Status
	}
	if req.WaitlistEnabled != nil {
		updates[fieldWaitlistEnabled] = *req.WaitlistEnabled
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	return s.repo.Update(ctx, eventID, updates)
}

// Delete removes only the event record. Registrations and waitlist entries
// that reference it are left in place.
func (s *service) Delete(ctx context.Context, eventID string) error {
	if _, err := s.Get(ctx, eventID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, eventID)
}
