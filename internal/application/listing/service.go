package listing

import (
	"context"
	"fmt"

	"github.com/go-event-registration/internal/domain"
)

// Service answers read-only questions about who is registered or queued
// where. Nothing here changes state.
type Service interface {
	ListEventRegistrations(ctx context.Context, eventID string) ([]domain.Registration, error)
	ListEventWaitlist(ctx context.Context, eventID string) ([]domain.WaitlistEntry, error)
	ListUserRegistrations(ctx context.Context, userID string) ([]domain.Registration, error)
	ListUserEvents(ctx context.Context, userID string) ([]domain.Event, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type eventStore interface {
	Get(ctx context.Context, eventID string) (*domain.Event, error)
}

type registrationStore interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error)
}

type waitlistStore interface {
	List(ctx context.Context, eventID string) ([]domain.WaitlistEntry, error)
}

type service struct {
	users         userStore
	events        eventStore
	registrations registrationStore
	waitlist      waitlistStore
}

type ServiceDeps struct {
	Users         userStore
	Events        eventStore
	Registrations registrationStore
	Waitlist      waitlistStore
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:         deps.Users,
		events:        deps.Events,
		registrations: deps.Registrations,
		waitlist:      deps.Waitlist,
	}
}

// ListEventRegistrations returns an empty list for an unknown event.
func (s *service) ListEventRegistrations(ctx context.Context, eventID string) ([]domain.Registration, error) {
	return s.registrations.ListByEvent(ctx, eventID)
}

// ListEventWaitlist returns entries oldest first.
func (s *service) ListEventWaitlist(ctx context.Context, eventID string) ([]domain.WaitlistEntry, error) {
	return s.waitlist.List(ctx, eventID)
}

func (s *service) ListUserRegistrations(ctx context.Context, userID string) ([]domain.Registration, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.registrations.ListByUser(ctx, userID)
}

// ListUserEvents resolves each of the user's registrations to its event.
// Registrations whose event has since been deleted are skipped.
func (s *service) ListUserEvents(ctx context.Context, userID string) ([]domain.Event, error) {
	regs, err := s.ListUserRegistrations(ctx, userID)
	if err != nil {
		return nil, err
	}
	events := make([]domain.Event, 0, len(regs))
	for _, r := range regs {
		ev, err := s.events.Get(ctx, r.EventID)
		if err != nil {
			return nil, err
		}
		if ev == nil {
			continue
		}
		events = append(events, *ev)
	}
	return events, nil
}

func (s *service) requireUser(ctx context.Context, userID string) error {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return nil
}
