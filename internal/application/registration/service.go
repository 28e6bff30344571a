package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-event-registration/internal/domain"
	"github.com/go-event-registration/internal/pkg/id"
)

// Steps reported to the metrics recorder when a multi-step write is left
// incomplete.
const (
	stepReleaseSeat      = "release_seat"
	stepCreatePromotion  = "create_promotion"
	stepPromote          = "promote"
	stepDecrementCounter = "decrement_counter"
	stepClearWaitlist    = "clear_waitlist"
)

const outcomeRejected = "rejected"

type Service interface {
	Register(ctx context.Context, eventID, userID string) (*domain.RegisterResult, error)
	Unregister(ctx context.Context, eventID, userID string) (*domain.UnregisterResult, error)
	LeaveWaitlist(ctx context.Context, eventID, userID string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type eventStore interface {
	Get(ctx context.Context, eventID string) (*domain.Event, error)
	Admit(ctx context.Context, eventID string) (int, bool, error)
	Release(ctx context.Context, eventID string) (int, error)
}

type registrationStore interface {
	Get(ctx context.Context, userID, eventID string) (*domain.Registration, error)
	Create(ctx context.Context, reg *domain.Registration) error
	Remove(ctx context.Context, userID, eventID string) (bool, error)
}

type waitlistStore interface {
	Add(ctx context.Context, e *domain.WaitlistEntry) error
	List(ctx context.Context, eventID string) ([]domain.WaitlistEntry, error)
	First(ctx context.Context, eventID string) (*domain.WaitlistEntry, error)
	Find(ctx context.Context, eventID, userID string) (*domain.WaitlistEntry, error)
	Claim(ctx context.Context, e *domain.WaitlistEntry) (bool, error)
}

type recorder interface {
	Outcome(outcome string)
	Promoted()
	PartialFailure(step string)
}

type service struct {
	users         userStore
	events        eventStore
	registrations registrationStore
	waitlist      waitlistStore
	metrics       recorder
	now           func() time.Time
}

type ServiceDeps struct {
	Users         userStore
	Events        eventStore
	Registrations registrationStore
	Waitlist      waitlistStore
	Metrics       recorder
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:         deps.Users,
		events:        deps.Events,
		registrations: deps.Registrations,
		waitlist:      deps.Waitlist,
		metrics:       deps.Metrics,
		now:           now,
	}
}

func (s *service) Register(ctx context.Context, eventID, userID string) (*domain.RegisterResult, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	ev, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
	}
	existing, err := s.registrations.Get(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("user %s is already registered for event %s: %w", userID, eventID, domain.ErrConflict)
	}
	// A queued user can meet a free seat when a promotion did not run.
	queued, err := s.waitlist.Find(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	_, admitted, err := s.events.Admit(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if admitted {
		reg, err := s.confirm(ctx, eventID, userID)
		if err != nil {
			return nil, err
		}
		if queued != nil {
			s.dequeue(ctx, queued)
		}
		s.metrics.Outcome(domain.OutcomeRegistered)
		return &domain.RegisterResult{Outcome: domain.OutcomeRegistered, Registration: reg}, nil
	}

	if queued != nil {
		return nil, fmt.Errorf("user %s is already on the waitlist for event %s: %w", userID, eventID, domain.ErrConflict)
	}
	if !ev.WaitlistEnabled {
		s.metrics.Outcome(outcomeRejected)
		return nil, fmt.Errorf("event %s is full: %w", eventID, domain.ErrCapacityExceeded)
	}
	entry, err := s.enqueue(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	s.metrics.Outcome(domain.OutcomeWaitlisted)
	return &domain.RegisterResult{Outcome: domain.OutcomeWaitlisted, WaitlistEntry: entry}, nil
}

// confirm writes the registration for a seat already taken with Admit. The
// seat is handed back if the write does not happen.
func (s *service) confirm(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	now := s.now().UTC()
	reg := &domain.Registration{
		RegistrationID: id.NewAt(now),
		UserID:         userID,
		EventID:        eventID,
		RegisteredAt:   now,
		Status:         domain.RegistrationStatusConfirmed,
	}
	if err := s.registrations.Create(ctx, reg); err != nil {
		s.release(ctx, eventID, userID)
		return nil, err
	}
	return reg, nil
}

// dequeue drops the entry of a user who just took a seat directly. Losing the
// claim to a promoter is fine: that promotion conflicts and hands its seat back.
func (s *service) dequeue(ctx context.Context, e *domain.WaitlistEntry) {
	if _, err := s.waitlist.Claim(ctx, e); err != nil {
		slog.Error("registered but waitlist entry not removed",
			"event_id", e.EventID, "user_id", e.UserID, "waitlist_id", e.WaitlistID, "err", err)
		s.metrics.PartialFailure(stepClearWaitlist)
	}
}

func (s *service) enqueue(ctx context.Context, eventID, userID string) (*domain.WaitlistEntry, error) {
	queued, err := s.waitlist.List(ctx, eventID)
	if err != nil {
		return nil, err
	}
	for _, e := range queued {
		if e.UserID == userID {
			return nil, fmt.Errorf("user %s is already on the waitlist for event %s: %w", userID, eventID, domain.ErrConflict)
		}
	}
	now := s.now().UTC()
	entry := &domain.WaitlistEntry{
		WaitlistID: id.NewAt(now),
		UserID:     userID,
		EventID:    eventID,
		AddedAt:    now,
		Position:   len(queued) + 1,
	}
	if err := s.waitlist.Add(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) Unregister(ctx context.Context, eventID, userID string) (*domain.UnregisterResult, error) {
	reg, err := s.registrations.Get(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, fmt.Errorf("registration of user %s for event %s: %w", userID, eventID, domain.ErrNotFound)
	}
	removed, err := s.registrations.Remove(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, fmt.Errorf("registration of user %s for event %s: %w", userID, eventID, domain.ErrNotFound)
	}
	if _, err := s.events.Release(ctx, eventID); err != nil {
		slog.Error("registration removed but counter not decremented",
			"event_id", eventID, "user_id", userID, "err", err)
		s.metrics.PartialFailure(stepDecrementCounter)
		return nil, err
	}

	promoted, err := s.promote(ctx, eventID)
	if err != nil {
		// The unregistration is already committed.
		slog.Error("waitlist promotion failed", "event_id", eventID, "err", err)
		s.metrics.PartialFailure(stepPromote)
	}
	return &domain.UnregisterResult{Unregistered: true, Promoted: promoted, PromotionErr: err}, nil
}

// promote fills free seats from the head of the waitlist. Each candidate
// goes through Admit, so promotion and Register never hand out the same
// seat, and the entry is claimed with a conditional delete, so two
// promoters never promote the same user.
func (s *service) promote(ctx context.Context, eventID string) (*domain.Registration, error) {
	for {
		head, err := s.waitlist.First(ctx, eventID)
		if err != nil || head == nil {
			return nil, err
		}
		_, admitted, err := s.events.Admit(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if !admitted {
			return nil, nil
		}
		claimed, err := s.waitlist.Claim(ctx, head)
		if err != nil {
			s.release(ctx, eventID, head.UserID)
			return nil, err
		}
		if !claimed {
			s.release(ctx, eventID, head.UserID)
			continue
		}
		reg, err := s.confirm(ctx, eventID, head.UserID)
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			slog.Error("waitlist entry claimed but registration not written",
				"event_id", eventID, "user_id", head.UserID, "waitlist_id", head.WaitlistID, "err", err)
			s.metrics.PartialFailure(stepCreatePromotion)
			return nil, err
		}
		s.metrics.Promoted()
		return reg, nil
	}
}

// release returns a seat taken with Admit. A failure here leaves the counter
// one above the number of registrations.
func (s *service) release(ctx context.Context, eventID, userID string) {
	if _, err := s.events.Release(ctx, eventID); err != nil {
		slog.Error("failed to release admitted seat",
			"event_id", eventID, "user_id", userID, "err", err)
		s.metrics.PartialFailure(stepReleaseSeat)
	}
}

func (s *service) LeaveWaitlist(ctx context.Context, eventID, userID string) error {
	entry, err := s.waitlist.Find(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("user %s is not on the waitlist for event %s: %w", userID, eventID, domain.ErrNotFound)
	}
	claimed, err := s.waitlist.Claim(ctx, entry)
	if err != nil {
		return err
	}
	if !claimed {
		return fmt.Errorf("user %s is not on the waitlist for event %s: %w", userID, eventID, domain.ErrNotFound)
	}
	return nil
}
