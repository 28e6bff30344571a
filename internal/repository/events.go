package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/go-event-registration/internal/domain"
	"github.com/go-event-registration/internal/store"
)

// EventRepo stores events and owns the registration counter.
type EventRepo struct {
	store store.Store
}

func NewEventRepo(s store.Store) *EventRepo {
	return &EventRepo{store: s}
}

// Create fails with domain.ErrConflict when the event id is taken.
func (r *EventRepo) Create(ctx context.Context, e *domain.Event) error {
	item, err := marshalRecord(e, typeEvent, eventKey(e.EventID), nil)
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, item, store.NotExists()); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return fmt.Errorf("event %s already exists: %w", e.EventID, domain.ErrConflict)
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Get returns nil, nil when the event does not exist.
func (r *EventRepo) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	item, err := r.store.Get(ctx, eventKey(eventID))
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if item == nil {
		return nil, nil
	}
	var e domain.Event
	if err := attributevalue.UnmarshalMap(item, &e); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &e, nil
}

// List returns all events, optionally only those with the given status.
func (r *EventRepo) List(ctx context.Context, status string) ([]domain.Event, error) {
	in := store.ScanInput{PartitionKeyPrefix: prefixEvent, SortKey: sortMetadata}
	if status != "" {
		in.Filters = map[string]string{fieldStatus: status}
	}
	items, err := r.store.Scan(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return unmarshalRecords[domain.Event](items)
}

// Update applies a partial SET to an existing event and returns the result.
func (r *EventRepo) Update(ctx context.Context, eventID string, updates map[string]interface{}) (*domain.Event, error) {
	item, err := r.store.Update(ctx, eventKey(eventID), updates, store.Exists())
	if err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return nil, fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	var e domain.Event
	if err := attributevalue.UnmarshalMap(item, &e); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &e, nil
}

func (r *EventRepo) Delete(ctx context.Context, eventID string) error {
	if err := r.store.Delete(ctx, eventKey(eventID), nil); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// AdjustRegistrations atomically adds delta to currentRegistrations, bumps
// version, and returns the new count. The counter never goes below zero:
// a decrement that would do so fails with domain.ErrConflict.
func (r *EventRepo) AdjustRegistrations(ctx context.Context, eventID string, delta int) (int, error) {
	cond := store.Exists()
	if delta < 0 {
		cond = store.GreaterThan(fieldCurrentRegistrations, int64(-delta-1))
	}
	n, err := r.store.Increment(ctx, store.IncrementInput{
		Key:       eventKey(eventID),
		Field:     fieldCurrentRegistrations,
		Delta:     int64(delta),
		Bump:      []string{fieldVersion},
		Condition: cond,
	})
	if err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return 0, fmt.Errorf("adjust registrations of event %s by %d: %w", eventID, delta, domain.ErrConflict)
		}
		return 0, fmt.Errorf("adjust registrations: %w", err)
	}
	return int(n), nil
}

// Admit takes one seat if currentRegistrations < capacity, in a single
// conditional increment. It reports false when the event is full or gone.
func (r *EventRepo) Admit(ctx context.Context, eventID string) (int, bool, error) {
	n, err := r.store.Increment(ctx, store.IncrementInput{
		Key:       eventKey(eventID),
		Field:     fieldCurrentRegistrations,
		Delta:     1,
		Bump:      []string{fieldVersion},
		Condition: store.LessThanAttr(fieldCurrentRegistrations, fieldCapacity),
	})
	if err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("admit to event: %w", err)
	}
	return int(n), true, nil
}

// Release gives back one seat taken by Admit.
func (r *EventRepo) Release(ctx context.Context, eventID string) (int, error) {
	return r.AdjustRegistrations(ctx, eventID, -1)
}
