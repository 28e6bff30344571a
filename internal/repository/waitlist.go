package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-event-registration/internal/domain"
	"github.com/go-event-registration/internal/store"
)

// WaitlistRepo stores waitlist entries under the event partition. The sort
// key starts with the insertion time, so a range query is FIFO order.
type WaitlistRepo struct {
	store store.Store
}

func NewWaitlistRepo(s store.Store) *WaitlistRepo {
	return &WaitlistRepo{store: s}
}

func (r *WaitlistRepo) Add(ctx context.Context, e *domain.WaitlistEntry) error {
	item, err := marshalRecord(e, typeWaitlist, waitlistKey(e.EventID, e.UserID, e.AddedAt), nil)
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, item, store.NotExists()); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return fmt.Errorf("waitlist entry for user %s: %w", e.UserID, domain.ErrConflict)
		}
		return fmt.Errorf("add to waitlist: %w", err)
	}
	return nil
}

// List returns the event's waitlist oldest first.
func (r *WaitlistRepo) List(ctx context.Context, eventID string) ([]domain.WaitlistEntry, error) {
	return r.query(ctx, eventID, 0)
}

// First returns the oldest entry, or nil when the waitlist is empty.
func (r *WaitlistRepo) First(ctx context.Context, eventID string) (*domain.WaitlistEntry, error) {
	entries, err := r.query(ctx, eventID, 1)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[0], nil
}

// Find returns the user's entry on the event's waitlist, or nil.
func (r *WaitlistRepo) Find(ctx context.Context, eventID, userID string) (*domain.WaitlistEntry, error) {
	entries, err := r.List(ctx, eventID)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].UserID == userID {
			return &entries[i], nil
		}
	}
	return nil, nil
}

// Delete is idempotent.
func (r *WaitlistRepo) Delete(ctx context.Context, e *domain.WaitlistEntry) error {
	if err := r.store.Delete(ctx, waitlistKey(e.EventID, e.UserID, e.AddedAt), nil); err != nil {
		return fmt.Errorf("delete waitlist entry: %w", err)
	}
	return nil
}

// Claim deletes the entry only if it still exists and reports whether this
// call removed it. Two promoters racing for one entry see exactly one true.
func (r *WaitlistRepo) Claim(ctx context.Context, e *domain.WaitlistEntry) (bool, error) {
	err := r.store.Delete(ctx, waitlistKey(e.EventID, e.UserID, e.AddedAt), store.Exists())
	if errors.Is(err, store.ErrConditionFailed) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("claim waitlist entry: %w", err)
	}
	return true, nil
}

func (r *WaitlistRepo) query(ctx context.Context, eventID string, limit int32) ([]domain.WaitlistEntry, error) {
	items, err := r.store.Query(ctx, store.QueryInput{
		PartitionKey:  prefixEvent + eventID,
		SortKeyPrefix: prefixWait,
		Limit:         limit,
	})
	if err != nil {
		return nil, fmt.Errorf("query waitlist: %w", err)
	}
	return unmarshalRecords[domain.WaitlistEntry](items)
}
