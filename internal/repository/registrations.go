package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/go-event-registration/internal/domain"
	"github.com/go-event-registration/internal/store"
)

// RegistrationRepo stores registrations under the user partition and
// projects them into GSI1 under the event partition.
type RegistrationRepo struct {
	store store.Store
}

func NewRegistrationRepo(s store.Store) *RegistrationRepo {
	return &RegistrationRepo{store: s}
}

// Create fails with domain.ErrConflict when the (user, event) pair already
// has a registration.
func (r *RegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	item, err := marshalRecord(reg, typeRegistration, registrationKey(reg.UserID, reg.EventID), map[string]string{
		store.AttrGSI1PK: prefixEvent + reg.EventID,
		store.AttrGSI1SK: prefixReg + reg.UserID,
	})
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, item, store.NotExists()); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return fmt.Errorf("user %s is already registered for event %s: %w", reg.UserID, reg.EventID, domain.ErrConflict)
		}
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

// Get returns nil, nil when the pair is not registered.
func (r *RegistrationRepo) Get(ctx context.Context, userID, eventID string) (*domain.Registration, error) {
	item, err := r.store.Get(ctx, registrationKey(userID, eventID))
	if err != nil {
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if item == nil {
		return nil, nil
	}
	var reg domain.Registration
	if err := attributevalue.UnmarshalMap(item, &reg); err != nil {
		return nil, fmt.Errorf("unmarshal registration: %w", err)
	}
	return &reg, nil
}

// Delete is idempotent.
func (r *RegistrationRepo) Delete(ctx context.Context, userID, eventID string) error {
	if err := r.store.Delete(ctx, registrationKey(userID, eventID), nil); err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

// Remove deletes the registration only if it still exists and reports
// whether this call was the one that removed it.
func (r *RegistrationRepo) Remove(ctx context.Context, userID, eventID string) (bool, error) {
	err := r.store.Delete(ctx, registrationKey(userID, eventID), store.Exists())
	if errors.Is(err, store.ErrConditionFailed) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove registration: %w", err)
	}
	return true, nil
}

func (r *RegistrationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Registration, error) {
	items, err := r.store.Query(ctx, store.QueryInput{
		PartitionKey:  prefixUser + userID,
		SortKeyPrefix: prefixReg,
	})
	if err != nil {
		return nil, fmt.Errorf("list user registrations: %w", err)
	}
	return unmarshalRecords[domain.Registration](items)
}

func (r *RegistrationRepo) ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error) {
	items, err := r.store.Query(ctx, store.QueryInput{
		Index:         store.IndexGSI1,
		PartitionKey:  prefixEvent + eventID,
		SortKeyPrefix: prefixReg,
	})
	if err != nil {
		return nil, fmt.Errorf("list event registrations: %w", err)
	}
	return unmarshalRecords[domain.Registration](items)
}
