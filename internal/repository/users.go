package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/go-event-registration/internal/domain"
	"github.com/go-event-registration/internal/store"
)

// UserRepo stores users.
type UserRepo struct {
	store store.Store
}

func NewUserRepo(s store.Store) *UserRepo {
	return &UserRepo{store: s}
}

// Create fails with domain.ErrConflict when the user id is taken.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	item, err := marshalRecord(u, typeUser, userKey(u.UserID), nil)
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, item, store.NotExists()); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return fmt.Errorf("user %s already exists: %w", u.UserID, domain.ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Get returns nil, nil when the user does not exist.
func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	item, err := r.store.Get(ctx, userKey(userID))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if item == nil {
		return nil, nil
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(item, &u); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	if err := r.store.Delete(ctx, userKey(userID), nil); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
