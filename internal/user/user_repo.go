package user

import (
	"context"

	"leavedesk/internal/shared/kvstore"
)

const (
	usersCollection  = "users"
	emailsCollection = "user_emails" // email -> user id, for login lookup
)

type Repository interface {
	Save(ctx context.Context, u *User) error
	// FindByID returns (nil, nil) when the id does not resolve to a user.
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}

type repository struct {
	store kvstore.Store
}

func NewRepository(store kvstore.Store) Repository {
	return &repository{store: store}
}

func (r *repository) Save(ctx context.Context, u *User) error {
	if err := r.store.HashSet(ctx, usersCollection, u.ID, u); err != nil {
		return err
	}
	return r.store.HashSet(ctx, emailsCollection, u.Email, u.ID)
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	found, err := r.store.HashGet(ctx, usersCollection, id, &u)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var id string
	found, err := r.store.HashGet(ctx, emailsCollection, email, &id)
	if err != nil || !found {
		return nil, err
	}
	return r.FindByID(ctx, id)
}
