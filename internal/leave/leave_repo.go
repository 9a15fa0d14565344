package leave

import (
	"context"

	"leavedesk/internal/shared/kvstore"
)

const (
	requestsCollection = "leave_requests"

	// IndexPending holds the ids of requests awaiting a decision; IndexAll
	// holds every id ever created. The store has no range or filter query,
	// so these sets are the only way to enumerate requests.
	IndexPending = "pending_requests"
	IndexAll     = "employee_requests"
)

type Repository interface {
	Save(ctx context.Context, l *LeaveRequest) error
	// FindByID returns (nil, nil) when the id is absent.
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	// ListByIndex resolves every id in the index to its record. Ids without a
	// backing record are silently skipped; that only happens if index
	// maintenance ever drifts and is treated as a no-op, not a fault.
	ListByIndex(ctx context.Context, index string) ([]LeaveRequest, error)
	AddToIndex(ctx context.Context, index, id string) error
	RemoveFromIndex(ctx context.Context, index, id string) error
}

type repository struct {
	store kvstore.Store
}

func NewRepository(store kvstore.Store) Repository {
	return &repository{store: store}
}

func (r *repository) Save(ctx context.Context, l *LeaveRequest) error {
	return r.store.HashSet(ctx, requestsCollection, l.ID, l)
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	found, err := r.store.HashGet(ctx, requestsCollection, id, &l)
	if err != nil || !found {
		return nil, err
	}
	return &l, nil
}

func (r *repository) ListByIndex(ctx context.Context, index string) ([]LeaveRequest, error) {
	ids, err := r.store.SetMembers(ctx, index)
	if err != nil {
		return nil, err
	}

	requests := make([]LeaveRequest, 0, len(ids))
	for _, id := range ids {
		var l LeaveRequest
		found, err := r.store.HashGet(ctx, requestsCollection, id, &l)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		requests = append(requests, l)
	}
	return requests, nil
}

func (r *repository) AddToIndex(ctx context.Context, index, id string) error {
	return r.store.SetAdd(ctx, index, id)
}

func (r *repository) RemoveFromIndex(ctx context.Context, index, id string) error {
	return r.store.SetRemove(ctx, index, id)
}
