package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/johnquangdev/call-review/internal/domain/entities"
	"github.com/johnquangdev/call-review/internal/domain/repositories"
)

// CallRepository is the in-memory call list for one session
type CallRepository struct {
	mu    sync.RWMutex
	calls []*entities.CallRecord
}

var _ repositories.CallRepository = (*CallRepository)(nil)

// NewCallRepository creates an empty call repository
func NewCallRepository() *CallRepository {
	return &CallRepository{calls: make([]*entities.CallRecord, 0)}
}

// InsertPlaceholder prepends an in-flight record
func (r *CallRepository) InsertPlaceholder(ctx context.Context, call *entities.CallRecord) error {
	if call == nil {
		return errors.New("call cannot be nil")
	}
	if call.ID == "" {
		return entities.ErrMissingCallID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(call.ID) >= 0 {
		return entities.ErrCallAlreadyExists
	}

	stored := cloneCall(call)
	r.calls = append([]*entities.CallRecord{stored}, r.calls...)
	return nil
}

// Replace swaps the record stored under id with call, keeping its position
func (r *CallRepository) Replace(ctx context.Context, id string, call *entities.CallRecord) error {
	if call == nil {
		return errors.New("call cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return entities.ErrCallNotFound
	}
	if !r.calls[idx].Status.CanTransitionTo(call.Status) {
		return entities.ErrInvalidTransition
	}
	// The service-assigned id must not shadow another entry
	if call.ID != id && r.indexOf(call.ID) >= 0 {
		return entities.ErrCallAlreadyExists
	}

	r.calls[idx] = cloneCall(call)
	return nil
}

// Remove deletes the record stored under id
func (r *CallRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return entities.ErrCallNotFound
	}
	r.calls = append(r.calls[:idx], r.calls[idx+1:]...)
	return nil
}

// FindByID returns a copy of the record stored under id
func (r *CallRepository) FindByID(ctx context.Context, id string) (*entities.CallRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, entities.ErrCallNotFound
	}
	return cloneCall(r.calls[idx]), nil
}

// Snapshot returns a copy of the full list, newest first
func (r *CallRepository) Snapshot(ctx context.Context) []entities.CallRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.CallRecord, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, *cloneCall(c))
	}
	return out
}

// indexOf must be called with the lock held
func (r *CallRepository) indexOf(id string) int {
	for i, c := range r.calls {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// cloneCall copies the slices so callers never share backing arrays with the store
func cloneCall(c *entities.CallRecord) *entities.CallRecord {
	cp := *c
	if c.CompletedAt != nil {
		t := *c.CompletedAt
		cp.CompletedAt = &t
	}
	if c.Summary != nil {
		cp.Summary = make([]string, len(c.Summary))
		copy(cp.Summary, c.Summary)
	}
	if c.ActionItems != nil {
		cp.ActionItems = make([]entities.ActionItem, len(c.ActionItems))
		copy(cp.ActionItems, c.ActionItems)
	}
	if c.AIVerification.Reasoning != nil {
		cp.AIVerification.Reasoning = make([]string, len(c.AIVerification.Reasoning))
		copy(cp.AIVerification.Reasoning, c.AIVerification.Reasoning)
	}
	return &cp
}
