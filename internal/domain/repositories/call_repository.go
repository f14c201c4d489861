package repositories

import (
	"context"

	"github.com/johnquangdev/call-review/internal/domain/entities"
)

// CallRepository defines the whole-entry operations on the session call list.
// Implementations never mutate a stored record in place.
type CallRepository interface {
	// InsertPlaceholder prepends an in-flight record to the list
	InsertPlaceholder(ctx context.Context, call *entities.CallRecord) error

	// Replace swaps the record stored under id with call (call.ID may differ from id)
	Replace(ctx context.Context, id string, call *entities.CallRecord) error

	// Remove deletes the record stored under id
	Remove(ctx context.Context, id string) error

	// FindByID returns a copy of the record stored under id
	FindByID(ctx context.Context, id string) (*entities.CallRecord, error)

	// Snapshot returns a copy of the full list, newest first
	Snapshot(ctx context.Context) []entities.CallRecord
}
