package workflow

import "context"

// SessionRepository is the only shared mutable resource in the system. All
// mutation goes through CompareAndSet so that two near-simultaneous resume
// calls on one session cannot both advance it: the loser gets
// ErrVersionConflict and must re-read.
//
// Implementations live in internal/repository (memory, redis). The interface
// sits with its consumer so store backends depend on the engine's types, not
// the other way around.
type SessionRepository interface {
	// Create persists a brand new session with version 1.
	// Returns ErrDuplicateSession if the id is already present.
	Create(ctx context.Context, session *Session) error

	// Get returns a deep copy of the session, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// CompareAndSet replaces the stored session only if its version still
	// equals expectedVersion, then bumps session.Version. Returns
	// ErrVersionConflict when the race is lost and ErrNotFound for an
	// unknown id.
	CompareAndSet(ctx context.Context, expectedVersion int64, session *Session) error

	// ListByUser returns copies of every session owned by userId.
	ListByUser(ctx context.Context, userId string) ([]*Session, error)

	// Delete removes a session. Retention of terminal sessions is a store
	// concern; the engine never calls this on a live one.
	Delete(ctx context.Context, id string) error
}
