package workflow

import (
	"errors"
	"fmt"
)

// Sentinel errors shared between the engine, the transition function and the
// session store implementations.
var (
	// ErrWrongStage is returned by the pure transition function when an input
	// shape does not fit the current stage. The engine refines it into
	// InvalidStateError or AlreadyDecidedError.
	ErrWrongStage = errors.New("input does not match current stage")

	// ErrUnknownInput is returned for a resume payload of an unknown kind.
	ErrUnknownInput = errors.New("unknown resume input")

	// ErrNotFound is returned by session stores for an unknown session id.
	ErrNotFound = errors.New("session not found")

	// ErrVersionConflict is returned by CompareAndSet when the expected
	// version no longer matches the stored one.
	ErrVersionConflict = errors.New("session version conflict")

	// ErrDuplicateSession is returned by Create for an id that already exists.
	ErrDuplicateSession = errors.New("session already exists")
)

// ValidationError marks malformed input. It fails fast with no state change.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// SessionNotFoundError is the API-facing form of ErrNotFound.
type SessionNotFoundError struct {
	Id string
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("session %s not found", e.Id)
}

// InvalidStateError reports an operation that the session's current stage
// does not accept.
type InvalidStateError struct {
	Stage     Stage
	Attempted string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s while session is at stage %s", e.Attempted, e.Stage)
}

// AlreadyDecidedError guards the once-only fields: resubmitting a decision or
// meeting details after they are set is rejected, never silently overwritten.
type AlreadyDecidedError struct {
	Field string
}

func (e *AlreadyDecidedError) Error() string {
	return fmt.Sprintf("%s has already been submitted for this session", e.Field)
}

// NotIngestedError reports a side action invoked before the document was
// ingested.
type NotIngestedError struct {
	Stage Stage
}

func (e *NotIngestedError) Error() string {
	return fmt.Sprintf("document not ingested yet (stage %s)", e.Stage)
}

// ConflictError reports a lost compare-and-set race. The caller may retry by
// re-issuing the same request; no transition partially committed.
type ConflictError struct {
	Id string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("session %s was modified concurrently, retry", e.Id)
}

// AnalysisUnavailableError wraps a failed Analysis Gateway call. Transient:
// the session is left untouched and the request can be retried.
type AnalysisUnavailableError struct {
	Op  string
	Err error
}

func (e *AnalysisUnavailableError) Error() string {
	return fmt.Sprintf("analysis %s unavailable: %v", e.Op, e.Err)
}

func (e *AnalysisUnavailableError) Unwrap() error { return e.Err }

// DeliveryError wraps a failed notification send. The scheduling transition
// does not commit when it occurs, so resubmitting the same meeting input
// retries the whole step.
type DeliveryError struct {
	Address string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("notification to %s failed: %v", e.Address, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// IsRetryable reports whether the caller may safely re-issue the request that
// produced err.
func IsRetryable(err error) bool {
	var conflict *ConflictError
	var analysis *AnalysisUnavailableError
	var delivery *DeliveryError
	return errors.As(err, &conflict) || errors.As(err, &analysis) || errors.As(err, &delivery)
}
