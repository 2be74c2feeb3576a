package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rispar0529/De-Sign/internal/pkg/logger"
)

// ActionKind names a side action. Side actions call the Analysis Gateway and
// overwrite their result field; they never advance the stage.
type ActionKind string

const (
	ActionVerify        ActionKind = "verify"
	ActionSummarize     ActionKind = "summarize"
	ActionSuggestClause ActionKind = "suggest_clause"
	ActionAsk           ActionKind = "ask"
)

// ActionParams carries the optional inputs a side action may need.
type ActionParams struct {
	ClauseName string
	RiskyText  string
	Question   string
}

// actionWriteAttempts bounds the CAS retry loop for side-action results.
// Overwrites are idempotent, so losing a race is only worth a few retries.
const actionWriteAttempts = 3

// Engine drives sessions through the state machine. It holds no per-session
// goroutine or continuation: every transition is committed to the store
// before returning, and a human gate is nothing more than a session sitting
// at an AWAITING_* stage.
type Engine struct {
	sessions SessionRepository
	analysis AnalysisGateway
	notifier NotificationGateway
	events   EventPublisher
	log      logger.ILogger
}

func NewEngine(
	sessions SessionRepository,
	analysis AnalysisGateway,
	notifier NotificationGateway,
	events EventPublisher,
	log logger.ILogger,
) *Engine {
	if events == nil {
		events = NopPublisher{}
	}
	return &Engine{
		sessions: sessions,
		analysis: analysis,
		notifier: notifier,
		events:   events,
		log:      log,
	}
}

// Start creates a session for an uploaded document and walks it through
// ingestion and risk analysis until it comes to rest at the decision gate.
// Each transition is committed separately, so a crash between steps loses
// nothing: the session resumes from its last persisted stage.
func (e *Engine) Start(ctx context.Context, userId, filename, contentType string, data []byte) (*Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		Id:        uuid.New(),
		UserId:    userId,
		Stage:     StageCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	e.log.Info("workflow", "session created", map[string]interface{}{
		"session_id": sess.Id.String(),
		"filename":   filename,
	})

	// CREATED -> INGESTED. Guard: document_ref resolved.
	ref, err := e.analysis.Extract(ctx, filename, contentType, data)
	if err != nil {
		return nil, err
	}
	if !ref.Resolved() {
		return nil, &AnalysisUnavailableError{Op: "extract", Err: errors.New("unresolved document ref")}
	}
	sess.Document = ref
	if err := e.transition(ctx, sess, StageIngested); err != nil {
		return nil, err
	}

	// INGESTED -> ANALYZED. Guard: the gateway returned a findings slice,
	// possibly empty. Failure leaves the session at INGESTED.
	findings, err := e.analysis.AssessRisk(ctx, ref)
	if err != nil {
		return nil, err
	}
	sess.RiskAssessment = findings
	if err := e.transition(ctx, sess, StageAnalyzed); err != nil {
		return nil, err
	}

	// ANALYZED -> AWAITING_DECISION is implicit: the upload response carries
	// the findings and the session waits for the human.
	if err := e.transition(ctx, sess, StageAwaitingDecision); err != nil {
		return nil, err
	}

	e.log.Info("workflow", "session awaiting decision", map[string]interface{}{
		"session_id": sess.Id.String(),
		"findings":   len(findings),
	})
	return sess, nil
}

// Resume feeds human input into a gated session. The input's concrete type
// must match the session's current stage; once-only fields are guarded so a
// resubmission fails instead of overwriting. Exactly one store write happens,
// through CompareAndSet, so of two racing calls only one can win.
func (e *Engine) Resume(ctx context.Context, id string, input ResumeInput) (*Session, error) {
	sess, err := e.get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := sess.Stage
	expected := sess.Version

	next, err := Next(sess.Stage, input)
	if err != nil {
		return nil, e.refuseInput(sess, input, err)
	}

	switch in := input.(type) {
	case DecisionInput:
		if sess.Decision != nil {
			return nil, &AlreadyDecidedError{Field: "decision"}
		}
		approved := in.Approved
		sess.Decision = &approved

	case MeetingInput:
		if sess.Meeting != nil {
			return nil, &AlreadyDecidedError{Field: "meeting details"}
		}
		if in.Timestamp.IsZero() {
			return nil, &ValidationError{Reason: "meeting timestamp is required"}
		}
		if strings.TrimSpace(in.NotificationAddress) == "" {
			return nil, &ValidationError{Reason: "notification address is required"}
		}
		meeting := newMeetingDetails(in)
		// The confirmation is sent before the transition commits: a
		// DeliveryError leaves the session at AWAITING_MEETING and the same
		// resume call can be replayed. A lost CAS race after a successful
		// send only costs a duplicate email.
		if err := e.notifier.SendMeetingConfirmation(ctx, in.NotificationAddress, sess, meeting); err != nil {
			var delivery *DeliveryError
			if errors.As(err, &delivery) {
				return nil, err
			}
			return nil, &DeliveryError{Address: in.NotificationAddress, Err: err}
		}
		sess.Meeting = meeting
		sess.Signing = &SigningRecord{
			SignatureID: "SIG_" + shortToken(10),
			SignedAt:    time.Now().UTC(),
		}
	}

	sess.Stage = next
	if status, ok := FinalStatusFor(next); ok {
		sess.FinalStatus = status
	}
	sess.UpdatedAt = time.Now().UTC()
	if err := e.sessions.CompareAndSet(ctx, expected, sess); err != nil {
		return nil, e.storeErr(sess.Id.String(), err)
	}
	e.events.PublishStageChanged(sess, from)
	e.log.Info("workflow", "session resumed", map[string]interface{}{
		"session_id": sess.Id.String(),
		"from":       string(from),
		"to":         string(sess.Stage),
	})
	return sess, nil
}

// RunAction executes a side action and stores its result, overwriting any
// prior one. A lost CAS race is retried a few times since overwrite
// semantics make the write idempotent.
func (e *Engine) RunAction(ctx context.Context, id string, kind ActionKind, params ActionParams) (*Session, error) {
	sess, err := e.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Stage == StageCreated {
		return nil, &NotIngestedError{Stage: sess.Stage}
	}
	if !sess.Stage.AcceptsActions() {
		return nil, &InvalidStateError{Stage: sess.Stage, Attempted: string(kind)}
	}

	apply, err := e.runGatewayAction(ctx, sess.Document, kind, params)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < actionWriteAttempts; attempt++ {
		apply(sess)
		sess.UpdatedAt = time.Now().UTC()
		err = e.sessions.CompareAndSet(ctx, sess.Version, sess)
		if err == nil {
			e.events.PublishActionRan(sess, kind)
			return sess, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, e.storeErr(id, err)
		}
		if sess, err = e.get(ctx, id); err != nil {
			return nil, err
		}
	}
	return nil, &ConflictError{Id: id}
}

// Get returns the current session snapshot.
func (e *Engine) Get(ctx context.Context, id string) (*Session, error) {
	return e.get(ctx, id)
}

// ListByUser returns every session owned by userId.
func (e *Engine) ListByUser(ctx context.Context, userId string) ([]*Session, error) {
	return e.sessions.ListByUser(ctx, userId)
}

// runGatewayAction performs the gateway call for a side action and returns
// the mutation to apply to the session. Keeping the call outside the CAS
// loop guarantees the gateway is hit once per request no matter how many
// write attempts follow.
func (e *Engine) runGatewayAction(ctx context.Context, ref DocumentRef, kind ActionKind, params ActionParams) (func(*Session), error) {
	switch kind {
	case ActionVerify:
		findings, err := e.analysis.AssessRisk(ctx, ref)
		if err != nil {
			return nil, err
		}
		return func(s *Session) { s.VerificationResult = findings }, nil
	case ActionSummarize:
		summary, err := e.analysis.Summarize(ctx, ref)
		if err != nil {
			return nil, err
		}
		return func(s *Session) { s.Summary = summary }, nil
	case ActionSuggestClause:
		if strings.TrimSpace(params.ClauseName) == "" {
			return nil, &ValidationError{Reason: "clause_name is required"}
		}
		suggestion, err := e.analysis.SuggestClause(ctx, ref, params.ClauseName, params.RiskyText)
		if err != nil {
			return nil, err
		}
		return func(s *Session) { s.ClauseSuggestion = suggestion }, nil
	case ActionAsk:
		if strings.TrimSpace(params.Question) == "" {
			return nil, &ValidationError{Reason: "question is required"}
		}
		answer, err := e.analysis.Answer(ctx, ref, params.Question)
		if err != nil {
			return nil, err
		}
		return func(s *Session) { s.Answer = answer }, nil
	default:
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown action %q", kind)}
	}
}

// transition commits a forward stage move during Start.
func (e *Engine) transition(ctx context.Context, sess *Session, to Stage) error {
	from := sess.Stage
	if !to.After(from) {
		return &InvalidStateError{Stage: from, Attempted: "advance to " + string(to)}
	}
	sess.Stage = to
	sess.UpdatedAt = time.Now().UTC()
	if err := e.sessions.CompareAndSet(ctx, sess.Version, sess); err != nil {
		return e.storeErr(sess.Id.String(), err)
	}
	e.events.PublishStageChanged(sess, from)
	return nil
}

// refuseInput turns the pure transition function's refusal into the precise
// API error: a gate that was already answered yields AlreadyDecidedError,
// anything else is an invalid state for that input shape.
func (e *Engine) refuseInput(sess *Session, input ResumeInput, cause error) error {
	if errors.Is(cause, ErrUnknownInput) {
		return &ValidationError{Reason: "unrecognized resume input"}
	}
	switch input.(type) {
	case DecisionInput:
		if sess.Decision != nil && sess.Stage.After(StageAwaitingDecision) {
			return &AlreadyDecidedError{Field: "decision"}
		}
	case MeetingInput:
		if sess.Meeting != nil && sess.Stage.After(StageAwaitingMeeting) {
			return &AlreadyDecidedError{Field: "meeting details"}
		}
	}
	return &InvalidStateError{Stage: sess.Stage, Attempted: "resume"}
}

func (e *Engine) get(ctx context.Context, id string) (*Session, error) {
	sess, err := e.sessions.Get(ctx, id)
	if err != nil {
		return nil, e.storeErr(id, err)
	}
	return sess, nil
}

func (e *Engine) storeErr(id string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return &SessionNotFoundError{Id: id}
	}
	if errors.Is(err, ErrVersionConflict) {
		return &ConflictError{Id: id}
	}
	return err
}

func newMeetingDetails(in MeetingInput) *MeetingDetails {
	meetingId := "MTG_" + shortToken(8)
	return &MeetingDetails{
		Timestamp:           in.Timestamp.UTC(),
		NotificationAddress: in.NotificationAddress,
		MeetingID:           meetingId,
		ConfirmationCode:    "CONF_" + shortToken(6),
		CalendarLink:        "https://calendar.example.com/meeting/" + meetingId,
	}
}

// shortToken yields an uppercase hex fragment, matching the MTG_/CONF_ code
// shape the scheduler has always produced.
func shortToken(n int) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(hex[:n])
}
