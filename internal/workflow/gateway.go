package workflow

import "context"

// AnalysisGateway abstracts text extraction, retrieval and LLM reasoning.
// Every call is blocking with a bounded timeout; failure surfaces as
// AnalysisUnavailableError with no session mutation.
type AnalysisGateway interface {
	// Extract ingests raw file bytes and returns the opaque document handle.
	Extract(ctx context.Context, filename, contentType string, data []byte) (DocumentRef, error)

	// AssessRisk analyzes the document clause by clause. Ordering of findings
	// is retrieval order.
	AssessRisk(ctx context.Context, ref DocumentRef) ([]ClauseFinding, error)

	// Summarize produces a plain-English summary.
	Summarize(ctx context.Context, ref DocumentRef) (string, error)

	// SuggestClause drafts or redrafts the named clause. riskyText, when
	// present, is the excerpt to rewrite.
	SuggestClause(ctx context.Context, ref DocumentRef, clauseName, riskyText string) (string, error)

	// Answer responds to a question grounded only in the document text.
	Answer(ctx context.Context, ref DocumentRef, question string) (string, error)
}

// NotificationGateway abstracts outbound email. At-most-once: the engine
// performs exactly one send per scheduling attempt and never retries
// internally.
type NotificationGateway interface {
	SendMeetingConfirmation(ctx context.Context, address string, session *Session, meeting *MeetingDetails) error
}

// EventPublisher receives workflow lifecycle events for the audit trail.
type EventPublisher interface {
	PublishStageChanged(session *Session, from Stage)
	PublishActionRan(session *Session, action ActionKind)
}

// NopPublisher satisfies EventPublisher when no bus is wired (tests).
type NopPublisher struct{}

func (NopPublisher) PublishStageChanged(*Session, Stage)   {}
func (NopPublisher) PublishActionRan(*Session, ActionKind) {}
