package workflow

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel grades a single clause finding.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// ClauseFinding is one analyzed contract clause as returned by the
// Analysis Gateway. Findings keep retrieval order; they are not sorted
// by risk.
type ClauseFinding struct {
	ClauseName      string    `json:"clause_name"`
	IsPresent       bool      `json:"is_present"`
	RiskLevel       RiskLevel `json:"risk_level"`
	ConfidenceScore float64   `json:"confidence_score"`
	Justification   string    `json:"justification"`
	CitedText       string    `json:"cited_text,omitempty"`
}

// DocumentRef is the opaque handle to an ingested file. The engine passes it
// to the Analysis Gateway and never inspects the underlying bytes itself.
type DocumentRef struct {
	Path        string `json:"path"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

func (r DocumentRef) Resolved() bool {
	return r.Path != ""
}

// MeetingDetails is recorded exactly once, when the scheduling transition
// commits.
type MeetingDetails struct {
	Timestamp           time.Time `json:"timestamp"`
	NotificationAddress string    `json:"notification_address"`
	MeetingID           string    `json:"meeting_id"`
	ConfirmationCode    string    `json:"confirmation_code"`
	CalendarLink        string    `json:"calendar_link"`
}

// SigningRecord marks the document as signed while the scheduling transition
// commits.
type SigningRecord struct {
	SignatureID string    `json:"signature_id"`
	SignedAt    time.Time `json:"signed_at"`
}

// Session tracks one uploaded document through the review workflow. It is
// mutated only by Engine transitions and persisted after every one of them,
// so any process instance can pick the workflow back up from the store.
type Session struct {
	Id       uuid.UUID   `json:"id"`
	UserId   string      `json:"user_id"`
	Document DocumentRef `json:"document"`
	Stage    Stage       `json:"stage"`

	// Populated by the analysis pass during Start.
	RiskAssessment []ClauseFinding `json:"risk_assessment,omitempty"`

	// Side-action results. Independently settable, re-runnable, and never
	// part of the stage-advancing path.
	VerificationResult []ClauseFinding `json:"verification_result,omitempty"`
	Summary            string          `json:"summary,omitempty"`
	ClauseSuggestion   string          `json:"clause_suggestion,omitempty"`
	Answer             string          `json:"answer,omitempty"`

	// Write-once human-gate fields.
	Decision *bool           `json:"decision,omitempty"`
	Meeting  *MeetingDetails `json:"meeting,omitempty"`
	Signing  *SigningRecord  `json:"signing,omitempty"`

	// Set if and only if Stage is terminal.
	FinalStatus FinalStatus `json:"final_status,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Version is the compare-and-set token, managed by the session store.
	Version int64 `json:"version"`
}

// Clone returns a deep copy so store reads never alias engine mutations.
func (s *Session) Clone() *Session {
	cp := *s
	if s.RiskAssessment != nil {
		cp.RiskAssessment = append([]ClauseFinding(nil), s.RiskAssessment...)
	}
	if s.VerificationResult != nil {
		cp.VerificationResult = append([]ClauseFinding(nil), s.VerificationResult...)
	}
	if s.Decision != nil {
		d := *s.Decision
		cp.Decision = &d
	}
	if s.Meeting != nil {
		m := *s.Meeting
		cp.Meeting = &m
	}
	if s.Signing != nil {
		sig := *s.Signing
		cp.Signing = &sig
	}
	return &cp
}

// ResumeInput is the tagged union fed into a human gate. The concrete type
// selects the gate; the engine validates it against the session's current
// stage before any mutation.
type ResumeInput interface {
	inputKind() string
}

// DecisionInput answers the AWAITING_DECISION gate.
type DecisionInput struct {
	Approved bool
}

func (DecisionInput) inputKind() string { return "decision" }

// MeetingInput answers the AWAITING_MEETING gate.
type MeetingInput struct {
	Timestamp           time.Time
	NotificationAddress string
}

func (MeetingInput) inputKind() string { return "meeting" }
