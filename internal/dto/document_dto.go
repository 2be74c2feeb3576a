// FILE: internal/dto/document_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/rispar0529/De-Sign/internal/workflow"
)

type UploadDocumentResponse struct {
	SessionId uuid.UUID                `json:"session_id"`
	Filename  string                   `json:"filename"`
	Stage     string                   `json:"stage"`
	Findings  []workflow.ClauseFinding `json:"risk_assessment"`
}

type SessionSummaryResponse struct {
	SessionId   uuid.UUID `json:"session_id"`
	Filename    string    `json:"filename"`
	Stage       string    `json:"stage"`
	FinalStatus string    `json:"final_status,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SessionDetailResponse struct {
	SessionId          uuid.UUID                `json:"session_id"`
	Filename           string                   `json:"filename"`
	ContentType        string                   `json:"content_type"`
	Stage              string                   `json:"stage"`
	FinalStatus        string                   `json:"final_status,omitempty"`
	RiskAssessment     []workflow.ClauseFinding `json:"risk_assessment,omitempty"`
	VerificationResult []workflow.ClauseFinding `json:"verification_result,omitempty"`
	Summary            string                   `json:"summary,omitempty"`
	ClauseSuggestion   string                   `json:"clause_suggestion,omitempty"`
	Answer             string                   `json:"answer,omitempty"`
	Decision           *bool                    `json:"decision,omitempty"`
	Meeting            *MeetingResponse         `json:"meeting,omitempty"`
	Signing            *SigningResponse         `json:"signing,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

type MeetingResponse struct {
	Timestamp        time.Time `json:"timestamp"`
	MeetingId        string    `json:"meeting_id"`
	ConfirmationCode string    `json:"confirmation_code"`
	CalendarLink     string    `json:"calendar_link"`
}

type SigningResponse struct {
	SignatureId string    `json:"signature_id"`
	SignedAt    time.Time `json:"signed_at"`
}

type DecisionRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

type ScheduleMeetingRequest struct {
	Timestamp           string `json:"timestamp" validate:"required"`
	NotificationAddress string `json:"notification_address" validate:"required,email"`
}

type SuggestClauseRequest struct {
	ClauseName string `json:"clause_name" validate:"required"`
	RiskyText  string `json:"risky_text"`
}

type AskQuestionRequest struct {
	Question string `json:"question" validate:"required"`
}

type ActionResultResponse struct {
	SessionId uuid.UUID `json:"session_id"`
	Stage     string    `json:"stage"`
	Result    string    `json:"result,omitempty"`
}

type VerifyResponse struct {
	SessionId uuid.UUID                `json:"session_id"`
	Stage     string                   `json:"stage"`
	Findings  []workflow.ClauseFinding `json:"verification_result"`
}
