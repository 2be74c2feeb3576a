package dto

import "time"

// SessionEventMessage is the wire payload published to the audit topic for
// every workflow transition and side action.
type SessionEventMessage struct {
	EventType  string    `json:"event_type"`
	SessionId  string    `json:"session_id"`
	UserId     string    `json:"user_id"`
	Stage      string    `json:"stage"`
	FromStage  string    `json:"from_stage,omitempty"`
	Action     string    `json:"action,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
