package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReferenceClause is one vetted clause text in the retrieval corpus that
// risk assessment grounds its judgments on.
type ReferenceClause struct {
	Id         uuid.UUID
	ClauseName string
	Body       string
	RiskNotes  string
	Embedding  []float32
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
