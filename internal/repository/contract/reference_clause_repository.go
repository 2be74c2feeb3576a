package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/rispar0529/De-Sign/internal/entity"
)

// ScoredReferenceClause wraps ReferenceClause with its similarity score
type ScoredReferenceClause struct {
	Clause     *entity.ReferenceClause
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type ReferenceClauseRepository interface {
	Create(ctx context.Context, clause *entity.ReferenceClause) error
	CreateBulk(ctx context.Context, clauses []*entity.ReferenceClause) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context) ([]*entity.ReferenceClause, error)
	Count(ctx context.Context) (int64, error)
	// SearchSimilarWithScore returns corpus clauses with their similarity scores, filtered by threshold
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredReferenceClause, error)
}
