package mapper

import (
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/rispar0529/De-Sign/internal/entity"
	"github.com/rispar0529/De-Sign/internal/model"
)

type ReferenceClauseMapper struct{}

func NewReferenceClauseMapper() *ReferenceClauseMapper {
	return &ReferenceClauseMapper{}
}

func (m *ReferenceClauseMapper) ToEntity(e *model.ReferenceClause) *entity.ReferenceClause {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.ReferenceClause{
		Id:         e.Id,
		ClauseName: e.ClauseName,
		Body:       e.Body,
		RiskNotes:  e.RiskNotes,
		Embedding:  e.EmbeddingValue.Slice(),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *ReferenceClauseMapper) ToModel(e *entity.ReferenceClause) *model.ReferenceClause {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.ReferenceClause{
		Id:             e.Id,
		ClauseName:     e.ClauseName,
		Body:           e.Body,
		RiskNotes:      e.RiskNotes,
		EmbeddingValue: pgvector.NewVector(e.Embedding),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *ReferenceClauseMapper) ToEntities(clauses []*model.ReferenceClause) []*entity.ReferenceClause {
	entities := make([]*entity.ReferenceClause, len(clauses))
	for i, e := range clauses {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *ReferenceClauseMapper) ToModels(clauses []*entity.ReferenceClause) []*model.ReferenceClause {
	models := make([]*model.ReferenceClause, len(clauses))
	for i, e := range clauses {
		models[i] = m.ToModel(e)
	}
	return models
}
