package implementation

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/rispar0529/De-Sign/internal/entity"
	"github.com/rispar0529/De-Sign/internal/mapper"
	"github.com/rispar0529/De-Sign/internal/model"
	"github.com/rispar0529/De-Sign/internal/repository/contract"
)

type ReferenceClauseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ReferenceClauseMapper
}

func NewReferenceClauseRepository(db *gorm.DB) contract.ReferenceClauseRepository {
	return &ReferenceClauseRepositoryImpl{
		db:     db,
		mapper: mapper.NewReferenceClauseMapper(),
	}
}

func (r *ReferenceClauseRepositoryImpl) Create(ctx context.Context, clause *entity.ReferenceClause) error {
	m := r.mapper.ToModel(clause)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*clause = *r.mapper.ToEntity(m)
	return nil
}

func (r *ReferenceClauseRepositoryImpl) CreateBulk(ctx context.Context, clauses []*entity.ReferenceClause) error {
	models := make([]*model.ReferenceClause, len(clauses))
	for i, e := range clauses {
		models[i] = r.mapper.ToModel(e)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	// Update IDs back to entities
	for i, m := range models {
		*clauses[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ReferenceClauseRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ReferenceClause{}, id).Error
}

func (r *ReferenceClauseRepositoryImpl) FindAll(ctx context.Context) ([]*entity.ReferenceClause, error) {
	var models []*model.ReferenceClause
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ReferenceClauseRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ReferenceClause{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore returns corpus clauses with similarity scores, filtered by threshold
func (r *ReferenceClauseRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredReferenceClause, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding_value <=> query_vector) = cosine_similarity
	type result struct {
		model.ReferenceClause
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("reference_clauses").
		Select("reference_clauses.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("reference_clauses.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredReferenceClause, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredReferenceClause{
			Clause:     r.mapper.ToEntity(&res.ReferenceClause),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
