package repository

import (
	"context"

	"forum-sentiment-analyzer/internal/entity"

	"gorm.io/gorm"
)

// RunRepository records analysis run history.
type RunRepository interface {
	Create(ctx context.Context, run *entity.AnalysisRun) error
	Update(ctx context.Context, run *entity.AnalysisRun) error
	ListRecent(ctx context.Context, limit int) ([]entity.AnalysisRun, error)
}

// NewRunRepository creates a new instance of RunRepository.
func NewRunRepository(db *gorm.DB) RunRepository {
	return &runRepository{db: db}
}

type runRepository struct {
	db *gorm.DB
}

func (r *runRepository) Create(ctx context.Context, run *entity.AnalysisRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *runRepository) Update(ctx context.Context, run *entity.AnalysisRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

func (r *runRepository) ListRecent(ctx context.Context, limit int) ([]entity.AnalysisRun, error) {
	var runs []entity.AnalysisRun
	err := r.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
