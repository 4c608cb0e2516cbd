package repository

import (
	"context"

	"github.com/questboard/backend/internal/entity"
	"github.com/questboard/backend/pkg/xcontext"
)

type DifficultyCurveRepository interface {
	// Append adds samples; existing rows are never mutated.
	Append(ctx context.Context, curves []entity.DifficultyCurve) error
	GetByCategory(ctx context.Context, category string) ([]entity.DifficultyCurve, error)
	GetAll(ctx context.Context) ([]entity.DifficultyCurve, error)
	// PruneOldest removes the oldest rows beyond the retention count.
	PruneOldest(ctx context.Context, retain int) (int64, error)
}

type difficultyCurveRepository struct{}

func NewDifficultyCurveRepository() DifficultyCurveRepository {
	return &difficultyCurveRepository{}
}

func (r *difficultyCurveRepository) Append(ctx context.Context, curves []entity.DifficultyCurve) error {
	if len(curves) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Create(&curves).Error
}

func (r *difficultyCurveRepository) GetByCategory(ctx context.Context, category string) ([]entity.DifficultyCurve, error) {
	records := []entity.DifficultyCurve{}
	err := xcontext.DB(ctx).
		Order("created_at DESC").
		Find(&records, "category=?", category).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *difficultyCurveRepository) GetAll(ctx context.Context) ([]entity.DifficultyCurve, error) {
	records := []entity.DifficultyCurve{}
	if err := xcontext.DB(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *difficultyCurveRepository) PruneOldest(ctx context.Context, retain int) (int64, error) {
	var count int64
	if err := xcontext.DB(ctx).Model(&entity.DifficultyCurve{}).Count(&count).Error; err != nil {
		return 0, err
	}

	if count <= int64(retain) {
		return 0, nil
	}

	excess := count - int64(retain)
	tx := xcontext.DB(ctx).Exec(`
		DELETE FROM difficulty_curves
		WHERE id IN (SELECT id FROM (
			SELECT id FROM difficulty_curves ORDER BY id ASC LIMIT ?
		) AS oldest)`, excess)
	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}
