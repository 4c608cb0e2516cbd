package repository

import (
	"context"

	"github.com/questboard/backend/internal/entity"
	"github.com/questboard/backend/pkg/xcontext"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *entity.Submission) error
	GetUnconsumed(ctx context.Context, limit int) ([]entity.Submission, error)
	MarkConsumed(ctx context.Context, ids []string) error
}

type submissionRepository struct{}

func NewSubmissionRepository() SubmissionRepository {
	return &submissionRepository{}
}

func (r *submissionRepository) Create(ctx context.Context, submission *entity.Submission) error {
	return xcontext.DB(ctx).Create(submission).Error
}

func (r *submissionRepository) GetUnconsumed(ctx context.Context, limit int) ([]entity.Submission, error) {
	records := []entity.Submission{}
	tx := xcontext.DB(ctx).Where("consumed=?", false).Order("created_at ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *submissionRepository) MarkConsumed(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Model(&entity.Submission{}).
		Where("id IN (?)", ids).
		Update("consumed", true).Error
}
