package repository

import (
	"context"

	"github.com/questboard/backend/internal/entity"
	"github.com/questboard/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *entity.Bookmark) error
	Get(ctx context.Context, questID, userID string) (*entity.Bookmark, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.Bookmark, error)
	Count(ctx context.Context, questID string) (int64, error)
	UpdateNotes(ctx context.Context, questID, userID, notes string) error
	Delete(ctx context.Context, questID, userID string) error
}

type bookmarkRepository struct{}

func NewBookmarkRepository() BookmarkRepository {
	return &bookmarkRepository{}
}

func (r *bookmarkRepository) Create(ctx context.Context, bookmark *entity.Bookmark) error {
	return xcontext.DB(ctx).Create(bookmark).Error
}

func (r *bookmarkRepository) Get(ctx context.Context, questID, userID string) (*entity.Bookmark, error) {
	record := &entity.Bookmark{}
	err := xcontext.DB(ctx).
		Take(record, "quest_id=? AND user_id=?", questID, userID).Error
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (r *bookmarkRepository) GetByUserID(ctx context.Context, userID string) ([]entity.Bookmark, error) {
	records := []entity.Bookmark{}
	err := xcontext.DB(ctx).
		Order("created_at DESC").
		Find(&records, "user_id=?", userID).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *bookmarkRepository) Count(ctx context.Context, questID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Bookmark{}).
		Where("quest_id=?", questID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *bookmarkRepository) UpdateNotes(ctx context.Context, questID, userID, notes string) error {
	tx := xcontext.DB(ctx).Model(&entity.Bookmark{}).
		Where("quest_id=? AND user_id=?", questID, userID).
		Update("notes", notes)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *bookmarkRepository) Delete(ctx context.Context, questID, userID string) error {
	return xcontext.DB(ctx).
		Where("quest_id=? AND user_id=?", questID, userID).
		Delete(&entity.Bookmark{}).Error
}
