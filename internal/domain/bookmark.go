package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/questboard/backend/internal/entity"
	"github.com/questboard/backend/internal/model"
	"github.com/questboard/backend/internal/repository"
	"github.com/questboard/backend/pkg/errorx"
	"github.com/questboard/backend/pkg/xcontext"
)

type BookmarkDomain interface {
	Add(context.Context, *model.AddBookmarkRequest) (*model.AddBookmarkResponse, error)
	Remove(context.Context, *model.RemoveBookmarkRequest) (*model.RemoveBookmarkResponse, error)
	UpdateNotes(context.Context, *model.UpdateBookmarkNotesRequest) (*model.UpdateBookmarkNotesResponse, error)
	GetList(context.Context, *model.GetBookmarksRequest) (*model.GetBookmarksResponse, error)
}

type bookmarkDomain struct {
	bookmarkRepo repository.BookmarkRepository
	questRepo    repository.QuestRepository
}

func NewBookmarkDomain(
	bookmarkRepo repository.BookmarkRepository,
	questRepo repository.QuestRepository,
) *bookmarkDomain {
	return &bookmarkDomain{
		bookmarkRepo: bookmarkRepo,
		questRepo:    questRepo,
	}
}

// Add pins a quest for a user. A bookmarked quest survives eviction until
// every bookmark on it is removed.
func (d *bookmarkDomain) Add(
	ctx context.Context, req *model.AddBookmarkRequest,
) (*model.AddBookmarkResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a user id")
	}

	if _, err := d.questRepo.GetByID(ctx, req.QuestID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	err := d.bookmarkRepo.Create(ctx, &entity.Bookmark{
		Base:    entity.Base{ID: uuid.NewString()},
		QuestID: req.QuestID,
		UserID:  req.UserID,
		Notes:   req.Notes,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "Already bookmarked this quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot create bookmark: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AddBookmarkResponse{}, nil
}

func (d *bookmarkDomain) Remove(
	ctx context.Context, req *model.RemoveBookmarkRequest,
) (*model.RemoveBookmarkResponse, error) {
	if _, err := d.bookmarkRepo.Get(ctx, req.QuestID, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found bookmark")
		}

		xcontext.Logger(ctx).Errorf("Cannot get bookmark: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.bookmarkRepo.Delete(ctx, req.QuestID, req.UserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete bookmark: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RemoveBookmarkResponse{}, nil
}

func (d *bookmarkDomain) UpdateNotes(
	ctx context.Context, req *model.UpdateBookmarkNotesRequest,
) (*model.UpdateBookmarkNotesResponse, error) {
	err := d.bookmarkRepo.UpdateNotes(ctx, req.QuestID, req.UserID, req.Notes)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found bookmark")
		}

		xcontext.Logger(ctx).Errorf("Cannot update bookmark notes: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateBookmarkNotesResponse{}, nil
}

func (d *bookmarkDomain) GetList(
	ctx context.Context, req *model.GetBookmarksRequest,
) (*model.GetBookmarksResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a user id")
	}

	bookmarks, err := d.bookmarkRepo.GetByUserID(ctx, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get bookmarks: %v", err)
		return nil, errorx.Unknown
	}

	clientBookmarks := []model.Bookmark{}
	for _, bookmark := range bookmarks {
		quest, err := d.questRepo.GetByID(ctx, bookmark.QuestID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get bookmarked quest: %v", err)
			return nil, errorx.Unknown
		}

		bookmark.Quest = *quest
		clientBookmarks = append(clientBookmarks, model.ConvertBookmark(&bookmark, nil))
	}

	return &model.GetBookmarksResponse{Bookmarks: clientBookmarks}, nil
}
