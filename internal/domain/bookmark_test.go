package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/questboard/backend/internal/domain/search"
	"github.com/questboard/backend/internal/entity"
	"github.com/questboard/backend/internal/model"
	"github.com/questboard/backend/internal/repository"
	"github.com/questboard/backend/internal/testutil"
)

func newTestBookmarkDomain(t *testing.T) (BookmarkDomain, repository.QuestRepository) {
	index, err := search.NewMemIndex()
	require.NoError(t, err)

	questRepo := repository.NewQuestRepository(index, nil)
	return NewBookmarkDomain(repository.NewBookmarkRepository(), questRepo), questRepo
}

func Test_bookmarkDomain_AddRemove(t *testing.T) {
	ctx := testutil.MockContext()
	d, questRepo := newTestBookmarkDomain(t)

	_, err := questRepo.Upsert(ctx, &entity.Quest{
		Base:           entity.Base{ID: "reddit_abc"},
		Title:          "Fix leaky faucet",
		Source:         entity.SourceReddit,
		ApprovalStatus: entity.ApprovalApproved,
		LastSeen:       time.Now(),
	})
	require.NoError(t, err)

	_, err = d.Add(ctx, &model.AddBookmarkRequest{
		QuestID: "reddit_abc",
		UserID:  "user1",
		Notes:   "bring wrench",
	})
	require.NoError(t, err)

	// Unknown quest cannot be bookmarked.
	_, err = d.Add(ctx, &model.AddBookmarkRequest{QuestID: "missing", UserID: "user1"})
	require.Error(t, err)

	resp, err := d.GetList(ctx, &model.GetBookmarksRequest{UserID: "user1"})
	require.NoError(t, err)
	require.Len(t, resp.Bookmarks, 1)
	require.Equal(t, "bring wrench", resp.Bookmarks[0].Notes)
	require.Equal(t, "Fix leaky faucet", resp.Bookmarks[0].Quest.Title)

	_, err = d.UpdateNotes(ctx, &model.UpdateBookmarkNotesRequest{
		QuestID: "reddit_abc",
		UserID:  "user1",
		Notes:   "done",
	})
	require.NoError(t, err)

	resp, err = d.GetList(ctx, &model.GetBookmarksRequest{UserID: "user1"})
	require.NoError(t, err)
	require.Equal(t, "done", resp.Bookmarks[0].Notes)

	_, err = d.Remove(ctx, &model.RemoveBookmarkRequest{QuestID: "reddit_abc", UserID: "user1"})
	require.NoError(t, err)

	resp, err = d.GetList(ctx, &model.GetBookmarksRequest{UserID: "user1"})
	require.NoError(t, err)
	require.Empty(t, resp.Bookmarks)

	_, err = d.Remove(ctx, &model.RemoveBookmarkRequest{QuestID: "reddit_abc", UserID: "user1"})
	require.Error(t, err)
}

func Test_bookmarkDomain_UpdateNotesMissing(t *testing.T) {
	ctx := testutil.MockContext()
	d, _ := newTestBookmarkDomain(t)

	_, err := d.UpdateNotes(ctx, &model.UpdateBookmarkNotesRequest{
		QuestID: "missing",
		UserID:  "user1",
	})
	require.Error(t, err)
}
