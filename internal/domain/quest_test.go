package domain

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/questboard/backend/internal/domain/search"
	"github.com/questboard/backend/internal/entity"
	"github.com/questboard/backend/internal/model"
	"github.com/questboard/backend/internal/repository"
	"github.com/questboard/backend/internal/testutil"
)

func newTestQuestDomain(t *testing.T) (QuestDomain, repository.QuestRepository, repository.SubmissionRepository) {
	index, err := search.NewMemIndex()
	require.NoError(t, err)

	questRepo := repository.NewQuestRepository(index, nil)
	submissionRepo := repository.NewSubmissionRepository()

	return NewQuestDomain(questRepo, submissionRepo), questRepo, submissionRepo
}

func Test_questDomain_GetList_ExcludesLowPriority(t *testing.T) {
	ctx := testutil.MockContext()
	d, questRepo, _ := newTestQuestDomain(t)

	_, err := questRepo.Upsert(ctx, &entity.Quest{
		Base:           entity.Base{ID: "reddit_paid"},
		Title:          "Fix leaky faucet",
		Source:         entity.SourceReddit,
		Region:         "las_vegas",
		RewardAmount:   sql.NullFloat64{Float64: 20, Valid: true},
		ApprovalStatus: entity.ApprovalApproved,
		LastSeen:       time.Now(),
	})
	require.NoError(t, err)

	_, err = questRepo.Upsert(ctx, &entity.Quest{
		Base:           entity.Base{ID: "reddit_unpaid"},
		Title:          "Help me move",
		Source:         entity.SourceReddit,
		Region:         "las_vegas",
		LowPriority:    true,
		ApprovalStatus: entity.ApprovalApproved,
		LastSeen:       time.Now(),
	})
	require.NoError(t, err)

	resp, err := d.GetList(ctx, &model.GetListQuestRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Quests, 1)
	require.Equal(t, "reddit_paid", resp.Quests[0].ID)

	resp, err = d.GetList(ctx, &model.GetListQuestRequest{IncludeLowPriority: true})
	require.NoError(t, err)
	require.Len(t, resp.Quests, 2)
}

func Test_questDomain_SubmitAndModerate(t *testing.T) {
	ctx := testutil.MockContext()
	d, questRepo, submissionRepo := newTestQuestDomain(t)

	resp, err := d.Submit(ctx, &model.SubmitQuestRequest{
		Title:       "Install shelves in my garage",
		Description: "Three wall shelves, hardware provided",
		RewardText:  "$60",
		Location:    "Henderson",
		SubmittedBy: "user1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	submissions, err := submissionRepo.GetUnconsumed(ctx, 0)
	require.NoError(t, err)
	require.Len(t, submissions, 1)

	// Before ingestion the quest doesn't exist yet; moderation needs the
	// pipeline to have picked it up.
	_, err = d.Approve(ctx, &model.ApproveQuestRequest{ID: resp.ID})
	require.Error(t, err)

	_, err = questRepo.Upsert(ctx, &entity.Quest{
		Base:           entity.Base{ID: resp.ID},
		Title:          "Install shelves in my garage",
		Source:         entity.SourceUser,
		Region:         "las_vegas",
		ApprovalStatus: entity.ApprovalPending,
		LastSeen:       time.Now(),
	})
	require.NoError(t, err)

	_, err = d.Approve(ctx, &model.ApproveQuestRequest{ID: resp.ID})
	require.NoError(t, err)

	quest, err := questRepo.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ApprovalApproved, quest.ApprovalStatus)

	_, err = d.Reject(ctx, &model.RejectQuestRequest{ID: resp.ID})
	require.NoError(t, err)

	quest, err = questRepo.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ApprovalRejected, quest.ApprovalStatus)
}

func Test_questDomain_ModerationOnlyForUserQuests(t *testing.T) {
	ctx := testutil.MockContext()
	d, questRepo, _ := newTestQuestDomain(t)

	_, err := questRepo.Upsert(ctx, &entity.Quest{
		Base:           entity.Base{ID: "reddit_abc"},
		Title:          "Fix leaky faucet",
		Source:         entity.SourceReddit,
		ApprovalStatus: entity.ApprovalApproved,
		LastSeen:       time.Now(),
	})
	require.NoError(t, err)

	_, err = d.Approve(ctx, &model.ApproveQuestRequest{ID: "reddit_abc"})
	require.Error(t, err)
}

func Test_questDomain_Get(t *testing.T) {
	ctx := testutil.MockContext()
	d, questRepo, _ := newTestQuestDomain(t)

	_, err := d.Get(ctx, &model.GetQuestRequest{ID: "missing"})
	require.Error(t, err)

	_, err = questRepo.Upsert(ctx, &entity.Quest{
		Base:           entity.Base{ID: "reddit_abc"},
		Title:          "Fix leaky faucet",
		Source:         entity.SourceReddit,
		Region:         "las_vegas",
		RewardAmount:   sql.NullFloat64{Float64: 20, Valid: true},
		ApprovalStatus: entity.ApprovalApproved,
		LastSeen:       time.Now(),
	})
	require.NoError(t, err)

	resp, err := d.Get(ctx, &model.GetQuestRequest{ID: "reddit_abc"})
	require.NoError(t, err)
	require.Equal(t, "Fix leaky faucet", resp.Title)
	require.NotNil(t, resp.RewardAmount)
	require.Equal(t, 20.0, *resp.RewardAmount)
}
