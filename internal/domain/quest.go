package domain

import (
	"context"
	"errors"

	"github.com/pkg/math"
	"gorm.io/gorm"

	"github.com/questboard/backend/internal/domain/normalize"
	"github.com/questboard/backend/internal/domain/source"
	"github.com/questboard/backend/internal/entity"
	"github.com/questboard/backend/internal/model"
	"github.com/questboard/backend/internal/repository"
	"github.com/questboard/backend/pkg/errorx"
	"github.com/questboard/backend/pkg/xcontext"
)

type QuestDomain interface {
	Get(context.Context, *model.GetQuestRequest) (*model.GetQuestResponse, error)
	GetList(context.Context, *model.GetListQuestRequest) (*model.GetListQuestResponse, error)
	GetSimilar(context.Context, *model.GetSimilarQuestsRequest) (*model.GetSimilarQuestsResponse, error)
	Submit(context.Context, *model.SubmitQuestRequest) (*model.SubmitQuestResponse, error)
	Approve(context.Context, *model.ApproveQuestRequest) (*model.ApproveQuestResponse, error)
	Reject(context.Context, *model.RejectQuestRequest) (*model.RejectQuestResponse, error)
}

type questDomain struct {
	questRepo      repository.QuestRepository
	submissionRepo repository.SubmissionRepository
}

func NewQuestDomain(
	questRepo repository.QuestRepository,
	submissionRepo repository.SubmissionRepository,
) *questDomain {
	return &questDomain{
		questRepo:      questRepo,
		submissionRepo: submissionRepo,
	}
}

func (d *questDomain) Get(
	ctx context.Context, req *model.GetQuestRequest,
) (*model.GetQuestResponse, error) {
	quest, err := d.questRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	links, err := d.questRepo.GetLinks(ctx, quest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quest links: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetQuestResponse(model.ConvertQuest(quest, links))
	return &resp, nil
}

func (d *questDomain) GetList(
	ctx context.Context, req *model.GetListQuestRequest,
) (*model.GetListQuestResponse, error) {
	if req.Limit == 0 {
		req.Limit = xcontext.Configs(ctx).ApiServer.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	req.Limit = math.MinInt(req.Limit, xcontext.Configs(ctx).ApiServer.MaxLimit)

	quests, err := d.questRepo.GetList(ctx, repository.GetListQuestFilter{
		Region:             req.Region,
		Source:             entity.SourceType(req.Source),
		ApprovalStatus:     entity.ApprovalApproved,
		MinDifficulty:      req.MinDifficulty,
		MaxDifficulty:      req.MaxDifficulty,
		IncludeLowPriority: req.IncludeLowPriority,
		Offset:             req.Offset,
		Limit:              req.Limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list of quests: %v", err)
		return nil, errorx.Unknown
	}

	clientQuests := []model.Quest{}
	for _, quest := range quests {
		links, err := d.questRepo.GetLinks(ctx, quest.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get quest links: %v", err)
			return nil, errorx.Unknown
		}

		clientQuests = append(clientQuests, model.ConvertQuest(&quest, links))
	}

	return &model.GetListQuestResponse{Quests: clientQuests}, nil
}

func (d *questDomain) GetSimilar(
	ctx context.Context, req *model.GetSimilarQuestsRequest,
) (*model.GetSimilarQuestsResponse, error) {
	if req.Limit == 0 {
		req.Limit = xcontext.Configs(ctx).ApiServer.DefaultLimit
	}

	req.Limit = math.MinInt(req.Limit, xcontext.Configs(ctx).ApiServer.MaxLimit)

	quests, err := d.questRepo.SimilarQuests(ctx, req.ID, req.Limit)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get similar quests: %v", err)
		return nil, errorx.Unknown
	}

	clientQuests := []model.Quest{}
	for _, quest := range quests {
		clientQuests = append(clientQuests, model.ConvertQuest(&quest, nil))
	}

	return &model.GetSimilarQuestsResponse{Quests: clientQuests}, nil
}

// Submit records a user-provided quest. It enters the board through the next
// pipeline cycle and stays pending until a moderator approves it.
func (d *questDomain) Submit(
	ctx context.Context, req *model.SubmitQuestRequest,
) (*model.SubmitQuestResponse, error) {
	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a title")
	}

	submission := &entity.Submission{
		Base:        entity.Base{ID: normalize.SubmissionID(req.Title, req.Description)},
		Title:       req.Title,
		Description: req.Description,
		RewardText:  req.RewardText,
		Location:    req.Location,
		SubmittedBy: req.SubmittedBy,
	}

	if err := d.submissionRepo.Create(ctx, submission); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create submission: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SubmitQuestResponse{
		ID: normalize.QuestID(source.RawListing{
			Source:     entity.SourceUser,
			ExternalID: submission.ID,
		}),
	}, nil
}

func (d *questDomain) Approve(
	ctx context.Context, req *model.ApproveQuestRequest,
) (*model.ApproveQuestResponse, error) {
	if err := d.setApproval(ctx, req.ID, entity.ApprovalApproved); err != nil {
		return nil, err
	}

	return &model.ApproveQuestResponse{}, nil
}

func (d *questDomain) Reject(
	ctx context.Context, req *model.RejectQuestRequest,
) (*model.RejectQuestResponse, error) {
	if err := d.setApproval(ctx, req.ID, entity.ApprovalRejected); err != nil {
		return nil, err
	}

	return &model.RejectQuestResponse{}, nil
}

func (d *questDomain) setApproval(ctx context.Context, id string, status entity.ApprovalStatus) error {
	quest, err := d.questRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return errorx.Unknown
	}

	if quest.Source != entity.SourceUser {
		return errorx.New(errorx.BadRequest, "Only user-submitted quests need moderation")
	}

	if err := d.questRepo.SetApproval(ctx, id, status); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot set approval status: %v", err)
		return errorx.Unknown
	}

	return nil
}
