package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/questboard/backend/internal/domain/search"
	"github.com/questboard/backend/internal/entity"
	"github.com/questboard/backend/pkg/xcontext"
	"github.com/questboard/backend/pkg/xredis"
	"gorm.io/gorm"
)

// ErrStoreUnavailable is returned after a persistence error survived the
// single retry. The orchestrator skips the remaining upserts of the cycle.
var ErrStoreUnavailable = errors.New("store unavailable")

const storeRetryBackoff = 100 * time.Millisecond

type GetListQuestFilter struct {
	Region         string
	Source         entity.SourceType
	ApprovalStatus entity.ApprovalStatus
	MinDifficulty  float64
	MaxDifficulty  float64

	// Reward-null quests flagged low priority are excluded unless set.
	IncludeLowPriority bool

	Offset int
	Limit  int
}

// UpsertResult reports what Upsert did with the record.
type UpsertResult struct {
	Inserted    bool
	TextChanged bool
}

// QuestText is the projection used to rebuild the scoring corpus.
type QuestText struct {
	ID          string
	Title       string
	Description string
}

type QuestRepository interface {
	Upsert(ctx context.Context, quest *entity.Quest) (*UpsertResult, error)
	GetByID(ctx context.Context, id string) (*entity.Quest, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Quest, error)
	GetList(ctx context.Context, filter GetListQuestFilter) ([]entity.Quest, error)
	GetTexts(ctx context.Context) ([]QuestText, error)
	SetApproval(ctx context.Context, id string, status entity.ApprovalStatus) error
	Delete(ctx context.Context, id string) error
	GetStale(ctx context.Context, before time.Time) ([]entity.Quest, error)
	Link(ctx context.Context, questID, linkedQuestID, canonicalID string) error
	GetLinks(ctx context.Context, questID string) ([]entity.QuestLink, error)
	FindDuplicates(ctx context.Context, quest *entity.Quest) ([]entity.Quest, error)
	SimilarQuests(ctx context.Context, questID string, limit int) ([]entity.Quest, error)
}

type questRepository struct {
	searchIndex search.Index
	redisClient xredis.Client

	// One mutex per quest id, so concurrent re-fetches of the same listing
	// from different sources serialize without a global lock.
	keyLocks *xsync.MapOf[string, *sync.Mutex]
}

func NewQuestRepository(searchIndex search.Index, redisClient xredis.Client) QuestRepository {
	return &questRepository{
		searchIndex: searchIndex,
		redisClient: redisClient,
		keyLocks:    xsync.NewMapOf[*sync.Mutex](),
	}
}

func (r *questRepository) cacheKey(id string) string {
	return fmt.Sprintf("cache:quest:%s", id)
}

func (r *questRepository) invalidate(ctx context.Context, ids ...string) {
	if r.redisClient == nil {
		return
	}

	keys := []string{}
	for _, id := range ids {
		keys = append(keys, r.cacheKey(id))
	}

	if err := r.redisClient.Del(ctx, keys...); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate quest redis keys: %v", err)
	}
}

func (r *questRepository) Upsert(ctx context.Context, quest *entity.Quest) (*UpsertResult, error) {
	mutex, _ := r.keyLocks.LoadOrStore(quest.ID, &sync.Mutex{})
	mutex.Lock()
	defer mutex.Unlock()

	var result *UpsertResult
	err := withRetry(ctx, func() error {
		var err error
		result, err = r.upsert(ctx, quest)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	r.invalidate(ctx, quest.ID)
	if err := r.searchIndex.Index(quest.ID, search.QuestData{
		Title:       quest.Title,
		Description: quest.Description,
		Region:      quest.Region,
	}); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot index quest %s: %v", quest.ID, err)
	}

	return result, nil
}

func (r *questRepository) upsert(ctx context.Context, quest *entity.Quest) (*UpsertResult, error) {
	existing := entity.Quest{}
	err := xcontext.DB(ctx).Take(&existing, "id=?", quest.ID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		if err := xcontext.DB(ctx).Create(quest).Error; err != nil {
			return nil, err
		}

		return &UpsertResult{Inserted: true, TextChanged: true}, nil
	}

	textChanged := existing.TextHash != quest.TextHash

	updates := map[string]any{
		"title":         quest.Title,
		"description":   quest.Description,
		"reward_amount": quest.RewardAmount,
		"low_priority":  quest.LowPriority,
		"score":         quest.Score,
		"last_seen":     quest.LastSeen,
	}

	// Difficulty follows the text; an unchanged text keeps the stored score
	// and its corpus version.
	if textChanged {
		updates["difficulty"] = quest.Difficulty
		updates["gear_required"] = quest.GearRequired
		updates["text_hash"] = quest.TextHash
		updates["corpus_version"] = quest.CorpusVersion
	}

	if err := xcontext.DB(ctx).Model(&entity.Quest{}).
		Where("id=?", quest.ID).
		Updates(updates).Error; err != nil {
		return nil, err
	}

	// Keep the caller's view consistent with the row.
	quest.CreatedAt = existing.CreatedAt
	quest.ApprovalStatus = existing.ApprovalStatus
	if !textChanged {
		quest.Difficulty = existing.Difficulty
		quest.GearRequired = existing.GearRequired
		quest.CorpusVersion = existing.CorpusVersion
	}

	return &UpsertResult{Inserted: false, TextChanged: textChanged}, nil
}

func (r *questRepository) GetByID(ctx context.Context, id string) (*entity.Quest, error) {
	if r.redisClient != nil {
		var cached entity.Quest
		err := r.redisClient.GetObj(ctx, r.cacheKey(id), &cached)
		if err == nil {
			return &cached, nil
		}
		if !xredis.IsNil(err) {
			xcontext.Logger(ctx).Warnf("Cannot get quest from redis: %v", err)
		}
	}

	record := &entity.Quest{}
	if err := xcontext.DB(ctx).Take(record, "id=?", id).Error; err != nil {
		return nil, err
	}

	if r.redisClient != nil {
		if err := r.redisClient.SetObj(ctx, r.cacheKey(id), record, time.Hour); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot cache quest in redis: %v", err)
		}
	}

	return record, nil
}

func (r *questRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Quest, error) {
	records := []entity.Quest{}
	if err := xcontext.DB(ctx).Find(&records, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *questRepository) GetList(ctx context.Context, filter GetListQuestFilter) ([]entity.Quest, error) {
	tx := xcontext.DB(ctx).Model(&entity.Quest{})

	if filter.Region != "" {
		tx = tx.Where("region=?", filter.Region)
	}

	if filter.Source != "" {
		tx = tx.Where("source=?", filter.Source)
	}

	if filter.ApprovalStatus != "" {
		tx = tx.Where("approval_status=?", filter.ApprovalStatus)
	}

	if filter.MinDifficulty > 0 {
		tx = tx.Where("difficulty >= ?", filter.MinDifficulty)
	}

	if filter.MaxDifficulty > 0 {
		tx = tx.Where("difficulty <= ?", filter.MaxDifficulty)
	}

	if !filter.IncludeLowPriority {
		tx = tx.Where("low_priority=?", false)
	}

	if filter.Limit > 0 {
		tx = tx.Offset(filter.Offset).Limit(filter.Limit)
	}

	records := []entity.Quest{}
	if err := tx.Order("last_seen DESC").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *questRepository) GetTexts(ctx context.Context) ([]QuestText, error) {
	texts := []QuestText{}
	if err := xcontext.DB(ctx).Model(&entity.Quest{}).
		Select("id", "title", "description").
		Find(&texts).Error; err != nil {
		return nil, err
	}

	return texts, nil
}

func (r *questRepository) SetApproval(ctx context.Context, id string, status entity.ApprovalStatus) error {
	tx := xcontext.DB(ctx).Model(&entity.Quest{}).
		Where("id=?", id).
		Update("approval_status", status)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *questRepository) Delete(ctx context.Context, id string) error {
	err := withRetry(ctx, func() error {
		if err := xcontext.DB(ctx).
			Where("quest_id=? OR linked_quest_id=?", id, id).
			Delete(&entity.QuestLink{}).Error; err != nil {
			return err
		}

		if err := xcontext.DB(ctx).
			Where("quest_id=?", id).
			Delete(&entity.Bookmark{}).Error; err != nil {
			return err
		}

		return xcontext.DB(ctx).Delete(&entity.Quest{}, "id=?", id).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	r.invalidate(ctx, id)
	if err := r.searchIndex.Delete(id); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot remove quest %s from index: %v", id, err)
	}

	return nil
}

// GetStale returns quests not observed since the given time and bookmarked by
// nobody. Bookmarked quests stay until every holder removes the bookmark.
func (r *questRepository) GetStale(ctx context.Context, before time.Time) ([]entity.Quest, error) {
	records := []entity.Quest{}
	err := xcontext.DB(ctx).
		Where("last_seen < ?", before).
		Where("NOT EXISTS (SELECT 1 FROM bookmarks WHERE bookmarks.quest_id = quests.id)").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

// Link records the duplicate relation in both directions. The canonical
// quest keeps provenance of both records without merging them.
func (r *questRepository) Link(ctx context.Context, questID, linkedQuestID, canonicalID string) error {
	links := []entity.QuestLink{
		{QuestID: questID, LinkedQuestID: linkedQuestID, Canonical: linkedQuestID == canonicalID},
		{QuestID: linkedQuestID, LinkedQuestID: questID, Canonical: questID == canonicalID},
	}

	for _, link := range links {
		err := xcontext.DB(ctx).Where(entity.QuestLink{
			QuestID:       link.QuestID,
			LinkedQuestID: link.LinkedQuestID,
		}).Assign(entity.QuestLink{Canonical: link.Canonical}).
			FirstOrCreate(&entity.QuestLink{}).Error
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *questRepository) GetLinks(ctx context.Context, questID string) ([]entity.QuestLink, error) {
	links := []entity.QuestLink{}
	if err := xcontext.DB(ctx).Find(&links, "quest_id=?", questID).Error; err != nil {
		return nil, err
	}

	return links, nil
}

// FindDuplicates returns stored quests from other sources that describe the
// same real-world listing: same region and description similarity above the
// configured threshold. Candidates come from the full-text index.
func (r *questRepository) FindDuplicates(ctx context.Context, quest *entity.Quest) ([]entity.Quest, error) {
	ids, err := r.searchIndex.Search(quest.Title+" "+quest.Description, 20)
	if err != nil {
		return nil, err
	}

	candidates, err := r.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	threshold := xcontext.Configs(ctx).Pipeline.SimilarityThreshold

	duplicates := []entity.Quest{}
	for _, candidate := range candidates {
		if candidate.ID == quest.ID || candidate.Source == quest.Source {
			continue
		}

		if candidate.Region != quest.Region {
			continue
		}

		similarity := search.Similarity(
			quest.Title+" "+quest.Description,
			candidate.Title+" "+candidate.Description,
		)
		if similarity >= threshold {
			duplicates = append(duplicates, candidate)
		}
	}

	return duplicates, nil
}

// SimilarQuests ranks other quests by same region first, then description
// similarity, then recency.
func (r *questRepository) SimilarQuests(ctx context.Context, questID string, limit int) ([]entity.Quest, error) {
	target, err := r.GetByID(ctx, questID)
	if err != nil {
		return nil, err
	}

	ids, err := r.searchIndex.Search(target.Title+" "+target.Description, limit*4)
	if err != nil {
		return nil, err
	}

	candidates, err := r.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	type ranked struct {
		quest      entity.Quest
		sameRegion bool
		similarity float64
	}

	rankedCandidates := []ranked{}
	for _, candidate := range candidates {
		if candidate.ID == target.ID {
			continue
		}

		rankedCandidates = append(rankedCandidates, ranked{
			quest:      candidate,
			sameRegion: candidate.Region == target.Region,
			similarity: search.Similarity(target.Description, candidate.Description),
		})
	}

	sort.SliceStable(rankedCandidates, func(i, j int) bool {
		if rankedCandidates[i].sameRegion != rankedCandidates[j].sameRegion {
			return rankedCandidates[i].sameRegion
		}

		if rankedCandidates[i].similarity != rankedCandidates[j].similarity {
			return rankedCandidates[i].similarity > rankedCandidates[j].similarity
		}

		return rankedCandidates[i].quest.LastSeen.After(rankedCandidates[j].quest.LastSeen)
	})

	if len(rankedCandidates) > limit {
		rankedCandidates = rankedCandidates[:limit]
	}

	result := []entity.Quest{}
	for _, rc := range rankedCandidates {
		result = append(result, rc.quest)
	}

	return result, nil
}

// withRetry runs op and retries once with a short backoff on failure, per
// the store failure policy.
func withRetry(ctx context.Context, op func() error) error {
	err := op()
	if err == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(storeRetryBackoff):
	}

	return op()
}
