package model

import (
	"time"

	"github.com/questboard/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertQuest(quest *entity.Quest, links []entity.QuestLink) Quest {
	if quest == nil {
		return Quest{}
	}

	converted := Quest{
		ID:           quest.ID,
		Title:        quest.Title,
		Description:  quest.Description,
		Link:         quest.Link,
		Author:       quest.Author,
		Source:       string(quest.Source),
		Location:     quest.Location,
		Region:       quest.Region,
		LowPriority:  quest.LowPriority,
		Difficulty:   quest.Difficulty,
		GearRequired: quest.GearRequired,
		Status:       string(quest.ApprovalStatus),
		LastSeen:     quest.LastSeen.Format(DefaultTimeLayout),
		CreatedAt:    quest.CreatedAt.Format(DefaultTimeLayout),
	}

	if quest.RewardAmount.Valid {
		amount := quest.RewardAmount.Float64
		converted.RewardAmount = &amount
	}

	if quest.Score.Valid {
		score := quest.Score.Int64
		converted.Score = &score
	}

	for _, link := range links {
		converted.LinkedQuests = append(converted.LinkedQuests, LinkedQuest{
			ID:        link.LinkedQuestID,
			Source:    sourceOfQuestID(link.LinkedQuestID),
			Canonical: link.Canonical,
		})
	}

	return converted
}

func ConvertBookmark(bookmark *entity.Bookmark, links []entity.QuestLink) Bookmark {
	if bookmark == nil {
		return Bookmark{}
	}

	return Bookmark{
		QuestID:   bookmark.QuestID,
		UserID:    bookmark.UserID,
		Notes:     bookmark.Notes,
		CreatedAt: bookmark.CreatedAt.Format(DefaultTimeLayout),
		Quest:     ConvertQuest(&bookmark.Quest, links),
	}
}

// sourceOfQuestID recovers the source prefix of a quest id, e.g.
// "reddit_abc123" -> "reddit".
func sourceOfQuestID(id string) string {
	for i := range id {
		if id[i] == '_' {
			return id[:i]
		}
	}

	return ""
}
