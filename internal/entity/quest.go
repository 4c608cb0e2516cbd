package entity

import (
	"database/sql"
	"time"

	"github.com/questboard/backend/pkg/enum"
)

type SourceType string

var (
	SourceReddit     = enum.New(SourceType("reddit"))
	SourceCraigslist = enum.New(SourceType("craigslist"))
	SourceUser       = enum.New(SourceType("user"))
)

// Priority ranks sources for choosing the canonical quest among cross-source
// duplicates. Higher wins.
func (s SourceType) Priority() int {
	switch s {
	case SourceUser:
		return 3
	case SourceCraigslist:
		return 2
	case SourceReddit:
		return 1
	default:
		return 0
	}
}

type ApprovalStatus string

var (
	ApprovalPending  = enum.New(ApprovalStatus("pending"))
	ApprovalApproved = enum.New(ApprovalStatus("approved"))
	ApprovalRejected = enum.New(ApprovalStatus("rejected"))
)

// Quest is the canonical listing record. The Base ID is the quest id derived
// by the normalizer, so re-fetching the same listing always addresses the
// same row.
type Quest struct {
	Base

	Title       string `gorm:"index"`
	Description string `gorm:"type:longtext"`
	Link        string
	Author      string

	Source   SourceType `gorm:"index"`
	Location string
	Region   string `gorm:"index"`

	// RewardAmount is null when the listing has no parseable compensation.
	// Such quests are kept but flagged low priority unless a high-priority
	// keyword overrode the policy.
	RewardAmount sql.NullFloat64
	LowPriority  bool

	Difficulty   float64 `gorm:"index"`
	GearRequired Array[string]

	// Score is the source ranking signal, e.g. reddit upvotes.
	Score sql.NullInt64

	ApprovalStatus ApprovalStatus `gorm:"index"`

	// TextHash fingerprints title+description; difficulty is recomputed only
	// when it changes. CorpusVersion records which corpus produced the
	// current difficulty.
	TextHash      string
	CorpusVersion int64

	LastSeen time.Time `gorm:"index"`
}

// QuestLink is one direction of the cross-source duplicate relation. Both
// directions are stored. Canonical marks the row whose LinkedQuestID is the
// preferred record for display.
type QuestLink struct {
	QuestID       string `gorm:"uniqueIndex:idx_quest_links_pair"`
	LinkedQuestID string `gorm:"uniqueIndex:idx_quest_links_pair"`
	Canonical     bool
	CreatedAt     time.Time
}
