package normalize

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/questboard/backend/config"
	"github.com/questboard/backend/internal/domain/source"
	"github.com/questboard/backend/internal/entity"
)

// ErrExcluded marks a listing dropped by the relevance filter. It is counted
// as skipped, never surfaced as a failure.
var ErrExcluded = errors.New("listing excluded by relevance filter")

// NormalizationError is a per-item failure: the item is dropped and counted,
// the cycle continues.
type NormalizationError struct {
	Reason string
}

func (e *NormalizationError) Error() string {
	return "cannot normalize listing: " + e.Reason
}

type Normalizer struct {
	keywords FilterKeywords
	policy   config.FilterPolicyType
	now      func() time.Time
}

func NewNormalizer(keywords FilterKeywords, policy config.FilterPolicyType) *Normalizer {
	return &Normalizer{keywords: keywords, policy: policy, now: time.Now}
}

// Normalize converts a raw listing into a canonical quest with difficulty
// unset. The quest id is deterministic: re-fetching the same listing always
// yields the same id.
func (n *Normalizer) Normalize(raw source.RawListing) (*entity.Quest, error) {
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return nil, &NormalizationError{Reason: "empty title"}
	}

	description := strings.TrimSpace(raw.Description)
	text := title + " " + description

	if n.excluded(text) {
		return nil, ErrExcluded
	}

	quest := &entity.Quest{
		Base:        entity.Base{ID: QuestID(raw)},
		Title:       title,
		Description: description,
		Link:        raw.Link,
		Author:      raw.Author,
		Source:      raw.Source,
		Location:    strings.TrimSpace(raw.Location),
		Region:      NormalizeRegion(raw.Location),
		TextHash:    TextHash(title, description),
		LastSeen:    n.now().UTC(),
	}

	if raw.Score >= 0 {
		quest.Score.Int64 = int64(raw.Score)
		quest.Score.Valid = true
	}

	// Scraped listings are shown right away; user submissions wait for
	// moderation.
	if raw.Source == entity.SourceUser {
		quest.ApprovalStatus = entity.ApprovalPending
	} else {
		quest.ApprovalStatus = entity.ApprovalApproved
	}

	amount, parsed := ParseReward(raw.RewardText)
	highPriority := n.matchesAny(text, n.keywords.HighPriority)
	switch {
	case parsed && amount > 0:
		quest.RewardAmount.Float64 = amount
		quest.RewardAmount.Valid = true
	default:
		// Unparseable, "TBD" and zero rewards stay null. Without an explicit
		// high-priority keyword such quests are flagged for low-priority
		// inclusion only.
		quest.LowPriority = !highPriority
	}

	return quest, nil
}

// QuestID derives the stable identity: source plus external id, or a content
// hash when the source has none.
func QuestID(raw source.RawListing) string {
	if raw.ExternalID != "" {
		return fmt.Sprintf("%s_%s", raw.Source, raw.ExternalID)
	}

	sum := sha1.Sum([]byte(raw.Title + "|" + raw.Description))
	return fmt.Sprintf("%s_%s", raw.Source, hex.EncodeToString(sum[:])[:16])
}

// SubmissionID derives a stable id for a user submission from its content, so
// resubmitting the same text collapses into one quest.
func SubmissionID(title, description string) string {
	sum := sha1.Sum([]byte(title + "|" + description))
	return hex.EncodeToString(sum[:])[:16]
}

func TextHash(title, description string) string {
	sum := sha1.Sum([]byte(title + "\n" + description))
	return hex.EncodeToString(sum[:])
}

func (n *Normalizer) excluded(text string) bool {
	matchesExclude := n.matchesAny(text, n.keywords.Exclude)
	if !matchesExclude {
		return false
	}

	if n.policy == config.ExclusionFirst {
		return true
	}

	return !n.matchesAny(text, n.keywords.Override)
}

func (n *Normalizer) matchesAny(text string, keywords []string) bool {
	text = strings.ToLower(text)
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(text, strings.ToLower(keyword)) {
			return true
		}
	}

	return false
}
