package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/questboard/backend/config"
	"github.com/questboard/backend/internal/domain/source"
	"github.com/questboard/backend/internal/entity"
)

func Test_QuestID(t *testing.T) {
	withExternal := source.RawListing{Source: entity.SourceReddit, ExternalID: "abc123"}
	require.Equal(t, "reddit_abc123", QuestID(withExternal))
	require.Equal(t, QuestID(withExternal), QuestID(withExternal))

	withoutExternal := source.RawListing{
		Source:      entity.SourceCraigslist,
		Title:       "Fix leaky faucet",
		Description: "North Las Vegas",
	}
	first := QuestID(withoutExternal)
	second := QuestID(withoutExternal)
	require.Equal(t, first, second)
	require.Contains(t, first, "craigslist_")

	changed := withoutExternal
	changed.Description = "Henderson"
	require.NotEqual(t, first, QuestID(changed))
}

func Test_ParseReward(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		amount float64
		parsed bool
	}{
		{name: "plain dollar", text: "will pay $20", amount: 20, parsed: true},
		{name: "decimal", text: "$19.99 via venmo", amount: 19.99, parsed: true},
		{name: "range takes lower bound", text: "$20-40 depending on effort", amount: 20, parsed: true},
		{name: "range with second dollar sign", text: "$20 - $40", amount: 20, parsed: true},
		{name: "k suffix", text: "budget is $2k", amount: 2000, parsed: true},
		{name: "postfix", text: "paying 50$", amount: 50, parsed: true},
		{name: "words", text: "offering 75 dollars", amount: 75, parsed: true},
		{name: "usd", text: "100 USD on completion", amount: 100, parsed: true},
		{name: "tbd", text: "TBD", parsed: false},
		{name: "free text", text: "pizza and good karma", parsed: false},
		{name: "empty", text: "", parsed: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, parsed := ParseReward(tt.text)
			require.Equal(t, tt.parsed, parsed)
			if tt.parsed {
				require.Equal(t, tt.amount, amount)
			}
		})
	}
}

func Test_Normalize_Reward(t *testing.T) {
	n := NewNormalizer(DefaultFilterKeywords(), config.OverrideFirst)

	quest, err := n.Normalize(source.RawListing{
		Source:     entity.SourceReddit,
		ExternalID: "r1",
		Title:      "Fix leaky faucet",
		RewardText: "will pay $20",
	})
	require.NoError(t, err)
	require.True(t, quest.RewardAmount.Valid)
	require.Equal(t, 20.0, quest.RewardAmount.Float64)
	require.False(t, quest.LowPriority)

	// Unparseable reward stays null and flags the quest low priority.
	quest, err = n.Normalize(source.RawListing{
		Source:     entity.SourceReddit,
		ExternalID: "r2",
		Title:      "Help me move a couch",
		RewardText: "TBD",
	})
	require.NoError(t, err)
	require.False(t, quest.RewardAmount.Valid)
	require.True(t, quest.LowPriority)

	// Zero reward is treated as no reward.
	quest, err = n.Normalize(source.RawListing{
		Source:     entity.SourceReddit,
		ExternalID: "r3",
		Title:      "Volunteer gig, $0 but fun",
		RewardText: "$0 but fun",
	})
	require.NoError(t, err)
	require.False(t, quest.RewardAmount.Valid)
	require.True(t, quest.LowPriority)

	// A high-priority keyword rescues a reward-less quest.
	quest, err = n.Normalize(source.RawListing{
		Source:     entity.SourceReddit,
		ExternalID: "r4",
		Title:      "Urgent: need help with yard work",
		RewardText: "negotiable",
	})
	require.NoError(t, err)
	require.False(t, quest.RewardAmount.Valid)
	require.False(t, quest.LowPriority)
}

func Test_Normalize_FilterPolicy(t *testing.T) {
	keywords := FilterKeywords{
		Exclude:  []string{"crypto giveaway"},
		Override: []string{"developer"},
	}

	excluded := source.RawListing{
		Source:     entity.SourceReddit,
		ExternalID: "x1",
		Title:      "Crypto giveaway, just send us money",
	}

	both := source.RawListing{
		Source:      entity.SourceReddit,
		ExternalID:  "x2",
		Title:       "Developer needed for crypto giveaway site",
		Description: "$500",
	}

	overrideFirst := NewNormalizer(keywords, config.OverrideFirst)
	_, err := overrideFirst.Normalize(excluded)
	require.ErrorIs(t, err, ErrExcluded)

	quest, err := overrideFirst.Normalize(both)
	require.NoError(t, err)
	require.Equal(t, "reddit_x2", quest.ID)

	exclusionFirst := NewNormalizer(keywords, config.ExclusionFirst)
	_, err = exclusionFirst.Normalize(both)
	require.ErrorIs(t, err, ErrExcluded)
}

func Test_Normalize_EmptyTitle(t *testing.T) {
	n := NewNormalizer(DefaultFilterKeywords(), config.OverrideFirst)

	_, err := n.Normalize(source.RawListing{Source: entity.SourceReddit, ExternalID: "e1"})
	var normErr *NormalizationError
	require.ErrorAs(t, err, &normErr)
}

func Test_Normalize_ApprovalStatus(t *testing.T) {
	n := NewNormalizer(DefaultFilterKeywords(), config.OverrideFirst)

	scraped, err := n.Normalize(source.RawListing{
		Source:     entity.SourceReddit,
		ExternalID: "a1",
		Title:      "Paint a fence, $50",
		RewardText: "$50",
	})
	require.NoError(t, err)
	require.Equal(t, entity.ApprovalApproved, scraped.ApprovalStatus)

	submitted, err := n.Normalize(source.RawListing{
		Source:     entity.SourceUser,
		ExternalID: "a2",
		Title:      "Paint a fence, $50",
		RewardText: "$50",
	})
	require.NoError(t, err)
	require.Equal(t, entity.ApprovalPending, submitted.ApprovalStatus)
}

func Test_NormalizeRegion(t *testing.T) {
	tests := []struct {
		location string
		region   string
	}{
		{location: "North Las Vegas", region: "las_vegas"},
		{location: "(Henderson)", region: "las_vegas"},
		{location: "Remote", region: "remote"},
		{location: "Brooklyn", region: "new_york"},
		{location: "downtown seattle", region: "seattle"},
		{location: "", region: UnknownRegion},
		{location: "middle of nowhere, kansas", region: UnknownRegion},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			require.Equal(t, tt.region, NormalizeRegion(tt.location))
		})
	}
}

func Test_NormalizeRegion_StableAcrossRuns(t *testing.T) {
	// A location touching several region names must always land on the same
	// tag, regardless of table walk order.
	locations := []string{
		"north las vegas nv",
		"new york or remote",
		"vancouver / richmond bc",
		"la ca near long beach",
	}
	for _, location := range locations {
		first := NormalizeRegion(location)
		for i := 0; i < 50; i++ {
			require.Equal(t, first, NormalizeRegion(location), location)
		}
	}
}
