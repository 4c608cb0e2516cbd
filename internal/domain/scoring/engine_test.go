package scoring

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/questboard/backend/internal/domain/search"
	"github.com/questboard/backend/internal/entity"
	"github.com/questboard/backend/internal/repository"
	"github.com/questboard/backend/internal/testutil"
)

func newTestEngine(t *testing.T, ctx context.Context) (*Engine, repository.QuestRepository) {
	index, err := search.NewMemIndex()
	require.NoError(t, err)

	questRepo := repository.NewQuestRepository(index, nil)
	curveRepo := repository.NewDifficultyCurveRepository()

	engine, err := NewEngine(ctx, questRepo, curveRepo)
	require.NoError(t, err)

	return engine, questRepo
}

func seedQuests(t *testing.T, ctx context.Context, questRepo repository.QuestRepository) {
	texts := []struct {
		title       string
		description string
	}{
		{"Hand out flyers downtown", "quick and easy, no skills needed"},
		{"Assemble ikea furniture", "basic tools required, few hours"},
		{"Install a ceiling fan", "some electrical wiring experience"},
		{"Build a backend api", "python developer needed, database and server work"},
		{"Security audit of cloud infrastructure", "kubernetes, devops, expert only"},
	}
	for i, text := range texts {
		_, err := questRepo.Upsert(ctx, &entity.Quest{
			Base:        entity.Base{ID: fmt.Sprintf("reddit_seed%d", i)},
			Title:       text.title,
			Description: text.description,
			Source:      entity.SourceReddit,
			Region:      "remote",
		})
		require.NoError(t, err)
	}
}

func Test_Engine_FallbackOnEmptyCorpus(t *testing.T) {
	ctx := testutil.MockContext()
	engine, _ := newTestEngine(t, ctx)

	result := engine.Score(ctx, entity.SourceReddit, "Fix leaky faucet", "$20, North Las Vegas")
	require.Equal(t, FallbackDifficulty, result.Difficulty)
	require.Empty(t, result.Curves)
}

func Test_Engine_Deterministic(t *testing.T) {
	ctx := testutil.MockContext()
	engine, questRepo := newTestEngine(t, ctx)
	seedQuests(t, ctx, questRepo)
	require.NoError(t, engine.Rebuild(ctx))

	first := engine.Score(ctx, entity.SourceReddit, "Fix leaky faucet", "$20, North Las Vegas")

	// Recompute from scratch each round: a memo hit must not be the only
	// thing keeping the result stable.
	for i := 0; i < 20; i++ {
		engine.cache.Purge()
		again := engine.Score(ctx, entity.SourceReddit, "Fix leaky faucet", "$20, North Las Vegas")
		require.Equal(t, first.Difficulty, again.Difficulty)
		require.Equal(t, first.Gear, again.Gear)
		require.Equal(t, first.CorpusVersion, again.CorpusVersion)
		require.Equal(t, first.Curves, again.Curves)
	}
}

func Test_Engine_Bounds(t *testing.T) {
	ctx := testutil.MockContext()
	engine, questRepo := newTestEngine(t, ctx)
	seedQuests(t, ctx, questRepo)
	require.NoError(t, engine.Rebuild(ctx))

	texts := []string{
		"Hand out flyers",
		"Security audit of kubernetes infrastructure, expert devops automation",
		"Fix leaky faucet",
	}
	for _, text := range texts {
		result := engine.Score(ctx, entity.SourceReddit, text, "")
		require.GreaterOrEqual(t, result.Difficulty, 1.0)
		require.LessOrEqual(t, result.Difficulty, 5.0)
	}
}

func Test_Engine_TechHarderThanTrivial(t *testing.T) {
	ctx := testutil.MockContext()
	engine, questRepo := newTestEngine(t, ctx)
	seedQuests(t, ctx, questRepo)
	require.NoError(t, engine.Rebuild(ctx))

	trivial := engine.Score(ctx, entity.SourceReddit,
		"Hand out flyers", "quick and easy")
	technical := engine.Score(ctx, entity.SourceReddit,
		"Kubernetes security automation", "devops backend database server infrastructure")
	require.Greater(t, technical.Difficulty, trivial.Difficulty)
}

func Test_Engine_CorpusVersionChanges(t *testing.T) {
	ctx := testutil.MockContext()
	engine, questRepo := newTestEngine(t, ctx)
	seedQuests(t, ctx, questRepo)
	require.NoError(t, engine.Rebuild(ctx))

	before := engine.CorpusVersion()
	result := engine.Score(ctx, entity.SourceReddit, "Fix leaky faucet", "")
	require.Equal(t, before, result.CorpusVersion)

	require.NoError(t, engine.Rebuild(ctx))
	require.Greater(t, engine.CorpusVersion(), before)

	rescored := engine.Score(ctx, entity.SourceReddit, "Fix leaky faucet", "")
	require.Equal(t, engine.CorpusVersion(), rescored.CorpusVersion)
}

func Test_Engine_CurveSamples(t *testing.T) {
	ctx := testutil.MockContext()
	engine, questRepo := newTestEngine(t, ctx)
	seedQuests(t, ctx, questRepo)
	require.NoError(t, engine.Rebuild(ctx))

	result := engine.Score(ctx, entity.SourceReddit,
		"Install a ceiling fan", "electrical wiring experience needed, $80")
	require.NotEmpty(t, result.Curves)
	require.LessOrEqual(t, len(result.Curves), curveTermsPerQuest)
	for _, curve := range result.Curves {
		require.Equal(t, "reddit", curve.Category)
		require.Equal(t, result.Difficulty, curve.DifficultyScore)
		require.Equal(t, result.CorpusVersion, curve.CorpusVersion)
	}
}

func Test_GearKeywords_Match(t *testing.T) {
	gear := DefaultGearKeywords()

	// Ordered by first occurrence in the text.
	tags := gear.Match("move the heavy furniture, then install a wall mount", 5)
	require.Equal(t, []string{"dolly", "hex keys", "drill"}, tags)

	// Deduplicated even when several keywords of one tag match.
	tags = gear.Match("install and mount and drill", 5)
	require.Equal(t, []string{"drill"}, tags)

	// Capped.
	tags = gear.Match(
		"install a sign, move furniture, clean the yard, fix wiring, cut wood, check wifi", 3)
	require.Len(t, tags, 3)

	require.Empty(t, gear.Match("write a poem", 5))
}

func Test_GearKeywords_Plumbing(t *testing.T) {
	gear := DefaultGearKeywords()
	tags := gear.Match("fix leaky faucet in the kitchen", 5)
	require.Contains(t, tags, "plunger")
}
