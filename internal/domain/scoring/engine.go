package scoring

import (
	"context"
	"crypto/sha1"
	"fmt"
	"math"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/exp/slices"

	"github.com/questboard/backend/internal/entity"
	"github.com/questboard/backend/internal/repository"
	"github.com/questboard/backend/pkg/xcontext"
)

// FallbackDifficulty is used when the corpus is empty or scoring fails. The
// quest keeps flowing through the pipeline with a medium score.
const FallbackDifficulty = 3.0

const curveTermsPerQuest = 5

// referencePhrases anchor the difficulty scale. A quest's text is compared
// against each phrase and the similarity-weighted average of their weights
// becomes the semantic difficulty component.
var referencePhrases = []struct {
	text   string
	weight float64
}{
	{"A simple, quick task that requires minimal effort or skill.", 1.0},
	{"A straightforward task that requires basic knowledge or skills.", 3.0},
	{"A task that requires some experience and may take several hours to complete.", 5.0},
	{"A challenging task that requires specialized skills or knowledge.", 7.5},
	{"An extremely difficult task that requires expert-level skills and significant time investment.", 9.5},
}

var techThemes = map[string]bool{
	"python": true, "developer": true, "frontend": true, "backend": true,
	"network": true, "security": true, "automation": true, "api": true,
	"devops": true, "cloud": true, "database": true, "server": true,
	"container": true, "kubernetes": true, "docker": true, "aws": true,
	"azure": true, "gcp": true, "javascript": true, "typescript": true,
	"react": true, "node": true, "linux": true, "git": true,
}

// Result is everything a single scoring pass produces. Curves are the
// difficulty samples of the quest's top-weighted terms, to be persisted by
// the caller.
type Result struct {
	Difficulty    float64
	Gear          []string
	CorpusVersion int64
	Curves        []entity.DifficultyCurve
}

// snapshot pairs a corpus with the difficulty curves it was built against.
// Both are swapped together so every Score call sees a consistent view.
type snapshot struct {
	corpus *Corpus
	curves map[string]float64
}

type Engine struct {
	questRepo repository.QuestRepository
	curveRepo repository.DifficultyCurveRepository

	current atomic.Pointer[snapshot]
	version atomic.Int64

	cache       *lru.Cache
	gear        GearKeywords
	maxGearTags int
}

func NewEngine(
	ctx context.Context,
	questRepo repository.QuestRepository,
	curveRepo repository.DifficultyCurveRepository,
) (*Engine, error) {
	cfg := xcontext.Configs(ctx).Scoring

	cache, err := lru.New(cfg.ScoreCacheSize)
	if err != nil {
		return nil, err
	}

	gear, err := LoadGearKeywords(cfg.GearKeywordsFile)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot load gear keywords, using defaults: %v", err)
		gear = DefaultGearKeywords()
	}

	engine := &Engine{
		questRepo:   questRepo,
		curveRepo:   curveRepo,
		cache:       cache,
		gear:        gear,
		maxGearTags: cfg.MaxGearTags,
	}

	if err := engine.Rebuild(ctx); err != nil {
		return nil, err
	}

	return engine, nil
}

// Rebuild constructs a fresh corpus from the stored quest texts and difficulty
// curves and swaps it in atomically. In-flight Score calls keep using the old
// snapshot until they finish.
func (e *Engine) Rebuild(ctx context.Context) error {
	texts, err := e.questRepo.GetTexts(ctx)
	if err != nil {
		return err
	}

	curves, err := e.curveRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	curveScores := map[string]float64{}
	curveCounts := map[string]int{}
	for _, curve := range curves {
		key := curve.Category + "_" + curve.Keyword
		curveScores[key] += curve.DifficultyScore
		curveCounts[key]++
	}

	for key, count := range curveCounts {
		curveScores[key] /= float64(count)
	}

	version := e.version.Add(1)
	e.current.Store(&snapshot{
		corpus: BuildCorpus(version, texts),
		curves: curveScores,
	})

	xcontext.Logger(ctx).Infof(
		"Rebuilt scoring corpus: version=%d, documents=%d, curves=%d",
		version, len(texts), len(curveCounts))

	return nil
}

func (e *Engine) CorpusVersion() int64 {
	return e.current.Load().corpus.Version()
}

// Score rates a quest's difficulty on the 1-5 scale. Identical text under the
// same corpus version always yields the same result; repeats are served from
// the memo cache.
func (e *Engine) Score(ctx context.Context, source entity.SourceType, title, description string) Result {
	text := title + " " + description
	snap := e.current.Load()
	if snap == nil || snap.corpus.Empty() {
		return Result{
			Difficulty: FallbackDifficulty,
			Gear:       e.gear.Match(text, e.maxGearTags),
		}
	}

	key := memoKey(source, text, snap.corpus.Version())
	if cached, ok := e.cache.Get(key); ok {
		return cached.(Result)
	}

	vector := snap.corpus.Vectorize(text)

	difficulty := FallbackDifficulty
	if len(vector) > 0 {
		base := e.termDifficulty(vector, source, snap.curves)
		semantic := e.referenceDifficulty(snap.corpus, vector)
		difficulty = 0.7*base + 0.3*semantic
	}

	difficulty = clamp(difficulty, 1, 5)
	difficulty = math.Round(difficulty*10) / 10

	result := Result{
		Difficulty:    difficulty,
		Gear:          e.gear.Match(text, e.maxGearTags),
		CorpusVersion: snap.corpus.Version(),
		Curves:        curveSamples(source, vector, difficulty, snap.corpus.Version()),
	}

	e.cache.Add(key, result)
	return result
}

// termDifficulty rates the text by its terms: long and tech-themed words are
// harder, and previously observed curve scores nudge the result.
func (e *Engine) termDifficulty(vector map[string]float64, source entity.SourceType, curves map[string]float64) float64 {
	var difficulty, totalWeight float64
	for _, term := range sortedTerms(vector) {
		weight := vector[term]

		var termScore float64
		if len(term) > 7 {
			termScore += 0.5
		}

		if techThemes[term] {
			termScore += 1.5
		}

		if curve, ok := curves[string(source)+"_"+term]; ok {
			termScore += curve * 0.1
		}

		difficulty += termScore * weight
		totalWeight += weight
	}

	if totalWeight > 0 {
		difficulty /= totalWeight
	}

	return clamp(difficulty*2.5, 1, 5)
}

// referenceDifficulty compares the text against the anchor phrases. The
// similarities are normalized to a distribution and the weighted average is
// mapped from the 0-10 anchor scale onto 1-5.
func (e *Engine) referenceDifficulty(corpus *Corpus, vector map[string]float64) float64 {
	similarities := make([]float64, len(referencePhrases))
	var total float64
	for i, phrase := range referencePhrases {
		similarities[i] = cosine(vector, corpus.Vectorize(phrase.text))
		total += similarities[i]
	}

	var score float64
	if total > 0 {
		for i, phrase := range referencePhrases {
			score += similarities[i] / total * phrase.weight
		}
	} else {
		for _, phrase := range referencePhrases {
			score += phrase.weight / float64(len(referencePhrases))
		}
	}

	return clamp(score/2, 1, 5)
}

func curveSamples(source entity.SourceType, vector map[string]float64, difficulty float64, version int64) []entity.DifficultyCurve {
	type weighted struct {
		term   string
		weight float64
	}

	terms := make([]weighted, 0, len(vector))
	for term, weight := range vector {
		terms = append(terms, weighted{term: term, weight: weight})
	}

	slices.SortFunc(terms, func(a, b weighted) bool {
		if a.weight != b.weight {
			return a.weight > b.weight
		}

		return a.term < b.term
	})

	if len(terms) > curveTermsPerQuest {
		terms = terms[:curveTermsPerQuest]
	}

	curves := make([]entity.DifficultyCurve, len(terms))
	for i, term := range terms {
		curves[i] = entity.DifficultyCurve{
			Category:        string(source),
			Keyword:         term.term,
			DifficultyScore: difficulty,
			CorpusVersion:   version,
		}
	}

	return curves
}

func memoKey(source entity.SourceType, text string, version int64) string {
	sum := sha1.Sum([]byte(text))
	return fmt.Sprintf("%s:%x:%d", source, sum, version)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
