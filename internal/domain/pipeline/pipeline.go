package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/questboard/backend/internal/domain/normalize"
	"github.com/questboard/backend/internal/domain/scoring"
	"github.com/questboard/backend/internal/domain/source"
	"github.com/questboard/backend/internal/entity"
	"github.com/questboard/backend/internal/model"
	"github.com/questboard/backend/internal/repository"
	"github.com/questboard/backend/pkg/pubsub"
	"github.com/questboard/backend/pkg/xcontext"
)

// Pipeline drives fetch cycles: pull raw listings from every source,
// normalize, score, upsert, and link cross-source duplicates. Per-source
// cycles never overlap; different sources run concurrently.
type Pipeline struct {
	sources    []source.Source
	normalizer *normalize.Normalizer
	engine     *scoring.Engine
	questRepo  repository.QuestRepository
	curveRepo  repository.DifficultyCurveRepository
	publisher  pubsub.Publisher

	cycleLocks  map[entity.SourceType]*sync.Mutex
	lastReports *xsync.MapOf[string, model.CycleReport]
}

func New(
	sources []source.Source,
	normalizer *normalize.Normalizer,
	engine *scoring.Engine,
	questRepo repository.QuestRepository,
	curveRepo repository.DifficultyCurveRepository,
	publisher pubsub.Publisher,
) *Pipeline {
	cycleLocks := map[entity.SourceType]*sync.Mutex{}
	for _, src := range sources {
		cycleLocks[src.Name()] = &sync.Mutex{}
	}

	return &Pipeline{
		sources:     sources,
		normalizer:  normalizer,
		engine:      engine,
		questRepo:   questRepo,
		curveRepo:   curveRepo,
		publisher:   publisher,
		cycleLocks:  cycleLocks,
		lastReports: xsync.NewMapOf[model.CycleReport](),
	}
}

// RunCycle fetches the named source, or every source when name is empty.
// A failing source never blocks the others; its report carries the error.
func (p *Pipeline) RunCycle(ctx context.Context, name string) ([]model.CycleReport, error) {
	selected := []source.Source{}
	for _, src := range p.sources {
		if name == "" || string(src.Name()) == name {
			selected = append(selected, src)
		}
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("unknown source %q", name)
	}

	reports := make([]model.CycleReport, len(selected))

	var group errgroup.Group
	for i, src := range selected {
		i, src := i, src
		group.Go(func() error {
			reports[i] = p.runSource(ctx, src)
			return nil
		})
	}

	// Source errors live in the reports, the group only propagates panics.
	if err := group.Wait(); err != nil {
		return nil, err
	}

	for _, report := range reports {
		p.lastReports.Store(report.Source, report)
		p.publishReport(ctx, report)
	}

	return reports, nil
}

// LastReports returns the most recent report of every source that has run.
func (p *Pipeline) LastReports() []model.CycleReport {
	reports := []model.CycleReport{}
	p.lastReports.Range(func(_ string, report model.CycleReport) bool {
		reports = append(reports, report)
		return true
	})

	slices.SortFunc(reports, func(a, b model.CycleReport) bool {
		return a.Source < b.Source
	})

	return reports
}

func (p *Pipeline) runSource(ctx context.Context, src source.Source) model.CycleReport {
	report := model.CycleReport{
		Source:    string(src.Name()),
		StartedAt: time.Now().Format(model.DefaultTimeLayout),
	}
	defer func() {
		report.FinishedAt = time.Now().Format(model.DefaultTimeLayout)
	}()

	lock := p.cycleLocks[src.Name()]
	if !lock.TryLock() {
		report.Errors = append(report.Errors, "previous cycle still running")
		return report
	}
	defer lock.Unlock()

	timeout := xcontext.Configs(ctx).Pipeline.SourceTimeout
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	listings, skipped, err := src.Fetch(fetchCtx)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Source %s unavailable: %v", src.Name(), err)
		report.Errors = append(report.Errors, err.Error())
		return report
	}

	report.Fetched = len(listings)
	report.Skipped = skipped

	// Queue-backed sources keep an item until we acknowledge a durable
	// outcome. Store failures are deliberately not acknowledged so the item
	// comes back next cycle.
	acker, _ := src.(source.Acker)
	ack := func(externalID string) {
		if acker == nil {
			return
		}
		if err := acker.Ack(ctx, externalID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot acknowledge item %s of %s: %v", externalID, src.Name(), err)
		}
	}

	for _, listing := range listings {
		quest, err := p.normalizer.Normalize(listing)
		if err != nil {
			report.Skipped++
			if !errors.Is(err, normalize.ErrExcluded) {
				xcontext.Logger(ctx).Warnf("Cannot normalize listing from %s: %v", src.Name(), err)
				report.Errors = append(report.Errors, err.Error())
			}
			ack(listing.ExternalID)
			continue
		}

		report.Normalized++

		scored := p.engine.Score(ctx, quest.Source, quest.Title, quest.Description)
		quest.Difficulty = scored.Difficulty
		quest.GearRequired = scored.Gear
		quest.CorpusVersion = scored.CorpusVersion

		result, err := p.questRepo.Upsert(ctx, quest)
		if err != nil {
			report.Errors = append(report.Errors, err.Error())
			if errors.Is(err, repository.ErrStoreUnavailable) {
				// The store is down, the remaining upserts of this cycle
				// would only pile up the same failure.
				xcontext.Logger(ctx).Errorf("Aborting %s cycle: %v", src.Name(), err)
				return report
			}
			continue
		}

		report.Upserted++
		ack(listing.ExternalID)
		if result.Inserted {
			report.Inserted++
		}

		if result.Inserted || result.TextChanged {
			if err := p.curveRepo.Append(ctx, scored.Curves); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot append difficulty curves: %v", err)
			}
		}

		report.Linked += p.linkDuplicates(ctx, quest)
		p.publishQuestEvent(ctx, quest, result.Inserted)
	}

	return report
}

// EvictStale deletes quests unseen for the retention window. Bookmarked
// quests are pinned and never evicted.
func (p *Pipeline) EvictStale(ctx context.Context) (int, error) {
	retention := xcontext.Configs(ctx).Pipeline.RetentionWindow
	before := time.Now().Add(-retention)

	stale, err := p.questRepo.GetStale(ctx, before)
	if err != nil {
		return 0, err
	}

	evicted := 0
	for _, quest := range stale {
		if err := p.questRepo.Delete(ctx, quest.ID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot evict quest %s: %v", quest.ID, err)
			continue
		}

		evicted++
		p.publishEvictedEvent(ctx, &quest)
	}

	return evicted, nil
}

func (p *Pipeline) publishEvictedEvent(ctx context.Context, quest *entity.Quest) {
	if p.publisher == nil {
		return
	}

	msg, err := json.Marshal(model.QuestEvent{
		Type:    model.QuestEventEvicted,
		QuestID: quest.ID,
		Source:  string(quest.Source),
		Region:  quest.Region,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal quest event: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.QuestEventTopic
	err = p.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(quest.ID), Msg: msg})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish quest event: %v", err)
	}
}

// linkDuplicates connects the quest with its cross-source duplicates. Both
// records stay; the link marks the higher-priority source as canonical.
func (p *Pipeline) linkDuplicates(ctx context.Context, quest *entity.Quest) int {
	duplicates, err := p.questRepo.FindDuplicates(ctx, quest)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot find duplicates of %s: %v", quest.ID, err)
		return 0
	}

	linked := 0
	for _, duplicate := range duplicates {
		canonicalID := quest.ID
		if duplicate.Source.Priority() > quest.Source.Priority() {
			canonicalID = duplicate.ID
		}

		if err := p.questRepo.Link(ctx, quest.ID, duplicate.ID, canonicalID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot link %s with %s: %v", quest.ID, duplicate.ID, err)
			continue
		}

		linked++
	}

	return linked
}

func (p *Pipeline) publishQuestEvent(ctx context.Context, quest *entity.Quest, inserted bool) {
	if p.publisher == nil {
		return
	}

	eventType := model.QuestEventUpdated
	if inserted {
		eventType = model.QuestEventInserted
	}

	msg, err := json.Marshal(model.QuestEvent{
		Type:    eventType,
		QuestID: quest.ID,
		Source:  string(quest.Source),
		Region:  quest.Region,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal quest event: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.QuestEventTopic
	err = p.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(quest.ID), Msg: msg})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish quest event: %v", err)
	}
}

func (p *Pipeline) publishReport(ctx context.Context, report model.CycleReport) {
	if p.publisher == nil {
		return
	}

	msg, err := json.Marshal(report)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal cycle report: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.CycleReportTopic
	err = p.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(report.Source), Msg: msg})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish cycle report: %v", err)
	}
}
