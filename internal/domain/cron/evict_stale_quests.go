package cron

import (
	"context"
	"time"

	"github.com/questboard/backend/internal/domain/pipeline"
	"github.com/questboard/backend/pkg/dateutil"
	"github.com/questboard/backend/pkg/xcontext"
)

// EvictStaleQuestsCronJob removes quests unseen for the retention window once
// a day. Bookmarked quests are skipped.
type EvictStaleQuestsCronJob struct {
	pipeline *pipeline.Pipeline
}

func NewEvictStaleQuestsCronJob(p *pipeline.Pipeline) *EvictStaleQuestsCronJob {
	return &EvictStaleQuestsCronJob{pipeline: p}
}

func (job *EvictStaleQuestsCronJob) Do(ctx context.Context) {
	evicted, err := job.pipeline.EvictStale(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot evict stale quests: %v", err)
		return
	}

	if evicted > 0 {
		xcontext.Logger(ctx).Infof("Evicted %d stale quests", evicted)
	}
}

func (job *EvictStaleQuestsCronJob) RunNow() bool {
	return false
}

func (job *EvictStaleQuestsCronJob) Next() time.Time {
	return dateutil.NextDay(time.Now())
}
