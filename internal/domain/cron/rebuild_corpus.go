package cron

import (
	"context"
	"time"

	"github.com/questboard/backend/internal/domain/scoring"
	"github.com/questboard/backend/pkg/dateutil"
	"github.com/questboard/backend/pkg/xcontext"
)

// RebuildCorpusCronJob refreshes the scoring corpus from the stored quest
// texts. Quests scored before the swap keep their difficulty until their text
// changes.
type RebuildCorpusCronJob struct {
	engine   *scoring.Engine
	interval time.Duration
}

func NewRebuildCorpusCronJob(ctx context.Context, engine *scoring.Engine) *RebuildCorpusCronJob {
	return &RebuildCorpusCronJob{
		engine:   engine,
		interval: xcontext.Configs(ctx).Pipeline.CorpusRebuildInterval,
	}
}

func (job *RebuildCorpusCronJob) Do(ctx context.Context) {
	if err := job.engine.Rebuild(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot rebuild scoring corpus: %v", err)
	}
}

func (job *RebuildCorpusCronJob) RunNow() bool {
	return false
}

func (job *RebuildCorpusCronJob) Next() time.Time {
	return dateutil.NextInterval(time.Now(), job.interval)
}
