package cron

import (
	"context"
	"time"

	"github.com/questboard/backend/internal/domain/pipeline"
	"github.com/questboard/backend/pkg/dateutil"
	"github.com/questboard/backend/pkg/xcontext"
)

// FetchSourcesCronJob runs a full fetch cycle on the configured interval.
// Overlap protection lives in the pipeline, so a long cycle only means the
// next tick reports a skip.
type FetchSourcesCronJob struct {
	pipeline *pipeline.Pipeline
	interval time.Duration
}

func NewFetchSourcesCronJob(ctx context.Context, p *pipeline.Pipeline) *FetchSourcesCronJob {
	return &FetchSourcesCronJob{
		pipeline: p,
		interval: xcontext.Configs(ctx).Pipeline.FetchInterval,
	}
}

func (job *FetchSourcesCronJob) Do(ctx context.Context) {
	reports, err := job.pipeline.RunCycle(ctx, "")
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot run fetch cycle: %v", err)
		return
	}

	for _, report := range reports {
		xcontext.Logger(ctx).Infof(
			"Fetch cycle of %s: fetched=%d, normalized=%d, skipped=%d, upserted=%d, linked=%d, errors=%d",
			report.Source, report.Fetched, report.Normalized, report.Skipped,
			report.Upserted, report.Linked, len(report.Errors))
	}
}

func (job *FetchSourcesCronJob) RunNow() bool {
	return true
}

func (job *FetchSourcesCronJob) Next() time.Time {
	return dateutil.NextInterval(time.Now(), job.interval)
}
