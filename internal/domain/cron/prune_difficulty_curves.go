package cron

import (
	"context"
	"time"

	"github.com/questboard/backend/internal/repository"
	"github.com/questboard/backend/pkg/dateutil"
	"github.com/questboard/backend/pkg/xcontext"
)

// PruneDifficultyCurvesCronJob keeps the append-only curve table bounded by
// dropping the oldest samples beyond the retention count.
type PruneDifficultyCurvesCronJob struct {
	curveRepo repository.DifficultyCurveRepository
	retain    int
}

func NewPruneDifficultyCurvesCronJob(
	ctx context.Context, curveRepo repository.DifficultyCurveRepository,
) *PruneDifficultyCurvesCronJob {
	return &PruneDifficultyCurvesCronJob{
		curveRepo: curveRepo,
		retain:    xcontext.Configs(ctx).Pipeline.CurveRetentionCount,
	}
}

func (job *PruneDifficultyCurvesCronJob) Do(ctx context.Context) {
	pruned, err := job.curveRepo.PruneOldest(ctx, job.retain)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot prune difficulty curves: %v", err)
		return
	}

	if pruned > 0 {
		xcontext.Logger(ctx).Infof("Pruned %d difficulty curve samples", pruned)
	}
}

func (job *PruneDifficultyCurvesCronJob) RunNow() bool {
	return false
}

func (job *PruneDifficultyCurvesCronJob) Next() time.Time {
	return dateutil.NextDay(time.Now())
}
