package domain

import (
	"context"

	"github.com/questboard/backend/internal/domain/pipeline"
	"github.com/questboard/backend/internal/model"
	"github.com/questboard/backend/pkg/errorx"
	"github.com/questboard/backend/pkg/xcontext"
)

type PipelineDomain interface {
	RunCycle(context.Context, *model.RunCycleRequest) (*model.RunCycleResponse, error)
	GetLastReports(context.Context, *model.GetLastReportsRequest) (*model.GetLastReportsResponse, error)
}

type pipelineDomain struct {
	pipeline *pipeline.Pipeline
}

func NewPipelineDomain(p *pipeline.Pipeline) *pipelineDomain {
	return &pipelineDomain{pipeline: p}
}

// RunCycle triggers an on-demand fetch cycle outside the regular schedule.
func (d *pipelineDomain) RunCycle(
	ctx context.Context, req *model.RunCycleRequest,
) (*model.RunCycleResponse, error) {
	reports, err := d.pipeline.RunCycle(ctx, req.Source)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot run fetch cycle: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Unknown source %s", req.Source)
	}

	return &model.RunCycleResponse{Reports: reports}, nil
}

func (d *pipelineDomain) GetLastReports(
	ctx context.Context, req *model.GetLastReportsRequest,
) (*model.GetLastReportsResponse, error) {
	return &model.GetLastReportsResponse{Reports: d.pipeline.LastReports()}, nil
}
