package main

import (
	"github.com/urfave/cli/v2"

	"github.com/questboard/backend/internal/domain/cron"
	"github.com/questboard/backend/pkg/xcontext"
)

func (s *srv) startCron(*cli.Context) error {
	s.loadConfig()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadSearchIndex()
	s.loadPublisher()
	s.loadRepos()
	s.loadPipeline()
	s.loadDomains()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewFetchSourcesCronJob(s.ctx, s.pipeline))
	cronJobManager.Register(cron.NewEvictStaleQuestsCronJob(s.pipeline))
	cronJobManager.Register(cron.NewRebuildCorpusCronJob(s.ctx, s.engine))
	cronJobManager.Register(cron.NewPruneDifficultyCurvesCronJob(s.ctx, s.curveRepo))
	cronJobManager.Start(s.ctx)

	return nil
}
