package main

import (
	"context"

	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/questboard/backend/config"
	"github.com/questboard/backend/internal/domain"
	"github.com/questboard/backend/internal/domain/normalize"
	"github.com/questboard/backend/internal/domain/pipeline"
	"github.com/questboard/backend/internal/domain/scoring"
	"github.com/questboard/backend/internal/domain/search"
	"github.com/questboard/backend/internal/domain/source"
	"github.com/questboard/backend/internal/entity"
	"github.com/questboard/backend/internal/repository"
	"github.com/questboard/backend/pkg/kafka"
	"github.com/questboard/backend/pkg/logger"
	"github.com/questboard/backend/pkg/pubsub"
	"github.com/questboard/backend/pkg/xcontext"
	"github.com/questboard/backend/pkg/xredis"
)

type srv struct {
	app *cli.App
	ctx context.Context

	searchIndex search.Index
	redisClient xredis.Client
	publisher   pubsub.Publisher

	questRepo      repository.QuestRepository
	bookmarkRepo   repository.BookmarkRepository
	curveRepo      repository.DifficultyCurveRepository
	submissionRepo repository.SubmissionRepository

	engine   *scoring.Engine
	pipeline *pipeline.Pipeline

	questDomain    domain.QuestDomain
	bookmarkDomain domain.BookmarkDomain
	pipelineDomain domain.PipelineDomain
}

func (s *srv) loadConfig() {
	configs := config.Load()
	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, configs)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLoggerByName(configs.LogLevel))
}

func (s *srv) newDatabase() *gorm.DB {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       xcontext.Configs(s.ctx).Database.ConnectionString(),
		DefaultStringSize:         256,
		DisableDatetimePrecision:  true,
		DontSupportRenameIndex:    true,
		DontSupportRenameColumn:   true,
		SkipInitializeWithVersion: false,
	}), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadSearchIndex() {
	var err error
	s.searchIndex, err = search.NewBleveIndex(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadPublisher() {
	var err error
	s.publisher, err = kafka.NewPublisher(
		"questboard", []string{xcontext.Configs(s.ctx).Kafka.Addr})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.questRepo = repository.NewQuestRepository(s.searchIndex, s.redisClient)
	s.bookmarkRepo = repository.NewBookmarkRepository()
	s.curveRepo = repository.NewDifficultyCurveRepository()
	s.submissionRepo = repository.NewSubmissionRepository()
}

func (s *srv) loadPipeline() {
	var err error
	s.engine, err = scoring.NewEngine(s.ctx, s.questRepo, s.curveRepo)
	if err != nil {
		panic(err)
	}

	cfg := xcontext.Configs(s.ctx).Scoring
	keywords, err := normalize.LoadFilterKeywords(cfg.FilterKeywordsFile)
	if err != nil {
		xcontext.Logger(s.ctx).Warnf("Cannot load filter keywords, using defaults: %v", err)
		keywords = normalize.DefaultFilterKeywords()
	}

	s.pipeline = pipeline.New(
		[]source.Source{
			source.NewRedditSource(s.ctx),
			source.NewCraigslistSource(s.ctx),
			source.NewSubmissionSource(s.submissionRepo),
		},
		normalize.NewNormalizer(keywords, cfg.FilterPolicy),
		s.engine,
		s.questRepo,
		s.curveRepo,
		s.publisher,
	)
}

func (s *srv) loadDomains() {
	s.questDomain = domain.NewQuestDomain(s.questRepo, s.submissionRepo)
	s.bookmarkDomain = domain.NewBookmarkDomain(s.bookmarkRepo, s.questRepo)
	s.pipelineDomain = domain.NewPipelineDomain(s.pipeline)
}
