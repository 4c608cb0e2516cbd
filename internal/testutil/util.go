package testutil

import (
	"context"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/questboard/backend/config"
	"github.com/questboard/backend/internal/entity"
	"github.com/questboard/backend/pkg/logger"
	"github.com/questboard/backend/pkg/xcontext"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Env: "testing",
		ApiServer: config.APIServerConfigs{
			MaxLimit:     50,
			DefaultLimit: 20,
		},
		Kafka: config.KafkaConfigs{
			QuestEventTopic:  "questboard.quest_events",
			CycleReportTopic: "questboard.cycle_reports",
		},
		Pipeline: config.PipelineConfigs{
			FetchInterval:         time.Hour,
			SourceTimeout:         5 * time.Second,
			RetentionWindow:       14 * 24 * time.Hour,
			CorpusRebuildInterval: 6 * time.Hour,
			CurveRetentionCount:   1000,
			SimilarityThreshold:   0.8,
		},
		Scoring: config.ScoringConfigs{
			MaxGearTags:    5,
			ScoreCacheSize: 128,
			FilterPolicy:   config.OverrideFirst,
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}
