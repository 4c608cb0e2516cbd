package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Configs struct {
	Env      string
	LogLevel string

	Database DatabaseConfigs
	Redis    RedisConfigs
	Kafka    KafkaConfigs
	Search   SearchConfigs
	ApiServer APIServerConfigs

	Reddit     RedditConfigs
	Craigslist CraigslistConfigs
	Pipeline   PipelineConfigs
	Scoring    ScoringConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr string

	// Topics the pipeline publishes to.
	QuestEventTopic  string
	CycleReportTopic string
}

type SearchConfigs struct {
	IndexDir string
}

type APIServerConfigs struct {
	DefaultLimit int
	MaxLimit     int
}

type RedditConfigs struct {
	BaseURL   string
	Subreddit string
	UserAgent string
	Limit     int
}

type CraigslistConfigs struct {
	BaseURL string
	Query   string
	Limit   int
}

type PipelineConfigs struct {
	FetchInterval   time.Duration
	SourceTimeout   time.Duration
	RetentionWindow time.Duration

	CorpusRebuildInterval time.Duration
	CurveRetentionCount   int

	// Description similarity in [0, 1] above which two quests from different
	// sources are linked as duplicates.
	SimilarityThreshold float64
}

// FilterPolicyType decides the precedence between the exclusion deny-list and
// the override allow-list of the relevance filter.
type FilterPolicyType string

const (
	// OverrideFirst keeps a listing matching both lists.
	OverrideFirst FilterPolicyType = "override_first"
	// ExclusionFirst drops a listing matching both lists.
	ExclusionFirst FilterPolicyType = "exclusion_first"
)

type ScoringConfigs struct {
	GearKeywordsFile   string
	FilterKeywordsFile string

	MaxGearTags    int
	ScoreCacheSize int
	FilterPolicy   FilterPolicyType
}

func Load() Configs {
	return Configs{
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
		Database: DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "questboard"),
			User:     getEnv("MYSQL_USER", "questboard"),
			Password: getEnv("MYSQL_PASSWORD", "secret"),
		},
		Redis: RedisConfigs{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: KafkaConfigs{
			Addr:             getEnv("KAFKA_ADDR", "localhost:9092"),
			QuestEventTopic:  getEnv("KAFKA_QUEST_EVENT_TOPIC", "questboard.quest_events"),
			CycleReportTopic: getEnv("KAFKA_CYCLE_REPORT_TOPIC", "questboard.cycle_reports"),
		},
		Search: SearchConfigs{
			IndexDir: getEnv("SEARCH_INDEX_DIR", "searchindex"),
		},
		ApiServer: APIServerConfigs{
			DefaultLimit: getIntEnv("API_DEFAULT_LIMIT", 20),
			MaxLimit:     getIntEnv("API_MAX_LIMIT", 50),
		},
		Reddit: RedditConfigs{
			BaseURL:   getEnv("REDDIT_BASE_URL", "https://www.reddit.com"),
			Subreddit: getEnv("REDDIT_SUBREDDIT", "DoneDirtCheap"),
			UserAgent: getEnv("REDDIT_USER_AGENT", "QuestBoard/1.0"),
			Limit:     getIntEnv("REDDIT_LIMIT", 20),
		},
		Craigslist: CraigslistConfigs{
			BaseURL: getEnv("CRAIGSLIST_BASE_URL", "https://lasvegas.craigslist.org"),
			Query:   getEnv("CRAIGSLIST_QUERY", "gig"),
			Limit:   getIntEnv("CRAIGSLIST_LIMIT", 20),
		},
		Pipeline: PipelineConfigs{
			FetchInterval:         getDurationEnv("PIPELINE_FETCH_INTERVAL", time.Hour),
			SourceTimeout:         getDurationEnv("PIPELINE_SOURCE_TIMEOUT", 30*time.Second),
			RetentionWindow:       getDurationEnv("PIPELINE_RETENTION_WINDOW", 14*24*time.Hour),
			CorpusRebuildInterval: getDurationEnv("PIPELINE_CORPUS_REBUILD_INTERVAL", 6*time.Hour),
			CurveRetentionCount:   getIntEnv("PIPELINE_CURVE_RETENTION_COUNT", 10000),
			SimilarityThreshold:   getFloatEnv("PIPELINE_SIMILARITY_THRESHOLD", 0.8),
		},
		Scoring: ScoringConfigs{
			GearKeywordsFile:   getEnv("SCORING_GEAR_KEYWORDS_FILE", "data/gear_keywords.toml"),
			FilterKeywordsFile: getEnv("SCORING_FILTER_KEYWORDS_FILE", "data/filter_keywords.toml"),
			MaxGearTags:        getIntEnv("SCORING_MAX_GEAR_TAGS", 5),
			ScoreCacheSize:     getIntEnv("SCORING_SCORE_CACHE_SIZE", 4096),
			FilterPolicy:       FilterPolicyType(getEnv("SCORING_FILTER_POLICY", string(OverrideFirst))),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}

	return def
}

func getFloatEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}

	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}

	return def
}
