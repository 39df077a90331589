package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvDevelopment = "DEV"
	EnvProduction  = "PROD"
)

const (
	SinkStdout        = "stdout"
	SinkPostgres      = "postgres"
	SinkRabbitMQ      = "rabbitmq"
	SinkKafka         = "kafka"
	SinkElasticsearch = "elasticsearch"
)

type AppConfig struct {
	AppEnv   string // EnvDevelopment or EnvProduction
	LogLevel slog.Level
	HTTPAddr string
	ProxyURL string

	HackerNewsBaseURL      string
	PollInterval           time.Duration
	StartItemID            int64 // 0 means seed from the live max item
	RequestTimeout         time.Duration
	RequestsPerSecond      float64
	Workers                int
	MaxBatchSize           int
	FetchMaxRetries        uint64
	FetchRetryBase         time.Duration
	FetchRetryMax          time.Duration
	MaxIDRetries           uint64
	MaxIDRetryDelay        time.Duration
	MaxConsecutiveFailures int

	ItemTypes        []string
	ExcludeItemTypes []string
	DetectLanguage   bool

	Sinks              []string
	PostgresURL        string
	RabbitMQURL        string
	RabbitMQQueue      string
	KafkaBrokers       []string
	KafkaTopic         string
	ElasticsearchURL   string
	ElasticsearchIndex string
}

var Config AppConfig

func LoadConfig() {
	cfg := AppConfig{}

	cfg.AppEnv = strings.ToUpper(loadOptional("APP_ENV", EnvProduction))
	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	cfg.ProxyURL = os.Getenv("PROXY_URL")

	cfg.HackerNewsBaseURL = strings.TrimRight(loadOptional("HN_BASE_URL", "https://hacker-news.firebaseio.com/v0"), "/")
	cfg.PollInterval = time.Duration(loadInt("POLL_INTERVAL_SECONDS", 15)) * time.Second
	cfg.StartItemID = int64(loadInt("START_ITEM_ID", 0))
	cfg.RequestTimeout = time.Duration(loadInt("REQUEST_TIMEOUT_MS", 10000)) * time.Millisecond
	cfg.RequestsPerSecond = loadFloat("REQUESTS_PER_SECOND", 0)
	cfg.Workers = loadInt("WORKERS", 8)
	cfg.MaxBatchSize = loadInt("MAX_BATCH_SIZE", 0)
	cfg.FetchMaxRetries = uint64(loadInt("FETCH_MAX_RETRIES", 3))
	cfg.FetchRetryBase = time.Duration(loadInt("FETCH_RETRY_BASE_MS", 500)) * time.Millisecond
	cfg.FetchRetryMax = time.Duration(loadInt("FETCH_RETRY_MAX_MS", 5000)) * time.Millisecond
	cfg.MaxIDRetries = uint64(loadInt("MAX_ID_RETRIES", 3))
	cfg.MaxIDRetryDelay = time.Duration(loadInt("MAX_ID_RETRY_DELAY_MS", 1000)) * time.Millisecond
	cfg.MaxConsecutiveFailures = loadInt("MAX_CONSECUTIVE_FAILURES", 0)

	cfg.ItemTypes = loadList("ITEM_TYPES")
	cfg.ExcludeItemTypes = loadList("EXCLUDE_ITEM_TYPES")
	cfg.DetectLanguage = loadBool("DETECT_LANGUAGE", false)

	cfg.Sinks = loadList("SINKS")
	if len(cfg.Sinks) == 0 {
		cfg.Sinks = []string{SinkStdout}
	}
	for _, sink := range cfg.Sinks {
		switch sink {
		case SinkStdout:
		case SinkPostgres:
			cfg.PostgresURL = loadRequired("POSTGRES_URL")
		case SinkRabbitMQ:
			cfg.RabbitMQURL = loadRequired("RABBITMQ_URL")
			cfg.RabbitMQQueue = loadOptional("RABBITMQ_QUEUE", "hackernews_documents")
		case SinkKafka:
			cfg.KafkaBrokers = loadList("KAFKA_BROKERS")
			if len(cfg.KafkaBrokers) == 0 {
				slog.Error("Required env var not set", "key", "KAFKA_BROKERS")
				os.Exit(1)
			}
			cfg.KafkaTopic = loadOptional("KAFKA_TOPIC", "hackernews.documents")
		case SinkElasticsearch:
			cfg.ElasticsearchURL = loadRequired("ELASTICSEARCH_URL")
			cfg.ElasticsearchIndex = loadOptional("ELASTICSEARCH_INDEX", "hackernews-documents")
		default:
			slog.Error("Unknown sink", "sink", sink)
			os.Exit(1)
		}
	}

	lvlString := loadOptional("LOG_LEVEL", "INFO")
	var err error
	cfg.LogLevel, err = parseLogLevel(lvlString)
	if err != nil {
		slog.Error("Invalid LOG_LEVEL", "error", err)
		cfg.LogLevel = slog.LevelInfo
	}

	Config = cfg
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	var err = level.UnmarshalText([]byte(s))
	return level, err
}

func loadRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		slog.Error("Required env var not set", "key", key)
		os.Exit(1)
	}
	return value
}

func loadOptional(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func loadInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		slog.Error("Invalid integer env var, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return n
}

func loadFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 {
		slog.Error("Invalid number env var, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return f
}

func loadBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		slog.Error("Invalid boolean env var, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return b
}

// loadList splits a comma-separated env var, dropping blanks and lowercasing entries.
func loadList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			list = append(list, p)
		}
	}
	return list
}

func (c AppConfig) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func (c AppConfig) HasSink(name string) bool {
	for _, s := range c.Sinks {
		if s == name {
			return true
		}
	}
	return false
}
