package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	LLMBase  string
	LLMKey   string
	LLMModel string
	LLMRPS   int

	VenuesPath   string
	MetadataPath string
	Workers      int

	CacheTTL      time.Duration
	SessionIdle   time.Duration
	SessionSettle time.Duration
}

func Load() Config {
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		LogLevel:      env("LOG_LEVEL", "info"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ":9100"),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/vibescout?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		LLMBase:       env("LLM_BASE_URL", "https://openrouter.ai/api/v1"),
		LLMKey:        env("LLM_API_KEY", ""),
		LLMModel:      env("LLM_MODEL", "moonshotai/kimi-k2-0905"),
		LLMRPS:        atoi("LLM_RPS", 2),
		VenuesPath:    env("VENUES_PATH", "data/venues.json"),
		MetadataPath:  env("METADATA_PATH", "data/venue-metadata.json"),
		Workers:       atoi("INGEST_WORKERS", 8),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		SessionIdle:   time.Duration(atoi("SESSION_IDLE_SECONDS", 1800)) * time.Second,
		SessionSettle: time.Duration(atoi("SESSION_SETTLE_MS", 250)) * time.Millisecond,
	}
	if c.LLMKey == "" {
		log.Warn().Msg("LLM_API_KEY is empty, chat falls back to canned replies")
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
