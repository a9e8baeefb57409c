package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultEngineWebhookURL = "http://localhost:5678/webhook/content-pipeline"

type Settings struct {
	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ServerPort      int

	EngineWebhookURL string
	EngineTimeout    time.Duration
	PublicBaseURL    string

	// TrustProxyHeaders lets X-Forwarded-* shape the callback address when PublicBaseURL is empty.
	TrustProxyHeaders bool

	CallbackSecret   string
	CallbackTokenTTL time.Duration

	WorkflowStuckAfter time.Duration
	ReapSchedule       string

	RedisAddr     string
	RedisPassword string
	StatsCacheTTL time.Duration
	NotifyChannel string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MediaBucket    string
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("N8N_WEBHOOK_URL", DefaultEngineWebhookURL)
	v.SetDefault("ENGINE_TIMEOUT_SECONDS", 30)
	v.SetDefault("CALLBACK_TOKEN_TTL_HOURS", 72)
	v.SetDefault("WORKFLOW_STUCK_AFTER_MINUTES", 15)
	v.SetDefault("REAP_SCHEDULE", "@every 5m")
	v.SetDefault("STATS_CACHE_TTL_SECONDS", 30)
	v.SetDefault("NOTIFY_CHANNEL", "content-engine:events")
	v.SetDefault("MEDIA_BUCKET", "assets")

	for _, key := range []string{
		"MARIADB_DSN",
		"MARIADB_MAX_OPEN_CONN",
		"MARIADB_MAX_IDLE_CONNS",
		"MARIADB_CONN_MAX_LIFETIME",
		"SERVER_PORT",
	} {
		if !v.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	return &Settings{
		MariaDBDSN:      v.GetString("MARIADB_DSN"),
		MaxOpenConns:    v.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    v.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(v.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		ServerPort:      v.GetInt("SERVER_PORT"),

		EngineWebhookURL: v.GetString("N8N_WEBHOOK_URL"),
		EngineTimeout:    time.Duration(v.GetInt("ENGINE_TIMEOUT_SECONDS")) * time.Second,
		PublicBaseURL:    v.GetString("PUBLIC_BASE_URL"),

		TrustProxyHeaders: v.GetBool("TRUST_PROXY_HEADERS"),

		CallbackSecret:   v.GetString("CALLBACK_SECRET"),
		CallbackTokenTTL: time.Duration(v.GetInt("CALLBACK_TOKEN_TTL_HOURS")) * time.Hour,

		WorkflowStuckAfter: time.Duration(v.GetInt("WORKFLOW_STUCK_AFTER_MINUTES")) * time.Minute,
		ReapSchedule:       v.GetString("REAP_SCHEDULE"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		StatsCacheTTL: time.Duration(v.GetInt("STATS_CACHE_TTL_SECONDS")) * time.Second,
		NotifyChannel: v.GetString("NOTIFY_CHANNEL"),

		MinioEndpoint:  v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: v.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:    v.GetBool("MINIO_USE_SSL"),
		MediaBucket:    v.GetString("MEDIA_BUCKET"),
	}, nil
}
