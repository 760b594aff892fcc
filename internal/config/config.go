package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendYAML     = "yaml"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	Token                  string
	DiscordGuildID         string
	DiscordChannelAnnounce string

	StoreBackend string
	DataFile     string
	DatabaseURL  string
	SQLitePath   string
	BackupDir    string
	BackupRetain int

	// BackupOnShutdown writes a snapshot after the final save.
	BackupOnShutdown bool

	RedisURL  string
	WalletURL string

	MetricsAddr    string
	IngestAddr     string
	IngestMaxConns int

	TokenSecret string
	SessionTTL  time.Duration
	LogLevel    string

	Economy Economy
}

// Economy holds the coin amounts the engine charges and pays out.
type Economy struct {
	SquadCreationCost float64 `env:"SQUAD_CREATION_COST" envDefault:"1000"`
	MonsterKillBounty float64 `env:"MONSTER_KILL_BOUNTY" envDefault:"10"`
	PlayerKillBounty  float64 `env:"PLAYER_KILL_BOUNTY" envDefault:"50"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	token := secretOrEnv("discord_token", "DISCORD_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is not set (via secret or env var)")
	}

	var economy Economy
	if err := env.Parse(&economy); err != nil {
		return nil, fmt.Errorf("parse economy settings: %w", err)
	}

	cfg := &Config{
		Token:                  token,
		DiscordGuildID:         envString("DISCORD_GUILD_ID", ""),
		DiscordChannelAnnounce: envString("DISCORD_CHANNEL_ANNOUNCE", "guild-announcements"),
		StoreBackend:           strings.ToLower(envString("STORE_BACKEND", BackendYAML)),
		DataFile:               envString("DATA_FILE", "data/guild_data.yaml"),
		DatabaseURL:            secretOrEnv("database_url", "DATABASE_URL"),
		SQLitePath:             envString("SQLITE_PATH", "data/guild.db"),
		BackupDir:              envString("BACKUP_DIR", "data/backups"),
		BackupRetain:           envInt("BACKUP_RETAIN", 5),
		BackupOnShutdown:       envBool("BACKUP_ON_SHUTDOWN", true),
		RedisURL:               envString("REDIS_URL", ""),
		WalletURL:              envString("WALLET_URL", ""),
		MetricsAddr:            envString("METRICS_ADDR", ":2112"),
		IngestAddr:             envString("INGEST_ADDR", ":8085"),
		IngestMaxConns:         envInt("INGEST_MAX_CONNS", 64),
		TokenSecret:            secretOrEnv("token_secret", "TOKEN_SECRET"),
		SessionTTL:             envDuration("SESSION_TTL", 0),
		LogLevel:               envString("LOG_LEVEL", "info"),
		Economy:                economy,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

var secretsDir = "/run/secrets/"

func readSecret(name string) string {
	data, err := os.ReadFile(secretsDir + name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func secretOrEnv(secret, key string) string {
	if v := readSecret(secret); v != "" {
		return v
	}
	return os.Getenv(key)
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
