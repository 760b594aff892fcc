package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

// Validation constants define acceptable bounds for configuration values
const (
	// Token validation
	minTokenLength = 50 // Discord tokens are typically 50+ characters

	// JWT signing key
	minTokenSecretLength = 32

	// Backups kept on disk
	minBackupRetain = 1
	maxBackupRetain = 100

	// Ingest connection cap
	minIngestConns = 1
	maxIngestConns = 4096

	maxSessionTTL = 24 * time.Hour

	// Channel name validation
	minChannelNameLength = 1   // Cannot be empty
	maxChannelNameLength = 100 // Discord limit
)

// Validate checks if the configuration values are valid and within acceptable ranges.
// It returns all validation errors at once using errors.Join.
//
// Validated fields:
//   - Token: at least 50 characters (Discord token format)
//   - TokenSecret: at least 32 bytes
//   - StoreBackend: yaml, postgres or sqlite, with the matching location set
//   - BackupRetain: between 1 and 100
//   - IngestMaxConns: between 1 and 4096
//   - SessionTTL: between 0 (disabled) and 24h
//   - Economy: no negative amounts
//   - RedisURL, WalletURL: parseable when set
//   - LogLevel: debug, info, warn or error
func (c *Config) Validate() error {
	var errs []error

	validators := []func() error{
		c.validateToken,
		c.validateTokenSecret,
		c.validateStore,
		c.validateBackupRetain,
		c.validateIngest,
		c.validateSessionTTL,
		c.validateEconomy,
		c.validateURLs,
		c.validateLogLevel,
		c.validateChannelNames,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %w", errors.Join(errs...))
	}

	return nil
}

// validateToken ensures the Discord token is present and has valid length
func (c *Config) validateToken() error {
	if c.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required but not set")
	}

	if len(c.Token) < minTokenLength {
		return fmt.Errorf(
			"DISCORD_TOKEN appears invalid (too short: %d chars, expected %d+)",
			len(c.Token), minTokenLength,
		)
	}

	return nil
}

func (c *Config) validateTokenSecret() error {
	if c.TokenSecret == "" {
		return fmt.Errorf("TOKEN_SECRET is required but not set")
	}

	if len(c.TokenSecret) < minTokenSecretLength {
		return fmt.Errorf(
			"TOKEN_SECRET must be at least %d bytes, got %d",
			minTokenSecretLength, len(c.TokenSecret),
		)
	}

	return nil
}

// validateStore ensures the selected backend has somewhere to write
func (c *Config) validateStore() error {
	switch c.StoreBackend {
	case BackendYAML:
		if c.DataFile == "" {
			return fmt.Errorf("DATA_FILE is required when STORE_BACKEND is %s", BackendYAML)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND is %s", BackendPostgres)
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORE_BACKEND is %s", BackendSQLite)
		}
	default:
		return fmt.Errorf(
			"STORE_BACKEND must be one of %s, %s or %s, got %q",
			BackendYAML, BackendPostgres, BackendSQLite, c.StoreBackend,
		)
	}

	return nil
}

func (c *Config) validateBackupRetain() error {
	if c.BackupRetain < minBackupRetain || c.BackupRetain > maxBackupRetain {
		return fmt.Errorf(
			"BACKUP_RETAIN must be between %d and %d, got %d",
			minBackupRetain, maxBackupRetain, c.BackupRetain,
		)
	}

	return nil
}

func (c *Config) validateIngest() error {
	if c.IngestMaxConns < minIngestConns || c.IngestMaxConns > maxIngestConns {
		return fmt.Errorf(
			"INGEST_MAX_CONNS must be between %d and %d, got %d",
			minIngestConns, maxIngestConns, c.IngestMaxConns,
		)
	}

	return nil
}

// validateSessionTTL allows 0, which disables expiry
func (c *Config) validateSessionTTL() error {
	if c.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL cannot be negative, got %v", c.SessionTTL)
	}

	if c.SessionTTL > maxSessionTTL {
		return fmt.Errorf(
			"SESSION_TTL must be at most %v, got %v",
			maxSessionTTL, c.SessionTTL,
		)
	}

	return nil
}

func (c *Config) validateEconomy() error {
	var errs []error

	amounts := []struct {
		name  string
		value float64
	}{
		{"SQUAD_CREATION_COST", c.Economy.SquadCreationCost},
		{"MONSTER_KILL_BOUNTY", c.Economy.MonsterKillBounty},
		{"PLAYER_KILL_BOUNTY", c.Economy.PlayerKillBounty},
	}
	for _, a := range amounts {
		if a.value < 0 {
			errs = append(errs, fmt.Errorf("%s cannot be negative, got %v", a.name, a.value))
		}
	}

	return errors.Join(errs...)
}

func (c *Config) validateURLs() error {
	var errs []error

	if c.RedisURL != "" && !strings.HasPrefix(c.RedisURL, "redis://") && !strings.HasPrefix(c.RedisURL, "rediss://") {
		errs = append(errs, fmt.Errorf("REDIS_URL must use the redis:// or rediss:// scheme"))
	}

	if c.WalletURL != "" {
		u, err := url.Parse(c.WalletURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("WALLET_URL must be an absolute http(s) URL, got %q", c.WalletURL))
		}
	}

	return errors.Join(errs...)
}

func (c *Config) validateLogLevel() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}

	return nil
}

func (c *Config) validateChannelNames() error {
	return validateChannelName("DISCORD_CHANNEL_ANNOUNCE", c.DiscordChannelAnnounce)
}

// validateChannelName validates a single channel name
func validateChannelName(fieldName, channelName string) error {
	if channelName == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}

	if len(channelName) > maxChannelNameLength {
		return fmt.Errorf(
			"%s must be at most %d characters (Discord limit), got %d",
			fieldName, maxChannelNameLength, len(channelName),
		)
	}

	return nil
}
