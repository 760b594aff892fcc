package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Token:                  strings.Repeat("a", 50),
		TokenSecret:            strings.Repeat("s", 32),
		DiscordChannelAnnounce: "guild-announcements",
		StoreBackend:           BackendYAML,
		DataFile:               "data/guild_data.yaml",
		BackupRetain:           5,
		IngestMaxConns:         64,
		LogLevel:               "info",
		Economy: Economy{
			SquadCreationCost: 1000,
			MonsterKillBounty: 10,
			PlayerKillBounty:  50,
		},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Valid config should not produce error: %v", err)
	}
}

func TestConfig_Validate_Token(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"valid token", strings.Repeat("a", 50), false},
		{"too short", strings.Repeat("a", 49), true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Token = tt.token

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Token validation error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_TokenSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"minimum length", strings.Repeat("s", 32), false},
		{"too short", strings.Repeat("s", 31), true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.TokenSecret = tt.secret

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("TokenSecret validation error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_Store(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"yaml", func(c *Config) {}, ""},
		{"yaml without file", func(c *Config) { c.DataFile = "" }, "DATA_FILE"},
		{"postgres", func(c *Config) { c.StoreBackend = BackendPostgres; c.DatabaseURL = "postgres://db" }, ""},
		{"postgres without url", func(c *Config) { c.StoreBackend = BackendPostgres }, "DATABASE_URL"},
		{"sqlite", func(c *Config) { c.StoreBackend = BackendSQLite; c.SQLitePath = "guild.db" }, ""},
		{"sqlite without path", func(c *Config) { c.StoreBackend = BackendSQLite }, "SQLITE_PATH"},
		{"unknown backend", func(c *Config) { c.StoreBackend = "mongo" }, "STORE_BACKEND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			assertContains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_SessionTTL(t *testing.T) {
	tests := []struct {
		name    string
		ttl     time.Duration
		wantErr bool
	}{
		{"disabled", 0, false},
		{"five minutes", 5 * time.Minute, false},
		{"maximum", 24 * time.Hour, false},
		{"negative", -time.Second, true},
		{"too long", 25 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.SessionTTL = tt.ttl

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("SessionTTL validation error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_Limits(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"retain minimum", func(c *Config) { c.BackupRetain = 1 }, false},
		{"retain zero", func(c *Config) { c.BackupRetain = 0 }, true},
		{"retain too many", func(c *Config) { c.BackupRetain = 101 }, true},
		{"conns minimum", func(c *Config) { c.IngestMaxConns = 1 }, false},
		{"conns zero", func(c *Config) { c.IngestMaxConns = 0 }, true},
		{"conns too many", func(c *Config) { c.IngestMaxConns = 5000 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validation error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_Economy(t *testing.T) {
	cfg := validConfig()
	cfg.Economy.SquadCreationCost = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("free squads should be allowed: %v", err)
	}

	cfg.Economy.MonsterKillBounty = -1
	cfg.Economy.PlayerKillBounty = -5
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for negative bounties")
	}
	assertContains(t, err.Error(), "MONSTER_KILL_BOUNTY")
	assertContains(t, err.Error(), "PLAYER_KILL_BOUNTY")
}

func TestConfig_Validate_URLs(t *testing.T) {
	tests := []struct {
		name    string
		redis   string
		wallet  string
		wantErr bool
	}{
		{"unset", "", "", false},
		{"valid", "redis://localhost:6379", "https://wallet.example.com", false},
		{"tls redis", "rediss://cache:6380/1", "", false},
		{"bad redis scheme", "localhost:6379", "", true},
		{"relative wallet", "", "/balances", true},
		{"wallet wrong scheme", "", "ftp://wallet", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.RedisURL = tt.redis
			cfg.WalletURL = tt.wallet

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("URL validation error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_LogLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "INFO"} {
		cfg := validConfig()
		cfg.LogLevel = level
		if err := cfg.Validate(); err != nil {
			t.Errorf("level %q should be valid: %v", level, err)
		}
	}

	cfg := validConfig()
	cfg.LogLevel = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestConfig_Validate_ChannelNames(t *testing.T) {
	tests := []struct {
		name    string
		channel string
		wantErr bool
	}{
		{"valid", "guild-announcements", false},
		{"empty", "", true},
		{"too long", strings.Repeat("c", 101), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.DiscordChannelAnnounce = tt.channel

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Channel validation error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := &Config{
		StoreBackend: "unknown",
		SessionTTL:   -time.Minute,
		LogLevel:     "loud",
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation error for invalid config")
	}

	errMsg := err.Error()
	expectedSubstrings := []string{
		"configuration validation failed",
		"DISCORD_TOKEN",
		"TOKEN_SECRET",
		"STORE_BACKEND",
		"BACKUP_RETAIN",
		"INGEST_MAX_CONNS",
		"SESSION_TTL",
		"LOG_LEVEL",
		"DISCORD_CHANNEL_ANNOUNCE",
	}

	for _, substr := range expectedSubstrings {
		if !strings.Contains(errMsg, substr) {
			t.Errorf("Error message should contain %q, got: %s", substr, errMsg)
		}
	}
}
