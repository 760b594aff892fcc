package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"guild-progression/internal/adapters/discord"
	"guild-progression/internal/adapters/discord/commands"
	"guild-progression/internal/adapters/discord/formatting"
	"guild-progression/internal/adapters/ingest"
	"guild-progression/internal/adapters/leaderboard"
	"guild-progression/internal/adapters/presence"
	"guild-progression/internal/adapters/storage/backup"
	"guild-progression/internal/adapters/storage/postgres"
	"guild-progression/internal/adapters/storage/sqlite"
	"guild-progression/internal/adapters/storage/yamlfile"
	"guild-progression/internal/adapters/wallet"
	"guild-progression/internal/config"
	"guild-progression/internal/core/ports"
	"guild-progression/internal/core/services/auth"
	"guild-progression/internal/core/services/economy"
	"guild-progression/internal/core/services/ledger"
	"guild-progression/internal/core/services/progression"
	"guild-progression/internal/core/services/session"
	"guild-progression/internal/metrics"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	config             *config.Config
	store              ports.DocumentStore
	guild              *ledger.Ledger
	redis              *leaderboard.Redis
	discord            *discordgo.Session
	adapter            *discord.Adapter
	router             *commands.Router
	backups            *backup.Writer
	ingest             *ingest.Server
	metricsServer      *http.Server
	ingestCtx          context.Context
	ingestCancel       context.CancelFunc
	ingestDone         chan struct{}
	registeredCommands []*discordgo.ApplicationCommand
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open guild store", "backend", cfg.StoreBackend, "error", err)
		return nil, err
	}

	guild := ledger.New(store)
	if err := guild.Load(ctx); err != nil {
		slog.Error("Failed to load guild data", "backend", cfg.StoreBackend, "error", err)
		store.Close()
		return nil, err
	}

	dg, err := discord.NewSession(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	adapter := discord.NewAdapter(dg, cfg)

	currency := selectCurrency(ctx, cfg, guild)
	board, redisBoard := selectLeaderboard(ctx, cfg, guild)

	tokens := auth.NewTokenIssuer(cfg.TokenSecret)
	accounts := auth.NewService(guild, tokens)
	players := presence.NewRegistry()
	metrics.TrackOnlinePlayers(players.Count)

	kills := progression.NewService(progression.Dependencies{
		Ledger:      guild,
		Currency:    currency,
		Notifier:    adapter,
		Notices:     adapter,
		Presence:    players,
		Leaderboard: board,
		Logins:      accounts,
		Bounties: progression.Bounties{
			Monster: cfg.Economy.MonsterKillBounty,
			Player:  cfg.Economy.PlayerKillBounty,
		},
	})

	controller := session.New(session.Dependencies{
		Ledger:     guild,
		Treasurer:  economy.NewTreasurer(guild, currency, cfg.Economy.SquadCreationCost),
		Currency:   currency,
		Evaluator:  kills.Evaluator(),
		Accounts:   accounts,
		Display:    formatting.Mention,
		SessionTTL: cfg.SessionTTL,
	})

	backups := backup.NewWriter(cfg.BackupDir, cfg.BackupRetain)
	guildHandler := commands.NewGuildHandler(controller, adapter)

	players.OnOffline(accounts.Logout)
	players.OnOffline(guildHandler.Forget)

	router := commands.NewRouter()
	guildHandler.Routes(router)
	router.Register("guild-top", (&commands.LeaderboardHandler{Board: board}).Top)
	router.Register("guildadmin", commands.WithAdmin((&commands.AdminHandler{
		Store:   guild,
		Backups: backups,
		Tokens:  tokens,
	}).Handle))

	dg.AddHandler(commands.ReadyHandler)
	dg.AddHandler(func(_ *discordgo.Session, ready *discordgo.Ready) {
		for _, g := range ready.Guilds {
			adapter.AddGuild(g.ID)
		}
	})
	dg.AddHandler(func(_ *discordgo.Session, g *discordgo.GuildCreate) {
		adapter.AddGuild(g.ID)
	})
	dg.AddHandler(router.HandleFunc())

	ingestHandler, err := ingest.NewHandler(tokens, kills, players)
	if err != nil {
		store.Close()
		if redisBoard != nil {
			_ = redisBoard.Close()
		}
		return nil, fmt.Errorf("build ingest handler: %w", err)
	}

	return &App{
		config:  cfg,
		store:   store,
		guild:   guild,
		redis:   redisBoard,
		discord: dg,
		adapter: adapter,
		router:  router,
		backups: backups,
		ingest:  ingest.NewServer(cfg.IngestAddr, cfg.IngestMaxConns, ingestHandler.Routes()),
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (ports.DocumentStore, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		return postgres.NewPostgresStore(ctx, cfg.DatabaseURL)
	case config.BackendSQLite:
		return sqlite.Open(cfg.SQLitePath)
	case config.BackendYAML, "":
		return yamlfile.NewStore(cfg.DataFile)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// selectCurrency picks the wallet bridge when it is configured and healthy,
// and the ledger's own coins otherwise. The choice holds for the process lifetime.
func selectCurrency(ctx context.Context, cfg *config.Config, guild economy.CoinLedger) ports.Currency {
	if cfg.WalletURL == "" {
		return economy.NewLedgerCurrency(guild)
	}

	client := wallet.NewClient(cfg.WalletURL)
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Healthy(checkCtx); err != nil {
		slog.Warn("Wallet service unavailable, using ledger coins", "url", cfg.WalletURL, "error", err)
		return economy.NewLedgerCurrency(guild)
	}

	slog.Info("Using wallet service", "url", cfg.WalletURL)
	return client
}

// selectLeaderboard returns the Redis leaderboard when it connects, and the
// ledger ranking otherwise. The Redis handle is returned so it can be closed.
func selectLeaderboard(ctx context.Context, cfg *config.Config, ranking leaderboard.KillRanking) (ports.Leaderboard, *leaderboard.Redis) {
	if cfg.RedisURL == "" {
		return leaderboard.NewLedger(ranking), nil
	}

	board, err := leaderboard.Connect(ctx, cfg.RedisURL)
	if err != nil {
		slog.Warn("Redis leaderboard unavailable, ranking from ledger", "error", err)
		return leaderboard.NewLedger(ranking), nil
	}

	// The sorted set starts from the ledger's counters so both rankings agree.
	if err := board.Seed(ctx, ranking.TopKillers(0)); err != nil {
		slog.Warn("Failed to seed Redis leaderboard, ranking from ledger", "error", err)
		_ = board.Close()
		return leaderboard.NewLedger(ranking), nil
	}

	slog.Info("Using Redis leaderboard")
	return board, board
}

func (a *App) Run() error {
	a.startMetricsServer()

	if err := a.discord.Open(); err != nil {
		slog.Error("Failed to open discord session", "error", err)
		return err
	}

	userID := a.discord.State.User.ID
	cmds := commands.GetApplicationCommands()
	commands.CleanupCommands(a.discord, a.registeredCommands, userID, a.config.DiscordGuildID)
	a.registeredCommands = commands.RegisterCommands(a.discord, cmds, userID, a.config.DiscordGuildID)

	a.ingestCtx, a.ingestCancel = context.WithCancel(context.Background())
	a.ingestDone = make(chan struct{})
	go func() {
		defer close(a.ingestDone)
		if err := a.ingest.ListenAndServe(a.ingestCtx); err != nil {
			slog.Error("Ingest API stopped", "error", err)
		}
	}()

	slog.Info("Guild progression engine is online!")
	return nil
}

func (a *App) startMetricsServer() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	a.metricsServer = &http.Server{
		Addr:              a.config.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("Metrics server listening", "addr", a.config.MetricsAddr)
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "error", err)
		}
	}()
}

// Shutdown stops intake first, then flushes guild data and releases every
// backend. All steps run even when an earlier one fails.
func (a *App) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down...")

	var errs []error

	if a.ingestCancel != nil {
		a.ingestCancel()
	}
	// Kills accepted before the cancel must be in the ledger before it is saved.
	if a.ingestDone != nil {
		select {
		case <-a.ingestDone:
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("drain ingest: %w", ctx.Err()))
		}
	}

	if a.discord != nil {
		if err := a.discord.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close discord session: %w", err))
		}
	}

	if a.guild != nil {
		if err := a.guild.SaveAll(ctx); err != nil {
			errs = append(errs, err)
		} else if a.backups != nil && a.config.BackupOnShutdown {
			if _, err := a.backups.Write(a.guild.Snapshot()); err != nil {
				errs = append(errs, fmt.Errorf("write shutdown backup: %w", err))
			}
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}

	if a.store != nil {
		a.store.Close()
	}

	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
		}
	}

	return errors.Join(errs...)
}
