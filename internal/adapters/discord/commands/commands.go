package commands

import (
	"context"
	"log/slog"
	"time"

	"guild-progression/internal/adapters/discord/formatting"
	"guild-progression/internal/core/domain"
	"guild-progression/internal/core/ports"

	"github.com/bwmarrin/discordgo"
)

const (
	defaultTopLimit = 10
	ingestTokenDays = 30
	ingestAudience  = "ingest"
	ingestSubject   = "game-server"
	// rankNone is the choice value that clears a cached rank.
	rankNone = "none"
)

func ReadyHandler(session *discordgo.Session, ready *discordgo.Ready) {
	slog.Info("Guild progression bot is online!", "user", session.State.User.Username, "guilds", len(ready.Guilds))
}

type LeaderboardHandler struct {
	Board ports.Leaderboard
}

func (h *LeaderboardHandler) Top(s DiscordSession, i *discordgo.InteractionCreate) {
	limit := getIntOption(i.ApplicationCommandData().Options, "limit", defaultTopLimit)

	entries, err := h.Board.Top(context.Background(), limit)
	if err != nil {
		slog.Error("Failed to load leaderboard", "error", err)
		respond(s, i, formatting.MsgLeaderboardErr, true)
		return
	}

	respond(s, i, formatting.MsgLeaderboard(entries), false)
}

// AdminHandler serves /guildadmin. Every subcommand answers privately.
type AdminHandler struct {
	Store   GuildStore
	Backups BackupWriter
	Tokens  TokenIssuer
}

func (h *AdminHandler) Handle(s DiscordSession, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	switch sub := subcommand(i); sub {
	case "reload":
		if err := h.Store.Reload(ctx); err != nil {
			slog.Error("Failed to reload guild data", "error", err)
			respond(s, i, formatting.MsgReloadError, true)
			return
		}
		respond(s, i, formatting.MsgReloaded, true)

	case "save":
		if err := h.Store.SaveAll(ctx); err != nil {
			slog.Error("Failed to save guild data", "error", err)
			respond(s, i, formatting.MsgSaveError, true)
			return
		}
		respond(s, i, formatting.MsgSaved, true)

	case "backup":
		path, err := h.Backups.Write(h.Store.Snapshot())
		if err != nil {
			slog.Error("Failed to write backup", "error", err)
			respond(s, i, formatting.MsgBackupError, true)
			return
		}
		slog.Info("Backup written", "path", path, "by", interactionPlayer(i))
		respond(s, i, formatting.MsgBackupWritten(path), true)

	case "token":
		token, err := h.Tokens.Issue(ingestSubject, ingestAudience, ingestTokenDays*24*time.Hour)
		if err != nil {
			slog.Error("Failed to issue ingest token", "error", err)
			respond(s, i, formatting.MsgTokenError, true)
			return
		}
		slog.Info("Ingest token issued", "by", interactionPlayer(i))
		respond(s, i, formatting.MsgIngestToken(token, ingestTokenDays), true)

	case "setrank":
		h.setRank(ctx, s, i)

	default:
		slog.Warn("Unknown admin subcommand", "name", sub)
		respond(s, i, formatting.MsgUnknownAction, true)
	}
}

func (h *AdminHandler) setRank(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) {
	opts := subcommandOptions(i)
	player := domain.PlayerID(getStringOption(opts, "player"))

	code := getStringOption(opts, "rank")
	if code == rankNone {
		code = ""
	}
	rank, err := domain.ParseRank(code)
	if player == "" || err != nil {
		respond(s, i, formatting.MsgSetRankUsage, true)
		return
	}

	h.Store.SetRank(ctx, player, rank)
	slog.Info("Rank overwritten", "player", player, "rank", rank.String(), "by", interactionPlayer(i))
	respond(s, i, formatting.MsgRankSet(player, rank), true)
}
