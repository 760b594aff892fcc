package commands

import (
	"context"
	"time"

	"guild-progression/internal/core/domain"
	"guild-progression/internal/core/services/session"

	"github.com/bwmarrin/discordgo"
)

type DiscordSession interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

type CommandSession interface {
	ApplicationCommandCreate(appID, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

type Controller interface {
	MenuSelect(ctx context.Context, sc *session.Context, slot session.Slot) session.Reply
	TextInput(ctx context.Context, sc *session.Context, text string) session.Reply
	Active(sc *session.Context) bool
}

type NoticeSender interface {
	SendNotice(ctx context.Context, to domain.PlayerID, text string) error
}

type GuildStore interface {
	Reload(ctx context.Context) error
	SaveAll(ctx context.Context) error
	Snapshot() *domain.Document
	SetRank(ctx context.Context, id domain.PlayerID, rank domain.Rank)
}

type BackupWriter interface {
	Write(doc *domain.Document) (string, error)
}

type TokenIssuer interface {
	Issue(subject, audience string, ttl time.Duration) (string, error)
}
