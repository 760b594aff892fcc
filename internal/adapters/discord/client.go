package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"guild-progression/internal/adapters/discord/formatting"
	"guild-progression/internal/config"
	"guild-progression/internal/core/domain"
	"guild-progression/internal/metrics"

	"github.com/bwmarrin/discordgo"
)

type DiscordSession interface {
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// Adapter posts promotions to the announce channel of every known server and
// delivers notices as direct messages.
type Adapter struct {
	session  DiscordSession
	config   *config.Config
	announce channelIDs
	dms      channelIDs

	mu     sync.RWMutex
	guilds []string
}

func NewAdapter(session DiscordSession, cfg *config.Config) *Adapter {
	a := &Adapter{
		session: session,
		config:  cfg,
	}
	if cfg.DiscordGuildID != "" {
		a.guilds = []string{cfg.DiscordGuildID}
	}
	return a
}

// AddGuild registers a server for announcements. Ignored when a fixed guild
// is configured.
func (a *Adapter) AddGuild(guildID string) {
	if a.config.DiscordGuildID != "" {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !slices.Contains(a.guilds, guildID) {
		a.guilds = append(a.guilds, guildID)
	}
}

func (a *Adapter) Guilds() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.guilds)
}

// NotifyPromotion posts to every server; one failing server does not stop
// the others.
func (a *Adapter) NotifyPromotion(_ context.Context, promo domain.Promotion) error {
	content := formatting.MsgPromotion(promo)

	var errs []error
	for _, guildID := range a.Guilds() {
		if err := a.deliver("announce", &a.announce, guildID, a.announceChannel, content); err != nil {
			slog.Error("Failed to announce promotion", "guild_id", guildID, "player", promo.Player, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SendNotice sends a direct message to a player.
func (a *Adapter) SendNotice(_ context.Context, to domain.PlayerID, text string) error {
	if err := a.deliver("dm", &a.dms, string(to), a.dmChannel, text); err != nil {
		slog.Error("Failed to send direct message", "player", to, "error", err)
		return err
	}
	return nil
}

// deliver sends content to the channel owned by owner. A failed send evicts
// the cached channel.
func (a *Adapter) deliver(kind string, cache *channelIDs, owner string, open func(string) (string, error), content string) error {
	channelID, err := cache.lookup(owner, open)
	if err == nil {
		if _, err = a.session.ChannelMessageSend(channelID, content); err != nil {
			cache.forget(owner)
		}
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.DiscordMessagesSent.WithLabelValues(kind, status).Inc()
	return err
}

func (a *Adapter) announceChannel(guildID string) (string, error) {
	channels, err := a.session.GuildChannels(guildID)
	if err != nil {
		return "", fmt.Errorf("list channels of %s: %w", guildID, err)
	}

	name := a.config.DiscordChannelAnnounce
	for _, ch := range channels {
		if ch.Name == name && ch.Type == discordgo.ChannelTypeGuildText {
			return ch.ID, nil
		}
	}
	return "", fmt.Errorf("channel %s not found in %s", name, guildID)
}

func (a *Adapter) dmChannel(userID string) (string, error) {
	ch, err := a.session.UserChannelCreate(userID)
	if err != nil {
		return "", fmt.Errorf("open dm channel: %w", err)
	}
	return ch.ID, nil
}
