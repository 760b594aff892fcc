package discord

import (
	"errors"
	"fmt"

	"guild-progression/internal/config"

	"github.com/bwmarrin/discordgo"
)

// Interactions arrive without any intent. Guild events tell the adapter
// which servers get promotion announcements; DMs are only ever sent.
const botIntents = discordgo.IntentsGuilds

// NewSession builds an unopened bot session.
func NewSession(cfg *config.Config) (*discordgo.Session, error) {
	if cfg.Token == "" {
		return nil, errors.New("discord token is not set")
	}

	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = botIntents
	return s, nil
}
