package commands

import (
	"log/slog"

	"guild-progression/internal/core/domain"

	"github.com/bwmarrin/discordgo"
)

func respond(s DiscordSession, i *discordgo.InteractionCreate, msg string, ephemeral bool) {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}

	send(s, i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   flags,
		},
	})
}

func send(s DiscordSession, i *discordgo.InteractionCreate, resp *discordgo.InteractionResponse) {
	if err := s.InteractionRespond(i.Interaction, resp); err != nil {
		slog.Error("Failed to respond to interaction", "type", resp.Type, "error", err)
	}
}

// interactionPlayer is the acting user; Member is set in servers, User in DMs.
func interactionPlayer(i *discordgo.InteractionCreate) domain.PlayerID {
	if i.Member != nil && i.Member.User != nil {
		return domain.PlayerID(i.Member.User.ID)
	}
	if i.User != nil {
		return domain.PlayerID(i.User.ID)
	}
	return ""
}

func getIntOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string, fallback int) int {
	for _, opt := range opts {
		if opt.Name == name {
			return int(opt.IntValue())
		}
	}
	return fallback
}

func getStringOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range opts {
		if opt.Name == name {
			if v, ok := opt.Value.(string); ok {
				return v
			}
		}
	}
	return ""
}

// subcommandOptions returns the options nested under the chosen subcommand.
func subcommandOptions(i *discordgo.InteractionCreate) []*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options
	if len(opts) == 0 {
		return nil
	}
	return opts[0].Options
}

// subcommand returns the chosen subcommand name.
func subcommand(i *discordgo.InteractionCreate) string {
	opts := i.ApplicationCommandData().Options
	if len(opts) == 0 {
		return ""
	}
	return opts[0].Name
}

// modalValue finds a text input by custom ID in a modal submission. Components
// arrive as pointers from the gateway.
func modalValue(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, c := range data.Components {
		var row []discordgo.MessageComponent
		switch r := c.(type) {
		case *discordgo.ActionsRow:
			row = r.Components
		case discordgo.ActionsRow:
			row = r.Components
		}

		for _, inner := range row {
			switch in := inner.(type) {
			case *discordgo.TextInput:
				if in.CustomID == customID {
					return in.Value
				}
			case discordgo.TextInput:
				if in.CustomID == customID {
					return in.Value
				}
			}
		}
	}
	return ""
}
