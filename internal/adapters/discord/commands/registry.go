package commands

import (
	"log/slog"

	"guild-progression/internal/core/domain"

	"github.com/bwmarrin/discordgo"
)

var (
	adminPerms = int64(discordgo.PermissionAdministrator)
	minTop     = 1.0
)

func GetApplicationCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "guild",
			Description: "Open the guild menu",
		},
		{
			Name:        "squad",
			Description: "Open the squad menu",
		},
		{
			Name:        "guild-top",
			Description: "Show the players with the most monster kills",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "limit",
					Description: "How many players to show",
					MinValue:    &minTop,
					MaxValue:    25,
				},
			},
		},
		{
			Name:                     "guildadmin",
			Description:              "Guild data administration",
			DefaultMemberPermissions: &adminPerms,
			Options: []*discordgo.ApplicationCommandOption{
				subcommandOption("reload", "Reload guild data from storage"),
				subcommandOption("save", "Save guild data now"),
				subcommandOption("backup", "Write a compressed backup"),
				subcommandOption("token", "Issue a token for the game server"),
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "setrank",
					Description: "Overwrite a player's cached rank",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "player",
							Description: "Player to update",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "rank",
							Description: "Rank to set",
							Required:    true,
							Choices:     rankChoices(),
						},
					},
				},
			},
		},
	}
}

func subcommandOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
	}
}

func rankChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := []*discordgo.ApplicationCommandOptionChoice{{Name: "none", Value: rankNone}}
	for _, r := range domain.Ranks() {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: r.String(), Value: r.String()})
	}
	return choices
}

func RegisterCommands(session CommandSession, commands []*discordgo.ApplicationCommand, userID, guildID string) []*discordgo.ApplicationCommand {
	registered := make([]*discordgo.ApplicationCommand, len(commands))

	for i, cmd := range commands {
		result, err := session.ApplicationCommandCreate(userID, guildID, cmd)
		if err != nil {
			slog.Error("Cannot create command", "name", cmd.Name, "error", err)
			continue
		}
		registered[i] = result
		slog.Info("Registered command", "name", cmd.Name, "guild", guildID)
	}

	return registered
}

func CleanupCommands(session CommandSession, commands []*discordgo.ApplicationCommand, userID, guildID string) {
	for _, cmd := range commands {
		if cmd == nil {
			continue
		}
		if err := session.ApplicationCommandDelete(userID, guildID, cmd.ID); err != nil {
			slog.Error("Cannot delete command", "name", cmd.Name, "error", err)
		}
	}
}
