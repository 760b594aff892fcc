package commands

import (
	"testing"

	"guild-progression/internal/adapters/discord/formatting"

	"github.com/bwmarrin/discordgo"
)

func TestWithAdmin(t *testing.T) {
	tests := []struct {
		name    string
		member  *discordgo.Member
		allowed bool
	}{
		{"administrator", &discordgo.Member{Permissions: discordgo.PermissionAdministrator}, true},
		{"admin with others", &discordgo.Member{Permissions: discordgo.PermissionAdministrator | discordgo.PermissionManageMessages}, true},
		{"no permissions", &discordgo.Member{}, false},
		{"manage server only", &discordgo.Member{Permissions: discordgo.PermissionManageServer}, false},
		{"direct message", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &mockDiscordSession{}
			called := false

			handler := WithAdmin(func(s DiscordSession, i *discordgo.InteractionCreate) {
				called = true
			})
			handler(session, &discordgo.InteractionCreate{
				Interaction: &discordgo.Interaction{Type: discordgo.InteractionApplicationCommand, Member: tt.member},
			})

			assertEqual(t, "called", tt.allowed, called)
			if tt.allowed {
				if session.lastInteractionResponse != nil {
					t.Error("no error response should be sent for admin user")
				}
				return
			}
			if session.lastInteractionResponse == nil {
				t.Fatal("expected error response to be sent")
			}
			assertEqual(t, "content", formatting.MsgAdminRequired, session.lastInteractionResponse.Data.Content)
			assertEqual(t, "flags", discordgo.MessageFlagsEphemeral, session.lastInteractionResponse.Data.Flags)
		})
	}
}

func TestMiddleware_TypeSignature(t *testing.T) {
	var _ Middleware = WithAdmin
}
