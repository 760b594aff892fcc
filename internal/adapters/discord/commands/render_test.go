package commands

import (
	"fmt"
	"testing"

	"guild-progression/internal/core/services/session"

	"github.com/bwmarrin/discordgo"
)

func TestRows(t *testing.T) {
	tests := []struct {
		buttons  int
		wantRows int
		wantLast int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{5, 1, 5},
		{6, 2, 1},
		{25, 5, 5},
		{31, 5, 5},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d buttons", tt.buttons), func(t *testing.T) {
			buttons := make([]discordgo.MessageComponent, tt.buttons)
			for i := range buttons {
				buttons[i] = discordgo.Button{CustomID: fmt.Sprint(i)}
			}

			got := rows(buttons)
			assertEqual(t, "rows", tt.wantRows, len(got))
			if tt.wantRows > 0 {
				last := got[len(got)-1].(discordgo.ActionsRow)
				assertEqual(t, "last row", tt.wantLast, len(last.Components))
			}
		})
	}
}

func TestRenderMessage_Empty(t *testing.T) {
	data := renderMessage(session.Reply{})
	assertEqual(t, "content", "Nothing to do.", data.Content)
}

func TestRenderMessage_TextAndMenu(t *testing.T) {
	data := renderMessage(session.Reply{
		Text: "Deposited 50 coins.",
		Menu: &session.Menu{Title: "Manage Foo", Options: []session.Option{{Slot: session.Slot{Action: session.ActionApprove, Arg: "42"}, Label: "Accept 1"}}},
	})

	assertEqual(t, "content", "Deposited 50 coins.\n\n**Manage Foo**", data.Content)
	row := data.Components[0].(discordgo.ActionsRow)
	assertEqual(t, "custom id", "guild:approve:42", row.Components[0].(discordgo.Button).CustomID)
}

func TestPromptModal_Secret(t *testing.T) {
	resp := promptModal(session.Prompt{Title: "Log in", Label: "Password", Secret: true})

	input := resp.Data.Components[0].(discordgo.ActionsRow).Components[0].(discordgo.TextInput)
	if input.Placeholder == "" {
		t.Error("secret prompts should carry a privacy hint")
	}
	assertEqual(t, "style", discordgo.TextInputShort, input.Style)
}

func TestTruncate(t *testing.T) {
	assertEqual(t, "short", "abc", truncate("abc", 5))
	assertEqual(t, "exact", "abcde", truncate("abcde", 5))
	assertEqual(t, "long", "abcd…", truncate("abcdefgh", 5))
}

func TestModalValue_AcceptsValues(t *testing.T) {
	data := discordgo.ModalSubmitInteractionData{
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{CustomID: "other", Value: "x"},
				discordgo.TextInput{CustomID: answerFieldID, Value: "42"},
			}},
		},
	}

	assertEqual(t, "value", "42", modalValue(data, answerFieldID))
	assertEqual(t, "missing", "", modalValue(data, "nope"))
}

func TestInteractionPlayer(t *testing.T) {
	inGuild := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Member: member("m1")}}
	inDM := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{User: &discordgo.User{ID: "u1"}}}
	nobody := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}

	assertEqual(t, "guild", "m1", string(interactionPlayer(inGuild)))
	assertEqual(t, "dm", "u1", string(interactionPlayer(inDM)))
	assertEqual(t, "none", "", string(interactionPlayer(nobody)))
}
