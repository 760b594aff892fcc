package commands

import (
	"strings"

	"guild-progression/internal/adapters/discord/formatting"
	"guild-progression/internal/core/services/session"

	"github.com/bwmarrin/discordgo"
)

const (
	componentPrefix = "guild"
	continueID      = "guild-continue"
	promptModalID   = "guild-prompt"
	answerFieldID   = "answer"

	buttonsPerRow = 5
	maxRows       = 5
	maxLabelLen   = 80
)

func slotCustomID(slot session.Slot) string {
	return componentPrefix + ":" + slot.String()
}

// renderMessage turns a reply without a prompt, or a prompt that cannot be
// shown as a modal, into message content and buttons.
func renderMessage(reply session.Reply) *discordgo.InteractionResponseData {
	var parts []string
	if reply.Text != "" {
		parts = append(parts, reply.Text)
	}

	var buttons []discordgo.MessageComponent
	switch {
	case reply.Menu != nil:
		parts = append(parts, menuText(reply.Menu))
		buttons = menuButtons(reply.Menu)
	case reply.Prompt != nil:
		parts = append(parts, "Next: "+reply.Prompt.Label)
		buttons = []discordgo.MessageComponent{discordgo.Button{
			Label:    formatting.MsgContinueLabel,
			Style:    discordgo.PrimaryButton,
			CustomID: continueID,
		}}
	default:
		buttons = []discordgo.MessageComponent{discordgo.Button{
			Label:    "Main menu",
			Style:    discordgo.SecondaryButton,
			CustomID: slotCustomID(session.Slot{Action: session.ActionMain}),
		}}
	}

	content := strings.Join(parts, "\n\n")
	if content == "" {
		content = formatting.MsgNothingToDo
	}

	return &discordgo.InteractionResponseData{
		Content:    content,
		Components: rows(buttons),
		Flags:      discordgo.MessageFlagsEphemeral,
	}
}

func menuText(menu *session.Menu) string {
	var b strings.Builder
	b.WriteString("**" + menu.Title + "**")
	for _, line := range menu.Lines {
		b.WriteString("\n" + line)
	}
	return b.String()
}

func menuButtons(menu *session.Menu) []discordgo.MessageComponent {
	buttons := make([]discordgo.MessageComponent, 0, len(menu.Options))
	for _, opt := range menu.Options {
		style := discordgo.SecondaryButton
		if opt.Danger {
			style = discordgo.DangerButton
		}
		buttons = append(buttons, discordgo.Button{
			Label:    truncate(opt.Label, maxLabelLen),
			Style:    style,
			CustomID: slotCustomID(opt.Slot),
		})
	}
	return buttons
}

// rows packs buttons into action rows, dropping what does not fit.
func rows(buttons []discordgo.MessageComponent) []discordgo.MessageComponent {
	out := []discordgo.MessageComponent{}
	for start := 0; start < len(buttons) && len(out) < maxRows; start += buttonsPerRow {
		end := min(start+buttonsPerRow, len(buttons))
		out = append(out, discordgo.ActionsRow{Components: buttons[start:end]})
	}
	return out
}

func promptModal(prompt session.Prompt) *discordgo.InteractionResponse {
	input := discordgo.TextInput{
		CustomID:  answerFieldID,
		Label:     truncate(prompt.Label, 45),
		Style:     discordgo.TextInputShort,
		Required:  true,
		MaxLength: 64,
	}
	if prompt.Secret {
		input.Placeholder = "Only you can see this form"
	}

	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: promptModalID,
			Title:    truncate(prompt.Title, 45),
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{input}},
			},
		},
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
