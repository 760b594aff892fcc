package commands

import (
	"context"
	"log/slog"
	"strings"

	"guild-progression/internal/adapters/discord/formatting"
	"guild-progression/internal/core/domain"
	"guild-progression/internal/core/services/session"

	"github.com/bwmarrin/discordgo"
)

// GuildHandler bridges Discord interactions to the session controller:
// buttons become menu selections and modal fields become text input.
type GuildHandler struct {
	controller Controller
	notices    NoticeSender
	sessions   *playerSessions
}

func NewGuildHandler(controller Controller, notices NoticeSender) *GuildHandler {
	return &GuildHandler{
		controller: controller,
		notices:    notices,
		sessions:   newPlayerSessions(),
	}
}

// OpenGuild answers /guild with the main menu.
func (h *GuildHandler) OpenGuild(s DiscordSession, i *discordgo.InteractionCreate) {
	h.open(s, i, session.Slot{Action: session.ActionMain})
}

// OpenSquad answers /squad with the squad menu.
func (h *GuildHandler) OpenSquad(s DiscordSession, i *discordgo.InteractionCreate) {
	h.open(s, i, session.Slot{Action: session.ActionSquad})
}

func (h *GuildHandler) open(s DiscordSession, i *discordgo.InteractionCreate, slot session.Slot) {
	id := interactionPlayer(i)
	reply := h.controller.MenuSelect(context.Background(), h.sessions.Get(id), slot)
	h.deliver(s, i, id, reply, discordgo.InteractionResponseChannelMessageWithSource)
}

// Select handles a menu button.
func (h *GuildHandler) Select(s DiscordSession, i *discordgo.InteractionCreate) {
	_, raw, _ := strings.Cut(i.MessageComponentData().CustomID, ":")
	slot, ok := session.ParseSlot(raw)
	if !ok {
		slog.Warn("Ignoring unknown menu slot", "slot", raw)
		respond(s, i, formatting.MsgPromptExpired, true)
		return
	}

	id := interactionPlayer(i)
	reply := h.controller.MenuSelect(context.Background(), h.sessions.Get(id), slot)
	h.deliver(s, i, id, reply, discordgo.InteractionResponseUpdateMessage)
}

// Continue opens the modal for a prompt that followed a modal submit. It does
// not go through MenuSelect, which would drop the pending session.
func (h *GuildHandler) Continue(s DiscordSession, i *discordgo.InteractionCreate) {
	id := interactionPlayer(i)
	prompt, ok := h.sessions.Prompt(id)
	if !ok || !h.controller.Active(h.sessions.Get(id)) {
		h.sessions.SetPrompt(id, nil)
		respond(s, i, formatting.MsgPromptExpired, true)
		return
	}

	send(s, i, promptModal(prompt))
}

// Submit feeds a modal answer to the pending session.
func (h *GuildHandler) Submit(s DiscordSession, i *discordgo.InteractionCreate) {
	id := interactionPlayer(i)
	text := modalValue(i.ModalSubmitData(), answerFieldID)

	reply := h.controller.TextInput(context.Background(), h.sessions.Get(id), text)
	if reply.Empty() {
		h.sessions.SetPrompt(id, nil)
		respond(s, i, formatting.MsgPromptExpired, true)
		return
	}

	h.deliver(s, i, id, reply, discordgo.InteractionResponseChannelMessageWithSource)
}

// Routes registers the menu commands and the components their replies render.
func (h *GuildHandler) Routes(r *Router) {
	r.Register("guild", h.OpenGuild)
	r.Register("squad", h.OpenSquad)
	r.RegisterComponent(componentPrefix, h.Select)
	r.RegisterComponent(continueID, h.Continue)
	r.RegisterComponent(promptModalID, h.Submit)
}

// Forget drops the player's session state.
func (h *GuildHandler) Forget(id domain.PlayerID) {
	h.sessions.Forget(id)
}

// deliver answers the interaction, then sends notices. A prompt becomes a
// modal unless the interaction is itself a modal submit, where Discord only
// allows a message.
func (h *GuildHandler) deliver(s DiscordSession, i *discordgo.InteractionCreate, id domain.PlayerID, reply session.Reply, typ discordgo.InteractionResponseType) {
	h.sessions.SetPrompt(id, reply.Prompt)

	if reply.Prompt != nil && i.Type != discordgo.InteractionModalSubmit && reply.Text == "" {
		send(s, i, promptModal(*reply.Prompt))
	} else {
		data := renderMessage(reply)
		if typ == discordgo.InteractionResponseUpdateMessage {
			data.Flags = 0
		}
		send(s, i, &discordgo.InteractionResponse{Type: typ, Data: data})
	}

	h.sendNotices(reply.Notices)
}

func (h *GuildHandler) sendNotices(notices []session.Notice) {
	if h.notices == nil {
		return
	}
	for _, n := range notices {
		if err := h.notices.SendNotice(context.Background(), n.To, n.Text); err != nil {
			slog.Error("Failed to deliver notice", "player", n.To, "error", err)
		}
	}
}
