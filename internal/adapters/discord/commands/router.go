package commands

import (
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
)

type CommandHandler func(s DiscordSession, i *discordgo.InteractionCreate)

// Router dispatches slash commands by name, and buttons and modal submits by
// the part of their custom ID before the first colon.
type Router struct {
	routes     map[string]CommandHandler
	components map[string]CommandHandler
}

func NewRouter() *Router {
	slog.Info("Router initialized")
	return &Router{
		routes:     make(map[string]CommandHandler),
		components: make(map[string]CommandHandler),
	}
}

func (r *Router) Register(name string, handler CommandHandler) {
	r.routes[name] = handler
}

func (r *Router) RegisterComponent(prefix string, handler CommandHandler) {
	r.components[prefix] = handler
}

func (r *Router) Handle(s DiscordSession, i *discordgo.InteractionCreate) {
	switch {
	case isCommandInteraction(i.Type):
		name := i.ApplicationCommandData().Name
		slog.Info("Router received interaction", "type", i.Type, "name", name)
		r.dispatch(r.routes, name, s, i)
	case i.Type == discordgo.InteractionMessageComponent:
		r.dispatchComponent(i.MessageComponentData().CustomID, s, i)
	case i.Type == discordgo.InteractionModalSubmit:
		r.dispatchComponent(i.ModalSubmitData().CustomID, s, i)
	}
}

func (r *Router) HandleFunc() func(*discordgo.Session, *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		r.Handle(s, i)
	}
}

func (r *Router) dispatchComponent(customID string, s DiscordSession, i *discordgo.InteractionCreate) {
	prefix, _, _ := strings.Cut(customID, ":")
	slog.Debug("Router received component", "type", i.Type, "custom_id", customID)
	r.dispatch(r.components, prefix, s, i)
}

func (r *Router) dispatch(table map[string]CommandHandler, key string, s DiscordSession, i *discordgo.InteractionCreate) {
	handler, ok := table[key]
	if !ok {
		slog.Warn("No handler found for interaction", "key", key, "type", i.Type)
		return
	}

	handler(s, i)
}

func isCommandInteraction(t discordgo.InteractionType) bool {
	return t == discordgo.InteractionApplicationCommand ||
		t == discordgo.InteractionApplicationCommandAutocomplete
}
