package commands

import (
	"context"
	"strings"
	"testing"
	"time"

	"guild-progression/internal/core/domain"
	"guild-progression/internal/core/services/session"

	"github.com/bwmarrin/discordgo"
)

type mockDiscordSession struct {
	interactionRespondFunc func(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse) error

	responses               []*discordgo.InteractionResponse
	lastInteractionResponse *discordgo.InteractionResponse
}

func (m *mockDiscordSession) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, opts ...discordgo.RequestOption) error {
	m.lastInteractionResponse = resp
	m.responses = append(m.responses, resp)
	if m.interactionRespondFunc != nil {
		return m.interactionRespondFunc(interaction, resp)
	}
	return nil
}

type mockController struct {
	menuSelectFunc func(sc *session.Context, slot session.Slot) session.Reply
	textInputFunc  func(sc *session.Context, text string) session.Reply
	activeFunc     func(sc *session.Context) bool
}

func (m *mockController) MenuSelect(ctx context.Context, sc *session.Context, slot session.Slot) session.Reply {
	if m.menuSelectFunc != nil {
		return m.menuSelectFunc(sc, slot)
	}
	return session.Reply{}
}

func (m *mockController) TextInput(ctx context.Context, sc *session.Context, text string) session.Reply {
	if m.textInputFunc != nil {
		return m.textInputFunc(sc, text)
	}
	return session.Reply{}
}

func (m *mockController) Active(sc *session.Context) bool {
	if m.activeFunc != nil {
		return m.activeFunc(sc)
	}
	return true
}

type sentNotice struct {
	to   domain.PlayerID
	text string
}

type mockNotices struct {
	sendNoticeFunc func(to domain.PlayerID, text string) error
	sent           []sentNotice
}

func (m *mockNotices) SendNotice(ctx context.Context, to domain.PlayerID, text string) error {
	m.sent = append(m.sent, sentNotice{to: to, text: text})
	if m.sendNoticeFunc != nil {
		return m.sendNoticeFunc(to, text)
	}
	return nil
}

type mockLeaderboard struct {
	topFunc func(limit int) ([]domain.LeaderboardEntry, error)
}

func (m *mockLeaderboard) IncrementKills(ctx context.Context, player domain.PlayerID, delta uint64) error {
	return nil
}

func (m *mockLeaderboard) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if m.topFunc != nil {
		return m.topFunc(limit)
	}
	return nil, nil
}

type mockGuildStore struct {
	reloadFunc  func() error
	saveAllFunc func() error
	setRankFunc func(id domain.PlayerID, rank domain.Rank)
}

func (m *mockGuildStore) Reload(ctx context.Context) error {
	if m.reloadFunc != nil {
		return m.reloadFunc()
	}
	return nil
}

func (m *mockGuildStore) SaveAll(ctx context.Context) error {
	if m.saveAllFunc != nil {
		return m.saveAllFunc()
	}
	return nil
}

func (m *mockGuildStore) Snapshot() *domain.Document {
	return domain.NewDocument()
}

func (m *mockGuildStore) SetRank(ctx context.Context, id domain.PlayerID, rank domain.Rank) {
	if m.setRankFunc != nil {
		m.setRankFunc(id, rank)
	}
}

type mockBackups struct {
	writeFunc func(doc *domain.Document) (string, error)
}

func (m *mockBackups) Write(doc *domain.Document) (string, error) {
	if m.writeFunc != nil {
		return m.writeFunc(doc)
	}
	return "data/backups/guild-1.yaml.zst", nil
}

type mockTokens struct {
	issueFunc func(subject, audience string, ttl time.Duration) (string, error)
}

func (m *mockTokens) Issue(subject, audience string, ttl time.Duration) (string, error) {
	if m.issueFunc != nil {
		return m.issueFunc(subject, audience, ttl)
	}
	return "signed-token", nil
}

func member(userID string) *discordgo.Member {
	return &discordgo.Member{User: &discordgo.User{ID: userID}}
}

func makeInteraction(name string, iType discordgo.InteractionType) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: iType,
			Data: discordgo.ApplicationCommandInteractionData{Name: name},
		},
	}
}

func commandInteraction(name, userID string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:    discordgo.InteractionApplicationCommand,
			GuildID: "guild-1",
			Member:  member(userID),
			Data:    discordgo.ApplicationCommandInteractionData{Name: name, Options: opts},
		},
	}
}

func componentInteraction(customID, userID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:   discordgo.InteractionMessageComponent,
			Member: member(userID),
			Data:   discordgo.MessageComponentInteractionData{CustomID: customID},
		},
	}
}

func modalInteraction(userID, value string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:   discordgo.InteractionModalSubmit,
			Member: member(userID),
			Data: discordgo.ModalSubmitInteractionData{
				CustomID: promptModalID,
				Components: []discordgo.MessageComponent{
					&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
						&discordgo.TextInput{CustomID: answerFieldID, Value: value},
					}},
				},
			},
		},
	}
}

func subcommandInteraction(command, sub string, perms int64) *discordgo.InteractionCreate {
	i := commandInteraction(command, "admin-1", &discordgo.ApplicationCommandInteractionDataOption{
		Name: sub,
		Type: discordgo.ApplicationCommandOptionSubCommand,
	})
	i.Member.Permissions = perms
	return i
}

func assertEqual[T comparable](t *testing.T, name string, expected, actual T) {
	t.Helper()
	if expected != actual {
		t.Errorf("%s: expected %v, got %v", name, expected, actual)
	}
}

func assertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("expected %q to contain %q", s, substr)
	}
}
