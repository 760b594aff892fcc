package formatting

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"guild-progression/internal/core/domain"
)

const (
	MsgAdminRequired   = "You need Administrator permissions to use this command."
	MsgNotInGuild      = "This command only works inside a server."
	MsgPromptExpired   = "That prompt is no longer active. Open the menu again."
	MsgContinueLabel   = "Continue"
	MsgNothingToDo     = "Nothing to do."
	MsgLeaderboardErr  = "Failed to load the leaderboard."
	MsgLeaderboardNone = "No kills recorded yet."
	MsgReloaded        = "Guild data reloaded from storage."
	MsgReloadError     = "Failed to reload guild data."
	MsgSaved           = "Guild data saved."
	MsgSaveError       = "Failed to save guild data."
	MsgBackupError     = "Failed to write backup."
	MsgTokenError      = "Failed to issue token."
	MsgUnknownAction   = "Unknown admin action."
	MsgSetRankUsage    = "Pick a player and a rank."
)

// Mention renders a player as a Discord user mention. Player IDs are Discord
// user IDs.
func Mention(id domain.PlayerID) string {
	return "<@" + string(id) + ">"
}

// title builds its caser per call; a cases.Caser is not safe for concurrent use.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

func rankName(r domain.Rank) string {
	if !r.Valid() {
		return "Unranked"
	}
	return fmt.Sprintf("%s (%s)", r.String(), title(r.Title()))
}

// MsgPromotion is the announce-channel line for a promotion. S and above are
// highlighted; SS also gets a celebration line.
func MsgPromotion(p domain.Promotion) string {
	line := fmt.Sprintf("%s advanced from %s to %s", Mention(p.Player), rankName(p.OldRank), rankName(p.NewRank))
	if !p.NewRank.Announced() {
		return line
	}

	msg := fmt.Sprintf("**%s!**", line)
	if p.NewRank.Celebrated() {
		msg += fmt.Sprintf("\n🎆 %s is now an %s! 🎆", Mention(p.Player), title(p.NewRank.Title()))
	}
	return msg
}

func MsgLeaderboard(entries []domain.LeaderboardEntry) string {
	if len(entries) == 0 {
		return MsgLeaderboardNone
	}

	printer := message.NewPrinter(language.English)
	var b strings.Builder
	b.WriteString("**Top monster hunters**\n")
	for _, e := range entries {
		b.WriteString(printer.Sprintf("%d. %s - %d kills\n", e.Place, Mention(e.Player), e.Kills))
	}
	return b.String()
}

func MsgBackupWritten(path string) string {
	return fmt.Sprintf("Backup written to `%s`.", path)
}

func MsgIngestToken(token string, days int) string {
	return fmt.Sprintf("Ingest token (valid for %d days):\n```%s```", days, token)
}

func MsgRankSet(id domain.PlayerID, r domain.Rank) string {
	return fmt.Sprintf("%s now holds %s.", Mention(id), rankName(r))
}
