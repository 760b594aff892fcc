package session

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"guild-progression/internal/core/domain"
)

const (
	MsgInvalidAmount   = "Enter a valid number."
	MsgAmountPositive  = "The amount must be greater than 0."
	MsgFeeNegative     = "The join fee cannot be negative."
	MsgInvalidName     = "Names must be between 3 and 16 characters."
	MsgNotRegistered   = "You are not registered with the guild."
	MsgAlreadyInSquad  = "You are already in a squad."
	MsgNotInSquad      = "You are not in a squad."
	MsgNotLeader       = "Only the squad leader can do that."
	MsgMustDisband     = "You lead this squad and cannot leave it. Disband it from the management menu instead."
	MsgNoSquads        = "There are no squads open for new members."
	MsgMaxTier         = "Your squad already has the highest tier."
	MsgMaxRank         = "You already hold the highest rank."
	MsgNoAccount       = "You have no account yet. Register first."
	MsgHasAccount      = "You already have an account."
	MsgAlreadyLoggedIn = "You are already logged in."
	MsgWrongPassword   = "Wrong password."
	MsgNoRequests      = "There are no pending join requests."
	MsgInternalError   = "Something went wrong. Try again later."
)

// Coins formats an amount with grouping and at most two decimals.
func Coins(amount float64) string {
	return message.NewPrinter(language.English).Sprint(number.Decimal(amount, number.MaxFractionDigits(2)))
}

// RankLabel renders a rank as "S (Hero)".
func RankLabel(r domain.Rank) string {
	if !r.Valid() {
		return "No rank"
	}
	return fmt.Sprintf("%s (%s)", r.String(), cases.Title(language.English).String(r.Title()))
}

func TierLabel(t domain.SquadTier) string {
	return fmt.Sprintf("%s (tier %d)", t.Name, t.Level)
}

func msgNotEnoughKills(kills uint64) string {
	return fmt.Sprintf("You need at least %d monster kills to register. You have %d.", domain.RankC.Threshold(), kills)
}

func msgRegistered(rank domain.Rank) string {
	if !rank.Valid() {
		return "You are now registered with the guild!"
	}
	return fmt.Sprintf("You are now registered with the guild! Your rank: %s", RankLabel(rank))
}

func msgPromoted(rank domain.Rank) string {
	return fmt.Sprintf("RANK UP! Your new rank: %s", RankLabel(rank))
}

func msgKillsToNext(next domain.Rank, kills uint64) string {
	var missing uint64
	if kills < next.Threshold() {
		missing = next.Threshold() - kills
	}
	return fmt.Sprintf("You need %d more kills to reach %s.", missing, RankLabel(next))
}

func msgInsufficientCoins(need, have float64) string {
	return fmt.Sprintf("Not enough coins. Required: %s, you have: %s.", Coins(need), Coins(have))
}

func msgSquadCreated(name string, cost float64) string {
	if cost <= 0 {
		return fmt.Sprintf("Squad %s created!", name)
	}
	return fmt.Sprintf("Squad %s created! %s coins were charged.", name, Coins(cost))
}

func msgRequestSent(name string) string {
	return fmt.Sprintf("Join request sent to %s. Wait for the leader to approve it.", name)
}

func msgNewRequest(from string) string {
	return fmt.Sprintf("New join request from %s.", from)
}

func msgLeft(name string) string {
	return fmt.Sprintf("You left squad %s.", name)
}

func msgMemberLeft(who, name string) string {
	return fmt.Sprintf("%s left squad %s.", who, name)
}

func msgDisbanded(name string) string {
	return fmt.Sprintf("Squad %s was disbanded.", name)
}

func msgDisbandedByLeader(name string) string {
	return fmt.Sprintf("Squad %s was disbanded by its leader.", name)
}

func msgRenamed(name string) string {
	return fmt.Sprintf("Squad renamed to %s.", name)
}

func msgDeposited(amount float64) string {
	return fmt.Sprintf("%s coins added to the treasury.", Coins(amount))
}

func msgWithdrawn(amount float64) string {
	return fmt.Sprintf("%s coins taken from the treasury.", Coins(amount))
}

func msgUpgraded(t domain.SquadTier) string {
	return fmt.Sprintf("SQUAD TIER RAISED! New tier: %s. Member limit: %d.", TierLabel(t), t.Capacity)
}

func msgUpgradeCost(cost, treasury float64) string {
	return fmt.Sprintf("Not enough coins in the treasury. Required: %s, treasury: %s.", Coins(cost), Coins(treasury))
}

func msgJoinFeeSet(fee float64) string {
	if fee == 0 {
		return "Joining is now free."
	}
	return fmt.Sprintf("Join fee set to %s coins.", Coins(fee))
}

func msgApproved(who string) string {
	return fmt.Sprintf("%s joined the squad.", who)
}

func msgAccepted(name string) string {
	return fmt.Sprintf("You were accepted into squad %s!", name)
}

func msgRequesterCannotPay(who string, fee float64) string {
	return fmt.Sprintf("%s cannot pay the %s coin join fee yet. The request stays pending.", who, Coins(fee))
}

func msgCannotPayFee(name string, fee float64) string {
	return fmt.Sprintf("Your request to join %s was approved, but you need %s coins to pay the join fee.", name, Coins(fee))
}

func msgRejected(who string) string {
	return fmt.Sprintf("Request from %s rejected.", who)
}

func msgRequestRejected(name string) string {
	return fmt.Sprintf("Your request to join squad %s was rejected.", name)
}

func msgBalance(amount float64) string {
	return fmt.Sprintf("Your balance: %s coins.", Coins(amount))
}

func msgUsernameSet(username string) string {
	return fmt.Sprintf("Username set to %s. Now choose a password.", username)
}

func msgAccountCreated(username, token string) string {
	return fmt.Sprintf("Registration successful! Welcome, %s.\nSession token: `%s`", username, token)
}

func msgLoggedIn(username, token string) string {
	return fmt.Sprintf("Login successful! Welcome back, %s.\nSession token: `%s`", username, token)
}

// explain turns a ledger or service error into text for the acting player.
// Errors outside the domain taxonomy are logged and reported generically.
func explain(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidName):
		return MsgInvalidName
	case errors.Is(err, domain.ErrInvalidAmount):
		return MsgAmountPositive
	case errors.Is(err, domain.ErrWeakPassword):
		return fmt.Sprintf("Passwords must be at least %d characters.", domain.MinPasswordLength)
	case errors.Is(err, domain.ErrNotLeader):
		return MsgNotLeader
	case errors.Is(err, domain.ErrMustDisbandInstead):
		return MsgMustDisband
	case errors.Is(err, domain.ErrNotRegistered):
		return MsgNotRegistered
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return "You are already registered."
	case errors.Is(err, domain.ErrNameTaken):
		return "A squad with that name already exists."
	case errors.Is(err, domain.ErrSquadNotFound):
		return "Squad not found."
	case errors.Is(err, domain.ErrSquadFull):
		return "The squad is full."
	case errors.Is(err, domain.ErrAlreadyInSquad):
		return MsgAlreadyInSquad
	case errors.Is(err, domain.ErrNotInSquad):
		return MsgNotInSquad
	case errors.Is(err, domain.ErrAlreadyMember):
		return "You are already a member of that squad."
	case errors.Is(err, domain.ErrDuplicateRequest):
		return "You already asked to join that squad."
	case errors.Is(err, domain.ErrRequestNotFound):
		return "That join request no longer exists."
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "Not enough coins."
	case errors.Is(err, domain.ErrMaxTier):
		return MsgMaxTier
	case errors.Is(err, domain.ErrMaxRank):
		return MsgMaxRank
	case errors.Is(err, domain.ErrAccountExists):
		return MsgHasAccount
	case errors.Is(err, domain.ErrUsernameTaken):
		return "That username is taken."
	case errors.Is(err, domain.ErrNoAccount):
		return MsgNoAccount
	case errors.Is(err, domain.ErrInvalidCredentials):
		return MsgWrongPassword
	}

	slog.Error("Failed to complete guild action", "error", err)
	return MsgInternalError
}
