package session

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"guild-progression/internal/core/domain"
)

func (c *Controller) createSquad(ctx context.Context, id domain.PlayerID, text string, t *turn) {
	name := trimName(text)
	if err := domain.ValidateName(name); err != nil {
		t.say(MsgInvalidName)
		return
	}

	err := c.treasurer.CreateSquad(ctx, name, id)
	if errors.Is(err, domain.ErrInsufficientFunds) {
		balance, _ := c.currency.GetBalance(ctx, id)
		t.say(msgInsufficientCoins(c.treasurer.CreationCost(), balance))
		return
	}
	if err != nil {
		t.say(explain(err))
		return
	}

	t.say(msgSquadCreated(name, c.treasurer.CreationCost()))
	t.reply.Menu = c.squadMenu(id)
}

func (c *Controller) joinByName(ctx context.Context, id domain.PlayerID, text string, t *turn) {
	name := trimName(text)
	if err := domain.ValidateName(name); err != nil {
		t.say(MsgInvalidName)
		return
	}
	c.requestJoin(ctx, id, name, t)
}

func (c *Controller) rename(ctx context.Context, id domain.PlayerID, text string, t *turn) {
	newName := trimName(text)
	if err := domain.ValidateName(newName); err != nil {
		t.say(MsgInvalidName)
		return
	}

	name, ok := c.ledger.PlayerSquad(id)
	if !ok {
		t.say(MsgNotInSquad)
		return
	}
	if err := c.ledger.RenameSquad(ctx, name, newName, id); err != nil {
		t.say(explain(err))
		return
	}
	t.say(msgRenamed(newName))
}

func (c *Controller) deposit(ctx context.Context, id domain.PlayerID, text string, t *turn) {
	amount, ok := c.positiveAmount(text, t)
	if !ok {
		return
	}

	name, ok := c.ledger.PlayerSquad(id)
	if !ok {
		t.say(MsgNotInSquad)
		return
	}

	err := c.treasurer.Deposit(ctx, name, id, amount)
	if errors.Is(err, domain.ErrInsufficientFunds) {
		balance, _ := c.currency.GetBalance(ctx, id)
		t.say(msgInsufficientCoins(amount, balance))
		return
	}
	if err != nil {
		t.say(explain(err))
		return
	}
	t.say(msgDeposited(amount))
}

func (c *Controller) withdraw(ctx context.Context, id domain.PlayerID, text string, t *turn) {
	amount, ok := c.positiveAmount(text, t)
	if !ok {
		return
	}

	name, ok := c.ledger.PlayerSquad(id)
	if !ok {
		t.say(MsgNotInSquad)
		return
	}

	err := c.treasurer.Withdraw(ctx, name, id, amount)
	if errors.Is(err, domain.ErrInsufficientFunds) {
		t.say("Not enough coins in the squad treasury.")
		return
	}
	if err != nil {
		t.say(explain(err))
		return
	}
	t.say(msgWithdrawn(amount))
}

func (c *Controller) setJoinFee(ctx context.Context, id domain.PlayerID, text string, t *turn) {
	fee, ok := parseAmount(text)
	if !ok {
		t.say(MsgInvalidAmount)
		return
	}
	if fee < 0 {
		t.say(MsgFeeNegative)
		return
	}

	name, ok := c.ledger.PlayerSquad(id)
	if !ok {
		t.say(MsgNotInSquad)
		return
	}
	if err := c.ledger.SetJoinFee(ctx, name, id, fee); err != nil {
		t.say(explain(err))
		return
	}
	t.say(msgJoinFeeSet(fee))
}

func (c *Controller) chooseUsername(sc *Context, text string, t *turn) {
	username := trimName(text)
	if err := c.accounts.CheckUsername(username); err != nil {
		t.say(explain(err))
		return
	}

	t.say(msgUsernameSet(username))
	c.ask(sc, t, StateRegisterPassword, username, Prompt{Title: "Create account", Label: "Password (at least 4 characters)", Secret: true})
}

func (c *Controller) createAccount(ctx context.Context, id domain.PlayerID, username, password string, t *turn) {
	token, err := c.accounts.Register(ctx, id, username, password)
	if err != nil {
		t.say(explain(err))
		return
	}
	t.say(msgAccountCreated(username, token))
}

func (c *Controller) login(ctx context.Context, id domain.PlayerID, password string, t *turn) {
	token, err := c.accounts.Login(ctx, id, password)
	if err != nil {
		t.say(explain(err))
		return
	}
	t.say(msgLoggedIn(c.accounts.Username(id), token))
}

func (c *Controller) positiveAmount(text string, t *turn) (float64, bool) {
	amount, ok := parseAmount(text)
	if !ok {
		t.say(MsgInvalidAmount)
		return 0, false
	}
	if amount <= 0 {
		t.say(MsgAmountPositive)
		return 0, false
	}
	return amount, true
}

// parseAmount reads a decimal number; NaN and infinities are rejected.
func parseAmount(text string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func trimName(text string) string {
	return strings.TrimSpace(text)
}
