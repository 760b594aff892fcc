package session

import (
	"context"
	"errors"

	"guild-progression/internal/core/domain"
)

func (c *Controller) register(ctx context.Context, id domain.PlayerID, t *turn) {
	if c.ledger.IsRegistered(id) {
		t.say(explain(domain.ErrAlreadyRegistered))
		return
	}

	kills := c.ledger.MonsterKills(id)
	if kills < domain.RankC.Threshold() {
		t.say(msgNotEnoughKills(kills))
		return
	}

	previous, err := c.ledger.RegisterPlayer(ctx, id)
	if err != nil {
		t.say(explain(err))
		return
	}

	rank := domain.RankForKills(previous)
	if rank.Valid() {
		t.promotions = append(t.promotions, domain.Promotion{Player: id, OldRank: domain.RankNone, NewRank: rank, Kills: previous})
	}
	t.say(msgRegistered(rank))
	t.reply.Menu = c.mainMenu(id)
}

func (c *Controller) promote(ctx context.Context, id domain.PlayerID, t *turn) {
	if !c.ledger.IsRegistered(id) {
		t.say(MsgNotRegistered)
		return
	}

	promo, ok := c.evaluator.Advance(ctx, id)
	if !ok {
		next, more := c.ledger.Rank(id).Next()
		if !more {
			t.say(MsgMaxRank)
			return
		}
		t.say(msgKillsToNext(next, c.ledger.MonsterKills(id)))
		return
	}

	t.promotions = append(t.promotions, promo)
	t.say(msgPromoted(promo.NewRank))
	t.reply.Menu = c.mainMenu(id)
}

func (c *Controller) beginCreate(ctx context.Context, sc *Context, t *turn) {
	id := sc.Player
	if !c.ledger.IsRegistered(id) {
		t.say(MsgNotRegistered)
		return
	}
	if _, ok := c.ledger.PlayerSquad(id); ok {
		t.say(MsgAlreadyInSquad)
		return
	}

	if cost := c.treasurer.CreationCost(); cost > 0 {
		balance, err := c.currency.GetBalance(ctx, id)
		if err != nil {
			t.say(explain(err))
			return
		}
		if balance < cost {
			t.say(msgInsufficientCoins(cost, balance))
			return
		}
	}

	c.ask(sc, t, StateSquadName, "", Prompt{Title: "Create a squad", Label: "Squad name (3-16 characters)"})
}

func (c *Controller) listSquads(t *turn) {
	menu := c.openSquadsMenu()
	if menu == nil {
		t.say(MsgNoSquads)
		return
	}
	t.reply.Menu = menu
}

func (c *Controller) beginJoin(sc *Context, t *turn, state State) {
	if !c.ledger.IsRegistered(sc.Player) {
		t.say(MsgNotRegistered)
		return
	}
	if _, ok := c.ledger.PlayerSquad(sc.Player); ok {
		t.say(MsgAlreadyInSquad)
		return
	}
	c.ask(sc, t, state, "", Prompt{Title: "Join a squad", Label: "Squad name"})
}

func (c *Controller) requestJoin(ctx context.Context, id domain.PlayerID, name string, t *turn) {
	if !c.ledger.IsRegistered(id) {
		t.say(MsgNotRegistered)
		return
	}

	if err := c.ledger.AddJoinRequest(ctx, name, id); err != nil {
		t.say(explain(err))
		return
	}

	t.say(msgRequestSent(name))
	if s, ok := c.ledger.Squad(name); ok {
		t.notify(s.Leader, msgNewRequest(c.display(id)))
	}
}

func (c *Controller) leave(ctx context.Context, id domain.PlayerID, t *turn) {
	name, err := c.ledger.LeaveSquad(ctx, id)
	if err != nil {
		t.say(explain(err))
		return
	}

	t.say(msgLeft(name))
	if s, ok := c.ledger.Squad(name); ok {
		t.notify(s.Leader, msgMemberLeft(c.display(id), name))
	}
}

func (c *Controller) disband(ctx context.Context, id domain.PlayerID, t *turn) {
	name, ok := c.ledger.PlayerSquad(id)
	if !ok {
		t.say(MsgNotInSquad)
		return
	}

	members, err := c.ledger.DisbandSquad(ctx, name, id)
	if err != nil {
		t.say(explain(err))
		return
	}

	t.say(msgDisbanded(name))
	for _, m := range members {
		if m != id {
			t.notify(m, msgDisbandedByLeader(name))
		}
	}
	t.reply.Menu = c.squadMenu(id)
}

func (c *Controller) manage(id domain.PlayerID, t *turn) {
	s, err := c.leaderSquad(id)
	if err != nil {
		t.say(MsgNotLeader)
		return
	}
	t.reply.Menu = c.manageMenu(s)
}

func (c *Controller) beginLeaderPrompt(sc *Context, t *turn, state State, prompt Prompt) {
	if _, err := c.leaderSquad(sc.Player); err != nil {
		t.say(MsgNotLeader)
		return
	}
	c.ask(sc, t, state, "", prompt)
}

func (c *Controller) upgrade(ctx context.Context, id domain.PlayerID, t *turn) {
	s, err := c.leaderSquad(id)
	if err != nil {
		t.say(MsgNotLeader)
		return
	}

	next, ok := domain.NextTier(s.Tier)
	if !ok {
		t.say(MsgMaxTier)
		return
	}
	if s.Treasury < next.UpgradeCost {
		t.say(msgUpgradeCost(next.UpgradeCost, s.Treasury))
		return
	}

	tier, err := c.treasurer.Upgrade(ctx, s.Name, id)
	if errors.Is(err, domain.ErrInsufficientFunds) {
		t.say(msgUpgradeCost(next.UpgradeCost, s.Treasury))
		return
	}
	if err != nil {
		t.say(explain(err))
		return
	}

	t.say(msgUpgraded(tier))
	for _, m := range s.Members {
		if m != id {
			t.notify(m, msgUpgraded(tier))
		}
	}
	if updated, err := c.leaderSquad(id); err == nil {
		t.reply.Menu = c.manageMenu(updated)
	}
}

func (c *Controller) requests(id domain.PlayerID, t *turn) {
	s, err := c.leaderSquad(id)
	if err != nil {
		t.say(MsgNotLeader)
		return
	}

	menu := c.requestsMenu(s)
	if menu == nil {
		t.say(MsgNoRequests)
		return
	}
	t.reply.Menu = menu
}

func (c *Controller) approve(ctx context.Context, leader, player domain.PlayerID, t *turn) {
	s, err := c.leaderSquad(leader)
	if err != nil {
		t.say(MsgNotLeader)
		return
	}

	err = c.treasurer.Approve(ctx, s.Name, leader, player)
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		t.say(msgRequesterCannotPay(c.display(player), s.JoinFee))
		t.notify(player, msgCannotPayFee(s.Name, s.JoinFee))
		return
	case err != nil:
		t.say(explain(err))
		return
	}

	t.say(msgApproved(c.display(player)))
	t.notify(player, msgAccepted(s.Name))
	c.refreshRequests(leader, t)
}

func (c *Controller) reject(ctx context.Context, leader, player domain.PlayerID, t *turn) {
	s, err := c.leaderSquad(leader)
	if err != nil {
		t.say(MsgNotLeader)
		return
	}

	if err := c.treasurer.Reject(ctx, s.Name, leader, player); err != nil {
		t.say(explain(err))
		return
	}

	t.say(msgRejected(c.display(player)))
	t.notify(player, msgRequestRejected(s.Name))
	c.refreshRequests(leader, t)
}

func (c *Controller) refreshRequests(leader domain.PlayerID, t *turn) {
	if s, err := c.leaderSquad(leader); err == nil {
		t.reply.Menu = c.requestsMenu(s)
	}
}

func (c *Controller) beginAccountRegister(sc *Context, t *turn) {
	if c.accounts.HasAccount(sc.Player) {
		t.say(MsgHasAccount)
		return
	}
	c.ask(sc, t, StateRegisterUsername, "", Prompt{Title: "Create account", Label: "Username (3-16 characters)"})
}

func (c *Controller) beginLogin(sc *Context, t *turn) {
	switch {
	case !c.accounts.HasAccount(sc.Player):
		t.say(MsgNoAccount)
	case c.accounts.IsLoggedIn(sc.Player):
		t.say(MsgAlreadyLoggedIn)
	default:
		c.ask(sc, t, StateLoginPassword, "", Prompt{Title: "Log in", Label: "Password", Secret: true})
	}
}

func (c *Controller) balance(ctx context.Context, id domain.PlayerID, t *turn) {
	amount, err := c.currency.GetBalance(ctx, id)
	if err != nil {
		t.say(explain(err))
		return
	}
	t.say(msgBalance(amount))
}
