package session

import (
	"fmt"

	"guild-progression/internal/core/domain"
)

const (
	maxListedSquads   = 20
	maxListedRequests = 12
)

func (c *Controller) mainMenu(id domain.PlayerID) *Menu {
	kills := c.ledger.MonsterKills(id)
	menu := &Menu{Title: "Adventurers' Guild"}

	if !c.ledger.IsRegistered(id) {
		menu.Lines = []string{
			fmt.Sprintf("Monster kills: %d", kills),
			fmt.Sprintf("Kill at least %d monsters to register as an adventurer.", domain.RankC.Threshold()),
		}
		menu.Options = append(menu.Options, Option{Slot: Slot{Action: ActionRegister}, Label: "Register as an adventurer"})
	} else {
		rank := c.ledger.Rank(id)
		menu.Lines = []string{
			"Rank: " + RankLabel(rank),
			fmt.Sprintf("Monster kills: %d", kills),
		}
		switch next, ok := rank.Next(); {
		case c.promotable(id):
			menu.Options = append(menu.Options, Option{Slot: Slot{Action: ActionPromote}, Label: "Rank up to " + rank.String()})
		case !ok:
			menu.Lines = append(menu.Lines, "You have reached the highest rank!")
		default:
			menu.Lines = append(menu.Lines, fmt.Sprintf("Next rank %s at %d kills.", next.String(), next.Threshold()))
		}

		label := "Squads"
		if name, ok := c.ledger.PlayerSquad(id); ok {
			label = "Your squad: " + name
		}
		menu.Options = append(menu.Options, Option{Slot: Slot{Action: ActionSquad}, Label: label})
	}

	switch {
	case !c.accounts.HasAccount(id):
		menu.Options = append(menu.Options, Option{Slot: Slot{Action: ActionAccountRegister}, Label: "Create account"})
	case !c.accounts.IsLoggedIn(id):
		menu.Options = append(menu.Options, Option{Slot: Slot{Action: ActionAccountLogin}, Label: "Log in"})
	}
	menu.Options = append(menu.Options, Option{Slot: Slot{Action: ActionBalance}, Label: "Balance"})
	return menu
}

func (c *Controller) squadMenu(id domain.PlayerID) *Menu {
	back := Option{Slot: Slot{Action: ActionMain}, Label: "Back"}

	name, ok := c.ledger.PlayerSquad(id)
	s, found := c.ledger.Squad(name)
	if !ok || !found {
		return &Menu{
			Title: "Squads",
			Lines: []string{
				"You are not in a squad.",
				fmt.Sprintf("Creating a squad costs %s coins.", Coins(c.treasurer.CreationCost())),
			},
			Options: []Option{
				{Slot: Slot{Action: ActionCreate}, Label: "Create a squad"},
				{Slot: Slot{Action: ActionList}, Label: "Browse squads"},
				{Slot: Slot{Action: ActionJoinByName}, Label: "Join by name"},
				back,
			},
		}
	}

	tier := domain.TierByLevel(s.Tier)
	menu := &Menu{
		Title: "Squad " + s.Name,
		Lines: []string{
			"Tier: " + TierLabel(tier),
			fmt.Sprintf("Members: %d/%d", len(s.Members), tier.Capacity),
		},
	}
	for _, m := range s.Members {
		line := "- " + c.display(m)
		if m == s.Leader {
			line += " (leader)"
		}
		menu.Lines = append(menu.Lines, line)
	}

	if s.Leader == id {
		menu.Options = append(menu.Options, Option{Slot: Slot{Action: ActionManage}, Label: "Manage squad"})
	} else {
		menu.Options = append(menu.Options, Option{Slot: Slot{Action: ActionLeave}, Label: "Leave squad", Danger: true})
	}
	menu.Options = append(menu.Options, back)
	return menu
}

// openSquadsMenu lists squads that still have room, or returns nil.
func (c *Controller) openSquadsMenu() *Menu {
	menu := &Menu{Title: "Open squads"}

	hidden := 0
	for _, s := range c.ledger.Squads() {
		if len(s.Members) >= s.Capacity() {
			continue
		}
		if len(menu.Options) >= maxListedSquads {
			hidden++
			continue
		}

		fee := "free"
		if s.JoinFee > 0 {
			fee = Coins(s.JoinFee) + " coins"
		}
		tier := domain.TierByLevel(s.Tier)
		menu.Lines = append(menu.Lines, fmt.Sprintf("%s: %s, %d/%d members, join fee %s", s.Name, tier.Name, len(s.Members), tier.Capacity, fee))
		menu.Options = append(menu.Options, Option{Slot: Slot{Action: ActionRequest, Arg: s.Name}, Label: "Join " + s.Name})
	}

	if len(menu.Options) == 0 {
		return nil
	}
	if hidden > 0 {
		menu.Lines = append(menu.Lines, fmt.Sprintf("... and %d more", hidden))
	}
	menu.Options = append(menu.Options, Option{Slot: Slot{Action: ActionRequestByName}, Label: "Enter a name"})
	return menu
}

func (c *Controller) manageMenu(s domain.SquadRecord) *Menu {
	tier := domain.TierByLevel(s.Tier)
	menu := &Menu{
		Title: "Manage " + s.Name,
		Lines: []string{
			"Tier: " + TierLabel(tier),
			fmt.Sprintf("Members: %d/%d", len(s.Members), tier.Capacity),
			fmt.Sprintf("Treasury: %s coins", Coins(s.Treasury)),
			fmt.Sprintf("Join fee: %s coins", Coins(s.JoinFee)),
		},
		Options: []Option{
			{Slot: Slot{Action: ActionRename}, Label: "Rename"},
			{Slot: Slot{Action: ActionDeposit}, Label: "Deposit"},
			{Slot: Slot{Action: ActionWithdraw}, Label: "Withdraw"},
		},
	}

	if next, ok := domain.NextTier(s.Tier); ok {
		menu.Lines = append(menu.Lines, fmt.Sprintf("Next tier: %s for %s coins, %d members", next.Name, Coins(next.UpgradeCost), next.Capacity))
		menu.Options = append(menu.Options, Option{Slot: Slot{Action: ActionUpgrade}, Label: "Upgrade to " + next.Name})
	}

	menu.Options = append(menu.Options,
		Option{Slot: Slot{Action: ActionJoinFee}, Label: "Set join fee"},
		Option{Slot: Slot{Action: ActionRequests}, Label: fmt.Sprintf("Join requests (%d)", len(s.JoinRequests))},
		Option{Slot: Slot{Action: ActionDisband}, Label: "Disband", Danger: true},
		Option{Slot: Slot{Action: ActionSquad}, Label: "Back"},
	)
	return menu
}

// requestsMenu returns nil when nothing is pending.
func (c *Controller) requestsMenu(s domain.SquadRecord) *Menu {
	if len(s.JoinRequests) == 0 {
		return nil
	}

	menu := &Menu{Title: "Join requests for " + s.Name}
	if s.JoinFee > 0 {
		menu.Lines = append(menu.Lines, fmt.Sprintf("Join fee: %s coins", Coins(s.JoinFee)))
	}
	for i, id := range s.JoinRequests {
		if i >= maxListedRequests {
			menu.Lines = append(menu.Lines, fmt.Sprintf("... and %d more", len(s.JoinRequests)-i))
			break
		}
		menu.Lines = append(menu.Lines, fmt.Sprintf("%d. %s", i+1, c.display(id)))
		menu.Options = append(menu.Options,
			Option{Slot: Slot{Action: ActionApprove, Arg: string(id)}, Label: fmt.Sprintf("Accept %d", i+1)},
			Option{Slot: Slot{Action: ActionReject, Arg: string(id)}, Label: fmt.Sprintf("Reject %d", i+1), Danger: true},
		)
	}
	menu.Options = append(menu.Options, Option{Slot: Slot{Action: ActionManage}, Label: "Back"})
	return menu
}

// promotable reports whether the kill count implies a rank above the cached one.
func (c *Controller) promotable(id domain.PlayerID) bool {
	rec, ok := c.ledger.Player(id)
	return ok && rec.Registered && domain.RankForKills(rec.MonsterKills) > rec.Rank
}

// leaderSquad returns the squad id leads, re-read at call time.
func (c *Controller) leaderSquad(id domain.PlayerID) (domain.SquadRecord, error) {
	name, ok := c.ledger.PlayerSquad(id)
	if !ok {
		return domain.SquadRecord{}, domain.ErrNotInSquad
	}
	s, ok := c.ledger.Squad(name)
	if !ok {
		return domain.SquadRecord{}, domain.ErrNotInSquad
	}
	if s.Leader != id {
		return domain.SquadRecord{}, domain.ErrNotLeader
	}
	return s, nil
}
