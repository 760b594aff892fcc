package progression

import (
	"context"
	"log/slog"

	"guild-progression/internal/core/domain"
	"guild-progression/internal/core/ports"
	"guild-progression/internal/metrics"
)

// KillLedger is the part of the guild ledger kill crediting needs.
type KillLedger interface {
	RankLedger
	RecordMonsterKill(ctx context.Context, id domain.PlayerID) uint64
	PlayerSquad(id domain.PlayerID) (string, bool)
	SquadMembers(name string) []domain.PlayerID
}

// MsgSharedKill tells squad mates that a kill in their world counted for them.
const MsgSharedKill = "[Squad] Monster kill credited to all squad members in this world!"

type LoginChecker interface {
	IsLoggedIn(id domain.PlayerID) bool
}

type Bounties struct {
	Monster float64
	Player  float64
}

type Dependencies struct {
	Ledger      KillLedger
	Currency    ports.Currency
	Notifier    ports.PromotionNotifier
	Notices     ports.NoticeSender
	Presence    ports.Presence
	Leaderboard ports.Leaderboard
	Logins      LoginChecker
	Bounties    Bounties
}

// Service credits kills to players and their squads.
type Service struct {
	ledger      KillLedger
	currency    ports.Currency
	notices     ports.NoticeSender
	presence    ports.Presence
	leaderboard ports.Leaderboard
	logins      LoginChecker
	bounties    Bounties
	evaluator   *Evaluator
}

func NewService(deps Dependencies) *Service {
	return &Service{
		ledger:      deps.Ledger,
		currency:    deps.Currency,
		notices:     deps.Notices,
		presence:    deps.Presence,
		leaderboard: deps.Leaderboard,
		logins:      deps.Logins,
		bounties:    deps.Bounties,
		evaluator:   NewEvaluator(deps.Ledger, deps.Notifier),
	}
}

func (s *Service) Evaluator() *Evaluator {
	return s.evaluator
}

// CreditKill pays the killer's bounty and, for monster kills, counts the kill
// for the killer and every squad member online in the same world. Each
// participant is evaluated on its own; the returned promotions carry no
// ordering between participants.
func (s *Service) CreditKill(ctx context.Context, ev domain.KillEvent) []domain.Promotion {
	if ev.Killer == "" {
		return nil
	}

	metrics.KillsCredited.WithLabelValues(string(ev.Victim)).Inc()
	s.payBounty(ctx, ev)

	if ev.Victim != domain.VictimMonster {
		return nil
	}

	participants := s.participants(ev)

	var promotions []domain.Promotion
	for _, id := range participants {
		kills := s.ledger.RecordMonsterKill(ctx, id)

		if s.leaderboard != nil {
			if err := s.leaderboard.IncrementKills(ctx, id, 1); err != nil {
				slog.Warn("Failed to update leaderboard", "player", id, "error", err)
			}
		}

		if !s.ledger.IsRegistered(id) {
			continue
		}
		if promo, ok := s.evaluator.advance(ctx, id, kills); ok {
			s.evaluator.Announce(ctx, promo)
			promotions = append(promotions, promo)
		}
	}

	s.noticeShared(ctx, ev.Killer, participants)
	return promotions
}

func (s *Service) payBounty(ctx context.Context, ev domain.KillEvent) {
	bounty := s.bounties.Monster
	if ev.Victim == domain.VictimPlayer {
		bounty = s.bounties.Player
	}
	if bounty <= 0 || s.currency == nil || s.logins == nil || !s.logins.IsLoggedIn(ev.Killer) {
		return
	}

	if err := s.currency.AddBalance(ctx, ev.Killer, bounty); err != nil {
		slog.Error("Failed to pay kill bounty", "player", ev.Killer, "amount", bounty, "error", err)
	}
}

// noticeShared tells every squad mate credited alongside the killer.
func (s *Service) noticeShared(ctx context.Context, killer domain.PlayerID, participants []domain.PlayerID) {
	if s.notices == nil || len(participants) < 2 {
		return
	}
	for _, id := range participants {
		if id == killer {
			continue
		}
		if err := s.notices.SendNotice(ctx, id, MsgSharedKill); err != nil {
			slog.Warn("Failed to send shared kill notice", "player", id, "error", err)
		}
	}
}

func (s *Service) participants(ev domain.KillEvent) []domain.PlayerID {
	out := []domain.PlayerID{ev.Killer}

	squad, ok := s.ledger.PlayerSquad(ev.Killer)
	if !ok || s.presence == nil {
		return out
	}

	for _, id := range s.ledger.SquadMembers(squad) {
		if id == ev.Killer {
			continue
		}
		if world, online := s.presence.World(id); online && world == ev.World {
			out = append(out, id)
		}
	}
	return out
}
