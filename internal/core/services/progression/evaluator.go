package progression

import (
	"context"
	"log/slog"

	"guild-progression/internal/core/domain"
	"guild-progression/internal/core/ports"
	"guild-progression/internal/metrics"
)

// RankLedger is the part of the guild ledger the evaluator needs.
type RankLedger interface {
	IsRegistered(id domain.PlayerID) bool
	MonsterKills(id domain.PlayerID) uint64
	Rank(id domain.PlayerID) domain.Rank
	Promote(ctx context.Context, id domain.PlayerID, rank domain.Rank) (domain.Rank, bool)
}

type Evaluator struct {
	ledger   RankLedger
	notifier ports.PromotionNotifier
}

func NewEvaluator(ledger RankLedger, notifier ports.PromotionNotifier) *Evaluator {
	return &Evaluator{
		ledger:   ledger,
		notifier: notifier,
	}
}

// Evaluate promotes a registered player to the rank implied by their current
// kill count when it is above the cached one, and announces the promotion.
// Unregistered players only accumulate kills.
func (e *Evaluator) Evaluate(ctx context.Context, id domain.PlayerID) (domain.Promotion, bool) {
	promo, ok := e.Advance(ctx, id)
	if ok {
		e.Announce(ctx, promo)
	}
	return promo, ok
}

// Advance is Evaluate without the announcement, for callers that must not
// notify while holding their own lock.
func (e *Evaluator) Advance(ctx context.Context, id domain.PlayerID) (domain.Promotion, bool) {
	if !e.ledger.IsRegistered(id) {
		return domain.Promotion{}, false
	}
	return e.advance(ctx, id, e.ledger.MonsterKills(id))
}

func (e *Evaluator) advance(ctx context.Context, id domain.PlayerID, kills uint64) (domain.Promotion, bool) {
	derived := domain.RankForKills(kills)
	if derived == domain.RankNone {
		return domain.Promotion{}, false
	}

	old, promoted := e.ledger.Promote(ctx, id, derived)
	if !promoted {
		return domain.Promotion{}, false
	}

	slog.Info("Rank promotion", "player", id, "old_rank", old.String(), "new_rank", derived.String(), "kills", kills)
	return domain.Promotion{Player: id, OldRank: old, NewRank: derived, Kills: kills}, true
}

// Announce hands a promotion to the notifier. It is also used for the initial
// rank granted at registration.
func (e *Evaluator) Announce(ctx context.Context, promo domain.Promotion) {
	metrics.Promotions.WithLabelValues(promo.NewRank.String()).Inc()

	if e.notifier == nil {
		return
	}
	if err := e.notifier.NotifyPromotion(ctx, promo); err != nil {
		slog.Error("Failed to send promotion notification", "player", promo.Player, "rank", promo.NewRank.String(), "error", err)
	}
}
