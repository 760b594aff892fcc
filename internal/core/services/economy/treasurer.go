package economy

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"guild-progression/internal/core/domain"
	"guild-progression/internal/core/ports"
	"guild-progression/internal/metrics"
)

// SquadLedger is the part of the guild ledger that moves money or membership.
type SquadLedger interface {
	Squad(name string) (domain.SquadRecord, bool)
	CreateSquad(ctx context.Context, name string, leader domain.PlayerID) error
	DisbandSquad(ctx context.Context, name string, leader domain.PlayerID) ([]domain.PlayerID, error)
	JoinSquad(ctx context.Context, name string, id domain.PlayerID) error
	RemoveJoinRequest(ctx context.Context, name string, id domain.PlayerID) bool
	AddToSquadTreasury(ctx context.Context, name string, leader domain.PlayerID, amount float64) error
	RemoveFromSquadTreasury(ctx context.Context, name string, leader domain.PlayerID, amount float64) error
	UpgradeSquadTier(ctx context.Context, name string, leader domain.PlayerID) (domain.SquadTier, error)
}

// Treasurer runs the operations that touch two balances. When the second step
// fails the first one is reversed before the error is returned.
type Treasurer struct {
	ledger       SquadLedger
	currency     ports.Currency
	creationCost float64
}

func NewTreasurer(ledger SquadLedger, currency ports.Currency, creationCost float64) *Treasurer {
	return &Treasurer{
		ledger:       ledger,
		currency:     currency,
		creationCost: creationCost,
	}
}

func (t *Treasurer) CreationCost() float64 {
	return t.creationCost
}

// CreateSquad charges the creation cost to the leader's balance.
func (t *Treasurer) CreateSquad(ctx context.Context, name string, leader domain.PlayerID) error {
	if t.creationCost > 0 {
		ok, err := t.currency.HasBalance(ctx, leader, t.creationCost)
		if err != nil {
			return fmt.Errorf("check balance: %w", err)
		}
		if !ok {
			return domain.ErrInsufficientFunds
		}
	}

	if err := t.ledger.CreateSquad(ctx, name, leader); err != nil {
		return err
	}
	if t.creationCost <= 0 {
		return nil
	}

	ok, err := t.currency.RemoveBalance(ctx, leader, t.creationCost)
	if err == nil && ok {
		return nil
	}

	t.compensate("create", func() error {
		_, derr := t.ledger.DisbandSquad(ctx, name, leader)
		return derr
	})
	if err != nil {
		return fmt.Errorf("charge creation cost: %w", err)
	}
	return domain.ErrInsufficientFunds
}

// Deposit moves coins from the leader's balance into the treasury.
func (t *Treasurer) Deposit(ctx context.Context, name string, leader domain.PlayerID, amount float64) error {
	if !validAmount(amount) {
		return domain.ErrInvalidAmount
	}
	if err := t.requireLeader(name, leader); err != nil {
		return err
	}

	ok, err := t.currency.RemoveBalance(ctx, leader, amount)
	if err != nil {
		return fmt.Errorf("withdraw from player: %w", err)
	}
	if !ok {
		return domain.ErrInsufficientFunds
	}

	if err := t.ledger.AddToSquadTreasury(ctx, name, leader, amount); err != nil {
		t.compensate("deposit", func() error { return t.currency.AddBalance(ctx, leader, amount) })
		return err
	}
	return nil
}

// Withdraw moves coins from the treasury to the leader's balance.
func (t *Treasurer) Withdraw(ctx context.Context, name string, leader domain.PlayerID, amount float64) error {
	if !validAmount(amount) {
		return domain.ErrInvalidAmount
	}
	if err := t.ledger.RemoveFromSquadTreasury(ctx, name, leader, amount); err != nil {
		return err
	}

	if err := t.currency.AddBalance(ctx, leader, amount); err != nil {
		t.compensate("withdraw", func() error { return t.ledger.AddToSquadTreasury(ctx, name, leader, amount) })
		return fmt.Errorf("pay out to player: %w", err)
	}
	return nil
}

// Upgrade pays the next tier from the treasury, then moves the squad to it.
func (t *Treasurer) Upgrade(ctx context.Context, name string, leader domain.PlayerID) (domain.SquadTier, error) {
	s, ok := t.ledger.Squad(name)
	if !ok {
		return domain.SquadTier{}, domain.ErrSquadNotFound
	}
	if s.Leader != leader {
		return domain.SquadTier{}, domain.ErrNotLeader
	}
	next, ok := domain.NextTier(s.Tier)
	if !ok {
		return domain.SquadTier{}, domain.ErrMaxTier
	}

	if next.UpgradeCost > 0 {
		if err := t.ledger.RemoveFromSquadTreasury(ctx, name, leader, next.UpgradeCost); err != nil {
			return domain.SquadTier{}, err
		}
	}

	tier, err := t.ledger.UpgradeSquadTier(ctx, name, leader)
	if err != nil {
		if next.UpgradeCost > 0 {
			t.compensate("upgrade", func() error {
				return t.ledger.AddToSquadTreasury(ctx, name, leader, next.UpgradeCost)
			})
		}
		return domain.SquadTier{}, err
	}
	return tier, nil
}

// Approve admits a pending requester, charging the join fee to the requester
// and crediting it to the treasury. On any failure the request stays pending.
func (t *Treasurer) Approve(ctx context.Context, name string, leader, player domain.PlayerID) error {
	s, ok := t.ledger.Squad(name)
	if !ok {
		return domain.ErrSquadNotFound
	}
	if s.Leader != leader {
		return domain.ErrNotLeader
	}
	if !s.HasRequest(player) {
		return domain.ErrRequestNotFound
	}
	if len(s.Members) >= s.Capacity() {
		return domain.ErrSquadFull
	}

	fee := s.JoinFee
	if fee <= 0 {
		return t.ledger.JoinSquad(ctx, name, player)
	}

	ok, err := t.currency.RemoveBalance(ctx, player, fee)
	if err != nil {
		return fmt.Errorf("charge join fee: %w", err)
	}
	if !ok {
		return domain.ErrInsufficientFunds
	}

	if err := t.ledger.AddToSquadTreasury(ctx, name, leader, fee); err != nil {
		t.compensate("approve", func() error { return t.currency.AddBalance(ctx, player, fee) })
		return err
	}

	if err := t.ledger.JoinSquad(ctx, name, player); err != nil {
		t.compensate("approve", func() error {
			if rerr := t.ledger.RemoveFromSquadTreasury(ctx, name, leader, fee); rerr != nil {
				return rerr
			}
			return t.currency.AddBalance(ctx, player, fee)
		})
		return err
	}
	return nil
}

func (t *Treasurer) Reject(ctx context.Context, name string, leader, player domain.PlayerID) error {
	if err := t.requireLeader(name, leader); err != nil {
		return err
	}
	if !t.ledger.RemoveJoinRequest(ctx, name, player) {
		return domain.ErrRequestNotFound
	}
	return nil
}

func (t *Treasurer) requireLeader(name string, leader domain.PlayerID) error {
	s, ok := t.ledger.Squad(name)
	if !ok {
		return domain.ErrSquadNotFound
	}
	if s.Leader != leader {
		return domain.ErrNotLeader
	}
	return nil
}

func (t *Treasurer) compensate(op string, undo func() error) {
	metrics.Compensations.WithLabelValues(op).Inc()
	if err := undo(); err != nil {
		slog.Error("Failed to roll back partial transaction", "op", op, "error", err)
	}
}

func validAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}
