package economy

import (
	"context"

	"guild-progression/internal/core/domain"
)

type CoinLedger interface {
	Coins(id domain.PlayerID) float64
	AddCoins(ctx context.Context, id domain.PlayerID, amount float64) error
	RemoveCoins(ctx context.Context, id domain.PlayerID, amount float64) (bool, error)
}

// LedgerCurrency answers the currency contract from the coin field of the
// player records. It is the fallback when no wallet service is configured.
type LedgerCurrency struct {
	ledger CoinLedger
}

func NewLedgerCurrency(ledger CoinLedger) *LedgerCurrency {
	return &LedgerCurrency{ledger: ledger}
}

func (c *LedgerCurrency) GetBalance(_ context.Context, id domain.PlayerID) (float64, error) {
	return c.ledger.Coins(id), nil
}

func (c *LedgerCurrency) HasBalance(_ context.Context, id domain.PlayerID, amount float64) (bool, error) {
	return c.ledger.Coins(id) >= amount, nil
}

func (c *LedgerCurrency) AddBalance(ctx context.Context, id domain.PlayerID, amount float64) error {
	return c.ledger.AddCoins(ctx, id, amount)
}

func (c *LedgerCurrency) RemoveBalance(ctx context.Context, id domain.PlayerID, amount float64) (bool, error) {
	return c.ledger.RemoveCoins(ctx, id, amount)
}
