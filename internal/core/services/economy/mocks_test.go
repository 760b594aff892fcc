package economy

import (
	"context"
	"testing"

	"guild-progression/internal/core/domain"
	"guild-progression/internal/core/services/ledger"
)

type memStore struct{}

func (memStore) Load(ctx context.Context) (*domain.Document, error)    { return domain.NewDocument(), nil }
func (memStore) Save(ctx context.Context, doc *domain.Document) error { return nil }
func (memStore) Close()                                               {}

// faultyLedger wraps a real ledger and lets a test fail selected steps.
type faultyLedger struct {
	*ledger.Ledger
	joinSquadFunc        func(ctx context.Context, name string, id domain.PlayerID) error
	addToTreasuryFunc    func(ctx context.Context, name string, leader domain.PlayerID, amount float64) error
	upgradeSquadTierFunc func(ctx context.Context, name string, leader domain.PlayerID) (domain.SquadTier, error)
}

func (f *faultyLedger) JoinSquad(ctx context.Context, name string, id domain.PlayerID) error {
	if f.joinSquadFunc != nil {
		return f.joinSquadFunc(ctx, name, id)
	}
	return f.Ledger.JoinSquad(ctx, name, id)
}

func (f *faultyLedger) AddToSquadTreasury(ctx context.Context, name string, leader domain.PlayerID, amount float64) error {
	if f.addToTreasuryFunc != nil {
		return f.addToTreasuryFunc(ctx, name, leader, amount)
	}
	return f.Ledger.AddToSquadTreasury(ctx, name, leader, amount)
}

func (f *faultyLedger) UpgradeSquadTier(ctx context.Context, name string, leader domain.PlayerID) (domain.SquadTier, error) {
	if f.upgradeSquadTierFunc != nil {
		return f.upgradeSquadTierFunc(ctx, name, leader)
	}
	return f.Ledger.UpgradeSquadTier(ctx, name, leader)
}

type mockCurrency struct {
	removeBalanceFunc func(ctx context.Context, id domain.PlayerID, amount float64) (bool, error)
	*LedgerCurrency
}

func (m *mockCurrency) RemoveBalance(ctx context.Context, id domain.PlayerID, amount float64) (bool, error) {
	if m.removeBalanceFunc != nil {
		return m.removeBalanceFunc(ctx, id, amount)
	}
	return m.LedgerCurrency.RemoveBalance(ctx, id, amount)
}

type fixture struct {
	ledger    *faultyLedger
	currency  *mockCurrency
	treasurer *Treasurer
}

func newFixture(t *testing.T, creationCost float64) *fixture {
	t.Helper()
	l := &faultyLedger{Ledger: ledger.New(memStore{})}
	c := &mockCurrency{LedgerCurrency: NewLedgerCurrency(l.Ledger)}
	return &fixture{
		ledger:    l,
		currency:  c,
		treasurer: NewTreasurer(l, c, creationCost),
	}
}

func (f *fixture) fund(t *testing.T, id domain.PlayerID, amount float64) {
	t.Helper()
	if err := f.ledger.AddCoins(context.Background(), id, amount); err != nil {
		t.Fatalf("fund %s: %v", id, err)
	}
}

func (f *fixture) squad(t *testing.T, name string) domain.SquadRecord {
	t.Helper()
	s, ok := f.ledger.Squad(name)
	if !ok {
		t.Fatalf("squad %s missing", name)
	}
	return s
}

func assertEqual[T comparable](t *testing.T, name string, expected, actual T) {
	t.Helper()
	if expected != actual {
		t.Errorf("%s: expected %v, got %v", name, expected, actual)
	}
}
