package session

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"guild-progression/internal/core/domain"
	"guild-progression/internal/core/services/economy"
	"guild-progression/internal/core/services/ledger"
	"guild-progression/internal/core/services/progression"
)

type memStore struct{}

func (memStore) Load(ctx context.Context) (*domain.Document, error)    { return domain.NewDocument(), nil }
func (memStore) Save(ctx context.Context, doc *domain.Document) error { return nil }
func (memStore) Close()                                               {}

type mockNotifier struct {
	mu       sync.Mutex
	promoted []domain.Promotion
}

func (m *mockNotifier) NotifyPromotion(ctx context.Context, p domain.Promotion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.promoted = append(m.promoted, p)
	return nil
}

type mockAccounts struct {
	hasAccountFunc    func(id domain.PlayerID) bool
	isLoggedInFunc    func(id domain.PlayerID) bool
	usernameFunc      func(id domain.PlayerID) string
	checkUsernameFunc func(username string) error
	registerFunc      func(ctx context.Context, id domain.PlayerID, username, password string) (string, error)
	loginFunc         func(ctx context.Context, id domain.PlayerID, password string) (string, error)
}

func (m *mockAccounts) HasAccount(id domain.PlayerID) bool {
	if m.hasAccountFunc != nil {
		return m.hasAccountFunc(id)
	}
	return false
}

func (m *mockAccounts) IsLoggedIn(id domain.PlayerID) bool {
	if m.isLoggedInFunc != nil {
		return m.isLoggedInFunc(id)
	}
	return false
}

func (m *mockAccounts) Username(id domain.PlayerID) string {
	if m.usernameFunc != nil {
		return m.usernameFunc(id)
	}
	return ""
}

func (m *mockAccounts) CheckUsername(username string) error {
	if m.checkUsernameFunc != nil {
		return m.checkUsernameFunc(username)
	}
	return nil
}

func (m *mockAccounts) Register(ctx context.Context, id domain.PlayerID, username, password string) (string, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, id, username, password)
	}
	return "token", nil
}

func (m *mockAccounts) Login(ctx context.Context, id domain.PlayerID, password string) (string, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, id, password)
	}
	return "token", nil
}

type fixture struct {
	ledger     *ledger.Ledger
	notifier   *mockNotifier
	accounts   *mockAccounts
	clock      time.Time
	controller *Controller
}

func newFixture(t *testing.T, ttl time.Duration) *fixture {
	t.Helper()
	l := ledger.New(memStore{})
	currency := economy.NewLedgerCurrency(l)
	f := &fixture{
		ledger:   l,
		notifier: &mockNotifier{},
		accounts: &mockAccounts{},
		clock:    time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	f.controller = New(Dependencies{
		Ledger:     l,
		Treasurer:  economy.NewTreasurer(l, currency, 1000),
		Currency:   currency,
		Evaluator:  progression.NewEvaluator(l, f.notifier),
		Accounts:   f.accounts,
		SessionTTL: ttl,
		Now:        func() time.Time { return f.clock },
	})
	return f
}

func (f *fixture) kills(id domain.PlayerID, n int) {
	for range n {
		f.ledger.RecordMonsterKill(context.Background(), id)
	}
}

// registered returns a registered player with the given balance.
func (f *fixture) registered(t *testing.T, id domain.PlayerID, coins float64) *Context {
	t.Helper()
	f.kills(id, 10)
	if _, err := f.ledger.RegisterPlayer(context.Background(), id); err != nil {
		t.Fatalf("register %s: %v", id, err)
	}
	if coins > 0 {
		if err := f.ledger.AddCoins(context.Background(), id, coins); err != nil {
			t.Fatalf("fund %s: %v", id, err)
		}
	}
	return NewContext(id)
}

func (f *fixture) selectSlot(sc *Context, action Action, arg string) Reply {
	return f.controller.MenuSelect(context.Background(), sc, Slot{Action: action, Arg: arg})
}

func (f *fixture) input(sc *Context, text string) Reply {
	return f.controller.TextInput(context.Background(), sc, text)
}

func hasOption(m *Menu, action Action) bool {
	if m == nil {
		return false
	}
	for _, o := range m.Options {
		if o.Slot.Action == action {
			return true
		}
	}
	return false
}

func assertEqual[T comparable](t *testing.T, name string, expected, actual T) {
	t.Helper()
	if expected != actual {
		t.Errorf("%s: expected %v, got %v", name, expected, actual)
	}
}

func assertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("expected %q to contain %q", s, substr)
	}
}
