package progression

import (
	"context"
	"sync"

	"guild-progression/internal/core/domain"
)

type memStore struct{}

func (memStore) Load(ctx context.Context) (*domain.Document, error)    { return domain.NewDocument(), nil }
func (memStore) Save(ctx context.Context, doc *domain.Document) error { return nil }
func (memStore) Close()                                               {}

type mockNotifier struct {
	mu         sync.Mutex
	promotions []domain.Promotion
	notifyFunc func(ctx context.Context, promo domain.Promotion) error
}

func (m *mockNotifier) NotifyPromotion(ctx context.Context, promo domain.Promotion) error {
	m.mu.Lock()
	m.promotions = append(m.promotions, promo)
	m.mu.Unlock()

	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, promo)
	}
	return nil
}

type mockPresence struct {
	worlds map[domain.PlayerID]string
}

func (m *mockPresence) World(id domain.PlayerID) (string, bool) {
	w, ok := m.worlds[id]
	return w, ok
}

type mockCurrency struct {
	addBalanceFunc func(ctx context.Context, id domain.PlayerID, amount float64) error
	paid           map[domain.PlayerID]float64
}

func (m *mockCurrency) GetBalance(ctx context.Context, id domain.PlayerID) (float64, error) {
	return m.paid[id], nil
}

func (m *mockCurrency) HasBalance(ctx context.Context, id domain.PlayerID, amount float64) (bool, error) {
	return m.paid[id] >= amount, nil
}

func (m *mockCurrency) AddBalance(ctx context.Context, id domain.PlayerID, amount float64) error {
	if m.addBalanceFunc != nil {
		return m.addBalanceFunc(ctx, id, amount)
	}
	if m.paid == nil {
		m.paid = make(map[domain.PlayerID]float64)
	}
	m.paid[id] += amount
	return nil
}

func (m *mockCurrency) RemoveBalance(ctx context.Context, id domain.PlayerID, amount float64) (bool, error) {
	return false, nil
}

type mockLogins map[domain.PlayerID]bool

func (m mockLogins) IsLoggedIn(id domain.PlayerID) bool { return m[id] }

type mockLeaderboard struct {
	incrementFunc func(ctx context.Context, id domain.PlayerID, delta uint64) error
	kills         map[domain.PlayerID]uint64
}

func (m *mockLeaderboard) IncrementKills(ctx context.Context, id domain.PlayerID, delta uint64) error {
	if m.incrementFunc != nil {
		return m.incrementFunc(ctx, id, delta)
	}
	if m.kills == nil {
		m.kills = make(map[domain.PlayerID]uint64)
	}
	m.kills[id] += delta
	return nil
}

func (m *mockLeaderboard) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	return nil, nil
}

type mockNotices struct {
	mu   sync.Mutex
	sent map[domain.PlayerID][]string
}

func (m *mockNotices) SendNotice(ctx context.Context, to domain.PlayerID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sent == nil {
		m.sent = make(map[domain.PlayerID][]string)
	}
	m.sent[to] = append(m.sent[to], text)
	return nil
}
