package ports

import (
	"context"

	"guild-progression/internal/core/domain"
)

// DocumentStore persists the whole guild document. Load returns an empty
// document when nothing has been saved yet.
type DocumentStore interface {
	Load(ctx context.Context) (*domain.Document, error)
	Save(ctx context.Context, doc *domain.Document) error
	Close()
}

// Currency is the balance contract the engine needs from an economy backend.
type Currency interface {
	GetBalance(ctx context.Context, player domain.PlayerID) (float64, error)
	HasBalance(ctx context.Context, player domain.PlayerID, amount float64) (bool, error)
	AddBalance(ctx context.Context, player domain.PlayerID, amount float64) error
	// RemoveBalance returns false without changing anything when funds are insufficient.
	RemoveBalance(ctx context.Context, player domain.PlayerID, amount float64) (bool, error)
}

type PromotionNotifier interface {
	NotifyPromotion(ctx context.Context, promotion domain.Promotion) error
}

// NoticeSender delivers a private line to one player.
type NoticeSender interface {
	SendNotice(ctx context.Context, to domain.PlayerID, text string) error
}

type Leaderboard interface {
	IncrementKills(ctx context.Context, player domain.PlayerID, delta uint64) error
	Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// Presence answers where a player currently is.
type Presence interface {
	World(player domain.PlayerID) (string, bool)
}
