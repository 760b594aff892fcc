package ledger

import (
	"context"
	"sort"

	"guild-progression/internal/core/domain"
)

func (l *Ledger) IsRegistered(id domain.PlayerID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.doc.Players[id]
	return ok && rec.Registered
}

func (l *Ledger) MonsterKills(id domain.PlayerID) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rec, ok := l.doc.Players[id]; ok {
		return rec.MonsterKills
	}
	return 0
}

// Player returns a copy of the record.
func (l *Ledger) Player(id domain.PlayerID) (domain.PlayerRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.doc.Players[id]
	if !ok {
		return domain.PlayerRecord{}, false
	}
	return *rec, true
}

// Rank never writes. It reports the cached rank, or the rank implied by the
// current kill count when that is higher.
func (l *Ledger) Rank(id domain.PlayerID) domain.Rank {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.doc.Players[id]
	if !ok {
		return domain.RankNone
	}
	return max(rec.Rank, domain.RankForKills(rec.MonsterKills))
}

// RegisterPlayer marks the player registered and restarts the kill counter.
// Kills made before registration are kept as the initial cached rank, and the
// previous count is returned so the caller can announce it.
func (l *Ledger) RegisterPlayer(ctx context.Context, id domain.PlayerID) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := l.record(id)
	if rec.Registered {
		return 0, domain.ErrAlreadyRegistered
	}

	previous := rec.MonsterKills
	rec.Registered = true
	rec.MonsterKills = 0
	rec.Rank = domain.RankForKills(previous)

	l.persist(ctx)
	return previous, nil
}

// RecordMonsterKill counts kills for registered and unregistered players alike.
func (l *Ledger) RecordMonsterKill(ctx context.Context, id domain.PlayerID) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := l.record(id)
	rec.MonsterKills++

	l.persist(ctx)
	return rec.MonsterKills
}

// SetRank overwrites the cached rank unconditionally.
func (l *Ledger) SetRank(ctx context.Context, id domain.PlayerID, rank domain.Rank) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.record(id).Rank = rank
	l.persist(ctx)
}

// Promote raises the cached rank of a registered player to rank when rank is
// strictly higher, and returns the previous cached rank.
func (l *Ledger) Promote(ctx context.Context, id domain.PlayerID, rank domain.Rank) (domain.Rank, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.doc.Players[id]
	if !ok || !rec.Registered || !rank.Valid() || rank <= rec.Rank {
		if ok {
			return rec.Rank, false
		}
		return domain.RankNone, false
	}

	old := rec.Rank
	rec.Rank = rank
	l.persist(ctx)
	return old, true
}

func (l *Ledger) Coins(id domain.PlayerID) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rec, ok := l.doc.Players[id]; ok {
		return rec.Coins
	}
	return 0
}

func (l *Ledger) AddCoins(ctx context.Context, id domain.PlayerID, amount float64) error {
	if !validAmount(amount) {
		return domain.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.record(id).Coins += amount
	l.persist(ctx)
	return nil
}

// RemoveCoins returns false and leaves the balance untouched when it is lower
// than amount.
func (l *Ledger) RemoveCoins(ctx context.Context, id domain.PlayerID, amount float64) (bool, error) {
	if !validAmount(amount) {
		return false, domain.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.doc.Players[id]
	if !ok || rec.Coins < amount {
		return false, nil
	}

	rec.Coins -= amount
	l.persist(ctx)
	return true, nil
}

// TopKillers ranks players by kill count, ties broken by id.
func (l *Ledger) TopKillers(limit int) []domain.LeaderboardEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]domain.LeaderboardEntry, 0, len(l.doc.Players))
	for id, rec := range l.doc.Players {
		if rec.MonsterKills == 0 {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{Player: id, Kills: rec.MonsterKills})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Kills != entries[j].Kills {
			return entries[i].Kills > entries[j].Kills
		}
		return entries[i].Player < entries[j].Player
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Place = i + 1
	}
	return entries
}

// record must be called with l.mu held.
func (l *Ledger) record(id domain.PlayerID) *domain.PlayerRecord {
	rec, ok := l.doc.Players[id]
	if !ok {
		rec = &domain.PlayerRecord{}
		l.doc.Players[id] = rec
	}
	return rec
}
