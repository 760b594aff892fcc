package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"guild-progression/internal/core/domain"
	"guild-progression/internal/core/ports"
	"guild-progression/internal/metrics"
)

// Ledger owns all persisted guild state. Every method takes the same mutex,
// so mutations are serialized and each one is flushed to the store before it
// returns. A failed flush is logged and counted; the in-memory state stays
// authoritative until the next successful save.
type Ledger struct {
	mu        sync.Mutex
	store     ports.DocumentStore
	doc       *domain.Document
	memberOf  map[domain.PlayerID]string
	usernames map[string]domain.PlayerID
}

func New(store ports.DocumentStore) *Ledger {
	l := &Ledger{store: store}
	l.reset(domain.NewDocument())
	return l
}

// Load replaces the in-memory state with the stored document.
func (l *Ledger) Load(ctx context.Context) error {
	doc, err := l.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load guild document: %w", err)
	}
	if doc == nil {
		doc = domain.NewDocument()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.reset(doc)
	slog.Info("Guild ledger loaded", "players", len(l.doc.Players), "squads", len(l.doc.Squads))
	return nil
}

// Reload is the operator entry point for re-reading the document.
func (l *Ledger) Reload(ctx context.Context) error {
	return l.Load(ctx)
}

// SaveAll flushes the document and reports the error to the caller, unlike
// the per-mutation flush.
func (l *Ledger) SaveAll(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.save(ctx); err != nil {
		return fmt.Errorf("save guild document: %w", err)
	}
	return nil
}

// Snapshot returns a deep copy of the current document.
func (l *Ledger) Snapshot() *domain.Document {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc.Clone()
}

func (l *Ledger) reset(doc *domain.Document) {
	if doc.Players == nil {
		doc.Players = make(map[domain.PlayerID]*domain.PlayerRecord)
	}
	if doc.Squads == nil {
		doc.Squads = make(map[string]*domain.SquadRecord)
	}
	if doc.Accounts == nil {
		doc.Accounts = make(map[domain.PlayerID]*domain.Account)
	}

	l.doc = doc
	l.memberOf = make(map[domain.PlayerID]string)
	l.usernames = make(map[string]domain.PlayerID)

	for _, rec := range doc.Players {
		ensureRankCached(rec)
	}

	for _, name := range sortedSquadNames(doc.Squads) {
		squad := doc.Squads[name]
		squad.Name = name
		if !l.indexSquad(squad) {
			slog.Warn("Dropping squad without a valid leader", "squad", name)
			delete(doc.Squads, name)
		}
	}

	for id, acc := range doc.Accounts {
		l.usernames[usernameKey(acc.Username)] = id
	}
}

// indexSquad registers memberships, dropping any member already claimed by
// another squad so that a hand-edited document cannot break exclusivity. It
// reports false when the squad has no members left.
func (l *Ledger) indexSquad(s *domain.SquadRecord) bool {
	if s.Leader == "" {
		return false
	}
	if !s.HasMember(s.Leader) {
		s.Members = append([]domain.PlayerID{s.Leader}, s.Members...)
	}

	members := make([]domain.PlayerID, 0, len(s.Members))
	for _, id := range s.Members {
		if other, taken := l.memberOf[id]; taken {
			slog.Warn("Dropping duplicate squad membership", "player", id, "squad", s.Name, "kept", other)
			continue
		}
		l.memberOf[id] = s.Name
		members = append(members, id)
	}
	s.Members = members
	if len(members) == 0 || !s.HasMember(s.Leader) {
		for _, id := range members {
			delete(l.memberOf, id)
		}
		return false
	}

	requests := make([]domain.PlayerID, 0, len(s.JoinRequests))
	for _, id := range s.JoinRequests {
		if s.HasMember(id) || slices.Contains(requests, id) {
			continue
		}
		requests = append(requests, id)
	}
	s.JoinRequests = requests
	return true
}

// persist must be called with l.mu held.
func (l *Ledger) persist(ctx context.Context) {
	if err := l.save(ctx); err != nil {
		metrics.PersistFailures.Inc()
		slog.Error("Failed to persist guild document", "error", err)
	}
}

func (l *Ledger) save(ctx context.Context) error {
	start := time.Now()
	err := l.store.Save(ctx, l.doc.Clone())

	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.PersistDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	return err
}

func ensureRankCached(rec *domain.PlayerRecord) {
	if !rec.Registered {
		return
	}
	if derived := domain.RankForKills(rec.MonsterKills); derived > rec.Rank {
		rec.Rank = derived
	}
}

func validAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}

func usernameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func observe(op string, err error) {
	status := "success"
	if err != nil {
		status = "rejected"
	}
	metrics.SquadOperations.WithLabelValues(op, status).Inc()
}
