package presence

import (
	"log/slog"
	"sync"

	"guild-progression/internal/core/domain"
)

// Registry tracks which world each online player is in, as reported by the
// game server.
type Registry struct {
	mu        sync.RWMutex
	worlds    map[domain.PlayerID]string
	onOffline []func(domain.PlayerID)
}

func NewRegistry() *Registry {
	return &Registry{
		worlds: make(map[domain.PlayerID]string),
	}
}

// OnOffline registers a hook run after a player goes offline. Hooks are run
// without the registry lock held.
func (r *Registry) OnOffline(fn func(domain.PlayerID)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onOffline = append(r.onOffline, fn)
}

// Online records the player in world, replacing any previous world.
func (r *Registry) Online(id domain.PlayerID, world string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.worlds[id] = world
}

func (r *Registry) Offline(id domain.PlayerID) {
	r.mu.Lock()
	_, was := r.worlds[id]
	delete(r.worlds, id)
	hooks := append(([]func(domain.PlayerID))(nil), r.onOffline...)
	r.mu.Unlock()

	if !was {
		return
	}
	slog.Debug("Player went offline", "player", id)
	for _, fn := range hooks {
		fn(id)
	}
}

func (r *Registry) World(id domain.PlayerID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	world, ok := r.worlds[id]
	return world, ok
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.worlds)
}
