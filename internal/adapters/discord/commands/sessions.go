package commands

import (
	"sync"

	"guild-progression/internal/core/domain"
	"guild-progression/internal/core/services/session"
)

// playerSessions keeps one session context per player plus the prompt that
// is waiting behind a continue button.
type playerSessions struct {
	mu       sync.RWMutex
	contexts map[domain.PlayerID]*session.Context
	prompts  map[domain.PlayerID]session.Prompt
}

func newPlayerSessions() *playerSessions {
	return &playerSessions{
		contexts: make(map[domain.PlayerID]*session.Context),
		prompts:  make(map[domain.PlayerID]session.Prompt),
	}
}

func (p *playerSessions) Get(id domain.PlayerID) *session.Context {
	p.mu.RLock()
	sc, ok := p.contexts[id]
	p.mu.RUnlock()
	if ok {
		return sc
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if sc, ok := p.contexts[id]; ok {
		return sc
	}
	sc = session.NewContext(id)
	p.contexts[id] = sc
	return sc
}

// SetPrompt records the prompt of the latest reply; nil clears it.
func (p *playerSessions) SetPrompt(id domain.PlayerID, prompt *session.Prompt) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if prompt == nil {
		delete(p.prompts, id)
		return
	}
	p.prompts[id] = *prompt
}

func (p *playerSessions) Prompt(id domain.PlayerID) (session.Prompt, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	prompt, ok := p.prompts[id]
	return prompt, ok
}

// Forget drops everything held for a player, used when they go offline.
func (p *playerSessions) Forget(id domain.PlayerID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.contexts, id)
	delete(p.prompts, id)
}
