package ledger

import (
	"context"

	"guild-progression/internal/core/domain"
)

// CreateAccount stores credentials for a player. Usernames are unique
// regardless of case.
func (l *Ledger) CreateAccount(ctx context.Context, id domain.PlayerID, username, passwordHash string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.doc.Accounts[id]; exists {
		return domain.ErrAccountExists
	}
	key := usernameKey(username)
	if _, taken := l.usernames[key]; taken {
		return domain.ErrUsernameTaken
	}

	l.doc.Accounts[id] = &domain.Account{Username: username, PasswordHash: passwordHash}
	l.usernames[key] = id

	l.persist(ctx)
	return nil
}

func (l *Ledger) Account(id domain.PlayerID) (domain.Account, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.doc.Accounts[id]
	if !ok {
		return domain.Account{}, false
	}
	return *acc, true
}

func (l *Ledger) UsernameTaken(username string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, taken := l.usernames[usernameKey(username)]
	return taken
}
