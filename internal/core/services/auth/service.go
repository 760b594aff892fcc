package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"guild-progression/internal/core/domain"
)

const playerTokenTTL = 24 * time.Hour

type AccountLedger interface {
	CreateAccount(ctx context.Context, id domain.PlayerID, username, passwordHash string) error
	Account(id domain.PlayerID) (domain.Account, bool)
	UsernameTaken(username string) bool
}

// Service keeps accounts in the ledger and login state in memory. A player
// stays logged in until Logout, which the presence feed calls when the player
// goes offline.
type Service struct {
	ledger   AccountLedger
	tokens   *TokenIssuer
	cost     int
	mu       sync.RWMutex
	loggedIn map[domain.PlayerID]struct{}
}

func NewService(ledger AccountLedger, tokens *TokenIssuer) *Service {
	return &Service{
		ledger:   ledger,
		tokens:   tokens,
		cost:     bcrypt.DefaultCost,
		loggedIn: make(map[domain.PlayerID]struct{}),
	}
}

func (s *Service) HasAccount(id domain.PlayerID) bool {
	_, ok := s.ledger.Account(id)
	return ok
}

// CheckUsername validates a username before the password is asked for.
func (s *Service) CheckUsername(username string) error {
	username = strings.TrimSpace(username)
	if err := domain.ValidateName(username); err != nil {
		return err
	}
	if s.ledger.UsernameTaken(username) {
		return domain.ErrUsernameTaken
	}
	return nil
}

// Register creates the account, logs the player in and returns a player token.
func (s *Service) Register(ctx context.Context, id domain.PlayerID, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if err := domain.ValidateName(username); err != nil {
		return "", err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return "", err
	}
	if s.HasAccount(id) {
		return "", domain.ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	if err := s.ledger.CreateAccount(ctx, id, username, string(hash)); err != nil {
		return "", err
	}

	slog.Info("Account registered", "player", id, "username", username)
	return s.startSession(id)
}

func (s *Service) Login(ctx context.Context, id domain.PlayerID, password string) (string, error) {
	acc, ok := s.ledger.Account(id)
	if !ok {
		return "", domain.ErrNoAccount
	}

	err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("compare password: %w", err)
	}

	return s.startSession(id)
}

func (s *Service) Logout(id domain.PlayerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.loggedIn, id)
}

func (s *Service) IsLoggedIn(id domain.PlayerID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.loggedIn[id]
	return ok
}

// Username returns the account name, or "" without an account.
func (s *Service) Username(id domain.PlayerID) string {
	acc, _ := s.ledger.Account(id)
	return acc.Username
}

func (s *Service) startSession(id domain.PlayerID) (string, error) {
	token, err := s.tokens.Issue(string(id), AudiencePlayer, playerTokenTTL)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.loggedIn[id] = struct{}{}
	s.mu.Unlock()
	return token, nil
}
