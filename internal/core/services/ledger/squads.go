package ledger

import (
	"context"
	"math"
	"slices"
	"sort"

	"guild-progression/internal/core/domain"
)

func (l *Ledger) PlayerSquad(id domain.PlayerID) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	name, ok := l.memberOf[id]
	return name, ok
}

// Squad returns a copy of the squad record.
func (l *Ledger) Squad(name string) (domain.SquadRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.doc.Squads[name]
	if !ok {
		return domain.SquadRecord{}, false
	}
	return *s.Clone(), true
}

// Squads returns copies of every squad ordered by name.
func (l *Ledger) Squads() []domain.SquadRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.SquadRecord, 0, len(l.doc.Squads))
	for _, name := range sortedSquadNames(l.doc.Squads) {
		out = append(out, *l.doc.Squads[name].Clone())
	}
	return out
}

func (l *Ledger) SquadMembers(name string) []domain.PlayerID {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s, ok := l.doc.Squads[name]; ok {
		return slices.Clone(s.Members)
	}
	return nil
}

func (l *Ledger) JoinRequests(name string) []domain.PlayerID {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s, ok := l.doc.Squads[name]; ok {
		return slices.Clone(s.JoinRequests)
	}
	return nil
}

func (l *Ledger) IsSquadLeader(name string, id domain.PlayerID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.doc.Squads[name]
	return ok && s.Leader == id
}

func (l *Ledger) CreateSquad(ctx context.Context, name string, leader domain.PlayerID) (err error) {
	defer func() { observe("create", err) }()

	if err := domain.ValidateName(name); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.doc.Squads[name]; exists {
		return domain.ErrNameTaken
	}
	if _, member := l.memberOf[leader]; member {
		return domain.ErrAlreadyInSquad
	}

	l.doc.Squads[name] = &domain.SquadRecord{
		Name:    name,
		Leader:  leader,
		Members: []domain.PlayerID{leader},
	}
	l.memberOf[leader] = name
	l.dropRequestsFrom(leader)

	l.persist(ctx)
	return nil
}

func (l *Ledger) JoinSquad(ctx context.Context, name string, id domain.PlayerID) (err error) {
	defer func() { observe("join", err) }()

	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.doc.Squads[name]
	if !ok {
		return domain.ErrSquadNotFound
	}
	if current, member := l.memberOf[id]; member {
		if current == name {
			return domain.ErrAlreadyMember
		}
		return domain.ErrAlreadyInSquad
	}
	if len(s.Members) >= s.Capacity() {
		return domain.ErrSquadFull
	}

	s.Members = append(s.Members, id)
	l.memberOf[id] = name
	l.dropRequestsFrom(id)

	l.persist(ctx)
	return nil
}

func (l *Ledger) AddJoinRequest(ctx context.Context, name string, id domain.PlayerID) (err error) {
	defer func() { observe("request", err) }()

	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.doc.Squads[name]
	if !ok {
		return domain.ErrSquadNotFound
	}
	if current, member := l.memberOf[id]; member {
		if current == name {
			return domain.ErrAlreadyMember
		}
		return domain.ErrAlreadyInSquad
	}
	if s.HasRequest(id) {
		return domain.ErrDuplicateRequest
	}

	s.JoinRequests = append(s.JoinRequests, id)
	l.persist(ctx)
	return nil
}

// RemoveJoinRequest reports whether a pending request was removed.
func (l *Ledger) RemoveJoinRequest(ctx context.Context, name string, id domain.PlayerID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.doc.Squads[name]
	if !ok || !s.HasRequest(id) {
		return false
	}

	s.JoinRequests = slices.DeleteFunc(s.JoinRequests, func(p domain.PlayerID) bool { return p == id })
	l.persist(ctx)
	return true
}

// LeaveSquad removes a non-leader from whichever squad holds them and returns
// that squad's name.
func (l *Ledger) LeaveSquad(ctx context.Context, id domain.PlayerID) (name string, err error) {
	defer func() { observe("leave", err) }()

	l.mu.Lock()
	defer l.mu.Unlock()

	name, ok := l.memberOf[id]
	if !ok {
		return "", domain.ErrNotInSquad
	}
	s := l.doc.Squads[name]
	if s.Leader == id {
		return name, domain.ErrMustDisbandInstead
	}

	s.Members = slices.DeleteFunc(s.Members, func(p domain.PlayerID) bool { return p == id })
	delete(l.memberOf, id)

	l.persist(ctx)
	return name, nil
}

// DisbandSquad deletes the squad with its memberships and requests, returning
// the members it had.
func (l *Ledger) DisbandSquad(ctx context.Context, name string, leader domain.PlayerID) (members []domain.PlayerID, err error) {
	defer func() { observe("disband", err) }()

	l.mu.Lock()
	defer l.mu.Unlock()

	s, err := l.ledSquad(name, leader)
	if err != nil {
		return nil, err
	}

	for _, id := range s.Members {
		delete(l.memberOf, id)
	}
	delete(l.doc.Squads, name)

	l.persist(ctx)
	return slices.Clone(s.Members), nil
}

func (l *Ledger) RenameSquad(ctx context.Context, name, newName string, leader domain.PlayerID) (err error) {
	defer func() { observe("rename", err) }()

	if err := domain.ValidateName(newName); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	s, err := l.ledSquad(name, leader)
	if err != nil {
		return err
	}
	if newName == name {
		return nil
	}
	if _, exists := l.doc.Squads[newName]; exists {
		return domain.ErrNameTaken
	}

	delete(l.doc.Squads, name)
	s.Name = newName
	l.doc.Squads[newName] = s
	for _, id := range s.Members {
		l.memberOf[id] = newName
	}

	l.persist(ctx)
	return nil
}

func (l *Ledger) AddToSquadTreasury(ctx context.Context, name string, leader domain.PlayerID, amount float64) (err error) {
	defer func() { observe("deposit", err) }()

	if !validAmount(amount) {
		return domain.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	s, err := l.ledSquad(name, leader)
	if err != nil {
		return err
	}

	s.Treasury += amount
	l.persist(ctx)
	return nil
}

// RemoveFromSquadTreasury fails with ErrInsufficientFunds and leaves the
// treasury unchanged when amount exceeds it.
func (l *Ledger) RemoveFromSquadTreasury(ctx context.Context, name string, leader domain.PlayerID, amount float64) (err error) {
	defer func() { observe("withdraw", err) }()

	if !validAmount(amount) {
		return domain.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	s, err := l.ledSquad(name, leader)
	if err != nil {
		return err
	}
	if amount > s.Treasury {
		return domain.ErrInsufficientFunds
	}

	s.Treasury -= amount
	l.persist(ctx)
	return nil
}

// UpgradeSquadTier performs the tier transition only. Paying for it is the
// caller's job.
func (l *Ledger) UpgradeSquadTier(ctx context.Context, name string, leader domain.PlayerID) (tier domain.SquadTier, err error) {
	defer func() { observe("upgrade", err) }()

	l.mu.Lock()
	defer l.mu.Unlock()

	s, err := l.ledSquad(name, leader)
	if err != nil {
		return domain.SquadTier{}, err
	}

	next, ok := domain.NextTier(s.Tier)
	if !ok {
		return domain.SquadTier{}, domain.ErrMaxTier
	}

	s.Tier = next.Level
	l.persist(ctx)
	return next, nil
}

func (l *Ledger) SetJoinFee(ctx context.Context, name string, leader domain.PlayerID, fee float64) (err error) {
	defer func() { observe("fee", err) }()

	if fee < 0 || math.IsNaN(fee) || math.IsInf(fee, 0) {
		return domain.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	s, err := l.ledSquad(name, leader)
	if err != nil {
		return err
	}

	s.JoinFee = fee
	l.persist(ctx)
	return nil
}

// ledSquad must be called with l.mu held.
func (l *Ledger) ledSquad(name string, leader domain.PlayerID) (*domain.SquadRecord, error) {
	s, ok := l.doc.Squads[name]
	if !ok {
		return nil, domain.ErrSquadNotFound
	}
	if s.Leader != leader {
		return nil, domain.ErrNotLeader
	}
	return s, nil
}

// dropRequestsFrom clears every pending request of a player who just became a
// member somewhere. Must be called with l.mu held.
func (l *Ledger) dropRequestsFrom(id domain.PlayerID) {
	for _, s := range l.doc.Squads {
		if s.HasRequest(id) {
			s.JoinRequests = slices.DeleteFunc(s.JoinRequests, func(p domain.PlayerID) bool { return p == id })
		}
	}
}

func sortedSquadNames(squads map[string]*domain.SquadRecord) []string {
	names := make([]string, 0, len(squads))
	for name := range squads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
