package domain

import (
	"slices"
	"time"
)

// PlayerID is the stable identity of a player across sessions.
type PlayerID string

type PlayerRecord struct {
	Registered   bool
	MonsterKills uint64
	Rank         Rank
	Coins        float64
}

type SquadRecord struct {
	Name         string
	Leader       PlayerID
	Members      []PlayerID
	Tier         int
	Treasury     float64
	JoinFee      float64
	JoinRequests []PlayerID
}

func (s *SquadRecord) HasMember(id PlayerID) bool {
	return slices.Contains(s.Members, id)
}

func (s *SquadRecord) HasRequest(id PlayerID) bool {
	return slices.Contains(s.JoinRequests, id)
}

func (s *SquadRecord) Capacity() int {
	return TierByLevel(s.Tier).Capacity
}

func (s *SquadRecord) Clone() *SquadRecord {
	c := *s
	c.Members = slices.Clone(s.Members)
	c.JoinRequests = slices.Clone(s.JoinRequests)
	return &c
}

// Account holds login credentials; PasswordHash is a bcrypt hash.
type Account struct {
	Username     string
	PasswordHash string
}

// Document is the whole persisted guild state.
type Document struct {
	Players  map[PlayerID]*PlayerRecord
	Squads   map[string]*SquadRecord
	Accounts map[PlayerID]*Account
}

func NewDocument() *Document {
	return &Document{
		Players:  make(map[PlayerID]*PlayerRecord),
		Squads:   make(map[string]*SquadRecord),
		Accounts: make(map[PlayerID]*Account),
	}
}

// Clone returns a deep copy safe to hand to another goroutine.
func (d *Document) Clone() *Document {
	out := NewDocument()
	for id, p := range d.Players {
		cp := *p
		out.Players[id] = &cp
	}
	for name, s := range d.Squads {
		out.Squads[name] = s.Clone()
	}
	for id, a := range d.Accounts {
		ca := *a
		out.Accounts[id] = &ca
	}
	return out
}

// Promotion is emitted whenever a player's cached rank moves up.
type Promotion struct {
	Player  PlayerID
	OldRank Rank
	NewRank Rank
	Kills   uint64
}

type VictimKind string

const (
	VictimMonster VictimKind = "monster"
	VictimPlayer  VictimKind = "player"
)

type KillEvent struct {
	Killer PlayerID
	World  string
	Victim VictimKind
	At     time.Time
}

type LeaderboardEntry struct {
	Player PlayerID
	Kills  uint64
	Place  int
}
