package yamlfile

import (
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"guild-progression/internal/core/domain"
)

// The persisted layout uses the key paths players.<id>.* and squads.<name>.*.
type fileDocument struct {
	Players  map[string]filePlayer  `yaml:"players"`
	Squads   map[string]fileSquad   `yaml:"squads"`
	Accounts map[string]fileAccount `yaml:"accounts,omitempty"`
}

type filePlayer struct {
	Registered   bool    `yaml:"registered"`
	MonsterKills uint64  `yaml:"monsterKills"`
	Rank         string  `yaml:"rank,omitempty"`
	Coins        float64 `yaml:"coins"`
}

type fileSquad struct {
	Leader       string   `yaml:"leader"`
	Tier         int      `yaml:"tier"`
	Treasury     float64  `yaml:"treasury"`
	JoinFee      float64  `yaml:"joinFee"`
	Members      []string `yaml:"members"`
	JoinRequests []string `yaml:"joinRequests"`
}

type fileAccount struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"passwordHash"`
}

// Encode renders a document in the YAML layout.
func Encode(doc *domain.Document) ([]byte, error) {
	out := fileDocument{
		Players:  make(map[string]filePlayer, len(doc.Players)),
		Squads:   make(map[string]fileSquad, len(doc.Squads)),
		Accounts: make(map[string]fileAccount, len(doc.Accounts)),
	}
	for id, p := range doc.Players {
		out.Players[string(id)] = filePlayer{
			Registered:   p.Registered,
			MonsterKills: p.MonsterKills,
			Rank:         p.Rank.String(),
			Coins:        p.Coins,
		}
	}
	for name, s := range doc.Squads {
		out.Squads[name] = fileSquad{
			Leader:       string(s.Leader),
			Tier:         s.Tier,
			Treasury:     s.Treasury,
			JoinFee:      s.JoinFee,
			Members:      idStrings(s.Members),
			JoinRequests: idStrings(s.JoinRequests),
		}
	}
	for id, a := range doc.Accounts {
		out.Accounts[string(id)] = fileAccount{Username: a.Username, PasswordHash: a.PasswordHash}
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// Decode parses the YAML layout. Empty input yields an empty document.
func Decode(data []byte) (*domain.Document, error) {
	var in fileDocument
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	doc := domain.NewDocument()
	for id, p := range in.Players {
		rank, err := domain.ParseRank(p.Rank)
		if err != nil {
			slog.Warn("Ignoring stored rank", "player", id, "rank", p.Rank)
		}
		doc.Players[domain.PlayerID(id)] = &domain.PlayerRecord{
			Registered:   p.Registered,
			MonsterKills: p.MonsterKills,
			Rank:         rank,
			Coins:        p.Coins,
		}
	}
	for name, s := range in.Squads {
		doc.Squads[name] = &domain.SquadRecord{
			Name:         name,
			Leader:       domain.PlayerID(s.Leader),
			Tier:         s.Tier,
			Treasury:     s.Treasury,
			JoinFee:      s.JoinFee,
			Members:      playerIDs(s.Members),
			JoinRequests: playerIDs(s.JoinRequests),
		}
	}
	for id, a := range in.Accounts {
		doc.Accounts[domain.PlayerID(id)] = &domain.Account{Username: a.Username, PasswordHash: a.PasswordHash}
	}
	return doc, nil
}

func idStrings(ids []domain.PlayerID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func playerIDs(ids []string) []domain.PlayerID {
	out := make([]domain.PlayerID, len(ids))
	for i, id := range ids {
		out[i] = domain.PlayerID(id)
	}
	return out
}
