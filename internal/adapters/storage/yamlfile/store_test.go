package yamlfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"guild-progression/internal/core/domain"
)

func sampleDocument() *domain.Document {
	doc := domain.NewDocument()
	doc.Players["p1"] = &domain.PlayerRecord{Registered: true, MonsterKills: 150, Rank: domain.RankB, Coins: 20}
	doc.Players["p2"] = &domain.PlayerRecord{MonsterKills: 4}
	doc.Squads["Foo"] = &domain.SquadRecord{
		Name:         "Foo",
		Leader:       "p1",
		Members:      []domain.PlayerID{"p1"},
		Tier:         1,
		Treasury:     300,
		JoinFee:      50,
		JoinRequests: []domain.PlayerID{"p2"},
	}
	doc.Accounts["p1"] = &domain.Account{Username: "hero", PasswordHash: "hash"}
	return doc
}

func TestStore_LoadMissingFile(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "nested", "guild.yaml"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	doc, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Players) != 0 || len(doc.Squads) != 0 {
		t.Errorf("expected empty document, got %+v", doc)
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "guild.yaml")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if err := store.Save(ctx, sampleDocument()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	doc, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	p := doc.Players["p1"]
	if p == nil || p.Rank != domain.RankB || p.MonsterKills != 150 || !p.Registered {
		t.Errorf("unexpected player: %+v", p)
	}
	s := doc.Squads["Foo"]
	if s == nil || s.Name != "Foo" || s.Tier != 1 || s.JoinFee != 50 || len(s.JoinRequests) != 1 {
		t.Errorf("unexpected squad: %+v", s)
	}
	if doc.Accounts["p1"] == nil || doc.Accounts["p1"].Username != "hero" {
		t.Errorf("unexpected account: %+v", doc.Accounts["p1"])
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the data file, found %d entries", len(entries))
	}
}

func TestEncode_KeyPaths(t *testing.T) {
	data, err := Encode(sampleDocument())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	text := string(data)
	for _, key := range []string{"players:", "monsterKills: 150", "rank: B", "squads:", "joinFee: 50", "joinRequests:", "leader: p1"} {
		if !strings.Contains(text, key) {
			t.Errorf("expected %q in:\n%s", key, text)
		}
	}
}

func TestDecode(t *testing.T) {
	t.Run("unknown rank is dropped", func(t *testing.T) {
		doc, err := Decode([]byte("players:\n  p1:\n    registered: true\n    monsterKills: 12\n    rank: Z\n"))
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if doc.Players["p1"].Rank != domain.RankNone {
			t.Errorf("expected no rank, got %v", doc.Players["p1"].Rank)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		doc, err := Decode(nil)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if doc.Players == nil || doc.Squads == nil {
			t.Error("maps should be initialised")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := Decode([]byte("players: [")); err == nil {
			t.Error("expected error")
		}
	})
}
