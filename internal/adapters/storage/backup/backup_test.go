package backup

import (
	"path/filepath"
	"testing"
	"time"

	"guild-progression/internal/core/domain"
)

func TestWriteAndRead(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "backups"), 5)

	doc := domain.NewDocument()
	doc.Players["p1"] = &domain.PlayerRecord{Registered: true, MonsterKills: 5000, Rank: domain.RankS, Coins: 10}
	doc.Squads["Foo"] = &domain.SquadRecord{Name: "Foo", Leader: "p1", Members: []domain.PlayerID{"p1"}, Treasury: 42}

	path, err := w.Write(doc)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if p := got.Players["p1"]; p == nil || p.Rank != domain.RankS || p.MonsterKills != 5000 {
		t.Errorf("unexpected player: %+v", p)
	}
	if s := got.Squads["Foo"]; s == nil || s.Treasury != 42 {
		t.Errorf("unexpected squad: %+v", s)
	}
}

func TestRetention(t *testing.T) {
	w := NewWriter(t.TempDir(), 2)
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	w.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	var written []string
	for range 4 {
		path, err := w.Write(domain.NewDocument())
		if err != nil {
			t.Fatalf("Write: %v", err)
		}
		written = append(written, path)
	}

	paths, err := w.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 backups, got %d", len(paths))
	}
	if paths[0] != written[2] || paths[1] != written[3] {
		t.Errorf("expected newest backups kept, got %v", paths)
	}
}

func TestListMissingDirectory(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "absent"), 1)
	paths, err := w.List()
	if err != nil || len(paths) != 0 {
		t.Errorf("expected no backups, got %v, %v", paths, err)
	}
}
