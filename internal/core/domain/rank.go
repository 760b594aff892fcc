package domain

import "fmt"

// Rank is a player progression tier earned by monster kills. The zero value
// means the player has not reached the first threshold yet.
type Rank int

const (
	RankNone Rank = iota
	RankC
	RankB
	RankA
	RankS
	RankSS
)

type rankInfo struct {
	code      string
	title     string
	threshold uint64
}

var ranks = map[Rank]rankInfo{
	RankC:  {code: "C", title: "novice", threshold: 10},
	RankB:  {code: "B", title: "veteran", threshold: 100},
	RankA:  {code: "A", title: "master", threshold: 1000},
	RankS:  {code: "S", title: "hero", threshold: 5000},
	RankSS: {code: "SS", title: "ultra hero", threshold: 10000},
}

// Ranks lists every earnable rank in ascending order.
func Ranks() []Rank {
	return []Rank{RankC, RankB, RankA, RankS, RankSS}
}

// RankForKills returns the highest rank whose threshold is at or below kills.
func RankForKills(kills uint64) Rank {
	best := RankNone
	for _, r := range Ranks() {
		if kills >= ranks[r].threshold {
			best = r
		}
	}
	return best
}

// Next returns the successor rank, or false at the top.
func (r Rank) Next() (Rank, bool) {
	if r < RankNone || r >= RankSS {
		return RankNone, false
	}
	return r + 1, true
}

func (r Rank) Valid() bool {
	_, ok := ranks[r]
	return ok
}

func (r Rank) Threshold() uint64 {
	return ranks[r].threshold
}

// Title is the display identity shown next to the code.
func (r Rank) Title() string {
	if info, ok := ranks[r]; ok {
		return info.title
	}
	return "unranked"
}

func (r Rank) String() string {
	if info, ok := ranks[r]; ok {
		return info.code
	}
	return ""
}

// Announced reports whether reaching r is broadcast to everyone.
func (r Rank) Announced() bool {
	return r >= RankS
}

// Celebrated reports whether reaching r triggers the celebration sequence.
func (r Rank) Celebrated() bool {
	return r == RankSS
}

// ParseRank accepts a rank code; the empty string yields RankNone.
func ParseRank(code string) (Rank, error) {
	if code == "" {
		return RankNone, nil
	}
	for r, info := range ranks {
		if info.code == code {
			return r, nil
		}
	}
	return RankNone, fmt.Errorf("unknown rank %q", code)
}
