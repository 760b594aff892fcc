package domain

// SquadTier describes one capacity level of a squad. UpgradeCost is what the
// treasury pays to reach this level from the previous one.
type SquadTier struct {
	Level       int
	Name        string
	Capacity    int
	UpgradeCost float64
}

var squadTiers = []SquadTier{
	{Level: 0, Name: "Brown", Capacity: 3, UpgradeCost: 0},
	{Level: 1, Name: "Azure", Capacity: 10, UpgradeCost: 10000},
	{Level: 2, Name: "Violet", Capacity: 20, UpgradeCost: 100000},
	{Level: 3, Name: "Gold", Capacity: 50, UpgradeCost: 1000000},
}

// SquadTiers returns a copy of the tier table ordered by level.
func SquadTiers() []SquadTier {
	out := make([]SquadTier, len(squadTiers))
	copy(out, squadTiers)
	return out
}

func MaxTierLevel() int {
	return squadTiers[len(squadTiers)-1].Level
}

// TierByLevel falls back to the base tier for unknown levels.
func TierByLevel(level int) SquadTier {
	if level < 0 || level >= len(squadTiers) {
		return squadTiers[0]
	}
	return squadTiers[level]
}

// NextTier returns the tier after level, or false when level is the top.
func NextTier(level int) (SquadTier, bool) {
	if level < 0 || level+1 >= len(squadTiers) {
		return SquadTier{}, false
	}
	return squadTiers[level+1], true
}
