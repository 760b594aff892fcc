package db

type Player struct {
	ID           string
	Registered   bool
	MonsterKills int64
	Rank         string
	Coins        float64
}

type Squad struct {
	Name     string
	Leader   string
	Tier     int32
	Treasury float64
	JoinFee  float64
}

type SquadMember struct {
	SquadName string
	PlayerID  string
	Position  int32
	Pending   bool
}

type Account struct {
	PlayerID     string
	Username     string
	PasswordHash string
}
