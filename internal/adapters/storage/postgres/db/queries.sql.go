package db

import (
	"context"
)

const clearDocument = `TRUNCATE squad_members, squads, players, accounts`

func (q *Queries) ClearDocument(ctx context.Context) error {
	_, err := q.db.Exec(ctx, clearDocument)
	return err
}

const listPlayers = `SELECT id, registered, monster_kills, rank, coins FROM players ORDER BY id`

func (q *Queries) ListPlayers(ctx context.Context) ([]Player, error) {
	rows, err := q.db.Query(ctx, listPlayers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Player
	for rows.Next() {
		var i Player
		if err := rows.Scan(&i.ID, &i.Registered, &i.MonsterKills, &i.Rank, &i.Coins); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertPlayer = `INSERT INTO players (id, registered, monster_kills, rank, coins) VALUES ($1, $2, $3, $4, $5)`

func (q *Queries) InsertPlayer(ctx context.Context, arg Player) error {
	_, err := q.db.Exec(ctx, insertPlayer, arg.ID, arg.Registered, arg.MonsterKills, arg.Rank, arg.Coins)
	return err
}

const listSquads = `SELECT name, leader, tier, treasury, join_fee FROM squads ORDER BY name`

func (q *Queries) ListSquads(ctx context.Context) ([]Squad, error) {
	rows, err := q.db.Query(ctx, listSquads)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Squad
	for rows.Next() {
		var i Squad
		if err := rows.Scan(&i.Name, &i.Leader, &i.Tier, &i.Treasury, &i.JoinFee); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertSquad = `INSERT INTO squads (name, leader, tier, treasury, join_fee) VALUES ($1, $2, $3, $4, $5)`

func (q *Queries) InsertSquad(ctx context.Context, arg Squad) error {
	_, err := q.db.Exec(ctx, insertSquad, arg.Name, arg.Leader, arg.Tier, arg.Treasury, arg.JoinFee)
	return err
}

const listSquadMembers = `SELECT squad_name, player_id, position, pending FROM squad_members ORDER BY squad_name, pending, position`

func (q *Queries) ListSquadMembers(ctx context.Context) ([]SquadMember, error) {
	rows, err := q.db.Query(ctx, listSquadMembers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SquadMember
	for rows.Next() {
		var i SquadMember
		if err := rows.Scan(&i.SquadName, &i.PlayerID, &i.Position, &i.Pending); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertSquadMember = `INSERT INTO squad_members (squad_name, player_id, position, pending) VALUES ($1, $2, $3, $4)`

func (q *Queries) InsertSquadMember(ctx context.Context, arg SquadMember) error {
	_, err := q.db.Exec(ctx, insertSquadMember, arg.SquadName, arg.PlayerID, arg.Position, arg.Pending)
	return err
}

const listAccounts = `SELECT player_id, username, password_hash FROM accounts ORDER BY player_id`

func (q *Queries) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := q.db.Query(ctx, listAccounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(&i.PlayerID, &i.Username, &i.PasswordHash); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertAccount = `INSERT INTO accounts (player_id, username, password_hash) VALUES ($1, $2, $3)`

func (q *Queries) InsertAccount(ctx context.Context, arg Account) error {
	_, err := q.db.Exec(ctx, insertAccount, arg.PlayerID, arg.Username, arg.PasswordHash)
	return err
}
