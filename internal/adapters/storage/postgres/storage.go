package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"guild-progression/internal/adapters/storage/postgres/db"
	"guild-progression/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// Conn is what the store needs from a pool: plain queries and transactions.
type Conn interface {
	db.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresStore keeps the guild document in normalized tables. Save replaces
// the whole document in one transaction.
type PostgresStore struct {
	pool *pgxpool.Pool
	conn Conn
	q    *db.Queries
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &PostgresStore{
		pool: pool,
		conn: pool,
		q:    db.New(pool),
	}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates the tables when they do not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.conn.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (*domain.Document, error) {
	doc := domain.NewDocument()

	players, err := s.q.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	for _, row := range players {
		rank, err := domain.ParseRank(row.Rank)
		if err != nil {
			slog.Warn("Ignoring stored rank", "player", row.ID, "rank", row.Rank)
		}
		doc.Players[domain.PlayerID(row.ID)] = &domain.PlayerRecord{
			Registered:   row.Registered,
			MonsterKills: uint64(max(row.MonsterKills, 0)),
			Rank:         rank,
			Coins:        row.Coins,
		}
	}

	squads, err := s.q.ListSquads(ctx)
	if err != nil {
		return nil, fmt.Errorf("list squads: %w", err)
	}
	for _, row := range squads {
		doc.Squads[row.Name] = &domain.SquadRecord{
			Name:     row.Name,
			Leader:   domain.PlayerID(row.Leader),
			Tier:     int(row.Tier),
			Treasury: row.Treasury,
			JoinFee:  row.JoinFee,
		}
	}

	members, err := s.q.ListSquadMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list squad members: %w", err)
	}
	for _, row := range members {
		sq, ok := doc.Squads[row.SquadName]
		if !ok {
			continue
		}
		id := domain.PlayerID(row.PlayerID)
		if row.Pending {
			sq.JoinRequests = append(sq.JoinRequests, id)
		} else {
			sq.Members = append(sq.Members, id)
		}
	}

	accounts, err := s.q.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	for _, row := range accounts {
		doc.Accounts[domain.PlayerID(row.PlayerID)] = &domain.Account{
			Username:     row.Username,
			PasswordHash: row.PasswordHash,
		}
	}

	return doc, nil
}

func (s *PostgresStore) Save(ctx context.Context, doc *domain.Document) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := writeDocument(ctx, s.q.WithTx(tx), doc); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func writeDocument(ctx context.Context, q *db.Queries, doc *domain.Document) error {
	if err := q.ClearDocument(ctx); err != nil {
		return fmt.Errorf("clear document: %w", err)
	}

	for id, p := range doc.Players {
		err := q.InsertPlayer(ctx, db.Player{
			ID:           string(id),
			Registered:   p.Registered,
			MonsterKills: int64(p.MonsterKills),
			Rank:         p.Rank.String(),
			Coins:        p.Coins,
		})
		if err != nil {
			return fmt.Errorf("insert player %s: %w", id, err)
		}
	}

	for name, sq := range doc.Squads {
		err := q.InsertSquad(ctx, db.Squad{
			Name:     name,
			Leader:   string(sq.Leader),
			Tier:     int32(sq.Tier),
			Treasury: sq.Treasury,
			JoinFee:  sq.JoinFee,
		})
		if err != nil {
			return fmt.Errorf("insert squad %s: %w", name, err)
		}
		if err := insertMembers(ctx, q, name, sq.Members, false); err != nil {
			return err
		}
		if err := insertMembers(ctx, q, name, sq.JoinRequests, true); err != nil {
			return err
		}
	}

	for id, a := range doc.Accounts {
		err := q.InsertAccount(ctx, db.Account{
			PlayerID:     string(id),
			Username:     a.Username,
			PasswordHash: a.PasswordHash,
		})
		if err != nil {
			return fmt.Errorf("insert account %s: %w", id, err)
		}
	}
	return nil
}

func insertMembers(ctx context.Context, q *db.Queries, squad string, ids []domain.PlayerID, pending bool) error {
	for i, id := range ids {
		err := q.InsertSquadMember(ctx, db.SquadMember{
			SquadName: squad,
			PlayerID:  string(id),
			Position:  int32(i),
			Pending:   pending,
		})
		if err != nil {
			return fmt.Errorf("insert squad member %s/%s: %w", squad, id, err)
		}
	}
	return nil
}
