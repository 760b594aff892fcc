package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"guild-progression/internal/core/domain"
)

const killsKey = "guild:leaderboard:kills"

// sortedSet is the slice of the Redis client the leaderboard uses.
type sortedSet interface {
	ZIncrBy(ctx context.Context, key string, increment float64, member string) *redis.FloatCmd
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) *redis.ZSliceCmd
	ZAdd(ctx context.Context, key string, members ...*redis.Z) *redis.IntCmd
	Rename(ctx context.Context, key, newkey string) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Redis ranks players by credited monster kills in a sorted set.
type Redis struct {
	client sortedSet
	closer func() error
	key    string
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Redis{client: client, closer: client.Close, key: killsKey}, nil
}

func (r *Redis) IncrementKills(ctx context.Context, player domain.PlayerID, delta uint64) error {
	if err := r.client.ZIncrBy(ctx, r.key, float64(delta), string(player)).Err(); err != nil {
		return fmt.Errorf("increment kills: %w", err)
	}
	return nil
}

// Seed replaces the sorted set with entries. The new set is built under a
// scratch key and renamed over the live one, so readers never see it half
// filled.
func (r *Redis) Seed(ctx context.Context, entries []domain.LeaderboardEntry) error {
	if len(entries) == 0 {
		if err := r.client.Del(ctx, r.key).Err(); err != nil {
			return fmt.Errorf("clear leaderboard: %w", err)
		}
		return nil
	}

	members := make([]*redis.Z, len(entries))
	for i, e := range entries {
		members[i] = &redis.Z{Score: float64(e.Kills), Member: string(e.Player)}
	}

	scratch := r.key + ":seed"
	if err := r.client.Del(ctx, scratch).Err(); err != nil {
		return fmt.Errorf("clear seed key: %w", err)
	}
	if err := r.client.ZAdd(ctx, scratch, members...).Err(); err != nil {
		return fmt.Errorf("seed leaderboard: %w", err)
	}
	if err := r.client.Rename(ctx, scratch, r.key).Err(); err != nil {
		return fmt.Errorf("swap leaderboard: %w", err)
	}
	return nil
}

func (r *Redis) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	members, err := r.client.ZRevRangeWithScores(ctx, r.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(members))
	for i, m := range members {
		id, ok := m.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			Player: domain.PlayerID(id),
			Kills:  uint64(m.Score),
			Place:  i + 1,
		})
	}
	return entries, nil
}

func (r *Redis) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}
