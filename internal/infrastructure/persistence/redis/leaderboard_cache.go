package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/scoring"
)

// leaderboardKey is the sorted set holding every user's engagement
// score, member = user ID, score = system score.
const leaderboardKey = PrefixLeaderboard + "scores"

// LeaderboardCache maintains the platform-wide score ranking in a
// Redis sorted set. Writes happen on every scored interaction; the
// full set is rebuilt periodically from Postgres to reconcile drift.
type LeaderboardCache struct {
	cache *Cache
}

// NewLeaderboardCache creates a leaderboard cache backed by the given Cache.
func NewLeaderboardCache(cache *Cache) *LeaderboardCache {
	return &LeaderboardCache{cache: cache}
}

// SetScore records the user's current score in the ranking.
func (l *LeaderboardCache) SetScore(ctx context.Context, userID int64, score float64) error {
	return l.cache.client.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  score,
		Member: strconv.FormatInt(userID, 10),
	}).Err()
}

// Remove drops a user from the ranking, e.g. after deactivation.
func (l *LeaderboardCache) Remove(ctx context.Context, userID int64) error {
	return l.cache.client.ZRem(ctx, leaderboardKey, strconv.FormatInt(userID, 10)).Err()
}

// Top returns the highest-scored users in descending order.
func (l *LeaderboardCache) Top(ctx context.Context, limit int) ([]scoring.RankedScore, error) {
	if limit <= 0 {
		return nil, nil
	}

	members, err := l.cache.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	ranked := make([]scoring.RankedScore, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(fmt.Sprint(m.Member), 10, 64)
		if err != nil {
			continue
		}
		ranked = append(ranked, scoring.RankedScore{
			UserID: id,
			Score:  m.Score,
		})
	}
	return ranked, nil
}

// Rank returns the user's zero-based position in the ranking, or
// ErrCacheMiss when the user is not ranked.
func (l *LeaderboardCache) Rank(ctx context.Context, userID int64) (int64, error) {
	rank, err := l.cache.client.ZRevRank(ctx, leaderboardKey, strconv.FormatInt(userID, 10)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, ErrCacheMiss
		}
		return 0, err
	}
	return rank, nil
}

// Size returns the number of ranked users.
func (l *LeaderboardCache) Size(ctx context.Context) (int64, error) {
	return l.cache.client.ZCard(ctx, leaderboardKey).Result()
}

// Rebuild atomically replaces the whole ranking with the given
// entries. A pipeline keeps the delete and the re-insert in one
// round trip so readers never see a half-empty set for long.
func (l *LeaderboardCache) Rebuild(ctx context.Context, entries []scoring.RankedScore) error {
	pipe := l.cache.client.TxPipeline()
	pipe.Del(ctx, leaderboardKey)

	if len(entries) > 0 {
		members := make([]redis.Z, len(entries))
		for i, e := range entries {
			members[i] = redis.Z{
				Score:  e.Score,
				Member: strconv.FormatInt(e.UserID, 10),
			}
		}
		pipe.ZAdd(ctx, leaderboardKey, members...)
	}

	_, err := pipe.Exec(ctx)
	return err
}
