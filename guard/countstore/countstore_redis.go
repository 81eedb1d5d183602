package countstore

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

var redisCountPrefix string = "count/"

// RedisCountStore keeps one sorted set per chat, member = decimal user ID,
// score = accumulated hit count.
type RedisCountStore struct {
	Client *redis.Client
}

var _ CountStore = (*RedisCountStore)(nil)

func NewRedisCountStore(redisURL string) (*RedisCountStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	_, err = rdb.Ping(context.TODO()).Result()
	if err != nil {
		return nil, err
	}
	return &RedisCountStore{Client: rdb}, nil
}

func (s *RedisCountStore) Increment(ctx context.Context, chatID, userID int64, delta int) error {
	if delta <= 0 {
		return nil
	}
	key := redisCountPrefix + chatBucket(chatID)
	return s.Client.ZIncrBy(ctx, key, float64(delta), strconv.FormatInt(userID, 10)).Err()
}

func (s *RedisCountStore) GetCount(ctx context.Context, chatID, userID int64) (int64, error) {
	key := redisCountPrefix + chatBucket(chatID)
	score, err := s.Client.ZScore(ctx, key, strconv.FormatInt(userID, 10)).Result()
	if err == redis.Nil {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return int64(score), nil
}

func (s *RedisCountStore) TopN(ctx context.Context, chatID int64, n int) ([]UserCount, error) {
	key := redisCountPrefix + chatBucket(chatID)
	// over-fetch so the client-side tie-break can't drop a row that redis
	// ordered differently (redis breaks score ties lexically by member)
	fetch := int64(n)*2 + 16
	vals, err := s.Client.ZRevRangeWithScores(ctx, key, 0, fetch-1).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	rows := parseZRows(vals)

	// a full window may have cut through a tie group at the boundary score;
	// pull the whole group so the lowest-ID contenders can't be dropped
	if int64(len(vals)) == fetch && len(rows) > 0 {
		boundary := strconv.FormatFloat(vals[len(vals)-1].Score, 'f', -1, 64)
		tied, err := s.Client.ZRangeByScoreWithScores(ctx, key, &redis.ZRangeBy{
			Min: boundary,
			Max: boundary,
		}).Result()
		if err != nil && err != redis.Nil {
			return nil, err
		}
		rows = mergeRows(rows, parseZRows(tied))
	}
	return sortAndTruncate(rows, n), nil
}

func parseZRows(vals []redis.Z) []UserCount {
	rows := make([]UserCount, 0, len(vals))
	for _, z := range vals {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		uid, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		rows = append(rows, UserCount{UserID: uid, Count: int64(z.Score)})
	}
	return rows
}
