package redis

import (
	"context"
	"math"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/movierec/internal/db"
)

// ZAdd adds or updates sorted set members.
func (s *Store) ZAdd(ctx context.Context, key string, members ...db.ScoredMember) error {
	if len(members) == 0 {
		return nil
	}
	cmd := s.b().Zadd().Key(key).ScoreMember()
	for _, m := range members {
		cmd = cmd.ScoreMember(m.Score, m.Member)
	}
	if err := s.do(ctx, cmd.Build()).Error(); err != nil {
		return &db.Error{Op: db.OpZAdd, Err: err}
	}
	return nil
}

// ZRem removes sorted set members.
func (s *Store) ZRem(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	cmd := s.b().Zrem().Key(key).Member(members...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZRem, Err: err}
	}
	return nil
}

// ZRange returns every member in score order, highest first when rev is set.
func (s *Store) ZRange(ctx context.Context, key string, rev bool) ([]string, error) {
	var cmd rueidis.Completed
	if rev {
		cmd = s.b().Zrange().Key(key).Min("0").Max("-1").Rev().Build()
	} else {
		cmd = s.b().Zrange().Key(key).Min("0").Max("-1").Build()
	}
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRange, Err: err}
	}
	return members, nil
}

// ZScore returns the score of member. ok is false when the member is absent.
func (s *Store) ZScore(ctx context.Context, key, member string) (float64, bool, error) {
	cmd := s.b().Zscore().Key(key).Member(member).Build()
	score, err := s.do(ctx, cmd).AsFloat64()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return 0, false, nil
		}
		return 0, false, &db.Error{Op: db.OpZScore, Err: err}
	}
	return score, true, nil
}

// ZCount counts members with minScore <= score <= maxScore.
func (s *Store) ZCount(ctx context.Context, key string, minScore, maxScore float64) (int64, error) {
	cmd := s.b().Zcount().Key(key).Min(formatScore(minScore)).Max(formatScore(maxScore)).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpZCount, Err: err}
	}
	return n, nil
}

// ZCard returns the number of members.
func (s *Store) ZCard(ctx context.Context, key string) (int64, error) {
	cmd := s.b().Zcard().Key(key).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpZCard, Err: err}
	}
	return n, nil
}

func formatScore(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
