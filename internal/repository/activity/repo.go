// Package activity stores per-user watch history, likes and personal lists,
// plus the per-movie view and like timelines used for popularity.
package activity

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/kailas-cloud/movierec/internal/db"
	"github.com/kailas-cloud/movierec/internal/domain"
)

// store is the consumer interface for activity (ISP).
type store interface {
	Exists(ctx context.Context, key string) (bool, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	ZAdd(ctx context.Context, key string, members ...db.ScoredMember) error
	ZRem(ctx context.Context, key string, members ...string) error
	ZRange(ctx context.Context, key string, rev bool) ([]string, error)
	ZScore(ctx context.Context, key, member string) (float64, bool, error)
	ZCount(ctx context.Context, key string, minScore, maxScore float64) (int64, error)
}

// Repo implements the activity usecase repository and recommend.HistoryReader.
type Repo struct {
	store  store
	prefix string
}

// New creates an activity repository. An empty prefix falls back to domain.KeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// RecentlyViewed reports whether a view of movieID by userID is still inside the dedupe window.
func (r *Repo) RecentlyViewed(ctx context.Context, userID string, movieID int64) (bool, error) {
	ok, err := r.store.Exists(ctx, r.seenKey(userID, movieID))
	if err != nil {
		return false, fmt.Errorf("check recent view: %w", err)
	}
	return ok, nil
}

// RecordView appends a view event (time, user, client address) to the movie
// timeline, moves the movie to the top of the user's history and opens a
// dedupe window of length window.
func (r *Repo) RecordView(
	ctx context.Context, userID string, movieID int64, ip string, at time.Time, window time.Duration,
) error {
	ms := float64(at.UnixMilli())
	event := strconv.FormatInt(at.UnixNano(), 10) + ":" + userID + ":" + ip
	if err := r.store.ZAdd(ctx, r.viewsKey(movieID), db.ScoredMember{Member: event, Score: ms}); err != nil {
		return fmt.Errorf("record view event: %w", err)
	}
	if err := r.store.ZAdd(ctx, r.historyKey(userID), db.ScoredMember{Member: member(movieID), Score: ms}); err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	if window > 0 {
		if err := r.store.SetWithTTL(ctx, r.seenKey(userID, movieID), []byte("1"), window); err != nil {
			return fmt.Errorf("mark view: %w", err)
		}
	}
	return nil
}

// WatchedIDs returns the set of movies the user has watched.
func (r *Repo) WatchedIDs(ctx context.Context, userID string) (map[int64]struct{}, error) {
	ids, err := r.ids(ctx, r.historyKey(userID), false)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// HasWatched reports whether the user has ever watched movieID.
func (r *Repo) HasWatched(ctx context.Context, userID string, movieID int64) (bool, error) {
	return r.contains(ctx, r.historyKey(userID), movieID)
}

// History returns watched movie ids, most recent first.
func (r *Repo) History(ctx context.Context, userID string) ([]int64, error) {
	return r.ids(ctx, r.historyKey(userID), true)
}

// IsLiked reports whether the user likes movieID.
func (r *Repo) IsLiked(ctx context.Context, userID string, movieID int64) (bool, error) {
	return r.contains(ctx, r.likesKey(userID), movieID)
}

// SetLiked adds or removes a like on both the user set and the movie timeline.
func (r *Repo) SetLiked(ctx context.Context, userID string, movieID int64, liked bool, at time.Time) error {
	if !liked {
		if err := r.store.ZRem(ctx, r.likesKey(userID), member(movieID)); err != nil {
			return fmt.Errorf("unlike: %w", err)
		}
		if err := r.store.ZRem(ctx, r.movieLikesKey(movieID), userID); err != nil {
			return fmt.Errorf("unlike timeline: %w", err)
		}
		return nil
	}
	ms := float64(at.UnixMilli())
	if err := r.store.ZAdd(ctx, r.likesKey(userID), db.ScoredMember{Member: member(movieID), Score: ms}); err != nil {
		return fmt.Errorf("like: %w", err)
	}
	if err := r.store.ZAdd(ctx, r.movieLikesKey(movieID), db.ScoredMember{Member: userID, Score: ms}); err != nil {
		return fmt.Errorf("like timeline: %w", err)
	}
	return nil
}

// InList reports whether movieID is on the user's list.
func (r *Repo) InList(ctx context.Context, userID string, movieID int64) (bool, error) {
	return r.contains(ctx, r.listKey(userID), movieID)
}

// SetInList adds or removes movieID from the user's list.
func (r *Repo) SetInList(ctx context.Context, userID string, movieID int64, in bool, at time.Time) error {
	if !in {
		if err := r.store.ZRem(ctx, r.listKey(userID), member(movieID)); err != nil {
			return fmt.Errorf("remove from list: %w", err)
		}
		return nil
	}
	m := db.ScoredMember{Member: member(movieID), Score: float64(at.UnixMilli())}
	if err := r.store.ZAdd(ctx, r.listKey(userID), m); err != nil {
		return fmt.Errorf("add to list: %w", err)
	}
	return nil
}

// List returns listed movie ids, most recently added first.
func (r *Repo) List(ctx context.Context, userID string) ([]int64, error) {
	return r.ids(ctx, r.listKey(userID), true)
}

// RecentCounts returns likes and views of movieID at or after since.
func (r *Repo) RecentCounts(ctx context.Context, movieID int64, since time.Time) (likes, views int64, err error) {
	from := float64(since.UnixMilli())
	likes, err = r.store.ZCount(ctx, r.movieLikesKey(movieID), from, math.Inf(1))
	if err != nil {
		return 0, 0, fmt.Errorf("count likes: %w", err)
	}
	views, err = r.store.ZCount(ctx, r.viewsKey(movieID), from, math.Inf(1))
	if err != nil {
		return 0, 0, fmt.Errorf("count views: %w", err)
	}
	return likes, views, nil
}

func (r *Repo) contains(ctx context.Context, key string, movieID int64) (bool, error) {
	_, ok, err := r.store.ZScore(ctx, key, member(movieID))
	if err != nil {
		return false, fmt.Errorf("zscore %s: %w", key, err)
	}
	return ok, nil
}

func (r *Repo) ids(ctx context.Context, key string, rev bool) ([]int64, error) {
	members, err := r.store.ZRange(ctx, key, rev)
	if err != nil {
		return nil, fmt.Errorf("zrange %s: %w", key, err)
	}
	out := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse member %q of %s: %w", m, key, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func member(movieID int64) string { return strconv.FormatInt(movieID, 10) }

// Key patterns: movierec:user:{u}:history|likes|mylist, movierec:user:{u}:seen:{id},
// movierec:movie:{id}:views, movierec:movie:{id}:likes

func (r *Repo) historyKey(userID string) string { return r.prefix + "user:" + userID + ":history" }

func (r *Repo) likesKey(userID string) string { return r.prefix + "user:" + userID + ":likes" }

func (r *Repo) listKey(userID string) string { return r.prefix + "user:" + userID + ":mylist" }

func (r *Repo) seenKey(userID string, movieID int64) string {
	return r.prefix + "user:" + userID + ":seen:" + member(movieID)
}

func (r *Repo) viewsKey(movieID int64) string { return r.prefix + "movie:" + member(movieID) + ":views" }

func (r *Repo) movieLikesKey(movieID int64) string {
	return r.prefix + "movie:" + member(movieID) + ":likes"
}
