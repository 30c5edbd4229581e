// Package leaderboard serves ranked score snapshots, optionally caching
// them in Redis so bursty scoreboard reads do not hammer the store.
package leaderboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"flagboard/internal/rank"
)

const snapshotKey = "flagboard:leaderboard"

// RecordSource fetches the raw score records to rank.
type RecordSource interface {
	FetchScoreRecords() ([]rank.ScoreRecord, error)
}

// SourceFunc adapts a plain function to a RecordSource.
type SourceFunc func() ([]rank.ScoreRecord, error)

func (f SourceFunc) FetchScoreRecords() ([]rank.ScoreRecord, error) { return f() }

type Service struct {
	source RecordSource
	cache  *redis.Client // nil disables caching
	ttl    time.Duration
}

// New builds a leaderboard service. Pass a nil client to compute every read
// directly from the source.
func New(source RecordSource, cache *redis.Client, ttl time.Duration) *Service {
	return &Service{source: source, cache: cache, ttl: ttl}
}

// Get returns the current ranked leaderboard, serving a cached snapshot
// when one is fresh. Cache failures fall through to a direct computation.
func (s *Service) Get(ctx context.Context) ([]rank.RankedEntry, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, snapshotKey).Bytes()
		if err == nil {
			var entries []rank.RankedEntry
			if err := json.Unmarshal(raw, &entries); err == nil {
				return entries, nil
			}
			log.Warn("discarding unreadable leaderboard snapshot")
		} else if err != redis.Nil {
			log.Warn("leaderboard cache read failed", "err", err)
		}
	}

	records, err := s.source.FetchScoreRecords()
	if err != nil {
		return nil, err
	}
	entries := rank.Rank(records)

	if s.cache != nil {
		if raw, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, snapshotKey, raw, s.ttl).Err(); err != nil {
				log.Warn("leaderboard cache write failed", "err", err)
			}
		}
	}
	return entries, nil
}

// Invalidate drops the cached snapshot. Called after a scored solve so the
// next read reflects it immediately.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, snapshotKey).Err(); err != nil {
		log.Warn("leaderboard cache invalidation failed", "err", err)
	}
}
