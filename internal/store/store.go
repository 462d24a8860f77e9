// Package store holds the last successfully scraped snapshot per source
// and decides when a read should trigger a re-fetch.
package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mandiwatch/mandiwatch/internal/scraper"
	"github.com/mandiwatch/mandiwatch/pkg/models"
)

// DefaultRefreshInterval is the staleness window when none is configured.
const DefaultRefreshInterval = 180 * time.Second

// Store is a refresh-on-read snapshot cache over one SourceParser.
//
// A read within the refresh interval of the last successful fetch
// returns the stored snapshot. A stale read triggers a scrape,
// coalesced through singleflight so that concurrent stale readers
// cause exactly one upstream request. On a failed refresh the previous
// snapshot is kept and the fetch timestamp is not advanced, so the
// next read retries instead of caching the failure.
type Store struct {
	src      scraper.SourceParser
	interval time.Duration
	logger   *slog.Logger

	group singleflight.Group
	now   func() time.Time // injectable for tests

	mu        sync.RWMutex
	snap      models.Snapshot
	fetchedAt time.Time
	lastErr   error
}

// New creates a store over src. A non-positive interval falls back to
// DefaultRefreshInterval.
func New(src scraper.SourceParser, interval time.Duration, logger *slog.Logger) *Store {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Store{
		src:      src,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Snapshot returns the current snapshot, refreshing first if the
// stored one is stale. It never returns nil and never fails: when no
// fetch has ever succeeded the result is an empty snapshot, which
// means "no data yet", not "market is empty".
func (s *Store) Snapshot(ctx context.Context) models.Snapshot {
	if snap, ok := s.current(); ok {
		return snap
	}

	s.group.Do("refresh", func() (any, error) {
		// A caller that waited out another flight finds fresh data here
		// and must not fetch again.
		if _, ok := s.current(); ok {
			return nil, nil
		}
		s.refresh(ctx)
		return nil, nil
	})

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return models.Snapshot{}
	}
	return s.snap
}

// Err returns the error of the most recent failed refresh, or nil if
// the last refresh succeeded (or none was attempted).
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// FetchedAt returns when the stored snapshot was produced; zero if no
// fetch has succeeded yet.
func (s *Store) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}

// Source returns the name of the underlying source.
func (s *Store) Source() string {
	return s.src.Name()
}

// current returns the stored snapshot if it is still fresh.
func (s *Store) current() (models.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap != nil && s.now().Sub(s.fetchedAt) < s.interval {
		return s.snap, true
	}
	return nil, false
}

// refresh scrapes the source and swaps the snapshot in on success.
// The swap is atomic relative to readers; no caller ever observes a
// half-built snapshot.
func (s *Store) refresh(ctx context.Context) {
	snap, err := s.src.Scrape(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastErr = err
		s.logger.Warn("refresh failed, keeping last snapshot",
			"source", s.src.Name(),
			"records", len(s.snap),
			"error", err,
		)
		return
	}

	s.snap = snap
	s.fetchedAt = s.now()
	s.lastErr = nil
}
