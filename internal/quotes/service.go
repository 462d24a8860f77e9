// Package quotes is the query facade the transport layer talks to.
// It answers "all records" and "record by name" against the snapshot
// stores, triggering refreshes as needed, and never fails just because
// an upstream refresh failed — it serves the best available data.
package quotes

import (
	"context"
	"errors"
	"strings"

	"github.com/mandiwatch/mandiwatch/internal/scraper"
	"github.com/mandiwatch/mandiwatch/internal/store"
	"github.com/mandiwatch/mandiwatch/pkg/models"
)

// ErrNotFound is returned when a commodity name is not in the current
// snapshot. It is the only error the facade surfaces to API clients.
var ErrNotFound = errors.New("commodity not found")

// Service composes the per-source stores behind one query surface.
type Service struct {
	exchange *store.Store
	bullion  *store.Store
	news     *scraper.News
}

// NewService creates the facade. The news fetcher may be nil when the
// news endpoint is not wanted (e.g. in tests).
func NewService(exchange, bullion *store.Store, news *scraper.News) *Service {
	return &Service{
		exchange: exchange,
		bullion:  bullion,
		news:     news,
	}
}

// Metals returns the exchange snapshot verbatim.
func (s *Service) Metals(ctx context.Context) models.Snapshot {
	return s.exchange.Snapshot(ctx)
}

// Metal looks up a single commodity by name, case-insensitively.
func (s *Service) Metal(ctx context.Context, name string) (models.CommodityRecord, error) {
	snap := s.exchange.Snapshot(ctx)
	rec, ok := snap[strings.ToLower(name)]
	if !ok {
		return models.CommodityRecord{}, ErrNotFound
	}
	return rec, nil
}

// Bullion returns the bullion snapshot verbatim.
func (s *Service) Bullion(ctx context.Context) models.Snapshot {
	return s.bullion.Snapshot(ctx)
}

// News returns recent commodity headlines, newest first.
func (s *Service) News(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	if s.news == nil {
		return nil, nil
	}
	return s.news.Headlines(ctx, limit)
}

// Status reports per-store health for the health endpoint.
func (s *Service) Status(ctx context.Context) map[string]SourceStatus {
	return map[string]SourceStatus{
		s.exchange.Source(): statusOf(s.exchange),
		s.bullion.Source():  statusOf(s.bullion),
	}
}

// SourceStatus describes one store's last refresh outcome.
type SourceStatus struct {
	LastFetch string `json:"last_fetch,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

func statusOf(st *store.Store) SourceStatus {
	status := SourceStatus{}
	if t := st.FetchedAt(); !t.IsZero() {
		status.LastFetch = t.UTC().Format("2006-01-02T15:04:05Z")
	}
	if err := st.Err(); err != nil {
		status.LastError = err.Error()
	}
	return status
}
