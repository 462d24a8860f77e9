package quotes

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/mandiwatch/mandiwatch/internal/store"
	"github.com/mandiwatch/mandiwatch/pkg/models"
)

type stubSource struct {
	name string
	snap models.Snapshot
	err  error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Scrape(ctx context.Context) (models.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

func testService(exchange, bullion *stubSource) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(
		store.New(exchange, time.Minute, logger),
		store.New(bullion, time.Minute, logger),
		nil,
	)
}

func TestMetalByNameCaseInsensitive(t *testing.T) {
	svc := testService(
		&stubSource{name: "exchange", snap: models.Snapshot{"gold": {Price: "55000"}}},
		&stubSource{name: "bullion"},
	)

	ctx := context.Background()
	upper, err := svc.Metal(ctx, "GOLD")
	if err != nil {
		t.Fatalf("Metal(GOLD) error: %v", err)
	}
	lower, err := svc.Metal(ctx, "gold")
	if err != nil {
		t.Fatalf("Metal(gold) error: %v", err)
	}
	if !reflect.DeepEqual(upper, lower) {
		t.Errorf("case-insensitive lookup should return the identical record: %v vs %v", upper, lower)
	}
	if upper.Price != "55000" {
		t.Errorf("Price = %q, want 55000", upper.Price)
	}
}

func TestMetalNotFound(t *testing.T) {
	svc := testService(
		&stubSource{name: "exchange", snap: models.Snapshot{"gold": {Price: "55000"}}},
		&stubSource{name: "bullion"},
	)

	_, err := svc.Metal(context.Background(), "unobtainium")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMetalsEmptyOnFailedUpstream(t *testing.T) {
	svc := testService(
		&stubSource{name: "exchange", err: errors.New("down")},
		&stubSource{name: "bullion", err: errors.New("down")},
	)

	ctx := context.Background()
	snap := svc.Metals(ctx)
	if snap == nil || len(snap) != 0 {
		t.Errorf("expected empty (not nil, not error) snapshot, got %v", snap)
	}

	if _, err := svc.Metal(ctx, "anything"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound with no data, got %v", err)
	}
}

func TestStatusReportsErrors(t *testing.T) {
	svc := testService(
		&stubSource{name: "exchange", snap: models.Snapshot{"gold": {}}},
		&stubSource{name: "bullion", err: errors.New("bullion site down")},
	)

	ctx := context.Background()
	svc.Metals(ctx)
	svc.Bullion(ctx)

	status := svc.Status(ctx)
	if status["exchange"].LastError != "" {
		t.Errorf("exchange should have no error, got %q", status["exchange"].LastError)
	}
	if status["exchange"].LastFetch == "" {
		t.Error("exchange should report a last fetch time")
	}
	if status["bullion"].LastError == "" {
		t.Error("bullion should report its refresh error")
	}
	if status["bullion"].LastFetch != "" {
		t.Errorf("bullion should have no fetch time, got %q", status["bullion"].LastFetch)
	}
}
