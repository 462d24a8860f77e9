package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mandiwatch/mandiwatch/internal/infra"
	"github.com/mandiwatch/mandiwatch/pkg/models"
	"github.com/mandiwatch/mandiwatch/pkg/utils"
)

// Units quoted by the bullion site.
const (
	goldUnit   = "INR/10g"
	silverUnit = "INR/kg"
)

// BullionSource scrapes a retail bullion rate page. The layout is two
// columns (name, price), with several gold varieties (22k, 24k, ...)
// that get merged under a single "gold" record, and a single silver
// rate.
type BullionSource struct {
	url     string
	client  *http.Client
	limiter *infra.RateLimiter
	logger  *slog.Logger
	now     func() time.Time
}

// NewBullionSource creates the bullion site parser.
func NewBullionSource(url string, timeout time.Duration, logger *slog.Logger) *BullionSource {
	return &BullionSource{
		url:     url,
		client:  newClient(timeout),
		limiter: infra.NewRateLimiter(2, time.Second),
		logger:  logger,
		now:     time.Now,
	}
}

// Name returns the source identifier.
func (b *BullionSource) Name() string { return "bullion" }

// Scrape fetches the bullion page and aggregates gold varieties into
// one record with a types sub-mapping, plus one silver record.
func (b *BullionSource) Scrape(ctx context.Context) (models.Snapshot, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	b.logger.Info("scraping bullion source", "url", b.url)

	body, err := doGet(ctx, b.client, b.url)
	if err != nil {
		return nil, fmt.Errorf("fetch bullion page: %w", err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse bullion HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, ErrNoTable
	}

	goldTypes := map[string]string{}
	var silverPrice string
	skipped := 0

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header row
		}

		cells := row.Find("td")
		if cells.Length() < 2 {
			b.logger.Warn("row skipped", "source", b.Name(), "row", i, "reason", "want 2 cells")
			skipped++
			return
		}

		name := strings.ToLower(utils.CleanText(cells.Eq(0).Text()))
		price := utils.FirstToken(utils.CleanText(cells.Eq(1).Text()))
		if name == "" || price == "" {
			b.logger.Warn("row skipped", "source", b.Name(), "row", i, "reason", "empty name or price")
			skipped++
			return
		}

		switch {
		case strings.Contains(name, "gold"):
			goldTypes[name] = price
		case strings.Contains(name, "silver"):
			silverPrice = price
		}
	})

	snap := models.Snapshot{}
	updatedAt := utils.FormatTimestamp(b.now())

	if len(goldTypes) > 0 {
		snap["gold"] = models.CommodityRecord{
			Unit:      goldUnit,
			Types:     goldTypes,
			UpdatedAt: updatedAt,
		}
	}
	if silverPrice != "" {
		snap["silver"] = models.CommodityRecord{
			Price:     silverPrice,
			Unit:      silverUnit,
			UpdatedAt: updatedAt,
		}
	}

	b.logger.Info("scraping done", "source", b.Name(), "records", len(snap), "skipped", skipped)
	return snap, nil
}
