package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mandiwatch/mandiwatch/internal/infra"
	"github.com/mandiwatch/mandiwatch/pkg/models"
	"github.com/mandiwatch/mandiwatch/pkg/utils"
)

// exchangeMinCells is the column count a data row needs:
// name, price, change, high, low.
const exchangeMinCells = 5

// ExchangeSource scrapes the commodities exchange long/short page.
// The page carries one table: a header row followed by one row per
// contract, five columns each.
type ExchangeSource struct {
	url     string
	client  *http.Client
	limiter *infra.RateLimiter
	logger  *slog.Logger
	now     func() time.Time
}

// NewExchangeSource creates the exchange source parser.
func NewExchangeSource(url string, timeout time.Duration, logger *slog.Logger) *ExchangeSource {
	return &ExchangeSource{
		url:     url,
		client:  newClient(timeout),
		limiter: infra.NewRateLimiter(2, time.Second),
		logger:  logger,
		now:     time.Now,
	}
}

// Name returns the source identifier.
func (e *ExchangeSource) Name() string { return "exchange" }

// Scrape fetches the exchange page and extracts one record per data
// row. Malformed rows are logged and skipped; one bad row never
// discards the rest of the batch.
func (e *ExchangeSource) Scrape(ctx context.Context) (models.Snapshot, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	e.logger.Info("scraping exchange source", "url", e.url)

	body, err := doGet(ctx, e.client, e.url)
	if err != nil {
		return nil, fmt.Errorf("fetch exchange page: %w", err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse exchange HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, ErrNoTable
	}

	snap := models.Snapshot{}
	updatedAt := utils.FormatTimestamp(e.now())
	skipped := 0

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header row
		}

		name, rec, err := parseExchangeRow(row)
		if err != nil {
			e.logger.Warn("row skipped", "source", e.Name(), "row", i, "reason", err)
			skipped++
			return
		}

		rec.UpdatedAt = updatedAt
		snap[name] = rec // last write wins across contract expiries
	})

	e.logger.Info("scraping done", "source", e.Name(), "records", len(snap), "skipped", skipped)
	return snap, nil
}

// parseExchangeRow extracts one record from a table row. Column
// semantics: 0 = name (with optional expiry suffix), 1 = price,
// 2 = change, 3 = high, 4 = low. Cells 1–4 may hold several
// space-separated values; only the first (current) one is kept.
func parseExchangeRow(row *goquery.Selection) (string, models.CommodityRecord, error) {
	cells := row.Find("td")
	if cells.Length() < exchangeMinCells {
		return "", models.CommodityRecord{}, fmt.Errorf("want %d cells, got %d", exchangeMinCells, cells.Length())
	}

	rawName := utils.CleanText(cells.Eq(0).Text())
	if rawName == "" {
		return "", models.CommodityRecord{}, fmt.Errorf("empty name cell")
	}

	name := utils.StripExpirySuffix(rawName)

	rec := models.CommodityRecord{
		Price:  utils.FirstToken(utils.CleanText(cells.Eq(1).Text())),
		Change: utils.FirstToken(utils.CleanText(cells.Eq(2).Text())),
		High:   utils.FirstToken(utils.CleanText(cells.Eq(3).Text())),
		Low:    utils.FirstToken(utils.CleanText(cells.Eq(4).Text())),
		Expiry: utils.ExtractExpiry(rawName),
	}

	return name, rec, nil
}
