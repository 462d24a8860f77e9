package scraper

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/mandiwatch/mandiwatch/internal/infra"
	"github.com/mandiwatch/mandiwatch/pkg/models"
)

// NewsFeed identifies one RSS feed to pull headlines from.
type NewsFeed struct {
	Name string
	URL  string
}

// DefaultNewsFeeds lists Indian market feeds that regularly carry
// commodity coverage.
var DefaultNewsFeeds = []NewsFeed{
	{
		Name: "Moneycontrol Commodities",
		URL:  "https://www.moneycontrol.com/rss/commodities.xml",
	},
	{
		Name: "Economic Times Commodities",
		URL:  "https://economictimes.indiatimes.com/markets/commodities/rssfeeds/1808152121.cms",
	},
	{
		Name: "Business Standard Markets",
		URL:  "https://www.business-standard.com/rss/markets-106.rss",
	},
}

// News fetches commodity market headlines from RSS feeds.
type News struct {
	feeds   []NewsFeed
	cache   *infra.Cache
	limiter *infra.RateLimiter
	parser  *gofeed.Parser
	logger  *slog.Logger
}

// NewNews creates a news fetcher with the default feeds.
func NewNews(cacheTTL time.Duration, logger *slog.Logger) *News {
	return NewNewsWithFeeds(DefaultNewsFeeds, cacheTTL, logger)
}

// NewNewsWithFeeds creates a news fetcher with custom feeds.
func NewNewsWithFeeds(feeds []NewsFeed, cacheTTL time.Duration, logger *slog.Logger) *News {
	return &News{
		feeds:   feeds,
		cache:   infra.NewCache(cacheTTL),
		limiter: infra.NewRateLimiter(2, time.Second),
		parser:  gofeed.NewParser(),
		logger:  logger,
	}
}

// Headlines returns recent commodity headlines across all configured
// feeds, newest first. Failed feeds are skipped, not fatal.
func (n *News) Headlines(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	const cacheKey = "news:headlines"
	if cached, ok := n.cache.Get(cacheKey); ok {
		return clip(cached.([]models.NewsArticle), limit), nil
	}

	var all []models.NewsArticle
	for _, feed := range n.feeds {
		articles, err := n.fetchFeed(ctx, feed)
		if err != nil {
			n.logger.Warn("feed skipped", "feed", feed.Name, "error", err)
			continue
		}
		all = append(all, articles...)
	}

	sortArticlesByDate(all)
	n.cache.Set(cacheKey, all)
	return clip(all, limit), nil
}

// fetchFeed parses one RSS feed into articles.
func (n *News) fetchFeed(ctx context.Context, feed NewsFeed) ([]models.NewsArticle, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	parsed, err := n.parser.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		return nil, err
	}

	articles := make([]models.NewsArticle, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		a := models.NewsArticle{
			Title:   item.Title,
			URL:     item.Link,
			Source:  feed.Name,
			Summary: stripHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		}
		articles = append(articles, a)
	}

	return articles, nil
}

// stripHTML removes HTML tags from a string using goquery.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// clip bounds a slice to limit entries; limit <= 0 means unbounded.
func clip(articles []models.NewsArticle, limit int) []models.NewsArticle {
	if limit > 0 && len(articles) > limit {
		return articles[:limit]
	}
	return articles
}

// sortArticlesByDate sorts articles by published date (newest first).
// Simple insertion sort — fine for small slices.
func sortArticlesByDate(articles []models.NewsArticle) {
	for i := 1; i < len(articles); i++ {
		key := articles[i]
		j := i - 1
		for j >= 0 && articles[j].PublishedAt.Before(key.PublishedAt) {
			articles[j+1] = articles[j]
			j--
		}
		articles[j+1] = key
	}
}
