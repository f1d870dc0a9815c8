package sources

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"leadminer-engine/internal/config"
	"leadminer-engine/internal/domain"
	"leadminer-engine/internal/pipeline"
)

const (
	SourceTypeGoogleNews = "google_news_rss"
	SourceTypeIndustry   = "industry_rss"
)

// NewsFetcher polls Google News searches for office-signal keywords plus a
// set of curated regional real-estate feeds. The curated feeds carry the
// trusted SourceTypeIndustry tag and bypass the location pre-filter.
type NewsFetcher struct {
	cfg     config.NewsSource
	hc      *http.Client
	limiter *HostLimiter
}

func NewNewsFetcher(cfg config.NewsSource, limiter *HostLimiter) *NewsFetcher {
	return &NewsFetcher{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
	}
}

func (f *NewsFetcher) Name() string { return "news" }
func (f *NewsFetcher) Kind() string { return pipeline.KindRealEstate }

func (f *NewsFetcher) Fetch(ctx context.Context) ([]domain.RawItem, error) {
	var out []domain.RawItem

	for _, kw := range f.cfg.Keywords {
		query := fmt.Sprintf("%q", kw)
		if strings.TrimSpace(f.cfg.RegionQuery) != "" {
			query += " " + f.cfg.RegionQuery
		}
		query += " when:30d"

		items, err := fetchFeedItems(ctx, f.hc, f.limiter, googleNewsURL(query), kw, SourceTypeGoogleNews, 300)
		if err != nil {
			// one broken feed must not fail the source
			log.Printf("[news] feed for %q: %v", kw, err)
			continue
		}
		out = append(out, items...)
	}

	for _, feedURL := range f.cfg.DirectFeeds {
		items, err := fetchFeedItems(ctx, f.hc, f.limiter, feedURL, "Industry News", SourceTypeIndustry, 300)
		if err != nil {
			log.Printf("[news] direct feed %s: %v", feedURL, err)
			continue
		}
		out = append(out, items...)
	}

	return out, nil
}
