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

// FundingFetcher polls Google News funding queries plus direct tech feeds.
// Funding summaries run longer than headlines, so they keep 500 chars for
// the classifier to find amounts and round types in.
type FundingFetcher struct {
	cfg     config.FundingSource
	hc      *http.Client
	limiter *HostLimiter
}

func NewFundingFetcher(cfg config.FundingSource, limiter *HostLimiter) *FundingFetcher {
	return &FundingFetcher{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
	}
}

func (f *FundingFetcher) Name() string { return "funding" }
func (f *FundingFetcher) Kind() string { return pipeline.KindFunding }

func (f *FundingFetcher) Fetch(ctx context.Context) ([]domain.RawItem, error) {
	var out []domain.RawItem

	for i, q := range f.cfg.Queries {
		sourceType := fmt.Sprintf("funding_google_q%d", i+1)
		items, err := fetchFeedItems(ctx, f.hc, f.limiter, googleNewsURL(q+" when:7d"), q, sourceType, 500)
		if err != nil {
			log.Printf("[funding] query #%d: %v", i+1, err)
			continue
		}
		out = append(out, items...)
	}

	for _, feedURL := range f.cfg.DirectFeeds {
		items, err := fetchFeedItems(ctx, f.hc, f.limiter, feedURL, "Tech News", directFeedSourceType(feedURL), 500)
		if err != nil {
			log.Printf("[funding] direct feed %s: %v", feedURL, err)
			continue
		}
		out = append(out, items...)
	}

	return out, nil
}

// directFeedSourceType derives a stable source tag from the feed host so the
// trusted-source list can name individual feeds.
func directFeedSourceType(feedURL string) string {
	host := feedURL
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	host = strings.NewReplacer(".", "_", "-", "_").Replace(host)
	return "direct_" + host
}
