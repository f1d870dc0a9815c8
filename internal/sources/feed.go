package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"leadminer-engine/internal/domain"
)

const userAgent = "LeadMiner/1.0 (+local)"

// googleNewsURL builds a Google News RSS search URL for a raw query string.
func googleNewsURL(query string) string {
	return "https://news.google.com/rss/search?q=" + url.QueryEscape(query) + "&hl=en-US&gl=US&ceid=US:en"
}

type rssFeed struct {
	Channel struct {
		Items []rssEntry `xml:"item"`
	} `xml:"channel"`
}

type rssEntry struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

// fetchFeedItems downloads one RSS feed and normalizes its entries. Summaries
// are stripped of HTML and truncated to maxSummary; entries without a link
// are unusable downstream and skipped here.
func fetchFeedItems(ctx context.Context, hc *http.Client, limiter *HostLimiter, feedURL, contextTag, sourceType string, maxSummary int) ([]domain.RawItem, error) {
	if err := limiter.WaitURL(ctx, feedURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new feed request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get feed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("feed status %d", res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parse feed xml: %w", err)
	}

	now := time.Now().Format("2006-01-02")
	var items []domain.RawItem
	for _, e := range feed.Channel.Items {
		link := CleanText(e.Link)
		if link == "" {
			continue
		}
		published := CleanText(e.PubDate)
		if published == "" {
			published = now
		}
		items = append(items, domain.RawItem{
			Title:      CleanText(e.Title),
			Summary:    Truncate(StripHTML(e.Description), maxSummary),
			Link:       link,
			Published:  published,
			SourceType: sourceType,
			Context:    contextTag,
		})
	}
	return items, nil
}
