package domain

// RawItem is one candidate article/posting/permit, normalized from a source
// payload before any relevance judgment. Immutable once created.
type RawItem struct {
	Title      string
	Summary    string // truncated by the source normalizer
	Link       string // canonical identifier, unique key
	Published  string // best-effort ISO-ish date
	SourceType string // google_news_rss/industry_rss/jsearch_api/...
	Context    string // query or keyword that surfaced the item
}
