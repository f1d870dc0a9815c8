package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadminer-engine/internal/classify"
	"leadminer-engine/internal/config"
	"leadminer-engine/internal/domain"
)

type fakeCompleter struct {
	response string
	err      bool
	calls    int
	lastUser string
}

func (f *fakeCompleter) Available() bool { return true }

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	f.lastUser = user
	if f.err {
		return "", errors.New("boom")
	}
	return f.response, nil
}

func testRunner(c classify.Completer) Runner {
	return Runner{
		Client:    c,
		Threshold: 0.85,
		Locations: []string{"plano", "dallas"},
		Now:       func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) },
	}
}

func newsGroup(items []domain.RawItem, fallback string) Group {
	task := classify.RealEstateTask("Dallas/Fort Worth", []string{"Dallas", "Plano"})
	return Group{
		Kind:      KindRealEstate,
		Items:     items,
		Task:      &task,
		BatchSize: 20,
		Fallback:  fallback,
		County:    "Dallas",
		Region:    "DFW Area",
	}
}

func TestRunClassifiesRelevantItem(t *testing.T) {
	fc := &fakeCompleter{response: `{"leads":[{
		"original_index": 0,
		"company_name": "Acme",
		"signal_type": "office_move",
		"sq_ft": 15000,
		"location": "Plano, TX",
		"reason": "New lease announced"
	}]}`}

	items := []domain.RawItem{{
		Title:      "Acme signs 15,000 sq ft office lease in Plano",
		Summary:    "Acme Corp announced a new lease.",
		Link:       "https://news.example/acme-lease",
		Published:  "2026-03-14",
		SourceType: "google_news_rss",
	}}

	leads := testRunner(fc).Run(context.Background(), []Group{newsGroup(items, config.FallbackFailClosed)})

	require.Len(t, leads, 1)
	l := leads[0]
	assert.Equal(t, "Acme", l.CompanyName)
	assert.Equal(t, domain.StrengthVeryHigh, l.SignalStrength)
	assert.Equal(t, "https://news.example/acme-lease", l.SourceURL)
	assert.Equal(t, domain.StatusNew, l.Status)
	assert.Equal(t, "2026-03-15", l.DiscoveryDate)
	assert.Equal(t, "Dallas", l.County)
	assert.Equal(t, "Plano, TX", l.Location)
	assert.Contains(t, fc.lastUser, "ITEM 0:")
}

func TestRunDropsInvalidAndDuplicateIndices(t *testing.T) {
	fc := &fakeCompleter{response: `{"leads":[
		{"original_index": 0, "company_name": "First"},
		{"original_index": 0, "company_name": "Repeat"},
		{"original_index": 7, "company_name": "OutOfRange"},
		{"original_index": -1, "company_name": "Negative"},
		{"company_name": "MissingIndex"}
	]}`}

	items := []domain.RawItem{
		{Title: "Dallas office story one", Link: "https://a.example/1", SourceType: "google_news_rss"},
		{Title: "Plano warehouse story two", Link: "https://a.example/2", SourceType: "google_news_rss"},
	}

	leads := testRunner(fc).Run(context.Background(), []Group{newsGroup(items, config.FallbackFailClosed)})

	require.Len(t, leads, 1)
	assert.Equal(t, "First", leads[0].CompanyName)
}

func TestRunFailClosedEmitsNothingOnBatchFailure(t *testing.T) {
	fc := &fakeCompleter{err: true}

	items := []domain.RawItem{
		{Title: "Dallas office story", Link: "https://a.example/1", SourceType: "google_news_rss"},
	}

	leads := testRunner(fc).Run(context.Background(), []Group{newsGroup(items, config.FallbackFailClosed)})
	assert.Empty(t, leads)
}

func TestRunPassThroughEmitsUnclassified(t *testing.T) {
	fc := &fakeCompleter{err: true}

	items := []domain.RawItem{
		{Title: "Dallas office story", Summary: "details", Link: "https://a.example/1", SourceType: "jsearch_api"},
	}
	g := newsGroup(items, config.FallbackPassThrough)
	g.Kind = KindHiring
	task := classify.HiringTask("Dallas/Fort Worth")
	g.Task = &task

	r := testRunner(fc)
	r.Trusted = []string{"jsearch_api"}
	leads := r.Run(context.Background(), []Group{g})

	require.Len(t, leads, 1)
	assert.Equal(t, "Unknown", leads[0].CompanyName)
	assert.Equal(t, domain.StrengthLow, leads[0].SignalStrength)
	assert.Equal(t, "hiring", leads[0].SignalType)
}

func TestRunUnavailableClientUsesFallback(t *testing.T) {
	items := []domain.RawItem{
		{Title: "Dallas office story", Link: "https://a.example/1", SourceType: "google_news_rss"},
	}

	r := testRunner(nil)
	leads := r.Run(context.Background(), []Group{newsGroup(items, config.FallbackPassThrough)})

	require.Len(t, leads, 1)
	assert.Equal(t, domain.StrengthLow, leads[0].SignalStrength)
}

func TestRunOccupancyNeedsNoClassifier(t *testing.T) {
	items := []domain.RawItem{{
		Title:      "BIG TENANT LLC",
		Summary:    "New certificate of occupancy for 7500 sq ft. Land use: Office. Type: CO. CO#: 123",
		Link:       "https://data.example/co#co=123",
		Published:  "2026-03-10",
		SourceType: "dallas_co_api",
		Context:    "100 Main St",
	}}

	r := testRunner(nil)
	r.Trusted = []string{"dallas_co_api"}
	leads := r.Run(context.Background(), []Group{{
		Kind:   KindOccupancy,
		Items:  items,
		County: "Dallas",
		Region: "DFW Area",
	}})

	require.Len(t, leads, 1)
	l := leads[0]
	assert.Equal(t, "BIG TENANT LLC", l.CompanyName)
	assert.Equal(t, "new_occupancy", l.SignalType)
	assert.Equal(t, domain.StrengthHigh, l.SignalStrength)
	assert.Equal(t, "100 Main St", l.Location)
	assert.Equal(t, "Immediate (Move-in)", l.Timeline)
}

func TestRunDedupesAcrossGroups(t *testing.T) {
	fc := &fakeCompleter{response: `{"leads":[{"original_index": 0, "company_name": "Acme"}]}`}

	shared := domain.RawItem{
		Title:      "Acme raises funding and leases Dallas office",
		Link:       "https://news.example/shared",
		SourceType: "google_news_rss",
	}

	fundingTask := classify.FundingTask("Dallas/Fort Worth")
	groups := []Group{
		newsGroup([]domain.RawItem{shared}, config.FallbackFailClosed),
		{
			Kind:      KindFunding,
			Items:     []domain.RawItem{shared},
			Task:      &fundingTask,
			BatchSize: 20,
			Fallback:  config.FallbackFailClosed,
			County:    "Dallas",
			Region:    "DFW Area",
		},
	}

	leads := testRunner(fc).Run(context.Background(), groups)

	// first-seen group owns the shared link
	require.Len(t, leads, 1)
	assert.Equal(t, 1, fc.calls)
	assert.Equal(t, "rss_google_news_rss_ai", leads[0].DiscoverySource)
}
