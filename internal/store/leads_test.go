package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadminer-engine/internal/domain"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db.Pool))
	return db.Pool
}

func sampleLead(url string) domain.Lead {
	return domain.Lead{
		DiscoveryDate:   "2026-03-15",
		CompanyName:     "Acme",
		DiscoverySource: "rss_google_news_rss_ai",
		SignalType:      "office_move",
		SignalStrength:  domain.StrengthVeryHigh,
		Details:         "Signal: office_move. SqFt: 15000.",
		Location:        "Plano, TX",
		Timeline:        "3-6 Months",
		SourceURL:       url,
		County:          "Dallas",
		Status:          domain.StatusNew,
	}
}

func TestInsertLeadIfNew(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	added, err := InsertLeadIfNew(ctx, db, sampleLead("https://a.example/1"))
	require.NoError(t, err)
	assert.True(t, added)

	// same source_url is silently skipped
	dup := sampleLead("https://a.example/1")
	dup.CompanyName = "Different Name"
	added, err = InsertLeadIfNew(ctx, db, dup)
	require.NoError(t, err)
	assert.False(t, added)

	leads, err := ListLeads(ctx, db, ListLeadsOpts{})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Acme", leads[0].CompanyName)
}

func TestInsertLeadIfNewRequiresSourceURL(t *testing.T) {
	db := testDB(t)
	_, err := InsertLeadIfNew(context.Background(), db, sampleLead("  "))
	assert.Error(t, err)
}

func TestInsertLeadDefaults(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	l := domain.Lead{SourceURL: "https://a.example/2", DiscoverySource: "x", SignalType: "y"}
	added, err := InsertLeadIfNew(ctx, db, l)
	require.NoError(t, err)
	require.True(t, added)

	got, err := ListLeads(ctx, db, ListLeadsOpts{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Unknown", got[0].CompanyName)
	assert.Equal(t, domain.StrengthMedium, got[0].SignalStrength)
	assert.Equal(t, domain.StatusNew, got[0].Status)
	assert.NotEmpty(t, got[0].DiscoveryDate)
}

func TestListLeadsFilters(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	a := sampleLead("https://a.example/1")
	b := sampleLead("https://a.example/2")
	b.CompanyName = "Beta"
	b.SignalType = "funding_round"
	b.SignalStrength = domain.StrengthHigh
	b.Location = "Frisco, TX"
	c := sampleLead("https://a.example/3")
	c.Status = domain.StatusContacted

	for _, l := range []domain.Lead{a, b, c} {
		_, err := InsertLeadIfNew(ctx, db, l)
		require.NoError(t, err)
	}

	got, err := ListLeads(ctx, db, ListLeadsOpts{SignalType: "funding_round"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Beta", got[0].CompanyName)

	got, err = ListLeads(ctx, db, ListLeadsOpts{Status: domain.StatusContacted})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = ListLeads(ctx, db, ListLeadsOpts{Location: "frisco"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = ListLeads(ctx, db, ListLeadsOpts{Search: "beta"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = ListLeads(ctx, db, ListLeadsOpts{Sort: "strength"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, domain.StrengthVeryHigh, got[0].SignalStrength)
}

func TestGetUpdateDeleteLead(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := InsertLeadIfNew(ctx, db, sampleLead("https://a.example/1"))
	require.NoError(t, err)
	leads, err := ListLeads(ctx, db, ListLeadsOpts{})
	require.NoError(t, err)
	id := leads[0].ID

	got, err := GetLead(ctx, db, id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.CompanyName)

	got.Notes = "called them"
	got.Status = domain.StatusContacted
	require.NoError(t, UpdateLead(ctx, db, got))

	got, err = GetLead(ctx, db, id)
	require.NoError(t, err)
	assert.Equal(t, "called them", got.Notes)
	assert.Equal(t, domain.StatusContacted, got.Status)

	require.NoError(t, DeleteLead(ctx, db, id))
	_, err = GetLead(ctx, db, id)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUpdateStatus(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := InsertLeadIfNew(ctx, db, sampleLead("https://a.example/1"))
	require.NoError(t, err)
	leads, _ := ListLeads(ctx, db, ListLeadsOpts{})
	id := leads[0].ID

	require.NoError(t, UpdateStatus(ctx, db, id, domain.StatusQualified))

	got, err := GetLead(ctx, db, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusQualified, got.Status)

	assert.Error(t, UpdateStatus(ctx, db, id, "bogus"))
	assert.ErrorIs(t, UpdateStatus(ctx, db, 99999, domain.StatusWon), sql.ErrNoRows)
}

func TestRecentSourceURLs(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	old := sampleLead("https://a.example/old")
	old.DiscoveryDate = "2020-01-01"
	fresh := sampleLead("https://a.example/fresh")

	for _, l := range []domain.Lead{old, fresh} {
		_, err := InsertLeadIfNew(ctx, db, l)
		require.NoError(t, err)
	}

	urls, err := RecentSourceURLs(ctx, db, 7)
	require.NoError(t, err)
	assert.True(t, urls["https://a.example/fresh"])
	assert.False(t, urls["https://a.example/old"])
}

func TestStats(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	a := sampleLead("https://a.example/1")
	b := sampleLead("https://a.example/2")
	b.Status = domain.StatusContacted
	b.SignalType = "funding_round"

	for _, l := range []domain.Lead{a, b} {
		_, err := InsertLeadIfNew(ctx, db, l)
		require.NoError(t, err)
	}

	stats, err := GetStats(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.New)
	assert.Equal(t, 1, stats.Contacted)
	assert.Equal(t, 1, stats.BySignalType["office_move"])
	assert.Equal(t, 1, stats.BySignalType["funding_round"])
	assert.Len(t, stats.Recent, 2)
}

func TestFilterValuesListsDistinct(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	a := sampleLead("https://a.example/1")
	b := sampleLead("https://a.example/2")
	b.SignalType = "funding_round"

	for _, l := range []domain.Lead{a, b} {
		_, err := InsertLeadIfNew(ctx, db, l)
		require.NoError(t, err)
	}

	fv, err := GetFilterValues(ctx, db)
	require.NoError(t, err)
	assert.Contains(t, fv.Statuses, domain.StatusNew)
	assert.Contains(t, fv.Strengths, domain.StrengthVeryHigh)
	assert.ElementsMatch(t, []string{"office_move", "funding_round"}, fv.SignalTypes)
}

func TestCleanupOldLeads(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	stale := sampleLead("https://a.example/stale")
	stale.DiscoveryDate = "2020-01-01"
	stale.Status = domain.StatusArchived
	oldButActive := sampleLead("https://a.example/active")
	oldButActive.DiscoveryDate = "2020-01-01"
	fresh := sampleLead("https://a.example/fresh")

	for _, l := range []domain.Lead{stale, oldButActive, fresh} {
		_, err := InsertLeadIfNew(ctx, db, l)
		require.NoError(t, err)
	}

	n, err := CleanupOldLeads(db, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	leads, err := ListLeads(ctx, db, ListLeadsOpts{})
	require.NoError(t, err)
	assert.Len(t, leads, 2)
}
