package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadminer-engine/internal/domain"
	"leadminer-engine/internal/events"
	"leadminer-engine/internal/store"
)

func testServer(t *testing.T) (*httptest.Server, *sql.DB, *events.Hub) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db.Pool))

	hub := events.NewHub()
	mux := NewMux(Deps{DB: db.Pool, Hub: hub})
	srv := httptest.NewServer(Chain(mux, RequestID, Recover))
	t.Cleanup(srv.Close)
	return srv, db.Pool, hub
}

func seedLead(t *testing.T, db *sql.DB, url string) int64 {
	t.Helper()
	added, err := store.InsertLeadIfNew(context.Background(), db, domain.Lead{
		DiscoveryDate:   "2026-03-15",
		CompanyName:     "Acme",
		DiscoverySource: "rss_google_news_rss_ai",
		SignalType:      "office_move",
		SignalStrength:  domain.StrengthVeryHigh,
		SourceURL:       url,
		Status:          domain.StatusNew,
	})
	require.NoError(t, err)
	require.True(t, added)

	leads, err := store.ListLeads(context.Background(), db, store.ListLeadsOpts{})
	require.NoError(t, err)
	for _, l := range leads {
		if l.SourceURL == url {
			return l.ID
		}
	}
	t.Fatalf("seeded lead %s not found", url)
	return 0
}

func TestListLeadsEndpoint(t *testing.T) {
	srv, db, _ := testServer(t)
	seedLead(t, db, "https://a.example/1")
	seedLead(t, db, "https://a.example/2")

	res, err := http.Get(srv.URL + "/leads")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var leads []domain.Lead
	require.NoError(t, json.NewDecoder(res.Body).Decode(&leads))
	assert.Len(t, leads, 2)
}

func TestListLeadsEmptyIsArray(t *testing.T) {
	srv, _, _ := testServer(t)

	res, err := http.Get(srv.URL + "/leads")
	require.NoError(t, err)
	defer res.Body.Close()

	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(res.Body).Decode(&raw))
	assert.Equal(t, "[]", strings.TrimSpace(string(raw)))
}

func TestCreateLeadEndpoint(t *testing.T) {
	srv, db, hub := testServer(t)

	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	body := `{
		"company_name": "Hand Entered Co",
		"discovery_source": "manual",
		"signal_type": "office_move",
		"source_url": "https://manual.example/1"
	}`
	res, err := http.Post(srv.URL+"/leads", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created domain.Lead
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Hand Entered Co", created.CompanyName)
	assert.Equal(t, domain.StatusNew, created.Status)

	got, err := store.GetLead(context.Background(), db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://manual.example/1", got.SourceURL)

	select {
	case msg := <-ch:
		assert.Contains(t, msg, events.TypeLeadNew)
	default:
		t.Fatal("expected a lead.new event")
	}
}

func TestCreateLeadDuplicateSourceURL(t *testing.T) {
	srv, db, _ := testServer(t)
	seedLead(t, db, "https://a.example/1")

	body := `{"company_name":"Copy","source_url":"https://a.example/1"}`
	res, err := http.Post(srv.URL+"/leads", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestCreateLeadRejectsBadInput(t *testing.T) {
	srv, _, _ := testServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing source_url", `{"company_name":"NoURL"}`},
		{"invalid status", `{"source_url":"https://a.example/1","status":"bogus"}`},
		{"invalid strength", `{"source_url":"https://a.example/1","signal_strength":"Huge"}`},
		{"not json", `{{{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := http.Post(srv.URL+"/leads", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer res.Body.Close()
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		})
	}
}

func TestGetLeadEndpoint(t *testing.T) {
	srv, db, _ := testServer(t)
	id := seedLead(t, db, "https://a.example/1")

	res, err := http.Get(fmt.Sprintf("%s/leads/%d", srv.URL, id))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var lead domain.Lead
	require.NoError(t, json.NewDecoder(res.Body).Decode(&lead))
	assert.Equal(t, "Acme", lead.CompanyName)

	res2, err := http.Get(srv.URL + "/leads/99999")
	require.NoError(t, err)
	defer res2.Body.Close()
	assert.Equal(t, http.StatusNotFound, res2.StatusCode)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	srv, db, hub := testServer(t)
	id := seedLead(t, db, "https://a.example/1")

	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	req, _ := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/leads/%d/status", srv.URL, id),
		strings.NewReader(`{"status":"contacted"}`))
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	got, err := store.GetLead(context.Background(), db, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusContacted, got.Status)

	select {
	case msg := <-ch:
		assert.Contains(t, msg, events.TypeLeadStatus)
	default:
		t.Fatal("expected a status event")
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	srv, db, _ := testServer(t)
	id := seedLead(t, db, "https://a.example/1")

	req, _ := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/leads/%d/status", srv.URL, id),
		strings.NewReader(`{"status":"bogus"}`))
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestDeleteLeadEndpoint(t *testing.T) {
	srv, db, _ := testServer(t)
	id := seedLead(t, db, "https://a.example/1")

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/leads/%d", srv.URL, id), nil)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	_, err = store.GetLead(context.Background(), db, id)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStatsEndpoint(t *testing.T) {
	srv, db, _ := testServer(t)
	seedLead(t, db, "https://a.example/1")

	res, err := http.Get(srv.URL + "/leads/stats")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var stats store.Stats
	require.NoError(t, json.NewDecoder(res.Body).Decode(&stats))
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.New)
}

func TestFiltersEndpoint(t *testing.T) {
	srv, db, _ := testServer(t)
	seedLead(t, db, "https://a.example/1")

	res, err := http.Get(srv.URL + "/leads/filters")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var fv store.FilterValues
	require.NoError(t, json.NewDecoder(res.Body).Decode(&fv))
	assert.Contains(t, fv.SignalTypes, "office_move")
	assert.Contains(t, fv.Statuses, domain.StatusNew)
}

func TestExportCSVEndpoint(t *testing.T) {
	srv, db, _ := testServer(t)
	seedLead(t, db, "https://a.example/1")

	res, err := http.Get(srv.URL + "/leads/export.csv")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/csv", res.Header.Get("Content-Type"))
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _, _ := testServer(t)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/leads", nil)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestInvalidLeadID(t *testing.T) {
	srv, _, _ := testServer(t)

	res, err := http.Get(srv.URL + "/leads/notanumber")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
