package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadminer-engine/internal/config"
)

func TestJobsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "jsearch.p.rapidapi.com", r.Header.Get("X-RapidAPI-Host"))
		assert.Equal(t, "Office Manager in Dallas, TX", r.URL.Query().Get("query"))

		_, _ = w.Write([]byte(`{"data":[
			{"job_title":"Office Manager","employer_name":"Acme Corp","job_city":"Plano","job_state":"TX",
			 "job_posted_at_datetime_utc":"2026-03-12T08:00:00.000Z",
			 "job_apply_link":"https://jobs.example/1","job_description":"Run the new Plano office."},
			{"job_title":"No Apply Link","employer_name":"Ghost Co"}
		]}`))
	}))
	defer srv.Close()

	cfg := config.JobsSource{
		Endpoint:     srv.URL,
		TargetTitles: []string{"Office Manager"},
		Location:     "Dallas, TX",
	}
	f := NewJobsFetcher(cfg, "test-key", NewHostLimiter(100, 100))
	f.hc = srv.Client()

	items, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	it := items[0]
	assert.Equal(t, "Office Manager", it.Title)
	assert.Equal(t, "https://jobs.example/1", it.Link)
	assert.Equal(t, "2026-03-12", it.Published)
	assert.Equal(t, SourceTypeJSearch, it.SourceType)
	assert.Contains(t, it.Summary, "Employer: Acme Corp. Location: Plano, TX.")
}

func TestJobsFetchMissingKey(t *testing.T) {
	f := NewJobsFetcher(config.JobsSource{}, "", NewHostLimiter(100, 100))
	_, err := f.Fetch(context.Background())
	assert.Error(t, err)
}
