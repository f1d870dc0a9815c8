package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leadminer-engine/internal/config"
	"leadminer-engine/internal/domain"
	"leadminer-engine/internal/pipeline"
)

const SourceTypeJSearch = "jsearch_api"

// JobsFetcher queries the JSearch API (RapidAPI) for each configured target
// title in the configured metro.
type JobsFetcher struct {
	cfg     config.JobsSource
	apiKey  string
	hc      *http.Client
	limiter *HostLimiter
}

func NewJobsFetcher(cfg config.JobsSource, apiKey string, limiter *HostLimiter) *JobsFetcher {
	return &JobsFetcher{
		cfg:     cfg,
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
	}
}

func (f *JobsFetcher) Name() string { return "jobs" }
func (f *JobsFetcher) Kind() string { return pipeline.KindHiring }

type jsearchJob struct {
	JobTitle        string `json:"job_title"`
	EmployerName    string `json:"employer_name"`
	EmployerWebsite string `json:"employer_website"`
	JobCity         string `json:"job_city"`
	JobState        string `json:"job_state"`
	JobPostedAt     string `json:"job_posted_at_datetime_utc"`
	JobApplyLink    string `json:"job_apply_link"`
	JobDescription  string `json:"job_description"`
}

func (f *JobsFetcher) Fetch(ctx context.Context) ([]domain.RawItem, error) {
	if strings.TrimSpace(f.apiKey) == "" {
		return nil, fmt.Errorf("jsearch api key not configured")
	}

	var out []domain.RawItem
	for _, title := range f.cfg.TargetTitles {
		items, err := f.search(ctx, title)
		if err != nil {
			log.Printf("[jobs] search %q: %v", title, err)
			continue
		}
		out = append(out, items...)
	}
	return out, nil
}

func (f *JobsFetcher) search(ctx context.Context, title string) ([]domain.RawItem, error) {
	if err := f.limiter.WaitURL(ctx, f.cfg.Endpoint); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("query", title+" in "+f.cfg.Location)
	q.Set("page", "1")
	q.Set("num_pages", "1")
	q.Set("date_posted", "month")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new jsearch request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", f.apiKey)
	req.Header.Set("X-RapidAPI-Host", "jsearch.p.rapidapi.com")

	res, err := f.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jsearch get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		return nil, fmt.Errorf("jsearch status %d: %s", res.StatusCode, strings.TrimSpace(string(b)))
	}

	var payload struct {
		Data []jsearchJob `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode jsearch response: %w", err)
	}

	now := time.Now().Format("2006-01-02")
	var items []domain.RawItem
	for _, j := range payload.Data {
		link := CleanText(j.JobApplyLink)
		if link == "" {
			continue
		}

		loc := f.cfg.Location
		if j.JobCity != "" && j.JobState != "" {
			loc = j.JobCity + ", " + j.JobState
		}

		posted := now
		if j.JobPostedAt != "" {
			posted = j.JobPostedAt
			if d, _, ok := strings.Cut(j.JobPostedAt, "T"); ok {
				posted = d
			}
		}

		summary := fmt.Sprintf("Employer: %s. Location: %s. %s",
			CleanText(j.EmployerName), loc, CleanText(j.JobDescription))

		items = append(items, domain.RawItem{
			Title:      CleanText(j.JobTitle),
			Summary:    Truncate(summary, 500),
			Link:       link,
			Published:  posted,
			SourceType: SourceTypeJSearch,
			Context:    title,
		})
	}
	return items, nil
}
