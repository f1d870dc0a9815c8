package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"leadminer-engine/internal/config"
	"leadminer-engine/internal/domain"
	"leadminer-engine/internal/pipeline"
)

const SourceTypeOccupancy = "dallas_co_api"

// OccupancyFetcher queries the city open-data portal (Socrata SoQL) for
// recently issued certificates of occupancy over the configured square
// footage. Records are structured, so this source skips the classifier; the
// pipeline builds its leads heuristically.
type OccupancyFetcher struct {
	cfg     config.OccupancySource
	hc      *http.Client
	limiter *HostLimiter
	now     func() time.Time
}

func NewOccupancyFetcher(cfg config.OccupancySource, limiter *HostLimiter) *OccupancyFetcher {
	return &OccupancyFetcher{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
		now:     time.Now,
	}
}

func (f *OccupancyFetcher) Name() string { return "occupancy" }
func (f *OccupancyFetcher) Kind() string { return pipeline.KindOccupancy }

type coRecord struct {
	BusinessName string `json:"business_name"`
	SqFt         string `json:"sq_ft"`
	LandUse      string `json:"land_use"`
	DateIssued   string `json:"date_issued"`
	Address      string `json:"address"`
	CO           string `json:"co"`
	TypeOfCO     string `json:"type_of_co"`
}

func (f *OccupancyFetcher) Fetch(ctx context.Context) ([]domain.RawItem, error) {
	if err := f.limiter.WaitURL(ctx, f.cfg.Endpoint); err != nil {
		return nil, err
	}

	threshold := f.now().AddDate(0, 0, -f.cfg.LookbackDays).Format("2006-01-02T00:00:00")

	q := url.Values{}
	q.Set("$where", fmt.Sprintf("date_issued >= '%s' AND sq_ft >= %d", threshold, f.cfg.MinSqFt))
	q.Set("$limit", "1000")
	q.Set("$order", "date_issued DESC")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new open-data request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := f.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open-data get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		return nil, fmt.Errorf("open-data status %d: %s", res.StatusCode, strings.TrimSpace(string(b)))
	}

	var records []coRecord
	if err := json.NewDecoder(res.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode open-data response: %w", err)
	}

	now := f.now().Format("2006-01-02")
	var items []domain.RawItem
	for _, rec := range records {
		co := CleanText(rec.CO)
		if co == "" {
			// no stable identifier; the record can't be deduplicated
			continue
		}

		sqFt := 0
		if n, err := strconv.Atoi(strings.TrimSpace(rec.SqFt)); err == nil {
			sqFt = n
		}

		issued := now
		if rec.DateIssued != "" {
			issued = rec.DateIssued
			if d, _, ok := strings.Cut(rec.DateIssued, "T"); ok {
				issued = d
			}
		}

		summary := fmt.Sprintf("New certificate of occupancy for %d sq ft. Land use: %s. Type: %s. CO#: %s",
			sqFt, orUnknownStr(rec.LandUse), orUnknownStr(rec.TypeOfCO), co)

		items = append(items, domain.RawItem{
			Title:      CleanText(rec.BusinessName),
			Summary:    summary,
			Link:       f.cfg.Endpoint + "#co=" + url.QueryEscape(co),
			Published:  issued,
			SourceType: SourceTypeOccupancy,
			Context:    CleanText(rec.Address),
		})
	}
	return items, nil
}

func orUnknownStr(s string) string {
	s = CleanText(s)
	if s == "" {
		return "Unknown"
	}
	return s
}
