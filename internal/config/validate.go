package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus structured
// errors/warnings the UI can render.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Filters.TargetLocations = trimList(out.Filters.TargetLocations)
	out.Filters.TrustedSources = trimList(out.Filters.TrustedSources)
	out.Sources.News.Keywords = trimList(out.Sources.News.Keywords)
	out.Sources.News.DirectFeeds = trimList(out.Sources.News.DirectFeeds)
	out.Sources.Funding.Queries = trimList(out.Sources.Funding.Queries)
	out.Sources.Funding.DirectFeeds = trimList(out.Sources.Funding.DirectFeeds)
	out.Sources.Jobs.TargetTitles = trimList(out.Sources.Jobs.TargetTitles)

	// Defaults for tunables left at zero.
	if out.Dedup.SimilarityThreshold == 0 {
		out.Dedup.SimilarityThreshold = 0.85
	}
	if out.Sources.News.BatchSize == 0 {
		out.Sources.News.BatchSize = 20
	}
	if out.Sources.Funding.BatchSize == 0 {
		out.Sources.Funding.BatchSize = 20
	}
	if out.Sources.Jobs.BatchSize == 0 {
		// job descriptions are dense; smaller batches keep one request
		// under practical payload limits
		out.Sources.Jobs.BatchSize = 10
	}
	if out.Filters.RecentURLDays == 0 {
		out.Filters.RecentURLDays = 7
	}
	if out.Classifier.TimeoutSeconds == 0 {
		out.Classifier.TimeoutSeconds = 60
	}
	if out.Polling.RetentionMonths == 0 {
		out.Polling.RetentionMonths = 3
	}

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Polling.IntervalMinutes <= 0 {
		res.addErr("polling.interval_minutes must be > 0")
	} else if out.Polling.IntervalMinutes < 15 {
		res.addWarn("polling.interval_minutes is very low (%d) and may cause rate limits.", out.Polling.IntervalMinutes)
	}

	if out.Dedup.SimilarityThreshold <= 0 || out.Dedup.SimilarityThreshold >= 1 {
		res.addErr("dedup.similarity_threshold must be in (0, 1)")
	}

	if len(out.Filters.TargetLocations) == 0 {
		res.addWarn("filters.target_locations is empty; untrusted feeds will be filtered out entirely.")
	}

	checkFallback := func(name, v string) {
		switch v {
		case FallbackPassThrough, FallbackFailClosed:
		default:
			res.addErr("sources.%s.fallback must be %q or %q", name, FallbackPassThrough, FallbackFailClosed)
		}
	}
	if out.Sources.News.Enabled {
		checkFallback("news", out.Sources.News.Fallback)
		if len(out.Sources.News.Keywords)+len(out.Sources.News.DirectFeeds) == 0 {
			res.addErr("sources.news needs at least one keyword or direct feed")
		}
	}
	if out.Sources.Funding.Enabled {
		checkFallback("funding", out.Sources.Funding.Fallback)
		if len(out.Sources.Funding.Queries)+len(out.Sources.Funding.DirectFeeds) == 0 {
			res.addErr("sources.funding needs at least one query or direct feed")
		}
	}
	if out.Sources.Jobs.Enabled {
		checkFallback("jobs", out.Sources.Jobs.Fallback)
		if len(out.Sources.Jobs.TargetTitles) == 0 {
			res.addErr("sources.jobs.target_titles must have at least one title")
		}
		if strings.TrimSpace(out.Sources.Jobs.Location) == "" {
			res.addErr("sources.jobs.location is required when jobs is enabled")
		}
	}
	if out.Sources.Occupancy.Enabled {
		if strings.TrimSpace(out.Sources.Occupancy.Endpoint) == "" {
			res.addErr("sources.occupancy.endpoint is required when occupancy is enabled")
		}
		if out.Sources.Occupancy.LookbackDays <= 0 {
			res.addErr("sources.occupancy.lookback_days must be > 0")
		}
	}

	if out.Classifier.Enabled {
		if strings.TrimSpace(out.Classifier.Endpoint) == "" {
			res.addErr("classifier.endpoint is required when classifier.enabled=true")
		}
		if strings.TrimSpace(out.Classifier.Model) == "" {
			res.addErr("classifier.model is required when classifier.enabled=true")
		}
	} else {
		if out.Sources.News.Enabled && out.Sources.News.Fallback == FallbackFailClosed {
			res.addWarn("classifier disabled and sources.news is fail_closed; news will produce nothing.")
		}
		if out.Sources.Funding.Enabled && out.Sources.Funding.Fallback == FallbackFailClosed {
			res.addWarn("classifier disabled and sources.funding is fail_closed; funding will produce nothing.")
		}
	}

	return out, res
}
