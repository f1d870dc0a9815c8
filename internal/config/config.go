package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Fallback names what a source does when the classifier is unavailable or a
// batch fails: emit every filtered item as an unclassified lead, or emit
// nothing. A deliberate per-source choice, not an accident of code path.
const (
	FallbackPassThrough = "pass_through"
	FallbackFailClosed  = "fail_closed"
)

type NewsSource struct {
	Enabled  bool     `yaml:"enabled"`
	Keywords []string `yaml:"keywords"` // google news query keywords
	// RegionQuery is appended to every keyword query, e.g.
	// `(Dallas OR "Fort Worth" OR DFW)`.
	RegionQuery string   `yaml:"region_query"`
	DirectFeeds []string `yaml:"direct_feeds"` // curated regional feeds, trusted
	BatchSize   int      `yaml:"batch_size"`
	Fallback    string   `yaml:"fallback"`
}

type FundingSource struct {
	Enabled     bool     `yaml:"enabled"`
	Queries     []string `yaml:"queries"` // google news query templates
	DirectFeeds []string `yaml:"direct_feeds"`
	BatchSize   int      `yaml:"batch_size"`
	Fallback    string   `yaml:"fallback"`
}

type JobsSource struct {
	Enabled      bool     `yaml:"enabled"`
	Endpoint     string   `yaml:"endpoint"` // jsearch search URL
	TargetTitles []string `yaml:"target_titles"`
	Location     string   `yaml:"location"` // e.g. "Dallas, TX"
	BatchSize    int      `yaml:"batch_size"`
	Fallback     string   `yaml:"fallback"`
}

type OccupancySource struct {
	Enabled      bool   `yaml:"enabled"`
	Endpoint     string `yaml:"endpoint"` // socrata resource JSON URL
	MinSqFt      int    `yaml:"min_sq_ft"`
	LookbackDays int    `yaml:"lookback_days"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Polling struct {
		IntervalMinutes int `yaml:"interval_minutes"`
		RetentionMonths int `yaml:"retention_months"`
	} `yaml:"polling"`

	Region struct {
		Name   string   `yaml:"name"`   // e.g. "Dallas/Fort Worth"
		Label  string   `yaml:"label"`  // fallback location label, e.g. "DFW Area"
		County string   `yaml:"county"` // county label stamped onto leads
		Cities []string `yaml:"cities"` // example cities for classifier prompts
	} `yaml:"region"`

	Filters struct {
		// TargetLocations is the gazetteer for the cheap substring
		// relevance pre-filter.
		TargetLocations []string `yaml:"target_locations"`
		// TrustedSources lists source_type values that bypass the
		// location filter because the feed is already region-scoped.
		TrustedSources []string `yaml:"trusted_sources"`
		// RecentURLDays is how far back the store is consulted for
		// already-persisted links before classifying.
		RecentURLDays int `yaml:"recent_url_days"`
	} `yaml:"filters"`

	Dedup struct {
		SimilarityThreshold float64 `yaml:"similarity_threshold"`
	} `yaml:"dedup"`

	Classifier struct {
		Enabled        bool   `yaml:"enabled"`
		Endpoint       string `yaml:"endpoint"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		// RequestDelayMS spaces sequential batch calls; a defensive
		// throttle, not a correctness requirement.
		RequestDelayMS int `yaml:"request_delay_ms"`
	} `yaml:"classifier"`

	Sources struct {
		News      NewsSource      `yaml:"news"`
		Funding   FundingSource   `yaml:"funding"`
		Jobs      JobsSource      `yaml:"jobs"`
		Occupancy OccupancySource `yaml:"occupancy"`
	} `yaml:"sources"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
