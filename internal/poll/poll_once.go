package poll

import (
	"context"
	"database/sql"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"leadminer-engine/internal/classify"
	"leadminer-engine/internal/config"
	"leadminer-engine/internal/domain"
	"leadminer-engine/internal/pipeline"
	"leadminer-engine/internal/secrets"
	"leadminer-engine/internal/sources"
	"leadminer-engine/internal/store"
)

type fetchResult struct {
	kind  string
	items []domain.RawItem
}

// PollOnce runs one full discovery cycle: fetch every enabled source
// concurrently, drop recently-seen links, run the classification pipeline,
// and persist the resulting leads. onNewLead fires once per lead actually
// added.
func PollOnce(db *sql.DB, cfg config.Config, onNewLead func(domain.Lead)) (added, skipped int, err error) {
	parent := context.Background()

	limiter := sources.NewHostLimiter(1.0, 2)

	var fetchers []sources.Fetcher
	if cfg.Sources.News.Enabled {
		fetchers = append(fetchers, sources.NewNewsFetcher(cfg.Sources.News, limiter))
	}
	if cfg.Sources.Funding.Enabled {
		fetchers = append(fetchers, sources.NewFundingFetcher(cfg.Sources.Funding, limiter))
	}
	if cfg.Sources.Jobs.Enabled {
		key, kerr := secrets.GetAPIKey(secrets.AccountRapidAPI)
		if kerr != nil {
			log.Printf("[jobs] disabled for this run: %v", kerr)
		} else {
			fetchers = append(fetchers, sources.NewJobsFetcher(cfg.Sources.Jobs, key, limiter))
		}
	}
	if cfg.Sources.Occupancy.Enabled {
		fetchers = append(fetchers, sources.NewOccupancyFetcher(cfg.Sources.Occupancy, limiter))
	}
	if len(fetchers) == 0 {
		return 0, 0, nil
	}

	var g errgroup.Group
	results := make(chan fetchResult, len(fetchers))

	for _, f := range fetchers {
		f := f
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(parent, 2*time.Minute)
			defer cancel()

			log.Printf("[%s] Running...", f.Name())
			items, err := f.Fetch(fctx)
			if err != nil {
				log.Printf("[source:%s] error: %v", f.Name(), err)
				return nil
			}
			results <- fetchResult{kind: f.Kind(), items: items}
			return nil
		})
	}

	_ = g.Wait()
	close(results)

	byKind := make(map[string][]domain.RawItem)
	for res := range results {
		log.Printf("[poll] got kind=%s items=%d", res.kind, len(res.items))
		byKind[res.kind] = append(byKind[res.kind], res.items...)
	}

	insertCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Links we already persisted recently are dropped before any classifier
	// money is spent on them.
	seen, serr := store.RecentSourceURLs(insertCtx, db, cfg.Filters.RecentURLDays)
	if serr != nil {
		log.Printf("[poll] recent urls: %v", serr)
		seen = map[string]bool{}
	}
	for kind, items := range byKind {
		byKind[kind] = dropSeen(items, seen)
	}

	groups := buildGroups(cfg, byKind)

	client := classifierClient(cfg)
	runner := pipeline.Runner{
		Client:    client,
		Threshold: cfg.Dedup.SimilarityThreshold,
		Locations: cfg.Filters.TargetLocations,
		Trusted:   cfg.Filters.TrustedSources,
		Delay:     time.Duration(cfg.Classifier.RequestDelayMS) * time.Millisecond,
	}
	leads := runner.Run(insertCtx, groups)

	for _, l := range leads {
		ok, ierr := store.InsertLeadIfNew(insertCtx, db, l)
		if ierr != nil {
			log.Printf("[poll] insert %s: %v", l.SourceURL, ierr)
			continue
		}
		if ok {
			added++
			if onNewLead != nil {
				onNewLead(l)
			}
		} else {
			skipped++
		}
	}

	return added, skipped, nil
}

func dropSeen(items []domain.RawItem, seen map[string]bool) []domain.RawItem {
	out := items[:0]
	for _, it := range items {
		if seen[it.Link] {
			continue
		}
		out = append(out, it)
	}
	return out
}

func buildGroups(cfg config.Config, byKind map[string][]domain.RawItem) []pipeline.Group {
	var groups []pipeline.Group

	if items := byKind[pipeline.KindRealEstate]; len(items) > 0 {
		task := classify.RealEstateTask(cfg.Region.Name, cfg.Region.Cities)
		groups = append(groups, pipeline.Group{
			Kind:      pipeline.KindRealEstate,
			Items:     items,
			Task:      &task,
			BatchSize: cfg.Sources.News.BatchSize,
			Fallback:  cfg.Sources.News.Fallback,
			County:    cfg.Region.County,
			Region:    cfg.Region.Label,
		})
	}
	if items := byKind[pipeline.KindFunding]; len(items) > 0 {
		task := classify.FundingTask(cfg.Region.Name)
		groups = append(groups, pipeline.Group{
			Kind:      pipeline.KindFunding,
			Items:     items,
			Task:      &task,
			BatchSize: cfg.Sources.Funding.BatchSize,
			Fallback:  cfg.Sources.Funding.Fallback,
			County:    cfg.Region.County,
			Region:    cfg.Region.Label,
		})
	}
	if items := byKind[pipeline.KindHiring]; len(items) > 0 {
		task := classify.HiringTask(cfg.Region.Name)
		groups = append(groups, pipeline.Group{
			Kind:      pipeline.KindHiring,
			Items:     items,
			Task:      &task,
			BatchSize: cfg.Sources.Jobs.BatchSize,
			Fallback:  cfg.Sources.Jobs.Fallback,
			County:    cfg.Region.County,
			Region:    cfg.Region.Label,
		})
	}
	if items := byKind[pipeline.KindOccupancy]; len(items) > 0 {
		groups = append(groups, pipeline.Group{
			Kind:   pipeline.KindOccupancy,
			Items:  items,
			County: cfg.Region.County,
			Region: cfg.Region.Label,
		})
	}

	return groups
}

// classifierClient returns nil when classification is disabled or no key is
// configured; the pipeline then applies each group's fallback policy.
func classifierClient(cfg config.Config) classify.Completer {
	if !cfg.Classifier.Enabled {
		return nil
	}
	key, err := secrets.GetAPIKey(secrets.AccountOpenAI)
	if err != nil {
		log.Printf("[classify] no API key: %v", err)
		return nil
	}
	return classify.NewClient(cfg, key)
}
