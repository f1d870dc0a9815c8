package pipeline

import (
	"context"
	"log"
	"time"

	"leadminer-engine/internal/classify"
	"leadminer-engine/internal/config"
	"leadminer-engine/internal/domain"
)

// Group is one source's already-fetched raw items plus the policy that
// governs how they are classified and assembled.
type Group struct {
	Kind      string // KindRealEstate, KindFunding, KindHiring, KindOccupancy
	Items     []domain.RawItem
	Task      *classify.TaskSpec // nil: the source never uses the classifier
	BatchSize int
	Fallback  string // config.FallbackPassThrough or config.FallbackFailClosed
	County    string // county label stamped onto leads
	Region    string // fallback location label, e.g. "DFW Area"
}

// Runner sequences the core pipeline: filter -> dedupe (across all groups) ->
// batch -> classify -> build. Fetching and persistence stay with the caller.
type Runner struct {
	Client    classify.Completer
	Threshold float64  // near-duplicate title similarity cutoff
	Locations []string // gazetteer for the relevance pre-filter
	Trusted   []string // source types that bypass the filter
	Delay     time.Duration
	Now       func() time.Time
}

// Run produces leads for every group. No failure is fatal: a failed batch or
// an unavailable classifier costs at most that group's leads for this run,
// per its fallback policy, and never the output of other groups.
func (r Runner) Run(ctx context.Context, groups []Group) []domain.Lead {
	now := time.Now().UTC()
	if r.Now != nil {
		now = r.Now()
	}

	// Filter each group, then dedupe across the combined stream so the same
	// story surfacing in two sources yields one lead. First-seen group owns
	// a shared link.
	var combined []domain.RawItem
	owner := make(map[string]int)
	for gi, g := range groups {
		kept := FilterItems(g.Items, r.Locations, r.Trusted)
		log.Printf("[pipeline:%s] %d/%d items passed location filter", g.Kind, len(kept), len(g.Items))
		for _, it := range kept {
			combined = append(combined, it)
			if _, ok := owner[it.Link]; !ok {
				owner[it.Link] = gi
			}
		}
	}

	unique := Dedupe(combined, r.Threshold)
	log.Printf("[pipeline] %d unique items after dedupe (from %d)", len(unique), len(combined))

	perGroup := make([][]domain.RawItem, len(groups))
	for _, it := range unique {
		gi := owner[it.Link]
		perGroup[gi] = append(perGroup[gi], it)
	}

	var leads []domain.Lead
	for gi, g := range groups {
		items := perGroup[gi]
		if len(items) == 0 {
			continue
		}
		leads = append(leads, r.runGroup(ctx, g, items, now)...)
	}
	return leads
}

func (r Runner) runGroup(ctx context.Context, g Group, items []domain.RawItem, now time.Time) []domain.Lead {
	// Sources without a task build heuristically from the normalized record.
	if g.Task == nil {
		out := make([]domain.Lead, 0, len(items))
		for _, it := range items {
			out = append(out, buildOccupancyLead(g, it, now))
		}
		return out
	}

	if r.Client == nil || !r.Client.Available() {
		return r.fallback(g, items, now, "classifier unavailable")
	}

	var out []domain.Lead
	for bi, batch := range Batch(items, g.BatchSize) {
		if bi > 0 && r.Delay > 0 {
			select {
			case <-ctx.Done():
				return out
			case <-time.After(r.Delay):
			}
		}

		judgments, err := classify.Classify(ctx, r.Client, batch, *g.Task)
		if err != nil {
			log.Printf("[pipeline:%s] batch %d failed: %v", g.Kind, bi+1, err)
			out = append(out, r.fallback(g, batch, now, "batch failed")...)
			continue
		}

		// Judgments come back unordered and untrusted; an index is used at
		// most once so a repeated or invalid one can't duplicate a lead.
		used := make(map[int]bool, len(judgments))
		for _, j := range judgments {
			idx := j.Index(len(batch))
			if idx < 0 {
				log.Printf("[pipeline:%s] dropped judgment with invalid index", g.Kind)
				continue
			}
			if used[idx] {
				log.Printf("[pipeline:%s] dropped duplicate judgment for index %d", g.Kind, idx)
				continue
			}
			used[idx] = true
			out = append(out, BuildLead(g, batch[idx], j, now))
		}
		log.Printf("[pipeline:%s] batch %d: %d/%d items kept", g.Kind, bi+1, len(used), len(batch))
	}
	return out
}

func (r Runner) fallback(g Group, items []domain.RawItem, now time.Time, why string) []domain.Lead {
	if g.Fallback != config.FallbackPassThrough {
		log.Printf("[pipeline:%s] %s; fail_closed, emitting nothing for %d items", g.Kind, why, len(items))
		return nil
	}
	log.Printf("[pipeline:%s] %s; pass_through, emitting %d unclassified leads", g.Kind, why, len(items))
	out := make([]domain.Lead, 0, len(items))
	for _, it := range items {
		out = append(out, buildUnclassifiedLead(g, it, now))
	}
	return out
}
