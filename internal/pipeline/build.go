package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"leadminer-engine/internal/domain"
	"leadminer-engine/internal/rank"
)

// Source kinds the builder knows how to assemble leads for.
const (
	KindRealEstate = "real_estate"
	KindFunding    = "funding"
	KindHiring     = "hiring"
	KindOccupancy  = "occupancy"
)

// BuildLead assembles the canonical lead record for one accepted judgment.
// Pure: no network, no persistence, deterministic for identical inputs.
// Absent optional fields become "Unknown" or empty strings, never null, so
// the storage schema stays stable.
func BuildLead(g Group, item domain.RawItem, j domain.Judgment, now time.Time) domain.Lead {
	switch g.Kind {
	case KindFunding:
		return buildFundingLead(g, item, j, now)
	case KindHiring:
		return buildHiringLead(g, item, j, now)
	default:
		return buildRealEstateLead(g, item, j, now)
	}
}

func buildRealEstateLead(g Group, item domain.RawItem, j domain.Judgment, now time.Time) domain.Lead {
	policy := rank.DefaultSizePolicy()
	policy.OverrideTypes = []string{"return_to_office"}

	return domain.Lead{
		DiscoveryDate:   now.Format("2006-01-02"),
		CompanyName:     orUnknown(j.CompanyName),
		DiscoverySource: "rss_" + item.SourceType + "_ai",
		SignalType:      defaultStr(j.SignalType, "office_move"),
		SignalStrength:  policy.Strength(j),
		SignalDate:      item.Published,
		Details:         fmt.Sprintf("Signal: %s. SqFt: %d. AI: %s", defaultStr(j.SignalType, "office_move"), j.SqFt, j.Reason),
		Location:        defaultStr(j.Location, g.Region),
		Timeline:        defaultStr(j.Timeline, "3-6 Months"),
		SourceURL:       item.Link,
		County:          g.County,
		AllSignals:      "real_estate_news",
		Notes:           "Headline: " + item.Title,
		Status:          domain.StatusNew,
	}
}

func buildFundingLead(g Group, item domain.RawItem, j domain.Judgment, now time.Time) domain.Lead {
	amount := defaultStr(j.FundingAmount, "Undisclosed")
	round := orUnknown(j.RoundType)
	industry := orUnknown(j.Industry)
	website := orUnknown(j.Website)

	details := fmt.Sprintf("Raised %s (%s). Industry: %s.", amount, round, industry)
	if website != "Unknown" {
		details += " Website: " + website + "."
	}
	details += " AI: " + j.Reason

	dom := ""
	if website != "Unknown" {
		dom = website
	}

	return domain.Lead{
		DiscoveryDate:   now.Format("2006-01-02"),
		CompanyName:     orUnknown(j.CompanyName),
		Domain:          dom,
		DiscoverySource: "funding_" + item.SourceType,
		SignalType:      "funding_round",
		SignalStrength:  rank.AmountPolicy{}.Strength(j),
		SignalDate:      item.Published,
		Details:         details,
		Location:        defaultStr(j.Location, g.Region),
		Timeline:        "Immediate (Hiring)",
		SourceURL:       item.Link,
		County:          g.County,
		AllSignals:      "funding_news",
		Notes:           "Headline: " + item.Title + "\nSummary: " + item.Summary,
		Status:          domain.StatusNew,
		Industry:        industry,
	}
}

func buildHiringLead(g Group, item domain.RawItem, j domain.Judgment, now time.Time) domain.Lead {
	return domain.Lead{
		DiscoveryDate:   now.Format("2006-01-02"),
		CompanyName:     orUnknown(j.CompanyName),
		DiscoverySource: item.SourceType,
		SignalType:      defaultStr(j.SignalType, "hiring"),
		SignalStrength:  rank.ConfidencePolicy{}.Strength(j),
		SignalDate:      item.Published,
		Details:         fmt.Sprintf("Hiring for %s. Confidence: %d. AI: %s", item.Title, j.Confidence, j.Reason),
		Location:        defaultStr(j.Location, g.Region),
		Timeline:        orUnknown(j.Timeline),
		SourceURL:       item.Link,
		County:          g.County,
		AllSignals:      "job_posting",
		Notes:           "Description snippet: " + item.Summary,
		Status:          domain.StatusNew,
		Industry:        orUnknown(j.Industry),
	}
}

var sqFtPattern = regexp.MustCompile(`(\d+) sq ft`)

// buildOccupancyLead assembles a lead straight from an open-data record; the
// occupancy feed is structured enough that no classifier pass is needed. The
// square footage is recovered from the summary the normalizer wrote.
func buildOccupancyLead(g Group, item domain.RawItem, now time.Time) domain.Lead {
	sqFt := 0
	if m := sqFtPattern.FindStringSubmatch(item.Summary); m != nil {
		sqFt, _ = strconv.Atoi(m[1])
	}
	policy := rank.DefaultSizePolicy()

	return domain.Lead{
		DiscoveryDate:   now.Format("2006-01-02"),
		CompanyName:     orUnknown(item.Title),
		DiscoverySource: item.SourceType,
		SignalType:      "new_occupancy",
		SignalStrength:  policy.Strength(domain.Judgment{SqFt: sqFt}),
		SignalDate:      item.Published,
		Details:         item.Summary,
		Location:        defaultStr(item.Context, g.Region),
		Timeline:        "Immediate (Move-in)",
		SourceURL:       item.Link,
		County:          g.County,
		AllSignals:      "certificate_of_occupancy",
		Notes:           "",
		Status:          domain.StatusNew,
	}
}

// buildUnclassifiedLead is the pass_through degradation: the item survived
// the cheap filters but was never judged, so it is emitted at the lowest
// confidence tier for a human to triage.
func buildUnclassifiedLead(g Group, item domain.RawItem, now time.Time) domain.Lead {
	signalType := map[string]string{
		KindRealEstate: "office_move",
		KindFunding:    "funding_round",
		KindHiring:     "hiring",
	}[g.Kind]

	return domain.Lead{
		DiscoveryDate:   now.Format("2006-01-02"),
		CompanyName:     "Unknown",
		DiscoverySource: item.SourceType,
		SignalType:      defaultStr(signalType, "unknown"),
		SignalStrength:  domain.StrengthLow,
		SignalDate:      item.Published,
		Details:         "Unclassified (classifier unavailable). Summary: " + item.Summary,
		Location:        g.Region,
		Timeline:        "Unknown",
		SourceURL:       item.Link,
		County:          g.County,
		AllSignals:      g.Kind,
		Notes:           "Headline: " + item.Title,
		Status:          domain.StatusNew,
	}
}

func orUnknown(s string) string {
	return defaultStr(s, "Unknown")
}

func defaultStr(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
