package classify

import (
	"fmt"
	"strings"

	"leadminer-engine/internal/domain"
)

// TaskSpec carries the per-source classification instructions: who the
// analyst is, what counts as a valid signal, and which fields each judgment
// must carry. The item list and the output contract are appended by Prompt.
type TaskSpec struct {
	Name     string // real_estate | funding | hiring
	System   string
	Criteria string // positive/negative criteria, with examples
	Fields   string // per-judgment output fields beyond original_index
}

// Prompt renders the full user message for one batch: criteria, the
// enumerated items, and the required JSON output shape.
func (t TaskSpec) Prompt(items []domain.RawItem) string {
	var b strings.Builder
	b.WriteString(t.Criteria)
	b.WriteString("\n\nInput Items:\n")
	for idx, it := range items {
		fmt.Fprintf(&b, "ITEM %d:\nTitle: %s\nSummary: %s\nLink: %s\n\n", idx, it.Title, it.Summary, it.Link)
	}
	b.WriteString("Return a JSON OBJECT with a key \"leads\" containing a list of valid items.\n")
	b.WriteString("Each item in the list should have:\n")
	b.WriteString("- original_index: integer (the ITEM number from input)\n")
	b.WriteString(t.Fields)
	b.WriteString("\nIf no items are relevant, return {\"leads\": []}\n")
	return b.String()
}

// RealEstateTask classifies commercial office signals in the target region.
func RealEstateTask(region string, cities []string) TaskSpec {
	return TaskSpec{
		Name:   "real_estate",
		System: "You extract lead data. Return valid JSON only.",
		Criteria: fmt.Sprintf(`You are an Expert Lead Analyst for the %s commercial real estate market.
Review the following news items and identify ONLY the ones that indicate a VALID commercial office signal.

Criteria for a VALID signal:
1. Signing a new OFFICE lease (commercial, not residential/apartment).
2. Relocating headquarters or office.
3. Expanding office footprint.
4. Breaking ground on a new OFFICE building with a major tenant named.
5. A mandated return-to-office policy at a company based in the region.

Location constraints:
- MUST be in %s (%s).
- IGNORE items about properties elsewhere unless it involves a MOVE TO the region.

Example VALID: "Acme Corp signs 15,000 sq ft office lease in Plano".
Example INVALID: "Acme Corp opens apartment complex in Houston".`, region, region, strings.Join(cities, ", ")),
		Fields: `- company_name: string (the tenant/company moving)
- signal_type: string (lease | relocation | expansion | construction | return_to_office)
- sq_ft: integer (0 if unknown)
- location: string (specific city/area in the region)
- timeline: string (if mentioned, else "Unknown")
- reason: string (why you selected this)`,
	}
}

// FundingTask classifies capital raises by companies headquartered in the
// target region.
func FundingTask(region string) TaskSpec {
	return TaskSpec{
		Name:   "funding",
		System: "You extract funding data. Return valid JSON only.",
		Criteria: fmt.Sprintf(`You are an Expert Funding Analyst identifying companies that recently raised capital in %s.
These companies are likely to expand their offices soon.

VALID funding signals:
- Series A, B, C, D funding rounds
- Seed funding or venture capital investment
- Private equity growth investment (not buyouts)
- The company receiving funds MUST be headquartered in the region

EXCLUDE (not valid):
- M&A where the company is being acquired/sold, unless it explicitly mentions expansion
- Real estate investment funds or REITs
- Stock market news (IPO filings without a funding round)
- Charitable donations or grants
- The investor merely being from the region (the COMPANY must be there)`, region),
		Fields: `- company_name: string (the company RAISING the money)
- funding_amount: string (e.g. "$15M", "Undisclosed")
- round_type: string (Series A, Seed, Growth Equity, etc.)
- industry: string (e.g. "SaaS", "FinTech", "Manufacturing")
- location: string (specific city in the region)
- company_website: string (if mentioned, otherwise "Unknown")
- reason: string (brief explanation)`,
	}
}

// HiringTask classifies job postings that signal office growth: facilities,
// workplace, and office-operations roles.
func HiringTask(region string) TaskSpec {
	return TaskSpec{
		Name:   "hiring",
		System: "You extract hiring signals. Return valid JSON only.",
		Criteria: fmt.Sprintf(`You are a Lead Analyst reviewing job postings from companies in %s.
Identify ONLY postings that signal office growth or a new/expanded physical workplace.

VALID hiring signals:
- Facilities Manager, Workplace Experience, Office Manager roles (a company staffing up a physical office)
- Director/VP-level operations roles tied to a new location
- Roles that explicitly mention a new office, headquarters move, or expansion

EXCLUDE:
- Fully remote roles
- Retail, restaurant, and warehouse positions
- Staffing-agency reposts with no identifiable employer`, region),
		Fields: `- company_name: string (the employer)
- signal_type: string (hiring)
- confidence: integer 0-100 (how strongly this posting signals office growth)
- industry: string (if inferable, else "Unknown")
- location: string (specific city)
- reason: string (why this posting qualifies)`,
	}
}
