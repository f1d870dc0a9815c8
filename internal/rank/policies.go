package rank

import (
	"strings"

	"leadminer-engine/internal/domain"
)

// SizePolicy tiers by square footage. Signal subtypes on the override list
// (e.g. a mandated return-to-office) force Very High regardless of size.
type SizePolicy struct {
	VeryHighSqFt  int // exclusive lower bound, e.g. 10000
	HighSqFt      int // exclusive lower bound, e.g. 5000
	OverrideTypes []string
}

func (p SizePolicy) Strength(j domain.Judgment) string {
	for _, t := range p.OverrideTypes {
		if strings.EqualFold(strings.TrimSpace(t), strings.TrimSpace(j.SignalType)) {
			return domain.StrengthVeryHigh
		}
	}
	switch {
	case j.SqFt > p.VeryHighSqFt:
		return domain.StrengthVeryHigh
	case j.SqFt > p.HighSqFt:
		return domain.StrengthHigh
	default:
		return domain.StrengthMedium
	}
}

// AmountPolicy tiers by the funding-amount string: a millions/billions
// magnitude marker together with a nonzero digit means a disclosed
// multi-million round.
type AmountPolicy struct{}

func (AmountPolicy) Strength(j domain.Judgment) string {
	amount := j.FundingAmount
	if !strings.Contains(amount, "M") && !strings.Contains(amount, "B") {
		return domain.StrengthHigh
	}
	if strings.ContainsAny(amount, "123456789") {
		return domain.StrengthVeryHigh
	}
	return domain.StrengthHigh
}

// ConfidencePolicy maps a 0-100 confidence score onto the tiers.
type ConfidencePolicy struct{}

func (ConfidencePolicy) Strength(j domain.Judgment) string {
	switch {
	case j.Confidence >= 90:
		return domain.StrengthVeryHigh
	case j.Confidence >= 70:
		return domain.StrengthHigh
	case j.Confidence >= 40:
		return domain.StrengthMedium
	default:
		return domain.StrengthLow
	}
}

// DefaultSizePolicy matches the thresholds the occupancy feed was tuned on.
func DefaultSizePolicy() SizePolicy {
	return SizePolicy{VeryHighSqFt: 10000, HighSqFt: 5000}
}
