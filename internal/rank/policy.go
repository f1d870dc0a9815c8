package rank

import "leadminer-engine/internal/domain"

// Policy derives a signal strength tier from a classifier judgment. Each
// source domain carries its own policy; all of them resolve to one of the four
// canonical tiers.
type Policy interface {
	Strength(j domain.Judgment) string
}
