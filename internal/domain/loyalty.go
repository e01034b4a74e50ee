package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoyaltyTier represents a client's loyalty level
type LoyaltyTier string

const (
	TierBronze LoyaltyTier = "BRONZE"
	TierSilver LoyaltyTier = "SILVER"
	TierGold   LoyaltyTier = "GOLD"
)

// AllTiers lists tiers from lowest to highest
var AllTiers = []LoyaltyTier{TierBronze, TierSilver, TierGold}

// ParseLoyaltyTier parses a tier name (case-insensitive)
func ParseLoyaltyTier(s string) (LoyaltyTier, error) {
	tier := LoyaltyTier(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range AllTiers {
		if t == tier {
			return tier, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// LoyaltyThresholds are the minimum points of each tier, bronze <= silver <= gold
type LoyaltyThresholds struct {
	Bronze int
	Silver int
	Gold   int
}

// DefaultLoyaltyThresholds returns {0, 500, 1000}
func DefaultLoyaltyThresholds() LoyaltyThresholds {
	return LoyaltyThresholds{
		Bronze: DefaultBronzeThreshold,
		Silver: DefaultSilverThreshold,
		Gold:   DefaultGoldThreshold,
	}
}

// IsOrdered returns true if bronze <= silver <= gold
func (t LoyaltyThresholds) IsOrdered() bool {
	return t.Bronze <= t.Silver && t.Silver <= t.Gold
}

// TierFor maps a points balance to a tier
func TierFor(points int, t LoyaltyThresholds) LoyaltyTier {
	switch {
	case points >= t.Gold:
		return TierGold
	case points >= t.Silver:
		return TierSilver
	default:
		return TierBronze
	}
}

// LoyaltyRule represents a salon's configuration of one tier
type LoyaltyRule struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Tier      LoyaltyTier
	MinPoints int
	MaxPoints *int
	Benefits  []string
	Discount  decimal.NullDecimal // Percentage discount of the tier
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ThresholdsFromRules takes tier minimums from the salon's rules; missing tiers keep fallback values
func ThresholdsFromRules(rules []*LoyaltyRule, fallback LoyaltyThresholds) LoyaltyThresholds {
	t := fallback
	for _, r := range rules {
		switch r.Tier {
		case TierBronze:
			t.Bronze = r.MinPoints
		case TierSilver:
			t.Silver = r.MinPoints
		case TierGold:
			t.Gold = r.MinPoints
		}
	}
	return t
}

// RuleFor returns the rule of the given tier
func RuleFor(rules []*LoyaltyRule, tier LoyaltyTier) (*LoyaltyRule, bool) {
	for _, r := range rules {
		if r.Tier == tier {
			return r, true
		}
	}
	return nil, false
}

// LoyaltyStats aggregates the loyalty program of a salon
type LoyaltyStats struct {
	TotalClients  int
	TotalPoints   int64
	ClientsByTier map[LoyaltyTier]int
}

// AveragePoints returns the mean points balance per client
func (s LoyaltyStats) AveragePoints() float64 {
	if s.TotalClients == 0 {
		return 0
	}
	return float64(s.TotalPoints) / float64(s.TotalClients)
}
