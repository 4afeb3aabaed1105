// backend/src/processors/score_processor.go
package processors

import (
	"strings"

	"github.com/chapati23/morning-briefing/src/models"
	"github.com/chapati23/morning-briefing/src/reference"
)

// HighSignalThreshold is the score at or above which a disclosure is flagged as hot.
const HighSignalThreshold = 6.0

// Amount tier boundaries on the lower bound of the reported range.
const (
	tierOneFloor   = 100_000
	tierTwoFloor   = 250_000
	tierThreeFloor = 500_000
	tierFiveFloor  = 1_000_000
)

// Freshness windows on the reported filing lag.
const (
	freshLagDays = 7
	staleLagDays = 30
)

// scoreProcessorImpl implements the ScoreProcessor interface.
type scoreProcessorImpl struct {
	tables  *reference.Tables
	matcher RelevanceMatcher
}

// NewScoreProcessor creates a scorer. A nil matcher is replaced with one over the same tables.
func NewScoreProcessor(tables *reference.Tables, matcher RelevanceMatcher) ScoreProcessor {
	if tables == nil {
		tables = reference.Empty()
	}
	if matcher == nil {
		matcher = NewCommitteeMatcher(tables)
	}
	return &scoreProcessorImpl{tables: tables, matcher: matcher}
}

func (p *scoreProcessorImpl) Score(record models.TradeRecord) float64 {
	// Below the amount floor nothing else matters, so skip the relevance lookup.
	if AmountTier(record.AmountLow) == 0 {
		return 0
	}
	return p.ScoreWithRelevance(record, p.matcher.Match(record.Politician, record.Ticker))
}

// ScoreWithRelevance multiplies amount tier, politician weight, direction weight, freshness
// and committee relevance.
func (p *scoreProcessorImpl) ScoreWithRelevance(record models.TradeRecord, relevance *models.CommitteeRelevance) float64 {
	base := AmountTier(record.AmountLow)
	if base == 0 {
		return 0
	}
	return base *
		p.tables.ActorMultiplier(record.Politician) *
		DirectionWeight(record.Direction, record.RawType) *
		FreshnessModifier(record.FilingLagDays) *
		RelevanceMultiplier(relevance)
}

// --- Factors ---

// AmountTier maps the amount lower bound to the base score: 0, 1, 2, 3 or 5.
func AmountTier(amountLow float64) float64 {
	switch {
	case amountLow >= tierFiveFloor:
		return 5
	case amountLow >= tierThreeFloor:
		return 3
	case amountLow >= tierTwoFloor:
		return 2
	case amountLow >= tierOneFloor:
		return 1
	default:
		return 0
	}
}

// DirectionWeight weighs the trade direction, refined by the raw transaction label
// ("sale_full", "Sale (Partial)", "exchange").
func DirectionWeight(direction models.Direction, rawType string) float64 {
	label := normalizeRawType(rawType)
	isSale := strings.Contains(label, "sale") || strings.Contains(label, "sell")

	switch {
	case isSale && strings.Contains(label, "full"):
		return 1.75
	case isSale && strings.Contains(label, "partial"):
		return 1.25
	case strings.Contains(label, "exchange"):
		return 0.75
	case direction == models.DirectionSell:
		return 1.5
	default:
		return 1
	}
}

// FreshnessModifier rewards quick disclosures and discounts late ones. A negative lag means the
// source cell was unreadable and is treated as neutral.
func FreshnessModifier(filingLagDays int) float64 {
	switch {
	case filingLagDays < 0:
		return 1
	case filingLagDays <= freshLagDays:
		return 1.5
	case filingLagDays > staleLagDays:
		return 0.5
	default:
		return 1
	}
}

// RelevanceMultiplier is 2 for a direct committee match, 1.5 for tangential and 1 otherwise.
func RelevanceMultiplier(relevance *models.CommitteeRelevance) float64 {
	if relevance == nil {
		return 1
	}
	switch relevance.Tier {
	case models.RelevanceDirect:
		return 2
	case models.RelevanceTangential:
		return 1.5
	default:
		return 1
	}
}

// IsHighSignal reports whether a score reaches HighSignalThreshold.
func IsHighSignal(score float64) bool {
	return score >= HighSignalThreshold
}

// NormalizeDirection derives buy/sell from the free-text transaction label. Anything that is not
// a sale (purchases, exchanges, unknown labels) counts as a buy.
func NormalizeDirection(rawType string) models.Direction {
	label := normalizeRawType(rawType)
	if strings.Contains(label, "sell") || strings.Contains(label, "sale") {
		return models.DirectionSell
	}
	return models.DirectionBuy
}

func normalizeRawType(rawType string) string {
	label := strings.ToLower(rawType)
	label = strings.NewReplacer("_", " ", "-", " ", "(", " ", ")", " ").Replace(label)
	return strings.Join(strings.Fields(label), " ")
}
