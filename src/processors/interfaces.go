package processors

import "github.com/chapati23/morning-briefing/src/models"

// RelevanceMatcher finds the committee through which a legislator oversees a traded instrument.
type RelevanceMatcher interface {
	Match(politician, ticker string) *models.CommitteeRelevance
}

// ScoreProcessor computes the significance score of a disclosure.
type ScoreProcessor interface {
	// Score computes committee relevance itself.
	Score(record models.TradeRecord) float64
	// ScoreWithRelevance uses a relevance the caller already computed (nil means none).
	ScoreWithRelevance(record models.TradeRecord, relevance *models.CommitteeRelevance) float64
}

// FilterProcessor drops records that carry no significant signal.
type FilterProcessor interface {
	Filter(records []models.TradeRecord) []models.TradeRecord
	FilterWithReport(records []models.TradeRecord) ([]models.TradeRecord, models.FilterReport)
}

// DedupProcessor merges repeated disclosures of the same politician, ticker and direction.
type DedupProcessor interface {
	Deduplicate(records []models.TradeRecord) []models.DigestEntry
}

// FormatProcessor renders digest entries into display items.
type FormatProcessor interface {
	FormatRecord(record models.TradeRecord) models.DisplayItem
	FormatAggregate(aggregate models.AggregateRecord) models.DisplayItem
	Format(entries []models.DigestEntry) []models.DisplayItem
}
