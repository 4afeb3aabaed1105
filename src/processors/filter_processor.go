package processors

import (
	"sort"
	"strings"

	"github.com/chapati23/morning-briefing/src/models"
	"github.com/chapati23/morning-briefing/src/reference"
)

const (
	DefaultMinAmount = 100_000.0
	DefaultMinScore  = 3.0
)

// filterProcessorImpl implements the FilterProcessor interface.
type filterProcessorImpl struct {
	tables    *reference.Tables
	minAmount float64
	minScore  float64
}

// NewFilterProcessor creates a filter using the exclusion list from tables and the default floors.
func NewFilterProcessor(tables *reference.Tables) FilterProcessor {
	if tables == nil {
		tables = reference.Empty()
	}
	return &filterProcessorImpl{
		tables:    tables,
		minAmount: DefaultMinAmount,
		minScore:  DefaultMinScore,
	}
}

func (p *filterProcessorImpl) Filter(records []models.TradeRecord) []models.TradeRecord {
	kept, _ := p.FilterWithReport(records)
	return kept
}

// FilterWithReport applies the stages in order (missing ticker, excluded ticker, amount floor,
// score floor) and sorts the survivors by score, highest first. Each dropped record is counted
// against the first stage that rejected it.
func (p *filterProcessorImpl) FilterWithReport(records []models.TradeRecord) ([]models.TradeRecord, models.FilterReport) {
	report := models.FilterReport{Input: len(records)}
	kept := make([]models.TradeRecord, 0, len(records))

	for _, r := range records {
		ticker := strings.TrimSpace(r.Ticker)
		switch {
		case ticker == "" || strings.EqualFold(ticker, "N/A"):
			report.NoTicker++
		case p.tables.IsExcluded(ticker):
			report.Excluded++
		case r.AmountLow < p.minAmount:
			report.BelowAmount++
		case r.Score < p.minScore:
			report.BelowScore++
		default:
			kept = append(kept, r)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})
	report.Passed = len(kept)
	return kept, report
}
