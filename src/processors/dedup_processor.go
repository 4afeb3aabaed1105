package processors

import (
	"sort"

	"github.com/chapati23/morning-briefing/src/models"
)

// dedupProcessorImpl implements the DedupProcessor interface.
type dedupProcessorImpl struct{}

func NewDedupProcessor() DedupProcessor {
	return &dedupProcessorImpl{}
}

type dedupKey struct {
	politician string
	ticker     string
	direction  models.Direction
}

// Deduplicate groups records by politician, ticker and direction. Single-record groups pass
// through untouched; larger groups collapse into one AggregateRecord. The result is ordered by
// effective score, highest first.
func (p *dedupProcessorImpl) Deduplicate(records []models.TradeRecord) []models.DigestEntry {
	// 1. Group in encounter order.
	groups := make(map[dedupKey][]models.TradeRecord)
	var order []dedupKey
	for _, r := range records {
		key := dedupKey{politician: r.Politician, ticker: r.Ticker, direction: r.Direction}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	// 2. Build entries.
	entries := make([]models.DigestEntry, 0, len(order))
	for _, key := range order {
		members := groups[key]
		if len(members) == 1 {
			record := members[0]
			entries = append(entries, models.DigestEntry{Record: &record})
			continue
		}
		entries = append(entries, models.DigestEntry{Aggregate: aggregate(members)})
	}

	// 3. Highest effective score first.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score() > entries[j].Score()
	})
	return entries
}

func aggregate(members []models.TradeRecord) *models.AggregateRecord {
	first := members[0]
	agg := &models.AggregateRecord{
		Politician: first.Politician,
		Party:      first.Party,
		Chamber:    first.Chamber,
		State:      first.State,
		Issuer:     first.Issuer,
		Ticker:     first.Ticker,
		Direction:  first.Direction,
		Count:      len(members),
		MaxScore:   first.Score,
		SourceURL:  first.SourceURL,
		Records:    append([]models.TradeRecord(nil), members...),
	}

	for _, m := range members {
		agg.TotalAmountLow += m.AmountLow
		if m.Score > agg.MaxScore {
			agg.MaxScore = m.Score
		}
		if agg.Relevance == nil && m.Relevance != nil {
			rel := *m.Relevance
			agg.Relevance = &rel
		}
	}
	agg.HighSignal = IsHighSignal(agg.MaxScore)
	return agg
}
