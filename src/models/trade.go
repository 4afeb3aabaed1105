// backend/src/models/trade.go
package models

import (
	"strings"
	"time"
)

// Party is the political affiliation reported for a legislator.
type Party string

const (
	PartyDemocrat    Party = "D"
	PartyRepublican  Party = "R"
	PartyIndependent Party = "I"
)

// ParseParty maps the free-text party label used by the listing page (or the reference
// tables) onto the closed three-value set. Unknown labels return "".
func ParseParty(s string) Party {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d", "dem", "democrat", "democratic":
		return PartyDemocrat
	case "r", "rep", "republican":
		return PartyRepublican
	case "i", "ind", "independent", "other":
		return PartyIndependent
	default:
		return ""
	}
}

// Chamber is the legislative chamber a legislator sits in.
type Chamber string

const (
	ChamberHouse  Chamber = "House"
	ChamberSenate Chamber = "Senate"
)

// ParseChamber maps a chamber label onto the closed two-value set. Unknown labels return "".
func ParseChamber(s string) Chamber {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "house", "rep", "representative", "representatives":
		return ChamberHouse
	case "senate", "sen", "senator":
		return ChamberSenate
	default:
		return ""
	}
}

// Direction is the normalized trade direction.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// RelevanceTier says how closely a committee's jurisdiction overlaps a traded instrument's sector.
type RelevanceTier string

const (
	RelevanceDirect     RelevanceTier = "direct"
	RelevanceTangential RelevanceTier = "tangential"
)

// CommitteeRelevance links a trade to the first of the legislator's committees whose
// jurisdiction covers the traded instrument's sector.
type CommitteeRelevance struct {
	Committee string        `json:"committee"`
	Tier      RelevanceTier `json:"tier"`
}

// TradeRecord is one parsed disclosure row. It is created fresh on every parse and carries no
// identity beyond the current run.
type TradeRecord struct {
	// --- Attribution ---
	Politician string  `json:"politician"`
	Party      Party   `json:"party"`
	Chamber    Chamber `json:"chamber"`
	State      string  `json:"state"` // Home jurisdiction code, e.g. "CA"

	// --- Instrument ---
	Issuer string `json:"issuer"`
	Ticker string `json:"ticker"` // Exchange suffix stripped ("HSY:US" -> "HSY")

	// --- Timing ---
	TradeDate      time.Time `json:"trade_date"`
	DisclosureDate time.Time `json:"disclosure_date"`
	FilingLagDays  int       `json:"filing_lag_days"` // As reported by the source; -1 when the cell could not be read

	// --- Transaction ---
	Direction Direction `json:"direction"`
	RawType   string    `json:"raw_type"` // Original transaction label, keeps nuance such as "sale_full" or "exchange"
	Owner     string    `json:"owner"`

	// --- Amount ---
	AmountRange string  `json:"amount_range"` // Raw size text as scraped, e.g. "100K–250K"
	AmountLow   float64 `json:"amount_low"`   // Numeric lower bound, always >= 0
	Price       string  `json:"price"`

	// --- Derived ---
	Score      float64             `json:"score"`
	HighSignal bool                `json:"high_signal"`
	Relevance  *CommitteeRelevance `json:"relevance,omitempty"`
	SourceURL  string              `json:"source_url"`
}

// HasFilingLag reports whether the filing-lag cell was readable.
func (r TradeRecord) HasFilingLag() bool {
	return r.FilingLagDays >= 0
}

// AggregateRecord merges several qualifying records that share politician, ticker and direction.
type AggregateRecord struct {
	Politician string    `json:"politician"`
	Party      Party     `json:"party"`
	Chamber    Chamber   `json:"chamber"`
	State      string    `json:"state"`
	Issuer     string    `json:"issuer"`
	Ticker     string    `json:"ticker"`
	Direction  Direction `json:"direction"`

	Count          int                 `json:"count"`
	TotalAmountLow float64             `json:"total_amount_low"`
	MaxScore       float64             `json:"max_score"`
	HighSignal     bool                `json:"high_signal"`
	Relevance      *CommitteeRelevance `json:"relevance,omitempty"`
	SourceURL      string              `json:"source_url"`

	Records []TradeRecord `json:"records"` // Members in the order they were encountered
}

// DigestEntry is one deduplicated output row: exactly one of Record or Aggregate is set.
type DigestEntry struct {
	Record    *TradeRecord     `json:"record,omitempty"`
	Aggregate *AggregateRecord `json:"aggregate,omitempty"`
}

// Score returns the entry's effective score: the record's own score, or the aggregate's maximum.
func (e DigestEntry) Score() float64 {
	if e.Aggregate != nil {
		return e.Aggregate.MaxScore
	}
	if e.Record != nil {
		return e.Record.Score
	}
	return 0
}
