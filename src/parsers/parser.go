package parsers

import "github.com/chapati23/morning-briefing/src/models"

// TradeParser turns a scraped disclosure page into scored trade records.
type TradeParser interface {
	Parse(doc string) models.ParseResult
}
