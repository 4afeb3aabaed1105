package processors

import (
	"fmt"
	"strings"
	"time"

	"github.com/chapati23/morning-briefing/src/models"
	"github.com/chapati23/morning-briefing/src/utils"
)

const (
	hotPrefix       = "🔥 "
	detailSeparator = " · "
	displayDate     = "Jan 2, 2006"
)

// formatProcessorImpl implements the FormatProcessor interface.
type formatProcessorImpl struct{}

func NewFormatProcessor() FormatProcessor {
	return &formatProcessorImpl{}
}

// Format renders entries in the order given.
func (p *formatProcessorImpl) Format(entries []models.DigestEntry) []models.DisplayItem {
	items := make([]models.DisplayItem, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.Aggregate != nil:
			items = append(items, p.FormatAggregate(*e.Aggregate))
		case e.Record != nil:
			items = append(items, p.FormatRecord(*e.Record))
		}
	}
	return items
}

// FormatRecord renders e.g. "🔥 Rep. Nancy Pelosi (D-CA) purchased NVDA" with the detail
// "$1M–$5M · Traded Jan 2, 2025 · Filed Jan 9, 2025".
func (p *formatProcessorImpl) FormatRecord(r models.TradeRecord) models.DisplayItem {
	text := headline(r.HighSignal, r.Chamber, r.Politician, r.Party, r.State, r.Direction, r.Ticker)

	var detail []string
	if r.Relevance != nil {
		detail = append(detail, r.Relevance.Committee)
	}
	if amount := formatAmountRange(r.AmountLow, utils.ParseAmountUpper(r.AmountRange), r.AmountRange); amount != "" {
		detail = append(detail, amount)
	}
	if d := formatDate(r.TradeDate); d != "" {
		detail = append(detail, "Traded "+d)
	}
	if d := formatDate(r.DisclosureDate); d != "" {
		detail = append(detail, "Filed "+d)
	}

	return models.DisplayItem{
		Text:   text,
		Detail: strings.Join(detail, detailSeparator),
		URL:    r.SourceURL,
	}
}

// FormatAggregate renders the shared headline plus "(N trades, $low–$high total)", where the
// bounds are the sums of the members' lower and upper bounds.
func (p *formatProcessorImpl) FormatAggregate(a models.AggregateRecord) models.DisplayItem {
	text := headline(a.HighSignal, a.Chamber, a.Politician, a.Party, a.State, a.Direction, a.Ticker)

	low := a.TotalAmountLow
	var high float64
	for _, m := range a.Records {
		high += utils.ParseAmountUpper(m.AmountRange)
	}
	total := formatAmountRange(low, high, "")
	if total == "" {
		text += fmt.Sprintf(" (%d trades)", a.Count)
	} else {
		text += fmt.Sprintf(" (%d trades, %s total)", a.Count, total)
	}

	detail := fmt.Sprintf("Combined from %d transactions", a.Count)
	if a.Relevance != nil {
		detail = a.Relevance.Committee + detailSeparator + detail
	}

	return models.DisplayItem{
		Text:   text,
		Detail: detail,
		URL:    a.SourceURL,
	}
}

// --- Helpers ---

func headline(hot bool, chamber models.Chamber, politician string, party models.Party, state string, direction models.Direction, ticker string) string {
	var b strings.Builder
	if hot {
		b.WriteString(hotPrefix)
	}
	if abbr := chamberAbbreviation(chamber); abbr != "" {
		b.WriteString(abbr)
		b.WriteByte(' ')
	}
	b.WriteString(politician)
	if aff := affiliation(party, state); aff != "" {
		b.WriteString(" (" + aff + ")")
	}
	b.WriteByte(' ')
	b.WriteString(verb(direction))
	b.WriteByte(' ')
	b.WriteString(ticker)
	return b.String()
}

func chamberAbbreviation(c models.Chamber) string {
	switch c {
	case models.ChamberHouse:
		return "Rep."
	case models.ChamberSenate:
		return "Sen."
	default:
		return ""
	}
}

func affiliation(party models.Party, state string) string {
	switch {
	case party != "" && state != "":
		return string(party) + "-" + state
	case party != "":
		return string(party)
	default:
		return state
	}
}

func verb(d models.Direction) string {
	if d == models.DirectionSell {
		return "sold"
	}
	return "purchased"
}

// formatAmountRange renders "$low–$high", a single "$low" when there is no distinct upper bound,
// or the raw text when neither bound parsed.
func formatAmountRange(low, high float64, raw string) string {
	switch {
	case low <= 0 && high <= 0:
		return strings.TrimSpace(raw)
	case high > low:
		return utils.FormatCompactUSD(low) + "–" + utils.FormatCompactUSD(high)
	default:
		return utils.FormatCompactUSD(low)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(displayDate)
}
