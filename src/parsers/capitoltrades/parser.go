// backend/src/parsers/capitoltrades/parser.go
package capitoltrades

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/chapati23/morning-briefing/src/logger"
	"github.com/chapati23/morning-briefing/src/models"
	"github.com/chapati23/morning-briefing/src/processors"
	"github.com/chapati23/morning-briefing/src/utils"
)

// DefaultMinAnomalyBytes is the document size above which a missing table or an empty result is
// reported as a structural anomaly rather than "no data today".
const DefaultMinAnomalyBytes = 5000

// CapitolTradesParser implements the parsers.TradeParser interface for the Capitol Trades listing.
type CapitolTradesParser struct {
	matcher         processors.RelevanceMatcher
	scorer          processors.ScoreProcessor
	pageURL         *url.URL
	minAnomalyBytes int
	now             func() time.Time
}

// Option customizes a CapitolTradesParser.
type Option func(*CapitolTradesParser)

// WithPageURL sets the URL the document was fetched from. Relative trade links resolve against
// it, and rows without a link point at it.
func WithPageURL(raw string) Option {
	return func(p *CapitolTradesParser) {
		if u, err := url.Parse(raw); err == nil {
			p.pageURL = u
		}
	}
}

// WithMinAnomalyBytes overrides DefaultMinAnomalyBytes.
func WithMinAnomalyBytes(n int) Option {
	return func(p *CapitolTradesParser) {
		if n > 0 {
			p.minAnomalyBytes = n
		}
	}
}

// WithClock sets the processing time used for relative dates and yearless dates.
func WithClock(now func() time.Time) Option {
	return func(p *CapitolTradesParser) {
		if now != nil {
			p.now = now
		}
	}
}

// NewParser creates a new instance of the CapitolTradesParser.
func NewParser(matcher processors.RelevanceMatcher, scorer processors.ScoreProcessor, opts ...Option) *CapitolTradesParser {
	p := &CapitolTradesParser{
		matcher:         matcher,
		scorer:          scorer,
		minAnomalyBytes: DefaultMinAnomalyBytes,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.matcher == nil {
		p.matcher = processors.NewCommitteeMatcher(nil)
	}
	if p.scorer == nil {
		p.scorer = processors.NewScoreProcessor(nil, p.matcher)
	}
	return p
}

// ExtractRecords returns only the successfully parsed records of doc.
func (p *CapitolTradesParser) ExtractRecords(doc string) []models.TradeRecord {
	return p.Parse(doc).Records
}

// Parse walks the disclosure table of doc and returns one scored record per valid row.
// It never fails: bad rows are collected as failures and layout drift is reported as an anomaly.
func (p *CapitolTradesParser) Parse(doc string) models.ParseResult {
	result := models.ParseResult{
		Records:  []models.TradeRecord{},
		DocBytes: len(doc),
	}
	substantial := len(doc) >= p.minAnomalyBytes

	// 1. Locate the table.
	var table *html.Node
	if strings.TrimSpace(doc) != "" {
		root, err := html.Parse(strings.NewReader(doc))
		if err != nil {
			logger.L.Warn("Capitol Trades parser: document could not be parsed", "error", err, "docBytes", len(doc))
		} else {
			table = findFirst(root, atom.Table)
		}
	}
	if table == nil {
		if substantial {
			result.Anomaly = models.AnomalyNoTable
			logger.L.Warn("Capitol Trades parser: no trades table in a substantial document, upstream layout may have changed",
				"docBytes", len(doc))
		}
		return result
	}
	result.TableFound = true

	// 2. Parse data rows, failing soft per row.
	now := p.now()
	for _, tr := range findAll(table, atom.Tr) {
		cells, headerOnly := childCells(tr)
		if headerOnly {
			continue
		}
		result.RowsSeen++
		rowIndex := result.RowsSeen

		record, failure := p.parseRow(tr, cells, now)
		if failure != nil {
			failure.Row = rowIndex
			logger.L.Debug("Capitol Trades parser: skipping row", "row", rowIndex, "reason", failure.Reason, "detail", failure.Detail)
			result.Failures = append(result.Failures, *failure)
			continue
		}
		result.Records = append(result.Records, record)
	}

	// 3. Zero-output canary: the table is there but nothing in it parsed.
	if len(result.Records) == 0 && substantial {
		result.Anomaly = models.AnomalyZeroOutput
		logger.L.Warn("Capitol Trades parser: zero-output canary, table found but no rows parsed",
			"docBytes", len(doc), "rowsSeen", result.RowsSeen, "failures", len(result.Failures))
	}

	logger.L.Info("Capitol Trades parser finished",
		"records", len(result.Records), "rowsSeen", result.RowsSeen, "failures", len(result.Failures))
	return result
}

func (p *CapitolTradesParser) parseRow(tr *html.Node, cells []*html.Node, now time.Time) (models.TradeRecord, *models.RowFailure) {
	if len(cells) < minCells {
		return models.TradeRecord{}, &models.RowFailure{
			Reason: models.SkipTooFewCells,
			Detail: fmt.Sprintf("%d cells, need %d", len(cells), minCells),
		}
	}

	raw := rawRowFromCells(tr, cells)
	if raw.Politician == "" {
		return models.TradeRecord{}, &models.RowFailure{Reason: models.SkipMissingPolitician}
	}

	tradeDate, ok := parseTradeDate(raw.Traded, now)
	if !ok {
		return models.TradeRecord{}, &models.RowFailure{
			Reason: models.SkipInvalidTradeDate,
			Detail: fmt.Sprintf("trade date %q", raw.Traded),
		}
	}
	disclosureDate, ok := parseDisclosureDate(raw.Disclosed, now)
	if !ok {
		logger.L.Debug("Capitol Trades parser: unreadable disclosure date, using processing time", "text", raw.Disclosed)
	}

	record := models.TradeRecord{
		Politician:     raw.Politician,
		Party:          models.ParseParty(raw.Party),
		Chamber:        models.ParseChamber(raw.Chamber),
		State:          raw.State,
		Issuer:         raw.Issuer,
		Ticker:         normalizeTicker(raw.Ticker),
		TradeDate:      tradeDate,
		DisclosureDate: disclosureDate,
		FilingLagDays:  parseFilingLag(raw.FilingLag),
		Direction:      processors.NormalizeDirection(raw.Type),
		RawType:        raw.Type,
		Owner:          raw.Owner,
		AmountRange:    raw.Size,
		AmountLow:      utils.ParseAmountRange(raw.Size),
		Price:          raw.Price,
		SourceURL:      p.resolveLink(raw.Link),
	}

	// Relevance is looked up once and handed to the scorer.
	record.Relevance = p.matcher.Match(record.Politician, record.Ticker)
	record.Score = p.scorer.ScoreWithRelevance(record, record.Relevance)
	record.HighSignal = processors.IsHighSignal(record.Score)
	return record, nil
}

func (p *CapitolTradesParser) resolveLink(href string) string {
	if p.pageURL == nil {
		return href
	}
	if href == "" {
		return p.pageURL.String()
	}
	ref, err := url.Parse(href)
	if err != nil {
		return p.pageURL.String()
	}
	return p.pageURL.ResolveReference(ref).String()
}
