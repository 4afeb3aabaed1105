package models

import "time"

// DisplayItem is a single rendered digest line handed to the delivery layer.
type DisplayItem struct {
	Text   string `json:"text"`
	Detail string `json:"detail"`
	URL    string `json:"url"`
}

// SkipReason classifies why a disclosure row was not turned into a record.
type SkipReason string

const (
	SkipTooFewCells       SkipReason = "too_few_cells"
	SkipMissingPolitician SkipReason = "missing_politician"
	SkipInvalidTradeDate  SkipReason = "invalid_trade_date"
)

// RowFailure describes one skipped row. Failures are counted, never fatal.
type RowFailure struct {
	Row    int        `json:"row"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

// Anomaly kinds raised by the row extractor when the upstream page looks structurally different.
const (
	AnomalyNone       = ""
	AnomalyNoTable    = "no_table"
	AnomalyZeroOutput = "zero_output"
)

// ParseResult is the outcome of extracting records from one scraped document.
type ParseResult struct {
	Records    []TradeRecord `json:"records"`
	Failures   []RowFailure  `json:"failures"`
	RowsSeen   int           `json:"rows_seen"`
	TableFound bool          `json:"table_found"`
	DocBytes   int           `json:"doc_bytes"`
	Anomaly    string        `json:"anomaly,omitempty"`
}

// FilterReport counts how many records each filter stage removed.
type FilterReport struct {
	Input       int `json:"input"`
	NoTicker    int `json:"no_ticker"`
	Excluded    int `json:"excluded"`
	BelowAmount int `json:"below_amount"`
	BelowScore  int `json:"below_score"`
	Passed      int `json:"passed"`
}

// Digest section statuses.
const (
	SectionStatusOK          = "ok"
	SectionStatusEmpty       = "empty"
	SectionStatusNonePassed  = "none_passed"
	SectionStatusUnavailable = "unavailable"
)

// DigestSection is the congressional-trades block of the daily digest.
type DigestSection struct {
	Title         string        `json:"title"`
	Status        string        `json:"status"`
	Message       string        `json:"message,omitempty"`
	Items         []DisplayItem `json:"items"`
	RowsParsed    int           `json:"rows_parsed"`
	RecordsPassed int           `json:"records_passed"`
	GeneratedAt   time.Time     `json:"generated_at"`
}
