// backend/src/services/congress_trade_service.go
package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/chapati23/morning-briefing/src/logger"
	"github.com/chapati23/morning-briefing/src/metrics"
	"github.com/chapati23/morning-briefing/src/model"
	"github.com/chapati23/morning-briefing/src/models"
	"github.com/chapati23/morning-briefing/src/parsers"
	"github.com/chapati23/morning-briefing/src/processors"
)

const (
	SectionTitle = "Congressional Trades"

	MsgUnavailable = "Congress trades unavailable"
	MsgNoTrades    = "No congressional trades disclosed"
	msgNonePassed  = "%d trades checked, none passed filters"

	ckDigestSection = "digest:congress_trades"

	// DefaultCacheExpiration applies when the caller passes a cache without its own default.
	DefaultCacheExpiration = 15 * time.Minute
)

// CongressTradeDeps bundles the collaborators of CongressTradeService.
type CongressTradeDeps struct {
	Fetcher     Fetcher
	Parser      parsers.TradeParser
	Filter      processors.FilterProcessor
	Dedup       processors.DedupProcessor
	Formatter   processors.FormatProcessor
	Metrics     *metrics.Metrics // optional
	DB          *sql.DB          // optional run history
	DigestCache *cache.Cache     // optional
	TradesURL   string
	Now         func() time.Time // optional
}

// CongressTradeService runs fetch -> extract -> filter -> dedup -> format and composes the
// digest section, including the caller-facing messages for the empty cases.
type CongressTradeService struct {
	fetcher     Fetcher
	parser      parsers.TradeParser
	filter      processors.FilterProcessor
	dedup       processors.DedupProcessor
	formatter   processors.FormatProcessor
	metrics     *metrics.Metrics
	db          *sql.DB
	digestCache *cache.Cache
	tradesURL   string
	now         func() time.Time

	buildMu sync.Mutex
}

func NewCongressTradeService(deps CongressTradeDeps) *CongressTradeService {
	if deps.DigestCache == nil {
		deps.DigestCache = cache.New(DefaultCacheExpiration, 10*time.Minute)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &CongressTradeService{
		fetcher:     deps.Fetcher,
		parser:      deps.Parser,
		filter:      deps.Filter,
		dedup:       deps.Dedup,
		formatter:   deps.Formatter,
		metrics:     deps.Metrics,
		db:          deps.DB,
		digestCache: deps.DigestCache,
		tradesURL:   deps.TradesURL,
		now:         deps.Now,
	}
}

func (s *CongressTradeService) BuildDigest(ctx context.Context) (*models.DigestSection, error) {
	if section, ok := s.cachedSection(); ok {
		return section, nil
	}

	// Serialize builds so concurrent requests share one fetch.
	s.buildMu.Lock()
	defer s.buildMu.Unlock()
	if section, ok := s.cachedSection(); ok {
		return section, nil
	}

	section, run, err := s.build(ctx)
	s.recordRun(run)
	if err != nil {
		return section, err
	}
	s.digestCache.Set(ckDigestSection, section, cache.DefaultExpiration)
	return copySection(section), nil
}

func (s *CongressTradeService) Refresh(ctx context.Context) (*models.DigestSection, error) {
	s.Invalidate()
	return s.BuildDigest(ctx)
}

// Invalidate drops the cached section and the cached source page.
func (s *CongressTradeService) Invalidate() {
	s.digestCache.Delete(ckDigestSection)
	s.fetcher.Invalidate(s.tradesURL)
	logger.L.Info("Congress trades caches invalidated")
}

func (s *CongressTradeService) RecentRuns(limit int) ([]model.DigestRun, error) {
	if s.db == nil {
		return []model.DigestRun{}, nil
	}
	runs, err := model.ListRecentRuns(s.db, limit)
	if err != nil {
		return nil, fmt.Errorf("list digest runs: %w", err)
	}
	return runs, nil
}

// build runs the pipeline once. The returned run summary is always populated.
func (s *CongressTradeService) build(ctx context.Context) (*models.DigestSection, model.DigestRun, error) {
	started := s.now()
	run := model.DigestRun{ID: uuid.NewString(), StartedAt: started}
	section := &models.DigestSection{Title: SectionTitle, Items: []models.DisplayItem{}, GeneratedAt: started}

	finish := func(status string) {
		section.Status = status
		run.Status = status
		run.FinishedAt = s.now()
		run.ItemsRendered = len(section.Items)
		if s.metrics != nil {
			s.metrics.ObserveDigest(status, len(section.Items), run.FinishedAt.Sub(started))
		}
	}

	// 1. Fetch
	doc, err := s.fetcher.Fetch(ctx, s.tradesURL)
	if err != nil {
		section.Message = MsgUnavailable
		run.Error = err.Error()
		finish(models.SectionStatusUnavailable)
		logger.L.Warn("Congress trades source unavailable", "url", s.tradesURL, "error", err)
		return section, run, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	// 2. Extract
	result := s.parser.Parse(doc)
	if s.metrics != nil {
		s.metrics.ObserveParse(result)
	}
	run.RowsSeen = result.RowsSeen
	run.RowsParsed = len(result.Records)
	run.RowsSkipped = len(result.Failures)
	run.Anomaly = result.Anomaly
	section.RowsParsed = len(result.Records)

	if len(result.Records) == 0 {
		section.Message = MsgNoTrades
		finish(models.SectionStatusEmpty)
		return section, run, nil
	}

	// 3. Filter
	kept, report := s.filter.FilterWithReport(result.Records)
	if s.metrics != nil {
		s.metrics.ObserveFilter(report)
	}
	run.RecordsPassed = len(kept)
	section.RecordsPassed = len(kept)

	if len(kept) == 0 {
		section.Message = fmt.Sprintf(msgNonePassed, len(result.Records))
		finish(models.SectionStatusNonePassed)
		return section, run, nil
	}

	// 4. Deduplicate and format
	entries := s.dedup.Deduplicate(kept)
	section.Items = s.formatter.Format(entries)
	finish(models.SectionStatusOK)

	logger.L.Info("Congress trades digest built",
		"rowsParsed", run.RowsParsed, "rowsSkipped", run.RowsSkipped,
		"passed", report.Passed, "items", len(section.Items), "anomaly", run.Anomaly)
	return section, run, nil
}

func (s *CongressTradeService) recordRun(run model.DigestRun) {
	if s.db == nil {
		return
	}
	if err := model.InsertRun(s.db, run); err != nil {
		logger.L.Error("Failed to record digest run", "runID", run.ID, "error", err)
	}
}

func (s *CongressTradeService) cachedSection() (*models.DigestSection, bool) {
	if cached, found := s.digestCache.Get(ckDigestSection); found {
		return copySection(cached.(*models.DigestSection)), true
	}
	return nil, false
}

// copySection keeps callers from mutating the cached value. Items is never nil.
func copySection(in *models.DigestSection) *models.DigestSection {
	out := *in
	out.Items = append(make([]models.DisplayItem, 0, len(in.Items)), in.Items...)
	return &out
}
