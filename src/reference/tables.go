package reference

import (
	"sort"
	"strings"

	"github.com/chapati23/morning-briefing/src/models"
)

// DefaultActorMultiplier applies to legislators missing from the actor table.
const DefaultActorMultiplier = 1.0

// ActorProfile is the static reference entry for one legislator.
type ActorProfile struct {
	Name       string
	Multiplier float64
	Committees []string // Declaration order is significant for relevance matching
	Chamber    models.Chamber
	State      string
	Party      models.Party
}

// CommitteeSectors lists the sectors a committee oversees directly and tangentially.
type CommitteeSectors struct {
	Name       string
	Direct     []string
	Tangential []string

	direct     map[string]struct{}
	tangential map[string]struct{}
}

// NewCommitteeSectors builds a committee entry with case-insensitive sector sets.
func NewCommitteeSectors(name string, direct, tangential []string) CommitteeSectors {
	c := CommitteeSectors{
		Name:       name,
		Direct:     trimAll(direct),
		Tangential: trimAll(tangential),
	}
	c.direct = toSet(c.Direct)
	c.tangential = toSet(c.Tangential)
	return c
}

// HasDirect reports whether sector is in the committee's direct jurisdiction.
func (c CommitteeSectors) HasDirect(sector string) bool {
	_, ok := c.direct[sectorKey(sector)]
	return ok
}

// HasTangential reports whether sector is in the committee's tangential jurisdiction.
func (c CommitteeSectors) HasTangential(sector string) bool {
	_, ok := c.tangential[sectorKey(sector)]
	return ok
}

// Tables is the immutable set of reference data consulted by the matcher, scorer and filter.
// It is built once at startup and never mutated, so it can be shared across goroutines.
type Tables struct {
	actors        map[string]ActorProfile
	committees    map[string]CommitteeSectors
	tickerSectors map[string]string
	excluded      map[string]struct{}
}

// NewTables assembles lookup structures from already-validated entries.
func NewTables(actors []ActorProfile, committees []CommitteeSectors, tickerSectors map[string]string, excluded []string) *Tables {
	t := &Tables{
		actors:        make(map[string]ActorProfile, len(actors)),
		committees:    make(map[string]CommitteeSectors, len(committees)),
		tickerSectors: make(map[string]string, len(tickerSectors)),
		excluded:      make(map[string]struct{}, len(excluded)),
	}
	for _, a := range actors {
		if a.Multiplier <= 0 {
			a.Multiplier = DefaultActorMultiplier
		}
		t.actors[nameKey(a.Name)] = a
	}
	for _, c := range committees {
		if c.direct == nil && c.tangential == nil {
			c = NewCommitteeSectors(c.Name, c.Direct, c.Tangential)
		}
		t.committees[nameKey(c.Name)] = c
	}
	for ticker, sector := range tickerSectors {
		t.tickerSectors[tickerKey(ticker)] = strings.TrimSpace(sector)
	}
	for _, ticker := range excluded {
		t.excluded[tickerKey(ticker)] = struct{}{}
	}
	return t
}

// Empty returns tables with no entries. Every actor gets the default multiplier and nothing matches.
func Empty() *Tables {
	return NewTables(nil, nil, nil, nil)
}

// --- Lookups ---

// Actor returns the profile for a legislator. Names match case-insensitively.
func (t *Tables) Actor(name string) (ActorProfile, bool) {
	a, ok := t.actors[nameKey(name)]
	return a, ok
}

// ActorMultiplier returns the legislator's weight, or DefaultActorMultiplier when unknown.
func (t *Tables) ActorMultiplier(name string) float64 {
	if a, ok := t.Actor(name); ok {
		return a.Multiplier
	}
	return DefaultActorMultiplier
}

// Committee returns the sector jurisdiction of a committee.
func (t *Tables) Committee(name string) (CommitteeSectors, bool) {
	c, ok := t.committees[nameKey(name)]
	return c, ok
}

// Sector returns the sector label of a ticker, or "" when unknown.
func (t *Tables) Sector(ticker string) string {
	return t.tickerSectors[tickerKey(ticker)]
}

// IsExcluded reports whether the ticker is on the exclusion list.
func (t *Tables) IsExcluded(ticker string) bool {
	_, ok := t.excluded[tickerKey(ticker)]
	return ok
}

// Stats summarizes table sizes for startup logging.
type Stats struct {
	Actors        int `json:"actors"`
	Committees    int `json:"committees"`
	TickerSectors int `json:"ticker_sectors"`
	Excluded      int `json:"excluded"`
}

func (t *Tables) Stats() Stats {
	return Stats{
		Actors:        len(t.actors),
		Committees:    len(t.committees),
		TickerSectors: len(t.tickerSectors),
		Excluded:      len(t.excluded),
	}
}

// ExcludedTickers returns the exclusion list in sorted order.
func (t *Tables) ExcludedTickers() []string {
	out := make([]string, 0, len(t.excluded))
	for ticker := range t.excluded {
		out = append(out, ticker)
	}
	sort.Strings(out)
	return out
}

// --- Helpers ---

func nameKey(s string) string   { return strings.ToLower(strings.Join(strings.Fields(s), " ")) }
func tickerKey(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
func sectorKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func toSet(in []string) map[string]struct{} {
	set := make(map[string]struct{}, len(in))
	for _, s := range in {
		set[sectorKey(s)] = struct{}{}
	}
	return set
}
