package processors

import (
	"github.com/chapati23/morning-briefing/src/models"
	"github.com/chapati23/morning-briefing/src/reference"
)

// committeeMatcherImpl implements the RelevanceMatcher interface.
type committeeMatcherImpl struct {
	tables *reference.Tables
}

// NewCommitteeMatcher creates a matcher over the given reference tables.
func NewCommitteeMatcher(tables *reference.Tables) RelevanceMatcher {
	if tables == nil {
		tables = reference.Empty()
	}
	return &committeeMatcherImpl{tables: tables}
}

// Match walks the politician's committees in declaration order and returns the first one whose
// direct or tangential sectors contain the ticker's sector. Direct is preferred over tangential
// only within a single committee: an earlier tangential match wins over a later direct one.
func (m *committeeMatcherImpl) Match(politician, ticker string) *models.CommitteeRelevance {
	actor, ok := m.tables.Actor(politician)
	if !ok || len(actor.Committees) == 0 {
		return nil
	}
	sector := m.tables.Sector(ticker)
	if sector == "" {
		return nil
	}

	for _, name := range actor.Committees {
		committee, ok := m.tables.Committee(name)
		if !ok {
			continue
		}
		if committee.HasDirect(sector) {
			return &models.CommitteeRelevance{Committee: committee.Name, Tier: models.RelevanceDirect}
		}
		if committee.HasTangential(sector) {
			return &models.CommitteeRelevance{Committee: committee.Name, Tier: models.RelevanceTangential}
		}
	}
	return nil
}
