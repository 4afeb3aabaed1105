// backend/src/services/interfaces.go
package services

import (
	"context"
	"errors"

	"github.com/chapati23/morning-briefing/src/model"
	"github.com/chapati23/morning-briefing/src/models"
)

// Define common service errors
var (
	ErrFetchFailed       = errors.New("fetch failed")
	ErrSourceUnavailable = errors.New("source unavailable")
)

// Fetcher obtains the raw HTML of the disclosure listing.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	// Invalidate drops any cached body for url.
	Invalidate(url string)
}

// DigestService builds the congressional-trades section of the daily digest.
type DigestService interface {
	// BuildDigest returns the section, served from cache when fresh. When the source cannot be
	// fetched it still returns the "unavailable" placeholder section, together with an error
	// wrapping ErrSourceUnavailable.
	BuildDigest(ctx context.Context) (*models.DigestSection, error)
	// Refresh drops every cache and builds the section again.
	Refresh(ctx context.Context) (*models.DigestSection, error)
	RecentRuns(limit int) ([]model.DigestRun, error)
}
