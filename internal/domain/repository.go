package domain

import (
	"context"
	"time"
)

// CandidateSource abstracts the query surface the matcher needs from the
// catalog store. Implementations must fail fast when ctx is cancelled.
type CandidateSource interface {
	// TextSearch returns entries whose name contains any of the keywords.
	TextSearch(ctx context.Context, keywords []string, activeOnly bool, since time.Time, limit int) ([]CatalogEntry, error)

	// RegexSearch returns entries whose name contains all of the keywords.
	RegexSearch(ctx context.Context, keywords []string, activeOnly bool, since time.Time, limit int) ([]CatalogEntry, error)

	// SampleRecent returns a bounded pool of recent entries for fuzzy matching.
	SampleRecent(ctx context.Context, activeOnly bool, since time.Time, limit int) ([]CatalogEntry, error)

	// FindByID returns the entry with the given id, or ErrEntryNotFound.
	FindByID(ctx context.Context, id string) (*CatalogEntry, error)
}

// CorrectionStore provides access to user correction records.
type CorrectionStore interface {
	// LatestCorrectionMatching returns the newest correction whose original
	// query matches the keywords, or nil when none exists.
	LatestCorrectionMatching(ctx context.Context, keywords []string) (*UserCorrection, error)

	SaveCorrection(ctx context.Context, correction *UserCorrection) error
}

// CatalogWriter is the write path used by the ingestion collaborator.
type CatalogWriter interface {
	SaveEntries(ctx context.Context, entries []CatalogEntry) error
}

// ResultCache memoizes whole-basket comparisons. Implementations must be safe
// under concurrent access, and Clear must be visible to subsequent lookups
// immediately.
type ResultCache interface {
	Get(key string) (*BasketComparison, bool)
	Set(key string, value *BasketComparison)
	Clear()
	Stats() CacheStats
}

// CacheStats reports result cache usage counters.
type CacheStats struct {
	Keys   int    `json:"keys"`
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}
