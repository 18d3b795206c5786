package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/danlewismuriuki/deals-spotter-backend/internal/domain"
)

// Pipeline defaults
const (
	defaultRecencyWindow    = 7 * 24 * time.Hour
	defaultTextSearchLimit  = 20
	defaultTextSearchExit   = 5 // go straight to scoring at this many candidates
	defaultRegexSearchLimit = 15
	defaultRegexSearchExit  = 3
	defaultFuzzySampleLimit = 500
	defaultFuzzyResultLimit = 10
	defaultFuzzyMaxDistance = 2

	// corrections above this short-circuit the pipeline
	correctionMinConfidence = 80.0
)

// MatcherConfig holds tuning knobs for the candidate pipeline. Zero values
// fall back to the package defaults.
type MatcherConfig struct {
	RecencyWindow    time.Duration
	TextSearchLimit  int
	TextSearchExit   int
	RegexSearchLimit int
	RegexSearchExit  int
	FuzzySampleLimit int
	FuzzyResultLimit int
	FuzzyMaxDistance int
}

func (c *MatcherConfig) applyDefaults() {
	if c.RecencyWindow <= 0 {
		c.RecencyWindow = defaultRecencyWindow
	}
	if c.TextSearchLimit <= 0 {
		c.TextSearchLimit = defaultTextSearchLimit
	}
	if c.TextSearchExit <= 0 {
		c.TextSearchExit = defaultTextSearchExit
	}
	if c.RegexSearchLimit <= 0 {
		c.RegexSearchLimit = defaultRegexSearchLimit
	}
	if c.RegexSearchExit <= 0 {
		c.RegexSearchExit = defaultRegexSearchExit
	}
	if c.FuzzySampleLimit <= 0 {
		c.FuzzySampleLimit = defaultFuzzySampleLimit
	}
	if c.FuzzyResultLimit <= 0 {
		c.FuzzyResultLimit = defaultFuzzyResultLimit
	}
	if c.FuzzyMaxDistance <= 0 {
		c.FuzzyMaxDistance = defaultFuzzyMaxDistance
	}
}

// Matcher runs the staged candidate pipeline for a single normalized item.
type Matcher struct {
	catalog     domain.CandidateSource
	corrections domain.CorrectionStore
	config      MatcherConfig
	logger      zerolog.Logger
	now         func() time.Time
}

// NewMatcher creates a matcher over the given candidate source and correction store.
func NewMatcher(catalog domain.CandidateSource, corrections domain.CorrectionStore, config MatcherConfig, logger zerolog.Logger) *Matcher {
	config.applyDefaults()
	return &Matcher{
		catalog:     catalog,
		corrections: corrections,
		config:      config,
		logger:      logger,
		now:         time.Now,
	}
}

// SetClock overrides the matcher's clock. Tests use this to pin the recency window.
func (m *Matcher) SetClock(now func() time.Time) {
	m.now = now
}

// stage is one step of the fallback chain. Its exit predicate decides whether
// the running candidate total is enough to proceed directly to scoring.
type stage struct {
	source domain.MatchSource
	run    func(ctx context.Context, item domain.NormalizedItem, since time.Time) ([]domain.CatalogEntry, error)
	// exitAt stops the chain once the merged candidate count reaches it
	exitAt int
}

// FindCandidates runs the staged pipeline: correction check, text search,
// regex search, then fuzzy matching over a bounded sample. Stages merge into
// a running set de-duplicated by entry id, and each stage's exit predicate
// can cut the chain short. A stage's query failure is recovered locally and
// the next stage runs; caller cancellation is fatal.
//
// The returned MatchSource is the highest-priority stage that contributed to
// the final set. It is a single label for the whole set, not per-candidate
// provenance.
func (m *Matcher) FindCandidates(ctx context.Context, item domain.NormalizedItem) ([]domain.CatalogEntry, domain.MatchSource, error) {
	since := m.now().Add(-m.config.RecencyWindow)

	// Corrections trump everything when confident enough.
	if sole, err := m.correctionCandidate(ctx, item); err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		m.logger.Warn().Err(err).Str("item", item.OriginalText).Msg("correction lookup failed, continuing pipeline")
	} else if sole != nil {
		return []domain.CatalogEntry{*sole}, domain.MatchSourceCorrection, nil
	}

	stages := []stage{
		{source: domain.MatchSourceTextSearch, exitAt: m.config.TextSearchExit, run: m.textSearch},
		{source: domain.MatchSourceRegex, exitAt: m.config.RegexSearchExit, run: m.regexSearch},
		{source: domain.MatchSourceFuzzy, run: m.fuzzySearch},
	}

	var (
		merged      []domain.CatalogEntry
		seen        = make(map[string]bool)
		contributed = make(map[domain.MatchSource]bool)
	)

	for _, st := range stages {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}

		entries, err := st.run(ctx, item, since)
		if err != nil {
			if ctx.Err() != nil {
				return nil, "", ctx.Err()
			}
			m.logger.Warn().Err(err).
				Str("stage", string(st.source)).
				Str("item", item.OriginalText).
				Msg("pipeline stage failed, advancing to next stage")
			continue
		}

		for _, entry := range entries {
			if seen[entry.ID] {
				continue
			}
			seen[entry.ID] = true
			merged = append(merged, entry)
			contributed[st.source] = true
		}

		if st.exitAt > 0 && len(merged) >= st.exitAt {
			break
		}
	}

	return merged, labelFor(contributed), nil
}

// labelFor picks the single matchSource label in priority order among the
// stages that actually added candidates.
func labelFor(contributed map[domain.MatchSource]bool) domain.MatchSource {
	for _, source := range []domain.MatchSource{
		domain.MatchSourceTextSearch,
		domain.MatchSourceRegex,
		domain.MatchSourceFuzzy,
	} {
		if contributed[source] {
			return source
		}
	}
	// Empty candidate set keeps the default label.
	return domain.MatchSourceTextSearch
}

// correctionCandidate resolves a high-confidence user correction to its
// catalog entry. Returns nil when no correction applies.
func (m *Matcher) correctionCandidate(ctx context.Context, item domain.NormalizedItem) (*domain.CatalogEntry, error) {
	correction, err := m.corrections.LatestCorrectionMatching(ctx, item.Keywords)
	if err != nil {
		return nil, err
	}
	if correction == nil || correction.Confidence <= correctionMinConfidence {
		return nil, nil
	}

	entry, err := m.catalog.FindByID(ctx, correction.CorrectedEntryID)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (m *Matcher) textSearch(ctx context.Context, item domain.NormalizedItem, since time.Time) ([]domain.CatalogEntry, error) {
	return m.catalog.TextSearch(ctx, item.Keywords, true, since, m.config.TextSearchLimit)
}

func (m *Matcher) regexSearch(ctx context.Context, item domain.NormalizedItem, since time.Time) ([]domain.CatalogEntry, error) {
	return m.catalog.RegexSearch(ctx, item.Keywords, true, since, m.config.RegexSearchLimit)
}

// fuzzySearch draws a bounded recent sample and keeps entries whose name is
// within the edit-distance threshold of the item's keywords, closest first.
func (m *Matcher) fuzzySearch(ctx context.Context, item domain.NormalizedItem, since time.Time) ([]domain.CatalogEntry, error) {
	pool, err := m.catalog.SampleRecent(ctx, true, since, m.config.FuzzySampleLimit)
	if err != nil {
		return nil, err
	}

	type scored struct {
		entry    domain.CatalogEntry
		distance int
	}

	var matches []scored
	for _, entry := range pool {
		if d := keywordDistance(item.Keywords, entry.Name); d <= m.config.FuzzyMaxDistance {
			matches = append(matches, scored{entry: entry, distance: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})
	if len(matches) > m.config.FuzzyResultLimit {
		matches = matches[:m.config.FuzzyResultLimit]
	}

	entries := make([]domain.CatalogEntry, len(matches))
	for i, s := range matches {
		entries[i] = s.entry
	}
	return entries, nil
}
