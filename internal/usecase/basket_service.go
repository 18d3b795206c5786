package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/danlewismuriuki/deals-spotter-backend/internal/domain"
)

const (
	defaultWorkerLimit = 8 // concurrent item matches, bounded by store connections

	// foundConfidenceFloor is the confidence above which an item counts as found
	foundConfidenceFloor = 50.0

	cacheKeyDelimiter = "|"
)

// BasketServiceConfig holds configuration for the basket service
type BasketServiceConfig struct {
	WorkerLimit int
}

// BasketService matches every item of a basket against the catalog, scales
// prices by requested quantity, and aggregates per-store totals. Whole-basket
// results are memoized in the result cache, and identical in-flight baskets
// are collapsed to a single computation.
type BasketService struct {
	normalizer *Normalizer
	matcher    *Matcher
	cache      domain.ResultCache
	logger     zerolog.Logger
	limit      int
	flight     singleflight.Group
	now        func() time.Time
}

// NewBasketService creates a basket service with its dependencies.
func NewBasketService(normalizer *Normalizer, matcher *Matcher, cache domain.ResultCache, config BasketServiceConfig, logger zerolog.Logger) *BasketService {
	limit := config.WorkerLimit
	if limit <= 0 {
		limit = defaultWorkerLimit
	}

	return &BasketService{
		normalizer: normalizer,
		matcher:    matcher,
		cache:      cache,
		logger:     logger,
		limit:      limit,
		now:        time.Now,
	}
}

// SetClock overrides the service clock for tests.
func (s *BasketService) SetClock(now func() time.Time) {
	s.now = now
	s.matcher.SetClock(now)
}

// CompareBasket matches all items and assembles the basket response. Items
// are matched concurrently with a bounded worker count. Results are cached by
// the basket key; a repeated basket within the TTL is served from cache with
// Cached set.
func (s *BasketService) CompareBasket(ctx context.Context, items []string) (*domain.BasketComparison, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidBasket
	}
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			return nil, domain.ErrInvalidBasket
		}
	}

	key := BasketCacheKey(items)

	if cached, ok := s.cache.Get(key); ok {
		hit := *cached
		hit.Cached = true
		s.logger.Debug().Str("key", key).Msg("basket served from cache")
		return &hit, nil
	}

	// Collapse concurrent identical misses to one computation.
	v, err, shared := s.flight.Do(key, func() (interface{}, error) {
		result, err := s.compareBasket(ctx, items)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, result)
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	result := *(v.(*domain.BasketComparison))
	if shared {
		s.logger.Debug().Str("key", key).Msg("basket computation shared in flight")
	}
	return &result, nil
}

// BasketCacheKey derives a case- and order-independent key from the basket's
// raw item strings.
func BasketCacheKey(items []string) string {
	normalized := make([]string, len(items))
	for i, item := range items {
		normalized[i] = strings.ToLower(strings.TrimSpace(item))
	}
	sort.Strings(normalized)
	return strings.Join(normalized, cacheKeyDelimiter)
}

func (s *BasketService) compareBasket(ctx context.Context, items []string) (*domain.BasketComparison, error) {
	started := s.now()

	results := make([]domain.MatchResult, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for i, raw := range items {
		g.Go(func() error {
			result, err := s.matchItem(gctx, raw)
			if err != nil {
				return err
			}
			results[i] = *result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	comparison := &domain.BasketComparison{
		Summary:          summarize(results, s.now().Sub(started)),
		StoreComparisons: compareStores(results),
		ItemDetails:      results,
	}
	return comparison, nil
}

// matchItem runs the full per-item flow: normalize, generate candidates,
// score, and scale the winning price by the requested quantity.
func (s *BasketService) matchItem(ctx context.Context, raw string) (*domain.MatchResult, error) {
	item := s.normalizer.Normalize(raw)

	// Nothing left to search on; skip candidate queries entirely.
	if len(item.Keywords) == 0 {
		return emptyResult(item), nil
	}

	entries, source, err := s.matcher.FindCandidates(ctx, item)
	if err != nil {
		return nil, err
	}

	winner, alternatives := RankCandidates(item, entries, source, s.now())
	if winner == nil {
		return emptyResult(item), nil
	}

	return s.assembleResult(item, winner, alternatives, source), nil
}

func (s *BasketService) assembleResult(item domain.NormalizedItem, winner *domain.MatchCandidate, alternatives []domain.MatchCandidate, source domain.MatchSource) *domain.MatchResult {
	entry := winner.Entry

	requirement := CalculateQuantityRequirements(item.Quantity, item.Unit, entry.Package)
	unitPrice := CalculateUnitPrice(&entry)
	totalPrice := entry.CurrentPrice * float64(requirement.Multiplier)

	result := &domain.MatchResult{
		InputText:          item.OriginalText,
		RequestedQuantity:  item.Quantity,
		RequestedUnit:      item.Unit,
		MatchedEntryID:     &entry.ID,
		MatchedName:        &entry.Name,
		Store:              &entry.Store,
		UnitPrice:          &unitPrice,
		TotalPrice:         &totalPrice,
		PackageSize:        entry.Package,
		QuantityMultiplier: requirement.Multiplier,
		CanFulfill:         requirement.CanFulfill,
		Confidence:         winner.Score,
		MatchSource:        source,
	}

	for _, alt := range alternatives {
		result.Alternatives = append(result.Alternatives, domain.MatchAlternative{
			EntryID:      alt.Entry.ID,
			Name:         alt.Entry.Name,
			Store:        alt.Entry.Store,
			CurrentPrice: alt.Entry.CurrentPrice,
			Score:        alt.Score,
		})
	}

	return result
}

// emptyResult is the zero-confidence outcome for items with no surviving
// candidates. It is a valid response, not an error.
func emptyResult(item domain.NormalizedItem) *domain.MatchResult {
	return &domain.MatchResult{
		InputText:          item.OriginalText,
		RequestedQuantity:  item.Quantity,
		RequestedUnit:      item.Unit,
		QuantityMultiplier: 1,
		CanFulfill:         true,
		Confidence:         0,
		MatchSource:        domain.MatchSourceTextSearch,
	}
}

func summarize(results []domain.MatchResult, elapsed time.Duration) domain.BasketSummary {
	summary := domain.BasketSummary{
		TotalItems:       len(results),
		ProcessingTimeMs: elapsed.Milliseconds(),
	}

	var confidenceSum float64
	for _, r := range results {
		confidenceSum += r.Confidence
		if r.Confidence > foundConfidenceFloor {
			summary.ItemsFound++
		}
	}
	if len(results) > 0 {
		summary.AverageConfidence = confidenceSum / float64(len(results))
	}
	return summary
}

// compareStores projects the basket total for every supported store, sorted
// ascending by total. Matched prices are applied uniformly to every store
// regardless of which store the winning entry belongs to (see DESIGN.md).
func compareStores(results []domain.MatchResult) []domain.StoreComparison {
	var total float64
	var found int
	var confidenceSum float64

	for _, r := range results {
		if r.TotalPrice != nil {
			total += *r.TotalPrice
		}
		if r.Confidence > foundConfidenceFloor {
			found++
		}
		confidenceSum += r.Confidence
	}

	avgConfidence := 0.0
	if len(results) > 0 {
		avgConfidence = confidenceSum / float64(len(results))
	}

	stores := domain.AllStores()
	comparisons := make([]domain.StoreComparison, len(stores))
	for i, store := range stores {
		comparisons[i] = domain.StoreComparison{
			Store:      store,
			Total:      total,
			ItemsFound: found,
			TotalItems: len(results),
			Confidence: avgConfidence,
		}
	}

	sort.SliceStable(comparisons, func(i, j int) bool {
		return comparisons[i].Total < comparisons[j].Total
	})
	return comparisons
}
