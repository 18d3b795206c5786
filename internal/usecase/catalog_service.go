package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/danlewismuriuki/deals-spotter-backend/internal/domain"
)

// CatalogService is the ingestion-facing write path. The scraper collaborator
// pushes batches of entries through it; every accepted batch invalidates the
// whole result cache so stale basket prices are never served.
type CatalogService struct {
	reader domain.CandidateSource
	writer domain.CatalogWriter
	cache  domain.ResultCache
	logger zerolog.Logger
}

// NewCatalogService creates a catalog service with its dependencies.
func NewCatalogService(reader domain.CandidateSource, writer domain.CatalogWriter, cache domain.ResultCache, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		reader: reader,
		writer: writer,
		cache:  cache,
		logger: logger,
	}
}

// SaveEntries validates and upserts a batch of scraped entries, then clears
// the result cache.
func (s *CatalogService) SaveEntries(ctx context.Context, entries []domain.CatalogEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: empty entry batch", domain.ErrInvalidEntry)
	}
	for i, entry := range entries {
		if entry.ID == "" || entry.Name == "" {
			return fmt.Errorf("%w: entry %d: id and name are required", domain.ErrInvalidEntry, i)
		}
		if entry.CurrentPrice <= 0 {
			return fmt.Errorf("%w: entry %d (%s): currentPrice must be positive", domain.ErrInvalidEntry, i, entry.ID)
		}
	}

	if err := s.writer.SaveEntries(ctx, entries); err != nil {
		return err
	}

	s.cache.Clear()
	s.logger.Info().Int("entries", len(entries)).Msg("catalog batch saved, result cache cleared")
	return nil
}

// GetEntry looks up a single catalog entry by id.
func (s *CatalogService) GetEntry(ctx context.Context, id string) (*domain.CatalogEntry, error) {
	return s.reader.FindByID(ctx, id)
}
