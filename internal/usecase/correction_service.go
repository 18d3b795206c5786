package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/danlewismuriuki/deals-spotter-backend/internal/domain"
)

// correctionConfidence is assigned to every user-submitted correction.
const correctionConfidence = 90.0

// CorrectionService records user feedback linking a query to the catalog
// entry it should have matched. Every recorded correction invalidates the
// whole result cache.
type CorrectionService struct {
	catalog     domain.CandidateSource
	corrections domain.CorrectionStore
	cache       domain.ResultCache
	logger      zerolog.Logger
	now         func() time.Time
}

// NewCorrectionService creates a correction service with its dependencies.
func NewCorrectionService(catalog domain.CandidateSource, corrections domain.CorrectionStore, cache domain.ResultCache, logger zerolog.Logger) *CorrectionService {
	return &CorrectionService{
		catalog:     catalog,
		corrections: corrections,
		cache:       cache,
		logger:      logger,
		now:         time.Now,
	}
}

// RecordCorrection validates that the corrected entry exists, persists the
// correction, and clears the result cache. An unresolved entry id surfaces as
// ErrEntryNotFound.
func (s *CorrectionService) RecordCorrection(ctx context.Context, originalQuery, correctedEntryID, userID string) (*domain.UserCorrection, error) {
	originalQuery = strings.TrimSpace(originalQuery)
	correctedEntryID = strings.TrimSpace(correctedEntryID)
	if originalQuery == "" || correctedEntryID == "" {
		return nil, domain.ErrInvalidCorrection
	}

	entry, err := s.catalog.FindByID(ctx, correctedEntryID)
	if err != nil {
		return nil, err
	}

	correction := &domain.UserCorrection{
		ID:               uuid.NewString(),
		OriginalQuery:    strings.ToLower(originalQuery),
		CorrectedEntryID: entry.ID,
		CorrectedName:    entry.Name,
		Confidence:       correctionConfidence,
		UserID:           userID,
		CreatedAt:        s.now(),
	}

	if err := s.corrections.SaveCorrection(ctx, correction); err != nil {
		return nil, err
	}

	s.cache.Clear()
	s.logger.Info().
		Str("query", correction.OriginalQuery).
		Str("entry_id", correction.CorrectedEntryID).
		Msg("correction recorded, result cache cleared")

	return correction, nil
}
