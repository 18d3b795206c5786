package domain

import "errors"

var (
	// ErrInvalidBasket is returned when a basket request is empty or malformed
	ErrInvalidBasket = errors.New("basket must contain at least one item")

	// ErrInvalidCorrection is returned when a correction request is missing required fields
	ErrInvalidCorrection = errors.New("correction requires originalQuery and correctedEntryId")

	// ErrInvalidEntry is returned when an ingested catalog entry fails validation
	ErrInvalidEntry = errors.New("catalog entry failed validation")

	// ErrEntryNotFound is returned when a catalog entry id does not resolve
	ErrEntryNotFound = errors.New("catalog entry not found")

	// ErrCandidateSource is returned when a pipeline stage's store query fails.
	// The matcher recovers from it locally and advances to the next stage.
	ErrCandidateSource = errors.New("candidate source query failed")
)
