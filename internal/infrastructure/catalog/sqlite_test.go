package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danlewismuriuki/deals-spotter-backend/internal/domain"
)

var storeNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedEntries(t *testing.T, store *SQLiteStore, entries []domain.CatalogEntry) {
	t.Helper()
	require.NoError(t, store.SaveEntries(context.Background(), entries))
}

func floatPtr(f float64) *float64 { return &f }

func testEntries() []domain.CatalogEntry {
	return []domain.CatalogEntry{
		{
			ID:            "rice-1",
			Name:          "Pearl Rice 1kg",
			Store:         domain.StoreNaivas,
			CurrentPrice:  150,
			OriginalPrice: floatPtr(180),
			Package:       &domain.PackageSize{Amount: 1, Unit: domain.UnitKilogram},
			UnitPrice:     floatPtr(150),
			Category:      "grains",
			ScrapedAt:     storeNow,
			IsActive:      true,
		},
		{
			ID:           "rice-2",
			Name:         "Basmati Rice 2kg",
			Store:        domain.StoreCarrefour,
			CurrentPrice: 400,
			ScrapedAt:    storeNow.Add(-time.Hour),
			IsActive:     true,
		},
		{
			ID:           "milk-1",
			Name:         "Fresh Milk 500ml",
			Store:        domain.StoreQuickmart,
			CurrentPrice: 60,
			ScrapedAt:    storeNow.Add(-2 * time.Hour),
			IsActive:     true,
		},
		{
			ID:           "rice-old",
			Name:         "Rice Flour 1kg",
			Store:        domain.StoreNaivas,
			CurrentPrice: 120,
			ScrapedAt:    storeNow.Add(-30 * 24 * time.Hour),
			IsActive:     true,
		},
		{
			ID:           "rice-inactive",
			Name:         "Brown Rice 1kg",
			Store:        domain.StoreNaivas,
			CurrentPrice: 200,
			ScrapedAt:    storeNow,
			IsActive:     false,
		},
	}
}

func TestSaveEntriesAndFindByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedEntries(t, store, testEntries())

	entry, err := store.FindByID(ctx, "rice-1")
	require.NoError(t, err)

	assert.Equal(t, "Pearl Rice 1kg", entry.Name)
	assert.Equal(t, domain.StoreNaivas, entry.Store)
	assert.Equal(t, 150.0, entry.CurrentPrice)
	require.NotNil(t, entry.OriginalPrice)
	assert.Equal(t, 180.0, *entry.OriginalPrice)
	require.NotNil(t, entry.Package)
	assert.Equal(t, domain.PackageSize{Amount: 1, Unit: domain.UnitKilogram}, *entry.Package)
	require.NotNil(t, entry.UnitPrice)
	assert.Equal(t, 150.0, *entry.UnitPrice)
	assert.Equal(t, "grains", entry.Category)
	assert.True(t, entry.ScrapedAt.Equal(storeNow))
	assert.True(t, entry.IsActive)
	assert.True(t, entry.OnPromotion())

	// Optional columns stay nil when absent.
	bare, err := store.FindByID(ctx, "rice-2")
	require.NoError(t, err)
	assert.Nil(t, bare.OriginalPrice)
	assert.Nil(t, bare.Package)
	assert.Nil(t, bare.UnitPrice)
	assert.Empty(t, bare.Category)
}

func TestFindByIDNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestSaveEntriesUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedEntries(t, store, testEntries())

	updated := testEntries()[0]
	updated.CurrentPrice = 135
	updated.OriginalPrice = nil
	seedEntries(t, store, []domain.CatalogEntry{updated})

	entry, err := store.FindByID(ctx, "rice-1")
	require.NoError(t, err)
	assert.Equal(t, 135.0, entry.CurrentPrice)
	assert.Nil(t, entry.OriginalPrice)
}

func TestTextSearchMatchesAnyKeyword(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEntries(t, store, testEntries())
	since := storeNow.Add(-7 * 24 * time.Hour)

	entries, err := store.TextSearch(ctx, []string{"rice", "milk"}, true, since, 20)
	require.NoError(t, err)

	ids := entryIDs(entries)
	assert.ElementsMatch(t, []string{"rice-1", "rice-2", "milk-1"}, ids)
	assert.NotContains(t, ids, "rice-old", "entries outside the recency window are excluded")
	assert.NotContains(t, ids, "rice-inactive", "inactive entries are excluded")
}

func TestRegexSearchMatchesAllKeywords(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEntries(t, store, testEntries())
	since := storeNow.Add(-7 * 24 * time.Hour)

	entries, err := store.RegexSearch(ctx, []string{"basmati", "rice"}, true, since, 20)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "rice-2", entries[0].ID)

	// No entry carries both terms.
	entries, err = store.RegexSearch(ctx, []string{"rice", "milk"}, true, since, 20)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestKeywordSearchEdges(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEntries(t, store, testEntries())
	since := storeNow.Add(-7 * 24 * time.Hour)

	t.Run("no keywords short-circuits", func(t *testing.T) {
		entries, err := store.TextSearch(ctx, nil, true, since, 20)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		entries, err := store.TextSearch(ctx, []string{"RICE"}, true, since, 20)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("limit caps the result set", func(t *testing.T) {
		entries, err := store.TextSearch(ctx, []string{"rice"}, true, since, 1)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "rice-1", entries[0].ID, "most recently scraped first")
	})

	t.Run("inactive entries included when activeOnly is off", func(t *testing.T) {
		entries, err := store.TextSearch(ctx, []string{"rice"}, false, since, 20)
		require.NoError(t, err)
		assert.Contains(t, entryIDs(entries), "rice-inactive")
	})
}

func TestSampleRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEntries(t, store, testEntries())
	since := storeNow.Add(-7 * 24 * time.Hour)

	entries, err := store.SampleRecent(ctx, true, since, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "rice-1", entries[0].ID)
	assert.Equal(t, "rice-2", entries[1].ID)
}

func TestCorrections(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEntries(t, store, testEntries())

	older := &domain.UserCorrection{
		ID:               "corr-1",
		OriginalQuery:    "basmati rice",
		CorrectedEntryID: "rice-1",
		CorrectedName:    "Pearl Rice 1kg",
		Confidence:       90,
		UserID:           "user-7",
		CreatedAt:        storeNow.Add(-time.Hour),
	}
	newer := &domain.UserCorrection{
		ID:               "corr-2",
		OriginalQuery:    "pishori rice",
		CorrectedEntryID: "rice-2",
		CorrectedName:    "Basmati Rice 2kg",
		Confidence:       90,
		CreatedAt:        storeNow,
	}
	require.NoError(t, store.SaveCorrection(ctx, older))
	require.NoError(t, store.SaveCorrection(ctx, newer))

	t.Run("newest matching correction wins", func(t *testing.T) {
		got, err := store.LatestCorrectionMatching(ctx, []string{"rice"})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "corr-2", got.ID)
		assert.True(t, got.CreatedAt.Equal(storeNow))
	})

	t.Run("keyword narrows to one correction", func(t *testing.T) {
		got, err := store.LatestCorrectionMatching(ctx, []string{"basmati"})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "corr-1", got.ID)
		assert.Equal(t, "user-7", got.UserID)
	})

	t.Run("no match returns nil without error", func(t *testing.T) {
		got, err := store.LatestCorrectionMatching(ctx, []string{"sukuma"})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("no keywords returns nil", func(t *testing.T) {
		got, err := store.LatestCorrectionMatching(ctx, nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func entryIDs(entries []domain.CatalogEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}
