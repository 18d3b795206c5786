package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danlewismuriuki/deals-spotter-backend/internal/domain"
)

// SQLiteStore implements the candidate source, correction store, and catalog
// write path over a single sqlite database. Name searches are LIKE-based:
// TextSearch matches any keyword, RegexSearch requires all of them.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath and initializes
// the schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS catalog_entries (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        store TEXT NOT NULL,
        current_price REAL NOT NULL,
        original_price REAL,
        package_amount REAL,
        package_unit TEXT,
        unit_price REAL,
        category TEXT,
        scraped_at TEXT NOT NULL,
        is_active INTEGER NOT NULL DEFAULT 1
    );

    CREATE TABLE IF NOT EXISTS user_corrections (
        id TEXT PRIMARY KEY,
        original_query TEXT NOT NULL,
        corrected_entry_id TEXT NOT NULL,
        corrected_name TEXT NOT NULL,
        confidence REAL NOT NULL,
        user_id TEXT,
        created_at TEXT NOT NULL,
        FOREIGN KEY (corrected_entry_id) REFERENCES catalog_entries(id)
    );

    CREATE INDEX IF NOT EXISTS idx_entries_name ON catalog_entries(name);
    CREATE INDEX IF NOT EXISTS idx_entries_scraped_at ON catalog_entries(scraped_at);
    CREATE INDEX IF NOT EXISTS idx_corrections_created_at ON user_corrections(created_at);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const entryColumns = `id, name, store, current_price, original_price,
    package_amount, package_unit, unit_price, category, scraped_at, is_active`

// TextSearch returns entries whose name contains any of the keywords.
func (s *SQLiteStore) TextSearch(ctx context.Context, keywords []string, activeOnly bool, since time.Time, limit int) ([]domain.CatalogEntry, error) {
	return s.keywordSearch(ctx, keywords, " OR ", activeOnly, since, limit)
}

// RegexSearch returns entries whose name contains all of the keywords.
func (s *SQLiteStore) RegexSearch(ctx context.Context, keywords []string, activeOnly bool, since time.Time, limit int) ([]domain.CatalogEntry, error) {
	return s.keywordSearch(ctx, keywords, " AND ", activeOnly, since, limit)
}

func (s *SQLiteStore) keywordSearch(ctx context.Context, keywords []string, joiner string, activeOnly bool, since time.Time, limit int) ([]domain.CatalogEntry, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	clauses := make([]string, len(keywords))
	args := make([]interface{}, 0, len(keywords)+2)
	for i, kw := range keywords {
		clauses[i] = "lower(name) LIKE ?"
		args = append(args, "%"+strings.ToLower(kw)+"%")
	}

	query := fmt.Sprintf("SELECT %s FROM catalog_entries WHERE (%s) AND scraped_at >= ?",
		entryColumns, strings.Join(clauses, joiner))
	args = append(args, formatTime(since))

	if activeOnly {
		query += " AND is_active = 1"
	}
	query += " ORDER BY scraped_at DESC LIMIT ?"
	args = append(args, limit)

	return s.queryEntries(ctx, query, args...)
}

// SampleRecent returns a bounded pool of the most recently scraped entries.
func (s *SQLiteStore) SampleRecent(ctx context.Context, activeOnly bool, since time.Time, limit int) ([]domain.CatalogEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM catalog_entries WHERE scraped_at >= ?", entryColumns)
	args := []interface{}{formatTime(since)}

	if activeOnly {
		query += " AND is_active = 1"
	}
	query += " ORDER BY scraped_at DESC LIMIT ?"
	args = append(args, limit)

	return s.queryEntries(ctx, query, args...)
}

// FindByID returns the entry with the given id, or domain.ErrEntryNotFound.
func (s *SQLiteStore) FindByID(ctx context.Context, id string) (*domain.CatalogEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM catalog_entries WHERE id = ?", entryColumns)

	row := s.db.QueryRowContext(ctx, query, id)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCandidateSource, err)
	}
	return entry, nil
}

// SaveEntries upserts a batch of scraped entries in one transaction.
func (s *SQLiteStore) SaveEntries(ctx context.Context, entries []domain.CatalogEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
        INSERT INTO catalog_entries
            (id, name, store, current_price, original_price, package_amount,
             package_unit, unit_price, category, scraped_at, is_active)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            store = excluded.store,
            current_price = excluded.current_price,
            original_price = excluded.original_price,
            package_amount = excluded.package_amount,
            package_unit = excluded.package_unit,
            unit_price = excluded.unit_price,
            category = excluded.category,
            scraped_at = excluded.scraped_at,
            is_active = excluded.is_active
    `

	for _, e := range entries {
		var pkgAmount, pkgUnit interface{}
		if e.Package != nil {
			pkgAmount = e.Package.Amount
			pkgUnit = string(e.Package.Unit)
		}

		_, err := tx.ExecContext(ctx, query,
			e.ID, e.Name, string(e.Store), e.CurrentPrice, nullableFloat(e.OriginalPrice),
			pkgAmount, pkgUnit, nullableFloat(e.UnitPrice), e.Category,
			formatTime(e.ScrapedAt), boolToInt(e.IsActive))
		if err != nil {
			return fmt.Errorf("failed to upsert entry %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// LatestCorrectionMatching returns the newest correction whose original query
// contains any of the keywords, or nil when none exists.
func (s *SQLiteStore) LatestCorrectionMatching(ctx context.Context, keywords []string) (*domain.UserCorrection, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	clauses := make([]string, len(keywords))
	args := make([]interface{}, len(keywords))
	for i, kw := range keywords {
		clauses[i] = "original_query LIKE ?"
		args[i] = "%" + strings.ToLower(kw) + "%"
	}

	query := fmt.Sprintf(`
        SELECT id, original_query, corrected_entry_id, corrected_name, confidence, user_id, created_at
        FROM user_corrections
        WHERE %s
        ORDER BY created_at DESC
        LIMIT 1
    `, strings.Join(clauses, " OR "))

	row := s.db.QueryRowContext(ctx, query, args...)

	var c domain.UserCorrection
	var userID sql.NullString
	var createdAt string
	err := row.Scan(&c.ID, &c.OriginalQuery, &c.CorrectedEntryID, &c.CorrectedName, &c.Confidence, &userID, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCandidateSource, err)
	}

	c.UserID = userID.String
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse correction timestamp: %w", err)
	}
	return &c, nil
}

// SaveCorrection persists a new correction record.
func (s *SQLiteStore) SaveCorrection(ctx context.Context, c *domain.UserCorrection) error {
	query := `
        INSERT INTO user_corrections
            (id, original_query, corrected_entry_id, corrected_name, confidence, user_id, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.OriginalQuery, c.CorrectedEntryID, c.CorrectedName,
		c.Confidence, c.UserID, formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert correction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) queryEntries(ctx context.Context, query string, args ...interface{}) ([]domain.CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCandidateSource, err)
	}
	defer rows.Close()

	var entries []domain.CatalogEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCandidateSource, err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCandidateSource, err)
	}

	return entries, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (*domain.CatalogEntry, error) {
	var e domain.CatalogEntry
	var originalPrice, pkgAmount, unitPrice sql.NullFloat64
	var pkgUnit, category sql.NullString
	var scrapedAt string
	var isActive int

	err := row.Scan(&e.ID, &e.Name, (*string)(&e.Store), &e.CurrentPrice, &originalPrice,
		&pkgAmount, &pkgUnit, &unitPrice, &category, &scrapedAt, &isActive)
	if err != nil {
		return nil, err
	}

	if originalPrice.Valid {
		e.OriginalPrice = &originalPrice.Float64
	}
	if pkgAmount.Valid && pkgUnit.Valid {
		e.Package = &domain.PackageSize{Amount: pkgAmount.Float64, Unit: domain.Unit(pkgUnit.String)}
	}
	if unitPrice.Valid {
		e.UnitPrice = &unitPrice.Float64
	}
	e.Category = category.String
	e.IsActive = isActive != 0

	if e.ScrapedAt, err = parseTime(scrapedAt); err != nil {
		return nil, fmt.Errorf("failed to parse scraped_at: %w", err)
	}

	return &e, nil
}

// Timestamps are stored as RFC3339 UTC strings so lexicographic comparison in
// SQL matches chronological order.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func nullableFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
