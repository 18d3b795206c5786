package domain

import "time"

// Store identifies a supported retailer.
type Store string

const (
	StoreNaivas    Store = "naivas"
	StoreCarrefour Store = "carrefour"
	StoreQuickmart Store = "quickmart"
)

// AllStores returns the retailers included in basket comparisons.
func AllStores() []Store {
	return []Store{StoreNaivas, StoreCarrefour, StoreQuickmart}
}

// Unit is a canonical measurement unit. Quantities in g and ml are converted
// to kg and l before cross-comparison.
type Unit string

const (
	UnitKilogram   Unit = "kg"
	UnitGram       Unit = "g"
	UnitLitre      Unit = "l"
	UnitMillilitre Unit = "ml"
	UnitPiece      Unit = "unit"

	// UnitPieceAlias appears in scraped package sizes and canonicalizes to UnitPiece.
	UnitPieceAlias Unit = "piece"
)

// PackageSize describes the quantity a single catalog entry represents,
// e.g. {2, "kg"} for a 2kg rice pack.
type PackageSize struct {
	Amount float64 `json:"amount"`
	Unit   Unit    `json:"unit"`
}

// CatalogEntry is a priced product scraped from a retailer. Entries are
// created and mutated only by the ingestion collaborator; the matcher reads them.
type CatalogEntry struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Store         Store        `json:"store"`
	CurrentPrice  float64      `json:"currentPrice"`
	OriginalPrice *float64     `json:"originalPrice,omitempty"`
	Package       *PackageSize `json:"packageSize,omitempty"`
	UnitPrice     *float64     `json:"unitPrice,omitempty"`
	Category      string       `json:"category,omitempty"`
	ScrapedAt     time.Time    `json:"scrapedAt"`
	IsActive      bool         `json:"isActive"`
}

// OnPromotion reports whether the entry is currently discounted.
func (e *CatalogEntry) OnPromotion() bool {
	return e.OriginalPrice != nil && *e.OriginalPrice > e.CurrentPrice
}

// UserCorrection records user feedback linking a query to the catalog entry
// it should have matched. Corrections are never mutated, only superseded by a
// newer correction for the same query.
type UserCorrection struct {
	ID               string    `json:"id"`
	OriginalQuery    string    `json:"originalQuery"`
	CorrectedEntryID string    `json:"correctedEntryId"`
	CorrectedName    string    `json:"correctedName"`
	Confidence       float64   `json:"confidence"`
	UserID           string    `json:"userId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}
