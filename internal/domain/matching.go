package domain

// MatchSource labels the pipeline stage credited with producing the winning
// candidate set. When several stages contributed, the highest-priority
// contributing stage wins (correction > text_search > regex > fuzzy).
type MatchSource string

const (
	MatchSourceCorrection MatchSource = "user_correction"
	MatchSourceTextSearch MatchSource = "text_search"
	MatchSourceRegex      MatchSource = "regex"
	MatchSourceFuzzy      MatchSource = "fuzzy"
)

// NormalizedItem is the parsed form of a free-text basket item.
// Quantity and Unit are nil when the text carried no quantity token.
type NormalizedItem struct {
	OriginalText string   `json:"originalText"`
	CleanText    string   `json:"cleanText"`
	Quantity     *float64 `json:"quantity,omitempty"`
	Unit         *Unit    `json:"unit,omitempty"`
	Keywords     []string `json:"keywords"`
}

// MatchCandidate pairs a catalog entry with its confidence score while it
// moves through scoring. Candidates are transient, created per request.
type MatchCandidate struct {
	Entry CatalogEntry `json:"entry"`
	Score float64      `json:"score"`
}

// MatchAlternative is a runner-up candidate surfaced alongside the winner.
type MatchAlternative struct {
	EntryID      string  `json:"entryId"`
	Name         string  `json:"name"`
	Store        Store   `json:"store"`
	CurrentPrice float64 `json:"currentPrice"`
	Score        float64 `json:"score"`
}

// MatchResult is the outcome of matching one basket item. A zero-confidence
// result with no matched entry is a valid outcome, not an error.
type MatchResult struct {
	InputText          string             `json:"inputText"`
	RequestedQuantity  *float64           `json:"requestedQuantity,omitempty"`
	RequestedUnit      *Unit              `json:"requestedUnit,omitempty"`
	MatchedEntryID     *string            `json:"matchedEntryId,omitempty"`
	MatchedName        *string            `json:"matchedName,omitempty"`
	Store              *Store             `json:"store,omitempty"`
	UnitPrice          *float64           `json:"unitPrice,omitempty"`
	TotalPrice         *float64           `json:"totalPrice,omitempty"`
	PackageSize        *PackageSize       `json:"packageSize,omitempty"`
	QuantityMultiplier int                `json:"quantityMultiplier"`
	CanFulfill         bool               `json:"canFulfill"`
	Confidence         float64            `json:"confidence"`
	MatchSource        MatchSource        `json:"matchSource"`
	Alternatives       []MatchAlternative `json:"alternatives,omitempty"`
}

// BasketSummary aggregates match quality over a whole basket. ItemsFound
// counts items matched with confidence above 50.
type BasketSummary struct {
	TotalItems        int     `json:"totalItems"`
	ItemsFound        int     `json:"itemsFound"`
	AverageConfidence float64 `json:"averageConfidence"`
	ProcessingTimeMs  int64   `json:"processingTimeMs"`
}

// StoreComparison is one store's projected basket total.
//
// Every matched item contributes its matched price to every store's total,
// regardless of which store the entry was scraped from. See DESIGN.md for why
// this simplification is kept.
type StoreComparison struct {
	Store      Store   `json:"store"`
	Total      float64 `json:"total"`
	ItemsFound int     `json:"itemsFound"`
	TotalItems int     `json:"totalItems"`
	Confidence float64 `json:"confidence"`
}

// BasketComparison is the full response for a basket comparison request.
type BasketComparison struct {
	Summary          BasketSummary     `json:"summary"`
	StoreComparisons []StoreComparison `json:"storeComparisons"`
	ItemDetails      []MatchResult     `json:"itemDetails"`
	Cached           bool              `json:"cached"`
}
