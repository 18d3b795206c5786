package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/danlewismuriuki/deals-spotter-backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	// Matches the first quantity+unit token, e.g. "2kg", "500 ml", "1.5 litres", "3 pcs".
	// Long forms are listed before their short prefixes so "2 kilograms" is not
	// split into "2 k" + "ilograms".
	quantityUnitPattern = regexp.MustCompile(
		`(\d+(?:\.\d+)?)\s*(kilograms?|kilos?|kgs?|grams?|g|litres?|liters?|l|millilitres?|milliliters?|ml|pieces?|pcs?|units?)\b`,
	)

	// Splits cleaned text into word tokens
	nonWordPattern = regexp.MustCompile(`[^a-z0-9]+`)
)

// unitSynonyms maps long-form and alias units to their canonical short form
var unitSynonyms = map[string]domain.Unit{
	"kg": domain.UnitKilogram, "kgs": domain.UnitKilogram,
	"kilo": domain.UnitKilogram, "kilos": domain.UnitKilogram,
	"kilogram": domain.UnitKilogram, "kilograms": domain.UnitKilogram,
	"g": domain.UnitGram, "gram": domain.UnitGram, "grams": domain.UnitGram,
	"l": domain.UnitLitre, "litre": domain.UnitLitre, "litres": domain.UnitLitre,
	"liter": domain.UnitLitre, "liters": domain.UnitLitre,
	"ml": domain.UnitMillilitre, "millilitre": domain.UnitMillilitre, "millilitres": domain.UnitMillilitre,
	"milliliter": domain.UnitMillilitre, "milliliters": domain.UnitMillilitre,
	"unit": domain.UnitPiece, "units": domain.UnitPiece,
	"piece": domain.UnitPiece, "pieces": domain.UnitPiece,
	"pc": domain.UnitPiece, "pcs": domain.UnitPiece,
}

// itemStopWords are filler words stripped from shopping list items
var itemStopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true,
	"from": true, "some": true, "any": true, "per": true,
	"buy": true, "get": true, "need": true, "want": true,
	"pack": true, "packet": true, "packets": true,
}

// Normalizer turns raw shopping list text into a NormalizedItem
type Normalizer struct{}

// NewNormalizer creates a new normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize lowercases and trims the input, extracts the first quantity+unit
// token, and tokenizes the remaining text into keywords. Output is
// deterministic for identical input.
func (n *Normalizer) Normalize(raw string) domain.NormalizedItem {
	item := domain.NormalizedItem{OriginalText: raw}

	text := strings.ToLower(strings.TrimSpace(raw))

	if loc := quantityUnitPattern.FindStringSubmatchIndex(text); loc != nil {
		groups := quantityUnitPattern.FindStringSubmatch(text)
		if qty, err := strconv.ParseFloat(groups[1], 64); err == nil && qty > 0 {
			unit := unitSynonyms[groups[2]]
			item.Quantity = &qty
			item.Unit = &unit
		}
		// Drop the quantity token from the cleaned text
		text = text[:loc[0]] + " " + text[loc[1]:]
	}

	item.CleanText = strings.Join(strings.Fields(text), " ")
	item.Keywords = extractKeywords(item.CleanText)

	return item
}

// extractKeywords splits text on non-word characters and drops stopwords and
// tokens of two characters or fewer, preserving original order without duplicates.
func extractKeywords(text string) []string {
	var keywords []string
	seen := make(map[string]bool)

	for _, token := range nonWordPattern.Split(text, -1) {
		if len(token) <= 2 {
			continue
		}
		if itemStopWords[token] {
			continue
		}
		if seen[token] {
			continue
		}
		seen[token] = true
		keywords = append(keywords, token)
	}

	return keywords
}
