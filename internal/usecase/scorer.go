package usecase

import (
	"sort"
	"strings"
	"time"

	"github.com/danlewismuriuki/deals-spotter-backend/internal/domain"
)

// Base scores by match source
const (
	baseScoreCorrection = 95.0 // user_correction candidates start near-certain
	baseScoreTextSearch = 60.0
	baseScoreRegex      = 50.0
	baseScoreFuzzy      = 40.0
	baseScoreDefault    = 60.0 // unset source falls back to text_search weight
)

// Scoring bonuses, additive after keyword-coverage scaling
const (
	bonusExactUnit      = 15.0 // requested unit equals package unit
	bonusCompatibleUnit = 8.0  // cross-unit pair sharing a base unit (kg/g, l/ml)
	bonusExactQuantity  = 10.0 // requested base amount equals package base amount
	bonusNearQuantity   = 5.0  // requested/package ratio within [0.5, 2]
	bonusScrapedToday   = 8.0  // scraped less than 1 day ago
	bonusScrapedRecent  = 4.0  // scraped less than 3 days ago
	bonusPromotion      = 5.0  // original price above current price
)

const (
	maxScore          = 100.0
	minCandidateScore = 20.0 // candidates scoring at or below are discarded
	maxAlternatives   = 3
)

// ScoreSignals is the fixed set of inputs the scoring function considers.
type ScoreSignals struct {
	Source            domain.MatchSource
	Keywords          []string
	RequestedQuantity *float64
	RequestedUnit     *domain.Unit
	EntryName         string
	Package           *domain.PackageSize
	ScrapedAt         time.Time
	OnPromotion       bool
	Now               time.Time
}

// ScoreCandidate computes a 0-100 confidence from the signal struct. The base
// score set by the match source is scaled by keyword coverage, then bonuses
// for unit compatibility, quantity fit, recency and promotion are added. The
// result is capped at 100.
func ScoreCandidate(s ScoreSignals) float64 {
	score := baseScoreBySource(s.Source)

	score *= 0.5 + 0.5*keywordCoverage(s.Keywords, s.EntryName)
	score += unitBonus(s.RequestedUnit, s.Package)
	score += quantityBonus(s.RequestedQuantity, s.RequestedUnit, s.Package)
	score += recencyBonus(s.Now.Sub(s.ScrapedAt))

	if s.OnPromotion {
		score += bonusPromotion
	}

	if score > maxScore {
		score = maxScore
	}
	return score
}

func baseScoreBySource(source domain.MatchSource) float64 {
	switch source {
	case domain.MatchSourceCorrection:
		return baseScoreCorrection
	case domain.MatchSourceTextSearch:
		return baseScoreTextSearch
	case domain.MatchSourceRegex:
		return baseScoreRegex
	case domain.MatchSourceFuzzy:
		return baseScoreFuzzy
	default:
		return baseScoreDefault
	}
}

// keywordCoverage returns the fraction of keywords appearing as substrings of
// the lower-cased entry name.
func keywordCoverage(keywords []string, entryName string) float64 {
	if len(keywords) == 0 {
		return 0
	}

	nameLower := strings.ToLower(entryName)
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(nameLower, kw) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

func unitBonus(requested *domain.Unit, pkg *domain.PackageSize) float64 {
	if requested == nil || pkg == nil {
		return 0
	}

	_, reqBase := ConvertToBaseUnit(1, *requested)
	_, pkgBase := ConvertToBaseUnit(1, pkg.Unit)

	switch {
	case *requested == pkg.Unit || (reqBase == pkgBase && reqBase == domain.UnitPiece):
		return bonusExactUnit
	case reqBase == pkgBase:
		return bonusCompatibleUnit
	default:
		return 0
	}
}

func quantityBonus(requestedQty *float64, requestedUnit *domain.Unit, pkg *domain.PackageSize) float64 {
	if requestedQty == nil || requestedUnit == nil || pkg == nil || pkg.Amount <= 0 {
		return 0
	}

	reqAmount, reqBase := ConvertToBaseUnit(*requestedQty, *requestedUnit)
	pkgAmount, pkgBase := ConvertToBaseUnit(pkg.Amount, pkg.Unit)
	if reqBase != pkgBase || pkgAmount <= 0 {
		return 0
	}

	if reqAmount == pkgAmount {
		return bonusExactQuantity
	}
	if ratio := reqAmount / pkgAmount; ratio >= 0.5 && ratio <= 2 {
		return bonusNearQuantity
	}
	return 0
}

func recencyBonus(age time.Duration) float64 {
	switch {
	case age < 24*time.Hour:
		return bonusScrapedToday
	case age < 72*time.Hour:
		return bonusScrapedRecent
	default:
		return 0
	}
}

// RankCandidates scores every entry with the pipeline's match source label,
// drops candidates at or below the discard threshold, and returns the winner
// with up to three runners-up. Ties are broken by discovery order.
func RankCandidates(item domain.NormalizedItem, entries []domain.CatalogEntry, source domain.MatchSource, now time.Time) (*domain.MatchCandidate, []domain.MatchCandidate) {
	candidates := make([]domain.MatchCandidate, 0, len(entries))
	for _, entry := range entries {
		score := ScoreCandidate(ScoreSignals{
			Source:            source,
			Keywords:          item.Keywords,
			RequestedQuantity: item.Quantity,
			RequestedUnit:     item.Unit,
			EntryName:         entry.Name,
			Package:           entry.Package,
			ScrapedAt:         entry.ScrapedAt,
			OnPromotion:       entry.OnPromotion(),
			Now:               now,
		})
		if score <= minCandidateScore {
			continue
		}
		candidates = append(candidates, domain.MatchCandidate{Entry: entry, Score: score})
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	winner := candidates[0]
	alternatives := candidates[1:]
	if len(alternatives) > maxAlternatives {
		alternatives = alternatives[:maxAlternatives]
	}
	return &winner, alternatives
}
