package usecase

import (
	"math"

	"github.com/danlewismuriuki/deals-spotter-backend/internal/domain"
)

// ConvertToBaseUnit canonicalizes a quantity for cross-comparison:
// g becomes kg and ml becomes l, everything else passes through unchanged.
func ConvertToBaseUnit(amount float64, unit domain.Unit) (float64, domain.Unit) {
	switch unit {
	case domain.UnitGram:
		return amount / 1000, domain.UnitKilogram
	case domain.UnitMillilitre:
		return amount / 1000, domain.UnitLitre
	case domain.UnitPieceAlias:
		return amount, domain.UnitPiece
	default:
		return amount, unit
	}
}

// QuantityRequirement describes how many packages of a catalog entry are
// needed to cover a requested quantity.
type QuantityRequirement struct {
	Multiplier int
	CanFulfill bool
}

// CalculateQuantityRequirements computes the package multiplier for a
// requested quantity against a deal's package size. With any input missing
// there is no constraint to enforce, so the multiplier is 1 and the request
// counts as fulfillable. Incompatible base units (e.g. kg vs l) keep the
// multiplier at 1 but flag non-fulfillment.
func CalculateQuantityRequirements(requestedQty *float64, requestedUnit *domain.Unit, dealSize *domain.PackageSize) QuantityRequirement {
	if requestedQty == nil || requestedUnit == nil || dealSize == nil {
		return QuantityRequirement{Multiplier: 1, CanFulfill: true}
	}

	reqAmount, reqBase := ConvertToBaseUnit(*requestedQty, *requestedUnit)
	dealAmount, dealBase := ConvertToBaseUnit(dealSize.Amount, dealSize.Unit)

	if reqBase != dealBase {
		return QuantityRequirement{Multiplier: 1, CanFulfill: false}
	}
	if dealAmount <= 0 {
		return QuantityRequirement{Multiplier: 1, CanFulfill: false}
	}

	multiplier := int(math.Ceil(reqAmount / dealAmount))
	if multiplier < 1 {
		multiplier = 1
	}

	return QuantityRequirement{Multiplier: multiplier, CanFulfill: true}
}

// CalculateUnitPrice returns the entry's price per base unit. It prefers the
// scraper-provided unit price, then derives one from the package size. With
// neither available it falls back to the raw current price, which is an
// approximation rather than a true per-unit price.
func CalculateUnitPrice(entry *domain.CatalogEntry) float64 {
	if entry.UnitPrice != nil && *entry.UnitPrice > 0 {
		return *entry.UnitPrice
	}

	if entry.Package != nil && entry.Package.Amount > 0 {
		baseAmount, _ := ConvertToBaseUnit(entry.Package.Amount, entry.Package.Unit)
		if baseAmount > 0 {
			return entry.CurrentPrice / baseAmount
		}
	}

	return entry.CurrentPrice
}
