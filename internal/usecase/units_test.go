package usecase

import (
	"testing"

	"github.com/danlewismuriuki/deals-spotter-backend/internal/domain"
)

func TestConvertToBaseUnit(t *testing.T) {
	testCases := []struct {
		amount     float64
		unit       domain.Unit
		wantAmount float64
		wantUnit   domain.Unit
	}{
		{500, domain.UnitGram, 0.5, domain.UnitKilogram},
		{250, domain.UnitMillilitre, 0.25, domain.UnitLitre},
		{2, domain.UnitKilogram, 2, domain.UnitKilogram},
		{1, domain.UnitLitre, 1, domain.UnitLitre},
		{3, domain.UnitPiece, 3, domain.UnitPiece},
		{3, domain.UnitPieceAlias, 3, domain.UnitPiece},
	}

	for _, tc := range testCases {
		t.Run(string(tc.unit), func(t *testing.T) {
			gotAmount, gotUnit := ConvertToBaseUnit(tc.amount, tc.unit)
			if gotAmount != tc.wantAmount || gotUnit != tc.wantUnit {
				t.Errorf("ConvertToBaseUnit(%v, %s) = (%v, %s), want (%v, %s)",
					tc.amount, tc.unit, gotAmount, gotUnit, tc.wantAmount, tc.wantUnit)
			}
		})
	}
}

func TestCalculateQuantityRequirements(t *testing.T) {
	qty := func(v float64) *float64 { return &v }
	unit := func(u domain.Unit) *domain.Unit { return &u }

	t.Run("2kg against 500g package needs 4 packages", func(t *testing.T) {
		req := CalculateQuantityRequirements(qty(2), unit(domain.UnitKilogram),
			&domain.PackageSize{Amount: 500, Unit: domain.UnitGram})
		if req.Multiplier != 4 {
			t.Errorf("Multiplier = %d, want 4", req.Multiplier)
		}
		if !req.CanFulfill {
			t.Error("CanFulfill = false, want true")
		}
	})

	t.Run("exact package size needs 1 package", func(t *testing.T) {
		req := CalculateQuantityRequirements(qty(1), unit(domain.UnitKilogram),
			&domain.PackageSize{Amount: 1, Unit: domain.UnitKilogram})
		if req.Multiplier != 1 {
			t.Errorf("Multiplier = %d, want 1", req.Multiplier)
		}
	})

	t.Run("partial package rounds up", func(t *testing.T) {
		req := CalculateQuantityRequirements(qty(1.2), unit(domain.UnitLitre),
			&domain.PackageSize{Amount: 1, Unit: domain.UnitLitre})
		if req.Multiplier != 2 {
			t.Errorf("Multiplier = %d, want 2", req.Multiplier)
		}
	})

	t.Run("missing inputs enforce no constraint", func(t *testing.T) {
		cases := []struct {
			name string
			req  QuantityRequirement
		}{
			{"no quantity", CalculateQuantityRequirements(nil, unit(domain.UnitKilogram), &domain.PackageSize{Amount: 1, Unit: domain.UnitKilogram})},
			{"no unit", CalculateQuantityRequirements(qty(2), nil, &domain.PackageSize{Amount: 1, Unit: domain.UnitKilogram})},
			{"no package", CalculateQuantityRequirements(qty(2), unit(domain.UnitKilogram), nil)},
		}
		for _, tc := range cases {
			if tc.req.Multiplier != 1 || !tc.req.CanFulfill {
				t.Errorf("%s: got %+v, want multiplier 1 and fulfillable", tc.name, tc.req)
			}
		}
	})

	t.Run("incompatible base units flag non-fulfillment", func(t *testing.T) {
		req := CalculateQuantityRequirements(qty(2), unit(domain.UnitKilogram),
			&domain.PackageSize{Amount: 1, Unit: domain.UnitLitre})
		if req.CanFulfill {
			t.Error("CanFulfill = true, want false for kg vs l")
		}
		if req.Multiplier != 1 {
			t.Errorf("Multiplier = %d, want 1", req.Multiplier)
		}
	})

	t.Run("ml request against litre package converts", func(t *testing.T) {
		req := CalculateQuantityRequirements(qty(1500), unit(domain.UnitMillilitre),
			&domain.PackageSize{Amount: 1, Unit: domain.UnitLitre})
		if req.Multiplier != 2 || !req.CanFulfill {
			t.Errorf("got %+v, want multiplier 2, fulfillable", req)
		}
	})
}

func TestCalculateUnitPrice(t *testing.T) {
	price := func(v float64) *float64 { return &v }

	t.Run("prefers precomputed unit price", func(t *testing.T) {
		entry := &domain.CatalogEntry{
			CurrentPrice: 300,
			UnitPrice:    price(150),
			Package:      &domain.PackageSize{Amount: 2, Unit: domain.UnitKilogram},
		}
		if got := CalculateUnitPrice(entry); got != 150 {
			t.Errorf("unit price = %v, want 150", got)
		}
	})

	t.Run("derives from package size", func(t *testing.T) {
		entry := &domain.CatalogEntry{
			CurrentPrice: 300,
			Package:      &domain.PackageSize{Amount: 2, Unit: domain.UnitKilogram},
		}
		if got := CalculateUnitPrice(entry); got != 150 {
			t.Errorf("unit price = %v, want 150 (300 / 2kg)", got)
		}
	})

	t.Run("converts grams to kg before dividing", func(t *testing.T) {
		entry := &domain.CatalogEntry{
			CurrentPrice: 100,
			Package:      &domain.PackageSize{Amount: 500, Unit: domain.UnitGram},
		}
		if got := CalculateUnitPrice(entry); got != 200 {
			t.Errorf("unit price = %v, want 200 (100 / 0.5kg)", got)
		}
	})

	t.Run("falls back to raw price without package info", func(t *testing.T) {
		entry := &domain.CatalogEntry{CurrentPrice: 80}
		if got := CalculateUnitPrice(entry); got != 80 {
			t.Errorf("unit price = %v, want 80", got)
		}
	})
}
