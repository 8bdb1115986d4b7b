package service

import (
	"testing"
	"time"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
)

func strptr(s string) *string { return &s }

func testMedicine() *entity.Medicine {
	return &entity.Medicine{
		ID:                   "med-001",
		Code:                 "PARA500",
		Name:                 "Paracetamol 500mg",
		Unit:                 "tablets",
		HSNCode:              "3004",
		GSTRate:              12,
		ManufacturerVendorID: strptr("vendor-mfg"),
		RMVendorID:           strptr("vendor-rm-default"),
		PMVendorID:           strptr("vendor-pm-default"),
	}
}

func TestExplodeFG(t *testing.T) {
	eopa := &entity.EOPA{ID: "eopa-001", Quantity: 10000}
	result := Explode(eopa, testMedicine(), nil, entity.POTypeFG)

	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
	if len(result.Lines) != 1 {
		t.Fatalf("expected 1 FG line, got %d", len(result.Lines))
	}

	line := result.Lines[0]
	if line.Quantity != 10000 {
		t.Errorf("FG quantity = %v, want EOPA quantity 10000", line.Quantity)
	}
	if line.VendorID != "vendor-mfg" {
		t.Errorf("FG vendor = %s, want manufacturer vendor", line.VendorID)
	}
	if line.MedicineID == nil || *line.MedicineID != "med-001" {
		t.Errorf("FG line should reference the medicine")
	}
}

func TestExplodeFGWithoutManufacturer(t *testing.T) {
	medicine := testMedicine()
	medicine.ManufacturerVendorID = nil

	result := Explode(&entity.EOPA{Quantity: 100}, medicine, nil, entity.POTypeFG)

	if len(result.Lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(result.Lines))
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected a skip warning, got %v", result.Warnings)
	}
}

func TestExplodeRMQuantityMath(t *testing.T) {
	// 1000 units × 0.5 kg/unit = 500 kg
	bomLines := []entity.BOMLine{
		{
			ID:                 "bom-001",
			MaterialKind:       entity.MaterialKindRM,
			RawMaterialID:      strptr("rm-001"),
			QtyRequiredPerUnit: 0.5,
			Unit:               "kg",
			RawMaterial: &entity.RawMaterial{
				ID:              "rm-001",
				Code:            "API-PARA",
				Name:            "Paracetamol API",
				Unit:            "kg",
				DefaultVendorID: strptr("vendor-api"),
			},
		},
	}

	result := Explode(&entity.EOPA{Quantity: 1000}, testMedicine(), bomLines, entity.POTypeRM)

	if len(result.Lines) != 1 {
		t.Fatalf("expected 1 RM line, got %d (warnings: %v)", len(result.Lines), result.Warnings)
	}
	if got := result.Lines[0].Quantity; got != 500 {
		t.Errorf("RM quantity = %v, want 500", got)
	}
	if result.Lines[0].VendorID != "vendor-api" {
		t.Errorf("vendor = %s, want material default vendor-api", result.Lines[0].VendorID)
	}
}

func TestExplodeVendorResolutionChain(t *testing.T) {
	rm := &entity.RawMaterial{ID: "rm-001", Name: "API", DefaultVendorID: strptr("vendor-default")}

	cases := []struct {
		name     string
		override *string
		material *string
		want     string
	}{
		{"override wins", strptr("vendor-override"), strptr("vendor-default"), "vendor-override"},
		{"material default next", nil, strptr("vendor-default"), "vendor-default"},
		{"medicine fallback last", nil, nil, "vendor-rm-default"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			material := *rm
			material.DefaultVendorID = tc.material
			bomLines := []entity.BOMLine{
				{
					ID:                 "bom-001",
					MaterialKind:       entity.MaterialKindRM,
					RawMaterialID:      strptr("rm-001"),
					QtyRequiredPerUnit: 1,
					OverrideVendorID:   tc.override,
					RawMaterial:        &material,
				},
			}

			result := Explode(&entity.EOPA{Quantity: 10}, testMedicine(), bomLines, entity.POTypeRM)
			if len(result.Lines) != 1 {
				t.Fatalf("expected 1 line, got %d", len(result.Lines))
			}
			if got := result.Lines[0].VendorID; got != tc.want {
				t.Errorf("vendor = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestExplodeSkipsUnresolvableVendor(t *testing.T) {
	medicine := testMedicine()
	medicine.RMVendorID = nil

	bomLines := []entity.BOMLine{
		{
			ID:                 "bom-orphan",
			MaterialKind:       entity.MaterialKindRM,
			RawMaterialID:      strptr("rm-x"),
			QtyRequiredPerUnit: 2,
			RawMaterial:        &entity.RawMaterial{ID: "rm-x", Name: "Orphan Material"},
		},
		{
			ID:                 "bom-ok",
			MaterialKind:       entity.MaterialKindRM,
			RawMaterialID:      strptr("rm-y"),
			QtyRequiredPerUnit: 1,
			RawMaterial:        &entity.RawMaterial{ID: "rm-y", Name: "Good Material", DefaultVendorID: strptr("vendor-y")},
		},
	}

	result := Explode(&entity.EOPA{Quantity: 10}, medicine, bomLines, entity.POTypeRM)

	if len(result.Lines) != 1 {
		t.Fatalf("expected the resolvable line only, got %d", len(result.Lines))
	}
	if result.Lines[0].ItemName != "Good Material" {
		t.Errorf("kept the wrong line: %s", result.Lines[0].ItemName)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 skip warning, got %v", result.Warnings)
	}
}

func TestExplodeWastageNotApplied(t *testing.T) {
	bomLines := []entity.BOMLine{
		{
			ID:                 "bom-001",
			MaterialKind:       entity.MaterialKindRM,
			RawMaterialID:      strptr("rm-001"),
			QtyRequiredPerUnit: 0.5,
			WastagePercentage:  10,
			RawMaterial:        &entity.RawMaterial{ID: "rm-001", Name: "API", DefaultVendorID: strptr("v1")},
		},
	}

	result := Explode(&entity.EOPA{Quantity: 1000}, testMedicine(), bomLines, entity.POTypeRM)

	if len(result.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(result.Lines))
	}
	// quantity stays 500, not 550; wastage is carried as metadata
	if got := result.Lines[0].Quantity; got != 500 {
		t.Errorf("quantity = %v, wastage must not inflate demand", got)
	}
	if result.Lines[0].WastagePercentage != 10 {
		t.Errorf("wastage percentage should be carried along")
	}
}

func TestExplodePMFiltersKind(t *testing.T) {
	bomLines := []entity.BOMLine{
		{
			ID:                 "bom-rm",
			MaterialKind:       entity.MaterialKindRM,
			RawMaterialID:      strptr("rm-001"),
			QtyRequiredPerUnit: 1,
			RawMaterial:        &entity.RawMaterial{ID: "rm-001", Name: "API", DefaultVendorID: strptr("v1")},
		},
		{
			ID:                 "bom-pm",
			MaterialKind:       entity.MaterialKindPM,
			PackingMaterialID:  strptr("pm-001"),
			QtyRequiredPerUnit: 2,
			PackingMaterial:    &entity.PackingMaterial{ID: "pm-001", Name: "Blister Foil", DefaultVendorID: strptr("v2")},
		},
	}

	result := Explode(&entity.EOPA{Quantity: 100}, testMedicine(), bomLines, entity.POTypePM)

	if len(result.Lines) != 1 {
		t.Fatalf("expected only PM lines, got %d", len(result.Lines))
	}
	if result.Lines[0].ItemName != "Blister Foil" {
		t.Errorf("wrong line: %s", result.Lines[0].ItemName)
	}
	if result.Lines[0].Quantity != 200 {
		t.Errorf("PM quantity = %v, want 200", result.Lines[0].Quantity)
	}
}

func TestGroupByVendor(t *testing.T) {
	lines := []DemandLine{
		{ItemName: "A", VendorID: "vendor-1"},
		{ItemName: "B", VendorID: "vendor-2"},
		{ItemName: "C", VendorID: "vendor-1"},
	}

	// June 2025 is FY 25-26
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	groups := GroupByVendor(lines, entity.POTypeRM, now)

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].VendorID != "vendor-1" || len(groups[0].Lines) != 2 {
		t.Errorf("group 0 should hold vendor-1 with 2 lines")
	}
	if groups[1].VendorID != "vendor-2" || len(groups[1].Lines) != 1 {
		t.Errorf("group 1 should hold vendor-2 with 1 line")
	}
	if groups[0].DraftNumber != "PO/25-26/RM/DRAFT/0001" {
		t.Errorf("draft number = %s", groups[0].DraftNumber)
	}
	if groups[1].DraftNumber != "PO/25-26/RM/DRAFT/0002" {
		t.Errorf("draft number = %s", groups[1].DraftNumber)
	}
}

func TestGroupByVendorSequenceRestartsPerRun(t *testing.T) {
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC) // Jan 2026 is still FY 25-26

	first := GroupByVendor([]DemandLine{{VendorID: "v1"}, {VendorID: "v2"}}, entity.POTypePM, now)
	second := GroupByVendor([]DemandLine{{VendorID: "v9"}}, entity.POTypePM, now)

	if first[0].DraftNumber != "PO/25-26/PM/DRAFT/0001" {
		t.Errorf("first run group 1: %s", first[0].DraftNumber)
	}
	if second[0].DraftNumber != "PO/25-26/PM/DRAFT/0001" {
		t.Errorf("sequence must restart each run, got %s", second[0].DraftNumber)
	}
}
