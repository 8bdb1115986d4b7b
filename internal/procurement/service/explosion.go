package service

import (
	"fmt"
	"time"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
)

// DemandLine one exploded requirement, tagged with its resolved vendor and a
// snapshot of the material's descriptive fields taken at generation time.
type DemandLine struct {
	POType string `json:"po_type"`

	MedicineID        *string `json:"medicine_id,omitempty"`
	RawMaterialID     *string `json:"raw_material_id,omitempty"`
	PackingMaterialID *string `json:"packing_material_id,omitempty"`

	ItemName string  `json:"item_name"`
	ItemCode string  `json:"item_code"`
	Unit     string  `json:"unit"`
	HSNCode  string  `json:"hsn_code"`
	GSTRate  float64 `json:"gst_rate"`

	Quantity          float64 `json:"quantity"`
	WastagePercentage float64 `json:"wastage_percentage"`
	IsCritical        bool    `json:"is_critical"`

	VendorID string `json:"vendor_id"`
}

// ExplosionResult the demand lines plus warnings for lines that had to be
// skipped (no resolvable vendor). Skipping instead of failing keeps partial
// generation possible.
type ExplosionResult struct {
	Lines    []DemandLine `json:"lines"`
	Warnings []string     `json:"warnings"`
}

// Explode computes the demand lines for one approved EOPA and a target PO
// type. The medicine must carry its BOM associations preloaded for RM/PM.
//
// FG: one line, quantity = EOPA quantity, vendor = manufacturer.
// RM/PM: one line per matching BOM line, quantity = EOPA quantity ×
// qty_required_per_unit. Wastage is carried along but never applied.
func Explode(eopa *entity.EOPA, medicine *entity.Medicine, bomLines []entity.BOMLine, poType string) *ExplosionResult {
	result := &ExplosionResult{}

	switch poType {
	case entity.POTypeFG:
		if medicine.ManufacturerVendorID == nil || *medicine.ManufacturerVendorID == "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("medicine %s has no manufacturer vendor, skipped", medicine.Name))
			return result
		}
		medicineID := medicine.ID
		result.Lines = append(result.Lines, DemandLine{
			POType:     entity.POTypeFG,
			MedicineID: &medicineID,
			ItemName:   medicine.Name,
			ItemCode:   medicine.Code,
			Unit:       medicine.Unit,
			HSNCode:    medicine.HSNCode,
			GSTRate:    medicine.GSTRate,
			Quantity:   eopa.Quantity,
			VendorID:   *medicine.ManufacturerVendorID,
		})

	case entity.POTypeRM, entity.POTypePM:
		kind := entity.MaterialKindRM
		if poType == entity.POTypePM {
			kind = entity.MaterialKindPM
		}
		for _, line := range bomLines {
			if line.MaterialKind != kind {
				continue
			}
			demand, warning := explodeBOMLine(eopa, medicine, line, poType)
			if warning != "" {
				result.Warnings = append(result.Warnings, warning)
				continue
			}
			result.Lines = append(result.Lines, *demand)
		}
	}

	return result
}

// explodeBOMLine builds one demand line; returns a warning instead when the
// vendor chain resolves to nothing.
func explodeBOMLine(eopa *entity.EOPA, medicine *entity.Medicine, line entity.BOMLine, poType string) (*DemandLine, string) {
	demand := DemandLine{
		POType:            poType,
		Quantity:          eopa.Quantity * line.QtyRequiredPerUnit,
		WastagePercentage: line.WastagePercentage,
		IsCritical:        line.IsCritical,
		Unit:              line.Unit,
	}

	switch line.MaterialKind {
	case entity.MaterialKindRM:
		if line.RawMaterial == nil {
			return nil, fmt.Sprintf("BOM line %s references a missing raw material, skipped", line.ID)
		}
		demand.RawMaterialID = line.RawMaterialID
		demand.ItemName = line.RawMaterial.Name
		demand.ItemCode = line.RawMaterial.Code
		demand.HSNCode = line.RawMaterial.HSNCode
		demand.GSTRate = line.RawMaterial.GSTRate
		if demand.Unit == "" {
			demand.Unit = line.RawMaterial.Unit
		}
		demand.VendorID = resolveVendor(line.OverrideVendorID, line.RawMaterial.DefaultVendorID, medicine.RMVendorID)

	case entity.MaterialKindPM:
		if line.PackingMaterial == nil {
			return nil, fmt.Sprintf("BOM line %s references a missing packing material, skipped", line.ID)
		}
		demand.PackingMaterialID = line.PackingMaterialID
		demand.ItemName = line.PackingMaterial.Name
		demand.ItemCode = line.PackingMaterial.Code
		demand.HSNCode = line.PackingMaterial.HSNCode
		demand.GSTRate = line.PackingMaterial.GSTRate
		if demand.Unit == "" {
			demand.Unit = line.PackingMaterial.Unit
		}
		demand.VendorID = resolveVendor(line.OverrideVendorID, line.PackingMaterial.DefaultVendorID, medicine.PMVendorID)
	}

	if demand.VendorID == "" {
		return nil, fmt.Sprintf("no resolvable vendor for %s, skipped", demand.ItemName)
	}
	return &demand, ""
}

// resolveVendor walks the override → material default → medicine fallback
// chain; first non-empty wins.
func resolveVendor(candidates ...*string) string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return *c
		}
	}
	return ""
}

// VendorGroup demand lines for one vendor, carrying the run-scoped draft
// placeholder number. The placeholder is display-only and is replaced by the
// durable number at approval.
type VendorGroup struct {
	VendorID    string       `json:"vendor_id"`
	DraftNumber string       `json:"draft_number"`
	Lines       []DemandLine `json:"lines"`
}

// GroupByVendor partitions demand lines by resolved vendor id, preserving
// group discovery order. Sequence numbers restart every run.
func GroupByVendor(lines []DemandLine, poType string, now time.Time) []VendorGroup {
	fy := entity.FiscalYearLabel(now)

	var groups []VendorGroup
	index := make(map[string]int)

	for _, line := range lines {
		i, ok := index[line.VendorID]
		if !ok {
			i = len(groups)
			index[line.VendorID] = i
			groups = append(groups, VendorGroup{
				VendorID:    line.VendorID,
				DraftNumber: entity.DraftPONumber(fy, poType, i+1),
			})
		}
		groups[i].Lines = append(groups[i].Lines, line)
	}

	return groups
}
