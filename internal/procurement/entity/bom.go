package entity

import "time"

// BOMLine relates a medicine to one raw or packing material with the
// quantity consumed per finished unit. Wastage is descriptive only and is
// not applied during explosion.
type BOMLine struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	MedicineID string `json:"medicine_id" gorm:"size:32;not null;index"`

	MaterialKind      string  `json:"material_kind" gorm:"size:10;not null"` // RM/PM
	RawMaterialID     *string `json:"raw_material_id" gorm:"size:32;index"`
	PackingMaterialID *string `json:"packing_material_id" gorm:"size:32;index"`

	QtyRequiredPerUnit float64 `json:"qty_required_per_unit" gorm:"type:decimal(12,4);not null"`
	Unit               string  `json:"unit" gorm:"size:20"`
	WastagePercentage  float64 `json:"wastage_percentage" gorm:"type:decimal(5,2);default:0"`
	IsCritical         bool    `json:"is_critical" gorm:"default:false"`

	// Optional per-line vendor override; wins over the material default.
	OverrideVendorID *string `json:"override_vendor_id" gorm:"size:32"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Remarks   string    `json:"remarks" gorm:"type:text"`

	RawMaterial     *RawMaterial     `json:"raw_material,omitempty" gorm:"foreignKey:RawMaterialID"`
	PackingMaterial *PackingMaterial `json:"packing_material,omitempty" gorm:"foreignKey:PackingMaterialID"`
	OverrideVendor  *Vendor          `json:"override_vendor,omitempty" gorm:"foreignKey:OverrideVendorID"`
}

func (BOMLine) TableName() string {
	return "bom_lines"
}

// BOM material kinds
const (
	MaterialKindRM = "RM"
	MaterialKindPM = "PM"
)
