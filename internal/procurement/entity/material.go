package entity

import "time"

// RawMaterial an API or excipient consumed by a formulation
type RawMaterial struct {
	ID     string `json:"id" gorm:"primaryKey;size:32"`
	Code   string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name   string `json:"name" gorm:"size:200;not null"`
	Status string `json:"status" gorm:"size:20;default:ACTIVE"`

	Unit    string  `json:"unit" gorm:"size:20;default:kg"`
	HSNCode string  `json:"hsn_code" gorm:"size:20"`
	GSTRate float64 `json:"gst_rate" gorm:"type:decimal(5,2);default:0"`

	DefaultVendorID *string `json:"default_vendor_id" gorm:"size:32;index"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Remarks   string    `json:"remarks" gorm:"type:text"`

	DefaultVendor *Vendor `json:"default_vendor,omitempty" gorm:"foreignKey:DefaultVendorID"`
}

func (RawMaterial) TableName() string {
	return "raw_materials"
}

// PackingMaterial cartons, foils, labels and other packaging consumed per unit
type PackingMaterial struct {
	ID     string `json:"id" gorm:"primaryKey;size:32"`
	Code   string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name   string `json:"name" gorm:"size:200;not null"`
	Status string `json:"status" gorm:"size:20;default:ACTIVE"`

	Unit    string  `json:"unit" gorm:"size:20;default:pcs"`
	HSNCode string  `json:"hsn_code" gorm:"size:20"`
	GSTRate float64 `json:"gst_rate" gorm:"type:decimal(5,2);default:0"`

	DefaultVendorID *string `json:"default_vendor_id" gorm:"size:32;index"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Remarks   string    `json:"remarks" gorm:"type:text"`

	DefaultVendor *Vendor `json:"default_vendor,omitempty" gorm:"foreignKey:DefaultVendorID"`
}

func (PackingMaterial) TableName() string {
	return "packing_materials"
}

const (
	MaterialStatusActive   = "ACTIVE"
	MaterialStatusInactive = "INACTIVE"
)
