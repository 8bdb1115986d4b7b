package entity

import "time"

// Medicine a finished-goods product (formulation)
type Medicine struct {
	ID     string `json:"id" gorm:"primaryKey;size:32"`
	Code   string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name   string `json:"name" gorm:"size:200;not null"`
	Status string `json:"status" gorm:"size:20;default:ACTIVE"`

	Composition string  `json:"composition" gorm:"size:500"`
	Unit        string  `json:"unit" gorm:"size:20;default:units"`
	HSNCode     string  `json:"hsn_code" gorm:"size:20"`
	GSTRate     float64 `json:"gst_rate" gorm:"type:decimal(5,2);default:0"`

	// Vendor defaults per material track. ManufacturerVendorID serves FG
	// generation; RM/PM vendor IDs are the last link of the resolution chain.
	ManufacturerVendorID *string `json:"manufacturer_vendor_id" gorm:"size:32;index"`
	RMVendorID           *string `json:"rm_vendor_id" gorm:"size:32"`
	PMVendorID           *string `json:"pm_vendor_id" gorm:"size:32"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Remarks   string    `json:"remarks" gorm:"type:text"`

	Manufacturer *Vendor   `json:"manufacturer,omitempty" gorm:"foreignKey:ManufacturerVendorID"`
	BOMLines     []BOMLine `json:"bom_lines,omitempty" gorm:"foreignKey:MedicineID"`
}

func (Medicine) TableName() string {
	return "medicines"
}

const (
	MedicineStatusActive   = "ACTIVE"
	MedicineStatusInactive = "INACTIVE"
)
