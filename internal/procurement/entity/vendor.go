package entity

import "time"

// Vendor a supplier of finished goods, raw materials or packing materials
type Vendor struct {
	ID     string `json:"id" gorm:"primaryKey;size:32"`
	Code   string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name   string `json:"name" gorm:"size:200;not null"`
	Status string `json:"status" gorm:"size:20;default:ACTIVE"`

	// Contact
	ContactPerson string `json:"contact_person" gorm:"size:100"`
	Email         string `json:"email" gorm:"size:200"`
	Phone         string `json:"phone" gorm:"size:50"`
	Address       string `json:"address" gorm:"size:500"`
	City          string `json:"city" gorm:"size:50"`
	State         string `json:"state" gorm:"size:50"`
	Country       string `json:"country" gorm:"size:50"`

	// Statutory
	GSTNumber    string `json:"gst_number" gorm:"size:20"`
	PANNumber    string `json:"pan_number" gorm:"size:15"`
	DrugLicense  string `json:"drug_license" gorm:"size:50"`
	PaymentTerms string `json:"payment_terms" gorm:"size:100"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Remarks   string    `json:"remarks" gorm:"type:text"`
}

func (Vendor) TableName() string {
	return "vendors"
}

// Vendor status
const (
	VendorStatusActive   = "ACTIVE"
	VendorStatusInactive = "INACTIVE"
)
