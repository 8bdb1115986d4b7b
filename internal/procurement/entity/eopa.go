package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EOPA Estimated Order & Price Approval. One per PI line item, created on PI
// approval; immutable for generation purposes once APPROVED.
type EOPA struct {
	ID       string `json:"id" gorm:"primaryKey;size:32"`
	EOPACode string `json:"eopa_code" gorm:"size:32;uniqueIndex;not null"`
	Status   string `json:"status" gorm:"size:20;default:PENDING"`

	PIItemID   string `json:"pi_item_id" gorm:"size:32;not null;index"`
	MedicineID string `json:"medicine_id" gorm:"size:32;not null;index"`

	Quantity           float64         `json:"quantity" gorm:"type:decimal(12,2);not null"`
	EstimatedUnitPrice decimal.Decimal `json:"estimated_unit_price" gorm:"type:decimal(12,4)"`

	CreatedBy  string     `json:"created_by" gorm:"size:32"`
	ApprovedBy *string    `json:"approved_by" gorm:"size:32"`
	ApprovedAt *time.Time `json:"approved_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Remarks    string     `json:"remarks" gorm:"type:text"`

	PIItem   *PIItem   `json:"pi_item,omitempty" gorm:"foreignKey:PIItemID"`
	Medicine *Medicine `json:"medicine,omitempty" gorm:"foreignKey:MedicineID"`
}

func (EOPA) TableName() string {
	return "eopas"
}

// EOPA status
const (
	EOPAStatusPending  = "PENDING"
	EOPAStatusApproved = "APPROVED"
	EOPAStatusRejected = "REJECTED"
)
