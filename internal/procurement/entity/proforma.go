package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProformaInvoice the upstream approved-price document; approving it spawns
// one EOPA per line item.
type ProformaInvoice struct {
	ID     string `json:"id" gorm:"primaryKey;size:32"`
	PICode string `json:"pi_code" gorm:"size:32;uniqueIndex;not null"`
	Status string `json:"status" gorm:"size:20;default:DRAFT"`

	CustomerName string     `json:"customer_name" gorm:"size:200"`
	PIDate       *time.Time `json:"pi_date"`

	CreatedBy  string     `json:"created_by" gorm:"size:32"`
	ApprovedBy *string    `json:"approved_by" gorm:"size:32"`
	ApprovedAt *time.Time `json:"approved_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Remarks    string     `json:"remarks" gorm:"type:text"`

	Items []PIItem `json:"items,omitempty" gorm:"foreignKey:PIID"`
}

func (ProformaInvoice) TableName() string {
	return "proforma_invoices"
}

// PI status
const (
	PIStatusDraft    = "DRAFT"
	PIStatusPending  = "PENDING"
	PIStatusApproved = "APPROVED"
	PIStatusRejected = "REJECTED"
)

// PIItem one quoted medicine line on a proforma invoice
type PIItem struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	PIID       string `json:"pi_id" gorm:"size:32;not null;index"`
	MedicineID string `json:"medicine_id" gorm:"size:32;not null"`

	Quantity        float64         `json:"quantity" gorm:"type:decimal(12,2);not null"`
	QuotedUnitPrice decimal.Decimal `json:"quoted_unit_price" gorm:"type:decimal(12,4)"`

	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Medicine *Medicine `json:"medicine,omitempty" gorm:"foreignKey:MedicineID"`
}

func (PIItem) TableName() string {
	return "pi_items"
}
