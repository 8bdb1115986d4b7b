package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder a procurement commitment to one vendor for one material type
// (FG/RM/PM) tied to one EOPA. PONumber stays empty until approval assigns
// the final number; clients show a run-scoped draft placeholder before that.
type PurchaseOrder struct {
	ID       string `json:"id" gorm:"primaryKey;size:32"`
	PONumber string `json:"po_number" gorm:"size:40;index"`
	POType   string `json:"po_type" gorm:"size:10;not null;index"` // FG/RM/PM
	Status   string `json:"status" gorm:"size:30;default:DRAFT;index"`

	EOPAID   string `json:"eopa_id" gorm:"size:32;not null;index"`
	VendorID string `json:"vendor_id" gorm:"size:32;not null;index"`

	// Fulfillment aggregates, derived from line items on invoice application.
	// Tracked independently of the approval lifecycle status.
	FulfillmentStatus string  `json:"fulfillment_status" gorm:"size:20;default:OPEN"`
	OrderedTotal      float64 `json:"ordered_total" gorm:"type:decimal(14,2);default:0"`
	FulfilledTotal    float64 `json:"fulfilled_total" gorm:"type:decimal(14,2);default:0"`

	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(15,2);default:0"`
	Currency    string          `json:"currency" gorm:"size:10;default:INR"`

	CreatedBy  string     `json:"created_by" gorm:"size:32"`
	ApprovedBy *string    `json:"approved_by" gorm:"size:32"`
	ApprovedAt *time.Time `json:"approved_at"`
	SentAt     *time.Time `json:"sent_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Remarks    string     `json:"remarks" gorm:"type:text"`

	Items  []POLineItem `json:"items,omitempty" gorm:"foreignKey:POID"`
	Vendor *Vendor      `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	EOPA   *EOPA        `json:"eopa,omitempty" gorm:"foreignKey:EOPAID"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// PO types
const (
	POTypeFG = "FG"
	POTypeRM = "RM"
	POTypePM = "PM"
)

// Approval lifecycle status
const (
	POStatusDraft           = "DRAFT"
	POStatusPendingApproval = "PENDING_APPROVAL"
	POStatusApproved        = "APPROVED"
	POStatusReady           = "READY"
	POStatusSent            = "SENT"
	POStatusRejected        = "REJECTED"
)

// Fulfillment status, derived from line quantities
const (
	POFulfillmentOpen    = "OPEN"
	POFulfillmentPartial = "PARTIAL"
	POFulfillmentClosed  = "CLOSED"
)

// POLineItem belongs to exactly one PO. Exactly one of MedicineID,
// RawMaterialID, PackingMaterialID is set, matching the PO's type.
// Descriptive fields are snapshots taken at generation time.
type POLineItem struct {
	ID   string `json:"id" gorm:"primaryKey;size:32"`
	POID string `json:"po_id" gorm:"size:32;not null;index"`

	MedicineID        *string `json:"medicine_id" gorm:"size:32;index"`
	RawMaterialID     *string `json:"raw_material_id" gorm:"size:32;index"`
	PackingMaterialID *string `json:"packing_material_id" gorm:"size:32;index"`

	ItemName string  `json:"item_name" gorm:"size:200;not null"`
	ItemCode string  `json:"item_code" gorm:"size:50"`
	Unit     string  `json:"unit" gorm:"size:20"`
	HSNCode  string  `json:"hsn_code" gorm:"size:20"`
	GSTRate  float64 `json:"gst_rate" gorm:"type:decimal(5,2);default:0"`

	OrderedQuantity   float64 `json:"ordered_quantity" gorm:"type:decimal(12,2);not null"`
	FulfilledQuantity float64 `json:"fulfilled_quantity" gorm:"type:decimal(12,2);default:0"`

	Rate        decimal.Decimal `json:"rate" gorm:"type:decimal(12,4);default:0"`
	Value       decimal.Decimal `json:"value" gorm:"type:decimal(15,2);default:0"`
	GSTAmount   decimal.Decimal `json:"gst_amount" gorm:"type:decimal(15,2);default:0"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(15,2);default:0"`

	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Remarks   string    `json:"remarks" gorm:"type:text"`
}

func (POLineItem) TableName() string {
	return "po_line_items"
}

// DeriveFulfillmentStatus maps aggregate quantities onto the derived
// fulfillment status: OPEN when nothing shipped, PARTIAL in between, CLOSED
// once fulfilled reaches ordered.
func DeriveFulfillmentStatus(ordered, fulfilled float64) string {
	switch {
	case ordered > 0 && fulfilled >= ordered:
		return POFulfillmentClosed
	case fulfilled > 0:
		return POFulfillmentPartial
	default:
		return POFulfillmentOpen
	}
}

// ComputeAmounts fills Value, GSTAmount and TotalAmount from rate, ordered
// quantity and GST rate.
func (i *POLineItem) ComputeAmounts() {
	i.Value = i.Rate.Mul(decimal.NewFromFloat(i.OrderedQuantity)).Round(2)
	i.GSTAmount = i.Value.Mul(decimal.NewFromFloat(i.GSTRate)).Div(decimal.NewFromInt(100)).Round(2)
	i.TotalAmount = i.Value.Add(i.GSTAmount)
}
