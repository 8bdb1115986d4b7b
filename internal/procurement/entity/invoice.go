package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice a vendor's shipment/billing document against a PO. Processing it
// moves shipped quantities into the PO's fulfilled quantities.
type Invoice struct {
	ID            string `json:"id" gorm:"primaryKey;size:32"`
	InvoiceNumber string `json:"invoice_number" gorm:"size:50;not null;index"`
	Status        string `json:"status" gorm:"size:20;default:DRAFT"`

	POID     string     `json:"po_id" gorm:"size:32;not null;index"`
	VendorID string     `json:"vendor_id" gorm:"size:32;not null;index"`
	Date     *time.Time `json:"date"`

	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(15,2);default:0"`

	CreatedBy   string     `json:"created_by" gorm:"size:32"`
	ProcessedAt *time.Time `json:"processed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Remarks     string     `json:"remarks" gorm:"type:text"`

	Items  []InvoiceItem  `json:"items,omitempty" gorm:"foreignKey:InvoiceID"`
	Vendor *Vendor        `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	PO     *PurchaseOrder `json:"po,omitempty" gorm:"foreignKey:POID"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// Invoice status. PROCESSED means the shipped quantities were applied to the
// PO; a processed invoice can only be deleted by compensating those
// quantities back.
const (
	InvoiceStatusDraft     = "DRAFT"
	InvoiceStatusProcessed = "PROCESSED"
)

// InvoiceItem one shipped line against a PO line item
type InvoiceItem struct {
	ID           string `json:"id" gorm:"primaryKey;size:32"`
	InvoiceID    string `json:"invoice_id" gorm:"size:32;not null;index"`
	POLineItemID string `json:"po_line_item_id" gorm:"size:32;not null;index"`

	ShippedQuantity float64         `json:"shipped_quantity" gorm:"type:decimal(12,2);not null"`
	UnitPrice       decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,4);default:0"`
	TaxRate         float64         `json:"tax_rate" gorm:"type:decimal(5,2);default:0"`

	BatchNumber string     `json:"batch_number" gorm:"size:50"`
	ExpiryDate  *time.Time `json:"expiry_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}
