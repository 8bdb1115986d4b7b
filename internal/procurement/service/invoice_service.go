package service

import (
	"context"
	"fmt"
	"time"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceService vendor invoice entry and fulfillment application
type InvoiceService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

func NewInvoiceService(repos *repository.Repositories, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{repos: repos, logger: logger}
}

// ListInvoices lists invoices
func (s *InvoiceService) ListInvoices(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Invoice, int64, error) {
	return s.repos.Invoice.FindAll(ctx, page, pageSize, filters)
}

// GetInvoice gets invoice detail
func (s *InvoiceService) GetInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	return s.repos.Invoice.FindByID(ctx, id)
}

// CreateInvoiceRequest invoice entry against one PO. Items with
// shipped_quantity <= 0 are dropped, matching the entry form's rule that
// unmapped lines are excluded unless explicitly set.
type CreateInvoiceRequest struct {
	InvoiceNumber string     `json:"invoice_number" binding:"required"`
	POID          string     `json:"po_id" binding:"required"`
	Date          *time.Time `json:"date"`
	Remarks       string     `json:"remarks"`

	Items []CreateInvoiceItem `json:"items" binding:"required"`
}

type CreateInvoiceItem struct {
	POLineItemID    string          `json:"po_line_item_id" binding:"required"`
	ShippedQuantity float64         `json:"shipped_quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TaxRate         float64         `json:"tax_rate"`
	BatchNumber     string          `json:"batch_number"`
	ExpiryDate      *time.Time      `json:"expiry_date"`
}

// CreateInvoice records a vendor invoice as DRAFT. Quantities are applied to
// the PO only on Process.
func (s *InvoiceService) CreateInvoice(ctx context.Context, userID string, req *CreateInvoiceRequest) (*entity.Invoice, error) {
	po, err := s.repos.PO.FindByID(ctx, req.POID)
	if err != nil {
		return nil, err
	}
	if po.Status != entity.POStatusApproved && po.Status != entity.POStatusReady && po.Status != entity.POStatusSent {
		return nil, fmt.Errorf("PO %s is not open for invoicing", req.POID)
	}

	invoice := &entity.Invoice{
		ID:            uuid.New().String()[:32],
		InvoiceNumber: req.InvoiceNumber,
		Status:        entity.InvoiceStatusDraft,
		POID:          po.ID,
		VendorID:      po.VendorID,
		Date:          req.Date,
		CreatedBy:     userID,
		Remarks:       req.Remarks,
	}

	items, total, err := buildInvoiceItems(po, invoice.ID, req.Items)
	if err != nil {
		return nil, err
	}
	invoice.Items = items
	invoice.TotalAmount = total

	if err := s.repos.Invoice.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("creating invoice: %w", err)
	}
	return s.repos.Invoice.FindByID(ctx, invoice.ID)
}

// buildInvoiceItems validates entry lines against the PO and returns the
// persistable items plus the invoice total. Lines with shipped quantity <= 0
// are dropped; a shipment past a line's remaining quantity is rejected.
func buildInvoiceItems(po *entity.PurchaseOrder, invoiceID string, reqItems []CreateInvoiceItem) ([]entity.InvoiceItem, decimal.Decimal, error) {
	lines := make(map[string]entity.POLineItem, len(po.Items))
	for _, line := range po.Items {
		lines[line.ID] = line
	}

	var items []entity.InvoiceItem
	total := decimal.Zero
	for _, item := range reqItems {
		if item.ShippedQuantity <= 0 {
			continue
		}
		line, ok := lines[item.POLineItemID]
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("line item %s does not belong to PO %s", item.POLineItemID, po.ID)
		}
		if line.FulfilledQuantity+item.ShippedQuantity > line.OrderedQuantity {
			return nil, decimal.Zero, ErrOverFulfillment
		}
		items = append(items, entity.InvoiceItem{
			ID:              uuid.New().String()[:32],
			InvoiceID:       invoiceID,
			POLineItemID:    item.POLineItemID,
			ShippedQuantity: item.ShippedQuantity,
			UnitPrice:       item.UnitPrice,
			TaxRate:         item.TaxRate,
			BatchNumber:     item.BatchNumber,
			ExpiryDate:      item.ExpiryDate,
		})
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromFloat(item.ShippedQuantity)).Round(2))
	}

	if len(items) == 0 {
		return nil, decimal.Zero, fmt.Errorf("invoice has no items with shipped quantity > 0")
	}
	return items, total, nil
}

// UpdateInvoiceRequest editable fields of a DRAFT invoice. A nil Items slice
// keeps the existing lines; a non-nil one replaces them.
type UpdateInvoiceRequest struct {
	InvoiceNumber *string    `json:"invoice_number"`
	Date          *time.Time `json:"date"`
	Remarks       *string    `json:"remarks"`

	Items []CreateInvoiceItem `json:"items"`
}

// UpdateInvoice edits a DRAFT invoice. Replaced items are re-validated
// against the PO exactly like on creation; a processed invoice is immutable.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id string, req *UpdateInvoiceRequest) (*entity.Invoice, error) {
	invoice, err := s.repos.Invoice.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status == entity.InvoiceStatusProcessed {
		return nil, ErrNotEditable
	}

	if req.InvoiceNumber != nil {
		invoice.InvoiceNumber = *req.InvoiceNumber
	}
	if req.Date != nil {
		invoice.Date = req.Date
	}
	if req.Remarks != nil {
		invoice.Remarks = *req.Remarks
	}

	if req.Items == nil {
		if err := s.repos.Invoice.Update(ctx, invoice); err != nil {
			return nil, err
		}
		return s.repos.Invoice.FindByID(ctx, id)
	}

	po, err := s.repos.PO.FindByID(ctx, invoice.POID)
	if err != nil {
		return nil, err
	}
	items, total, err := buildInvoiceItems(po, invoice.ID, req.Items)
	if err != nil {
		return nil, err
	}
	invoice.TotalAmount = total

	if err := s.repos.Invoice.SaveWithItems(ctx, invoice, items); err != nil {
		return nil, fmt.Errorf("saving invoice: %w", err)
	}
	return s.repos.Invoice.FindByID(ctx, id)
}

// ProcessInvoice applies a DRAFT invoice's shipped quantities to the PO's
// fulfilled quantities and recomputes the derived fulfillment status.
func (s *InvoiceService) ProcessInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	invoice, err := s.repos.Invoice.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status == entity.InvoiceStatusProcessed {
		return nil, fmt.Errorf("invoice %s is already processed", invoice.InvoiceNumber)
	}

	increments := make(map[string]float64, len(invoice.Items))
	for _, item := range invoice.Items {
		increments[item.POLineItemID] += item.ShippedQuantity
	}

	if err := s.repos.PO.ApplyFulfillment(ctx, invoice.POID, increments); err != nil {
		return nil, fmt.Errorf("applying fulfillment: %w", err)
	}

	now := time.Now()
	invoice.Status = entity.InvoiceStatusProcessed
	invoice.ProcessedAt = &now
	if err := s.repos.Invoice.Update(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("invoice processed",
		zap.String("invoice_id", invoice.ID),
		zap.String("po_id", invoice.POID),
		zap.Int("lines", len(invoice.Items)))

	return invoice, nil
}

// DeleteInvoice removes an invoice. A processed invoice first compensates
// the quantities it applied.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id string) error {
	invoice, err := s.repos.Invoice.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if invoice.Status == entity.InvoiceStatusProcessed {
		decrements := make(map[string]float64, len(invoice.Items))
		for _, item := range invoice.Items {
			decrements[item.POLineItemID] -= item.ShippedQuantity
		}
		if err := s.repos.PO.ApplyFulfillment(ctx, invoice.POID, decrements); err != nil {
			return fmt.Errorf("reverting fulfillment: %w", err)
		}
	}

	return s.repos.Invoice.Delete(ctx, id)
}

// PrefillItem one pre-mapped entry line for the invoice form
type PrefillItem struct {
	POLineItemID      string          `json:"po_line_item_id"`
	ItemName          string          `json:"item_name"`
	Unit              string          `json:"unit"`
	OrderedQuantity   float64         `json:"ordered_quantity"`
	FulfilledQuantity float64         `json:"fulfilled_quantity"`
	ShippedQuantity   float64         `json:"shipped_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TaxRate           float64         `json:"tax_rate"`
	BatchNumber       string          `json:"batch_number"`
}

// PrefillFromPrior builds entry lines for a PO, pre-filling quantity, price
// and batch from a prior invoice where the ordered material matches.
// invoiceID selects the prior invoice explicitly; when empty the vendor's
// most recent processed invoice is used. Matching is by the PO line's
// material reference, not line id, so a prior invoice against a different PO
// still carries over. Unmatched lines default shipped quantity to 0.
func (s *InvoiceService) PrefillFromPrior(ctx context.Context, poID, invoiceID string) ([]PrefillItem, error) {
	po, err := s.repos.PO.FindByID(ctx, poID)
	if err != nil {
		return nil, err
	}

	var prior *entity.Invoice
	if invoiceID != "" {
		prior, err = s.repos.Invoice.FindByID(ctx, invoiceID)
	} else {
		prior, err = s.repos.Invoice.FindLatestByVendor(ctx, po.VendorID)
	}
	if err != nil {
		return nil, err
	}

	byMaterial := make(map[string]entity.InvoiceItem)
	if prior != nil {
		priorPO := po
		if prior.POID != po.ID {
			priorPO, err = s.repos.PO.FindByID(ctx, prior.POID)
			if err != nil {
				return nil, err
			}
		}
		priorLines := make(map[string]entity.POLineItem, len(priorPO.Items))
		for _, line := range priorPO.Items {
			priorLines[line.ID] = line
		}
		for _, item := range prior.Items {
			line, ok := priorLines[item.POLineItemID]
			if !ok {
				continue
			}
			if key := materialKey(&line); key != "" {
				byMaterial[key] = item
			}
		}
	}

	out := make([]PrefillItem, 0, len(po.Items))
	for _, line := range po.Items {
		prefill := PrefillItem{
			POLineItemID:      line.ID,
			ItemName:          line.ItemName,
			Unit:              line.Unit,
			OrderedQuantity:   line.OrderedQuantity,
			FulfilledQuantity: line.FulfilledQuantity,
			UnitPrice:         line.Rate,
			TaxRate:           line.GSTRate,
		}
		if match, ok := byMaterial[materialKey(&line)]; ok {
			prefill.ShippedQuantity = match.ShippedQuantity
			prefill.UnitPrice = match.UnitPrice
			prefill.TaxRate = match.TaxRate
			prefill.BatchNumber = match.BatchNumber
		}
		out = append(out, prefill)
	}
	return out, nil
}

// materialKey identifies the material a PO line orders, stable across POs.
// Empty when the line carries no reference.
func materialKey(line *entity.POLineItem) string {
	switch {
	case line.MedicineID != nil && *line.MedicineID != "":
		return "med:" + *line.MedicineID
	case line.RawMaterialID != nil && *line.RawMaterialID != "":
		return "rm:" + *line.RawMaterialID
	case line.PackingMaterialID != nil && *line.PackingMaterialID != "":
		return "pm:" + *line.PackingMaterialID
	}
	return ""
}
