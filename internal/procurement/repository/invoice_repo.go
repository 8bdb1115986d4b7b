package repository

import (
	"context"
	"errors"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InvoiceRepository vendor invoice data access
type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// FindAll lists invoices with paging and filters
func (r *InvoiceRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Invoice, int64, error) {
	var items []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{})

	if poID := filters["po_id"]; poID != "" {
		query = query.Where("po_id = ?", poID)
	}
	if vendorID := filters["vendor_id"]; vendorID != "" {
		query = query.Where("vendor_id = ?", vendorID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("invoice_number ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Vendor").
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID finds an invoice with its items
func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		Preload("Items").
		Where("id = ?", id).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindLatestByVendor returns the vendor's most recent processed invoice,
// used to pre-map quantities on new invoice entry. Nil when none exists.
func (r *InvoiceRepository) FindLatestByVendor(ctx context.Context, vendorID string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("vendor_id = ? AND status = ?", vendorID, entity.InvoiceStatusProcessed).
		Order("created_at DESC").
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// Create creates an invoice with items
func (r *InvoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

// Update saves an invoice header
func (r *InvoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(invoice).Error
}

// SaveWithItems saves the header and replaces all items in one transaction.
// Invoice lines have no identity worth preserving across edits, so
// replacement is simpler than the PO repo's upsert.
func (r *InvoiceRepository) SaveWithItems(ctx context.Context, invoice *entity.Invoice, items []entity.InvoiceItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&entity.InvoiceItem{}).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(invoice).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

// Delete removes an invoice and its items. Compensation of applied
// quantities is the service's responsibility.
func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&entity.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Invoice{}).Error
	})
}
