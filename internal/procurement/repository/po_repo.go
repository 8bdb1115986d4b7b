package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
	"gorm.io/gorm"
)

// PORepository purchase order data access
type PORepository struct {
	db *gorm.DB
}

func NewPORepository(db *gorm.DB) *PORepository {
	return &PORepository{db: db}
}

// FindAll lists purchase orders with paging and filters
func (r *PORepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	var items []entity.PurchaseOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{})

	if vendorID := filters["vendor_id"]; vendorID != "" {
		query = query.Where("vendor_id = ?", vendorID)
	}
	if eopaID := filters["eopa_id"]; eopaID != "" {
		query = query.Where("eopa_id = ?", eopaID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if poType := filters["po_type"]; poType != "" {
		query = query.Where("po_type = ?", poType)
	}
	if fulfillment := filters["fulfillment_status"]; fulfillment != "" {
		query = query.Where("fulfillment_status = ?", fulfillment)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("po_number ILIKE ?", "%"+search+"%")
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

// FindByID finds a purchase order with vendor, EOPA and ordered items
func (r *PORepository) FindByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		Preload("EOPA").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("id = ?", id).
		First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// FindDraft finds the DRAFT purchase order for an EOPA+vendor+type
// combination, nil when none exists. The reconciler keys on this.
func (r *PORepository) FindDraft(ctx context.Context, eopaID, vendorID, poType string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("eopa_id = ? AND vendor_id = ? AND po_type = ? AND status = ?",
			eopaID, vendorID, poType, entity.POStatusDraft).
		First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &po, nil
}

// Create creates a purchase order with items
func (r *PORepository) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

// Update saves a purchase order header
func (r *PORepository) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Save(po).Error
}

// SaveWithItems saves the header and upserts the given items in one
// transaction. Items with an existing id are updated, others inserted.
// Items persisted but absent from the slice are left alone; removal is an
// explicit DeleteLineItem call.
func (r *PORepository) SaveWithItems(ctx context.Context, po *entity.PurchaseOrder, items []entity.POLineItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(po).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].POID = po.ID
			if err := tx.Save(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a purchase order and its line items. Status guards live in
// the service layer.
func (r *PORepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("po_id = ?", id).Delete(&entity.POLineItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.PurchaseOrder{}).Error
	})
}

// FindLineItemByID finds a PO line item
func (r *PORepository) FindLineItemByID(ctx context.Context, itemID string) (*entity.POLineItem, error) {
	var item entity.POLineItem
	err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// DeleteLineItem removes a single line item
func (r *PORepository) DeleteLineItem(ctx context.Context, itemID string) error {
	return r.db.WithContext(ctx).Where("id = ?", itemID).Delete(&entity.POLineItem{}).Error
}

// ApplyFulfillment increments fulfilled quantities for the given line items
// and recomputes the PO aggregates and derived fulfillment status, all in one
// transaction. increments maps line item id to shipped quantity; negative
// values compensate (invoice deletion). A shipment that would push a line
// past its ordered quantity fails the whole transaction.
func (r *PORepository) ApplyFulfillment(ctx context.Context, poID string, increments map[string]float64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for itemID, qty := range increments {
			var item entity.POLineItem
			if err := tx.Where("id = ? AND po_id = ?", itemID, poID).First(&item).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}

			next := item.FulfilledQuantity + qty
			if next < 0 {
				next = 0
			}
			if next > item.OrderedQuantity {
				return fmt.Errorf("line %s: fulfilled %.2f would exceed ordered %.2f",
					itemID, next, item.OrderedQuantity)
			}

			item.FulfilledQuantity = next
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}

		// Recompute aggregates from all lines.
		var lines []entity.POLineItem
		if err := tx.Where("po_id = ?", poID).Find(&lines).Error; err != nil {
			return err
		}

		var ordered, fulfilled float64
		for _, line := range lines {
			ordered += line.OrderedQuantity
			fulfilled += line.FulfilledQuantity
		}

		status := entity.DeriveFulfillmentStatus(ordered, fulfilled)

		return tx.Model(&entity.PurchaseOrder{}).
			Where("id = ?", poID).
			Updates(map[string]interface{}{
				"ordered_total":      ordered,
				"fulfilled_total":    fulfilled,
				"fulfillment_status": status,
			}).Error
	})
}

// GenerateNumber produces the next durable PO number for the fiscal year and
// type, PO/{FY}-{FY+1}/{TYPE}/{seq}. Only approved POs carry one.
func (r *PORepository) GenerateNumber(ctx context.Context, poType string) (string, error) {
	fy := entity.FiscalYearLabel(time.Now())
	prefix := fmt.Sprintf("PO/%s/%s/", fy, poType)

	var maxNumber string
	err := r.db.WithContext(ctx).
		Model(&entity.PurchaseOrder{}).
		Select("COALESCE(MAX(po_number), '')").
		Where("po_number LIKE ? AND po_number NOT LIKE ?", prefix+"%", prefix+"DRAFT%").
		Scan(&maxNumber).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxNumber != "" {
		fmt.Sscanf(maxNumber, prefix+"%04d", &seq)
	}
	seq++
	return entity.FinalPONumber(fy, poType, seq), nil
}
