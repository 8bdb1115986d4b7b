package repository

import (
	"context"
	"errors"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
	"gorm.io/gorm"
)

// MedicineRepository medicine master data access
type MedicineRepository struct {
	db *gorm.DB
}

func NewMedicineRepository(db *gorm.DB) *MedicineRepository {
	return &MedicineRepository{db: db}
}

// FindAll lists medicines with paging and filters
func (r *MedicineRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Medicine, int64, error) {
	var items []entity.Medicine
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Medicine{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if vendorID := filters["vendor_id"]; vendorID != "" {
		query = query.Where("manufacturer_vendor_id = ?", vendorID)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Manufacturer").
		Order("name ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID finds a medicine with its BOM lines and vendor defaults
func (r *MedicineRepository) FindByID(ctx context.Context, id string) (*entity.Medicine, error) {
	var medicine entity.Medicine
	err := r.db.WithContext(ctx).
		Preload("Manufacturer").
		Preload("BOMLines").
		Preload("BOMLines.RawMaterial").
		Preload("BOMLines.PackingMaterial").
		Where("id = ?", id).
		First(&medicine).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &medicine, nil
}

// Create creates a medicine
func (r *MedicineRepository) Create(ctx context.Context, medicine *entity.Medicine) error {
	return r.db.WithContext(ctx).Create(medicine).Error
}

// Update saves a medicine
func (r *MedicineRepository) Update(ctx context.Context, medicine *entity.Medicine) error {
	return r.db.WithContext(ctx).Save(medicine).Error
}

// Delete removes a medicine and its BOM lines
func (r *MedicineRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("medicine_id = ?", id).Delete(&entity.BOMLine{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Medicine{}).Error
	})
}
