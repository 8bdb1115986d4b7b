package repository

import (
	"context"
	"errors"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
	"gorm.io/gorm"
)

// RawMaterialRepository raw material master data access
type RawMaterialRepository struct {
	db *gorm.DB
}

func NewRawMaterialRepository(db *gorm.DB) *RawMaterialRepository {
	return &RawMaterialRepository{db: db}
}

// FindAll lists raw materials with paging and filters
func (r *RawMaterialRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.RawMaterial, int64, error) {
	var items []entity.RawMaterial
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.RawMaterial{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("DefaultVendor").
		Order("name ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID finds a raw material by id
func (r *RawMaterialRepository) FindByID(ctx context.Context, id string) (*entity.RawMaterial, error) {
	var material entity.RawMaterial
	err := r.db.WithContext(ctx).Preload("DefaultVendor").Where("id = ?", id).First(&material).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// Create creates a raw material
func (r *RawMaterialRepository) Create(ctx context.Context, material *entity.RawMaterial) error {
	return r.db.WithContext(ctx).Create(material).Error
}

// Update saves a raw material
func (r *RawMaterialRepository) Update(ctx context.Context, material *entity.RawMaterial) error {
	return r.db.WithContext(ctx).Save(material).Error
}

// Delete removes a raw material
func (r *RawMaterialRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.RawMaterial{}).Error
}

// PackingMaterialRepository packing material master data access
type PackingMaterialRepository struct {
	db *gorm.DB
}

func NewPackingMaterialRepository(db *gorm.DB) *PackingMaterialRepository {
	return &PackingMaterialRepository{db: db}
}

// FindAll lists packing materials with paging and filters
func (r *PackingMaterialRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PackingMaterial, int64, error) {
	var items []entity.PackingMaterial
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PackingMaterial{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("DefaultVendor").
		Order("name ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID finds a packing material by id
func (r *PackingMaterialRepository) FindByID(ctx context.Context, id string) (*entity.PackingMaterial, error) {
	var material entity.PackingMaterial
	err := r.db.WithContext(ctx).Preload("DefaultVendor").Where("id = ?", id).First(&material).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// Create creates a packing material
func (r *PackingMaterialRepository) Create(ctx context.Context, material *entity.PackingMaterial) error {
	return r.db.WithContext(ctx).Create(material).Error
}

// Update saves a packing material
func (r *PackingMaterialRepository) Update(ctx context.Context, material *entity.PackingMaterial) error {
	return r.db.WithContext(ctx).Save(material).Error
}

// Delete removes a packing material
func (r *PackingMaterialRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.PackingMaterial{}).Error
}
