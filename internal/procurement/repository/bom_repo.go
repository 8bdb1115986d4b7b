package repository

import (
	"context"
	"errors"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
	"gorm.io/gorm"
)

// BOMRepository BOM line data access
type BOMRepository struct {
	db *gorm.DB
}

func NewBOMRepository(db *gorm.DB) *BOMRepository {
	return &BOMRepository{db: db}
}

// FindByMedicine lists a medicine's BOM lines, optionally filtered by
// material kind (RM/PM), with materials and override vendors preloaded.
func (r *BOMRepository) FindByMedicine(ctx context.Context, medicineID, materialKind string) ([]entity.BOMLine, error) {
	var lines []entity.BOMLine
	query := r.db.WithContext(ctx).
		Preload("RawMaterial").
		Preload("RawMaterial.DefaultVendor").
		Preload("PackingMaterial").
		Preload("PackingMaterial.DefaultVendor").
		Preload("OverrideVendor").
		Where("medicine_id = ?", medicineID)

	if materialKind != "" {
		query = query.Where("material_kind = ?", materialKind)
	}

	err := query.Order("created_at ASC").Find(&lines).Error
	return lines, err
}

// FindByID finds a BOM line by id
func (r *BOMRepository) FindByID(ctx context.Context, id string) (*entity.BOMLine, error) {
	var line entity.BOMLine
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &line, nil
}

// Create creates a BOM line
func (r *BOMRepository) Create(ctx context.Context, line *entity.BOMLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

// Update saves a BOM line
func (r *BOMRepository) Update(ctx context.Context, line *entity.BOMLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}

// Delete removes a BOM line
func (r *BOMRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.BOMLine{}).Error
}
