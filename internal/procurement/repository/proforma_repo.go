package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
	"gorm.io/gorm"
)

// PIRepository proforma invoice data access
type PIRepository struct {
	db *gorm.DB
}

func NewPIRepository(db *gorm.DB) *PIRepository {
	return &PIRepository{db: db}
}

// FindAll lists proforma invoices with paging and filters
func (r *PIRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.ProformaInvoice, int64, error) {
	var items []entity.ProformaInvoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ProformaInvoice{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("pi_code ILIKE ? OR customer_name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Items").
		Preload("Items.Medicine").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID finds a proforma invoice with its items
func (r *PIRepository) FindByID(ctx context.Context, id string) (*entity.ProformaInvoice, error) {
	var pi entity.ProformaInvoice
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Items.Medicine").
		Where("id = ?", id).
		First(&pi).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pi, nil
}

// Create creates a proforma invoice with items
func (r *PIRepository) Create(ctx context.Context, pi *entity.ProformaInvoice) error {
	return r.db.WithContext(ctx).Create(pi).Error
}

// Update saves a proforma invoice
func (r *PIRepository) Update(ctx context.Context, pi *entity.ProformaInvoice) error {
	return r.db.WithContext(ctx).Save(pi).Error
}

// Delete removes a proforma invoice and its items
func (r *PIRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pi_id = ?", id).Delete(&entity.PIItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.ProformaInvoice{}).Error
	})
}

// GenerateCode produces the next PI code PI-{year}-{seq}
func (r *PIRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("PI-%s-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.ProformaInvoice{}).
		Select("COALESCE(MAX(pi_code), '')").
		Where("pi_code LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "PI-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("PI-%s-%04d", year, seq), nil
}
