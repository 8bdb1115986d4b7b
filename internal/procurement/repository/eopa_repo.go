package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
	"gorm.io/gorm"
)

// EOPARepository EOPA data access
type EOPARepository struct {
	db *gorm.DB
}

func NewEOPARepository(db *gorm.DB) *EOPARepository {
	return &EOPARepository{db: db}
}

// FindAll lists EOPAs with paging and filters
func (r *EOPARepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.EOPA, int64, error) {
	var items []entity.EOPA
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.EOPA{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if medicineID := filters["medicine_id"]; medicineID != "" {
		query = query.Where("medicine_id = ?", medicineID)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("eopa_code ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Medicine").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID finds an EOPA with its medicine and source PI item
func (r *EOPARepository) FindByID(ctx context.Context, id string) (*entity.EOPA, error) {
	var eopa entity.EOPA
	err := r.db.WithContext(ctx).
		Preload("Medicine").
		Preload("Medicine.Manufacturer").
		Preload("PIItem").
		Where("id = ?", id).
		First(&eopa).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &eopa, nil
}

// FindByPIItem finds the EOPA spawned from a PI item, nil when absent
func (r *EOPARepository) FindByPIItem(ctx context.Context, piItemID string) (*entity.EOPA, error) {
	var eopa entity.EOPA
	err := r.db.WithContext(ctx).Where("pi_item_id = ?", piItemID).First(&eopa).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &eopa, nil
}

// Create creates an EOPA
func (r *EOPARepository) Create(ctx context.Context, eopa *entity.EOPA) error {
	return r.db.WithContext(ctx).Create(eopa).Error
}

// CreateBatch creates EOPAs in one transaction (PI approval fan-out)
func (r *EOPARepository) CreateBatch(ctx context.Context, eopas []*entity.EOPA) error {
	if len(eopas) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(eopas).Error
}

// Update saves an EOPA
func (r *EOPARepository) Update(ctx context.Context, eopa *entity.EOPA) error {
	return r.db.WithContext(ctx).Save(eopa).Error
}

// Delete removes an EOPA
func (r *EOPARepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.EOPA{}).Error
}

// CountPOReferences counts POs generated from the EOPA; deletes are blocked
// while any exist.
func (r *EOPARepository) CountPOReferences(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{}).
		Where("eopa_id = ?", id).
		Count(&count).Error
	return count, err
}

// GenerateCode produces the next EOPA code EOPA-{year}-{seq}
func (r *EOPARepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("EOPA-%s-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.EOPA{}).
		Select("COALESCE(MAX(eopa_code), '')").
		Where("eopa_code LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "EOPA-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("EOPA-%s-%04d", year, seq), nil
}

// GenerateCodes produces count consecutive EOPA codes in one scan, for the
// PI-approval fan-out where several EOPAs are created together.
func (r *EOPARepository) GenerateCodes(ctx context.Context, count int) ([]string, error) {
	if count == 0 {
		return nil, nil
	}

	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("EOPA-%s-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.EOPA{}).
		Select("COALESCE(MAX(eopa_code), '')").
		Where("eopa_code LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return nil, err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "EOPA-"+year+"-%04d", &seq)
	}

	codes := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		codes = append(codes, fmt.Sprintf("EOPA-%s-%04d", year, seq+i))
	}
	return codes, nil
}
