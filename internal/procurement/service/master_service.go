package service

import (
	"context"
	"errors"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/cache"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrVendorReferenced vendor is referenced by purchase orders and cannot be deleted
var ErrVendorReferenced = errors.New("vendor is referenced by purchase orders")

// MasterDataService vendor / medicine / material / BOM maintenance
type MasterDataService struct {
	repos  *repository.Repositories
	cache  *cache.MasterCache
	logger *zap.Logger
}

func NewMasterDataService(repos *repository.Repositories, masterCache *cache.MasterCache, logger *zap.Logger) *MasterDataService {
	return &MasterDataService{repos: repos, cache: masterCache, logger: logger}
}

// === Vendors ===

func (s *MasterDataService) ListVendors(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Vendor, int64, error) {
	return s.repos.Vendor.FindAll(ctx, page, pageSize, filters)
}

func (s *MasterDataService) GetVendor(ctx context.Context, id string) (*entity.Vendor, error) {
	var cached entity.Vendor
	if s.cache.Get(ctx, cache.KindVendor, id, &cached) {
		return &cached, nil
	}
	vendor, err := s.repos.Vendor.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, cache.KindVendor, id, vendor)
	return vendor, nil
}

func (s *MasterDataService) CreateVendor(ctx context.Context, vendor *entity.Vendor) error {
	if vendor.ID == "" {
		vendor.ID = uuid.New().String()[:32]
	}
	if vendor.Status == "" {
		vendor.Status = entity.VendorStatusActive
	}
	return s.repos.Vendor.Create(ctx, vendor)
}

func (s *MasterDataService) UpdateVendor(ctx context.Context, vendor *entity.Vendor) error {
	if err := s.repos.Vendor.Update(ctx, vendor); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.KindVendor, vendor.ID)
	return nil
}

func (s *MasterDataService) DeleteVendor(ctx context.Context, id string) error {
	count, err := s.repos.Vendor.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrVendorReferenced
	}
	if err := s.repos.Vendor.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.KindVendor, id)
	return nil
}

// === Medicines ===

func (s *MasterDataService) ListMedicines(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Medicine, int64, error) {
	return s.repos.Medicine.FindAll(ctx, page, pageSize, filters)
}

func (s *MasterDataService) GetMedicine(ctx context.Context, id string) (*entity.Medicine, error) {
	return s.repos.Medicine.FindByID(ctx, id)
}

func (s *MasterDataService) CreateMedicine(ctx context.Context, medicine *entity.Medicine) error {
	if medicine.ID == "" {
		medicine.ID = uuid.New().String()[:32]
	}
	return s.repos.Medicine.Create(ctx, medicine)
}

func (s *MasterDataService) UpdateMedicine(ctx context.Context, medicine *entity.Medicine) error {
	if err := s.repos.Medicine.Update(ctx, medicine); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.KindMedicine, medicine.ID)
	return nil
}

func (s *MasterDataService) DeleteMedicine(ctx context.Context, id string) error {
	if err := s.repos.Medicine.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.KindMedicine, id)
	return nil
}

// === Raw materials ===

func (s *MasterDataService) ListRawMaterials(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.RawMaterial, int64, error) {
	return s.repos.RawMaterial.FindAll(ctx, page, pageSize, filters)
}

func (s *MasterDataService) GetRawMaterial(ctx context.Context, id string) (*entity.RawMaterial, error) {
	return s.repos.RawMaterial.FindByID(ctx, id)
}

func (s *MasterDataService) CreateRawMaterial(ctx context.Context, material *entity.RawMaterial) error {
	if material.ID == "" {
		material.ID = uuid.New().String()[:32]
	}
	return s.repos.RawMaterial.Create(ctx, material)
}

func (s *MasterDataService) UpdateRawMaterial(ctx context.Context, material *entity.RawMaterial) error {
	return s.repos.RawMaterial.Update(ctx, material)
}

func (s *MasterDataService) DeleteRawMaterial(ctx context.Context, id string) error {
	return s.repos.RawMaterial.Delete(ctx, id)
}

// === Packing materials ===

func (s *MasterDataService) ListPackingMaterials(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PackingMaterial, int64, error) {
	return s.repos.PackingMaterial.FindAll(ctx, page, pageSize, filters)
}

func (s *MasterDataService) GetPackingMaterial(ctx context.Context, id string) (*entity.PackingMaterial, error) {
	return s.repos.PackingMaterial.FindByID(ctx, id)
}

func (s *MasterDataService) CreatePackingMaterial(ctx context.Context, material *entity.PackingMaterial) error {
	if material.ID == "" {
		material.ID = uuid.New().String()[:32]
	}
	return s.repos.PackingMaterial.Create(ctx, material)
}

func (s *MasterDataService) UpdatePackingMaterial(ctx context.Context, material *entity.PackingMaterial) error {
	return s.repos.PackingMaterial.Update(ctx, material)
}

func (s *MasterDataService) DeletePackingMaterial(ctx context.Context, id string) error {
	return s.repos.PackingMaterial.Delete(ctx, id)
}

// === BOM lines ===

func (s *MasterDataService) ListBOMLines(ctx context.Context, medicineID, materialKind string) ([]entity.BOMLine, error) {
	return s.repos.BOM.FindByMedicine(ctx, medicineID, materialKind)
}

func (s *MasterDataService) CreateBOMLine(ctx context.Context, line *entity.BOMLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()[:32]
	}
	if err := s.repos.BOM.Create(ctx, line); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.KindMedicine, line.MedicineID)
	return nil
}

func (s *MasterDataService) UpdateBOMLine(ctx context.Context, line *entity.BOMLine) error {
	if err := s.repos.BOM.Update(ctx, line); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.KindMedicine, line.MedicineID)
	return nil
}

func (s *MasterDataService) DeleteBOMLine(ctx context.Context, id string) error {
	line, err := s.repos.BOM.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repos.BOM.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.KindMedicine, line.MedicineID)
	return nil
}
