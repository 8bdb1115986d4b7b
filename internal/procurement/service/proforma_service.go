package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProformaService proforma invoice workflow; approval fans out EOPAs
type ProformaService struct {
	repos  *repository.Repositories
	db     *gorm.DB
	logger *zap.Logger
}

func NewProformaService(repos *repository.Repositories, db *gorm.DB, logger *zap.Logger) *ProformaService {
	return &ProformaService{repos: repos, db: db, logger: logger}
}

// ListPIs lists proforma invoices
func (s *ProformaService) ListPIs(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.ProformaInvoice, int64, error) {
	return s.repos.PI.FindAll(ctx, page, pageSize, filters)
}

// GetPI gets PI detail
func (s *ProformaService) GetPI(ctx context.Context, id string) (*entity.ProformaInvoice, error) {
	return s.repos.PI.FindByID(ctx, id)
}

// CreatePIRequest new proforma invoice
type CreatePIRequest struct {
	CustomerName string     `json:"customer_name" binding:"required"`
	PIDate       *time.Time `json:"pi_date"`
	Remarks      string     `json:"remarks"`

	Items []CreatePIItem `json:"items" binding:"required"`
}

type CreatePIItem struct {
	MedicineID      string          `json:"medicine_id" binding:"required"`
	Quantity        float64         `json:"quantity" binding:"required"`
	QuotedUnitPrice decimal.Decimal `json:"quoted_unit_price"`
}

// CreatePI creates a DRAFT proforma invoice with items
func (s *ProformaService) CreatePI(ctx context.Context, userID string, req *CreatePIRequest) (*entity.ProformaInvoice, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("proforma invoice needs at least one item")
	}

	code, err := s.repos.PI.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generating PI code: %w", err)
	}

	pi := &entity.ProformaInvoice{
		ID:           uuid.New().String()[:32],
		PICode:       code,
		Status:       entity.PIStatusDraft,
		CustomerName: req.CustomerName,
		PIDate:       req.PIDate,
		CreatedBy:    userID,
		Remarks:      req.Remarks,
	}

	for i, item := range req.Items {
		pi.Items = append(pi.Items, entity.PIItem{
			ID:              uuid.New().String()[:32],
			PIID:            pi.ID,
			MedicineID:      item.MedicineID,
			Quantity:        item.Quantity,
			QuotedUnitPrice: item.QuotedUnitPrice,
			SortOrder:       i + 1,
		})
	}

	if err := s.repos.PI.Create(ctx, pi); err != nil {
		return nil, err
	}
	return s.repos.PI.FindByID(ctx, pi.ID)
}

// UpdatePIRequest editable header fields while DRAFT/PENDING
type UpdatePIRequest struct {
	CustomerName *string    `json:"customer_name"`
	PIDate       *time.Time `json:"pi_date"`
	Remarks      *string    `json:"remarks"`
}

// UpdatePI updates a proforma invoice header
func (s *ProformaService) UpdatePI(ctx context.Context, id string, req *UpdatePIRequest) (*entity.ProformaInvoice, error) {
	pi, err := s.repos.PI.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pi.Status == entity.PIStatusApproved {
		return nil, ErrNotEditable
	}

	if req.CustomerName != nil {
		pi.CustomerName = *req.CustomerName
	}
	if req.PIDate != nil {
		pi.PIDate = req.PIDate
	}
	if req.Remarks != nil {
		pi.Remarks = *req.Remarks
	}

	if err := s.repos.PI.Update(ctx, pi); err != nil {
		return nil, err
	}
	return pi, nil
}

// ApprovePI approves a proforma invoice and creates one PENDING EOPA per PI
// line item in a single transaction. Items that already spawned an EOPA are
// skipped, so re-approval cannot duplicate.
func (s *ProformaService) ApprovePI(ctx context.Context, id, userID string) (*entity.ProformaInvoice, error) {
	pi, err := s.repos.PI.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pi.Status == entity.PIStatusApproved {
		return pi, nil
	}

	var eopas []*entity.EOPA
	for _, item := range pi.Items {
		existing, err := s.repos.EOPA.FindByPIItem(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}
		eopas = append(eopas, &entity.EOPA{
			ID:                 uuid.New().String()[:32],
			Status:             entity.EOPAStatusPending,
			PIItemID:           item.ID,
			MedicineID:         item.MedicineID,
			Quantity:           item.Quantity,
			EstimatedUnitPrice: item.QuotedUnitPrice,
			CreatedBy:          userID,
		})
	}

	codes, err := s.repos.EOPA.GenerateCodes(ctx, len(eopas))
	if err != nil {
		return nil, fmt.Errorf("generating EOPA codes: %w", err)
	}
	for i := range eopas {
		eopas[i].EOPACode = codes[i]
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, eopa := range eopas {
			if err := tx.Create(eopa).Error; err != nil {
				return fmt.Errorf("creating EOPA for PI item %s: %w", eopa.PIItemID, err)
			}
		}
		return tx.Model(&entity.ProformaInvoice{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":      entity.PIStatusApproved,
				"approved_by": userID,
				"approved_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("PI approved",
		zap.String("pi_id", id),
		zap.Int("eopas_created", len(eopas)))

	return s.repos.PI.FindByID(ctx, id)
}

// RejectPI rejects a proforma invoice; remarks mandatory
func (s *ProformaService) RejectPI(ctx context.Context, id, userID, remarks string) (*entity.ProformaInvoice, error) {
	if strings.TrimSpace(remarks) == "" {
		return nil, ErrRemarksRequired
	}
	pi, err := s.repos.PI.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pi.Status == entity.PIStatusApproved {
		return nil, ErrNotEditable
	}

	pi.Status = entity.PIStatusRejected
	pi.Remarks = remarks
	if err := s.repos.PI.Update(ctx, pi); err != nil {
		return nil, err
	}
	return pi, nil
}

// DeletePI deletes a non-approved proforma invoice
func (s *ProformaService) DeletePI(ctx context.Context, id string) error {
	pi, err := s.repos.PI.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if pi.Status == entity.PIStatusApproved {
		return ErrNotEditable
	}
	return s.repos.PI.Delete(ctx, id)
}
