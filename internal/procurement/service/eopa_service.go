package service

import (
	"context"
	"strings"
	"time"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/repository"
	"go.uber.org/zap"
)

// EOPAService estimated order & price approval workflow
type EOPAService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

func NewEOPAService(repos *repository.Repositories, logger *zap.Logger) *EOPAService {
	return &EOPAService{repos: repos, logger: logger}
}

// ListEOPAs lists EOPAs
func (s *EOPAService) ListEOPAs(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.EOPA, int64, error) {
	return s.repos.EOPA.FindAll(ctx, page, pageSize, filters)
}

// GetEOPA gets EOPA detail
func (s *EOPAService) GetEOPA(ctx context.Context, id string) (*entity.EOPA, error) {
	return s.repos.EOPA.FindByID(ctx, id)
}

// ApproveEOPA PENDING → APPROVED. Once approved the EOPA is immutable for
// generation purposes.
func (s *EOPAService) ApproveEOPA(ctx context.Context, id, userID string) (*entity.EOPA, error) {
	eopa, err := s.repos.EOPA.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if eopa.Status != entity.EOPAStatusPending {
		return nil, ErrNotEditable
	}

	now := time.Now()
	eopa.Status = entity.EOPAStatusApproved
	eopa.ApprovedBy = &userID
	eopa.ApprovedAt = &now

	if err := s.repos.EOPA.Update(ctx, eopa); err != nil {
		return nil, err
	}
	return eopa, nil
}

// RejectEOPA PENDING → REJECTED; remarks mandatory
func (s *EOPAService) RejectEOPA(ctx context.Context, id, userID, remarks string) (*entity.EOPA, error) {
	if strings.TrimSpace(remarks) == "" {
		return nil, ErrRemarksRequired
	}
	eopa, err := s.repos.EOPA.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if eopa.Status != entity.EOPAStatusPending {
		return nil, ErrNotEditable
	}

	eopa.Status = entity.EOPAStatusRejected
	eopa.Remarks = remarks

	if err := s.repos.EOPA.Update(ctx, eopa); err != nil {
		return nil, err
	}
	return eopa, nil
}

// DeleteEOPA deletes an EOPA unless purchase orders were generated from it
func (s *EOPAService) DeleteEOPA(ctx context.Context, id string) error {
	if _, err := s.repos.EOPA.FindByID(ctx, id); err != nil {
		return err
	}

	refs, err := s.repos.EOPA.CountPOReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrEOPAReferenced
	}

	return s.repos.EOPA.Delete(ctx, id)
}
