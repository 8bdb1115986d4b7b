package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/repository"
	"github.com/RatishMoondra/pharma-backend/internal/shared/mailer"
	"github.com/RatishMoondra/pharma-backend/internal/shared/pdfgen"
	"github.com/RatishMoondra/pharma-backend/internal/shared/storage"
	"go.uber.org/zap"
)

// POService purchase order lifecycle and queries
type POService struct {
	repos  *repository.Repositories
	pdf    *pdfgen.Generator
	mailer *mailer.Mailer
	store  *storage.ObjectStore
	logger *zap.Logger
}

func NewPOService(
	repos *repository.Repositories,
	pdf *pdfgen.Generator,
	mail *mailer.Mailer,
	store *storage.ObjectStore,
	logger *zap.Logger,
) *POService {
	return &POService{repos: repos, pdf: pdf, mailer: mail, store: store, logger: logger}
}

// ListPOs lists purchase orders
func (s *POService) ListPOs(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	return s.repos.PO.FindAll(ctx, page, pageSize, filters)
}

// GetPO gets PO detail
func (s *POService) GetPO(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return s.repos.PO.FindByID(ctx, id)
}

// UpdatePORequest header fields editable outside the generation dialog
type UpdatePORequest struct {
	Remarks *string `json:"remarks"`
}

// UpdatePO updates header fields on an editable PO
func (s *POService) UpdatePO(ctx context.Context, id string, req *UpdatePORequest) (*entity.PurchaseOrder, error) {
	po, err := s.repos.PO.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Status != entity.POStatusDraft && po.Status != entity.POStatusPendingApproval {
		return nil, ErrNotEditable
	}
	if req.Remarks != nil {
		po.Remarks = *req.Remarks
	}
	if err := s.repos.PO.Update(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// DeletePO deletes a PO while its status still allows it
func (s *POService) DeletePO(ctx context.Context, id string) error {
	po, err := s.repos.PO.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !CanDelete(po.Status) {
		return ErrDeleteLocked
	}
	return s.repos.PO.Delete(ctx, id)
}

// Submit DRAFT → PENDING_APPROVAL
func (s *POService) Submit(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return s.advance(ctx, id, ActionSubmit, func(po *entity.PurchaseOrder) error { return nil })
}

// Approve PENDING_APPROVAL → APPROVED; assigns the final PO number. Role
// enforcement happens at the route level.
func (s *POService) Approve(ctx context.Context, id, userID string) (*entity.PurchaseOrder, error) {
	return s.advance(ctx, id, ActionApprove, func(po *entity.PurchaseOrder) error {
		number, err := s.repos.PO.GenerateNumber(ctx, po.POType)
		if err != nil {
			return fmt.Errorf("assigning PO number: %w", err)
		}
		now := time.Now()
		po.PONumber = number
		po.ApprovedBy = &userID
		po.ApprovedAt = &now
		return nil
	})
}

// Reject PENDING_APPROVAL/APPROVED → REJECTED; remarks are mandatory
func (s *POService) Reject(ctx context.Context, id, userID, remarks string) (*entity.PurchaseOrder, error) {
	if strings.TrimSpace(remarks) == "" {
		return nil, ErrRemarksRequired
	}
	return s.advance(ctx, id, ActionReject, func(po *entity.PurchaseOrder) error {
		po.Remarks = remarks
		return nil
	})
}

// MarkReady APPROVED → READY
func (s *POService) MarkReady(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return s.advance(ctx, id, ActionMarkReady, func(po *entity.PurchaseOrder) error { return nil })
}

// SendToVendor READY → SENT. Renders the PO PDF, archives it in object
// storage and emails it to the vendor. A vendor without an email on file
// fails the transition; the status is only advanced after the mail goes out.
func (s *POService) SendToVendor(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return s.advance(ctx, id, ActionSendToVendor, func(po *entity.PurchaseOrder) error {
		if po.Vendor == nil || strings.TrimSpace(po.Vendor.Email) == "" {
			return ErrVendorEmailMissing
		}

		pdf, err := s.renderPDF(ctx, po)
		if err != nil {
			return fmt.Errorf("rendering PO PDF: %w", err)
		}

		if s.store != nil {
			key := fmt.Sprintf("purchase-orders/%s.pdf", po.ID)
			if err := s.store.Put(ctx, key, pdf, "application/pdf"); err != nil {
				// Archival failure is not fatal for dispatch.
				s.logger.Warn("failed to archive PO PDF", zap.String("po_id", po.ID), zap.Error(err))
			}
		}

		subject := fmt.Sprintf("Purchase Order %s", po.PONumber)
		body := fmt.Sprintf("Dear %s,\n\nPlease find attached purchase order %s.\n\nRegards,\nProcurement Team",
			po.Vendor.Name, po.PONumber)
		filename := fmt.Sprintf("%s.pdf", strings.ReplaceAll(po.PONumber, "/", "-"))
		if err := s.mailer.SendWithAttachment(po.Vendor.Email, subject, body, filename, pdf); err != nil {
			return fmt.Errorf("emailing vendor: %w", err)
		}

		now := time.Now()
		po.SentAt = &now
		return nil
	})
}

// DownloadPDF renders the PO document for client download
func (s *POService) DownloadPDF(ctx context.Context, id string) ([]byte, string, error) {
	po, err := s.repos.PO.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.renderPDF(ctx, po)
	if err != nil {
		return nil, "", err
	}
	name := po.PONumber
	if name == "" {
		name = po.ID
	}
	return pdf, strings.ReplaceAll(name, "/", "-") + ".pdf", nil
}

// SendEmail re-sends the PO mail for an already SENT order
func (s *POService) SendEmail(ctx context.Context, id string) error {
	po, err := s.repos.PO.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if po.Status != entity.POStatusSent {
		return ErrInvalidTransition
	}
	if po.Vendor == nil || strings.TrimSpace(po.Vendor.Email) == "" {
		return ErrVendorEmailMissing
	}
	pdf, err := s.renderPDF(ctx, po)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Purchase Order %s", po.PONumber)
	body := fmt.Sprintf("Dear %s,\n\nPlease find attached purchase order %s.\n\nRegards,\nProcurement Team",
		po.Vendor.Name, po.PONumber)
	filename := strings.ReplaceAll(po.PONumber, "/", "-") + ".pdf"
	return s.mailer.SendWithAttachment(po.Vendor.Email, subject, body, filename, pdf)
}

// advance loads the PO, validates the transition, runs the side effect and
// persists the new status. A failing side effect leaves the status
// untouched.
func (s *POService) advance(ctx context.Context, id, action string, sideEffect func(*entity.PurchaseOrder) error) (*entity.PurchaseOrder, error) {
	po, err := s.repos.PO.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := NextStatus(action, po.Status)
	if err != nil {
		return nil, err
	}

	if err := sideEffect(po); err != nil {
		return nil, err
	}

	prev := po.Status
	po.Status = next
	if err := s.repos.PO.Update(ctx, po); err != nil {
		return nil, err
	}

	s.logger.Info("PO transition",
		zap.String("po_id", po.ID),
		zap.String("action", action),
		zap.String("from", prev),
		zap.String("to", next))

	return po, nil
}

func (s *POService) renderPDF(ctx context.Context, po *entity.PurchaseOrder) ([]byte, error) {
	if s.pdf == nil {
		return nil, fmt.Errorf("PDF generation is not configured")
	}
	return s.pdf.PurchaseOrderPDF(ctx, po)
}
