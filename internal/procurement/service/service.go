package service

import (
	"errors"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/cache"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/repository"
	"github.com/RatishMoondra/pharma-backend/internal/shared/mailer"
	"github.com/RatishMoondra/pharma-backend/internal/shared/pdfgen"
	"github.com/RatishMoondra/pharma-backend/internal/shared/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Domain errors. Handlers map these onto the API error codes.
var (
	ErrInvalidTransition  = errors.New("invalid purchase order state transition")
	ErrDeleteLocked       = errors.New("purchase order can no longer be deleted")
	ErrRemarksRequired    = errors.New("remarks are required")
	ErrVendorEmailMissing = errors.New("vendor has no email on file")
	ErrEOPANotApproved    = errors.New("EOPA is not approved")
	ErrEOPAReferenced     = errors.New("EOPA is referenced by purchase orders")
	ErrOverFulfillment    = errors.New("shipped quantity exceeds remaining ordered quantity")
	ErrVendorMismatch     = errors.New("purchase order belongs to a different vendor")
	ErrNotEditable        = errors.New("record is not editable in its current status")
)

// Services procurement service collection
type Services struct {
	Master     *MasterDataService
	Proforma   *ProformaService
	EOPA       *EOPAService
	Generation *GenerationService
	PO         *POService
	Invoice    *InvoiceService
	Report     *ReportService
}

// NewServices wires the service collection
func NewServices(
	repos *repository.Repositories,
	db *gorm.DB,
	masterCache *cache.MasterCache,
	pdf *pdfgen.Generator,
	mail *mailer.Mailer,
	store *storage.ObjectStore,
	logger *zap.Logger,
) *Services {
	return &Services{
		Master:     NewMasterDataService(repos, masterCache, logger),
		Proforma:   NewProformaService(repos, db, logger),
		EOPA:       NewEOPAService(repos, logger),
		Generation: NewGenerationService(repos, logger),
		PO:         NewPOService(repos, pdf, mail, store, logger),
		Invoice:    NewInvoiceService(repos, logger),
		Report:     NewReportService(repos),
	}
}
