package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/repository"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// Handlers procurement handler collection
type Handlers struct {
	Vendor   *VendorHandler
	Medicine *MedicineHandler
	Material *MaterialHandler
	Proforma *ProformaHandler
	EOPA     *EOPAHandler
	PO       *POHandler
	Invoice  *InvoiceHandler
	Report   *ReportHandler
}

// NewHandlers wires the handler collection
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Vendor:   NewVendorHandler(services.Master),
		Medicine: NewMedicineHandler(services.Master),
		Material: NewMaterialHandler(services.Master),
		Proforma: NewProformaHandler(services.Proforma),
		EOPA:     NewEOPAHandler(services.EOPA),
		PO:       NewPOHandler(services.PO, services.Generation),
		Invoice:  NewInvoiceHandler(services.Invoice),
		Report:   NewReportHandler(services.Report),
	}
}

// === response envelope ===

// Error codes carried in the response envelope
const (
	CodeAuthFailed     = "ERR_AUTH_FAILED"
	CodeForbidden      = "ERR_FORBIDDEN"
	CodeVendorMismatch = "ERR_VENDOR_MISMATCH"
	CodeValidation     = "ERR_VALIDATION"
	CodeNotFound       = "ERR_NOT_FOUND"
	CodeDB             = "ERR_DB"
	CodePOGeneration   = "ERR_PO_GENERATION"
	CodeEOPACreation   = "ERR_EOPA_CREATION"
	CodePIValidation   = "ERR_PI_VALIDATION"
	CodeServer         = "ERR_SERVER"
)

type Response struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data,omitempty"`
	Message   string       `json:"message,omitempty"`
	ErrorCode string       `json:"error_code,omitempty"`
	Errors    []FieldError `json:"errors,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func Fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, Response{Success: false, ErrorCode: code, Message: message})
}

// BindError reports request binding failures as validation errors
func BindError(c *gin.Context, err error) {
	Fail(c, http.StatusBadRequest, CodeValidation, "invalid request: "+err.Error())
}

// HandleError maps domain errors onto envelope codes; unmatched errors fall
// back to the given code with HTTP 500.
func HandleError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		Fail(c, http.StatusNotFound, CodeNotFound, "resource not found")
	case errors.Is(err, service.ErrVendorMismatch):
		Fail(c, http.StatusConflict, CodeVendorMismatch, err.Error())
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrDeleteLocked),
		errors.Is(err, service.ErrNotEditable),
		errors.Is(err, service.ErrEOPAReferenced),
		errors.Is(err, service.ErrVendorReferenced):
		Fail(c, http.StatusConflict, CodeValidation, err.Error())
	case errors.Is(err, service.ErrRemarksRequired),
		errors.Is(err, service.ErrOverFulfillment),
		errors.Is(err, service.ErrVendorEmailMissing):
		Fail(c, http.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, service.ErrEOPANotApproved):
		Fail(c, http.StatusConflict, CodePOGeneration, err.Error())
	default:
		Fail(c, http.StatusInternalServerError, fallback, err.Error())
	}
}

// ListOK wraps paged results in the list envelope
func ListOK(c *gin.Context, items interface{}, page, pageSize int, total int64) {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	OK(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	})
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
