package handler

import (
	"net/http"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler vendor invoice and fulfillment endpoints
type InvoiceHandler struct {
	svc *service.InvoiceService
}

func NewInvoiceHandler(svc *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{svc: svc}
}

// List invoices
// GET /api/v1/invoices?po_id=xxx&vendor_id=xxx&status=xxx&search=xxx
func (h *InvoiceHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"po_id":     c.Query("po_id"),
		"vendor_id": c.Query("vendor_id"),
		"status":    c.Query("status"),
		"search":    c.Query("search"),
	}

	items, total, err := h.svc.ListInvoices(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	ListOK(c, items, page, pageSize, total)
}

// Get invoice detail
// GET /api/v1/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, err := h.svc.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, invoice)
}

// Create records a vendor invoice against a PO as DRAFT
// POST /api/v1/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	invoice, err := h.svc.CreateInvoice(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	Created(c, invoice)
}

// Update edits a draft invoice header and optionally replaces its items
// PUT /api/v1/invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	var req service.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	invoice, err := h.svc.UpdateInvoice(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, invoice)
}

// Process applies a draft invoice's quantities to the PO's fulfillment
// POST /api/v1/invoices/:id/process
func (h *InvoiceHandler) Process(c *gin.Context) {
	invoice, err := h.svc.ProcessInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, invoice)
}

// Delete removes an invoice, reversing its fulfillment if processed
// DELETE /api/v1/invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteInvoice(c.Request.Context(), c.Param("id")); err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, nil)
}

// Prefill builds entry lines for a PO from a prior invoice (the vendor's
// latest processed one unless invoice_id selects another)
// GET /api/v1/invoices/prefill?po_id=xxx&invoice_id=xxx
func (h *InvoiceHandler) Prefill(c *gin.Context) {
	poID := c.Query("po_id")
	if poID == "" {
		Fail(c, http.StatusBadRequest, CodeValidation, "po_id is required")
		return
	}

	items, err := h.svc.PrefillFromPrior(c.Request.Context(), poID, c.Query("invoice_id"))
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, items)
}
