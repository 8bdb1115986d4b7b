package handler

import (
	"github.com/RatishMoondra/pharma-backend/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// ProformaHandler proforma invoice endpoints
type ProformaHandler struct {
	svc *service.ProformaService
}

func NewProformaHandler(svc *service.ProformaService) *ProformaHandler {
	return &ProformaHandler{svc: svc}
}

// List proforma invoices
// GET /api/v1/proforma-invoices?status=xxx&search=xxx
func (h *ProformaHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status": c.Query("status"),
		"search": c.Query("search"),
	}

	items, total, err := h.svc.ListPIs(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	ListOK(c, items, page, pageSize, total)
}

// Get proforma invoice detail
// GET /api/v1/proforma-invoices/:id
func (h *ProformaHandler) Get(c *gin.Context) {
	pi, err := h.svc.GetPI(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, pi)
}

// Create proforma invoice with items
// POST /api/v1/proforma-invoices
func (h *ProformaHandler) Create(c *gin.Context) {
	var req service.CreatePIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	pi, err := h.svc.CreatePI(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		HandleError(c, err, CodePIValidation)
		return
	}
	Created(c, pi)
}

// Update proforma invoice header
// PUT /api/v1/proforma-invoices/:id
func (h *ProformaHandler) Update(c *gin.Context) {
	var req service.UpdatePIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	pi, err := h.svc.UpdatePI(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err, CodePIValidation)
		return
	}
	OK(c, pi)
}

// Approve a proforma invoice, creating one EOPA per item. Safe to retry:
// items that already have an EOPA are skipped.
// POST /api/v1/proforma-invoices/:id/approve
func (h *ProformaHandler) Approve(c *gin.Context) {
	pi, err := h.svc.ApprovePI(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		HandleError(c, err, CodeEOPACreation)
		return
	}
	OK(c, pi)
}

// Reject a proforma invoice; remarks are mandatory
// POST /api/v1/proforma-invoices/:id/reject
func (h *ProformaHandler) Reject(c *gin.Context) {
	var req struct {
		Remarks string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	pi, err := h.svc.RejectPI(c.Request.Context(), c.Param("id"), GetUserID(c), req.Remarks)
	if err != nil {
		HandleError(c, err, CodePIValidation)
		return
	}
	OK(c, pi)
}

// Delete a proforma invoice; refused once approved
// DELETE /api/v1/proforma-invoices/:id
func (h *ProformaHandler) Delete(c *gin.Context) {
	if err := h.svc.DeletePI(c.Request.Context(), c.Param("id")); err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, nil)
}
