package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// POHandler purchase order lifecycle and generation endpoints
type POHandler struct {
	svc *service.POService
	gen *service.GenerationService
}

func NewPOHandler(svc *service.POService, gen *service.GenerationService) *POHandler {
	return &POHandler{svc: svc, gen: gen}
}

// List purchase orders
// GET /api/v1/purchase-orders?vendor_id=xxx&eopa_id=xxx&status=xxx&po_type=xxx&fulfillment_status=xxx&search=xxx
func (h *POHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"vendor_id":          c.Query("vendor_id"),
		"eopa_id":            c.Query("eopa_id"),
		"status":             c.Query("status"),
		"po_type":            c.Query("po_type"),
		"fulfillment_status": c.Query("fulfillment_status"),
		"search":             c.Query("search"),
	}

	items, total, err := h.svc.ListPOs(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	ListOK(c, items, page, pageSize, total)
}

// Get purchase order detail with items
// GET /api/v1/purchase-orders/:id
func (h *POHandler) Get(c *gin.Context) {
	po, err := h.svc.GetPO(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, po)
}

// Update purchase order header while still editable
// PUT /api/v1/purchase-orders/:id
func (h *POHandler) Update(c *gin.Context) {
	var req service.UpdatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	po, err := h.svc.UpdatePO(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, po)
}

// Delete purchase order; allowed only in DRAFT and PENDING_APPROVAL
// DELETE /api/v1/purchase-orders/:id
func (h *POHandler) Delete(c *gin.Context) {
	if err := h.svc.DeletePO(c.Request.Context(), c.Param("id")); err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, nil)
}

// === generation ===

// Generate explodes an approved EOPA into per-vendor draft groups for the
// requested PO type and reconciles against existing drafts.
// POST /api/v1/purchase-orders/generate?eopa_id=xxx&po_type=RM
func (h *POHandler) Generate(c *gin.Context) {
	eopaID := c.Query("eopa_id")
	poType := c.Query("po_type")
	if eopaID == "" || poType == "" {
		Fail(c, http.StatusBadRequest, CodeValidation, "eopa_id and po_type are required")
		return
	}

	result, err := h.gen.GenerateByVendor(c.Request.Context(), eopaID, poType)
	if err != nil {
		HandleError(c, err, CodePOGeneration)
		return
	}
	OK(c, result)
}

// SubmitGroup persists one vendor group from the generation screen
// POST /api/v1/purchase-orders/submit-group
func (h *POHandler) SubmitGroup(c *gin.Context) {
	var req service.SubmitGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	po, err := h.gen.SubmitGroup(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		HandleError(c, err, CodePOGeneration)
		return
	}
	Created(c, po)
}

// DeleteLineItem removes a line from an editable PO
// DELETE /api/v1/purchase-orders/:id/items/:itemId
func (h *POHandler) DeleteLineItem(c *gin.Context) {
	if err := h.gen.DeleteLineItem(c.Request.Context(), c.Param("id"), c.Param("itemId")); err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, nil)
}

// === lifecycle ===

// Submit sends a DRAFT into PENDING_APPROVAL
// POST /api/v1/purchase-orders/:id/submit-for-approval
func (h *POHandler) Submit(c *gin.Context) {
	po, err := h.svc.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err, CodeServer)
		return
	}
	OK(c, po)
}

// Approve approves a pending PO and assigns its final number
// POST /api/v1/purchase-orders/:id/approve
func (h *POHandler) Approve(c *gin.Context) {
	po, err := h.svc.Approve(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		HandleError(c, err, CodeServer)
		return
	}
	OK(c, po)
}

// Reject rejects a PO; remarks are mandatory
// POST /api/v1/purchase-orders/:id/reject
func (h *POHandler) Reject(c *gin.Context) {
	var req struct {
		Remarks string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	po, err := h.svc.Reject(c.Request.Context(), c.Param("id"), GetUserID(c), req.Remarks)
	if err != nil {
		HandleError(c, err, CodeServer)
		return
	}
	OK(c, po)
}

// MarkReady marks an approved PO ready for dispatch
// POST /api/v1/purchase-orders/:id/mark-ready
func (h *POHandler) MarkReady(c *gin.Context) {
	po, err := h.svc.MarkReady(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err, CodeServer)
		return
	}
	OK(c, po)
}

// SendToVendor emails the PO PDF to the vendor and marks it SENT. The status
// only moves when the mail goes out.
// POST /api/v1/purchase-orders/:id/send-to-vendor
func (h *POHandler) SendToVendor(c *gin.Context) {
	po, err := h.svc.SendToVendor(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err, CodeServer)
		return
	}
	OK(c, po)
}

// === documents ===

// DownloadPDF streams the rendered PO PDF
// GET /api/v1/purchase-orders/:id/pdf
func (h *POHandler) DownloadPDF(c *gin.Context) {
	data, filename, err := h.svc.DownloadPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err, CodeServer)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, strings.ReplaceAll(filename, `"`, "")))
	c.Data(http.StatusOK, "application/pdf", data)
}

// SendEmail re-sends the PO mail for an already SENT order
// POST /api/v1/purchase-orders/:id/send-email
func (h *POHandler) SendEmail(c *gin.Context) {
	if err := h.svc.SendEmail(c.Request.Context(), c.Param("id")); err != nil {
		HandleError(c, err, CodeServer)
		return
	}
	OK(c, gin.H{"sent": true})
}
