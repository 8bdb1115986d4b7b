package handler

import (
	"github.com/RatishMoondra/pharma-backend/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// EOPAHandler estimate-of-purchase-approval endpoints
type EOPAHandler struct {
	svc *service.EOPAService
}

func NewEOPAHandler(svc *service.EOPAService) *EOPAHandler {
	return &EOPAHandler{svc: svc}
}

// List EOPAs
// GET /api/v1/eopas?status=xxx&medicine_id=xxx&search=xxx
func (h *EOPAHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":      c.Query("status"),
		"medicine_id": c.Query("medicine_id"),
		"search":      c.Query("search"),
	}

	items, total, err := h.svc.ListEOPAs(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	ListOK(c, items, page, pageSize, total)
}

// Get EOPA detail
// GET /api/v1/eopas/:id
func (h *EOPAHandler) Get(c *gin.Context) {
	eopa, err := h.svc.GetEOPA(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, eopa)
}

// Approve a pending EOPA, unlocking PO generation
// POST /api/v1/eopas/:id/approve
func (h *EOPAHandler) Approve(c *gin.Context) {
	eopa, err := h.svc.ApproveEOPA(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		HandleError(c, err, CodeEOPACreation)
		return
	}
	OK(c, eopa)
}

// Reject a pending EOPA; remarks are mandatory
// POST /api/v1/eopas/:id/reject
func (h *EOPAHandler) Reject(c *gin.Context) {
	var req struct {
		Remarks string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	eopa, err := h.svc.RejectEOPA(c.Request.Context(), c.Param("id"), GetUserID(c), req.Remarks)
	if err != nil {
		HandleError(c, err, CodeEOPACreation)
		return
	}
	OK(c, eopa)
}

// Delete an EOPA; refused while purchase orders reference it
// DELETE /api/v1/eopas/:id
func (h *EOPAHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteEOPA(c.Request.Context(), c.Param("id")); err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, nil)
}
