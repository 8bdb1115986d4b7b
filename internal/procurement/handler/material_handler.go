package handler

import (
	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// MaterialHandler raw and packing material master endpoints
type MaterialHandler struct {
	svc *service.MasterDataService
}

func NewMaterialHandler(svc *service.MasterDataService) *MaterialHandler {
	return &MaterialHandler{svc: svc}
}

// === Raw materials ===

// GET /api/v1/raw-materials?search=xxx
func (h *MaterialHandler) ListRaw(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search": c.Query("search"),
	}

	items, total, err := h.svc.ListRawMaterials(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	ListOK(c, items, page, pageSize, total)
}

// GET /api/v1/raw-materials/:id
func (h *MaterialHandler) GetRaw(c *gin.Context) {
	material, err := h.svc.GetRawMaterial(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, material)
}

// POST /api/v1/raw-materials
func (h *MaterialHandler) CreateRaw(c *gin.Context) {
	var material entity.RawMaterial
	if err := c.ShouldBindJSON(&material); err != nil {
		BindError(c, err)
		return
	}
	material.CreatedBy = GetUserID(c)

	if err := h.svc.CreateRawMaterial(c.Request.Context(), &material); err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	Created(c, material)
}

// PUT /api/v1/raw-materials/:id
func (h *MaterialHandler) UpdateRaw(c *gin.Context) {
	existing, err := h.svc.GetRawMaterial(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}

	if err := c.ShouldBindJSON(existing); err != nil {
		BindError(c, err)
		return
	}
	existing.ID = c.Param("id")

	if err := h.svc.UpdateRawMaterial(c.Request.Context(), existing); err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, existing)
}

// DELETE /api/v1/raw-materials/:id
func (h *MaterialHandler) DeleteRaw(c *gin.Context) {
	if err := h.svc.DeleteRawMaterial(c.Request.Context(), c.Param("id")); err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, nil)
}

// === Packing materials ===

// GET /api/v1/packing-materials?search=xxx
func (h *MaterialHandler) ListPacking(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search": c.Query("search"),
	}

	items, total, err := h.svc.ListPackingMaterials(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	ListOK(c, items, page, pageSize, total)
}

// GET /api/v1/packing-materials/:id
func (h *MaterialHandler) GetPacking(c *gin.Context) {
	material, err := h.svc.GetPackingMaterial(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, material)
}

// POST /api/v1/packing-materials
func (h *MaterialHandler) CreatePacking(c *gin.Context) {
	var material entity.PackingMaterial
	if err := c.ShouldBindJSON(&material); err != nil {
		BindError(c, err)
		return
	}
	material.CreatedBy = GetUserID(c)

	if err := h.svc.CreatePackingMaterial(c.Request.Context(), &material); err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	Created(c, material)
}

// PUT /api/v1/packing-materials/:id
func (h *MaterialHandler) UpdatePacking(c *gin.Context) {
	existing, err := h.svc.GetPackingMaterial(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}

	if err := c.ShouldBindJSON(existing); err != nil {
		BindError(c, err)
		return
	}
	existing.ID = c.Param("id")

	if err := h.svc.UpdatePackingMaterial(c.Request.Context(), existing); err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, existing)
}

// DELETE /api/v1/packing-materials/:id
func (h *MaterialHandler) DeletePacking(c *gin.Context) {
	if err := h.svc.DeletePackingMaterial(c.Request.Context(), c.Param("id")); err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, nil)
}
