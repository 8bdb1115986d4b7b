package handler

import (
	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// MedicineHandler medicine master and BOM endpoints
type MedicineHandler struct {
	svc *service.MasterDataService
}

func NewMedicineHandler(svc *service.MasterDataService) *MedicineHandler {
	return &MedicineHandler{svc: svc}
}

// List medicines
// GET /api/v1/medicines?search=xxx
func (h *MedicineHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search": c.Query("search"),
	}

	items, total, err := h.svc.ListMedicines(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	ListOK(c, items, page, pageSize, total)
}

// Get medicine detail
// GET /api/v1/medicines/:id
func (h *MedicineHandler) Get(c *gin.Context) {
	medicine, err := h.svc.GetMedicine(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, medicine)
}

// Create medicine
// POST /api/v1/medicines
func (h *MedicineHandler) Create(c *gin.Context) {
	var medicine entity.Medicine
	if err := c.ShouldBindJSON(&medicine); err != nil {
		BindError(c, err)
		return
	}
	medicine.CreatedBy = GetUserID(c)

	if err := h.svc.CreateMedicine(c.Request.Context(), &medicine); err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	Created(c, medicine)
}

// Update medicine
// PUT /api/v1/medicines/:id
func (h *MedicineHandler) Update(c *gin.Context) {
	existing, err := h.svc.GetMedicine(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}

	if err := c.ShouldBindJSON(existing); err != nil {
		BindError(c, err)
		return
	}
	existing.ID = c.Param("id")

	if err := h.svc.UpdateMedicine(c.Request.Context(), existing); err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, existing)
}

// Delete medicine together with its BOM lines
// DELETE /api/v1/medicines/:id
func (h *MedicineHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteMedicine(c.Request.Context(), c.Param("id")); err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, nil)
}

// === BOM ===

// ListBOM lists a medicine's BOM lines
// GET /api/v1/medicines/:id/bom?material_kind=RM
func (h *MedicineHandler) ListBOM(c *gin.Context) {
	lines, err := h.svc.ListBOMLines(c.Request.Context(), c.Param("id"), c.Query("material_kind"))
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, lines)
}

// CreateBOMLine adds a BOM line to a medicine
// POST /api/v1/medicines/:id/bom
func (h *MedicineHandler) CreateBOMLine(c *gin.Context) {
	var line entity.BOMLine
	if err := c.ShouldBindJSON(&line); err != nil {
		BindError(c, err)
		return
	}
	line.MedicineID = c.Param("id")

	if err := h.svc.CreateBOMLine(c.Request.Context(), &line); err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	Created(c, line)
}

// UpdateBOMLine updates one BOM line
// PUT /api/v1/medicines/:id/bom/:lineId
func (h *MedicineHandler) UpdateBOMLine(c *gin.Context) {
	var line entity.BOMLine
	if err := c.ShouldBindJSON(&line); err != nil {
		BindError(c, err)
		return
	}
	line.ID = c.Param("lineId")
	line.MedicineID = c.Param("id")

	if err := h.svc.UpdateBOMLine(c.Request.Context(), &line); err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, line)
}

// DeleteBOMLine removes one BOM line
// DELETE /api/v1/medicines/:id/bom/:lineId
func (h *MedicineHandler) DeleteBOMLine(c *gin.Context) {
	if err := h.svc.DeleteBOMLine(c.Request.Context(), c.Param("lineId")); err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, nil)
}
