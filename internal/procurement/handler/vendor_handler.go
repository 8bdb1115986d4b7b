package handler

import (
	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// VendorHandler vendor master endpoints
type VendorHandler struct {
	svc *service.MasterDataService
}

func NewVendorHandler(svc *service.MasterDataService) *VendorHandler {
	return &VendorHandler{svc: svc}
}

// List vendors
// GET /api/v1/vendors?status=xxx&search=xxx
func (h *VendorHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status": c.Query("status"),
		"search": c.Query("search"),
	}

	items, total, err := h.svc.ListVendors(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	ListOK(c, items, page, pageSize, total)
}

// Get vendor detail
// GET /api/v1/vendors/:id
func (h *VendorHandler) Get(c *gin.Context) {
	vendor, err := h.svc.GetVendor(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, vendor)
}

// Create vendor
// POST /api/v1/vendors
func (h *VendorHandler) Create(c *gin.Context) {
	var vendor entity.Vendor
	if err := c.ShouldBindJSON(&vendor); err != nil {
		BindError(c, err)
		return
	}
	vendor.CreatedBy = GetUserID(c)

	if err := h.svc.CreateVendor(c.Request.Context(), &vendor); err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	Created(c, vendor)
}

// Update vendor
// PUT /api/v1/vendors/:id
func (h *VendorHandler) Update(c *gin.Context) {
	existing, err := h.svc.GetVendor(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err, CodeDB)
		return
	}

	if err := c.ShouldBindJSON(existing); err != nil {
		BindError(c, err)
		return
	}
	existing.ID = c.Param("id")

	if err := h.svc.UpdateVendor(c.Request.Context(), existing); err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, existing)
}

// Delete vendor; refused while purchase orders reference it
// DELETE /api/v1/vendors/:id
func (h *VendorHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteVendor(c.Request.Context(), c.Param("id")); err != nil {
		HandleError(c, err, CodeDB)
		return
	}
	OK(c, nil)
}
