package handler

import (
	"fmt"
	"net/http"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// ReportHandler xlsx report endpoints
type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PORegister exports the purchase order register
// GET /api/v1/reports/po-register?status=xxx&po_type=xxx
func (h *ReportHandler) PORegister(c *gin.Context) {
	filters := map[string]string{
		"status":    c.Query("status"),
		"po_type":   c.Query("po_type"),
		"vendor_id": c.Query("vendor_id"),
	}

	f, filename, err := h.svc.ExportPORegister(c.Request.Context(), filters)
	if err != nil {
		HandleError(c, err, CodeServer)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", xlsxContentType)
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

// MaterialTracking exports ordered vs fulfilled quantities per line
// GET /api/v1/reports/material-tracking?po_type=RM
func (h *ReportHandler) MaterialTracking(c *gin.Context) {
	f, filename, err := h.svc.ExportMaterialTracking(c.Request.Context(), c.Query("po_type"))
	if err != nil {
		HandleError(c, err, CodeServer)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}
