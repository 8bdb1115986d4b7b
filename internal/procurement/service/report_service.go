package service

import (
	"context"
	"fmt"
	"time"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/repository"
	"github.com/xuri/excelize/v2"
)

// ReportService xlsx exports for the procurement registers
type ReportService struct {
	repos *repository.Repositories
}

func NewReportService(repos *repository.Repositories) *ReportService {
	return &ReportService{repos: repos}
}

var poRegisterHeaders = []string{
	"PO Number", "Type", "Status", "Fulfillment", "Vendor", "EOPA",
	"Total Amount", "Currency", "Created", "Approved", "Sent",
}

// ExportPORegister exports the purchase order register as xlsx
func (s *ReportService) ExportPORegister(ctx context.Context, filters map[string]string) (*excelize.File, string, error) {
	pos, _, err := s.repos.PO.FindAll(ctx, 1, 10000, filters)
	if err != nil {
		return nil, "", fmt.Errorf("list purchase orders: %w", err)
	}

	f := excelize.NewFile()
	sheet := "PO Register"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range poRegisterHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, po := range pos {
		row := rowIdx + 2
		number := po.PONumber
		if number == "" {
			number = "(draft)"
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), number)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), po.POType)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), po.Status)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), po.FulfillmentStatus)
		if po.Vendor != nil {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), po.Vendor.Name)
		}
		if po.EOPA != nil {
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), po.EOPA.EOPACode)
		}
		amount, _ := po.TotalAmount.Float64()
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), amount)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), po.Currency)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), po.CreatedAt.Format("2006-01-02"))
		if po.ApprovedAt != nil {
			f.SetCellValue(sheet, fmt.Sprintf("J%d", row), po.ApprovedAt.Format("2006-01-02"))
		}
		if po.SentAt != nil {
			f.SetCellValue(sheet, fmt.Sprintf("K%d", row), po.SentAt.Format("2006-01-02"))
		}
	}

	for i := range poRegisterHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 18)
	}

	filename := fmt.Sprintf("po_register_%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}

var materialTrackingHeaders = []string{
	"PO Number", "Status", "Vendor", "Item", "Code", "Unit",
	"Ordered", "Fulfilled", "Pending", "Fulfillment",
}

// ExportMaterialTracking exports per-line ordered vs fulfilled quantities
// across all non-draft purchase orders of one material type.
func (s *ReportService) ExportMaterialTracking(ctx context.Context, poType string) (*excelize.File, string, error) {
	filters := map[string]string{}
	if poType != "" {
		filters["po_type"] = poType
	}
	pos, _, err := s.repos.PO.FindAll(ctx, 1, 10000, filters)
	if err != nil {
		return nil, "", fmt.Errorf("list purchase orders: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Material Tracking"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range materialTrackingHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	row := 1
	for _, header := range pos {
		if header.Status == entity.POStatusDraft || header.Status == entity.POStatusRejected {
			continue
		}
		po, err := s.repos.PO.FindByID(ctx, header.ID)
		if err != nil {
			return nil, "", err
		}
		for _, item := range po.Items {
			row++
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), po.PONumber)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), po.Status)
			if po.Vendor != nil {
				f.SetCellValue(sheet, fmt.Sprintf("C%d", row), po.Vendor.Name)
			}
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.ItemName)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), item.ItemCode)
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), item.Unit)
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), item.OrderedQuantity)
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), item.FulfilledQuantity)
			f.SetCellValue(sheet, fmt.Sprintf("I%d", row), item.OrderedQuantity-item.FulfilledQuantity)
			f.SetCellValue(sheet, fmt.Sprintf("J%d", row), entity.DeriveFulfillmentStatus(item.OrderedQuantity, item.FulfilledQuantity))
		}
	}

	for i := range materialTrackingHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 16)
	}

	filename := fmt.Sprintf("material_tracking_%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}
