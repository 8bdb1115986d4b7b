package service

import (
	"context"
	"fmt"
	"time"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GenerationService drives EOPA → explosion → vendor grouping → draft/real
// reconciliation → submission.
type GenerationService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

func NewGenerationService(repos *repository.Repositories, logger *zap.Logger) *GenerationService {
	return &GenerationService{repos: repos, logger: logger}
}

// Group modes
const (
	GroupModeCreate = "create"
	GroupModeUpdate = "update"
)

// GenerationItem one editable line presented to the client. ID is empty for
// generated (not yet persisted) lines and set for lines loaded from an
// existing draft.
type GenerationItem struct {
	ID string `json:"id,omitempty"`

	MedicineID        *string `json:"medicine_id,omitempty"`
	RawMaterialID     *string `json:"raw_material_id,omitempty"`
	PackingMaterialID *string `json:"packing_material_id,omitempty"`

	ItemName string  `json:"item_name"`
	ItemCode string  `json:"item_code"`
	Unit     string  `json:"unit"`
	HSNCode  string  `json:"hsn_code"`
	GSTRate  float64 `json:"gst_rate"`

	OrderedQuantity   float64         `json:"ordered_quantity"`
	FulfilledQuantity float64         `json:"fulfilled_quantity"`
	Rate              decimal.Decimal `json:"rate"`
	Remarks           string          `json:"remarks,omitempty"`
}

// GenerationGroup one vendor's draft, either fresh (create) or reconciled
// against an existing DRAFT PO (update).
type GenerationGroup struct {
	Mode       string `json:"mode"` // create/update
	POID       string `json:"po_id,omitempty"`
	PONumber   string `json:"po_number"` // draft placeholder or persisted number
	VendorID   string `json:"vendor_id"`
	VendorName string `json:"vendor_name"`

	Items []GenerationItem `json:"items"`
}

// GenerationResult all vendor groups for one EOPA+type plus explosion
// warnings.
type GenerationResult struct {
	EOPAID   string            `json:"eopa_id"`
	POType   string            `json:"po_type"`
	Groups   []GenerationGroup `json:"groups"`
	Warnings []string          `json:"warnings,omitempty"`
}

// GenerateByVendor explodes an approved EOPA for the given PO type, groups
// demand by vendor and reconciles each group against any existing DRAFT PO
// for the same EOPA+vendor+type. Re-opening generation never duplicates an
// in-progress draft: an existing draft's persisted items are returned
// verbatim so user edits (rates, quantities) survive re-explosion.
func (s *GenerationService) GenerateByVendor(ctx context.Context, eopaID, poType string) (*GenerationResult, error) {
	eopa, err := s.repos.EOPA.FindByID(ctx, eopaID)
	if err != nil {
		return nil, err
	}
	if eopa.Status != entity.EOPAStatusApproved {
		return nil, ErrEOPANotApproved
	}
	if eopa.Medicine == nil {
		return nil, fmt.Errorf("EOPA %s has no medicine loaded", eopaID)
	}

	var bomLines []entity.BOMLine
	if poType == entity.POTypeRM || poType == entity.POTypePM {
		kind := entity.MaterialKindRM
		if poType == entity.POTypePM {
			kind = entity.MaterialKindPM
		}
		bomLines, err = s.repos.BOM.FindByMedicine(ctx, eopa.MedicineID, kind)
		if err != nil {
			return nil, fmt.Errorf("loading BOM lines: %w", err)
		}
	}

	explosion := Explode(eopa, eopa.Medicine, bomLines, poType)
	for _, w := range explosion.Warnings {
		s.logger.Warn("explosion line skipped",
			zap.String("eopa_id", eopaID),
			zap.String("po_type", poType),
			zap.String("reason", w))
	}

	groups := GroupByVendor(explosion.Lines, poType, time.Now())

	result := &GenerationResult{
		EOPAID:   eopaID,
		POType:   poType,
		Warnings: explosion.Warnings,
	}

	for i, group := range groups {
		vendor, err := s.repos.Vendor.FindByID(ctx, group.VendorID)
		if err != nil {
			return nil, fmt.Errorf("resolving vendor %s: %w", group.VendorID, err)
		}

		draft, err := s.repos.PO.FindDraft(ctx, eopaID, group.VendorID, poType)
		if err != nil {
			return nil, fmt.Errorf("checking draft for vendor %s: %w", group.VendorID, err)
		}

		if draft != nil {
			// Update path: the draft may already carry user edits; generated
			// lines are discarded in favor of the persisted ones.
			result.Groups = append(result.Groups, GenerationGroup{
				Mode:       GroupModeUpdate,
				POID:       draft.ID,
				PONumber:   displayNumber(draft, i+1),
				VendorID:   vendor.ID,
				VendorName: vendor.Name,
				Items:      itemsFromPO(draft.Items),
			})
			continue
		}

		result.Groups = append(result.Groups, GenerationGroup{
			Mode:       GroupModeCreate,
			PONumber:   group.DraftNumber,
			VendorID:   vendor.ID,
			VendorName: vendor.Name,
			Items:      itemsFromDemand(group.Lines),
		})
	}

	return result, nil
}

// SubmitGroupRequest one vendor group submitted from the generation dialog.
// Each submission is independent; sibling failures do not roll it back.
type SubmitGroupRequest struct {
	EOPAID   string `json:"eopa_id" binding:"required"`
	POType   string `json:"po_type" binding:"required"`
	VendorID string `json:"vendor_id" binding:"required"`
	Mode     string `json:"mode" binding:"required"` // create/update
	POID     string `json:"po_id"`                   // required for update
	Remarks  string `json:"remarks"`

	Items []SubmitGroupItem `json:"items" binding:"required"`
}

type SubmitGroupItem struct {
	ID string `json:"id"` // empty = insert as new line

	MedicineID        *string `json:"medicine_id"`
	RawMaterialID     *string `json:"raw_material_id"`
	PackingMaterialID *string `json:"packing_material_id"`

	ItemName string  `json:"item_name" binding:"required"`
	ItemCode string  `json:"item_code"`
	Unit     string  `json:"unit"`
	HSNCode  string  `json:"hsn_code"`
	GSTRate  float64 `json:"gst_rate"`

	OrderedQuantity float64         `json:"ordered_quantity" binding:"required"`
	Rate            decimal.Decimal `json:"rate"`
	Remarks         string          `json:"remarks"`
}

// SubmitGroup persists one vendor group. Create mode inserts a new DRAFT PO
// with all items; update mode saves the header and upserts the items array
// (existing id = update, empty id = new line). Fulfilled quantities are
// never taken from the request.
func (s *GenerationService) SubmitGroup(ctx context.Context, userID string, req *SubmitGroupRequest) (*entity.PurchaseOrder, error) {
	switch req.Mode {
	case GroupModeCreate:
		return s.submitCreate(ctx, userID, req)
	case GroupModeUpdate:
		return s.submitUpdate(ctx, req)
	default:
		return nil, fmt.Errorf("unknown submission mode %q", req.Mode)
	}
}

func (s *GenerationService) submitCreate(ctx context.Context, userID string, req *SubmitGroupRequest) (*entity.PurchaseOrder, error) {
	// Same gate as the generation read path: only approved EOPAs spawn POs.
	eopa, err := s.repos.EOPA.FindByID(ctx, req.EOPAID)
	if err != nil {
		return nil, err
	}
	if eopa.Status != entity.EOPAStatusApproved {
		return nil, ErrEOPANotApproved
	}

	// Guard against a draft created since the dialog was opened.
	existing, err := s.repos.PO.FindDraft(ctx, req.EOPAID, req.VendorID, req.POType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("a draft PO already exists for this EOPA and vendor")
	}

	po := &entity.PurchaseOrder{
		ID:        uuid.New().String()[:32],
		POType:    req.POType,
		Status:    entity.POStatusDraft,
		EOPAID:    req.EOPAID,
		VendorID:  req.VendorID,
		Currency:  "INR",
		CreatedBy: userID,
		Remarks:   req.Remarks,
	}

	total := decimal.Zero
	var ordered float64
	for i, item := range req.Items {
		line := lineFromSubmit(item, po.ID, i+1)
		po.Items = append(po.Items, *line)
		total = total.Add(line.TotalAmount)
		ordered += line.OrderedQuantity
	}
	po.TotalAmount = total
	po.OrderedTotal = ordered

	if err := s.repos.PO.Create(ctx, po); err != nil {
		return nil, fmt.Errorf("creating PO: %w", err)
	}

	s.logger.Info("draft PO created",
		zap.String("po_id", po.ID),
		zap.String("eopa_id", req.EOPAID),
		zap.String("vendor_id", req.VendorID),
		zap.String("po_type", req.POType),
		zap.Int("lines", len(po.Items)))

	return s.repos.PO.FindByID(ctx, po.ID)
}

func (s *GenerationService) submitUpdate(ctx context.Context, req *SubmitGroupRequest) (*entity.PurchaseOrder, error) {
	if req.POID == "" {
		return nil, fmt.Errorf("po_id is required for update mode")
	}
	po, err := s.repos.PO.FindByID(ctx, req.POID)
	if err != nil {
		return nil, err
	}
	if po.Status != entity.POStatusDraft {
		return nil, ErrNotEditable
	}
	if po.VendorID != req.VendorID {
		return nil, ErrVendorMismatch
	}

	existing := make(map[string]entity.POLineItem, len(po.Items))
	maxSort := 0
	for _, item := range po.Items {
		existing[item.ID] = item
		if item.SortOrder > maxSort {
			maxSort = item.SortOrder
		}
	}

	var items []entity.POLineItem
	for _, sub := range req.Items {
		if sub.ID != "" {
			prev, ok := existing[sub.ID]
			if !ok {
				return nil, fmt.Errorf("line item %s does not belong to PO %s", sub.ID, po.ID)
			}
			prev.OrderedQuantity = sub.OrderedQuantity
			prev.Rate = sub.Rate
			prev.GSTRate = sub.GSTRate
			prev.Remarks = sub.Remarks
			prev.ComputeAmounts()
			items = append(items, prev)
			continue
		}
		maxSort++
		items = append(items, *lineFromSubmit(sub, po.ID, maxSort))
	}

	po.Remarks = req.Remarks
	recomputeHeader(po, items, existing)

	if err := s.repos.PO.SaveWithItems(ctx, po, items); err != nil {
		return nil, fmt.Errorf("saving PO: %w", err)
	}
	return s.repos.PO.FindByID(ctx, po.ID)
}

// DeleteLineItem removes a single line from an editable PO immediately; the
// client mirrors this with eager local removal for unsaved lines.
func (s *GenerationService) DeleteLineItem(ctx context.Context, poID, itemID string) error {
	po, err := s.repos.PO.FindByID(ctx, poID)
	if err != nil {
		return err
	}
	if po.Status != entity.POStatusDraft && po.Status != entity.POStatusPendingApproval {
		return ErrNotEditable
	}

	item, err := s.repos.PO.FindLineItemByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.POID != poID {
		return fmt.Errorf("line item %s does not belong to PO %s", itemID, poID)
	}

	if err := s.repos.PO.DeleteLineItem(ctx, itemID); err != nil {
		return err
	}

	// Recompute header totals from the surviving lines.
	po, err = s.repos.PO.FindByID(ctx, poID)
	if err != nil {
		return err
	}
	total := decimal.Zero
	var ordered, fulfilled float64
	for _, line := range po.Items {
		total = total.Add(line.TotalAmount)
		ordered += line.OrderedQuantity
		fulfilled += line.FulfilledQuantity
	}
	po.TotalAmount = total
	po.OrderedTotal = ordered
	po.FulfilledTotal = fulfilled
	po.FulfillmentStatus = entity.DeriveFulfillmentStatus(ordered, fulfilled)
	return s.repos.PO.Update(ctx, po)
}

// === helpers ===

func displayNumber(po *entity.PurchaseOrder, seq int) string {
	if po.PONumber != "" {
		return po.PONumber
	}
	return entity.DraftPONumber(entity.FiscalYearLabel(po.CreatedAt), po.POType, seq)
}

func itemsFromPO(items []entity.POLineItem) []GenerationItem {
	out := make([]GenerationItem, 0, len(items))
	for _, item := range items {
		out = append(out, GenerationItem{
			ID:                item.ID,
			MedicineID:        item.MedicineID,
			RawMaterialID:     item.RawMaterialID,
			PackingMaterialID: item.PackingMaterialID,
			ItemName:          item.ItemName,
			ItemCode:          item.ItemCode,
			Unit:              item.Unit,
			HSNCode:           item.HSNCode,
			GSTRate:           item.GSTRate,
			OrderedQuantity:   item.OrderedQuantity,
			FulfilledQuantity: item.FulfilledQuantity,
			Rate:              item.Rate,
			Remarks:           item.Remarks,
		})
	}
	return out
}

func itemsFromDemand(lines []DemandLine) []GenerationItem {
	out := make([]GenerationItem, 0, len(lines))
	for _, line := range lines {
		out = append(out, GenerationItem{
			MedicineID:        line.MedicineID,
			RawMaterialID:     line.RawMaterialID,
			PackingMaterialID: line.PackingMaterialID,
			ItemName:          line.ItemName,
			ItemCode:          line.ItemCode,
			Unit:              line.Unit,
			HSNCode:           line.HSNCode,
			GSTRate:           line.GSTRate,
			OrderedQuantity:   line.Quantity,
		})
	}
	return out
}

func lineFromSubmit(sub SubmitGroupItem, poID string, sortOrder int) *entity.POLineItem {
	line := &entity.POLineItem{
		ID:                uuid.New().String()[:32],
		POID:              poID,
		MedicineID:        sub.MedicineID,
		RawMaterialID:     sub.RawMaterialID,
		PackingMaterialID: sub.PackingMaterialID,
		ItemName:          sub.ItemName,
		ItemCode:          sub.ItemCode,
		Unit:              sub.Unit,
		HSNCode:           sub.HSNCode,
		GSTRate:           sub.GSTRate,
		OrderedQuantity:   sub.OrderedQuantity,
		Rate:              sub.Rate,
		SortOrder:         sortOrder,
		Remarks:           sub.Remarks,
	}
	line.ComputeAmounts()
	return line
}

// recomputeHeader refreshes totals from the upserted items plus any
// persisted lines not present in the submission.
func recomputeHeader(po *entity.PurchaseOrder, items []entity.POLineItem, existing map[string]entity.POLineItem) {
	seen := make(map[string]bool, len(items))
	total := decimal.Zero
	var ordered, fulfilled float64

	for _, item := range items {
		seen[item.ID] = true
		total = total.Add(item.TotalAmount)
		ordered += item.OrderedQuantity
		fulfilled += item.FulfilledQuantity
	}
	for id, item := range existing {
		if seen[id] {
			continue
		}
		total = total.Add(item.TotalAmount)
		ordered += item.OrderedQuantity
		fulfilled += item.FulfilledQuantity
	}

	po.TotalAmount = total
	po.OrderedTotal = ordered
	po.FulfilledTotal = fulfilled
	po.FulfillmentStatus = entity.DeriveFulfillmentStatus(ordered, fulfilled)
}
