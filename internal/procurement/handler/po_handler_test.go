package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/cache"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/repository"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/service"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/testutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupProcurementTest(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	masterCache := cache.NewMasterCache(nil, 0, zap.NewNop())
	services := service.NewServices(repos, db, masterCache, nil, nil, nil, zap.NewNop())
	h := NewHandlers(services)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")

	pis := api.Group("/proforma-invoices")
	pis.POST("", h.Proforma.Create)
	pis.POST("/:id/approve", h.Proforma.Approve)
	pis.POST("/:id/reject", h.Proforma.Reject)

	eopas := api.Group("/eopas")
	eopas.GET("", h.EOPA.List)
	eopas.POST("/:id/approve", h.EOPA.Approve)
	eopas.DELETE("/:id", h.EOPA.Delete)

	pos := api.Group("/purchase-orders")
	pos.GET("/:id", h.PO.Get)
	pos.POST("/generate", h.PO.Generate)
	pos.POST("/submit-group", h.PO.SubmitGroup)
	pos.DELETE("/:id", h.PO.Delete)
	pos.DELETE("/:id/items/:itemId", h.PO.DeleteLineItem)
	pos.POST("/:id/submit-for-approval", h.PO.Submit)
	pos.POST("/:id/approve", h.PO.Approve)
	pos.POST("/:id/reject", h.PO.Reject)
	pos.POST("/:id/mark-ready", h.PO.MarkReady)

	invoices := api.Group("/invoices")
	invoices.GET("/prefill", h.Invoice.Prefill)
	invoices.POST("", h.Invoice.Create)
	invoices.PUT("/:id", h.Invoice.Update)
	invoices.POST("/:id/process", h.Invoice.Process)

	return db, router
}

// seedProcurementMasters creates two raw-material vendors, a manufacturer, a
// medicine and a two-line RM BOM. Returns the medicine ID and the two RM
// vendor IDs in BOM order.
func seedProcurementMasters(t *testing.T, db *gorm.DB) (medicineID, vendorA, vendorB string) {
	t.Helper()

	mfg := testutil.SeedVendor(t, db, "ven-flow-mfg", "VEN-MFG", "Flow Pharma Mfg")
	va := testutil.SeedVendor(t, db, "ven-flow-rm-a", "VEN-RMA", "API Supplier A")
	vb := testutil.SeedVendor(t, db, "ven-flow-rm-b", "VEN-RMB", "Excipient Supplier B")

	medicine := &entity.Medicine{
		ID:                   "med-flow-001",
		Code:                 "MED-F001",
		Name:                 "Amoxicillin 250mg",
		Unit:                 "capsules",
		HSNCode:              "3004",
		GSTRate:              12,
		ManufacturerVendorID: &mfg.ID,
	}
	if err := db.Create(medicine).Error; err != nil {
		t.Fatalf("Failed to seed medicine: %v", err)
	}

	api := &entity.RawMaterial{
		ID: "rm-flow-api", Code: "RM-API", Name: "Amoxicillin Trihydrate",
		Unit: "kg", GSTRate: 18, DefaultVendorID: &va.ID,
	}
	excipient := &entity.RawMaterial{
		ID: "rm-flow-exc", Code: "RM-EXC", Name: "Magnesium Stearate",
		Unit: "kg", GSTRate: 18, DefaultVendorID: &vb.ID,
	}
	if err := db.Create(api).Error; err != nil {
		t.Fatalf("Failed to seed raw material: %v", err)
	}
	if err := db.Create(excipient).Error; err != nil {
		t.Fatalf("Failed to seed raw material: %v", err)
	}

	bomLines := []*entity.BOMLine{
		{ID: "bom-flow-001", MedicineID: medicine.ID, MaterialKind: entity.MaterialKindRM,
			RawMaterialID: &api.ID, QtyRequiredPerUnit: 0.25, Unit: "kg"},
		{ID: "bom-flow-002", MedicineID: medicine.ID, MaterialKind: entity.MaterialKindRM,
			RawMaterialID: &excipient.ID, QtyRequiredPerUnit: 0.1, Unit: "kg"},
	}
	for _, line := range bomLines {
		if err := db.Create(line).Error; err != nil {
			t.Fatalf("Failed to seed BOM line: %v", err)
		}
	}

	return medicine.ID, va.ID, vb.ID
}

// approvedEOPA walks PI creation → PI approval → EOPA approval and returns
// the approved EOPA's ID.
func approvedEOPA(t *testing.T, router *gin.Engine, token, medicineID string, quantity float64) string {
	t.Helper()

	body := map[string]interface{}{
		"customer_name": "Medico Distributors",
		"items": []map[string]interface{}{
			{"medicine_id": medicineID, "quantity": quantity, "quoted_unit_price": 5.5},
		},
	}
	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/proforma-invoices", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating PI, got %d: %s", w.Code, w.Body.String())
	}
	piID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(router, http.MethodPost, "/api/v1/proforma-invoices/"+piID+"/approve", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 approving PI, got %d: %s", w.Code, w.Body.String())
	}

	eopaID := pendingEOPA(t, router, token)

	w = testutil.DoRequest(router, http.MethodPost, "/api/v1/eopas/"+eopaID+"/approve", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 approving EOPA, got %d: %s", w.Code, w.Body.String())
	}
	return eopaID
}

// pendingEOPA returns the ID of a PENDING EOPA from the list endpoint.
func pendingEOPA(t *testing.T, router *gin.Engine, token string) string {
	t.Helper()

	w := testutil.DoRequest(router, http.MethodGet, "/api/v1/eopas?status=PENDING", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 listing EOPAs, got %d: %s", w.Code, w.Body.String())
	}
	items := testutil.ParseResponse(w)["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) == 0 {
		t.Fatal("expected a pending EOPA")
	}
	return items[0].(map[string]interface{})["id"].(string)
}

// submitGroup generates RM POs for the EOPA and submits the vendor group at
// the given index, returning the new PO's ID.
func submitGroup(t *testing.T, router *gin.Engine, token, eopaID string, index int, rate float64) string {
	t.Helper()

	w := testutil.DoRequest(router, http.MethodPost,
		"/api/v1/purchase-orders/generate?eopa_id="+eopaID+"&po_type=RM", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 generating, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	groups := data["groups"].([]interface{})
	if len(groups) <= index {
		t.Fatalf("expected more than %d vendor groups, got %d", index, len(groups))
	}
	group := groups[index].(map[string]interface{})

	var items []map[string]interface{}
	for _, raw := range group["items"].([]interface{}) {
		item := raw.(map[string]interface{})
		items = append(items, map[string]interface{}{
			"raw_material_id":  item["raw_material_id"],
			"item_name":        item["item_name"],
			"item_code":        item["item_code"],
			"unit":             item["unit"],
			"gst_rate":         item["gst_rate"],
			"ordered_quantity": item["ordered_quantity"],
			"rate":             rate,
		})
	}
	body := map[string]interface{}{
		"eopa_id":   eopaID,
		"po_type":   "RM",
		"vendor_id": group["vendor_id"],
		"mode":      "create",
		"items":     items,
	}
	w = testutil.DoRequest(router, http.MethodPost, "/api/v1/purchase-orders/submit-group", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 submitting group, got %d: %s", w.Code, w.Body.String())
	}
	return testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)
}

// TestPOGenerationGroupsByVendor tests the PI → EOPA → explosion → vendor
// grouping path: two BOM lines with different default vendors yield two
// create-mode groups, and a submitted group reconciles to update mode on the
// next run.
func TestPOGenerationGroupsByVendor(t *testing.T) {
	db, router := setupProcurementTest(t)
	token := testutil.DefaultTestToken()

	medicineID, vendorA, vendorB := seedProcurementMasters(t, db)
	eopaID := approvedEOPA(t, router, token, medicineID, 1000)

	w := testutil.DoRequest(router, http.MethodPost,
		"/api/v1/purchase-orders/generate?eopa_id="+eopaID+"&po_type=RM", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	groups := data["groups"].([]interface{})
	if len(groups) != 2 {
		t.Fatalf("expected 2 vendor groups, got %d", len(groups))
	}

	first := groups[0].(map[string]interface{})
	second := groups[1].(map[string]interface{})
	if first["vendor_id"] != vendorA || second["vendor_id"] != vendorB {
		t.Fatalf("groups out of BOM order: %v, %v", first["vendor_id"], second["vendor_id"])
	}
	if first["mode"] != "create" {
		t.Fatalf("expected create mode, got %v", first["mode"])
	}
	// 1000 units × 0.25 kg/unit
	qty := first["items"].([]interface{})[0].(map[string]interface{})["ordered_quantity"].(float64)
	if qty != 250 {
		t.Fatalf("expected exploded quantity 250, got %v", qty)
	}

	// Submit the first group, then regenerate: that vendor's group must come
	// back as an update against the persisted draft instead of a duplicate.
	poID := submitGroup(t, router, token, eopaID, 0, 120)

	w = testutil.DoRequest(router, http.MethodPost,
		"/api/v1/purchase-orders/generate?eopa_id="+eopaID+"&po_type=RM", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 regenerating, got %d: %s", w.Code, w.Body.String())
	}
	regen := testutil.ParseResponse(w)["data"].(map[string]interface{})["groups"].([]interface{})
	refirst := regen[0].(map[string]interface{})
	if refirst["mode"] != "update" {
		t.Fatalf("expected update mode after submission, got %v", refirst["mode"])
	}
	if refirst["po_id"] != poID {
		t.Fatalf("expected reconciliation against PO %s, got %v", poID, refirst["po_id"])
	}

	// Generating against an unapproved EOPA is rejected.
	w = testutil.DoRequest(router, http.MethodPost,
		"/api/v1/purchase-orders/generate?eopa_id=no-such-eopa&po_type=RM", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown EOPA, got %d: %s", w.Code, w.Body.String())
	}
}

// TestPOLifecycle tests the approval chain and its guards: draft POs submit
// and approve (gaining a final number), rejection requires remarks, and
// approved POs can no longer be deleted.
func TestPOLifecycle(t *testing.T) {
	db, router := setupProcurementTest(t)
	token := testutil.DefaultTestToken()

	medicineID, _, _ := seedProcurementMasters(t, db)
	eopaID := approvedEOPA(t, router, token, medicineID, 1000)
	poID := submitGroup(t, router, token, eopaID, 0, 120)

	// Draft has no final number yet.
	w := testutil.DoRequest(router, http.MethodGet, "/api/v1/purchase-orders/"+poID, nil, token)
	po := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if po["status"] != "DRAFT" || po["po_number"] != "" {
		t.Fatalf("expected numberless DRAFT, got %v %v", po["status"], po["po_number"])
	}

	// Approving a draft directly skips PENDING_APPROVAL and must fail.
	w = testutil.DoRequest(router, http.MethodPost, "/api/v1/purchase-orders/"+poID+"/approve", nil, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 approving a draft, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, http.MethodPost, "/api/v1/purchase-orders/"+poID+"/submit-for-approval", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 submitting, got %d: %s", w.Code, w.Body.String())
	}

	// Rejection without remarks is refused.
	w = testutil.DoRequest(router, http.MethodPost, "/api/v1/purchase-orders/"+poID+"/reject",
		map[string]interface{}{"remarks": "  "}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 rejecting without remarks, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, http.MethodPost, "/api/v1/purchase-orders/"+poID+"/approve", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 approving, got %d: %s", w.Code, w.Body.String())
	}
	po = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if po["status"] != "APPROVED" {
		t.Fatalf("expected APPROVED, got %v", po["status"])
	}
	number, _ := po["po_number"].(string)
	if len(number) == 0 {
		t.Fatal("approval must assign the final PO number")
	}

	// Approved POs are locked against deletion.
	w = testutil.DoRequest(router, http.MethodDelete, "/api/v1/purchase-orders/"+poID, nil, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 deleting approved PO, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, http.MethodPost, "/api/v1/purchase-orders/"+poID+"/mark-ready", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 marking ready, got %d: %s", w.Code, w.Body.String())
	}

	// The spawning EOPA is now referenced and cannot be deleted.
	w = testutil.DoRequest(router, http.MethodDelete, "/api/v1/eopas/"+eopaID, nil, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 deleting referenced EOPA, got %d: %s", w.Code, w.Body.String())
	}
}

// TestInvoiceFulfillment tests invoice entry against an approved PO: partial
// shipment moves the PO to PARTIAL, completing it moves it to CLOSED, and
// shipping beyond the ordered quantity is refused.
func TestInvoiceFulfillment(t *testing.T) {
	db, router := setupProcurementTest(t)
	token := testutil.DefaultTestToken()

	medicineID, _, _ := seedProcurementMasters(t, db)
	eopaID := approvedEOPA(t, router, token, medicineID, 1000)
	poID := submitGroup(t, router, token, eopaID, 0, 120)

	// Invoicing a DRAFT PO is refused.
	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/invoices", map[string]interface{}{
		"invoice_number": "INV-EARLY",
		"po_id":          poID,
		"items":          []map[string]interface{}{},
	}, token)
	if w.Code == http.StatusCreated {
		t.Fatal("invoicing a draft PO should fail")
	}

	testutil.DoRequest(router, http.MethodPost, "/api/v1/purchase-orders/"+poID+"/submit-for-approval", nil, token)
	w = testutil.DoRequest(router, http.MethodPost, "/api/v1/purchase-orders/"+poID+"/approve", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 approving, got %d: %s", w.Code, w.Body.String())
	}

	// The single line carries 250 kg ordered (1000 × 0.25).
	w = testutil.DoRequest(router, http.MethodGet, "/api/v1/invoices/prefill?po_id="+poID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 prefilling, got %d: %s", w.Code, w.Body.String())
	}
	prefill := testutil.ParseResponse(w)["data"].([]interface{})
	if len(prefill) != 1 {
		t.Fatalf("expected 1 prefill line, got %d", len(prefill))
	}
	lineID := prefill[0].(map[string]interface{})["po_line_item_id"].(string)

	ship := func(invoiceNumber string, qty float64) *entity.Invoice {
		w := testutil.DoRequest(router, http.MethodPost, "/api/v1/invoices", map[string]interface{}{
			"invoice_number": invoiceNumber,
			"po_id":          poID,
			"items": []map[string]interface{}{
				{"po_line_item_id": lineID, "shipped_quantity": qty, "unit_price": 120, "batch_number": "B-" + invoiceNumber},
			},
		}, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201 creating invoice %s, got %d: %s", invoiceNumber, w.Code, w.Body.String())
		}
		id := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

		w = testutil.DoRequest(router, http.MethodPost, "/api/v1/invoices/"+id+"/process", nil, token)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 processing invoice %s, got %d: %s", invoiceNumber, w.Code, w.Body.String())
		}

		var invoice entity.Invoice
		db.Where("id = ?", id).First(&invoice)
		return &invoice
	}

	invoice := ship("INV-001", 100)
	if invoice.Status != entity.InvoiceStatusProcessed {
		t.Fatalf("expected PROCESSED invoice, got %s", invoice.Status)
	}

	w = testutil.DoRequest(router, http.MethodGet, "/api/v1/purchase-orders/"+poID, nil, token)
	po := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if po["fulfillment_status"] != "PARTIAL" {
		t.Fatalf("expected PARTIAL after 100/250, got %v", po["fulfillment_status"])
	}
	if po["fulfilled_total"].(float64) != 100 {
		t.Fatalf("expected fulfilled total 100, got %v", po["fulfilled_total"])
	}

	// Over-shipment beyond the 150 remaining is refused.
	w = testutil.DoRequest(router, http.MethodPost, "/api/v1/invoices", map[string]interface{}{
		"invoice_number": "INV-OVER",
		"po_id":          poID,
		"items": []map[string]interface{}{
			{"po_line_item_id": lineID, "shipped_quantity": 200, "unit_price": 120},
		},
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for over-fulfillment, got %d: %s", w.Code, w.Body.String())
	}

	ship("INV-002", 150)
	w = testutil.DoRequest(router, http.MethodGet, "/api/v1/purchase-orders/"+poID, nil, token)
	po = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if po["fulfillment_status"] != "CLOSED" {
		t.Fatalf("expected CLOSED after full shipment, got %v", po["fulfillment_status"])
	}
}

// TestPIRejectRequiresRemarks tests the PI rejection guard and that an
// approved PI cannot be re-approved into duplicate EOPAs.
func TestPIRejectRequiresRemarks(t *testing.T) {
	db, router := setupProcurementTest(t)
	token := testutil.DefaultTestToken()

	medicineID, _, _ := seedProcurementMasters(t, db)

	body := map[string]interface{}{
		"customer_name": "Medico Distributors",
		"items": []map[string]interface{}{
			{"medicine_id": medicineID, "quantity": 500, "quoted_unit_price": 4.25},
		},
	}
	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/proforma-invoices", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	piID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(router, http.MethodPost, "/api/v1/proforma-invoices/"+piID+"/reject",
		map[string]interface{}{"remarks": ""}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 rejecting without remarks, got %d: %s", w.Code, w.Body.String())
	}

	// Approve twice; the second call must not fan out more EOPAs.
	for i := 0; i < 2; i++ {
		w = testutil.DoRequest(router, http.MethodPost, "/api/v1/proforma-invoices/"+piID+"/approve", nil, token)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 on approval %d, got %d: %s", i+1, w.Code, w.Body.String())
		}
	}

	var count int64
	db.Model(&entity.EOPA{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly 1 EOPA after double approval, got %d", count)
	}
}

// TestSubmitGroupRequiresApprovedEOPA tests that create-mode submission is
// gated on EOPA approval the same way generation is: a PENDING EOPA must not
// spawn a PO.
func TestSubmitGroupRequiresApprovedEOPA(t *testing.T) {
	db, router := setupProcurementTest(t)
	token := testutil.DefaultTestToken()

	medicineID, vendorA, _ := seedProcurementMasters(t, db)

	body := map[string]interface{}{
		"customer_name": "Medico Distributors",
		"items": []map[string]interface{}{
			{"medicine_id": medicineID, "quantity": 1000, "quoted_unit_price": 5.5},
		},
	}
	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/proforma-invoices", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating PI, got %d: %s", w.Code, w.Body.String())
	}
	piID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)
	testutil.DoRequest(router, http.MethodPost, "/api/v1/proforma-invoices/"+piID+"/approve", nil, token)

	// The EOPA exists but is still PENDING.
	eopaID := pendingEOPA(t, router, token)

	submit := map[string]interface{}{
		"eopa_id":   eopaID,
		"po_type":   "RM",
		"vendor_id": vendorA,
		"mode":      "create",
		"items": []map[string]interface{}{
			{"raw_material_id": "rm-flow-api", "item_name": "Amoxicillin Trihydrate",
				"ordered_quantity": 250.0, "rate": 120},
		},
	}
	w = testutil.DoRequest(router, http.MethodPost, "/api/v1/purchase-orders/submit-group", submit, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 submitting against a pending EOPA, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&entity.PurchaseOrder{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no PO to be created, got %d", count)
	}
}

// TestRegeneratedDraftNumbersPerGroup tests that reconciled draft groups keep
// distinct display numbers in group discovery order.
func TestRegeneratedDraftNumbersPerGroup(t *testing.T) {
	db, router := setupProcurementTest(t)
	token := testutil.DefaultTestToken()

	medicineID, _, _ := seedProcurementMasters(t, db)
	eopaID := approvedEOPA(t, router, token, medicineID, 1000)

	submitGroup(t, router, token, eopaID, 0, 120)
	submitGroup(t, router, token, eopaID, 1, 80)

	w := testutil.DoRequest(router, http.MethodPost,
		"/api/v1/purchase-orders/generate?eopa_id="+eopaID+"&po_type=RM", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 regenerating, got %d: %s", w.Code, w.Body.String())
	}
	groups := testutil.ParseResponse(w)["data"].(map[string]interface{})["groups"].([]interface{})
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	first := groups[0].(map[string]interface{})["po_number"].(string)
	second := groups[1].(map[string]interface{})["po_number"].(string)
	if !strings.HasSuffix(first, "/DRAFT/0001") {
		t.Errorf("first group number = %s, want .../DRAFT/0001", first)
	}
	if !strings.HasSuffix(second, "/DRAFT/0002") {
		t.Errorf("second group number = %s, want .../DRAFT/0002", second)
	}
}

// TestInvoiceUpdate tests editing a DRAFT invoice: replaced items are
// re-validated against the PO, fulfillment uses the updated quantities, and a
// processed invoice is immutable.
func TestInvoiceUpdate(t *testing.T) {
	db, router := setupProcurementTest(t)
	token := testutil.DefaultTestToken()

	medicineID, _, _ := seedProcurementMasters(t, db)
	eopaID := approvedEOPA(t, router, token, medicineID, 1000)
	poID := submitGroup(t, router, token, eopaID, 0, 120)

	testutil.DoRequest(router, http.MethodPost, "/api/v1/purchase-orders/"+poID+"/submit-for-approval", nil, token)
	testutil.DoRequest(router, http.MethodPost, "/api/v1/purchase-orders/"+poID+"/approve", nil, token)

	w := testutil.DoRequest(router, http.MethodGet, "/api/v1/invoices/prefill?po_id="+poID, nil, token)
	prefill := testutil.ParseResponse(w)["data"].([]interface{})
	lineID := prefill[0].(map[string]interface{})["po_line_item_id"].(string)

	w = testutil.DoRequest(router, http.MethodPost, "/api/v1/invoices", map[string]interface{}{
		"invoice_number": "INV-EDIT",
		"po_id":          poID,
		"items": []map[string]interface{}{
			{"po_line_item_id": lineID, "shipped_quantity": 100.0, "unit_price": 120, "batch_number": "B-001"},
		},
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	invoiceID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	// Header-only edit keeps the items.
	w = testutil.DoRequest(router, http.MethodPut, "/api/v1/invoices/"+invoiceID,
		map[string]interface{}{"invoice_number": "INV-EDIT-R1"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 updating header, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["invoice_number"] != "INV-EDIT-R1" {
		t.Fatalf("invoice number not updated: %v", data["invoice_number"])
	}
	if len(data["items"].([]interface{})) != 1 {
		t.Fatal("header-only update must keep the items")
	}

	// Replacing items past the line's ordered 250 is refused.
	w = testutil.DoRequest(router, http.MethodPut, "/api/v1/invoices/"+invoiceID, map[string]interface{}{
		"items": []map[string]interface{}{
			{"po_line_item_id": lineID, "shipped_quantity": 300.0, "unit_price": 120},
		},
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for over-fulfillment on update, got %d: %s", w.Code, w.Body.String())
	}

	// Correcting the quantity works; processing applies the corrected amount.
	w = testutil.DoRequest(router, http.MethodPut, "/api/v1/invoices/"+invoiceID, map[string]interface{}{
		"items": []map[string]interface{}{
			{"po_line_item_id": lineID, "shipped_quantity": 120.0, "unit_price": 120, "batch_number": "B-001A"},
		},
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 replacing items, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/process", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 processing, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, http.MethodGet, "/api/v1/purchase-orders/"+poID, nil, token)
	po := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if po["fulfilled_total"].(float64) != 120 {
		t.Fatalf("expected fulfilled total 120, got %v", po["fulfilled_total"])
	}

	// Processed invoices are immutable.
	w = testutil.DoRequest(router, http.MethodPut, "/api/v1/invoices/"+invoiceID,
		map[string]interface{}{"remarks": "late edit"}, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 editing a processed invoice, got %d: %s", w.Code, w.Body.String())
	}

	var invoice entity.Invoice
	db.Where("id = ?", invoiceID).First(&invoice)
	if invoice.Status != entity.InvoiceStatusProcessed {
		t.Fatalf("expected PROCESSED, got %s", invoice.Status)
	}
}

// TestInvoicePrefillMatchesMaterialAcrossPOs tests that prefill carries a
// prior invoice's quantities onto a different PO by matched material, and
// that invoice_id selects the prior invoice explicitly.
func TestInvoicePrefillMatchesMaterialAcrossPOs(t *testing.T) {
	db, router := setupProcurementTest(t)
	token := testutil.DefaultTestToken()

	medicineID, _, _ := seedProcurementMasters(t, db)

	approveAndShip := func(quantity, shipped float64, invoiceNumber, batch string) (poID, invoiceID string) {
		eopaID := approvedEOPA(t, router, token, medicineID, quantity)
		poID = submitGroup(t, router, token, eopaID, 0, 120)
		testutil.DoRequest(router, http.MethodPost, "/api/v1/purchase-orders/"+poID+"/submit-for-approval", nil, token)
		testutil.DoRequest(router, http.MethodPost, "/api/v1/purchase-orders/"+poID+"/approve", nil, token)

		w := testutil.DoRequest(router, http.MethodGet, "/api/v1/invoices/prefill?po_id="+poID, nil, token)
		prefill := testutil.ParseResponse(w)["data"].([]interface{})
		lineID := prefill[0].(map[string]interface{})["po_line_item_id"].(string)

		w = testutil.DoRequest(router, http.MethodPost, "/api/v1/invoices", map[string]interface{}{
			"invoice_number": invoiceNumber,
			"po_id":          poID,
			"items": []map[string]interface{}{
				{"po_line_item_id": lineID, "shipped_quantity": shipped, "unit_price": 118, "batch_number": batch},
			},
		}, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201 creating %s, got %d: %s", invoiceNumber, w.Code, w.Body.String())
		}
		invoiceID = testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)
		w = testutil.DoRequest(router, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/process", nil, token)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 processing %s, got %d: %s", invoiceNumber, w.Code, w.Body.String())
		}
		return poID, invoiceID
	}

	_, firstInvoiceID := approveAndShip(1000, 100, "INV-PRIOR-1", "B-100")
	approveAndShip(800, 150, "INV-PRIOR-2", "B-150")

	// A third PO for the same vendor and material, not yet invoiced.
	eopaID := approvedEOPA(t, router, token, medicineID, 600)
	newPOID := submitGroup(t, router, token, eopaID, 0, 120)
	testutil.DoRequest(router, http.MethodPost, "/api/v1/purchase-orders/"+newPOID+"/submit-for-approval", nil, token)
	testutil.DoRequest(router, http.MethodPost, "/api/v1/purchase-orders/"+newPOID+"/approve", nil, token)

	// Default: the vendor's latest processed invoice, matched by material
	// even though its line IDs belong to another PO.
	w := testutil.DoRequest(router, http.MethodGet, "/api/v1/invoices/prefill?po_id="+newPOID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 prefilling, got %d: %s", w.Code, w.Body.String())
	}
	prefill := testutil.ParseResponse(w)["data"].([]interface{})
	line := prefill[0].(map[string]interface{})
	if line["shipped_quantity"].(float64) != 150 {
		t.Fatalf("expected carry-over of 150 from the latest invoice, got %v", line["shipped_quantity"])
	}
	if line["batch_number"] != "B-150" {
		t.Fatalf("expected batch B-150, got %v", line["batch_number"])
	}

	// Explicit selection of the earlier invoice.
	w = testutil.DoRequest(router, http.MethodGet,
		"/api/v1/invoices/prefill?po_id="+newPOID+"&invoice_id="+firstInvoiceID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 prefilling by invoice_id, got %d: %s", w.Code, w.Body.String())
	}
	prefill = testutil.ParseResponse(w)["data"].([]interface{})
	line = prefill[0].(map[string]interface{})
	if line["shipped_quantity"].(float64) != 100 || line["batch_number"] != "B-100" {
		t.Fatalf("expected the selected invoice's 100/B-100, got %v/%v",
			line["shipped_quantity"], line["batch_number"])
	}
}

// TestPODeleteLineItem tests explicit per-line deletion from a draft PO and
// the header-total recompute that follows.
func TestPODeleteLineItem(t *testing.T) {
	db, router := setupProcurementTest(t)
	token := testutil.DefaultTestToken()

	medicineID, vendorA, _ := seedProcurementMasters(t, db)

	// A second material for vendor A so its group carries two lines.
	extra := &entity.RawMaterial{
		ID: "rm-flow-extra", Code: "RM-EXTRA", Name: "Clavulanate Potassium",
		Unit: "kg", GSTRate: 18, DefaultVendorID: &vendorA,
	}
	if err := db.Create(extra).Error; err != nil {
		t.Fatalf("Failed to seed raw material: %v", err)
	}
	line := &entity.BOMLine{
		ID: "bom-flow-extra", MedicineID: medicineID, MaterialKind: entity.MaterialKindRM,
		RawMaterialID: &extra.ID, QtyRequiredPerUnit: 0.05, Unit: "kg",
	}
	if err := db.Create(line).Error; err != nil {
		t.Fatalf("Failed to seed BOM line: %v", err)
	}

	eopaID := approvedEOPA(t, router, token, medicineID, 1000)
	poID := submitGroup(t, router, token, eopaID, 0, 120)

	w := testutil.DoRequest(router, http.MethodGet, "/api/v1/purchase-orders/"+poID, nil, token)
	po := testutil.ParseResponse(w)["data"].(map[string]interface{})
	items := po["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(items))
	}
	// 1000 × 0.25 + 1000 × 0.05
	if po["ordered_total"].(float64) != 300 {
		t.Fatalf("expected ordered total 300, got %v", po["ordered_total"])
	}
	secondItemID := items[1].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(router, http.MethodDelete,
		"/api/v1/purchase-orders/"+poID+"/items/"+secondItemID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 deleting line item, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, http.MethodGet, "/api/v1/purchase-orders/"+poID, nil, token)
	po = testutil.ParseResponse(w)["data"].(map[string]interface{})
	items = po["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 line item after deletion, got %d", len(items))
	}
	if po["ordered_total"].(float64) != 250 {
		t.Fatalf("expected recomputed ordered total 250, got %v", po["ordered_total"])
	}

	// A line from another PO's namespace cannot be deleted through this PO.
	w = testutil.DoRequest(router, http.MethodDelete,
		"/api/v1/purchase-orders/"+poID+"/items/no-such-item", nil, token)
	if w.Code == http.StatusOK {
		t.Fatal("deleting an unknown line item should fail")
	}

	// Items are locked once the PO leaves the editable statuses.
	testutil.DoRequest(router, http.MethodPost, "/api/v1/purchase-orders/"+poID+"/submit-for-approval", nil, token)
	testutil.DoRequest(router, http.MethodPost, "/api/v1/purchase-orders/"+poID+"/approve", nil, token)
	remainingID := items[0].(map[string]interface{})["id"].(string)
	w = testutil.DoRequest(router, http.MethodDelete,
		"/api/v1/purchase-orders/"+poID+"/items/"+remainingID, nil, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 deleting from an approved PO, got %d: %s", w.Code, w.Body.String())
	}
}
