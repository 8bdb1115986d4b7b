package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories procurement repository collection
type Repositories struct {
	Vendor          *VendorRepository
	Medicine        *MedicineRepository
	RawMaterial     *RawMaterialRepository
	PackingMaterial *PackingMaterialRepository
	BOM             *BOMRepository
	PI              *PIRepository
	EOPA            *EOPARepository
	PO              *PORepository
	Invoice         *InvoiceRepository
}

// NewRepositories creates the procurement repository collection
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Vendor:          NewVendorRepository(db),
		Medicine:        NewMedicineRepository(db),
		RawMaterial:     NewRawMaterialRepository(db),
		PackingMaterial: NewPackingMaterialRepository(db),
		BOM:             NewBOMRepository(db),
		PI:              NewPIRepository(db),
		EOPA:            NewEOPARepository(db),
		PO:              NewPORepository(db),
		Invoice:         NewInvoiceRepository(db),
	}
}
