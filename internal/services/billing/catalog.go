package billing

import "courselab_backend/internal/models"

// CatalogItem is a server-side price. Amounts are never accepted from the
// client, checkout always resolves prices here.
type CatalogItem struct {
	Purpose     models.PaymentPurpose
	PackageType models.PackageType
	Amount      int64 // minor units
	Description string
}

var packageCatalog = map[models.PackageType]CatalogItem{
	models.PackageTypeIndividual: {
		Purpose:     models.PaymentPurposePackage,
		PackageType: models.PackageTypeIndividual,
		Amount:      29900,
		Description: "Individual package",
	},
	models.PackageTypeBusiness: {
		Purpose:     models.PaymentPurposePackage,
		PackageType: models.PackageTypeBusiness,
		Amount:      99900,
		Description: "Business package",
	},
}

var staffSeatItem = CatalogItem{
	Purpose:     models.PaymentPurposeStaffSeat,
	PackageType: models.PackageTypeBusiness,
	Amount:      19900,
	Description: "Staff seat",
}

// PackageItem resolves the catalog entry for a package type.
func PackageItem(packageType models.PackageType) (CatalogItem, bool) {
	item, ok := packageCatalog[packageType]
	return item, ok
}

// StaffSeatItem returns the seat price.
func StaffSeatItem() CatalogItem {
	return staffSeatItem
}
