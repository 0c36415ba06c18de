package schema

// CorePurchaseTable represents the 'core.purchase' table.
// Rows are append-only.
type CorePurchaseTable struct {
	Table        string
	ID           string
	UserID       string
	ProductID    string
	PurchaseDate string
}

// CorePurchase is the schema definition for core.purchase
var CorePurchase = CorePurchaseTable{
	Table:        "core.purchase",
	ID:           "id",
	UserID:       "userid",
	ProductID:    "productid",
	PurchaseDate: "purchasedate",
}
