package schema

// CoreProductTable represents the 'core.product' table
type CoreProductTable struct {
	Table string
	ID    string
	Name  string
	Price string
}

// CoreProduct is the schema definition for core.product
var CoreProduct = CoreProductTable{
	Table: "core.product",
	ID:    "id",
	Name:  "name",
	Price: "price",
}
