package models

// Product represents a product entity in the catalog.
type Product struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// SeedProducts are the rows inserted when the products table is first created.
func SeedProducts() []Product {
	return []Product{
		{Name: "Laptop", Price: 1200.00},
		{Name: "Smartphone", Price: 800.00},
		{Name: "Tablet", Price: 400.00},
	}
}
