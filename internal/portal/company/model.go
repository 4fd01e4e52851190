package company

import "errors"

var (
	// ErrProductNotFound indicates a mint against an unknown product.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidProduct indicates product input failing validation.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrInvalidCustomer indicates a mint without a customer address.
	ErrInvalidCustomer = errors.New("customer address is required")
)

// Product is an item the company sells with warranty coverage.
type Product struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	Price            float64 `json:"price"`
	WarrantyPeriod   int     `json:"warrantyPeriod"`
	Stock            int     `json:"stock"`
	MintedWarranties int     `json:"mintedWarranties"`
}

// WarrantyStatus is the state of an issued warranty.
type WarrantyStatus string

const (
	WarrantyActive  WarrantyStatus = "active"
	WarrantyExpired WarrantyStatus = "expired"
	WarrantyClaimed WarrantyStatus = "claimed"
)

// Warranty is a warranty the company issued to a customer.
type Warranty struct {
	ID              string         `json:"id"`
	ProductID       string         `json:"productId"`
	ProductName     string         `json:"productName"`
	CustomerAddress string         `json:"customerAddress"`
	IssueDate       string         `json:"issueDate"`
	ExpiryDate      string         `json:"expiryDate"`
	Status          WarrantyStatus `json:"status"`
	TokenID         string         `json:"tokenId,omitempty"`
	TxHash          string         `json:"txHash,omitempty"`
}

// Stats summarises the company catalogue.
type Stats struct {
	TotalProducts    int     `json:"totalProducts"`
	ActiveWarranties int     `json:"activeWarranties"`
	TotalStock       int     `json:"totalStock"`
	InventoryValue   float64 `json:"inventoryValue"`
	MintedWarranties int     `json:"mintedWarranties"`
}

// ProductInput captures the fields of a new product.
type ProductInput struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	Price          float64 `json:"price"`
	WarrantyPeriod int     `json:"warrantyPeriod"`
	Stock          int     `json:"stock"`
}

func seedProducts() []Product {
	return []Product{
		{ID: "1", Name: "Smartphone X1", Description: "Latest smartphone with advanced features", Category: "Electronics", Price: 999.99, WarrantyPeriod: 24, Stock: 150, MintedWarranties: 89},
		{ID: "2", Name: "Laptop Pro", Description: "Professional laptop for heavy workloads", Category: "Electronics", Price: 1499.99, WarrantyPeriod: 36, Stock: 75, MintedWarranties: 45},
		{ID: "3", Name: "Wireless Headphones", Description: "Premium noise-canceling headphones", Category: "Audio", Price: 299.99, WarrantyPeriod: 12, Stock: 200, MintedWarranties: 156},
	}
}

func seedWarranties() []Warranty {
	return []Warranty{
		{ID: "w1", ProductID: "1", ProductName: "Smartphone X1", CustomerAddress: "0x1234...5678", IssueDate: "2024-01-15", ExpiryDate: "2026-01-15", Status: WarrantyActive},
		{ID: "w2", ProductID: "2", ProductName: "Laptop Pro", CustomerAddress: "0x8765...4321", IssueDate: "2024-02-01", ExpiryDate: "2027-02-01", Status: WarrantyActive},
	}
}
