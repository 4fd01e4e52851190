package seller

import "errors"

var (
	ErrSaleNotFound      = errors.New("sale not found")
	ErrInvalidSale       = errors.New("invalid sale")
	ErrInvalidTransition = errors.New("invalid sale status transition")
)

// SaleStatus is the settlement state of a sale.
type SaleStatus string

const (
	SaleCompleted SaleStatus = "completed"
	SalePending   SaleStatus = "pending"
	SaleCancelled SaleStatus = "cancelled"
)

func (s SaleStatus) valid() bool {
	switch s {
	case SaleCompleted, SalePending, SaleCancelled:
		return true
	}
	return false
}

// Sale is a product sold by the seller.
type Sale struct {
	ID              string     `json:"id"`
	ProductName     string     `json:"productName"`
	CustomerAddress string     `json:"customerAddress"`
	SaleDate        string     `json:"saleDate"`
	Price           float64    `json:"price"`
	Commission      float64    `json:"commission"`
	Status          SaleStatus `json:"status"`
}

// Performance summarises completed sales.
type Performance struct {
	TotalSales      int     `json:"totalSales"`
	TotalRevenue    float64 `json:"totalRevenue"`
	TotalCommission float64 `json:"totalCommission"`
	AverageRating   float64 `json:"averageRating"`
}

// SaleInput captures a new sale.
type SaleInput struct {
	ProductName     string  `json:"productName"`
	CustomerAddress string  `json:"customerAddress"`
	Price           float64 `json:"price"`
}

// averageRating is the seller's customer rating; ratings are not collected.
const averageRating = 4.7

func seedSales() []Sale {
	return []Sale{
		{ID: "s1", ProductName: "Smartphone X1", CustomerAddress: "0x1234...5678", SaleDate: "2024-01-15", Price: 999.99, Commission: 99.99, Status: SaleCompleted},
		{ID: "s2", ProductName: "Laptop Pro", CustomerAddress: "0x8765...4321", SaleDate: "2024-02-01", Price: 1499.99, Commission: 149.99, Status: SaleCompleted},
	}
}
