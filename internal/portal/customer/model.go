package customer

import "errors"

var (
	ErrWarrantyNotFound        = errors.New("warranty not found")
	ErrWarrantyNotTransferable = errors.New("warranty is not transferable")
	ErrInvalidDestination      = errors.New("invalid transfer destination")
	ErrInvalidFilter           = errors.New("invalid status filter")
	ErrTokenRequired           = errors.New("token id is required")
)

// WarrantyStatus is the state of a held warranty.
type WarrantyStatus string

const (
	WarrantyActive      WarrantyStatus = "active"
	WarrantyExpired     WarrantyStatus = "expired"
	WarrantyTransferred WarrantyStatus = "transferred"
	WarrantyVoid        WarrantyStatus = "void"
)

func (s WarrantyStatus) valid() bool {
	switch s {
	case WarrantyActive, WarrantyExpired, WarrantyTransferred, WarrantyVoid:
		return true
	}
	return false
}

// Warranty is a warranty held by the customer.
type Warranty struct {
	ID           string         `json:"id"`
	ProductName  string         `json:"productName"`
	CompanyName  string         `json:"companyName"`
	PurchaseDate string         `json:"purchaseDate"`
	ExpiryDate   string         `json:"expiryDate"`
	Status       WarrantyStatus `json:"status"`
	TokenID      string         `json:"tokenId"`
	Coverage     string         `json:"coverage"`
}

// TransferStatus is the state of a token transfer.
type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferCompleted TransferStatus = "completed"
	TransferFailed    TransferStatus = "failed"
)

// TokenTransfer records a warranty token moving between addresses.
type TokenTransfer struct {
	ID      string         `json:"id"`
	From    string         `json:"from"`
	To      string         `json:"to"`
	TokenID string         `json:"tokenId"`
	Date    string         `json:"date"`
	Status  TransferStatus `json:"status"`
	TxHash  string         `json:"txHash,omitempty"`
}

// Stats summarises the customer's warranties and transfers.
type Stats struct {
	TotalWarranties    int `json:"totalWarranties"`
	ActiveWarranties   int `json:"activeWarranties"`
	ExpiredWarranties  int `json:"expiredWarranties"`
	CompletedTransfers int `json:"completedTransfers"`
}

func seedWarranties() []Warranty {
	return []Warranty{
		{ID: "w1", ProductName: "Smartphone X1", CompanyName: "TechCorp Inc.", PurchaseDate: "2024-01-15", ExpiryDate: "2027-01-15", Status: WarrantyActive, TokenID: "NFT#001", Coverage: "3 Years - Parts & Labor"},
		{ID: "w2", ProductName: "Laptop Pro", CompanyName: "Computex Ltd.", PurchaseDate: "2023-12-01", ExpiryDate: "2026-12-01", Status: WarrantyActive, TokenID: "NFT#002", Coverage: "3 Years - Extended Warranty"},
		{ID: "w3", ProductName: "Smart TV 4K", CompanyName: "VisionTech", PurchaseDate: "2023-06-15", ExpiryDate: "2025-06-15", Status: WarrantyExpired, TokenID: "NFT#003", Coverage: "2 Years - Standard"},
	}
}

func seedTransfers() []TokenTransfer {
	return []TokenTransfer{
		{ID: "t1", From: "0x1234...5678", To: "0x8765...4321", TokenID: "NFT#001", Date: "2024-02-01", Status: TransferCompleted},
	}
}
