package servicecenter

import (
	"errors"

	"github.com/venkateshn67/warranty-verification/internal/blockchain"
)

var (
	ErrRequestNotFound    = errors.New("service request not found")
	ErrExtensionNotFound  = errors.New("extension request not found")
	ErrInvalidRequest     = errors.New("invalid service request")
	ErrInvalidExtension   = errors.New("invalid extension request")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrTokenRequired      = errors.New("token id is required")
	ErrVerificationFailed = errors.New("warranty could not be verified")
)

const dateLayout = "2006-01-02"

// Request is a repair request handled by the service center. ChainID is
// the id the blockchain registry assigned when the request was recorded.
type Request struct {
	ID              string                   `json:"id"`
	CustomerName    string                   `json:"customerName"`
	ProductName     string                   `json:"productName"`
	WarrantyTokenID string                   `json:"warrantyTokenId"`
	Issue           string                   `json:"issue"`
	RequestDate     string                   `json:"requestDate"`
	Status          blockchain.RequestStatus `json:"status"`
	Priority        blockchain.Priority      `json:"priority"`
	ChainID         string                   `json:"chainId"`
	TxHash          string                   `json:"txHash,omitempty"`
}

// RequestInput captures a new repair request.
type RequestInput struct {
	CustomerName    string              `json:"customerName"`
	CustomerAddress string              `json:"customerAddress"`
	ProductName     string              `json:"productName"`
	WarrantyTokenID string              `json:"warrantyTokenId"`
	Issue           string              `json:"issue"`
	Priority        blockchain.Priority `json:"priority"`
}

// Verification is the outcome of checking a warranty token.
type Verification struct {
	ID               string `json:"id"`
	TokenID          string `json:"tokenId"`
	CustomerAddress  string `json:"customerAddress"`
	ProductName      string `json:"productName"`
	CompanyName      string `json:"companyName"`
	ExpiryDate       string `json:"expiryDate"`
	IsValid          bool   `json:"isValid"`
	VerificationDate string `json:"verificationDate"`
}

// ExtensionStatus is the decision state of an extension request.
type ExtensionStatus string

const (
	ExtensionPending  ExtensionStatus = "pending"
	ExtensionApproved ExtensionStatus = "approved"
	ExtensionRejected ExtensionStatus = "rejected"
)

// Extension asks for a warranty's coverage to be extended.
type Extension struct {
	ID                 string          `json:"id"`
	CustomerName       string          `json:"customerName"`
	ProductName        string          `json:"productName"`
	CurrentExpiry      string          `json:"currentExpiry"`
	RequestedExtension string          `json:"requestedExtension"`
	Reason             string          `json:"reason"`
	Status             ExtensionStatus `json:"status"`
	RequestDate        string          `json:"requestDate"`
}

// ExtensionInput captures a new extension request.
type ExtensionInput struct {
	CustomerName       string `json:"customerName"`
	ProductName        string `json:"productName"`
	CurrentExpiry      string `json:"currentExpiry"`
	RequestedExtension string `json:"requestedExtension"`
	Reason             string `json:"reason"`
}

// Stats summarises the service center's workload.
type Stats struct {
	PendingRequests    int `json:"pendingRequests"`
	InProgressRequests int `json:"inProgressRequests"`
	Verifications      int `json:"verifications"`
	PendingExtensions  int `json:"pendingExtensions"`
}

// requestTransitions lists the statuses each request status may move to.
var requestTransitions = map[blockchain.RequestStatus][]blockchain.RequestStatus{
	blockchain.RequestPending:    {blockchain.RequestInProgress, blockchain.RequestCancelled},
	blockchain.RequestInProgress: {blockchain.RequestCompleted, blockchain.RequestCancelled},
}

func canTransition(from, to blockchain.RequestStatus) bool {
	for _, next := range requestTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func seedRequests() []Request {
	return []Request{
		{ID: "sr1", CustomerName: "John Doe", ProductName: "Smartphone X1", WarrantyTokenID: "NFT#001", Issue: "Screen not responding to touch", RequestDate: "2024-02-01", Status: blockchain.RequestInProgress, Priority: blockchain.PriorityHigh, ChainID: "sr1"},
		{ID: "sr2", CustomerName: "Jane Smith", ProductName: "Laptop Pro", WarrantyTokenID: "NFT#002", Issue: "Battery not charging", RequestDate: "2024-01-28", Status: blockchain.RequestPending, Priority: blockchain.PriorityMedium, ChainID: "sr2"},
	}
}

func seedVerifications() []Verification {
	return []Verification{
		{ID: "v1", TokenID: "NFT#001", CustomerAddress: "0x1234...5678", ProductName: "Smartphone X1", CompanyName: "TechCorp Inc.", ExpiryDate: "2027-01-15", IsValid: true, VerificationDate: "2024-02-01"},
	}
}

func seedExtensions() []Extension {
	return []Extension{
		{ID: "ex1", CustomerName: "Mike Johnson", ProductName: "Smart TV 4K", CurrentExpiry: "2025-06-15", RequestedExtension: "2026-06-15", Reason: "Product in excellent condition, customer wants extended coverage", Status: ExtensionPending, RequestDate: "2024-01-30"},
	}
}
