package blockchain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLookupFailed wraps any failure to read facts from the chain source.
	ErrLookupFailed = errors.New("chain lookup failed")
	// ErrInvalidRequest indicates a write request is missing required fields.
	ErrInvalidRequest = errors.New("invalid chain request")
	// ErrRequestNotFound indicates a status change for a service request the
	// registry never recorded.
	ErrRequestNotFound = errors.New("service request not recorded on chain")
	// ErrNotOwner indicates a transfer from an address that does not hold the token.
	ErrNotOwner = errors.New("sender does not own token")
	// ErrUnknownRole is returned when parsing an unrecognised role label.
	ErrUnknownRole = errors.New("unknown role")
)

// Role is a coarse authorization label derived from marker resources.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleCompany       Role = "company"
	RoleSeller        Role = "seller"
	RoleServiceCenter Role = "service_center"
	RoleCustomer      Role = "customer"
)

// Roles lists every role, most privileged first.
func Roles() []Role {
	return []Role{RoleAdmin, RoleCompany, RoleSeller, RoleServiceCenter, RoleCustomer}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles() {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole converts a label into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// NFTStatus is the lifecycle state of a warranty token.
type NFTStatus string

const (
	NFTActive      NFTStatus = "active"
	NFTExpired     NFTStatus = "expired"
	NFTTransferred NFTStatus = "transferred"
	NFTVoid        NFTStatus = "void"
)

// NFTMetadata carries product details attached to a warranty token.
type NFTMetadata struct {
	SerialNumber string `json:"serialNumber"`
	Model        string `json:"model"`
	WarrantyType string `json:"warrantyType"`
}

// WarrantyNFT is a token representing warranty coverage.
type WarrantyNFT struct {
	ID              string      `json:"id"`
	ProductName     string      `json:"productName"`
	CompanyAddress  string      `json:"companyAddress"`
	CustomerAddress string      `json:"customerAddress"`
	PurchaseDate    string      `json:"purchaseDate"`
	ExpiryDate      string      `json:"expiryDate"`
	Status          NFTStatus   `json:"status"`
	TokenID         string      `json:"tokenId"`
	Coverage        string      `json:"coverage"`
	Metadata        NFTMetadata `json:"metadata"`
}

// CompanyProfile is the on-chain verification record of a manufacturer.
type CompanyProfile struct {
	Address          string   `json:"address"`
	Name             string   `json:"name"`
	Verified         bool     `json:"verified"`
	VerificationDate string   `json:"verificationDate"`
	Documents        []string `json:"documents"`
}

// RequestStatus is the state of a service request.
type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestInProgress RequestStatus = "in_progress"
	RequestCompleted  RequestStatus = "completed"
	RequestCancelled  RequestStatus = "cancelled"
)

// Valid reports whether s is a known request status.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestInProgress, RequestCompleted, RequestCancelled:
		return true
	}
	return false
}

// Priority ranks service requests.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ServiceRequest is a repair request recorded against a warranty token.
type ServiceRequest struct {
	ID              string        `json:"id"`
	CustomerAddress string        `json:"customerAddress"`
	WarrantyTokenID string        `json:"warrantyTokenId"`
	Issue           string        `json:"issue"`
	RequestDate     string        `json:"requestDate"`
	Status          RequestStatus `json:"status"`
	Priority        Priority      `json:"priority"`
}

// TxStatus is the confirmation state of a submitted transaction.
type TxStatus string

const (
	TxPending TxStatus = "pending"
	TxSuccess TxStatus = "success"
	TxFailed  TxStatus = "failed"
)

// NetworkInfo summarises the connected network.
type NetworkInfo struct {
	ChainID       uint8  `json:"chainId"`
	Epoch         string `json:"epoch"`
	LedgerVersion string `json:"ledgerVersion"`
	Version       string `json:"version"`
	Timestamp     string `json:"timestamp"`
}

// MintRequest describes a warranty token to create.
type MintRequest struct {
	CompanyAddress  string
	CustomerAddress string
	ProductName     string
	Coverage        string
	ExpiryDate      string
	Metadata        NFTMetadata
}

// Receipt identifies the record a write produced and its transaction hash.
type Receipt struct {
	ID     string `json:"id"`
	TxHash string `json:"txHash"`
}
