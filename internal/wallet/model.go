package wallet

import (
	"context"
	"errors"

	"github.com/venkateshn67/warranty-verification/internal/blockchain"
	"github.com/venkateshn67/warranty-verification/internal/keystore"
)

var (
	// ErrExtensionMissing is returned by Connect when no wallet extension is available.
	ErrExtensionMissing = errors.New("wallet extension not installed")
	// ErrConnectionRejected is returned when the extension refuses or fails to connect.
	ErrConnectionRejected = errors.New("wallet connection rejected")
	// ErrNotConnected is returned by operations that need a connected wallet.
	ErrNotConnected = errors.New("wallet not connected")
)

// Status is the lifecycle state of the wallet connection.
type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusLoading       Status = "loading"
	StatusConnected     Status = "connected"
	StatusDisconnected  Status = "disconnected"
)

// Extension is the contract of a wallet extension.
type Extension interface {
	Connect(ctx context.Context) (keystore.Account, error)
	Disconnect(ctx context.Context) error
	OnAccountChange(fn func(*keystore.Account))
	OnDisconnect(fn func())
}

// Chain supplies the facts the connection derives from the network.
type Chain interface {
	Balance(ctx context.Context, address string) (float64, error)
	ResolveRole(ctx context.Context, address string) (blockchain.Role, error)
}

// Snapshot is a point-in-time view of the connection.
type Snapshot struct {
	Status         Status          `json:"status"`
	IsConnected    bool            `json:"isConnected"`
	IsLoading      bool            `json:"isLoading"`
	Address        string          `json:"address"`
	DisplayAddress string          `json:"displayAddress"`
	UserRole       blockchain.Role `json:"userRole"`
	AccountBalance float64         `json:"accountBalance"`
}
