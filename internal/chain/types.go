package chain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CoinStoreType is the resource holding an account's APT balance.
const CoinStoreType = "0x1::coin::CoinStore<0x1::aptos_coin::AptosCoin>"

var (
	// ErrAccountNotFound is returned when the node has no record of the address.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidAddress indicates a malformed account address.
	ErrInvalidAddress = errors.New("invalid account address")
)

// Resource is a single Move resource stored under an account.
type Resource struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// LedgerInfo describes the current state of the node's ledger.
type LedgerInfo struct {
	ChainID         uint8  `json:"chain_id"`
	Epoch           string `json:"epoch"`
	LedgerVersion   string `json:"ledger_version"`
	LedgerTimestamp string `json:"ledger_timestamp"`
	BlockHeight     string `json:"block_height"`
	NodeRole        string `json:"node_role"`
	GitHash         string `json:"git_hash,omitempty"`
}

// APIError is the error envelope returned by the node REST API.
type APIError struct {
	Status    int    `json:"-"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("aptos api %d %s: %s", e.Status, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("aptos api %d: %s", e.Status, e.Message)
}

// coinStoreData mirrors the data payload of CoinStoreType.
type coinStoreData struct {
	Coin struct {
		Value string `json:"value"`
	} `json:"coin"`
}

// CoinValue extracts the raw octa amount from a coin store resource.
func (r Resource) CoinValue() (string, bool) {
	if r.Type != CoinStoreType || len(r.Data) == 0 {
		return "", false
	}
	var data coinStoreData
	if err := json.Unmarshal(r.Data, &data); err != nil || data.Coin.Value == "" {
		return "", false
	}
	return data.Coin.Value, true
}
