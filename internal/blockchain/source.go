package blockchain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/venkateshn67/warranty-verification/internal/chain"
)

// Source is the read side of a chain. *chain.Client satisfies it against a
// live node; Mock serves fixed data in-process.
type Source interface {
	AccountResources(ctx context.Context, address string) ([]chain.Resource, error)
	LedgerInfo(ctx context.Context) (chain.LedgerInfo, error)
}

var _ Source = (*chain.Client)(nil)

// markerModule is the module path under which role marker resources live.
const markerModule = "0x1::warranty_roles::"

// Mock is an in-memory Source. Unknown addresses behave like accounts
// without resources.
type Mock struct {
	mu        sync.RWMutex
	resources map[string][]chain.Resource
	ledger    chain.LedgerInfo
	err       error
}

// NewMock returns a mock source reporting the Aptos testnet chain id.
func NewMock() *Mock {
	return &Mock{
		resources: make(map[string][]chain.Resource),
		ledger: chain.LedgerInfo{
			ChainID:       2,
			Epoch:         "1",
			LedgerVersion: "0",
			NodeRole:      "mock",
		},
	}
}

// AccountResources returns the resources registered for address.
func (m *Mock) AccountResources(_ context.Context, address string) ([]chain.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	key := strings.ToLower(address)
	out := make([]chain.Resource, len(m.resources[key]))
	copy(out, m.resources[key])
	return out, nil
}

// LedgerInfo returns the configured ledger info.
func (m *Mock) LedgerInfo(context.Context) (chain.LedgerInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return chain.LedgerInfo{}, m.err
	}
	return m.ledger, nil
}

// SetBalance stores a coin resource holding octas for address.
func (m *Mock) SetBalance(address string, octas uint64) {
	data, _ := json.Marshal(map[string]any{"coin": map[string]string{"value": fmt.Sprintf("%d", octas)}})
	m.replace(address, chain.Resource{Type: chain.CoinStoreType, Data: data})
}

// GrantRole attaches the marker resource for role to address. Granting the
// customer role is a no-op since it is the default.
func (m *Mock) GrantRole(address string, role Role) {
	for _, marker := range roleMarkers {
		if marker.role == role {
			m.replace(address, chain.Resource{Type: markerModule + marker.token, Data: json.RawMessage(`{}`)})
			return
		}
	}
}

// Fail makes every subsequent call return err; nil restores normal behaviour.
func (m *Mock) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *Mock) replace(address string, res chain.Resource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(address)
	list := m.resources[key]
	for i := range list {
		if list[i].Type == res.Type {
			list[i] = res
			return
		}
	}
	m.resources[key] = append(list, res)
}
