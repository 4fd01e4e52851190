package keystore

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/venkateshn67/warranty-verification/internal/chain"
)

var (
	// ErrNoKeys is returned when a keystore is built without any key.
	ErrNoKeys = errors.New("keystore has no keys")
	// ErrInvalidSeed indicates a key that is not a 32-byte hex ed25519 seed.
	ErrInvalidSeed = errors.New("invalid ed25519 seed")
	// ErrLocked is returned by Connect while the keystore is locked.
	ErrLocked = errors.New("keystore is locked")
	// ErrNoSuchAccount is returned when selecting an index outside the key list.
	ErrNoSuchAccount = errors.New("no such account")
)

// Account is the identity a wallet exposes to the application.
type Account struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
}

// Keystore is an in-process wallet holding ed25519 keys. It exposes the
// connect/disconnect contract of a browser wallet extension together with
// account-change and disconnect events.
type Keystore struct {
	mu        sync.Mutex
	keys      []ed25519.PrivateKey
	selected  int
	connected bool
	locked    bool

	accountHandlers    []func(*Account)
	disconnectHandlers []func()
}

// New builds a keystore from hex-encoded 32-byte seeds. The first key is
// selected.
func New(seeds []string) (*Keystore, error) {
	if len(seeds) == 0 {
		return nil, ErrNoKeys
	}
	keys := make([]ed25519.PrivateKey, 0, len(seeds))
	for i, seed := range seeds {
		key, err := ParseSeed(seed)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		keys = append(keys, key)
	}
	return &Keystore{keys: keys}, nil
}

// ParseSeed decodes a hex ed25519 seed, with or without 0x prefix.
func ParseSeed(seed string) (ed25519.PrivateKey, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(seed), "0x"))
	if err != nil || len(raw) != ed25519.SeedSize {
		return nil, ErrInvalidSeed
	}
	return ed25519.NewKeyFromSeed(raw), nil
}

// Generate creates a fresh seed and returns it hex-encoded with its account.
func Generate() (string, Account, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return "", Account{}, fmt.Errorf("generate seed: %w", err)
	}
	return hex.EncodeToString(seed), accountFor(ed25519.NewKeyFromSeed(seed)), nil
}

// AccountForSeed derives the account of a hex seed.
func AccountForSeed(seed string) (Account, error) {
	key, err := ParseSeed(seed)
	if err != nil {
		return Account{}, err
	}
	return accountFor(key), nil
}

func accountFor(key ed25519.PrivateKey) Account {
	pub := key.Public().(ed25519.PublicKey)
	return Account{
		Address:   chain.DeriveAddress(pub),
		PublicKey: "0x" + hex.EncodeToString(pub),
	}
}

// Connect approves the application's connection request and returns the
// selected account.
func (k *Keystore) Connect(ctx context.Context) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.locked {
		return Account{}, ErrLocked
	}
	k.connected = true
	return accountFor(k.keys[k.selected]), nil
}

// Disconnect ends the application's session. It does not fire disconnect
// handlers, which are reserved for wallet-initiated disconnects.
func (k *Keystore) Disconnect(context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.connected = false
	return nil
}

// OnAccountChange registers fn to run when the selected account changes
// while connected. A nil account means the wallet no longer exposes one.
func (k *Keystore) OnAccountChange(fn func(*Account)) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.accountHandlers = append(k.accountHandlers, fn)
}

// OnDisconnect registers fn to run when the wallet ends the session.
func (k *Keystore) OnDisconnect(fn func()) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.disconnectHandlers = append(k.disconnectHandlers, fn)
}

// Connected reports whether the application holds a session.
func (k *Keystore) Connected() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.connected
}

// Accounts lists every account in key order.
func (k *Keystore) Accounts() []Account {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]Account, len(k.keys))
	for i, key := range k.keys {
		out[i] = accountFor(key)
	}
	return out
}

// Select switches the active account. Connected applications are told
// about the change.
func (k *Keystore) Select(index int) (Account, error) {
	k.mu.Lock()
	if index < 0 || index >= len(k.keys) {
		k.mu.Unlock()
		return Account{}, fmt.Errorf("%w: %d", ErrNoSuchAccount, index)
	}
	k.selected = index
	account := accountFor(k.keys[index])
	notify := k.connected
	handlers := append([]func(*Account){}, k.accountHandlers...)
	k.mu.Unlock()

	if notify {
		for _, fn := range handlers {
			fn(&account)
		}
	}
	return account, nil
}

// Revoke ends the session from the wallet side and fires disconnect handlers.
func (k *Keystore) Revoke() {
	k.mu.Lock()
	wasConnected := k.connected
	k.connected = false
	handlers := append([]func(){}, k.disconnectHandlers...)
	k.mu.Unlock()

	if wasConnected {
		for _, fn := range handlers {
			fn()
		}
	}
}

// Lock hides the account from connected applications and refuses new
// connections until Unlock.
func (k *Keystore) Lock() {
	k.mu.Lock()
	k.locked = true
	notify := k.connected
	handlers := append([]func(*Account){}, k.accountHandlers...)
	k.mu.Unlock()

	if notify {
		for _, fn := range handlers {
			fn(nil)
		}
	}
}

// Unlock allows connections again.
func (k *Keystore) Unlock() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.locked = false
}
