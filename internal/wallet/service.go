package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/venkateshn67/warranty-verification/internal/blockchain"
	"github.com/venkateshn67/warranty-verification/internal/chain"
	"github.com/venkateshn67/warranty-verification/internal/keystore"
	"github.com/venkateshn67/warranty-verification/internal/localstore"
	"github.com/venkateshn67/warranty-verification/internal/logging"
	"github.com/venkateshn67/warranty-verification/internal/metrics"
)

const (
	defaultRestoreTimeout  = 3 * time.Second
	defaultFallbackBalance = 100
)

// Options tune a Connection. Zero values select the defaults; a nil
// FallbackBalance means the default, so an explicit zero is kept.
type Options struct {
	RestoreTimeout  time.Duration
	FallbackBalance *float64
	Logger          *slog.Logger
	Metrics         *metrics.Registry
}

// Connection tracks the single logical wallet connection of the process and
// the identity derived from it. Every state change bumps a generation
// counter; results computed for an older generation are dropped, and so are
// their writes to the persisted state.
type Connection struct {
	ext             Extension
	chain           Chain
	store           localstore.Store
	logger          *slog.Logger
	metrics         *metrics.Registry
	restoreTimeout  time.Duration
	fallbackBalance float64

	// storeMu serialises persisted writes so a write checked against a
	// generation lands before any later clear of the same keys.
	storeMu sync.Mutex

	mu      sync.Mutex
	gen     uint64
	status  Status
	address string
	role    blockchain.Role
	balance float64
}

// NewConnection builds a connection in the uninitialized state. ext may be
// nil when no wallet extension is installed.
func NewConnection(ext Extension, source Chain, store localstore.Store, opts Options) *Connection {
	if opts.RestoreTimeout <= 0 {
		opts.RestoreTimeout = defaultRestoreTimeout
	}
	fallback := float64(defaultFallbackBalance)
	if opts.FallbackBalance != nil {
		fallback = *opts.FallbackBalance
	}
	c := &Connection{
		ext:             ext,
		chain:           source,
		store:           store,
		logger:          logging.Component(opts.Logger, "wallet"),
		metrics:         opts.Metrics,
		restoreTimeout:  opts.RestoreTimeout,
		fallbackBalance: fallback,
		status:          StatusUninitialized,
	}
	if ext != nil {
		ext.OnAccountChange(c.handleAccountChange)
		ext.OnDisconnect(c.handleDisconnect)
	}
	return c
}

// Snapshot returns the current connection view.
func (c *Connection) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Address returns the connected account address, or "" when disconnected.
func (c *Connection) Address() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != StatusConnected {
		return ""
	}
	return c.address
}

// Role returns the displayed role, or "" when disconnected.
func (c *Connection) Role() blockchain.Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != StatusConnected {
		return ""
	}
	return c.role
}

func (c *Connection) snapshotLocked() Snapshot {
	return Snapshot{
		Status:         c.status,
		IsConnected:    c.status == StatusConnected,
		IsLoading:      c.status == StatusLoading,
		Address:        c.address,
		DisplayAddress: chain.ShortenAddress(c.address),
		UserRole:       c.role,
		AccountBalance: c.balance,
	}
}

// Connect asks the extension for an account and derives balance and role
// for it.
func (c *Connection) Connect(ctx context.Context) (Snapshot, error) {
	if c.ext == nil {
		return c.Snapshot(), ErrExtensionMissing
	}

	account, err := c.ext.Connect(ctx)
	if err != nil {
		c.logger.Warn("wallet connect failed", slog.Any("error", err))
		return c.Snapshot(), fmt.Errorf("%w: %w", ErrConnectionRejected, err)
	}
	if account.Address == "" {
		c.logger.Warn("wallet returned no address")
		return c.Snapshot(), ErrConnectionRejected
	}
	address := account.Address

	gen := c.begin(StatusConnected, func() {
		c.address = address
		c.role = ""
		c.balance = 0
	})
	c.persist(ctx, gen, localstore.KeyConnected, "true")
	c.persist(ctx, gen, localstore.KeyAddress, address)

	balance, err := c.chain.Balance(ctx, address)
	if err != nil {
		c.logger.Warn("balance lookup failed, using fallback",
			slog.String("address", address),
			slog.Float64("fallback", c.fallbackBalance),
			slog.Any("error", err),
		)
		balance = c.fallbackBalance
	}
	role := c.resolveRole(ctx, address)

	if c.apply(gen, func() {
		c.balance = balance
		c.role = role
	}) {
		c.persist(ctx, gen, localstore.KeyRole, string(role))
	}

	c.logger.Info("wallet connected", slog.String("address", address), slog.String("role", string(role)))
	return c.Snapshot(), nil
}

// Disconnect tells the extension the session is over and clears the
// identity. It never fails; extension and storage errors are logged.
func (c *Connection) Disconnect(ctx context.Context) Snapshot {
	if c.ext != nil {
		if err := c.ext.Disconnect(ctx); err != nil {
			c.logger.Warn("wallet extension disconnect failed", slog.Any("error", err))
		}
	}
	return c.clear(ctx)
}

func (c *Connection) clear(ctx context.Context) Snapshot {
	gen := c.begin(StatusDisconnected, func() {
		c.address = ""
		c.role = ""
		c.balance = 0
	})
	c.forget(ctx, gen)
	c.logger.Info("wallet disconnected")
	return c.Snapshot()
}

// RefreshBalance re-reads the balance of the connected account. A failed
// lookup keeps the previous balance.
func (c *Connection) RefreshBalance(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	gen, address, status := c.gen, c.address, c.status
	c.mu.Unlock()
	if status != StatusConnected || address == "" {
		return c.Snapshot(), ErrNotConnected
	}
	c.refreshBalance(ctx, gen, address)
	return c.Snapshot(), nil
}

func (c *Connection) refreshBalance(ctx context.Context, gen uint64, address string) {
	balance, err := c.chain.Balance(ctx, address)
	if err != nil {
		c.logger.Warn("balance refresh failed", slog.String("address", address), slog.Any("error", err))
		return
	}
	c.apply(gen, func() { c.balance = balance })
}

// SetRole overrides the displayed role. The override is not persisted.
func (c *Connection) SetRole(role blockchain.Role) (Snapshot, error) {
	if !role.Valid() {
		return c.Snapshot(), fmt.Errorf("%w: %q", blockchain.ErrUnknownRole, role)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != StatusConnected {
		return c.snapshotLocked(), ErrNotConnected
	}
	c.role = role
	return c.snapshotLocked(), nil
}

// Restore rebuilds the connection from persisted state. The whole
// restoration is bounded by the restore timeout: lookups run under that
// deadline and a connection still loading when it expires is forced to
// disconnected.
func (c *Connection) Restore(ctx context.Context) Snapshot {
	gen := c.begin(StatusLoading, nil)
	timer := time.AfterFunc(c.restoreTimeout, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen == gen && c.status == StatusLoading {
			c.logger.Warn("wallet restore timed out")
			c.gen++
			c.transitionLocked(StatusDisconnected)
		}
	})
	defer timer.Stop()

	ctx, cancel := context.WithTimeout(ctx, c.restoreTimeout)
	defer cancel()

	if c.ext == nil {
		c.apply(gen, func() { c.transitionLocked(StatusDisconnected) })
		return c.Snapshot()
	}

	connected, _, err := c.store.Get(ctx, localstore.KeyConnected)
	if err != nil {
		return c.abortRestore(ctx, gen, err)
	}
	address, _, err := c.store.Get(ctx, localstore.KeyAddress)
	if err != nil {
		return c.abortRestore(ctx, gen, err)
	}
	if connected != "true" || address == "" {
		c.apply(gen, func() { c.transitionLocked(StatusDisconnected) })
		return c.Snapshot()
	}

	if !c.apply(gen, func() {
		c.address = address
		c.transitionLocked(StatusConnected)
	}) {
		return c.Snapshot()
	}

	c.refreshBalance(ctx, gen, address)

	stored, _, err := c.store.Get(ctx, localstore.KeyRole)
	if err != nil {
		c.logger.Warn("read persisted role", slog.Any("error", err))
	}
	role, err := blockchain.ParseRole(stored)
	if err != nil {
		role = c.resolveRole(ctx, address)
		c.persist(ctx, gen, localstore.KeyRole, string(role))
	}
	c.apply(gen, func() { c.role = role })

	c.logger.Info("wallet restored", slog.String("address", address), slog.String("role", string(role)))
	return c.Snapshot()
}

func (c *Connection) abortRestore(ctx context.Context, gen uint64, cause error) Snapshot {
	c.logger.Warn("restore wallet state", slog.Any("error", cause))
	c.forget(ctx, gen)
	c.apply(gen, func() { c.transitionLocked(StatusDisconnected) })
	return c.Snapshot()
}

func (c *Connection) handleAccountChange(account *keystore.Account) {
	if account == nil || account.Address == "" {
		c.handleDisconnect()
		return
	}

	c.mu.Lock()
	if c.status != StatusConnected {
		c.mu.Unlock()
		return
	}
	c.gen++
	gen := c.gen
	c.address = account.Address
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.restoreTimeout)
	defer cancel()

	c.persist(ctx, gen, localstore.KeyAddress, account.Address)
	c.refreshBalance(ctx, gen, account.Address)
	role := c.resolveRole(ctx, account.Address)
	if c.apply(gen, func() { c.role = role }) {
		c.persist(ctx, gen, localstore.KeyRole, string(role))
	}
	c.logger.Info("wallet account changed", slog.String("address", account.Address))
}

func (c *Connection) handleDisconnect() {
	if !c.Snapshot().IsConnected {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.restoreTimeout)
	defer cancel()
	c.Disconnect(ctx)
}

// resolveRole looks up the role of address; failures and empty results
// yield the customer role.
func (c *Connection) resolveRole(ctx context.Context, address string) blockchain.Role {
	role, err := c.chain.ResolveRole(ctx, address)
	if err != nil {
		c.logger.Warn("role lookup failed, defaulting to customer", slog.String("address", address), slog.Any("error", err))
		return blockchain.RoleCustomer
	}
	if !role.Valid() {
		return blockchain.RoleCustomer
	}
	return role
}

// persist writes key only while gen is still the current generation.
func (c *Connection) persist(ctx context.Context, gen uint64, key, value string) {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()
	if !c.current(gen) {
		return
	}
	if err := c.store.Set(ctx, key, value); err != nil {
		c.logger.Warn("persist wallet state", slog.String("key", key), slog.Any("error", err))
	}
}

// forget deletes the persisted session unless a newer operation has
// started since gen.
func (c *Connection) forget(ctx context.Context, gen uint64) {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()
	if !c.current(gen) {
		return
	}
	if err := c.store.Delete(ctx, localstore.KeyConnected, localstore.KeyAddress, localstore.KeyRole); err != nil {
		c.logger.Warn("clear persisted wallet state", slog.Any("error", err))
	}
}

func (c *Connection) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen == gen
}

// begin starts a new generation in status and applies mutate under the lock.
func (c *Connection) begin(status Status, mutate func()) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if mutate != nil {
		mutate()
	}
	c.transitionLocked(status)
	return c.gen
}

// apply runs mutate only if no newer operation has started since gen.
func (c *Connection) apply(gen uint64, mutate func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	mutate()
	return true
}

func (c *Connection) transitionLocked(status Status) {
	if c.status == status {
		return
	}
	c.status = status
	c.metrics.WalletTransition(string(status))
}
