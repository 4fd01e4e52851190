package customer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/venkateshn67/warranty-verification/internal/blockchain"
	"github.com/venkateshn67/warranty-verification/internal/logging"
	"github.com/venkateshn67/warranty-verification/internal/metrics"
	"github.com/venkateshn67/warranty-verification/internal/notification"
	"github.com/venkateshn67/warranty-verification/internal/portal"
	"github.com/venkateshn67/warranty-verification/internal/store"
)

const portalName = "customer"

// Chain is the part of the blockchain service the customer portal uses.
type Chain interface {
	TransferWarrantyNFT(ctx context.Context, from, to, tokenID string) (string, error)
	VerifyWarrantyNFT(ctx context.Context, tokenID string) *blockchain.WarrantyNFT
	WarrantyNFTs(ctx context.Context, owner string) []blockchain.WarrantyNFT
}

// Service manages the customer's warranties and token transfers.
type Service struct {
	warranties *store.Bucket[Warranty]
	transfers  *store.Bucket[TokenTransfer]
	chain      Chain
	notifier   notification.Notifier
	logger     *slog.Logger
	metrics    *metrics.Registry
	now        func() time.Time
}

// NewService wires the customer portal on backend.
func NewService(backend store.Backend, chain Chain, notifier notification.Notifier, logger *slog.Logger, reg *metrics.Registry) *Service {
	return &Service{
		warranties: store.NewBucket(backend, "customer.warranties", seedWarranties),
		transfers:  store.NewBucket(backend, "customer.transfers", seedTransfers),
		chain:      chain,
		notifier:   notifier,
		logger:     logging.Component(logger, "portal.customer"),
		metrics:    reg,
		now:        time.Now,
	}
}

// Warranties lists warranties, optionally only those in status.
func (s *Service) Warranties(ctx context.Context, status WarrantyStatus) ([]Warranty, error) {
	if status != "" && !status.valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilter, status)
	}
	all, err := s.warranties.All(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return all, nil
	}
	out := make([]Warranty, 0, len(all))
	for _, w := range all {
		if w.Status == status {
			out = append(out, w)
		}
	}
	return out, nil
}

// Transfers lists token transfers.
func (s *Service) Transfers(ctx context.Context) ([]TokenTransfer, error) {
	return s.transfers.All(ctx)
}

// Stats counts warranties by status and completed transfers.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	warranties, err := s.warranties.All(ctx)
	if err != nil {
		return Stats{}, err
	}
	transfers, err := s.transfers.All(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{TotalWarranties: len(warranties)}
	for _, w := range warranties {
		switch w.Status {
		case WarrantyActive:
			stats.ActiveWarranties++
		case WarrantyExpired:
			stats.ExpiredWarranties++
		}
	}
	for _, t := range transfers {
		if t.Status == TransferCompleted {
			stats.CompletedTransfers++
		}
	}
	return stats, nil
}

// Transfer moves the token behind warrantyID from the connected account to
// to. Only active warranties can move. The transfer is recorded as pending
// until confirmed, or as failed when the chain rejects it.
func (s *Service) Transfer(ctx context.Context, from, warrantyID, to string) (TokenTransfer, error) {
	to = strings.TrimSpace(to)
	if from == "" {
		return TokenTransfer{}, portal.ErrWalletRequired
	}
	if to == "" || strings.EqualFold(to, from) {
		return TokenTransfer{}, fmt.Errorf("%w: %q", ErrInvalidDestination, to)
	}

	warranties, err := s.warranties.All(ctx)
	if err != nil {
		return TokenTransfer{}, err
	}
	var warranty *Warranty
	for i := range warranties {
		if warranties[i].ID == warrantyID {
			warranty = &warranties[i]
			break
		}
	}
	if warranty == nil {
		return TokenTransfer{}, fmt.Errorf("%w: %s", ErrWarrantyNotFound, warrantyID)
	}
	if warranty.Status != WarrantyActive {
		return TokenTransfer{}, fmt.Errorf("%w: %s is %s", ErrWarrantyNotTransferable, warrantyID, warranty.Status)
	}

	transfer := TokenTransfer{
		ID:      "t" + uuid.NewString(),
		From:    from,
		To:      to,
		TokenID: warranty.TokenID,
		Date:    s.now().UTC().Format("2006-01-02"),
		Status:  TransferPending,
	}
	hash, chainErr := s.chain.TransferWarrantyNFT(ctx, from, to, warranty.TokenID)
	if chainErr != nil {
		transfer.Status = TransferFailed
	} else {
		transfer.TxHash = hash
	}

	if _, err := s.transfers.Update(ctx, func(cur []TokenTransfer) ([]TokenTransfer, error) {
		next := make([]TokenTransfer, 0, len(cur)+1)
		next = append(next, cur...)
		return append(next, transfer), nil
	}); err != nil {
		return TokenTransfer{}, err
	}
	s.metrics.PortalMutation(portalName, "transfer")

	if chainErr != nil {
		s.logger.Warn("warranty transfer failed", slog.String("token_id", warranty.TokenID), slog.Any("error", chainErr))
		return transfer, fmt.Errorf("transfer %s: %w", warranty.TokenID, chainErr)
	}

	s.logger.Info("warranty transfer submitted",
		slog.String("token_id", warranty.TokenID),
		slog.String("to", to),
		slog.String("tx_hash", hash),
	)
	notification.Notify(ctx, s.notifier, s.logger, notification.Message{
		Kind:        notification.KindWarrantyTransferred,
		Destination: to,
		Body:        fmt.Sprintf("Warranty %s for %s is being transferred to you", warranty.TokenID, warranty.ProductName),
	})
	return transfer, nil
}

// Verify looks up the on-chain record of tokenID.
func (s *Service) Verify(ctx context.Context, tokenID string) (blockchain.WarrantyNFT, error) {
	if strings.TrimSpace(tokenID) == "" {
		return blockchain.WarrantyNFT{}, ErrTokenRequired
	}
	nft := s.chain.VerifyWarrantyNFT(ctx, tokenID)
	if nft == nil {
		return blockchain.WarrantyNFT{}, fmt.Errorf("%w: %s", ErrWarrantyNotFound, tokenID)
	}
	return *nft, nil
}

// NFTs lists the warranty tokens held by owner on chain.
func (s *Service) NFTs(ctx context.Context, owner string) ([]blockchain.WarrantyNFT, error) {
	if owner == "" {
		return nil, portal.ErrWalletRequired
	}
	return s.chain.WarrantyNFTs(ctx, owner), nil
}
