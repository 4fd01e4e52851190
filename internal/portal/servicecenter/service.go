package servicecenter

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
	"github.com/venkateshn67/warranty-verification/internal/store"
)

const portalName = "service_center"

// Chain is the part of the blockchain service the service center uses.
type Chain interface {
	VerifyWarrantyNFT(ctx context.Context, tokenID string) *blockchain.WarrantyNFT
	CompanyProfile(ctx context.Context, address string) *blockchain.CompanyProfile
	CreateServiceRequest(ctx context.Context, customer, tokenID, issue string, priority blockchain.Priority) (blockchain.Receipt, error)
	UpdateServiceRequestStatus(ctx context.Context, center, requestID string, status blockchain.RequestStatus) (string, error)
}

// Service handles repair requests, warranty verification and coverage
// extensions.
type Service struct {
	requests      *store.Bucket[Request]
	verifications *store.Bucket[Verification]
	extensions    *store.Bucket[Extension]
	chain         Chain
	notifier      notification.Notifier
	logger        *slog.Logger
	metrics       *metrics.Registry
	now           func() time.Time
}

// NewService wires the service center portal on backend.
func NewService(backend store.Backend, chain Chain, notifier notification.Notifier, logger *slog.Logger, reg *metrics.Registry) *Service {
	return &Service{
		requests:      store.NewBucket(backend, "servicecenter.requests", seedRequests),
		verifications: store.NewBucket(backend, "servicecenter.verifications", seedVerifications),
		extensions:    store.NewBucket(backend, "servicecenter.extensions", seedExtensions),
		chain:         chain,
		notifier:      notifier,
		logger:        logging.Component(logger, "portal.servicecenter"),
		metrics:       reg,
		now:           time.Now,
	}
}

// Requests lists repair requests, optionally only those in status.
func (s *Service) Requests(ctx context.Context, status blockchain.RequestStatus) ([]Request, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidRequest, status)
	}
	all, err := s.requests.All(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return all, nil
	}
	out := make([]Request, 0, len(all))
	for _, r := range all {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

// Stats counts open requests, verifications and pending extensions.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	requests, err := s.requests.All(ctx)
	if err != nil {
		return Stats{}, err
	}
	verifications, err := s.verifications.All(ctx)
	if err != nil {
		return Stats{}, err
	}
	extensions, err := s.extensions.All(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Verifications: len(verifications)}
	for _, r := range requests {
		switch r.Status {
		case blockchain.RequestPending:
			stats.PendingRequests++
		case blockchain.RequestInProgress:
			stats.InProgressRequests++
		}
	}
	for _, e := range extensions {
		if e.Status == ExtensionPending {
			stats.PendingExtensions++
		}
	}
	return stats, nil
}

// CreateRequest opens a pending repair request and records it on chain.
func (s *Service) CreateRequest(ctx context.Context, in RequestInput) (Request, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.WarrantyTokenID = strings.TrimSpace(in.WarrantyTokenID)
	in.Issue = strings.TrimSpace(in.Issue)
	if in.CustomerName == "" || in.WarrantyTokenID == "" || in.Issue == "" {
		return Request{}, fmt.Errorf("%w: customer, token id and issue are required", ErrInvalidRequest)
	}
	if in.Priority == "" {
		in.Priority = blockchain.PriorityMedium
	}
	if !in.Priority.Valid() {
		return Request{}, fmt.Errorf("%w: priority %q", ErrInvalidRequest, in.Priority)
	}

	customer := in.CustomerAddress
	if customer == "" {
		customer = in.CustomerName
	}
	receipt, err := s.chain.CreateServiceRequest(ctx, customer, in.WarrantyTokenID, in.Issue, in.Priority)
	if err != nil {
		return Request{}, fmt.Errorf("record service request: %w", err)
	}

	req := Request{
		ID:              "sr" + uuid.NewString(),
		CustomerName:    in.CustomerName,
		ProductName:     strings.TrimSpace(in.ProductName),
		WarrantyTokenID: in.WarrantyTokenID,
		Issue:           in.Issue,
		RequestDate:     s.now().UTC().Format(dateLayout),
		Status:          blockchain.RequestPending,
		Priority:        in.Priority,
		ChainID:         receipt.ID,
		TxHash:          receipt.TxHash,
	}
	if _, err := s.requests.Update(ctx, func(cur []Request) ([]Request, error) {
		next := make([]Request, 0, len(cur)+1)
		next = append(next, cur...)
		return append(next, req), nil
	}); err != nil {
		return Request{}, err
	}

	s.metrics.PortalMutation(portalName, "create_request")
	s.logger.Info("service request opened",
		slog.String("request_id", req.ID),
		slog.String("chain_id", req.ChainID),
		slog.String("token_id", req.WarrantyTokenID),
		slog.String("priority", string(req.Priority)),
	)
	return req, nil
}

// UpdateRequestStatus moves a request along its workflow. Pending requests
// can start or be cancelled; in-progress requests can complete or be
// cancelled.
func (s *Service) UpdateRequestStatus(ctx context.Context, center, id string, status blockchain.RequestStatus) (Request, error) {
	current, err := s.findRequest(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if !canTransition(current.Status, status) {
		return Request{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
	}

	hash, err := s.chain.UpdateServiceRequestStatus(ctx, center, current.ChainID, status)
	if err != nil {
		return Request{}, fmt.Errorf("record status change: %w", err)
	}

	var updated Request
	if _, err := s.requests.Update(ctx, func(cur []Request) ([]Request, error) {
		next := make([]Request, len(cur))
		copy(next, cur)
		for i := range next {
			if next[i].ID != id {
				continue
			}
			if !canTransition(next[i].Status, status) {
				return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, next[i].Status, status)
			}
			next[i].Status = status
			next[i].TxHash = hash
			updated = next[i]
			return next, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrRequestNotFound, id)
	}); err != nil {
		return Request{}, err
	}

	s.metrics.PortalMutation(portalName, "update_request_status")
	s.logger.Info("service request status updated",
		slog.String("request_id", id),
		slog.String("status", string(status)),
		slog.String("tx_hash", hash),
	)
	notification.Notify(ctx, s.notifier, s.logger, notification.Message{
		Kind:        notification.KindServiceRequestUpdated,
		Destination: updated.CustomerName,
		Body:        fmt.Sprintf("Service request for %s is now %s", updated.ProductName, status),
	})
	return updated, nil
}

func (s *Service) findRequest(ctx context.Context, id string) (Request, error) {
	all, err := s.requests.All(ctx)
	if err != nil {
		return Request{}, err
	}
	for _, r := range all {
		if r.ID == id {
			return r, nil
		}
	}
	return Request{}, fmt.Errorf("%w: %s", ErrRequestNotFound, id)
}

// Verifications lists past verification results.
func (s *Service) Verifications(ctx context.Context) ([]Verification, error) {
	return s.verifications.All(ctx)
}

// Verify checks tokenID on chain and records the result. A warranty is
// valid while its token is active and its expiry date has not passed.
func (s *Service) Verify(ctx context.Context, tokenID string) (Verification, error) {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return Verification{}, ErrTokenRequired
	}
	nft := s.chain.VerifyWarrantyNFT(ctx, tokenID)
	if nft == nil {
		return Verification{}, fmt.Errorf("%w: %s", ErrVerificationFailed, tokenID)
	}

	today := s.now().UTC()
	companyName := nft.CompanyAddress
	if profile := s.chain.CompanyProfile(ctx, nft.CompanyAddress); profile != nil {
		companyName = profile.Name
	}
	result := Verification{
		ID:               "v" + uuid.NewString(),
		TokenID:          tokenID,
		CustomerAddress:  nft.CustomerAddress,
		ProductName:      nft.ProductName,
		CompanyName:      companyName,
		ExpiryDate:       nft.ExpiryDate,
		IsValid:          nft.Status == blockchain.NFTActive && !expired(nft.ExpiryDate, today),
		VerificationDate: today.Format(dateLayout),
	}
	if _, err := s.verifications.Update(ctx, func(cur []Verification) ([]Verification, error) {
		next := make([]Verification, 0, len(cur)+1)
		next = append(next, cur...)
		return append(next, result), nil
	}); err != nil {
		return Verification{}, err
	}

	s.metrics.PortalMutation(portalName, "verify")
	s.logger.Info("warranty verified", slog.String("token_id", tokenID), slog.Bool("valid", result.IsValid))
	return result, nil
}

// expired treats an unreadable expiry date as already passed.
func expired(expiry string, today time.Time) bool {
	t, err := time.Parse(dateLayout, expiry)
	if err != nil {
		return true
	}
	return t.Before(today.Truncate(24 * time.Hour))
}

// Extensions lists coverage extension requests.
func (s *Service) Extensions(ctx context.Context) ([]Extension, error) {
	return s.extensions.All(ctx)
}

// RequestExtension files a pending extension. The requested expiry must be
// later than the current one.
func (s *Service) RequestExtension(ctx context.Context, in ExtensionInput) (Extension, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.ProductName = strings.TrimSpace(in.ProductName)
	if in.CustomerName == "" || in.ProductName == "" {
		return Extension{}, fmt.Errorf("%w: customer and product are required", ErrInvalidExtension)
	}
	current, err := time.Parse(dateLayout, in.CurrentExpiry)
	if err != nil {
		return Extension{}, fmt.Errorf("%w: current expiry %q", ErrInvalidExtension, in.CurrentExpiry)
	}
	requested, err := time.Parse(dateLayout, in.RequestedExtension)
	if err != nil {
		return Extension{}, fmt.Errorf("%w: requested extension %q", ErrInvalidExtension, in.RequestedExtension)
	}
	if !requested.After(current) {
		return Extension{}, fmt.Errorf("%w: requested expiry must follow the current one", ErrInvalidExtension)
	}

	ext := Extension{
		ID:                 "ex" + uuid.NewString(),
		CustomerName:       in.CustomerName,
		ProductName:        in.ProductName,
		CurrentExpiry:      in.CurrentExpiry,
		RequestedExtension: in.RequestedExtension,
		Reason:             strings.TrimSpace(in.Reason),
		Status:             ExtensionPending,
		RequestDate:        s.now().UTC().Format(dateLayout),
	}
	if _, err := s.extensions.Update(ctx, func(cur []Extension) ([]Extension, error) {
		next := make([]Extension, 0, len(cur)+1)
		next = append(next, cur...)
		return append(next, ext), nil
	}); err != nil {
		return Extension{}, err
	}

	s.metrics.PortalMutation(portalName, "request_extension")
	s.logger.Info("extension requested", slog.String("extension_id", ext.ID), slog.String("product", ext.ProductName))
	return ext, nil
}

// DecideExtension approves or rejects a pending extension.
func (s *Service) DecideExtension(ctx context.Context, id string, decision ExtensionStatus) (Extension, error) {
	if decision != ExtensionApproved && decision != ExtensionRejected {
		return Extension{}, fmt.Errorf("%w: decision %q", ErrInvalidExtension, decision)
	}

	var decided Extension
	if _, err := s.extensions.Update(ctx, func(cur []Extension) ([]Extension, error) {
		next := make([]Extension, len(cur))
		copy(next, cur)
		for i := range next {
			if next[i].ID != id {
				continue
			}
			if next[i].Status != ExtensionPending {
				return nil, fmt.Errorf("%w: %s is already %s", ErrInvalidTransition, id, next[i].Status)
			}
			next[i].Status = decision
			decided = next[i]
			return next, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrExtensionNotFound, id)
	}); err != nil {
		return Extension{}, err
	}

	s.metrics.PortalMutation(portalName, "decide_extension")
	s.logger.Info("extension decided", slog.String("extension_id", id), slog.String("decision", string(decision)))
	notification.Notify(ctx, s.notifier, s.logger, notification.Message{
		Kind:        notification.KindExtensionDecided,
		Destination: decided.CustomerName,
		Body:        fmt.Sprintf("Extension of %s coverage to %s was %s", decided.ProductName, decided.RequestedExtension, decision),
	})
	return decided, nil
}
