package blockchain

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/venkateshn67/warranty-verification/internal/chain"
	"github.com/venkateshn67/warranty-verification/internal/logging"
	"github.com/venkateshn67/warranty-verification/internal/metrics"
)

const (
	octasPerAPT   = 100_000_000
	clientVersion = "1.0.0"
	dateLayout    = "2006-01-02"
)

type roleMarker struct {
	token string
	role  Role
}

// roleMarkers is checked in order; the first marker present wins.
var roleMarkers = []roleMarker{
	{token: "AdminRoleToken", role: RoleAdmin},
	{token: "CompanyVerificationToken", role: RoleCompany},
	{token: "SellerLicenseToken", role: RoleSeller},
	{token: "ServiceCenterLicenseToken", role: RoleServiceCenter},
}

// Service is the single point of truth for chain reads and writes. Reads go
// to the Source; writes are simulated and kept in an in-process registry.
type Service struct {
	source  Source
	logger  *slog.Logger
	metrics *metrics.Registry
	now     func() time.Time

	mu        sync.RWMutex
	minted    map[string]WarrantyNFT
	requests  []ServiceRequest
	nextToken int
	nextReq   int
}

// NewService builds a blockchain service over source. logger and reg may be nil.
func NewService(source Source, logger *slog.Logger, reg *metrics.Registry) *Service {
	return &Service{
		source:    source,
		logger:    logging.Component(logger, "blockchain"),
		metrics:   reg,
		now:       time.Now,
		minted:    make(map[string]WarrantyNFT),
		requests:  fixtureServiceRequests(),
		nextToken: fixtureTokenCount,
		nextReq:   len(fixtureServiceRequests()),
	}
}

// Balance returns the APT balance of address. Accounts unknown to the node
// hold nothing; any other read failure wraps ErrLookupFailed.
func (s *Service) Balance(ctx context.Context, address string) (float64, error) {
	resources, err := s.source.AccountResources(ctx, address)
	if err != nil {
		if errors.Is(err, chain.ErrAccountNotFound) {
			s.metrics.ChainLookup("balance", metrics.OutcomeOK)
			return 0, nil
		}
		s.metrics.ChainLookup("balance", metrics.OutcomeFailed)
		return 0, fmt.Errorf("%w: balance of %s: %w", ErrLookupFailed, address, err)
	}
	for _, r := range resources {
		value, ok := r.CoinValue()
		if !ok {
			continue
		}
		octas, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			s.metrics.ChainLookup("balance", metrics.OutcomeFailed)
			return 0, fmt.Errorf("%w: balance of %s: bad coin value %q", ErrLookupFailed, address, value)
		}
		s.metrics.ChainLookup("balance", metrics.OutcomeOK)
		return float64(octas) / octasPerAPT, nil
	}
	s.metrics.ChainLookup("balance", metrics.OutcomeOK)
	return 0, nil
}

// AccountBalance is Balance with failures reported as a zero balance.
func (s *Service) AccountBalance(ctx context.Context, address string) float64 {
	balance, err := s.Balance(ctx, address)
	if err != nil {
		s.logger.Error("get account balance", slog.String("address", address), slog.Any("error", err))
		return 0
	}
	return balance
}

// ResolveRole derives the role of address from its marker resources.
// Addresses without a marker are customers.
func (s *Service) ResolveRole(ctx context.Context, address string) (Role, error) {
	role, err := s.lookupRole(ctx, address)
	if err != nil {
		s.metrics.ChainLookup("role", metrics.OutcomeFailed)
		return "", err
	}
	s.metrics.ChainLookup("role", metrics.OutcomeOK)
	return role, nil
}

// UserRole is ResolveRole with failures reported as the customer role.
// Each call counts once, as ok or defaulted.
func (s *Service) UserRole(ctx context.Context, address string) Role {
	role, err := s.lookupRole(ctx, address)
	if err != nil {
		s.logger.Error("get user role", slog.String("address", address), slog.Any("error", err))
		s.metrics.ChainLookup("role", metrics.OutcomeDefault)
		return RoleCustomer
	}
	s.metrics.ChainLookup("role", metrics.OutcomeOK)
	return role
}

func (s *Service) lookupRole(ctx context.Context, address string) (Role, error) {
	resources, err := s.source.AccountResources(ctx, address)
	if err != nil {
		if errors.Is(err, chain.ErrAccountNotFound) {
			return RoleCustomer, nil
		}
		return "", fmt.Errorf("%w: role of %s: %w", ErrLookupFailed, address, err)
	}
	for _, marker := range roleMarkers {
		for _, r := range resources {
			if strings.Contains(r.Type, marker.token) {
				return marker.role, nil
			}
		}
	}
	return RoleCustomer, nil
}

// WarrantyNFTs lists the warranty tokens held by owner.
func (s *Service) WarrantyNFTs(_ context.Context, owner string) []WarrantyNFT {
	out := []WarrantyNFT{fixtureWarranty(owner, "NFT#001")}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, nft := range s.minted {
		if strings.EqualFold(nft.CustomerAddress, owner) {
			out = append(out, nft)
		}
	}
	return out
}

// CreateWarrantyNFT mints a warranty token to the customer.
func (s *Service) CreateWarrantyNFT(_ context.Context, req MintRequest) (Receipt, error) {
	if req.CompanyAddress == "" || req.CustomerAddress == "" || req.ProductName == "" {
		return Receipt{}, fmt.Errorf("%w: company, customer and product are required", ErrInvalidRequest)
	}

	today := s.now().UTC()
	expiry := req.ExpiryDate
	if expiry == "" {
		expiry = today.AddDate(1, 0, 0).Format(dateLayout)
	}

	s.mu.Lock()
	s.nextToken++
	tokenID := fmt.Sprintf("NFT#%03d", s.nextToken)
	nft := WarrantyNFT{
		ID:              fmt.Sprintf("w%d", s.nextToken),
		ProductName:     req.ProductName,
		CompanyAddress:  req.CompanyAddress,
		CustomerAddress: req.CustomerAddress,
		PurchaseDate:    today.Format(dateLayout),
		ExpiryDate:      expiry,
		Status:          NFTActive,
		TokenID:         tokenID,
		Coverage:        req.Coverage,
		Metadata:        req.Metadata,
	}
	s.minted[tokenID] = nft
	s.mu.Unlock()

	hash := newTxHash("mint", tokenID, req.CompanyAddress, req.CustomerAddress)
	s.logger.Info("warranty nft created",
		slog.String("token_id", tokenID),
		slog.String("company", req.CompanyAddress),
		slog.String("customer", req.CustomerAddress),
		slog.String("product", req.ProductName),
		slog.String("tx_hash", hash),
	)
	s.metrics.ChainLookup("create_nft", metrics.OutcomeOK)
	return Receipt{ID: tokenID, TxHash: hash}, nil
}

// TransferWarrantyNFT moves tokenID from one holder to another. Tokens not
// minted through this service are treated as externally held and only the
// transaction is simulated.
func (s *Service) TransferWarrantyNFT(_ context.Context, from, to, tokenID string) (string, error) {
	if from == "" || to == "" || tokenID == "" {
		return "", fmt.Errorf("%w: from, to and token id are required", ErrInvalidRequest)
	}

	s.mu.Lock()
	if nft, ok := s.minted[tokenID]; ok {
		if !strings.EqualFold(nft.CustomerAddress, from) {
			s.mu.Unlock()
			return "", fmt.Errorf("%w: %s", ErrNotOwner, tokenID)
		}
		nft.CustomerAddress = to
		s.minted[tokenID] = nft
	}
	s.mu.Unlock()

	hash := newTxHash("transfer", tokenID, from, to)
	s.logger.Info("warranty nft transferred",
		slog.String("token_id", tokenID),
		slog.String("from", from),
		slog.String("to", to),
		slog.String("tx_hash", hash),
	)
	s.metrics.ChainLookup("transfer_nft", metrics.OutcomeOK)
	return hash, nil
}

// VerifyWarrantyNFT returns the record behind tokenID, or nil when no token
// id is given.
func (s *Service) VerifyWarrantyNFT(_ context.Context, tokenID string) *WarrantyNFT {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return nil
	}
	s.mu.RLock()
	nft, ok := s.minted[tokenID]
	s.mu.RUnlock()
	if !ok {
		nft = fixtureWarranty(fixtureCustomerAddress, tokenID)
		nft.ID = "v1"
	}
	s.metrics.ChainLookup("verify_nft", metrics.OutcomeOK)
	return &nft
}

// CompanyProfile returns the verification record of a manufacturer.
func (s *Service) CompanyProfile(_ context.Context, address string) *CompanyProfile {
	if address == "" {
		return nil
	}
	profile := fixtureCompanyProfile(address)
	return &profile
}

// CreateServiceRequest records a repair request against a warranty token.
func (s *Service) CreateServiceRequest(_ context.Context, customer, tokenID, issue string, priority Priority) (Receipt, error) {
	if customer == "" || tokenID == "" || strings.TrimSpace(issue) == "" {
		return Receipt{}, fmt.Errorf("%w: customer, token id and issue are required", ErrInvalidRequest)
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return Receipt{}, fmt.Errorf("%w: priority %q", ErrInvalidRequest, priority)
	}

	s.mu.Lock()
	s.nextReq++
	req := ServiceRequest{
		ID:              fmt.Sprintf("sr%d", s.nextReq),
		CustomerAddress: customer,
		WarrantyTokenID: tokenID,
		Issue:           issue,
		RequestDate:     s.now().UTC().Format(dateLayout),
		Status:          RequestPending,
		Priority:        priority,
	}
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	hash := newTxHash("service_request", req.ID, customer, tokenID)
	s.logger.Info("service request created", slog.String("request_id", req.ID), slog.String("token_id", tokenID), slog.String("tx_hash", hash))
	s.metrics.ChainLookup("create_service_request", metrics.OutcomeOK)
	return Receipt{ID: req.ID, TxHash: hash}, nil
}

// ServiceRequests lists recorded service requests.
func (s *Service) ServiceRequests(_ context.Context, _ string) []ServiceRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ServiceRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// UpdateServiceRequestStatus records a status change made by a service
// center. Unknown request ids fail with ErrRequestNotFound.
func (s *Service) UpdateServiceRequestStatus(_ context.Context, center, requestID string, status RequestStatus) (string, error) {
	if requestID == "" || !status.Valid() {
		return "", fmt.Errorf("%w: request %q status %q", ErrInvalidRequest, requestID, status)
	}

	s.mu.Lock()
	found := false
	for i := range s.requests {
		if s.requests[i].ID == requestID {
			s.requests[i].Status = status
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		s.metrics.ChainLookup("update_service_request", metrics.OutcomeFailed)
		return "", fmt.Errorf("%w: %s", ErrRequestNotFound, requestID)
	}

	hash := newTxHash("service_status", requestID, center, string(status))
	s.logger.Info("service request status updated",
		slog.String("request_id", requestID),
		slog.String("service_center", center),
		slog.String("status", string(status)),
		slog.String("tx_hash", hash),
	)
	s.metrics.ChainLookup("update_service_request", metrics.OutcomeOK)
	return hash, nil
}

// TransactionStatus reports whether a simulated transaction landed.
func (s *Service) TransactionStatus(_ context.Context, txHash string) TxStatus {
	if !isTxHash(txHash) {
		return TxPending
	}
	return TxSuccess
}

// NetworkInfo summarises the ledger of the connected network, or nil when
// the node cannot be reached.
func (s *Service) NetworkInfo(ctx context.Context) *NetworkInfo {
	info, err := s.source.LedgerInfo(ctx)
	if err != nil {
		s.logger.Error("get network info", slog.Any("error", err))
		s.metrics.ChainLookup("network_info", metrics.OutcomeFailed)
		return nil
	}
	s.metrics.ChainLookup("network_info", metrics.OutcomeOK)
	return &NetworkInfo{
		ChainID:       info.ChainID,
		Epoch:         info.Epoch,
		LedgerVersion: info.LedgerVersion,
		Version:       clientVersion,
		Timestamp:     s.now().UTC().Format(time.RFC3339),
	}
}

// newTxHash produces a 0x-prefixed 32-byte hash over the operation, its
// arguments and a random nonce.
func newTxHash(op string, parts ...string) string {
	nonce := make([]byte, 16)
	_, _ = rand.Read(nonce)

	h := sha3.New256()
	h.Write([]byte(op))
	for _, p := range parts {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	h.Write(nonce)
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

func isTxHash(s string) bool {
	if len(s) != 66 || !strings.HasPrefix(s, "0x") {
		return false
	}
	_, err := hex.DecodeString(s[2:])
	return err == nil
}
