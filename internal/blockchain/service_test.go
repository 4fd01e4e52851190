package blockchain

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/venkateshn67/warranty-verification/internal/chain"
	"github.com/venkateshn67/warranty-verification/internal/logging"
	"github.com/venkateshn67/warranty-verification/internal/metrics"
)

const testAddress = "0x00000000000000000000000000000000000000000000000000000000000000a1"

func newTestService(t *testing.T) (*Service, *Mock) {
	t.Helper()
	mock := NewMock()
	svc := NewService(mock, logging.Discard(), nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, mock
}

func TestBalanceConvertsOctas(t *testing.T) {
	svc, mock := newTestService(t)
	mock.SetBalance(testAddress, 250_000_000)

	balance, err := svc.Balance(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 2.5 {
		t.Fatalf("expected 2.5 APT, got %v", balance)
	}
}

func TestBalanceWithoutCoinStoreIsZero(t *testing.T) {
	svc, _ := newTestService(t)

	balance, err := svc.Balance(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected 0, got %v", balance)
	}
}

func TestBalanceUnknownAccountIsZero(t *testing.T) {
	svc, mock := newTestService(t)
	mock.Fail(chain.ErrAccountNotFound)

	balance, err := svc.Balance(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected 0, got %v", balance)
	}
}

func TestBalanceFailureWrapsLookupFailed(t *testing.T) {
	svc, mock := newTestService(t)
	mock.Fail(errors.New("connection refused"))

	if _, err := svc.Balance(context.Background(), testAddress); !errors.Is(err, ErrLookupFailed) {
		t.Fatalf("expected ErrLookupFailed, got %v", err)
	}
	if got := svc.AccountBalance(context.Background(), testAddress); got != 0 {
		t.Fatalf("expected defaulted balance 0, got %v", got)
	}
}

func TestResolveRolePriority(t *testing.T) {
	svc, mock := newTestService(t)
	ctx := context.Background()

	role, err := svc.ResolveRole(ctx, testAddress)
	if err != nil {
		t.Fatalf("resolve role: %v", err)
	}
	if role != RoleCustomer {
		t.Fatalf("expected customer without markers, got %s", role)
	}

	mock.GrantRole(testAddress, RoleServiceCenter)
	if role, _ = svc.ResolveRole(ctx, testAddress); role != RoleServiceCenter {
		t.Fatalf("expected service_center, got %s", role)
	}

	mock.GrantRole(testAddress, RoleSeller)
	if role, _ = svc.ResolveRole(ctx, testAddress); role != RoleSeller {
		t.Fatalf("expected seller to outrank service_center, got %s", role)
	}

	mock.GrantRole(testAddress, RoleAdmin)
	mock.GrantRole(testAddress, RoleCompany)
	if role, _ = svc.ResolveRole(ctx, testAddress); role != RoleAdmin {
		t.Fatalf("expected admin to outrank all markers, got %s", role)
	}
}

func TestUserRoleDefaultsToCustomerOnFailure(t *testing.T) {
	svc, mock := newTestService(t)
	mock.GrantRole(testAddress, RoleAdmin)
	mock.Fail(errors.New("timeout"))

	if _, err := svc.ResolveRole(context.Background(), testAddress); !errors.Is(err, ErrLookupFailed) {
		t.Fatalf("expected ErrLookupFailed, got %v", err)
	}
	if role := svc.UserRole(context.Background(), testAddress); role != RoleCustomer {
		t.Fatalf("expected customer, got %s", role)
	}
}

func TestRoleLookupsCountOnce(t *testing.T) {
	reg := metrics.New()
	mock := NewMock()
	svc := NewService(mock, logging.Discard(), reg)
	ctx := context.Background()

	if role := svc.UserRole(ctx, testAddress); role != RoleCustomer {
		t.Fatalf("expected customer, got %s", role)
	}
	mock.Fail(errors.New("timeout"))
	svc.UserRole(ctx, testAddress)
	if _, err := svc.ResolveRole(ctx, testAddress); err == nil {
		t.Fatalf("expected lookup failure")
	}

	want := `
# HELP warranty_chain_lookups_total Blockchain service calls by operation and outcome.
# TYPE warranty_chain_lookups_total counter
warranty_chain_lookups_total{operation="role",outcome="defaulted"} 1
warranty_chain_lookups_total{operation="role",outcome="failed"} 1
warranty_chain_lookups_total{operation="role",outcome="ok"} 1
`
	if err := testutil.GatherAndCompare(reg.Gatherer(), strings.NewReader(want), "warranty_chain_lookups_total"); err != nil {
		t.Fatalf("unexpected lookup counts: %v", err)
	}
}

func TestCreateAndTransferWarrantyNFT(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	receipt, err := svc.CreateWarrantyNFT(ctx, MintRequest{
		CompanyAddress:  "0xco",
		CustomerAddress: "0xalice",
		ProductName:     "Laptop Pro",
		Coverage:        "2 Years",
	})
	if err != nil {
		t.Fatalf("create nft: %v", err)
	}
	if receipt.ID != "NFT#004" {
		t.Fatalf("expected NFT#004, got %s", receipt.ID)
	}
	if !isTxHash(receipt.TxHash) {
		t.Fatalf("malformed tx hash %q", receipt.TxHash)
	}

	owned := svc.WarrantyNFTs(ctx, "0xalice")
	if len(owned) != 2 {
		t.Fatalf("expected fixture plus minted nft, got %d", len(owned))
	}
	if owned[1].ExpiryDate != "2025-03-01" {
		t.Fatalf("expected default one-year expiry, got %s", owned[1].ExpiryDate)
	}

	if _, err := svc.TransferWarrantyNFT(ctx, "0xmallory", "0xbob", receipt.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := svc.TransferWarrantyNFT(ctx, "0xalice", "0xbob", receipt.ID); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got := svc.VerifyWarrantyNFT(ctx, receipt.ID); got == nil || got.CustomerAddress != "0xbob" {
		t.Fatalf("expected token held by 0xbob, got %+v", got)
	}
}

func TestCreateWarrantyNFTValidates(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.CreateWarrantyNFT(context.Background(), MintRequest{ProductName: "x"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestVerifyWarrantyNFT(t *testing.T) {
	svc, _ := newTestService(t)

	if got := svc.VerifyWarrantyNFT(context.Background(), " "); got != nil {
		t.Fatalf("expected nil for empty token id, got %+v", got)
	}
	got := svc.VerifyWarrantyNFT(context.Background(), "NFT#777")
	if got == nil || got.TokenID != "NFT#777" || got.Status != NFTActive {
		t.Fatalf("unexpected verification %+v", got)
	}
}

func TestServiceRequestLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	receipt, err := svc.CreateServiceRequest(ctx, "0xalice", "NFT#001", "Battery drains", "")
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if receipt.ID != "sr3" {
		t.Fatalf("expected sr3 after the two recorded requests, got %s", receipt.ID)
	}

	if _, err := svc.UpdateServiceRequestStatus(ctx, "0xcenter", receipt.ID, RequestInProgress); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if _, err := svc.UpdateServiceRequestStatus(ctx, "0xcenter", receipt.ID, "lost"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if hash, err := svc.UpdateServiceRequestStatus(ctx, "0xcenter", "sr99", RequestCompleted); !errors.Is(err, ErrRequestNotFound) || hash != "" {
		t.Fatalf("expected ErrRequestNotFound without a hash, got %q %v", hash, err)
	}

	requests := svc.ServiceRequests(ctx, "0xcenter")
	if len(requests) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(requests))
	}
	last := requests[2]
	if last.Status != RequestInProgress || last.Priority != PriorityMedium {
		t.Fatalf("unexpected request %+v", last)
	}

	if _, err := svc.CreateServiceRequest(ctx, "0xalice", "NFT#001", "x", "critical"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for bad priority, got %v", err)
	}
}

func TestTransactionStatus(t *testing.T) {
	svc, _ := newTestService(t)
	hash := newTxHash("test")
	if got := svc.TransactionStatus(context.Background(), hash); got != TxSuccess {
		t.Fatalf("expected success, got %s", got)
	}
	if got := svc.TransactionStatus(context.Background(), "0xnope"); got != TxPending {
		t.Fatalf("expected pending, got %s", got)
	}
	if hash == newTxHash("test") {
		t.Fatalf("tx hashes must not repeat")
	}
}

func TestNetworkInfo(t *testing.T) {
	svc, mock := newTestService(t)

	info := svc.NetworkInfo(context.Background())
	if info == nil || info.ChainID != 2 || info.Version != clientVersion {
		t.Fatalf("unexpected network info %+v", info)
	}
	if !strings.HasPrefix(info.Timestamp, "2024-03-01T12:00:00") {
		t.Fatalf("unexpected timestamp %s", info.Timestamp)
	}

	mock.Fail(errors.New("down"))
	if info := svc.NetworkInfo(context.Background()); info != nil {
		t.Fatalf("expected nil on failure, got %+v", info)
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Service_Center ")
	if err != nil || role != RoleServiceCenter {
		t.Fatalf("expected service_center, got %s (%v)", role, err)
	}
	if _, err := ParseRole("owner"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}
