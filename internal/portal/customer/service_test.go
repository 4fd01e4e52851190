package customer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/venkateshn67/warranty-verification/internal/blockchain"
	"github.com/venkateshn67/warranty-verification/internal/logging"
	"github.com/venkateshn67/warranty-verification/internal/notification"
	"github.com/venkateshn67/warranty-verification/internal/portal"
	"github.com/venkateshn67/warranty-verification/internal/store"
)

type recordingNotifier struct {
	messages []notification.Message
}

func (r *recordingNotifier) Send(_ context.Context, m notification.Message) error {
	r.messages = append(r.messages, m)
	return nil
}

type failingChain struct {
	*blockchain.Service
}

func (failingChain) TransferWarrantyNFT(context.Context, string, string, string) (string, error) {
	return "", blockchain.ErrLookupFailed
}

func newTestService(t *testing.T, chain Chain) (*Service, *recordingNotifier) {
	t.Helper()
	if chain == nil {
		chain = blockchain.NewService(blockchain.NewMock(), logging.Discard(), nil)
	}
	notifier := &recordingNotifier{}
	svc := NewService(store.NewMemory(), chain, notifier, logging.Discard(), nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	return svc, notifier
}

func TestSeededWarrantiesAndStats(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	active, err := svc.Warranties(ctx, WarrantyActive)
	if err != nil {
		t.Fatalf("warranties: %v", err)
	}
	if len(active) != 2 || active[0].TokenID != "NFT#001" || active[1].TokenID != "NFT#002" {
		t.Fatalf("unexpected active warranties %+v", active)
	}
	if _, err := svc.Warranties(ctx, "lost"); !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := Stats{TotalWarranties: 3, ActiveWarranties: 2, ExpiredWarranties: 1, CompletedTransfers: 1}
	if stats != want {
		t.Fatalf("expected %+v, got %+v", want, stats)
	}
}

func TestTransferRecordsPendingTransfer(t *testing.T) {
	svc, notifier := newTestService(t, nil)
	ctx := context.Background()

	transfer, err := svc.Transfer(ctx, "0xowner", "w2", " 0xfriend ")
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if transfer.Status != TransferPending || transfer.To != "0xfriend" || transfer.TokenID != "NFT#002" {
		t.Fatalf("unexpected transfer %+v", transfer)
	}
	if transfer.Date != "2024-03-01" || !strings.HasPrefix(transfer.TxHash, "0x") {
		t.Fatalf("expected dated transfer with tx hash, got %+v", transfer)
	}

	transfers, _ := svc.Transfers(ctx)
	if len(transfers) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(transfers))
	}
	stats, _ := svc.Stats(ctx)
	if stats.CompletedTransfers != 1 {
		t.Fatalf("pending transfer must not count as completed, got %d", stats.CompletedTransfers)
	}
	if len(notifier.messages) != 1 || notifier.messages[0].Destination != "0xfriend" {
		t.Fatalf("expected notification to recipient, got %+v", notifier.messages)
	}
}

func TestTransferRejections(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	cases := []struct {
		name         string
		from, id, to string
		want         error
	}{
		{"no wallet", "", "w1", "0xfriend", portal.ErrWalletRequired},
		{"empty destination", "0xowner", "w1", "  ", ErrInvalidDestination},
		{"self", "0xOwner", "w1", "0xowner", ErrInvalidDestination},
		{"unknown", "0xowner", "w9", "0xfriend", ErrWarrantyNotFound},
		{"expired", "0xowner", "w3", "0xfriend", ErrWarrantyNotTransferable},
	}
	for _, tc := range cases {
		if _, err := svc.Transfer(ctx, tc.from, tc.id, tc.to); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
	transfers, _ := svc.Transfers(ctx)
	if len(transfers) != 1 {
		t.Fatalf("rejected transfers must not be recorded, got %d", len(transfers))
	}
}

func TestTransferChainFailureIsRecorded(t *testing.T) {
	chain := failingChain{blockchain.NewService(blockchain.NewMock(), logging.Discard(), nil)}
	svc, notifier := newTestService(t, chain)
	ctx := context.Background()

	transfer, err := svc.Transfer(ctx, "0xowner", "w1", "0xfriend")
	if !errors.Is(err, blockchain.ErrLookupFailed) {
		t.Fatalf("expected chain error, got %v", err)
	}
	if transfer.Status != TransferFailed {
		t.Fatalf("expected failed transfer, got %+v", transfer)
	}
	transfers, _ := svc.Transfers(ctx)
	if len(transfers) != 2 || transfers[1].Status != TransferFailed {
		t.Fatalf("expected failed transfer recorded, got %+v", transfers)
	}
	if len(notifier.messages) != 0 {
		t.Fatalf("failed transfer must not notify, got %+v", notifier.messages)
	}
}

func TestVerifyAndNFTs(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	nft, err := svc.Verify(ctx, "NFT#002")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if nft.TokenID != "NFT#002" || nft.Status != blockchain.NFTActive {
		t.Fatalf("unexpected nft %+v", nft)
	}
	if _, err := svc.Verify(ctx, " "); !errors.Is(err, ErrTokenRequired) {
		t.Fatalf("expected ErrTokenRequired, got %v", err)
	}

	nfts, err := svc.NFTs(ctx, "0xowner")
	if err != nil {
		t.Fatalf("nfts: %v", err)
	}
	if len(nfts) != 1 || nfts[0].CustomerAddress != "0xowner" {
		t.Fatalf("unexpected nfts %+v", nfts)
	}
	if _, err := svc.NFTs(ctx, ""); !errors.Is(err, portal.ErrWalletRequired) {
		t.Fatalf("expected ErrWalletRequired, got %v", err)
	}
}

type stubSession struct{ address string }

func (s stubSession) Address() string       { return s.address }
func (s stubSession) Role() blockchain.Role { return blockchain.RoleCustomer }

func TestHandlerTransferStatusCodes(t *testing.T) {
	svc, _ := newTestService(t, nil)
	app := fiber.New()
	app.Post("/customer/transfers", NewHandler(svc, stubSession{address: "0xowner"}).Transfer)

	cases := []struct {
		body string
		want int
	}{
		{`{"warrantyId":"w1","to":"0xfriend"}`, fiber.StatusCreated},
		{`{"warrantyId":"w3","to":"0xfriend"}`, fiber.StatusConflict},
		{`{"warrantyId":"w9","to":"0xfriend"}`, fiber.StatusNotFound},
		{`{"warrantyId":"w1"}`, fiber.StatusBadRequest},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(fiber.MethodPost, "/customer/transfers", strings.NewReader(tc.body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != tc.want {
			t.Fatalf("body %s: expected %d got %d", tc.body, tc.want, resp.StatusCode)
		}
	}
}

func TestHandlerNFTsUsesSessionAddress(t *testing.T) {
	svc, _ := newTestService(t, nil)
	app := fiber.New()
	h := NewHandler(svc, stubSession{address: "0xowner"})
	app.Get("/customer/nfts", h.NFTs)
	app.Get("/customer/verify/:tokenId", h.Verify)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/customer/nfts", nil))
	if err != nil {
		t.Fatalf("nfts request: %v", err)
	}
	var body struct {
		Owner string                   `json:"owner"`
		NFTs  []blockchain.WarrantyNFT `json:"nfts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Owner != "0xowner" || len(body.NFTs) != 1 {
		t.Fatalf("unexpected body %+v", body)
	}

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/customer/verify/NFT%23001", nil))
	if err != nil {
		t.Fatalf("verify request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
