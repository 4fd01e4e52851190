package seller

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/venkateshn67/warranty-verification/internal/logging"
	"github.com/venkateshn67/warranty-verification/internal/store"
)

func newTestService() *Service {
	return NewService(store.NewMemory(), nil, logging.Discard(), nil)
}

func TestSeededPerformance(t *testing.T) {
	perf, err := newTestService().Performance(context.Background())
	if err != nil {
		t.Fatalf("performance: %v", err)
	}
	want := Performance{TotalSales: 2, TotalRevenue: 2499.98, TotalCommission: 249.98, AverageRating: 4.7}
	if perf != want {
		t.Fatalf("expected %+v, got %+v", want, perf)
	}
}

func TestRecordSaleAndSettle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	sale, err := svc.RecordSale(ctx, SaleInput{ProductName: "Laptop Pro", CustomerAddress: "0xabc", Price: 1499.99})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if sale.Status != SalePending || sale.Commission != 149.99 {
		t.Fatalf("unexpected sale %+v", sale)
	}

	pending, _ := svc.Sales(ctx, SalePending)
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending sale, got %d", len(pending))
	}
	perf, _ := svc.Performance(ctx)
	if perf.TotalSales != 2 {
		t.Fatalf("pending sales must not count, got %d", perf.TotalSales)
	}

	if _, err := svc.UpdateSaleStatus(ctx, sale.ID, SaleCompleted); err != nil {
		t.Fatalf("complete sale: %v", err)
	}
	perf, _ = svc.Performance(ctx)
	if perf.TotalSales != 3 || perf.TotalRevenue != 3999.97 {
		t.Fatalf("unexpected performance %+v", perf)
	}

	if _, err := svc.UpdateSaleStatus(ctx, sale.ID, SaleCancelled); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.UpdateSaleStatus(ctx, "missing", SaleCompleted); !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("expected ErrSaleNotFound, got %v", err)
	}
}

func TestRecordSaleValidation(t *testing.T) {
	svc := newTestService()
	if _, err := svc.RecordSale(context.Background(), SaleInput{ProductName: "x", CustomerAddress: "0xabc"}); !errors.Is(err, ErrInvalidSale) {
		t.Fatalf("expected ErrInvalidSale, got %v", err)
	}
	if _, err := svc.Sales(context.Background(), "refunded"); !errors.Is(err, ErrInvalidSale) {
		t.Fatalf("expected ErrInvalidSale for unknown filter, got %v", err)
	}
}

func TestCommissionTruncatesToCents(t *testing.T) {
	cases := map[float64]float64{999.99: 99.99, 30: 3, 0.05: 0, 12.34: 1.23}
	for price, want := range cases {
		if got := commissionFor(price); got != want {
			t.Fatalf("price %v: expected %v got %v", price, want, got)
		}
	}
}

func TestHandlerStatusTransitions(t *testing.T) {
	h := NewHandler(newTestService())
	app := fiber.New()
	app.Patch("/seller/sales/:id", h.UpdateSaleStatus)

	req := httptest.NewRequest(fiber.MethodPatch, "/seller/sales/s1", strings.NewReader(`{"status":"cancelled"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409 for completed sale, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(fiber.MethodPatch, "/seller/sales/nope", strings.NewReader(`{"status":"completed"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, _ = app.Test(req)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
