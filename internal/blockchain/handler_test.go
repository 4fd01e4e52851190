package blockchain

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/venkateshn67/warranty-verification/internal/logging"
)

func TestHandlerNetwork(t *testing.T) {
	mock := NewMock()
	app := fiber.New()
	app.Get("/network", NewHandler(NewService(mock, logging.Discard(), nil)).Network)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/network", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	var info NetworkInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK || info.ChainID != 2 || info.Version != "1.0.0" {
		t.Fatalf("unexpected response %d %+v", resp.StatusCode, info)
	}

	mock.Fail(errors.New("node down"))
	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/network", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

func TestHandlerTransactionStatus(t *testing.T) {
	svc := NewService(NewMock(), logging.Discard(), nil)
	app := fiber.New()
	app.Get("/transactions/:hash/status", NewHandler(svc).TransactionStatus)

	hash := newTxHash("test")
	cases := map[string]TxStatus{
		hash:     TxSuccess,
		"0x1234": TxPending,
	}
	for h, want := range cases {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/transactions/"+h+"/status", nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		var body struct {
			Status TxStatus `json:"status"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Status != want {
			t.Fatalf("%s: expected %s, got %s", h, want, body.Status)
		}
	}
}
