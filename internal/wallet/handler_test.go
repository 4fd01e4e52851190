package wallet

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/venkateshn67/warranty-verification/internal/blockchain"
	"github.com/venkateshn67/warranty-verification/internal/keystore"
	"github.com/venkateshn67/warranty-verification/internal/localstore"
)

func setupHandlerApp(t *testing.T, ext Extension, controls ExtensionControls) *fiber.App {
	t.Helper()
	conn := newConnection(ext, &fakeChain{balance: 2, role: blockchain.RoleCompany}, localstore.NewMemory())
	h := NewHandler(conn, controls)

	app := fiber.New()
	app.Get("/wallet", h.State)
	app.Post("/wallet/connect", h.Connect)
	app.Post("/wallet/disconnect", h.Disconnect)
	app.Put("/wallet/role", h.SetRole)
	if h.HasControls() {
		app.Post("/wallet/extension/accounts/:index/select", h.SelectAccount)
		app.Post("/wallet/extension/revoke", h.Revoke)
	}
	return app
}

func decodeSnapshot(t *testing.T, app *fiber.App, method, path, body string, wantStatus int) Snapshot {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d got %d", method, path, wantStatus, resp.StatusCode)
	}
	var snap Snapshot
	if wantStatus < 300 {
		if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return snap
}

func TestHandlerConnectWithoutExtension(t *testing.T) {
	app := setupHandlerApp(t, nil, nil)
	decodeSnapshot(t, app, fiber.MethodPost, "/wallet/connect", "", fiber.StatusPreconditionFailed)
}

func TestHandlerConnectRejected(t *testing.T) {
	app := setupHandlerApp(t, &fakeExtension{}, nil)
	decodeSnapshot(t, app, fiber.MethodPost, "/wallet/connect", "", fiber.StatusForbidden)
}

func TestHandlerConnectFlow(t *testing.T) {
	app := setupHandlerApp(t, &fakeExtension{account: keystore.Account{Address: "0xabc"}}, nil)

	snap := decodeSnapshot(t, app, fiber.MethodPost, "/wallet/connect", "", fiber.StatusOK)
	if !snap.IsConnected || snap.UserRole != blockchain.RoleCompany || snap.AccountBalance != 2 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	decodeSnapshot(t, app, fiber.MethodPut, "/wallet/role", `{"role":"pirate"}`, fiber.StatusBadRequest)
	snap = decodeSnapshot(t, app, fiber.MethodPut, "/wallet/role", `{"role":"admin"}`, fiber.StatusOK)
	if snap.UserRole != blockchain.RoleAdmin {
		t.Fatalf("expected admin override, got %s", snap.UserRole)
	}

	snap = decodeSnapshot(t, app, fiber.MethodPost, "/wallet/disconnect", "", fiber.StatusOK)
	if snap.IsConnected || snap.Address != "" {
		t.Fatalf("expected cleared snapshot, got %+v", snap)
	}
	decodeSnapshot(t, app, fiber.MethodPut, "/wallet/role", `{"role":"admin"}`, fiber.StatusConflict)
}

func TestHandlerExtensionControls(t *testing.T) {
	ks, err := keystore.New([]string{
		"0101010101010101010101010101010101010101010101010101010101010101",
		"0202020202020202020202020202020202020202020202020202020202020202",
	})
	if err != nil {
		t.Fatalf("keystore: %v", err)
	}
	app := setupHandlerApp(t, ks, ks)

	first := decodeSnapshot(t, app, fiber.MethodPost, "/wallet/connect", "", fiber.StatusOK)
	switched := decodeSnapshot(t, app, fiber.MethodPost, "/wallet/extension/accounts/1/select", "", fiber.StatusOK)
	if switched.Address == first.Address || !switched.IsConnected {
		t.Fatalf("expected switched account, got %+v", switched)
	}
	decodeSnapshot(t, app, fiber.MethodPost, "/wallet/extension/accounts/9/select", "", fiber.StatusNotFound)

	revoked := decodeSnapshot(t, app, fiber.MethodPost, "/wallet/extension/revoke", "", fiber.StatusOK)
	if revoked.IsConnected {
		t.Fatalf("expected revoke to disconnect")
	}
}
