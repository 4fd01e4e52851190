package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/venkateshn67/warranty-verification/internal/keystore"
)

func fakeNode(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/v1":
			_, _ = w.Write([]byte(`{"chain_id":2,"epoch":"77","ledger_version":"123456","node_role":"full_node"}`))
		case r.URL.Path == "/v1/accounts/0x5e11e7/resources":
			_, _ = w.Write([]byte(`[
				{"type":"0x1::coin::CoinStore<0x1::aptos_coin::AptosCoin>","data":{"coin":{"value":"150000000"}}},
				{"type":"0x1::warranty_roles::SellerLicenseToken","data":{}}
			]`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"account not found","error_code":"account_not_found"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestKeygenAndAddressAgree(t *testing.T) {
	out, err := run(t, "keygen")
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	var seed, address string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "seed:":
			seed = fields[1]
		case "address:":
			address = fields[1]
		}
	}
	if seed == "" || address == "" {
		t.Fatalf("unexpected keygen output %q", out)
	}

	out, err = run(t, "address", seed)
	if err != nil {
		t.Fatalf("address: %v", err)
	}
	if strings.TrimSpace(out) != address {
		t.Fatalf("expected %s, got %s", address, out)
	}

	if _, err := run(t, "address", "not-hex"); !errors.Is(err, keystore.ErrInvalidSeed) {
		t.Fatalf("expected ErrInvalidSeed, got %v", err)
	}
}

func TestBalanceAndRole(t *testing.T) {
	node := fakeNode(t)

	out, err := run(t, "--node", node.URL+"/v1", "--retries", "0", "balance", "0x5E11E7")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if strings.TrimSpace(out) != "1.5 APT" {
		t.Fatalf("unexpected balance output %q", out)
	}

	out, err = run(t, "--node", node.URL+"/v1", "--retries", "0", "role", "0x5e11e7")
	if err != nil {
		t.Fatalf("role: %v", err)
	}
	if strings.TrimSpace(out) != "seller" {
		t.Fatalf("unexpected role output %q", out)
	}

	out, err = run(t, "--node", node.URL+"/v1", "--retries", "0", "balance", "0xabc")
	if err != nil {
		t.Fatalf("balance of unknown account: %v", err)
	}
	if strings.TrimSpace(out) != "0 APT" {
		t.Fatalf("unknown accounts hold nothing, got %q", out)
	}
}

func TestNetwork(t *testing.T) {
	node := fakeNode(t)

	out, err := run(t, "--node", node.URL+"/v1", "network")
	if err != nil {
		t.Fatalf("network: %v", err)
	}
	if !strings.Contains(out, "chain id:       2") || !strings.Contains(out, "ledger version: 123456") {
		t.Fatalf("unexpected network output %q", out)
	}

	if _, err := run(t, "--node", "http://127.0.0.1:1/v1", "--retries", "0", "--timeout", "200ms", "network"); err == nil {
		t.Fatalf("expected unreachable node to fail")
	}
}
