package keystore

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const (
	seedA = "0101010101010101010101010101010101010101010101010101010101010101"
	seedB = "0202020202020202020202020202020202020202020202020202020202020202"
)

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoKeys) {
		t.Fatalf("expected ErrNoKeys, got %v", err)
	}
	if _, err := New([]string{"abcd"}); !errors.Is(err, ErrInvalidSeed) {
		t.Fatalf("expected ErrInvalidSeed, got %v", err)
	}
}

func TestConnectReturnsSelectedAccount(t *testing.T) {
	ks, err := New([]string{seedA, "0x" + seedB})
	if err != nil {
		t.Fatalf("new keystore: %v", err)
	}
	account, err := ks.Connect(context.Background())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	want, _ := AccountForSeed(seedA)
	if account != want {
		t.Fatalf("expected %+v, got %+v", want, account)
	}
	if !strings.HasPrefix(account.Address, "0x") || len(account.Address) != 66 {
		t.Fatalf("unexpected address %s", account.Address)
	}
	if !ks.Connected() {
		t.Fatalf("expected connected session")
	}
	if len(ks.Accounts()) != 2 {
		t.Fatalf("expected 2 accounts")
	}
}

func TestSelectNotifiesConnectedApps(t *testing.T) {
	ks, _ := New([]string{seedA, seedB})
	var seen []*Account
	ks.OnAccountChange(func(a *Account) { seen = append(seen, a) })

	if _, err := ks.Select(1); err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(seen) != 0 {
		t.Fatalf("expected no event before connect")
	}

	_, _ = ks.Connect(context.Background())
	account, err := ks.Select(0)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(seen) != 1 || seen[0].Address != account.Address {
		t.Fatalf("expected one account change event, got %v", seen)
	}

	if _, err := ks.Select(5); !errors.Is(err, ErrNoSuchAccount) {
		t.Fatalf("expected ErrNoSuchAccount, got %v", err)
	}
}

func TestRevokeFiresDisconnectOnlyWhenConnected(t *testing.T) {
	ks, _ := New([]string{seedA})
	fired := 0
	ks.OnDisconnect(func() { fired++ })

	ks.Revoke()
	if fired != 0 {
		t.Fatalf("expected no event without a session")
	}

	_, _ = ks.Connect(context.Background())
	ks.Revoke()
	if fired != 1 || ks.Connected() {
		t.Fatalf("expected one disconnect event, got %d", fired)
	}
}

func TestDisconnectIsSilent(t *testing.T) {
	ks, _ := New([]string{seedA})
	fired := 0
	ks.OnDisconnect(func() { fired++ })
	_, _ = ks.Connect(context.Background())

	if err := ks.Disconnect(context.Background()); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if fired != 0 {
		t.Fatalf("app-initiated disconnect must not fire handlers")
	}
}

func TestLockRefusesConnect(t *testing.T) {
	ks, _ := New([]string{seedA})
	var got []*Account
	ks.OnAccountChange(func(a *Account) { got = append(got, a) })
	_, _ = ks.Connect(context.Background())

	ks.Lock()
	if len(got) != 1 || got[0] != nil {
		t.Fatalf("expected nil account event on lock, got %v", got)
	}
	if _, err := ks.Connect(context.Background()); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	ks.Unlock()
	if _, err := ks.Connect(context.Background()); err != nil {
		t.Fatalf("connect after unlock: %v", err)
	}
}

func TestGenerate(t *testing.T) {
	seed, account, err := Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	derived, err := AccountForSeed(seed)
	if err != nil {
		t.Fatalf("account for seed: %v", err)
	}
	if derived != account {
		t.Fatalf("expected %+v, got %+v", account, derived)
	}
}
