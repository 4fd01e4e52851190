package chain

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ed25519Scheme is the single-signer authentication scheme byte.
const ed25519Scheme byte = 0x00

// NormalizeAddress lower-cases an account address and ensures the 0x prefix.
// It does not pad short addresses.
func NormalizeAddress(addr string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(addr))
	trimmed = strings.TrimPrefix(trimmed, "0x")
	if trimmed == "" || len(trimmed) > 64 {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	for _, r := range trimmed {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return "", fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
		}
	}
	return "0x" + trimmed, nil
}

// DeriveAddress computes the account address of a single ed25519 key:
// sha3-256(public key || scheme).
func DeriveAddress(pub ed25519.PublicKey) string {
	buf := make([]byte, 0, len(pub)+1)
	buf = append(buf, pub...)
	buf = append(buf, ed25519Scheme)
	sum := sha3.Sum256(buf)
	return "0x" + hex.EncodeToString(sum[:])
}

// ShortenAddress renders an address as 0x1234...cdef for display.
func ShortenAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
