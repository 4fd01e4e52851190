package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/venkateshn67/warranty-verification/internal/blockchain"
	"github.com/venkateshn67/warranty-verification/internal/wallet"
)

// RegisterWalletRoutes wires wallet connection endpoints. Extension controls
// are only exposed in development.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler, connectLimiter fiber.Handler, dev bool) {
	r.Get("/wallet", h.State)
	r.Post("/wallet/connect", connectLimiter, h.Connect)
	r.Post("/wallet/disconnect", h.Disconnect)
	r.Post("/wallet/balance/refresh", h.RefreshBalance)
	r.Put("/wallet/role", h.SetRole)

	if dev && h.HasControls() {
		ext := r.Group("/wallet/extension")
		ext.Get("/accounts", h.Accounts)
		ext.Post("/accounts/:index/select", h.SelectAccount)
		ext.Post("/revoke", h.Revoke)
		ext.Post("/lock", h.Lock)
		ext.Post("/unlock", h.Unlock)
	}
}

// RegisterNetworkRoutes wires network status endpoints.
func RegisterNetworkRoutes(r fiber.Router, h *blockchain.Handler) {
	r.Get("/network", h.Network)
	r.Get("/transactions/:hash/status", h.TransactionStatus)
}
