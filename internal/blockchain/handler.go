package blockchain

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes read-only network endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a network HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Network reports the ledger of the connected node.
func (h *Handler) Network(c *fiber.Ctx) error {
	info := h.service.NetworkInfo(c.UserContext())
	if info == nil {
		return fiber.NewError(http.StatusServiceUnavailable, "network unavailable")
	}
	return c.Status(http.StatusOK).JSON(info)
}

// TransactionStatus reports whether the transaction in the hash path
// parameter has landed.
func (h *Handler) TransactionStatus(c *fiber.Ctx) error {
	hash := c.Params("hash")
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"hash":   hash,
		"status": h.service.TransactionStatus(c.UserContext(), hash),
	})
}
