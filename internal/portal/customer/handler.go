package customer

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/venkateshn67/warranty-verification/internal/blockchain"
	"github.com/venkateshn67/warranty-verification/internal/portal"
)

// Handler exposes customer portal HTTP endpoints.
type Handler struct {
	service *Service
	session portal.Session
}

// NewHandler builds a customer portal handler.
func NewHandler(service *Service, session portal.Session) *Handler {
	return &Handler{service: service, session: session}
}

// Warranties lists held warranties filtered by the status query parameter.
func (h *Handler) Warranties(c *fiber.Ctx) error {
	warranties, err := h.service.Warranties(c.UserContext(), WarrantyStatus(c.Query("status")))
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"warranties": warranties})
}

// Transfers lists token transfers.
func (h *Handler) Transfers(c *fiber.Ctx) error {
	transfers, err := h.service.Transfers(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"transfers": transfers})
}

type transferRequest struct {
	WarrantyID string `json:"warrantyId"`
	To         string `json:"to"`
}

// Transfer sends a warranty token to another address.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	transfer, err := h.service.Transfer(c.UserContext(), h.session.Address(), req.WarrantyID, req.To)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusCreated).JSON(transfer)
}

// Stats returns warranty and transfer counts.
func (h *Handler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(stats)
}

// Verify returns the on-chain record of a token.
func (h *Handler) Verify(c *fiber.Ctx) error {
	tokenID, err := url.PathUnescape(c.Params("tokenId"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	nft, err := h.service.Verify(c.UserContext(), tokenID)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(nft)
}

// NFTs lists tokens held by the owner query parameter or the connected account.
func (h *Handler) NFTs(c *fiber.Ctx) error {
	owner := c.Query("owner", h.session.Address())
	nfts, err := h.service.NFTs(c.UserContext(), owner)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"owner": owner, "nfts": nfts})
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrWarrantyNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidDestination), errors.Is(err, ErrInvalidFilter), errors.Is(err, ErrTokenRequired),
		errors.Is(err, blockchain.ErrInvalidRequest):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrWarrantyNotTransferable), errors.Is(err, portal.ErrWalletRequired), errors.Is(err, blockchain.ErrNotOwner):
		return fiber.NewError(http.StatusConflict, err.Error())
	default:
		return err
	}
}
