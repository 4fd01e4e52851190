package company

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/venkateshn67/warranty-verification/internal/blockchain"
	"github.com/venkateshn67/warranty-verification/internal/portal"
)

// Handler exposes company portal HTTP endpoints.
type Handler struct {
	service *Service
	session portal.Session
}

// NewHandler builds a company portal handler.
func NewHandler(service *Service, session portal.Session) *Handler {
	return &Handler{service: service, session: session}
}

// Products lists the catalogue.
func (h *Handler) Products(c *fiber.Ctx) error {
	products, err := h.service.Products(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"products": products})
}

// AddProduct creates a product.
func (h *Handler) AddProduct(c *fiber.Ctx) error {
	var req ProductInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	product, err := h.service.AddProduct(c.UserContext(), req)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusCreated).JSON(product)
}

// Warranties lists issued warranties.
func (h *Handler) Warranties(c *fiber.Ctx) error {
	warranties, err := h.service.Warranties(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"warranties": warranties})
}

type mintRequest struct {
	ProductID       string `json:"productId"`
	CustomerAddress string `json:"customerAddress"`
}

// MintWarranty issues a warranty from the connected company account.
func (h *Handler) MintWarranty(c *fiber.Ctx) error {
	var req mintRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	warranty, err := h.service.MintWarranty(c.UserContext(), h.session.Address(), req.ProductID, req.CustomerAddress)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusCreated).JSON(warranty)
}

// Stats returns catalogue totals.
func (h *Handler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(stats)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrProductNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidProduct), errors.Is(err, ErrInvalidCustomer), errors.Is(err, blockchain.ErrInvalidRequest):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, portal.ErrWalletRequired):
		return fiber.NewError(http.StatusConflict, err.Error())
	default:
		return err
	}
}
