package seller

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes seller portal HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a seller portal handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Sales lists sales filtered by the status query parameter.
func (h *Handler) Sales(c *fiber.Ctx) error {
	sales, err := h.service.Sales(c.UserContext(), SaleStatus(c.Query("status")))
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"sales": sales})
}

// RecordSale records a new pending sale.
func (h *Handler) RecordSale(c *fiber.Ctx) error {
	var req SaleInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	sale, err := h.service.RecordSale(c.UserContext(), req)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusCreated).JSON(sale)
}

type statusRequest struct {
	Status SaleStatus `json:"status"`
}

// UpdateSaleStatus settles or cancels a sale.
func (h *Handler) UpdateSaleStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	sale, err := h.service.UpdateSaleStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(sale)
}

// Performance returns completed-sale totals.
func (h *Handler) Performance(c *fiber.Ctx) error {
	perf, err := h.service.Performance(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(perf)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrSaleNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidSale):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		return fiber.NewError(http.StatusConflict, err.Error())
	default:
		return err
	}
}
