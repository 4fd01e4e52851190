package servicecenter

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/venkateshn67/warranty-verification/internal/blockchain"
	"github.com/venkateshn67/warranty-verification/internal/portal"
)

// Handler exposes service center HTTP endpoints.
type Handler struct {
	service *Service
	session portal.Session
}

// NewHandler builds a service center handler.
func NewHandler(service *Service, session portal.Session) *Handler {
	return &Handler{service: service, session: session}
}

// Requests lists repair requests filtered by the status query parameter.
func (h *Handler) Requests(c *fiber.Ctx) error {
	requests, err := h.service.Requests(c.UserContext(), blockchain.RequestStatus(c.Query("status")))
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"requests": requests})
}

// CreateRequest opens a repair request.
func (h *Handler) CreateRequest(c *fiber.Ctx) error {
	var in RequestInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	req, err := h.service.CreateRequest(c.UserContext(), in)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusCreated).JSON(req)
}

type statusRequest struct {
	Status blockchain.RequestStatus `json:"status"`
}

// UpdateRequestStatus moves a request along its workflow on behalf of the
// connected service center.
func (h *Handler) UpdateRequestStatus(c *fiber.Ctx) error {
	var body statusRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	req, err := h.service.UpdateRequestStatus(c.UserContext(), h.session.Address(), c.Params("id"), body.Status)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(req)
}

type verifyRequest struct {
	TokenID string `json:"tokenId"`
}

// Verify checks a warranty token and records the result.
func (h *Handler) Verify(c *fiber.Ctx) error {
	var body verifyRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	result, err := h.service.Verify(c.UserContext(), body.TokenID)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusCreated).JSON(result)
}

// Verifications lists past verification results.
func (h *Handler) Verifications(c *fiber.Ctx) error {
	verifications, err := h.service.Verifications(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"verifications": verifications})
}

// Extensions lists warranty extension requests.
func (h *Handler) Extensions(c *fiber.Ctx) error {
	extensions, err := h.service.Extensions(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"extensions": extensions})
}

// RequestExtension files a warranty extension request.
func (h *Handler) RequestExtension(c *fiber.Ctx) error {
	var in ExtensionInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	ext, err := h.service.RequestExtension(c.UserContext(), in)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusCreated).JSON(ext)
}

type decisionRequest struct {
	Status ExtensionStatus `json:"status"`
}

// DecideExtension approves or rejects a pending extension request.
func (h *Handler) DecideExtension(c *fiber.Ctx) error {
	var body decisionRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	ext, err := h.service.DecideExtension(c.UserContext(), c.Params("id"), body.Status)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(ext)
}

// Stats returns request, verification and extension counts.
func (h *Handler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(stats)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrRequestNotFound), errors.Is(err, ErrExtensionNotFound), errors.Is(err, ErrVerificationFailed),
		errors.Is(err, blockchain.ErrRequestNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidExtension), errors.Is(err, ErrTokenRequired),
		errors.Is(err, blockchain.ErrInvalidRequest):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		return fiber.NewError(http.StatusConflict, err.Error())
	default:
		return err
	}
}
