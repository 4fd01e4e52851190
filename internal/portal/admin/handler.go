package admin

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes admin portal HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an admin portal handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Users lists users matching the search query parameter.
func (h *Handler) Users(c *fiber.Ctx) error {
	users, err := h.service.Users(c.UserContext(), c.Query("search"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"users": users})
}

type userStatusRequest struct {
	Status UserStatus `json:"status"`
}

// SetUserStatus changes a user's account status.
func (h *Handler) SetUserStatus(c *fiber.Ctx) error {
	var req userStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.service.SetUserStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(user)
}

// Companies lists companies filtered by the status query parameter.
func (h *Handler) Companies(c *fiber.Ctx) error {
	companies, err := h.service.Companies(c.UserContext(), VerificationStatus(c.Query("status")))
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"companies": companies})
}

type verifyCompanyRequest struct {
	Status VerificationStatus `json:"status"`
	Notes  string             `json:"adminNotes"`
}

// VerifyCompany records a verification decision.
func (h *Handler) VerifyCompany(c *fiber.Ctx) error {
	var req verifyCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	company, err := h.service.VerifyCompany(c.UserContext(), c.Params("id"), req.Status, req.Notes)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(company)
}

func (h *Handler) SystemMetrics(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"metrics": h.service.SystemMetrics()})
}

func (h *Handler) RolePermissions(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"roles": h.service.RolePermissions()})
}

// CompanyProfile returns the on-chain record for the address path parameter.
func (h *Handler) CompanyProfile(c *fiber.Ctx) error {
	profile, err := h.service.CompanyProfile(c.UserContext(), c.Params("address"))
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(profile)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrCompanyNotFound), errors.Is(err, ErrProfileNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrAddressRequired):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
