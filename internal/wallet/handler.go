package wallet

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/venkateshn67/warranty-verification/internal/blockchain"
	"github.com/venkateshn67/warranty-verification/internal/keystore"
)

// ExtensionControls simulates user actions inside the wallet extension.
// Only exposed in development.
type ExtensionControls interface {
	Accounts() []keystore.Account
	Select(index int) (keystore.Account, error)
	Revoke()
	Lock()
	Unlock()
}

// Handler exposes wallet connection HTTP endpoints.
type Handler struct {
	conn     *Connection
	controls ExtensionControls
}

// NewHandler builds a wallet HTTP handler. controls may be nil.
func NewHandler(conn *Connection, controls ExtensionControls) *Handler {
	return &Handler{conn: conn, controls: controls}
}

// HasControls reports whether extension control endpoints can be served.
func (h *Handler) HasControls() bool {
	return h.controls != nil
}

// State returns the current connection snapshot.
func (h *Handler) State(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(h.conn.Snapshot())
}

// Connect asks the extension for an account.
func (h *Handler) Connect(c *fiber.Ctx) error {
	snap, err := h.conn.Connect(c.UserContext())
	switch {
	case errors.Is(err, ErrExtensionMissing):
		return fiber.NewError(http.StatusPreconditionFailed, "wallet extension not installed")
	case errors.Is(err, ErrConnectionRejected):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case err != nil:
		return err
	}
	return c.Status(http.StatusOK).JSON(snap)
}

// Disconnect ends the session.
func (h *Handler) Disconnect(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(h.conn.Disconnect(c.UserContext()))
}

// RefreshBalance re-reads the connected account balance.
func (h *Handler) RefreshBalance(c *fiber.Ctx) error {
	snap, err := h.conn.RefreshBalance(c.UserContext())
	if errors.Is(err, ErrNotConnected) {
		return fiber.NewError(http.StatusConflict, err.Error())
	}
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(snap)
}

type roleRequest struct {
	Role string `json:"role"`
}

// SetRole overrides the displayed role.
func (h *Handler) SetRole(c *fiber.Ctx) error {
	var req roleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	snap, err := h.conn.SetRole(blockchain.Role(req.Role))
	switch {
	case errors.Is(err, blockchain.ErrUnknownRole):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotConnected):
		return fiber.NewError(http.StatusConflict, err.Error())
	case err != nil:
		return err
	}
	return c.Status(http.StatusOK).JSON(snap)
}

// Accounts lists the accounts held by the extension.
func (h *Handler) Accounts(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"accounts": h.controls.Accounts()})
}

// SelectAccount switches the extension's active account.
func (h *Handler) SelectAccount(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "account index must be an integer")
	}
	if _, err := h.controls.Select(index); err != nil {
		if errors.Is(err, keystore.ErrNoSuchAccount) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.Status(http.StatusOK).JSON(h.conn.Snapshot())
}

// Revoke ends the session from the extension side.
func (h *Handler) Revoke(c *fiber.Ctx) error {
	h.controls.Revoke()
	return c.Status(http.StatusOK).JSON(h.conn.Snapshot())
}

// Lock locks the extension.
func (h *Handler) Lock(c *fiber.Ctx) error {
	h.controls.Lock()
	return c.Status(http.StatusOK).JSON(h.conn.Snapshot())
}

// Unlock unlocks the extension.
func (h *Handler) Unlock(c *fiber.Ctx) error {
	h.controls.Unlock()
	return c.Status(http.StatusOK).JSON(h.conn.Snapshot())
}
