package portal

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/venkateshn67/warranty-verification/internal/blockchain"
)

// ErrWalletRequired is returned by portal actions that act on behalf of the
// connected account when no wallet is connected.
var ErrWalletRequired = errors.New("connected wallet required")

// Session exposes the identity of the current wallet connection.
type Session interface {
	Address() string
	Role() blockchain.Role
}

// Card is a dashboard entry pointing at a role portal.
type Card struct {
	Role        blockchain.Role `json:"role"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Path        string          `json:"path"`
}

// MenuItem is a navigation entry visible to the listed roles.
type MenuItem struct {
	Key   string            `json:"key"`
	Label string            `json:"label"`
	Roles []blockchain.Role `json:"roles"`
}

// Cards lists the dashboard role cards.
func Cards() []Card {
	return []Card{
		{Role: blockchain.RoleCompany, Title: "Company Portal", Description: "Manage products, mint warranties, and track inventory", Path: "/company"},
		{Role: blockchain.RoleSeller, Title: "Seller Portal", Description: "Sell products, manage inventory, and track performance", Path: "/seller"},
		{Role: blockchain.RoleCustomer, Title: "Customer Portal", Description: "View warranties, transfer tokens, and verify validity", Path: "/customer"},
		{Role: blockchain.RoleServiceCenter, Title: "Service Center", Description: "Verify warranties and extend coverage periods", Path: "/service-center"},
		{Role: blockchain.RoleAdmin, Title: "Admin Portal", Description: "Manage system roles, verify companies, and oversee operations", Path: "/admin"},
	}
}

func menuItems() []MenuItem {
	return []MenuItem{
		{Key: "/", Label: "Dashboard", Roles: blockchain.Roles()},
		{Key: "/company", Label: "Company Portal", Roles: []blockchain.Role{blockchain.RoleCompany, blockchain.RoleAdmin}},
		{Key: "/seller", Label: "Seller Portal", Roles: []blockchain.Role{blockchain.RoleSeller, blockchain.RoleAdmin}},
		{Key: "/customer", Label: "Customer Portal", Roles: []blockchain.Role{blockchain.RoleCustomer, blockchain.RoleAdmin}},
		{Key: "/service-center", Label: "Service Center", Roles: []blockchain.Role{blockchain.RoleServiceCenter, blockchain.RoleAdmin}},
		{Key: "/admin", Label: "Admin Portal", Roles: []blockchain.Role{blockchain.RoleAdmin}},
	}
}

// Menu returns the entries visible to role. Without a role every entry is
// shown.
func Menu(role blockchain.Role) []MenuItem {
	items := menuItems()
	if role == "" {
		return items
	}
	out := make([]MenuItem, 0, len(items))
	for _, item := range items {
		for _, r := range item.Roles {
			if r == role {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Handler serves the dashboard directory.
type Handler struct {
	session Session
}

// NewHandler builds a directory handler. session may be nil.
func NewHandler(session Session) *Handler {
	return &Handler{session: session}
}

// Cards lists the dashboard role cards.
func (h *Handler) Cards(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"portals": Cards()})
}

// Menu lists navigation entries for the role in the query string, or the
// connected wallet's role when none is given.
func (h *Handler) Menu(c *fiber.Ctx) error {
	var role blockchain.Role
	if q := c.Query("role"); q != "" {
		parsed, err := blockchain.ParseRole(q)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		role = parsed
	} else if h.session != nil {
		role = h.session.Role()
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"role": role, "items": Menu(role)})
}
