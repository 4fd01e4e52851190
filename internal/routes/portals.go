package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/venkateshn67/warranty-verification/internal/portal"
	"github.com/venkateshn67/warranty-verification/internal/portal/admin"
	"github.com/venkateshn67/warranty-verification/internal/portal/company"
	"github.com/venkateshn67/warranty-verification/internal/portal/customer"
	"github.com/venkateshn67/warranty-verification/internal/portal/seller"
	"github.com/venkateshn67/warranty-verification/internal/portal/servicecenter"
)

// PortalHandlers groups the role portal handlers.
type PortalHandlers struct {
	Directory     *portal.Handler
	Company       *company.Handler
	Seller        *seller.Handler
	Customer      *customer.Handler
	ServiceCenter *servicecenter.Handler
	Admin         *admin.Handler
}

// RegisterPortalRoutes wires the role portals. Token mints and transfers
// honour Idempotency-Key through idem.
func RegisterPortalRoutes(r fiber.Router, h PortalHandlers, idem fiber.Handler) {
	r.Get("/portals", h.Directory.Cards)
	r.Get("/portals/menu", h.Directory.Menu)

	co := r.Group("/company")
	co.Get("/products", h.Company.Products)
	co.Post("/products", h.Company.AddProduct)
	co.Get("/warranties", h.Company.Warranties)
	co.Post("/warranties", idem, h.Company.MintWarranty)
	co.Get("/stats", h.Company.Stats)

	se := r.Group("/seller")
	se.Get("/sales", h.Seller.Sales)
	se.Post("/sales", h.Seller.RecordSale)
	se.Patch("/sales/:id", h.Seller.UpdateSaleStatus)
	se.Get("/performance", h.Seller.Performance)

	cu := r.Group("/customer")
	cu.Get("/warranties", h.Customer.Warranties)
	cu.Get("/transfers", h.Customer.Transfers)
	cu.Post("/transfers", idem, h.Customer.Transfer)
	cu.Get("/stats", h.Customer.Stats)
	cu.Get("/verify/:tokenId", h.Customer.Verify)
	cu.Get("/nfts", h.Customer.NFTs)

	sc := r.Group("/service-center")
	sc.Get("/requests", h.ServiceCenter.Requests)
	sc.Post("/requests", h.ServiceCenter.CreateRequest)
	sc.Patch("/requests/:id", h.ServiceCenter.UpdateRequestStatus)
	sc.Get("/verifications", h.ServiceCenter.Verifications)
	sc.Post("/verifications", h.ServiceCenter.Verify)
	sc.Get("/extensions", h.ServiceCenter.Extensions)
	sc.Post("/extensions", h.ServiceCenter.RequestExtension)
	sc.Patch("/extensions/:id", h.ServiceCenter.DecideExtension)
	sc.Get("/stats", h.ServiceCenter.Stats)

	ad := r.Group("/admin")
	ad.Get("/users", h.Admin.Users)
	ad.Patch("/users/:id", h.Admin.SetUserStatus)
	ad.Get("/companies", h.Admin.Companies)
	ad.Patch("/companies/:id", h.Admin.VerifyCompany)
	ad.Get("/metrics", h.Admin.SystemMetrics)
	ad.Get("/roles", h.Admin.RolePermissions)
	ad.Get("/company-profile/:address", h.Admin.CompanyProfile)
}
