package company

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/venkateshn67/warranty-verification/internal/blockchain"
	"github.com/venkateshn67/warranty-verification/internal/logging"
	"github.com/venkateshn67/warranty-verification/internal/metrics"
	"github.com/venkateshn67/warranty-verification/internal/notification"
	"github.com/venkateshn67/warranty-verification/internal/portal"
	"github.com/venkateshn67/warranty-verification/internal/store"
)

const (
	portalName   = "company"
	dateLayout   = "2006-01-02"
	daysPerMonth = 30
)

// Minter creates warranty tokens on chain.
type Minter interface {
	CreateWarrantyNFT(ctx context.Context, req blockchain.MintRequest) (blockchain.Receipt, error)
}

// Service manages the company catalogue and the warranties it issues.
type Service struct {
	products   *store.Bucket[Product]
	warranties *store.Bucket[Warranty]
	chain      Minter
	notifier   notification.Notifier
	logger     *slog.Logger
	metrics    *metrics.Registry
	now        func() time.Time
}

// NewService wires the company portal on backend.
func NewService(backend store.Backend, chain Minter, notifier notification.Notifier, logger *slog.Logger, reg *metrics.Registry) *Service {
	return &Service{
		products:   store.NewBucket(backend, "company.products", seedProducts),
		warranties: store.NewBucket(backend, "company.warranties", seedWarranties),
		chain:      chain,
		notifier:   notifier,
		logger:     logging.Component(logger, "portal.company"),
		metrics:    reg,
		now:        time.Now,
	}
}

// Products lists the catalogue.
func (s *Service) Products(ctx context.Context) ([]Product, error) {
	return s.products.All(ctx)
}

// Warranties lists issued warranties.
func (s *Service) Warranties(ctx context.Context) ([]Warranty, error) {
	return s.warranties.All(ctx)
}

// Stats aggregates catalogue and warranty counts.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	products, err := s.products.All(ctx)
	if err != nil {
		return Stats{}, err
	}
	warranties, err := s.warranties.All(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{TotalProducts: len(products)}
	for _, p := range products {
		stats.TotalStock += p.Stock
		stats.InventoryValue += p.Price * float64(p.Stock)
		stats.MintedWarranties += p.MintedWarranties
	}
	for _, w := range warranties {
		if w.Status == WarrantyActive {
			stats.ActiveWarranties++
		}
	}
	return stats, nil
}

// AddProduct validates and appends a product with no minted warranties.
func (s *Service) AddProduct(ctx context.Context, in ProductInput) (Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	switch {
	case in.Name == "" || in.Category == "":
		return Product{}, fmt.Errorf("%w: name and category are required", ErrInvalidProduct)
	case in.Price < 0:
		return Product{}, fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	case in.WarrantyPeriod <= 0:
		return Product{}, fmt.Errorf("%w: warranty period must be positive", ErrInvalidProduct)
	case in.Stock < 0:
		return Product{}, fmt.Errorf("%w: stock must not be negative", ErrInvalidProduct)
	}

	product := Product{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Description:    in.Description,
		Category:       in.Category,
		Price:          in.Price,
		WarrantyPeriod: in.WarrantyPeriod,
		Stock:          in.Stock,
	}
	if _, err := s.products.Update(ctx, func(cur []Product) ([]Product, error) {
		next := make([]Product, 0, len(cur)+1)
		next = append(next, cur...)
		return append(next, product), nil
	}); err != nil {
		return Product{}, err
	}

	s.metrics.PortalMutation(portalName, "add_product")
	s.logger.Info("product added", slog.String("product_id", product.ID), slog.String("name", product.Name))
	return product, nil
}

// MintWarranty issues a warranty for productID to customerAddress on
// behalf of companyAddress.
func (s *Service) MintWarranty(ctx context.Context, companyAddress, productID, customerAddress string) (Warranty, error) {
	customerAddress = strings.TrimSpace(customerAddress)
	if companyAddress == "" {
		return Warranty{}, portal.ErrWalletRequired
	}
	if customerAddress == "" {
		return Warranty{}, ErrInvalidCustomer
	}

	products, err := s.products.All(ctx)
	if err != nil {
		return Warranty{}, err
	}
	var product *Product
	for i := range products {
		if products[i].ID == productID {
			product = &products[i]
			break
		}
	}
	if product == nil {
		return Warranty{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	issued := s.now().UTC()
	expiry := issued.AddDate(0, 0, product.WarrantyPeriod*daysPerMonth)

	receipt, err := s.chain.CreateWarrantyNFT(ctx, blockchain.MintRequest{
		CompanyAddress:  companyAddress,
		CustomerAddress: customerAddress,
		ProductName:     product.Name,
		Coverage:        fmt.Sprintf("%d Months", product.WarrantyPeriod),
		ExpiryDate:      expiry.Format(dateLayout),
	})
	if err != nil {
		return Warranty{}, fmt.Errorf("mint warranty nft: %w", err)
	}

	warranty := Warranty{
		ID:              "w" + uuid.NewString(),
		ProductID:       product.ID,
		ProductName:     product.Name,
		CustomerAddress: customerAddress,
		IssueDate:       issued.Format(dateLayout),
		ExpiryDate:      expiry.Format(dateLayout),
		Status:          WarrantyActive,
		TokenID:         receipt.ID,
		TxHash:          receipt.TxHash,
	}
	if _, err := s.warranties.Update(ctx, func(cur []Warranty) ([]Warranty, error) {
		next := make([]Warranty, 0, len(cur)+1)
		next = append(next, cur...)
		return append(next, warranty), nil
	}); err != nil {
		return Warranty{}, err
	}
	if _, err := s.products.Update(ctx, func(cur []Product) ([]Product, error) {
		next := make([]Product, len(cur))
		for i, p := range cur {
			if p.ID == productID {
				p.MintedWarranties++
			}
			next[i] = p
		}
		return next, nil
	}); err != nil {
		return Warranty{}, err
	}

	s.metrics.PortalMutation(portalName, "mint_warranty")
	s.logger.Info("warranty minted",
		slog.String("product_id", product.ID),
		slog.String("customer", customerAddress),
		slog.String("token_id", receipt.ID),
		slog.String("tx_hash", receipt.TxHash),
	)
	notification.Notify(ctx, s.notifier, s.logger, notification.Message{
		Kind:        notification.KindWarrantyMinted,
		Destination: customerAddress,
		Body:        fmt.Sprintf("Warranty %s for %s minted", receipt.ID, product.Name),
	})
	return warranty, nil
}
