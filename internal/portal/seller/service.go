package seller

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/venkateshn67/warranty-verification/internal/logging"
	"github.com/venkateshn67/warranty-verification/internal/metrics"
	"github.com/venkateshn67/warranty-verification/internal/notification"
	"github.com/venkateshn67/warranty-verification/internal/store"
)

const (
	portalName     = "seller"
	commissionRate = 0.10
)

// Service tracks the seller's sales.
type Service struct {
	sales    *store.Bucket[Sale]
	notifier notification.Notifier
	logger   *slog.Logger
	metrics  *metrics.Registry
	now      func() time.Time
}

// NewService wires the seller portal on backend.
func NewService(backend store.Backend, notifier notification.Notifier, logger *slog.Logger, reg *metrics.Registry) *Service {
	return &Service{
		sales:    store.NewBucket(backend, "seller.sales", seedSales),
		notifier: notifier,
		logger:   logging.Component(logger, "portal.seller"),
		metrics:  reg,
		now:      time.Now,
	}
}

// Sales lists sales, optionally only those in status.
func (s *Service) Sales(ctx context.Context, status SaleStatus) ([]Sale, error) {
	if status != "" && !status.valid() {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidSale, status)
	}
	sales, err := s.sales.All(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return sales, nil
	}
	out := make([]Sale, 0, len(sales))
	for _, sale := range sales {
		if sale.Status == status {
			out = append(out, sale)
		}
	}
	return out, nil
}

// Performance computes totals over completed sales.
func (s *Service) Performance(ctx context.Context) (Performance, error) {
	sales, err := s.sales.All(ctx)
	if err != nil {
		return Performance{}, err
	}
	perf := Performance{AverageRating: averageRating}
	for _, sale := range sales {
		if sale.Status != SaleCompleted {
			continue
		}
		perf.TotalSales++
		perf.TotalRevenue += sale.Price
		perf.TotalCommission += sale.Commission
	}
	perf.TotalRevenue = roundCents(perf.TotalRevenue)
	perf.TotalCommission = roundCents(perf.TotalCommission)
	return perf, nil
}

// RecordSale appends a pending sale earning the standard commission.
func (s *Service) RecordSale(ctx context.Context, in SaleInput) (Sale, error) {
	in.ProductName = strings.TrimSpace(in.ProductName)
	in.CustomerAddress = strings.TrimSpace(in.CustomerAddress)
	if in.ProductName == "" || in.CustomerAddress == "" {
		return Sale{}, fmt.Errorf("%w: product and customer are required", ErrInvalidSale)
	}
	if in.Price <= 0 {
		return Sale{}, fmt.Errorf("%w: price must be positive", ErrInvalidSale)
	}

	sale := Sale{
		ID:              "s" + uuid.NewString(),
		ProductName:     in.ProductName,
		CustomerAddress: in.CustomerAddress,
		SaleDate:        s.now().UTC().Format("2006-01-02"),
		Price:           in.Price,
		Commission:      commissionFor(in.Price),
		Status:          SalePending,
	}
	if _, err := s.sales.Update(ctx, func(cur []Sale) ([]Sale, error) {
		next := make([]Sale, 0, len(cur)+1)
		next = append(next, cur...)
		return append(next, sale), nil
	}); err != nil {
		return Sale{}, err
	}

	s.metrics.PortalMutation(portalName, "record_sale")
	s.logger.Info("sale recorded", slog.String("sale_id", sale.ID), slog.Float64("price", sale.Price))
	notification.Notify(ctx, s.notifier, s.logger, notification.Message{
		Kind:        notification.KindSaleRecorded,
		Destination: sale.CustomerAddress,
		Body:        fmt.Sprintf("Purchase of %s recorded", sale.ProductName),
	})
	return sale, nil
}

// UpdateSaleStatus settles or cancels a pending sale.
func (s *Service) UpdateSaleStatus(ctx context.Context, id string, status SaleStatus) (Sale, error) {
	var updated Sale
	_, err := s.sales.Update(ctx, func(cur []Sale) ([]Sale, error) {
		next := make([]Sale, len(cur))
		copy(next, cur)
		for i := range next {
			if next[i].ID != id {
				continue
			}
			if next[i].Status != SalePending || (status != SaleCompleted && status != SaleCancelled) {
				return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, next[i].Status, status)
			}
			next[i].Status = status
			updated = next[i]
			return next, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrSaleNotFound, id)
	})
	if err != nil {
		return Sale{}, err
	}
	s.metrics.PortalMutation(portalName, "update_sale_status")
	s.logger.Info("sale status updated", slog.String("sale_id", id), slog.String("status", string(status)))
	return updated, nil
}

// commissionFor truncates the commission to whole cents.
func commissionFor(price float64) float64 {
	return math.Floor(price*commissionRate*100+1e-6) / 100
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
