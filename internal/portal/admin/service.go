package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/venkateshn67/warranty-verification/internal/blockchain"
	"github.com/venkateshn67/warranty-verification/internal/logging"
	"github.com/venkateshn67/warranty-verification/internal/metrics"
	"github.com/venkateshn67/warranty-verification/internal/notification"
	"github.com/venkateshn67/warranty-verification/internal/store"
)

const portalName = "admin"

// ProfileSource reads company verification records from chain.
type ProfileSource interface {
	CompanyProfile(ctx context.Context, address string) *blockchain.CompanyProfile
}

// Service administers users and company verification.
type Service struct {
	users     *store.Bucket[User]
	companies *store.Bucket[Company]
	profiles  ProfileSource
	notifier  notification.Notifier
	logger    *slog.Logger
	metrics   *metrics.Registry
}

// NewService wires the admin portal on backend.
func NewService(backend store.Backend, profiles ProfileSource, notifier notification.Notifier, logger *slog.Logger, reg *metrics.Registry) *Service {
	return &Service{
		users:     store.NewBucket(backend, "admin.users", seedUsers),
		companies: store.NewBucket(backend, "admin.companies", seedCompanies),
		profiles:  profiles,
		notifier:  notifier,
		logger:    logging.Component(logger, "portal.admin"),
		metrics:   reg,
	}
}

// Users lists users whose username, email or role contains search,
// ignoring case. An empty search returns everyone.
func (s *Service) Users(ctx context.Context, search string) ([]User, error) {
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, err
	}
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return users, nil
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Username), term) ||
			strings.Contains(strings.ToLower(u.Email), term) ||
			strings.Contains(strings.ToLower(string(u.Role)), term) {
			out = append(out, u)
		}
	}
	return out, nil
}

// SetUserStatus activates, suspends or resets a user.
func (s *Service) SetUserStatus(ctx context.Context, id string, status UserStatus) (User, error) {
	if !status.valid() {
		return User{}, fmt.Errorf("%w: user status %q", ErrInvalidStatus, status)
	}
	var updated User
	if _, err := s.users.Update(ctx, func(cur []User) ([]User, error) {
		next := make([]User, len(cur))
		copy(next, cur)
		for i := range next {
			if next[i].ID == id {
				next[i].Status = status
				updated = next[i]
				return next, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}); err != nil {
		return User{}, err
	}

	s.metrics.PortalMutation(portalName, "set_user_status")
	s.logger.Info("user status changed", slog.String("user_id", id), slog.String("status", string(status)))
	notification.Notify(ctx, s.notifier, s.logger, notification.Message{
		Kind:        notification.KindUserStatusChanged,
		Destination: updated.Email,
		Body:        fmt.Sprintf("Your account is now %s", status),
	})
	return updated, nil
}

// Companies lists companies, optionally only those in status.
func (s *Service) Companies(ctx context.Context, status VerificationStatus) ([]Company, error) {
	if status != "" && !status.valid() {
		return nil, fmt.Errorf("%w: verification status %q", ErrInvalidStatus, status)
	}
	companies, err := s.companies.All(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return companies, nil
	}
	out := make([]Company, 0, len(companies))
	for _, c := range companies {
		if c.VerificationStatus == status {
			out = append(out, c)
		}
	}
	return out, nil
}

// VerifyCompany records a verification decision and the reviewer's notes.
// A decision may be revisited.
func (s *Service) VerifyCompany(ctx context.Context, id string, decision VerificationStatus, notes string) (Company, error) {
	if decision != VerificationVerified && decision != VerificationRejected {
		return Company{}, fmt.Errorf("%w: decision %q", ErrInvalidStatus, decision)
	}
	var updated Company
	if _, err := s.companies.Update(ctx, func(cur []Company) ([]Company, error) {
		next := make([]Company, len(cur))
		copy(next, cur)
		for i := range next {
			if next[i].ID == id {
				next[i].VerificationStatus = decision
				next[i].AdminNotes = strings.TrimSpace(notes)
				updated = next[i]
				return next, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrCompanyNotFound, id)
	}); err != nil {
		return Company{}, err
	}

	s.metrics.PortalMutation(portalName, "verify_company")
	s.logger.Info("company verification decided", slog.String("company_id", id), slog.String("decision", string(decision)))
	notification.Notify(ctx, s.notifier, s.logger, notification.Message{
		Kind:        notification.KindCompanyVerified,
		Destination: updated.Name,
		Body:        fmt.Sprintf("Verification of %s was %s", updated.Name, decision),
	})
	return updated, nil
}

// CompanyProfile reads the on-chain verification record for address.
func (s *Service) CompanyProfile(ctx context.Context, address string) (blockchain.CompanyProfile, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return blockchain.CompanyProfile{}, ErrAddressRequired
	}
	profile := s.profiles.CompanyProfile(ctx, address)
	if profile == nil {
		return blockchain.CompanyProfile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, address)
	}
	return *profile, nil
}

// SystemMetrics returns the headline platform figures.
func (s *Service) SystemMetrics() []SystemMetric {
	return systemMetrics()
}

// RolePermissions returns the capabilities of each managed role.
func (s *Service) RolePermissions() []RolePermission {
	return rolePermissions()
}
