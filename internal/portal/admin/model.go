package admin

import (
	"errors"

	"github.com/venkateshn67/warranty-verification/internal/blockchain"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrCompanyNotFound = errors.New("company not found")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrAddressRequired = errors.New("company address is required")
	ErrProfileNotFound = errors.New("company profile not found")
)

// UserStatus is the account state of a platform user.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
	UserPending   UserStatus = "pending"
)

func (s UserStatus) valid() bool {
	switch s {
	case UserActive, UserSuspended, UserPending:
		return true
	}
	return false
}

// User is a registered platform participant.
type User struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Role      blockchain.Role `json:"role"`
	Status    UserStatus      `json:"status"`
	JoinDate  string          `json:"joinDate"`
	LastLogin string          `json:"lastLogin"`
}

// VerificationStatus is the review state of a company.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

func (s VerificationStatus) valid() bool {
	switch s {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// Company is a manufacturer applying for verification.
type Company struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Address            string             `json:"address"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	Documents          []string           `json:"documents"`
	RequestDate        string             `json:"requestDate"`
	AdminNotes         string             `json:"adminNotes"`
}

// Trend is the direction a system metric moved.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// SystemMetric is a headline platform figure.
type SystemMetric struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Change float64 `json:"change"`
	Trend  Trend   `json:"trend"`
}

// RolePermission describes what a role may do.
type RolePermission struct {
	Role               blockchain.Role `json:"role"`
	Permissions        []string        `json:"permissions"`
	CanManageUsers     bool            `json:"canManageUsers"`
	CanVerifyCompanies bool            `json:"canVerifyCompanies"`
	CanViewAnalytics   bool            `json:"canViewAnalytics"`
	CanManageSystem    bool            `json:"canManageSystem"`
}

func seedUsers() []User {
	return []User{
		{ID: "u1", Username: "admin_user", Email: "admin@warranty.com", Role: blockchain.RoleAdmin, Status: UserActive, JoinDate: "2023-01-01", LastLogin: "2024-02-01"},
		{ID: "u2", Username: "techcorp_admin", Email: "admin@techcorp.com", Role: blockchain.RoleCompany, Status: UserActive, JoinDate: "2023-02-15", LastLogin: "2024-01-30"},
		{ID: "u3", Username: "seller_john", Email: "john@seller.com", Role: blockchain.RoleSeller, Status: UserActive, JoinDate: "2023-03-01", LastLogin: "2024-01-28"},
		{ID: "u4", Username: "service_center_1", Email: "service@repair.com", Role: blockchain.RoleServiceCenter, Status: UserPending, JoinDate: "2024-01-15", LastLogin: "Never"},
	}
}

func seedCompanies() []Company {
	return []Company{
		{ID: "c1", Name: "TechCorp Inc.", Address: "123 Tech Street, Silicon Valley, CA", VerificationStatus: VerificationVerified, Documents: []string{"Business License", "Tax Certificate", "Insurance Policy"}, RequestDate: "2023-02-15", AdminNotes: "All documents verified. Company is legitimate and well-established."},
		{ID: "c2", Name: "NewTech Solutions", Address: "456 Innovation Ave, Austin, TX", VerificationStatus: VerificationPending, Documents: []string{"Business License", "Tax Certificate"}, RequestDate: "2024-01-20", AdminNotes: "Pending insurance policy verification."},
		{ID: "c3", Name: "Startup Electronics", Address: "789 Startup Blvd, Seattle, WA", VerificationStatus: VerificationRejected, Documents: []string{"Business License"}, RequestDate: "2024-01-10", AdminNotes: "Insufficient documentation. Missing tax certificate and insurance."},
	}
}

func systemMetrics() []SystemMetric {
	return []SystemMetric{
		{Name: "Total Users", Value: 1247, Change: 12, Trend: TrendUp},
		{Name: "Active Companies", Value: 89, Change: 5, Trend: TrendUp},
		{Name: "Total Warranties", Value: 5678, Change: 234, Trend: TrendUp},
		{Name: "System Uptime", Value: 99.9, Change: 0.1, Trend: TrendStable},
	}
}

func rolePermissions() []RolePermission {
	return []RolePermission{
		{Role: blockchain.RoleAdmin, Permissions: []string{"Full System Access", "User Management", "Company Verification", "System Analytics"}, CanManageUsers: true, CanVerifyCompanies: true, CanViewAnalytics: true, CanManageSystem: true},
		{Role: blockchain.RoleCompany, Permissions: []string{"Warranty Management", "Customer Support", "Analytics"}, CanViewAnalytics: true},
		{Role: blockchain.RoleSeller, Permissions: []string{"Sales Management", "Commission Tracking"}},
	}
}
