package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/venkateshn67/warranty-verification/internal/blockchain"
	"github.com/venkateshn67/warranty-verification/internal/logging"
	"github.com/venkateshn67/warranty-verification/internal/notification"
	"github.com/venkateshn67/warranty-verification/internal/store"
)

type recordingNotifier struct {
	messages []notification.Message
}

func (r *recordingNotifier) Send(_ context.Context, m notification.Message) error {
	r.messages = append(r.messages, m)
	return nil
}

func newTestService(t *testing.T) (*Service, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	chain := blockchain.NewService(blockchain.NewMock(), logging.Discard(), nil)
	return NewService(store.NewMemory(), chain, notifier, logging.Discard(), nil), notifier
}

func TestUserSearch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		search string
		want   []string
	}{
		{"", []string{"u1", "u2", "u3", "u4"}},
		{"TECHCORP", []string{"u2"}},
		{"seller", []string{"u3"}},
		{"service_center", []string{"u4"}},
		{"@warranty.com", []string{"u1"}},
		{"nobody", nil},
	}
	for _, tc := range cases {
		users, err := svc.Users(ctx, tc.search)
		if err != nil {
			t.Fatalf("users(%q): %v", tc.search, err)
		}
		if len(users) != len(tc.want) {
			t.Fatalf("users(%q): expected %v, got %+v", tc.search, tc.want, users)
		}
		for i, u := range users {
			if u.ID != tc.want[i] {
				t.Fatalf("users(%q): expected %v, got %+v", tc.search, tc.want, users)
			}
		}
	}
}

func TestSetUserStatus(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	user, err := svc.SetUserStatus(ctx, "u4", UserActive)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if user.Status != UserActive {
		t.Fatalf("expected active, got %s", user.Status)
	}
	if _, err := svc.SetUserStatus(ctx, "u4", "banned"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.SetUserStatus(ctx, "u9", UserSuspended); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(notifier.messages) != 1 || notifier.messages[0].Destination != "service@repair.com" {
		t.Fatalf("expected one notification, got %+v", notifier.messages)
	}
}

func TestVerifyCompany(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	pending, err := svc.Companies(ctx, VerificationPending)
	if err != nil {
		t.Fatalf("companies: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "c2" {
		t.Fatalf("unexpected pending companies %+v", pending)
	}

	company, err := svc.VerifyCompany(ctx, "c2", VerificationVerified, " Insurance received. ")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if company.VerificationStatus != VerificationVerified || company.AdminNotes != "Insurance received." {
		t.Fatalf("unexpected company %+v", company)
	}
	if _, err := svc.VerifyCompany(ctx, "c2", VerificationPending, ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.VerifyCompany(ctx, "c9", VerificationRejected, ""); !errors.Is(err, ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}
	if _, err := svc.Companies(ctx, "lost"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for filter, got %v", err)
	}

	verified, _ := svc.Companies(ctx, VerificationVerified)
	if len(verified) != 2 {
		t.Fatalf("expected 2 verified companies, got %d", len(verified))
	}
	if len(notifier.messages) != 1 || notifier.messages[0].Kind != notification.KindCompanyVerified {
		t.Fatalf("expected verification notification, got %+v", notifier.messages)
	}
}

func TestStaticFigures(t *testing.T) {
	svc, _ := newTestService(t)

	metrics := svc.SystemMetrics()
	if len(metrics) != 4 || metrics[0].Value != 1247 || metrics[3].Trend != TrendStable {
		t.Fatalf("unexpected metrics %+v", metrics)
	}
	roles := svc.RolePermissions()
	if len(roles) != 3 || !roles[0].CanManageSystem || roles[2].CanViewAnalytics {
		t.Fatalf("unexpected role permissions %+v", roles)
	}
}

func TestHandler(t *testing.T) {
	svc, _ := newTestService(t)
	app := fiber.New()
	h := NewHandler(svc)
	app.Get("/admin/users", h.Users)
	app.Patch("/admin/companies/:id", h.VerifyCompany)
	app.Get("/admin/company-profile/:address", h.CompanyProfile)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/admin/users?search=john", nil))
	if err != nil {
		t.Fatalf("users request: %v", err)
	}
	var body struct {
		Users []User `json:"users"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Users) != 1 || body.Users[0].ID != "u3" {
		t.Fatalf("unexpected users %+v", body.Users)
	}

	req := httptest.NewRequest(fiber.MethodPatch, "/admin/companies/c3", strings.NewReader(`{"status":"verified","adminNotes":"Resubmitted"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("verify request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/admin/company-profile/0xabc", nil))
	if err != nil {
		t.Fatalf("profile request: %v", err)
	}
	var profile blockchain.CompanyProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Address != "0xabc" || !profile.Verified {
		t.Fatalf("unexpected profile %+v", profile)
	}
}
