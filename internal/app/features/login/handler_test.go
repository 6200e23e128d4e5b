package login_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/orgdesk/internal/app/features/login"
	"github.com/dalemusser/orgdesk/internal/testutil"
	"go.uber.org/zap"
)

func TestServeLogin_SignedIn_RedirectsToOrganization(t *testing.T) {
	handler := login.NewHandler(true, zap.NewNop())

	req := httptest.NewRequest("GET", "/login", nil)
	req = testutil.WithUser(req, testutil.PlainUser("someone@test.com"))
	rec := httptest.NewRecorder()

	handler.ServeLogin(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/organization" {
		t.Errorf("Location: got %q, want %q", loc, "/organization")
	}
}
