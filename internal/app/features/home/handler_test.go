package home_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/orgdesk/internal/app/features/home"
	"github.com/dalemusser/orgdesk/internal/testutil"
	"go.uber.org/zap"
)

func TestServeRoot_SignedIn_RedirectsToOrganization(t *testing.T) {
	handler := home.NewHandler(zap.NewNop())

	req := httptest.NewRequest("GET", "/", nil)
	req = testutil.WithUser(req, testutil.PlainUser("someone@test.com"))
	rec := httptest.NewRecorder()

	handler.ServeRoot(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/organization" {
		t.Errorf("Location: got %q, want %q", loc, "/organization")
	}
}
