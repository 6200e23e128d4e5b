// internal/app/features/login/handler.go
package login

import (
	"net/http"

	"github.com/dalemusser/orgdesk/internal/app/system/auth"
	"github.com/dalemusser/orgdesk/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler renders the sign-in page. Authentication itself happens in
// features/authgoogle; this page just offers the button and explains errors.
type Handler struct {
	Log           *zap.Logger
	GoogleEnabled bool
}

func NewHandler(googleEnabled bool, logger *zap.Logger) *Handler {
	return &Handler{
		Log:           logger,
		GoogleEnabled: googleEnabled,
	}
}

type pageData struct {
	viewdata.BaseVM

	GoogleEnabled bool
	GoogleURL     string
	Error         string
}

// errorMessages maps ?error= codes from the OAuth flow to display text.
var errorMessages = map[string]string{
	"google_not_configured": "Google sign-in is not configured on this server.",
	"google_denied":         "Google sign-in was cancelled.",
	"invalid_state":         "The sign-in attempt expired. Please try again.",
	"invalid_code":          "The sign-in attempt was incomplete. Please try again.",
	"token_exchange":        "Google sign-in failed. Please try again.",
	"user_info":             "Google did not return your account details. Please try again.",
	"email_unverified":      "Your Google account email is not verified.",
	"session":               "Your session could not be created. Please try again.",
	"internal":              "Something went wrong. Please try again.",
}

// ServeLogin handles GET /login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/organization", http.StatusSeeOther)
		return
	}

	googleURL := "/auth/google"
	if ret := query.Get(r, "return"); ret != "" {
		googleURL += "?return=" + ret
	}

	templates.Render(w, r, "login", pageData{
		BaseVM:        viewdata.NewBaseVM(w, r, "Sign in", "/"),
		GoogleEnabled: h.GoogleEnabled,
		GoogleURL:     googleURL,
		Error:         errorMessages[r.URL.Query().Get("error")],
	})
}
