// internal/app/features/assignments/accept.go
package assignments

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	invitestore "github.com/dalemusser/orgdesk/internal/app/store/invites"
	"github.com/dalemusser/orgdesk/internal/app/system/auth"
	"github.com/dalemusser/orgdesk/internal/app/system/normalize"
	"github.com/dalemusser/orgdesk/internal/app/system/timeouts"
	"github.com/dalemusser/orgdesk/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AcceptRoutes mounts the invite accept endpoints.
// Typically: r.Mount("/invites", assignments.AcceptRoutes(handler))
func AcceptRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/accept", h.ServeAcceptInvite)
		pr.Get("/redeem", h.ServeRedeemForm)
		pr.Post("/redeem", h.HandleRedeemCode)
	})

	return r
}

// ServeAcceptInvite – GET /invites/accept?token=... – redeem a magic-link
// invite. The token is single use; redeeming approves the matching PENDING
// assignment for the signed-in user.
func (h *Handler) ServeAcceptInvite(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		renderUnauthorized(w, r)
		return
	}

	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		renderForbidden(w, r, "Missing invitation token.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	inv, err := h.Invites.AcceptToken(ctx, token)
	if err != nil {
		if err == invitestore.ErrNotFound {
			renderForbidden(w, r, "This invitation is invalid or has expired.")
			return
		}
		h.Log.Warn("invite token redeem failed", zap.Error(err))
		renderForbidden(w, r, "Unable to redeem the invitation. Please try again.")
		return
	}

	h.finishInvite(ctx, w, r, u, inv)
}

// ServeRedeemForm – GET /invites/redeem – manual code entry.
func (h *Handler) ServeRedeemForm(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "invite_redeem", newData{
		BaseVM: viewdata.NewBaseVM(w, r, "Redeem invitation", "/organization"),
	})
}

// HandleRedeemCode – POST /invites/redeem – redeem a typed invite code for
// the signed-in user's own email.
func (h *Handler) HandleRedeemCode(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		renderUnauthorized(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		renderForbidden(w, r, "Bad request.")
		return
	}

	code := strings.TrimSpace(r.FormValue("code"))

	// Code guessing protection, on top of the per-invite attempt cap.
	if allowed, reason := h.Redeem.Check(r, u.Email); !allowed {
		templates.Render(w, r, "invite_redeem", newData{
			BaseVM: viewdata.NewBaseVM(w, r, "Redeem invitation", "/organization"),
			Error:  template.HTML(reason),
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	inv, err := h.Invites.AcceptCode(ctx, u.Email, code)
	if err != nil {
		msg := "Unable to redeem the invitation. Please try again."
		switch err {
		case invitestore.ErrNotFound:
			msg = "No open invitation was found for your email."
		case invitestore.ErrInvalidCode:
			msg = "That code is not correct."
		case invitestore.ErrTooManyAttempts:
			msg = "Too many attempts. Ask your organization admin for a new invitation."
		default:
			h.Log.Warn("invite code redeem failed", zap.String("email", u.Email), zap.Error(err))
		}
		templates.Render(w, r, "invite_redeem", newData{
			BaseVM: viewdata.NewBaseVM(w, r, "Redeem invitation", "/organization"),
			Error:  template.HTML(msg),
		})
		return
	}

	h.Redeem.ResetEmail(u.Email)
	h.finishInvite(ctx, w, r, u, inv)
}

// finishInvite approves the invite's assignment for the signed-in user. The
// invite must be addressed to the session email; the invite record itself was
// already consumed by the store.
func (h *Handler) finishInvite(ctx context.Context, w http.ResponseWriter, r *http.Request, u *auth.SessionUser, inv *invitestore.Invite) {
	if inv.Email != normalize.Email(u.Email) {
		h.Log.Warn("invite email does not match session user",
			zap.String("invite_email", inv.Email), zap.String("session_email", u.Email))
		renderForbidden(w, r, "This invitation was issued to a different email address.")
		return
	}

	h.approveOwn(ctx, w, r, u, inv.AssignmentID.Hex())
}
