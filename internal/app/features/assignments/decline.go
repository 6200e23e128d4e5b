// internal/app/features/assignments/decline.go
package assignments

import (
	"context"
	"net/http"

	"github.com/dalemusser/orgdesk/internal/app/lifecycle"
	"github.com/dalemusser/orgdesk/internal/app/system/auth"
	"github.com/dalemusser/orgdesk/internal/app/system/normalize"
	"github.com/dalemusser/orgdesk/internal/app/system/timeouts"
	"github.com/dalemusser/orgdesk/internal/app/system/viewdata"
	"github.com/dalemusser/orgdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeDeclineConfirm – GET /assignments/{id}/decline – confirmation page for
// declining one of the signed-in user's own join requests.
func (h *Handler) ServeDeclineConfirm(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		renderUnauthorized(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rw, ok := h.loadOwnPending(ctx, w, r, u.Email)
	if !ok {
		return
	}

	d := loadDialog(r, "decline")
	d.Close()
	d.Select(rw.ID)
	saveDialog(w, r, "decline", &d)

	templates.Render(w, r, "assignment_confirm", confirmData{
		BaseVM:    viewdata.NewBaseVM(w, r, "Decline join request", "/organization"),
		Action:    "decline",
		ActionURL: "/organization/assignments/" + rw.ID + "/decline",
		Row:       rw,
	})
}

// HandleDecline – POST /assignments/{id}/decline.
func (h *Handler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		renderUnauthorized(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rw, ok := h.loadOwnPending(ctx, w, r, u.Email)
	if !ok {
		return
	}

	d := loadDialog(r, "decline")
	if d.Selected() != rw.ID {
		d.Close()
		d.Select(rw.ID)
	}
	d.Confirm()

	res := h.orchestrator(w, r).Decline(ctx, lifecycle.Assignment{
		ID:             rw.ID,
		Email:          rw.Email,
		Status:         rw.Status,
		OrganizationID: rw.OrganizationID,
	})

	errMsg := ""
	if res.Outcome != lifecycle.OutcomeOK {
		errMsg = res.Message
	}
	d.Settle(errMsg)
	saveDialog(w, r, "decline", &d)

	if res.Outcome == lifecycle.OutcomeOK {
		h.AuditLog.AssignmentDeclined(ctx, r, u.ID, rw.ID, true, "")
		h.Flash.Success(w, r, "Join request declined.")
	} else {
		h.AuditLog.AssignmentDeclined(ctx, r, u.ID, rw.ID, false, res.Message)
		h.Flash.Error(w, r, res.Message)
	}
	http.Redirect(w, r, "/organization", http.StatusSeeOther)
}

// loadOwnPending resolves the {id} URL param to one of the signed-in user's
// own PENDING requests. Renders an error page and returns ok=false otherwise.
func (h *Handler) loadOwnPending(ctx context.Context, w http.ResponseWriter, r *http.Request, email string) (row, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		renderForbidden(w, r, "Bad assignment id.")
		return row{}, false
	}

	a, err := h.Assignments.GetByID(ctx, oid)
	if err != nil {
		renderForbidden(w, r, "Join request not found.")
		return row{}, false
	}
	if a.Email != normalize.Email(email) {
		h.Log.Warn("assignment does not belong to requester",
			zap.String("assignment_id", oid.Hex()), zap.String("email", email))
		renderForbidden(w, r, "Join request not found.")
		return row{}, false
	}
	if a.Status != models.AssignmentPending {
		// The roster page only offers decline on pending rows; a direct POST
		// against a settled assignment must not rewrite its status.
		h.Flash.Error(w, r, "This join request is no longer pending.")
		http.Redirect(w, r, "/organization", http.StatusSeeOther)
		return row{}, false
	}

	rw := row{
		ID:     a.ID.Hex(),
		Email:  a.Email,
		Status: a.Status,
	}
	if a.BusinessOrganizationID != nil {
		rw.OrganizationID = a.BusinessOrganizationID.Hex()
		rw.OrganizationName = h.Orgs.NameOf(ctx, *a.BusinessOrganizationID)
	}
	return rw, true
}
