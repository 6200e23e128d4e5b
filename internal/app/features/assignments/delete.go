// internal/app/features/assignments/delete.go
package assignments

import (
	"context"
	"net/http"

	"github.com/dalemusser/orgdesk/internal/app/lifecycle"
	"github.com/dalemusser/orgdesk/internal/app/system/auth"
	"github.com/dalemusser/orgdesk/internal/app/system/timeouts"
	"github.com/dalemusser/orgdesk/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeDeleteConfirm – GET /assignments/{id}/delete – confirmation page for
// removing a user from the admin's organization.
func (h *Handler) ServeDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		renderUnauthorized(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rw, ok := h.loadOrgAssignment(ctx, w, r, u.OrganizationID)
	if !ok {
		return
	}

	d := loadDialog(r, "delete")
	d.Close()
	d.Select(rw.ID)
	saveDialog(w, r, "delete", &d)

	templates.Render(w, r, "assignment_confirm", confirmData{
		BaseVM:    viewdata.NewBaseVM(w, r, "Remove user", "/organization"),
		Action:    "delete",
		ActionURL: "/organization/assignments/" + rw.ID + "/delete",
		Row:       rw,
	})
}

// HandleDelete – POST /assignments/{id}/delete. An APPROVED assignment also
// detaches the client record; any other status deletes the assignment alone.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		renderUnauthorized(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	rw, ok := h.loadOrgAssignment(ctx, w, r, u.OrganizationID)
	if !ok {
		return
	}

	d := loadDialog(r, "delete")
	if d.Selected() != rw.ID {
		d.Close()
		d.Select(rw.ID)
	}
	d.Confirm()

	res := h.orchestrator(w, r).Delete(ctx, lifecycle.Assignment{
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
	saveDialog(w, r, "delete", &d)

	if res.Outcome == lifecycle.OutcomeOK {
		// A removed user's pending invite is dead weight; drop it too.
		if oid, err := primitive.ObjectIDFromHex(rw.ID); err == nil {
			if err := h.Invites.DeleteByAssignment(ctx, oid); err != nil {
				h.Log.Warn("delete: invite cleanup failed",
					zap.String("assignment_id", rw.ID), zap.Error(err))
			}
		}
		h.AuditLog.AssignmentDeleted(ctx, r, u.ID, rw.OrganizationID, rw.ID, true, "")
		h.Flash.Success(w, r, "User removed from the organization.")
	} else {
		h.AuditLog.AssignmentDeleted(ctx, r, u.ID, rw.OrganizationID, rw.ID, false, res.Message)
		h.Flash.Error(w, r, res.Message)
	}
	http.Redirect(w, r, "/organization", http.StatusSeeOther)
}

// loadOrgAssignment resolves the {id} URL param to an assignment inside the
// admin's own organization. Renders an error page and returns ok=false
// otherwise.
func (h *Handler) loadOrgAssignment(ctx context.Context, w http.ResponseWriter, r *http.Request, orgID string) (row, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		renderForbidden(w, r, "Bad assignment id.")
		return row{}, false
	}

	a, err := h.Assignments.GetByID(ctx, oid)
	if err != nil {
		renderForbidden(w, r, "Assignment not found.")
		return row{}, false
	}
	if a.BusinessOrganizationID == nil || a.BusinessOrganizationID.Hex() != orgID {
		h.Log.Warn("assignment outside admin organization",
			zap.String("assignment_id", oid.Hex()), zap.String("org_id", orgID))
		renderForbidden(w, r, "Assignment not found.")
		return row{}, false
	}

	return row{
		ID:               a.ID.Hex(),
		Email:            a.Email,
		Status:           a.Status,
		OrganizationID:   a.BusinessOrganizationID.Hex(),
		OrganizationName: h.Orgs.NameOf(ctx, *a.BusinessOrganizationID),
	}, true
}
