// internal/app/features/assignments/reinvite.go
package assignments

import (
	"context"
	"net/http"

	"github.com/dalemusser/orgdesk/internal/app/lifecycle"
	"github.com/dalemusser/orgdesk/internal/app/system/auth"
	"github.com/dalemusser/orgdesk/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleReInvite – POST /assignments/{id}/reinvite – re-approve a declined
// user. The orchestrator owns every toast on this path, so this handler only
// redirects; flashing here would double-notify.
func (h *Handler) HandleReInvite(w http.ResponseWriter, r *http.Request) {
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

	orgOID, err := primitive.ObjectIDFromHex(u.OrganizationID)
	if err != nil {
		renderForbidden(w, r, "Bad organization id in session.")
		return
	}

	// Pre-mutation roster snapshot of the organization.
	views, err := h.Assignments.ListByOrganization(ctx, orgOID)
	if err != nil {
		h.Log.Warn("reinvite: roster load failed",
			zap.String("org_id", u.OrganizationID), zap.Error(err))
		h.Flash.Error(w, r, lifecycle.MsgReInviteFailed)
		http.Redirect(w, r, "/organization", http.StatusSeeOther)
		return
	}

	res := h.orchestrator(w, r).ReInvite(ctx, lifecycle.ReInviteRequest{
		AssignmentID:   rw.ID,
		Roster:         lifecycle.NewRoster(views),
		OrganizationID: u.OrganizationID,
	})

	if res.Outcome == lifecycle.OutcomeOK {
		h.AuditLog.AssignmentReInvited(ctx, r, u.ID, u.OrganizationID, rw.ID, true, "")
		if aid, err := primitive.ObjectIDFromHex(rw.ID); err == nil {
			h.sendInviteMail(ctx, aid, orgOID, rw.Email)
		}
	} else {
		h.AuditLog.AssignmentReInvited(ctx, r, u.ID, u.OrganizationID, rw.ID, false, res.Message)
	}

	http.Redirect(w, r, "/organization", http.StatusSeeOther)
}
