// internal/app/features/assignments/approve.go
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
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleApprove – POST /assignments/{id}/approve – approve one of the
// signed-in user's own pending join requests.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		renderUnauthorized(w, r)
		return
	}
	assignmentID := chi.URLParam(r, "id")
	if assignmentID == "" {
		renderForbidden(w, r, "Bad assignment id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	h.approveOwn(ctx, w, r, u, assignmentID)
}

// approveOwn runs the approve sequence for one of the user's own join
// requests and renders the outcome. Shared by the roster page action and the
// invite accept link.
func (h *Handler) approveOwn(ctx context.Context, w http.ResponseWriter, r *http.Request, u *auth.SessionUser, assignmentID string) {
	// Pre-mutation snapshot of the user's pending requests; the orchestrator
	// resolves the organization id from it.
	views, err := h.Assignments.ListPendingByEmail(ctx, u.Email)
	if err != nil {
		h.Log.Warn("approve: roster load failed", zap.String("email", u.Email), zap.Error(err))
		h.Flash.Error(w, r, lifecycle.MsgApproveFailed)
		http.Redirect(w, r, "/organization", http.StatusSeeOther)
		return
	}
	roster := lifecycle.NewRoster(views)

	// The id must be one of the user's own pending requests. Anything else,
	// including another user's assignment, is refused before any mutation.
	if _, found := roster.ByID(assignmentID); !found {
		h.Log.Warn("approve: assignment not in requester's pending roster",
			zap.String("assignment_id", assignmentID), zap.String("email", u.Email))
		h.Flash.Error(w, r, "Join request not found.")
		http.Redirect(w, r, "/organization", http.StatusSeeOther)
		return
	}

	var defaultAssignment lifecycle.Assignment
	current, err := h.Assignments.GetApprovedByEmail(ctx, u.Email)
	switch {
	case err == nil:
		defaultAssignment = lifecycle.Assignment{
			ID:     current.ID.Hex(),
			Email:  current.Email,
			Status: current.Status,
		}
		if current.BusinessOrganizationID != nil {
			defaultAssignment.OrganizationID = current.BusinessOrganizationID.Hex()
		}
	case err == mongo.ErrNoDocuments:
		// No default membership; approving is allowed.
	default:
		h.Log.Warn("approve: default assignment load failed", zap.String("email", u.Email), zap.Error(err))
		h.Flash.Error(w, r, lifecycle.MsgApproveFailed)
		http.Redirect(w, r, "/organization", http.StatusSeeOther)
		return
	}

	res := h.orchestrator(w, r).Approve(ctx, lifecycle.ApproveRequest{
		AssignmentID:      assignmentID,
		Roster:            roster,
		DefaultAssignment: defaultAssignment,
		ClientID:          u.ID,
	})

	switch res.Outcome {
	case lifecycle.OutcomeWarning:
		templates.Render(w, r, "assignment_warning", warningData{
			BaseVM:  viewdata.NewBaseVM(w, r, "Cannot approve", "/organization"),
			Message: res.Message,
		})
	case lifecycle.OutcomeOK:
		h.AuditLog.AssignmentApproved(ctx, r, u.ID, res.OrganizationID, assignmentID, true, "")
		h.Flash.Success(w, r, "Join request approved.")
		http.Redirect(w, r, "/organization", http.StatusSeeOther)
	default:
		h.AuditLog.AssignmentApproved(ctx, r, u.ID, res.OrganizationID, assignmentID, false, res.Message)
		h.Flash.Error(w, r, res.Message)
		http.Redirect(w, r, "/organization", http.StatusSeeOther)
	}
}
