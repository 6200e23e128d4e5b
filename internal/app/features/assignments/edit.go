// internal/app/features/assignments/edit.go
package assignments

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	"github.com/dalemusser/orgdesk/internal/app/system/auth"
	"github.com/dalemusser/orgdesk/internal/app/system/timeouts"
	"github.com/dalemusser/orgdesk/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeEdit – GET /assignments/{id}/edit – role edit form for one of the
// organization's assignments.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
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

	templates.Render(w, r, "assignment_edit", editData{
		BaseVM: viewdata.NewBaseVM(w, r, "Edit role", "/organization"),
		Row:    rw,
		Roles:  h.roleOptions(ctx, rw.ID),
	})
}

// HandleEdit – POST /assignments/{id}/edit – save the assignment's role.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		renderUnauthorized(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		renderForbidden(w, r, "Bad request.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rw, ok := h.loadOrgAssignment(ctx, w, r, u.OrganizationID)
	if !ok {
		return
	}
	aid, err := primitive.ObjectIDFromHex(rw.ID)
	if err != nil {
		renderForbidden(w, r, "Bad assignment id.")
		return
	}

	var roleID *primitive.ObjectID
	if raw := strings.TrimSpace(r.FormValue("role_id")); raw != "" {
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			templates.Render(w, r, "assignment_edit", editData{
				BaseVM: viewdata.NewBaseVM(w, r, "Edit role", "/organization"),
				Row:    rw,
				Roles:  h.roleOptions(ctx, rw.ID),
				Error:  template.HTML("Unknown role."),
			})
			return
		}
		if _, err := h.Roles.GetByID(ctx, oid); err != nil {
			templates.Render(w, r, "assignment_edit", editData{
				BaseVM: viewdata.NewBaseVM(w, r, "Edit role", "/organization"),
				Row:    rw,
				Roles:  h.roleOptions(ctx, rw.ID),
				Error:  template.HTML("Unknown role."),
			})
			return
		}
		roleID = &oid
	}

	if err := h.Assignments.UpdateRole(ctx, aid, roleID); err != nil {
		h.Log.Warn("role update failed", zap.String("assignment_id", rw.ID), zap.Error(err))
		templates.Render(w, r, "assignment_edit", editData{
			BaseVM: viewdata.NewBaseVM(w, r, "Edit role", "/organization"),
			Row:    rw,
			Roles:  h.roleOptions(ctx, rw.ID),
			Error:  template.HTML("Database error while saving the role."),
		})
		return
	}

	h.AuditLog.AssignmentRoleChanged(ctx, r, u.ID, u.OrganizationID, rw.ID)
	h.Flash.Success(w, r, "Role updated.")
	http.Redirect(w, r, "/organization", http.StatusSeeOther)
}

// roleOptions builds the select options, marking the assignment's current
// role.
func (h *Handler) roleOptions(ctx context.Context, assignmentID string) []roleOption {
	currentRole := ""
	if aid, err := primitive.ObjectIDFromHex(assignmentID); err == nil {
		if a, err := h.Assignments.GetByID(ctx, aid); err == nil && a.RoleID != nil {
			currentRole = a.RoleID.Hex()
		}
	}

	roles, err := h.Roles.List(ctx)
	if err != nil {
		h.Log.Warn("list roles failed", zap.Error(err))
		return nil
	}

	opts := make([]roleOption, 0, len(roles))
	for _, role := range roles {
		opts = append(opts, roleOption{
			ID:       role.ID.Hex(),
			Name:     role.Name,
			Selected: role.ID.Hex() == currentRole,
		})
	}
	return opts
}
