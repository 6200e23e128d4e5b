// internal/app/features/assignments/list.go
package assignments

import (
	"context"
	"net/http"

	"github.com/dalemusser/orgdesk/internal/app/system/auth"
	"github.com/dalemusser/orgdesk/internal/app/system/timeouts"
	"github.com/dalemusser/orgdesk/internal/app/system/viewdata"
	"github.com/dalemusser/orgdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeOrganization – GET / – the unified organization screen: the member
// roster (admins see row actions) plus the signed-in user's own pending join
// requests.
func (h *Handler) ServeOrganization(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		renderUnauthorized(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	roleNames := h.roleNames(ctx)

	data := listData{
		BaseVM: viewdata.NewBaseVM(w, r, "Organization", "/"),
	}

	pending, err := h.Assignments.ListPendingByEmail(ctx, u.Email)
	if err != nil {
		h.Log.Warn("list pending assignments failed", zap.String("email", u.Email), zap.Error(err))
	}
	data.Pending = toRows(pending, roleNames)

	if u.OrganizationID != "" {
		oid, err := primitive.ObjectIDFromHex(u.OrganizationID)
		if err != nil {
			renderForbidden(w, r, "Bad organization id in session.")
			return
		}

		members, err := h.Assignments.ListByOrganization(ctx, oid)
		if err != nil {
			h.Log.Warn("list organization assignments failed",
				zap.String("org_id", u.OrganizationID), zap.Error(err))
		}
		data.Members = toRows(members, roleNames)
		data.OrgName = h.Orgs.NameOf(ctx, oid)
		if sum, found := h.Cache.Get(u.OrganizationID); found {
			data.Summary = sum
			data.HasSummary = true
		}
	}

	templates.Render(w, r, "org_assignments", data)
}

// roleNames loads the role id → display name map for row rendering. Failures
// degrade to empty names.
func (h *Handler) roleNames(ctx context.Context) map[string]string {
	names := map[string]string{}
	roles, err := h.Roles.List(ctx)
	if err != nil {
		h.Log.Warn("list roles failed", zap.Error(err))
		return names
	}
	for _, role := range roles {
		names[role.ID.Hex()] = role.Name
	}
	return names
}

func toRows(views []models.AssignmentView, roleNames map[string]string) []row {
	rows := make([]row, 0, len(views))
	for _, v := range views {
		rows = append(rows, toRow(v, roleNames))
	}
	return rows
}

func toRow(v models.AssignmentView, roleNames map[string]string) row {
	rw := row{
		ID:               v.ID.Hex(),
		Email:            v.Email,
		PersonaEmail:     v.PersonaEmail,
		Status:           v.Status,
		OrganizationName: v.OrganizationName,
	}
	if v.BusinessOrganizationID != nil {
		rw.OrganizationID = v.BusinessOrganizationID.Hex()
	}
	if v.RoleID != nil {
		rw.RoleName = roleNames[v.RoleID.Hex()]
	}
	return rw
}
