// internal/app/features/assignments/invite.go
package assignments

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	assignmentstore "github.com/dalemusser/orgdesk/internal/app/store/assignments"
	"github.com/dalemusser/orgdesk/internal/app/system/auth"
	"github.com/dalemusser/orgdesk/internal/app/system/htmlsanitize"
	"github.com/dalemusser/orgdesk/internal/app/system/mailer"
	"github.com/dalemusser/orgdesk/internal/app/system/normalize"
	"github.com/dalemusser/orgdesk/internal/app/system/timeouts"
	"github.com/dalemusser/orgdesk/internal/app/system/viewdata"
	"github.com/dalemusser/orgdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/validate"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeNew – GET /assignments/new – invite form.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "assignment_new", newData{
		BaseVM: viewdata.NewBaseVM(w, r, "Invite user", "/organization"),
	})
}

// HandleCreate – POST /assignments/new – create a PENDING assignment for the
// admin's organization and mail the invite.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		renderUnauthorized(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		renderForbidden(w, r, "Bad request.")
		return
	}

	email := normalize.Email(htmlsanitize.Text(r.FormValue("email")))

	rerender := func(msg string) {
		templates.Render(w, r, "assignment_new", newData{
			BaseVM: viewdata.NewBaseVM(w, r, "Invite user", "/organization"),
			Email:  email,
			Error:  template.HTML(msg),
		})
	}

	if email == "" || !validate.SimpleEmailValid(email) {
		rerender("A valid email address is required.")
		return
	}

	orgOID, err := primitive.ObjectIDFromHex(u.OrganizationID)
	if err != nil {
		renderForbidden(w, r, "Bad organization id in session.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	a, err := h.Assignments.Create(ctx, models.OrganizationAssignment{
		Email:                  email,
		BusinessOrganizationID: &orgOID,
		Status:                 models.AssignmentPending,
	})
	if err != nil {
		if err == assignmentstore.ErrAlreadyAssigned {
			rerender("This email already has an assignment in your organization.")
			return
		}
		h.Log.Warn("invite: assignment create failed",
			zap.String("email", email), zap.String("org_id", u.OrganizationID), zap.Error(err))
		rerender("Unable to create the invitation. Please try again.")
		return
	}

	h.sendInviteMail(ctx, a.ID, orgOID, email)
	h.AuditLog.UserInvited(ctx, r, u.ID, u.OrganizationID, email)

	h.Flash.Success(w, r, "Invitation sent to "+email+".")
	http.Redirect(w, r, "/organization", http.StatusSeeOther)
}

// sendInviteMail creates a fresh invite record (superseding any earlier one
// for the assignment) and mails the accept link. Mail problems are logged,
// never surfaced: the assignment itself is already in place.
func (h *Handler) sendInviteMail(ctx context.Context, assignmentID, orgID primitive.ObjectID, email string) {
	created, err := h.Invites.Create(ctx, assignmentID, orgID, email)
	if err != nil {
		h.Log.Warn("invite record create failed",
			zap.String("assignment_id", assignmentID.Hex()), zap.Error(err))
		return
	}

	msg := mailer.BuildInviteEmail(mailer.InviteEmailData{
		SiteName:         viewdata.SiteName,
		OrganizationName: h.Orgs.NameOf(ctx, orgID),
		Code:             created.Code,
		AcceptLink:       strings.TrimRight(h.BaseURL, "/") + "/invites/accept?token=" + created.Token,
		ExpiresIn:        humanDuration(h.Invites.Expiry()),
	})
	msg.To = email

	if err := h.Mail.Send(ctx, msg); err != nil {
		h.Log.Warn("invite mail send failed", zap.String("email", email), zap.Error(err))
	}
}

func humanDuration(d time.Duration) string {
	if days := int(d.Hours() / 24); days >= 1 {
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
	hours := int(d.Hours())
	if hours <= 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
