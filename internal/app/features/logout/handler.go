// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/orgdesk/internal/app/system/auditlog"
	"github.com/dalemusser/orgdesk/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Log      *zap.Logger
	AuditLog *auditlog.Logger
}

func NewHandler(audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		AuditLog: audit,
	}
}

// ServeLogout handles POST /logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.Logout(r.Context(), r, u.ID, u.OrganizationID)
	}

	if err := auth.SignOut(w, r); err != nil {
		h.Log.Warn("logout: clear session failed", zap.Error(err))
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
