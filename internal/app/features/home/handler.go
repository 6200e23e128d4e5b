// internal/app/features/home/handler.go
package home

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/dalemusser/orgdesk/internal/app/system/auth"
	"github.com/dalemusser/orgdesk/internal/app/system/viewdata"
)

type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

type pageData struct {
	viewdata.BaseVM
}

// ServeRoot shows the landing page. Signed-in users go straight to
// their organization view.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/organization", http.StatusSeeOther)
		return
	}

	data := pageData{
		BaseVM: viewdata.NewBaseVM(w, r, "Welcome", "/"),
	}
	templates.Render(w, r, "home", data)
}
