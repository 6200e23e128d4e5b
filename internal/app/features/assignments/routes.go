// internal/app/features/assignments/routes.go
package assignments

import (
	"github.com/dalemusser/orgdesk/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the organization screen and its assignment actions.
// Typically: r.Mount("/organization", assignments.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		// Unified screen: member roster + my pending join requests
		pr.Get("/", h.ServeOrganization)

		// My pending requests (any signed-in user)
		pr.Post("/assignments/{id}/approve", h.HandleApprove)
		pr.Get("/assignments/{id}/decline", h.ServeDeclineConfirm)
		pr.Post("/assignments/{id}/decline", h.HandleDecline)

		// Admin-only roster actions
		pr.Group(func(ar chi.Router) {
			ar.Use(auth.RequireOrgAdmin)

			ar.Get("/assignments/new", h.ServeNew)
			ar.Post("/assignments/new", h.HandleCreate)

			ar.Get("/assignments/{id}/edit", h.ServeEdit)
			ar.Post("/assignments/{id}/edit", h.HandleEdit)

			ar.Get("/assignments/{id}/delete", h.ServeDeleteConfirm)
			ar.Post("/assignments/{id}/delete", h.HandleDelete)

			ar.Post("/assignments/{id}/reinvite", h.HandleReInvite)
		})
	})

	return r
}
