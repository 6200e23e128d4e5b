// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/orgdesk/internal/app/system/auth"
	"github.com/dalemusser/orgdesk/internal/app/system/flash"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// SiteName is shown in page headers and email subjects.
const SiteName = "OrgDesk"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn     bool
	UserName       string
	UserEmail      string
	IsOrgAdmin     bool
	OrganizationID string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFToken string

	// Queued toasts, drained from the session flash queue
	Toasts []flash.Toast
}

// flashQueue is set by Init and used to drain queued toasts into page renders.
var flashQueue *flash.Queue

// Init sets the flash queue used by NewBaseVM. Call once at startup from
// bootstrap.
func Init(q *flash.Queue) {
	flashQueue = q
}

// NewBaseVM creates a fully populated BaseVM for a page.
//
// Parameters:
//   - r: the HTTP request
//   - w: the response writer (needed to persist the drained flash session)
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func NewBaseVM(w http.ResponseWriter, r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}

	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.UserName = u.Name
		vm.UserEmail = u.Email
		vm.IsOrgAdmin = u.IsOrgAdmin
		vm.OrganizationID = u.OrganizationID
	}

	if flashQueue != nil {
		vm.Toasts = flashQueue.Pop(w, r)
	}

	return vm
}
