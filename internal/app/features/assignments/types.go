// internal/app/features/assignments/types.go
package assignments

import (
	"html/template"

	"github.com/dalemusser/orgdesk/internal/app/system/orgcache"
	"github.com/dalemusser/orgdesk/internal/app/system/viewdata"
)

// row is one assignment as rendered in a table or confirm page.
type row struct {
	ID               string
	Email            string
	PersonaEmail     string
	Status           string
	RoleName         string
	OrganizationID   string
	OrganizationName string
}

// listData drives the organization page: the member roster pane plus the
// signed-in user's own pending join requests.
type listData struct {
	viewdata.BaseVM

	OrgName    string
	Members    []row
	Pending    []row
	Summary    orgcache.Summary
	HasSummary bool
}

// confirmData drives the decline/delete confirmation pages.
type confirmData struct {
	viewdata.BaseVM

	Action    string // "decline" | "delete"
	ActionURL string
	Row       row
}

// warningData drives the approve refusal page.
type warningData struct {
	viewdata.BaseVM

	Message string
}

// editData drives the role edit form.
type editData struct {
	viewdata.BaseVM

	Row   row
	Roles []roleOption
	Error template.HTML
}

type roleOption struct {
	ID       string
	Name     string
	Selected bool
}

// newData drives the invite form.
type newData struct {
	viewdata.BaseVM

	Email string
	Error template.HTML
}
