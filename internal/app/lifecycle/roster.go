// internal/app/lifecycle/roster.go
package lifecycle

import "github.com/dalemusser/orgdesk/internal/domain/models"

// Assignment is the orchestrator's flat view of one organization assignment.
// IDs are hex strings; an empty OrganizationID means "no organization".
type Assignment struct {
	ID               string
	Email            string
	Status           string
	OrganizationID   string
	OrganizationName string
	PersonaEmail     string
}

// IsZero reports whether the assignment is empty (e.g. a roster miss).
func (a Assignment) IsZero() bool {
	return a.ID == ""
}

// Roster is the in-memory assignment list for one organization screen session.
// The caller owns it; the orchestrator never re-fetches or caches it, so
// results of a mutation are only visible after the caller refreshes its query.
type Roster []Assignment

// NewRoster flattens store aggregation rows into a Roster. A nil or empty
// input maps to an empty roster, never an error.
func NewRoster(views []models.AssignmentView) Roster {
	if len(views) == 0 {
		return Roster{}
	}
	out := make(Roster, 0, len(views))
	for _, v := range views {
		a := Assignment{
			ID:               v.ID.Hex(),
			Email:            v.Email,
			Status:           v.Status,
			OrganizationName: v.OrganizationName,
			PersonaEmail:     v.PersonaEmail,
		}
		if v.BusinessOrganizationID != nil {
			a.OrganizationID = v.BusinessOrganizationID.Hex()
		}
		out = append(out, a)
	}
	return out
}

// ByID returns the assignment with the given id. Absence is (zero, false),
// not an error; callers handle the miss explicitly.
func (r Roster) ByID(id string) (Assignment, bool) {
	for _, a := range r {
		if a.ID == id {
			return a, true
		}
	}
	return Assignment{}, false
}

// ByEmail returns the first assignment for the given email.
func (r Roster) ByEmail(email string) (Assignment, bool) {
	for _, a := range r {
		if a.Email == email {
			return a, true
		}
	}
	return Assignment{}, false
}

// OrganizationIDOf resolves the organization id for an assignment id,
// degrading to the empty string on a miss rather than failing.
func (r Roster) OrganizationIDOf(id string) string {
	a, found := r.ByID(id)
	if !found {
		return ""
	}
	return a.OrganizationID
}
