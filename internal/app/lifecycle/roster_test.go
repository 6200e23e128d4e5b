package lifecycle_test

import (
	"testing"

	"github.com/dalemusser/orgdesk/internal/app/lifecycle"
	"github.com/dalemusser/orgdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewRoster_EmptyInput(t *testing.T) {
	for name, views := range map[string][]models.AssignmentView{
		"nil":   nil,
		"empty": {},
	} {
		t.Run(name, func(t *testing.T) {
			r := lifecycle.NewRoster(views)
			if r == nil {
				t.Fatal("NewRoster returned nil roster")
			}
			if len(r) != 0 {
				t.Errorf("expected empty roster, got %d entries", len(r))
			}
		})
	}
}

func TestNewRoster_FlattensViews(t *testing.T) {
	orgID := primitive.NewObjectID()
	aID := primitive.NewObjectID()
	views := []models.AssignmentView{
		{
			OrganizationAssignment: models.OrganizationAssignment{
				ID:                     aID,
				Email:                  "u@x.com",
				Status:                 models.AssignmentPending,
				BusinessOrganizationID: &orgID,
			},
			OrganizationName: "Acme Corp",
			PersonaEmail:     "u@x.com",
		},
		{
			// No organization linked: OrganizationID stays empty.
			OrganizationAssignment: models.OrganizationAssignment{
				ID:     primitive.NewObjectID(),
				Email:  "v@x.com",
				Status: models.AssignmentDeclined,
			},
		},
	}

	r := lifecycle.NewRoster(views)
	if len(r) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(r))
	}
	if r[0].ID != aID.Hex() {
		t.Errorf("ID: got %q, want %q", r[0].ID, aID.Hex())
	}
	if r[0].OrganizationID != orgID.Hex() {
		t.Errorf("OrganizationID: got %q, want %q", r[0].OrganizationID, orgID.Hex())
	}
	if r[0].OrganizationName != "Acme Corp" {
		t.Errorf("OrganizationName: got %q, want %q", r[0].OrganizationName, "Acme Corp")
	}
	if r[1].OrganizationID != "" {
		t.Errorf("unlinked assignment OrganizationID: got %q, want empty", r[1].OrganizationID)
	}
}

func TestRoster_Lookups(t *testing.T) {
	r := lifecycle.Roster{
		{ID: "a1", Email: "u@x.com", OrganizationID: "org1"},
		{ID: "a2", Email: "v@x.com", OrganizationID: "org2"},
	}

	if a, found := r.ByID("a2"); !found || a.Email != "v@x.com" {
		t.Errorf("ByID(a2): got (%+v, %v)", a, found)
	}
	if a, found := r.ByID("missing"); found || !a.IsZero() {
		t.Errorf("ByID(missing): got (%+v, %v), want zero value and false", a, found)
	}
	if a, found := r.ByEmail("u@x.com"); !found || a.ID != "a1" {
		t.Errorf("ByEmail: got (%+v, %v)", a, found)
	}
	if _, found := r.ByEmail("nobody@x.com"); found {
		t.Error("ByEmail(nobody) should not be found")
	}
	if got := r.OrganizationIDOf("a1"); got != "org1" {
		t.Errorf("OrganizationIDOf(a1): got %q, want org1", got)
	}
	if got := r.OrganizationIDOf("missing"); got != "" {
		t.Errorf("OrganizationIDOf(missing): got %q, want empty", got)
	}
}
