package assignmentstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	assignmentstore "github.com/dalemusser/orgdesk/internal/app/store/assignments"
	"github.com/dalemusser/orgdesk/internal/domain/models"
	"github.com/dalemusser/orgdesk/internal/testutil"
)

func TestCreate_DefaultsToPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	org := fx.CreateOrganization(ctx, "Acme Corp")

	store := assignmentstore.New(db)
	a, err := store.Create(ctx, models.OrganizationAssignment{
		Email:                  "User@Test.com",
		BusinessOrganizationID: &org.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if a.Status != models.AssignmentPending {
		t.Errorf("status: got %q, want %q", a.Status, models.AssignmentPending)
	}
	if a.Email != "user@test.com" {
		t.Errorf("email not normalized: got %q", a.Email)
	}
	if a.ID.IsZero() {
		t.Error("expected assigned ID")
	}
}

func TestCreate_RejectsDuplicateInSameOrg(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	org := fx.CreateOrganization(ctx, "Acme Corp")

	store := assignmentstore.New(db)
	if _, err := store.Create(ctx, models.OrganizationAssignment{
		Email:                  "user@test.com",
		BusinessOrganizationID: &org.ID,
	}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	// Case-folded duplicate must be rejected too.
	_, err := store.Create(ctx, models.OrganizationAssignment{
		Email:                  "USER@test.com",
		BusinessOrganizationID: &org.ID,
	})
	if !errors.Is(err, assignmentstore.ErrAlreadyAssigned) {
		t.Errorf("expected ErrAlreadyAssigned, got %v", err)
	}
}

func TestCreate_AllowsSameEmailInDifferentOrg(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	org1 := fx.CreateOrganization(ctx, "Acme Corp")
	org2 := fx.CreateOrganization(ctx, "Globex")

	store := assignmentstore.New(db)
	if _, err := store.Create(ctx, models.OrganizationAssignment{
		Email:                  "user@test.com",
		BusinessOrganizationID: &org1.ID,
	}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.OrganizationAssignment{
		Email:                  "user@test.com",
		BusinessOrganizationID: &org2.ID,
	}); err != nil {
		t.Errorf("Create in second org failed: %v", err)
	}
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	org := fx.CreateOrganization(ctx, "Acme Corp")
	a := fx.CreatePendingAssignment(ctx, "user@test.com", org.ID)

	store := assignmentstore.New(db)
	if err := store.UpdateStatus(ctx, a.ID, "FROZEN"); !errors.Is(err, assignmentstore.ErrBadStatus) {
		t.Errorf("expected ErrBadStatus, got %v", err)
	}

	if err := store.UpdateStatus(ctx, a.ID, models.AssignmentApproved); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	got, err := store.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.AssignmentApproved {
		t.Errorf("status: got %q, want APPROVED", got.Status)
	}
}

func TestListByOrganization_JoinsOrgNameAndPersona(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	org := fx.CreateOrganization(ctx, "Acme Corp")
	fx.CreateClient(ctx, "Jo User", "user@test.com", nil)
	fx.CreatePendingAssignment(ctx, "user@test.com", org.ID)
	fx.CreateApprovedAssignment(ctx, "other@test.com", org.ID)

	store := assignmentstore.New(db)
	views, err := store.ListByOrganization(ctx, org.ID)
	if err != nil {
		t.Fatalf("ListByOrganization failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}

	var pending *models.AssignmentView
	for i := range views {
		if views[i].Email == "user@test.com" {
			pending = &views[i]
		}
	}
	if pending == nil {
		t.Fatal("pending assignment not in view list")
	}
	if pending.OrganizationName != "Acme Corp" {
		t.Errorf("organization_name: got %q, want %q", pending.OrganizationName, "Acme Corp")
	}
	if pending.PersonaEmail != "user@test.com" {
		t.Errorf("persona_email: got %q, want %q", pending.PersonaEmail, "user@test.com")
	}
}

func TestListPendingByEmail_FiltersStatusAndFoldsCase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	org1 := fx.CreateOrganization(ctx, "Acme Corp")
	org2 := fx.CreateOrganization(ctx, "Globex")
	fx.CreatePendingAssignment(ctx, "user@test.com", org1.ID)
	fx.CreateApprovedAssignment(ctx, "user@test.com", org2.ID)
	fx.CreatePendingAssignment(ctx, "other@test.com", org1.ID)

	store := assignmentstore.New(db)
	views, err := store.ListPendingByEmail(ctx, "USER@Test.com")
	if err != nil {
		t.Fatalf("ListPendingByEmail failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 pending view, got %d", len(views))
	}
	if views[0].Status != models.AssignmentPending {
		t.Errorf("status: got %q, want PENDING", views[0].Status)
	}
}

func TestGetApprovedByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	org := fx.CreateOrganization(ctx, "Acme Corp")

	store := assignmentstore.New(db)
	if _, err := store.GetApprovedByEmail(ctx, "user@test.com"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments before approval, got %v", err)
	}

	fx.CreateApprovedAssignment(ctx, "user@test.com", org.ID)

	got, err := store.GetApprovedByEmail(ctx, "user@test.com")
	if err != nil {
		t.Fatalf("GetApprovedByEmail failed: %v", err)
	}
	if got.BusinessOrganizationID == nil || *got.BusinessOrganizationID != org.ID {
		t.Error("approved assignment points at wrong organization")
	}
}

func TestDelete_ThenInsertRestores(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	org := fx.CreateOrganization(ctx, "Acme Corp")
	a := fx.CreateApprovedAssignment(ctx, "user@test.com", org.ID)

	store := assignmentstore.New(db)
	if err := store.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, a.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments after delete, got %v", err)
	}

	// Compensation path: re-insert the same document under its original id.
	if err := store.Insert(ctx, a); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	got, err := store.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID after restore failed: %v", err)
	}
	if got.Status != models.AssignmentApproved {
		t.Errorf("restored status: got %q, want APPROVED", got.Status)
	}
}

func TestUpdateRole_SetAndClear(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	org := fx.CreateOrganization(ctx, "Acme Corp")
	a := fx.CreateApprovedAssignment(ctx, "user@test.com", org.ID)

	store := assignmentstore.New(db)

	roleID := org.ID // any ObjectID works as a role reference here
	if err := store.UpdateRole(ctx, a.ID, &roleID); err != nil {
		t.Fatalf("UpdateRole set failed: %v", err)
	}
	got, _ := store.GetByID(ctx, a.ID)
	if got.RoleID == nil || *got.RoleID != roleID {
		t.Error("role_id not set")
	}

	if err := store.UpdateRole(ctx, a.ID, nil); err != nil {
		t.Fatalf("UpdateRole clear failed: %v", err)
	}
	got, _ = store.GetByID(ctx, a.ID)
	if got.RoleID != nil {
		t.Error("role_id not cleared")
	}
}
