package clientstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	clientstore "github.com/dalemusser/orgdesk/internal/app/store/clients"
	"github.com/dalemusser/orgdesk/internal/app/system/indexes"
	"github.com/dalemusser/orgdesk/internal/domain/models"
	"github.com/dalemusser/orgdesk/internal/testutil"
)

func TestCreate_NormalizesEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := clientstore.New(db)
	cl, err := store.Create(ctx, models.Client{
		Email:    "  User@Test.COM ",
		FullName: "Jo User",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if cl.Email != "user@test.com" {
		t.Errorf("email: got %q, want %q", cl.Email, "user@test.com")
	}

	got, err := store.GetByEmail(ctx, "USER@test.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != cl.ID {
		t.Error("GetByEmail returned a different client")
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// The unique index is what turns duplicates into errors.
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	store := clientstore.New(db)
	if _, err := store.Create(ctx, models.Client{Email: "user@test.com"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.Client{Email: "User@Test.com"})
	if !errors.Is(err, clientstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := clientstore.New(db)
	_, err := store.GetByEmail(ctx, "nobody@test.com")
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestSetOrganization_AndClear(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	org := fx.CreateOrganization(ctx, "Acme Corp")

	store := clientstore.New(db)
	cl, err := store.Create(ctx, models.Client{Email: "user@test.com"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetOrganization(ctx, cl.ID, &org.ID); err != nil {
		t.Fatalf("SetOrganization failed: %v", err)
	}
	got, _ := store.GetByID(ctx, cl.ID)
	if got.OrganizationID == nil || *got.OrganizationID != org.ID {
		t.Error("organization_id not set")
	}

	if err := store.ClearOrganization(ctx, cl.ID); err != nil {
		t.Fatalf("ClearOrganization failed: %v", err)
	}
	got, _ = store.GetByID(ctx, cl.ID)
	if got.OrganizationID != nil {
		t.Error("organization_id not cleared")
	}
	if got.IsOrgAdmin {
		t.Error("is_org_admin should be dropped with the membership")
	}
}

func TestSetOrganization_NilDetaches(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	org := fx.CreateOrganization(ctx, "Acme Corp")
	cl := fx.CreateClient(ctx, "Jo User", "user@test.com", &org.ID)

	store := clientstore.New(db)
	if err := store.SetOrganization(ctx, cl.ID, nil); err != nil {
		t.Fatalf("SetOrganization(nil) failed: %v", err)
	}

	got, err := store.GetByID(ctx, cl.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.OrganizationID != nil {
		t.Error("organization_id should be unset")
	}
}
