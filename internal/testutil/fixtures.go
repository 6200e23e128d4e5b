package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/orgdesk/internal/app/system/normalize"
	"github.com/dalemusser/orgdesk/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateOrganization creates a test organization with the given name.
// Returns the created organization with its generated ID.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("organizations").InsertOne(ctx, org)
	if err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}

	return org
}

// CreateClient creates a test client. orgID may be nil for clients that do not
// belong to an organization yet.
func (f *Fixtures) CreateClient(ctx context.Context, fullName, email string, orgID *primitive.ObjectID) models.Client {
	f.t.Helper()

	now := time.Now().UTC()
	cl := models.Client{
		ID:             primitive.NewObjectID(),
		Email:          normalize.Email(email),
		FullName:       fullName,
		OrganizationID: orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := f.db.Collection("clients").InsertOne(ctx, cl)
	if err != nil {
		f.t.Fatalf("failed to create test client: %v", err)
	}

	return cl
}

// CreateOrgAdmin creates a test client flagged as an organization admin.
func (f *Fixtures) CreateOrgAdmin(ctx context.Context, fullName, email string, orgID primitive.ObjectID) models.Client {
	f.t.Helper()

	cl := f.CreateClient(ctx, fullName, email, &orgID)
	_, err := f.db.Collection("clients").UpdateByID(ctx, cl.ID,
		map[string]any{"$set": map[string]any{"is_org_admin": true}})
	if err != nil {
		f.t.Fatalf("failed to flag test client as org admin: %v", err)
	}
	cl.IsOrgAdmin = true
	return cl
}

// CreateAssignment creates a test assignment linking email to an organization
// with the given status (PENDING, APPROVED, or DECLINED).
func (f *Fixtures) CreateAssignment(ctx context.Context, email string, orgID primitive.ObjectID, status string) models.OrganizationAssignment {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.OrganizationAssignment{
		ID:                     primitive.NewObjectID(),
		Email:                  normalize.Email(email),
		BusinessOrganizationID: &orgID,
		Status:                 status,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	_, err := f.db.Collection("org_assignments").InsertOne(ctx, a)
	if err != nil {
		f.t.Fatalf("failed to create test assignment: %v", err)
	}

	return a
}

// CreatePendingAssignment creates a PENDING assignment.
func (f *Fixtures) CreatePendingAssignment(ctx context.Context, email string, orgID primitive.ObjectID) models.OrganizationAssignment {
	f.t.Helper()
	return f.CreateAssignment(ctx, email, orgID, models.AssignmentPending)
}

// CreateApprovedAssignment creates an APPROVED assignment.
func (f *Fixtures) CreateApprovedAssignment(ctx context.Context, email string, orgID primitive.ObjectID) models.OrganizationAssignment {
	f.t.Helper()
	return f.CreateAssignment(ctx, email, orgID, models.AssignmentApproved)
}
